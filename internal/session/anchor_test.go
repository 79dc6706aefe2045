package session

import (
	"os"
	"path/filepath"
	"testing"

	"burrow/internal/document"
)

func writeSource(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.go")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sessionOn(t *testing.T, e *Engine, tag Tag) *Session {
	t.Helper()
	s := e.NewSession(Tag{Path: tag.Path, Line: 1})
	if err := e.PushBranch(s, "sym", []Tag{tag}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestContentAtAnchor(t *testing.T) {
	path := writeSource(t, "package a\n\n// doc\nfunc Target() {}\n\nvar x int\n")
	pool := document.NewPool()
	e := NewEngine(pool, 2, 5)

	s := sessionOn(t, e, Tag{Path: path, Line: 4, Pattern: "func Target() {}"})

	content := e.Content(s)
	if len(content) != 2 {
		t.Fatalf("expected 2 content lines, got %d", len(content))
	}
	if content[0] != "func Target() {}" {
		t.Errorf("expected anchor line first, got %q", content[0])
	}
}

func TestContentSurvivesInsertBeforeAnchor(t *testing.T) {
	path := writeSource(t, "package a\n\nfunc Target() {}\n")
	pool := document.NewPool()
	e := NewEngine(pool, 1, 5)

	s := sessionOn(t, e, Tag{Path: path, Line: 3, Pattern: "func Target() {}"})

	before := e.Content(s)
	if before[0] != "func Target() {}" {
		t.Fatalf("unexpected initial content %q", before[0])
	}

	// Simulated edit: new text strictly before the anchored line.
	doc, err := pool.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	doc.InsertLines(1, "import \"fmt\"", "")

	after := e.Content(s)
	if after[0] != "func Target() {}" {
		t.Errorf("anchor did not survive the edit: got %q", after[0])
	}
}

func TestAnchorRecomputedAfterInvalidation(t *testing.T) {
	path := writeSource(t, "one\ntwo\nthree\n")
	pool := document.NewPool()
	e := NewEngine(pool, 1, 5)

	s := sessionOn(t, e, Tag{Path: path, Line: 2, Pattern: "two"})
	if got := e.Content(s); got[0] != "two" {
		t.Fatalf("unexpected content %q", got[0])
	}

	// The file changes on disk and the watcher drops the pooled copy.
	if err := os.WriteFile(path, []byte("zero\none\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pool.Invalidate(path)

	if got := e.Content(s); got[0] != "two" {
		t.Errorf("expected anchor recomputed against the reloaded file, got %q", got[0])
	}
}

func TestContentUnavailable(t *testing.T) {
	dir := t.TempDir()
	unreadable := filepath.Join(dir, "sub", "blocked.go")
	if err := os.MkdirAll(filepath.Dir(unreadable), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(unreadable, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(unreadable, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(unreadable, 0o644) })
	if os.Getuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	pool := document.NewPool()
	e := NewEngine(pool, 3, 5)
	s := sessionOn(t, e, Tag{Path: unreadable, Line: 1})

	content := e.Content(s)
	if len(content) != 1 || content[0] != UnavailablePlaceholder {
		t.Errorf("expected placeholder for unavailable document, got %v", content)
	}
}

func TestScrollLazyClamp(t *testing.T) {
	path := writeSource(t, "l1\nl2\nl3\nl4\nl5\n")
	pool := document.NewPool()
	e := NewEngine(pool, 1, 5)

	s := sessionOn(t, e, Tag{Path: path, Line: 3, Pattern: "l3"})

	// Two rapid scrolls accumulate an out-of-range offset; nothing clamps
	// until the next content fetch.
	if err := e.Scroll(s, -10); err != nil {
		t.Fatal(err)
	}
	if err := e.Scroll(s, -10); err != nil {
		t.Fatal(err)
	}
	if off, _ := s.LineOffset(); off != -20 {
		t.Fatalf("expected raw offset -20 before fetch, got %d", off)
	}

	content := e.Content(s)
	if content[0] != "l1" {
		t.Errorf("expected clamp to document start, got %q", content[0])
	}
	if off, _ := s.LineOffset(); off != -2 {
		t.Errorf("expected offset self-corrected to -2, got %d", off)
	}

	// And past the end.
	if err := e.Scroll(s, 100); err != nil {
		t.Fatal(err)
	}
	content = e.Content(s)
	if content[0] != "l5" {
		t.Errorf("expected clamp to document end, got %q", content[0])
	}
	if off, _ := s.LineOffset(); off != 2 {
		t.Errorf("expected offset self-corrected to 2, got %d", off)
	}
}

func TestScrollPersistsPerEntry(t *testing.T) {
	path := writeSource(t, "l1\nl2\nl3\nl4\n")
	pool := document.NewPool()
	e := NewEngine(pool, 1, 5)

	s := e.NewSession(Tag{Path: path, Line: 1})
	if err := e.PushBranch(s, "sym", []Tag{
		{Path: path, Line: 1, Pattern: "l1"},
		{Path: path, Line: 3, Pattern: "l3"},
	}); err != nil {
		t.Fatal(err)
	}

	if err := e.Scroll(s, 1); err != nil {
		t.Fatal(err)
	}
	if got := e.Content(s); got[0] != "l2" {
		t.Fatalf("expected scrolled content l2, got %q", got[0])
	}

	// The sibling entry keeps its own offset.
	if err := s.IndexForward(1); err != nil {
		t.Fatal(err)
	}
	if got := e.Content(s); got[0] != "l3" {
		t.Errorf("expected unscrolled sibling content l3, got %q", got[0])
	}

	if err := s.IndexForward(1); err != nil {
		t.Fatal(err)
	}
	if got := e.Content(s); got[0] != "l2" {
		t.Errorf("expected entry to remember its offset, got %q", got[0])
	}
}
