package document

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPoolOpenExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	if err := os.WriteFile(path, []byte("package a\n\nfunc A() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPool()
	doc, err := p.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if doc.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", doc.LineCount())
	}

	again, err := p.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if again != doc {
		t.Error("expected the same pooled document on second Open")
	}
	if p.Size() != 1 {
		t.Errorf("expected pool size 1, got %d", p.Size())
	}
}

func TestPoolOpenCreatesMissing(t *testing.T) {
	p := NewPool()
	doc, err := p.Open(filepath.Join(t.TempDir(), "missing.go"))
	if err != nil {
		t.Fatalf("expected open-or-create, got %v", err)
	}
	if doc.LineCount() != 1 || doc.Line(0) != "" {
		t.Errorf("expected a single empty line, got %d lines", doc.LineCount())
	}
}

func TestPoolInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	if err := os.WriteFile(path, []byte("one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPool()
	doc, err := p.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	m := doc.NewMarker(0)

	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p.Invalidate(path)

	if m.Valid() {
		t.Error("expected marker invalid after invalidation")
	}

	fresh, err := p.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if fresh == doc {
		t.Error("expected a fresh document after invalidation")
	}
	if fresh.Generation() == doc.Generation() {
		t.Error("expected a new generation token after invalidation")
	}
	if fresh.LineCount() != 2 {
		t.Errorf("expected reload with 2 lines, got %d", fresh.LineCount())
	}
}

func TestPoolCloseAll(t *testing.T) {
	dir := t.TempDir()
	p := NewPool()
	doc, err := p.Open(filepath.Join(dir, "x.go"))
	if err != nil {
		t.Fatal(err)
	}
	p.CloseAll()
	if p.Size() != 0 {
		t.Errorf("expected empty pool, got %d", p.Size())
	}
	if !doc.Closed() {
		t.Error("expected document closed after CloseAll")
	}
}
