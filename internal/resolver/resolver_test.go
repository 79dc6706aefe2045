package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"burrow/internal/errors"
)

const goSample = `package sample

const Answer = 42

type Greeter struct{}

func (g *Greeter) Greet() string {
	return Hello()
}

func Hello() string {
	return "hello"
}
`

const pySample = `class Greeter:
    def greet(self):
        return hello()

def hello():
    return "hello"
`

func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sample.go"), []byte(goSample), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sample.py"), []byte(pySample), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "vendor"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "vendor", "skip.go"), []byte("package skip\n\nfunc Skipped() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestScanRootsAndLookup(t *testing.T) {
	dir := writeTree(t)
	r, err := NewTreeSitter("", WithExcludes([]string{"vendor"}, nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.ScanRoots([]string{dir}); err != nil {
		t.Fatal(err)
	}

	tags := r.Lookup("Hello")
	if len(tags) != 1 {
		t.Fatalf("expected 1 definition of Hello, got %d", len(tags))
	}
	if tags[0].Line != 11 {
		t.Errorf("expected Hello at line 11, got %d", tags[0].Line)
	}
	if tags[0].Pattern != "func Hello() string {" {
		t.Errorf("unexpected pattern %q", tags[0].Pattern)
	}
	if tags[0].Kind != "function" {
		t.Errorf("unexpected kind %q", tags[0].Kind)
	}

	if tags := r.Lookup("Greeter"); len(tags) != 1 || tags[0].Kind != "struct" {
		t.Errorf("expected Greeter as struct, got %v", tags)
	}
	if tags := r.Lookup("Greet"); len(tags) != 1 || tags[0].Kind != "method" {
		t.Errorf("expected Greet as method, got %v", tags)
	}
	if tags := r.Lookup("Answer"); len(tags) != 1 || tags[0].Kind != "const" {
		t.Errorf("expected Answer as const, got %v", tags)
	}

	// Python definitions from the same scan.
	if tags := r.Lookup("hello"); len(tags) != 1 || tags[0].Kind != "function" {
		t.Errorf("expected python hello function, got %v", tags)
	}
	if tags := r.Lookup("greet"); len(tags) != 1 || tags[0].Kind != "method" {
		t.Errorf("expected python greet method, got %v", tags)
	}

	// The vendor directory was excluded.
	if tags := r.Lookup("Skipped"); len(tags) != 0 {
		t.Errorf("expected vendor dir excluded, got %v", tags)
	}
}

func TestResolveSymbolAt(t *testing.T) {
	dir := writeTree(t)
	r, err := NewTreeSitter("")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.ScanRoots([]string{dir}); err != nil {
		t.Fatal(err)
	}

	// The Hello() call inside Greet, line 8 column 9.
	symbol, tags, err := r.ResolveSymbolAt(filepath.Join(dir, "sample.go"), 8, 9)
	if err != nil {
		t.Fatalf("ResolveSymbolAt failed: %v", err)
	}
	if symbol != "Hello" {
		t.Errorf("expected symbol Hello, got %q", symbol)
	}
	if len(tags) != 1 || tags[0].Line != 11 {
		t.Errorf("expected definition at line 11, got %v", tags)
	}
}

func TestResolveSymbolAtNoSymbol(t *testing.T) {
	dir := writeTree(t)
	r, err := NewTreeSitter("")
	if err != nil {
		t.Fatal(err)
	}

	// Line 2 is blank.
	_, _, err = r.ResolveSymbolAt(filepath.Join(dir, "sample.go"), 2, 0)
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not-found for blank line, got %v", err)
	}
}

func TestResolveSymbolAtNoDefinitions(t *testing.T) {
	dir := writeTree(t)
	r, err := NewTreeSitter("")
	if err != nil {
		t.Fatal(err)
	}
	// Nothing scanned: the identifier resolves but has no definitions.
	_, _, err = r.ResolveSymbolAt(filepath.Join(dir, "sample.go"), 8, 9)
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestIndexFileReplacesDefinitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	if err := os.WriteFile(path, []byte("package a\n\nfunc Old() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewTreeSitter("")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.IndexFile(path); err != nil {
		t.Fatal(err)
	}
	if len(r.Lookup("Old")) != 1 {
		t.Fatal("expected Old indexed")
	}

	if err := os.WriteFile(path, []byte("package a\n\nfunc New() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.IndexFile(path); err != nil {
		t.Fatal(err)
	}
	if len(r.Lookup("Old")) != 0 {
		t.Error("expected Old dropped after reindex")
	}
	if len(r.Lookup("New")) != 1 {
		t.Error("expected New indexed after reindex")
	}

	r.RemoveFile(path)
	if len(r.Lookup("New")) != 0 {
		t.Error("expected definitions dropped with the file")
	}
}
