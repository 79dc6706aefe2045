package config

import (
	"os"
	"testing"
	"time"

	"burrow/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	content := `
grammars_path = "./grammars"
scan_roots = ["./src"]

[exclude]
dirs = [".git"]
files = ["*.log"]

[viewport]
height = 12
list_height = 4

[ace]
keys = "asdf"
cancel_keys = "q"

[watch]
enabled = true
debounce = "1s"

[index]
path = ".burrow/index.db"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.GrammarsPath != "./grammars" {
		t.Errorf("Expected GrammarsPath ./grammars, got %s", cfg.GrammarsPath)
	}
	if cfg.Viewport.Height != 12 {
		t.Errorf("Expected height 12, got %d", cfg.Viewport.Height)
	}
	if cfg.Ace.Keys != "asdf" {
		t.Errorf("Expected ace keys asdf, got %s", cfg.Ace.Keys)
	}
	if !cfg.Watch.Enabled {
		t.Error("Expected watch enabled")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Index.Path != ".burrow/index.db" {
		t.Errorf("Expected index path, got %s", cfg.Index.Path)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Viewport.Height != 8 {
		t.Errorf("Expected default height 8, got %d", cfg.Viewport.Height)
	}
	if cfg.Viewport.ListHeight != 5 {
		t.Errorf("Expected default list height 5, got %d", cfg.Viewport.ListHeight)
	}
	if cfg.Ace.Keys != "asdfghjkl" {
		t.Errorf("Expected default ace keys, got %s", cfg.Ace.Keys)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.ScanRoots) != 1 || cfg.ScanRoots[0] != "." {
		t.Errorf("Expected default scan root, got %v", cfg.ScanRoots)
	}
}

func TestLoadRejectsDuplicateAceKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "[ace]\nkeys = \"aa\"\n"))
	if !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadRejectsCancelKeyCollision(t *testing.T) {
	_, err := Load(writeConfig(t, "[ace]\nkeys = \"asdf\"\ncancel_keys = \"a\"\n"))
	if !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
