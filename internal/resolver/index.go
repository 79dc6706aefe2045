package resolver

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Index persists extracted definitions so large trees do not pay a full
// parse on every start. It is an optional warm cache; the in-memory maps
// stay authoritative for files indexed in this run.
type Index struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func OpenIndex(path string) (*Index, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("index path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("index path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts with watch-mode reindexing.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite index %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite index %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Index{path: cleanPath, db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS definitions (
  path TEXT NOT NULL,
  name TEXT NOT NULL,
  line INTEGER NOT NULL,
  kind TEXT NOT NULL DEFAULT '',
  signature TEXT NOT NULL DEFAULT '',
  pattern TEXT NOT NULL DEFAULT '',
  indexed_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
CREATE INDEX IF NOT EXISTS idx_definitions_name ON definitions(name);
CREATE INDEX IF NOT EXISTS idx_definitions_path ON definitions(path);
`)
	return err
}

// ReplaceFile swaps the stored definitions of one file in a single
// transaction.
func (ix *Index) ReplaceFile(path string, defs []Definition) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM definitions WHERE path = ?`, path); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
INSERT INTO definitions (path, name, line, kind, signature, pattern)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, d := range defs {
		if _, err := stmt.Exec(d.Path, d.Name, d.Line, d.Kind, d.Signature, d.Pattern); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteFile drops every stored definition of one file.
func (ix *Index) DeleteFile(path string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, err := ix.db.Exec(`DELETE FROM definitions WHERE path = ?`, path)
	return err
}

// Lookup returns the stored definitions of a symbol.
func (ix *Index) Lookup(name string) ([]Definition, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	rows, err := ix.db.Query(`
SELECT path, name, line, kind, signature, pattern
FROM definitions WHERE name = ? ORDER BY path, line`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDefinitions(rows)
}

// LoadAll returns every stored definition keyed by file, for warming the
// in-memory index at startup.
func (ix *Index) LoadAll() (map[string][]Definition, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	rows, err := ix.db.Query(`
SELECT path, name, line, kind, signature, pattern
FROM definitions ORDER BY path, line`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs, err := scanDefinitions(rows)
	if err != nil {
		return nil, err
	}
	byFile := make(map[string][]Definition)
	for _, d := range defs {
		byFile[d.Path] = append(byFile[d.Path], d)
	}
	return byFile, nil
}

func scanDefinitions(rows *sql.Rows) ([]Definition, error) {
	var defs []Definition
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.Path, &d.Name, &d.Line, &d.Kind, &d.Signature, &d.Pattern); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.db.Close()
}
