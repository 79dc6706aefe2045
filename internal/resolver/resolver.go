// Package resolver turns "the identifier under the cursor" into candidate
// definition locations. The model consumes only the Resolver interface;
// the tree-sitter implementation here is the reference collaborator.
package resolver

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"burrow/internal/errors"
	"burrow/internal/observability"
	"burrow/internal/session"
)

// Resolver resolves the symbol at a document position into a list of
// candidate definition locations.
type Resolver interface {
	ResolveSymbolAt(path string, line, col int) (string, []session.Tag, error)
}

// Definition is one extracted definition site.
type Definition struct {
	Name      string
	Kind      string
	Signature string
	Path      string
	// Line is 1-based.
	Line int
	// Pattern is the trimmed source line, stored so anchors can
	// re-locate the definition after edits.
	Pattern string
}

type Extractor interface {
	Extract(root *sitter.Node, source []byte, path string) []Definition
}

// TreeSitter is a resolver backed by tree-sitter parses of the scan
// roots. Lookups hit the in-memory index first and fall back to the
// optional persistent index.
type TreeSitter struct {
	loader     *GrammarLoader
	extractors map[string]Extractor

	mu     sync.Mutex
	byFile map[string][]Definition
	byName map[string][]Definition

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	index *Index
}

// Option configures a TreeSitter resolver.
type Option func(*TreeSitter)

// WithExcludes installs glob patterns filtering scanned directories and
// files.
func WithExcludes(dirs, files []string) Option {
	return func(r *TreeSitter) {
		for _, p := range dirs {
			if g, err := glob.Compile(p); err == nil {
				r.excludeDirs = append(r.excludeDirs, g)
			}
		}
		for _, p := range files {
			if g, err := glob.Compile(p); err == nil {
				r.excludeFiles = append(r.excludeFiles, g)
			}
		}
	}
}

// WithIndex attaches a persistent symbol index.
func WithIndex(idx *Index) Option {
	return func(r *TreeSitter) { r.index = idx }
}

func NewTreeSitter(grammarsPath string, opts ...Option) (*TreeSitter, error) {
	loader, err := NewGrammarLoader(grammarsPath)
	if err != nil {
		return nil, err
	}
	r := &TreeSitter{
		loader:     loader,
		extractors: make(map[string]Extractor),
		byFile:     make(map[string][]Definition),
		byName:     make(map[string][]Definition),
	}
	r.extractors["go"] = &GoExtractor{}
	r.extractors["python"] = &PythonExtractor{}
	for _, opt := range opts {
		opt(r)
	}
	if r.index != nil {
		if err := r.warmFromIndex(); err != nil {
			slog.Warn("failed to warm resolver from persistent index", "error", err)
		}
	}
	return r, nil
}

func (r *TreeSitter) warmFromIndex() error {
	byFile, err := r.index.LoadAll()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for path, defs := range byFile {
		r.byFile[path] = defs
	}
	r.rebuildByName()
	return nil
}

// ScanRoots walks and indexes every supported file under the roots.
func (r *TreeSitter) ScanRoots(roots []string) error {
	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if r.excludedDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if r.excludedFile(path) || detectLanguage(path) == "" {
				return nil
			}
			if err := r.IndexFile(path); err != nil {
				slog.Warn("failed to index file", "path", path, "error", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *TreeSitter) excludedDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range r.excludeDirs {
		if g.Match(base) || g.Match(path) {
			return true
		}
	}
	return false
}

func (r *TreeSitter) excludedFile(path string) bool {
	base := filepath.Base(path)
	for _, g := range r.excludeFiles {
		if g.Match(base) || g.Match(path) {
			return true
		}
	}
	return false
}

// IndexFile parses one file and replaces its definitions in the index.
func (r *TreeSitter) IndexFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	defs, err := r.parse(abs, content)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.byFile[abs] = defs
	r.rebuildByName()
	r.mu.Unlock()

	if r.index != nil {
		if err := r.index.ReplaceFile(abs, defs); err != nil {
			slog.Warn("failed to persist definitions", "path", abs, "error", err)
		}
	}
	return nil
}

// RemoveFile drops a deleted file's definitions.
func (r *TreeSitter) RemoveFile(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	r.mu.Lock()
	delete(r.byFile, abs)
	r.rebuildByName()
	r.mu.Unlock()

	if r.index != nil {
		if err := r.index.DeleteFile(abs); err != nil {
			slog.Warn("failed to drop persisted definitions", "path", abs, "error", err)
		}
	}
}

func (r *TreeSitter) rebuildByName() {
	r.byName = make(map[string][]Definition, len(r.byName))
	for _, defs := range r.byFile {
		for _, d := range defs {
			r.byName[d.Name] = append(r.byName[d.Name], d)
		}
	}
}

func (r *TreeSitter) parse(path string, content []byte) ([]Definition, error) {
	lang := detectLanguage(path)
	if lang == "" {
		return nil, errors.Newf(errors.CodeValidation, "unsupported language for %s", path)
	}
	grammar := r.loader.Language(lang)
	if grammar == nil {
		return nil, errors.Newf(errors.CodeValidation, "grammar not loaded: %s", lang)
	}
	extractor := r.extractors[lang]
	if extractor == nil {
		return nil, errors.Newf(errors.CodeValidation, "no extractor for: %s", lang)
	}

	start := time.Now()
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.Newf(errors.CodeValidation, "parse failed: %s", path)
	}
	defer tree.Close()

	defs := extractor.Extract(tree.RootNode(), content, path)
	fillPatterns(defs, content)
	observability.ResolveDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	return defs, nil
}

// Lookup returns every known definition of name as location tags.
func (r *TreeSitter) Lookup(name string) []session.Tag {
	r.mu.Lock()
	defs := r.byName[name]
	r.mu.Unlock()

	if len(defs) == 0 && r.index != nil {
		if fromDisk, err := r.index.Lookup(name); err == nil {
			defs = fromDisk
		}
	}

	tags := make([]session.Tag, 0, len(defs))
	for _, d := range defs {
		tags = append(tags, session.Tag{
			Path:      d.Path,
			Line:      d.Line,
			Pattern:   d.Pattern,
			Name:      d.Name,
			Signature: d.Signature,
			Kind:      d.Kind,
		})
	}
	return tags
}

// ResolveSymbolAt finds the identifier at a 1-based line and 0-based
// column of path and returns its candidate definitions.
func (r *TreeSitter) ResolveSymbolAt(path string, line, col int) (string, []session.Tag, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.CodeUnavailable, "cannot read document")
	}

	symbol, err := r.identifierAt(abs, content, line, col)
	if err != nil {
		return "", nil, err
	}

	tags := r.Lookup(symbol)
	if len(tags) == 0 {
		return symbol, nil, errors.Newf(errors.CodeNotFound, "no definitions found for %q", symbol)
	}
	return symbol, tags, nil
}

func (r *TreeSitter) identifierAt(path string, content []byte, line, col int) (string, error) {
	lang := detectLanguage(path)
	if lang == "" {
		return "", errors.Newf(errors.CodeValidation, "unsupported language for %s", path)
	}
	grammar := r.loader.Language(lang)
	if grammar == nil {
		return "", errors.Newf(errors.CodeValidation, "grammar not loaded: %s", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return "", errors.Newf(errors.CodeValidation, "parse failed: %s", path)
	}
	defer tree.Close()

	node := deepestIdentifier(tree.RootNode(), uint(line-1), uint(col))
	if node == nil {
		return "", errors.New(errors.CodeNotFound, "no symbol at point")
	}
	return string(content[node.StartByte():node.EndByte()]), nil
}

// deepestIdentifier walks down to the smallest identifier-like node
// covering the 0-based point.
func deepestIdentifier(node *sitter.Node, row, col uint) *sitter.Node {
	if !covers(node, row, col) {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := deepestIdentifier(node.Child(i), row, col); found != nil {
			return found
		}
	}
	if isIdentifierKind(node.Kind()) {
		return node
	}
	return nil
}

func covers(node *sitter.Node, row, col uint) bool {
	start, end := node.StartPosition(), node.EndPosition()
	if row < start.Row || row > end.Row {
		return false
	}
	if row == start.Row && col < start.Column {
		return false
	}
	if row == end.Row && col >= end.Column {
		return false
	}
	return true
}

func isIdentifierKind(kind string) bool {
	switch kind {
	case "identifier", "type_identifier", "field_identifier", "package_identifier", "property_identifier":
		return true
	}
	return false
}

func detectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".py":
		return "python"
	case ".go":
		return "go"
	default:
		return ""
	}
}

func fillPatterns(defs []Definition, content []byte) {
	lines := strings.Split(string(content), "\n")
	for i := range defs {
		if defs[i].Line >= 1 && defs[i].Line <= len(lines) {
			defs[i].Pattern = strings.TrimRight(lines[defs[i].Line-1], "\r")
		}
	}
}
