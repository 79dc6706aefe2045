package document

import (
	"os"
	"path/filepath"
	"sync"

	"burrow/internal/errors"
	"burrow/internal/observability"
)

// Pool owns every document opened to peek at a file, keyed by absolute
// path. Documents stay resident until Invalidate or CloseAll; they are
// never dropped while a live anchor might still resolve into them.
type Pool struct {
	mu   sync.Mutex
	docs map[string]*Document
}

func NewPool() *Pool {
	return &Pool{docs: make(map[string]*Document)}
}

// Open returns the pooled document for path, loading it from disk on first
// use. A path that does not exist yields an empty buffer (open-or-create);
// any other read failure is reported as unavailable.
func (p *Pool) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "cannot resolve document path")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if doc, ok := p.docs[abs]; ok {
		return doc, nil
	}

	content, err := os.ReadFile(abs)
	if err != nil && !os.IsNotExist(err) {
		de := &errors.DomainError{Code: errors.CodeUnavailable, Message: "cannot open document", Err: err}
		return nil, de.WithContext(errors.CtxPath, abs)
	}

	doc := newDocument(abs, content)
	p.docs[abs] = doc
	observability.OpenDocuments.Set(float64(len(p.docs)))
	return doc, nil
}

// Lookup returns the pooled document for path without loading, or nil.
func (p *Pool) Lookup(path string) *Document {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.docs[abs]
}

// Invalidate drops the pooled document for path. Its markers become
// invalid and the next Open reloads the file under a fresh generation.
func (p *Pool) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if doc, ok := p.docs[abs]; ok {
		doc.closed = true
		delete(p.docs, abs)
		observability.OpenDocuments.Set(float64(len(p.docs)))
	}
}

// CloseAll tears the pool down. Only the owning machinery calls this, on
// shutdown.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for path, doc := range p.docs {
		doc.closed = true
		delete(p.docs, path)
	}
	observability.OpenDocuments.Set(0)
}

func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.docs)
}
