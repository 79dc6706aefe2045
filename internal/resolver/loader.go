package resolver

import (
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"burrow/internal/errors"
)

// GrammarLoader holds the statically linked tree-sitter grammars.
type GrammarLoader struct {
	languages map[string]*sitter.Language
}

// NewGrammarLoader builds the grammar table. grammarsPath is reserved for
// externally compiled grammar artifacts; when set it must point at a
// directory.
func NewGrammarLoader(grammarsPath string) (*GrammarLoader, error) {
	if grammarsPath != "" {
		if info, err := os.Stat(grammarsPath); err == nil && !info.IsDir() {
			return nil, errors.Newf(errors.CodeValidation, "grammars path is not a directory: %s", grammarsPath)
		}
	}

	return &GrammarLoader{
		languages: map[string]*sitter.Language{
			"go":     sitter.NewLanguage(tree_sitter_go.Language()),
			"python": sitter.NewLanguage(tree_sitter_python.Language()),
		},
	}, nil
}

// Language returns the grammar for a language id, or nil if unsupported.
func (gl *GrammarLoader) Language(lang string) *sitter.Language {
	return gl.languages[lang]
}

// Supported lists the loaded language ids.
func (gl *GrammarLoader) Supported() []string {
	out := make([]string, 0, len(gl.languages))
	for lang := range gl.languages {
		out = append(out, lang)
	}
	return out
}
