package resolver

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type GoExtractor struct{}

func (e *GoExtractor) Extract(root *sitter.Node, source []byte, path string) []Definition {
	var defs []Definition
	e.walk(root, source, path, &defs)
	return defs
}

func (e *GoExtractor) walk(node *sitter.Node, source []byte, path string, defs *[]Definition) {
	switch node.Kind() {
	case "function_declaration":
		e.extractFunction(node, source, path, defs)
	case "method_declaration":
		e.extractMethod(node, source, path, defs)
	case "type_declaration":
		e.extractType(node, source, path, defs)
	case "const_declaration", "var_declaration":
		e.extractValueDecl(node, source, path, defs)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, path, defs)
	}
}

func (e *GoExtractor) extractFunction(node *sitter.Node, source []byte, path string, defs *[]Definition) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "identifier" {
			*defs = append(*defs, Definition{
				Name:      getText(child, source),
				Kind:      "function",
				Signature: signatureOf(node, source),
				Path:      path,
				Line:      int(node.StartPosition().Row) + 1,
			})
			return
		}
	}
}

func (e *GoExtractor) extractMethod(node *sitter.Node, source []byte, path string, defs *[]Definition) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "field_identifier" {
			*defs = append(*defs, Definition{
				Name:      getText(child, source),
				Kind:      "method",
				Signature: signatureOf(node, source),
				Path:      path,
				Line:      int(node.StartPosition().Row) + 1,
			})
			return
		}
	}
}

func (e *GoExtractor) extractType(node *sitter.Node, source []byte, path string, defs *[]Definition) {
	for i := uint(0); i < node.ChildCount(); i++ {
		spec := node.Child(i)
		if spec.Kind() != "type_spec" {
			continue
		}
		kind := "type"
		var name string
		for j := uint(0); j < spec.ChildCount(); j++ {
			child := spec.Child(j)
			switch child.Kind() {
			case "type_identifier":
				if name == "" {
					name = getText(child, source)
				}
			case "interface_type":
				kind = "interface"
			case "struct_type":
				kind = "struct"
			}
		}
		if name != "" {
			*defs = append(*defs, Definition{
				Name:      name,
				Kind:      kind,
				Signature: signatureOf(spec, source),
				Path:      path,
				Line:      int(spec.StartPosition().Row) + 1,
			})
		}
	}
}

func (e *GoExtractor) extractValueDecl(node *sitter.Node, source []byte, path string, defs *[]Definition) {
	// Only package-level consts and vars are jump targets.
	if parent := node.Parent(); parent == nil || parent.Kind() != "source_file" {
		return
	}
	kind := "var"
	if node.Kind() == "const_declaration" {
		kind = "const"
	}
	var walkSpecs func(*sitter.Node)
	walkSpecs = func(n *sitter.Node) {
		if n.Kind() == "const_spec" || n.Kind() == "var_spec" {
			for i := uint(0); i < n.ChildCount(); i++ {
				child := n.Child(i)
				if child.Kind() == "identifier" {
					*defs = append(*defs, Definition{
						Name:      getText(child, source),
						Kind:      kind,
						Signature: signatureOf(n, source),
						Path:      path,
						Line:      int(n.StartPosition().Row) + 1,
					})
				}
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walkSpecs(n.Child(i))
		}
	}
	walkSpecs(node)
}

func getText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// signatureOf keeps the first line of the node's text, trimmed of the
// opening brace.
func signatureOf(node *sitter.Node, source []byte) string {
	text := getText(node, source)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "{")
	return strings.TrimSpace(text)
}
