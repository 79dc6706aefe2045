package resolver

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, path string) []Definition {
	var defs []Definition
	e.walk(root, source, path, false, &defs)
	return defs
}

func (e *PythonExtractor) walk(node *sitter.Node, source []byte, path string, inClass bool, defs *[]Definition) {
	switch node.Kind() {
	case "function_definition":
		kind := "function"
		if inClass {
			kind = "method"
		}
		e.extractNamed(node, source, path, kind, defs)
	case "class_definition":
		e.extractNamed(node, source, path, "class", defs)
		inClass = true
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, path, inClass, defs)
	}
}

func (e *PythonExtractor) extractNamed(node *sitter.Node, source []byte, path, kind string, defs *[]Definition) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "identifier" {
			*defs = append(*defs, Definition{
				Name:      getText(child, source),
				Kind:      kind,
				Signature: signatureOf(node, source),
				Path:      path,
				Line:      int(node.StartPosition().Row) + 1,
			})
			return
		}
	}
}
