package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func init() {
	registerLangSpec(&langSpec{
		id:       Java,
		language: func() *sitter.Language { return sitter.NewLanguage(tsjava.Language()) },
		chunkKinds: map[string]chunk.Type{
			"class_declaration":     chunk.TypeClass,
			"interface_declaration": chunk.TypeInterface,
			"enum_declaration":      chunk.TypeEnum,
			"method_declaration":    chunk.TypeMethod,
		},
		branchKinds: map[string]bool{
			"if_statement":      true,
			"for_statement":     true,
			"enhanced_for_statement": true,
			"while_statement":   true,
			"do_statement":      true,
			"switch_expression": true,
		},
		logicalChecks: []logicalCheck{
			{kind: "binary_expression", operatorField: "operator", operators: map[string]bool{"&&": true, "||": true}},
		},
		importKinds: map[string]bool{"import_declaration": true},
		specifierOf: func(node *sitter.Node, source []byte) string {
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(uint(i))
				switch child.Kind() {
				case "scoped_identifier", "identifier":
					return nodeText(child, source)
				}
			}
			return ""
		},
	})
}
