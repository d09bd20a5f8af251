package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tspython "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func init() {
	registerLangSpec(&langSpec{
		id:       Python,
		language: func() *sitter.Language { return sitter.NewLanguage(tspython.Language()) },
		chunkKinds: map[string]chunk.Type{
			"function_definition": chunk.TypeFunction,
			"class_definition":    chunk.TypeClass,
		},
		branchKinds: map[string]bool{
			"if_statement":    true,
			"for_statement":   true,
			"while_statement": true,
			"match_statement": true,
		},
		logicalChecks: []logicalCheck{
			{kind: "boolean_operator"},
		},
		importKinds: map[string]bool{"import_statement": true, "import_from_statement": true},
		specifierOf: func(node *sitter.Node, source []byte) string {
			switch node.Kind() {
			case "import_statement":
				if child := findDescendant(node, "dotted_name", "aliased_import"); child != nil {
					return strings.TrimSpace(nodeText(child, source))
				}
			case "import_from_statement":
				if mod := node.ChildByFieldName("module_name"); mod != nil {
					return strings.TrimSpace(nodeText(mod, source))
				}
			}
			return ""
		},
	})
}
