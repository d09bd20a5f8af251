package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsgo "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func init() {
	registerLangSpec(&langSpec{
		id:       Go,
		language: func() *sitter.Language { return sitter.NewLanguage(tsgo.Language()) },
		chunkKinds: map[string]chunk.Type{
			"function_declaration": chunk.TypeFunction,
			"method_declaration":   chunk.TypeMethod,
		},
		// type_spec covers struct/interface/alias declarations alike in
		// the go grammar; disambiguate by the declared type's own kind.
		classify: func(node *sitter.Node, source []byte) (chunk.Type, bool) {
			if node.Kind() != "type_spec" {
				return "", false
			}
			typeNode := node.ChildByFieldName("type")
			if typeNode == nil {
				return "", false
			}
			switch typeNode.Kind() {
			case "struct_type":
				return chunk.TypeStruct, true
			case "interface_type":
				return chunk.TypeInterface, true
			}
			return "", false
		},
		branchKinds: map[string]bool{
			"if_statement":             true,
			"for_statement":            true,
			"expression_switch_statement": true,
			"type_switch_statement":    true,
			"select_statement":         true,
		},
		logicalChecks: []logicalCheck{
			{kind: "binary_expression", operatorField: "operator", operators: map[string]bool{"&&": true, "||": true}},
		},
		importKinds: map[string]bool{"import_spec": true},
		specifierOf: func(node *sitter.Node, source []byte) string {
			pathNode := node.ChildByFieldName("path")
			return strings.Trim(nodeText(pathNode, source), `"`)
		},
	})
}
