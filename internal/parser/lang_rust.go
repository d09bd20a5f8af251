package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func init() {
	registerLangSpec(&langSpec{
		id:       Rust,
		language: func() *sitter.Language { return sitter.NewLanguage(tsrust.Language()) },
		chunkKinds: map[string]chunk.Type{
			"function_item": chunk.TypeFunction,
			"impl_item":     chunk.TypeImpl,
			"struct_item":   chunk.TypeStruct,
			"enum_item":     chunk.TypeEnum,
			"trait_item":    chunk.TypeTrait,
			"mod_item":      chunk.TypeModule,
		},
		branchKinds: map[string]bool{
			"if_expression":    true,
			"match_expression": true,
			"for_expression":   true,
			"while_expression": true,
			"loop_expression":  true,
		},
		logicalChecks: []logicalCheck{
			{kind: "binary_expression", operatorField: "operator", operators: map[string]bool{"&&": true, "||": true}},
		},
		importKinds: map[string]bool{"use_declaration": true},
		specifierOf: func(node *sitter.Node, source []byte) string {
			return nodeText(node.ChildByFieldName("argument"), source)
		},
	})
}
