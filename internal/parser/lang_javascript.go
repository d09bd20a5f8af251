package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsjavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func jsLikeBranchKinds() map[string]bool {
	return map[string]bool{
		"if_statement":      true,
		"for_statement":     true,
		"for_in_statement":  true,
		"while_statement":   true,
		"switch_statement":  true,
		"ternary_expression": true,
	}
}

func jsLikeLogicalChecks() []logicalCheck {
	return []logicalCheck{
		{kind: "binary_expression", operatorField: "operator", operators: map[string]bool{"&&": true, "||": true, "??": true}},
	}
}

func jsLikeImportKinds() map[string]bool {
	return map[string]bool{"import_statement": true}
}

func jsLikeSpecifierOf(node *sitter.Node, source []byte) string {
	src := node.ChildByFieldName("source")
	text := nodeText(src, source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func init() {
	registerLangSpec(&langSpec{
		id:       JavaScript,
		language: func() *sitter.Language { return sitter.NewLanguage(tsjavascript.Language()) },
		chunkKinds: map[string]chunk.Type{
			"function_declaration": chunk.TypeFunction,
			"class_declaration":    chunk.TypeClass,
			"method_definition":    chunk.TypeMethod,
		},
		branchKinds:   jsLikeBranchKinds(),
		logicalChecks: jsLikeLogicalChecks(),
		importKinds:   jsLikeImportKinds(),
		specifierOf:   jsLikeSpecifierOf,
	})
}
