package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tscpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func init() {
	registerLangSpec(&langSpec{
		id:       CPP,
		language: func() *sitter.Language { return sitter.NewLanguage(tscpp.Language()) },
		chunkKinds: map[string]chunk.Type{
			"function_definition":  chunk.TypeFunction,
			"class_specifier":      chunk.TypeClass,
			"struct_specifier":     chunk.TypeStruct,
			"enum_specifier":       chunk.TypeEnum,
			"namespace_definition": chunk.TypeModule,
		},
		nameOf:        declaratorName,
		branchKinds:   cBranchKinds(),
		logicalChecks: cLogicalChecks(),
		importKinds:   map[string]bool{"preproc_include": true},
		specifierOf: func(node *sitter.Node, source []byte) string {
			path := node.ChildByFieldName("path")
			text := nodeText(path, source)
			if len(text) >= 2 {
				return text[1 : len(text)-1]
			}
			return text
		},
	})
}
