package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func tsChunkKinds() map[string]chunk.Type {
	return map[string]chunk.Type{
		"function_declaration":  chunk.TypeFunction,
		"class_declaration":     chunk.TypeClass,
		"method_definition":     chunk.TypeMethod,
		"interface_declaration": chunk.TypeInterface,
		"enum_declaration":      chunk.TypeEnum,
	}
}

func init() {
	registerLangSpec(&langSpec{
		id:            TypeScript,
		language:      func() *sitter.Language { return sitter.NewLanguage(tstypescript.LanguageTypescript()) },
		chunkKinds:    tsChunkKinds(),
		branchKinds:   jsLikeBranchKinds(),
		logicalChecks: jsLikeLogicalChecks(),
		importKinds:   jsLikeImportKinds(),
		specifierOf:   jsLikeSpecifierOf,
	})

	registerLangSpec(&langSpec{
		id:            TSX,
		language:      func() *sitter.Language { return sitter.NewLanguage(tstypescript.LanguageTSX()) },
		chunkKinds:    tsChunkKinds(),
		branchKinds:   jsLikeBranchKinds(),
		logicalChecks: jsLikeLogicalChecks(),
		importKinds:   jsLikeImportKinds(),
		specifierOf:   jsLikeSpecifierOf,
	})
}
