package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

// declaratorName unwraps pointer/function declarator wrappers down to
// the identifier, since C/C++ function and variable names hang off the
// innermost declarator rather than a flat "name" field.
func declaratorName(node *sitter.Node, source []byte) string {
	declarator := node.ChildByFieldName("declarator")
	for declarator != nil {
		switch declarator.Kind() {
		case "identifier", "field_identifier", "qualified_identifier", "destructor_name", "operator_name":
			return nodeText(declarator, source)
		}
		inner := declarator.ChildByFieldName("declarator")
		if inner == nil {
			break
		}
		declarator = inner
	}
	return ""
}

func cBranchKinds() map[string]bool {
	return map[string]bool{
		"if_statement":     true,
		"for_statement":    true,
		"while_statement":  true,
		"do_statement":     true,
		"switch_statement": true,
	}
}

func cLogicalChecks() []logicalCheck {
	return []logicalCheck{
		{kind: "binary_expression", operatorField: "operator", operators: map[string]bool{"&&": true, "||": true}},
	}
}

func init() {
	registerLangSpec(&langSpec{
		id:       C,
		language: func() *sitter.Language { return sitter.NewLanguage(tsc.Language()) },
		chunkKinds: map[string]chunk.Type{
			"function_definition": chunk.TypeFunction,
			"struct_specifier":    chunk.TypeStruct,
			"enum_specifier":      chunk.TypeEnum,
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
