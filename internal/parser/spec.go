package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

// logicalCheck recognizes short-circuit boolean operators, which count as
// cyclomatic branch points alongside conditionals and loops.
type logicalCheck struct {
	kind          string
	operatorField string          // empty means every node of kind counts
	operators     map[string]bool // accepted operator token texts
}

func (c logicalCheck) matches(node *sitter.Node, source []byte) bool {
	if node.Kind() != c.kind {
		return false
	}
	if c.operatorField == "" {
		return true
	}
	opNode := node.ChildByFieldName(c.operatorField)
	if opNode == nil {
		return false
	}
	return c.operators[nodeText(opNode, source)]
}

// langSpec is the per-language table the spec requires: node kinds that
// become chunks, node kinds that count as branch points, and how to pull
// a declaration's name. One instance per supported grammar; the walking
// engine in treesitter.go is shared.
type langSpec struct {
	id         Language
	language   func() *sitter.Language
	chunkKinds map[string]chunk.Type
	// classify overrides chunkKinds for node kinds whose chunk type
	// depends on more than the kind itself (e.g. Go's type_spec).
	classify      func(node *sitter.Node, source []byte) (chunk.Type, bool)
	nameOf        func(node *sitter.Node, source []byte) string
	branchKinds   map[string]bool
	logicalChecks []logicalCheck
	importKinds   map[string]bool
	specifierOf   func(node *sitter.Node, source []byte) string
}

func (s *langSpec) kindOf(node *sitter.Node, source []byte) (chunk.Type, bool) {
	if s.classify != nil {
		if ct, ok := s.classify(node, source); ok {
			return ct, true
		}
	}
	ct, ok := s.chunkKinds[node.Kind()]
	return ct, ok
}

func (s *langSpec) resolveName(node *sitter.Node, source []byte) string {
	if s.nameOf != nil {
		if name := s.nameOf(node, source); name != "" {
			return name
		}
	}
	return defaultName(node, source)
}

func (s *langSpec) isBranchPoint(node *sitter.Node, source []byte) bool {
	if s.branchKinds[node.Kind()] {
		return true
	}
	for _, check := range s.logicalChecks {
		if check.matches(node, source) {
			return true
		}
	}
	return false
}

var langSpecs = map[Language]*langSpec{}

func registerLangSpec(spec *langSpec) {
	langSpecs[spec.id] = spec
}

// specFor returns the registered table for lang, or false if lang has no
// tree-sitter grammar wired in (markdown and unknown extensions use
// their own code paths).
func specFor(lang Language) (*langSpec, bool) {
	s, ok := langSpecs[lang]
	return s, ok
}
