package parser

import "github.com/bobbinhq/bobbin/internal/chunk"

// Parser turns one file's content into semantic chunks and raw import
// edges. Implementations are stateful and, per spec §5, must not be
// shared across concurrent callers.
type Parser interface {
	ParseFile(path string, content []byte) ([]chunk.Chunk, error)
	ExtractImports(path string, content []byte) ([]chunk.ImportEdge, error)
	SupportsLanguage(lang Language) bool
}

// New returns the Parser for lang: a tree-sitter-backed parser for code
// grammars, the goldmark-backed parser for markdown. Callers that don't
// know whether an extension is supported should use DetectLanguage and
// fall back to NewFallbackParser for the "false" case.
func New(lang Language) (Parser, error) {
	if lang == Markdown {
		return NewMarkdownParser(), nil
	}
	return NewASTParser(lang)
}
