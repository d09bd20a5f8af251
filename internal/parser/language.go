// Package parser turns source files into semantic chunks. Each supported
// language contributes a table of AST node kinds to chunk types (see
// spec.md §4.A / §9): the walking logic is shared, the tables are not.
package parser

import (
	"path/filepath"
	"strings"
)

// Language identifies one of the grammars bobbin understands.
type Language string

const (
	Rust       Language = "rust"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	JavaScript Language = "javascript"
	Python     Language = "python"
	Go         Language = "go"
	Java       Language = "java"
	C          Language = "c"
	CPP        Language = "cpp"
	Markdown   Language = "markdown"
	Unknown    Language = ""
)

var extensionLanguage = map[string]Language{
	".rs":   Rust,
	".ts":   TypeScript,
	".tsx":  TSX,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".py":   Python,
	".go":   Go,
	".java": Java,
	".c":    C,
	".h":    C,
	".cc":   CPP,
	".cpp":  CPP,
	".cxx":  CPP,
	".hpp":  CPP,
	".hh":   CPP,
	".md":   Markdown,
	".mdx":  Markdown,
}

// DetectLanguage maps a file path's extension to a known Language. The
// second return value is false for unsupported extensions, signalling
// callers to fall back to the line-window chunker.
func DetectLanguage(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extensionLanguage[ext]
	return lang, ok
}
