package parser

import (
	"strings"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

// fallbackWindowLines and fallbackOverlapLines bound the fixed-size window
// used for files in languages bobbin has no grammar for.
const (
	fallbackWindowLines  = 60
	fallbackOverlapLines = 10
)

// fallbackParser produces fixed-size, overlapping line-window chunks for
// any extension without a registered grammar. Windows carry no name and
// are always typed TypeOther, per the fallback contract.
type fallbackParser struct{}

// NewFallbackParser returns the window-based chunker used when no
// language-specific parser is registered for a file's extension.
func NewFallbackParser() Parser { return &fallbackParser{} }

func (p *fallbackParser) SupportsLanguage(lang Language) bool { return true }

func (p *fallbackParser) ParseFile(path string, content []byte) ([]chunk.Chunk, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, nil
	}

	step := fallbackWindowLines - fallbackOverlapLines
	if step <= 0 {
		step = fallbackWindowLines
	}

	var chunks []chunk.Chunk
	for start := 0; start < len(lines); start += step {
		end := start + fallbackWindowLines
		if end > len(lines) {
			end = len(lines)
		}
		startLine, endLine := start+1, end
		chunks = append(chunks, chunk.Chunk{
			ID:        chunk.NewID(path, startLine, endLine),
			FilePath:  path,
			ChunkType: chunk.TypeOther,
			StartLine: startLine,
			EndLine:   endLine,
			Content:   strings.Join(lines[start:end], "\n"),
		})
		if end == len(lines) {
			break
		}
	}
	return chunks, nil
}

func (p *fallbackParser) ExtractImports(path string, content []byte) ([]chunk.ImportEdge, error) {
	return nil, nil
}
