package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extAst "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

// markdownParser chunks documentation by heading-delimited sections,
// plus standalone table and fenced code block chunks, per spec §4.A.
type markdownParser struct {
	md goldmark.Markdown
}

// NewMarkdownParser returns the goldmark-backed documentation parser.
func NewMarkdownParser() Parser {
	return &markdownParser{md: goldmark.New(goldmark.WithExtensions(extension.Table))}
}

func (p *markdownParser) SupportsLanguage(lang Language) bool { return lang == Markdown }

func (p *markdownParser) ParseFile(path string, content []byte) ([]chunk.Chunk, error) {
	lines := strings.Split(string(content), "\n")
	doc := p.md.Parser().Parse(text.NewReader(content))

	var chunks []chunk.Chunk
	var sectionName string
	sectionStart := 1

	flushSection := func(endLine int) {
		if endLine < sectionStart {
			return
		}
		body := strings.Join(lines[sectionStart-1:min(endLine, len(lines))], "\n")
		if strings.TrimSpace(body) == "" {
			return
		}
		chunks = append(chunks, chunk.Chunk{
			ID:        chunk.NewID(path, sectionStart, endLine),
			FilePath:  path,
			ChunkType: chunk.TypeSection,
			Name:      sectionName,
			StartLine: sectionStart,
			EndLine:   endLine,
			Content:   body,
			Language:  "markdown",
		})
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			start := lineOf(node, content)
			flushSection(start - 1)
			sectionName = headingText(node, content)
			sectionStart = start
		case *ast.FencedCodeBlock:
			start, end := blockLines(node, content)
			chunks = append(chunks, chunk.Chunk{
				ID:        chunk.NewID(path, start, end),
				FilePath:  path,
				ChunkType: chunk.TypeCodeBlock,
				Name:      string(node.Language(content)),
				StartLine: start,
				EndLine:   end,
				Content:   strings.Join(lines[start-1:min(end, len(lines))], "\n"),
				Language:  "markdown",
			})
		case *extAst.Table:
			start, end := blockLines(node, content)
			chunks = append(chunks, chunk.Chunk{
				ID:        chunk.NewID(path, start, end),
				FilePath:  path,
				ChunkType: chunk.TypeTable,
				StartLine: start,
				EndLine:   end,
				Content:   strings.Join(lines[start-1:min(end, len(lines))], "\n"),
				Language:  "markdown",
			})
		}
		return ast.WalkContinue, nil
	})

	flushSection(len(lines))
	return chunks, nil
}

func (p *markdownParser) ExtractImports(path string, content []byte) ([]chunk.ImportEdge, error) {
	return nil, nil
}

func headingText(h *ast.Heading, source []byte) string {
	return strings.TrimSpace(string(h.Text(source)))
}

func lineOf(n ast.Node, source []byte) int {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 1
	}
	seg := lines.At(0)
	return 1 + strings.Count(string(source[:seg.Start]), "\n")
}

func blockLines(n ast.Node, source []byte) (start, end int) {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 1, 1
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	start = 1 + strings.Count(string(source[:first.Start]), "\n")
	end = 1 + strings.Count(string(source[:last.Stop]), "\n")
	return start, end
}
