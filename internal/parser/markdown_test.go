package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

const markdownSample = `# Title

Intro paragraph.

## Usage

` + "```go" + `
func main() {}
` + "```" + `

| Name | Kind |
| ---- | ---- |
| a    | b    |
`

func TestMarkdownParser_SplitsSectionsTablesAndCode(t *testing.T) {
	t.Parallel()

	p := NewMarkdownParser()
	chunks, err := p.ParseFile("doc.md", []byte(markdownSample))
	require.NoError(t, err)

	var sections, tables, code int
	for _, c := range chunks {
		switch c.ChunkType {
		case chunk.TypeSection:
			sections++
		case chunk.TypeTable:
			tables++
		case chunk.TypeCodeBlock:
			code++
			assert.Equal(t, "go", c.Name)
		}
	}
	assert.Equal(t, 2, sections, "expected one section per heading")
	assert.Equal(t, 1, tables)
	assert.Equal(t, 1, code)
}

func TestMarkdownParser_ExtractImportsIsNoop(t *testing.T) {
	t.Parallel()

	p := NewMarkdownParser()
	edges, err := p.ExtractImports("doc.md", []byte(markdownSample))
	require.NoError(t, err)
	assert.Nil(t, edges)
}
