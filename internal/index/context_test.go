package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

func TestContextualizePadsWithSurroundingLines(t *testing.T) {
	fileLines := []string{
		"package demo",
		"",
		"// Add returns the sum of two ints.",
		"func Add(a, b int) int {",
		"\treturn a + b",
		"}",
		"",
	}
	c := chunk.Chunk{
		FilePath: "demo.go", StartLine: 4, EndLine: 6,
		Content: "func Add(a, b int) int {\n\treturn a + b\n}", Language: "go",
	}
	cfg := Config{ContextLines: 1, EnabledLanguages: []string{"go"}}

	got := contextualize(c, fileLines, cfg)
	require.Contains(t, got, "// Add returns the sum of two ints.")
	require.Contains(t, got, "func Add(a, b int) int {")
	require.Contains(t, got, "")
}

func TestContextualizeSkipsDisabledLanguage(t *testing.T) {
	fileLines := []string{"a", "b", "c"}
	c := chunk.Chunk{StartLine: 2, EndLine: 2, Content: "b", Language: "python"}
	cfg := Config{ContextLines: 1, EnabledLanguages: []string{"go"}}

	got := contextualize(c, fileLines, cfg)
	require.Equal(t, "b", got)
}

func TestContextualizeZeroContextLinesReturnsContentUnmodified(t *testing.T) {
	fileLines := []string{"a", "b", "c"}
	c := chunk.Chunk{StartLine: 2, EndLine: 2, Content: "b", Language: "go"}
	cfg := Config{ContextLines: 0, EnabledLanguages: []string{"go"}}

	got := contextualize(c, fileLines, cfg)
	require.Equal(t, "b", got)
}

func TestContextualizeClampsAtFileBounds(t *testing.T) {
	fileLines := []string{"only line"}
	c := chunk.Chunk{StartLine: 1, EndLine: 1, Content: "only line", Language: "go"}
	cfg := Config{ContextLines: 5, EnabledLanguages: []string{"go"}}

	got := contextualize(c, fileLines, cfg)
	require.Equal(t, "only line", got)
}
