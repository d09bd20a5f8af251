package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/parser"
)

// Test Plan:
// - combined clamps to [0,1] even with inputs far past the normalization caps
// - AnalyzeChunk returns zero for markdown content instead of erroring
// - AnalyzeFile weights chunks by line count, not chunk count
// - AnalyzeFile falls back to whole-file scoring when given no chunks

func TestCombined_ClampsToUnitRange(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, combined(1000, 1000, 1000), 0.0001)
	assert.Equal(t, 0.0, combined(0, 0, 0))
}

func TestAnalyzeChunk_MarkdownScoresZero(t *testing.T) {
	t.Parallel()

	score, err := AnalyzeChunk([]byte("# just docs\n\nno code here\n"), parser.Markdown)
	require.NoError(t, err)
	assert.Equal(t, Score{}, score)
}

func TestAnalyzeChunk_GoFunctionWithBranches(t *testing.T) {
	t.Parallel()

	src := `package p

func f(a, b int) int {
	if a > 0 && b > 0 {
		return a + b
	}
	return 0
}
`
	score, err := AnalyzeChunk([]byte(src), parser.Go)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score.Cyclomatic, 2, "if + logical-and should both count as branch points")
	assert.Greater(t, score.NodeCount, 0)
	assert.Greater(t, score.Combined, 0.0)
}

func TestAnalyzeFile_WeightsByLineCountNotChunkCount(t *testing.T) {
	t.Parallel()

	big := `package p

func big(a, b, c, d int) int {
	if a > 0 {
		if b > 0 {
			if c > 0 && d > 0 {
				return a
			}
		}
	}
	return 0
}
`
	small := `package p

func small() int { return 1 }
`

	chunks := []chunk.Chunk{
		{Content: big, StartLine: 1, EndLine: 11},
		{Content: small, StartLine: 1, EndLine: 3},
	}

	result, err := AnalyzeFile("f.go", []byte(big+small), parser.Go, chunks)
	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	assert.Greater(t, result.Chunks[0].Combined, result.Chunks[1].Combined)
	assert.Greater(t, result.Combined, result.Chunks[1].Combined)
}

func TestAnalyzeFile_NoChunksScoresWholeFile(t *testing.T) {
	t.Parallel()

	result, err := AnalyzeFile("f.go", []byte("package p\n\nfunc f() {}\n"), parser.Go, nil)
	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, result.Chunks[0].Combined, result.Combined)
}
