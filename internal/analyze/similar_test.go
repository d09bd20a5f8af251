package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/embedder"
	"github.com/bobbinhq/bobbin/internal/storage"
)

func negUnitVector(axis int) chunk.Embedding {
	v := make(chunk.Embedding, 384)
	v[axis] = -1
	return v
}

func newSimilarityAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	db := storage.NewTestDB(t)
	store := storage.New(db, 384)

	chunks := []chunk.Chunk{
		{ID: "orig", FilePath: "a.go", ChunkType: chunk.TypeFunction, Name: "Sum", StartLine: 1, EndLine: 5, Content: "func Sum(a, b int) int { return a + b }", Language: "go", ContentHash: "h1"},
		{ID: "dup", FilePath: "b.go", ChunkType: chunk.TypeFunction, Name: "Add", StartLine: 1, EndLine: 5, Content: "func Add(a, b int) int { return a + b }", Language: "go", ContentHash: "h2"},
		{ID: "other", FilePath: "c.go", ChunkType: chunk.TypeFunction, Name: "Unrelated", StartLine: 1, EndLine: 5, Content: "func Unrelated() {}", Language: "go", ContentHash: "h3"},
	}
	// orig and dup share an axis (near-duplicate); other points the
	// opposite way on that same axis, so it is maximally dissimilar
	// from both rather than merely orthogonal.
	embeds := []chunk.Embedding{
		unitVector(0),
		unitVector(0),
		negUnitVector(0),
	}
	require.NoError(t, store.InsertChunks("", chunks, embeds, "2026-07-30T00:00:00Z"))

	return New(store, embedder.NewMockProvider(384))
}

func TestFindSimilarByChunkRefExcludesSelf(t *testing.T) {
	a := newSimilarityAnalyzer(t)

	results, err := a.FindSimilar(context.Background(), SimilarTarget{ChunkRef: "a.go:Sum"}, 0.5, 10, "")
	require.NoError(t, err)
	for _, r := range results {
		require.NotEqual(t, "orig", r.Chunk.ID)
	}
	require.NotEmpty(t, results)
	require.Equal(t, "dup", results[0].Chunk.ID)
}

func TestFindSimilarByText(t *testing.T) {
	a := newSimilarityAnalyzer(t)

	results, err := a.FindSimilar(context.Background(), SimilarTarget{Text: "addition helper"}, 0.0, 2, "")
	require.NoError(t, err)
	require.LessOrEqual(t, len(results), 2)
}

func TestFindSimilarThresholdExcludesDistantMatches(t *testing.T) {
	a := newSimilarityAnalyzer(t)

	results, err := a.FindSimilar(context.Background(), SimilarTarget{ChunkRef: "a.go:Sum"}, 1.1, 10, "")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestParseChunkRefValid(t *testing.T) {
	file, name, err := parseChunkRef("src/handlers/auth.go:VerifyToken")
	require.NoError(t, err)
	require.Equal(t, "src/handlers/auth.go", file)
	require.Equal(t, "VerifyToken", name)
}

func TestParseChunkRefMissingColonIsError(t *testing.T) {
	_, _, err := parseChunkRef("src/main.go")
	require.Error(t, err)
}

func TestParseChunkRefEmptyNameIsError(t *testing.T) {
	_, _, err := parseChunkRef("src/main.go:")
	require.Error(t, err)
}

func TestScanDuplicatesFindsNearDuplicateCluster(t *testing.T) {
	a := newSimilarityAnalyzer(t)

	clusters, err := a.ScanDuplicates(context.Background(), 0.5, 10, "")
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Members, 1) // representative + 1 member = the orig/dup pair
}

func TestScanDuplicatesThresholdAboveMaxScoreYieldsNoClusters(t *testing.T) {
	a := newSimilarityAnalyzer(t)

	// 1.0 is the ceiling a zero-distance match can score; anything
	// above it can never be met, so no pair ever clusters.
	clusters, err := a.ScanDuplicates(context.Background(), 1.5, 10, "")
	require.NoError(t, err)
	require.Empty(t, clusters)
}

func TestUnionFindClustersTransitively(t *testing.T) {
	uf := newUnionFind(4)
	uf.union(0, 1)
	uf.union(1, 2)
	require.Equal(t, uf.find(0), uf.find(2))
	require.NotEqual(t, uf.find(0), uf.find(3))
}
