package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/embedder"
	"github.com/bobbinhq/bobbin/internal/storage"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	db := storage.NewTestDB(t)
	store := storage.New(db, 384)

	chunks := []chunk.Chunk{
		{
			ID: "c1", FilePath: "parser.go", ChunkType: chunk.TypeFunction, Name: "ParseImports",
			StartLine: 1, EndLine: 10, Content: "func ParseImports parses import edges for a file",
			Language: "go", ContentHash: "h1",
		},
		{
			ID: "c2", FilePath: "docs/parsing.md", ChunkType: chunk.TypeDoc, Name: "ParsingDocs",
			StartLine: 1, EndLine: 5, Content: "Documentation about parsing strategy in prose form",
			Language: "markdown", ContentHash: "h2",
		},
	}
	embeds := []chunk.Embedding{
		unitVector(0), // c1
		unitVector(1), // c2
	}
	require.NoError(t, store.InsertChunks("", chunks, embeds, "2026-07-30T00:00:00Z"))

	return NewEngine(store, embedder.NewMockProvider(384))
}

func unitVector(axis int) chunk.Embedding {
	v := make(chunk.Embedding, 384)
	v[axis] = 1
	return v
}

func TestSearchLabelsHybridHitAboveSemanticOnlyHit(t *testing.T) {
	e := newTestEngine(t)

	results, err := e.Search(context.Background(), "ParseImports", Options{
		Limit: 10, SemanticWeight: 0.6, RRFK: 60, DocDemotion: 0.3,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "c1", results[0].Chunk.ID)
	require.Equal(t, MatchHybrid, results[0].MatchType)
	require.Equal(t, "c2", results[1].Chunk.ID)
	require.Equal(t, MatchSemantic, results[1].MatchType)
}

func TestSearchRespectsLimit(t *testing.T) {
	e := newTestEngine(t)

	results, err := e.Search(context.Background(), "parsing", Options{Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
}
