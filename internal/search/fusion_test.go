package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/storage"
)

func chunkFor(id string, ctype chunk.Type) chunk.Chunk {
	return chunk.Chunk{ID: id, FilePath: "a.go", ChunkType: ctype, Name: id, StartLine: 1, EndLine: 2}
}

func TestFuseLabelsHybridSemanticAndKeyword(t *testing.T) {
	sem := []storage.SearchHit{{Chunk: chunkFor("both", chunk.TypeFunction)}, {Chunk: chunkFor("sem-only", chunk.TypeFunction)}}
	kw := []storage.SearchHit{{Chunk: chunkFor("both", chunk.TypeFunction)}, {Chunk: chunkFor("kw-only", chunk.TypeFunction)}}

	results := fuse(sem, kw, 0.6, 60)
	byID := make(map[string]Result, len(results))
	for _, r := range results {
		byID[r.Chunk.ID] = r
	}

	require.Equal(t, MatchHybrid, byID["both"].MatchType)
	require.Equal(t, MatchSemantic, byID["sem-only"].MatchType)
	require.Equal(t, MatchKeyword, byID["kw-only"].MatchType)
}

func TestFuseScoreMatchesRRFFormula(t *testing.T) {
	sem := []storage.SearchHit{{Chunk: chunkFor("x", chunk.TypeFunction)}}
	kw := []storage.SearchHit{{Chunk: chunkFor("x", chunk.TypeFunction)}}

	results := fuse(sem, kw, 0.6, 60)
	require.Len(t, results, 1)

	want := 0.6/float64(60+0+1) + 0.4/float64(60+0+1)
	require.InDelta(t, want, results[0].Score, 1e-9)
}

func TestFuseRanksHigherLeadingPositionHigher(t *testing.T) {
	sem := []storage.SearchHit{
		{Chunk: chunkFor("first", chunk.TypeFunction)},
		{Chunk: chunkFor("second", chunk.TypeFunction)},
	}
	results := fuse(sem, nil, 0.6, 60)
	require.Equal(t, "first", results[0].Chunk.ID)
	require.Equal(t, "second", results[1].Chunk.ID)
}

func TestApplyRecencyRerankBoostsRecentChunk(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	recent := Result{Chunk: chunk.Chunk{IndexedAt: now.Add(-1 * time.Hour).Format(time.RFC3339)}, Score: 1.0}
	applyRecencyRerank(&recent, 0.2, 30, now)
	require.Greater(t, recent.Score, 1.0)
}

func TestApplyRecencyRerankIgnoresMissingTimestamp(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	r := Result{Chunk: chunk.Chunk{}, Score: 1.0}
	applyRecencyRerank(&r, 0.2, 30, now)
	require.Equal(t, 1.0, r.Score)
}

func TestApplyRecencyRerankNoopWhenWeightZero(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	r := Result{Chunk: chunk.Chunk{IndexedAt: now.Format(time.RFC3339)}, Score: 1.0}
	applyRecencyRerank(&r, 0, 30, now)
	require.Equal(t, 1.0, r.Score)
}

func TestApplyDocDemotionOnlyAffectsDocChunksOnCodeQuery(t *testing.T) {
	doc := Result{Chunk: chunk.Chunk{ChunkType: chunk.TypeDoc}, Score: 1.0}
	fn := Result{Chunk: chunk.Chunk{ChunkType: chunk.TypeFunction}, Score: 1.0}

	applyDocDemotion(&doc, 0.3, true)
	applyDocDemotion(&fn, 0.3, true)

	require.InDelta(t, 0.7, doc.Score, 1e-9)
	require.Equal(t, 1.0, fn.Score)
}

func TestApplyDocDemotionSkippedOnProseQuery(t *testing.T) {
	doc := Result{Chunk: chunk.Chunk{ChunkType: chunk.TypeDoc}, Score: 1.0}
	applyDocDemotion(&doc, 0.3, false)
	require.Equal(t, 1.0, doc.Score)
}
