package search

import (
	"math"
	"sort"
	"time"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/storage"
)

// fusionEntry accumulates the two legs' rankings for one chunk id.
// A -1 rank means that leg never returned this chunk, per the spec's
// "a missing rank contributes zero" rule.
type fusionEntry struct {
	chunk   chunk.Chunk
	semRank int
	kwRank  int
}

// fuse combines the two ranked leg results into scored, labeled
// results via Reciprocal Rank Fusion. Ranks are 0-indexed internally;
// the +1 in the RRF denominator converts to the spec's 1-indexed rank.
func fuse(semantic, keyword []storage.SearchHit, semanticWeight float64, rrfK int) []Result {
	entries := make(map[string]*fusionEntry, len(semantic)+len(keyword))

	getOrCreate := func(c chunk.Chunk) *fusionEntry {
		e, ok := entries[c.ID]
		if !ok {
			e = &fusionEntry{chunk: c, semRank: -1, kwRank: -1}
			entries[c.ID] = e
		}
		return e
	}

	for rank, h := range semantic {
		getOrCreate(h.Chunk).semRank = rank
	}
	for rank, h := range keyword {
		getOrCreate(h.Chunk).kwRank = rank
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		var score float64
		if e.semRank >= 0 {
			score += semanticWeight / float64(rrfK+e.semRank+1)
		}
		if e.kwRank >= 0 {
			score += (1 - semanticWeight) / float64(rrfK+e.kwRank+1)
		}

		mt := MatchKeyword
		switch {
		case e.semRank >= 0 && e.kwRank >= 0:
			mt = MatchHybrid
		case e.semRank >= 0:
			mt = MatchSemantic
		}

		results = append(results, Result{Chunk: e.chunk, Score: score, MatchType: mt})
	}

	return resort(results)
}

// resort applies the same score-desc, id-asc ordering used after fuse
// to a results slice whose scores have since been adjusted by rerank
// passes.
func resort(results []Result) []Result {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
	return results
}

// applyRecencyRerank multiplies a result's score by a freshness boost
// when its chunk carries a parseable timestamp, per §4.G step 5.
func applyRecencyRerank(r *Result, weight, halfLifeDays float64, now time.Time) {
	if weight <= 0 || r.Chunk.IndexedAt == "" {
		return
	}
	ts, err := time.Parse(time.RFC3339, r.Chunk.IndexedAt)
	if err != nil {
		return
	}
	ageDays := now.Sub(ts).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	r.Score *= 1 + weight*math.Pow(2, -ageDays/halfLifeDays)
}

// docChunkTypes demotes prose-shaped chunks when the query reads as a
// code lookup, per §4.G step 6.
var docChunkTypes = map[chunk.Type]struct{}{
	chunk.TypeDoc:       {},
	chunk.TypeSection:   {},
	chunk.TypeTable:     {},
	chunk.TypeCodeBlock: {},
}

func applyDocDemotion(r *Result, demotion float64, queryIsCodeLike bool) {
	if demotion <= 0 || !queryIsCodeLike {
		return
	}
	if _, isDoc := docChunkTypes[r.Chunk.ChunkType]; isDoc {
		r.Score *= 1 - demotion
	}
}
