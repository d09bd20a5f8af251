// Package search implements bobbin's hybrid retrieval: vector similarity
// and BM25 keyword search fused by Reciprocal Rank Fusion, with a
// recency rerank and a documentation-demotion pass layered on top.
package search

import (
	"time"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/config"
)

// MatchType records which leg(s) of hybrid search produced a result.
type MatchType string

const (
	MatchHybrid   MatchType = "hybrid"
	MatchSemantic MatchType = "semantic"
	MatchKeyword  MatchType = "keyword"
)

// Result is one ranked hit from Search.
type Result struct {
	Chunk     chunk.Chunk
	Score     float64
	MatchType MatchType
}

// Options configures a single Search call. Zero-value fields fall back
// to the defaults below rather than disabling the step they parameterize,
// except SemanticWeight, DocDemotion and RecencyWeight: a zero there is
// kept as given (pure keyword search, no doc demotion, no recency
// rerank), matching the spec's tunable weights.
type Options struct {
	Limit  int
	Repo   string

	SemanticWeight      float64
	RRFK                int
	DocDemotion         float64
	RecencyHalfLifeDays float64
	RecencyWeight       float64

	// Now fixes the recency rerank's reference time. Zero means
	// time.Now(); tests set this explicitly for determinism.
	Now time.Time
}

const (
	defaultLimit               = 10
	defaultRRFK                = 60
	defaultRecencyHalfLifeDays = 30
)

// withDefaults fills in the fields that have an unambiguous neutral
// value when the caller leaves them unset. SemanticWeight, DocDemotion,
// and RecencyWeight are knobs a caller may deliberately set to zero
// (pure keyword search, no doc demotion, no recency rerank), so those
// are left as given — callers should source them from config.Default()
// rather than rely on a silent fallback here.
func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.RRFK <= 0 {
		o.RRFK = defaultRRFK
	}
	if o.RecencyHalfLifeDays <= 0 {
		o.RecencyHalfLifeDays = defaultRecencyHalfLifeDays
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	return o
}

// OptionsFromConfig builds search Options from a loaded configuration's
// [search] section, the caller-supplied result limit, and an optional
// repo scope.
func OptionsFromConfig(cfg config.SearchConfig, limit int, repo string) Options {
	return Options{
		Limit:               limit,
		Repo:                repo,
		SemanticWeight:      cfg.SemanticWeight,
		RRFK:                cfg.RRFK,
		DocDemotion:         cfg.DocDemotion,
		RecencyHalfLifeDays: cfg.RecencyHalfLifeDays,
		RecencyWeight:       cfg.RecencyWeight,
	}
}
