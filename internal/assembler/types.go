// Package assembler builds a budget-bounded context bundle from a
// query (or a caller-chosen set of seed chunks): direct hits from
// hybrid search, expanded with files that temporally couple to them,
// packed into a line budget without splitting any single chunk.
package assembler

import (
	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/config"
	"github.com/bobbinhq/bobbin/internal/search"
)

// ContentMode controls how much of a chunk's body is emitted.
type ContentMode string

const (
	ContentFull    ContentMode = "full"
	ContentPreview ContentMode = "preview"
	ContentNone    ContentMode = "none"
)

// Config parameterizes a single Assemble/AssembleFromSeeds call.
type Config struct {
	BudgetLines       int
	Depth             int
	MaxCoupled        int
	CouplingThreshold float64
	ContentMode       ContentMode
	SearchLimit       int

	SemanticWeight      float64
	DocDemotion         float64
	RecencyHalfLifeDays float64
	RecencyWeight       float64
	RRFK                int
}

// ConfigFromSearch builds a Config from a loaded search configuration
// section plus the assembler-specific knobs that have no config.toml
// counterpart.
func ConfigFromSearch(sc config.SearchConfig, budgetLines, depth, maxCoupled int, couplingThreshold float64, mode ContentMode, searchLimit int) Config {
	return Config{
		BudgetLines:         budgetLines,
		Depth:               depth,
		MaxCoupled:          maxCoupled,
		CouplingThreshold:   couplingThreshold,
		ContentMode:         mode,
		SearchLimit:         searchLimit,
		SemanticWeight:      sc.SemanticWeight,
		DocDemotion:         sc.DocDemotion,
		RecencyHalfLifeDays: sc.RecencyHalfLifeDays,
		RecencyWeight:       sc.RecencyWeight,
		RRFK:                sc.RRFK,
	}
}

func (c Config) searchOptions(repo string) search.Options {
	return search.Options{
		Limit:               c.SearchLimit,
		Repo:                repo,
		SemanticWeight:      c.SemanticWeight,
		RRFK:                c.RRFK,
		DocDemotion:         c.DocDemotion,
		RecencyHalfLifeDays: c.RecencyHalfLifeDays,
		RecencyWeight:       c.RecencyWeight,
	}
}

// ContextChunk is one admitted chunk, formatted per ContentMode.
type ContextChunk struct {
	Chunk   chunk.Chunk
	Content string
	Score   float64
}

// ContextFile groups admitted chunks by file, in start_line order.
type ContextFile struct {
	Path       string
	Relevance  string // "direct" or "coupled"
	CoupledTo  []string
	Chunks     []ContextChunk
}

// Budget reports the line budget and how much of it was used.
type Budget struct {
	MaxLines  int
	UsedLines int
}

// Summary gives bundle-level counts.
type Summary struct {
	TotalFiles        int
	TotalChunks       int
	DirectHits        int
	CoupledAdditions  int
}

// Bundle is the assembled context returned to the caller.
type Bundle struct {
	Query   string
	Files   []ContextFile
	Budget  Budget
	Summary Summary
}
