package search

import (
	"context"
	"fmt"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/embedder"
	"github.com/bobbinhq/bobbin/internal/storage"
)

// Engine runs hybrid search over a single store, using a single
// embedding provider to produce query vectors for the semantic leg.
type Engine struct {
	store *storage.Store
	embed embedder.Provider
}

// NewEngine wires a store and an embedding provider into a search
// engine. Neither is owned by Engine; callers close both themselves.
func NewEngine(store *storage.Store, embed embedder.Provider) *Engine {
	return &Engine{store: store, embed: embed}
}

// Search runs vector and BM25 legs, fuses them by Reciprocal Rank
// Fusion, reranks for recency, demotes prose chunks on code-looking
// queries, and returns the top opts.Limit results.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	opts = opts.withDefaults()
	fetchN := opts.Limit * 2

	vecs, err := e.embed.Embed(ctx, []string{query}, embedder.ModeQuery)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("search: embedder returned %d vectors for 1 input", len(vecs))
	}

	semantic, err := e.store.VectorSearch(opts.Repo, chunk.Embedding(vecs[0]), fetchN)
	if err != nil {
		return nil, fmt.Errorf("search: vector search: %w", err)
	}

	keyword, err := e.store.FTSSearch(opts.Repo, PreprocessFTS(query), fetchN)
	if err != nil {
		return nil, fmt.Errorf("search: fts search: %w", err)
	}

	results := fuse(semantic, keyword, opts.SemanticWeight, opts.RRFK)

	codeQuery := looksLikeCodeQuery(query)
	for i := range results {
		applyRecencyRerank(&results[i], opts.RecencyWeight, opts.RecencyHalfLifeDays, opts.Now)
		applyDocDemotion(&results[i], opts.DocDemotion, codeQuery)
	}
	results = resort(results)

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}
