// Package embedder defines bobbin's embedding contract. The embedder
// itself is treated as an external capability (spec §1) — this package
// only pins the interface and ships a deterministic mock used by tests
// and by callers that have not wired a real model.
package embedder

import "context"

// Mode distinguishes query embeddings from passage (chunk) embeddings,
// since some models apply asymmetric instructions to each.
type Mode string

const (
	ModeQuery   Mode = "query"
	ModePassage Mode = "passage"
)

// Provider converts batches of text into fixed-dimension vectors.
// Implementations must be deterministic: the same text and mode always
// produce the same vector (required for incremental-index idempotence).
type Provider interface {
	// Embed returns one L2-normalized vector per input text, in order.
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)

	// Dimensions reports the fixed vector length this provider produces.
	Dimensions() int

	// Close releases any resources (model handles, subprocess, client).
	Close() error
}
