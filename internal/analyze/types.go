// Package analyze implements the derived analyzers layered on top of
// the store and search engine: impact prediction, similarity/duplicate
// detection, and symbol reference resolution.
package analyze

import "github.com/bobbinhq/bobbin/internal/chunk"

// maxImpactDepth caps transitive impact expansion to keep a single
// analysis bounded regardless of caller input.
const maxImpactDepth = 3

// ImpactMode selects which signal(s) Impact gathers per level.
type ImpactMode string

const (
	ImpactCombined ImpactMode = "combined"
	ImpactCoupling ImpactMode = "coupling"
	ImpactSemantic ImpactMode = "semantic"
	ImpactDeps     ImpactMode = "deps"
)

// ImpactSignal records which signal produced an ImpactResult.
type ImpactSignal string

const (
	SignalCoupling   ImpactSignal = "coupling"
	SignalSemantic   ImpactSignal = "semantic"
	SignalDependency ImpactSignal = "dependency"
	SignalCombined   ImpactSignal = "combined"
)

// ImpactConfig parameterizes a single Impact call.
type ImpactConfig struct {
	Mode      ImpactMode
	Threshold float64
	Limit     int
}

// ImpactResult is one file predicted to be affected by a change to the
// analysis target.
type ImpactResult struct {
	Path   string
	Signal ImpactSignal
	Score  float64
	Reason string
}

// SimilarTarget is what FindSimilar searches for similar code to.
type SimilarTarget struct {
	// ChunkRef is a "file:name" reference to an indexed chunk. Takes
	// precedence over Text when both are set.
	ChunkRef string
	// Text is a free-text query, embedded directly.
	Text string
}

// SimilarResult is one chunk found similar to a SimilarTarget.
type SimilarResult struct {
	Chunk       chunk.Chunk
	Similarity  float64
	Explanation string
}

// DuplicateCluster groups chunks a duplicate scan found to be mutually
// near-identical.
type DuplicateCluster struct {
	Representative chunk.Chunk
	Members        []SimilarResult
	AvgSimilarity  float64
}

// SymbolDefinition is one chunk whose name exactly matches a looked-up
// symbol.
type SymbolDefinition struct {
	Name      string
	ChunkType chunk.Type
	FilePath  string
	StartLine int
	EndLine   int
	// Signature is the chunk's first line of content.
	Signature string
}

// SymbolUsage is one line of code referencing a symbol, outside its
// own definition.
type SymbolUsage struct {
	FilePath string
	Line     int
	Context  string
}

// SymbolRefs bundles a symbol's definition (if any) with its usages.
type SymbolRefs struct {
	Definition *SymbolDefinition
	Usages     []SymbolUsage
}
