package analyze

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/embedder"
	"github.com/bobbinhq/bobbin/internal/storage"
)

// Analyzer runs the derived analyzers over a store and its embedder.
type Analyzer struct {
	store *storage.Store
	embed embedder.Provider
}

// New wires a store and embedder into an Analyzer.
func New(store *storage.Store, embed embedder.Provider) *Analyzer {
	return &Analyzer{store: store, embed: embed}
}

// signalEntry is one raw (signal, score, reason) contribution to a
// candidate file, before per-file merging.
type signalEntry struct {
	signal ImpactSignal
	score  float64
	reason string
}

// Impact predicts what else is affected by changing target ("file" or
// "file:function"), expanding transitively up to depth levels with a
// 0.5-per-level score decay.
func (a *Analyzer) Impact(ctx context.Context, target string, cfg ImpactConfig, depth int, repo string) ([]ImpactResult, error) {
	if depth < 1 {
		depth = 1
	}
	if depth > maxImpactDepth {
		depth = maxImpactDepth
	}
	const decayFactor = 0.5

	all := make(map[string]ImpactResult)
	visited := make(map[string]bool)
	current := []string{target}

	for level := 0; level < depth; level++ {
		decay := 1.0
		for i := 0; i < level; i++ {
			decay *= decayFactor
		}

		var next []string
		for _, t := range current {
			if visited[t] {
				continue
			}
			visited[t] = true

			results, err := a.impactSingle(ctx, t, cfg, repo)
			if err != nil {
				return nil, err
			}
			for _, r := range results {
				r.Score *= decay
				if r.Score < cfg.Threshold {
					continue
				}
				next = append(next, r.Path)
				if existing, ok := all[r.Path]; !ok || r.Score > existing.Score {
					all[r.Path] = r
				}
			}
		}
		current = next
		if len(current) == 0 {
			break
		}
	}

	out := make([]ImpactResult, 0, len(all))
	for _, r := range all {
		if r.Score >= cfg.Threshold {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	if cfg.Limit > 0 && len(out) > cfg.Limit {
		out = out[:cfg.Limit]
	}
	return out, nil
}

// impactSingle is one non-transitive pass over target's direct signals.
func (a *Analyzer) impactSingle(ctx context.Context, target string, cfg ImpactConfig, repo string) ([]ImpactResult, error) {
	filePath, funcName := parseTarget(target)

	signals := make(map[string][]signalEntry)

	if cfg.Mode == ImpactCoupling || cfg.Mode == ImpactCombined {
		if err := a.gatherCouplingSignal(filePath, repo, cfg, signals); err != nil {
			return nil, err
		}
	}
	if cfg.Mode == ImpactDeps || cfg.Mode == ImpactCombined {
		if err := a.gatherDepsSignal(filePath, repo, signals); err != nil {
			return nil, err
		}
	}
	if cfg.Mode == ImpactSemantic || cfg.Mode == ImpactCombined {
		if err := a.gatherSemanticSignal(ctx, filePath, funcName, cfg, repo, signals); err != nil {
			return nil, err
		}
	}

	results := mergeSignals(signals, cfg.Mode)
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func (a *Analyzer) gatherCouplingSignal(filePath, repo string, cfg ImpactConfig, signals map[string][]signalEntry) error {
	couplings, err := a.store.GetCoupling(repo, filePath, cfg.Limit)
	if err != nil {
		return err
	}
	if len(couplings) == 0 {
		return nil
	}

	maxScore := 0.0
	for _, c := range couplings {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}

	for _, c := range couplings {
		other := c.FileA // GetCoupling always reports the other file as FileA
		normalized := 0.0
		if maxScore > 0 {
			normalized = c.Score / maxScore
		}
		reason := fmt.Sprintf("Co-changed %d times (coupling score %.2f)", c.CoChanges, c.Score)
		signals[other] = append(signals[other], signalEntry{signal: SignalCoupling, score: normalized, reason: reason})
	}
	return nil
}

// gatherDepsSignal uses the resolved import graph: files the target
// imports, and files that import the target, both score 1.0 since the
// dependency edge itself is the signal (no weighting to normalize).
func (a *Analyzer) gatherDepsSignal(filePath, repo string, signals map[string][]signalEntry) error {
	imports, err := a.store.GetImports(repo, filePath)
	if err != nil {
		return err
	}
	for _, e := range imports {
		if e.Resolved == "" || strings.HasPrefix(e.Resolved, "unresolved:") {
			continue
		}
		reason := fmt.Sprintf("%s imports this file (via %q)", filePath, e.Specifier)
		signals[e.Resolved] = append(signals[e.Resolved], signalEntry{signal: SignalDependency, score: 1.0, reason: reason})
	}

	dependents, err := a.store.GetDependents(repo, filePath)
	if err != nil {
		return err
	}
	for _, e := range dependents {
		reason := fmt.Sprintf("%s depends on this file (via %q)", e.SourceFile, e.Specifier)
		signals[e.SourceFile] = append(signals[e.SourceFile], signalEntry{signal: SignalDependency, score: 1.0, reason: reason})
	}
	return nil
}

func (a *Analyzer) gatherSemanticSignal(ctx context.Context, filePath, funcName string, cfg ImpactConfig, repo string, signals map[string][]signalEntry) error {
	chunks, err := a.store.GetChunksForFile(repo, filePath)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	targetContent := chunks[0].Content
	if funcName != "" {
		for _, c := range chunks {
			if c.Name == funcName {
				targetContent = c.Content
				break
			}
		}
	}

	vecs, err := a.embed.Embed(ctx, []string{targetContent}, embedder.ModePassage)
	if err != nil {
		return err
	}

	searchLimit := cfg.Limit * 3
	if searchLimit <= 0 {
		searchLimit = 30
	}
	hits, err := a.store.VectorSearch(repo, chunk.Embedding(vecs[0]), searchLimit)
	if err != nil {
		return err
	}

	for _, h := range hits {
		if h.Chunk.FilePath == filePath {
			continue
		}
		label := h.Chunk.Name
		if label == "" {
			label = string(h.Chunk.ChunkType)
		}
		reason := fmt.Sprintf("Semantically similar (score %.3f, chunk: %s)", h.Score, label)
		signals[h.Chunk.FilePath] = append(signals[h.Chunk.FilePath], signalEntry{signal: SignalSemantic, score: h.Score, reason: reason})
	}
	return nil
}

// parseTarget splits "file:function" syntax, guarding against
// colon-bearing paths (e.g. Windows drive letters) by requiring the
// part after the last colon to contain no path separators.
func parseTarget(target string) (file, function string) {
	idx := strings.LastIndex(target, ":")
	if idx < 0 {
		return target, ""
	}
	candidate := target[idx+1:]
	if candidate == "" || strings.ContainsAny(candidate, "/\\") {
		return target, ""
	}
	return target[:idx], candidate
}

// mergeSignals collapses each file's raw signal entries into one
// ImpactResult. In Combined mode with more than one signal, it keeps
// the best score, labels the signal Combined, and concatenates reasons.
func mergeSignals(signals map[string][]signalEntry, mode ImpactMode) []ImpactResult {
	out := make([]ImpactResult, 0, len(signals))
	for path, entries := range signals {
		if len(entries) == 1 || mode != ImpactCombined {
			e := entries[0]
			out = append(out, ImpactResult{Path: path, Signal: e.signal, Score: e.score, Reason: e.reason})
			continue
		}

		best := entries[0]
		reasons := make([]string, len(entries))
		for i, e := range entries {
			reasons[i] = e.reason
			if e.score > best.score {
				best = e
			}
		}
		out = append(out, ImpactResult{
			Path:   path,
			Signal: SignalCombined,
			Score:  best.score,
			Reason: strings.Join(reasons, "; "),
		})
	}
	return out
}
