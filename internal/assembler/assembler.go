package assembler

import (
	"context"
	"sort"
	"strings"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/search"
	"github.com/bobbinhq/bobbin/internal/storage"
)

// Assembler builds ContextBundles from a store and a search engine
// over that same store.
type Assembler struct {
	store  *storage.Store
	search *search.Engine
}

// New wires a store and search engine into an Assembler. Neither is
// owned by Assembler; callers close both themselves.
func New(store *storage.Store, engine *search.Engine) *Assembler {
	return &Assembler{store: store, search: engine}
}

// scoredChunk pairs a chunk with the relevance score that earned it a
// place among the seeds, before coupling expansion.
type scoredChunk struct {
	chunk chunk.Chunk
	score float64
}

// Assemble runs Hybrid Search for query, expands by temporal coupling,
// and packs the result into cfg.BudgetLines.
func (a *Assembler) Assemble(ctx context.Context, query, repo string, cfg Config) (*Bundle, error) {
	results, err := a.search.Search(ctx, query, cfg.searchOptions(repo))
	if err != nil {
		return nil, err
	}

	seeds := make(map[string][]scoredChunk)
	for _, r := range results {
		seeds[r.Chunk.FilePath] = append(seeds[r.Chunk.FilePath], scoredChunk{chunk: r.Chunk, score: r.Score})
	}
	return a.assemble(query, repo, cfg, seeds)
}

// AssembleFromSeeds skips Hybrid Search and runs Phases 2-4 directly
// over caller-chosen seed chunks (used by code review over a diff).
// Seeds retain the caller's ordering as a descending priority score,
// since they carry no search-derived rank of their own.
func (a *Assembler) AssembleFromSeeds(description string, seedChunks []chunk.Chunk, repo string, cfg Config) (*Bundle, error) {
	seeds := make(map[string][]scoredChunk)
	for i, c := range seedChunks {
		seeds[c.FilePath] = append(seeds[c.FilePath], scoredChunk{chunk: c, score: 1.0 / float64(i+1)})
	}
	return a.assemble(description, repo, cfg, seeds)
}

type coupledFile struct {
	path      string
	score     float64
	coupledTo []string
	chunks    []chunk.Chunk
}

func (a *Assembler) assemble(query, repo string, cfg Config, seeds map[string][]scoredChunk) (*Bundle, error) {
	seedFiles := make(map[string]bool, len(seeds))
	seedOrder := make([]string, 0, len(seeds))
	for path := range seeds {
		seedFiles[path] = true
		seedOrder = append(seedOrder, path)
	}
	sort.Strings(seedOrder) // deterministic input order to the coupling expansion below

	coupled, err := a.expandCoupling(repo, cfg, seedFiles, seedOrder)
	if err != nil {
		return nil, err
	}

	directFiles := sortedSeedFiles(seeds)
	coupledFiles := sortedCoupledFiles(coupled)

	bundle := &Bundle{Query: query, Budget: Budget{MaxLines: cfg.BudgetLines}}
	admitted := make(map[string]bool)

	for _, f := range directFiles {
		cf := packFile(f.path, "direct", nil, chunksOf(f.chunks), cfg, bundle, admitted)
		if cf != nil {
			bundle.Files = append(bundle.Files, *cf)
			bundle.Summary.DirectHits += len(cf.Chunks)
		}
	}
	for _, f := range coupledFiles {
		cf := packFile(f.path, "coupled", f.coupledTo, unscoredChunks(f.chunks, f.score), cfg, bundle, admitted)
		if cf != nil {
			bundle.Files = append(bundle.Files, *cf)
			bundle.Summary.CoupledAdditions += len(cf.Chunks)
		}
	}

	bundle.Summary.TotalFiles = len(bundle.Files)
	for _, f := range bundle.Files {
		bundle.Summary.TotalChunks += len(f.Chunks)
	}
	return bundle, nil
}

// expandCoupling is Phase 2: for each seed file, fetch its top
// max_coupled coupling pairs and bring in the other file's chunks,
// skipping files already present as seeds.
func (a *Assembler) expandCoupling(repo string, cfg Config, seedFiles map[string]bool, seedOrder []string) (map[string]*coupledFile, error) {
	if cfg.Depth <= 0 {
		return nil, nil
	}

	cache := newCouplingCache(a.store)
	out := make(map[string]*coupledFile)

	for _, seedFile := range seedOrder {
		pairs, err := cache.get(repo, seedFile, cfg.MaxCoupled)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			if p.Score < cfg.CouplingThreshold {
				continue
			}
			other := p.FileA
			if seedFiles[other] {
				continue
			}

			cf, ok := out[other]
			if !ok {
				chunks, err := a.store.GetChunksForFile(repo, other)
				if err != nil {
					return nil, err
				}
				cf = &coupledFile{path: other, score: p.Score, chunks: chunks}
				out[other] = cf
			} else if p.Score > cf.score {
				cf.score = p.Score
			}
			cf.coupledTo = appendUnique(cf.coupledTo, seedFile)
		}
	}
	return out, nil
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

type seedFile struct {
	path      string
	maxScore  float64
	chunks    []scoredChunk
}

func sortedSeedFiles(seeds map[string][]scoredChunk) []seedFile {
	files := make([]seedFile, 0, len(seeds))
	for path, chunks := range seeds {
		sort.Slice(chunks, func(i, j int) bool { return chunks[i].chunk.StartLine < chunks[j].chunk.StartLine })
		max := 0.0
		for _, c := range chunks {
			if c.score > max {
				max = c.score
			}
		}
		files = append(files, seedFile{path: path, maxScore: max, chunks: chunks})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].maxScore != files[j].maxScore {
			return files[i].maxScore > files[j].maxScore
		}
		return files[i].path < files[j].path
	})
	return files
}

func sortedCoupledFiles(coupled map[string]*coupledFile) []*coupledFile {
	files := make([]*coupledFile, 0, len(coupled))
	for _, cf := range coupled {
		sort.Slice(cf.chunks, func(i, j int) bool { return cf.chunks[i].StartLine < cf.chunks[j].StartLine })
		files = append(files, cf)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].score != files[j].score {
			return files[i].score > files[j].score
		}
		return files[i].path < files[j].path
	})
	return files
}

func chunksOf(scored []scoredChunk) []scoredAndPlain {
	out := make([]scoredAndPlain, len(scored))
	for i, s := range scored {
		out[i] = scoredAndPlain{chunk: s.chunk, score: s.score}
	}
	return out
}

// scoredAndPlain lets packFile treat direct (scored) and coupled
// (unscored, scored via their file's coupling strength) chunks through
// one admission loop.
type scoredAndPlain struct {
	chunk chunk.Chunk
	score float64
}

// packFile is Phase 3+4 for a single file: admits its chunks in order
// until the budget runs out, then formats what was admitted. Returns
// nil if nothing from this file fit.
func packFile(path, relevance string, coupledTo []string, chunks []scoredAndPlain, cfg Config, bundle *Bundle, admitted map[string]bool) *ContextFile {
	if cfg.BudgetLines <= 0 {
		return nil
	}
	var out []ContextChunk
	for _, c := range chunks {
		if admitted[c.chunk.ID] {
			continue
		}
		lines := c.chunk.EndLine - c.chunk.StartLine + 1
		if half := cfg.BudgetLines / 2; lines > half {
			lines = half
		}
		if bundle.Budget.UsedLines+lines > cfg.BudgetLines {
			continue
		}
		bundle.Budget.UsedLines += lines
		admitted[c.chunk.ID] = true
		out = append(out, ContextChunk{
			Chunk:   c.chunk,
			Content: formatContent(c.chunk.Content, cfg.ContentMode),
			Score:   c.score,
		})
	}
	if len(out) == 0 {
		return nil
	}
	return &ContextFile{Path: path, Relevance: relevance, CoupledTo: coupledTo, Chunks: out}
}

func formatContent(content string, mode ContentMode) string {
	switch mode {
	case ContentNone:
		return ""
	case ContentPreview:
		lines := strings.SplitN(content, "\n", 4)
		if len(lines) <= 3 {
			return content
		}
		return strings.Join(lines[:3], "\n") + "\n..."
	default:
		return content
	}
}

// unscoredChunks lets a coupled file's plain []chunk.Chunk be admitted
// through the same pipeline as scored seed chunks, using the file's
// coupling strength as every chunk's score.
func unscoredChunks(chunks []chunk.Chunk, score float64) []scoredAndPlain {
	out := make([]scoredAndPlain, len(chunks))
	for i, c := range chunks {
		out[i] = scoredAndPlain{chunk: c, score: score}
	}
	return out
}
