// Package index implements bobbin's indexing pipeline (spec §4.J): the
// walk/diff/parse/embed/resolve/couple/commit sequence that turns a
// working tree into the rows a Store serves search, coupling, and
// analysis queries from.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bobbinhq/bobbin/internal/bobbinerr"
	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/embedder"
	"github.com/bobbinhq/bobbin/internal/gitanalyzer"
	"github.com/bobbinhq/bobbin/internal/parser"
	"github.com/bobbinhq/bobbin/internal/resolver"
	"github.com/bobbinhq/bobbin/internal/storage"
)

const metaEmbeddingModel = "embedding_model"

// storeFileName is the single SQLite file each store directory holds.
const storeFileName = "bobbin.db"

// Pipeline runs the full indexing sequence against one repo root.
type Pipeline struct {
	cfg   Config
	store *storage.Store
	embed embedder.Provider
	git   *gitanalyzer.Analyzer // nil when the root isn't a git repository
}

// Stats summarizes one Run call, for CLI progress output.
type Stats struct {
	FilesScanned  int
	FilesIndexed  int
	FilesDeleted  int
	ChunksWritten int
	CouplingPairs int
	CommitsWalked int
}

// Open prepares a Pipeline: it opens (or creates) the on-disk store at
// cfg.StoreDir, checks the configured embedding model against the
// store's recorded model, and wipes the store before reopening it on a
// mismatch — an embedding space built by one model is meaningless to
// another.
func Open(cfg Config, embed embedder.Provider) (*Pipeline, error) {
	if err := os.MkdirAll(cfg.StoreDir, 0o755); err != nil {
		return nil, bobbinerr.StoreIO("create store dir", err)
	}
	dbPath := filepath.Join(cfg.StoreDir, storeFileName)

	store, err := storage.Open(dbPath, embed.Dimensions())
	if err != nil {
		return nil, err
	}

	if cfg.EmbeddingModel != "" {
		stored, ok, err := store.GetMeta(metaEmbeddingModel)
		if err != nil {
			store.Close()
			return nil, err
		}
		if ok && stored != cfg.EmbeddingModel {
			log.Printf("embedding model changed (%s -> %s); wiping store\n", stored, cfg.EmbeddingModel)
			store.Close()
			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return nil, bobbinerr.StoreIO("remove stale store", err)
			}
			store, err = storage.Open(dbPath, embed.Dimensions())
			if err != nil {
				return nil, err
			}
		}
		if err := store.SetMeta(metaEmbeddingModel, cfg.EmbeddingModel); err != nil {
			store.Close()
			return nil, err
		}
	}

	g, err := gitanalyzer.Open(cfg.RootDir)
	if err != nil {
		log.Printf("git unavailable at %s; coupling and commit indexing disabled\n", cfg.RootDir)
		g = nil
	}

	return &Pipeline{cfg: cfg, store: store, embed: embed, git: g}, nil
}

// Store exposes the underlying store, e.g. for search/assembler callers
// that share a process with an indexing run.
func (p *Pipeline) Store() *storage.Store { return p.store }

// Close releases the store.
func (p *Pipeline) Close() error { return p.store.Close() }

// Run executes one full pass: discover files, diff against what's
// stored, parse+embed+write the changed set, resolve imports, recompute
// coupling, index recent commits, and compact the store.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	w, err := newWalker(p.cfg)
	if err != nil {
		return stats, err
	}
	discovered, err := w.discover()
	if err != nil {
		return stats, bobbinerr.StoreIO("walk root", err)
	}
	stats.FilesScanned = len(discovered)

	if err := p.reconcileDeletes(discovered, &stats); err != nil {
		return stats, err
	}

	changedPaths, err := p.indexFiles(ctx, discovered, &stats)
	if err != nil {
		return stats, err
	}

	if err := p.resolveImports(changedPaths); err != nil {
		return stats, err
	}

	if p.cfg.CouplingEnabled && p.git != nil {
		if err := p.recomputeCoupling(&stats); err != nil {
			return stats, err
		}
	}

	if p.cfg.CommitsEnabled && p.git != nil {
		if err := p.indexCommits(&stats); err != nil {
			return stats, err
		}
	}

	if err := p.store.Compact(); err != nil {
		return stats, err
	}
	return stats, nil
}

// IndexIncremental re-indexes exactly the given repo-relative paths,
// skipping the full-tree walk and the coupling/commit recompute steps —
// the shape the watch daemon calls after a debounced burst of fsnotify
// events. A path that no longer exists on disk is treated as a delete.
func (p *Pipeline) IndexIncremental(ctx context.Context, changedPaths []string) (Stats, error) {
	var stats Stats
	stats.FilesScanned = len(changedPaths)

	var existing, missing []string
	for _, rel := range changedPaths {
		if _, err := os.Stat(filepath.Join(p.cfg.RootDir, rel)); err != nil {
			missing = append(missing, rel)
			continue
		}
		existing = append(existing, rel)
	}

	if len(missing) > 0 {
		if err := p.store.DeleteByFile(p.cfg.Repo, missing); err != nil {
			return stats, err
		}
		if err := p.store.ClearDependenciesForFiles(p.cfg.Repo, missing); err != nil {
			return stats, err
		}
		stats.FilesDeleted = len(missing)
	}

	changed, err := p.indexFiles(ctx, existing, &stats)
	if err != nil {
		return stats, err
	}
	if err := p.resolveImports(changed); err != nil {
		return stats, err
	}
	return stats, nil
}

// reconcileDeletes removes stored rows for any file that used to be
// indexed but is no longer discovered on disk.
func (p *Pipeline) reconcileDeletes(discovered []string, stats *Stats) error {
	stored, err := p.store.GetAllFilePaths(p.cfg.Repo)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(discovered))
	for _, path := range discovered {
		present[path] = true
	}

	var removed []string
	for _, path := range stored {
		if !present[path] {
			removed = append(removed, path)
		}
	}
	if len(removed) == 0 {
		return nil
	}

	if err := p.store.DeleteByFile(p.cfg.Repo, removed); err != nil {
		return err
	}
	if err := p.store.ClearDependenciesForFiles(p.cfg.Repo, removed); err != nil {
		return err
	}
	stats.FilesDeleted = len(removed)
	return nil
}

// indexFiles parses, embeds, and writes every file whose content has
// changed (or every file, when Incremental is false), in BatchSize-sized
// groups whose embedding calls run concurrently.
func (p *Pipeline) indexFiles(ctx context.Context, discovered []string, stats *Stats) ([]string, error) {
	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	var changed []string
	var pending []embedJob

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		results, err := runEmbedBatches(ctx, p.embed, pending, p.cfg.EmbedWorkers)
		if err != nil {
			return err
		}
		now := time.Now().UTC().Format(time.RFC3339)
		for _, r := range results {
			if r.err != nil {
				log.Printf("embedding failed for %s: %v\n", r.job.path, r.err)
				continue
			}
			for i := range r.job.chunks {
				r.job.chunks[i].IndexedAt = now
			}
			if err := p.store.DeleteByFile(p.cfg.Repo, []string{r.job.path}); err != nil {
				return err
			}
			if err := p.store.InsertChunks(p.cfg.Repo, r.job.chunks, r.embeds, now); err != nil {
				return err
			}
			stats.ChunksWritten += len(r.job.chunks)
		}
		pending = pending[:0]
		return nil
	}

	for _, relPath := range discovered {
		lang, ok := parser.DetectLanguage(relPath)
		absPath := filepath.Join(p.cfg.RootDir, relPath)
		content, err := os.ReadFile(absPath)
		if err != nil {
			log.Printf("skip %s: %v\n", relPath, err)
			continue
		}
		hash := contentHash(content)

		if p.cfg.Incremental {
			needs, err := p.store.NeedsReindex(p.cfg.Repo, relPath, hash)
			if err != nil {
				return nil, err
			}
			if !needs {
				continue
			}
		}

		var parserImpl parser.Parser
		if ok {
			parserImpl, err = parser.New(lang)
			if err != nil {
				log.Printf("no parser for %s: %v\n", relPath, err)
				continue
			}
		} else {
			parserImpl = parser.NewFallbackParser()
		}

		chunks, err := parserImpl.ParseFile(relPath, content)
		if err != nil {
			log.Printf("parse failed for %s: %v\n", relPath, bobbinerr.ParseFailed(relPath, err))
			continue
		}
		if len(chunks) == 0 {
			continue
		}

		fileLines := splitLines(content)
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			c.ContentHash = hash
			c.Language = string(lang)
			chunks[i] = c
			texts[i] = contextualize(c, fileLines, p.cfg)
		}

		pending = append(pending, embedJob{path: relPath, chunks: chunks, texts: texts})
		changed = append(changed, relPath)
		stats.FilesIndexed++

		if len(pending) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return changed, nil
}

// resolveImports re-extracts and resolves import edges for every
// changed file, replacing that file's prior edges in one transaction
// per file.
func (p *Pipeline) resolveImports(changedPaths []string) error {
	if !p.cfg.DependenciesOn || len(changedPaths) == 0 {
		return nil
	}

	indexedPaths, err := p.store.GetAllFilePaths(p.cfg.Repo)
	if err != nil {
		return err
	}

	for _, relPath := range changedPaths {
		lang, ok := parser.DetectLanguage(relPath)
		if !ok {
			continue
		}
		parserImpl, err := parser.New(lang)
		if err != nil {
			continue
		}
		absPath := filepath.Join(p.cfg.RootDir, relPath)
		content, err := os.ReadFile(absPath)
		if err != nil {
			continue
		}
		edges, err := parserImpl.ExtractImports(relPath, content)
		if err != nil || len(edges) == 0 {
			continue
		}
		resolved := resolver.Resolve(edges, indexedPaths, p.cfg.RootDir)

		if err := p.store.ClearDependenciesForFiles(p.cfg.Repo, []string{relPath}); err != nil {
			return err
		}
		if err := p.store.UpsertDependency(p.cfg.Repo, resolved); err != nil {
			return err
		}
	}
	return nil
}

// recomputeCoupling re-derives file coupling from git history and
// replaces the stored pairs for this repo wholesale.
func (p *Pipeline) recomputeCoupling(stats *Stats) error {
	pairs, err := p.git.AnalyzeCoupling(p.cfg.CouplingDepth, p.cfg.CouplingThreshold)
	if err != nil {
		return bobbinerr.GitUnavailable(err)
	}
	if err := p.store.UpsertCoupling(p.cfg.Repo, pairs); err != nil {
		return err
	}
	stats.CouplingPairs = len(pairs)
	return nil
}

// indexCommits writes one synthetic chunk per recently-walked commit,
// tracking the newest hash already indexed so later runs only fetch
// what's new.
func (p *Pipeline) indexCommits(stats *Stats) error {
	since, _, err := p.store.GetMeta("last_indexed_commit")
	if err != nil {
		return err
	}

	entries, err := p.git.GetCommitLog(p.cfg.CommitsDepth, since)
	if err != nil {
		return bobbinerr.GitUnavailable(err)
	}
	if len(entries) == 0 {
		return nil
	}

	commitChunks := make([]chunk.Chunk, len(entries))
	commitEmbeds := make([]chunk.Embedding, len(entries))
	texts := make([]string, len(entries))
	for i, e := range entries {
		short := e.Hash
		if len(short) > 8 {
			short = short[:8]
		}
		content := fmt.Sprintf("%s\n\nAuthor: %s\nDate: %s\nFiles: %v", e.Subject, e.Author, e.Date, e.Files)
		commitChunks[i] = chunk.Chunk{
			ID:          "commit:" + e.Hash,
			FilePath:    chunk.CommitPath(short),
			ChunkType:   chunk.TypeCommit,
			Name:        short,
			StartLine:   1,
			EndLine:     1,
			Content:     content,
			Language:    "",
			ContentHash: contentHash([]byte(content)),
			IndexedAt:   e.Date,
		}
		texts[i] = content
	}

	vectors, err := p.embed.Embed(context.Background(), texts, embedder.ModePassage)
	if err != nil {
		return err
	}
	for i, v := range vectors {
		commitEmbeds[i] = chunk.Embedding(v)
	}

	if err := p.store.InsertChunks(p.cfg.Repo, commitChunks, commitEmbeds, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	stats.CommitsWalked = len(entries)

	newest := entries[0].Hash
	return p.store.SetMeta("last_indexed_commit", newest)
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
