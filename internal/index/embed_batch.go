package index

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/embedder"
)

// embedJob is one file's worth of chunks awaiting embedding.
type embedJob struct {
	path   string
	chunks []chunk.Chunk
	texts  []string
}

// embedResult pairs a job back with its produced vectors, or the error
// that occurred while producing them.
type embedResult struct {
	job    embedJob
	embeds []chunk.Embedding
	err    error
}

// runEmbedBatches fans jobs out across up to workers goroutines, each
// calling provider.Embed once per job. Results are returned in the same
// order jobs were submitted, regardless of completion order, so the
// caller can zip them back up with their source chunks deterministically.
func runEmbedBatches(ctx context.Context, provider embedder.Provider, jobs []embedJob, workers int) ([]embedResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers <= 0 {
		workers = 1
	}

	results := make([]embedResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			vectors, err := provider.Embed(gctx, job.texts, embedder.ModePassage)
			if err != nil {
				results[i] = embedResult{job: job, err: err}
				return nil
			}
			embeds := make([]chunk.Embedding, len(vectors))
			for j, v := range vectors {
				embeds[j] = chunk.Embedding(v)
			}
			results[i] = embedResult{job: job, embeds: embeds}
			return nil
		})
	}

	// Errors are carried per-result rather than aborting the group: one
	// file's embedding failure shouldn't discard every other file's
	// already-completed work in the same batch.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
