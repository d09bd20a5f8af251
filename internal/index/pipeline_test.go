package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobbinhq/bobbin/internal/embedder"
)

func newTestPipeline(t *testing.T, root string, cfg Config) *Pipeline {
	t.Helper()
	cfg.RootDir = root
	cfg.StoreDir = filepath.Join(root, ".bobbin")
	if cfg.Include == nil {
		cfg.Include = []string{"**/*.go"}
	}
	p, err := Open(cfg, embedder.NewMockProvider(384))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestRunIndexesDiscoveredFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	p := newTestPipeline(t, root, Config{BatchSize: 10, Incremental: true})
	stats, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.FilesScanned)
	require.Equal(t, 1, stats.FilesIndexed)
	require.Greater(t, stats.ChunksWritten, 0)

	paths, err := p.Store().GetAllFilePaths("")
	require.NoError(t, err)
	require.Contains(t, paths, "main.go")
}

func TestRunSkipsUnchangedFileOnSecondPass(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	p := newTestPipeline(t, root, Config{BatchSize: 10, Incremental: true})
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	stats, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, stats.FilesIndexed)
}

func TestRunReindexesChangedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	p := newTestPipeline(t, root, Config{BatchSize: 10, Incremental: true})
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	writeFile(t, root, "main.go", "package main\n\nfunc main() {\n\tprintln(1)\n}\n")
	stats, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.FilesIndexed)
}

func TestRunDeletesRemovedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, root, "extra.go", "package main\n\nfunc Extra() {}\n")

	p := newTestPipeline(t, root, Config{BatchSize: 10, Incremental: true})
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "extra.go")))
	stats, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.FilesDeleted)

	paths, err := p.Store().GetAllFilePaths("")
	require.NoError(t, err)
	require.NotContains(t, paths, "extra.go")
}

func TestOpenWipesStoreOnModelMismatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	storeDir := filepath.Join(root, ".bobbin")

	cfg := Config{RootDir: root, StoreDir: storeDir, BatchSize: 10, Incremental: true, Include: []string{"**/*.go"}, EmbeddingModel: "model-a"}
	p1, err := Open(cfg, embedder.NewMockProvider(384))
	require.NoError(t, err)
	_, err = p1.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, p1.Close())

	cfg.EmbeddingModel = "model-b"
	p2, err := Open(cfg, embedder.NewMockProvider(384))
	require.NoError(t, err)
	defer p2.Close()

	paths, err := p2.Store().GetAllFilePaths("")
	require.NoError(t, err)
	require.Empty(t, paths)

	stored, ok, err := p2.Store().GetMeta(metaEmbeddingModel)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "model-b", stored)
}
