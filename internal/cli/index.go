package cli

import (
	"fmt"
	"os"

	"github.com/bobbinhq/bobbin/internal/config"
	"github.com/bobbinhq/bobbin/internal/embedder"
	"github.com/bobbinhq/bobbin/internal/index"
	"github.com/bobbinhq/bobbin/internal/watch"
	"github.com/spf13/cobra"
)

var (
	indexWatch bool
	indexForce bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the current repository's source and git history",
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "keep running, re-indexing on file changes")
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "re-index every file regardless of content hash")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	idxCfg := cfg.ToIndexConfig(root)
	idxCfg.Repo = repoFlag
	if indexForce {
		idxCfg.Incremental = false
	}

	embed := embedder.NewMockProvider(defaultEmbeddingDims)
	defer embed.Close()

	pipeline, err := index.Open(*idxCfg, embed)
	if err != nil {
		return fmt.Errorf("open pipeline: %w", err)
	}
	defer pipeline.Close()

	stats, err := pipeline.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	printIndexStats(stats)

	if !indexWatch {
		return nil
	}

	return runWatchLoop(cmd, pipeline)
}

func runWatchLoop(cmd *cobra.Command, pipeline *index.Pipeline) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	w, err := watch.New(root, func(paths []string) {
		stats, err := pipeline.IndexIncremental(cmd.Context(), paths)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bobbin: incremental index failed: %v\n", err)
			return
		}
		printIndexStats(stats)
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	pidPath := root + "/.bobbin/watch.pid"
	if err := watch.WritePIDFile(pidPath); err != nil {
		fmt.Fprintf(os.Stderr, "bobbin: write pid file: %v\n", err)
	}
	defer watch.RemovePIDFile(pidPath)

	w.Start(cmd.Context())
	fmt.Println("watching for changes, press ctrl-c to stop")
	<-cmd.Context().Done()
	return w.Stop()
}

func printIndexStats(stats index.Stats) {
	printResult(stats, func() {
		fmt.Printf("scanned %d files: %d indexed, %d deleted, %d chunks written\n",
			stats.FilesScanned, stats.FilesIndexed, stats.FilesDeleted, stats.ChunksWritten)
		if stats.CouplingPairs > 0 {
			fmt.Printf("coupling: %d pairs\n", stats.CouplingPairs)
		}
		if stats.CommitsWalked > 0 {
			fmt.Printf("commits: %d walked\n", stats.CommitsWalked)
		}
	})
}
