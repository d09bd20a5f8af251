package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report indexed chunk/file counts and embedding model metadata",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusReport struct {
	RepoRoot          string `json:"repo_root"`
	ChunkCount        int    `json:"chunk_count"`
	FileCount         int    `json:"file_count"`
	EmbeddingModel    string `json:"embedding_model"`
	LastIndexedCommit string `json:"last_indexed_commit,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	stats, err := e.store.GetStats(repoFlag)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	model, _, err := e.store.GetMeta("embedding_model")
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	lastCommit, _, err := e.store.GetMeta("last_indexed_commit")
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	report := statusReport{
		RepoRoot:          e.root,
		ChunkCount:        stats.ChunkCount,
		FileCount:         stats.FileCount,
		EmbeddingModel:    model,
		LastIndexedCommit: lastCommit,
	}

	return printResult(report, func() {
		fmt.Printf("repo:            %s\n", report.RepoRoot)
		fmt.Printf("files indexed:   %d\n", report.FileCount)
		fmt.Printf("chunks indexed:  %d\n", report.ChunkCount)
		fmt.Printf("embedding model: %s\n", report.EmbeddingModel)
		if report.LastIndexedCommit != "" {
			fmt.Printf("last commit:     %s\n", report.LastIndexedCommit)
		}
	})
}
