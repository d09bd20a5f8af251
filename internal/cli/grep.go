package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var grepLimit int

var grepCmd = &cobra.Command{
	Use:   "grep <query>",
	Short: "Keyword-only full-text search, bypassing the semantic leg",
	Args:  cobra.ExactArgs(1),
	RunE:  runGrep,
}

func init() {
	grepCmd.Flags().IntVar(&grepLimit, "limit", 20, "maximum results to return")
	rootCmd.AddCommand(grepCmd)
}

func runGrep(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	hits, err := e.store.FTSSearch(repoFlag, args[0], grepLimit)
	if err != nil {
		return fmt.Errorf("grep: %w", err)
	}

	return printResult(hits, func() {
		for _, h := range hits {
			fmt.Printf("%6.3f  %s:%d-%d  %s\n", h.Score, h.Chunk.FilePath, h.Chunk.StartLine, h.Chunk.EndLine, h.Chunk.Name)
		}
		if len(hits) == 0 {
			fmt.Println("no results")
		}
	})
}
