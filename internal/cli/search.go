package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Hybrid semantic + keyword search over the indexed repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	results, err := e.engine.Search(cmd.Context(), args[0], e.searchOptions(searchLimit))
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	return printResult(results, func() {
		for _, r := range results {
			fmt.Printf("%-8s %6.3f  %s:%d-%d  %s\n", r.MatchType, r.Score, r.Chunk.FilePath, r.Chunk.StartLine, r.Chunk.EndLine, r.Chunk.Name)
		}
		if len(results) == 0 {
			fmt.Println("no results")
		}
	})
}
