package cli

import (
	"fmt"

	"github.com/bobbinhq/bobbin/internal/analyze"
	"github.com/spf13/cobra"
)

var (
	similarRef       string
	similarThreshold float64
	similarLimit     int
	duplicates       bool
	duplicatesLimit  int
)

var similarCmd = &cobra.Command{
	Use:   "similar [text]",
	Short: "Find chunks similar to a free-text query, a chunk reference, or scan for near-duplicates",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSimilar,
}

func init() {
	similarCmd.Flags().StringVar(&similarRef, "chunk", "", "a file:name chunk reference, instead of a free-text query")
	similarCmd.Flags().Float64Var(&similarThreshold, "threshold", 0.8, "minimum cosine similarity to include a result")
	similarCmd.Flags().IntVar(&similarLimit, "limit", 10, "maximum results to return")
	similarCmd.Flags().BoolVar(&duplicates, "duplicates", false, "scan the whole repo for near-duplicate clusters instead")
	similarCmd.Flags().IntVar(&duplicatesLimit, "max-clusters", 20, "maximum duplicate clusters to return")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if duplicates {
		clusters, err := e.analyzer().ScanDuplicates(cmd.Context(), similarThreshold, duplicatesLimit, repoFlag)
		if err != nil {
			return fmt.Errorf("similar --duplicates: %w", err)
		}
		return printResult(clusters, func() {
			for _, c := range clusters {
				fmt.Printf("cluster around %s:%s (avg %.3f, %d members)\n",
					c.Representative.FilePath, c.Representative.Name, c.AvgSimilarity, len(c.Members))
				for _, m := range c.Members {
					fmt.Printf("  %.3f  %s:%s\n", m.Similarity, m.Chunk.FilePath, m.Chunk.Name)
				}
			}
			if len(clusters) == 0 {
				fmt.Println("no duplicate clusters found")
			}
		})
	}

	target := analyze.SimilarTarget{ChunkRef: similarRef}
	if similarRef == "" {
		if len(args) == 0 {
			return fmt.Errorf("similar requires either a text query or --chunk")
		}
		target.Text = args[0]
	}

	results, err := e.analyzer().FindSimilar(cmd.Context(), target, similarThreshold, similarLimit, repoFlag)
	if err != nil {
		return fmt.Errorf("similar: %w", err)
	}

	return printResult(results, func() {
		for _, r := range results {
			fmt.Printf("%.3f  %s:%s  %s\n", r.Similarity, r.Chunk.FilePath, r.Chunk.Name, r.Explanation)
		}
		if len(results) == 0 {
			fmt.Println("no similar chunks found")
		}
	})
}
