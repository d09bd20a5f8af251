package cli

import (
	"fmt"

	"github.com/bobbinhq/bobbin/internal/assembler"
	"github.com/spf13/cobra"
)

var (
	contextBudgetLines int
	contextDepth       int
	contextMaxCoupled  int
	contextMode        string
)

var contextCmd = &cobra.Command{
	Use:   "context <query>",
	Short: "Assemble a budget-bounded context bundle for a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runContext,
}

func init() {
	contextCmd.Flags().IntVar(&contextBudgetLines, "budget", 400, "maximum lines admitted into the bundle")
	contextCmd.Flags().IntVar(&contextDepth, "depth", 1, "coupling expansion depth from direct hits")
	contextCmd.Flags().IntVar(&contextMaxCoupled, "max-coupled", 5, "maximum coupled files admitted per direct hit")
	contextCmd.Flags().StringVar(&contextMode, "content", "full", "content mode: full, preview, or none")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cfg := assembler.ConfigFromSearch(e.cfg.Search, contextBudgetLines, contextDepth, contextMaxCoupled,
		float64(e.cfg.Git.CouplingThreshold), assembler.ContentMode(contextMode), searchLimit)

	bundle, err := e.assembler().Assemble(cmd.Context(), args[0], repoFlag, cfg)
	if err != nil {
		return fmt.Errorf("assemble context: %w", err)
	}

	return printResult(bundle, func() { printBundle(bundle) })
}

func printBundle(bundle *assembler.Bundle) {
	fmt.Printf("%d files, %d chunks (%d direct, %d coupled), %d/%d lines\n\n",
		bundle.Summary.TotalFiles, bundle.Summary.TotalChunks, bundle.Summary.DirectHits,
		bundle.Summary.CoupledAdditions, bundle.Budget.UsedLines, bundle.Budget.MaxLines)

	for _, f := range bundle.Files {
		if f.Relevance == "coupled" {
			fmt.Printf("--- %s (coupled to %v) ---\n", f.Path, f.CoupledTo)
		} else {
			fmt.Printf("--- %s ---\n", f.Path)
		}
		for _, c := range f.Chunks {
			fmt.Printf("[%d-%d] %s\n", c.Chunk.StartLine, c.Chunk.EndLine, c.Chunk.Name)
			if c.Content != "" {
				fmt.Println(c.Content)
			}
		}
		fmt.Println()
	}
}
