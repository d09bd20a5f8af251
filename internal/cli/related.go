package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var relatedLimit int

var relatedCmd = &cobra.Command{
	Use:   "related <file>",
	Short: "Files that temporally couple with the given file (change together in commits)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

func init() {
	relatedCmd.Flags().IntVar(&relatedLimit, "limit", 10, "maximum coupled files to return")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	pairs, err := e.store.GetCoupling(repoFlag, args[0], relatedLimit)
	if err != nil {
		return fmt.Errorf("related: %w", err)
	}

	return printResult(pairs, func() {
		for _, p := range pairs {
			other := p.FileB
			if other == args[0] {
				other = p.FileA
			}
			fmt.Printf("%6.3f  %s  (%d co-changes)\n", p.Score, other, p.CoChanges)
		}
		if len(pairs) == 0 {
			fmt.Println("no coupled files found")
		}
	})
}
