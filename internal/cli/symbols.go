package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "List a file's indexed chunks as an outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	chunks, err := e.store.GetChunksForFile(repoFlag, args[0])
	if err != nil {
		return fmt.Errorf("symbols: %w", err)
	}

	return printResult(chunks, func() {
		for _, c := range chunks {
			fmt.Printf("%d-%d  %-10s %s\n", c.StartLine, c.EndLine, c.ChunkType, c.Name)
		}
		if len(chunks) == 0 {
			fmt.Println("no chunks indexed for this file")
		}
	})
}
