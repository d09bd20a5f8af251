package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	refsType  string
	refsLimit int
)

var refsCmd = &cobra.Command{
	Use:   "refs <symbol>",
	Short: "Find a symbol's definition and its usages",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefs,
}

func init() {
	refsCmd.Flags().StringVar(&refsType, "type", "", "restrict to a chunk type (function, method, class, ...)")
	refsCmd.Flags().IntVar(&refsLimit, "limit", 10, "maximum usages to return")
	rootCmd.AddCommand(refsCmd)
}

func runRefs(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	refs, err := e.analyzer().FindRefs(args[0], refsType, refsLimit, repoFlag)
	if err != nil {
		return fmt.Errorf("refs: %w", err)
	}

	return printResult(refs, func() {
		if refs.Definition == nil {
			fmt.Println("no definition found")
		} else {
			d := refs.Definition
			fmt.Printf("definition: %s:%d-%d  %s  %s\n", d.FilePath, d.StartLine, d.EndLine, d.ChunkType, d.Signature)
		}
		for _, u := range refs.Usages {
			fmt.Printf("  %s:%d  %s\n", u.FilePath, u.Line, u.Context)
		}
	})
}
