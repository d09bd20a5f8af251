// Package cli is bobbin's thin dispatch shell (spec §6): one subcommand
// per query operation, each of which loads config, opens store handles,
// calls exactly one core operation, and prints the result. No business
// logic lives here.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	repoFlag   string
)

// rootCmd is bobbin's base command.
var rootCmd = &cobra.Command{
	Use:   "bobbin",
	Short: "Local code-intelligence engine for source repositories",
	Long: `bobbin indexes a repository's source and git history into a local
store, then answers search, context-assembly, and analysis queries
against it — search, grep, context, related, refs, symbols, hotspots,
impact, similar, review, status, index.`,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "scope the query to a single tenant repo (default: all)")
}
