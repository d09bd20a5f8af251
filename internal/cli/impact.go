package cli

import (
	"fmt"

	"github.com/bobbinhq/bobbin/internal/analyze"
	"github.com/spf13/cobra"
)

var (
	impactMode      string
	impactThreshold float64
	impactLimit     int
	impactDepth     int
)

var impactCmd = &cobra.Command{
	Use:   "impact <file[:function]>",
	Short: "Predict files likely affected by a change to the target",
	Args:  cobra.ExactArgs(1),
	RunE:  runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactMode, "mode", "combined", "signal(s) to use: combined, coupling, semantic, deps")
	impactCmd.Flags().Float64Var(&impactThreshold, "threshold", 0.5, "minimum score to include a result")
	impactCmd.Flags().IntVar(&impactLimit, "limit", 20, "maximum results to return")
	impactCmd.Flags().IntVar(&impactDepth, "depth", 1, "transitive expansion depth")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cfg := analyze.ImpactConfig{
		Mode:      analyze.ImpactMode(impactMode),
		Threshold: impactThreshold,
		Limit:     impactLimit,
	}

	results, err := e.analyzer().Impact(cmd.Context(), args[0], cfg, impactDepth, repoFlag)
	if err != nil {
		return fmt.Errorf("impact: %w", err)
	}

	return printResult(results, func() {
		for _, r := range results {
			fmt.Printf("%6.3f  %-10s %s  (%s)\n", r.Score, r.Signal, r.Path, r.Reason)
		}
		if len(results) == 0 {
			fmt.Println("no impact predicted")
		}
	})
}
