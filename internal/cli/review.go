package cli

import (
	"fmt"

	"github.com/bobbinhq/bobbin/internal/assembler"
	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/gitanalyzer"
	"github.com/spf13/cobra"
)

var (
	reviewStaged       bool
	reviewBranch       string
	reviewFrom         string
	reviewTo           string
	reviewBudgetLines  int
	reviewMaxCoupled   int
	reviewDepth        int
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Assemble a context bundle for the files touched by a git diff",
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewStaged, "staged", false, "review staged changes instead of the working tree")
	reviewCmd.Flags().StringVar(&reviewBranch, "branch", "", "review a branch's changes against HEAD")
	reviewCmd.Flags().StringVar(&reviewFrom, "from", "", "review a revision range: from rev")
	reviewCmd.Flags().StringVar(&reviewTo, "to", "", "review a revision range: to rev")
	reviewCmd.Flags().IntVar(&reviewBudgetLines, "budget", 600, "maximum lines admitted into the bundle")
	reviewCmd.Flags().IntVar(&reviewMaxCoupled, "max-coupled", 5, "maximum coupled files admitted per changed file")
	reviewCmd.Flags().IntVar(&reviewDepth, "depth", 1, "coupling expansion depth")
	rootCmd.AddCommand(reviewCmd)
}

func reviewDiffSpec() gitanalyzer.DiffSpec {
	switch {
	case reviewFrom != "" || reviewTo != "":
		return gitanalyzer.Range(reviewFrom, reviewTo)
	case reviewBranch != "":
		return gitanalyzer.Branch(reviewBranch)
	case reviewStaged:
		return gitanalyzer.Staged()
	default:
		return gitanalyzer.Unstaged()
	}
}

func runReview(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	g := e.openGit()
	if g == nil {
		return fmt.Errorf("review: %s is not a git repository", e.root)
	}

	diffFiles, err := g.GetDiffFiles(reviewDiffSpec())
	if err != nil {
		return fmt.Errorf("review: diff: %w", err)
	}

	var seeds []chunk.Chunk
	var changed []string
	for _, df := range diffFiles {
		if df.Status == gitanalyzer.DiffDeleted {
			continue
		}
		changed = append(changed, df.Path)
		chunks, err := e.store.GetChunksForFile(repoFlag, df.Path)
		if err != nil {
			return fmt.Errorf("review: %w", err)
		}
		seeds = append(seeds, chunks...)
	}

	if len(seeds) == 0 {
		return printResult(&assembler.Bundle{}, func() { fmt.Println("no indexed chunks in the diff") })
	}

	cfg := assembler.ConfigFromSearch(e.cfg.Search, reviewBudgetLines, reviewDepth, reviewMaxCoupled,
		float64(e.cfg.Git.CouplingThreshold), assembler.ContentFull, searchLimit)

	bundle, err := e.assembler().AssembleFromSeeds(fmt.Sprintf("review: %v", changed), seeds, repoFlag, cfg)
	if err != nil {
		return fmt.Errorf("review: assemble: %w", err)
	}

	return printResult(bundle, func() { printBundle(bundle) })
}
