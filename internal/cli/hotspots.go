package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bobbinhq/bobbin/internal/complexity"
	"github.com/bobbinhq/bobbin/internal/parser"
	"github.com/spf13/cobra"
)

var hotspotsLimit int

var hotspotsCmd = &cobra.Command{
	Use:   "hotspots",
	Short: "Rank indexed files by structural complexity",
	RunE:  runHotspots,
}

func init() {
	hotspotsCmd.Flags().IntVar(&hotspotsLimit, "limit", 20, "maximum files to return")
	rootCmd.AddCommand(hotspotsCmd)
}

type fileHotspot struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

func runHotspots(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	paths, err := e.store.GetAllFilePaths(repoFlag)
	if err != nil {
		return fmt.Errorf("hotspots: %w", err)
	}

	var hotspots []fileHotspot
	for _, path := range paths {
		lang, ok := parser.DetectLanguage(path)
		if !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(e.root, path))
		if err != nil {
			continue // deleted or unreadable since last index; skip rather than fail the whole report
		}
		chunks, err := e.store.GetChunksForFile(repoFlag, path)
		if err != nil {
			return fmt.Errorf("hotspots: %w", err)
		}
		score, err := complexity.AnalyzeFile(path, content, lang, chunks)
		if err != nil {
			continue
		}
		hotspots = append(hotspots, fileHotspot{Path: path, Score: score.Combined})
	}

	sort.Slice(hotspots, func(i, j int) bool { return hotspots[i].Score > hotspots[j].Score })
	if len(hotspots) > hotspotsLimit {
		hotspots = hotspots[:hotspotsLimit]
	}

	return printResult(hotspots, func() {
		for _, h := range hotspots {
			fmt.Printf("%5.3f  %s\n", h.Score, h.Path)
		}
		if len(hotspots) == 0 {
			fmt.Println("no scoreable files indexed")
		}
	})
}
