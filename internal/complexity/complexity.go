// Package complexity scores chunks and files by structural shape, per
// the combined [0,1] measure derived from cyclomatic count, AST depth,
// and node count.
package complexity

import (
	"github.com/bobbinhq/bobbin/internal/bobbinerr"
	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/parser"
)

// Score is the per-chunk shape measurement.
type Score struct {
	ASTDepth   int
	NodeCount  int
	Cyclomatic int
	Combined   float64
}

// FileScore is the size-weighted aggregate over a file's chunks.
type FileScore struct {
	Combined float64
	Chunks   []Score
}

func combined(astDepth, nodeCount, cyclomatic int) float64 {
	c := 0.4*min1(float64(cyclomatic)/20) + 0.3*min1(float64(astDepth)/10) + 0.3*min1(float64(nodeCount)/200)
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// AnalyzeChunk computes the shape score for a single chunk's content.
// Languages with no tree-sitter grammar (markdown, fallback windows)
// score as zero rather than erroring, since they have no branch
// structure to measure.
func AnalyzeChunk(content []byte, lang parser.Language) (Score, error) {
	stats, err := parser.AnalyzeStats(lang, content)
	if err != nil {
		if lang == parser.Markdown || lang == parser.Unknown {
			return Score{}, nil
		}
		return Score{}, bobbinerr.ParseFailed(string(lang), err)
	}
	return Score{
		ASTDepth:   stats.ASTDepth,
		NodeCount:  stats.NodeCount,
		Cyclomatic: stats.Cyclomatic,
		Combined:   combined(stats.ASTDepth, stats.NodeCount, stats.Cyclomatic),
	}, nil
}

// AnalyzeFile scores every chunk of a parsed file and rolls them up into
// a single size-weighted score. If chunks is empty the whole file's raw
// content is scored as one implicit chunk.
func AnalyzeFile(path string, content []byte, lang parser.Language, chunks []chunk.Chunk) (FileScore, error) {
	if len(chunks) == 0 {
		score, err := AnalyzeChunk(content, lang)
		if err != nil {
			return FileScore{}, err
		}
		return FileScore{Combined: score.Combined, Chunks: []Score{score}}, nil
	}

	scores := make([]Score, len(chunks))
	var weightedSum, totalLines float64
	for i, c := range chunks {
		s, err := AnalyzeChunk([]byte(c.Content), lang)
		if err != nil {
			return FileScore{}, err
		}
		scores[i] = s

		lines := float64(c.EndLine - c.StartLine + 1)
		weightedSum += s.Combined * lines
		totalLines += lines
	}

	fileScore := 0.0
	if totalLines > 0 {
		fileScore = weightedSum / totalLines
	}
	return FileScore{Combined: fileScore, Chunks: scores}, nil
}
