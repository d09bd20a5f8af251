package index

import (
	"strings"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

// contextualize builds the text actually sent to the embedder for c:
// its own content, padded with cfg.ContextLines of surrounding file
// text on each side when c's language is one of cfg.EnabledLanguages.
// Chunks outside that language set, or with no room to pad, embed
// their own content unmodified.
func contextualize(c chunk.Chunk, fileLines []string, cfg Config) string {
	if cfg.ContextLines <= 0 || !languageEnabled(c.Language, cfg.EnabledLanguages) {
		return c.Content
	}

	// StartLine/EndLine are 1-based and inclusive; fileLines is 0-based.
	start := c.StartLine - 1
	end := c.EndLine - 1

	ctxStart := start - cfg.ContextLines
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + cfg.ContextLines
	if ctxEnd > len(fileLines)-1 {
		ctxEnd = len(fileLines) - 1
	}
	if ctxStart >= start && ctxEnd <= end {
		return c.Content
	}

	var b strings.Builder
	if ctxStart < start {
		b.WriteString(strings.Join(fileLines[ctxStart:start], "\n"))
		b.WriteString("\n")
	}
	b.WriteString(c.Content)
	if ctxEnd > end {
		b.WriteString("\n")
		b.WriteString(strings.Join(fileLines[end+1:ctxEnd+1], "\n"))
	}
	return b.String()
}

func languageEnabled(lang string, enabled []string) bool {
	for _, l := range enabled {
		if l == lang {
			return true
		}
	}
	return false
}

func splitLines(content []byte) []string {
	return strings.Split(string(content), "\n")
}
