package analyze

import "strings"

// FindDefinition returns the first chunk whose name exactly matches
// symbolName, optionally filtered to a chunk type, or nil if none
// match.
func (a *Analyzer) FindDefinition(symbolName, symbolType, repo string) (*SymbolDefinition, error) {
	defs, err := a.findDefinitions(symbolName, symbolType, repo)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, nil
	}
	return &defs[0], nil
}

func (a *Analyzer) findDefinitions(symbolName, symbolType, repo string) ([]SymbolDefinition, error) {
	chunks, err := a.store.GetChunksByName(repo, symbolName)
	if err != nil {
		return nil, err
	}

	var defs []SymbolDefinition
	for _, c := range chunks {
		if symbolType != "" && string(c.ChunkType) != symbolType {
			continue
		}
		signature := c.Content
		if idx := strings.IndexByte(c.Content, '\n'); idx >= 0 {
			signature = c.Content[:idx]
		}
		defs = append(defs, SymbolDefinition{
			Name:      c.Name,
			ChunkType: c.ChunkType,
			FilePath:  c.FilePath,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
			Signature: signature,
		})
	}
	return defs, nil
}

// FindRefs finds a symbol's definition(s) by exact name match, then
// runs full-text search over the symbol name to locate usages,
// excluding the definition chunk(s) and returning individual matching
// lines.
func (a *Analyzer) FindRefs(symbolName, symbolType string, limit int, repo string) (SymbolRefs, error) {
	if limit <= 0 {
		limit = 10
	}
	defs, err := a.findDefinitions(symbolName, symbolType, repo)
	if err != nil {
		return SymbolRefs{}, err
	}

	var def *SymbolDefinition
	if len(defs) > 0 {
		d := defs[0]
		def = &d
	}

	isDef := make(map[defKey]bool, len(defs))
	for _, d := range defs {
		isDef[defKey{d.FilePath, d.StartLine, d.EndLine}] = true
	}

	searchLimit := limit * 3
	if searchLimit <= 0 {
		searchLimit = 30
	}
	hits, err := a.store.FTSSearch(repo, symbolName, searchLimit)
	if err != nil {
		return SymbolRefs{}, err
	}

	var usages []SymbolUsage
	for _, h := range hits {
		c := h.Chunk
		if isDef[defKey{c.FilePath, c.StartLine, c.EndLine}] {
			continue
		}

		for i, line := range strings.Split(c.Content, "\n") {
			if !strings.Contains(line, symbolName) {
				continue
			}
			usages = append(usages, SymbolUsage{
				FilePath: c.FilePath,
				Line:     c.StartLine + i,
				Context:  strings.TrimSpace(line),
			})
		}
		if len(usages) >= limit {
			break
		}
	}
	if len(usages) > limit {
		usages = usages[:limit]
	}

	return SymbolRefs{Definition: def, Usages: usages}, nil
}

type defKey struct {
	filePath          string
	startLine, endLine int
}
