package parser

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/bobbinhq/bobbin/internal/chunk"
)

// astParser walks a tree-sitter parse tree and emits chunks and import
// edges according to its langSpec table. Per spec §5, instances are
// stateful and must not be used concurrently; a mutex guards reuse
// across sequential calls from a single caller rather than trusting
// every caller to serialize correctly.
type astParser struct {
	mu   sync.Mutex
	lang Language
	spec *langSpec
}

// NewASTParser returns a tree-sitter-backed Parser for lang, or an error
// if lang has no registered grammar.
func NewASTParser(lang Language) (Parser, error) {
	spec, ok := specFor(lang)
	if !ok {
		return nil, fmt.Errorf("parser: no tree-sitter grammar registered for %q", lang)
	}
	return &astParser{lang: lang, spec: spec}, nil
}

func (p *astParser) SupportsLanguage(lang Language) bool { return lang == p.lang }

func (p *astParser) parseTree(content []byte) (*sitter.Tree, error) {
	sp := sitter.NewParser()
	defer sp.Close()

	sp.SetLanguage(p.spec.language())

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: %s produced no tree", p.lang)
	}
	return tree, nil
}

func (p *astParser) ParseFile(path string, content []byte) ([]chunk.Chunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tree, err := p.parseTree(content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var chunks []chunk.Chunk
	walkTree(tree.RootNode(), func(node *sitter.Node) bool {
		if ct, ok := p.spec.kindOf(node, content); ok {
			start, end := nodeLines(node)
			chunks = append(chunks, chunk.Chunk{
				ID:          chunk.NewID(path, start, end),
				FilePath:    path,
				ChunkType:   ct,
				Name:        p.spec.resolveName(node, content),
				StartLine:   start,
				EndLine:     end,
				Content:     nodeText(node, content),
				Language:    string(p.lang),
				ContentHash: "",
			})
		}
		return true
	})
	return chunks, nil
}

func (p *astParser) ExtractImports(path string, content []byte) ([]chunk.ImportEdge, error) {
	if p.spec.importKinds == nil {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tree, err := p.parseTree(content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var edges []chunk.ImportEdge
	walkTree(tree.RootNode(), func(node *sitter.Node) bool {
		if p.spec.importKinds[node.Kind()] {
			spec := p.spec.specifierOf(node, content)
			if spec != "" {
				edges = append(edges, chunk.ImportEdge{
					SourceFile: path,
					Specifier:  spec,
					Language:   string(p.lang),
				})
			}
			return false
		}
		return true
	})
	return edges, nil
}

// branchPointCount walks the tree rooted at node counting branch points
// per the language's table; used by the complexity analyzer.
func branchPointCount(spec *langSpec, node *sitter.Node, source []byte) int {
	count := 0
	walkTree(node, func(n *sitter.Node) bool {
		if spec.isBranchPoint(n, source) {
			count++
		}
		return true
	})
	return count
}

// treeStats returns ast depth and total node count for node.
func treeStats(node *sitter.Node) (depth, count int) {
	var walk func(n *sitter.Node, d int)
	walk = func(n *sitter.Node, d int) {
		count++
		if d > depth {
			depth = d
		}
		children := int(n.ChildCount())
		for i := 0; i < children; i++ {
			walk(n.Child(uint(i)), d+1)
		}
	}
	walk(node, 1)
	return depth, count
}

// Stats is the raw shape analysis for a language, computed in a single
// parse pass. AST depth starts at 1 for the root node. Cyclomatic is
// 1 plus the number of branch points found anywhere in the tree.
type Stats struct {
	ASTDepth   int
	NodeCount  int
	Cyclomatic int
}

// AnalyzeStats parses content with lang's grammar and returns its shape
// statistics, for use by the complexity analyzer.
func AnalyzeStats(lang Language, content []byte) (Stats, error) {
	spec, ok := specFor(lang)
	if !ok {
		return Stats{}, fmt.Errorf("parser: no tree-sitter grammar registered for %q", lang)
	}

	p := &astParser{lang: lang, spec: spec}
	p.mu.Lock()
	defer p.mu.Unlock()

	tree, err := p.parseTree(content)
	if err != nil {
		return Stats{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	depth, count := treeStats(root)
	branches := branchPointCount(spec, root, content)
	return Stats{ASTDepth: depth, NodeCount: count, Cyclomatic: 1 + branches}, nil
}
