package analyze

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bobbinhq/bobbin/internal/bobbinerr"
	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/embedder"
)

const scanNeighbors = 50

// FindSimilar resolves target to an embedding (fetching a stored chunk
// embedding for a ChunkRef, embedding free Text directly), searches
// the index, excludes the target chunk itself, and filters by
// threshold and limit.
func (a *Analyzer) FindSimilar(ctx context.Context, target SimilarTarget, threshold float64, limit int, repo string) ([]SimilarResult, error) {
	emb, targetID, err := a.resolveTarget(ctx, target, repo)
	if err != nil {
		return nil, err
	}

	searchLimit := limit + 1 // +1 for self-exclusion headroom
	hits, err := a.store.VectorSearch(repo, emb, searchLimit)
	if err != nil {
		return nil, err
	}

	var out []SimilarResult
	for _, h := range hits {
		if targetID != "" && h.Chunk.ID == targetID {
			continue
		}
		if h.Score < threshold {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, SimilarResult{
			Chunk:       h.Chunk,
			Similarity:  h.Score,
			Explanation: explainChunk(h.Chunk),
		})
	}
	return out, nil
}

// resolveTarget returns the embedding to search with, and — for a
// ChunkRef target — the chunk id to exclude from results.
func (a *Analyzer) resolveTarget(ctx context.Context, target SimilarTarget, repo string) (chunk.Embedding, string, error) {
	if target.ChunkRef != "" {
		filePath, name, err := parseChunkRef(target.ChunkRef)
		if err != nil {
			return nil, "", err
		}
		chunks, err := a.store.GetChunksForFile(repo, filePath)
		if err != nil {
			return nil, "", err
		}
		var found *chunk.Chunk
		for i := range chunks {
			if chunks[i].Name == name {
				found = &chunks[i]
				break
			}
		}
		if found == nil {
			return nil, "", fmt.Errorf("chunk %q not found in file %q", name, filePath)
		}
		emb, err := a.store.GetChunkEmbedding(found.ID)
		if err != nil {
			return nil, "", err
		}
		return emb, found.ID, nil
	}

	vecs, err := a.embed.Embed(ctx, []string{target.Text}, embedder.ModeQuery)
	if err != nil {
		return nil, "", err
	}
	return chunk.Embedding(vecs[0]), "", nil
}

// parseChunkRef splits a "file:name" reference.
func parseChunkRef(ref string) (file, name string, err error) {
	idx := strings.LastIndex(ref, ":")
	if idx <= 0 || idx == len(ref)-1 {
		return "", "", bobbinerr.ParseFailed(ref, fmt.Errorf("invalid chunk reference %q: expected \"file:name\"", ref))
	}
	return ref[:idx], ref[idx+1:], nil
}

func explainChunk(c chunk.Chunk) string {
	if c.Name != "" {
		return fmt.Sprintf("%s %q in %s", c.ChunkType, c.Name, c.FilePath)
	}
	return fmt.Sprintf("%s in %s (lines %d-%d)", c.ChunkType, c.FilePath, c.StartLine, c.EndLine)
}

// unionFind is a simple disjoint-set over chunk indices, used to
// cluster near-duplicate pairs found during a duplicate scan.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, rank: make([]int, n)}
}

func (u *unionFind) find(x int) int {
	if u.parent[x] != x {
		u.parent[x] = u.find(u.parent[x])
	}
	return u.parent[x]
}

func (u *unionFind) union(x, y int) {
	rx, ry := u.find(x), u.find(y)
	if rx == ry {
		return
	}
	switch {
	case u.rank[rx] < u.rank[ry]:
		u.parent[rx] = ry
	case u.rank[rx] > u.rank[ry]:
		u.parent[ry] = rx
	default:
		u.parent[ry] = rx
		u.rank[rx]++
	}
}

type pairKey struct{ a, b int }

// ScanDuplicates searches every chunk's nearest scanNeighbors
// neighbours, keeps pairs at or above threshold, and clusters them
// with union-find. Clusters are sorted by size desc then average
// similarity desc, truncated to maxClusters.
func (a *Analyzer) ScanDuplicates(ctx context.Context, threshold float64, maxClusters int, repo string) ([]DuplicateCluster, error) {
	all, err := a.store.GetAllChunksWithEmbeddings(repo)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	idOf := make(map[string]int, len(all))
	for i, c := range all {
		idOf[c.Chunk.ID] = i
	}

	uf := newUnionFind(len(all))
	pairScores := make(map[pairKey]float64)

	for i, c := range all {
		hits, err := a.store.VectorSearch(repo, c.Embedding, scanNeighbors)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			if h.Chunk.ID == c.Chunk.ID || h.Score < threshold {
				continue
			}
			j, ok := idOf[h.Chunk.ID]
			if !ok || c.Chunk.ID >= h.Chunk.ID {
				continue // keep only id(a) < id(b), the other direction repeats the same pair
			}
			uf.union(i, j)
			pairScores[pairKey{i, j}] = h.Score
		}
	}
	if len(pairScores) == 0 {
		return nil, nil
	}

	members := make(map[int][]int)
	for i := range all {
		root := uf.find(i)
		members[root] = append(members[root], i)
	}

	var clusters []DuplicateCluster
	for _, idxs := range members {
		if len(idxs) < 2 {
			continue
		}
		sort.Ints(idxs)

		total, count := 0.0, 0
		for i := 0; i < len(idxs); i++ {
			for j := i + 1; j < len(idxs); j++ {
				if score, ok := pairScores[pairKey{idxs[i], idxs[j]}]; ok {
					total += score
					count++
				}
			}
		}
		avg := 0.0
		if count > 0 {
			avg = total / float64(count)
		}

		repIdx := idxs[0]
		rep := all[repIdx].Chunk
		var memberResults []SimilarResult
		for _, idx := range idxs[1:] {
			c := all[idx].Chunk
			score, ok := pairScores[pairKey{repIdx, idx}]
			if !ok {
				score, ok = pairScores[pairKey{idx, repIdx}]
			}
			if !ok {
				score = avg
			}
			memberResults = append(memberResults, SimilarResult{
				Chunk:       c,
				Similarity:  score,
				Explanation: explainChunk(c),
			})
		}

		clusters = append(clusters, DuplicateCluster{
			Representative: rep,
			Members:        memberResults,
			AvgSimilarity:  avg,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		si, sj := len(clusters[i].Members)+1, len(clusters[j].Members)+1
		if si != sj {
			return si > sj
		}
		return clusters[i].AvgSimilarity > clusters[j].AvgSimilarity
	})
	if maxClusters > 0 && len(clusters) > maxClusters {
		clusters = clusters[:maxClusters]
	}
	return clusters, nil
}
