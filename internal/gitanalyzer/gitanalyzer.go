// Package gitanalyzer mines a working tree's git history for temporal
// coupling, commit logs, and file churn (spec §4.D). It never mutates
// the repository; every read is a plain log/diff walk over go-git.
package gitanalyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/bobbinhq/bobbin/internal/bobbinerr"
	"github.com/bobbinhq/bobbin/internal/chunk"
)

// Analyzer reads a single git repository's history.
type Analyzer struct {
	repo *git.Repository
}

// Open opens the git repository rooted at path (or any of its
// ancestors, per go-git's PlainOpen semantics).
func Open(path string) (*Analyzer, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, bobbinerr.GitUnavailable(err)
	}
	return &Analyzer{repo: repo}, nil
}

// CommitLogEntry is one row of get_commit_log.
type CommitLogEntry struct {
	Hash    string
	Author  string
	Date    string
	Subject string
	Files   []string
}

// walkCommits visits up to depth non-merge commits newest-first,
// stopping early if stopAtHash is reached (exclusive) or visit
// returns false.
func (a *Analyzer) walkCommits(depth int, stopAtHash string, visit func(c *object.Commit, files []changedFile) bool) error {
	head, err := a.repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return bobbinerr.GitUnavailable(err)
	}

	visited := 0
	return head.ForEach(func(c *object.Commit) error {
		if depth > 0 && visited >= depth {
			return storer.ErrStop
		}
		if stopAtHash != "" && c.Hash.String() == stopAtHash {
			return storer.ErrStop
		}
		if c.NumParents() > 1 {
			// merges don't represent a single coherent change-set
			return nil
		}

		files, err := changedFilesOf(c)
		if err != nil {
			return err
		}

		visited++
		if !visit(c, files) {
			return storer.ErrStop
		}
		return nil
	})
}

type changedFile struct {
	path string
}

// changedFilesOf returns the files touched by c relative to its first
// parent, or every file in its tree if c is the root commit.
func changedFilesOf(c *object.Commit) ([]changedFile, error) {
	if c.NumParents() == 0 {
		tree, err := c.Tree()
		if err != nil {
			return nil, fmt.Errorf("gitanalyzer: read root tree %s: %w", c.Hash, err)
		}
		var files []changedFile
		err = tree.Files().ForEach(func(f *object.File) error {
			files = append(files, changedFile{path: f.Name})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("gitanalyzer: walk root tree %s: %w", c.Hash, err)
		}
		return files, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("gitanalyzer: parent of %s: %w", c.Hash, err)
	}
	patch, err := c.Patch(parent)
	if err != nil {
		return nil, fmt.Errorf("gitanalyzer: patch for %s: %w", c.Hash, err)
	}

	var files []changedFile
	for _, stat := range patch.Stats() {
		files = append(files, changedFile{path: stat.Name})
	}
	return files, nil
}

// AnalyzeCoupling walks the last depth commits (excluding merges),
// counts how often each unordered file pair changes together, and
// returns every pair whose co-change count meets threshold.
func (a *Analyzer) AnalyzeCoupling(depth, threshold int) ([]chunk.FileCoupling, error) {
	type pairState struct {
		coChanges    int
		lastCoChange int64
	}
	pairs := make(map[[2]string]*pairState)

	err := a.walkCommits(depth, "", func(c *object.Commit, files []changedFile) bool {
		if len(files) < 2 {
			return true
		}
		ts := c.Author.When.Unix()
		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				key := canonicalPair(files[i].path, files[j].path)
				st, ok := pairs[key]
				if !ok {
					st = &pairState{}
					pairs[key] = st
				}
				st.coChanges++
				if ts > st.lastCoChange {
					st.lastCoChange = ts
				}
			}
		}
		return true
	})
	if err != nil && err != storer.ErrStop {
		return nil, bobbinerr.GitUnavailable(err)
	}

	var out []chunk.FileCoupling
	for key, st := range pairs {
		if st.coChanges < threshold {
			continue
		}
		out = append(out, chunk.FileCoupling{
			FileA:        key[0],
			FileB:        key[1],
			Score:        combinedScore(st.coChanges),
			CoChanges:    st.coChanges,
			LastCoChange: st.lastCoChange,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].FileA != out[j].FileA {
			return out[i].FileA < out[j].FileA
		}
		return out[i].FileB < out[j].FileB
	})
	return out, nil
}

func canonicalPair(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// combinedScore is the coupling score for a pair: ln(1 + co_changes).
// Recency is deliberately not a factor here — last_co_change is
// recorded for display and for the assembler's own recency rerank,
// not folded into the coupling score itself.
func combinedScore(coChanges int) float64 {
	return math.Log1p(float64(coChanges))
}

// GetCommitLog returns up to depth commits, reverse-chronological,
// optionally stopping just before sinceHash (exclusive).
func (a *Analyzer) GetCommitLog(depth int, sinceHash string) ([]CommitLogEntry, error) {
	var entries []CommitLogEntry

	err := a.walkCommits(depth, sinceHash, func(c *object.Commit, files []changedFile) bool {
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.path
		}
		entries = append(entries, CommitLogEntry{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Date:    c.Author.When.Format("2006-01-02T15:04:05Z07:00"),
			Subject: firstLine(c.Message),
			Files:   paths,
		})
		return true
	})
	if err != nil && err != storer.ErrStop {
		return nil, bobbinerr.GitUnavailable(err)
	}
	return entries, nil
}

// GetFileChurn counts, per file, how many commits touched it since
// sinceHash (exclusive), or across all history when sinceHash is empty.
func (a *Analyzer) GetFileChurn(sinceHash string) (map[string]uint32, error) {
	churn := make(map[string]uint32)

	err := a.walkCommits(0, sinceHash, func(c *object.Commit, files []changedFile) bool {
		for _, f := range files {
			churn[f.path]++
		}
		return true
	})
	if err != nil && err != storer.ErrStop {
		return nil, bobbinerr.GitUnavailable(err)
	}
	return churn, nil
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return strings.TrimSpace(message)
}
