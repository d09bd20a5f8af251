package gitanalyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func commitAll(t *testing.T, wt *git.Worktree, message string, when time.Time) {
	t.Helper()
	_, err := wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "bobbin", Email: "bobbin@example.com", When: when},
	})
	require.NoError(t, err)
}

// newTestRepo builds a small history: an initial commit adds a.go+b.go,
// three more commits change both together (coupled pair), and a final
// commit adds c.go alone.
func newTestRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.go", "package b\n")
	commitAll(t, wt, "initial commit", base)

	for i := 0; i < 3; i++ {
		writeFile(t, root, "a.go", fmt.Sprintf("package a\n// rev %d\n", i))
		writeFile(t, root, "b.go", fmt.Sprintf("package b\n// rev %d\n", i))
		commitAll(t, wt, "touch a and b together", base.Add(time.Duration(i+1)*time.Hour))
	}

	writeFile(t, root, "c.go", "package c\n")
	commitAll(t, wt, "add c alone", base.Add(10*time.Hour))

	return root
}

func TestAnalyzeCouplingFindsCoChangedPair(t *testing.T) {
	root := newTestRepo(t)
	a, err := Open(root)
	require.NoError(t, err)

	couplings, err := a.AnalyzeCoupling(0, 2)
	require.NoError(t, err)
	require.NotEmpty(t, couplings)

	found := false
	for _, c := range couplings {
		if (c.FileA == "a.go" && c.FileB == "b.go") || (c.FileA == "b.go" && c.FileB == "a.go") {
			found = true
			require.GreaterOrEqual(t, c.CoChanges, 2)
			require.Greater(t, c.Score, 0.0)
		}
	}
	require.True(t, found, "expected a.go/b.go to be reported as coupled")
}

func TestAnalyzeCouplingRespectsThreshold(t *testing.T) {
	root := newTestRepo(t)
	a, err := Open(root)
	require.NoError(t, err)

	couplings, err := a.AnalyzeCoupling(0, 100)
	require.NoError(t, err)
	require.Empty(t, couplings)
}

func TestGetCommitLogReturnsNewestFirst(t *testing.T) {
	root := newTestRepo(t)
	a, err := Open(root)
	require.NoError(t, err)

	entries, err := a.GetCommitLog(2, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "add c alone", entries[0].Subject)
}

func TestGetFileChurnCountsPerFile(t *testing.T) {
	root := newTestRepo(t)
	a, err := Open(root)
	require.NoError(t, err)

	churn, err := a.GetFileChurn("")
	require.NoError(t, err)
	require.EqualValues(t, 4, churn["a.go"])
	require.EqualValues(t, 1, churn["c.go"])
}
