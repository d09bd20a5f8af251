package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// newCmd builds a bare cobra.Command carrying a live context, for calling
// a command's RunE directly without going through rootCmd's global flag
// registration.
func newCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	return cmd
}

// captureStdout runs fn and returns whatever it printed to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func setupRepo(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	initGitRepo(t, dir)

	src := "package widgets\n\nfunc ComputeTotal(items []int) int {\n\ttotal := 0\n\tfor _, v := range items {\n\t\ttotal += v\n\t}\n\treturn total\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.go"), []byte(src), 0o644))
}

func TestIndexThenSearchFindsIndexedFunction(t *testing.T) {
	setupRepo(t)

	jsonOutput, repoFlag = false, ""
	indexForce, indexWatch = false, false

	out := captureStdout(t, func() {
		require.NoError(t, runIndex(newCmd(t), nil))
	})
	require.Contains(t, out, "indexed")

	searchLimit = 10
	out = captureStdout(t, func() {
		require.NoError(t, runSearch(newCmd(t), []string{"ComputeTotal"}))
	})
	require.Contains(t, out, "widgets.go")
	require.Contains(t, out, "ComputeTotal")
}

func TestIndexThenGrepFindsKeyword(t *testing.T) {
	setupRepo(t)
	jsonOutput, repoFlag = false, ""

	require.NoError(t, runIndex(newCmd(t), nil))

	grepLimit = 10
	out := captureStdout(t, func() {
		require.NoError(t, runGrep(newCmd(t), []string{"ComputeTotal"}))
	})
	require.Contains(t, out, "widgets.go")
}

func TestIndexThenStatusReportsCounts(t *testing.T) {
	setupRepo(t)
	jsonOutput, repoFlag = false, ""

	require.NoError(t, runIndex(newCmd(t), nil))

	out := captureStdout(t, func() {
		require.NoError(t, runStatus(newCmd(t), nil))
	})
	require.Contains(t, out, "files indexed:   1")
}

func TestIndexThenSymbolsListsChunk(t *testing.T) {
	setupRepo(t)
	jsonOutput, repoFlag = false, ""

	require.NoError(t, runIndex(newCmd(t), nil))

	out := captureStdout(t, func() {
		require.NoError(t, runSymbols(newCmd(t), []string{"widgets.go"}))
	})
	require.Contains(t, out, "ComputeTotal")
}

func TestIndexThenRefsFindsDefinition(t *testing.T) {
	setupRepo(t)
	jsonOutput, repoFlag = false, ""

	require.NoError(t, runIndex(newCmd(t), nil))

	refsType, refsLimit = "", 10
	out := captureStdout(t, func() {
		require.NoError(t, runRefs(newCmd(t), []string{"ComputeTotal"}))
	})
	require.Contains(t, out, "definition:")
	require.Contains(t, out, "widgets.go")
}

func TestSearchOnUnindexedRepoReturnsNoResultsNotError(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	jsonOutput, repoFlag = false, ""
	searchLimit = 10
	out := captureStdout(t, func() {
		require.NoError(t, runSearch(newCmd(t), []string{"anything"}))
	})
	require.Contains(t, out, "no results")
}

func TestPrintResultJSONMode(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	out := captureStdout(t, func() {
		require.NoError(t, printResult(map[string]string{"a": "b"}, func() {
			t.Fatal("human renderer must not run in JSON mode")
		}))
	})
	require.True(t, bytes.Contains([]byte(out), []byte(`"a": "b"`)))
}
