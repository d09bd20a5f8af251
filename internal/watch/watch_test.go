package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesBurstIntoOneCallback(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a"), 0o644))

	var calls int
	var lastPaths []string
	done := make(chan struct{}, 4)

	w, err := New(root, func(paths []string) {
		calls++
		lastPaths = paths
		done <- struct{}{}
	})
	require.NoError(t, err)
	w.Debounce = 50 * time.Millisecond
	w.Start(t.Context())
	t.Cleanup(func() { w.Stop() })

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc A() {}"), 0o644))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc A() {}\n\nfunc B() {}"), 0o644))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced callback")
	}

	require.Equal(t, 1, calls)
	require.Contains(t, lastPaths, "a.go")
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bobbin.pid")

	require.NoError(t, WritePIDFile(path))
	pid, err := ReadPIDFile(path)
	require.NoError(t, err)
	require.Equal(t, os.Getpid(), pid)

	require.NoError(t, RemovePIDFile(path))
	require.NoError(t, RemovePIDFile(path)) // idempotent
	_, err = ReadPIDFile(path)
	require.Error(t, err)
}
