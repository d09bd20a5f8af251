// Package watch is the thin fsnotify debounce daemon described by spec
// §5: it watches a working tree, coalesces bursts of filesystem events
// over a configurable quiet period, and hands the coalesced path list to
// the indexing pipeline. It carries no indexing logic of its own.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period the daemon waits for before
// firing a reindex, per spec §5.
const DefaultDebounce = 500 * time.Millisecond

// skipDirs are never descended into or watched.
var skipDirs = map[string]bool{
	".git":         true,
	".bobbin":      true,
	"node_modules": true,
}

// Watcher debounces filesystem events under RootDir and invokes OnChange
// with the coalesced, root-relative path list once events go quiet.
type Watcher struct {
	RootDir  string
	Debounce time.Duration
	OnChange func(paths []string)

	fsw    *fsnotify.Watcher
	ctx    context.Context
	cancel context.CancelFunc
	doneCh chan struct{}

	mu          sync.Mutex
	accumulated map[string]bool
	timer       *time.Timer
}

// New creates a Watcher rooted at rootDir and adds every directory in
// the tree (excluding .git, .bobbin, node_modules) to the underlying
// fsnotify watch set.
func New(rootDir string, onChange func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		RootDir:     rootDir,
		Debounce:    DefaultDebounce,
		OnChange:    onChange,
		fsw:         fsw,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}

	if err := w.addRecursively(rootDir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursively(dir string) error {
	if skipDirs[filepath.Base(dir)] {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("watch: read dir %s: %w", dir, err)
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch: add dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() || skipDirs[e.Name()] {
			continue
		}
		if err := w.addRecursively(filepath.Join(dir, e.Name())); err != nil {
			log.Printf("watch: warning: %v\n", err)
		}
	}
	return nil
}

// Start launches the event loop in a background goroutine. It returns
// immediately; call Stop to shut down.
func (w *Watcher) Start(ctx context.Context) {
	w.ctx, w.cancel = context.WithCancel(ctx)
	go w.loop()
}

// Stop cancels the event loop and closes the underlying fsnotify handle.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
		<-w.doneCh
	} else {
		close(w.doneCh)
	}
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	fire := make(chan struct{}, 1)
	for {
		select {
		case <-w.ctx.Done():
			w.stopTimer()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursively(ev.Name); err != nil {
						log.Printf("watch: warning: failed to watch new directory %s: %v\n", ev.Name, err)
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			rel, err := filepath.Rel(w.RootDir, ev.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			w.accumulated[filepath.ToSlash(rel)] = true
			w.mu.Unlock()
			w.resetTimer(fire)

		case <-fire:
			w.flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: fsnotify error: %v\n", err)
		}
	}
}

func (w *Watcher) resetTimer(fire chan struct{}) {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		if !w.timer.Stop() {
			select {
			case <-w.timer.C:
			default:
			}
		}
	}
	w.timer = time.AfterFunc(debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.accumulated) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.accumulated))
	for p := range w.accumulated {
		paths = append(paths, p)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	if w.OnChange != nil {
		w.OnChange(paths)
	}
}

// WritePIDFile writes the current process's PID to path, for process
// management by the CLI's start/stop/status commands (spec §6).
func WritePIDFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

// ReadPIDFile reads back a PID previously written by WritePIDFile.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(data))
}

// RemovePIDFile removes the PID file, ignoring a not-exist error.
func RemovePIDFile(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
