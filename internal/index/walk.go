package index

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// walker discovers candidate files under a root directory by matching
// relative paths against include/exclude glob patterns and, optionally,
// .gitignore rules collected along the way.
type walker struct {
	rootDir  string
	include  []glob.Glob
	exclude  []glob.Glob
	gitignore []glob.Glob
}

func newWalker(cfg Config) (*walker, error) {
	w := &walker{rootDir: cfg.RootDir}

	for _, pattern := range cfg.Include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		w.include = append(w.include, g)
	}
	for _, pattern := range cfg.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		w.exclude = append(w.exclude, g)
	}
	if cfg.UseGitignore {
		patterns, err := readGitignore(cfg.RootDir)
		if err != nil {
			return nil, err
		}
		for _, pattern := range patterns {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				continue // an unparseable gitignore line is skipped, not fatal
			}
			w.gitignore = append(w.gitignore, g)
		}
	}
	return w, nil
}

// readGitignore loads the root .gitignore, translating its lines into
// glob patterns. This is a best-effort subset: negation ("!pattern")
// and nested .gitignore files are not supported, since bobbin only
// needs ignore behavior close enough to avoid indexing build output
// and vendored trees, not byte-for-byte git fidelity.
func readGitignore(rootDir string) ([]string, error) {
	f, err := os.Open(filepath.Join(rootDir, ".gitignore"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		line = strings.TrimPrefix(line, "/")
		line = strings.TrimSuffix(line, "/")
		if line == "" {
			continue
		}
		patterns = append(patterns, line, line+"/**")
	}
	return patterns, scanner.Err()
}

// discover walks rootDir and returns every regular file's path relative
// to rootDir that matches an include pattern and no exclude or
// gitignore pattern, with .git itself always skipped.
func (w *walker) discover() ([]string, error) {
	var out []string
	err := filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(w.rootDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel == ".git" || strings.HasPrefix(rel, ".bobbin") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.matchesAny(w.exclude, rel) || w.matchesAny(w.gitignore, rel) {
			return nil
		}
		if !w.matchesAny(w.include, rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}

// matchesAny also tries path with a leading "/", so that "**/"-prefixed
// patterns match files at the root as well as nested ones.
func (w *walker) matchesAny(patterns []glob.Glob, path string) bool {
	for _, g := range patterns {
		if g.Match(path) || g.Match("/"+path) {
			return true
		}
	}
	return false
}
