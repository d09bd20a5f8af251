package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobbinhq/bobbin/internal/analyze"
	"github.com/bobbinhq/bobbin/internal/assembler"
	"github.com/bobbinhq/bobbin/internal/config"
	"github.com/bobbinhq/bobbin/internal/embedder"
	"github.com/bobbinhq/bobbin/internal/gitanalyzer"
	"github.com/bobbinhq/bobbin/internal/search"
	"github.com/bobbinhq/bobbin/internal/storage"
)

// defaultEmbeddingDims is the vector width the mock embedder produces.
// bobbin's embedder is an external capability (spec §1); until a real
// provider is wired in, every command opens the same deterministic mock
// so the store's vector index dimension stays consistent across calls.
const defaultEmbeddingDims = 384

// env bundles the handles a query command needs: config, repo root, an
// open store, and the provider it was opened with. Callers close it when
// done.
type env struct {
	root   string
	cfg    *config.Config
	store  *storage.Store
	embed  embedder.Provider
	engine *search.Engine
}

func (e *env) Close() error {
	if err := e.store.Close(); err != nil {
		return err
	}
	return e.embed.Close()
}

// openEnv resolves the current working directory, loads its config, and
// opens the store it points at, creating the .bobbin directory and an
// empty store if they are absent.
func openEnv() (*env, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	embed := embedder.NewMockProvider(defaultEmbeddingDims)

	storeDir := filepath.Join(root, ".bobbin")
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	dbPath := filepath.Join(storeDir, "bobbin.db")
	store, err := storage.Open(dbPath, embed.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &env{
		root:   root,
		cfg:    cfg,
		store:  store,
		embed:  embed,
		engine: search.NewEngine(store, embed),
	}, nil
}

func (e *env) assembler() *assembler.Assembler {
	return assembler.New(e.store, e.engine)
}

func (e *env) analyzer() *analyze.Analyzer {
	return analyze.New(e.store, e.embed)
}

// openGit opens a gitanalyzer on the repo root, returning nil (not an
// error) when the root isn't a git repository — the same soft-disable
// the indexing pipeline applies, so commands that need history can
// report "unavailable" rather than failing outright.
func (e *env) openGit() *gitanalyzer.Analyzer {
	g, err := gitanalyzer.Open(e.root)
	if err != nil {
		return nil
	}
	return g
}

// searchOptions builds hybrid-search options from the loaded config, the
// --repo scope, and a result limit.
func (e *env) searchOptions(limit int) search.Options {
	return search.OptionsFromConfig(e.cfg.Search, limit, repoFlag)
}

// printResult renders v as JSON when --json is set, otherwise delegates
// to human, which is responsible for a readable rendering of the same
// data.
func printResult(v any, human func()) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human()
	return nil
}
