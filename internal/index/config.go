package index

// Config is the fully-resolved configuration the indexing pipeline needs,
// derived from config.Config plus the repo root it operates on.
type Config struct {
	RootDir          string
	Include          []string
	Exclude          []string
	UseGitignore     bool
	BatchSize        int
	ContextLines     int
	EnabledLanguages []string
	StoreDir         string
	CouplingEnabled   bool
	CouplingDepth     int
	CouplingThreshold int
	CommitsEnabled    bool
	CommitsDepth      int
	DependenciesOn    bool

	// Repo scopes every store call this pipeline makes; "" indexes the
	// default single-tenant repo.
	Repo string
	// EmbeddingModel is compared against the store's stored
	// "embedding_model" meta value; a mismatch wipes the store before
	// re-opening it.
	EmbeddingModel string
	// EmbedWorkers bounds how many embedding batches run concurrently.
	// Zero means runtime.NumCPU().
	EmbedWorkers int
	// Incremental, when true, skips files whose content hash already
	// matches the stored row (Store.NeedsReindex). Force re-indexing
	// is simply Incremental: false.
	Incremental bool
}
