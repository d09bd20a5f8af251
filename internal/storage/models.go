package storage

// Row mirrors one chunks table record, including repo, which lives only
// in SQLite and not on the in-memory chunk.Chunk the rest of the
// codebase passes around.
type Row struct {
	ID          string
	Repo        string
	FilePath    string
	ChunkType   string
	Name        string
	StartLine   int
	EndLine     int
	Content     string
	Language    string
	ContentHash string
	IndexedAt   string
}

// Coupling mirrors one file_coupling row.
type Coupling struct {
	Repo         string
	FileA        string
	FileB        string
	Score        float64
	CoChanges    int
	LastCoChange int64
}

// ImportEdge mirrors one import_edges row.
type ImportEdge struct {
	Repo         string
	SourceFile   string
	Specifier    string
	ResolvedPath string
	Language     string
}
