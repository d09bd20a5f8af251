package storage

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bobbinhq/bobbin/internal/bobbinerr"
	"github.com/bobbinhq/bobbin/internal/chunk"
)

// Store is the unified vector+FTS+metadata store (spec §4.B/§4.C), all
// backed by one SQLite file. Every query accepts an optional repo
// filter; an empty repo searches across all tenants.
type Store struct {
	db   *sql.DB
	dims int
}

// Open opens or creates the store at path, bootstrapping the schema on
// first use. Pass ":memory:" for an ephemeral store.
func Open(path string, dims int) (*Store, error) {
	InitVectorExtension()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, bobbinerr.StoreIO("open", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, bobbinerr.StoreIO("enable foreign keys", err)
	}

	version, err := GetSchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, bobbinerr.StoreIO("check schema version", err)
	}
	if version == "0" {
		if err := CreateSchema(db, dims); err != nil {
			db.Close()
			return nil, bobbinerr.StoreIO("create schema", err)
		}
	}

	return &Store{db: db, dims: dims}, nil
}

// New wraps an already-open, already-schema'd database handle.
func New(db *sql.DB, dims int) *Store { return &Store{db: db, dims: dims} }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// SearchHit pairs a stored chunk with its similarity score from either
// search leg (higher is always better, regardless of leg).
type SearchHit struct {
	Chunk chunk.Chunk
	Score float64
}

// InsertChunks atomically replaces rows by id: any existing chunk with
// a matching id is deleted before the insert, across the chunks table
// and both shadow indexes. A chunk's own IndexedAt, when set, is stored
// in place of the indexedAt argument.
func (s *Store) InsertChunks(repo string, chunks []chunk.Chunk, embeddings []chunk.Embedding, indexedAt string) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("storage: %d chunks but %d embeddings", len(chunks), len(embeddings))
	}
	for _, e := range embeddings {
		if e.Dims() != s.dims {
			return bobbinerr.DimensionMismatch(e.Dims(), s.dims)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return bobbinerr.StoreIO("begin insert", err)
	}
	defer tx.Rollback()

	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}

	if err := deleteChunkRows(tx, ids); err != nil {
		return err
	}

	insert := sq.Insert("chunks").Columns(
		"chunk_id", "repo", "file_path", "chunk_type", "chunk_name",
		"start_line", "end_line", "content", "language", "embedding",
		"content_hash", "indexed_at",
	)
	for i, c := range chunks {
		at := indexedAt
		if c.IndexedAt != "" {
			at = c.IndexedAt
		}
		insert = insert.Values(
			c.ID, repo, c.FilePath, string(c.ChunkType), nullableString(c.Name),
			c.StartLine, c.EndLine, c.Content, c.Language, SerializeEmbedding(embeddings[i]),
			c.ContentHash, at,
		)
	}
	if _, err := insert.RunWith(tx).Exec(); err != nil {
		return bobbinerr.StoreIO("insert chunks", err)
	}

	contents := make([]string, len(chunks))
	rawEmbeddings := make([][]float32, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
		rawEmbeddings[i] = []float32(embeddings[i])
	}
	if err := UpsertFTS(tx, ids, contents); err != nil {
		return bobbinerr.StoreIO("upsert fts", err)
	}
	if err := UpsertVectors(tx, ids, rawEmbeddings); err != nil {
		return bobbinerr.StoreIO("upsert vectors", err)
	}

	return tx.Commit()
}

func deleteChunkRows(tx *sql.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := sq.Delete("chunks").Where(sq.Eq{"chunk_id": ids}).RunWith(tx).Exec(); err != nil {
		return bobbinerr.StoreIO("delete chunks", err)
	}
	if err := DeleteFTSByIDs(tx, ids); err != nil {
		return bobbinerr.StoreIO("delete fts", err)
	}
	if err := DeleteVectorsByIDs(tx, ids); err != nil {
		return bobbinerr.StoreIO("delete vectors", err)
	}
	return nil
}

// DeleteByIDs removes the given chunk ids across all three tables.
func (s *Store) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return bobbinerr.StoreIO("begin delete", err)
	}
	defer tx.Rollback()

	if err := deleteChunkRows(tx, ids); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteByFile removes every chunk belonging to the given files.
func (s *Store) DeleteByFile(repo string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	q := sq.Select("chunk_id").From("chunks").Where(sq.Eq{"file_path": paths})
	q = scopeRepo(q, repo)
	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return bobbinerr.StoreIO("select ids for delete", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return bobbinerr.StoreIO("scan id for delete", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return bobbinerr.StoreIO("iterate ids for delete", err)
	}

	return s.DeleteByIDs(ids)
}

// VectorSearch runs approximate cosine KNN and converts distance to a
// similarity score in (0,1], higher is better.
func (s *Store) VectorSearch(repo string, queryEmb chunk.Embedding, k int) ([]SearchHit, error) {
	if queryEmb.Dims() != s.dims {
		return nil, bobbinerr.DimensionMismatch(queryEmb.Dims(), s.dims)
	}

	hits, err := QueryVectorSimilarity(s.db, []float32(queryEmb), k*4)
	if err != nil {
		return nil, bobbinerr.StoreIO("vector search", err)
	}

	var results []SearchHit
	for _, h := range hits {
		row, err := s.rowByID(h.ChunkID)
		if err != nil {
			continue
		}
		if repo != "" && row.Repo != repo {
			continue
		}
		results = append(results, SearchHit{
			Chunk: rowToChunk(row),
			Score: 1.0 / (1.0 + h.Distance),
		})
		if len(results) >= k {
			break
		}
	}
	return results, nil
}

// FTSSearch runs BM25 keyword search scoped to repo.
func (s *Store) FTSSearch(repo, text string, k int) ([]SearchHit, error) {
	hits, err := QueryFTS(s.db, text, k*4)
	if err != nil {
		return nil, bobbinerr.StoreIO("fts search", err)
	}

	var results []SearchHit
	for _, h := range hits {
		row, err := s.rowByID(h.ChunkID)
		if err != nil {
			continue
		}
		if repo != "" && row.Repo != repo {
			continue
		}
		// FTS5 rank is most-negative for the best match; invert to a
		// positive, higher-is-better score comparable across legs.
		results = append(results, SearchHit{Chunk: rowToChunk(row), Score: -h.Rank})
		if len(results) >= k {
			break
		}
	}
	return results, nil
}

// GetChunksForFile returns every chunk of a file, ordered by start line.
func (s *Store) GetChunksForFile(repo, path string) ([]chunk.Chunk, error) {
	q := sq.Select(chunkColumns...).From("chunks").Where(sq.Eq{"file_path": path}).OrderBy("start_line")
	q = scopeRepo(q, repo)
	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return nil, bobbinerr.StoreIO("get chunks for file", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

// GetChunkByID returns a single chunk, or nil if it doesn't exist.
func (s *Store) GetChunkByID(id string) (*chunk.Chunk, error) {
	row, err := s.rowByID(id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, bobbinerr.StoreIO("get chunk by id", err)
	}
	c := rowToChunk(row)
	return &c, nil
}

func (s *Store) rowByID(id string) (Row, error) {
	q := sq.Select(chunkColumns...).From("chunks").Where(sq.Eq{"chunk_id": id})
	var row Row
	var name sql.NullString
	err := q.RunWith(s.db).QueryRow().Scan(
		&row.ID, &row.Repo, &row.FilePath, &row.ChunkType, &name,
		&row.StartLine, &row.EndLine, &row.Content, &row.Language,
		&row.ContentHash, &row.IndexedAt,
	)
	if name.Valid {
		row.Name = name.String
	}
	return row, err
}

// GetChunksByName returns every chunk with an exact name match.
func (s *Store) GetChunksByName(repo, name string) ([]chunk.Chunk, error) {
	q := sq.Select(chunkColumns...).From("chunks").Where(sq.Eq{"chunk_name": name})
	q = scopeRepo(q, repo)
	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return nil, bobbinerr.StoreIO("get chunks by name", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

// GetChunkEmbedding returns the stored embedding for a chunk id.
func (s *Store) GetChunkEmbedding(id string) (chunk.Embedding, error) {
	var blob []byte
	err := sq.Select("embedding").From("chunks").Where(sq.Eq{"chunk_id": id}).
		RunWith(s.db).QueryRow().Scan(&blob)
	if err != nil {
		return nil, bobbinerr.StoreIO("get chunk embedding", err)
	}
	floats, err := DeserializeEmbedding(blob)
	if err != nil {
		return nil, bobbinerr.StoreIO("deserialize embedding", err)
	}
	return chunk.Embedding(floats), nil
}

// GetAllFilePaths returns every distinct file_path, optionally scoped.
func (s *Store) GetAllFilePaths(repo string) ([]string, error) {
	q := sq.Select("DISTINCT file_path").From("chunks").OrderBy("file_path")
	q = scopeRepo(q, repo)
	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return nil, bobbinerr.StoreIO("get all file paths", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, bobbinerr.StoreIO("scan file path", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ChunkWithEmbedding pairs a chunk with its stored vector.
type ChunkWithEmbedding struct {
	Chunk     chunk.Chunk
	Embedding chunk.Embedding
}

// GetAllChunksWithEmbeddings loads every chunk and its vector, for
// building an in-process index or re-embedding on a model change.
func (s *Store) GetAllChunksWithEmbeddings(repo string) ([]ChunkWithEmbedding, error) {
	q := sq.Select(append(append([]string{}, chunkColumns...), "embedding")...).From("chunks").OrderBy("chunk_id")
	q = scopeRepo(q, repo)
	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return nil, bobbinerr.StoreIO("get all chunks with embeddings", err)
	}
	defer rows.Close()

	var out []ChunkWithEmbedding
	for rows.Next() {
		var row Row
		var name sql.NullString
		var blob []byte
		if err := rows.Scan(
			&row.ID, &row.Repo, &row.FilePath, &row.ChunkType, &name,
			&row.StartLine, &row.EndLine, &row.Content, &row.Language,
			&row.ContentHash, &row.IndexedAt, &blob,
		); err != nil {
			return nil, bobbinerr.StoreIO("scan chunk with embedding", err)
		}
		if name.Valid {
			row.Name = name.String
		}
		floats, err := DeserializeEmbedding(blob)
		if err != nil {
			return nil, bobbinerr.StoreIO("deserialize embedding", err)
		}
		out = append(out, ChunkWithEmbedding{Chunk: rowToChunk(row), Embedding: floats})
	}
	return out, rows.Err()
}

// GetAllRepos returns every distinct repo label present in the store.
func (s *Store) GetAllRepos() ([]string, error) {
	rows, err := sq.Select("DISTINCT repo").From("chunks").OrderBy("repo").RunWith(s.db).Query()
	if err != nil {
		return nil, bobbinerr.StoreIO("get all repos", err)
	}
	defer rows.Close()

	var repos []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, bobbinerr.StoreIO("scan repo", err)
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}

// Stats summarizes a store or a single repo's slice of it.
type Stats struct {
	ChunkCount int
	FileCount  int
}

// GetStats reports chunk and file counts, optionally scoped to a repo.
func (s *Store) GetStats(repo string) (Stats, error) {
	var stats Stats

	q := sq.Select("COUNT(*)").From("chunks")
	q = scopeRepo(q, repo)
	if err := q.RunWith(s.db).QueryRow().Scan(&stats.ChunkCount); err != nil {
		return Stats{}, bobbinerr.StoreIO("count chunks", err)
	}

	q = sq.Select("COUNT(DISTINCT file_path)").From("chunks")
	q = scopeRepo(q, repo)
	if err := q.RunWith(s.db).QueryRow().Scan(&stats.FileCount); err != nil {
		return Stats{}, bobbinerr.StoreIO("count files", err)
	}

	return stats, nil
}

// NeedsReindex reports whether path has no stored rows, or any stored
// row's content hash differs from newHash.
func (s *Store) NeedsReindex(repo, path, newHash string) (bool, error) {
	q := sq.Select("content_hash").From("chunks").Where(sq.Eq{"file_path": path}).Limit(1)
	q = scopeRepo(q, repo)
	var hash string
	err := q.RunWith(s.db).QueryRow().Scan(&hash)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, bobbinerr.StoreIO("check needs reindex", err)
	}
	return hash != newHash, nil
}

// Compact coalesces write fragments in the FTS5 index and reclaims
// freed pages. Call periodically, not on every write.
func (s *Store) Compact() error {
	if _, err := s.db.Exec(`INSERT INTO chunks_fts(chunks_fts) VALUES ('optimize')`); err != nil {
		return bobbinerr.StoreIO("optimize fts", err)
	}
	if _, err := s.db.Exec("VACUUM"); err != nil {
		return bobbinerr.StoreIO("vacuum", err)
	}
	return nil
}

// GetMeta returns a meta value and whether it was present.
func (s *Store) GetMeta(key string) (string, bool, error) {
	var value string
	err := sq.Select("value").From("meta").Where(sq.Eq{"key": key}).RunWith(s.db).QueryRow().Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, bobbinerr.StoreIO("get meta", err)
	}
	return value, true, nil
}

// SetMeta upserts a meta key/value pair.
func (s *Store) SetMeta(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return bobbinerr.StoreIO("set meta", err)
	}
	return nil
}

// BeginTx starts a transaction for callers that need to batch several
// store operations atomically (spec §4.C's begin_transaction/commit).
func (s *Store) BeginTx() (*sql.Tx, error) { return s.db.Begin() }

// UpsertCoupling replaces file_coupling rows for repo. Each pair is
// canonicalized so FileA < FileB before the write, matching the
// table's CHECK constraint.
func (s *Store) UpsertCoupling(repo string, couplings []chunk.FileCoupling) error {
	if len(couplings) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return bobbinerr.StoreIO("begin upsert coupling", err)
	}
	defer tx.Rollback()

	// Deleting per-pair keeps this idempotent without clobbering
	// unrelated pairs already stored for repo.
	for _, c := range couplings {
		a, b := c.FileA, c.FileB
		if a > b {
			a, b = b, a
		}
		if _, err := sq.Delete("file_coupling").
			Where(sq.Eq{"repo": repo, "file_a": a, "file_b": b}).
			RunWith(tx).Exec(); err != nil {
			return bobbinerr.StoreIO("delete coupling pair", err)
		}
	}

	insert := sq.Insert("file_coupling").Columns(
		"repo", "file_a", "file_b", "score", "co_changes", "last_co_change",
	)
	for _, c := range couplings {
		a, b := c.FileA, c.FileB
		if a > b {
			a, b = b, a
		}
		insert = insert.Values(repo, a, b, c.Score, c.CoChanges, c.LastCoChange)
	}
	if _, err := insert.RunWith(tx).Exec(); err != nil {
		return bobbinerr.StoreIO("insert coupling", err)
	}

	return tx.Commit()
}

// GetCoupling returns the top-scoring files coupled with file, in
// either column position, ordered by score descending.
func (s *Store) GetCoupling(repo, file string, limit int) ([]chunk.FileCoupling, error) {
	q := sq.Select("repo", "file_a", "file_b", "score", "co_changes", "last_co_change").
		From("file_coupling").
		Where(sq.Or{sq.Eq{"file_a": file}, sq.Eq{"file_b": file}}).
		Where(sq.Eq{"repo": repo}).
		OrderBy("score DESC").
		Limit(uint64(limit))

	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return nil, bobbinerr.StoreIO("get coupling", err)
	}
	defer rows.Close()

	var out []chunk.FileCoupling
	for rows.Next() {
		var repoCol, a, b string
		var c chunk.FileCoupling
		if err := rows.Scan(&repoCol, &a, &b, &c.Score, &c.CoChanges, &c.LastCoChange); err != nil {
			return nil, bobbinerr.StoreIO("scan coupling", err)
		}
		// Report the other file as FileA, file as FileB, so callers
		// never have to branch on which column held the match.
		if a == file {
			c.FileA, c.FileB = b, a
		} else {
			c.FileA, c.FileB = a, b
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ClearCoupling deletes every file_coupling row for repo, ahead of a
// full recomputation.
func (s *Store) ClearCoupling(repo string) error {
	_, err := sq.Delete("file_coupling").Where(sq.Eq{"repo": repo}).RunWith(s.db).Exec()
	if err != nil {
		return bobbinerr.StoreIO("clear coupling", err)
	}
	return nil
}

// UpsertDependency replaces import_edges rows for the given source
// files within repo.
func (s *Store) UpsertDependency(repo string, edges []chunk.ImportEdge) error {
	if len(edges) == 0 {
		return nil
	}

	sources := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		sources[e.SourceFile] = struct{}{}
	}
	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return bobbinerr.StoreIO("begin upsert dependency", err)
	}
	defer tx.Rollback()

	if _, err := sq.Delete("import_edges").
		Where(sq.Eq{"repo": repo, "source_file": paths}).
		RunWith(tx).Exec(); err != nil {
		return bobbinerr.StoreIO("delete import edges", err)
	}

	insert := sq.Insert("import_edges").Columns(
		"repo", "source_file", "specifier", "resolved_path", "language",
	)
	for _, e := range edges {
		insert = insert.Values(repo, e.SourceFile, e.Specifier, nullableString(e.Resolved), e.Language)
	}
	if _, err := insert.RunWith(tx).Exec(); err != nil {
		return bobbinerr.StoreIO("insert import edges", err)
	}

	return tx.Commit()
}

// GetImports returns every import edge whose source is file.
func (s *Store) GetImports(repo, file string) ([]chunk.ImportEdge, error) {
	rows, err := sq.Select("source_file", "specifier", "resolved_path", "language").
		From("import_edges").
		Where(sq.Eq{"repo": repo, "source_file": file}).
		RunWith(s.db).Query()
	if err != nil {
		return nil, bobbinerr.StoreIO("get imports", err)
	}
	defer rows.Close()
	return scanImportEdges(rows)
}

// GetDependents returns every import edge whose resolved target is file
// — i.e. every file that imports it.
func (s *Store) GetDependents(repo, file string) ([]chunk.ImportEdge, error) {
	rows, err := sq.Select("source_file", "specifier", "resolved_path", "language").
		From("import_edges").
		Where(sq.Eq{"repo": repo, "resolved_path": file}).
		RunWith(s.db).Query()
	if err != nil {
		return nil, bobbinerr.StoreIO("get dependents", err)
	}
	defer rows.Close()
	return scanImportEdges(rows)
}

func scanImportEdges(rows *sql.Rows) ([]chunk.ImportEdge, error) {
	var out []chunk.ImportEdge
	for rows.Next() {
		var e chunk.ImportEdge
		var resolved sql.NullString
		if err := rows.Scan(&e.SourceFile, &e.Specifier, &resolved, &e.Language); err != nil {
			return nil, bobbinerr.StoreIO("scan import edge", err)
		}
		e.Resolved = resolved.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearDependenciesForFiles removes every import_edges row sourced from
// the given files, ahead of re-extracting them on reindex.
func (s *Store) ClearDependenciesForFiles(repo string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := sq.Delete("import_edges").
		Where(sq.Eq{"repo": repo, "source_file": paths}).
		RunWith(s.db).Exec()
	if err != nil {
		return bobbinerr.StoreIO("clear dependencies", err)
	}
	return nil
}

var chunkColumns = []string{
	"chunk_id", "repo", "file_path", "chunk_type", "chunk_name",
	"start_line", "end_line", "content", "language",
	"content_hash", "indexed_at",
}

func scanChunks(rows *sql.Rows) ([]chunk.Chunk, error) {
	var chunks []chunk.Chunk
	for rows.Next() {
		var row Row
		var name sql.NullString
		if err := rows.Scan(
			&row.ID, &row.Repo, &row.FilePath, &row.ChunkType, &name,
			&row.StartLine, &row.EndLine, &row.Content, &row.Language,
			&row.ContentHash, &row.IndexedAt,
		); err != nil {
			return nil, bobbinerr.StoreIO("scan chunk", err)
		}
		if name.Valid {
			row.Name = name.String
		}
		chunks = append(chunks, rowToChunk(row))
	}
	return chunks, rows.Err()
}

func rowToChunk(row Row) chunk.Chunk {
	return chunk.Chunk{
		ID:          row.ID,
		FilePath:    row.FilePath,
		ChunkType:   chunk.Type(row.ChunkType),
		Name:        row.Name,
		StartLine:   row.StartLine,
		EndLine:     row.EndLine,
		Content:     row.Content,
		Language:    row.Language,
		ContentHash: row.ContentHash,
		IndexedAt:   row.IndexedAt,
	}
}

func scopeRepo(q sq.SelectBuilder, repo string) sq.SelectBuilder {
	if repo == "" {
		return q
	}
	return q.Where(sq.Eq{"repo": repo})
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
