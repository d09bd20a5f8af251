package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateSchema creates the chunks table, its vec0 and FTS5 shadow
// indexes, the coupling/import/meta tables, and all supporting
// indexes. Must run with sqlite-vec already initialized
// (InitVectorExtension) and PRAGMA foreign_keys enabled per connection.
func CreateSchema(db *sql.DB, dimensions int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"chunks", createChunksTable},
		{"file_coupling", createFileCouplingTable},
		{"import_edges", createImportEdgesTable},
		{"meta", createMetaTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range getAllIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	// vec0 and FTS5 virtual tables must be created outside a transaction.
	if err := CreateVectorIndex(db, dimensions); err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}
	if err := CreateFTSIndex(db); err != nil {
		return fmt.Errorf("failed to create FTS5 index: %w", err)
	}

	tx, err = db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin metadata transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	bootstrapSQL := `
		INSERT INTO meta (key, value) VALUES
			('schema_version', '1'),
			('embedding_dimensions', ?),
			('last_indexed_commit', ''),
			('last_indexed_at', ?)
	`
	if _, err := tx.Exec(bootstrapSQL, fmt.Sprintf("%d", dimensions), now); err != nil {
		return fmt.Errorf("failed to bootstrap meta: %w", err)
	}

	return tx.Commit()
}

// GetSchemaVersion returns "0" for a database with no meta table yet.
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='meta'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check meta existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

const createChunksTable = `
CREATE TABLE chunks (
    chunk_id     TEXT PRIMARY KEY,
    repo         TEXT NOT NULL,
    file_path    TEXT NOT NULL,
    chunk_type   TEXT NOT NULL,
    chunk_name   TEXT,
    start_line   INTEGER NOT NULL,
    end_line     INTEGER NOT NULL,
    content      TEXT NOT NULL,
    language     TEXT NOT NULL,
    embedding    BLOB NOT NULL,
    content_hash TEXT NOT NULL,
    indexed_at   TEXT NOT NULL,
    CHECK (start_line >= 1 AND end_line >= start_line)
)
`

const createFileCouplingTable = `
CREATE TABLE file_coupling (
    repo           TEXT NOT NULL,
    file_a         TEXT NOT NULL,
    file_b         TEXT NOT NULL,
    score          REAL NOT NULL,
    co_changes     INTEGER NOT NULL,
    last_co_change INTEGER NOT NULL,
    PRIMARY KEY (repo, file_a, file_b),
    CHECK (file_a < file_b)
)
`

const createImportEdgesTable = `
CREATE TABLE import_edges (
    repo           TEXT NOT NULL,
    source_file    TEXT NOT NULL,
    specifier      TEXT NOT NULL,
    resolved_path  TEXT,
    language       TEXT NOT NULL,
    PRIMARY KEY (repo, source_file, specifier)
)
`

const createMetaTable = `
CREATE TABLE meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)
`

func getAllIndexes() []string {
	return []string{
		"CREATE INDEX idx_chunks_repo_file ON chunks(repo, file_path)",
		"CREATE INDEX idx_chunks_chunk_type ON chunks(chunk_type)",
		"CREATE INDEX idx_chunks_content_hash ON chunks(repo, file_path, content_hash)",
		"CREATE INDEX idx_file_coupling_file_a ON file_coupling(repo, file_a, score)",
		"CREATE INDEX idx_file_coupling_file_b ON file_coupling(repo, file_b, score)",
		"CREATE INDEX idx_import_edges_source ON import_edges(repo, source_file)",
		"CREATE INDEX idx_import_edges_resolved ON import_edges(repo, resolved_path)",
	}
}
