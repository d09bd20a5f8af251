package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateFTSIndex creates the FTS5 shadow table used for BM25 keyword
// search over chunk content. Separators are tuned so identifiers with
// underscores and dots tokenize usefully for code search.
func CreateFTSIndex(db *sql.DB) error {
	createSQL := `
		CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
			chunk_id UNINDEXED,
			content,
			tokenize = "unicode61 separators '._'"
		)
	`
	if _, err := db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create FTS5 index: %w", err)
	}
	return nil
}

// UpsertFTS replaces the chunks_fts rows for the given chunk ids.
// FTS5 has no INSERT OR REPLACE, so each row is deleted then
// reinserted.
func UpsertFTS(tx *sql.Tx, ids []string, contents []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) != len(contents) {
		return fmt.Errorf("fts upsert: %d ids but %d contents", len(ids), len(contents))
	}

	deleteStmt, err := tx.Prepare("DELETE FROM chunks_fts WHERE chunk_id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare FTS5 delete statement: %w", err)
	}
	defer deleteStmt.Close()

	insertStmt, err := tx.Prepare("INSERT INTO chunks_fts (chunk_id, content) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare FTS5 insert statement: %w", err)
	}
	defer insertStmt.Close()

	for i, id := range ids {
		if _, err := deleteStmt.Exec(id); err != nil {
			return fmt.Errorf("failed to delete FTS5 entry for chunk %s: %w", id, err)
		}
		if _, err := insertStmt.Exec(id, contents[i]); err != nil {
			return fmt.Errorf("failed to insert FTS5 entry for chunk %s: %w", id, err)
		}
	}
	return nil
}

// DeleteFTSByIDs removes chunks_fts rows for the given chunk ids.
func DeleteFTSByIDs(tx *sql.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	stmt, err := tx.Prepare("DELETE FROM chunks_fts WHERE chunk_id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare FTS5 delete statement: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("failed to delete FTS5 entry for chunk %s: %w", id, err)
		}
	}
	return nil
}

// FTSHit is one BM25 match. FTS5's built-in rank is most-negative for
// the best match, so callers sort ascending.
type FTSHit struct {
	ChunkID string
	Rank    float64
}

// QueryFTS runs a MATCH query over chunks_fts, best match first.
func QueryFTS(db *sql.DB, query string, limit int) ([]FTSHit, error) {
	rows, err := db.Query(`
		SELECT chunk_id, rank
		FROM chunks_fts
		WHERE chunks_fts.content MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query FTS5: %w", err)
	}
	defer rows.Close()

	var hits []FTSHit
	for rows.Next() {
		var h FTSHit
		if err := rows.Scan(&h.ChunkID, &h.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan FTS5 result: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// EscapeFTSQuery escapes FTS5's special double-quote character so raw
// user text can be safely wrapped in a phrase query.
func EscapeFTSQuery(input string) string {
	return strings.ReplaceAll(input, `"`, `""`)
}
