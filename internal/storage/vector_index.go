package storage

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

// InitVectorExtension registers the sqlite-vec extension with every
// future database/sql connection. Must be called once per process
// before opening a store.
func InitVectorExtension() {
	sqlite_vec.Auto()
}

// CreateVectorIndex creates the vec0 virtual table used for cosine KNN
// search. It mirrors the chunks table by chunk_id only; callers must
// join back to chunks for full row data.
func CreateVectorIndex(db *sql.DB, dimensions int) error {
	createSQL := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunks_vec USING vec0(
			chunk_id TEXT PRIMARY KEY,
			embedding float[%d]
		)
	`, dimensions)

	if _, err := db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}
	return nil
}

// UpsertVectors replaces the vec0 rows for the given chunk/embedding
// pairs. vec0 has no INSERT OR REPLACE, so each row is deleted then
// reinserted.
func UpsertVectors(tx *sql.Tx, ids []string, embeddings [][]float32) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) != len(embeddings) {
		return fmt.Errorf("vector upsert: %d ids but %d embeddings", len(ids), len(embeddings))
	}

	deleteStmt, err := tx.Prepare("DELETE FROM chunks_vec WHERE chunk_id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare vector delete statement: %w", err)
	}
	defer deleteStmt.Close()

	insertStmt, err := tx.Prepare("INSERT INTO chunks_vec (chunk_id, embedding) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare vector insert statement: %w", err)
	}
	defer insertStmt.Close()

	for i, id := range ids {
		if _, err := deleteStmt.Exec(id); err != nil {
			return fmt.Errorf("failed to delete vector for chunk %s: %w", id, err)
		}

		embBytes, err := sqlite_vec.SerializeFloat32(embeddings[i])
		if err != nil {
			return fmt.Errorf("failed to serialize embedding for chunk %s: %w", id, err)
		}
		if _, err := insertStmt.Exec(id, embBytes); err != nil {
			return fmt.Errorf("failed to insert vector for chunk %s: %w", id, err)
		}
	}
	return nil
}

// DeleteVectorsByIDs removes vec0 rows for the given chunk ids.
func DeleteVectorsByIDs(tx *sql.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	stmt, err := tx.Prepare("DELETE FROM chunks_vec WHERE chunk_id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare vector delete statement: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("failed to delete vector for chunk %s: %w", id, err)
		}
	}
	return nil
}

// VectorHit is one result of a cosine-distance KNN query.
type VectorHit struct {
	ChunkID  string
	Distance float64
}

// QueryVectorSimilarity runs KNN over chunks_vec, closest first.
func QueryVectorSimilarity(db *sql.DB, queryEmb []float32, limit int) ([]VectorHit, error) {
	queryBytes, err := sqlite_vec.SerializeFloat32(queryEmb)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize query embedding: %w", err)
	}

	rows, err := db.Query(`
		SELECT chunk_id, vec_distance_cosine(embedding, ?) AS distance
		FROM chunks_vec
		ORDER BY distance
		LIMIT ?
	`, queryBytes, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}
	defer rows.Close()

	var hits []VectorHit
	for rows.Next() {
		var h VectorHit
		if err := rows.Scan(&h.ChunkID, &h.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan vector result: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
