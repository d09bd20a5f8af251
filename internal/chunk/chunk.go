// Package chunk defines the atomic unit indexed and retrieved by bobbin:
// a semantic slice of source text, plus its embedding.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Type enumerates the kinds of semantic unit a Chunk can represent.
type Type string

const (
	TypeFunction  Type = "function"
	TypeMethod    Type = "method"
	TypeClass     Type = "class"
	TypeStruct    Type = "struct"
	TypeEnum      Type = "enum"
	TypeInterface Type = "interface"
	TypeModule    Type = "module"
	TypeImpl      Type = "impl"
	TypeTrait     Type = "trait"
	TypeDoc       Type = "doc"
	TypeSection   Type = "section"
	TypeTable     Type = "table"
	TypeCodeBlock Type = "code_block"
	TypeCommit    Type = "commit"
	TypeIssue     Type = "issue"
	TypeOther     Type = "other"
)

// Chunk is the atomic unit of indexing and retrieval: a function, a class,
// a markdown section, a commit message, or any other named semantic slice
// of a file's content.
type Chunk struct {
	ID        string
	FilePath  string
	ChunkType Type
	Name      string
	StartLine int
	EndLine   int
	Content   string
	Language  string

	// ContentHash is the SHA-256 of the whole file's raw bytes at the time
	// this chunk was produced. It is a convenience field on the in-memory
	// struct; the authoritative copy lives on the stored row.
	ContentHash string

	// IndexedAt is the RFC3339 timestamp the chunk was written under. For
	// commit chunks this is the commit's own date, not the wall-clock
	// insert time, so hybrid search can rerank by true recency.
	IndexedAt string
}

// NewID computes the stable 8-byte-hex fingerprint of a chunk's identity:
// (file_path, start_line, end_line). Reparsing an unchanged file must
// reproduce the same ID for the same span.
func NewID(filePath string, startLine, endLine int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", filePath, startLine, endLine)))
	return hex.EncodeToString(sum[:8])
}

// CommitPath builds the opaque file_path used for commit chunks.
func CommitPath(shortSHA string) string { return "git:" + shortSHA }

// Embedding is a fixed-dimension, L2-normalized float vector associated
// 1:1 with a Chunk.
type Embedding []float32

// Dims returns the dimensionality of the embedding.
func (e Embedding) Dims() int { return len(e) }
