package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SerializeEmbedding converts a float32 slice to little-endian bytes,
// 4 bytes per dimension, for storage in a SQLite BLOB column outside
// the vec0 virtual table's own internal format.
func SerializeEmbedding(emb []float32) []byte {
	bytes := make([]byte, len(emb)*4)
	for i, f := range emb {
		binary.LittleEndian.PutUint32(bytes[i*4:], math.Float32bits(f))
	}
	return bytes
}

// DeserializeEmbedding reverses SerializeEmbedding. Returns an error if
// the byte length isn't divisible by 4.
func DeserializeEmbedding(bytes []byte) ([]float32, error) {
	if len(bytes)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding data: length %d not divisible by 4", len(bytes))
	}

	floats := make([]float32, len(bytes)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(bytes[i*4:]))
	}
	return floats, nil
}
