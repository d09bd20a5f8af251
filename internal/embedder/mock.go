package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"
)

// MockProvider generates deterministic, L2-normalized embeddings from a
// SHA-256 hash of the input text. It is used by tests and by any caller
// that wants a working pipeline without a real model wired in.
type MockProvider struct {
	mu         sync.Mutex
	dimensions int
	closed     bool
	embedErr   error
	closeErr   error
}

// NewMockProvider creates a mock embedder with the given dimensionality.
func NewMockProvider(dimensions int) *MockProvider {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockProvider{dimensions: dimensions}
}

// SetEmbedError configures Embed to fail with err on every subsequent call.
func (p *MockProvider) SetEmbedError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.embedErr = err
}

// SetCloseError configures Close to return err.
func (p *MockProvider) SetCloseError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeErr = err
}

func (p *MockProvider) Embed(_ context.Context, texts []string, _ Mode) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.embedErr != nil {
		return nil, p.embedErr
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = deterministicVector(text, p.dimensions)
	}
	return out, nil
}

func (p *MockProvider) Dimensions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dimensions
}

func (p *MockProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.closeErr
}

// IsClosed reports whether Close has been called.
func (p *MockProvider) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// deterministicVector derives a unit-norm float32 vector from text by
// expanding a SHA-256 digest into dims components, then normalizing.
func deterministicVector(text string, dims int) []float32 {
	hash := sha256.Sum256([]byte(text))
	v := make([]float32, dims)
	var sumSq float64
	for i := range v {
		offset := (i * 4) % len(hash)
		bits := binary.BigEndian.Uint32(hash[offset : offset+4])
		f := (float32(bits)/float32(1<<32))*2.0 - 1.0
		v[i] = f
		sumSq += float64(f) * float64(f)
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
