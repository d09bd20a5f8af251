package embedder

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestMockProviderDeterministic(t *testing.T) {
	p := NewMockProvider(32)
	ctx := context.Background()

	a, err := p.Embed(ctx, []string{"hello world"}, ModePassage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.Embed(ctx, []string{"hello world"}, ModePassage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a[0]) != 32 || len(b[0]) != 32 {
		t.Fatalf("expected 32-dim vectors")
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("expected identical embeddings for identical text")
		}
	}
}

func TestMockProviderNormalized(t *testing.T) {
	p := NewMockProvider(16)
	vecs, err := p.Embed(context.Background(), []string{"x"}, ModeQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sumSq float64
	for _, f := range vecs[0] {
		sumSq += float64(f) * float64(f)
	}
	norm := math.Sqrt(sumSq)
	if math.Abs(norm-1.0) > 1e-4 {
		t.Fatalf("expected unit norm, got %f", norm)
	}
}

func TestMockProviderDifferentTextsDiffer(t *testing.T) {
	p := NewMockProvider(16)
	a, _ := p.Embed(context.Background(), []string{"foo"}, ModePassage)
	b, _ := p.Embed(context.Background(), []string{"bar"}, ModePassage)
	same := true
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("expected different embeddings for different text")
	}
}

func TestMockProviderErrorsAndClose(t *testing.T) {
	p := NewMockProvider(8)
	boom := errors.New("boom")
	p.SetEmbedError(boom)
	if _, err := p.Embed(context.Background(), []string{"x"}, ModeQuery); !errors.Is(err, boom) {
		t.Fatalf("expected configured error")
	}

	if p.IsClosed() {
		t.Fatalf("should not be closed yet")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !p.IsClosed() {
		t.Fatalf("expected closed")
	}
}
