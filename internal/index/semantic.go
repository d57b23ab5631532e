package index

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Embedder builds dense vectors for chunk and query text. The production
// implementation talks to an embedding model over HTTP; tests use fakes.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// semanticModel holds one L2-normalized embedding vector per chunk, in
// chunk order. Normalization makes a dot product equal cosine similarity.
type semanticModel struct {
	Vectors [][]float32
}

const embedBatchSize = 64

func fitSemantic(ctx context.Context, embedder Embedder, texts []string) (*semanticModel, error) {
	if embedder == nil {
		return nil, errors.New("semantic fit: no embedder configured")
	}
	if len(texts) == 0 {
		return nil, errors.New("semantic fit: empty corpus")
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("semantic fit: vectors/texts mismatch: %d/%d", len(vectors), len(texts))
	}

	for _, v := range vectors {
		normalize(v)
	}
	return &semanticModel{Vectors: vectors}, nil
}

// score embeds the query and returns its dot product against every chunk
// vector, in row order.
func (m *semanticModel) score(ctx context.Context, embedder Embedder, query string) ([]float64, error) {
	if embedder == nil {
		return nil, errors.New("semantic score: no embedder configured")
	}
	qv, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	normalize(qv)

	out := make([]float64, len(m.Vectors))
	for i, v := range m.Vectors {
		out[i] = dot(qv, v)
	}
	return out, nil
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
