// Package embedding produces sentence embeddings for semantic matching.
//
// Implementations:
//   - hashing: deterministic local feature hashing (default, no network)
//   - openai: OpenAI-compatible /embeddings endpoint
//   - ollama: Ollama /api/embeddings endpoint
//
// Remote implementations are wrapped in a circuit breaker by New.
package embedding

import (
	"context"
	"errors"
	"math"
)

// Embedder turns texts into vectors of a fixed dimension.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Ping checks that the backend is reachable without running inference
	// when the backend allows it.
	Ping(ctx context.Context) error

	ModelName() string
	Dimensions() int
	Close() error
}

var (
	// ErrUnknownProvider is returned by New for an unsupported provider.
	ErrUnknownProvider = errors.New("embedding: unknown provider")
	// ErrUnavailable wraps connectivity failures found while validating a backend.
	ErrUnavailable = errors.New("embedding: service unavailable")
	// ErrBatchSize is returned when a backend answers with the wrong number of vectors.
	ErrBatchSize = errors.New("embedding: response size does not match input")
)

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
