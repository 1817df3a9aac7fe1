// Package embed defines the embedding provider contract and a deterministic
// built-in provider. Embeddings are fixed-dimension float32 vectors; the
// contract requires determinism for identical input so that re-indexing the
// same fact is idempotent.
package embed

import (
	"context"
	"math"
)

const (
	// DefaultDimensions is the embedding dimension used when the
	// configuration names none.
	DefaultDimensions = 384

	// DefaultCacheSize is the default number of embeddings kept by
	// CachedEmbedder.
	DefaultCacheSize = 1000
)

// Embedder generates vector embeddings for text.
//
// Implementations must be deterministic for identical input and must not
// fail on empty input: the empty string maps to a fixed vector.
type Embedder interface {
	// Embed generates the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// ModelName returns the provider identifier.
	ModelName() string

	// Close releases resources.
	Close() error
}

// normalizeVector normalizes a vector to unit length.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v // Return as-is if zero vector
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}
