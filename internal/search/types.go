// Package search implements the three query modes over the search index:
// text, vector, and hybrid. Parameter validation and ranking semantics live
// here; the store only supplies candidates.
package search

import (
	"github.com/Aman-CERP/quadsync/internal/store"
)

// Mode selects the query mode.
type Mode string

const (
	ModeText   Mode = "text"
	ModeVector Mode = "vector"
	ModeHybrid Mode = "hybrid"
)

// Weights combines the text and vector contributions of a hybrid query.
// They are not required to sum to 1.
type Weights struct {
	Text   float64
	Vector float64
}

// DefaultWeights balances both sides evenly.
var DefaultWeights = Weights{Text: 0.5, Vector: 0.5}

// Query carries the parameters for one search call. Which fields matter
// depends on Mode:
//
//   - text: Text, Limit
//   - vector: Vector, Field, MinSimilarity, Limit
//   - hybrid: Text, Vector, Field, MinSimilarity, Limit, Weights
type Query struct {
	Mode Mode

	// Text is the query string for text and hybrid modes.
	Text string

	// Vector is the query embedding for vector and hybrid modes.
	Vector []float32

	// Field names the document vector compared against Vector.
	Field store.VectorField

	// MinSimilarity is the inclusive cosine similarity floor, in [0,1].
	MinSimilarity float64

	// Limit bounds the result list. Must be positive.
	Limit int

	// Weights scores hybrid results. Zero value falls back to DefaultWeights.
	Weights Weights
}

// Result is one ranked hit.
type Result struct {
	Document *store.Document
	Score    float64
}
