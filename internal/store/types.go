// Package store provides the search index: a bleve text index, per-field
// HNSW vector stores, and the document map they are kept consistent with.
// Documents are projections of facts and are owned exclusively by this index:
// they are created or replaced on fact-add events and deleted on fact-remove
// events.
package store

import "fmt"

// VectorField names one of the per-document embedding vectors.
type VectorField string

const (
	FieldSubject   VectorField = "subject"
	FieldPredicate VectorField = "predicate"
	FieldObject    VectorField = "object"
	FieldCombined  VectorField = "combined"
)

// VectorFields lists every valid vector field.
var VectorFields = []VectorField{FieldSubject, FieldPredicate, FieldObject, FieldCombined}

// ValidVectorField reports whether the field names a known vector.
func ValidVectorField(f VectorField) bool {
	switch f {
	case FieldSubject, FieldPredicate, FieldObject, FieldCombined:
		return true
	default:
		return false
	}
}

// Document is the indexed projection of a fact.
type Document struct {
	// Key is the fact's derived key and the document identity.
	Key string

	// Textual fields.
	Subject   string
	Predicate string
	Object    string
	Graph     string

	// ObjectKind tags the object term: "iri", "blank", or "literal".
	ObjectKind string

	// Language and Datatype are populated only for literal objects.
	Language string
	Datatype string

	// Embedding vectors, all of the index dimension.
	SubjectVec   []float32
	PredicateVec []float32
	ObjectVec    []float32
	CombinedVec  []float32
}

// Vector returns the embedding for the named field.
func (d *Document) Vector(field VectorField) []float32 {
	switch field {
	case FieldSubject:
		return d.SubjectVec
	case FieldPredicate:
		return d.PredicateVec
	case FieldObject:
		return d.ObjectVec
	case FieldCombined:
		return d.CombinedVec
	default:
		return nil
	}
}

// TextResult is a single text index hit.
type TextResult struct {
	Key   string
	Score float64
}

// VectorResult is a single vector store hit. Similarity is exact cosine
// similarity clipped to [0,1].
type VectorResult struct {
	Key        string
	Similarity float64
}

// Config configures the search index.
type Config struct {
	// Dimensions is the embedding vector dimension.
	Dimensions int

	// M is the HNSW max connections per layer (0 uses the library default).
	M int

	// EfSearch is the HNSW query-time search width (0 uses the library default).
	EfSearch int
}

// DefaultConfig returns sensible defaults for the given dimension.
func DefaultConfig(dimensions int) Config {
	return Config{
		Dimensions: dimensions,
		M:          16,
		EfSearch:   20,
	}
}

// ErrDimensionMismatch indicates a vector of the wrong dimension.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
