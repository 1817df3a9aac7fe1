package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/coder/hnsw"
)

// VectorStore holds the embeddings for one vector field using the coder/hnsw
// pure Go HNSW implementation. The graph serves as the candidate generator;
// hits are re-scored with exact cosine similarity from the retained raw
// vectors so that threshold semantics are precise.
type VectorStore struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[uint64]
	dims  int

	// ID mapping (string key <-> uint64 graph key) plus raw vectors.
	idMap   map[string]uint64
	keyMap  map[uint64]string
	vecs    map[string][]float32
	nextKey uint64

	closed bool
}

// NewVectorStore creates a vector store for the given configuration.
func NewVectorStore(cfg Config) (*VectorStore, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.M == 0 {
		cfg.M = 16
	}
	if cfg.EfSearch == 0 {
		cfg.EfSearch = 20
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = cfg.M
	graph.EfSearch = cfg.EfSearch
	graph.Ml = 0.25

	return &VectorStore{
		graph:  graph,
		dims:   cfg.Dimensions,
		idMap:  make(map[string]uint64),
		keyMap: make(map[uint64]string),
		vecs:   make(map[string][]float32),
	}, nil
}

// Add inserts the vector under key, replacing any existing entry. Existing
// graph nodes are lazily deleted (orphaned) rather than removed, which
// avoids coder/hnsw issues with deleting the last node.
func (s *VectorStore) Add(ctx context.Context, key string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("vector store is closed")
	}
	if len(vector) != s.dims {
		return ErrDimensionMismatch{Expected: s.dims, Got: len(vector)}
	}

	if existing, exists := s.idMap[key]; exists {
		delete(s.keyMap, existing) // orphan the old node
		delete(s.idMap, key)
	}

	graphKey := s.nextKey
	s.nextKey++

	// The graph normalizes for cosine distance; keep the raw vector for
	// exact re-scoring.
	raw := make([]float32, len(vector))
	copy(raw, vector)

	vec := make([]float32, len(vector))
	copy(vec, vector)
	if !normalizeInPlace(vec) {
		// Zero vectors (the fixed empty-text embedding) would produce NaN
		// cosine distances inside the graph. Park them on a basis vector;
		// exact re-scoring still reports similarity 0 from the raw vector.
		vec[0] = 1
	}

	s.graph.Add(hnsw.MakeNode(graphKey, vec))
	s.idMap[key] = graphKey
	s.keyMap[graphKey] = key
	s.vecs[key] = raw

	return nil
}

// Delete removes the vector under key. Missing keys are a no-op.
// Uses lazy deletion: the node stays in the graph but is never reported.
func (s *VectorStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("vector store is closed")
	}

	if graphKey, exists := s.idMap[key]; exists {
		delete(s.keyMap, graphKey)
		delete(s.idMap, key)
		delete(s.vecs, key)
	}
	return nil
}

// Search returns documents whose vector has cosine similarity >= minSim with
// the query, ranked descending by similarity. limit <= 0 means unbounded;
// the engine enforces positive limits on callers.
func (s *VectorStore) Search(ctx context.Context, query []float32, minSim float64, limit int) ([]*VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("vector store is closed")
	}
	if len(query) != s.dims {
		return nil, ErrDimensionMismatch{Expected: s.dims, Got: len(query)}
	}
	if len(s.idMap) == 0 {
		return []*VectorResult{}, nil
	}

	var results []*VectorResult

	normalized := make([]float32, len(query))
	copy(normalized, query)
	if !normalizeInPlace(normalized) {
		// A zero query has similarity 0 with everything; the graph cannot
		// rank it, so score the store directly.
		results = make([]*VectorResult, 0)
		if minSim <= 0 {
			for key := range s.idMap {
				results = append(results, &VectorResult{Key: key, Similarity: 0})
			}
		}
	} else {
		// Ask for every node (including lazy-deleted orphans) so the
		// candidate set covers the whole store, then re-score exactly.
		nodes := s.graph.Search(normalized, s.graph.Len())

		results = make([]*VectorResult, 0, len(nodes))
		for _, node := range nodes {
			key, exists := s.keyMap[node.Key]
			if !exists {
				continue // orphaned by lazy deletion
			}
			sim := CosineSimilarity(query, s.vecs[key])
			if sim >= minSim {
				results = append(results, &VectorResult{Key: key, Similarity: sim})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Key < results[j].Key
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Contains checks if key exists.
func (s *VectorStore) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}
	_, exists := s.idMap[key]
	return exists
}

// Count returns the number of vectors.
func (s *VectorStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0
	}
	return len(s.idMap)
}

// AllKeys returns all vector keys in the store.
// Used for consistency checking between stores.
func (s *VectorStore) AllKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil
	}

	keys := make([]string, 0, len(s.idMap))
	for key := range s.idMap {
		keys = append(keys, key)
	}
	return keys
}

// Close releases resources.
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.graph = nil
	return nil
}

// CosineSimilarity computes exact cosine similarity between two vectors,
// clipped to [0,1]: zero vectors and anti-correlated vectors score 0.
//
// The ratio form (dot² over the product of squared norms) makes identical
// inputs score exactly 1.0, which the >= threshold contract relies on.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, sumA, sumB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		sumA += av * av
		sumB += bv * bv
	}

	if sumA == 0 || sumB == 0 || dot <= 0 {
		return 0
	}

	ratio := (dot * dot) / (sumA * sumB)
	if ratio >= 1 {
		return 1
	}
	return math.Sqrt(ratio)
}

// normalizeInPlace normalizes a vector to unit length in place.
// Returns false for the zero vector, which is left untouched.
func normalizeInPlace(v []float32) bool {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return false
	}
	invMagnitude := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= invMagnitude
	}
	return true
}
