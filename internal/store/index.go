package store

import (
	"context"
	"fmt"
	"sync"
)

// SearchIndex owns the current document set. It keeps the text index, the
// four vector stores, and the document map consistent under a single lock.
//
// Upsert and Remove are idempotent by key: re-inserting replaces, removing
// an absent key is a no-op. That is what lets the coordinator tolerate
// redelivered events.
type SearchIndex struct {
	mu      sync.RWMutex
	cfg     Config
	text    *TextIndex
	vectors map[VectorField]*VectorStore
	docs    map[string]*Document
	closed  bool
}

// NewSearchIndex creates an empty search index for the configuration.
func NewSearchIndex(cfg Config) (*SearchIndex, error) {
	text, err := NewTextIndex()
	if err != nil {
		return nil, fmt.Errorf("create text index: %w", err)
	}

	vectors := make(map[VectorField]*VectorStore, len(VectorFields))
	for _, field := range VectorFields {
		vs, err := NewVectorStore(cfg)
		if err != nil {
			_ = text.Close()
			return nil, fmt.Errorf("create %s vector store: %w", field, err)
		}
		vectors[field] = vs
	}

	return &SearchIndex{
		cfg:     cfg,
		text:    text,
		vectors: vectors,
		docs:    make(map[string]*Document),
	}, nil
}

// Dimensions returns the configured embedding dimension.
func (s *SearchIndex) Dimensions() int {
	return s.cfg.Dimensions
}

// Upsert inserts or replaces the document under its key. The apply is
// all-or-nothing for the key: vector dimensions are validated up front, and
// a failed text write leaves the previous state in place.
func (s *SearchIndex) Upsert(ctx context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	if doc.Key == "" {
		return fmt.Errorf("document has empty key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("index is closed")
	}

	for _, field := range VectorFields {
		if got := len(doc.Vector(field)); got != s.cfg.Dimensions {
			return ErrDimensionMismatch{Expected: s.cfg.Dimensions, Got: got}
		}
	}

	// The text write is the only step that can fail past validation; do it
	// first so nothing is partially applied.
	if err := s.text.Index(ctx, doc.Key, ContentFor(doc)); err != nil {
		return fmt.Errorf("upsert %s: %w", doc.Key, err)
	}

	for _, field := range VectorFields {
		if err := s.vectors[field].Add(ctx, doc.Key, doc.Vector(field)); err != nil {
			return fmt.Errorf("upsert %s vector for %s: %w", field, doc.Key, err)
		}
	}

	s.docs[doc.Key] = doc
	return nil
}

// Remove deletes the document under key. Missing keys are a no-op.
func (s *SearchIndex) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("index is closed")
	}
	if _, exists := s.docs[key]; !exists {
		return nil
	}

	if err := s.text.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	for _, field := range VectorFields {
		if err := s.vectors[field].Delete(ctx, key); err != nil {
			return fmt.Errorf("remove %s vector for %s: %w", field, key, err)
		}
	}

	delete(s.docs, key)
	return nil
}

// Count returns the number of indexed documents.
func (s *SearchIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// GetByKey returns the document under key, or ok=false for a miss.
func (s *SearchIndex) GetByKey(key string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	return doc, ok
}

// AllKeys returns every document key.
// Used for consistency checking against the fact store.
func (s *SearchIndex) AllKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for key := range s.docs {
		keys = append(keys, key)
	}
	return keys
}

// SearchText runs a keyword query against the text index.
func (s *SearchIndex) SearchText(ctx context.Context, query string, limit int) ([]*TextResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("index is closed")
	}
	return s.text.Search(ctx, query, limit)
}

// SearchVector runs a similarity query against the named vector field.
// The field must be validated by the caller; an unknown field is an error.
func (s *SearchIndex) SearchVector(ctx context.Context, field VectorField, query []float32, minSim float64, limit int) ([]*VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("index is closed")
	}

	vs, ok := s.vectors[field]
	if !ok {
		return nil, fmt.Errorf("unknown vector field %q", field)
	}
	return vs.Search(ctx, query, minSim, limit)
}

// Close releases all sub-stores.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := s.text.Close()
	for _, vs := range s.vectors {
		if cerr := vs.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
