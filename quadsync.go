// Package quadsync keeps a search index continuously synchronized with a
// mutable collection of subject-predicate-object-graph facts and serves
// text, vector, and hybrid queries over it.
//
// The pieces compose as: mutations go through a FactBus wrapping the fact
// store; the bus emits typed events; a Coordinator projects affected facts
// into documents (via the embedding provider) and applies them to the
// SearchIndex; queries run against the index through the search Engine.
// Delivery is synchronous, so the index reflects every mutation by the time
// the mutating call returns.
package quadsync

import (
	"fmt"

	"github.com/Aman-CERP/quadsync/internal/bus"
	"github.com/Aman-CERP/quadsync/internal/config"
	"github.com/Aman-CERP/quadsync/internal/embed"
	"github.com/Aman-CERP/quadsync/internal/index"
	"github.com/Aman-CERP/quadsync/internal/projector"
	"github.com/Aman-CERP/quadsync/internal/quad"
	"github.com/Aman-CERP/quadsync/internal/search"
	"github.com/Aman-CERP/quadsync/internal/store"
)

// System is a fully wired quadsync instance.
type System struct {
	// Facts accepts mutations and emits the events that drive the index.
	Facts *bus.FactBus

	// Index is the document store behind the search engine.
	Index *store.SearchIndex

	// Searcher answers text, vector, and hybrid queries.
	Searcher *search.Engine

	// Coordinator applies events and reports sync state.
	Coordinator *index.Coordinator

	// Checker performs key-level consistency scans.
	Checker *index.Checker

	embedder embed.Embedder
}

// Open wires a system from the configuration, using the in-memory fact
// store and the built-in static embedding provider.
func Open(cfg *config.Config) (*System, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var embedder embed.Embedder = embed.NewStaticEmbedder(cfg.Embeddings.Dimensions)
	if cfg.Embeddings.CacheSize > 0 {
		embedder = embed.NewCachedEmbedder(embedder, cfg.Embeddings.CacheSize)
	}

	return OpenWith(cfg, quad.NewMemoryStore(), embedder)
}

// OpenWith wires a system around a caller-supplied fact store and embedding
// provider. The provider's dimension takes precedence over the configured
// one, since the index must match what the provider emits.
func OpenWith(cfg *config.Config, facts quad.FactStore, embedder embed.Embedder) (*System, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	storeCfg := store.Config{
		Dimensions: embedder.Dimensions(),
		M:          cfg.Vector.M,
		EfSearch:   cfg.Vector.EfSearch,
	}
	idx, err := store.NewSearchIndex(storeCfg)
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}

	proj := projector.New(embedder)
	factBus := bus.New(facts)
	coord := index.NewCoordinator(facts, proj, idx)
	coord.Attach(factBus)

	return &System{
		Facts:       factBus,
		Index:       idx,
		Searcher:    search.NewEngine(idx),
		Coordinator: coord,
		Checker:     index.NewChecker(facts, proj, idx),
		embedder:    embedder,
	}, nil
}

// Embedder returns the system's embedding provider, for callers that need
// to embed query text themselves.
func (s *System) Embedder() embed.Embedder {
	return s.embedder
}

// InSync reports whether the index currently reflects the fact store.
func (s *System) InSync() bool {
	return s.Coordinator.InSync()
}

// Close releases the index and the embedding provider.
func (s *System) Close() error {
	err := s.Index.Close()
	if cerr := s.embedder.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
