// Package index keeps the search index synchronized with a fact store: the
// coordinator applies mutation events, and the checker verifies the
// fact-to-document bijection.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/quadsync/internal/bus"
	"github.com/Aman-CERP/quadsync/internal/projector"
	"github.com/Aman-CERP/quadsync/internal/quad"
	"github.com/Aman-CERP/quadsync/internal/store"
)

// Coordinator subscribes to a fact bus and maintains the index: fact-added
// events become projected upserts, fact-removed events become removals by
// derived key. Events are applied in emission order; redelivery is safe
// because upsert and remove are idempotent.
type Coordinator struct {
	facts quad.FactStore
	proj  *projector.Projector
	index *store.SearchIndex
	log   *slog.Logger
}

// NewCoordinator creates a coordinator over the given stores.
func NewCoordinator(facts quad.FactStore, proj *projector.Projector, index *store.SearchIndex) *Coordinator {
	return &Coordinator{
		facts: facts,
		proj:  proj,
		index: index,
		log:   slog.Default().With(slog.String("component", "coordinator")),
	}
}

// Attach subscribes the coordinator to the bus. Delivery is synchronous, so
// once a mutation call returns the index already reflects it.
func (c *Coordinator) Attach(b *bus.FactBus) {
	b.Subscribe(c.Handle)
}

// Handle applies one mutation event to the index. Batch events are expanded
// into per-fact applies here; the bus only ever emits one event per
// mutation call.
func (c *Coordinator) Handle(ctx context.Context, ev bus.Event) error {
	switch e := ev.(type) {
	case bus.FactAdded:
		return c.applyAdd(ctx, e.Fact)
	case bus.FactRemoved:
		return c.applyRemove(ctx, e.Fact)
	case bus.BatchAdded:
		return c.applyBatchAdd(ctx, e.Facts)
	case bus.BatchRemoved:
		return c.applyBatchRemove(ctx, e.Facts)
	default:
		return fmt.Errorf("unhandled event type %T", ev)
	}
}

// applyAdd projects the fact and upserts its document. A projection failure
// propagates to the mutation caller instead of being swallowed; the fact is
// then present in the store but absent from the index, and InSync reports
// the gap until a re-apply heals it.
func (c *Coordinator) applyAdd(ctx context.Context, f quad.Fact) error {
	key := quad.DeriveKey(f)

	doc, err := c.proj.Project(ctx, f, key)
	if err != nil {
		return fmt.Errorf("project fact %s: %w", f, err)
	}
	if err := c.index.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("upsert document %s: %w", key, err)
	}
	return nil
}

// applyRemove removes the fact's document by derived key.
func (c *Coordinator) applyRemove(ctx context.Context, f quad.Fact) error {
	key := quad.DeriveKey(f)
	if err := c.index.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove document %s: %w", key, err)
	}
	return nil
}

// applyBatchAdd projects the batch concurrently (embedding calls may block)
// and applies the upserts in batch order, preserving per-store event
// ordering.
func (c *Coordinator) applyBatchAdd(ctx context.Context, facts []quad.Fact) error {
	docs := make([]*store.Document, len(facts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range facts {
		i, f := i, f
		g.Go(func() error {
			key := quad.DeriveKey(f)
			doc, err := c.proj.Project(gctx, f, key)
			if err != nil {
				return fmt.Errorf("project fact %s: %w", f, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, doc := range docs {
		if err := c.index.Upsert(ctx, doc); err != nil {
			return fmt.Errorf("upsert document %s: %w", doc.Key, err)
		}
	}

	c.log.Debug("applied batch add", slog.Int("facts", len(facts)))
	return nil
}

// applyBatchRemove removes each fact's document in batch order.
func (c *Coordinator) applyBatchRemove(ctx context.Context, facts []quad.Fact) error {
	for _, f := range facts {
		if err := c.applyRemove(ctx, f); err != nil {
			return err
		}
	}

	c.log.Debug("applied batch remove", slog.Int("facts", len(facts)))
	return nil
}

// InSync reports whether the fact store and the index hold the same number
// of entries. Keys are a bijection of facts, so equal cardinality is a cheap
// proxy for the full invariant; Checker.Check performs the key-level scan.
func (c *Coordinator) InSync() bool {
	factCount := c.facts.Count()
	docCount := c.index.Count()

	if factCount != docCount {
		c.log.Debug("counts mismatch",
			slog.Int("facts", factCount),
			slog.Int("documents", docCount))
		return false
	}
	return true
}
