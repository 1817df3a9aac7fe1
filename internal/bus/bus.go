package bus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Aman-CERP/quadsync/internal/quad"
)

// FactBus wraps a FactStore and emits one event per mutation call. All
// mutations on a bus are serialized by a single lock, so snapshot-then-
// mutate-then-emit sequences cannot interleave with other mutations, and
// subscribers see events in call order.
//
// Delivery is synchronous: by the time a mutation method returns, every
// subscriber has processed the event. A subscriber error aborts delivery to
// later subscribers and propagates to the mutation caller; the store
// mutation itself is not rolled back, which the coordinator's InSync
// diagnostics must then surface.
type FactBus struct {
	mu       sync.Mutex
	store    quad.FactStore
	handlers []Handler
	log      *slog.Logger
}

// New creates a bus owning the given store. Mutations must go through the
// bus from then on; mutating the store directly bypasses event emission.
func New(store quad.FactStore) *FactBus {
	return &FactBus{
		store: store,
		log:   slog.Default().With(slog.String("component", "bus")),
	}
}

// Subscribe registers a handler for all subsequent mutations.
// Not safe to call concurrently with mutations.
func (b *FactBus) Subscribe(h Handler) {
	b.handlers = append(b.handlers, h)
}

// emit delivers the event to every subscriber in registration order.
func (b *FactBus) emit(ctx context.Context, ev Event) error {
	for _, h := range b.handlers {
		if err := h(ctx, ev); err != nil {
			b.log.Error("event handler failed", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}

// AddOne inserts a single fact and emits FactAdded.
func (b *FactBus) AddOne(ctx context.Context, f quad.Fact) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store.AddOne(f)
	return b.emit(ctx, FactAdded{Fact: f})
}

// RemoveOne deletes a single fact and emits FactRemoved.
func (b *FactBus) RemoveOne(ctx context.Context, f quad.Fact) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store.RemoveOne(f)
	return b.emit(ctx, FactRemoved{Fact: f})
}

// AddMany inserts a batch and emits one BatchAdded carrying all of it.
// An empty batch emits nothing.
func (b *FactBus) AddMany(ctx context.Context, facts []quad.Fact) error {
	if len(facts) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.store.AddMany(facts)
	return b.emit(ctx, BatchAdded{Facts: facts})
}

// RemoveMany deletes a batch and emits one BatchRemoved carrying all of it.
// An empty batch emits nothing.
func (b *FactBus) RemoveMany(ctx context.Context, facts []quad.Fact) error {
	if len(facts) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.store.RemoveMany(facts)
	return b.emit(ctx, BatchRemoved{Facts: facts})
}

// RemoveByPattern snapshots the matching facts, deletes them, and emits one
// BatchRemoved carrying exactly the snapshot. Zero matches emit nothing.
// The bus never re-queries after the mutation.
func (b *FactBus) RemoveByPattern(ctx context.Context, p quad.Pattern) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := b.store.QueryPattern(p)
	if len(snapshot) == 0 {
		return nil
	}

	b.store.RemoveByPattern(p)
	return b.emit(ctx, BatchRemoved{Facts: snapshot})
}

// RemoveGraph deletes every fact in the graph. Semantically a pattern
// removal with only the graph bound; same snapshot discipline.
func (b *FactBus) RemoveGraph(ctx context.Context, graph quad.Term) error {
	return b.RemoveByPattern(ctx, quad.GraphPattern(graph))
}

// QueryPattern delegates to the underlying store.
func (b *FactBus) QueryPattern(p quad.Pattern) []quad.Fact {
	return b.store.QueryPattern(p)
}

// Count delegates to the underlying store.
func (b *FactBus) Count() int {
	return b.store.Count()
}
