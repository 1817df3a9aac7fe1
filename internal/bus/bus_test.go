package bus

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/quadsync/internal/quad"
)

// recorder captures every event a bus delivers.
type recorder struct {
	events []Event
}

func (r *recorder) handle(ctx context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return nil
}

func newTestBus(t *testing.T) (*FactBus, *recorder) {
	t.Helper()
	b := New(quad.NewMemoryStore())
	rec := &recorder{}
	b.Subscribe(rec.handle)
	return b, rec
}

// TS01: Single Mutations Emit Single-Fact Events
func TestFactBus_SingleEvents(t *testing.T) {
	// Given: a bus with a subscriber
	b, rec := newTestBus(t)
	f := quad.Triple(quad.IRI("s"), quad.IRI("p"), quad.IRI("o"))

	// When: adding then removing one fact
	require.NoError(t, b.AddOne(context.Background(), f))
	require.NoError(t, b.RemoveOne(context.Background(), f))

	// Then: exactly FactAdded then FactRemoved were delivered
	require.Len(t, rec.events, 2)
	added, ok := rec.events[0].(FactAdded)
	require.True(t, ok)
	assert.Equal(t, f, added.Fact)
	removed, ok := rec.events[1].(FactRemoved)
	require.True(t, ok)
	assert.Equal(t, f, removed.Fact)
}

// TS02: Batch Mutations Emit One Event Each
func TestFactBus_BatchEvents(t *testing.T) {
	b, rec := newTestBus(t)
	facts := []quad.Fact{
		quad.Triple(quad.IRI("a"), quad.IRI("p"), quad.IRI("o")),
		quad.Triple(quad.IRI("b"), quad.IRI("p"), quad.IRI("o")),
	}

	require.NoError(t, b.AddMany(context.Background(), facts))
	require.NoError(t, b.RemoveMany(context.Background(), facts))

	require.Len(t, rec.events, 2)
	added, ok := rec.events[0].(BatchAdded)
	require.True(t, ok)
	assert.Equal(t, facts, added.Facts)
	removed, ok := rec.events[1].(BatchRemoved)
	require.True(t, ok)
	assert.Equal(t, facts, removed.Facts)
}

// TS03: Empty Batches Emit Nothing
func TestFactBus_EmptyBatches(t *testing.T) {
	b, rec := newTestBus(t)

	require.NoError(t, b.AddMany(context.Background(), nil))
	require.NoError(t, b.RemoveMany(context.Background(), []quad.Fact{}))

	assert.Empty(t, rec.events)
}

// TS04: Pattern Removal Carries the Pre-Mutation Snapshot
func TestFactBus_RemoveByPattern_Snapshot(t *testing.T) {
	// Given: three facts for one subject and one for another
	b, rec := newTestBus(t)
	subjectFacts := []quad.Fact{
		quad.Triple(quad.IRI("s1"), quad.IRI("p1"), quad.IRI("o1")),
		quad.Triple(quad.IRI("s1"), quad.IRI("p2"), quad.IRI("o2")),
		quad.Triple(quad.IRI("s1"), quad.IRI("p3"), quad.IRI("o3")),
	}
	other := quad.Triple(quad.IRI("s2"), quad.IRI("p1"), quad.IRI("o1"))
	require.NoError(t, b.AddMany(context.Background(), append(subjectFacts, other)))
	rec.events = nil

	// When: removing by subject pattern
	subject := quad.IRI("s1")
	require.NoError(t, b.RemoveByPattern(context.Background(), quad.Pattern{Subject: &subject}))

	// Then: one BatchRemoved carries exactly the matched facts
	require.Len(t, rec.events, 1)
	removed, ok := rec.events[0].(BatchRemoved)
	require.True(t, ok)
	assert.ElementsMatch(t, subjectFacts, removed.Facts)

	// And: the unmatched fact is untouched
	assert.Equal(t, 1, b.Count())
}

// TS05: Zero-Match Pattern Removal Emits Nothing
func TestFactBus_RemoveByPattern_NoMatch(t *testing.T) {
	b, rec := newTestBus(t)
	require.NoError(t, b.AddOne(context.Background(), quad.Triple(quad.IRI("s"), quad.IRI("p"), quad.IRI("o"))))
	rec.events = nil

	require.NoError(t, b.RemoveByPattern(context.Background(), quad.GraphPattern(quad.IRI("missing"))))

	assert.Empty(t, rec.events)
	assert.Equal(t, 1, b.Count())
}

// TS06: Graph Removal Is a Pattern Removal
func TestFactBus_RemoveGraph(t *testing.T) {
	b, rec := newTestBus(t)
	inGraph := quad.Quad(quad.IRI("s1"), quad.IRI("p"), quad.IRI("o"), quad.IRI("g1"))
	outside := quad.Quad(quad.IRI("s2"), quad.IRI("p"), quad.IRI("o"), quad.IRI("g2"))
	require.NoError(t, b.AddMany(context.Background(), []quad.Fact{inGraph, outside}))
	rec.events = nil

	require.NoError(t, b.RemoveGraph(context.Background(), quad.IRI("g1")))

	require.Len(t, rec.events, 1)
	removed, ok := rec.events[0].(BatchRemoved)
	require.True(t, ok)
	assert.Equal(t, []quad.Fact{inGraph}, removed.Facts)
	assert.Equal(t, 1, b.Count())
}

// TS07: Handler Errors Propagate to the Mutation Caller
func TestFactBus_HandlerError(t *testing.T) {
	// Given: a failing subscriber registered before a recording one
	b := New(quad.NewMemoryStore())
	b.Subscribe(func(ctx context.Context, ev Event) error {
		return fmt.Errorf("projection failed")
	})
	rec := &recorder{}
	b.Subscribe(rec.handle)

	f := quad.Triple(quad.IRI("s"), quad.IRI("p"), quad.IRI("o"))
	err := b.AddOne(context.Background(), f)

	// Then: the caller sees the error and later subscribers were skipped
	require.Error(t, err)
	assert.Contains(t, err.Error(), "projection failed")
	assert.Empty(t, rec.events)

	// And: the store mutation itself was not rolled back
	assert.Equal(t, 1, b.Count())
}

// TS08: Subscribers Receive Events in Registration Order
func TestFactBus_SubscriberOrder(t *testing.T) {
	b := New(quad.NewMemoryStore())
	var order []string
	b.Subscribe(func(ctx context.Context, ev Event) error {
		order = append(order, "first")
		return nil
	})
	b.Subscribe(func(ctx context.Context, ev Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, b.AddOne(context.Background(), quad.Triple(quad.IRI("s"), quad.IRI("p"), quad.IRI("o"))))

	assert.Equal(t, []string{"first", "second"}, order)
}
