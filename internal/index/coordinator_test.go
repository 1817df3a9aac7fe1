package index

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/quadsync/internal/bus"
	"github.com/Aman-CERP/quadsync/internal/embed"
	"github.com/Aman-CERP/quadsync/internal/projector"
	"github.com/Aman-CERP/quadsync/internal/quad"
	"github.com/Aman-CERP/quadsync/internal/store"
)

const testDims = 32

// testSystem wires a bus, coordinator, and index around an in-memory store.
type testSystem struct {
	facts *quad.MemoryStore
	bus   *bus.FactBus
	coord *Coordinator
	index *store.SearchIndex
	proj  *projector.Projector
}

func newTestSystem(t *testing.T, embedder embed.Embedder) *testSystem {
	t.Helper()

	if embedder == nil {
		embedder = embed.NewStaticEmbedder(testDims)
	}
	idx, err := store.NewSearchIndex(store.DefaultConfig(embedder.Dimensions()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = idx.Close()
		_ = embedder.Close()
	})

	facts := quad.NewMemoryStore()
	proj := projector.New(embedder)
	b := bus.New(facts)
	coord := NewCoordinator(facts, proj, idx)
	coord.Attach(b)

	return &testSystem{facts: facts, bus: b, coord: coord, index: idx, proj: proj}
}

// TS01: Added Facts Become Searchable Before the Call Returns
func TestCoordinator_AddOne(t *testing.T) {
	// Given: a wired system
	sys := newTestSystem(t, nil)
	f := quad.Triple(quad.IRI("person1"), quad.IRI("name"), quad.Literal("Alice"))

	// When: adding a fact through the bus
	require.NoError(t, sys.bus.AddOne(context.Background(), f))

	// Then: the index holds its document under the derived key
	assert.Equal(t, 1, sys.index.Count())
	doc, ok := sys.index.GetByKey(quad.DeriveKey(f))
	require.True(t, ok)
	assert.Equal(t, "Alice", doc.Object)
	assert.True(t, sys.coord.InSync())
}

// TS02: Duplicate Adds Keep One Document
func TestCoordinator_DuplicateAdd(t *testing.T) {
	sys := newTestSystem(t, nil)
	f := quad.Triple(quad.IRI("s"), quad.IRI("p"), quad.IRI("o"))

	require.NoError(t, sys.bus.AddOne(context.Background(), f))
	require.NoError(t, sys.bus.AddOne(context.Background(), f))

	assert.Equal(t, 1, sys.facts.Count())
	assert.Equal(t, 1, sys.index.Count())
	assert.True(t, sys.coord.InSync())
}

// TS03: Removing One Fact Leaves Others Searchable
func TestCoordinator_RemoveOne(t *testing.T) {
	sys := newTestSystem(t, nil)
	alice := quad.Triple(quad.IRI("person1"), quad.IRI("name"), quad.Literal("Alice"))
	bob := quad.Triple(quad.IRI("person2"), quad.IRI("name"), quad.Literal("Bob"))
	require.NoError(t, sys.bus.AddMany(context.Background(), []quad.Fact{alice, bob}))

	require.NoError(t, sys.bus.RemoveOne(context.Background(), alice))

	assert.Equal(t, 1, sys.index.Count())
	_, ok := sys.index.GetByKey(quad.DeriveKey(alice))
	assert.False(t, ok)
	_, ok = sys.index.GetByKey(quad.DeriveKey(bob))
	assert.True(t, ok)
	assert.True(t, sys.coord.InSync())
}

// TS04: Batch Add Indexes Every Fact
func TestCoordinator_BatchAdd(t *testing.T) {
	sys := newTestSystem(t, nil)

	facts := make([]quad.Fact, 0, 20)
	for i := 0; i < 20; i++ {
		facts = append(facts, quad.Triple(
			quad.IRI(fmt.Sprintf("s%d", i)), quad.IRI("p"), quad.IRI("o")))
	}
	require.NoError(t, sys.bus.AddMany(context.Background(), facts))

	assert.Equal(t, 20, sys.index.Count())
	assert.True(t, sys.coord.InSync())
}

// TS05: Pattern Removal Unindexes Exactly the Matched Facts
func TestCoordinator_RemoveByPattern(t *testing.T) {
	// Given: three facts for one subject and one for another
	sys := newTestSystem(t, nil)
	keep := quad.Triple(quad.IRI("s2"), quad.IRI("p1"), quad.IRI("o1"))
	require.NoError(t, sys.bus.AddMany(context.Background(), []quad.Fact{
		quad.Triple(quad.IRI("s1"), quad.IRI("p1"), quad.IRI("o1")),
		quad.Triple(quad.IRI("s1"), quad.IRI("p2"), quad.IRI("o2")),
		quad.Triple(quad.IRI("s1"), quad.IRI("p3"), quad.IRI("o3")),
		keep,
	}))

	// When: removing every s1 fact by pattern
	subject := quad.IRI("s1")
	require.NoError(t, sys.bus.RemoveByPattern(context.Background(), quad.Pattern{Subject: &subject}))

	// Then: only the s2 document remains
	assert.Equal(t, 1, sys.index.Count())
	_, ok := sys.index.GetByKey(quad.DeriveKey(keep))
	assert.True(t, ok)
	assert.True(t, sys.coord.InSync())
}

// TS06: Graph Removal Unindexes the Graph
func TestCoordinator_RemoveGraph(t *testing.T) {
	sys := newTestSystem(t, nil)
	outside := quad.Quad(quad.IRI("s"), quad.IRI("p"), quad.IRI("o"), quad.IRI("g2"))
	require.NoError(t, sys.bus.AddMany(context.Background(), []quad.Fact{
		quad.Quad(quad.IRI("s1"), quad.IRI("p"), quad.IRI("o"), quad.IRI("g1")),
		quad.Quad(quad.IRI("s2"), quad.IRI("p"), quad.IRI("o"), quad.IRI("g1")),
		outside,
	}))

	require.NoError(t, sys.bus.RemoveGraph(context.Background(), quad.IRI("g1")))

	assert.Equal(t, 1, sys.index.Count())
	_, ok := sys.index.GetByKey(quad.DeriveKey(outside))
	assert.True(t, ok)
	assert.True(t, sys.coord.InSync())
}

// flakyEmbedder fails on one specific text.
type flakyEmbedder struct {
	inner  embed.Embedder
	failOn string
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == f.failOn {
		return nil, fmt.Errorf("embedding %q failed", text)
	}
	return f.inner.Embed(ctx, text)
}
func (f *flakyEmbedder) Dimensions() int   { return f.inner.Dimensions() }
func (f *flakyEmbedder) ModelName() string { return f.inner.ModelName() }
func (f *flakyEmbedder) Close() error      { return f.inner.Close() }

// TS07: Projection Failures Propagate and Leave the Gap Observable
func TestCoordinator_ProjectionFailure(t *testing.T) {
	// Given: an embedder that fails on one subject
	sys := newTestSystem(t, &flakyEmbedder{
		inner:  embed.NewStaticEmbedder(testDims),
		failOn: "badsubject",
	})

	// When: adding a fact whose projection fails
	err := sys.bus.AddOne(context.Background(),
		quad.Triple(quad.IRI("badsubject"), quad.IRI("p"), quad.IRI("o")))

	// Then: the mutation caller sees the error
	require.Error(t, err)

	// And: the fact landed in the store but not the index
	assert.Equal(t, 1, sys.facts.Count())
	assert.Equal(t, 0, sys.index.Count())
	assert.False(t, sys.coord.InSync())
}

// TS08: Unknown Events Are Rejected
func TestCoordinator_UnknownEvent(t *testing.T) {
	sys := newTestSystem(t, nil)

	err := sys.coord.Handle(context.Background(), nil)
	assert.Error(t, err)
}
