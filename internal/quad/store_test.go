package quad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Set Semantics on Add
func TestMemoryStore_AddOne_Idempotent(t *testing.T) {
	// Given: empty store
	s := NewMemoryStore()
	f := Triple(IRI("s"), IRI("p"), IRI("o"))

	// When: adding the same fact twice
	s.AddOne(f)
	s.AddOne(f)

	// Then: the store holds it once
	assert.Equal(t, 1, s.Count())
}

// TS02: Removing an Absent Fact Is a No-Op
func TestMemoryStore_RemoveOne_Absent(t *testing.T) {
	s := NewMemoryStore()
	s.AddOne(Triple(IRI("s"), IRI("p"), IRI("o")))

	s.RemoveOne(Triple(IRI("s"), IRI("p"), IRI("other")))

	assert.Equal(t, 1, s.Count())
}

// TS03: Batch Operations
func TestMemoryStore_Batches(t *testing.T) {
	s := NewMemoryStore()
	facts := []Fact{
		Triple(IRI("a"), IRI("p"), IRI("o")),
		Triple(IRI("b"), IRI("p"), IRI("o")),
		Triple(IRI("a"), IRI("p"), IRI("o")), // duplicate inside the batch
	}

	s.AddMany(facts)
	assert.Equal(t, 2, s.Count())

	s.RemoveMany(facts[:1])
	assert.Equal(t, 1, s.Count())
}

// TS04: Pattern Queries and Removal
func TestMemoryStore_Patterns(t *testing.T) {
	// Given: facts across two graphs
	s := NewMemoryStore()
	s.AddMany([]Fact{
		Quad(IRI("s1"), IRI("p"), IRI("o"), IRI("g1")),
		Quad(IRI("s2"), IRI("p"), IRI("o"), IRI("g1")),
		Quad(IRI("s1"), IRI("p"), IRI("o"), IRI("g2")),
	})

	// When: querying one graph
	matched := s.QueryPattern(GraphPattern(IRI("g1")))
	require.Len(t, matched, 2)

	// When: removing by subject
	subject := IRI("s1")
	s.RemoveByPattern(Pattern{Subject: &subject})

	// Then: only the s2 fact remains
	assert.Equal(t, 1, s.Count())
	remaining := s.QueryPattern(MatchAll)
	require.Len(t, remaining, 1)
	assert.Equal(t, "s2", remaining[0].Subject.Value)
}

// TS05: Graph Removal
func TestMemoryStore_RemoveGraph(t *testing.T) {
	s := NewMemoryStore()
	s.AddMany([]Fact{
		Quad(IRI("s1"), IRI("p"), IRI("o"), IRI("g1")),
		Quad(IRI("s2"), IRI("p"), IRI("o"), IRI("g2")),
		Triple(IRI("s3"), IRI("p"), IRI("o")),
	})

	s.RemoveGraph(IRI("g1"))

	assert.Equal(t, 2, s.Count())
	assert.Empty(t, s.QueryPattern(GraphPattern(IRI("g1"))))
}

// TS06: Zero-Match Pattern Removal Changes Nothing
func TestMemoryStore_RemoveByPattern_NoMatch(t *testing.T) {
	s := NewMemoryStore()
	s.AddOne(Triple(IRI("s"), IRI("p"), IRI("o")))

	s.RemoveByPattern(GraphPattern(IRI("missing")))

	assert.Equal(t, 1, s.Count())
}
