package quad

import "sync"

// FactStore is the mutable fact collection the sync engine observes. The
// engine consumes this contract; it does not care how the store evaluates
// patterns or lays out its data.
//
// Implementations must keep set semantics: adding an already-present fact is
// a no-op, as is removing an absent one.
type FactStore interface {
	// AddOne inserts a single fact.
	AddOne(f Fact)

	// RemoveOne deletes a single fact.
	RemoveOne(f Fact)

	// AddMany inserts a batch of facts.
	AddMany(facts []Fact)

	// RemoveMany deletes a batch of facts.
	RemoveMany(facts []Fact)

	// RemoveByPattern deletes every fact matching the pattern.
	RemoveByPattern(p Pattern)

	// RemoveGraph deletes every fact in the graph.
	RemoveGraph(graph Term)

	// QueryPattern returns the facts matching the pattern.
	QueryPattern(p Pattern) []Fact

	// Count returns the number of facts currently held.
	Count() int
}

// MemoryStore is the in-memory reference FactStore. Facts are keyed by their
// derived key, which gives set semantics for free.
type MemoryStore struct {
	mu    sync.RWMutex
	facts map[string]Fact
}

// NewMemoryStore creates an empty in-memory fact store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{facts: make(map[string]Fact)}
}

// AddOne inserts a single fact.
func (s *MemoryStore) AddOne(f Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts[DeriveKey(f)] = f
}

// RemoveOne deletes a single fact.
func (s *MemoryStore) RemoveOne(f Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.facts, DeriveKey(f))
}

// AddMany inserts a batch of facts.
func (s *MemoryStore) AddMany(facts []Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range facts {
		s.facts[DeriveKey(f)] = f
	}
}

// RemoveMany deletes a batch of facts.
func (s *MemoryStore) RemoveMany(facts []Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range facts {
		delete(s.facts, DeriveKey(f))
	}
}

// RemoveByPattern deletes every fact matching the pattern.
func (s *MemoryStore) RemoveByPattern(p Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, f := range s.facts {
		if p.Matches(f) {
			delete(s.facts, key)
		}
	}
}

// RemoveGraph deletes every fact in the graph.
func (s *MemoryStore) RemoveGraph(graph Term) {
	s.RemoveByPattern(GraphPattern(graph))
}

// QueryPattern returns the facts matching the pattern.
func (s *MemoryStore) QueryPattern(p Pattern) []Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]Fact, 0)
	for _, f := range s.facts {
		if p.Matches(f) {
			matched = append(matched, f)
		}
	}
	return matched
}

// Count returns the number of facts currently held.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts)
}

// Verify interface implementation
var _ FactStore = (*MemoryStore)(nil)
