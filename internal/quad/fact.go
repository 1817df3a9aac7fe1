package quad

import "fmt"

// Fact is a subject-predicate-object-graph statement. Facts are value types
// with set semantics: two facts are the same member iff all components
// (including literal metadata) are equal.
type Fact struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// Triple returns a fact in the default graph.
func Triple(subject, predicate, object Term) Fact {
	return Fact{Subject: subject, Predicate: predicate, Object: object, Graph: DefaultGraph}
}

// Quad returns a fact in an explicit graph.
func Quad(subject, predicate, object, graph Term) Fact {
	return Fact{Subject: subject, Predicate: predicate, Object: object, Graph: graph}
}

// DefaultGraph is the graph term for triples that name no graph.
var DefaultGraph = Term{Kind: KindIRI, Value: ""}

// Equal reports whether two facts are identical in all components.
func (f Fact) Equal(other Fact) bool {
	return f == other
}

// String renders the fact for logs and error messages.
func (f Fact) String() string {
	if f.Graph == DefaultGraph {
		return fmt.Sprintf("%s %s %s .", f.Subject, f.Predicate, f.Object)
	}
	return fmt.Sprintf("%s %s %s %s .", f.Subject, f.Predicate, f.Object, f.Graph)
}

// Pattern matches facts by component. A nil component is a wildcard.
type Pattern struct {
	Subject   *Term
	Predicate *Term
	Object    *Term
	Graph     *Term
}

// MatchAll is the pattern with every component wildcarded.
var MatchAll = Pattern{}

// GraphPattern returns a pattern matching every fact in the given graph.
func GraphPattern(graph Term) Pattern {
	return Pattern{Graph: &graph}
}

// Matches reports whether the fact satisfies every bound component.
func (p Pattern) Matches(f Fact) bool {
	if p.Subject != nil && !p.Subject.Equal(f.Subject) {
		return false
	}
	if p.Predicate != nil && !p.Predicate.Equal(f.Predicate) {
		return false
	}
	if p.Object != nil && !p.Object.Equal(f.Object) {
		return false
	}
	if p.Graph != nil && !p.Graph.Equal(f.Graph) {
		return false
	}
	return true
}
