package quad

import "strings"

// KeyDelimiter separates key components. The unit separator is not expected
// to occur in identifiers or literal values.
//
// Known limitation: if raw text contains the delimiter, two distinct facts
// can collide on the same key. No escaping scheme is applied.
const KeyDelimiter = "\x1f"

// DeriveKey maps a fact to its stable string key. It is pure and
// deterministic: the seven logical components (subject, predicate, object
// value, graph, object kind, language, datatype) are concatenated in fixed
// order, so facts differing in any component derive distinct keys.
func DeriveKey(f Fact) string {
	return strings.Join([]string{
		f.Subject.Value,
		f.Predicate.Value,
		f.Object.Value,
		f.Graph.Value,
		f.Object.Kind.String(),
		f.Object.Language,
		f.Object.Datatype,
	}, KeyDelimiter)
}
