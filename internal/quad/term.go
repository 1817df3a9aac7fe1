// Package quad defines the fact data model: RDF-style subject-predicate-
// object-graph statements, stable key derivation, and the FactStore contract
// together with an in-memory reference implementation.
package quad

import "fmt"

// TermKind identifies what a Term denotes.
type TermKind uint8

const (
	// KindIRI is a named identifier.
	KindIRI TermKind = iota
	// KindBlank is a blank/anonymous node label.
	KindBlank
	// KindLiteral is a lexical value with optional language tag and datatype.
	KindLiteral
)

// String returns the stable tag used in keys and documents.
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is one component of a fact. Language and Datatype are only meaningful
// when Kind is KindLiteral; they are empty otherwise.
type Term struct {
	Kind     TermKind
	Value    string
	Language string
	Datatype string
}

// IRI returns a named identifier term.
func IRI(value string) Term {
	return Term{Kind: KindIRI, Value: value}
}

// Blank returns a blank node term.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal returns a plain literal term.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral returns a language-tagged literal term.
func LangLiteral(value, language string) Term {
	return Term{Kind: KindLiteral, Value: value, Language: language}
}

// TypedLiteral returns a datatyped literal term.
func TypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// Equal reports whether two terms are identical, including literal metadata.
func (t Term) Equal(other Term) bool {
	return t == other
}

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool {
	return t.Kind == KindLiteral
}

// String renders the term for logs and error messages.
func (t Term) String() string {
	switch t.Kind {
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		switch {
		case t.Language != "":
			return fmt.Sprintf("%q@%s", t.Value, t.Language)
		case t.Datatype != "":
			return fmt.Sprintf("%q^^<%s>", t.Value, t.Datatype)
		default:
			return fmt.Sprintf("%q", t.Value)
		}
	default:
		return "<" + t.Value + ">"
	}
}
