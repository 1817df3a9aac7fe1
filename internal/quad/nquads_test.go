package quad

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Parse Term Forms
func TestParseLine_TermForms(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Fact
	}{
		{
			name: "iri triple",
			line: "<s> <p> <o> .",
			want: Triple(IRI("s"), IRI("p"), IRI("o")),
		},
		{
			name: "quad with graph",
			line: "<s> <p> <o> <g> .",
			want: Quad(IRI("s"), IRI("p"), IRI("o"), IRI("g")),
		},
		{
			name: "plain literal",
			line: `<s> <p> "Alice" .`,
			want: Triple(IRI("s"), IRI("p"), Literal("Alice")),
		},
		{
			name: "language tagged literal",
			line: `<s> <p> "Alice"@en .`,
			want: Triple(IRI("s"), IRI("p"), LangLiteral("Alice", "en")),
		},
		{
			name: "typed literal",
			line: `<s> <p> "42"^^<xsd:integer> .`,
			want: Triple(IRI("s"), IRI("p"), TypedLiteral("42", "xsd:integer")),
		},
		{
			name: "blank nodes",
			line: "_:b1 <p> _:b2 .",
			want: Triple(Blank("b1"), IRI("p"), Blank("b2")),
		},
		{
			name: "literal with spaces",
			line: `<s> <p> "Alice knows Bob" .`,
			want: Triple(IRI("s"), IRI("p"), Literal("Alice knows Bob")),
		},
		{
			name: "no trailing dot",
			line: "<s> <p> <o>",
			want: Triple(IRI("s"), IRI("p"), IRI("o")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok, err := ParseLine(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, f)
		})
	}
}

// TS02: Blank Lines and Comments Are Skipped
func TestParseLine_Skipped(t *testing.T) {
	for _, line := range []string{"", "   ", "# comment", "  # indented comment"} {
		_, ok, err := ParseLine(line)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

// TS03: Malformed Lines Are Rejected
func TestParseLine_Errors(t *testing.T) {
	bad := []string{
		"<s> <p>",
		"<s> <p> <o> <g> <extra>",
		`"literal" <p> <o>`,
		`<s> "literal" <o>`,
		`<s> <p> <o> "literal"`,
		`<s> <p> "unterminated`,
		"bareword <p> <o>",
	}
	for _, line := range bad {
		_, _, err := ParseLine(line)
		assert.Error(t, err, "line %q should fail", line)
	}
}

// TS04: Format/Parse Round Trip
func TestFormatFact_RoundTrip(t *testing.T) {
	facts := []Fact{
		Triple(IRI("s"), IRI("p"), IRI("o")),
		Quad(IRI("s"), IRI("p"), LangLiteral("bonjour", "fr"), IRI("g")),
		Triple(Blank("b1"), IRI("p"), TypedLiteral("42", "xsd:integer")),
		Triple(IRI("s"), IRI("p"), Literal(`say "hi"`)),
	}

	for _, want := range facts {
		got, ok, err := ParseLine(FormatFact(want))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

// TS05: ReadAll Parses a Document
func TestReadAll(t *testing.T) {
	input := strings.Join([]string{
		"# people",
		`<person1> <name> "Alice" .`,
		"",
		`<person2> <name> "Bob" .`,
		"<person1> <knows> <person2> <g1> .",
	}, "\n")

	facts, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, "person1", facts[0].Subject.Value)
	assert.Equal(t, IRI("g1"), facts[2].Graph)
}

// TS06: ReadAll Reports the Failing Line
func TestReadAll_ErrorIncludesLine(t *testing.T) {
	input := "<s> <p> <o> .\n<s> <p>\n"

	_, err := ReadAll(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
