package quad

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseLine decodes one N-Quads-style line into a fact. Supported term forms:
// <iri>, _:blank, "literal", "literal"@lang, "literal"^^<datatype>. A fourth
// term names the graph; the trailing dot is optional. Empty lines and lines
// starting with '#' yield ok=false with no error.
func ParseLine(line string) (Fact, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Fact{}, false, nil
	}
	trimmed = strings.TrimSuffix(trimmed, ".")

	terms, err := splitTerms(trimmed)
	if err != nil {
		return Fact{}, false, err
	}
	if len(terms) < 3 || len(terms) > 4 {
		return Fact{}, false, fmt.Errorf("expected 3 or 4 terms, got %d", len(terms))
	}

	parsed := make([]Term, len(terms))
	for i, raw := range terms {
		t, err := parseTerm(raw)
		if err != nil {
			return Fact{}, false, fmt.Errorf("term %d: %w", i+1, err)
		}
		parsed[i] = t
	}

	f := Fact{Subject: parsed[0], Predicate: parsed[1], Object: parsed[2], Graph: DefaultGraph}
	if len(parsed) == 4 {
		f.Graph = parsed[3]
	}
	if f.Subject.IsLiteral() || f.Predicate.IsLiteral() || f.Graph.IsLiteral() {
		return Fact{}, false, fmt.Errorf("literal only allowed in object position")
	}
	return f, true, nil
}

// splitTerms splits on whitespace outside of quoted literals.
func splitTerms(s string) ([]string, error) {
	var terms []string
	var current strings.Builder
	inQuote := false
	escaped := false

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			current.WriteRune(r)
			escaped = true
		case r == '"':
			current.WriteRune(r)
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t'):
			if current.Len() > 0 {
				terms = append(terms, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated literal")
	}
	if current.Len() > 0 {
		terms = append(terms, current.String())
	}
	return terms, nil
}

// parseTerm decodes a single raw term token.
func parseTerm(raw string) (Term, error) {
	switch {
	case strings.HasPrefix(raw, "<") && strings.HasSuffix(raw, ">"):
		return IRI(raw[1 : len(raw)-1]), nil

	case strings.HasPrefix(raw, "_:"):
		return Blank(raw[2:]), nil

	case strings.HasPrefix(raw, `"`):
		end := closingQuote(raw)
		if end < 0 {
			return Term{}, fmt.Errorf("unterminated literal %q", raw)
		}
		value, err := strconv.Unquote(raw[:end+1])
		if err != nil {
			return Term{}, fmt.Errorf("bad literal %q: %w", raw, err)
		}
		suffix := raw[end+1:]
		switch {
		case suffix == "":
			return Literal(value), nil
		case strings.HasPrefix(suffix, "@"):
			return LangLiteral(value, suffix[1:]), nil
		case strings.HasPrefix(suffix, "^^<") && strings.HasSuffix(suffix, ">"):
			return TypedLiteral(value, suffix[3:len(suffix)-1]), nil
		default:
			return Term{}, fmt.Errorf("bad literal suffix %q", suffix)
		}

	default:
		return Term{}, fmt.Errorf("unrecognized term %q", raw)
	}
}

// closingQuote returns the index of the unescaped closing quote, or -1.
func closingQuote(s string) int {
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return i
		}
	}
	return -1
}

// FormatFact renders a fact back into its line form.
func FormatFact(f Fact) string {
	return f.String()
}

// ReadAll parses every fact from r, skipping blank and comment lines.
func ReadAll(r io.Reader) ([]Fact, error) {
	var facts []Fact
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		f, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			facts = append(facts, f)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}
	return facts, nil
}
