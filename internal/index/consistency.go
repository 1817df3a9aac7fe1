package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/Aman-CERP/quadsync/internal/projector"
	"github.com/Aman-CERP/quadsync/internal/quad"
	"github.com/Aman-CERP/quadsync/internal/store"
)

// InconsistencyType categorizes detected issues.
type InconsistencyType int

const (
	// InconsistencyOrphanDocument indicates a document whose key derives
	// from no current fact.
	InconsistencyOrphanDocument InconsistencyType = iota
	// InconsistencyMissingDocument indicates a fact with no document.
	InconsistencyMissingDocument
)

// String returns a human-readable description of the inconsistency type.
func (t InconsistencyType) String() string {
	switch t {
	case InconsistencyOrphanDocument:
		return "orphan_document"
	case InconsistencyMissingDocument:
		return "missing_document"
	default:
		return "unknown"
	}
}

// Inconsistency represents one detected fact/document mismatch.
type Inconsistency struct {
	Type InconsistencyType
	Key  string
}

// CheckResult contains the outcome of a consistency check.
type CheckResult struct {
	// Checked is the number of fact keys verified.
	Checked int
	// Inconsistencies contains all detected issues.
	Inconsistencies []Inconsistency
	// Duration is how long the check took.
	Duration time.Duration
}

// Checker validates the fact-to-document bijection at key level. The quick
// cardinality check lives on the coordinator (InSync); this checker walks
// every key, which is O(n) but content-accurate.
type Checker struct {
	facts quad.FactStore
	proj  *projector.Projector
	index *store.SearchIndex
	log   *slog.Logger
}

// NewChecker creates a checker over the given stores.
func NewChecker(facts quad.FactStore, proj *projector.Projector, index *store.SearchIndex) *Checker {
	return &Checker{
		facts: facts,
		proj:  proj,
		index: index,
		log:   slog.Default().With(slog.String("component", "consistency")),
	}
}

// Check scans both stores for orphaned and missing documents. Facts are the
// source of truth: every derivable key must have a document, and every
// document key must be derivable.
func (c *Checker) Check(ctx context.Context) *CheckResult {
	start := time.Now()
	var issues []Inconsistency

	facts := c.facts.QueryPattern(quad.MatchAll)
	expected := make(map[string]bool, len(facts))
	for _, f := range facts {
		expected[quad.DeriveKey(f)] = true
	}

	indexed := make(map[string]bool)
	for _, key := range c.index.AllKeys() {
		indexed[key] = true
		if !expected[key] {
			issues = append(issues, Inconsistency{Type: InconsistencyOrphanDocument, Key: key})
		}
	}

	for key := range expected {
		if !indexed[key] {
			issues = append(issues, Inconsistency{Type: InconsistencyMissingDocument, Key: key})
		}
	}

	return &CheckResult{
		Checked:         len(expected),
		Inconsistencies: issues,
		Duration:        time.Since(start),
	}
}

// Repair fixes detected inconsistencies: orphans are removed from the index
// and missing documents are re-projected from their facts. Returns the first
// error; earlier repairs stay applied.
func (c *Checker) Repair(ctx context.Context, issues []Inconsistency) error {
	var factsByKey map[string]quad.Fact

	for _, issue := range issues {
		switch issue.Type {
		case InconsistencyOrphanDocument:
			if err := c.index.Remove(ctx, issue.Key); err != nil {
				return err
			}
			c.log.Info("removed orphan document", slog.String("key", issue.Key))

		case InconsistencyMissingDocument:
			if factsByKey == nil {
				factsByKey = make(map[string]quad.Fact)
				for _, f := range c.facts.QueryPattern(quad.MatchAll) {
					factsByKey[quad.DeriveKey(f)] = f
				}
			}
			f, ok := factsByKey[issue.Key]
			if !ok {
				// Fact disappeared since the check; nothing to restore.
				continue
			}
			doc, err := c.proj.Project(ctx, f, issue.Key)
			if err != nil {
				return err
			}
			if err := c.index.Upsert(ctx, doc); err != nil {
				return err
			}
			c.log.Info("restored missing document", slog.String("key", issue.Key))
		}
	}

	return nil
}
