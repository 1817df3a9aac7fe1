package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Aman-CERP/quadsync/internal/errors"
	"github.com/Aman-CERP/quadsync/internal/store"
)

// Engine answers text, vector, and hybrid queries over a SearchIndex.
// Queries never mutate index state; invalid parameters are rejected with a
// validation error before any candidate generation runs.
type Engine struct {
	index *store.SearchIndex
	log   *slog.Logger
}

// NewEngine creates an engine over the given index.
func NewEngine(index *store.SearchIndex) *Engine {
	return &Engine{
		index: index,
		log:   slog.Default().With(slog.String("component", "search")),
	}
}

// Search dispatches the query to its mode. Results are ranked descending by
// score and bounded by q.Limit.
func (e *Engine) Search(ctx context.Context, q Query) ([]*Result, error) {
	if err := e.validate(q); err != nil {
		return nil, err
	}

	switch q.Mode {
	case ModeText:
		return e.searchText(ctx, q)
	case ModeVector:
		return e.searchVector(ctx, q)
	case ModeHybrid:
		return e.searchHybrid(ctx, q)
	default:
		// validate already rejected unknown modes
		return nil, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("unknown search mode %q", q.Mode), nil)
	}
}

// validate rejects malformed parameters. Rejection is strict: out-of-range
// thresholds are not clamped and unknown fields get no fallback.
func (e *Engine) validate(q Query) error {
	switch q.Mode {
	case ModeText, ModeVector, ModeHybrid:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("unknown search mode %q", q.Mode), nil)
	}

	if q.Limit <= 0 {
		return errors.New(errors.ErrCodeInvalidLimit,
			fmt.Sprintf("limit must be positive, got %d", q.Limit), nil)
	}

	if q.Mode == ModeVector || q.Mode == ModeHybrid {
		if !store.ValidVectorField(q.Field) {
			return errors.New(errors.ErrCodeInvalidField,
				fmt.Sprintf("unknown vector field %q", q.Field), nil).
				WithDetail("valid_fields", "subject, predicate, object, combined")
		}
		if q.MinSimilarity < 0 || q.MinSimilarity > 1 {
			return errors.New(errors.ErrCodeInvalidThreshold,
				fmt.Sprintf("minSimilarity must be in [0,1], got %g", q.MinSimilarity), nil)
		}
		if got := len(q.Vector); got != e.index.Dimensions() {
			return errors.New(errors.ErrCodeDimensionMismatch,
				fmt.Sprintf("query vector has dimension %d, index uses %d", got, e.index.Dimensions()), nil)
		}
	}

	return nil
}

// searchText ranks by the text index's relevance score. An empty query
// returns zero hits by policy.
func (e *Engine) searchText(ctx context.Context, q Query) ([]*Result, error) {
	if strings.TrimSpace(q.Text) == "" {
		return []*Result{}, nil
	}

	hits, err := e.index.SearchText(ctx, q.Text, q.Limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSearchFailed, err)
	}

	results := make([]*Result, 0, len(hits))
	for _, hit := range hits {
		doc, ok := e.index.GetByKey(hit.Key)
		if !ok {
			continue
		}
		results = append(results, &Result{Document: doc, Score: hit.Score})
	}
	return results, nil
}

// searchVector ranks by exact cosine similarity against the selected field,
// keeping only hits at or above the similarity floor.
func (e *Engine) searchVector(ctx context.Context, q Query) ([]*Result, error) {
	hits, err := e.index.SearchVector(ctx, q.Field, q.Vector, q.MinSimilarity, q.Limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSearchFailed, err)
	}

	results := make([]*Result, 0, len(hits))
	for _, hit := range hits {
		doc, ok := e.index.GetByKey(hit.Key)
		if !ok {
			continue
		}
		results = append(results, &Result{Document: doc, Score: hit.Similarity})
	}
	return results, nil
}

// searchHybrid computes the text and vector candidate sets independently
// over the whole index, then fuses them with the query weights and truncates
// to the limit.
func (e *Engine) searchHybrid(ctx context.Context, q Query) ([]*Result, error) {
	weights := q.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights
	}

	total := e.index.Count()

	var textHits []*store.TextResult
	if strings.TrimSpace(q.Text) != "" && total > 0 {
		var err error
		textHits, err = e.index.SearchText(ctx, q.Text, total)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSearchFailed, err)
		}
	}

	vecHits, err := e.index.SearchVector(ctx, q.Field, q.Vector, q.MinSimilarity, 0)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSearchFailed, err)
	}

	fusedResults := fuseWeighted(textHits, vecHits, weights)
	if len(fusedResults) > q.Limit {
		fusedResults = fusedResults[:q.Limit]
	}

	results := make([]*Result, 0, len(fusedResults))
	for _, f := range fusedResults {
		doc, ok := e.index.GetByKey(f.key)
		if !ok {
			continue
		}
		results = append(results, &Result{Document: doc, Score: f.score})
	}

	e.log.Debug("hybrid search",
		slog.Int("text_candidates", len(textHits)),
		slog.Int("vector_candidates", len(vecHits)),
		slog.Int("results", len(results)))

	return results, nil
}
