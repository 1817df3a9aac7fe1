// Package projector builds index documents from facts. Projection is pure
// given a deterministic embedding provider: the same fact always yields the
// same document.
package projector

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aman-CERP/quadsync/internal/embed"
	"github.com/Aman-CERP/quadsync/internal/quad"
	"github.com/Aman-CERP/quadsync/internal/store"
)

// Projector maps a fact and its key to an index document, invoking the
// embedding provider four times: subject, predicate, object, and the
// space-joined "subject predicate object" combination.
type Projector struct {
	embedder embed.Embedder
}

// New creates a projector over the given embedding provider.
func New(embedder embed.Embedder) *Projector {
	return &Projector{embedder: embedder}
}

// Dimensions returns the provider's embedding dimension.
func (p *Projector) Dimensions() int {
	return p.embedder.Dimensions()
}

// Project builds the document for the fact under the given key. Embedding
// failures propagate so the triggering mutation can surface them; nothing is
// partially built.
func (p *Projector) Project(ctx context.Context, f quad.Fact, key string) (*store.Document, error) {
	doc := &store.Document{
		Key:        key,
		Subject:    f.Subject.Value,
		Predicate:  f.Predicate.Value,
		Object:     f.Object.Value,
		Graph:      f.Graph.Value,
		ObjectKind: f.Object.Kind.String(),
	}
	if f.Object.IsLiteral() {
		doc.Language = f.Object.Language
		doc.Datatype = f.Object.Datatype
	}

	var err error
	if doc.SubjectVec, err = p.embedText(ctx, f.Subject.Value); err != nil {
		return nil, fmt.Errorf("embed subject: %w", err)
	}
	if doc.PredicateVec, err = p.embedText(ctx, f.Predicate.Value); err != nil {
		return nil, fmt.Errorf("embed predicate: %w", err)
	}
	if doc.ObjectVec, err = p.embedText(ctx, f.Object.Value); err != nil {
		return nil, fmt.Errorf("embed object: %w", err)
	}

	combined := strings.Join([]string{f.Subject.Value, f.Predicate.Value, f.Object.Value}, " ")
	if doc.CombinedVec, err = p.embedText(ctx, combined); err != nil {
		return nil, fmt.Errorf("embed combined: %w", err)
	}

	return doc, nil
}

// embedText calls the provider and validates the returned shape, so a
// misbehaving provider is caught at projection time rather than at index
// time.
func (p *Projector) embedText(ctx context.Context, text string) ([]float32, error) {
	vec, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) != p.embedder.Dimensions() {
		return nil, fmt.Errorf("provider returned dimension %d, want %d", len(vec), p.embedder.Dimensions())
	}
	return vec, nil
}
