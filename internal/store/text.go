package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
)

// TermAnalyzerName is the name of the custom analyzer used for fact text.
// Unicode tokenization plus lowercasing, with no stop word filtering:
// literal values must stay searchable verbatim, and IRI path segments carry
// meaning ("name", "age").
const TermAnalyzerName = "term_analyzer"

// TextIndex wraps bleve for keyword search over fact documents. Each
// document contributes a single catch-all content field built from its
// textual components.
type TextIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

// textDocument is the document structure handed to bleve.
type textDocument struct {
	Content string `json:"content"`
}

// NewTextIndex creates an in-memory text index.
func NewTextIndex() (*TextIndex, error) {
	indexMapping, err := createIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("create index mapping: %w", err)
	}

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &TextIndex{index: idx}, nil
}

// createIndexMapping creates the bleve index mapping with the term analyzer.
func createIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(TermAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []string{
			lowercase.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("add custom analyzer: %w", err)
	}

	indexMapping.DefaultAnalyzer = TermAnalyzerName
	return indexMapping, nil
}

// ContentFor builds the indexable content string for a document: subject,
// predicate, object value, and literal metadata. The graph name is not part
// of the text surface.
func ContentFor(doc *Document) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{doc.Subject, doc.Predicate, doc.Object, doc.Language, doc.Datatype} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Index adds or replaces the document under its key.
func (t *TextIndex) Index(ctx context.Context, key, content string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("text index is closed")
	}

	if err := t.index.Index(key, textDocument{Content: content}); err != nil {
		return fmt.Errorf("index document %s: %w", key, err)
	}
	return nil
}

// Delete removes the document under key. Missing keys are a no-op.
func (t *TextIndex) Delete(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("text index is closed")
	}

	if err := t.index.Delete(key); err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

// Search returns documents matching the query, scored by bleve's relevance
// (tf-idf based, monotonic). An empty or whitespace query returns zero hits
// by policy rather than matching everything.
func (t *TextIndex) Search(ctx context.Context, queryStr string, limit int) ([]*TextResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return nil, fmt.Errorf("text index is closed")
	}

	if strings.TrimSpace(queryStr) == "" {
		return []*TextResult{}, nil
	}

	matchQuery := bleve.NewMatchQuery(queryStr)
	matchQuery.SetField("content")

	searchRequest := bleve.NewSearchRequest(matchQuery)
	searchRequest.Size = limit

	result, err := t.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	results := make([]*TextResult, 0, len(result.Hits))
	for _, hit := range result.Hits {
		results = append(results, &TextResult{
			Key:   hit.ID,
			Score: hit.Score,
		})
	}
	return results, nil
}

// AllKeys returns every document key in the index.
// Used for consistency checking between stores.
func (t *TextIndex) AllKeys() ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return nil, fmt.Errorf("text index is closed")
	}

	docCount, _ := t.index.DocCount()

	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(docCount)
	req.Fields = []string{} // Only need IDs

	result, err := t.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search for all keys: %w", err)
	}

	keys := make([]string, len(result.Hits))
	for i, hit := range result.Hits {
		keys[i] = hit.ID
	}
	return keys, nil
}

// Count returns the number of indexed documents.
func (t *TextIndex) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return 0
	}

	docCount, _ := t.index.DocCount()
	return int(docCount)
}

// Close closes the index.
func (t *TextIndex) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	if t.index != nil {
		return t.index.Close()
	}
	return nil
}
