package search

import (
	"sort"

	"github.com/Aman-CERP/quadsync/internal/store"
)

// fused is one candidate during hybrid scoring.
type fused struct {
	key        string
	score      float64
	inBoth     bool
	textScore  float64
	similarity float64
}

// fuseWeighted unions text and vector candidates and scores each key as
//
//	weights.Text * normalizedTextScore + weights.Vector * similarity
//
// Text scores are normalized by the maximum text score so the text side is
// commensurable with cosine similarity; normalization is monotonic, so with
// weights {1,0} the ranking equals pure text ranking, and with {0,1} it
// equals pure vector ranking. A side a document is missing from contributes
// zero.
//
// Results are sorted by: score (desc) -> in both lists (true first) -> key (asc).
func fuseWeighted(text []*store.TextResult, vec []*store.VectorResult, weights Weights) []*fused {
	if len(text) == 0 && len(vec) == 0 {
		return []*fused{}
	}

	maxText := 0.0
	for _, r := range text {
		if r.Score > maxText {
			maxText = r.Score
		}
	}

	candidates := make(map[string]*fused, len(text)+len(vec))

	for _, r := range text {
		normalized := 0.0
		if maxText > 0 {
			normalized = r.Score / maxText
		}
		candidates[r.Key] = &fused{
			key:       r.Key,
			textScore: normalized,
			score:     weights.Text * normalized,
		}
	}

	for _, r := range vec {
		c, ok := candidates[r.Key]
		if !ok {
			c = &fused{key: r.Key}
			candidates[r.Key] = c
		} else {
			c.inBoth = true
		}
		c.similarity = r.Similarity
		c.score += weights.Vector * r.Similarity
	}

	results := make([]*fused, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, c)
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.inBoth != b.inBoth {
			return a.inBoth
		}
		return a.key < b.key
	})

	return results
}
