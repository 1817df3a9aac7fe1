package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/quadsync/internal/store"
)

// TS01: Union Scoring
func TestFuseWeighted(t *testing.T) {
	// Given: overlapping text and vector candidate sets
	text := []*store.TextResult{
		{Key: "both", Score: 2.0},
		{Key: "textonly", Score: 1.0},
	}
	vec := []*store.VectorResult{
		{Key: "both", Similarity: 0.8},
		{Key: "veconly", Similarity: 0.9},
	}

	// When: fusing with equal weights
	results := fuseWeighted(text, vec, Weights{Text: 0.5, Vector: 0.5})
	require.Len(t, results, 3)

	// Then: "both" leads with text 1.0 normalized plus similarity 0.8
	assert.Equal(t, "both", results[0].key)
	assert.InDelta(t, 0.5*1.0+0.5*0.8, results[0].score, 1e-9)
	assert.True(t, results[0].inBoth)

	// And: single-side candidates contribute zero from the missing side
	byKey := map[string]*fused{}
	for _, r := range results {
		byKey[r.key] = r
	}
	assert.InDelta(t, 0.5*0.5, byKey["textonly"].score, 1e-9)
	assert.InDelta(t, 0.5*0.9, byKey["veconly"].score, 1e-9)
}

// TS02: Text Normalization Is Monotonic
func TestFuseWeighted_TextOnlyPreservesOrder(t *testing.T) {
	text := []*store.TextResult{
		{Key: "a", Score: 3.0},
		{Key: "b", Score: 2.0},
		{Key: "c", Score: 1.0},
	}

	results := fuseWeighted(text, nil, Weights{Text: 1, Vector: 0})
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].key)
	assert.Equal(t, "b", results[1].key)
	assert.Equal(t, "c", results[2].key)
	assert.InDelta(t, 1.0, results[0].score, 1e-9)
}

// TS03: Deterministic Tie Breaking
func TestFuseWeighted_TieBreaking(t *testing.T) {
	// Given: two vector-only candidates with equal similarity
	vec := []*store.VectorResult{
		{Key: "zebra", Similarity: 0.5},
		{Key: "apple", Similarity: 0.5},
	}

	results := fuseWeighted(nil, vec, Weights{Text: 0, Vector: 1})
	require.Len(t, results, 2)

	// Then: ties order by key ascending
	assert.Equal(t, "apple", results[0].key)
	assert.Equal(t, "zebra", results[1].key)
}

// TS04: Empty Inputs
func TestFuseWeighted_Empty(t *testing.T) {
	assert.Empty(t, fuseWeighted(nil, nil, DefaultWeights))
}
