package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractNodes returns the fixture that RunNodePortContract expects a NodePort to hold.
func ContractNodes() []domain.NodeSnapshot {
	return []domain.NodeSnapshot{
		{ID: 101, AuthorID: "ada", Title: "Engines", Tags: []string{"math"}, IsPublic: true, Embedding: []float64{1, 0, 0}},
		{ID: 102, AuthorID: "ada", Title: "Notes", Tags: []string{"math", "history"}, IsPublic: true, Embedding: []float64{0.9, 0.1, 0}},
		{ID: 103, AuthorID: "ada", Title: "Letters", Tags: []string{"history"}, IsPublic: true, Embedding: []float64{0, 1, 0}},
		{ID: 104, AuthorID: "grace", Title: "Compilers", Tags: []string{"code"}, IsPublic: true, Embedding: []float64{0, 0, 1}},
		{ID: 105, AuthorID: "grace", Title: "Draft", Tags: []string{"code"}, IsPublic: false},
	}
}

// RunNodePortContract runs a suite of tests to verify that a NodePort implementation
// adheres to the defined interface contract. The port must hold ContractNodes().
func RunNodePortContract(t *testing.T, port NodePort) {
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		snap, err := port.Get(ctx, 102)
		require.NoError(t, err)
		assert.Equal(t, int64(102), snap.ID)
		assert.Equal(t, "ada", snap.AuthorID)
		assert.ElementsMatch(t, []string{"math", "history"}, snap.Tags)
		assert.Len(t, snap.Embedding, 3)
	})

	t.Run("Get Without Embedding", func(t *testing.T) {
		snap, err := port.Get(ctx, 105)
		require.NoError(t, err)
		assert.False(t, snap.HasEmbedding())
		assert.False(t, snap.IsPublic)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := port.Get(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})

	t.Run("ListByAuthor", func(t *testing.T) {
		all, err := port.ListByAuthor(ctx, "ada", 10, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		for _, s := range all {
			assert.Equal(t, "ada", s.AuthorID)
		}

		page, err := port.ListByAuthor(ctx, "ada", 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := port.ListByAuthor(ctx, "ada", 2, 2)
		require.NoError(t, err)
		assert.Len(t, rest, 1)

		none, err := port.ListByAuthor(ctx, "nobody", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("SearchByEmbedding", func(t *testing.T) {
		res, err := port.SearchByEmbedding(ctx, []float64{1, 0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, int64(101), res[0].ID, "most similar node first")
		assert.Equal(t, int64(102), res[1].ID)
	})

	t.Run("SearchByEmbedding Sample", func(t *testing.T) {
		res, err := port.SearchByEmbedding(ctx, nil, 3)
		require.NoError(t, err)
		assert.Len(t, res, 3)
	})
}

// RunDecisionCacheContract runs a suite of tests to verify that a DecisionCache
// implementation adheres to the defined interface contract.
func RunDecisionCacheContract(t *testing.T, cache DecisionCache) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405.000000000")

	selected := int64(7)
	decision := &domain.TransitionDecision{
		Candidates: []domain.TransitionCandidate{{
			NodeID:      7,
			Provider:    domain.ProviderEcho,
			Score:       0.8,
			Probability: 1,
			Factors:     map[string]float64{"author_match": 1},
			Badge:       domain.BadgeExplore,
			Explain:     "same author",
		}},
		SelectedNodeID: &selected,
		Mode:           "normal",
		PoolSize:       1,
		Telemetry:      map[string]float64{"candidates_total": 1},
	}

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, decision, 0))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.Len(t, got.Candidates, 1)
		assert.Equal(t, domain.ProviderEcho, got.Candidates[0].Provider)
		assert.Equal(t, 1.0, got.Candidates[0].Factors["author_match"])
		require.NotNil(t, got.SelectedNodeID)
		assert.Equal(t, int64(7), *got.SelectedNodeID)
	})

	t.Run("Returned Copies Are Isolated", func(t *testing.T) {
		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		got.Candidates[0].Factors["author_match"] = 99
		got.Telemetry["candidates_total"] = 99

		again, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 1.0, again.Candidates[0].Factors["author_match"])
		assert.Equal(t, 1.0, again.Telemetry["candidates_total"])
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Delete(ctx, key))
		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, cache.Delete(ctx, key), "deleting twice is fine")
	})
}
