package scoring

import (
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		Weights:         DefaultWeights(),
		AuthorThreshold: 0.5,
		TagThreshold:    0.2,
	}
}

func TestFor(t *testing.T) {
	for _, p := range domain.Providers {
		s, err := For(p)
		require.NoError(t, err)
		assert.NotNil(t, s)
	}

	_, err := For(domain.Provider(42))
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestCompass(t *testing.T) {
	p := testParams()
	origin := &domain.NodeSnapshot{ID: 1, Tags: []string{"go", "cli"}}
	snap := &domain.NodeSnapshot{ID: 2, Tags: []string{"go"}, Embedding: []float64{1, 0}}

	t.Run("With Query", func(t *testing.T) {
		score, factors := Compass(snap, origin, []float64{1, 0}, p)
		assert.InDelta(t, 1.0, factors[FactorSimilarity], 1e-12)
		assert.InDelta(t, 0.5, factors[FactorTagOverlap], 1e-12)
		assert.InDelta(t, 1.0*p.Weights.Similarity+0.5*p.Weights.TagSim, score, 1e-12)
	})

	t.Run("Without Query", func(t *testing.T) {
		score, factors := Compass(snap, origin, nil, p)
		assert.Equal(t, 0.0, factors[FactorSimilarity])
		assert.InDelta(t, 0.5*p.Weights.TagSim, score, 1e-12)
	})

	t.Run("Without Origin Or Embedding", func(t *testing.T) {
		score, factors := Compass(&domain.NodeSnapshot{ID: 3}, nil, []float64{1, 0}, p)
		assert.Equal(t, 0.0, score)
		assert.Equal(t, 0.0, factors[FactorTagOverlap])
	})
}

func TestEcho(t *testing.T) {
	p := testParams()
	origin := &domain.NodeSnapshot{ID: 1, AuthorID: "alice", Tags: []string{"go", "cli"}}

	t.Run("Same Author", func(t *testing.T) {
		snap := &domain.NodeSnapshot{ID: 2, AuthorID: "alice", Tags: []string{"go", "cli"}}
		score, factors := Echo(snap, origin, nil, p)
		assert.Equal(t, 1.0, factors[FactorAuthorMatch])
		assert.Equal(t, 0.0, factors[FactorDiversityBonus])
		assert.InDelta(t, p.Weights.Echo+p.Weights.TagSim, score, 1e-12)
	})

	t.Run("Different Author Earns Diversity Bonus", func(t *testing.T) {
		snap := &domain.NodeSnapshot{ID: 3, AuthorID: "bob", Tags: []string{"go"}}
		score, factors := Echo(snap, origin, nil, p)
		assert.Equal(t, 0.0, factors[FactorAuthorMatch])
		assert.Equal(t, p.Weights.DiversityBonus, factors[FactorDiversityBonus])
		assert.InDelta(t, 0.5*p.Weights.TagSim+p.Weights.DiversityBonus, score, 1e-12)
	})

	t.Run("Below Tag Threshold", func(t *testing.T) {
		strict := p
		strict.TagThreshold = 0.9
		snap := &domain.NodeSnapshot{ID: 4, AuthorID: "bob", Tags: []string{"go"}}
		score, _ := Echo(snap, origin, nil, strict)
		assert.Equal(t, 0.0, score)
	})

	t.Run("Nil Origin", func(t *testing.T) {
		score, factors := Echo(&domain.NodeSnapshot{ID: 5, AuthorID: "alice"}, nil, nil, p)
		assert.Equal(t, 0.0, score)
		assert.Equal(t, 0.0, factors[FactorAuthorMatch])
	})
}

func TestRandom(t *testing.T) {
	p := testParams()
	a, _ := Random(&domain.NodeSnapshot{ID: 1}, nil, nil, p)
	b, factors := Random(&domain.NodeSnapshot{ID: 2, Tags: []string{"x"}}, nil, []float64{1}, p)

	assert.Equal(t, a, b, "random score is constant")
	assert.InDelta(t, p.Weights.Baseline+p.Weights.Fresh, a, 1e-12)
	assert.Equal(t, p.Weights.Baseline, factors[FactorBaseline])
}
