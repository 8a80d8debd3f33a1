package validator

import (
	"math"
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateNodes_Sample(t *testing.T) {
	r := ValidateNodes(testutils.SampleNodes())
	assert.NoError(t, r.Err())
	assert.Equal(t, []string{"node 5: no embedding, compass cannot reach it"}, r.Warnings)
}

func TestValidateNodes_Errors(t *testing.T) {
	nodes := []domain.NodeSnapshot{
		{ID: 1, AuthorID: "ana", Tags: []string{"go"}, Embedding: []float64{1, 0}},
		{ID: 1, AuthorID: "ana", Tags: []string{"go"}},
		{ID: 0, AuthorID: "bo", Tags: []string{"go"}},
		{ID: 2, Tags: []string{"go"}, Embedding: []float64{1, 0, 0}},
		{ID: 3, AuthorID: "cy", Tags: []string{"go"}, Embedding: []float64{math.NaN(), 1}},
	}

	r := ValidateNodes(nodes)
	err := r.Err()
	assert.ErrorContains(t, err, "found 5 errors")
	assert.Contains(t, r.Errors, "node 1: duplicate id")
	assert.Contains(t, r.Errors, "node 0: id must be positive")
	assert.Contains(t, r.Errors, "node 2: author is required")
	assert.Contains(t, r.Errors, "node 2: embedding has 3 dimensions, expected 2 (as node 1)")
	assert.Contains(t, r.Errors, "node 3: embedding contains NaN or Inf")
}

func TestValidateNodes_Warnings(t *testing.T) {
	r := ValidateNodes([]domain.NodeSnapshot{
		{ID: 1, AuthorID: "ana", Embedding: []float64{0, 0}},
	})
	assert.NoError(t, r.Err())
	assert.ElementsMatch(t, []string{
		"node 1: no tags, topic overlap is always zero",
		"node 1: zero embedding, similarity is always zero",
	}, r.Warnings)
}
