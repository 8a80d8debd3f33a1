package scoring

import (
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{0.3, 0.4, 0.5}, []float64{0.3, 0.4, 0.5}, 1},
		{"scaled", []float64{1, 2}, []float64{2, 4}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"empty", nil, []float64{1, 0}, 0},
		{"both empty", nil, nil, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0},
		{"dimension mismatch", []float64{1, 0, 0}, []float64{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-12)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Nil(t, Normalize([]float64{0, 0}))

	v := Normalize([]float64{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-12)
	assert.InDelta(t, 0.8, v[1], 1e-12)
}

func TestTagOverlap(t *testing.T) {
	t.Run("Case Insensitive", func(t *testing.T) {
		assert.Equal(t, 1.0, TagOverlap([]string{"Python"}, []string{"python"}))
	})

	t.Run("Trimmed", func(t *testing.T) {
		assert.Equal(t, 1.0, TagOverlap([]string{"  go "}, []string{"Go"}))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0.0, TagOverlap(nil, []string{"go"}))
		assert.Equal(t, 0.0, TagOverlap([]string{"go"}, []string{}))
		assert.Equal(t, 0.0, TagOverlap([]string{"  "}, []string{"go"}))
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := []string{"go", "rust", "zig"}
		b := []string{"GO", "python"}
		assert.Equal(t, TagOverlap(a, b), TagOverlap(b, a))
		// shared {go}, union {go, rust, zig, python}
		assert.InDelta(t, 0.25, TagOverlap(a, b), 1e-12)
	})

	t.Run("Duplicates Collapse", func(t *testing.T) {
		assert.Equal(t, 1.0, TagOverlap([]string{"go", "Go", "GO"}, []string{"go"}))
	})
}

func TestAuthorMatch(t *testing.T) {
	alice := &domain.NodeSnapshot{AuthorID: "alice"}
	aliceUpper := &domain.NodeSnapshot{AuthorID: "Alice"}
	anon := &domain.NodeSnapshot{}

	assert.Equal(t, 1.0, AuthorMatch(alice, &domain.NodeSnapshot{AuthorID: "alice"}))
	assert.Equal(t, 0.0, AuthorMatch(alice, aliceUpper), "author ids are case-sensitive")
	assert.Equal(t, 0.0, AuthorMatch(anon, anon), "empty authors never match")
	assert.Equal(t, 0.0, AuthorMatch(nil, alice))
}
