// Package scoring holds the pure similarity primitives and the per-provider scoring
// functions used to rank transition candidates.
//
// Nothing in this package fails on absent data: missing vectors, tags or authors
// contribute zero.
package scoring

import (
	"math"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Cosine returns the cosine similarity of a and b.
// It is 0 when either vector is empty, has zero norm, or the dimensions differ.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp rounding drift so identical vectors report exactly 1.
	return math.Max(-1, math.Min(1, sim))
}

// Normalize returns v scaled to unit length, or nil for empty and zero vectors.
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// TagOverlap returns the Jaccard ratio of two tag sets after trimming and lower-casing.
// It is symmetric and 0 when either set is empty.
func TagOverlap(a, b []string) float64 {
	setA := tagSet(a)
	setB := tagSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for tag := range setA {
		if setB[tag] {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		clean := strings.ToLower(strings.TrimSpace(t))
		if clean != "" {
			set[clean] = true
		}
	}
	return set
}

// AuthorMatch returns 1 when both snapshots have the same non-empty author (case-sensitive).
func AuthorMatch(a, b *domain.NodeSnapshot) float64 {
	if a == nil || b == nil || a.AuthorID == "" {
		return 0
	}
	if a.AuthorID == b.AuthorID {
		return 1
	}
	return 0
}
