package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Report lists the problems found in a node set.
// Errors make nodes unusable; warnings only limit which providers can reach them.
type Report struct {
	Errors   []string
	Warnings []string
}

// Err returns nil when the report holds no errors.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidateNodes checks ids, authors and embeddings across a node set.
// All embeddings must share the dimension of the first one.
func ValidateNodes(nodes []domain.NodeSnapshot) Report {
	var r Report
	seen := make(map[int64]bool, len(nodes))
	dim, dimFrom := 0, int64(0)

	for _, n := range nodes {
		if n.ID <= 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("node %d: id must be positive", n.ID))
		}
		if seen[n.ID] {
			r.Errors = append(r.Errors, fmt.Sprintf("node %d: duplicate id", n.ID))
		}
		seen[n.ID] = true

		if strings.TrimSpace(n.AuthorID) == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("node %d: author is required", n.ID))
		}
		if len(n.Tags) == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("node %d: no tags, topic overlap is always zero", n.ID))
		}

		if len(n.Embedding) == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("node %d: no embedding, compass cannot reach it", n.ID))
			continue
		}
		if !finite(n.Embedding) {
			r.Errors = append(r.Errors, fmt.Sprintf("node %d: embedding contains NaN or Inf", n.ID))
			continue
		}
		if zero(n.Embedding) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("node %d: zero embedding, similarity is always zero", n.ID))
		}

		switch {
		case dim == 0:
			dim, dimFrom = len(n.Embedding), n.ID
		case len(n.Embedding) != dim:
			r.Errors = append(r.Errors, fmt.Sprintf("node %d: embedding has %d dimensions, expected %d (as node %d)",
				n.ID, len(n.Embedding), dim, dimFrom))
		}
	}
	return r
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func zero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
