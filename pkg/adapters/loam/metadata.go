package loam

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// NodeMetadata represents the frontmatter (or JSON body) of a content node document.
// Numeric fields are typed as any because Loam's strict mode yields json.Number
// while plain YAML yields int or float64.
type NodeMetadata struct {
	ID       any      `json:"id" mapstructure:"id"`
	AuthorID string   `json:"author_id" mapstructure:"author_id"`
	Title    string   `json:"title" mapstructure:"title"`
	Tags     []string `json:"tags" mapstructure:"tags"`

	// IsPublic defaults to true when absent.
	IsPublic *bool `json:"is_public" mapstructure:"is_public"`

	Embedding []any `json:"embedding" mapstructure:"embedding"`
}

// toSnapshot converts a document into a snapshot. docID is used when the
// metadata carries no id; it must then be numeric once its extension is stripped.
func (m NodeMetadata) toSnapshot(docID string) (domain.NodeSnapshot, error) {
	rawID := m.ID
	if rawID == nil || rawID == "" {
		rawID = trimExtension(filepath.Base(docID))
	}
	id, err := toInt64(rawID)
	if err != nil {
		return domain.NodeSnapshot{}, fmt.Errorf("document %s: invalid id: %w", docID, err)
	}
	if id <= 0 {
		return domain.NodeSnapshot{}, fmt.Errorf("document %s: id must be positive, got %d", docID, id)
	}

	var embedding []float64
	if len(m.Embedding) > 0 {
		embedding = make([]float64, len(m.Embedding))
		for i, v := range m.Embedding {
			f, err := toFloat64(v)
			if err != nil {
				return domain.NodeSnapshot{}, fmt.Errorf("document %s: embedding[%d]: %w", docID, i, err)
			}
			embedding[i] = f
		}
	}

	title := m.Title
	if title == "" {
		title = trimExtension(filepath.Base(docID))
	}

	public := true
	if m.IsPublic != nil {
		public = *m.IsPublic
	}

	return domain.NodeSnapshot{
		ID:        id,
		AuthorID:  m.AuthorID,
		Title:     title,
		Tags:      m.Tags,
		IsPublic:  public,
		Embedding: embedding,
	}, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not a whole number", n)
		}
		return int64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return toInt64(f)
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
