package domain

import "slices"

// NodeSnapshot is a read-only view of a content node used for scoring.
// The engine never mutates a snapshot it receives from a NodePort.
type NodeSnapshot struct {
	ID       int64    `json:"id" yaml:"id"`
	AuthorID string   `json:"author_id" yaml:"author_id"`
	Title    string   `json:"title" yaml:"title"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	IsPublic bool     `json:"is_public" yaml:"is_public"`

	// Embedding is nil when the node has no vector.
	Embedding []float64 `json:"embedding,omitempty" yaml:"embedding,omitempty"`
}

// HasEmbedding reports whether the snapshot carries a usable vector.
func (n *NodeSnapshot) HasEmbedding() bool {
	return n != nil && len(n.Embedding) > 0
}

// VisibleTo reports whether the node may be surfaced to the given user.
// Private nodes are only visible to their author.
func (n *NodeSnapshot) VisibleTo(userID string) bool {
	if n == nil {
		return false
	}
	return n.IsPublic || (userID != "" && n.AuthorID == userID)
}

// Clone returns a copy that shares no memory with n.
func (n NodeSnapshot) Clone() NodeSnapshot {
	n.Tags = slices.Clone(n.Tags)
	n.Embedding = slices.Clone(n.Embedding)
	return n
}
