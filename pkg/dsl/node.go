package dsl

import (
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.NodeSnapshot
	builder *Builder
}

// By sets the author of the node.
func (n *NodeBuilder) By(author string) *NodeBuilder {
	n.node.AuthorID = author
	return n
}

// Title sets the display title.
func (n *NodeBuilder) Title(title string) *NodeBuilder {
	n.node.Title = title
	return n
}

// Tags appends topic tags.
func (n *NodeBuilder) Tags(tags ...string) *NodeBuilder {
	n.node.Tags = append(n.node.Tags, tags...)
	return n
}

// Embedding sets the content vector used by the compass provider.
func (n *NodeBuilder) Embedding(v ...float64) *NodeBuilder {
	n.node.Embedding = slices.Clone(v)
	return n
}

// Private hides the node from everyone but its author.
func (n *NodeBuilder) Private() *NodeBuilder {
	n.node.IsPublic = false
	return n
}

// Add starts the next node, allowing chained definitions.
func (n *NodeBuilder) Add(id int64) *NodeBuilder {
	return n.builder.Add(id)
}
