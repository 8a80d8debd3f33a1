package dsl

import (
	"fmt"
	"slices"

	"github.com/aretw0/wayfinder/internal/validator"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[int64]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[int64]*NodeBuilder),
	}
}

// Add creates a new public node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id int64) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.NodeSnapshot{
			ID:       id,
			IsPublic: true,
		},
		builder: b,
	}
	b.nodes[id] = nb
	return nb
}

// Nodes returns the snapshots built so far, ordered by id.
func (b *Builder) Nodes() []domain.NodeSnapshot {
	ids := make([]int64, 0, len(b.nodes))
	for id := range b.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]domain.NodeSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.nodes[id].node.Clone())
	}
	return out
}

// Build validates the graph and compiles it into an in-memory node store.
// Nodes failing validator.ValidateNodes are rejected; warnings are ignored.
func (b *Builder) Build() (*memory.NodeStore, error) {
	nodes := b.Nodes()

	if err := validator.ValidateNodes(nodes).Err(); err != nil {
		return nil, fmt.Errorf("failed to build node store: %w", err)
	}

	return memory.NewNodeStore(nodes...), nil
}
