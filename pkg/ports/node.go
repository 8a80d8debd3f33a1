package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// NodePort defines how the engine retrieves node snapshots.
// This allows the storage layer (Loam, Memory, SQL) to be decoupled.
// Retry policy, if any, belongs to the implementation.
type NodePort interface {
	// Get retrieves a snapshot by ID.
	// Returns domain.ErrNodeNotFound if the node does not exist.
	Get(ctx context.Context, id int64) (*domain.NodeSnapshot, error)

	// ListByAuthor returns up to limit snapshots written by authorID, skipping offset.
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.NodeSnapshot, error)

	// SearchByEmbedding returns up to limit snapshots ordered by similarity to vector.
	// A nil vector asks for a broad, unranked sample.
	SearchByEmbedding(ctx context.Context, vector []float64, limit int) ([]*domain.NodeSnapshot, error)
}

// Versioned is implemented by node stores whose content can change at runtime.
// Generation must change whenever the stored content does.
type Versioned interface {
	Generation() uint64
}

// Watchable defines an interface for node stores that can notify about backend changes.
// This is typically used for hot-reload of file-backed stores.
type Watchable interface {
	// Watch returns a channel that is signaled with the changed document ID.
	Watch(ctx context.Context) (<-chan string, error)
}
