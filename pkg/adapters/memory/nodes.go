package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/scoring"
)

// NodeStore implements ports.NodePort in memory.
// Safe for concurrent use. Snapshots are copied on write and on read.
type NodeStore struct {
	nodes map[int64]domain.NodeSnapshot
	gen   uint64
	mu    sync.RWMutex
}

// NewNodeStore creates a store holding the given snapshots.
func NewNodeStore(nodes ...domain.NodeSnapshot) *NodeStore {
	s := &NodeStore{nodes: make(map[int64]domain.NodeSnapshot, len(nodes))}
	s.Put(nodes...)
	return s
}

// Put inserts or replaces snapshots by id.
func (s *NodeStore) Put(nodes ...domain.NodeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nodes {
		s.nodes[n.ID] = n.Clone()
	}
	s.gen++
}

// Replace swaps the whole content of the store atomically.
func (s *NodeStore) Replace(nodes []domain.NodeSnapshot) {
	next := make(map[int64]domain.NodeSnapshot, len(nodes))
	for _, n := range nodes {
		next[n.ID] = n.Clone()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = next
	s.gen++
}

// Generation implements ports.Versioned. It grows on every Put and Replace.
func (s *NodeStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Len returns the number of stored snapshots.
func (s *NodeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Snapshots returns copies of every stored node ordered by id.
func (s *NodeStore) Snapshots() []domain.NodeSnapshot {
	all := s.sorted(nil)
	out := make([]domain.NodeSnapshot, len(all))
	for i, n := range all {
		out[i] = *n
	}
	return out
}

// Get returns the snapshot of a node.
func (s *NodeStore) Get(ctx context.Context, id int64) (*domain.NodeSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrNodeNotFound, id)
	}
	out := n.Clone()
	return &out, nil
}

// ListByAuthor returns the nodes of an author ordered by id.
func (s *NodeStore) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.NodeSnapshot, error) {
	all := s.sorted(func(n domain.NodeSnapshot) bool { return n.AuthorID == authorID })
	return page(all, limit, offset), nil
}

// SearchByEmbedding ranks nodes by cosine similarity to vector, best first, ties by id.
// Nodes whose embedding is missing or of another dimension are skipped.
// A nil vector returns a broad sample ordered by id.
func (s *NodeStore) SearchByEmbedding(ctx context.Context, vector []float64, limit int) ([]*domain.NodeSnapshot, error) {
	if len(vector) == 0 {
		return page(s.sorted(nil), limit, 0), nil
	}

	type ranked struct {
		snap *domain.NodeSnapshot
		sim  float64
	}
	var hits []ranked
	for _, n := range s.sorted(func(n domain.NodeSnapshot) bool { return len(n.Embedding) == len(vector) }) {
		hits = append(hits, ranked{snap: n, sim: scoring.Cosine(vector, n.Embedding)})
	}
	slices.SortStableFunc(hits, func(a, b ranked) int {
		return cmp.Compare(b.sim, a.sim)
	})

	out := make([]*domain.NodeSnapshot, len(hits))
	for i, h := range hits {
		out[i] = h.snap
	}
	return page(out, limit, 0), nil
}

// sorted returns copies of the matching snapshots ordered by id.
func (s *NodeStore) sorted(match func(domain.NodeSnapshot) bool) []*domain.NodeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.NodeSnapshot, 0, len(s.nodes))
	for _, n := range s.nodes {
		if match != nil && !match(n) {
			continue
		}
		c := n.Clone()
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *domain.NodeSnapshot) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func page(all []*domain.NodeSnapshot, limit, offset int) []*domain.NodeSnapshot {
	if limit <= 0 || offset >= len(all) {
		return []*domain.NodeSnapshot{}
	}
	offset = max(offset, 0)
	end := min(offset+limit, len(all))
	return all[offset:end]
}
