package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
)

type cacheEntry struct {
	decision  *domain.TransitionDecision
	expiresAt time.Time
}

// DecisionCache implements ports.DecisionCache in memory.
// Safe for concurrent use. Expired entries are dropped lazily on read.
type DecisionCache struct {
	data map[string]cacheEntry
	mu   sync.RWMutex
	now  func() time.Time
}

// NewDecisionCache creates an empty cache.
func NewDecisionCache() *DecisionCache {
	return &DecisionCache{
		data: make(map[string]cacheEntry),
		now:  time.Now,
	}
}

// Get returns a copy of the cached decision or domain.ErrCacheMiss.
func (c *DecisionCache) Get(ctx context.Context, key string) (*domain.TransitionDecision, error) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return nil, domain.ErrCacheMiss
	}
	return entry.decision.Clone(), nil
}

// Set stores a copy of the decision. A non-positive ttl never expires.
func (c *DecisionCache) Set(ctx context.Context, key string, decision *domain.TransitionDecision, ttl time.Duration) error {
	entry := cacheEntry{decision: decision.Clone()}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry
	return nil
}

// Flush drops every entry.
func (c *DecisionCache) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.data)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *DecisionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Delete removes a key. Missing keys are not an error.
func (c *DecisionCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
