package ports

import (
	"context"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// DecisionCache stores finished decisions keyed by the context cache seed.
// Implementations must return copies so callers cannot mutate cached state.
type DecisionCache interface {
	// Get returns domain.ErrCacheMiss when nothing is stored under key.
	Get(ctx context.Context, key string) (*domain.TransitionDecision, error)

	// Set stores a decision. A zero ttl means no expiration.
	Set(ctx context.Context, key string, decision *domain.TransitionDecision, ttl time.Duration) error

	// Delete removes a stored decision. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// FlushableCache is a DecisionCache that can drop every stored decision at once.
type FlushableCache interface {
	DecisionCache

	// Flush removes every stored decision.
	Flush(ctx context.Context) error
}
