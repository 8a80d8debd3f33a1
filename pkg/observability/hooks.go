package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProviderFetch: func(ctx context.Context, e *domain.ProviderEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "provider_fetch",
					"session_id", e.SessionID,
					"provider", e.Provider.String(),
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "provider_fetch",
				"session_id", e.SessionID,
				"provider", e.Provider.String(),
				"fetched", e.Fetched,
				"duration", e.Duration,
			)
		},
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			logger.InfoContext(ctx, "decision",
				"session_id", e.SessionID,
				"mode", e.Decision.Mode,
				"candidates", len(e.Decision.Candidates),
				"empty_pool", e.Decision.EmptyPool,
				"duration", e.Duration,
			)
		},
	}
}

// Combine fans every event out to each hook set in order. Nil callbacks are skipped.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	var fetch []func(context.Context, *domain.ProviderEvent)
	var decide []func(context.Context, *domain.DecisionEvent)
	for _, s := range sets {
		if s.OnProviderFetch != nil {
			fetch = append(fetch, s.OnProviderFetch)
		}
		if s.OnDecision != nil {
			decide = append(decide, s.OnDecision)
		}
	}

	if len(fetch) > 0 {
		out.OnProviderFetch = func(ctx context.Context, e *domain.ProviderEvent) {
			for _, fn := range fetch {
				fn(ctx, e)
			}
		}
	}
	if len(decide) > 0 {
		out.OnDecision = func(ctx context.Context, e *domain.DecisionEvent) {
			for _, fn := range decide {
				fn(ctx, e)
			}
		}
	}
	return out
}
