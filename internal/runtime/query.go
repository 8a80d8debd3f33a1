package runtime

import (
	"context"
	"errors"
	"math"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/scoring"
)

// composeQuery blends the origin embedding with the embeddings of the route window
// into one unit vector. The origin weighs 1 and the i-th most recent window entry
// weighs 0.5^(i+1). Entries that cannot be resolved, carry no embedding or disagree
// on dimensionality are skipped. It returns nil when nothing contributes.
func (e *Engine) composeQuery(ctx context.Context, origin *domain.NodeSnapshot, tc domain.TransitionContext) []float64 {
	var acc []float64

	add := func(vec []float64, weight float64) {
		if len(vec) == 0 {
			return
		}
		if acc == nil {
			acc = make([]float64, len(vec))
		}
		if len(vec) != len(acc) {
			return
		}
		for i, v := range vec {
			acc[i] += v * weight
		}
	}

	if origin != nil {
		add(origin.Embedding, 1)
	}

	for i, id := range tc.RouteWindow {
		if origin != nil && id == origin.ID {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		snap, err := e.port.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, domain.ErrNodeNotFound) {
				e.logger.Debug("route window node unavailable", "node_id", id, "err", err)
			}
			continue
		}
		add(snap.Embedding, math.Pow(0.5, float64(i+1)))
	}

	if acc == nil {
		return nil
	}
	return scoring.Normalize(acc)
}
