package runtime

import (
	"context"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/scoring"
	"golang.org/x/sync/errgroup"
)

// envelope is a scored snapshot that has not been finalized yet.
type envelope struct {
	snap     *domain.NodeSnapshot
	provider domain.Provider
	score    float64
	factors  map[string]float64
}

// fetchResult is the outcome of one provider fetch.
type fetchResult struct {
	provider domain.Provider
	ran      bool
	fetched  int
	snaps    []*domain.NodeSnapshot
	err      error
	duration time.Duration
}

// effectiveProviders intersects the mode providers with the caller overrides,
// keeping mode order. Unknown names are dropped; when none is left the overrides
// are ignored and the mode providers are used as is. Known names outside the mode
// yield an empty set.
func effectiveProviders(cfg domain.ModeConfig, overrides []string) []domain.Provider {
	if len(overrides) == 0 {
		return cfg.Providers
	}
	wanted := domain.NormalizeProviderNames(overrides)
	if len(wanted) == 0 {
		return cfg.Providers
	}

	out := make([]domain.Provider, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		for _, w := range wanted {
			if p == w {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// request bundles what every provider fetch of one decision shares.
type request struct {
	tc     domain.TransitionContext
	mode   string
	cfg    domain.ModeConfig
	origin *domain.NodeSnapshot
	query  []float64
}

// collect runs every provider concurrently and returns the results in provider order.
// A failed or timed-out fetch is recorded and never aborts its siblings.
func (e *Engine) collect(ctx context.Context, req request, providers []domain.Provider) []fetchResult {
	results := make([]fetchResult, len(providers))

	var g errgroup.Group
	g.SetLimit(len(providers))
	for i, p := range providers {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
			defer cancel()

			start := time.Now()
			res := e.fetch(fctx, req, p)
			res.duration = time.Since(start)
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if !res.ran {
			continue
		}
		if res.err != nil {
			e.logger.Warn("provider fetch failed",
				"session_id", req.tc.SessionID,
				"provider", res.provider.String(),
				"err", res.err,
			)
		}
		if e.hooks.OnProviderFetch != nil {
			e.hooks.OnProviderFetch(ctx, &domain.ProviderEvent{
				EventBase: domain.EventBase{
					Timestamp: time.Now(),
					Type:      domain.EventProviderFetch,
					SessionID: req.tc.SessionID,
				},
				Mode:     req.mode,
				Provider: res.provider,
				Fetched:  res.fetched,
				Duration: res.duration,
				Err:      res.err,
			})
		}
	}
	return results
}

// fetch asks the port for the snapshots of one provider and filters them.
func (e *Engine) fetch(ctx context.Context, req request, p domain.Provider) fetchResult {
	res := fetchResult{provider: p}
	k := req.cfg.KBase

	var snaps []*domain.NodeSnapshot
	var err error
	switch p {
	case domain.ProviderCompass:
		if len(req.query) == 0 {
			return res
		}
		res.ran = true
		snaps, err = e.port.SearchByEmbedding(ctx, req.query, k+1)
	case domain.ProviderEcho:
		if req.origin == nil || req.origin.AuthorID == "" {
			return res
		}
		res.ran = true
		snaps, err = e.port.ListByAuthor(ctx, req.origin.AuthorID, k+1, 0)
	case domain.ProviderRandom:
		if !req.cfg.AllowRandom {
			return res
		}
		res.ran = true
		snaps, err = e.port.SearchByEmbedding(ctx, nil, 3*k)
		if err == nil {
			e.rand.Shuffle(len(snaps), func(i, j int) { snaps[i], snaps[j] = snaps[j], snaps[i] })
		}
	default:
		return res
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		res.err = err
		return res
	}

	res.fetched = len(snaps)
	res.snaps = e.filter(snaps, req, k)
	return res
}

// filter drops the origin, nil entries and nodes the user may not see, then caps at k.
func (e *Engine) filter(snaps []*domain.NodeSnapshot, req request, k int) []*domain.NodeSnapshot {
	out := make([]*domain.NodeSnapshot, 0, min(len(snaps), k))
	for _, s := range snaps {
		if len(out) == k {
			break
		}
		if s == nil {
			continue
		}
		if req.tc.OriginNodeID != nil && s.ID == *req.tc.OriginNodeID {
			continue
		}
		if !s.VisibleTo(req.tc.UserID) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// score wraps every fetched snapshot into an envelope using its provider's scorer.
func (e *Engine) score(req request, results []fetchResult) []envelope {
	params := scoring.ParamsFor(e.weights, req.cfg)

	var envs []envelope
	for _, res := range results {
		scorer, err := scoring.For(res.provider)
		if err != nil {
			continue
		}
		for _, snap := range res.snaps {
			score, factors := scorer(snap, req.origin, req.query, params)
			envs = append(envs, envelope{
				snap:     snap,
				provider: res.provider,
				score:    score,
				factors:  factors,
			})
		}
	}
	return envs
}
