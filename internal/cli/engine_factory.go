package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/wayfinder"
	loamadapter "github.com/aretw0/wayfinder/pkg/adapters/loam"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	redisadapter "github.com/aretw0/wayfinder/pkg/adapters/redis"
	"github.com/aretw0/wayfinder/pkg/modes"
	"github.com/aretw0/wayfinder/pkg/observability"
)

// redisPingTimeout bounds the startup connectivity check.
const redisPingTimeout = 3 * time.Second

// Runtime bundles an engine with the infrastructure it was built on.
type Runtime struct {
	Engine  *wayfinder.Engine
	Loader  *loamadapter.Loader
	Metrics *observability.Metrics

	closers []func() error
}

// Close releases connections opened by CreateEngine.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// CreateEngine initializes a Wayfinder engine with standard CLI conventions:
// nodes from the Loam repository at cfg.Dir, metrics and log hooks, and a Redis
// or in-memory decision cache when configured.
func CreateEngine(ctx context.Context, cfg Config, logger *slog.Logger) (*Runtime, error) {
	loader, err := loamadapter.Open(ctx, cfg.Dir, loamadapter.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("error loading nodes from %s: %w", cfg.Dir, err)
	}
	logger.Info("nodes loaded", "dir", cfg.Dir, "count", loader.Len())

	rt := &Runtime{
		Loader:  loader,
		Metrics: observability.NewMetrics(),
	}

	// 1. Logger & Hooks
	engineOpts := []wayfinder.Option{
		wayfinder.WithLogger(logger),
		wayfinder.WithLifecycleHooks(observability.Combine(rt.Metrics.Hooks(), observability.LogHooks(logger))),
		wayfinder.WithCacheObserver(rt.Metrics.ObserveCache),
	}

	// 2. Modes & Weights
	if cfg.ModesFile != "" {
		mc, err := modes.LoadFile(cfg.ModesFile)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, wayfinder.WithModes(mc.Registry), wayfinder.WithWeights(mc.Weights))
	}

	if cfg.Seed != 0 {
		engineOpts = append(engineOpts, wayfinder.WithSeed(cfg.Seed))
	}
	if cfg.FetchTimeout > 0 {
		engineOpts = append(engineOpts, wayfinder.WithFetchTimeout(cfg.FetchTimeout))
	}

	// 3. Cache
	switch {
	case cfg.RedisAddr != "":
		cache := redisadapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redisadapter.WithTTL(cfg.CacheTTL))
		rt.closers = append(rt.closers, cache.Client().Close)

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := cache.Ping(pingCtx); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.RedisAddr, err)
		}
		locker := redisadapter.NewLocker(cache.Client(), redisadapter.DefaultPrefix)
		engineOpts = append(engineOpts,
			wayfinder.WithCache(cache, cfg.CacheTTL),
			wayfinder.WithLocker(locker, 0),
		)
		logger.Info("decision cache enabled", "backend", "redis", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	case cfg.MemoryCache:
		engineOpts = append(engineOpts,
			wayfinder.WithCache(memory.NewDecisionCache(), cfg.CacheTTL),
			wayfinder.WithLocker(memory.NewLocker(), 0),
		)
		logger.Info("decision cache enabled", "backend", "memory", "ttl", cfg.CacheTTL)
	}

	// 4. Initialize
	engine, err := wayfinder.New(loader, engineOpts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	rt.Engine = engine

	if cfg.Watch {
		if err := loader.AutoReload(ctx); err != nil {
			logger.Warn("hot reload unavailable", "err", err)
		}
	}
	return rt, nil
}
