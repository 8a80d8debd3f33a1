package wayfinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/modes"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/scoring"
)

// Cache lookup results reported through WithCacheObserver.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// DefaultLockTTL bounds how long a cache fill may hold its lock.
const DefaultLockTTL = 5 * time.Second

// Engine is the high-level entry point for the Wayfinder library.
// It wraps the internal runtime and adds the decision cache and its fill lock.
type Engine struct {
	runtime        *runtime.Engine
	port           ports.NodePort
	runtimeOpts    []runtime.EngineOption
	modes          *modes.Registry
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
	cache          ports.DecisionCache
	cacheTTL       time.Duration
	locker         ports.DistributedLocker
	lockTTL        time.Duration
	maxRouteWindow int
	observeCache   func(result string)
	seenGeneration atomic.Uint64
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithModes replaces the built-in mode registry.
func WithModes(reg *modes.Registry) Option {
	return func(e *Engine) {
		e.modes = reg
	}
}

// WithWeights sets the scoring weights shared by every mode.
func WithWeights(w scoring.Weights) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithWeights(w))
	}
}

// WithRand injects the random source. Equally seeded sources replay identical decisions.
func WithRand(r ports.Rand) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithRand(r))
	}
}

// WithSeed is shorthand for WithRand with a seeded source.
func WithSeed(seed uint64) Option {
	return WithRand(runtime.NewRand(seed))
}

// WithFetchTimeout bounds each provider fetch (default 2s).
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithFetchTimeout(d))
	}
}

// WithCache stores decisions under their cache seed for ttl (0 = no expiration).
func WithCache(cache ports.DecisionCache, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = cache
		e.cacheTTL = ttl
	}
}

// WithLocker serializes cache fills of the same seed. Only used together with WithCache.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		if ttl > 0 {
			e.lockTTL = ttl
		}
	}
}

// WithCacheObserver is called with CacheHit, CacheMiss or CacheError on every lookup.
func WithCacheObserver(fn func(result string)) Option {
	return func(e *Engine) {
		e.observeCache = fn
	}
}

// WithMaxRouteWindow bounds the route window kept by NewContext.
func WithMaxRouteWindow(n int) Option {
	return func(e *Engine) {
		e.maxRouteWindow = n
	}
}

// New initializes a new Wayfinder Engine reading nodes through port.
func New(port ports.NodePort, opts ...Option) (*Engine, error) {
	if port == nil {
		return nil, fmt.Errorf("a node port is required")
	}

	eng := &Engine{
		port:           port,
		lockTTL:        DefaultLockTTL,
		maxRouteWindow: domain.DefaultRouteWindow,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.modes == nil {
		eng.modes = modes.Default()
	}
	if eng.observeCache == nil {
		eng.observeCache = func(string) {}
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithModes(eng.modes),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)
	eng.runtime = runtime.NewEngine(port, runtimeOpts...)
	if v, ok := port.(ports.Versioned); ok {
		eng.seenGeneration.Store(v.Generation())
	}

	return eng, nil
}

// NewContext builds a TransitionContext bounded by the engine's route window limit.
func (e *Engine) NewContext(p domain.ContextParams) domain.TransitionContext {
	if p.MaxRouteWindow <= 0 {
		p.MaxRouteWindow = e.maxRouteWindow
	}
	return domain.NewTransitionContext(p)
}

// Decide returns the ranked next-node candidates for tc.
//
// With a cache configured, identical contexts (same cache seed) are answered from
// the cache and flagged ServedFromCache. When the port implements ports.Versioned,
// cached decisions never outlive a change of the node store. Emergency contexts
// always compute a fresh decision, are flagged EmergencyUsed and are never cached.
// Cache and lock failures are logged and never fail the call.
func (e *Engine) Decide(ctx context.Context, tc domain.TransitionContext) (*domain.TransitionDecision, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if tc.CacheSeed == "" {
		tc.CacheSeed = domain.DeriveCacheSeed(tc)
	}

	if tc.Emergency {
		d, err := e.runtime.Decide(ctx, tc)
		if err != nil {
			return nil, err
		}
		d.EmergencyUsed = true
		return d, nil
	}

	if e.cache == nil {
		return e.runtime.Decide(ctx, tc)
	}

	key := e.cacheKey(ctx, tc.CacheSeed)
	if d, ok := e.lookup(ctx, key); ok {
		return d, nil
	}

	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, key, e.lockTTL)
		if err != nil {
			e.logger.Warn("cache lock unavailable", "cache_key", key, "err", err)
		} else {
			defer func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					e.logger.Warn("cache unlock failed", "cache_key", key, "err", err)
				}
			}()
			// Another replica may have filled the cache while we waited.
			if d, ok := e.lookup(ctx, key); ok {
				return d, nil
			}
		}
	}

	d, err := e.runtime.Decide(ctx, tc)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, key, d, e.cacheTTL); err != nil {
		e.logger.Warn("cache write failed", "cache_key", key, "err", err)
	}
	return d, nil
}

// cacheKey scopes a context seed to the node store generation it is computed against.
// The first call after a generation change flushes caches that support it.
func (e *Engine) cacheKey(ctx context.Context, seed string) string {
	v, ok := e.port.(ports.Versioned)
	if !ok {
		return seed
	}
	gen := v.Generation()
	if prev := e.seenGeneration.Swap(gen); prev != gen {
		e.logger.Info("node store changed, dropping cached decisions", "generation", gen)
		if f, ok := e.cache.(ports.FlushableCache); ok {
			if err := f.Flush(ctx); err != nil {
				e.logger.Warn("cache flush failed", "err", err)
			}
		}
	}
	return seed + "@" + strconv.FormatUint(gen, 10)
}

func (e *Engine) lookup(ctx context.Context, key string) (*domain.TransitionDecision, bool) {
	d, err := e.cache.Get(ctx, key)
	switch {
	case err == nil:
		e.observeCache(CacheHit)
		d.ServedFromCache = true
		return d, true
	case errors.Is(err, domain.ErrCacheMiss):
		e.observeCache(CacheMiss)
	default:
		e.observeCache(CacheError)
		e.logger.Warn("cache read failed", "cache_key", key, "err", err)
	}
	return nil, false
}

// Invalidate drops the cached decision of a context seed.
func (e *Engine) Invalidate(ctx context.Context, seed string) error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Delete(ctx, e.cacheKey(ctx, seed))
}

// Modes returns the mode registry the engine resolves against.
func (e *Engine) Modes() *modes.Registry {
	return e.modes
}

// Port returns the underlying NodePort used by the engine.
func (e *Engine) Port() ports.NodePort {
	return e.port
}

// Watch returns a channel that signals when the underlying node store changes.
// Returns error if the port does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.port.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current node port does not support watching")
}
