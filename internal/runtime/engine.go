package runtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/modes"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/scoring"
)

// DefaultFetchTimeout bounds a single provider fetch.
const DefaultFetchTimeout = 2 * time.Second

// Engine computes transition decisions.
// It holds no per-decision state and is safe for concurrent use.
type Engine struct {
	port         ports.NodePort
	modes        *modes.Registry
	weights      scoring.Weights
	rand         ports.Rand
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	fetchTimeout time.Duration
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithModes sets the mode registry. Defaults to modes.Default().
func WithModes(reg *modes.Registry) EngineOption {
	return func(e *Engine) {
		if reg != nil {
			e.modes = reg
		}
	}
}

// WithWeights sets the scoring weights.
func WithWeights(w scoring.Weights) EngineOption {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithRand injects the random source used to shuffle the random provider sample.
func WithRand(r ports.Rand) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.rand = r
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithFetchTimeout bounds each provider fetch. Non-positive values keep the default.
func WithFetchTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// NewEngine creates a new engine reading nodes through port.
func NewEngine(port ports.NodePort, opts ...EngineOption) *Engine {
	e := &Engine{
		port:         port,
		modes:        modes.Default(),
		weights:      scoring.DefaultWeights(),
		logger:       logging.NewNop(),
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rand == nil {
		e.rand = NewRand(uint64(time.Now().UnixNano()))
	}
	return e
}

// Modes returns the registry the engine resolves modes against.
func (e *Engine) Modes() *modes.Registry {
	return e.modes
}

// Decide computes the ranked next-node candidates for tc.
// It only fails when tc itself is invalid; absent data, empty pools and provider
// failures are reported through the decision.
func (e *Engine) Decide(ctx context.Context, tc domain.TransitionContext) (*domain.TransitionDecision, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	cfg, modeName := e.modes.Resolve(tc.Mode)
	if modeName != tc.Mode {
		e.logger.Debug("mode resolved", "requested", tc.Mode, "mode", modeName)
	}

	req := request{
		tc:     tc,
		mode:   modeName,
		cfg:    cfg,
		origin: e.resolveOrigin(ctx, tc),
	}
	req.query = e.composeQuery(ctx, req.origin, tc)

	decision := &domain.TransitionDecision{
		Mode:        modeName,
		LimitState:  tc.LimitState,
		Temperature: cfg.Temperature,
		Epsilon:     cfg.Epsilon,
	}

	providers := effectiveProviders(cfg, tc.ProviderOverrides)
	var results []fetchResult
	if len(providers) > 0 {
		results = e.collect(ctx, req, providers)
		decision.Candidates, decision.PoolSize = finalize(e.score(req, results), cfg, providers, tc)
	}

	if len(decision.Candidates) == 0 {
		decision.Candidates = []domain.TransitionCandidate{}
		decision.EmptyPool = true
		decision.EmptyPoolReason = emptyReason(providers, results, req.origin)
	} else {
		top := decision.Candidates[0].NodeID
		decision.SelectedNodeID = &top
	}

	decision.Telemetry = buildTelemetry(decision, results, req.query != nil, len(tc.RouteWindow))

	elapsed := time.Since(start)
	e.logger.Debug("decision computed",
		"session_id", tc.SessionID,
		"mode", modeName,
		"candidates", len(decision.Candidates),
		"empty_pool_reason", string(decision.EmptyPoolReason),
		"duration", elapsed,
	)
	if e.hooks.OnDecision != nil {
		e.hooks.OnDecision(ctx, &domain.DecisionEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventDecision,
				SessionID: tc.SessionID,
			},
			Decision: decision.Clone(),
			Duration: elapsed,
		})
	}
	return decision, nil
}

// resolveOrigin loads the origin snapshot. A missing or failing origin yields nil.
func (e *Engine) resolveOrigin(ctx context.Context, tc domain.TransitionContext) *domain.NodeSnapshot {
	if tc.OriginNodeID == nil {
		return nil
	}
	snap, err := e.port.Get(ctx, *tc.OriginNodeID)
	if err != nil {
		if errors.Is(err, domain.ErrNodeNotFound) {
			e.logger.Debug("origin node not found", "node_id", *tc.OriginNodeID)
		} else {
			e.logger.Warn("origin node unavailable", "node_id", *tc.OriginNodeID, "err", err)
		}
		return nil
	}
	return snap
}

func emptyReason(providers []domain.Provider, results []fetchResult, origin *domain.NodeSnapshot) domain.EmptyPoolReason {
	if len(providers) == 0 {
		return domain.ReasonNoProviders
	}
	ran, failed := 0, 0
	for _, res := range results {
		if res.ran {
			ran++
			if res.err != nil {
				failed++
			}
		}
	}
	if ran > 0 && failed == ran {
		return domain.ReasonAllProvidersFailed
	}
	if origin != nil {
		return domain.ReasonOriginIsolated
	}
	return domain.ReasonNoCandidates
}
