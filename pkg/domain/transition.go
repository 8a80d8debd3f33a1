package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultRouteWindow is the maximum number of recent node IDs a context keeps.
const DefaultRouteWindow = 10

// TransitionContext is the immutable per-request state of a decision.
// Build it with NewTransitionContext; the engine treats it as read-only.
type TransitionContext struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`

	// OriginNodeID is nil when the session is not positioned on a node.
	OriginNodeID *int64 `json:"origin_node_id,omitempty"`

	// RouteWindow holds recently visited node IDs, most recent first.
	RouteWindow []int64 `json:"route_window"`

	LimitState        string   `json:"limit_state"`
	PremiumLevel      string   `json:"premium_level"`
	Mode              string   `json:"mode"`
	RequestedUISlots  int      `json:"requested_ui_slots"`
	PoliciesHash      string   `json:"policies_hash,omitempty"`
	ProviderOverrides []string `json:"provider_overrides,omitempty"`

	// Emergency requests bypass the decision cache.
	Emergency bool `json:"emergency"`

	// CacheSeed is derived from the decision-relevant fields and used as an idempotent cache key.
	CacheSeed string    `json:"cache_seed"`
	CreatedAt time.Time `json:"created_at"`
}

// ContextParams carries the raw inputs of NewTransitionContext.
type ContextParams struct {
	SessionID         string
	UserID            string
	OriginNodeID      *int64
	RouteWindow       []int64
	LimitState        string
	PremiumLevel      string
	Mode              string
	RequestedUISlots  int
	PoliciesHash      string
	ProviderOverrides []string
	Emergency         bool
	MaxRouteWindow    int
	Now               time.Time
}

// NewTransitionContext copies the params into a new context, bounds the route window
// and derives the cache seed.
func NewTransitionContext(p ContextParams) TransitionContext {
	limit := p.MaxRouteWindow
	if limit <= 0 {
		limit = DefaultRouteWindow
	}
	window := slices.Clone(p.RouteWindow)
	if len(window) > limit {
		window = window[:limit]
	}
	if window == nil {
		window = []int64{}
	}

	var origin *int64
	if p.OriginNodeID != nil {
		id := *p.OriginNodeID
		origin = &id
	}

	now := p.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	mode := strings.TrimSpace(p.Mode)
	if mode == "" {
		mode = DefaultMode
	}

	tc := TransitionContext{
		SessionID:         p.SessionID,
		UserID:            p.UserID,
		OriginNodeID:      origin,
		RouteWindow:       window,
		LimitState:        p.LimitState,
		PremiumLevel:      p.PremiumLevel,
		Mode:              mode,
		RequestedUISlots:  p.RequestedUISlots,
		PoliciesHash:      p.PoliciesHash,
		ProviderOverrides: slices.Clone(p.ProviderOverrides),
		Emergency:         p.Emergency,
		CreatedAt:         now,
	}
	tc.CacheSeed = DeriveCacheSeed(tc)
	return tc
}

// DeriveCacheSeed hashes every field that influences a decision.
// CreatedAt and Emergency are deliberately excluded. The fields are hashed as a
// JSON array so that separators inside values cannot alias another context.
func DeriveCacheSeed(tc TransitionContext) string {
	window := tc.RouteWindow
	if window == nil {
		window = []int64{}
	}
	overrides := tc.ProviderOverrides
	if overrides == nil {
		overrides = []string{}
	}
	tuple := []any{
		tc.SessionID,
		tc.UserID,
		tc.OriginNodeID,
		window,
		tc.LimitState,
		tc.PremiumLevel,
		tc.Mode,
		tc.RequestedUISlots,
		tc.PoliciesHash,
		overrides,
	}
	// Strings, integers and slices of them always marshal.
	raw, _ := json.Marshal(tuple)

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:16])
}

// InRouteWindow reports whether id was visited recently.
func (tc TransitionContext) InRouteWindow(id int64) bool {
	return slices.Contains(tc.RouteWindow, id)
}

// Validate enforces the engine preconditions on a context.
func (tc TransitionContext) Validate() error {
	if strings.TrimSpace(tc.SessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidContext)
	}
	for i, id := range tc.RouteWindow {
		if id <= 0 {
			return fmt.Errorf("%w: route_window[%d] = %d is not a node id", ErrInvalidContext, i, id)
		}
	}
	if tc.OriginNodeID != nil && *tc.OriginNodeID <= 0 {
		return fmt.Errorf("%w: origin node id %d is not a node id", ErrInvalidContext, *tc.OriginNodeID)
	}
	return nil
}
