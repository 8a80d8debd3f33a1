package http

import (
	"github.com/aretw0/wayfinder/pkg/domain"
)

// Static recovery actions offered when a decision has no candidates.
const (
	FallbackSearch         = "search"
	FallbackBrowsePopular  = "browse_popular"
	FallbackReturnToOrigin = "return_to_origin"
)

// CandidateView is one candidate as returned to clients.
type CandidateView struct {
	ID          int64              `json:"id"`
	Badge       domain.Badge       `json:"badge"`
	Score       float64            `json:"score"`
	Probability float64            `json:"probability"`
	Reason      map[string]float64 `json:"reason"`
	Explain     string             `json:"explain"`
	Provider    domain.Provider    `json:"provider"`
}

// DecisionView carries the ranked candidates.
type DecisionView struct {
	Candidates     []CandidateView `json:"candidates"`
	SelectedNodeID *int64          `json:"selected_node_id,omitempty"`
}

// TransitionResponse is the body of a successful POST /v1/transitions/next.
type TransitionResponse struct {
	QueryID             string             `json:"query_id"`
	UISlotsRequested    int                `json:"ui_slots_requested"`
	UISlots             int                `json:"ui_slots"`
	LimitState          string             `json:"limit_state"`
	Mode                string             `json:"mode"`
	EmergencyUsed       bool               `json:"emergency_used"`
	Decision            DecisionView       `json:"decision"`
	PoolSize            int                `json:"pool_size"`
	CacheSeed           string             `json:"cache_seed"`
	Temperature         float64            `json:"t"`
	Epsilon             float64            `json:"epsilon"`
	Telemetry           map[string]float64 `json:"telemetry"`
	ServedFromCache     bool               `json:"served_from_cache"`
	EmptyPool           bool               `json:"empty_pool"`
	EmptyPoolReason     string             `json:"empty_pool_reason,omitempty"`
	FallbackSuggestions []string           `json:"fallback_suggestions,omitempty"`
}

// NewTransitionResponse shapes a decision for the wire.
func NewTransitionResponse(queryID string, tc domain.TransitionContext, d *domain.TransitionDecision) TransitionResponse {
	candidates := make([]CandidateView, 0, len(d.Candidates))
	for _, c := range d.Candidates {
		candidates = append(candidates, CandidateView{
			ID:          c.NodeID,
			Badge:       c.Badge,
			Score:       c.Score,
			Probability: c.Probability,
			Reason:      c.Factors,
			Explain:     c.Explain,
			Provider:    c.Provider,
		})
	}

	resp := TransitionResponse{
		QueryID:          queryID,
		UISlotsRequested: tc.RequestedUISlots,
		UISlots:          len(candidates),
		LimitState:       d.LimitState,
		Mode:             d.Mode,
		EmergencyUsed:    d.EmergencyUsed,
		Decision: DecisionView{
			Candidates:     candidates,
			SelectedNodeID: d.SelectedNodeID,
		},
		PoolSize:        d.PoolSize,
		CacheSeed:       tc.CacheSeed,
		Temperature:     d.Temperature,
		Epsilon:         d.Epsilon,
		Telemetry:       d.Telemetry,
		ServedFromCache: d.ServedFromCache,
		EmptyPool:       d.EmptyPool,
		EmptyPoolReason: string(d.EmptyPoolReason),
	}
	if d.EmptyPool {
		resp.FallbackSuggestions = fallbackSuggestions(tc)
	}
	return resp
}

func fallbackSuggestions(tc domain.TransitionContext) []string {
	out := []string{FallbackSearch, FallbackBrowsePopular}
	if tc.OriginNodeID != nil {
		out = append(out, FallbackReturnToOrigin)
	}
	return out
}
