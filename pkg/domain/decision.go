package domain

// Badge is a coarse, advisory explainability label attached to a candidate.
type Badge string

const (
	BadgeTrail   Badge = "trail"   // Node is part of the recent route window
	BadgeSimilar Badge = "similar" // Compass candidate above the mode threshold
	BadgeExplore Badge = "explore" // Everything else
)

// EmptyPoolReason explains why a decision carries no candidates. Values are stable.
type EmptyPoolReason string

const (
	// ReasonNoCandidates means every provider ran (or was skipped) without producing a node.
	ReasonNoCandidates EmptyPoolReason = "no_candidates"
	// ReasonOriginIsolated means the origin node resolved but nothing reachable surfaced.
	ReasonOriginIsolated EmptyPoolReason = "origin_isolated"
	// ReasonAllProvidersFailed means every provider that ran returned an error.
	ReasonAllProvidersFailed EmptyPoolReason = "all_providers_failed"
	// ReasonNoProviders means the mode and the overrides left no provider to run.
	ReasonNoProviders EmptyPoolReason = "no_providers"
)

// TransitionCandidate is one ranked next-node proposal.
type TransitionCandidate struct {
	NodeID      int64              `json:"node_id"`
	Provider    Provider           `json:"provider"`
	Score       float64            `json:"score"`
	Probability float64            `json:"probability"`
	Factors     map[string]float64 `json:"factors"`
	Badge       Badge              `json:"badge"`
	Explain     string             `json:"explain"`
}

// TransitionDecision is the outcome of a single decide call.
// It is constructed once and never mutated afterward.
type TransitionDecision struct {
	// Candidates are ordered by probability, highest first.
	Candidates     []TransitionCandidate `json:"candidates"`
	SelectedNodeID *int64                `json:"selected_node_id,omitempty"`

	Mode          string `json:"mode"`
	LimitState    string `json:"limit_state"`
	EmergencyUsed bool   `json:"emergency_used"`

	// PoolSize counts candidates considered before truncation.
	PoolSize  int                `json:"pool_size"`
	Telemetry map[string]float64 `json:"telemetry"`

	ServedFromCache      bool            `json:"served_from_cache"`
	CuratedBlockedReason string          `json:"curated_blocked_reason,omitempty"`
	EmptyPool            bool            `json:"empty_pool"`
	EmptyPoolReason      EmptyPoolReason `json:"empty_pool_reason,omitempty"`

	Temperature float64 `json:"temperature"`
	Epsilon     float64 `json:"epsilon"`
}

// Clone returns a deep copy of the decision.
func (d *TransitionDecision) Clone() *TransitionDecision {
	if d == nil {
		return nil
	}
	out := *d
	out.Candidates = make([]TransitionCandidate, len(d.Candidates))
	for i, c := range d.Candidates {
		factors := make(map[string]float64, len(c.Factors))
		for k, v := range c.Factors {
			factors[k] = v
		}
		c.Factors = factors
		out.Candidates[i] = c
	}
	if d.SelectedNodeID != nil {
		id := *d.SelectedNodeID
		out.SelectedNodeID = &id
	}
	out.Telemetry = make(map[string]float64, len(d.Telemetry))
	for k, v := range d.Telemetry {
		out.Telemetry[k] = v
	}
	return &out
}
