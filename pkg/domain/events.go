package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventProviderFetch EventType = "provider_fetch"
	EventDecision      EventType = "decision"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ProviderEvent reports the outcome of one provider fetch.
type ProviderEvent struct {
	EventBase
	Mode     string        `json:"mode"`
	Provider Provider      `json:"provider"`
	Fetched  int           `json:"fetched"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// DecisionEvent reports a finished decision.
type DecisionEvent struct {
	EventBase
	Decision *TransitionDecision `json:"decision"`
	Duration time.Duration       `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks receive copies of engine data and cannot influence a decision.
type LifecycleHooks struct {
	OnProviderFetch func(context.Context, *ProviderEvent)
	OnDecision      func(context.Context, *DecisionEvent)
}
