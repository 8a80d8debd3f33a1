package domain

import "errors"

// ErrNodeNotFound is returned by a NodePort when a node ID does not exist.
var ErrNodeNotFound = errors.New("node not found")

// ErrUnknownProvider is returned when a provider name is not one of compass, echo or random.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrUnknownMode is returned when a mode name is not present in a registry and no fallback applies.
var ErrUnknownMode = errors.New("unknown mode")

// ErrMissingDefaultMode is returned when a mode registry lacks the "normal" mode.
var ErrMissingDefaultMode = errors.New("default mode missing")

// ErrInvalidContext is returned when a transition context violates engine preconditions.
var ErrInvalidContext = errors.New("invalid transition context")

// ErrCacheMiss is returned by a DecisionCache when no decision is stored for a key.
var ErrCacheMiss = errors.New("decision not cached")
