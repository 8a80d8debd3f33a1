package domain

import (
	"fmt"
	"math"
	"slices"

	"github.com/aretw0/wayfinder/pkg/schema"
)

// DefaultMode is the mode every registry must define and the fallback for unknown names.
const DefaultMode = "normal"

// ModeConfig is a named bundle of tunables controlling one decision.
type ModeConfig struct {
	// Providers is the ordered allow-list. Order breaks ties during dedup.
	Providers []Provider `json:"providers" yaml:"providers"`

	// KBase is the number of candidates fetched per provider.
	KBase int `json:"k_base" yaml:"k_base"`

	// Temperature controls softmax sharpness. Lower is greedier.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Epsilon is the probability mass spread uniformly across candidates (0..1).
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`

	AuthorThreshold float64 `json:"author_threshold" yaml:"author_threshold"`
	TagThreshold    float64 `json:"tag_threshold" yaml:"tag_threshold"`
	AllowRandom     bool    `json:"allow_random" yaml:"allow_random"`
}

// Clone returns a copy that shares no memory with c.
func (c ModeConfig) Clone() ModeConfig {
	c.Providers = slices.Clone(c.Providers)
	return c
}

// Has reports whether p is in the allow-list.
func (c ModeConfig) Has(p Provider) bool {
	return slices.Contains(c.Providers, p)
}

// Rank returns the position of p in the allow-list, or len(Providers) when absent.
func (c ModeConfig) Rank(p Provider) int {
	if i := slices.Index(c.Providers, p); i >= 0 {
		return i
	}
	return len(c.Providers)
}

// Validate checks the configuration and reports every violation at once.
func (c ModeConfig) Validate() error {
	var errs []error

	if len(c.Providers) == 0 {
		errs = append(errs, &schema.ValidationError{Key: "providers", Reason: "must list at least one provider"})
	}
	seen := make(map[Provider]bool, len(c.Providers))
	for i, p := range c.Providers {
		if !p.Valid() {
			errs = append(errs, &schema.ValidationError{
				Key:    fmt.Sprintf("providers[%d]", i),
				Reason: ErrUnknownProvider.Error(),
				Value:  p,
			})
			continue
		}
		if seen[p] {
			errs = append(errs, &schema.ValidationError{
				Key:    fmt.Sprintf("providers[%d]", i),
				Reason: fmt.Sprintf("duplicate provider %s", p),
			})
		}
		seen[p] = true
	}
	if c.KBase <= 0 {
		errs = append(errs, &schema.ValidationError{Key: "k_base", Reason: "must be positive", Value: c.KBase})
	}
	if math.IsNaN(c.Temperature) || math.IsInf(c.Temperature, 0) || c.Temperature <= 0 {
		errs = append(errs, &schema.ValidationError{Key: "temperature", Reason: "must be a positive finite number", Value: c.Temperature})
	}
	if !unitInterval(c.Epsilon) {
		errs = append(errs, &schema.ValidationError{Key: "epsilon", Reason: "must be within [0, 1]", Value: c.Epsilon})
	}
	if !unitInterval(c.AuthorThreshold) {
		errs = append(errs, &schema.ValidationError{Key: "author_threshold", Reason: "must be within [0, 1]", Value: c.AuthorThreshold})
	}
	if !unitInterval(c.TagThreshold) {
		errs = append(errs, &schema.ValidationError{Key: "tag_threshold", Reason: "must be within [0, 1]", Value: c.TagThreshold})
	}

	if len(errs) == 0 {
		return nil
	}
	return &schema.AggregateError{Errors: errs}
}

// unitInterval reports whether x lies within [0, 1]. NaN does not.
func unitInterval(x float64) bool {
	return !math.IsNaN(x) && x >= 0 && x <= 1
}
