// Package modes provides the immutable mode-name to ModeConfig registry and its
// YAML loader.
package modes

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/schema"
)

// Registry maps mode names to configurations. It is built once and never mutated.
// Safe for concurrent use.
type Registry struct {
	modes map[string]domain.ModeConfig
}

// New validates every config and returns a registry holding private copies of them.
// The "normal" mode must be present. Names are matched case-insensitively.
func New(configs map[string]domain.ModeConfig) (*Registry, error) {
	var errs []error
	modes := make(map[string]domain.ModeConfig, len(configs))
	hasDefault := false

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cfg := configs[name]
		key := normalizeName(name)
		if key == domain.DefaultMode {
			hasDefault = true
		}
		if key == "" {
			errs = append(errs, &schema.ValidationError{Key: "modes", Reason: "mode name must not be empty"})
			continue
		}
		if _, dup := modes[key]; dup {
			errs = append(errs, &schema.ValidationError{Key: "modes." + key, Reason: "mode defined twice"})
			continue
		}
		if err := cfg.Validate(); err != nil {
			errs = append(errs, schema.ValidationErrors(schema.Prefix("modes."+key, err))...)
			continue
		}
		modes[key] = cfg.Clone()
	}

	if !hasDefault {
		errs = append(errs, fmt.Errorf("%w: %q", domain.ErrMissingDefaultMode, domain.DefaultMode))
	}

	if len(errs) > 0 {
		return nil, &schema.AggregateError{Errors: errs}
	}
	return &Registry{modes: modes}, nil
}

// MustNew is like New but panics on error. Intended for static defaults.
func MustNew(configs map[string]domain.ModeConfig) *Registry {
	r, err := New(configs)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the config of an exact mode name.
func (r *Registry) Get(name string) (domain.ModeConfig, error) {
	cfg, ok := r.modes[normalizeName(name)]
	if !ok {
		return domain.ModeConfig{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, name)
	}
	return cfg.Clone(), nil
}

// Resolve returns the config for name, falling back to "normal" when the name is
// unknown or empty. The second value is the name actually used.
func (r *Registry) Resolve(name string) (domain.ModeConfig, string) {
	key := normalizeName(name)
	if cfg, ok := r.modes[key]; ok {
		return cfg.Clone(), key
	}
	return r.modes[domain.DefaultMode].Clone(), domain.DefaultMode
}

// Names returns every mode name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modes))
	for name := range r.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of the whole registry.
func (r *Registry) All() map[string]domain.ModeConfig {
	out := make(map[string]domain.ModeConfig, len(r.modes))
	for name, cfg := range r.modes {
		out[name] = cfg.Clone()
	}
	return out
}

// IsConfigError reports whether err came from registry validation.
func IsConfigError(err error) bool {
	return schema.ValidationErrors(err) != nil || errors.Is(err, domain.ErrMissingDefaultMode)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
