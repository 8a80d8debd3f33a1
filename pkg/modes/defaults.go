package modes

import "github.com/aretw0/wayfinder/pkg/domain"

// Default mode names shipped with the engine.
const (
	ModeNormal   = domain.DefaultMode
	ModeDiscover = "discover"
	ModeFocused  = "focused"
	ModeLite     = "lite"
)

// DefaultConfigs returns the built-in mode table. Callers get a fresh copy.
func DefaultConfigs() map[string]domain.ModeConfig {
	return map[string]domain.ModeConfig{
		ModeNormal: {
			Providers:       []domain.Provider{domain.ProviderCompass, domain.ProviderEcho, domain.ProviderRandom},
			KBase:           6,
			Temperature:     0.6,
			Epsilon:         0.1,
			AuthorThreshold: 0.5,
			TagThreshold:    0.2,
			AllowRandom:     true,
		},
		// Wider sampling for users who want to wander.
		ModeDiscover: {
			Providers:       []domain.Provider{domain.ProviderRandom, domain.ProviderCompass, domain.ProviderEcho},
			KBase:           8,
			Temperature:     1.0,
			Epsilon:         0.3,
			AuthorThreshold: 0.5,
			TagThreshold:    0.1,
			AllowRandom:     true,
		},
		ModeFocused: {
			Providers:       []domain.Provider{domain.ProviderCompass, domain.ProviderEcho},
			KBase:           5,
			Temperature:     0.3,
			Epsilon:         0.05,
			AuthorThreshold: 0.5,
			TagThreshold:    0.3,
			AllowRandom:     false,
		},
		// Cheapest mode: one port call per decision.
		ModeLite: {
			Providers:       []domain.Provider{domain.ProviderEcho},
			KBase:           3,
			Temperature:     0.5,
			Epsilon:         0,
			AuthorThreshold: 0.5,
			TagThreshold:    0.2,
			AllowRandom:     false,
		},
	}
}

// Default returns a registry of the built-in modes.
func Default() *Registry {
	return MustNew(DefaultConfigs())
}
