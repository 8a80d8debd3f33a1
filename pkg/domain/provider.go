package domain

import (
	"fmt"
	"strings"
)

// Provider identifies a candidate-generation strategy.
// The set is closed: unknown names are rejected when configuration is loaded.
type Provider uint8

const (
	// ProviderCompass ranks nodes by embedding similarity to the query vector.
	ProviderCompass Provider = iota + 1
	// ProviderEcho follows authorship and topical continuity from the origin node.
	ProviderEcho
	// ProviderRandom samples nodes for exploration diversity.
	ProviderRandom
)

// Providers lists every known provider in canonical order.
var Providers = []Provider{ProviderCompass, ProviderEcho, ProviderRandom}

var providerNames = map[Provider]string{
	ProviderCompass: "compass",
	ProviderEcho:    "echo",
	ProviderRandom:  "random",
}

// String returns the wire name of the provider.
func (p Provider) String() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return fmt.Sprintf("provider(%d)", uint8(p))
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	_, ok := providerNames[p]
	return ok
}

// ParseProvider resolves a provider name. Matching ignores case and surrounding whitespace.
func ParseProvider(name string) (Provider, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	for p, n := range providerNames {
		if n == clean {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Provider) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProvider, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Provider) UnmarshalText(text []byte) error {
	parsed, err := ParseProvider(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// NormalizeProviderNames trims, lower-cases and de-duplicates a caller-supplied
// provider list, silently dropping unknown names. Order of first appearance is kept.
func NormalizeProviderNames(names []string) []Provider {
	out := make([]Provider, 0, len(names))
	seen := make(map[Provider]bool, len(names))
	for _, name := range names {
		p, err := ParseProvider(name)
		if err != nil || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
