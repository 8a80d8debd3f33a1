package modes_test

import (
	"strings"
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/modes"
	"github.com/aretw0/wayfinder/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg := modes.Default()
	assert.Equal(t, []string{"discover", "focused", "lite", "normal"}, reg.Names())

	for _, name := range reg.Names() {
		cfg, err := reg.Get(name)
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate(), name)
	}
}

func TestResolve_FallsBackToNormal(t *testing.T) {
	reg := modes.Default()

	cfg, name := reg.Resolve("does-not-exist")
	assert.Equal(t, domain.DefaultMode, name)
	normal, _ := reg.Get(domain.DefaultMode)
	assert.Equal(t, normal, cfg)

	_, name = reg.Resolve("")
	assert.Equal(t, domain.DefaultMode, name)

	_, name = reg.Resolve("  Discover ")
	assert.Equal(t, "discover", name)
}

func TestGet_Unknown(t *testing.T) {
	_, err := modes.Default().Get("nope")
	assert.ErrorIs(t, err, domain.ErrUnknownMode)
}

func TestNew_RequiresNormal(t *testing.T) {
	_, err := modes.New(map[string]domain.ModeConfig{
		"other": modes.DefaultConfigs()[modes.ModeLite],
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingDefaultMode)
	assert.True(t, modes.IsConfigError(err))
}

func TestNew_RejectsInvalidConfigs(t *testing.T) {
	bad := domain.ModeConfig{
		Providers:   []domain.Provider{domain.ProviderCompass, domain.Provider(9)},
		KBase:       0,
		Temperature: 0.5,
		Epsilon:     1.5,
	}
	_, err := modes.New(map[string]domain.ModeConfig{
		domain.DefaultMode: bad,
	})
	require.Error(t, err)

	errs := schema.ValidationErrors(err)
	keys := make([]string, 0, len(errs))
	for _, e := range errs {
		var ve *schema.ValidationError
		if assert.ErrorAs(t, e, &ve) {
			keys = append(keys, ve.Key)
		}
	}
	assert.Contains(t, keys, "modes.normal.providers[1]")
	assert.Contains(t, keys, "modes.normal.k_base")
	assert.Contains(t, keys, "modes.normal.epsilon")
}

func TestRegistry_IsImmutable(t *testing.T) {
	configs := modes.DefaultConfigs()
	reg, err := modes.New(configs)
	require.NoError(t, err)

	// Mutating the input map and returned values must not leak into the registry.
	configs[domain.DefaultMode].Providers[0] = domain.ProviderRandom
	got, _ := reg.Get(domain.DefaultMode)
	assert.Equal(t, domain.ProviderCompass, got.Providers[0])

	got.Providers[0] = domain.ProviderEcho
	again, _ := reg.Get(domain.DefaultMode)
	assert.Equal(t, domain.ProviderCompass, again.Providers[0])
}

func TestLoad(t *testing.T) {
	t.Run("Full File", func(t *testing.T) {
		src := `
weights:
  similarity: 2
  echo: 0.9
modes:
  normal:
    providers: [" Compass ", ECHO]
    k_base: 4
    temperature: 0.4
    epsilon: 0.2
    author_threshold: 0.5
    tag_threshold: 0.25
  explore:
    providers: [random]
    k_base: 3
    temperature: 1
`
		cfg, err := modes.Load(strings.NewReader(src))
		require.NoError(t, err)

		assert.Equal(t, 2.0, cfg.Weights.Similarity)
		assert.Equal(t, 0.9, cfg.Weights.Echo)
		assert.Equal(t, 0.5, cfg.Weights.TagSim, "unset weights keep defaults")

		normal, err := cfg.Registry.Get("normal")
		require.NoError(t, err)
		assert.Equal(t, []domain.Provider{domain.ProviderCompass, domain.ProviderEcho}, normal.Providers)
		assert.Equal(t, 4, normal.KBase)
		assert.False(t, normal.AllowRandom)

		explore, err := cfg.Registry.Get("explore")
		require.NoError(t, err)
		assert.True(t, explore.AllowRandom, "allow_random defaults on when random is listed")
	})

	t.Run("Weights Only", func(t *testing.T) {
		cfg, err := modes.Load(strings.NewReader("weights:\n  baseline: 0.3\n"))
		require.NoError(t, err)
		assert.Equal(t, 0.3, cfg.Weights.Baseline)
		assert.Equal(t, modes.Default().Names(), cfg.Registry.Names())
	})

	t.Run("Empty File", func(t *testing.T) {
		cfg, err := modes.Load(strings.NewReader(""))
		require.NoError(t, err)
		assert.NotNil(t, cfg.Registry)
	})

	t.Run("Unknown Provider Fails Fast", func(t *testing.T) {
		src := "modes:\n  normal:\n    providers: [compass, oracle]\n    k_base: 3\n    temperature: 1\n"
		_, err := modes.Load(strings.NewReader(src))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "modes.normal.providers[1]")
	})

	t.Run("Non Finite Numbers", func(t *testing.T) {
		src := "modes:\n  normal:\n    providers: [compass]\n    k_base: 3\n    temperature: .nan\n    epsilon: .inf\n"
		_, err := modes.Load(strings.NewReader(src))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "temperature")
		assert.Contains(t, err.Error(), "epsilon")
	})

	t.Run("Unknown Key", func(t *testing.T) {
		_, err := modes.Load(strings.NewReader("modes:\n  normal:\n    k_bsae: 3\n"))
		assert.Error(t, err)
	})
}
