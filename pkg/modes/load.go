package modes

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/schema"
	"github.com/aretw0/wayfinder/pkg/scoring"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the result of loading a mode file: the registry plus scoring weights.
type Config struct {
	Registry *Registry
	Weights  scoring.Weights
}

// fileMode mirrors one entry under "modes:" in a mode file.
type fileMode struct {
	Providers       []string `mapstructure:"providers"`
	KBase           int      `mapstructure:"k_base"`
	Temperature     float64  `mapstructure:"temperature"`
	Epsilon         float64  `mapstructure:"epsilon"`
	AuthorThreshold float64  `mapstructure:"author_threshold"`
	TagThreshold    float64  `mapstructure:"tag_threshold"`

	// AllowRandom defaults to true when the random provider is listed.
	AllowRandom *bool `mapstructure:"allow_random"`
}

type fileConfig struct {
	Weights scoring.Weights     `mapstructure:"weights"`
	Modes   map[string]fileMode `mapstructure:"modes"`
}

// LoadFile reads a YAML mode file from disk.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mode file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML mode file of the form:
//
//	weights:
//	  similarity: 1.0
//	  tag_sim: 0.5
//	modes:
//	  normal:
//	    providers: [compass, echo, random]
//	    k_base: 6
//	    temperature: 0.6
//	    epsilon: 0.1
//
// Missing weights keep their defaults. A file without a "modes" section yields the
// built-in modes. Unknown providers and unknown keys are rejected.
func Load(r io.Reader) (*Config, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse mode file: %w", err)
	}

	cfg := fileConfig{Weights: scoring.DefaultWeights()}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode mode file: %w", err)
	}

	if len(cfg.Modes) == 0 {
		return &Config{Registry: Default(), Weights: cfg.Weights}, nil
	}

	configs := make(map[string]domain.ModeConfig, len(cfg.Modes))
	var errs []error
	for name, fm := range cfg.Modes {
		mc, err := fm.toModeConfig()
		if err != nil {
			errs = append(errs, schema.ValidationErrors(schema.Prefix("modes."+name, err))...)
			continue
		}
		configs[name] = mc
	}
	if len(errs) > 0 {
		return nil, &schema.AggregateError{Errors: errs}
	}

	reg, err := New(configs)
	if err != nil {
		return nil, err
	}
	return &Config{Registry: reg, Weights: cfg.Weights}, nil
}

func (fm fileMode) toModeConfig() (domain.ModeConfig, error) {
	providers := make([]domain.Provider, 0, len(fm.Providers))
	var errs []error
	for i, name := range fm.Providers {
		p, err := domain.ParseProvider(name)
		if err != nil {
			errs = append(errs, &schema.ValidationError{
				Key:    fmt.Sprintf("providers[%d]", i),
				Reason: domain.ErrUnknownProvider.Error(),
				Value:  name,
			})
			continue
		}
		providers = append(providers, p)
	}
	if len(errs) > 0 {
		return domain.ModeConfig{}, &schema.AggregateError{Errors: errs}
	}

	allowRandom := slices.Contains(providers, domain.ProviderRandom)
	if fm.AllowRandom != nil {
		allowRandom = *fm.AllowRandom
	}

	return domain.ModeConfig{
		Providers:       providers,
		KBase:           fm.KBase,
		Temperature:     fm.Temperature,
		Epsilon:         fm.Epsilon,
		AuthorThreshold: fm.AuthorThreshold,
		TagThreshold:    fm.TagThreshold,
		AllowRandom:     allowRandom,
	}, nil
}
