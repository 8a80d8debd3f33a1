package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. WAYFINDER_REDIS_ADDR.
const EnvPrefix = "WAYFINDER"

// Config holds the settings shared by every command.
// Keys match the flag names so flags, env and the config file resolve the same way.
type Config struct {
	Dir           string        `mapstructure:"dir"`
	ModesFile     string        `mapstructure:"modes"`
	LogLevel      string        `mapstructure:"log-level"`
	LogFormat     string        `mapstructure:"log-format"`
	Seed          uint64        `mapstructure:"seed"`
	FetchTimeout  time.Duration `mapstructure:"fetch-timeout"`
	RedisAddr     string        `mapstructure:"redis-addr"`
	RedisPassword string        `mapstructure:"redis-password"`
	RedisDB       int           `mapstructure:"redis-db"`
	CacheTTL      time.Duration `mapstructure:"cache-ttl"`
	MemoryCache   bool          `mapstructure:"memory-cache"`
	Watch         bool          `mapstructure:"watch"`
}

// InitViper wires env overrides and an optional config file into v.
func InitViper(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
	}
	return nil
}

// LoadConfig decodes the resolved settings.
func LoadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return cfg, nil
}

// Logger builds the process logger from the configured level and format.
func (c Config) Logger() (*slog.Logger, error) {
	name := c.LogLevel
	if name == "" {
		name = "info"
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	format := c.LogFormat
	if format == "" {
		format = logging.FormatText
	}
	return logging.New(level, format), nil
}
