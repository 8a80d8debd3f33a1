package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cfgFile is the path of an optional YAML config file.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "wayfinder",
	Short: "Wayfinder proposes where a reader should go next",
	Long: `Wayfinder ranks the next nodes of a content graph from where a reader is and
where they have been, mixing similar content, same-author continuity and exploration.

Settings resolve from flags, then WAYFINDER_* environment variables, then --config.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		if err := cli.InitViper(viper.GetViper(), cfgFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	})

	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	pf.String("dir", ".", "Directory containing the node repository")
	pf.String("modes", "", "YAML mode file (defaults to the built-in modes)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")
	pf.Uint64("seed", 0, "Random seed for reproducible decisions (0 = time based)")
	pf.Duration("fetch-timeout", 0, "Per-provider fetch timeout (0 = engine default)")
	pf.String("redis-addr", "", "Redis address for the decision cache")
	pf.String("redis-password", "", "Redis password")
	pf.Int("redis-db", 0, "Redis database")
	pf.Duration("cache-ttl", 0, "Decision cache TTL (0 = no expiration)")
	pf.Bool("memory-cache", false, "Cache decisions in process memory when no Redis is configured")

	_ = viper.BindPFlags(pf)
}

// loadRuntime resolves the configuration and builds the engine.
func loadRuntime(ctx context.Context) (*cli.Runtime, *slog.Logger, error) {
	cfg, err := cli.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	rt, err := cli.CreateEngine(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return rt, logger, nil
}
