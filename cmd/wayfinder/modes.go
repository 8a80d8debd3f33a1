package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/wayfinder/pkg/modes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "Inspect decision modes",
}

var modesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := modes.Default()
		if path := viper.GetString("modes"); path != "" {
			cfg, err := modes.LoadFile(path)
			if err != nil {
				return err
			}
			reg = cfg.Registry
		}
		return printModes(cmd.OutOrStdout(), reg)
	},
}

var modesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a mode file for errors",
	Long:  `Parses a YAML mode file and reports every invalid provider, threshold or missing mode.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := modes.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mode file is valid: %s\n", strings.Join(cfg.Registry.Names(), ", "))
		return nil
	},
}

func printModes(w io.Writer, reg *modes.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tPROVIDERS\tK\tT\tEPSILON\tTAG\tAUTHOR\tRANDOM")
	all := reg.All()
	for _, name := range reg.Names() {
		cfg := all[name]
		providers := make([]string, len(cfg.Providers))
		for i, p := range cfg.Providers {
			providers[i] = p.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%t\n",
			name, strings.Join(providers, ","), cfg.KBase, cfg.Temperature, cfg.Epsilon,
			cfg.TagThreshold, cfg.AuthorThreshold, cfg.AllowRandom)
	}
	return tw.Flush()
}

func init() {
	modesCmd.AddCommand(modesListCmd, modesValidateCmd)
	rootCmd.AddCommand(modesCmd)
}
