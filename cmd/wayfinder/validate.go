package main

import (
	"fmt"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/validator"
	loamadapter "github.com/aretw0/wayfinder/pkg/adapters/loam"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check a node repository for errors",
	Long: `Loads every node in a Loam repository and reports id collisions, missing authors
and embeddings the providers cannot use.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		loader, err := loamadapter.Open(cmd.Context(), dir, loamadapter.WithLogger(logging.NewNop()))
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		report := validator.ValidateNodes(loader.Snapshots())
		out := cmd.OutOrStdout()
		for _, w := range report.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintf(out, "Repository is valid! %d nodes ✅\n", loader.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
