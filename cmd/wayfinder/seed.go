package main

import (
	"fmt"
	"os"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/spf13/cobra"
)

// demoNode is one node of the generated reading graph.
type demoNode struct {
	id        int64
	author    string
	title     string
	tags      []string
	public    bool
	embedding []float64
	body      string
}

var demoNodes = []demoNode{
	{1, "ana", "Intro to Go", []string{"go", "basics"}, true, []float64{1, 0, 0, 0}, "Types, functions and packages."},
	{2, "ana", "Goroutines", []string{"go", "concurrency"}, true, []float64{0.9, 0.4, 0, 0}, "Lightweight threads managed by the runtime."},
	{3, "bo", "Channels in depth", []string{"go", "concurrency"}, true, []float64{0.7, 0.7, 0.1, 0}, "Buffered, unbuffered and select."},
	{4, "bo", "Python asyncio", []string{"python", "concurrency"}, true, []float64{0.1, 0.9, 0.3, 0}, "Event loops and coroutines."},
	{5, "cy", "Type systems", []string{"theory", "types"}, true, []float64{0.5, 0, 0.8, 0.1}, "Structural versus nominal typing."},
	{6, "cy", "Garden notes", []string{"plants"}, true, nil, "Tomatoes need more sun than you think."},
	{7, "ana", "Unpublished draft", []string{"go", "generics"}, false, []float64{0.8, 0, 0.5, 0}, "Work in progress."},
	{8, "dee", "Rust ownership", []string{"rust", "types"}, true, []float64{0.3, 0.2, 0.9, 0}, "Borrowing rules explained."},
}

var seedCmd = &cobra.Command{
	Use:   "seed <dir>",
	Short: "Generate a demo node repository",
	Long:  `Writes a small reading graph as Markdown nodes with frontmatter, ready for "wayfinder serve --dir <dir>".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedRepository(cmd, args[0])
	},
}

func seedRepository(cmd *cobra.Command, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return err
	}

	// No versioning: this is plain file generation.
	repo, err := loam.Init(targetDir, loam.WithVersioning(false))
	if err != nil {
		return fmt.Errorf("failed to init loam: %w", err)
	}

	ctx := cmd.Context()
	for _, n := range demoNodes {
		meta := core.Metadata{
			"id":        n.id,
			"author_id": n.author,
			"title":     n.title,
			"tags":      n.tags,
			"is_public": n.public,
		}
		if n.embedding != nil {
			meta["embedding"] = n.embedding
		}
		doc := core.Document{
			ID:       fmt.Sprintf("%d.md", n.id),
			Content:  n.body,
			Metadata: meta,
		}
		if err := repo.Save(ctx, doc); err != nil {
			return fmt.Errorf("failed to save node %d: %w", n.id, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d nodes in %s\n", len(demoNodes), targetDir)
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
