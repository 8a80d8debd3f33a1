package testutils

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	tmpDir := t.TempDir()

	// Loam sometimes prefers absolute paths, though t.TempDir usually returns one.
	// Ensuring it is absolute is safe.
	absPath, err := filepath.Abs(tmpDir)
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// NodeMarkdown renders a snapshot as a Markdown document with YAML frontmatter,
// the layout the Loam adapter reads.
func NodeMarkdown(n domain.NodeSnapshot) string {
	meta := map[string]any{
		"id":        n.ID,
		"author_id": n.AuthorID,
		"title":     n.Title,
		"is_public": n.IsPublic,
	}
	if len(n.Tags) > 0 {
		meta["tags"] = n.Tags
	}
	if len(n.Embedding) > 0 {
		meta["embedding"] = n.Embedding
	}
	// Marshalling a map of plain values cannot fail.
	front, _ := yaml.Marshal(meta)
	return "---\n" + string(front) + "---\n" + n.Title + "\n"
}

// SampleNodes returns a small connected graph of reading nodes: two authors writing
// about overlapping topics, one private draft and one node without an embedding.
func SampleNodes() []domain.NodeSnapshot {
	return []domain.NodeSnapshot{
		{ID: 1, AuthorID: "ana", Title: "Intro to Go", Tags: []string{"go", "basics"}, IsPublic: true, Embedding: []float64{1, 0, 0}},
		{ID: 2, AuthorID: "ana", Title: "Goroutines", Tags: []string{"go", "concurrency"}, IsPublic: true, Embedding: []float64{0.9, 0.3, 0}},
		{ID: 3, AuthorID: "bo", Title: "Channels in depth", Tags: []string{"go", "concurrency"}, IsPublic: true, Embedding: []float64{0.7, 0.6, 0.1}},
		{ID: 4, AuthorID: "bo", Title: "Python asyncio", Tags: []string{"python", "concurrency"}, IsPublic: true, Embedding: []float64{0.1, 0.9, 0.2}},
		{ID: 5, AuthorID: "cy", Title: "Garden notes", Tags: []string{"plants"}, IsPublic: true},
		{ID: 6, AuthorID: "ana", Title: "Unpublished draft", Tags: []string{"go"}, IsPublic: false, Embedding: []float64{1, 0.1, 0}},
	}
}
