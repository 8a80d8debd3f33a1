package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/wayfinder"
	httpadapter "github.com/aretw0/wayfinder/pkg/adapters/http"
	loamadapter "github.com/aretw0/wayfinder/pkg/adapters/loam"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/modes"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDecision() (domain.TransitionContext, *domain.TransitionDecision) {
	origin := int64(1)
	selected := int64(2)
	tc := domain.NewTransitionContext(domain.ContextParams{SessionID: "cli", OriginNodeID: &origin, RequestedUISlots: 2})
	d := &domain.TransitionDecision{
		Mode: "normal",
		Candidates: []domain.TransitionCandidate{
			{NodeID: 2, Provider: domain.ProviderCompass, Badge: domain.BadgeSimilar, Probability: 1, Explain: "More from the same author."},
		},
		SelectedNodeID: &selected,
		PoolSize:       3,
	}
	return tc, d
}

func TestWriteDecision_JSON(t *testing.T) {
	tc, d := sampleDecision()
	var buf bytes.Buffer
	require.NoError(t, writeDecision(&buf, formatAuto, false, tc, d))

	var resp httpadapter.TransitionResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, tc.CacheSeed, resp.CacheSeed)
	require.Len(t, resp.Decision.Candidates, 1)
	assert.Equal(t, int64(2), resp.Decision.Candidates[0].ID)
}

func TestWriteDecision_MarkdownWithoutTTY(t *testing.T) {
	tc, d := sampleDecision()
	var buf bytes.Buffer
	require.NoError(t, writeDecision(&buf, formatMarkdown, false, tc, d))
	assert.Contains(t, buf.String(), "| 1 | **2** | similar | compass |")
}

func TestWriteDecision_Mermaid(t *testing.T) {
	tc, d := sampleDecision()
	var buf bytes.Buffer
	require.NoError(t, writeDecision(&buf, formatMermaid, true, tc, d))
	assert.True(t, strings.HasPrefix(buf.String(), "graph LR"))
	assert.Contains(t, buf.String(), "class n2 current;")
}

func TestWriteDecision_UnknownFormat(t *testing.T) {
	tc, d := sampleDecision()
	assert.Error(t, writeDecision(&bytes.Buffer{}, "yaml", false, tc, d))
}

func TestPrintModes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printModes(&buf, modes.Default()))

	out := buf.String()
	assert.Contains(t, out, "MODE")
	assert.Contains(t, out, "normal")
	assert.Contains(t, out, "compass,echo,random")
}

func TestSeedRepository(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nodes")
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, seedRepository(cmd, dir))
	assert.Contains(t, out.String(), "Generated 8 nodes")

	loader, err := loamadapter.Open(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, len(demoNodes), loader.Len())

	eng, err := wayfinder.New(loader, wayfinder.WithSeed(1))
	require.NoError(t, err)
	origin := int64(1)
	d, err := eng.Decide(context.Background(), eng.NewContext(domain.ContextParams{SessionID: "seed", OriginNodeID: &origin}))
	require.NoError(t, err)
	assert.False(t, d.EmptyPool)
	for _, c := range d.Candidates {
		assert.NotEqual(t, int64(7), c.NodeID, "the draft is private to its author")
	}
}

func seededDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "nodes")
	seed := &cobra.Command{}
	seed.SetContext(context.Background())
	seed.SetOut(&bytes.Buffer{})
	require.NoError(t, seedRepository(seed, dir))
	return dir
}

func TestValidateCommand(t *testing.T) {
	dir := seededDir(t)

	var out bytes.Buffer
	validateCmd.SetOut(&out)
	validateCmd.SetContext(context.Background())
	require.NoError(t, validateCmd.RunE(validateCmd, []string{dir}))
	assert.Contains(t, out.String(), "warning: node 6: no embedding, compass cannot reach it")
	assert.Contains(t, out.String(), "Repository is valid! 8 nodes")
}

func TestValidateCommand_Collision(t *testing.T) {
	dir := seededDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.md"), []byte("---\nid: 1\nauthor_id: bo\n---\nB\n"), 0644))

	validateCmd.SetOut(&bytes.Buffer{})
	validateCmd.SetContext(context.Background())
	err := validateCmd.RunE(validateCmd, []string{dir})
	assert.ErrorContains(t, err, "collision detected")
}

func TestModesValidateCommand(t *testing.T) {
	good := filepath.Join(t.TempDir(), "modes.yaml")
	require.NoError(t, os.WriteFile(good, []byte("modes:\n  normal:\n    providers: [echo]\n    k_base: 3\n    temperature: 1\n"), 0644))

	var out bytes.Buffer
	modesValidateCmd.SetOut(&out)
	require.NoError(t, modesValidateCmd.RunE(modesValidateCmd, []string{good}))
	assert.Contains(t, out.String(), "Mode file is valid: normal")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("modes:\n  discover:\n    providers: [echo]\n    k_base: 3\n    temperature: 1\n"), 0644))
	assert.Error(t, modesValidateCmd.RunE(modesValidateCmd, []string{bad}))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "wayfinder version "+strings.TrimSpace(wayfinder.Version)+"\n", out.String())
}
