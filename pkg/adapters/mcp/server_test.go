package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/testutils"
	httpadapter "github.com/aretw0/wayfinder/pkg/adapters/http"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	eng, err := wayfinder.New(memory.NewNodeStore(testutils.SampleNodes()...), wayfinder.WithSeed(3))
	require.NoError(t, err)
	return NewServer(eng, opts...)
}

func TestHandleDecide(t *testing.T) {
	s := newServer(t)

	var args DecideArgs
	require.NoError(t, json.Unmarshal([]byte(`{"session_id":"agent-1","user_id":"reader","origin_node_id":1,"route_window":[2],"ui_slots":2}`), &args))

	resp, err := s.handleDecide(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.QueryID)
	assert.Equal(t, 2, resp.UISlotsRequested)
	assert.False(t, resp.EmptyPool)
	assert.LessOrEqual(t, len(resp.Decision.Candidates), 2)
	for _, c := range resp.Decision.Candidates {
		assert.NotEqual(t, int64(1), c.ID)
		assert.NotEqual(t, int64(6), c.ID)
	}
}

func TestHandleDecide_UserIDTrust(t *testing.T) {
	// Node 6 is a private draft of ana, close to node 1 and by the same author.
	var args DecideArgs
	require.NoError(t, json.Unmarshal([]byte(`{"session_id":"agent-1","user_id":"ana","origin_node_id":1,"ui_slots":5}`), &args))

	ids := func(s *Server) []int64 {
		resp, err := s.handleDecide(context.Background(), mcp.CallToolRequest{}, args)
		require.NoError(t, err)
		out := make([]int64, 0, len(resp.Decision.Candidates))
		for _, c := range resp.Decision.Candidates {
			out = append(out, c.ID)
		}
		return out
	}

	assert.NotContains(t, ids(newServer(t)), int64(6), "a self-declared user_id is ignored by default")
	assert.NotContains(t, ids(newServer(t, WithTrustedUserID(false))), int64(6))
	assert.Contains(t, ids(newServer(t, WithTrustedUserID(true))), int64(6))
}

func TestHandleDecide_Rejected(t *testing.T) {
	s := newServer(t)

	var args DecideArgs
	require.NoError(t, json.Unmarshal([]byte(`{"session_id":"agent-1","route_window":["x"]}`), &args))

	_, err := s.handleDecide(context.Background(), mcp.CallToolRequest{}, args)
	var reqErr *httpadapter.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, httpadapter.CodeRouteWindowInvalid, reqErr.Code)
}

func TestHandleListModes(t *testing.T) {
	s := newServer(t)

	resp, err := s.handleListModes(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(resp.Modes))
	for _, m := range resp.Modes {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, domain.DefaultMode)
}

func TestReadModesResource(t *testing.T) {
	s := newServer(t)

	contents, err := s.readModes(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, modesURI, text.URI)

	var body ModesResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &body))
	assert.NotEmpty(t, body.Modes)
}
