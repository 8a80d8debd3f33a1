package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/logging"
	httpadapter "github.com/aretw0/wayfinder/pkg/adapters/http"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/modes"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const modesURI = "wayfinder://modes"

// DecideArgs are the arguments of the decide_next tool.
// Agents act on behalf of user_id; there is no header to carry it. The id is
// self-declared, so it is only honored on a server built WithTrustedUserID.
type DecideArgs struct {
	httpadapter.RawTransitionRequest
	UserID string `json:"user_id"`
}

// ModesResponse is the output of the list_modes tool.
type ModesResponse struct {
	Modes []httpadapter.ModeView `json:"modes" jsonschema_description:"Every configured mode with its tunables"`
}

// Engine defines what the MCP server needs from the decision engine.
type Engine interface {
	NewContext(p domain.ContextParams) domain.TransitionContext
	Decide(ctx context.Context, tc domain.TransitionContext) (*domain.TransitionDecision, error)
	Modes() *modes.Registry
}

// Server wraps the Wayfinder Engine and exposes it as an MCP Server.
type Server struct {
	engine      Engine
	logger      *slog.Logger
	mcpServer   *server.MCPServer
	trustUserID bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTrustedUserID makes decide_next act on the caller supplied user_id, so the
// caller's private nodes can surface. Enable it only when the transport is as
// trusted as the reader, e.g. stdio under the reader's own agent host. Otherwise
// user_id is ignored and only public nodes are served.
func WithTrustedUserID(trusted bool) Option {
	return func(s *Server) {
		s.trustUserID = trusted
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("wayfinder-mcp", strings.TrimSpace(wayfinder.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	decideTool := mcp.NewTool("decide_next",
		mcp.WithDescription("Propose the next nodes to visit from where the reader is, ranked with probabilities and explanations."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Reading session identifier")),
		mcp.WithString("user_id", mcp.Description("Reader the decision is made for. Private nodes only surface to their author, and only when the server trusts this transport; otherwise it is ignored.")),
		mcp.WithNumber("origin_node_id", mcp.Description("Node the reader is currently on (optional)")),
		mcp.WithArray("route_window", mcp.Description("Recently visited node ids, most recent first"), mcp.Items(map[string]any{"type": "integer"})),
		mcp.WithString("mode", mcp.Description("Mode name, e.g. normal, discover, focused or lite")),
		mcp.WithNumber("ui_slots", mcp.Description("Maximum number of candidates to return")),
		mcp.WithString("limit_state", mcp.Description("Caller quota state, echoed back")),
		mcp.WithArray("requested_provider_overrides", mcp.Description("Subset of compass, echo and random to run"), mcp.WithStringItems()),
		mcp.WithBoolean("emergency", mcp.Description("Bypass the decision cache")),
		mcp.WithOutputSchema[httpadapter.TransitionResponse](),
	)
	s.mcpServer.AddTool(decideTool, mcp.NewStructuredToolHandler(s.handleDecide))

	modesTool := mcp.NewTool("list_modes",
		mcp.WithDescription("List the configured decision modes."),
		mcp.WithOutputSchema[ModesResponse](),
	)
	s.mcpServer.AddTool(modesTool, mcp.NewStructuredToolHandler(s.handleListModes))
}

func (s *Server) handleDecide(ctx context.Context, request mcp.CallToolRequest, args DecideArgs) (httpadapter.TransitionResponse, error) {
	userID := strings.TrimSpace(args.UserID)
	if !s.trustUserID && userID != "" {
		s.logger.Debug("user_id ignored on an untrusted transport", "session_id", args.SessionID)
		userID = ""
	}
	req, err := args.Normalize(userID)
	if err != nil {
		s.logger.Warn("decide_next rejected", "err", err)
		return httpadapter.TransitionResponse{}, err
	}

	tc := s.engine.NewContext(req.Params())
	decision, err := s.engine.Decide(ctx, tc)
	if err != nil {
		return httpadapter.TransitionResponse{}, fmt.Errorf("decide failed: %w", err)
	}
	return httpadapter.NewTransitionResponse(uuid.NewString(), tc, decision), nil
}

func (s *Server) handleListModes(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ModesResponse, error) {
	return ModesResponse{Modes: s.modeViews()}, nil
}

func (s *Server) modeViews() []httpadapter.ModeView {
	reg := s.engine.Modes()
	all := reg.All()
	out := make([]httpadapter.ModeView, 0, len(all))
	for _, name := range reg.Names() {
		out = append(out, httpadapter.ModeView{Name: name, ModeConfig: all[name]})
	}
	return out
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(modesURI, "Decision Modes",
		mcp.WithMIMEType("application/json"),
	), s.readModes)
}

func (s *Server) readModes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(ModesResponse{Modes: s.modeViews()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode modes: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      modesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
