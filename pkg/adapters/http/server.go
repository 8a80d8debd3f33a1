package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/modes"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultUserHeader carries the authenticated subject set by the gateway.
const DefaultUserHeader = "X-User-Id"

// maxBodyBytes bounds a transition request body.
const maxBodyBytes = 1 << 20

// Engine defines what the handler needs from the decision engine.
type Engine interface {
	NewContext(p domain.ContextParams) domain.TransitionContext
	Decide(ctx context.Context, tc domain.TransitionContext) (*domain.TransitionDecision, error)
	Modes() *modes.Registry
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves the transition API over an Engine.
type Server struct {
	Engine     Engine
	logger     *slog.Logger
	metrics    http.Handler
	userHeader string
	newQueryID func() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithUserHeader changes the header holding the authenticated subject.
func WithUserHeader(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.userHeader = name
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:     engine,
		logger:     logging.NewNop(),
		userHeader: DefaultUserHeader,
		newQueryID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/swagger", s.GetSwaggerUI)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/modes", s.ListModes)
		r.With(s.requireUser).Post("/transitions/next", s.NextTransition)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+DefaultUserHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

// requireUser rejects requests without an authenticated subject.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimSpace(r.Header.Get(s.userHeader))
		if user == "" {
			writeError(w, http.StatusUnauthorized, requestErrorf(CodeUnauthorized, "missing %s header", s.userHeader))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

// NextTransition handles POST /v1/transitions/next.
func (s *Server) NextTransition(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value(userKey{}).(string)

	req, err := DecodeTransitionRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes), user)
	if err != nil {
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			reqErr = requestErrorf(CodeInvalidBody, "%v", err)
		}
		s.logger.Warn("transition request rejected", "code", reqErr.Code, "err", reqErr.Message)
		writeError(w, http.StatusBadRequest, reqErr)
		return
	}

	tc := s.Engine.NewContext(req.Params())
	decision, err := s.Engine.Decide(r.Context(), tc)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidContext) {
			writeError(w, http.StatusBadRequest, requestErrorf(CodeFieldInvalid, "%v", err))
			return
		}
		s.logger.Error("decide failed", "session_id", tc.SessionID, "err", err)
		writeError(w, http.StatusInternalServerError, requestErrorf(CodeInternal, "decision failed"))
		return
	}

	resp := NewTransitionResponse(s.newQueryID(), tc, decision)
	s.logger.Debug("transition served",
		"query_id", resp.QueryID,
		"session_id", tc.SessionID,
		"mode", resp.Mode,
		"candidates", len(resp.Decision.Candidates),
		"empty_pool", resp.EmptyPool,
		"served_from_cache", resp.ServedFromCache,
	)
	writeJSON(w, http.StatusOK, resp)
}

// ModeView is one entry of GET /v1/modes.
type ModeView struct {
	Name string `json:"name"`
	domain.ModeConfig
}

// ListModes handles GET /v1/modes.
func (s *Server) ListModes(w http.ResponseWriter, r *http.Request) {
	reg := s.Engine.Modes()
	all := reg.All()
	out := make([]ModeView, 0, len(all))
	for _, name := range reg.Names() {
		out = append(out, ModeView{Name: name, ModeConfig: all[name]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"modes": out})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "wayfinder-http",
		"version":     strings.TrimSpace(wayfinder.Version),
		"api_version": apiVersion(),
	})
}

// SubscribeEvents handles GET /events, streaming node store reloads as SSE.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, err := s.Engine.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusNotImplemented)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}
