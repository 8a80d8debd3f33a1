package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnProviderFetch(ctx, &domain.ProviderEvent{Provider: domain.ProviderCompass, Fetched: 3, Duration: time.Millisecond})
	hooks.OnProviderFetch(ctx, &domain.ProviderEvent{Provider: domain.ProviderEcho, Err: errors.New("down")})
	hooks.OnDecision(ctx, &domain.DecisionEvent{
		Decision: &domain.TransitionDecision{Mode: "normal", Candidates: make([]domain.TransitionCandidate, 2)},
		Duration: 5 * time.Millisecond,
	})
	hooks.OnDecision(ctx, &domain.DecisionEvent{
		Decision: &domain.TransitionDecision{Mode: "normal", EmptyPool: true},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFetches.WithLabelValues("compass", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFetches.WithLabelValues("echo", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("normal", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("normal", "true")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Candidates))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.ObserveCache("hit")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wayfinder_cache_lookups_total{result="hit"} 1`)
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnDecision: func(context.Context, *domain.DecisionEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnDecision:      func(context.Context, *domain.DecisionEvent) { calls = append(calls, "b") },
		OnProviderFetch: func(context.Context, *domain.ProviderEvent) { calls = append(calls, "b-fetch") },
	}

	hooks := observability.Combine(a, domain.LifecycleHooks{}, b)
	hooks.OnDecision(context.Background(), &domain.DecisionEvent{})
	hooks.OnProviderFetch(context.Background(), &domain.ProviderEvent{})
	assert.Equal(t, []string{"a", "b", "b-fetch"}, calls)

	empty := observability.Combine()
	assert.Nil(t, empty.OnDecision)
	assert.Nil(t, empty.OnProviderFetch)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := observability.LogHooks(logging.NewWithWriter(&buf, slog.LevelDebug, logging.FormatText))

	hooks.OnProviderFetch(context.Background(), &domain.ProviderEvent{
		EventBase: domain.EventBase{SessionID: "s-9"},
		Provider:  domain.ProviderRandom,
		Err:       errors.New("timeout"),
	})
	hooks.OnDecision(context.Background(), &domain.DecisionEvent{
		EventBase: domain.EventBase{SessionID: "s-9"},
		Decision:  &domain.TransitionDecision{Mode: "lite"},
	})

	out := buf.String()
	assert.Contains(t, out, "provider=random")
	assert.Contains(t, out, "err=timeout")
	assert.Contains(t, out, "mode=lite")
}
