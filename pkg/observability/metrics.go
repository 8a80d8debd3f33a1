package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Decisions       *prometheus.CounterVec
	Candidates      *prometheus.HistogramVec
	DecisionLatency *prometheus.HistogramVec
	ProviderFetches *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	reg.MustRegister(
		m.Decisions,
		m.Candidates,
		m.DecisionLatency,
		m.ProviderFetches,
		m.ProviderLatency,
		m.CacheLookups,
	)
	m.gatherer = reg
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_decisions_total",
				Help: "Total number of transition decisions",
			},
			[]string{"mode", "empty_pool"},
		),
		Candidates: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wayfinder_decision_candidates",
				Help:    "Number of candidates returned per decision",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"mode"},
		),
		DecisionLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "wayfinder_decision_duration_seconds",
				Help: "Duration of decision computations",
			},
			[]string{"mode"},
		),
		ProviderFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_provider_fetches_total",
				Help: "Total number of provider fetches by outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "wayfinder_provider_fetch_duration_seconds",
				Help: "Duration of provider fetches",
			},
			[]string{"provider"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_cache_lookups_total",
				Help: "Decision cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProviderFetch: func(_ context.Context, e *domain.ProviderEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			provider := e.Provider.String()
			m.ProviderFetches.WithLabelValues(provider, outcome).Inc()
			m.ProviderLatency.WithLabelValues(provider).Observe(e.Duration.Seconds())
		},
		OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			d := e.Decision
			m.Decisions.WithLabelValues(d.Mode, strconv.FormatBool(d.EmptyPool)).Inc()
			m.Candidates.WithLabelValues(d.Mode).Observe(float64(len(d.Candidates)))
			m.DecisionLatency.WithLabelValues(d.Mode).Observe(e.Duration.Seconds())
		},
	}
}

// ObserveCache records a cache lookup; result is "hit", "miss" or "error".
func (m *Metrics) ObserveCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
