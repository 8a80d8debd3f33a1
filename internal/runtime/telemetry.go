package runtime

import "github.com/aretw0/wayfinder/pkg/domain"

// Telemetry keys. Per-provider keys are suffixed with the provider name.
const (
	TelemetryCandidatesTotal = "candidates_total"
	TelemetryPoolSize        = "pool_size"
	TelemetryQueryEmbedding  = "query_embedding"
	TelemetryProvidersFailed = "providers_failed"
	TelemetryRouteWindowLen  = "route_window_len"
	TelemetryProviderPrefix  = "provider_"
	TelemetryFetchedPrefix   = "fetched_"
)

// buildTelemetry summarizes a finished decision. It only reads its inputs.
func buildTelemetry(d *domain.TransitionDecision, results []fetchResult, hasQuery bool, windowLen int) map[string]float64 {
	t := map[string]float64{
		TelemetryCandidatesTotal: float64(len(d.Candidates)),
		TelemetryPoolSize:        float64(d.PoolSize),
		TelemetryQueryEmbedding:  0,
		TelemetryProvidersFailed: 0,
		TelemetryRouteWindowLen:  float64(windowLen),
	}
	if hasQuery {
		t[TelemetryQueryEmbedding] = 1
	}

	for _, res := range results {
		if !res.ran {
			continue
		}
		name := res.provider.String()
		t[TelemetryProviderPrefix+name] = 0
		t[TelemetryFetchedPrefix+name] = float64(res.fetched)
		if res.err != nil {
			t[TelemetryProvidersFailed]++
		}
	}
	for _, c := range d.Candidates {
		t[TelemetryProviderPrefix+c.Provider.String()]++
	}
	return t
}
