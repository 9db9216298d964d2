package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	SourceRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "market_source_requests_total", Help: "Upstream requests by source, endpoint and outcome"},
		[]string{"source", "endpoint", "outcome"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "market_cache_lookups_total", Help: "Fallback cache lookups"},
		[]string{"result"},
	)
	FetchCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "market_fetch_cycles_total", Help: "Pipeline cycles by source used"},
		[]string{"source_used"},
	)
	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "market_fetch_duration_seconds", Help: "Pipeline cycle duration", Buckets: prometheus.DefBuckets},
	)
	Completeness = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "market_data_completeness_percent", Help: "Optional-field completeness of the last snapshot"},
	)
)

// Request outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeLimit = "rate_limited"
)

func init() {
	prometheus.MustRegister(SourceRequests, CacheLookups, FetchCycles, FetchDuration, Completeness)
}

// ObserveRequest counts one upstream request.
func ObserveRequest(source, endpoint string, ok bool) {
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeError
	}
	SourceRequests.WithLabelValues(source, endpoint, outcome).Inc()
}

// Serve exposes /metrics on addr in the background. Listen failures are
// logged; Close the returned server to stop it.
func Serve(addr string, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	return srv
}
