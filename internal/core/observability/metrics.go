// Package observability exposes the service's Prometheus metric vectors.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	upstreamLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_seconds",
			Help:    "Latency of upstream calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"upstream"},
	)

	gatewayErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_gateway_errors_total",
			Help: "Places gateway failures by error kind.",
		},
		[]string{"kind"},
	)

	fusionResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fusion_cache_results_total",
			Help: "Fusion cache resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	fusionEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fusion_cache_entries",
			Help: "Number of fused entries currently cached.",
		},
	)

	dutyStoreOpSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duty_store_op_seconds",
			Help:    "Latency of duty store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"op", "result"},
	)

	dutyDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duty_lookups_degraded_total",
			Help: "Fusion refreshes that served all-none duty status because the store was unavailable.",
		},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

// Fusion cache outcomes.
const (
	FusionHit        = "hit"
	FusionMiss       = "miss"
	FusionStaleServe = "stale_serve"
	FusionError      = "error"
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveUpstreamLatency(upstream string, durationSeconds float64) {
	upstreamLatencySeconds.WithLabelValues(upstream).Observe(durationSeconds)
}

func IncGatewayError(kind string) {
	gatewayErrorsTotal.WithLabelValues(kind).Inc()
}

func IncFusion(outcome string) {
	fusionResults.WithLabelValues(outcome).Inc()
}

func SetFusionEntries(n int) {
	fusionEntries.Set(float64(n))
}

func ObserveDutyStoreOp(op string, err error, durationSeconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	dutyStoreOpSeconds.WithLabelValues(op, result).Observe(durationSeconds)
}

func IncDutyDegraded() {
	dutyDegradedTotal.Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
