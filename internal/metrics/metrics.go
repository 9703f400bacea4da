package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Pipeline metrics
	cacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_cache_hits_total",
			Help: "Total number of cache hits in the retrieval pipeline",
		},
	)

	cacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_cache_misses_total",
			Help: "Total number of cache misses in the retrieval pipeline",
		},
	)

	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_provider_requests_total",
			Help: "Total number of outbound provider requests by outcome",
		},
		[]string{"outcome"},
	)

	coalescedWaitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_coalesced_waits_total",
			Help: "Total number of requests that waited on a shared in-flight fetch",
		},
	)
)

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, endpoint, s).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, s).Observe(duration.Seconds())
}

// RecordCacheHit counts a cache hit.
func RecordCacheHit() { cacheHitsTotal.Inc() }

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss() { cacheMissesTotal.Inc() }

// RecordProviderRequest counts an outbound provider call. outcome is either
// "success" or the taxonomy kind of the failure.
func RecordProviderRequest(outcome string) {
	providerRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordCoalescedWait counts a request that shared another caller's fetch.
func RecordCoalescedWait() { coalescedWaitsTotal.Inc() }

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
