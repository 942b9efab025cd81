// Package metrics provides Prometheus metrics for the HTTP surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "burphub",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route and status code.",
	}, []string{"route", "code"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "burphub",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// RateLimiterAddresses reports how many client addresses the limiter tracks.
	// The map is never pruned, so this only grows.
	RateLimiterAddresses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "burphub",
		Subsystem: "ratelimit",
		Name:      "tracked_addresses",
		Help:      "Number of client addresses held by the sync rate limiter.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RateLimiterAddresses,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
