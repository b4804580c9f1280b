// Package metrics holds the Prometheus collectors raychel exports on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raychel_resolutions_total",
		Help: "Questions resolved, by routing rule, tool and category",
	}, []string{"rule", "tool", "category"})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raychel_provider_failures_total",
		Help: "Failed collaborator calls, by provider and failure reason",
	}, []string{"provider", "reason"})

	resolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "raychel_resolution_duration_seconds",
		Help:    "Wall time spent resolving one question",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"tool"})
)

// ObserveResolution records one finished resolution
func ObserveResolution(rule, tool, category string, elapsed time.Duration) {
	resolutions.WithLabelValues(rule, tool, category).Inc()
	resolutionDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ProviderFailure records one failed weather, search or model call
func ProviderFailure(provider, reason string) {
	providerFailures.WithLabelValues(provider, reason).Inc()
}
