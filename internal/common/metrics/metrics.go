// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScreeningsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenings_completed_total",
			Help: "Total number of screenings completed per condition",
		},
		[]string{"condition", "risk_level"},
	)

	ScreeningsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenings_failed_total",
			Help: "Total number of screenings failed per condition",
		},
		[]string{"condition", "error_code"},
	)

	ScreeningDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "screening_duration_seconds",
			Help: "Duration of screening processing in seconds",
		},
		[]string{"condition"},
	)

	UpstreamInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upstream_requests_in_flight",
			Help: "Number of in-flight requests to inference services",
		},
		[]string{"condition"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_cache_hits_total",
			Help: "Prediction cache hits per condition",
		},
		[]string{"condition"},
	)
)
