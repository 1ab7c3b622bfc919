package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	filesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "files_submitted_total",
			Help: "Uploads accepted into the ingestion pipeline, per detected kind.",
		},
		[]string{"kind"},
	)

	parsesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parses_finished_total",
			Help: "Parse tasks reaching a terminal state, per kind and outcome.",
		},
		[]string{"kind", "status"},
	)

	parseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parse_duration_seconds",
			Help:    "Wall time of one parse task.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(filesSubmitted, parsesFinished, parseDuration)
}

func IncSubmitted(kind string) {
	filesSubmitted.WithLabelValues(kind).Inc()
}

func ObserveParse(kind, status string, seconds float64) {
	parsesFinished.WithLabelValues(kind, status).Inc()
	parseDuration.WithLabelValues(kind).Observe(seconds)
}
