package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counter for answer submissions
	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Total number of answer submissions",
		},
		[]string{"result"}, // result: correct/incorrect/ignored
	)

	// Gauge for live quiz sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_active_sessions_current",
			Help: "Current number of in-memory quiz sessions",
		},
	)

	// Histogram for fun-facts provider round trips
	FunFactsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_funfacts_request_duration_seconds",
			Help:    "Time spent fetching fun facts from the provider",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"}, // status: success/failure
	)

	// Counter for fun-facts requests that ended in an error
	FunFactsFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_funfacts_failures_total",
			Help: "Total number of failed fun-facts requests",
		},
	)
)
