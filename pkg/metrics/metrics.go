package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeAssigned = "assigned"
	OutcomeExcluded = "excluded"
	OutcomeFallback = "fallback"
)

var (
	// Latency of every HTTP handler, by route template
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Events accepted by the tracking endpoints
	TrackingEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_events_total",
		Help: "Total number of tracking events stored",
	}, []string{"event_type"})

	AssignmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "experiment_assignments_total",
		Help: "Assignment decisions by experiment and outcome (assigned, excluded, fallback)",
	}, []string{"experiment_id", "outcome"})

	ExposuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "experiment_exposures_total",
		Help: "First daily exposures of a user to an experiment variant",
	}, []string{"experiment_id", "variant_id"})

	ConversionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "experiment_conversions_total",
		Help: "Conversions attributed to an experiment variant",
	}, []string{"experiment_id", "variant_id"})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		TrackingEventsTotal,
		AssignmentsTotal,
		ExposuresTotal,
		ConversionsTotal,
	)
}
