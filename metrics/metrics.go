// Package metrics provides Prometheus metrics collection for the drug scan
// API. Besides the usual HTTP request metrics it tracks resolution outcomes
// (local match, fallback enrichment, no data) and the fate of the two
// best-effort fallback queries.
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	ResolutionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolution_total",
			Help: "Completed payload resolutions by enrichment source",
		},
		[]string{"source"}, // local, fallback, none
	)

	FallbackRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_request_total",
			Help: "External fallback queries by type and outcome",
		},
		[]string{"query", "outcome"}, // query: label|event, outcome: ok|error
	)

	HighDoseReportTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "high_dose_report_total",
			Help: "Submitted reports flagged as exceeding the configured maximum dose",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(ResolutionTotal)
	prometheus.MustRegister(FallbackRequestTotal)
	prometheus.MustRegister(HighDoseReportTotal)
}
