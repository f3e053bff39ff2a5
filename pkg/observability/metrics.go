// Package observability provides Prometheus metrics and middleware for
// monitoring the alloyrpc service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SolveBuckets defines histogram buckets suited for SAT solve latencies,
// ranging from 10ms to 10 minutes.
var SolveBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alloyrpc_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alloyrpc_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: SolveBuckets,
		},
		[]string{"method"},
	)

	// SolvesTotal counts Solve calls by backend and outcome. The outcome is
	// sat, unsat, rejected for in-band errors, or the api error type.
	SolvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alloyrpc_solves_total",
			Help: "Solve requests",
		},
		[]string{"backend", "outcome"},
	)

	// SolveDuration records the wall time of Solve calls in seconds.
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alloyrpc_solve_duration_seconds",
			Help:    "Solve latency",
			Buckets: SolveBuckets,
		},
		[]string{"backend"},
	)

	// EngineSolvingSeconds records the engine-reported solving time.
	EngineSolvingSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alloyrpc_engine_solving_seconds",
			Help:    "Engine solving time reported in response metadata",
			Buckets: SolveBuckets,
		},
		[]string{"backend"},
	)

	// ActiveSolves tracks the number of Solve calls in flight.
	ActiveSolves = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "alloyrpc_solves_active",
			Help: "Active solve requests",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		SolvesTotal,
		SolveDuration,
		EngineSolvingSeconds,
		ActiveSolves,
	)
}

// Handler returns the Prometheus scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
