// Package metrics defines the Prometheus instruments for the agent loop,
// the model transport, and corpus retrieval, plus the HTTP middleware.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Agent and retrieval Prometheus metrics.
var (
	AgentRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reagent",
			Name:      "agent_runs_total",
			Help:      "Total agent runs by terminal outcome",
		},
		[]string{"outcome"}, // "finish" / "max_steps" / "model_error"
	)

	AgentStepsPerRun = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reagent",
			Name:      "agent_steps_per_run",
			Help:      "Trajectory length at run termination",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 12},
		},
	)

	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reagent",
			Name:      "model_requests_total",
			Help:      "Total language model completion requests",
		},
		[]string{"model", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reagent",
			Name:      "model_request_duration_seconds",
			Help:      "Language model completion duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	SearchRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reagent",
			Name:      "search_requests_total",
			Help:      "Total corpus search calls",
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reagent",
			Name:      "search_duration_seconds",
			Help:      "Corpus search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

// RegisterAgentMetrics registers the agent, model, and search instruments.
// Called explicitly from the composition root (no init()).
func RegisterAgentMetrics() {
	prometheus.MustRegister(
		AgentRunsTotal,
		AgentStepsPerRun,
		ModelRequestsTotal,
		ModelRequestDuration,
		SearchRequestsTotal,
		SearchDuration,
	)
}
