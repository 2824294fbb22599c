package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTickMetrics() {
	r.TicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "entitygraph_ticks_total",
			Help: "Total number of processed ticks",
		},
	)

	r.TickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "entitygraph_tick_duration_seconds",
			Help:    "Time spent applying edge mutations and recomputing components in one tick",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	r.ChangedNodesPerTick = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "entitygraph_changed_nodes_per_tick",
			Help:    "Distinct nodes whose adjacency changed in a tick",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	r.TraversedNodesPerTick = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "entitygraph_traversed_nodes_per_tick",
			Help:    "Nodes visited by component recomputation in a tick",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	r.RequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitygraph_requests_total",
			Help: "Edge mutation requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	r.DiagnosticsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitygraph_diagnostics_total",
			Help: "Non-fatal diagnostics by kind",
		},
		[]string{"kind"},
	)
}
