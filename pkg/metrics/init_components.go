package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initComponentMetrics() {
	r.ComponentsCreatedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "entitygraph_components_created_total",
			Help: "Component identities allocated by the maintainer",
		},
	)

	r.ComponentsReusedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "entitygraph_components_reused_total",
			Help: "Recomputed components that kept a previous identity",
		},
	)

	r.ComponentsDestroyedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "entitygraph_components_destroyed_total",
			Help: "Component identities destroyed after losing every member",
		},
	)

	r.ComponentsLive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "entitygraph_components",
			Help: "Connected components currently tracked",
		},
	)

	r.MemberNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "entitygraph_member_nodes",
			Help: "Nodes that belong to a connected component",
		},
	)

	r.Edges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "entitygraph_edges",
			Help: "Undirected edges in the adjacency store",
		},
	)
}
