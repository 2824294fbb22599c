package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TickSample is what one tick contributes to the registry
type TickSample struct {
	Duration   time.Duration
	Changed    int
	Traversed  int
	Created    int
	Reused     int
	Destroyed  int
	Components int
	Members    int
	Edges      int
}

// RecordTick records the outcome of one tick
func (r *Registry) RecordTick(s TickSample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.TicksTotal.Inc()
	r.TickDuration.Observe(s.Duration.Seconds())
	r.ChangedNodesPerTick.Observe(float64(s.Changed))
	r.TraversedNodesPerTick.Observe(float64(s.Traversed))
	r.ComponentsCreatedTotal.Add(float64(s.Created))
	r.ComponentsReusedTotal.Add(float64(s.Reused))
	r.ComponentsDestroyedTotal.Add(float64(s.Destroyed))
	r.ComponentsLive.Set(float64(s.Components))
	r.MemberNodes.Set(float64(s.Members))
	r.Edges.Set(float64(s.Edges))
}

// RecordRequest records one connect/disconnect request outcome
func (r *Registry) RecordRequest(kind, outcome string) {
	r.RequestsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordDiagnostic records one non-fatal diagnostic
func (r *Registry) RecordDiagnostic(kind string) {
	r.DiagnosticsTotal.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
