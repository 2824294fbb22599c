package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the entity graph
type Registry struct {
	// Tick Metrics
	TicksTotal            prometheus.Counter
	TickDuration          prometheus.Histogram
	ChangedNodesPerTick   prometheus.Histogram
	TraversedNodesPerTick prometheus.Histogram

	// Request Metrics
	RequestsTotal *prometheus.CounterVec

	// Component Metrics
	ComponentsCreatedTotal   prometheus.Counter
	ComponentsReusedTotal    prometheus.Counter
	ComponentsDestroyedTotal prometheus.Counter
	ComponentsLive           prometheus.Gauge
	MemberNodes              prometheus.Gauge
	Edges                    prometheus.Gauge

	// Diagnostic Metrics
	DiagnosticsTotal *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.Mutex
}

// Request outcomes
const (
	OutcomeApplied = "applied"
	OutcomeNoop    = "noop"
	OutcomeDropped = "dropped"
)

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initTickMetrics()
	r.initComponentMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
