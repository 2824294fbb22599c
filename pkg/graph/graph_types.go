package graph

import (
	"errors"
	"time"

	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/events"
	"github.com/dd0wney/entitygraph/pkg/logging"
	"github.com/dd0wney/entitygraph/pkg/metrics"
	"github.com/dd0wney/entitygraph/pkg/pubsub"
)

// TopicTick is the feed topic every TickReport is published on
const TopicTick = "tick"

// DefaultQueueCapacity is the initial capacity of each request queue
const DefaultQueueCapacity = 64

// Request kinds, used as the metrics label
const (
	RequestConnect    = "connect"
	RequestDisconnect = "disconnect"
)

// Config holds graph configuration. Zero values select defaults.
type Config struct {
	QueueCapacity int
	Logger        logging.Logger
	Metrics       *metrics.Registry         // nil disables metrics
	Feed          *pubsub.Feed[*TickReport] // nil disables publishing
}

// TickReport summarizes one tick
type TickReport struct {
	Tick  uint64
	RunID string

	// Request outcomes
	Applied int
	Noop    int
	Dropped int

	// Recomputation
	Changed     []entity.Entity
	Roots       int
	Traversed   int
	Isolated    []entity.Entity
	Created     []entity.Entity
	Reused      []entity.Entity
	Destroyed   []entity.Entity
	Diagnostics []events.Diagnostic

	// State after the tick
	Components int
	Members    int
	Edges      int

	Duration time.Duration
}

// Err joins the tick's diagnostics into one error, or returns nil.
// Missing nodes match ErrNodeNotFound, stale references ErrStaleReference.
func (r *TickReport) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = diagnosticError(d)
	}
	return errors.Join(errs...)
}

// ComponentView is one component in a Snapshot
type ComponentView struct {
	ID      entity.Entity
	Members []entity.Entity
}

// Snapshot is a point-in-time copy of the graph and its partition.
// It shares nothing with the live graph.
type Snapshot struct {
	Tick       uint64
	Components []ComponentView    // ordered by ID
	Isolated   []entity.Entity    // live nodes without membership, ordered
	Edges      [][2]entity.Entity // each undirected edge once, A <= B
	Labels     map[entity.Entity]string
}

// Label returns the display name of e
func (s *Snapshot) Label(e entity.Entity) string {
	if name, ok := s.Labels[e]; ok {
		return name
	}
	return e.String()
}

// ComponentOf returns the component containing n
func (s *Snapshot) ComponentOf(n entity.Entity) (ComponentView, bool) {
	for _, c := range s.Components {
		for _, m := range c.Members {
			if m == n {
				return c, true
			}
		}
	}
	return ComponentView{}, false
}
