package graph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dd0wney/entitygraph/pkg/components"
	"github.com/dd0wney/entitygraph/pkg/connections"
	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/events"
	"github.com/dd0wney/entitygraph/pkg/logging"
	"github.com/dd0wney/entitygraph/pkg/membership"
	"github.com/dd0wney/entitygraph/pkg/metrics"
	"github.com/dd0wney/entitygraph/pkg/pubsub"
	"github.com/dd0wney/entitygraph/pkg/validation"
)

// Graph is an undirected graph over the nodes of a World together with
// its connected-component partition.
//
// Edge requests are queued and applied by Tick. After a tick the
// adjacency and membership are consistent and may be read freely.
// Removing a node from the World between ticks cleans its adjacency at
// once but leaves its former neighbors and components as they were until
// the next Tick; Verify reports that window as isolation and orphan
// violations. A Graph is not safe for concurrent use.
type Graph struct {
	world      *entity.World
	store      *connections.Store
	index      *membership.Index
	maintainer *components.Maintainer

	connects    *events.Queue[events.Connect]
	disconnects *events.Queue[events.Disconnect]
	updates     *events.Queue[events.ConnectionUpdate]

	logger  logging.Logger
	metrics *metrics.Registry
	feed    *pubsub.Feed[*TickReport]
	runID   string
	tick    uint64
}

// New creates a graph over world and registers its node removal hook.
// Only one Graph should be attached to a World.
func New(world *entity.World, cfg Config) *Graph {
	cfg.QueueCapacity = validation.DefaultOr(max(cfg.QueueCapacity, 0), DefaultQueueCapacity)
	cfg.Logger = validation.DefaultOr(cfg.Logger, logging.DefaultLogger())

	runID := uuid.NewString()
	logger := cfg.Logger.With(logging.RunID(runID))

	g := &Graph{
		world:       world,
		store:       connections.NewStore(),
		index:       membership.NewIndex(),
		connects:    events.NewQueue[events.Connect](cfg.QueueCapacity),
		disconnects: events.NewQueue[events.Disconnect](cfg.QueueCapacity),
		updates:     events.NewQueue[events.ConnectionUpdate](cfg.QueueCapacity),
		logger:      logger,
		metrics:     cfg.Metrics,
		feed:        cfg.Feed,
		runID:       runID,
	}
	g.maintainer = components.NewMaintainer(world, g.store, g.index, logger)
	world.OnDespawn(g.onDespawn)
	return g
}

// onDespawn keeps adjacency and membership free of e. Former neighbors
// and former members are recomputed on the next tick; until then a former
// neighbor left with no edges keeps its membership, and a component
// emptied by the removal stays alive.
func (g *Graph) onDespawn(e entity.Entity) {
	g.maintainer.Forget(e)
	for _, n := range g.index.Drop(e) {
		g.notify(n)
	}
	for _, n := range g.store.Remove(e) {
		g.notify(n)
	}
	g.index.Remove(e)
}

func (g *Graph) notify(n entity.Entity) {
	g.updates.Push(events.ConnectionUpdate{Entity: n})
}

// Connect queues a request for the edge a-b
func (g *Graph) Connect(a, b entity.Entity) {
	g.connects.Push(events.Connect{A: a, B: b})
}

// Disconnect queues a request to remove the edge a-b
func (g *Graph) Disconnect(a, b entity.Entity) {
	g.disconnects.Push(events.Disconnect{A: a, B: b})
}

// Pending returns the number of queued connect and disconnect requests
func (g *Graph) Pending() int {
	return g.connects.Len() + g.disconnects.Len()
}

// World returns the world the graph is attached to
func (g *Graph) World() *entity.World {
	return g.world
}

// RunID identifies this graph instance in logs and tick reports
func (g *Graph) RunID() string {
	return g.runID
}

// Ticks returns the number of completed ticks
func (g *Graph) Ticks() uint64 {
	return g.tick
}

// Neighbors returns the neighbors of n in insertion order
func (g *Graph) Neighbors(n entity.Entity) ([]entity.Entity, error) {
	if !g.world.Alive(n) {
		return nil, fmt.Errorf("neighbors of %s: %w", n, ErrNodeNotFound)
	}
	return g.store.Neighbors(n), nil
}

// Adjacent reports whether a and b share an edge
func (g *Graph) Adjacent(a, b entity.Entity) bool {
	return g.store.Adjacent(a, b)
}

// Degree returns the number of neighbors of n
func (g *Graph) Degree(n entity.Entity) int {
	if c, ok := g.store.Get(n); ok {
		return c.Len()
	}
	return 0
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	return g.store.EdgeCount()
}

// ComponentOf returns the component identity n belongs to.
// Isolated nodes have none.
func (g *Graph) ComponentOf(n entity.Entity) (entity.Entity, bool) {
	return g.index.Of(n)
}

// Members returns the members of component c, ordered by identity
func (g *Graph) Members(c entity.Entity) []entity.Entity {
	return g.index.Members(c)
}

// Components returns every live component identity, ordered
func (g *Graph) Components() []entity.Entity {
	return g.index.Components()
}

// SameComponent reports whether a and b belong to one component
func (g *Graph) SameComponent(a, b entity.Entity) bool {
	ca, okA := g.index.Of(a)
	cb, okB := g.index.Of(b)
	return okA && okB && ca == cb
}

// IsComponent reports whether e is a live component identity maintained
// by this graph. Host nodes are never components, whatever their name.
func (g *Graph) IsComponent(e entity.Entity) bool {
	return g.maintainer.IsIdentity(e) && g.world.Alive(e)
}

// Snapshot copies the current graph and partition
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		Tick:   g.tick,
		Labels: make(map[entity.Entity]string),
	}

	for _, c := range g.index.Components() {
		s.Components = append(s.Components, ComponentView{ID: c, Members: g.index.Members(c)})
		s.Labels[c] = g.world.Label(c)
	}

	g.world.Each(func(e entity.Entity) {
		if g.IsComponent(e) {
			return
		}
		s.Labels[e] = g.world.Label(e)
		if _, ok := g.index.Of(e); !ok {
			s.Isolated = append(s.Isolated, e)
		}
	})

	for _, n := range g.nodes() {
		c, _ := g.store.Get(n)
		for m := range c.All() {
			if entity.Compare(n, m) <= 0 {
				s.Edges = append(s.Edges, [2]entity.Entity{n, m})
			}
		}
	}
	slices.SortFunc(s.Edges, func(a, b [2]entity.Entity) int {
		if c := entity.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return entity.Compare(a[1], b[1])
	})
	return s
}

// nodes returns every node carrying adjacency, ordered
func (g *Graph) nodes() []entity.Entity {
	out := make([]entity.Entity, 0, g.store.Len())
	g.store.Each(func(n entity.Entity, _ *connections.Connections) {
		out = append(out, n)
	})
	slices.SortFunc(out, entity.Compare)
	return out
}
