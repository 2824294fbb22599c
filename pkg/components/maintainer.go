package components

import (
	"slices"

	"github.com/dd0wney/entitygraph/pkg/connections"
	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/events"
	"github.com/dd0wney/entitygraph/pkg/logging"
	"github.com/dd0wney/entitygraph/pkg/membership"
	"github.com/dd0wney/entitygraph/pkg/pools"
)

// Label is the name given to every component identity
const Label = "ConnectedComponent"

// Allocator creates and destroys component identities
type Allocator interface {
	SpawnNamed(name string) entity.Entity
	Despawn(e entity.Entity) bool
	Alive(e entity.Entity) bool
}

// Result describes what one Update did
type Result struct {
	Roots       int
	Traversed   int
	Isolated    []entity.Entity
	Created     []entity.Entity
	Reused      []entity.Entity
	Destroyed   []entity.Entity
	Diagnostics []events.Diagnostic
}

// Maintainer keeps the membership index equal to the reachability
// partition of the adjacency store.
//
// After a batch of edge mutations every component containing a changed
// node is invalid. Edges changed simultaneously and the previous adjacency
// is gone, so a split cannot be told apart from a merge edge by edge.
// Each touched component is therefore rebuilt by traversal over the
// current adjacency, and untouched components are left alone.
type Maintainer struct {
	alloc  Allocator
	conns  *connections.Store
	index  *membership.Index
	logger logging.Logger
	sets   *pools.SetPool
	slices *pools.SlicePool

	// identities holds every component identity this maintainer allocated
	// and has not yet destroyed
	identities map[entity.Entity]struct{}
}

func NewMaintainer(alloc Allocator, conns *connections.Store, index *membership.Index, logger logging.Logger) *Maintainer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Maintainer{
		alloc:  alloc,
		conns:  conns,
		index:  index,
		logger: logger.With(logging.String("system", "connected_components")),
		sets:   pools.NewSetPool(),
		slices: pools.NewSlicePool(),

		identities: make(map[entity.Entity]struct{}),
	}
}

// IsIdentity reports whether e is a component identity allocated by m
func (m *Maintainer) IsIdentity(e entity.Entity) bool {
	_, ok := m.identities[e]
	return ok
}

// Identities returns every tracked component identity, ordered
func (m *Maintainer) Identities() []entity.Entity {
	out := make([]entity.Entity, 0, len(m.identities))
	for c := range m.identities {
		out = append(out, c)
	}
	slices.SortFunc(out, entity.Compare)
	return out
}

// Forget stops tracking c. Called when c is removed from the world by
// someone other than the sweep.
func (m *Maintainer) Forget(c entity.Entity) {
	delete(m.identities, c)
}

// Update recomputes the components of every changed node and destroys
// component identities left without members.
//
// Roots are processed in the order given. The first traversal touching a
// former component keeps its identity; later fragments of the same former
// component get a neighbor's identity or a fresh one.
func (m *Maintainer) Update(changed []entity.Entity) *Result {
	res := &Result{}

	visited := m.sets.Get()
	claimed := m.sets.Get()
	queue := m.slices.Get()
	defer func() {
		m.sets.Put(visited)
		m.sets.Put(claimed)
		m.slices.Put(queue)
	}()

	for _, n := range changed {
		if !m.alloc.Alive(n) {
			m.index.Remove(n)
			res.Diagnostics = append(res.Diagnostics, m.stale(n, "changed node no longer exists"))
			continue
		}

		conns, ok := m.conns.Get(n)
		if !ok || conns.IsEmpty() {
			// isolated nodes have no component
			if _, had := m.index.Remove(n); had {
				res.Isolated = append(res.Isolated, n)
			}
			continue
		}

		if _, done := visited[n]; done {
			continue
		}

		id, reused := m.claim(n, conns, claimed)
		if reused {
			res.Reused = append(res.Reused, id)
		} else {
			res.Created = append(res.Created, id)
		}
		res.Roots++

		queue = append(queue[:0], n)
		for head := 0; head < len(queue); head++ {
			e := queue[head]
			if _, done := visited[e]; done {
				continue
			}
			visited[e] = struct{}{}

			if !m.alloc.Alive(e) {
				m.index.Remove(e)
				res.Diagnostics = append(res.Diagnostics, m.stale(e, "invalid entity in connections"))
				continue
			}
			m.index.Assign(e, id)
			res.Traversed++

			if c, ok := m.conns.Get(e); ok {
				for next := range c.All() {
					if _, done := visited[next]; !done {
						queue = append(queue, next)
					}
				}
			}
		}
	}

	res.Destroyed = m.sweep()
	return res
}

// claim picks the identity for the component rooted at n: n's previous
// component, else the first neighbor's previous component in adjacency
// order, else a fresh one. An identity is handed out at most once per Update.
func (m *Maintainer) claim(n entity.Entity, conns *connections.Connections, claimed map[entity.Entity]struct{}) (entity.Entity, bool) {
	if c, ok := m.index.Of(n); ok && m.claimable(c, claimed) {
		claimed[c] = struct{}{}
		return c, true
	}
	for next := range conns.All() {
		if c, ok := m.index.Of(next); ok && m.claimable(c, claimed) {
			claimed[c] = struct{}{}
			return c, true
		}
	}

	c := m.alloc.SpawnNamed(Label)
	m.identities[c] = struct{}{}
	claimed[c] = struct{}{}
	return c, false
}

func (m *Maintainer) claimable(c entity.Entity, claimed map[entity.Entity]struct{}) bool {
	_, taken := claimed[c]
	return !taken && m.IsIdentity(c) && m.alloc.Alive(c)
}

// sweep destroys every component identity that has lost all of its
// members, including ones emptied between ticks by node removal
func (m *Maintainer) sweep() []entity.Entity {
	var destroyed []entity.Entity
	seen := make(map[entity.Entity]struct{})
	for _, c := range m.index.TakeEmptied() {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if m.index.Has(c) || !m.IsIdentity(c) {
			continue
		}
		delete(m.identities, c)
		if m.alloc.Despawn(c) {
			destroyed = append(destroyed, c)
		}
	}
	return destroyed
}

func (m *Maintainer) stale(e entity.Entity, detail string) events.Diagnostic {
	m.logger.Warn(detail, logging.Entity(e), logging.Kind(events.DiagnosticStaleReference))
	return events.Diagnostic{Kind: events.DiagnosticStaleReference, Entity: e, Detail: detail}
}
