package connections

import (
	"github.com/dd0wney/entitygraph/pkg/entity"
)

// Store holds the adjacency of every node and keeps it symmetric.
// All structural mutation goes through Connect, Disconnect and Remove.
type Store struct {
	conns map[entity.Entity]*Connections
}

func NewStore() *Store {
	return &Store{
		conns: make(map[entity.Entity]*Connections),
	}
}

// Get returns the adjacency attached to e
func (s *Store) Get(e entity.Entity) (*Connections, bool) {
	c, ok := s.conns[e]
	return c, ok
}

// Ensure returns the adjacency of e, attaching an empty one if missing
func (s *Store) Ensure(e entity.Entity) *Connections {
	c, ok := s.conns[e]
	if !ok {
		c = &Connections{}
		c.init()
		s.conns[e] = c
	}
	return c
}

// Has reports whether e carries an adjacency attribute
func (s *Store) Has(e entity.Entity) bool {
	_, ok := s.conns[e]
	return ok
}

// Neighbors returns a copy of the neighbors of e
func (s *Store) Neighbors(e entity.Entity) []entity.Entity {
	c, ok := s.conns[e]
	if !ok {
		return nil
	}
	return c.Slice()
}

// Adjacent reports whether a and b share an edge
func (s *Store) Adjacent(a, b entity.Entity) bool {
	c, ok := s.conns[a]
	return ok && c.Contains(b)
}

// Connect adds the undirected edge a-b. Idempotent.
// Returns true if the edge was not present before.
func (s *Store) Connect(a, b entity.Entity) bool {
	changedA := s.Ensure(a).Connect(b)
	changedB := s.Ensure(b).Connect(a)
	return changedA || changedB
}

// Disconnect removes the undirected edge a-b. Idempotent.
// Each side is handled independently so a reference to a node without
// adjacency is still purged from the other side.
func (s *Store) Disconnect(a, b entity.Entity) (changedA, changedB bool) {
	if c, ok := s.conns[a]; ok {
		changedA = c.Disconnect(b)
	}
	if a == b {
		return changedA, changedA
	}
	if c, ok := s.conns[b]; ok {
		changedB = c.Disconnect(a)
	}
	return changedA, changedB
}

// Remove detaches the adjacency of n and removes n from every neighbor.
// Returns the former neighbors, excluding n itself.
func (s *Store) Remove(n entity.Entity) []entity.Entity {
	c, ok := s.conns[n]
	if !ok {
		return nil
	}
	delete(s.conns, n)

	neighbors := make([]entity.Entity, 0, c.Len())
	c.Each(func(m entity.Entity) {
		if m == n {
			return
		}
		if mc, ok := s.conns[m]; ok {
			mc.Disconnect(n)
		}
		neighbors = append(neighbors, m)
	})
	return neighbors
}

// Len returns the number of nodes carrying adjacency
func (s *Store) Len() int {
	return len(s.conns)
}

// EdgeCount returns the number of undirected edges, self-loops included
func (s *Store) EdgeCount() int {
	total, loops := 0, 0
	for n, c := range s.conns {
		total += c.Len()
		if c.Contains(n) {
			loops++
		}
	}
	return (total-loops)/2 + loops
}

// Each calls fn for every node carrying adjacency, in no particular order
func (s *Store) Each(fn func(entity.Entity, *Connections)) {
	for e, c := range s.conns {
		fn(e, c)
	}
}
