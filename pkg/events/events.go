package events

import (
	"github.com/dd0wney/entitygraph/pkg/entity"
)

// Connect asks for the undirected edge A-B to be added
type Connect struct {
	A, B entity.Entity
}

// Disconnect asks for the undirected edge A-B to be removed
type Disconnect struct {
	A, B entity.Entity
}

// ConnectionUpdate signals that the adjacency of Entity changed this tick
type ConnectionUpdate struct {
	Entity entity.Entity
}

// ChangeSet is an insertion-ordered set of entities.
// The first notification for an entity fixes its position.
type ChangeSet struct {
	order []entity.Entity
	seen  map[entity.Entity]struct{}
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		seen: make(map[entity.Entity]struct{}),
	}
}

// Add inserts e. Returns false if e was already present.
func (s *ChangeSet) Add(e entity.Entity) bool {
	if _, ok := s.seen[e]; ok {
		return false
	}
	s.seen[e] = struct{}{}
	s.order = append(s.order, e)
	return true
}

// Contains reports whether e is in the set
func (s *ChangeSet) Contains(e entity.Entity) bool {
	_, ok := s.seen[e]
	return ok
}

// Len returns the number of distinct entities
func (s *ChangeSet) Len() int {
	return len(s.order)
}

// Entities returns the members in first-insertion order
func (s *ChangeSet) Entities() []entity.Entity {
	return s.order
}

// Collect drains a queue of updates into a fresh, deduplicated set
func Collect(q *Queue[ConnectionUpdate]) *ChangeSet {
	set := NewChangeSet()
	q.Drain(func(u ConnectionUpdate) {
		set.Add(u.Entity)
	})
	return set
}

// Diagnostic kinds
const (
	// DiagnosticMissingNode: a request names a node that does not exist
	DiagnosticMissingNode = "missing_node"
	// DiagnosticStaleReference: recomputation met a node that no longer exists
	DiagnosticStaleReference = "stale_reference"
	// DiagnosticNotANode: a request names a component identity as an endpoint
	DiagnosticNotANode = "not_a_node"
)

// Diagnostic is a non-fatal problem met while processing a tick
type Diagnostic struct {
	Kind   string
	Entity entity.Entity
	Detail string
}

func (d Diagnostic) String() string {
	return d.Kind + " " + d.Entity.String() + ": " + d.Detail
}
