package membership

import (
	"slices"

	"github.com/dd0wney/entitygraph/pkg/entity"
)

// Index is the node -> component relation together with its reverse
// component -> member set. Both sides are only ever changed together,
// through Assign, Remove and Drop.
type Index struct {
	of      map[entity.Entity]entity.Entity
	members map[entity.Entity]map[entity.Entity]struct{}

	// components whose member set became empty since the last TakeEmptied
	emptied []entity.Entity
}

func NewIndex() *Index {
	return &Index{
		of:      make(map[entity.Entity]entity.Entity),
		members: make(map[entity.Entity]map[entity.Entity]struct{}),
	}
}

// Of returns the component n belongs to
func (idx *Index) Of(n entity.Entity) (entity.Entity, bool) {
	c, ok := idx.of[n]
	return c, ok
}

// Assign moves n into component c, leaving its previous component if any
func (idx *Index) Assign(n, c entity.Entity) {
	prev, ok := idx.of[n]
	if ok && prev == c {
		return
	}
	if ok {
		idx.leave(n, prev)
	}

	idx.of[n] = c
	set, ok := idx.members[c]
	if !ok {
		set = make(map[entity.Entity]struct{})
		idx.members[c] = set
	}
	set[n] = struct{}{}
}

// Remove drops the membership of n. Returns the component it left.
func (idx *Index) Remove(n entity.Entity) (entity.Entity, bool) {
	prev, ok := idx.of[n]
	if !ok {
		return entity.Placeholder, false
	}
	delete(idx.of, n)
	idx.leave(n, prev)
	return prev, true
}

// Drop removes component c and every membership pointing at it.
// Returns the former members in deterministic order.
func (idx *Index) Drop(c entity.Entity) []entity.Entity {
	set, ok := idx.members[c]
	if !ok {
		return nil
	}
	delete(idx.members, c)

	out := make([]entity.Entity, 0, len(set))
	for n := range set {
		delete(idx.of, n)
		out = append(out, n)
	}
	slices.SortFunc(out, entity.Compare)
	return out
}

func (idx *Index) leave(n, c entity.Entity) {
	set := idx.members[c]
	delete(set, n)
	if len(set) == 0 {
		delete(idx.members, c)
		idx.emptied = append(idx.emptied, c)
	}
}

// TakeEmptied returns, and forgets, the components that lost their last
// member since the previous call. A component may have been refilled since.
func (idx *Index) TakeEmptied() []entity.Entity {
	out := idx.emptied
	idx.emptied = nil
	return out
}

// Has reports whether c currently has members
func (idx *Index) Has(c entity.Entity) bool {
	_, ok := idx.members[c]
	return ok
}

// Size returns the number of members of c
func (idx *Index) Size(c entity.Entity) int {
	return len(idx.members[c])
}

// Members returns the members of c, ordered by identity
func (idx *Index) Members(c entity.Entity) []entity.Entity {
	set := idx.members[c]
	out := make([]entity.Entity, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	slices.SortFunc(out, entity.Compare)
	return out
}

// Contains reports whether n is a member of c
func (idx *Index) Contains(c, n entity.Entity) bool {
	_, ok := idx.members[c][n]
	return ok
}

// Components returns every component with members, ordered by identity
func (idx *Index) Components() []entity.Entity {
	out := make([]entity.Entity, 0, len(idx.members))
	for c := range idx.members {
		out = append(out, c)
	}
	slices.SortFunc(out, entity.Compare)
	return out
}

// Len returns the number of components with members
func (idx *Index) Len() int {
	return len(idx.members)
}

// Assigned returns the number of nodes with a membership
func (idx *Index) Assigned() int {
	return len(idx.of)
}

// EachAssignment calls fn for every node -> component pair, in no particular order
func (idx *Index) EachAssignment(fn func(node, component entity.Entity)) {
	for n, c := range idx.of {
		fn(n, c)
	}
}
