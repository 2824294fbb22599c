package graph

import (
	"errors"

	"github.com/dd0wney/entitygraph/pkg/algorithms"
	"github.com/dd0wney/entitygraph/pkg/entity"
)

// Verify recomputes the reachability partition from scratch and checks it,
// and every structural invariant, against the maintained state.
// It returns nil or a join of *InvariantError values. Only meaningful
// between ticks.
func (g *Graph) Verify() error {
	var errs []error
	nodes := g.nodes()

	for _, n := range nodes {
		c, _ := g.store.Get(n)
		for m := range c.All() {
			if !g.world.Alive(m) {
				errs = append(errs, violation(CheckDangling, n, "neighbor %s no longer exists", m))
			}
			if !g.store.Adjacent(m, n) {
				errs = append(errs, violation(CheckSymmetry, n, "neighbor %s does not list it back", m))
			}
		}
		if g.maintainer.IsIdentity(n) {
			errs = append(errs, violation(CheckIdentityNode, n, "component identity carries adjacency"))
		}
		if _, ok := g.index.Of(n); !ok && !c.IsEmpty() {
			errs = append(errs, violation(CheckMembership, n, "connected node has no component"))
		}
	}

	g.index.EachAssignment(func(n, c entity.Entity) {
		if g.maintainer.IsIdentity(n) {
			errs = append(errs, violation(CheckIdentityNode, n, "component identity belongs to %s", c))
		}
		if g.Degree(n) == 0 {
			errs = append(errs, violation(CheckIsolation, n, "isolated node belongs to %s", c))
		}
		if !g.index.Contains(c, n) {
			errs = append(errs, violation(CheckBidirectional, n, "component %s does not list it", c))
		}
	})

	for _, c := range g.index.Components() {
		if !g.world.Alive(c) {
			errs = append(errs, violation(CheckDeadComponent, c, "component identity no longer exists"))
		}
		for _, n := range g.index.Members(c) {
			if of, ok := g.index.Of(n); !ok || of != c {
				errs = append(errs, violation(CheckBidirectional, c, "member %s points elsewhere", n))
			}
		}
	}

	for _, c := range g.maintainer.Identities() {
		if g.world.Alive(c) && !g.index.Has(c) {
			errs = append(errs, violation(CheckOrphan, c, "component has no members"))
		}
	}

	errs = append(errs, g.verifyPartition(nodes)...)
	return errors.Join(errs...)
}

// verifyPartition compares the maintained membership with a full BFS.
// Each reachability class must map to exactly one identity, and no
// identity may span two classes.
func (g *Graph) verifyPartition(nodes []entity.Entity) []error {
	var errs []error
	connected := make([]entity.Entity, 0, len(nodes))
	for _, n := range nodes {
		if g.Degree(n) > 0 {
			connected = append(connected, n)
		}
	}

	ref := algorithms.ConnectedComponents(connected, g.store)
	owner := make(map[entity.Entity]int, len(ref.Components))

	for _, rc := range ref.Components {
		first, ok := g.index.Of(rc.Nodes[0])
		if !ok {
			continue // already reported as a membership violation
		}
		for _, n := range rc.Nodes[1:] {
			if c, ok := g.index.Of(n); ok && c != first {
				errs = append(errs, violation(CheckPartition, n, "reachable from %s but in %s, not %s", rc.Nodes[0], c, first))
			}
		}
		if prev, taken := owner[first]; taken && prev != rc.ID {
			errs = append(errs, violation(CheckPartition, first, "component spans unreachable nodes"))
		}
		owner[first] = rc.ID
	}
	return errs
}
