package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/entitygraph/pkg/entity"
	"github.com/dd0wney/entitygraph/pkg/logging"
)

const propertyNodes = 12

// applyBatch decodes each op as kind/a/b digits and queues it.
// Kinds 0-5 connect, 6-8 disconnect, 9 removes node a and spawns a
// replacement, keeping the removed identity around as a stale reference.
func applyBatch(g *Graph, nodes []entity.Entity, dead *[]entity.Entity, batch []int) {
	for _, op := range batch {
		kind := op % 10
		a := nodes[(op/10)%len(nodes)]
		b := nodes[(op/100)%len(nodes)]
		if len(*dead) > 0 && (op/1000)%13 == 0 {
			b = (*dead)[(op/10000)%len(*dead)]
		}

		switch {
		case kind < 6:
			g.Connect(a, b)
		case kind < 9:
			g.Disconnect(a, b)
		default:
			i := (op / 10) % len(nodes)
			g.World().Despawn(nodes[i])
			*dead = append(*dead, nodes[i])
			nodes[i] = g.World().Spawn()
		}
	}
}

func newPropertyGraph() (*Graph, []entity.Entity) {
	world := entity.NewWorld()
	g := New(world, Config{Logger: logging.NewNopLogger()})
	nodes := make([]entity.Entity, propertyNodes)
	for i := range nodes {
		nodes[i] = world.Spawn()
	}
	return g, nodes
}

// TestPartitionInvariants checks every structural invariant after each
// tick of randomized connect/disconnect/remove batches
func TestPartitionInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	batches := gen.SliceOf(gen.SliceOf(gen.IntRange(0, 99999)))

	properties.Property("membership equals reachability after every tick", prop.ForAll(
		func(ticks [][]int) bool {
			g, nodes := newPropertyGraph()
			var dead []entity.Entity
			for _, batch := range ticks {
				applyBatch(g, nodes, &dead, batch)
				g.Tick()
				if err := g.Verify(); err != nil {
					t.Log(err)
					return false
				}
			}
			return true
		},
		batches,
	))

	properties.Property("adjacency stays symmetric", prop.ForAll(
		func(ticks [][]int) bool {
			g, nodes := newPropertyGraph()
			var dead []entity.Entity
			for _, batch := range ticks {
				applyBatch(g, nodes, &dead, batch)
				g.Tick()
			}
			for _, a := range g.nodes() {
				neighbors, _ := g.store.Get(a)
				for b := range neighbors.All() {
					if !g.Adjacent(b, a) {
						return false
					}
				}
			}
			return true
		},
		batches,
	))

	properties.Property("removed nodes leave no trace", prop.ForAll(
		func(ticks [][]int) bool {
			g, nodes := newPropertyGraph()
			var dead []entity.Entity
			for _, batch := range ticks {
				applyBatch(g, nodes, &dead, batch)
				g.Tick()
			}
			for _, d := range dead {
				if g.store.Has(d) {
					return false
				}
				if _, ok := g.ComponentOf(d); ok {
					return false
				}
			}
			for _, n := range g.nodes() {
				for _, m := range g.store.Neighbors(n) {
					if !g.World().Alive(m) {
						return false
					}
				}
			}
			return true
		},
		batches,
	))

	properties.Property("an empty tick changes no identity", prop.ForAll(
		func(ticks [][]int) bool {
			g, nodes := newPropertyGraph()
			var dead []entity.Entity
			for _, batch := range ticks {
				applyBatch(g, nodes, &dead, batch)
				g.Tick()
			}
			before := make(map[entity.Entity]entity.Entity)
			for _, n := range nodes {
				if c, ok := g.ComponentOf(n); ok {
					before[n] = c
				}
			}

			rep := g.Tick()
			if len(rep.Created) != 0 || len(rep.Destroyed) != 0 {
				return false
			}
			for _, n := range nodes {
				c, ok := g.ComponentOf(n)
				if prev, had := before[n]; had != ok || (ok && prev != c) {
					return false
				}
			}
			return true
		},
		batches,
	))

	properties.TestingRun(t)
}

// TestResyncPreservesUnsplitIdentities checks that recomputing everything
// keeps every component identity when nothing changed
func TestResyncPreservesUnsplitIdentities(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("resync keeps identities", prop.ForAll(
		func(ticks [][]int) bool {
			g, nodes := newPropertyGraph()
			var dead []entity.Entity
			for _, batch := range ticks {
				applyBatch(g, nodes, &dead, batch)
				g.Tick()
			}
			before := g.Components()
			rep := g.Resync()
			if len(rep.Created) != 0 || len(rep.Destroyed) != 0 {
				return false
			}
			after := g.Components()
			if len(before) != len(after) {
				return false
			}
			for i := range before {
				if before[i] != after[i] {
					return false
				}
			}
			return g.Verify() == nil
		},
		gen.SliceOf(gen.SliceOf(gen.IntRange(0, 99999))),
	))

	properties.TestingRun(t)
}
