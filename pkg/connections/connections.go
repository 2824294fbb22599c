package connections

import (
	"iter"
	"slices"

	"github.com/dd0wney/entitygraph/pkg/entity"
)

// InlineCapacity is the number of neighbors stored without a heap allocation
const InlineCapacity = 10

// Connections is the ordered, duplicate-free neighbor list of one node.
// Neighbors live in an inline array until the degree exceeds InlineCapacity.
// A Connections value must not be copied after first use.
type Connections struct {
	inline [InlineCapacity]entity.Entity
	items  []entity.Entity
}

func (c *Connections) init() {
	if c.items == nil {
		c.items = c.inline[:0]
	}
}

// Connect appends e unless it is already present.
// Returns true if the list changed.
func (c *Connections) Connect(e entity.Entity) bool {
	c.init()
	if slices.Contains(c.items, e) {
		return false
	}
	c.items = append(c.items, e)
	return true
}

// Disconnect removes e, keeping the order of the remaining neighbors.
// Returns true if the list changed.
func (c *Connections) Disconnect(e entity.Entity) bool {
	i := slices.Index(c.items, e)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// Contains reports whether e is a neighbor
func (c *Connections) Contains(e entity.Entity) bool {
	return slices.Contains(c.items, e)
}

// Len returns the degree
func (c *Connections) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the node has no neighbors
func (c *Connections) IsEmpty() bool {
	return len(c.items) == 0
}

// Each calls fn for every neighbor in insertion order
func (c *Connections) Each(fn func(entity.Entity)) {
	for _, e := range c.items {
		fn(e)
	}
}

// All iterates the neighbors in insertion order.
// The list must not be mutated during iteration.
func (c *Connections) All() iter.Seq[entity.Entity] {
	return func(yield func(entity.Entity) bool) {
		for _, e := range c.items {
			if !yield(e) {
				return
			}
		}
	}
}

// Slice returns a copy of the neighbors in insertion order
func (c *Connections) Slice() []entity.Entity {
	return slices.Clone(c.items)
}

// Spilled reports whether the list outgrew its inline storage
func (c *Connections) Spilled() bool {
	return cap(c.items) > InlineCapacity
}
