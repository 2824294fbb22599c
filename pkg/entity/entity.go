package entity

import (
	"fmt"
	"math"
)

// Entity is an opaque node identity owned by the World.
// Freed indices are reused with a bumped generation so a stale
// identity never aliases a newer entity.
type Entity struct {
	index      uint32
	generation uint32
}

// Placeholder is a reserved identity that is never alive
var Placeholder = Entity{index: math.MaxUint32, generation: math.MaxUint32}

// Index returns the slot index of the entity
func (e Entity) Index() uint32 {
	return e.index
}

// Generation returns how many times the slot has been recycled
func (e Entity) Generation() uint32 {
	return e.generation
}

// String renders the entity as "<index>v<generation>"
func (e Entity) String() string {
	if e == Placeholder {
		return "placeholder"
	}
	return fmt.Sprintf("%dv%d", e.index, e.generation)
}

// Less orders entities by index then generation, for deterministic output
func (e Entity) Less(other Entity) bool {
	if e.index != other.index {
		return e.index < other.index
	}
	return e.generation < other.generation
}

// Compare returns -1, 0 or +1, usable with slices.SortFunc
func Compare(a, b Entity) int {
	switch {
	case a == b:
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}
