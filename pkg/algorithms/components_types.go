package algorithms

import "github.com/dd0wney/entitygraph/pkg/entity"

// Component is one connected component found by a full traversal
type Component struct {
	ID    int
	Nodes []entity.Entity
	Size  int
}

// ComponentsResult is a complete reachability partition
type ComponentsResult struct {
	Components    []*Component
	NodeComponent map[entity.Entity]int // Node -> Component ID
}

// Neighborhood exposes the current adjacency of a node
type Neighborhood interface {
	Neighbors(e entity.Entity) []entity.Entity
}
