package algorithms

import (
	"container/list"
	"slices"

	"github.com/dd0wney/entitygraph/pkg/entity"
)

// ConnectedComponents partitions nodes by reachability with one BFS per
// component. It recomputes everything from scratch and backs verification
// only; the incremental maintainer never calls it.
// Neighbors outside nodes are still followed.
func ConnectedComponents(nodes []entity.Entity, graph Neighborhood) *ComponentsResult {
	visited := make(map[entity.Entity]bool, len(nodes))
	nodeComponent := make(map[entity.Entity]int, len(nodes))
	components := make([]*Component, 0)
	componentID := 0

	for _, start := range nodes {
		if visited[start] {
			continue
		}

		component := &Component{
			ID:    componentID,
			Nodes: make([]entity.Entity, 0),
		}

		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			node, ok := queue.Remove(queue.Front()).(entity.Entity)
			if !ok {
				continue
			}
			component.Nodes = append(component.Nodes, node)
			nodeComponent[node] = componentID

			for _, next := range graph.Neighbors(node) {
				if !visited[next] {
					visited[next] = true
					queue.PushBack(next)
				}
			}
		}

		slices.SortFunc(component.Nodes, entity.Compare)
		component.Size = len(component.Nodes)
		components = append(components, component)
		componentID++
	}

	return &ComponentsResult{
		Components:    components,
		NodeComponent: nodeComponent,
	}
}

// SameComponent reports whether a and b were placed in one component
func (r *ComponentsResult) SameComponent(a, b entity.Entity) bool {
	ca, okA := r.NodeComponent[a]
	cb, okB := r.NodeComponent[b]
	return okA && okB && ca == cb
}
