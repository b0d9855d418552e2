package graph

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TopologicalOrder computes the deterministic Kahn ordering described in
// spec.md §4.4: in-degrees and adjacency are built from edges, each
// adjacency list is sorted and de-duplicated lexicographically, the
// queue is seeded with all zero-in-degree nodes in sorted order, and
// nodes are popped FIFO. Two calls on the same graph return identical
// orderings. Adjacency is kept in an ordered map so insertion order
// (graph declaration order) is preserved wherever sorting doesn't
// already force a total order.
func TopologicalOrder(g Definition) ([]string, *ValidationError) {
	indegree := orderedmap.New[string, int]()
	adjacency := orderedmap.New[string, []string]()
	for _, node := range g.Nodes {
		indegree.Set(node.NodeID, 0)
		adjacency.Set(node.NodeID, nil)
	}
	for _, edge := range g.Edges {
		if v, ok := indegree.Get(edge.ToNodeID); ok {
			indegree.Set(edge.ToNodeID, v+1)
		}
		children, _ := adjacency.Get(edge.FromNodeID)
		adjacency.Set(edge.FromNodeID, append(children, edge.ToNodeID))
	}
	for pair := adjacency.Oldest(); pair != nil; pair = pair.Next() {
		children := append([]string(nil), pair.Value...)
		sort.Strings(children)
		children = dedup(children)
		adjacency.Set(pair.Key, children)
	}

	var queue []string
	for pair := indegree.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == 0 {
			queue = append(queue, pair.Key)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(g.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		children, _ := adjacency.Get(id)
		for _, child := range children {
			v, _ := indegree.Get(child)
			v--
			if v < 0 {
				v = 0
			}
			indegree.Set(child, v)
			if v == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		return order, newErr("graph_cycle_detected", "graph contains at least one cycle", "edges")
	}
	return order, nil
}

func dedup(sorted []string) []string {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
