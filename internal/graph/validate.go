package graph

import (
	"fmt"
	"strings"
)

// Validate rejects structurally invalid graphs, then computes
// reachability-from-entry and a deterministic topological order,
// rejecting unreachable nodes and cycles.
func Validate(g Definition) *ValidationError {
	if strings.TrimSpace(g.GraphID) == "" {
		return newErr("graph_id_required", "graph_id cannot be empty", "graph_id")
	}
	if strings.TrimSpace(g.Version) == "" {
		return newErr("graph_version_required", "version cannot be empty", "version")
	}
	if strings.TrimSpace(g.EntryNodeID) == "" {
		return newErr("entry_node_required", "entry_node_id cannot be empty", "entry_node_id")
	}
	if len(g.Nodes) == 0 {
		return newErr("graph_nodes_required", "graph must include at least one node", "nodes")
	}
	if len(g.Nodes) > maxGraphNodes {
		return newErr("graph_nodes_limit_exceeded", fmt.Sprintf("graph supports at most %d nodes", maxGraphNodes), "nodes")
	}
	if len(g.Edges) > maxGraphEdges {
		return newErr("graph_edges_limit_exceeded", fmt.Sprintf("graph supports at most %d edges", maxGraphEdges), "edges")
	}

	nodeIDs := make(map[string]struct{}, len(g.Nodes))
	for idx, node := range g.Nodes {
		if strings.TrimSpace(node.NodeID) == "" {
			return newErr("node_id_required", "node_id cannot be empty", fmt.Sprintf("nodes[%d].node_id", idx))
		}
		if strings.TrimSpace(node.Description) == "" {
			return newErr("node_description_required", "node description cannot be empty", fmt.Sprintf("nodes[%d].description", idx))
		}
		if _, exists := nodeIDs[node.NodeID]; exists {
			return newErr("duplicate_node_id", fmt.Sprintf("duplicate node_id '%s'", node.NodeID), fmt.Sprintf("nodes[%d].node_id", idx))
		}
		nodeIDs[node.NodeID] = struct{}{}
	}
	if _, ok := nodeIDs[g.EntryNodeID]; !ok {
		return newErr("entry_node_missing", "entry_node_id must reference an existing node", "entry_node_id")
	}

	for idx, edge := range g.Edges {
		if strings.TrimSpace(edge.FromNodeID) == "" {
			return newErr("edge_from_required", "edge.from_node_id cannot be empty", fmt.Sprintf("edges[%d].from_node_id", idx))
		}
		if strings.TrimSpace(edge.ToNodeID) == "" {
			return newErr("edge_to_required", "edge.to_node_id cannot be empty", fmt.Sprintf("edges[%d].to_node_id", idx))
		}
		if edge.FromNodeID == edge.ToNodeID {
			return newErr("edge_self_loop_forbidden", "self-loop edges are not allowed", fmt.Sprintf("edges[%d]", idx))
		}
		if _, ok := nodeIDs[edge.FromNodeID]; !ok {
			return newErr("edge_from_unknown", fmt.Sprintf("edge.from_node_id '%s' does not exist", edge.FromNodeID), fmt.Sprintf("edges[%d].from_node_id", idx))
		}
		if _, ok := nodeIDs[edge.ToNodeID]; !ok {
			return newErr("edge_to_unknown", fmt.Sprintf("edge.to_node_id '%s' does not exist", edge.ToNodeID), fmt.Sprintf("edges[%d].to_node_id", idx))
		}
		if edge.Condition.Kind == ConditionScoreAtLeast {
			if strings.TrimSpace(edge.Condition.Metric) == "" {
				return newErr("edge_metric_required", "score condition metric cannot be empty", fmt.Sprintf("edges[%d].condition.metric", idx))
			}
			t := edge.Condition.Threshold
			if t != t || t < 0.0 || t > 1.0 { // t != t catches NaN without importing math
				return newErr("edge_threshold_out_of_range", "score threshold must be in range [0.0, 1.0]", fmt.Sprintf("edges[%d].condition.threshold", idx))
			}
		}
	}

	order, oerr := TopologicalOrder(g)
	if oerr != nil {
		return oerr
	}

	reachable := reachableFromEntry(g)
	if len(reachable) != len(g.Nodes) {
		for _, node := range g.Nodes {
			if _, ok := reachable[node.NodeID]; !ok {
				return newErr("unreachable_node", fmt.Sprintf("node '%s' is unreachable from entry", node.NodeID), fmt.Sprintf("nodes[%s]", node.NodeID))
			}
		}
	}
	if len(order) != len(g.Nodes) {
		return newErr("graph_cycle_detected", "graph contains at least one cycle", "edges")
	}
	return nil
}

func reachableFromEntry(g Definition) map[string]struct{} {
	adjacency := map[string][]string{}
	for _, node := range g.Nodes {
		adjacency[node.NodeID] = nil
	}
	for _, edge := range g.Edges {
		adjacency[edge.FromNodeID] = append(adjacency[edge.FromNodeID], edge.ToNodeID)
	}
	visited := map[string]struct{}{}
	queue := []string{g.EntryNodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		queue = append(queue, adjacency[id]...)
	}
	return visited
}
