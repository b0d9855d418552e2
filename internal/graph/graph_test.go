package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGraph() Definition {
	return Definition{
		GraphID:     "wf.test.v1",
		Version:     "1",
		EntryNodeID: "planner",
		Nodes: []Node{
			{NodeID: "planner", Kind: KindPlanner, Description: "Plan steps"},
			{NodeID: "generator", Kind: KindGenerator, Description: "Generate draft"},
			{NodeID: "critic", Kind: KindCritic, Description: "Critique draft"},
			{NodeID: "gate", Kind: KindReviewGate, Description: "Gate output"},
		},
		Edges: []Edge{
			{FromNodeID: "planner", ToNodeID: "generator", Condition: EdgeCondition{Kind: ConditionAlways}},
			{FromNodeID: "generator", ToNodeID: "critic", Condition: EdgeCondition{Kind: ConditionAlways}},
			{FromNodeID: "critic", ToNodeID: "gate", Condition: EdgeCondition{Kind: ConditionScoreAtLeast, Metric: "instruction_coverage", Threshold: 0.6}},
		},
	}
}

func TestValidate_ValidGraphPasses(t *testing.T) {
	assert.Nil(t, Validate(validGraph()))
}

func TestValidate_RejectsCycle(t *testing.T) {
	g := validGraph()
	g.Edges = append(g.Edges, Edge{FromNodeID: "gate", ToNodeID: "planner", Condition: EdgeCondition{Kind: ConditionAlways}})
	err := Validate(g)
	require.NotNil(t, err)
	assert.Equal(t, "graph_cycle_detected", err.Code)
}

func TestValidate_RejectsDuplicateNodeID(t *testing.T) {
	g := validGraph()
	g.Nodes = append(g.Nodes, Node{NodeID: "planner", Kind: KindToolCall, Description: "duplicate"})
	err := Validate(g)
	require.NotNil(t, err)
	assert.Equal(t, "duplicate_node_id", err.Code)
}

func TestValidate_RejectsUnreachableNode(t *testing.T) {
	g := validGraph()
	g.Nodes = append(g.Nodes, Node{NodeID: "orphan", Kind: KindGenerator, Description: "orphan"})
	err := Validate(g)
	require.NotNil(t, err)
	assert.Equal(t, "unreachable_node", err.Code)
}

func TestValidate_RejectsThresholdOutOfRange(t *testing.T) {
	g := validGraph()
	g.Edges[2].Condition.Threshold = 1.25
	err := Validate(g)
	require.NotNil(t, err)
	assert.Equal(t, "edge_threshold_out_of_range", err.Code)
}

func TestTopologicalOrder_IsDeterministic(t *testing.T) {
	g := validGraph()
	a, err := TopologicalOrder(g)
	require.Nil(t, err)
	b, err := TopologicalOrder(g)
	require.Nil(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "planner", a[0])
}

func TestValidate_NodeLimit(t *testing.T) {
	g := Definition{GraphID: "g", Version: "1", EntryNodeID: "n0"}
	for i := 0; i < 65; i++ {
		id := "n" + string(rune('a'+i%26)) + string(rune('0'+i/26))
		g.Nodes = append(g.Nodes, Node{NodeID: id, Kind: KindGenerator, Description: "d"})
	}
	g.EntryNodeID = g.Nodes[0].NodeID
	err := Validate(g)
	require.NotNil(t, err)
	assert.Equal(t, "graph_nodes_limit_exceeded", err.Code)
}
