// Package graph validates the typed agent-graph DAG contract and
// computes its deterministic topological execution order, generalizing
// the teacher's pipeline topological sort to spec.md's typed node/edge
// model.
package graph

// NodeKind is the canonical node role taxonomy for graph-based agent
// workflows.
type NodeKind string

const (
	KindPlanner    NodeKind = "planner"
	KindGenerator  NodeKind = "generator"
	KindToolCall   NodeKind = "tool_call"
	KindCritic     NodeKind = "critic"
	KindRefiner    NodeKind = "refiner"
	KindReviewGate NodeKind = "review_gate"
	KindMerge      NodeKind = "merge"
)

// Node is one graph node declaration.
type Node struct {
	NodeID      string
	Kind        NodeKind
	Description string
	Params      map[string]any
}

// EdgeCondition is the conditional edge semantics used by the graph
// runtime. Only ScoreAtLeast carries payload fields; Metric/Threshold
// are ignored for the other variants.
type EdgeCondition struct {
	Kind      EdgeConditionKind
	Metric    string
	Threshold float64
}

type EdgeConditionKind string

const (
	ConditionAlways       EdgeConditionKind = "always"
	ConditionOnSuccess    EdgeConditionKind = "on_success"
	ConditionOnFailure    EdgeConditionKind = "on_failure"
	ConditionScoreAtLeast EdgeConditionKind = "score_at_least"
)

// Edge is a directed edge between two graph nodes.
type Edge struct {
	FromNodeID string
	ToNodeID   string
	Condition  EdgeCondition
}

// Definition is the full typed DAG contract used for graph-driven
// workflows.
type Definition struct {
	GraphID     string
	Version     string
	EntryNodeID string
	Nodes       []Node
	Edges       []Edge
	Metadata    map[string]string
}

const (
	maxGraphNodes = 64
	maxGraphEdges = 256
)

// ValidationError is the structured diagnostic graph validation
// returns.
type ValidationError struct {
	Code       string
	Message    string
	FieldPaths []string
}

func (e *ValidationError) Error() string { return e.Code + ": " + e.Message }

func newErr(code, message string, fieldPaths ...string) *ValidationError {
	return &ValidationError{Code: code, Message: message, FieldPaths: fieldPaths}
}
