package textworkflow

import "github.com/codeready-toolchain/tarsy/internal/graph"

// Template is one catalogued template: its identity, the workflow
// family it produces, and the agent graph that drives it.
type Template struct {
	TemplateID   string
	WorkflowKind WorkflowKind
	Graph        graph.Definition
}

const (
	TemplateMessageHouse  = "tpl.message_house.v1"
	TemplateEmailLanding  = "tpl.email_landing_sequence.v1"
	TemplateAdVariantPack = "tpl.ad_variant_pack.v1"
	TemplateLaunchKit     = "tpl.launch_kit.v1"
)

func always() graph.EdgeCondition { return graph.EdgeCondition{Kind: graph.ConditionAlways} }

func onSuccess() graph.EdgeCondition { return graph.EdgeCondition{Kind: graph.ConditionOnSuccess} }

// Catalogue returns the fixed set of text workflow templates this
// process knows about, one per supported workflow kind.
func Catalogue() []Template {
	return []Template{
		{
			TemplateID:   TemplateMessageHouse,
			WorkflowKind: KindMessageHouse,
			Graph: graph.Definition{
				GraphID: "graph.message_house.v1", Version: "v1", EntryNodeID: "planner",
				Nodes: []graph.Node{
					{NodeID: "planner", Kind: graph.KindPlanner, Description: "outline positioning and message house pillars"},
					{NodeID: "generator", Kind: graph.KindGenerator, Description: "draft positioning statement, message house, and audience segments"},
					{NodeID: "critic", Kind: graph.KindCritic, Description: "check claims against evidence and proof points"},
					{NodeID: "review_gate", Kind: graph.KindReviewGate, Description: "final weighted gate before release"},
				},
				Edges: []graph.Edge{
					{FromNodeID: "planner", ToNodeID: "generator", Condition: always()},
					{FromNodeID: "generator", ToNodeID: "critic", Condition: always()},
					{FromNodeID: "critic", ToNodeID: "review_gate", Condition: onSuccess()},
				},
			},
		},
		{
			TemplateID:   TemplateEmailLanding,
			WorkflowKind: KindEmailLanding,
			Graph: graph.Definition{
				GraphID: "graph.email_landing_sequence.v1", Version: "v1", EntryNodeID: "planner",
				Nodes: []graph.Node{
					{NodeID: "planner", Kind: graph.KindPlanner, Description: "sequence hook, proof, and landing structure"},
					{NodeID: "generator", Kind: graph.KindGenerator, Description: "draft the two-email sequence and landing page structure"},
					{NodeID: "critic", Kind: graph.KindCritic, Description: "check proof points and objection handling coverage"},
					{NodeID: "refiner", Kind: graph.KindRefiner, Description: "tighten subject lines and CTA alignment"},
					{NodeID: "review_gate", Kind: graph.KindReviewGate, Description: "final weighted gate before release"},
				},
				Edges: []graph.Edge{
					{FromNodeID: "planner", ToNodeID: "generator", Condition: always()},
					{FromNodeID: "generator", ToNodeID: "critic", Condition: always()},
					{FromNodeID: "critic", ToNodeID: "refiner", Condition: onSuccess()},
					{FromNodeID: "refiner", ToNodeID: "review_gate", Condition: always()},
				},
			},
		},
		{
			TemplateID:   TemplateAdVariantPack,
			WorkflowKind: KindAdVariantPack,
			Graph: graph.Definition{
				GraphID: "graph.ad_variant_pack.v1", Version: "v1", EntryNodeID: "planner",
				Nodes: []graph.Node{
					{NodeID: "planner", Kind: graph.KindPlanner, Description: "plan hook angles per audience segment"},
					{NodeID: "generator", Kind: graph.KindGenerator, Description: "draft one variant per requested count"},
					{NodeID: "tool_call", Kind: graph.KindToolCall, Description: "score variants against the experiment scoring tool"},
					{NodeID: "critic", Kind: graph.KindCritic, Description: "flag generic copy and claim risk"},
					{NodeID: "review_gate", Kind: graph.KindReviewGate, Description: "final weighted gate before release"},
				},
				Edges: []graph.Edge{
					{FromNodeID: "planner", ToNodeID: "generator", Condition: always()},
					{FromNodeID: "generator", ToNodeID: "tool_call", Condition: always()},
					{FromNodeID: "tool_call", ToNodeID: "critic", Condition: onSuccess()},
					{FromNodeID: "critic", ToNodeID: "review_gate", Condition: always()},
				},
			},
		},
		{
			TemplateID:   TemplateLaunchKit,
			WorkflowKind: KindLaunchKit,
			Graph: graph.Definition{
				GraphID: "graph.launch_kit.v1", Version: "v1", EntryNodeID: "planner",
				Nodes: []graph.Node{
					{NodeID: "planner", Kind: graph.KindPlanner, Description: "plan the cross-channel launch spine"},
					{NodeID: "generator", Kind: graph.KindGenerator, Description: "draft the launch spine and channel matrix"},
					{NodeID: "merge", Kind: graph.KindMerge, Description: "merge channel drafts onto one message spine"},
					{NodeID: "critic", Kind: graph.KindCritic, Description: "check cross-channel consistency"},
					{NodeID: "review_gate", Kind: graph.KindReviewGate, Description: "final weighted gate before release"},
				},
				Edges: []graph.Edge{
					{FromNodeID: "planner", ToNodeID: "generator", Condition: always()},
					{FromNodeID: "generator", ToNodeID: "merge", Condition: always()},
					{FromNodeID: "merge", ToNodeID: "critic", Condition: always()},
					{FromNodeID: "critic", ToNodeID: "review_gate", Condition: onSuccess()},
				},
			},
		},
	}
}

// Lookup returns the template with the given id, or false if no
// template in the catalogue matches.
func Lookup(templateID string) (Template, bool) {
	for _, t := range Catalogue() {
		if t.TemplateID == templateID {
			return t, true
		}
	}
	return Template{}, false
}
