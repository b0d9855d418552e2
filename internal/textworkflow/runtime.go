package textworkflow

import (
	"fmt"
	"strings"

	"github.com/codeready-toolchain/tarsy/internal/budget/routing"
	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/codeready-toolchain/tarsy/internal/graph"
)

const (
	defaultVariantCount = 12
	maxVariantCount      = 30
	runSchemaVersion     = "text_workflow_run.v1"
)

// BudgetEnvelope bounds one text workflow run: token totals, per-run
// and daily cost, and which providers a paid call may land on.
type BudgetEnvelope struct {
	MaxTotalInputTokens     int64    `json:"max_total_input_tokens"`
	MaxTotalOutputTokens    int64    `json:"max_total_output_tokens"`
	MaxCostPerRunUSD        float64  `json:"max_cost_per_run_usd"`
	RemainingDailyBudgetUSD float64  `json:"remaining_daily_budget_usd"`
	HardDailyCapUSD         float64  `json:"hard_daily_cap_usd"`
	AllowPaidCalls          bool     `json:"allow_paid_calls"`
	AllowedProviders        []string `json:"allowed_providers,omitempty"`
}

// DefaultBudgetEnvelope is used when a caller submits a run request
// without an explicit envelope: paid calls disallowed, so every node
// routes to the local mock regardless of the token/cost caps below.
func DefaultBudgetEnvelope() BudgetEnvelope {
	return BudgetEnvelope{
		MaxTotalInputTokens:     50_000,
		MaxTotalOutputTokens:    20_000,
		MaxCostPerRunUSD:        1.0,
		RemainingDailyBudgetUSD: 10.0,
		HardDailyCapUSD:         routing.EnforcedHardDailyCapUSD,
		AllowPaidCalls:          false,
	}
}

func (b BudgetEnvelope) routingEnvelope() routing.BudgetEnvelope {
	return routing.BudgetEnvelope{
		MaxCostPerRunUSD:        b.MaxCostPerRunUSD,
		RemainingDailyBudgetUSD: b.RemainingDailyBudgetUSD,
		HardDailyCapUSD:         b.HardDailyCapUSD,
		AllowPaidCalls:          b.AllowPaidCalls,
		AllowedProviders:        b.AllowedProviders,
	}
}

// RunRequest is the caller-submitted text workflow request.
type RunRequest struct {
	TemplateID      string         `json:"template_id"`
	CampaignSpine   CampaignSpine  `json:"campaign_spine"`
	VariantCount    *int           `json:"variant_count,omitempty"`
	Budget          BudgetEnvelope `json:"budget"`
	PaidCallsAllowed bool          `json:"paid_calls_allowed"`
}

// NodeExecutionTrace is one node's deterministic execution record:
// the route it was sent to and what it was estimated to cost.
type NodeExecutionTrace struct {
	NodeID               string          `json:"node_id"`
	NodeKind             graph.NodeKind  `json:"node_kind"`
	Route                routing.Route   `json:"route"`
	EstimatedInputTokens  int64          `json:"estimated_input_tokens"`
	EstimatedOutputTokens int64          `json:"estimated_output_tokens"`
	EstimatedCostUSD      float64        `json:"estimated_cost_usd"`
}

// RunResult is the full run artifact: execution trace plus the
// synthesized text artifact and its gate verdict.
type RunResult struct {
	SchemaVersion            string               `json:"schema_version"`
	TemplateID               string               `json:"template_id"`
	GraphID                  string               `json:"graph_id"`
	WorkflowKind             WorkflowKind         `json:"workflow_kind"`
	CampaignSpineID          string               `json:"campaign_spine_id"`
	ExecutionOrder           []string             `json:"execution_order"`
	Traces                   []NodeExecutionTrace `json:"traces"`
	TotalEstimatedInputTokens  int64              `json:"total_estimated_input_tokens"`
	TotalEstimatedOutputTokens int64              `json:"total_estimated_output_tokens"`
	TotalEstimatedCostUSD      float64            `json:"total_estimated_cost_usd"`
	Artifact                 Artifact             `json:"artifact"`
}

func fromGraphErr(err *graph.ValidationError) *contracts.ContractError {
	return contracts.NewContractError(err.Code, err.Message).WithField(err.FieldPaths...)
}

func fromRoutingErr(nodeID string, err *routing.Error) *contracts.ContractError {
	return contracts.NewContractError(err.Code, fmt.Sprintf("model routing failed for node '%s': %s", nodeID, err.Message))
}

// Run executes one prioritized text workflow as a deterministic,
// replayable mock orchestration: validate the template's graph,
// compute its deterministic order, estimate and route every node
// within the budget envelope, then synthesize the output artifact and
// its weighted gate verdict.
func Run(req RunRequest) (*RunResult, *contracts.ContractError) {
	templateID := strings.TrimSpace(req.TemplateID)
	if templateID == "" {
		return nil, contracts.NewContractError("invalid_template_id", "template_id cannot be empty").WithField("template_id")
	}

	variantCount := defaultVariantCount
	if req.VariantCount != nil {
		variantCount = *req.VariantCount
	}
	if variantCount < 1 || variantCount > maxVariantCount {
		return nil, contracts.NewContractError("invalid_variant_count",
			fmt.Sprintf("variant_count must be in 1..=%d, received %d", maxVariantCount, variantCount)).WithField("variant_count")
	}

	template, ok := Lookup(templateID)
	if !ok {
		return nil, contracts.NewContractError("unknown_template_id",
			fmt.Sprintf("unknown template_id '%s': expected one of %s, %s, %s, %s",
				templateID, TemplateMessageHouse, TemplateEmailLanding, TemplateAdVariantPack, TemplateLaunchKit)).WithField("template_id")
	}

	if err := graph.Validate(template.Graph); err != nil {
		return nil, fromGraphErr(err)
	}
	order, err := graph.TopologicalOrder(template.Graph)
	if err != nil {
		return nil, fromGraphErr(err)
	}

	nodeByID := make(map[string]graph.Node, len(template.Graph.Nodes))
	for _, n := range template.Graph.Nodes {
		nodeByID[n.NodeID] = n
	}

	routingEnv := req.Budget.routingEnvelope()
	routingEnv.AllowPaidCalls = routingEnv.AllowPaidCalls || req.PaidCallsAllowed

	traces := make([]NodeExecutionTrace, 0, len(order))
	var totalInputTokens, totalOutputTokens int64
	var totalCostUSD float64

	for _, nodeID := range order {
		node, ok := nodeByID[nodeID]
		if !ok {
			return nil, contracts.NewContractError("internal", fmt.Sprintf("missing node '%s' in graph map", nodeID))
		}

		inputTokens, outputTokens := estimateNodeTokens(node.Kind, template.WorkflowKind, variantCount)
		totalInputTokens += inputTokens
		totalOutputTokens += outputTokens
		if totalInputTokens > req.Budget.MaxTotalInputTokens {
			return nil, contracts.NewContractError("input_token_budget_exceeded",
				fmt.Sprintf("input token budget exceeded: %d > %d", totalInputTokens, req.Budget.MaxTotalInputTokens))
		}
		if totalOutputTokens > req.Budget.MaxTotalOutputTokens {
			return nil, contracts.NewContractError("output_token_budget_exceeded",
				fmt.Sprintf("output token budget exceeded: %d > %d", totalOutputTokens, req.Budget.MaxTotalOutputTokens))
		}

		routeReq := routing.Request{
			Capability: routing.CapabilityText,
			Complexity: complexityForKind(node.Kind),
			Quality:    qualityForKind(node.Kind),
			TokensIn:   inputTokens,
			TokensOut:  outputTokens,
		}
		route, cost, rerr := routing.RouteModel(routeReq, routingEnv)
		if rerr != nil {
			return nil, fromRoutingErr(node.NodeID, rerr)
		}
		totalCostUSD += cost

		traces = append(traces, NodeExecutionTrace{
			NodeID: node.NodeID, NodeKind: node.Kind, Route: route,
			EstimatedInputTokens: inputTokens, EstimatedOutputTokens: outputTokens, EstimatedCostUSD: cost,
		})
	}

	if totalCostUSD > req.Budget.MaxCostPerRunUSD {
		return nil, contracts.NewContractError("run_cost_exceeds_budget",
			fmt.Sprintf("estimated run cost $%.4f exceeds max_cost_per_run_usd $%.4f", totalCostUSD, req.Budget.MaxCostPerRunUSD))
	}

	sections := buildSections(template.WorkflowKind, req.CampaignSpine, variantCount)
	findings := buildFindings(template.WorkflowKind, req.CampaignSpine, variantCount, len(sections))
	quality := buildScorecard(template.WorkflowKind, req.CampaignSpine, variantCount, len(sections))

	artifact, aerr := newArtifact(template.WorkflowKind, req.CampaignSpine.CampaignSpineID, sections, findings, quality)
	if aerr != nil {
		return nil, contracts.NewContractError("internal", aerr.Error())
	}

	return &RunResult{
		SchemaVersion:   runSchemaVersion,
		TemplateID:      template.TemplateID,
		GraphID:         template.Graph.GraphID,
		WorkflowKind:    template.WorkflowKind,
		CampaignSpineID: req.CampaignSpine.CampaignSpineID,
		ExecutionOrder:  order,
		Traces:          traces,
		TotalEstimatedInputTokens:  totalInputTokens,
		TotalEstimatedOutputTokens: totalOutputTokens,
		TotalEstimatedCostUSD:      totalCostUSD,
		Artifact:                   artifact,
	}, nil
}
