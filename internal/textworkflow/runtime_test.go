package textworkflow

import (
	"strings"
	"testing"

	"github.com/codeready-toolchain/tarsy/internal/budget/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSpine(withEvidence bool) CampaignSpine {
	spine := CampaignSpine{
		CampaignSpineID:      "spine.test.v1",
		ProductName:          "Nature's Diet Raw Mix",
		OfferSummary:         "Save 20% on first order",
		AudienceSegments:     []string{"new puppy owners", "sensitive stomach"},
		PositioningStatement: "Raw-first nutrition with practical prep",
		MessageHouse: MessageHouse{
			BigIdea: "Fresh confidence in every bowl",
			Pillars: []MessagePillar{
				{PillarID: "p1", Title: "Digestive comfort", SupportingPoints: []string{"gentle proteins"}},
			},
			ProofPoints: []ProofPoint{
				{ClaimID: "claim1", ClaimText: "high digestibility blend", EvidenceRefIDs: []string{"ev1"}},
			},
			DoNotSay:  []string{"cure"},
			ToneGuide: []string{"clear", "grounded"},
		},
	}
	if withEvidence {
		spine.EvidenceRefs = []EvidenceRef{
			{EvidenceID: "ev1", SourceRef: "internal.digestibility.v1", Excerpt: "digestibility improved 11% vs baseline"},
		}
	}
	return spine
}

func TestRun_DeterministicRunProducesUnblockedArtifactWithEvidence(t *testing.T) {
	req := RunRequest{
		TemplateID:    TemplateEmailLanding,
		CampaignSpine: sampleSpine(true),
		Budget:        DefaultBudgetEnvelope(),
	}

	result, rerr := Run(req)
	require.Nil(t, rerr)
	assert.Equal(t, "text_workflow_run.v1", result.SchemaVersion)
	assert.NotEmpty(t, result.ExecutionOrder)
	assert.Equal(t, len(result.ExecutionOrder), len(result.Traces))
	assert.False(t, result.Artifact.GateDecision.Blocked)
	for _, trace := range result.Traces {
		assert.Equal(t, routing.ProviderLocalMock, trace.Route.Provider)
	}
}

func TestRun_MissingEvidenceBlocksWeightedGate(t *testing.T) {
	req := RunRequest{
		TemplateID:    TemplateMessageHouse,
		CampaignSpine: sampleSpine(false),
		Budget:        DefaultBudgetEnvelope(),
	}

	result, rerr := Run(req)
	require.Nil(t, rerr)
	assert.True(t, result.Artifact.GateDecision.Blocked)
	found := false
	for _, reason := range result.Artifact.GateDecision.BlockingReasons {
		if strings.Contains(reason, "unsupported_high_risk_claim") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRun_VariantCountBoundsAreEnforced(t *testing.T) {
	variantCount := 31
	req := RunRequest{
		TemplateID:    TemplateAdVariantPack,
		CampaignSpine: sampleSpine(true),
		VariantCount:  &variantCount,
		Budget:        DefaultBudgetEnvelope(),
	}

	result, rerr := Run(req)
	require.Nil(t, result)
	require.NotNil(t, rerr)
	assert.Equal(t, "invalid_variant_count", rerr.Code)
}

func TestRun_UnknownTemplateIDIsRejected(t *testing.T) {
	req := RunRequest{
		TemplateID:    "tpl.does_not_exist.v1",
		CampaignSpine: sampleSpine(true),
		Budget:        DefaultBudgetEnvelope(),
	}

	result, rerr := Run(req)
	require.Nil(t, result)
	require.NotNil(t, rerr)
	assert.Equal(t, "unknown_template_id", rerr.Code)
}

func TestRun_InputTokenBudgetExhaustionFailsBeforeRouting(t *testing.T) {
	budget := DefaultBudgetEnvelope()
	budget.MaxTotalInputTokens = 100

	req := RunRequest{
		TemplateID:    TemplateMessageHouse,
		CampaignSpine: sampleSpine(true),
		Budget:        budget,
	}

	result, rerr := Run(req)
	require.Nil(t, result)
	require.NotNil(t, rerr)
	assert.Equal(t, "input_token_budget_exceeded", rerr.Code)
}

func TestRun_PaidCallsAllowedRoutesToCheapestAffordableTier(t *testing.T) {
	budget := DefaultBudgetEnvelope()
	budget.AllowPaidCalls = true
	budget.MaxCostPerRunUSD = 5.0
	budget.RemainingDailyBudgetUSD = 5.0

	req := RunRequest{
		TemplateID:    TemplateMessageHouse,
		CampaignSpine: sampleSpine(true),
		Budget:        budget,
	}

	result, rerr := Run(req)
	require.Nil(t, rerr)
	foundPaid := false
	for _, trace := range result.Traces {
		if trace.Route.Provider != routing.ProviderLocalMock {
			foundPaid = true
		}
	}
	assert.True(t, foundPaid)
}
