package textworkflow

import (
	"fmt"
	"strings"
)

// requiredSections is the minimum section count a workflow kind must
// produce to be considered complete; ad-variant packs require one
// section per requested variant.
func requiredSections(workflowKind WorkflowKind, variantCount int) int {
	switch workflowKind {
	case KindMessageHouse:
		return 3
	case KindEmailLanding:
		return 3
	case KindAdVariantPack:
		return variantCount
	case KindLaunchKit:
		return 2
	default:
		return 1
	}
}

func firstOr(segments []string, fallback string) string {
	if len(segments) == 0 {
		return fallback
	}
	return segments[0]
}

// buildSections synthesizes the workflow's output sections from the
// campaign spine, mirroring the original mock-generation templates.
func buildSections(workflowKind WorkflowKind, spine CampaignSpine, variantCount int) []Section {
	switch workflowKind {
	case KindMessageHouse:
		pillarTitles := make([]string, 0, len(spine.MessageHouse.Pillars))
		for _, p := range spine.MessageHouse.Pillars {
			pillarTitles = append(pillarTitles, p.Title)
		}
		return []Section{
			{SectionID: "positioning_statement", SectionTitle: "Positioning Statement", Content: spine.PositioningStatement},
			{SectionID: "message_house", SectionTitle: "Message House", Content: fmt.Sprintf(
				"Big idea: %s | pillars: %s", spine.MessageHouse.BigIdea, strings.Join(pillarTitles, ", "))},
			{SectionID: "audience_segments", SectionTitle: "Audience Segments", Content: strings.Join(spine.AudienceSegments, "; ")},
		}
	case KindEmailLanding:
		proofText := make([]string, 0, len(spine.MessageHouse.ProofPoints))
		for _, p := range spine.MessageHouse.ProofPoints {
			proofText = append(proofText, p.ClaimText)
		}
		return []Section{
			{SectionID: "email_1", SectionTitle: "Email 1: Problem and Hook", Content: fmt.Sprintf(
				"Subject: A simpler routine for %s. Body: %s", spine.ProductName, spine.OfferSummary)},
			{SectionID: "email_2", SectionTitle: "Email 2: Proof and Objection Handling", Content: fmt.Sprintf(
				"Proof points: %s", strings.Join(proofText, " | "))},
			{SectionID: "landing_page", SectionTitle: "Landing Page Structure", Content: fmt.Sprintf(
				"Hero for %s with CTA aligned to offer: %s", spine.ProductName, spine.OfferSummary)},
		}
	case KindAdVariantPack:
		segment := firstOr(spine.AudienceSegments, "general audience")
		sections := make([]Section, 0, variantCount)
		for idx := 1; idx <= variantCount; idx++ {
			sections = append(sections, Section{
				SectionID:    fmt.Sprintf("variant_%d", idx),
				SectionTitle: fmt.Sprintf("Ad Variant #%d", idx),
				Content: fmt.Sprintf("Hook %d for %s audience: %s | CTA: Shop now",
					idx, spine.ProductName, segment),
			})
		}
		return sections
	case KindLaunchKit:
		return []Section{
			{SectionID: "launch_spine", SectionTitle: "Launch Campaign Spine", Content: fmt.Sprintf(
				"Positioning: %s | Offer: %s", spine.PositioningStatement, spine.OfferSummary)},
			{SectionID: "channel_matrix", SectionTitle: "Channel Matrix", Content: "Email, landing, ads, and social plans share one message spine"},
		}
	default:
		return nil
	}
}

// buildFindings raises critique findings from missing evidence,
// missing proof points, a section-count shortfall, or (for ad-variant
// packs) a below-recommended variant count.
func buildFindings(workflowKind WorkflowKind, spine CampaignSpine, variantCount, sectionCount int) []Finding {
	var findings []Finding

	if len(spine.EvidenceRefs) == 0 {
		findings = append(findings, Finding{
			Code: "unsupported_high_risk_claim", Severity: SeverityCritical,
			Message: "no evidence_refs provided for claims-sensitive output",
		})
	}
	if len(spine.MessageHouse.ProofPoints) == 0 {
		findings = append(findings, Finding{
			Code: "missing_required_section", Severity: SeverityCritical,
			Message: "message_house.proof_points cannot be empty", SectionID: "message_house",
		})
	}

	required := requiredSections(workflowKind, variantCount)
	if sectionCount < required {
		findings = append(findings, Finding{
			Code: "missing_required_section", Severity: SeverityCritical,
			Message: fmt.Sprintf("workflow requires at least %d sections but produced %d", required, sectionCount),
		})
	}

	if workflowKind == KindAdVariantPack && variantCount < 10 {
		findings = append(findings, Finding{
			Code: "generic_copy", Severity: SeverityMedium,
			Message: "variant_count below recommended threshold (10)",
		})
	}

	return findings
}

// buildScorecard derives the [0,1]-bounded quality scorecard from the
// spine and the sections actually produced.
func buildScorecard(workflowKind WorkflowKind, spine CampaignSpine, variantCount, sectionCount int) Scorecard {
	required := float64(requiredSections(workflowKind, variantCount))
	instructionCoverage := clamp01(minF(float64(sectionCount)/required, 1.0))
	audienceAlignment := clamp01(0.55 + float64(len(spine.AudienceSegments))*0.08)

	var claimsRisk float64
	if len(spine.EvidenceRefs) == 0 {
		claimsRisk = 0.92
	} else {
		claimsRisk = clamp01(0.22 + float64(len(spine.MessageHouse.ProofPoints))*0.03)
	}

	brandVoiceConsistency := 0.52
	if len(spine.MessageHouse.ToneGuide) > 0 {
		brandVoiceConsistency = 0.76
	}

	novelty := 0.63
	if workflowKind == KindAdVariantPack {
		novelty = clamp01(float64(variantCount) / 20.0)
	}

	revisionGain := 0.3
	if len(spine.EvidenceRefs) > 0 {
		revisionGain = 0.64
	}

	return Scorecard{
		InstructionCoverage:   instructionCoverage,
		AudienceAlignment:     audienceAlignment,
		ClaimsRisk:            claimsRisk,
		BrandVoiceConsistency: brandVoiceConsistency,
		Novelty:               novelty,
		RevisionGain:          revisionGain,
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
