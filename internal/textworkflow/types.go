// Package textworkflow runs prioritized text-generation workflows
// (message houses, email/landing sequences, ad-variant packs, launch
// kits) as deterministic, replayable mock orchestrations: look up a
// template, validate and order its agent graph, estimate per-node
// token cost, route each node through internal/budget/routing, then
// synthesize sections/findings/scorecard and evaluate a weighted
// publish gate. Grounded on
// original_source/.../campaign_orchestration/runtime.rs and
// original_source/.../text_intelligence/mod.rs.
package textworkflow

// WorkflowKind is the supported high-complexity text workflow family.
type WorkflowKind string

const (
	KindMessageHouse   WorkflowKind = "persona_positioning_message_house"
	KindEmailLanding   WorkflowKind = "email_landing_sequence"
	KindAdVariantPack  WorkflowKind = "ad_variant_pack_experiment_plan"
	KindLaunchKit      WorkflowKind = "integrated_launch_campaign_kit"
)

// Severity is a critique finding's severity level.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// criticalFindingCodes always block the weighted gate regardless of
// the severity the finding was raised with.
var criticalFindingCodes = map[string]bool{
	"unsupported_high_risk_claim": true,
	"policy_violation":            true,
	"missing_required_section":    true,
	"internal_inconsistency":      true,
}

// EvidenceRef points at a supporting claim source outside the spine.
type EvidenceRef struct {
	EvidenceID string `json:"evidence_id"`
	SourceRef  string `json:"source_ref"`
	Excerpt    string `json:"excerpt"`
}

// ProofPoint is one substantiated claim backing the message house.
type ProofPoint struct {
	ClaimID        string   `json:"claim_id"`
	ClaimText      string   `json:"claim_text"`
	EvidenceRefIDs []string `json:"evidence_ref_ids,omitempty"`
}

// MessagePillar is one supporting pillar of the big idea.
type MessagePillar struct {
	PillarID         string   `json:"pillar_id"`
	Title            string   `json:"title"`
	SupportingPoints []string `json:"supporting_points,omitempty"`
}

// MessageHouse is the campaign's core positioning narrative.
type MessageHouse struct {
	BigIdea     string          `json:"big_idea"`
	Pillars     []MessagePillar `json:"pillars,omitempty"`
	ProofPoints []ProofPoint    `json:"proof_points,omitempty"`
	DoNotSay    []string        `json:"do_not_say,omitempty"`
	ToneGuide   []string        `json:"tone_guide,omitempty"`
}

// CampaignSpine is the input brief a text workflow generates content
// from: product/offer/audience/positioning/message-house/evidence.
type CampaignSpine struct {
	CampaignSpineID      string        `json:"campaign_spine_id"`
	ProductName          string        `json:"product_name"`
	OfferSummary         string        `json:"offer_summary"`
	AudienceSegments     []string      `json:"audience_segments,omitempty"`
	PositioningStatement string        `json:"positioning_statement"`
	MessageHouse         MessageHouse  `json:"message_house"`
	EvidenceRefs         []EvidenceRef `json:"evidence_refs,omitempty"`
}

// Section is one synthesized content section of the run's artifact.
type Section struct {
	SectionID    string `json:"section_id"`
	SectionTitle string `json:"section_title"`
	Content      string `json:"content"`
}

// Finding is one critique raised against the generated sections.
type Finding struct {
	Code           string   `json:"code"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	SectionID      string   `json:"section_id,omitempty"`
	EvidenceRefIDs []string `json:"evidence_ref_ids,omitempty"`
}

// Scorecard is the [0,1]-bounded quality assessment of one run.
type Scorecard struct {
	InstructionCoverage    float64 `json:"instruction_coverage"`
	AudienceAlignment      float64 `json:"audience_alignment"`
	ClaimsRisk             float64 `json:"claims_risk"`
	BrandVoiceConsistency  float64 `json:"brand_voice_consistency"`
	Novelty                float64 `json:"novelty"`
	RevisionGain           float64 `json:"revision_gain"`
}

// fields returns the scorecard's named [0,1] bounds, in the order the
// weighted gate and its validation walk them.
func (s Scorecard) fields() []struct {
	name  string
	value float64
} {
	return []struct {
		name  string
		value float64
	}{
		{"instruction_coverage", s.InstructionCoverage},
		{"audience_alignment", s.AudienceAlignment},
		{"claims_risk", s.ClaimsRisk},
		{"brand_voice_consistency", s.BrandVoiceConsistency},
		{"novelty", s.Novelty},
		{"revision_gain", s.RevisionGain},
	}
}

// GateDecision is the weighted publish/export-style gate's verdict.
type GateDecision struct {
	Blocked         bool     `json:"blocked"`
	BlockingReasons []string `json:"blocking_reasons,omitempty"`
	WarningReasons  []string `json:"warning_reasons,omitempty"`
}

// Artifact is the text workflow's synthesized content plus its
// critique and gate verdict, independent of routing/cost bookkeeping.
type Artifact struct {
	SchemaVersion     string       `json:"schema_version"`
	WorkflowKind      WorkflowKind `json:"workflow_kind"`
	CampaignSpineID   string       `json:"campaign_spine_id"`
	Sections          []Section    `json:"sections"`
	CritiqueFindings  []Finding    `json:"critique_findings"`
	Quality           Scorecard    `json:"quality"`
	GateDecision      GateDecision `json:"gate_decision"`
}

const artifactSchemaVersion = "text_workflow_artifact.v1"

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
