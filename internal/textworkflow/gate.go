package textworkflow

import "fmt"

// ValidateScorecard rejects a scorecard with any field outside [0,1]
// or non-finite, before the weighted gate consults it.
func ValidateScorecard(s Scorecard) error {
	for _, f := range s.fields() {
		if f.value != f.value || f.value < 0.0 || f.value > 1.0 { // f.value != f.value catches NaN
			return fmt.Errorf("%s must be finite and in [0.0, 1.0]", f.name)
		}
	}
	return nil
}

// EvaluateWeightedGate blocks iff any finding is critical (by severity
// or by belonging to the fixed critical-code set) or claims_risk
// crosses 0.8; everything else surfaces as a warning only.
func EvaluateWeightedGate(findings []Finding, scorecard Scorecard) (GateDecision, error) {
	if err := ValidateScorecard(scorecard); err != nil {
		return GateDecision{}, err
	}

	var blocking, warning []string
	for _, f := range findings {
		if f.Severity == SeverityCritical || criticalFindingCodes[f.Code] {
			blocking = append(blocking, fmt.Sprintf("%s: %s", f.Code, f.Message))
		} else {
			warning = append(warning, fmt.Sprintf("%s: %s", f.Code, f.Message))
		}
	}

	if scorecard.ClaimsRisk >= 0.8 {
		blocking = append(blocking, "claims_risk score is above critical threshold (>= 0.8)")
	}
	if scorecard.BrandVoiceConsistency < 0.55 {
		warning = append(warning, "brand_voice_consistency below recommended threshold (0.55)")
	}
	if scorecard.Novelty < 0.45 {
		warning = append(warning, "novelty below recommended threshold (0.45)")
	}

	return GateDecision{
		Blocked:         len(blocking) > 0,
		BlockingReasons: blocking,
		WarningReasons:  warning,
	}, nil
}

// newArtifact assembles the text workflow artifact and evaluates its
// gate decision.
func newArtifact(workflowKind WorkflowKind, campaignSpineID string, sections []Section, findings []Finding, quality Scorecard) (Artifact, error) {
	gate, err := EvaluateWeightedGate(findings, quality)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to build text workflow artifact: %w", err)
	}
	return Artifact{
		SchemaVersion:    artifactSchemaVersion,
		WorkflowKind:     workflowKind,
		CampaignSpineID:  campaignSpineID,
		Sections:         sections,
		CritiqueFindings: findings,
		Quality:          quality,
		GateDecision:     gate,
	}, nil
}
