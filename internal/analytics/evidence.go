package analytics

import (
	"fmt"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

// buildEvidenceAndGuidance emits the always-present observed evidence
// plus, when narratives are included, the inferred guidance items. The
// two lists are always kept distinct: guidance never carries a value
// without an evidence_refs entry pointing back to what backs it.
func buildEvidenceAndGuidance(report contracts.Report, window string, includeNarratives bool) ([]contracts.EvidenceItem, []contracts.GuidanceItem, []string) {
	impressionsKey := "impressions"
	clicksKey := "clicks"
	evidence := []contracts.EvidenceItem{
		{
			EvidenceID:     "ev_total_impressions",
			Label:          "Total Impressions",
			Value:          fmt.Sprintf("%d", report.TotalMetrics.Impressions),
			SourceClass:    string(contracts.SourceSimulated),
			MetricKey:      &impressionsKey,
			ObservedWindow: &window,
			Notes:          []string{"Deterministic aggregation across the selected date window."},
		},
		{
			EvidenceID:     "ev_total_clicks",
			Label:          "Total Clicks",
			Value:          fmt.Sprintf("%d", report.TotalMetrics.Clicks),
			SourceClass:    string(contracts.SourceSimulated),
			MetricKey:      &clicksKey,
			ObservedWindow: &window,
			Notes:          []string{"Includes every campaign/ad group surviving the request's filters."},
		},
	}

	var guidance []contracts.GuidanceItem
	if includeNarratives {
		roasBasis := "roas_vs_cost_distribution"
		roasBps := int64(6500)
		roasBand := "medium"
		ctrBasis := "ctr_vs_impressions_mix"
		ctrBps := int64(6200)
		ctrBand := "medium"
		guidance = []contracts.GuidanceItem{
			{
				GuidanceID:       "gd_budget_focus",
				Text:             "Prioritize campaigns with above-median ROAS in the next optimization pass.",
				ConfidenceLabel:  "medium",
				EvidenceRefs:     []string{"ev_total_clicks"},
				AttributionBasis: &roasBasis,
				CalibrationBps:   &roasBps,
				CalibrationBand:  &roasBand,
			},
			{
				GuidanceID:       "gd_quality_improve",
				Text:             "Review ad groups with low CTR for creative/keyword alignment.",
				ConfidenceLabel:  "medium",
				EvidenceRefs:     []string{"ev_total_impressions"},
				AttributionBasis: &ctrBasis,
				CalibrationBps:   &ctrBps,
				CalibrationBand:  &ctrBand,
			},
		}
	}

	uncertainty := []string{
		"Dataset is simulated and intended for tool-integration validation only.",
		"Attribution assumptions are simplified for deterministic replay.",
	}
	return evidence, guidance, uncertainty
}
