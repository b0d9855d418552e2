package analytics

import (
	"fmt"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

// buildOperatorSummary produces the narrative layer an operator reads
// first: each narrative restates an already-computed metric in plain
// language and points back at the evidence that backs it, never
// inventing a claim the evidence list doesn't carry.
func buildOperatorSummary(report contracts.Report, evidence []contracts.EvidenceItem) contracts.OperatorSummary {
	evidenceIDs := make([]string, 0, len(evidence))
	for _, e := range evidence {
		evidenceIDs = append(evidenceIDs, e.EvidenceID)
	}

	tm := report.TotalMetrics
	return contracts.OperatorSummary{
		AttributionNarratives: []contracts.KpiAttributionNarrative{
			{
				KPI:             "ctr",
				Narrative:       fmt.Sprintf("CTR is %.2f%% from %d clicks on %d impressions.", tm.CTR, tm.Clicks, tm.Impressions),
				EvidenceRefs:    append([]string(nil), evidenceIDs...),
				ConfidenceLabel: "medium",
			},
			{
				KPI:             "roas",
				Narrative:       fmt.Sprintf("ROAS is %.2f with conversion value %.2f against cost %.2f.", tm.ROAS, tm.ConversionValue, tm.Cost),
				EvidenceRefs:    append([]string(nil), evidenceIDs...),
				ConfidenceLabel: "medium",
			},
		},
	}
}
