package quality

import (
	"encoding/json"
	"testing"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/stretchr/testify/assert"
)

func TestSchemaDriftChecks_WellFormedReportPassesAllThree(t *testing.T) {
	report := contracts.Report{
		TotalMetrics: contracts.ReportMetrics{Impressions: 100, Clicks: 10, Cost: 5, Conversions: 1, ConversionValue: 20},
		Campaigns:    []contracts.CampaignReportRow{{CampaignID: "c1", Metrics: contracts.ReportMetrics{Impressions: 100, Clicks: 10}}},
	}
	report.TotalMetrics.DeriveRatios()
	version := "v1"
	checks := SchemaDriftChecks(report, []contracts.Provenance{{ConnectorID: "ads", ValidatedContractVersion: &version}})
	for _, c := range checks {
		assert.True(t, c.Passed, c.Code)
	}
}

func TestSchemaDriftChecks_MissingProvenanceVersionFailsOnlyThatCheck(t *testing.T) {
	report := contracts.Report{TotalMetrics: contracts.ReportMetrics{}}
	checks := SchemaDriftChecks(report, []contracts.Provenance{{ConnectorID: "ads"}})
	byCode := map[string]contracts.QualityCheck{}
	for _, c := range checks {
		byCode[c.Code] = c
	}
	assert.False(t, byCode["schema_provenance_versioned"].Passed)
	assert.True(t, byCode["schema_report_shape_conforms"].Passed)
}

func TestSchemaConformant_RejectsRowMissingMetrics(t *testing.T) {
	malformed := map[string]any{
		"total_metrics": map[string]any{},
		"campaigns":     []any{map[string]any{"campaign_id": "c1"}},
		"ad_groups":     []any{},
		"keywords":      []any{},
	}
	raw, err := json.Marshal(malformed)
	assert.NoError(t, err)
	var doc any
	assert.NoError(t, json.Unmarshal(raw, &doc))
	assert.Error(t, reportSchema.Validate(doc))
}

func TestFreshnessChecks(t *testing.T) {
	checks := FreshnessChecks([]contracts.Provenance{{ConnectorID: "ga4", FreshnessMinutes: 30}, {ConnectorID: "ads", FreshnessMinutes: 120}})
	assert.True(t, checks[0].Passed)
	assert.False(t, checks[1].Passed)
}

func TestBudgetChecks_BlockedEventFailsCheck(t *testing.T) {
	b := contracts.BudgetSummary{
		Envelope:           contracts.BudgetCounters{RetrievalUnits: 10},
		Actuals:            contracts.BudgetCounters{RetrievalUnits: 5},
		HardDailyCapMicros: 10_000_000,
		Events:             []contracts.BudgetEvent{{Outcome: contracts.OutcomeBlocked}},
	}
	checks := BudgetChecks(b)
	assert.False(t, checks[0].Passed)
}

func TestBuildGate_BlocksOnHighSeverityFailure(t *testing.T) {
	qc := contracts.QualityControls{
		SchemaDriftChecks: []contracts.QualityCheck{{Code: "x", Passed: false, Severity: contracts.SeverityHigh}},
	}
	dq := contracts.DefaultDataQualitySummary()
	gate := BuildGate(qc, dq, contracts.BudgetSummary{}, nil, false)
	assert.Equal(t, contracts.GateBlocked, gate.GateStatus)
	assert.False(t, gate.PublishReady)
}

func TestBuildGate_ReadyWhenClean(t *testing.T) {
	gate := BuildGate(contracts.QualityControls{}, contracts.DefaultDataQualitySummary(), contracts.BudgetSummary{}, nil, false)
	assert.Equal(t, contracts.GateReady, gate.GateStatus)
	assert.True(t, gate.PublishReady)
	assert.True(t, gate.ExportReady)
}
