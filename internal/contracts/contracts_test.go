package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() RunRequest {
	return RunRequest{
		StartDate:         "2026-01-01",
		EndDate:           "2026-01-02",
		ProfileID:         "small",
		IncludeNarratives: true,
		BudgetEnvelope:    DefaultBudgetEnvelope(),
	}
}

func TestValidateRunRequest_RejectsBadDates(t *testing.T) {
	req := validRequest()
	req.StartDate = "2026/01/01"
	_, _, err := ValidateRunRequest(req)
	require.NotNil(t, err)
	assert.Equal(t, "invalid_start_date", err.Code)
}

func TestValidateRunRequest_RejectsInvertedRange(t *testing.T) {
	req := validRequest()
	req.StartDate = "2026-02-01"
	req.EndDate = "2026-01-01"
	_, _, err := ValidateRunRequest(req)
	require.NotNil(t, err)
	assert.Equal(t, "invalid_date_range", err.Code)
}

func TestValidateRunRequest_DateSpanBoundary(t *testing.T) {
	req := validRequest()
	req.StartDate = "2026-01-01"
	req.EndDate = "2026-04-03" // exactly 93 days inclusive
	_, _, err := ValidateRunRequest(req)
	assert.Nil(t, err)

	req.EndDate = "2026-04-04" // 94 days
	_, _, err = ValidateRunRequest(req)
	require.NotNil(t, err)
	assert.Equal(t, "date_span_exceeded", err.Code)
}

func TestValidateRunRequest_RejectsZeroCap(t *testing.T) {
	req := validRequest()
	req.BudgetEnvelope.MaxRetrievalUnits = 0
	_, _, err := ValidateRunRequest(req)
	require.NotNil(t, err)
	assert.Equal(t, "invalid_budget_envelope", err.Code)
}

func baseArtifact() *Artifact {
	version := "ingest_contract.v1"
	return &Artifact{
		SchemaVersion: SchemaVersionV1,
		Report:        Report{TotalMetrics: ReportMetrics{Impressions: 10, Clicks: 1, CTR: 10}},
		InferredGuidance: []GuidanceItem{
			{GuidanceID: "g1", ConfidenceLabel: "medium"},
		},
		UncertaintyNotes: []string{"simulated data"},
		Provenance: []Provenance{
			{ConnectorID: "simulated", SourceClass: SourceSimulated, ValidatedContractVersion: &version},
		},
		QualityControls: QualityControls{IsHealthy: true},
		DataQuality:     DefaultDataQualitySummary(),
		Budget:          BudgetSummary{HardDailyCapMicros: 10_000_000, DailySpentAfter: 0},
	}
}

func TestValidateArtifact_RejectsHighConfidenceSimulatedGuidance(t *testing.T) {
	a := baseArtifact()
	a.InferredGuidance[0].ConfidenceLabel = "high"
	report := ValidateArtifact(a)
	assert.False(t, report.IsValid)
}

func TestValidateArtifact_HappyPath(t *testing.T) {
	a := baseArtifact()
	report := ValidateArtifact(a)
	assert.True(t, report.IsValid, "%+v", report.Checks)
}
