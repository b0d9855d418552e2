package historyreader

import (
	"testing"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artifact(runID, storedAt string, impressions, clicks int64) contracts.HistoricalArtifact {
	return contracts.HistoricalArtifact{
		RunID:       runID,
		StoredAtUTC: storedAt,
		TotalMetrics: contracts.ReportMetrics{
			Impressions: impressions,
			Clicks:      clicks,
		},
	}
}

func TestBuild_NoHistoryCapsConfidenceAtMedium(t *testing.T) {
	out := Build(contracts.ReportMetrics{Impressions: 500}, nil)
	assert.Equal(t, int64(0), out.ConfidenceCalibration.SampleCount)
	assert.Equal(t, "medium", out.ConfidenceCalibration.RecommendedConfidenceCap)
	assert.Empty(t, out.PeriodOverPeriodDeltas)
}

func TestBuild_EmitsPeriodDeltaAndCalibration(t *testing.T) {
	current := contracts.ReportMetrics{Impressions: 500, Clicks: 45}
	history := []contracts.HistoricalArtifact{
		artifact("old1", "2026-02-04T00:00:00Z", 300, 30),
		artifact("old2", "2026-02-04T00:00:00Z", 320, 35),
	}

	out := Build(current, history)

	require.NotEmpty(t, out.PeriodOverPeriodDeltas)
	assert.Equal(t, int64(2), out.ConfidenceCalibration.SampleCount)
	assert.Equal(t, "low", out.ConfidenceCalibration.RecommendedConfidenceCap)
}

func TestBuild_UsesMostRecentRunAsBaselineForDeltas(t *testing.T) {
	current := contracts.ReportMetrics{Impressions: 100}
	history := []contracts.HistoricalArtifact{
		artifact("older", "2026-01-01T00:00:00Z", 10, 0),
		artifact("newest", "2026-02-01T00:00:00Z", 50, 0),
	}

	out := Build(current, history)

	var impressionsDelta *contracts.KpiDelta
	for i := range out.PeriodOverPeriodDeltas {
		if out.PeriodOverPeriodDeltas[i].MetricKey == "impressions" {
			impressionsDelta = &out.PeriodOverPeriodDeltas[i]
		}
	}
	require.NotNil(t, impressionsDelta)
	assert.Equal(t, 50.0, impressionsDelta.BaselineValue)
	assert.Equal(t, "newest", out.BaselineRunIDs[0])
}

func TestBuild_FlagsHighDriftAsAnomaly(t *testing.T) {
	current := contracts.ReportMetrics{Impressions: 10_000}
	history := make([]contracts.HistoricalArtifact, 0, 8)
	for i := 0; i < 8; i++ {
		history = append(history, artifact("h", "2026-01-0"+string(rune('1'+i))+"T00:00:00Z", 100+int64(i%2)*10, 10))
	}

	out := Build(current, history)

	require.NotEmpty(t, out.AnomalyFlags)
	assert.Equal(t, "impressions", out.AnomalyFlags[0].MetricKey)
}

func TestBuild_ConfidenceCapMediumRequiresEightSamplesAndNoAnomalies(t *testing.T) {
	current := contracts.ReportMetrics{Impressions: 105, Clicks: 10}
	history := make([]contracts.HistoricalArtifact, 0, 8)
	for i := 0; i < 8; i++ {
		history = append(history, artifact("h", "2026-01-0"+string(rune('1'+i))+"T00:00:00Z", 100, 10))
	}

	out := Build(current, history)

	assert.Equal(t, "medium", out.ConfidenceCalibration.RecommendedConfidenceCap)
}
