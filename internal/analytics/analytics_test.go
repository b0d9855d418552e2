package analytics

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/codeready-toolchain/tarsy/internal/config"
	"github.com/codeready-toolchain/tarsy/internal/connector"
	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Defaults()
	cfg.Budget.LedgerPath = filepath.Join(t.TempDir(), "ledger.json")
	return NewService(cfg, connector.NewSimulated(), nil)
}

func baseRequest(seed *uint64) contracts.RunRequest {
	return contracts.RunRequest{
		StartDate:      "2026-02-01",
		EndDate:        "2026-02-03",
		ProfileID:      "profile-1",
		Seed:           seed,
		BudgetEnvelope: contracts.DefaultBudgetEnvelope(),
	}
}

func seedPtr(v uint64) *uint64 { return &v }

func TestRun_SameRequestAndSeedIsByteStable(t *testing.T) {
	req := baseRequest(seedPtr(42))

	a, aerr := newTestService(t).Run(context.Background(), req, nil)
	require.Nil(t, aerr)
	b, berr := newTestService(t).Run(context.Background(), req, nil)
	require.Nil(t, berr)

	assert.Equal(t, a.Metadata.RunID, b.Metadata.RunID)
	assert.Equal(t, a.Report, b.Report)
	assert.Equal(t, a.QualityControls, b.QualityControls)
	assert.Equal(t, a.DataQuality, b.DataQuality)
}

func TestRun_DerivedSeedIsStableWhenSeedOmitted(t *testing.T) {
	req := baseRequest(nil)

	a, aerr := newTestService(t).Run(context.Background(), req, nil)
	require.Nil(t, aerr)
	b, berr := newTestService(t).Run(context.Background(), req, nil)
	require.Nil(t, berr)

	assert.Equal(t, a.Metadata.RunID, b.Metadata.RunID)
	assert.Equal(t, a.Metadata.Seed, b.Metadata.Seed)
	assert.Equal(t, a.Report, b.Report)
}

func TestRun_PropertyImpressionsAlwaysGteClicksAndRatiosBounded(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		req := baseRequest(seedPtr(seed))
		artifact, aerr := newTestService(t).Run(context.Background(), req, nil)
		require.Nil(t, aerr)

		tm := artifact.Report.TotalMetrics
		assert.GreaterOrEqual(t, tm.Impressions, tm.Clicks, "seed %d", seed)

		for _, r := range []float64{
			artifact.DataQuality.CompletenessRatio,
			artifact.DataQuality.IdentityJoinCoverageRatio,
			artifact.DataQuality.FreshnessPassRatio,
			artifact.DataQuality.ReconciliationPassRatio,
			artifact.DataQuality.CrossSourcePassRatio,
			artifact.DataQuality.BudgetPassRatio,
			artifact.DataQuality.QualityScore,
		} {
			assert.GreaterOrEqual(t, r, 0.0, "seed %d", seed)
			assert.LessOrEqual(t, r, 1.0, "seed %d", seed)
		}
		assert.True(t, artifact.Validation.IsValid, "seed %d", seed)
	}
}

func TestRun_RejectsInvalidBudgetEnvelope(t *testing.T) {
	req := baseRequest(seedPtr(1))
	req.BudgetEnvelope = contracts.BudgetEnvelope{}

	artifact, aerr := newTestService(t).Run(context.Background(), req, nil)
	require.Nil(t, artifact)
	require.NotNil(t, aerr)
	assert.Equal(t, "invalid_budget_envelope", aerr.Code)
}

func TestRun_GateReadyUnderDefaultEnvelope(t *testing.T) {
	req := baseRequest(seedPtr(7))

	artifact, aerr := newTestService(t).Run(context.Background(), req, nil)
	require.Nil(t, aerr)
	assert.Equal(t, contracts.GateReady, artifact.Gate.GateStatus)
	assert.Empty(t, artifact.Gate.BlockingReasons)
}

func TestRun_HistoricalAnalysisUsesSuppliedBaseline(t *testing.T) {
	req := baseRequest(seedPtr(7))
	baseline := []contracts.HistoricalArtifact{
		{RunID: "prior-1", StoredAtUTC: "2026-01-25T00:00:00Z", TotalMetrics: contracts.ReportMetrics{Impressions: 1000, Clicks: 50}},
	}

	artifact, aerr := newTestService(t).Run(context.Background(), req, baseline)
	require.Nil(t, aerr)
	assert.Equal(t, []string{"prior-1"}, artifact.HistoricalAnalysis.BaselineRunIDs)
	assert.NotEmpty(t, artifact.HistoricalAnalysis.PeriodOverPeriodDeltas)
}
