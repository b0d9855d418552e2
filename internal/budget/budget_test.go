package budget

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateUpperBound_Fits(t *testing.T) {
	req := contracts.RunRequest{
		ProfileID:         "small",
		IncludeNarratives: true,
		BudgetEnvelope:    contracts.DefaultBudgetEnvelope(),
	}
	start := mustParseDate(t, "2026-01-01")
	end := mustParseDate(t, "2026-01-01")
	est := EstimateUpperBound(req, start, end, true)
	assert.True(t, est.Fits(req.BudgetEnvelope))
}

func TestBuildPlan_FailClosed(t *testing.T) {
	req := contracts.RunRequest{
		ProfileID:         "small",
		IncludeNarratives: true,
		BudgetEnvelope: contracts.BudgetEnvelope{
			MaxRetrievalUnits: 10, MaxAnalysisUnits: 10, MaxLLMTokensIn: 10, MaxLLMTokensOut: 10,
			MaxTotalCostMicros: 10, Policy: contracts.PolicyFailClosed, ProvenanceRef: "p",
		},
	}
	start := mustParseDate(t, "2026-01-01")
	end := mustParseDate(t, "2026-01-01")
	_, err := BuildPlan(req, start, end)
	require.NotNil(t, err)
	assert.Equal(t, "budget_estimate_exceeds", err.Code)
}

func TestBuildPlan_DegradeClips(t *testing.T) {
	req := contracts.RunRequest{
		ProfileID:         "small",
		IncludeNarratives: true,
		BudgetEnvelope: contracts.BudgetEnvelope{
			MaxRetrievalUnits: 256, MaxAnalysisUnits: 100_000, MaxLLMTokensIn: 100_000, MaxLLMTokensOut: 100_000,
			MaxTotalCostMicros: 100_000_000, Policy: contracts.PolicyDegrade, ProvenanceRef: "p",
		},
	}
	start := mustParseDate(t, "2026-01-01")
	end := mustParseDate(t, "2026-01-30") // 30-day window
	plan, err := BuildPlan(req, start, end)
	require.Nil(t, err)
	assert.True(t, plan.Clipped)
	assert.Contains(t, plan.SkippedModules, "full_window")
	assert.True(t, plan.IncompleteOutput)
}

func TestGuard_SpendAppliesAndBlocks(t *testing.T) {
	g := NewGuard(contracts.BudgetEnvelope{MaxRetrievalUnits: 10, MaxAnalysisUnits: 10, MaxLLMTokensIn: 10, MaxLLMTokensOut: 10, MaxTotalCostMicros: 10})
	require.Nil(t, g.Spend("retrieval", CategoryRetrievalUnits, 5))
	err := g.Spend("retrieval", CategoryRetrievalUnits, 6)
	require.NotNil(t, err)
	assert.Equal(t, "budget_exceeded", err.Code)

	_, actuals, remaining, events := g.Summary()
	assert.Equal(t, int64(5), actuals.RetrievalUnits)
	assert.Equal(t, int64(5), remaining.RetrievalUnits)
	require.Len(t, events, 2)
	assert.Equal(t, contracts.OutcomeApplied, events[0].Outcome)
	assert.Equal(t, contracts.OutcomeBlocked, events[1].Outcome)
}

func TestEnforceDailyHardCap_ConcurrentRace(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "ledger.json")
	day := "2026-01-01"

	var wg sync.WaitGroup
	results := make([]bool, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := EnforceDailyHardCap(ledgerPath, day, 3_000_000)
			results[idx] = err == nil
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, 3, succeeded)

	ledger, rerr := readDailyLedger(ledgerPath)
	require.Nil(t, rerr)
	assert.Equal(t, int64(9_000_000), ledger.ByDate[day])
}

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return tm
}
