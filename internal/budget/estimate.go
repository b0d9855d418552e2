package budget

import (
	"time"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

// spanDays returns the inclusive day count between start and end.
func spanDays(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours()/24) + 1
}

// Estimate is the pre-flight upper bound on a run's resource
// consumption, one counter per budget category.
type Estimate struct {
	RetrievalUnits  int64
	AnalysisUnits   int64
	LLMTokensIn     int64
	LLMTokensOut    int64
	TotalCostMicros int64
}

// discountFactor applies a small per-category discount when the caller
// has narrowed the request with a campaign and/or ad-group filter,
// since a filtered run touches fewer rows than the full account.
func discountFactor(req contracts.RunRequest) float64 {
	factor := 1.0
	if req.CampaignFilter != nil && *req.CampaignFilter != "" {
		factor *= 0.9
	}
	if req.AdGroupFilter != nil && *req.AdGroupFilter != "" {
		factor *= 0.95
	}
	return factor
}

// EstimateUpperBound computes the worst-case cost of a request over its
// validated date window, optionally excluding the narrative LLM pass.
func EstimateUpperBound(req contracts.RunRequest, start, end time.Time, includeNarratives bool) Estimate {
	days := spanDays(start, end)
	discount := discountFactor(req)

	retrievalUnits := int64(float64(days*retrievalUnitsPerDay) * discount)
	analysisUnits := int64(float64(days*analysisUnitsPerDay) * discount)

	var llmIn, llmOut int64
	if includeNarratives {
		llmIn = llmTokensInWithNarratives
		llmOut = llmTokensOutWithNarratives
	}

	totalCost := retrievalUnits*costPerRetrievalUnitMicros +
		analysisUnits*costPerAnalysisUnitMicros +
		llmIn*costPerLLMTokenInMicros +
		llmOut*costPerLLMTokenOutMicros

	return Estimate{
		RetrievalUnits:  retrievalUnits,
		AnalysisUnits:   analysisUnits,
		LLMTokensIn:     llmIn,
		LLMTokensOut:    llmOut,
		TotalCostMicros: totalCost,
	}
}

// Fits reports whether the estimate is within every cap of the
// envelope.
func (e Estimate) Fits(env contracts.BudgetEnvelope) bool {
	return e.RetrievalUnits <= env.MaxRetrievalUnits &&
		e.AnalysisUnits <= env.MaxAnalysisUnits &&
		e.LLMTokensIn <= env.MaxLLMTokensIn &&
		e.LLMTokensOut <= env.MaxLLMTokensOut &&
		e.TotalCostMicros <= env.MaxTotalCostMicros
}
