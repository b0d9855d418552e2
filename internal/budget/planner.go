package budget

import (
	"time"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

// Plan is the outcome of planning a request's estimate against its
// envelope: the (possibly degraded) estimate, and the flags describing
// what was given up to make it fit.
type Plan struct {
	Estimate         Estimate
	ClippedEnd       time.Time
	Clipped          bool
	Sampled          bool
	IncompleteOutput bool
	SkippedModules   []string
}

// BuildPlan applies the envelope's policy to a request whose full
// estimate does not fit. It never lies about fit: if no degradation
// brings the estimate under every cap, it returns the same
// budget_estimate_exceeds error the fail_closed policy would.
func BuildPlan(req contracts.RunRequest, start, end time.Time) (Plan, *contracts.ContractError) {
	env := req.BudgetEnvelope
	full := EstimateUpperBound(req, start, end, req.IncludeNarratives)
	if full.Fits(env) {
		return Plan{Estimate: full, ClippedEnd: end}, nil
	}

	switch env.Policy {
	case contracts.PolicyFailClosed:
		return Plan{}, estimateExceedsError(full, env)

	case contracts.PolicyDegrade:
		withoutNarratives := EstimateUpperBound(req, start, end, false)
		if withoutNarratives.Fits(env) {
			return Plan{
				Estimate:         withoutNarratives,
				ClippedEnd:       end,
				IncompleteOutput: true,
				SkippedModules:   []string{"narratives"},
			}, nil
		}
		clippedEnd, clippedEstimate, ok := clipWindow(req, start, end, env)
		if !ok {
			return Plan{}, estimateExceedsError(withoutNarratives, env)
		}
		return Plan{
			Estimate:         clippedEstimate,
			ClippedEnd:       clippedEnd,
			Clipped:          true,
			IncompleteOutput: true,
			SkippedModules:   []string{"narratives", "full_window"},
		}, nil

	case contracts.PolicySample:
		clippedEnd, clippedEstimate, ok := clipWindow(req, start, end, env)
		if !ok {
			return Plan{}, estimateExceedsError(full, env)
		}
		return Plan{
			Estimate:         clippedEstimate,
			ClippedEnd:       clippedEnd,
			Clipped:          clippedEnd.Before(end),
			Sampled:          true,
			IncompleteOutput: true,
			SkippedModules:   []string{"narratives", "full_window"},
		}, nil

	default:
		return Plan{}, estimateExceedsError(full, env)
	}
}

// clipWindow shrinks the request's date window down to
// max_retrieval_units / retrieval_units_per_day days (minimum one day)
// and re-estimates without narratives.
func clipWindow(req contracts.RunRequest, start, end time.Time, env contracts.BudgetEnvelope) (time.Time, Estimate, bool) {
	maxDays := env.MaxRetrievalUnits / retrievalUnitsPerDay
	if maxDays < 1 {
		maxDays = 1
	}
	clippedEnd := start.AddDate(0, 0, int(maxDays)-1)
	if clippedEnd.After(end) {
		clippedEnd = end
	}
	estimate := EstimateUpperBound(req, start, clippedEnd, false)
	return clippedEnd, estimate, estimate.Fits(env)
}

func estimateExceedsError(e Estimate, env contracts.BudgetEnvelope) *contracts.ContractError {
	return contracts.NewContractError("budget_estimate_exceeds", "request's estimated cost exceeds its budget envelope").
		WithField("budget_envelope").
		WithContext(map[string]any{
			"estimated_retrieval_units":   e.RetrievalUnits,
			"estimated_analysis_units":    e.AnalysisUnits,
			"estimated_llm_tokens_in":     e.LLMTokensIn,
			"estimated_llm_tokens_out":    e.LLMTokensOut,
			"estimated_total_cost_micros": e.TotalCostMicros,
			"max_retrieval_units":         env.MaxRetrievalUnits,
			"max_analysis_units":          env.MaxAnalysisUnits,
			"max_llm_tokens_in":           env.MaxLLMTokensIn,
			"max_llm_tokens_out":          env.MaxLLMTokensOut,
			"max_total_cost_micros":       env.MaxTotalCostMicros,
		})
}
