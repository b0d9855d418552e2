// Package budget implements pre-flight cost estimation, policy-based
// degradation planning, a per-category runtime spend guard, and the
// cross-process daily hard-cap ledger.
//
// Per-unit cost rates and daily-unit constants are taken verbatim from
// the original implementation's budget module, since spec.md leaves
// exact rates as an implementation detail.
package budget

const (
	costPerRetrievalUnitMicros = 200
	costPerAnalysisUnitMicros  = 100
	costPerLLMTokenInMicros    = 3
	costPerLLMTokenOutMicros   = 6

	retrievalUnitsPerDay = 128
	analysisUnitsPerDay  = 64

	llmTokensInWithNarratives  = 600
	llmTokensOutWithNarratives = 380

	// HardDailySpendCapMicros is the process-enforced ceiling on
	// cumulative spend per UTC day across all runs ($10).
	HardDailySpendCapMicros = 10_000_000
)
