package budget

import (
	"fmt"
	"math"
	"sync"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

// Category names a single budget counter. Guard.Spend uses these to
// pick which counter in the envelope/actuals/remaining triple to
// charge.
type Category string

const (
	CategoryRetrievalUnits  Category = "retrieval_units"
	CategoryAnalysisUnits   Category = "analysis_units"
	CategoryLLMTokensIn     Category = "llm_tokens_in"
	CategoryLLMTokensOut    Category = "llm_tokens_out"
	CategoryTotalCostMicros Category = "total_cost_micros"
)

// Guard holds one run's envelope and its live actuals ledger. Spend is
// safe for concurrent use; it either applies the delta and records an
// applied event, or leaves the ledger unchanged and records a blocked
// event.
//
// Arithmetic is checked, not saturating: a spend that would overflow an
// int64 counter returns an explicit budget_overflow error rather than
// silently clamping before the cap comparison runs (see SPEC_FULL.md
// §11, decision 2). Remaining is still computed with saturating subtraction
// since it can never legitimately go negative.
type Guard struct {
	mu       sync.Mutex
	envelope contracts.BudgetEnvelope
	actuals  contracts.BudgetCounters
	events   []contracts.BudgetEvent
}

// NewGuard constructs a Guard for one run's envelope.
func NewGuard(envelope contracts.BudgetEnvelope) *Guard {
	return &Guard{envelope: envelope}
}

func (g *Guard) capFor(cat Category) int64 {
	switch cat {
	case CategoryRetrievalUnits:
		return g.envelope.MaxRetrievalUnits
	case CategoryAnalysisUnits:
		return g.envelope.MaxAnalysisUnits
	case CategoryLLMTokensIn:
		return g.envelope.MaxLLMTokensIn
	case CategoryLLMTokensOut:
		return g.envelope.MaxLLMTokensOut
	case CategoryTotalCostMicros:
		return g.envelope.MaxTotalCostMicros
	}
	return 0
}

func (g *Guard) actualPtr(cat Category) *int64 {
	switch cat {
	case CategoryRetrievalUnits:
		return &g.actuals.RetrievalUnits
	case CategoryAnalysisUnits:
		return &g.actuals.AnalysisUnits
	case CategoryLLMTokensIn:
		return &g.actuals.LLMTokensIn
	case CategoryLLMTokensOut:
		return &g.actuals.LLMTokensOut
	case CategoryTotalCostMicros:
		return &g.actuals.TotalCostMicros
	}
	return nil
}

// Spend attempts to charge units against category on behalf of
// subsystem. On success the actuals ledger is updated and an applied
// event recorded; on failure (cap exceeded, or overflow) the ledger is
// left unchanged and a blocked event is recorded, and an error is
// returned.
func (g *Guard) Spend(subsystem string, cat Category, units int64) *contracts.ContractError {
	g.mu.Lock()
	defer g.mu.Unlock()

	cap := g.capFor(cat)
	cur := g.actualPtr(cat)
	remainingBefore := saturatingSub(cap, *cur)

	sum, overflowed := checkedAdd(*cur, units)
	if overflowed {
		g.events = append(g.events, contracts.BudgetEvent{
			Subsystem: subsystem, Category: string(cat), Attempted: units,
			RemainingBefore: remainingBefore, Outcome: contracts.OutcomeBlocked,
			Message: "spend would overflow the counter",
		})
		return contracts.NewContractError("budget_overflow", fmt.Sprintf("%s spend of %d would overflow", cat, units)).WithField(string(cat))
	}

	if sum > cap {
		g.events = append(g.events, contracts.BudgetEvent{
			Subsystem: subsystem, Category: string(cat), Attempted: units,
			RemainingBefore: remainingBefore, Outcome: contracts.OutcomeBlocked,
			Message: "spend exceeds remaining budget",
		})
		return contracts.NewContractError("budget_exceeded", fmt.Sprintf("%s spend of %d exceeds cap %d", cat, units, cap)).WithField(string(cat))
	}

	*cur = sum
	g.events = append(g.events, contracts.BudgetEvent{
		Subsystem: subsystem, Category: string(cat), Attempted: units,
		RemainingBefore: remainingBefore, Outcome: contracts.OutcomeApplied,
		Message: "applied",
	})
	return nil
}

// Summary snapshots the envelope, actuals, and remaining counters. The
// caller fills in daily-cap and degradation fields.
func (g *Guard) Summary() (envelope, actuals, remaining contracts.BudgetCounters, events []contracts.BudgetEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	env := g.envelope
	envelope = contracts.BudgetCounters{
		RetrievalUnits: env.MaxRetrievalUnits, AnalysisUnits: env.MaxAnalysisUnits,
		LLMTokensIn: env.MaxLLMTokensIn, LLMTokensOut: env.MaxLLMTokensOut,
		TotalCostMicros: env.MaxTotalCostMicros,
	}
	actuals = g.actuals
	remaining = contracts.BudgetCounters{
		RetrievalUnits:  saturatingSub(envelope.RetrievalUnits, actuals.RetrievalUnits),
		AnalysisUnits:   saturatingSub(envelope.AnalysisUnits, actuals.AnalysisUnits),
		LLMTokensIn:     saturatingSub(envelope.LLMTokensIn, actuals.LLMTokensIn),
		LLMTokensOut:    saturatingSub(envelope.LLMTokensOut, actuals.LLMTokensOut),
		TotalCostMicros: saturatingSub(envelope.TotalCostMicros, actuals.TotalCostMicros),
	}
	events = append([]contracts.BudgetEvent(nil), g.events...)
	return
}

func saturatingSub(a, b int64) int64 {
	if b >= a {
		return 0
	}
	return a - b
}

func checkedAdd(a, b int64) (sum int64, overflowed bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	if sum < 0 || sum > math.MaxInt64 {
		return 0, true
	}
	return sum, false
}
