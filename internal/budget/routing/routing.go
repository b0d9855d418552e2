// Package routing implements the static model-routing catalogue used by
// the text-workflow runtime: given a per-node capability/complexity/
// quality/latency signal and a routing budget envelope, pick the
// cheapest catalogue entry that both meets the tier requirement and
// fits the envelope, grounded verbatim on the original implementation's
// model-routing algorithm.
package routing

import (
	"fmt"
	"math"
	"sort"
)

// Provider is the backing generation provider for a catalogue entry.
type Provider string

const (
	ProviderOpenAI    Provider = "open_ai"
	ProviderGoogle    Provider = "google"
	ProviderLocalMock Provider = "local_mock"
)

// Capability is the kind of content a route can generate.
type Capability string

const (
	CapabilityText  Capability = "text"
	CapabilityImage Capability = "image"
	CapabilityVideo Capability = "video"
)

// Tier is an ordered quality/capability tier; higher tiers satisfy
// lower-tier requirements.
type Tier int

const (
	TierNano Tier = iota
	TierMini
	TierStandard
	TierPremium
)

// EnforcedHardDailyCapUSD is the process-wide ceiling on
// hard_daily_cap_usd a caller may configure, matching the budget
// package's $10 hard cap.
const EnforcedHardDailyCapUSD = 10.0

// Route is one entry in the static model catalogue.
type Route struct {
	Provider             Provider
	Model                string
	Tier                 Tier
	Capability           Capability
	CostPerInputTokenUSD  float64
	CostPerOutputTokenUSD float64
}

// Catalogue is the fixed, static set of routes this process knows
// about. Non-goals explicitly exclude real model routing beyond this
// lookup.
func Catalogue() []Route {
	return []Route{
		{Provider: ProviderLocalMock, Model: "local-mock-text", Tier: TierNano, Capability: CapabilityText},
		{Provider: ProviderOpenAI, Model: "gpt-nano", Tier: TierNano, Capability: CapabilityText, CostPerInputTokenUSD: 0.0000001, CostPerOutputTokenUSD: 0.0000004},
		{Provider: ProviderOpenAI, Model: "gpt-mini", Tier: TierMini, Capability: CapabilityText, CostPerInputTokenUSD: 0.00000015, CostPerOutputTokenUSD: 0.0000006},
		{Provider: ProviderGoogle, Model: "gemini-standard", Tier: TierStandard, Capability: CapabilityText, CostPerInputTokenUSD: 0.0000005, CostPerOutputTokenUSD: 0.0000015},
		{Provider: ProviderOpenAI, Model: "gpt-premium", Tier: TierPremium, Capability: CapabilityText, CostPerInputTokenUSD: 0.000002, CostPerOutputTokenUSD: 0.000006},
		{Provider: ProviderGoogle, Model: "gemini-image-standard", Tier: TierStandard, Capability: CapabilityImage, CostPerInputTokenUSD: 0.000001, CostPerOutputTokenUSD: 0.000002},
		{Provider: ProviderGoogle, Model: "gemini-video-premium", Tier: TierPremium, Capability: CapabilityVideo, CostPerInputTokenUSD: 0.00001, CostPerOutputTokenUSD: 0.00002},
	}
}

// BudgetEnvelope is the routing-specific budget passed to RouteModel.
type BudgetEnvelope struct {
	MaxCostPerRunUSD        float64
	RemainingDailyBudgetUSD float64
	HardDailyCapUSD         float64
	AllowPaidCalls          bool
	AllowedProviders        []string
}

// Error is the structured diagnostic routing returns on failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// Request is one node's routing signal: the capability it needs, its
// complexity/quality requirements (1-10), and its estimated token
// volumes.
type Request struct {
	Capability  Capability
	Complexity  int
	Quality     int
	TokensIn    int64
	TokensOut   int64
}

// RequiredTier maps a request's complexity/quality signal to the
// minimum catalogue tier that can serve it.
func RequiredTier(req Request) Tier {
	if req.Complexity >= 8 || req.Quality >= 9 {
		return TierStandard
	}
	if req.Complexity >= 4 || req.Quality >= 5 {
		return TierMini
	}
	return TierNano
}

func validateBudget(env BudgetEnvelope) *Error {
	if math.IsNaN(env.MaxCostPerRunUSD) || math.IsInf(env.MaxCostPerRunUSD, 0) || env.MaxCostPerRunUSD < 0 {
		return &Error{Code: "invalid_budget", Message: "max_cost_per_run_usd must be finite and non-negative"}
	}
	if math.IsNaN(env.RemainingDailyBudgetUSD) || math.IsInf(env.RemainingDailyBudgetUSD, 0) || env.RemainingDailyBudgetUSD < 0 {
		return &Error{Code: "invalid_budget", Message: "remaining_daily_budget_usd must be finite and non-negative"}
	}
	if env.HardDailyCapUSD > EnforcedHardDailyCapUSD {
		return &Error{Code: "invalid_budget", Message: "hard_daily_cap_usd exceeds the enforced cap"}
	}
	return nil
}

func validateRequest(req Request) *Error {
	if req.Complexity < 1 || req.Complexity > 10 {
		return &Error{Code: "invalid_request", Message: "complexity must be in 1..=10"}
	}
	if req.Quality < 1 || req.Quality > 10 {
		return &Error{Code: "invalid_request", Message: "quality must be in 1..=10"}
	}
	if req.TokensIn <= 0 || req.TokensOut <= 0 {
		return &Error{Code: "invalid_request", Message: "token counts must be nonzero"}
	}
	return nil
}

func estimateCost(route Route, req Request) float64 {
	return float64(req.TokensIn)*route.CostPerInputTokenUSD + float64(req.TokensOut)*route.CostPerOutputTokenUSD
}

func allowed(route Route, providers []string) bool {
	if len(providers) == 0 {
		return true
	}
	for _, p := range providers {
		if Provider(p) == route.Provider {
			return true
		}
	}
	return false
}

func localMockRoute(capability Capability) Route {
	return Route{Provider: ProviderLocalMock, Model: "local-mock-" + string(capability), Tier: TierNano, Capability: capability}
}

// RouteModel selects the cheapest catalogue entry whose tier meets the
// request's requirement and whose estimated cost fits every budget
// bound. If paid calls are disallowed it returns the local-mock route
// unconditionally; if nothing affordable exists it falls back to the
// local mock or returns no_affordable_route if even that capability is
// unavailable.
func RouteModel(req Request, env BudgetEnvelope) (Route, float64, *Error) {
	if err := validateBudget(env); err != nil {
		return Route{}, 0, err
	}
	if err := validateRequest(req); err != nil {
		return Route{}, 0, err
	}

	if !env.AllowPaidCalls {
		return localMockRoute(req.Capability), 0, nil
	}

	requiredTier := RequiredTier(req)
	var candidates []Route
	for _, route := range Catalogue() {
		if route.Capability != req.Capability {
			continue
		}
		if route.Provider == ProviderLocalMock {
			continue
		}
		if route.Tier < requiredTier {
			continue
		}
		if !allowed(route, env.AllowedProviders) {
			continue
		}
		candidates = append(candidates, route)
	}
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := estimateCost(candidates[i], req), estimateCost(candidates[j], req)
		if ci != cj {
			return ci < cj
		}
		return candidates[i].Tier < candidates[j].Tier
	})

	maxAffordable := math.Min(env.MaxCostPerRunUSD, math.Min(env.RemainingDailyBudgetUSD, env.HardDailyCapUSD))
	for _, route := range candidates {
		cost := estimateCost(route, req)
		if cost <= maxAffordable {
			return route, cost, nil
		}
	}

	local := localMockRoute(req.Capability)
	if local.Capability == req.Capability {
		return local, 0, nil
	}
	return Route{}, 0, &Error{Code: "no_affordable_route", Message: "no catalogue route fits the remaining budget"}
}
