package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteModel_PaidCallsDisallowedReturnsLocalMock(t *testing.T) {
	route, cost, err := RouteModel(
		Request{Capability: CapabilityText, Complexity: 5, Quality: 5, TokensIn: 100, TokensOut: 100},
		BudgetEnvelope{MaxCostPerRunUSD: 1, RemainingDailyBudgetUSD: 1, HardDailyCapUSD: 1, AllowPaidCalls: false},
	)
	require.Nil(t, err)
	assert.Equal(t, ProviderLocalMock, route.Provider)
	assert.Equal(t, 0.0, cost)
}

func TestRouteModel_PicksCheapestAffordable(t *testing.T) {
	route, _, err := RouteModel(
		Request{Capability: CapabilityText, Complexity: 1, Quality: 1, TokensIn: 100, TokensOut: 100},
		BudgetEnvelope{MaxCostPerRunUSD: 1, RemainingDailyBudgetUSD: 1, HardDailyCapUSD: 1, AllowPaidCalls: true},
	)
	require.Nil(t, err)
	assert.Equal(t, TierNano, route.Tier)
}

func TestRouteModel_RejectsOversizedHardCap(t *testing.T) {
	_, _, err := RouteModel(
		Request{Capability: CapabilityText, Complexity: 1, Quality: 1, TokensIn: 1, TokensOut: 1},
		BudgetEnvelope{MaxCostPerRunUSD: 1, RemainingDailyBudgetUSD: 1, HardDailyCapUSD: 20, AllowPaidCalls: true},
	)
	require.NotNil(t, err)
	assert.Equal(t, "invalid_budget", err.Code)
}

func TestRequiredTier(t *testing.T) {
	assert.Equal(t, TierStandard, RequiredTier(Request{Complexity: 8, Quality: 1}))
	assert.Equal(t, TierMini, RequiredTier(Request{Complexity: 4, Quality: 1}))
	assert.Equal(t, TierNano, RequiredTier(Request{Complexity: 1, Quality: 1}))
}
