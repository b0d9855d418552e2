package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGA4Event_TrimsAndValidates(t *testing.T) {
	event, notes, err := ParseGA4Event(GA4EventRaw{
		EventName:      " purchase ",
		UserPseudoID:   "abc123",
		EventTimestamp: "2026-01-01T00:00:00Z",
	})
	require.Nil(t, err)
	assert.Equal(t, "purchase", event.EventName)
	require.Len(t, notes, 1)
	assert.Equal(t, "trim_whitespace", notes[0].RuleID)
}

func TestParseGA4Event_RejectsEmptyAfterTrim(t *testing.T) {
	_, _, err := ParseGA4Event(GA4EventRaw{EventName: "   ", UserPseudoID: "x", EventTimestamp: "2026-01-01T00:00:00Z"})
	require.NotNil(t, err)
	assert.Equal(t, "ingest_empty_required_field", err.Code)
}

func TestParseGA4Event_RejectsBadTimestamp(t *testing.T) {
	_, _, err := ParseGA4Event(GA4EventRaw{EventName: "purchase", UserPseudoID: "x", EventTimestamp: "not-a-time"})
	require.NotNil(t, err)
	assert.Equal(t, "ga4_invalid_timestamp", err.Code)
}

func TestParseGoogleAdsRow_RejectsClicksGreaterThanImpressions(t *testing.T) {
	_, _, err := ParseGoogleAdsRow(GoogleAdsRowRaw{
		CampaignID: "c1", AdGroupID: "ag1", Date: "2026-01-01",
		Impressions: 5, Clicks: 10, CostMicros: 1000000, Currency: "usd",
	})
	require.NotNil(t, err)
	assert.Equal(t, "ads_clicks_gt_impressions", err.Code)
}

func TestParseGoogleAdsRow_NormalizesCurrencyAndCost(t *testing.T) {
	row, notes, err := ParseGoogleAdsRow(GoogleAdsRowRaw{
		CampaignID: "c1", AdGroupID: "ag1", Date: "2026-01-01",
		Impressions: 10, Clicks: 2, CostMicros: 2_500_000, Currency: "usd",
	})
	require.Nil(t, err)
	assert.Equal(t, "USD", row.Cost.Currency)
	assert.Equal(t, "2.5", row.Cost.Amount.String())
	require.Len(t, notes, 1)
	assert.Equal(t, "normalize_currency_code", notes[0].RuleID)
}

func TestParseWixOrder_RejectsBadDecimal(t *testing.T) {
	_, _, err := ParseWixOrder(WixOrderRaw{
		OrderID: "o1", PlacedAtUTC: "2026-01-01T00:00:00Z", GrossAmount: "not-a-number", Currency: "USD",
	})
	require.NotNil(t, err)
	assert.Equal(t, "wix_invalid_decimal", err.Code)
}

func TestWindowCompleteness(t *testing.T) {
	assert.Equal(t, 1.0, WindowCompleteness(0, 0))
	assert.Equal(t, 0.5, WindowCompleteness(10, 5))
	assert.Equal(t, 1.0, WindowCompleteness(10, 20))
}

func TestJoinCoverageRatio(t *testing.T) {
	assert.Equal(t, 1.0, JoinCoverageRatio(0, 0))
	assert.InDelta(t, 0.98, JoinCoverageRatio(100, 98), 1e-9)
}
