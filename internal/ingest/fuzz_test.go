package ingest

import "testing"

// FuzzParseGA4Event feeds adversarial strings into the row parser to
// confirm it only ever returns a structured error, never panics.
func FuzzParseGA4Event(f *testing.F) {
	f.Add("purchase", "abc", "2026-01-01T00:00:00Z")
	f.Add("", "", "")
	f.Add("\x00\x01", "💥", "not-a-time")
	f.Fuzz(func(t *testing.T, eventName, userID, ts string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("ParseGA4Event panicked: %v", r)
			}
		}()
		_, _, _ = ParseGA4Event(GA4EventRaw{EventName: eventName, UserPseudoID: userID, EventTimestamp: ts})
	})
}

// FuzzParseGoogleAdsRow does the same for the Google Ads row parser,
// whose decimal/currency handling is the most panic-prone surface.
func FuzzParseGoogleAdsRow(f *testing.F) {
	f.Add("c1", "ag1", "2026-01-01", int64(10), int64(2), int64(2_500_000), "USD")
	f.Add("", "", "", int64(-1), int64(-1), int64(-1), "")
	f.Fuzz(func(t *testing.T, campaignID, adGroupID, date string, impressions, clicks, costMicros int64, currency string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("ParseGoogleAdsRow panicked: %v", r)
			}
		}()
		_, _, _ = ParseGoogleAdsRow(GoogleAdsRowRaw{
			CampaignID: campaignID, AdGroupID: adGroupID, Date: date,
			Impressions: impressions, Clicks: clicks, CostMicros: costMicros, Currency: currency,
		})
	})
}

// FuzzParseWixOrder does the same for the Wix order parser.
func FuzzParseWixOrder(f *testing.F) {
	f.Add("o1", "2026-01-01T00:00:00Z", "19.99", "USD")
	f.Add("", "", "", "")
	f.Fuzz(func(t *testing.T, orderID, placedAt, gross, currency string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("ParseWixOrder panicked: %v", r)
			}
		}()
		_, _, _ = ParseWixOrder(WixOrderRaw{OrderID: orderID, PlacedAtUTC: placedAt, GrossAmount: gross, Currency: currency})
	})
}
