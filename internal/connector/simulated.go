package connector

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
	"time"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/codeready-toolchain/tarsy/internal/ingest"
)

const simulatedConnectorID = "mock_analytics_connector_v2"

var campaignNames = []string{"Summer Pet Food Promo", "New Puppy Essentials", "Senior Dog Health", "Organic Cat Treats"}
var adGroupNames = []string{"Dry Food", "Wet Food", "Treats", "Supplements"}
var keywordTexts = []string{"healthy dog food", "grain-free cat food", "best puppy treats", "senior pet vitamins"}

// Simulated is the default deterministic connector: every fetch is a
// pure function of (config, window, seed), so two runs with the same
// inputs byte-for-byte reproduce the same rows.
type Simulated struct{}

func NewSimulated() *Simulated { return &Simulated{} }

func (s *Simulated) Capabilities() Capabilities {
	return Capabilities{
		ConnectorID:        simulatedConnectorID,
		ContractVersion:    ContractVersion,
		SupportsHealthcheck: true,
		Sources: []SourceCapability{
			{SourceSystem: "ga4", Granularity: []string{"hour", "day"}, ReadMode: "simulated"},
			{SourceSystem: "google_ads", Granularity: []string{"day"}, ReadMode: "simulated"},
			{SourceSystem: "wix_storefront", Granularity: []string{"hour", "day"}, ReadMode: "simulated"},
		},
	}
}

func (s *Simulated) Healthcheck(_ context.Context, cfg Config) (HealthStatus, *contracts.ContractError) {
	return healthcheck(simulatedConnectorID, cfg), nil
}

// rngFor expands a uint64 seed into the 32-byte key math/rand/v2's
// ChaCha8 source needs, so the same seed always yields the same
// deterministic stream regardless of call order.
func rngFor(seed uint64, salt string) *mathrand.Rand {
	var seedBytes [8]byte
	binary.BigEndian.PutUint64(seedBytes[:], seed)
	digest := sha256.Sum256(append(seedBytes[:], []byte(salt)...))
	return mathrand.New(mathrand.NewChaCha8(digest))
}

func eachDay(start, end time.Time, fn func(day time.Time, ordinal int)) {
	ordinal := 1
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		fn(d, ordinal)
		ordinal++
	}
}

func (s *Simulated) FetchGA4Events(_ context.Context, _ Config, start, end time.Time, seed uint64) ([]ingest.GA4EventRaw, *contracts.ContractError) {
	var events []ingest.GA4EventRaw
	eachDay(start, end, func(day time.Time, ordinal int) {
		events = append(events, ingest.GA4EventRaw{
			EventName:      "purchase",
			UserPseudoID:   fmt.Sprintf("user_%d_%d", seed%1000, ordinal),
			EventTimestamp: day.Format("2006-01-02") + "T12:00:00Z",
			CampaignID:     "1",
			AdGroupID:      "1.1",
		})
	})
	return events, nil
}

func (s *Simulated) FetchWixOrders(_ context.Context, _ Config, start, end time.Time, seed uint64) ([]ingest.WixOrderRaw, *contracts.ContractError) {
	var orders []ingest.WixOrderRaw
	eachDay(start, end, func(day time.Time, ordinal int) {
		orders = append(orders, ingest.WixOrderRaw{
			OrderID:     fmt.Sprintf("WIX-%d-%d", seed%10_000, ordinal),
			PlacedAtUTC: day.Format("2006-01-02") + "T18:15:00Z",
			GrossAmount: fmt.Sprintf("%.2f", 100.0+float64(ordinal%25)),
			Currency:    "USD",
		})
	})
	return orders, nil
}

func (s *Simulated) FetchWixSessions(_ context.Context, _ Config, start, end time.Time, seed uint64) ([]ingest.WixSessionRaw, *contracts.ContractError) {
	var sessions []ingest.WixSessionRaw
	eachDay(start, end, func(day time.Time, ordinal int) {
		sessions = append(sessions, ingest.WixSessionRaw{
			SessionID:     fmt.Sprintf("wixsess-%d-%d", seed, ordinal),
			StartedAtUTC:  day.Format("2006-01-02") + "T11:00:00Z",
			VisitorID:     fmt.Sprintf("visitor-%d", seed%5000),
			LandingPath:   "/collections/dog-food",
			TrafficSource: "google/cpc",
		})
	})
	return sessions, nil
}

func (s *Simulated) FetchGoogleAdsRows(_ context.Context, _ Config, req contracts.RunRequest, start, end time.Time, seed uint64) ([]ingest.GoogleAdsRowRaw, *contracts.ContractError) {
	rng := rngFor(seed, "google_ads")
	var rows []ingest.GoogleAdsRowRaw

	eachDay(start, end, func(day time.Time, _ int) {
		dateStr := day.Format("2006-01-02")
		for ci, campaignName := range campaignNames {
			if req.CampaignFilter != nil && !containsFold(campaignName, *req.CampaignFilter) {
				continue
			}
			campaignID := fmt.Sprintf("%d", ci+1)

			for ai, adGroupName := range adGroupNames {
				if req.AdGroupFilter != nil && !containsFold(adGroupName, *req.AdGroupFilter) {
					continue
				}
				adGroupID := fmt.Sprintf("%s.%d", campaignID, ai+1)

				for _, keyword := range keywordTexts {
					impressions := int64(100 + rng.IntN(1100))
					maxClicks := impressions / 2
					if maxClicks < 1 {
						maxClicks = 1
					}
					clicks := int64(1 + rng.IntN(int(maxClicks)))
					costMicros := clicks * int64(200_000+rng.IntN(1_100_000))
					conversions := round4(rng.Float64() * (float64(clicks) / 5.0))
					conversionValue := round4(conversions * (10.0 + rng.Float64()*50.0))

					rows = append(rows, ingest.GoogleAdsRowRaw{
						CampaignID:      campaignID,
						CampaignName:    campaignName,
						AdGroupID:       adGroupID,
						AdGroupName:     adGroupName,
						KeywordText:     keyword,
						Date:            dateStr,
						Impressions:     impressions,
						Clicks:          clicks,
						CostMicros:      costMicros,
						Currency:        "USD",
						Conversions:     conversions,
						ConversionValue: conversionValue,
					})
				}
			}
		}
	})

	return rows, nil
}

func round4(v float64) float64 {
	return float64(int64(v*10_000+0.5)) / 10_000
}

func containsFold(haystack, needle string) bool {
	return len(needle) == 0 || indexFold(haystack, needle) >= 0
}

func indexFold(haystack, needle string) int {
	hl, nl := len(haystack), len(needle)
	if nl == 0 || nl > hl {
		return -1
	}
	for i := 0; i+nl <= hl; i++ {
		if equalFold(haystack[i:i+nl], needle) {
			return i
		}
	}
	return -1
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
