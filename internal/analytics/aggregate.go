package analytics

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/codeready-toolchain/tarsy/internal/ingest"
)

type campaignAgg struct {
	name    string
	metrics contracts.ReportMetrics
}

type adGroupAgg struct {
	campaignID string
	name       string
	metrics    contracts.ReportMetrics
}

type keywordAgg struct {
	campaignID string
	adGroupID  string
	keyword    string
	metrics    contracts.ReportMetrics
}

// buildReport rolls up cleaned Google Ads rows into the total, campaign,
// ad-group, and keyword granularities spec.md's data model names. Rows
// are accumulated in an ordered map keyed by ID so the emitted slices
// are insertion-order deterministic across repeated runs over the same
// input, mirroring rows_to_report's BTreeMap rollup.
func buildReport(rows []ingest.GoogleAdsRow, startDate, endDate string) contracts.Report {
	var total contracts.ReportMetrics
	campaigns := orderedmap.New[string, *campaignAgg]()
	adGroups := orderedmap.New[string, *adGroupAgg]()
	keywords := orderedmap.New[string, *keywordAgg]()

	for _, row := range rows {
		line := lineMetrics(row)
		total = sumMetrics(total, line)

		c, ok := campaigns.Get(row.CampaignID)
		if !ok {
			c = &campaignAgg{}
			campaigns.Set(row.CampaignID, c)
		}
		c.name = row.CampaignName
		c.metrics = sumMetrics(c.metrics, line)

		ag, ok := adGroups.Get(row.AdGroupID)
		if !ok {
			ag = &adGroupAgg{}
			adGroups.Set(row.AdGroupID, ag)
		}
		ag.campaignID = row.CampaignID
		ag.name = row.AdGroupName
		ag.metrics = sumMetrics(ag.metrics, line)

		keywordKey := row.AdGroupID + "::" + row.KeywordText
		kw, ok := keywords.Get(keywordKey)
		if !ok {
			kw = &keywordAgg{}
			keywords.Set(keywordKey, kw)
		}
		kw.campaignID = row.CampaignID
		kw.adGroupID = row.AdGroupID
		kw.keyword = row.KeywordText
		kw.metrics = sumMetrics(kw.metrics, line)
	}

	var campaignRows []contracts.CampaignReportRow
	for pair := campaigns.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value.metrics
		m.DeriveRatios()
		campaignRows = append(campaignRows, contracts.CampaignReportRow{
			CampaignID: pair.Key,
			Name:       pair.Value.name,
			Metrics:    m,
		})
	}

	var adGroupRows []contracts.AdGroupReportRow
	for pair := adGroups.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value.metrics
		m.DeriveRatios()
		adGroupRows = append(adGroupRows, contracts.AdGroupReportRow{
			AdGroupID:  pair.Key,
			CampaignID: pair.Value.campaignID,
			Name:       pair.Value.name,
			Metrics:    m,
		})
	}

	var keywordRows []contracts.KeywordReportRow
	for pair := keywords.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value.metrics
		m.DeriveRatios()
		keywordRows = append(keywordRows, contracts.KeywordReportRow{
			Keyword:    pair.Value.keyword,
			AdGroupID:  pair.Value.adGroupID,
			CampaignID: pair.Value.campaignID,
			Metrics:    m,
		})
	}

	total.DeriveRatios()
	return contracts.Report{
		TotalMetrics: total,
		Campaigns:    campaignRows,
		AdGroups:     adGroupRows,
		Keywords:     keywordRows,
	}
}

func lineMetrics(row ingest.GoogleAdsRow) contracts.ReportMetrics {
	cost, _ := row.Cost.Amount.Float64()
	return contracts.ReportMetrics{
		Impressions:     row.Impressions,
		Clicks:          row.Clicks,
		Cost:            cost,
		Conversions:     row.Conversions,
		ConversionValue: row.ConversionValue,
	}
}

func sumMetrics(a, b contracts.ReportMetrics) contracts.ReportMetrics {
	return contracts.ReportMetrics{
		Impressions:     a.Impressions + b.Impressions,
		Clicks:          a.Clicks + b.Clicks,
		Cost:            a.Cost + b.Cost,
		Conversions:     a.Conversions + b.Conversions,
		ConversionValue: a.ConversionValue + b.ConversionValue,
	}
}
