// Package quality builds the five quality-check families
// (schema-drift, identity-resolution, freshness-SLA, cross-source,
// budget), derives
// the weighted data-quality score, and evaluates the publish/export
// gate, grounded on the original contract shapes and the teacher's
// collect-named-checks-then-derive validator idiom.
package quality

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	identityCoverageThreshold     = 0.98
	reconciliationEpsilon         = 0.01
	freshnessSLAMinutes           = 60
)

// reportSchemaDoc is the canonical shape a Report must satisfy before
// it is trusted downstream: all four top-level fields are present and
// every metrics row carries the full ReportMetrics field set (a nil row
// slice, which marshals as null, is accepted as empty). Provenance is
// not part of the schema. Compiled once at package init so a malformed
// schema fails fast rather than on the first report.
const reportSchemaDoc = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["total_metrics", "campaigns", "ad_groups", "keywords"],
	"properties": {
		"total_metrics": {"$ref": "#/$defs/metrics"},
		"campaigns": {"type": ["array", "null"], "items": {"$ref": "#/$defs/row"}},
		"ad_groups": {"type": ["array", "null"], "items": {"$ref": "#/$defs/row"}},
		"keywords": {"type": ["array", "null"], "items": {"$ref": "#/$defs/row"}}
	},
	"$defs": {
		"metrics": {
			"type": "object",
			"required": ["impressions", "clicks", "cost", "conversions", "conversion_value", "ctr", "cpc", "cpa", "roas"],
			"properties": {
				"impressions": {"type": "number"},
				"clicks": {"type": "number"},
				"cost": {"type": "number"},
				"conversions": {"type": "number"},
				"conversion_value": {"type": "number"},
				"ctr": {"type": "number"},
				"cpc": {"type": "number"},
				"cpa": {"type": "number"},
				"roas": {"type": "number"}
			}
		},
		"row": {
			"type": "object",
			"required": ["metrics"],
			"properties": {
				"metrics": {"$ref": "#/$defs/metrics"}
			}
		}
	}
}`

var reportSchema = mustCompileReportSchema()

func mustCompileReportSchema() *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(reportSchemaDoc), &doc); err != nil {
		panic(fmt.Errorf("quality: invalid embedded report schema: %w", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("report.json", doc); err != nil {
		panic(fmt.Errorf("quality: add report schema resource: %w", err))
	}
	schema, err := c.Compile("report.json")
	if err != nil {
		panic(fmt.Errorf("quality: compile report schema: %w", err))
	}
	return schema
}

// schemaConformant marshals the report to JSON and validates it
// against reportSchema, catching structural drift (a missing field, a
// row with no metrics) that per-field finiteness checks alone miss.
func schemaConformant(report contracts.Report) bool {
	raw, err := json.Marshal(report)
	if err != nil {
		return false
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	return reportSchema.Validate(doc) == nil
}

func check(code string, passed bool, severity contracts.Severity, observed, expected float64) contracts.QualityCheck {
	return contracts.QualityCheck{Code: code, Passed: passed, Severity: severity, Observed: observed, Expected: expected}
}

// SchemaDriftChecks verifies required fields were present and every
// metric is finite, and that every provenance entry carries a
// validated contract version.
func SchemaDriftChecks(report contracts.Report, provenance []contracts.Provenance) []contracts.QualityCheck {
	allFinite := true
	for _, c := range append(append(campaignMetrics(report), adGroupMetrics(report)...), keywordMetrics(report)...) {
		if !isFinite(c) {
			allFinite = false
			break
		}
	}
	versioned := true
	for _, p := range provenance {
		if p.ValidatedContractVersion == nil || *p.ValidatedContractVersion == "" {
			versioned = false
			break
		}
	}
	conformant := schemaConformant(report)
	return []contracts.QualityCheck{
		check("schema_metrics_finite", allFinite, contracts.SeverityHigh, boolF(allFinite), 1),
		check("schema_provenance_versioned", versioned, contracts.SeverityHigh, boolF(versioned), 1),
		check("schema_report_shape_conforms", conformant, contracts.SeverityHigh, boolF(conformant), 1),
	}
}

func campaignMetrics(r contracts.Report) []float64 {
	var out []float64
	for _, c := range r.Campaigns {
		out = append(out, c.Metrics.Cost, c.Metrics.Conversions, c.Metrics.ConversionValue, c.Metrics.CTR, c.Metrics.CPC, c.Metrics.CPA, c.Metrics.ROAS)
	}
	return out
}
func adGroupMetrics(r contracts.Report) []float64 {
	var out []float64
	for _, c := range r.AdGroups {
		out = append(out, c.Metrics.Cost, c.Metrics.Conversions, c.Metrics.ConversionValue)
	}
	return out
}
func keywordMetrics(r contracts.Report) []float64 {
	var out []float64
	for _, c := range r.Keywords {
		out = append(out, c.Metrics.Cost, c.Metrics.Conversions, c.Metrics.ConversionValue)
	}
	return out
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// IdentityResolutionChecks verifies ad-group→campaign and
// keyword→ad-group coverage ratios and campaign-rollup reconciliation
// within epsilon.
func IdentityResolutionChecks(report contracts.Report, adGroupJoinRatio, keywordJoinRatio float64) []contracts.QualityCheck {
	reconciledCost := math.Abs(sumCampaignCost(report) - report.TotalMetrics.Cost) <= reconciliationEpsilon
	reconciledValue := math.Abs(sumCampaignValue(report) - report.TotalMetrics.ConversionValue) <= reconciliationEpsilon
	return []contracts.QualityCheck{
		check("identity_ad_group_to_campaign_coverage", adGroupJoinRatio >= identityCoverageThreshold, contracts.SeverityHigh, adGroupJoinRatio, identityCoverageThreshold),
		check("identity_keyword_to_ad_group_coverage", keywordJoinRatio >= identityCoverageThreshold, contracts.SeverityHigh, keywordJoinRatio, identityCoverageThreshold),
		check("identity_campaign_rollup_reconciles_cost", reconciledCost, contracts.SeverityMedium, boolF(reconciledCost), 1),
		check("identity_campaign_rollup_reconciles_value", reconciledValue, contracts.SeverityMedium, boolF(reconciledValue), 1),
	}
}

func sumCampaignCost(r contracts.Report) float64 {
	var sum float64
	for _, c := range r.Campaigns {
		sum += c.Metrics.Cost
	}
	return sum
}
func sumCampaignValue(r contracts.Report) float64 {
	var sum float64
	for _, c := range r.Campaigns {
		sum += c.Metrics.ConversionValue
	}
	return sum
}

// FreshnessChecks emits one medium-severity check per provenance
// source, passed iff freshness_minutes <= 60.
func FreshnessChecks(provenance []contracts.Provenance) []contracts.QualityCheck {
	out := make([]contracts.QualityCheck, 0, len(provenance))
	for _, p := range provenance {
		passed := p.FreshnessMinutes <= freshnessSLAMinutes
		out = append(out, check("freshness_"+p.ConnectorID, passed, contracts.SeverityMedium, float64(p.FreshnessMinutes), freshnessSLAMinutes))
	}
	return out
}

// CrossSourceChecks verifies that GA4 events (an independent analytics
// source) reference campaign IDs actually present in the Google Ads
// extraction, catching connector drift between the two source systems
// rather than relying on either source alone.
func CrossSourceChecks(ga4CampaignIDs []string, adsCampaignIDs map[string]bool) []contracts.QualityCheck {
	if len(ga4CampaignIDs) == 0 {
		return []contracts.QualityCheck{
			check("cross_source_ga4_campaign_ids_known", true, contracts.SeverityMedium, 1, 1),
		}
	}
	known := 0
	for _, id := range ga4CampaignIDs {
		if adsCampaignIDs[id] {
			known++
		}
	}
	ratio := float64(known) / float64(len(ga4CampaignIDs))
	return []contracts.QualityCheck{
		check("cross_source_ga4_campaign_ids_known", ratio >= identityCoverageThreshold, contracts.SeverityMedium, ratio, identityCoverageThreshold),
	}
}

// BudgetChecks verifies no blocked event occurred, every counter is
// within its cap, and daily spend stays within the hard cap.
func BudgetChecks(b contracts.BudgetSummary) []contracts.QualityCheck {
	noBlocked := true
	for _, ev := range b.Events {
		if ev.Outcome == contracts.OutcomeBlocked {
			noBlocked = false
			break
		}
	}
	withinCaps := b.Actuals.RetrievalUnits <= b.Envelope.RetrievalUnits &&
		b.Actuals.AnalysisUnits <= b.Envelope.AnalysisUnits &&
		b.Actuals.LLMTokensIn <= b.Envelope.LLMTokensIn &&
		b.Actuals.LLMTokensOut <= b.Envelope.LLMTokensOut &&
		b.Actuals.TotalCostMicros <= b.Envelope.TotalCostMicros
	withinDailyCap := b.DailySpentAfter <= b.HardDailyCapMicros

	return []contracts.QualityCheck{
		check("budget_no_blocked_events", noBlocked, contracts.SeverityHigh, boolF(noBlocked), 1),
		check("budget_actuals_within_caps", withinCaps, contracts.SeverityHigh, boolF(withinCaps), 1),
		check("budget_daily_within_hard_cap", withinDailyCap, contracts.SeverityHigh, boolF(withinDailyCap), 1),
	}
}

// IsHealthy is true iff every check in every family passed.
func IsHealthy(qc contracts.QualityControls) bool {
	for _, c := range qc.AllChecks() {
		if !c.Passed {
			return false
		}
	}
	return true
}

// WeightedDataQuality rolls up the individual ratio inputs into a
// single quality_score using spec.md's weights: completeness 30%,
// identity 25%, freshness 15%, reconciliation 15%, budget 15%.
func WeightedDataQuality(completeness, identity, freshness, reconciliation, budget, crossSource float64) contracts.DataQualitySummary {
	score := completeness*0.30 + identity*0.25 + freshness*0.15 + reconciliation*0.15 + budget*0.15
	return contracts.DataQualitySummary{
		CompletenessRatio:         completeness,
		IdentityJoinCoverageRatio: identity,
		FreshnessPassRatio:        freshness,
		ReconciliationPassRatio:   reconciliation,
		CrossSourcePassRatio:      crossSource,
		BudgetPassRatio:           budget,
		QualityScore:              score,
	}
}
