package contracts

// BudgetPolicy is the degradation strategy applied when a request's
// estimated cost does not fit its envelope.
type BudgetPolicy string

const (
	PolicyFailClosed BudgetPolicy = "fail_closed"
	PolicyDegrade    BudgetPolicy = "degrade"
	PolicySample     BudgetPolicy = "sample"
)

// BudgetEnvelope is the caller-supplied set of five positive spend caps
// plus the policy to apply when the estimate does not fit.
type BudgetEnvelope struct {
	MaxRetrievalUnits int64        `json:"max_retrieval_units"`
	MaxAnalysisUnits  int64        `json:"max_analysis_units"`
	MaxLLMTokensIn    int64        `json:"max_llm_tokens_in"`
	MaxLLMTokensOut   int64        `json:"max_llm_tokens_out"`
	MaxTotalCostMicros int64       `json:"max_total_cost_micros"`
	Policy            BudgetPolicy `json:"policy"`
	ProvenanceRef     string       `json:"provenance_ref"`
}

// DefaultBudgetEnvelope matches the original implementation's default
// envelope (budget.default.v1), used when a caller does not specify one.
func DefaultBudgetEnvelope() BudgetEnvelope {
	return BudgetEnvelope{
		MaxRetrievalUnits:  20_000,
		MaxAnalysisUnits:   10_000,
		MaxLLMTokensIn:     15_000,
		MaxLLMTokensOut:    8_000,
		MaxTotalCostMicros: 50_000_000,
		Policy:             PolicyFailClosed,
		ProvenanceRef:      "budget.default.v1",
	}
}

// RunRequest is the caller-submitted analytics run request.
type RunRequest struct {
	StartDate         string         `json:"start_date"`
	EndDate           string         `json:"end_date"`
	CampaignFilter    *string        `json:"campaign_filter,omitempty"`
	AdGroupFilter     *string        `json:"ad_group_filter,omitempty"`
	Seed              *uint64        `json:"seed,omitempty"`
	ProfileID         string         `json:"profile_id"`
	IncludeNarratives bool           `json:"include_narratives"`
	BudgetEnvelope    BudgetEnvelope `json:"budget_envelope"`
}

// ReportMetrics is the set of base and derived metrics tracked at every
// aggregation granularity.
type ReportMetrics struct {
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	Cost            float64 `json:"cost"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversions_value"`
	CTR             float64 `json:"ctr"`
	CPC             float64 `json:"cpc"`
	CPA             float64 `json:"cpa"`
	ROAS            float64 `json:"roas"`
}

// DeriveRatios fills CTR/CPC/CPA/ROAS from the base metrics, following
// spec.md's exact formulas.
func (m *ReportMetrics) DeriveRatios() {
	if m.Impressions > 0 {
		m.CTR = (float64(m.Clicks) / float64(m.Impressions)) * 100.0
	} else {
		m.CTR = 0
	}
	if m.Clicks > 0 {
		m.CPC = m.Cost / float64(m.Clicks)
	} else {
		m.CPC = 0
	}
	if m.Conversions > 0 {
		m.CPA = m.Cost / m.Conversions
	} else {
		m.CPA = 0
	}
	if m.Cost > 0 {
		m.ROAS = m.ConversionValue / m.Cost
	} else {
		m.ROAS = 0
	}
}

// CampaignReportRow, AdGroupReportRow, KeywordReportRow mirror the
// aggregation granularities named in spec.md's data model.
type CampaignReportRow struct {
	CampaignID string        `json:"campaign_id"`
	Name       string        `json:"name"`
	Metrics    ReportMetrics `json:"metrics"`
}

type AdGroupReportRow struct {
	AdGroupID  string        `json:"ad_group_id"`
	CampaignID string        `json:"campaign_id"`
	Name       string        `json:"name"`
	Metrics    ReportMetrics `json:"metrics"`
}

type KeywordReportRow struct {
	Keyword    string        `json:"keyword"`
	AdGroupID  string        `json:"ad_group_id"`
	CampaignID string        `json:"campaign_id"`
	Metrics    ReportMetrics `json:"metrics"`
}

// Report is the full aggregation emitted by the analytics orchestrator:
// total plus per-granularity rows, in deterministic insertion order.
type Report struct {
	TotalMetrics ReportMetrics        `json:"total_metrics"`
	Campaigns    []CampaignReportRow  `json:"campaigns"`
	AdGroups     []AdGroupReportRow   `json:"ad_groups"`
	Keywords     []KeywordReportRow   `json:"keywords"`
}

// SourceClass classifies where a provenance row's data came from.
type SourceClass string

const (
	SourceObserved           SourceClass = "observed"
	SourceScrapedFirstParty  SourceClass = "scraped_first_party"
	SourceSimulated          SourceClass = "simulated"
	SourceConnectorDerived   SourceClass = "connector_derived"
)

// Provenance records, for one source, where its rows came from and how
// trustworthy they currently are.
type Provenance struct {
	ConnectorID               string      `json:"connector_id"`
	SourceClass               SourceClass `json:"source_class"`
	SourceSystem               string      `json:"source_system"`
	CollectedAtUTC             string      `json:"collected_at_utc"`
	FreshnessMinutes           int64       `json:"freshness_minutes"`
	ValidatedContractVersion   *string     `json:"validated_contract_version,omitempty"`
	RejectedRowsCount          int64       `json:"rejected_rows_count"`
	CleaningNoteCount          int64       `json:"cleaning_note_count"`
}

// EvidenceItem is one observed data point supporting a guidance item.
type EvidenceItem struct {
	EvidenceID      string   `json:"evidence_id"`
	Label           string   `json:"label"`
	Value           string   `json:"value"`
	SourceClass     string   `json:"source_class"`
	MetricKey       *string  `json:"metric_key,omitempty"`
	ObservedWindow  *string  `json:"observed_window,omitempty"`
	ComparatorValue *string  `json:"comparator_value,omitempty"`
	Notes           []string `json:"notes"`
}

// GuidanceItem is one inferred recommendation, always distinct from
// evidence items and never merged with them.
type GuidanceItem struct {
	GuidanceID        string   `json:"guidance_id"`
	Text              string   `json:"text"`
	ConfidenceLabel   string   `json:"confidence_label"`
	EvidenceRefs      []string `json:"evidence_refs"`
	AttributionBasis  *string  `json:"attribution_basis,omitempty"`
	CalibrationBps    *int64   `json:"calibration_bps,omitempty"`
	CalibrationBand   *string  `json:"calibration_band,omitempty"`
}

// BudgetEventOutcome is whether a metered spend attempt was applied or
// blocked by the envelope.
type BudgetEventOutcome string

const (
	OutcomeApplied BudgetEventOutcome = "applied"
	OutcomeBlocked BudgetEventOutcome = "blocked"
)

// BudgetEvent is one metered spend attempt, recorded regardless of
// outcome.
type BudgetEvent struct {
	Subsystem       string             `json:"subsystem"`
	Category        string             `json:"category"`
	Attempted       int64              `json:"attempted"`
	RemainingBefore int64              `json:"remaining_before"`
	Outcome         BudgetEventOutcome `json:"outcome"`
	Message         string             `json:"message"`
}

// BudgetCounters is the five-category ledger shape shared by envelope,
// actuals, remaining, and estimated views.
type BudgetCounters struct {
	RetrievalUnits int64 `json:"retrieval_units"`
	AnalysisUnits  int64 `json:"analysis_units"`
	LLMTokensIn    int64 `json:"llm_tokens_in"`
	LLMTokensOut   int64 `json:"llm_tokens_out"`
	TotalCostMicros int64 `json:"total_cost_micros"`
}

// BudgetSummary is the full budget accounting attached to an artifact.
type BudgetSummary struct {
	Envelope           BudgetCounters `json:"envelope"`
	Actuals            BudgetCounters `json:"actuals"`
	Remaining          BudgetCounters `json:"remaining"`
	Estimated          BudgetCounters `json:"estimated"`
	HardDailyCapMicros int64          `json:"hard_daily_cap_micros"`
	DailySpentBefore   int64          `json:"daily_spent_before_micros"`
	DailySpentAfter    int64          `json:"daily_spent_after_micros"`
	Clipped            bool           `json:"clipped"`
	Sampled            bool           `json:"sampled"`
	IncompleteOutput   bool           `json:"incomplete_output"`
	SkippedModules     []string       `json:"skipped_modules"`
	Events             []BudgetEvent  `json:"events"`
}

// Severity is the blocking weight of a quality check.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// QualityCheck is one named pass/fail assertion with observed/expected
// context for display.
type QualityCheck struct {
	Code     string   `json:"code"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Observed float64  `json:"observed"`
	Expected float64  `json:"expected"`
}

// QualityControls groups the five check families and derives a single
// health flag from their conjunction.
type QualityControls struct {
	SchemaDriftChecks         []QualityCheck `json:"schema_drift_checks"`
	IdentityResolutionChecks  []QualityCheck `json:"identity_resolution_checks"`
	FreshnessSLAChecks        []QualityCheck `json:"freshness_sla_checks"`
	CrossSourceChecks         []QualityCheck `json:"cross_source_checks"`
	BudgetChecks              []QualityCheck `json:"budget_checks"`
	IsHealthy                 bool           `json:"is_healthy"`
}

// AllChecks returns every check across all five families, in family
// order, for code that needs to reason about the full set.
func (q QualityControls) AllChecks() []QualityCheck {
	out := make([]QualityCheck, 0, len(q.SchemaDriftChecks)+len(q.IdentityResolutionChecks)+len(q.FreshnessSLAChecks)+len(q.CrossSourceChecks)+len(q.BudgetChecks))
	out = append(out, q.SchemaDriftChecks...)
	out = append(out, q.IdentityResolutionChecks...)
	out = append(out, q.FreshnessSLAChecks...)
	out = append(out, q.CrossSourceChecks...)
	out = append(out, q.BudgetChecks...)
	return out
}

// DataQualitySummary is the weighted-ratio rollup of quality signals,
// each bounded to [0,1].
type DataQualitySummary struct {
	CompletenessRatio        float64 `json:"completeness_ratio"`
	IdentityJoinCoverageRatio float64 `json:"identity_join_coverage_ratio"`
	FreshnessPassRatio       float64 `json:"freshness_pass_ratio"`
	ReconciliationPassRatio  float64 `json:"reconciliation_pass_ratio"`
	CrossSourcePassRatio     float64 `json:"cross_source_pass_ratio"`
	BudgetPassRatio          float64 `json:"budget_pass_ratio"`
	QualityScore             float64 `json:"quality_score"`
}

// DefaultDataQualitySummary mirrors the original's Default impl: every
// ratio defaults to perfect (1.0).
func DefaultDataQualitySummary() DataQualitySummary {
	return DataQualitySummary{1, 1, 1, 1, 1, 1, 1}
}

// GateStatus is the three-way publish/export decision.
type GateStatus string

const (
	GateReady           GateStatus = "ready"
	GateReviewRequired  GateStatus = "review_required"
	GateBlocked         GateStatus = "blocked"
)

// PublishExportGate is the single truth about whether an artifact may
// leave the system.
type PublishExportGate struct {
	PublishReady   bool       `json:"publish_ready"`
	ExportReady    bool       `json:"export_ready"`
	GateStatus     GateStatus `json:"gate_status"`
	BlockingReasons []string  `json:"blocking_reasons"`
	WarningReasons  []string  `json:"warning_reasons"`
}

// Attestation binds a run's connector configuration fingerprint to its
// run/artifact identity, optionally signed.
type Attestation struct {
	ConnectorModeEffective   string  `json:"connector_mode_effective"`
	ConnectorConfigFingerprint string `json:"connector_config_fingerprint"`
	FingerprintAlg           string  `json:"fingerprint_alg"`
	FingerprintInputSchema   string  `json:"fingerprint_input_schema"`
	FingerprintCreatedAt     string  `json:"fingerprint_created_at"`
	RuntimeBuild             string  `json:"runtime_build"`
	FingerprintSaltID        *string `json:"fingerprint_salt_id,omitempty"`
	FingerprintSignature     *string `json:"fingerprint_signature,omitempty"`
	FingerprintKeyID         *string `json:"fingerprint_key_id,omitempty"`
}

// ValidationCheck is one named check in the artifact validation report.
type ValidationCheck struct {
	Code    string `json:"code"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// ValidationReport is the full artifact-invariant check report: the
// conjunction of every named check.
type ValidationReport struct {
	IsValid bool              `json:"is_valid"`
	Checks  []ValidationCheck `json:"checks"`
}

// IngestCleaningNote documents one normalization adjustment or rejection
// made while parsing a raw source row.
type IngestCleaningNote struct {
	RuleID        string `json:"rule_id"`
	Severity      string `json:"severity"`
	AffectedField string `json:"affected_field"`
	RawValue      string `json:"raw_value"`
	CleanValue    string `json:"clean_value"`
	Message       string `json:"message"`
}

// KpiDelta is one metric's period-over-period change against the most
// recent baseline run.
type KpiDelta struct {
	MetricKey     string   `json:"metric_key"`
	CurrentValue  float64  `json:"current_value"`
	BaselineValue float64  `json:"baseline_value"`
	DeltaAbsolute float64  `json:"delta_absolute"`
	DeltaPercent  *float64 `json:"delta_percent,omitempty"`
}

// DriftFlag reports one metric's z-score against its historical
// distribution.
type DriftFlag struct {
	MetricKey      string  `json:"metric_key"`
	BaselineMean   float64 `json:"baseline_mean"`
	BaselineStdDev float64 `json:"baseline_std_dev"`
	CurrentValue   float64 `json:"current_value"`
	ZScore         float64 `json:"z_score"`
	Severity       string  `json:"severity"`
}

// AnomalyFlag is a high-signal deviation worth surfacing on its own,
// distinct from a drift flag's raw statistical reading.
type AnomalyFlag struct {
	MetricKey string `json:"metric_key"`
	Reason    string `json:"reason"`
	Severity  string `json:"severity"`
}

// ConfidenceCalibration caps how confident inferred guidance may claim
// to be, given how much baseline history actually backs it.
type ConfidenceCalibration struct {
	SampleCount               int64  `json:"sample_count"`
	RecommendedConfidenceCap  string `json:"recommended_confidence_cap"`
	CalibrationNote           string `json:"calibration_note"`
}

// HistoricalAnalysis is the full trend/drift read-back attached to an
// artifact when baseline runs are supplied.
type HistoricalAnalysis struct {
	BaselineRunIDs          []string              `json:"baseline_run_ids"`
	PeriodOverPeriodDeltas  []KpiDelta            `json:"period_over_period_deltas"`
	DriftFlags              []DriftFlag           `json:"drift_flags"`
	AnomalyFlags            []AnomalyFlag         `json:"anomaly_flags"`
	ConfidenceCalibration   ConfidenceCalibration `json:"confidence_calibration"`
}

// HistoricalArtifact is the minimal slice of a prior run's artifact the
// history reader needs for baseline comparison: it never depends on the
// full Artifact shape, so callers can supply it from any store without
// this package owning persistence.
type HistoricalArtifact struct {
	RunID        string        `json:"run_id"`
	StoredAtUTC  string        `json:"stored_at_utc"`
	TotalMetrics ReportMetrics `json:"total_metrics"`
}

// KpiAttributionNarrative is one plain-language explanation of a KPI's
// value, always carrying its supporting evidence IDs rather than
// asserting a cause the evidence doesn't back.
type KpiAttributionNarrative struct {
	KPI             string   `json:"kpi"`
	Narrative       string   `json:"narrative"`
	EvidenceRefs    []string `json:"evidence_ids"`
	ConfidenceLabel string   `json:"confidence_label"`
}

// OperatorSummary bundles the narrative layer an operator reads first,
// always derived from (never a substitute for) the evidence/guidance
// lists.
type OperatorSummary struct {
	AttributionNarratives []KpiAttributionNarrative `json:"attribution_narratives"`
}

// RunMetadata carries the identity and shape of one analytics run.
type RunMetadata struct {
	RunID           string `json:"run_id"`
	ConnectorID     string `json:"connector_id"`
	ProfileID       string `json:"profile_id"`
	Seed            uint64 `json:"seed"`
	SchemaVersion   string `json:"schema_version"`
	DateSpanDays    int64  `json:"date_span_days"`
	RequestedAtUTC  *string `json:"requested_at_utc,omitempty"`
}

const SchemaVersionV1 = "mock_analytics.v1"

// Artifact is the full immutable record emitted per run.
type Artifact struct {
	SchemaVersion       string              `json:"schema_version"`
	Request             RunRequest          `json:"request"`
	Metadata            RunMetadata         `json:"metadata"`
	Report              Report              `json:"report"`
	ObservedEvidence    []EvidenceItem      `json:"observed_evidence"`
	InferredGuidance    []GuidanceItem      `json:"inferred_guidance"`
	UncertaintyNotes    []string            `json:"uncertainty_notes"`
	Provenance          []Provenance        `json:"provenance"`
	IngestCleaningNotes []IngestCleaningNote `json:"ingest_cleaning_notes"`
	Validation          ValidationReport    `json:"validation"`
	QualityControls     QualityControls     `json:"quality_controls"`
	DataQuality         DataQualitySummary  `json:"data_quality"`
	Budget              BudgetSummary       `json:"budget"`
	Gate                PublishExportGate   `json:"gate"`
	Attestation         Attestation         `json:"attestation"`
	HistoricalAnalysis  HistoricalAnalysis  `json:"historical_analysis"`
	OperatorSummary     OperatorSummary     `json:"operator_summary"`
	ArtifactID          string              `json:"artifact_id"`
}
