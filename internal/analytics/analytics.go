// Package analytics is the top-level orchestrator: validate the
// request, plan its budget, fetch and clean rows from a connector,
// aggregate them into a report, evaluate quality controls and the
// publish/export gate, attest the run, and freeze the result into an
// Artifact. Grounded on service.rs's run_mock_analysis phase order,
// generalized from one hard-coded connector to the Connector interface.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeready-toolchain/tarsy/internal/attestation"
	"github.com/codeready-toolchain/tarsy/internal/budget"
	"github.com/codeready-toolchain/tarsy/internal/config"
	"github.com/codeready-toolchain/tarsy/internal/connector"
	"github.com/codeready-toolchain/tarsy/internal/contracts"
	"github.com/codeready-toolchain/tarsy/internal/historyreader"
	"github.com/codeready-toolchain/tarsy/internal/ingest"
	"github.com/codeready-toolchain/tarsy/internal/quality"
	"github.com/codeready-toolchain/tarsy/internal/telemetry"
	"github.com/codeready-toolchain/tarsy/pkg/version"
)

// Service runs one analytics request end to end. It holds no per-run
// mutable state; every field is set once at construction.
type Service struct {
	Connector           connector.Connector
	ConnectorConfig     connector.Config
	AttestationEnabled  bool
	AttestationRegistry *attestation.KeyRegistry
	FingerprintSaltID   string
	LedgerPath          string
	RuntimeBuild        string

	log *slog.Logger
}

// NewService builds a Service from the resolved application config and
// a connector implementation. registry may be nil: Run still attaches
// an unsigned attestation in that case.
func NewService(cfg *config.Config, conn connector.Connector, registry *attestation.KeyRegistry) *Service {
	return &Service{
		Connector:           conn,
		ConnectorConfig:     connectorConfigFrom(cfg),
		AttestationEnabled:  cfg.Attestation.Enabled,
		AttestationRegistry: registry,
		FingerprintSaltID:   string(cfg.ConnectorMode),
		LedgerPath:          cfg.Budget.LedgerPath,
		RuntimeBuild:        version.Full(),
		log:                 slog.With("component", "analytics.Service"),
	}
}

func connectorConfigFrom(cfg *config.Config) connector.Config {
	mode := connector.ModeSimulated
	if cfg.ConnectorMode == config.ConnectorModeLive {
		mode = connector.ModeObservedReadOnly
	}
	return connector.Config{
		Mode: mode,
		GA4:  connector.SourceConfig{Enabled: true, RequiredEnvNames: nonEmpty(cfg.Credentials.GA4APIKeyEnv)},
		Ads:  connector.SourceConfig{Enabled: true, RequiredEnvNames: nonEmpty(cfg.Credentials.GoogleAdsTokenEnv)},
		Wix:  connector.SourceConfig{Enabled: true, RequiredEnvNames: nonEmpty(cfg.Credentials.WixAPITokenEnv)},
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// fingerprintInput is what the config fingerprint is computed over:
// env var *names*, never secret values, plus the effective mode.
func (s *Service) fingerprintInput() map[string]string {
	return map[string]string{
		"connector_mode":       string(s.ConnectorConfig.Mode),
		"ga4_required_env":     joinNames(s.ConnectorConfig.GA4.RequiredEnvNames),
		"google_ads_required_env": joinNames(s.ConnectorConfig.Ads.RequiredEnvNames),
		"wix_required_env":     joinNames(s.ConnectorConfig.Wix.RequiredEnvNames),
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out
}

// Run executes one full analytics request and returns its frozen
// artifact, or a structured error from the first failing phase.
func (s *Service) Run(ctx context.Context, req contracts.RunRequest, history []contracts.HistoricalArtifact) (*contracts.Artifact, *contracts.ContractError) {
	ctx, span := telemetry.StartPhase(ctx, "analytics.validate")
	start, end, verr := contracts.ValidateRunRequest(req)
	telemetry.RecordOutcome(span, errOrNil(verr))
	span.End()
	if verr != nil {
		return nil, verr
	}

	ctx, span = telemetry.StartPhase(ctx, "analytics.plan_budget")
	plan, perr := budget.BuildPlan(req, start, end)
	telemetry.RecordOutcome(span, errOrNil(perr))
	span.End()
	if perr != nil {
		return nil, perr
	}

	day := time.Now().UTC().Format("2006-01-02")
	hardCap, herr := budget.EnforceDailyHardCap(s.LedgerPath, day, plan.Estimate.TotalCostMicros)
	if herr != nil {
		s.log.Error("daily hard cap rejected run", "error", herr)
		return nil, herr
	}

	guard := budget.NewGuard(req.BudgetEnvelope)
	if err := guard.Spend("mock_analytics.fetch", budget.CategoryRetrievalUnits, plan.Estimate.RetrievalUnits); err != nil {
		return nil, err
	}

	seed := resolveSeed(req)

	ctx, span = telemetry.StartPhase(ctx, "analytics.ingest")
	rows, ga4Events, wixOrders, cleaningNotes, provenance, cerr := s.ingestAll(ctx, req, start, plan.ClippedEnd, seed)
	telemetry.RecordOutcome(span, errOrNil(cerr))
	span.End()
	if cerr != nil {
		return nil, cerr
	}

	if err := guard.Spend("mock_analytics.transform", budget.CategoryAnalysisUnits, plan.Estimate.AnalysisUnits); err != nil {
		return nil, err
	}

	includeNarratives := plan.Estimate.LLMTokensIn > 0
	if includeNarratives {
		if err := guard.Spend("mock_analytics.narrative_tokens_in", budget.CategoryLLMTokensIn, plan.Estimate.LLMTokensIn); err != nil {
			return nil, err
		}
		if err := guard.Spend("mock_analytics.narrative_tokens_out", budget.CategoryLLMTokensOut, plan.Estimate.LLMTokensOut); err != nil {
			return nil, err
		}
	}
	if err := guard.Spend("mock_analytics.total_cost", budget.CategoryTotalCostMicros, plan.Estimate.TotalCostMicros); err != nil {
		return nil, err
	}

	ctx, span = telemetry.StartPhase(ctx, "analytics.aggregate")
	window := fmt.Sprintf("%s to %s", start.Format("2006-01-02"), plan.ClippedEnd.Format("2006-01-02"))
	report := buildReport(rows, start.Format("2006-01-02"), plan.ClippedEnd.Format("2006-01-02"))
	span.End()

	evidence, guidance, uncertainty := buildEvidenceAndGuidance(report, window, includeNarratives)
	if plan.Clipped || plan.Sampled || plan.IncompleteOutput {
		uncertainty = append(uncertainty, "Budget policy modified run scope; see artifact.budget for clipping/sampling details.")
	}
	if len(wixOrders) > 0 {
		var wixGrossTotal float64
		for _, o := range wixOrders {
			v, _ := o.Gross.Amount.Float64()
			wixGrossTotal += v
		}
		evidence = append(evidence, contracts.EvidenceItem{
			EvidenceID:  "ev_wix_gross_revenue",
			Label:       "Wix Storefront Gross Revenue",
			Value:       fmt.Sprintf("%.2f", wixGrossTotal),
			SourceClass: string(contracts.SourceSimulated),
			Notes:       []string{"Sum of cleaned Wix order gross amounts across the selected date window, for cross-checking ad-attributed conversion value."},
		})
	}

	envCounters, actualCounters, remainingCounters, events := guard.Summary()
	budgetSummary := contracts.BudgetSummary{
		Envelope:           envCounters,
		Actuals:            actualCounters,
		Remaining:          remainingCounters,
		Estimated:          estimateToCounters(plan.Estimate),
		HardDailyCapMicros: budget.HardDailySpendCapMicros,
		DailySpentBefore:   hardCap.SpentBeforeMicros,
		DailySpentAfter:    hardCap.SpentAfterMicros,
		Clipped:            plan.Clipped,
		Sampled:            plan.Sampled,
		IncompleteOutput:   plan.IncompleteOutput,
		SkippedModules:     plan.SkippedModules,
		Events:             events,
	}

	ctx, span = telemetry.StartPhase(ctx, "analytics.quality")
	qc := s.buildQualityControls(report, provenance, budgetSummary, ga4Events)
	dq := s.buildDataQuality(qc)
	span.End()

	ctx, span = telemetry.StartPhase(ctx, "analytics.historical_analysis")
	historical := historyreader.Build(report.TotalMetrics, history)
	span.End()

	anyHighAnomaly := false
	for _, a := range historical.AnomalyFlags {
		if a.Severity == "high" {
			anyHighAnomaly = true
			break
		}
	}
	gate := quality.BuildGate(qc, dq, budgetSummary, cleaningNotes, anyHighAnomaly)

	metadata := contracts.RunMetadata{
		RunID:         deterministicRunID(req, seed),
		ConnectorID:   s.Connector.Capabilities().ConnectorID,
		ProfileID:     req.ProfileID,
		Seed:          seed,
		SchemaVersion: contracts.SchemaVersionV1,
		DateSpanDays:  spanDays(start, plan.ClippedEnd),
	}

	artifact := contracts.Artifact{
		SchemaVersion:       contracts.SchemaVersionV1,
		Request:             req,
		Metadata:            metadata,
		Report:              report,
		ObservedEvidence:    evidence,
		InferredGuidance:    guidance,
		UncertaintyNotes:    uncertainty,
		Provenance:          provenance,
		IngestCleaningNotes: cleaningNotes,
		QualityControls:     qc,
		DataQuality:         dq,
		Budget:              budgetSummary,
		Gate:                gate,
		HistoricalAnalysis:  historical,
		OperatorSummary:     buildOperatorSummary(report, evidence),
	}
	artifact.ArtifactID = metadata.RunID

	ctx, span = telemetry.StartPhase(ctx, "analytics.attest")
	att, aerr := attestation.Build(metadata.RunID, artifact.ArtifactID, string(s.ConnectorConfig.Mode), s.fingerprintInput(), s.FingerprintSaltID,
		time.Now().UTC().Format(time.RFC3339), s.RuntimeBuild, s.registryOrNil())
	telemetry.RecordOutcome(span, errOrNilAttestation(aerr))
	span.End()
	if aerr != nil {
		return nil, contracts.NewContractError(aerr.Code, aerr.Message)
	}
	artifact.Attestation = att

	artifact.Validation = contracts.ValidateArtifact(&artifact)
	if !artifact.Validation.IsValid {
		s.log.Error("artifact failed invariant checks", "run_id", metadata.RunID)
		return nil, contracts.NewContractError("artifact_invariant_violation", "generated artifact failed invariant checks")
	}

	s.log.Info("analytics run succeeded", "run_id", metadata.RunID, "gate_status", gate.GateStatus)
	return &artifact, nil
}

func (s *Service) registryOrNil() *attestation.KeyRegistry {
	if !s.AttestationEnabled {
		return nil
	}
	return s.AttestationRegistry
}

func spanDays(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours()/24) + 1
}

func estimateToCounters(e budget.Estimate) contracts.BudgetCounters {
	return contracts.BudgetCounters{
		RetrievalUnits:  e.RetrievalUnits,
		AnalysisUnits:   e.AnalysisUnits,
		LLMTokensIn:     e.LLMTokensIn,
		LLMTokensOut:    e.LLMTokensOut,
		TotalCostMicros: e.TotalCostMicros,
	}
}

func errOrNil(e *contracts.ContractError) error {
	if e == nil {
		return nil
	}
	return e
}

func errOrNilAttestation(e *attestation.Error) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %s", e.Code, e.Message)
}

// ingestAll fetches and cleans every source's rows for the window,
// returning the aggregator-ready Ads rows, the GA4 events used for the
// cross-source check, the parsed Wix orders, every cleaning note across
// sources, and one provenance record per source.
func (s *Service) ingestAll(ctx context.Context, req contracts.RunRequest, start, end time.Time, seed uint64) ([]ingest.GoogleAdsRow, []ingest.GA4Event, []ingest.WixOrder, []contracts.IngestCleaningNote, []contracts.Provenance, *contracts.ContractError) {
	connectorID := s.Connector.Capabilities().ConnectorID

	rawAds, cerr := s.Connector.FetchGoogleAdsRows(ctx, s.ConnectorConfig, req, start, end, seed)
	if cerr != nil {
		return nil, nil, nil, nil, nil, cerr
	}
	var adsRows []ingest.GoogleAdsRow
	var adsNotes []contracts.IngestCleaningNote
	var adsRejected int64
	for _, raw := range rawAds {
		row, notes, ierr := ingest.ParseGoogleAdsRow(raw)
		adsNotes = append(adsNotes, mapNotes(notes)...)
		if ierr != nil {
			adsRejected++
			continue
		}
		adsRows = append(adsRows, row)
	}

	rawGA4, cerr := s.Connector.FetchGA4Events(ctx, s.ConnectorConfig, start, end, seed)
	if cerr != nil {
		return nil, nil, nil, nil, nil, cerr
	}
	var ga4Events []ingest.GA4Event
	var ga4Notes []contracts.IngestCleaningNote
	var ga4Rejected int64
	for _, raw := range rawGA4 {
		event, notes, ierr := ingest.ParseGA4Event(raw)
		ga4Notes = append(ga4Notes, mapNotes(notes)...)
		if ierr != nil {
			ga4Rejected++
			continue
		}
		ga4Events = append(ga4Events, event)
	}

	rawOrders, cerr := s.Connector.FetchWixOrders(ctx, s.ConnectorConfig, start, end, seed)
	if cerr != nil {
		return nil, nil, nil, nil, nil, cerr
	}
	var wixOrders []ingest.WixOrder
	var wixNotes []contracts.IngestCleaningNote
	var wixRejected int64
	for _, raw := range rawOrders {
		order, notes, ierr := ingest.ParseWixOrder(raw)
		wixNotes = append(wixNotes, mapNotes(notes)...)
		if ierr != nil {
			wixRejected++
			continue
		}
		wixOrders = append(wixOrders, order)
	}

	rawSessions, cerr := s.Connector.FetchWixSessions(ctx, s.ConnectorConfig, start, end, seed)
	if cerr != nil {
		return nil, nil, nil, nil, nil, cerr
	}

	allNotes := append(append(adsNotes, ga4Notes...), wixNotes...)
	collectedAt := "deterministic-simulated"
	contractVersion := connector.ContractVersion
	provenance := []contracts.Provenance{
		{
			ConnectorID: connectorID, SourceClass: contracts.SourceSimulated, SourceSystem: "google_ads",
			CollectedAtUTC: collectedAt, FreshnessMinutes: 0,
			ValidatedContractVersion: &contractVersion, RejectedRowsCount: adsRejected, CleaningNoteCount: int64(len(adsNotes)),
		},
		{
			ConnectorID: connectorID, SourceClass: contracts.SourceSimulated, SourceSystem: "ga4",
			CollectedAtUTC: collectedAt, FreshnessMinutes: 0,
			ValidatedContractVersion: &contractVersion, RejectedRowsCount: ga4Rejected, CleaningNoteCount: int64(len(ga4Notes)),
		},
		{
			ConnectorID: connectorID, SourceClass: contracts.SourceSimulated, SourceSystem: "wix_storefront",
			CollectedAtUTC: collectedAt, FreshnessMinutes: 0,
			ValidatedContractVersion: &contractVersion, RejectedRowsCount: wixRejected, CleaningNoteCount: int64(len(wixNotes)),
		},
	}
	_ = rawSessions // sessions are fetched but not used: neither the report rollup nor any evidence item reads them

	return adsRows, ga4Events, wixOrders, allNotes, provenance, nil
}

func mapNotes(notes []ingest.CleaningNote) []contracts.IngestCleaningNote {
	out := make([]contracts.IngestCleaningNote, 0, len(notes))
	for _, n := range notes {
		out = append(out, contracts.IngestCleaningNote{
			RuleID:        n.RuleID,
			Severity:      string(n.Severity),
			AffectedField: n.AffectedField,
			RawValue:      n.RawValue,
			CleanValue:    n.CleanValue,
			Message:       n.Message,
		})
	}
	return out
}

func (s *Service) buildQualityControls(report contracts.Report, provenance []contracts.Provenance, b contracts.BudgetSummary, ga4Events []ingest.GA4Event) contracts.QualityControls {
	adGroupJoinRatio := ingest.JoinCoverageRatio(int64(len(report.AdGroups)), countNonEmptyCampaign(report))
	keywordJoinRatio := ingest.JoinCoverageRatio(int64(len(report.Keywords)), countNonEmptyAdGroup(report))

	adsCampaignIDs := make(map[string]bool, len(report.Campaigns))
	for _, c := range report.Campaigns {
		adsCampaignIDs[c.CampaignID] = true
	}
	var ga4CampaignIDs []string
	for _, e := range ga4Events {
		if e.CampaignID != "" {
			ga4CampaignIDs = append(ga4CampaignIDs, e.CampaignID)
		}
	}

	qc := contracts.QualityControls{
		SchemaDriftChecks:        quality.SchemaDriftChecks(report, provenance),
		IdentityResolutionChecks: quality.IdentityResolutionChecks(report, adGroupJoinRatio, keywordJoinRatio),
		FreshnessSLAChecks:       quality.FreshnessChecks(provenance),
		CrossSourceChecks:        quality.CrossSourceChecks(ga4CampaignIDs, adsCampaignIDs),
		BudgetChecks:             quality.BudgetChecks(b),
	}
	qc.IsHealthy = quality.IsHealthy(qc)
	return qc
}

func countNonEmptyCampaign(report contracts.Report) int64 {
	var n int64
	for _, ag := range report.AdGroups {
		if ag.CampaignID != "" {
			n++
		}
	}
	return n
}

func countNonEmptyAdGroup(report contracts.Report) int64 {
	var n int64
	for _, k := range report.Keywords {
		if k.AdGroupID != "" {
			n++
		}
	}
	return n
}

func (s *Service) buildDataQuality(qc contracts.QualityControls) contracts.DataQualitySummary {
	completeness := passRatio(qc.SchemaDriftChecks)
	identity := passRatio(qc.IdentityResolutionChecks)
	freshness := passRatio(qc.FreshnessSLAChecks)
	crossSource := passRatio(qc.CrossSourceChecks)
	budgetRatio := passRatio(qc.BudgetChecks)
	reconciliation := reconciliationRatio(qc.IdentityResolutionChecks)
	return quality.WeightedDataQuality(completeness, identity, freshness, reconciliation, budgetRatio, crossSource)
}

func passRatio(checks []contracts.QualityCheck) float64 {
	if len(checks) == 0 {
		return 1.0
	}
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(checks))
}

func reconciliationRatio(checks []contracts.QualityCheck) float64 {
	for _, c := range checks {
		if c.Code == "identity_campaign_rollup_reconciles_cost" || c.Code == "identity_campaign_rollup_reconciles_value" {
			if !c.Passed {
				return 0
			}
		}
	}
	return 1.0
}
