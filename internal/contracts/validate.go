package contracts

import (
	"math"
	"strings"
	"time"
)

const maxDateSpanDays = 93
const metricEpsilon = 0.0001

// ValidateRunRequest checks request shape and date constraints before
// any connector call. It returns the parsed start/end dates on success
// and a single structured diagnostic on the first failure, matching the
// fail-fast style of a tarsy-style ordered validator.
func ValidateRunRequest(req RunRequest) (start, end time.Time, err *ContractError) {
	if strings.TrimSpace(req.ProfileID) == "" {
		return start, end, fieldErr("invalid_profile_id", "profile_id is required", "profile_id")
	}
	env := req.BudgetEnvelope
	if env.MaxRetrievalUnits <= 0 || env.MaxAnalysisUnits <= 0 || env.MaxLLMTokensIn <= 0 ||
		env.MaxLLMTokensOut <= 0 || env.MaxTotalCostMicros <= 0 {
		return start, end, fieldErr("invalid_budget_envelope", "budget envelope caps must be positive", "budget_envelope")
	}
	if strings.TrimSpace(env.ProvenanceRef) == "" {
		return start, end, fieldErr("invalid_budget_provenance_ref", "budget_envelope.provenance_ref is required", "budget_envelope.provenance_ref")
	}

	start, perr := time.Parse("2006-01-02", req.StartDate)
	if perr != nil {
		return start, end, fieldErr("invalid_start_date", "start_date must use YYYY-MM-DD", "start_date")
	}
	end, perr = time.Parse("2006-01-02", req.EndDate)
	if perr != nil {
		return start, end, fieldErr("invalid_end_date", "end_date must use YYYY-MM-DD", "end_date")
	}

	if start.After(end) {
		return start, end, &ContractError{
			Code:       "invalid_date_range",
			Message:    "start_date must be less than or equal to end_date",
			FieldPaths: []string{"start_date", "end_date"},
		}
	}

	spanDays := int64(end.Sub(start).Hours()/24) + 1
	if spanDays > maxDateSpanDays {
		return start, end, &ContractError{
			Code:       "date_span_exceeded",
			Message:    "date range cannot exceed 93 days",
			FieldPaths: []string{"start_date", "end_date"},
		}
	}

	return start, end, nil
}

func checkResult(code string, passed bool, message string) ValidationCheck {
	return ValidationCheck{Code: code, Passed: passed, Message: message}
}

// ValidateArtifact emits a report of named checks covering every
// invariant spec.md's artifact validator names. Every check always
// runs; is_valid is their conjunction.
func ValidateArtifact(a *Artifact) ValidationReport {
	var checks []ValidationCheck

	checks = append(checks, checkResult("schema_version", a.SchemaVersion == SchemaVersionV1, "schema_version must match v1 constant"))

	tm := a.Report.TotalMetrics
	checks = append(checks, checkResult("report_impressions_gte_clicks", tm.Impressions >= tm.Clicks, "total impressions must be >= total clicks"))
	checks = append(checks, checkResult("report_non_negative",
		tm.Cost >= 0 && tm.Conversions >= 0 && tm.ConversionValue >= 0,
		"total cost/conversions/conversion value must be non-negative"))

	derivedCTR := 0.0
	if tm.Impressions > 0 {
		derivedCTR = (float64(tm.Clicks) / float64(tm.Impressions)) * 100.0
	}
	checks = append(checks, checkResult("report_ctr_consistency", math.Abs(tm.CTR-derivedCTR) <= metricEpsilon, "CTR must match derived CTR within epsilon"))

	simulatedHighConfidence := false
	for _, g := range a.InferredGuidance {
		if strings.EqualFold(g.ConfidenceLabel, "high") {
			simulatedHighConfidence = true
			break
		}
	}
	checks = append(checks, checkResult("simulated_confidence_not_high", !simulatedHighConfidence, "simulated guidance cannot be marked high confidence"))

	checks = append(checks, checkResult("provenance_present", len(a.Provenance) > 0, "artifact must include at least one provenance record"))
	provenanceVersioned := true
	for _, p := range a.Provenance {
		if p.ValidatedContractVersion == nil || strings.TrimSpace(*p.ValidatedContractVersion) == "" {
			provenanceVersioned = false
			break
		}
	}
	checks = append(checks, checkResult("provenance_contract_version_present", provenanceVersioned, "every provenance row must include validated_contract_version"))

	checks = append(checks, checkResult("uncertainty_notes_present", len(a.UncertaintyNotes) > 0, "artifact must include uncertainty notes"))

	all := a.QualityControls.AllChecks()
	highSeverityFailures := false
	allPassed := true
	for _, c := range all {
		if !c.Passed {
			allPassed = false
			if c.Severity == SeverityHigh {
				highSeverityFailures = true
			}
		}
	}
	checks = append(checks, checkResult("quality_controls_high_severity", !highSeverityFailures, "quality controls cannot contain failing high severity checks"))
	checks = append(checks, checkResult("quality_controls_consistency", a.QualityControls.IsHealthy == allPassed, "quality control health should match quality check pass/fail aggregate"))

	budgetExceeded := false
	for _, ev := range a.Budget.Events {
		if ev.Outcome == OutcomeBlocked {
			budgetExceeded = true
			break
		}
	}
	checks = append(checks, checkResult("budget_fail_closed", !budgetExceeded, "budget exceeded events must block artifact validity"))
	checks = append(checks, checkResult("budget_daily_hard_cap", a.Budget.DailySpentAfter <= a.Budget.HardDailyCapMicros, "daily spend must remain below or equal to hard daily cap"))

	hasBlockingCleaning := false
	for _, n := range a.IngestCleaningNotes {
		if strings.EqualFold(n.Severity, "block") {
			hasBlockingCleaning = true
			break
		}
	}
	checks = append(checks, checkResult("ingest_cleaning_blocking_count", !hasBlockingCleaning, "ingest cleaning notes cannot contain blocking severity in publishable artifacts"))

	dq := a.DataQuality
	ratios := []float64{dq.CompletenessRatio, dq.IdentityJoinCoverageRatio, dq.FreshnessPassRatio, dq.ReconciliationPassRatio, dq.CrossSourcePassRatio, dq.BudgetPassRatio, dq.QualityScore}
	ratiosValid := true
	for _, r := range ratios {
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || r > 1 {
			ratiosValid = false
			break
		}
	}
	checks = append(checks, checkResult("data_quality_ratio_bounds", ratiosValid, "data quality ratios must be finite and within [0.0, 1.0]"))

	isValid := true
	for _, c := range checks {
		if !c.Passed {
			isValid = false
			break
		}
	}
	return ValidationReport{IsValid: isValid, Checks: checks}
}
