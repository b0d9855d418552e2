package quality

import "github.com/codeready-toolchain/tarsy/internal/contracts"

const (
	completenessBlockThreshold  = 0.99
	joinCoverageBlockThreshold  = 0.98
	freshnessWarnThreshold      = 0.95
	reconciliationWarnThreshold = 1.0
)

// BuildGate evaluates the publish/export decision: blocked takes
// priority over review_required, which takes priority over ready.
func BuildGate(qc contracts.QualityControls, dq contracts.DataQualitySummary, budget contracts.BudgetSummary, cleaningNotes []contracts.IngestCleaningNote, highSeverityAnomaly bool) contracts.PublishExportGate {
	var blocking, warning []string

	for _, c := range qc.AllChecks() {
		if !c.Passed && c.Severity == contracts.SeverityHigh {
			blocking = append(blocking, "failing high-severity check: "+c.Code)
		}
	}
	if dq.CompletenessRatio < completenessBlockThreshold {
		blocking = append(blocking, "completeness below threshold")
	}
	if dq.IdentityJoinCoverageRatio < joinCoverageBlockThreshold {
		blocking = append(blocking, "join coverage below threshold")
	}
	if dq.BudgetPassRatio < 1.0 {
		blocking = append(blocking, "budget pass ratio below 1.0")
	}
	for _, ev := range budget.Events {
		if ev.Outcome == contracts.OutcomeBlocked {
			blocking = append(blocking, "blocked budget event")
			break
		}
	}
	if budget.DailySpentAfter > budget.HardDailyCapMicros {
		blocking = append(blocking, "daily spend over hard cap")
	}
	for _, n := range cleaningNotes {
		if n.Severity == "block" {
			blocking = append(blocking, "blocking ingest cleaning note")
			break
		}
	}

	if highSeverityAnomaly {
		warning = append(warning, "high-severity anomaly flag")
	}
	if dq.FreshnessPassRatio < freshnessWarnThreshold {
		warning = append(warning, "freshness below warn threshold")
	}
	if dq.ReconciliationPassRatio < reconciliationWarnThreshold {
		warning = append(warning, "reconciliation below warn threshold")
	}

	status := contracts.GateReady
	if len(blocking) > 0 {
		status = contracts.GateBlocked
	} else if len(warning) > 0 {
		status = contracts.GateReviewRequired
	}

	ready := status == contracts.GateReady
	return contracts.PublishExportGate{
		PublishReady:    ready,
		ExportReady:     ready,
		GateStatus:      status,
		BlockingReasons: blocking,
		WarningReasons:  warning,
	}
}
