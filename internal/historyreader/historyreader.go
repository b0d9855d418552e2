// Package historyreader builds period-over-period deltas and
// statistical drift/anomaly flags from a caller-supplied slice of prior
// runs. It owns no persistence: the caller decides what "history" means
// and hands over an opaque, already-loaded slice, grounded on
// longitudinal.rs's build_historical_analysis.
package historyreader

import (
	"fmt"
	"math"
	"sort"

	"github.com/codeready-toolchain/tarsy/internal/contracts"
)

const (
	driftZScoreMedium = 1.5
	driftZScoreHigh   = 2.5
	deltaAnomalyPct   = 0.35

	maxBaselineRunIDs = 8
	minSampleCountForMediumCap = 8
)

// Build computes the historical analysis for current against history.
// An empty history yields a zero-value analysis capped at "medium"
// confidence, matching the no-baseline case.
func Build(current contracts.ReportMetrics, history []contracts.HistoricalArtifact) contracts.HistoricalAnalysis {
	if len(history) == 0 {
		return contracts.HistoricalAnalysis{
			ConfidenceCalibration: contracts.ConfidenceCalibration{
				SampleCount:              0,
				RecommendedConfidenceCap: "medium",
				CalibrationNote:          "No baseline history available.",
			},
		}
	}

	baseline := make([]contracts.HistoricalArtifact, len(history))
	copy(baseline, history)
	sort.Slice(baseline, func(i, j int) bool {
		return baseline[i].StoredAtUTC > baseline[j].StoredAtUTC
	})

	baselineRunIDs := make([]string, 0, maxBaselineRunIDs)
	for i := 0; i < len(baseline) && i < maxBaselineRunIDs; i++ {
		baselineRunIDs = append(baselineRunIDs, baseline[i].RunID)
	}

	mostRecent := baseline[0].TotalMetrics
	deltas := []contracts.KpiDelta{
		delta("impressions", float64(current.Impressions), float64(mostRecent.Impressions)),
		delta("clicks", float64(current.Clicks), float64(mostRecent.Clicks)),
		delta("cost", current.Cost, mostRecent.Cost),
		delta("conversions", current.Conversions, mostRecent.Conversions),
		delta("roas", current.ROAS, mostRecent.ROAS),
		delta("ctr", current.CTR, mostRecent.CTR),
	}

	type series struct {
		metricKey    string
		values       []float64
		currentValue float64
	}
	allSeries := []series{
		{"impressions", collect(baseline, func(m contracts.ReportMetrics) float64 { return float64(m.Impressions) }), float64(current.Impressions)},
		{"clicks", collect(baseline, func(m contracts.ReportMetrics) float64 { return float64(m.Clicks) }), float64(current.Clicks)},
		{"cost", collect(baseline, func(m contracts.ReportMetrics) float64 { return m.Cost }), current.Cost},
		{"conversions", collect(baseline, func(m contracts.ReportMetrics) float64 { return m.Conversions }), current.Conversions},
	}

	var driftFlags []contracts.DriftFlag
	var anomalyFlags []contracts.AnomalyFlag
	for _, s := range allSeries {
		drift, ok := driftFor(s.metricKey, s.values, s.currentValue)
		if !ok {
			continue
		}
		if drift.Severity != "low" {
			driftFlags = append(driftFlags, drift)
		}
		if drift.Severity == "high" {
			anomalyFlags = append(anomalyFlags, contracts.AnomalyFlag{
				MetricKey: drift.MetricKey,
				Reason:    "z-score exceeds drift threshold for " + drift.MetricKey,
				Severity:  "high",
			})
		}
	}
	for _, d := range deltas {
		if d.DeltaPercent != nil && math.Abs(*d.DeltaPercent) >= deltaAnomalyPct {
			anomalyFlags = append(anomalyFlags, contracts.AnomalyFlag{
				MetricKey: d.MetricKey,
				Reason:    "period-over-period delta exceeds threshold for " + d.MetricKey,
				Severity:  "medium",
			})
		}
	}

	sampleCount := int64(len(baseline))
	recommendedCap := "low"
	if sampleCount >= minSampleCountForMediumCap && len(anomalyFlags) == 0 {
		recommendedCap = "medium"
	}

	return contracts.HistoricalAnalysis{
		BaselineRunIDs:         baselineRunIDs,
		PeriodOverPeriodDeltas: deltas,
		DriftFlags:             driftFlags,
		AnomalyFlags:           anomalyFlags,
		ConfidenceCalibration: contracts.ConfidenceCalibration{
			SampleCount:              sampleCount,
			RecommendedConfidenceCap: recommendedCap,
			CalibrationNote:          calibrationNote(sampleCount, int64(len(anomalyFlags))),
		},
	}
}

func collect(baseline []contracts.HistoricalArtifact, pick func(contracts.ReportMetrics) float64) []float64 {
	out := make([]float64, len(baseline))
	for i, b := range baseline {
		out[i] = pick(b.TotalMetrics)
	}
	return out
}

func delta(metricKey string, currentValue, baselineValue float64) contracts.KpiDelta {
	deltaAbsolute := currentValue - baselineValue
	var deltaPercent *float64
	if math.Abs(baselineValue) > 1e-12 {
		pct := deltaAbsolute / baselineValue
		deltaPercent = &pct
	}
	return contracts.KpiDelta{
		MetricKey:     metricKey,
		CurrentValue:  currentValue,
		BaselineValue: baselineValue,
		DeltaAbsolute: deltaAbsolute,
		DeltaPercent:  deltaPercent,
	}
}

func driftFor(metricKey string, baseline []float64, currentValue float64) (contracts.DriftFlag, bool) {
	if len(baseline) < 2 {
		return contracts.DriftFlag{}, false
	}
	var sum float64
	for _, v := range baseline {
		sum += v
	}
	mean := sum / float64(len(baseline))

	var variance float64
	for _, v := range baseline {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(baseline))
	stdDev := math.Sqrt(variance)

	if stdDev <= 1e-12 {
		return contracts.DriftFlag{
			MetricKey:      metricKey,
			BaselineMean:   mean,
			BaselineStdDev: 0,
			CurrentValue:   currentValue,
			ZScore:         0,
			Severity:       "low",
		}, true
	}

	zScore := (currentValue - mean) / stdDev
	absZ := math.Abs(zScore)
	severity := "low"
	switch {
	case absZ >= driftZScoreHigh:
		severity = "high"
	case absZ >= driftZScoreMedium:
		severity = "medium"
	}

	return contracts.DriftFlag{
		MetricKey:      metricKey,
		BaselineMean:   mean,
		BaselineStdDev: stdDev,
		CurrentValue:   currentValue,
		ZScore:         zScore,
		Severity:       severity,
	}, true
}

func calibrationNote(sampleCount, anomalyCount int64) string {
	return fmt.Sprintf("Calibration based on %d historical run(s); anomaly count=%d.", sampleCount, anomalyCount)
}
