// Package telemetry wraps the orchestrator's phase boundaries in otel
// spans and exposes a shared meter (no counters are created on it),
// so a deployment can wire a real exporter in through
// config.TelemetryConfig without any call-site change.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/codeready-toolchain/tarsy/internal/analytics"

// Tracer is the shared tracer every orchestrator phase starts its span
// from.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Meter is the shared meter for run-level instruments. No package in
// this module creates a counter on it.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// StartPhase starts a span named phase, following the orchestrator's
// validate/plan_budget/ingest/aggregate/quality/historical_analysis/attest
// phase breakdown.
// The caller is responsible for ending the returned span.
func StartPhase(ctx context.Context, phase string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, phase)
}

// RecordOutcome sets the span status and, on failure, records the
// error, following the single place every phase reports its own result.
func RecordOutcome(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
