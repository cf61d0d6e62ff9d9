// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline orchestrates the gate sequence: gates run strictly in
// order, a blocked gate stops advancement, and a blocked or cancelled run
// never reports an overall pass.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/gate"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/telemetry"
)

// Orchestrator drives a task through the gate sequence.
//
// Thread Safety: Safe for concurrent use; each Run carries its own state.
type Orchestrator struct {
	runner  *gate.Runner
	metrics *telemetry.Metrics
	log     *slog.Logger
}

// New creates an orchestrator over a validator registry. Metrics may be
// nil when no collection is wanted (tests, one-shot CLI runs).
func New(reg *registry.Registry, metrics *telemetry.Metrics, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		runner:  gate.NewRunner(reg, log),
		metrics: metrics,
		log:     log,
	}
}

// Run evaluates a task through gates 0..MaxGate.
//
// Description:
//
//	Each gate runs all of its enabled validators; a blocked gate stops
//	advancement and the remaining gates never execute. Cancellation is
//	honored between gates only: a gate that has started always completes,
//	and a run cut short by cancellation reports OverallPassed=false.
//
// Outputs:
//   - result.PipelineVerdict: The full run report, also on blocked runs.
//   - error: Non-nil only for engine defects (bad configuration, broken
//     policy records). The verdict is partial in that case.
func (o *Orchestrator) Run(ctx context.Context, in registry.Inputs) (result.PipelineVerdict, error) {
	verdict := result.PipelineVerdict{
		RunID:     uuid.NewString(),
		FinalGate: -1,
		StartedAt: time.Now(),
	}

	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.run")
	span.SetAttributes(attribute.String("run.id", verdict.RunID))
	defer span.End()

	log := o.log.With(slog.String("run_id", verdict.RunID))
	log.Info("pipeline run started")

	blocked := false
	cancelled := false

	for g := 0; g <= registry.MaxGate; g++ {
		if err := ctx.Err(); err != nil {
			log.Warn("pipeline cancelled between gates", slog.Int("next_gate", g))
			span.SetStatus(codes.Error, "cancelled")
			cancelled = true
			break
		}

		gateCtx, gateSpan := telemetry.Tracer().Start(ctx, "pipeline.gate")
		gateSpan.SetAttributes(
			attribute.Int("gate.index", g),
			attribute.String("gate.name", gate.Name(g)),
		)
		gr, err := o.runner.Run(gateCtx, g, in)
		gateSpan.End()

		if err != nil {
			log.Error("gate aborted by engine defect",
				slog.Int("gate", g), slog.String("error", err.Error()))
			span.SetStatus(codes.Error, err.Error())
			o.countRun("error", verdict.StartedAt)
			verdict.Duration = time.Since(verdict.StartedAt)
			return verdict, err
		}

		verdict.GateResults = append(verdict.GateResults, gr)
		verdict.FinalGate = g
		o.observeGate(gr)

		log.Info("gate finished",
			slog.Int("gate", g),
			slog.String("name", gr.Name),
			slog.Bool("blocked", gr.Blocked),
			slog.Int("failures", len(gr.Failures())),
			slog.Duration("duration", gr.Duration))

		if gr.Blocked {
			blocked = true
			break
		}
	}

	verdict.OverallPassed = !blocked && !cancelled && verdict.FinalGate == registry.MaxGate
	verdict.Duration = time.Since(verdict.StartedAt)

	switch {
	case verdict.OverallPassed:
		o.countRun("passed", verdict.StartedAt)
	default:
		o.countRun("blocked", verdict.StartedAt)
	}

	span.SetAttributes(
		attribute.Bool("run.passed", verdict.OverallPassed),
		attribute.Int("run.final_gate", verdict.FinalGate),
	)
	log.Info("pipeline run finished",
		slog.Bool("passed", verdict.OverallPassed),
		slog.Int("final_gate", verdict.FinalGate),
		slog.Duration("duration", verdict.Duration))
	return verdict, nil
}

func (o *Orchestrator) countRun(verdict string, started time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RunsTotal.WithLabelValues(verdict).Inc()
	o.metrics.RunDuration.Observe(time.Since(started).Seconds())
}

func (o *Orchestrator) observeGate(gr result.GateResult) {
	if o.metrics == nil {
		return
	}
	outcome := "passed"
	if gr.Blocked {
		outcome = "blocked"
	}
	o.metrics.GatesTotal.WithLabelValues(gr.Name, outcome).Inc()
	o.metrics.GateDuration.WithLabelValues(gr.Name).Observe(gr.Duration.Seconds())
	for _, f := range gr.Failures() {
		o.metrics.ValidatorFailuresTotal.WithLabelValues(f.ValidatorCode, string(f.Severity)).Inc()
	}
}
