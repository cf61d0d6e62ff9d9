// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry provides the Prometheus metrics and OpenTelemetry
// tracer used by the validation pipeline and its HTTP surface.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for pipeline spans.
const TracerName = "gatekeeper/pipeline"

// Tracer returns the pipeline tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Metrics contains the pre-defined metrics for the gatekeeper service.
//
// Description:
//
//	Counters and histograms covering pipeline runs, gate outcomes, and
//	individual validator failures. All metrics use the "gatekeeper_"
//	prefix for consistent naming.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// RunsTotal counts pipeline runs by final verdict ("passed"/"blocked"/"error").
	RunsTotal *prometheus.CounterVec

	// RunDuration records full pipeline run duration in seconds.
	RunDuration prometheus.Histogram

	// GatesTotal counts executed gates by gate name and outcome.
	GatesTotal *prometheus.CounterVec

	// GateDuration records per-gate duration in seconds by gate name.
	GateDuration *prometheus.HistogramVec

	// ValidatorFailuresTotal counts validator failures by code and severity.
	ValidatorFailuresTotal *prometheus.CounterVec
}

// NewMetrics registers the gatekeeper metric set with a registerer.
// Passing nil uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_runs_total",
			Help: "Pipeline runs by final verdict.",
		}, []string{"verdict"}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatekeeper_run_duration_seconds",
			Help:    "Full pipeline run duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}),

		GatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_gates_total",
			Help: "Executed gates by gate name and outcome.",
		}, []string{"gate", "outcome"}),

		GateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gatekeeper_gate_duration_seconds",
			Help:    "Per-gate execution duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"gate"}),

		ValidatorFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_validator_failures_total",
			Help: "Validator failures by code and severity.",
		}, []string{"validator", "severity"}),
	}
}
