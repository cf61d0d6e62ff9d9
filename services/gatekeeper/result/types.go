// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package result defines the shared result and report types produced by the
// validation pipeline: per-validator results, per-gate aggregates, and the
// final pipeline verdict consumed by the agent pipeline and the admin UI.
package result

import "time"

// Severity classifies how a validator failure affects pipeline advancement.
type Severity string

const (
	// SeverityHard blocks the pipeline from advancing past the current gate.
	SeverityHard Severity = "HARD"

	// SeverityWarning is recorded in the report but never blocks.
	SeverityWarning Severity = "WARNING"
)

// Detail carries structured failure context for the rejection report.
//
// Only the fields relevant to the failing check are populated: a sensitive
// file match sets Path and Pattern, a clause violation sets Path and Line,
// an external tool failure sets Stderr and possibly Timeout.
type Detail struct {
	// Path is the offending file path, if any.
	Path string `json:"path,omitempty"`

	// Pattern is the rule or glob pattern that matched, if any.
	Pattern string `json:"pattern,omitempty"`

	// Line is the 1-based line number of the offending content, if known.
	Line int `json:"line,omitempty"`

	// Timeout indicates an external tool exceeded its configured deadline.
	Timeout bool `json:"timeout,omitempty"`

	// Stderr is a captured excerpt of an external tool's error output.
	Stderr string `json:"stderr,omitempty"`
}

// ValidatorResult is the outcome of a single validator evaluation.
//
// Validator failures are expected outcomes: they are returned, never
// raised as errors. The ValidatorCode is the stable join key between
// metadata, toggles, and reports.
type ValidatorResult struct {
	// ValidatorCode is the uppercase snake-case validator identifier.
	ValidatorCode string `json:"validator_code"`

	// Passed indicates whether the check succeeded.
	Passed bool `json:"passed"`

	// Severity is the effective severity applied to this result.
	Severity Severity `json:"severity"`

	// Message is a human-readable summary of the outcome.
	Message string `json:"message"`

	// Details carries structured failure context, empty on pass.
	Details []Detail `json:"details,omitempty"`
}

// Pass builds a passing result with the given message.
func Pass(code, message string) ValidatorResult {
	return ValidatorResult{ValidatorCode: code, Passed: true, Message: message}
}

// Fail builds a failing result. Severity is left blank so the gate runner
// can stamp the effective severity; checks that deliberately downgrade
// (e.g. untagged tests under ALLOW_UNTAGGED_TESTS) set it explicitly.
func Fail(code, message string, details ...Detail) ValidatorResult {
	return ValidatorResult{ValidatorCode: code, Message: message, Details: details}
}

// Warn builds a passing result that still carries a WARNING severity and
// message, used for advisory outcomes such as incomplete implementations.
func Warn(code, message string, details ...Detail) ValidatorResult {
	return ValidatorResult{
		ValidatorCode: code,
		Passed:        true,
		Severity:      SeverityWarning,
		Message:       message,
		Details:       details,
	}
}

// GateResult aggregates the validator results of one gate.
type GateResult struct {
	// Gate is the gate index (0..3).
	Gate int `json:"gate"`

	// Name is the human-readable gate name (e.g. "Sanitization").
	Name string `json:"name"`

	// Results holds every evaluated validator's result, ordered by the
	// validator's (order, code) pair regardless of completion order.
	Results []ValidatorResult `json:"results"`

	// Blocked indicates a HARD failure occurred and the pipeline must stop.
	Blocked bool `json:"blocked"`

	// Duration is the wall-clock time spent running the gate.
	Duration time.Duration `json:"duration_ns"`
}

// Failures returns the results that did not pass.
func (g *GateResult) Failures() []ValidatorResult {
	var out []ValidatorResult
	for _, r := range g.Results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Warnings returns every WARNING-severity result, including advisory
// passes, so callers can surface them even when the gate passed.
func (g *GateResult) Warnings() []ValidatorResult {
	var out []ValidatorResult
	for _, r := range g.Results {
		if r.Severity == SeverityWarning && (!r.Passed || r.Message != "") {
			out = append(out, r)
		}
	}
	return out
}

// PipelineVerdict is the final output of a pipeline run.
type PipelineVerdict struct {
	// RunID uniquely identifies this pipeline run.
	RunID string `json:"run_id"`

	// FinalGate is the index of the last gate that executed.
	FinalGate int `json:"final_gate"`

	// GateResults holds the results of every executed gate, in order.
	GateResults []GateResult `json:"gate_results"`

	// OverallPassed is true when every executed gate passed and no gate
	// was left unexecuted by a block or cancellation.
	OverallPassed bool `json:"overall_passed"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total wall-clock run time.
	Duration time.Duration `json:"duration_ns"`
}

// BlockedGate returns the first blocked gate result, or nil when the run
// was not blocked.
func (v *PipelineVerdict) BlockedGate() *GateResult {
	for i := range v.GateResults {
		if v.GateResults[i].Blocked {
			return &v.GateResults[i]
		}
	}
	return nil
}
