// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry maps validator codes to their pipeline placement,
// severity defaults, operator toggles, and executable check functions.
// The validator set is a closed catalog known at build time; nothing is
// discovered by reflection.
package registry

import (
	"context"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/policy"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

// MaxGate is the highest gate index.
const MaxGate = 3

// Metadata defines a validator's pipeline placement and default severity.
// Immutable during a run.
type Metadata struct {
	// Code is the stable uppercase snake-case identifier. It is the join
	// key between metadata, toggles, and reports, and is never reused
	// for a different check.
	Code string `json:"code"`

	// DisplayName is the human-readable name.
	DisplayName string `json:"display_name"`

	// Description explains what the validator checks.
	Description string `json:"description"`

	// Category groups related validators.
	Category string `json:"category"`

	// Gate is the pipeline stage (0..3) the validator runs in.
	Gate int `json:"gate"`

	// Order breaks ties within a gate. (Gate, Order) is globally unique.
	Order int `json:"order"`

	// IsHardBlock sets the default severity: HARD when true, else WARNING.
	IsHardBlock bool `json:"is_hard_block"`
}

// Inputs bundles everything a check evaluates: the immutable task
// snapshot, the live configuration store, and the policy records. The
// store is threaded explicitly so runs with different configurations
// cannot interfere.
type Inputs struct {
	Task   *task.Context
	Config *config.Store
	Policy *policy.Set
}

// CheckFunc is a single validator's executable check.
//
// A failed check is an expected outcome carried in the ValidatorResult;
// the error return is reserved for engine defects (missing or malformed
// configuration) that must abort the whole run.
type CheckFunc func(ctx context.Context, in Inputs) (result.ValidatorResult, error)

// Entry is a resolved validator: metadata, check, and effective toggle.
type Entry struct {
	Metadata Metadata
	Check    CheckFunc
	Toggle   policy.Toggle
	hasTog   bool
}

// Enabled reports whether the validator should run.
func (e *Entry) Enabled() bool {
	if !e.hasTog {
		return true
	}
	return e.Toggle.Enabled
}

// FailModeOverride returns the toggle's severity override, or "".
func (e *Entry) FailModeOverride() string {
	if !e.hasTog {
		return ""
	}
	return e.Toggle.FailMode
}

// EffectiveSeverity is the toggle override when present, else the
// metadata default (HARD iff IsHardBlock).
func (e *Entry) EffectiveSeverity() result.Severity {
	switch e.FailModeOverride() {
	case string(result.SeverityHard):
		return result.SeverityHard
	case string(result.SeverityWarning):
		return result.SeverityWarning
	}
	if e.Metadata.IsHardBlock {
		return result.SeverityHard
	}
	return result.SeverityWarning
}

// CanBlockSoftGates reports whether this validator may still halt the
// pipeline when ALLOW_SOFT_GATES is set: it must be a hard block by
// metadata and must not be downgraded to WARNING.
func (e *Entry) CanBlockSoftGates() bool {
	return e.Metadata.IsHardBlock && e.FailModeOverride() != string(result.SeverityWarning)
}
