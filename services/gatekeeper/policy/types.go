// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package policy holds the data-driven records that parametrize validators
// beyond scalar settings: sensitive-file rules, ambiguous-term blacklists,
// path conventions, and per-validator toggles. Defaults ship embedded in
// the binary; operators may overlay a YAML file.
package policy

// GlobalWorkspace is the workspace ID supplying fallback path conventions.
const GlobalWorkspace = "__global__"

// RuleSeverity is the severity class of a sensitive-file rule.
type RuleSeverity string

// SeverityBlock is the only severity currently defined for sensitive-file
// rules: a match blocks unless danger mode is set.
const SeverityBlock RuleSeverity = "BLOCK"

// SensitiveFileRule locks files matching a glob pattern behind danger mode.
// Rules are unique by pattern.
type SensitiveFileRule struct {
	// Pattern is a glob: ** spans path segments, * stays within one.
	Pattern string `yaml:"pattern" json:"pattern"`

	// Category groups the rule (e.g. "secrets", "ci", "lockfile").
	Category string `yaml:"category" json:"category"`

	// Severity is always BLOCK today.
	Severity RuleSeverity `yaml:"severity" json:"severity"`

	// Description explains why the files are locked.
	Description string `yaml:"description" json:"description,omitempty"`
}

// AmbiguousTerm is one entry of the lexical clarity blacklist.
type AmbiguousTerm struct {
	// Term is matched as a case-insensitive whole word in the task prompt.
	Term string `yaml:"term" json:"term"`

	// Category groups the term (e.g. "hedge", "vague_noun").
	Category string `yaml:"category" json:"category"`
}

// PathConvention maps a derived artifact type to a test-path template.
// Unique per (WorkspaceID, TestType); GlobalWorkspace supplies fallbacks.
type PathConvention struct {
	// WorkspaceID scopes the convention to a project, or GlobalWorkspace.
	WorkspaceID string `yaml:"workspace_id" json:"workspace_id"`

	// TestType is the derived artifact type (e.g. "service", "component").
	TestType string `yaml:"test_type" json:"test_type"`

	// PathPattern is a template with a {name} placeholder, substituted
	// from the artifact's base name (e.g. "{name}.spec.ts").
	PathPattern string `yaml:"path_pattern" json:"path_pattern"`

	// Description explains the convention.
	Description string `yaml:"description" json:"description,omitempty"`
}

// Toggle lets an operator disable a validator or override its severity
// independent of the metadata's hard-block default.
type Toggle struct {
	// Code is the validator code the toggle applies to.
	Code string `yaml:"code" json:"code"`

	// Enabled gates whether the validator runs at all.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// FailMode overrides severity: "HARD", "WARNING", or empty for none.
	FailMode string `yaml:"fail_mode,omitempty" json:"fail_mode,omitempty"`
}

// Set bundles every policy record consumed during a pipeline run.
//
// Thread Safety: a Set is immutable once built; share freely across
// concurrent validator executions.
type Set struct {
	SensitiveFiles  []SensitiveFileRule `yaml:"sensitive_files" json:"sensitive_files"`
	AmbiguousTerms  []AmbiguousTerm     `yaml:"ambiguous_terms" json:"ambiguous_terms"`
	PathConventions []PathConvention    `yaml:"path_conventions" json:"path_conventions"`
	Toggles         []Toggle            `yaml:"toggles" json:"toggles"`
}

// ConventionFor resolves the path convention for (workspaceID, testType),
// falling back to the global workspace when no project-level entry exists.
func (s *Set) ConventionFor(workspaceID, testType string) (PathConvention, bool) {
	var global PathConvention
	var haveGlobal bool
	for _, c := range s.PathConventions {
		if c.TestType != testType {
			continue
		}
		if c.WorkspaceID == workspaceID && workspaceID != "" {
			return c, true
		}
		if c.WorkspaceID == GlobalWorkspace {
			global = c
			haveGlobal = true
		}
	}
	return global, haveGlobal
}

// ToggleFor returns the toggle for a validator code, if one exists.
func (s *Set) ToggleFor(code string) (Toggle, bool) {
	for _, t := range s.Toggles {
		if t.Code == code {
			return t, true
		}
	}
	return Toggle{}, false
}
