// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validators implements the closed catalog of checks the gate
// pipeline runs. Every check is a pure function over an immutable task
// snapshot plus configuration and policy; failures are returned as
// results, never raised as errors.
package validators

import (
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
)

// Validator codes. Codes are stable identifiers joining metadata,
// toggles, and report entries; they are never reused.
const (
	CodeTokenBudgetFit         = "TOKEN_BUDGET_FIT"
	CodeTaskScopeSize          = "TASK_SCOPE_SIZE"
	CodeTaskClarityCheck       = "TASK_CLARITY_CHECK"
	CodeSensitiveFilesLock     = "SENSITIVE_FILES_LOCK"
	CodeDangerModeExplicit     = "DANGER_MODE_EXPLICIT"
	CodePathConvention         = "PATH_CONVENTION"
	CodeDeleteDependencyCheck  = "DELETE_DEPENDENCY_CHECK"
	CodeTestClauseMappingValid = "TEST_CLAUSE_MAPPING_VALID"
	CodeImportRealityCheck     = "IMPORT_REALITY_CHECK"
	CodeBuildPass              = "BUILD_PASS"
	CodeLintPass               = "LINT_PASS"
	CodeDiffScopeEnforcement   = "DIFF_SCOPE_ENFORCEMENT"
	CodeTestResilienceCheck    = "TEST_RESILIENCE_CHECK"
	CodeRegressionPass         = "REGRESSION_PASS"
)

// catalog is the full validator set with pipeline placement. Order
// within a gate is presentation order only; a gate never short-circuits.
var catalog = []struct {
	md    registry.Metadata
	check registry.CheckFunc
}{
	// --- Gate 0: Sanitization ---
	{registry.Metadata{Code: CodeTokenBudgetFit, DisplayName: "Token Budget Fit",
		Description: "Assembled task context fits the token budget with safety margin.",
		Category:    "budget", Gate: 0, Order: 0, IsHardBlock: true}, checkTokenBudget},
	{registry.Metadata{Code: CodeTaskScopeSize, DisplayName: "Task Scope Size",
		Description: "Manifest declares no more files than the per-task limit.",
		Category:    "scope", Gate: 0, Order: 1, IsHardBlock: true}, checkTaskScopeSize},
	{registry.Metadata{Code: CodeTaskClarityCheck, DisplayName: "Task Clarity",
		Description: "Prompt is free of blacklisted ambiguous terms.",
		Category:    "clarity", Gate: 0, Order: 2, IsHardBlock: false}, checkTaskClarity},
	{registry.Metadata{Code: CodeSensitiveFilesLock, DisplayName: "Sensitive Files Lock",
		Description: "No sensitive file is in scope without explicit danger mode.",
		Category:    "safety", Gate: 0, Order: 3, IsHardBlock: true}, checkSensitiveFilesLock},
	{registry.Metadata{Code: CodeDangerModeExplicit, DisplayName: "Danger Mode Explicit",
		Description: "Danger mode is set exactly when a sensitive file is in scope.",
		Category:    "safety", Gate: 0, Order: 4, IsHardBlock: true}, checkDangerModeExplicit},

	// --- Gate 1: Contract ---
	{registry.Metadata{Code: CodePathConvention, DisplayName: "Path Convention",
		Description: "Declared test file follows the path convention for the artifact type.",
		Category:    "convention", Gate: 1, Order: 0, IsHardBlock: true}, checkPathConvention},
	{registry.Metadata{Code: CodeDeleteDependencyCheck, DisplayName: "Delete Dependency Check",
		Description: "No deleted file is still imported by surviving code.",
		Category:    "dependency", Gate: 1, Order: 1, IsHardBlock: true}, checkDeleteDependency},
	{registry.Metadata{Code: CodeTestClauseMappingValid, DisplayName: "Test Clause Mapping",
		Description: "Every test block maps to declared contract clauses.",
		Category:    "clause", Gate: 1, Order: 2, IsHardBlock: true}, checkClauseMapping},
	{registry.Metadata{Code: CodeImportRealityCheck, DisplayName: "Import Reality Check",
		Description: "Every import in the generated test file resolves.",
		Category:    "imports", Gate: 1, Order: 3, IsHardBlock: true}, checkImportReality},

	// --- Gate 2: Execution ---
	{registry.Metadata{Code: CodeBuildPass, DisplayName: "Build Pass",
		Description: "Configured compilation and build commands succeed.",
		Category:    "execution", Gate: 2, Order: 0, IsHardBlock: true}, checkBuildPass},
	{registry.Metadata{Code: CodeLintPass, DisplayName: "Lint Pass",
		Description: "Configured lint command succeeds.",
		Category:    "execution", Gate: 2, Order: 1, IsHardBlock: false}, checkLintPass},
	{registry.Metadata{Code: CodeDiffScopeEnforcement, DisplayName: "Diff Scope Enforcement",
		Description: "Working diff stays inside the declared manifest.",
		Category:    "diff_scope", Gate: 2, Order: 2, IsHardBlock: true}, checkDiffScope},
	{registry.Metadata{Code: CodeTestResilienceCheck, DisplayName: "Test Resilience Check",
		Description: "UI tests avoid fragile DOM selectors.",
		Category:    "resilience", Gate: 2, Order: 3, IsHardBlock: false}, checkTestResilience},

	// --- Gate 3: Integrity ---
	{registry.Metadata{Code: CodeRegressionPass, DisplayName: "Regression Pass",
		Description: "Configured regression test command succeeds.",
		Category:    "integrity", Gate: 3, Order: 0, IsHardBlock: true}, checkRegressionPass},
}

// RegisterAll installs the full catalog into a registry. Placement
// conflicts are programmer errors and panic at startup.
func RegisterAll(reg *registry.Registry) {
	for _, v := range catalog {
		reg.MustRegister(v.md, v.check)
	}
}
