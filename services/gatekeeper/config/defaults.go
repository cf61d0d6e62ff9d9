// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// Setting keys. Every tunable the engine consults is declared here with a
// type and default; no policy constant is hard-coded outside this surface.
const (
	KeyMaxTokenBudget     = "MAX_TOKEN_BUDGET"
	KeyTokenSafetyMargin  = "TOKEN_SAFETY_MARGIN"
	KeyTokenEstimator     = "TOKEN_ESTIMATOR"
	KeyTokenCharsPerToken = "TOKEN_CHARS_PER_TOKEN"

	KeyMaxFilesPerTask = "MAX_FILES_PER_TASK"

	KeyPathTypePatterns = "PATH_TYPE_PATTERNS"

	KeyDeleteDepIgnoreDirs = "DELETE_DEP_IGNORE_DIRS"
	KeyDeleteDepScanScope  = "DELETE_DEP_SCAN_SCOPE"

	KeyDiffScopeIncludeWorkingTree = "DIFF_SCOPE_INCLUDE_WORKING_TREE"
	KeyDiffScopeGlobalExclusions   = "DIFF_SCOPE_GLOBAL_EXCLUSIONS"
	KeyDiffScopeAllowTestOnlyDiff  = "DIFF_SCOPE_ALLOW_TEST_ONLY_DIFF"
	KeyDiffScopeIncompleteFailMode = "DIFF_SCOPE_INCOMPLETE_FAIL_MODE"

	KeySkipNonUITests       = "SKIP_NON_UI_TESTS"
	KeyUITestMarkers        = "UI_TEST_MARKERS"
	KeyFragilePatterns      = "FRAGILE_PATTERNS"
	KeyResilientPatterns    = "RESILIENT_PATTERNS"
	KeyMinResilientPatterns = "MIN_RESILIENT_PATTERNS"

	KeyAllowUntaggedTests = "ALLOW_UNTAGGED_TESTS"

	KeyPathAliases    = "PATH_ALIASES"
	KeyBuiltinModules = "BUILTIN_MODULES"
	KeyExtraModules   = "EXTRA_MODULES"

	KeyAllowSoftGates = "ALLOW_SOFT_GATES"

	KeyCompilationCommand   = "COMPILATION_COMMAND"
	KeyCompilationTimeoutMS = "COMPILATION_TIMEOUT_MS"
	KeyBuildCommand         = "BUILD_COMMAND"
	KeyBuildTimeoutMS       = "BUILD_TIMEOUT_MS"
	KeyLintCommand          = "LINT_COMMAND"
	KeyLintTimeoutMS        = "LINT_TIMEOUT_MS"
	KeyTestCommand          = "TEST_COMMAND"
	KeyTestTimeoutMS        = "TEST_EXECUTION_TIMEOUT_MS"
)

// defaultSettings is the complete configuration surface with defaults.
// Lists are comma-separated; pair lists use name:value elements whose
// order is significant (first match wins).
var defaultSettings = []Setting{
	// --- Token budget ---
	{Key: KeyMaxTokenBudget, Value: "100000", Type: TypeNumber, Category: "budget",
		Description: "Maximum token budget for the assembled task context."},
	{Key: KeyTokenSafetyMargin, Value: "0.85", Type: TypeNumber, Category: "budget",
		Description: "Fraction of the budget the estimate may consume."},
	{Key: KeyTokenEstimator, Value: "heuristic", Type: TypeString, Category: "budget",
		Description: "Token estimator: heuristic (chars per token) or tiktoken."},
	{Key: KeyTokenCharsPerToken, Value: "4", Type: TypeNumber, Category: "budget",
		Description: "Characters per token for the heuristic estimator."},

	// --- Scope ---
	{Key: KeyMaxFilesPerTask, Value: "10", Type: TypeNumber, Category: "scope",
		Description: "Maximum number of files a task manifest may declare."},

	// --- Path conventions ---
	{Key: KeyPathTypePatterns, Value: "service:/services?/,component:/components?/,controller:/controllers?/,model:/models?/,hook:/hooks?/,util:/utils?/,lib:/lib/", Type: TypeString, Category: "convention",
		Description: "Ordered type:regex pairs used to derive an artifact type from its path."},

	// --- Delete dependency ---
	{Key: KeyDeleteDepIgnoreDirs, Value: "node_modules,dist,build,coverage,.git,vendor", Type: TypeString, Category: "dependency",
		Description: "Directories skipped when scanning for importers of deleted files."},
	{Key: KeyDeleteDepScanScope, Value: "repository", Type: TypeString, Category: "dependency",
		Description: "Importer scan scope: repository (whole tree) or diff."},

	// --- Diff scope ---
	{Key: KeyDiffScopeIncludeWorkingTree, Value: "true", Type: TypeBoolean, Category: "diff_scope",
		Description: "Include unstaged and untracked changes in scope enforcement."},
	{Key: KeyDiffScopeGlobalExclusions, Value: "package-lock.json,node_modules/**,dist/**,coverage/**,*.log", Type: TypeString, Category: "diff_scope",
		Description: "Changed paths removed from scope enforcement (glob or substring)."},
	{Key: KeyDiffScopeAllowTestOnlyDiff, Value: "true", Type: TypeBoolean, Category: "diff_scope",
		Description: "Allow a diff touching only the declared test file."},
	{Key: KeyDiffScopeIncompleteFailMode, Value: "WARNING", Type: TypeString, Category: "diff_scope",
		Description: "Fail mode when declared non-test files are unmodified: HARD or WARNING."},

	// --- Test resilience ---
	{Key: KeySkipNonUITests, Value: "true", Type: TypeBoolean, Category: "resilience",
		Description: "Skip the resilience check for test files without UI markers."},
	{Key: KeyUITestMarkers, Value: "render(,screen.,fireEvent,userEvent,@testing-library", Type: TypeString, Category: "resilience",
		Description: "Substrings identifying a UI-testing file."},
	{Key: KeyFragilePatterns, Value: ".innerHTML,.outerHTML,querySelector(,querySelectorAll(,.children[,.firstChild,.lastChild", Type: TypeString, Category: "resilience",
		Description: "Substrings considered fragile selectors in test files."},
	{Key: KeyResilientPatterns, Value: "getByRole(,getByLabelText(,getByText(,getByPlaceholderText(,findByRole(,findByText(", Type: TypeString, Category: "resilience",
		Description: "Substrings counted as resilient queries."},
	{Key: KeyMinResilientPatterns, Value: "1", Type: TypeNumber, Category: "resilience",
		Description: "Minimum resilient occurrences required when fragile patterns appear."},

	// --- Clause mapping ---
	{Key: KeyAllowUntaggedTests, Value: "false", Type: TypeBoolean, Category: "clause",
		Description: "Downgrade untagged test blocks to WARNING instead of HARD."},

	// --- Import reality ---
	{Key: KeyPathAliases, Value: "@:src,~:src", Type: TypeString, Category: "imports",
		Description: "Ordered alias:path pairs applied before resolving imports on disk."},
	{Key: KeyBuiltinModules, Value: "fs,path,os,http,https,crypto,url,util,events,stream,child_process,zlib,net,assert,buffer,process", Type: TypeString, Category: "imports",
		Description: "Module names always considered resolvable."},
	{Key: KeyExtraModules, Value: "react,react-dom,vitest,jest,@testing-library/react,@testing-library/user-event", Type: TypeString, Category: "imports",
		Description: "Additional module names treated as installed."},

	// --- Pipeline ---
	{Key: KeyAllowSoftGates, Value: "false", Type: TypeBoolean, Category: "pipeline",
		Description: "Only explicit hard-block validators may halt the pipeline."},

	// --- External tools (gates 2/3) ---
	{Key: KeyCompilationCommand, Value: "", Type: TypeString, Category: "execution",
		Description: "Type-check command; empty disables the check."},
	{Key: KeyCompilationTimeoutMS, Value: "60000", Type: TypeNumber, Category: "execution",
		Description: "Compilation timeout in milliseconds."},
	{Key: KeyBuildCommand, Value: "", Type: TypeString, Category: "execution",
		Description: "Build command; empty disables the check."},
	{Key: KeyBuildTimeoutMS, Value: "120000", Type: TypeNumber, Category: "execution",
		Description: "Build timeout in milliseconds."},
	{Key: KeyLintCommand, Value: "", Type: TypeString, Category: "execution",
		Description: "Lint command; empty disables the check."},
	{Key: KeyLintTimeoutMS, Value: "60000", Type: TypeNumber, Category: "execution",
		Description: "Lint timeout in milliseconds."},
	{Key: KeyTestCommand, Value: "", Type: TypeString, Category: "execution",
		Description: "Regression test command; empty disables the check."},
	{Key: KeyTestTimeoutMS, Value: "300000", Type: TypeNumber, Category: "execution",
		Description: "Test execution timeout in milliseconds."},
}
