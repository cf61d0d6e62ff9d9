// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

// checkDiffScope enforces that the working diff stays inside the
// manifest in both directions: no changed file outside the declaration,
// and no declared implementation file left untouched.
//
// Out-of-scope changes are always hard. The incomplete direction follows
// DIFF_SCOPE_INCOMPLETE_FAIL_MODE. A diff touching only the declared test
// file fails outright unless DIFF_SCOPE_ALLOW_TEST_ONLY_DIFF is set; the
// allowance waives that failure, not the incomplete-implementation report,
// so the untouched declared files still surface through the fail mode.
func checkDiffScope(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	includeWorkingTree, err := in.Config.GetBool(config.KeyDiffScopeIncludeWorkingTree)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	exclusions, err := in.Config.ResolveList(config.KeyDiffScopeGlobalExclusions)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	allowTestOnly, err := in.Config.GetBool(config.KeyDiffScopeAllowTestOnlyDiff)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	incompleteMode, err := in.Config.GetString(config.KeyDiffScopeIncompleteFailMode)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	changed := in.Task.Diff.ChangedPaths(includeWorkingTree)

	var inScope []string
	for _, p := range changed {
		if _, excluded := MatchAny(exclusions, p, true); excluded {
			continue
		}
		inScope = append(inScope, p)
	}

	// Direction 1: changes outside the manifest.
	var outOfScope []result.Detail
	for _, p := range inScope {
		if !in.Task.Manifest.Declares(p) {
			outOfScope = append(outOfScope, result.Detail{Path: p})
		}
	}
	if len(outOfScope) > 0 {
		names := make([]string, 0, len(outOfScope))
		for _, d := range outOfScope {
			names = append(names, d.Path)
		}
		return result.Fail(CodeDiffScopeEnforcement,
			fmt.Sprintf("diff touches undeclared files: %s", strings.Join(names, ", ")),
			outOfScope...), nil
	}

	// Direction 2: declared implementation files the diff never touched.
	var untouched []string
	for _, f := range in.Task.Manifest.Files {
		if f.Action == task.ActionDelete {
			continue
		}
		if !in.Task.Diff.Touches(f.Path) {
			untouched = append(untouched, f.Path)
		}
	}

	if len(untouched) > 0 {
		details := make([]result.Detail, 0, len(untouched))
		for _, p := range untouched {
			details = append(details, result.Detail{Path: p})
		}
		msg := fmt.Sprintf("declared files never modified: %s", strings.Join(untouched, ", "))
		if testOnlyDiff(in.Task, inScope) && !allowTestOnly {
			return result.Fail(CodeDiffScopeEnforcement,
				"diff touches only the declared test file; "+msg, details...), nil
		}
		if strings.EqualFold(incompleteMode, string(config.FailModeWarning)) {
			return result.Warn(CodeDiffScopeEnforcement, msg, details...), nil
		}
		return result.Fail(CodeDiffScopeEnforcement, msg, details...), nil
	}

	return result.Pass(CodeDiffScopeEnforcement,
		fmt.Sprintf("%d changed file(s) all within the declared scope", len(inScope))), nil
}

// testOnlyDiff reports whether every in-scope changed path is the
// declared test file.
func testOnlyDiff(t *task.Context, inScope []string) bool {
	if t.Manifest.TestFile == "" || len(inScope) == 0 {
		return false
	}
	for _, p := range inScope {
		if !strings.EqualFold(p, strings.TrimPrefix(t.Manifest.TestFile, "./")) {
			return false
		}
	}
	return true
}
