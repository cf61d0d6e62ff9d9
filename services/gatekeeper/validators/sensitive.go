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
	"sort"
	"strings"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/policy"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

// scopeFiles returns the union of manifest paths and diff-changed paths,
// sorted so repeated evaluations see an identical sequence.
func scopeFiles(t *task.Context) []string {
	seen := make(map[string]bool)
	for _, f := range t.Manifest.Files {
		seen[f.Path] = true
	}
	if t.Manifest.TestFile != "" {
		seen[t.Manifest.TestFile] = true
	}
	for _, p := range t.Diff.ChangedPaths(true) {
		seen[p] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// sensitiveMatches tests every in-scope file against every rule.
type sensitiveMatch struct {
	path string
	rule policy.SensitiveFileRule
}

func sensitiveMatches(t *task.Context, rules []policy.SensitiveFileRule) []sensitiveMatch {
	var out []sensitiveMatch
	for _, path := range scopeFiles(t) {
		for _, rule := range rules {
			if MatchGlob(rule.Pattern, path) {
				out = append(out, sensitiveMatch{path: path, rule: rule})
			}
		}
	}
	return out
}

// checkSensitiveFilesLock blocks tasks touching files locked by a
// sensitive-file rule, unless danger mode is explicitly set.
func checkSensitiveFilesLock(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	matches := sensitiveMatches(in.Task, in.Policy.SensitiveFiles)
	if len(matches) == 0 {
		return result.Pass(CodeSensitiveFilesLock, "no sensitive files in scope"), nil
	}
	if in.Task.DangerMode {
		return result.Pass(CodeSensitiveFilesLock,
			fmt.Sprintf("%d sensitive file(s) permitted by danger mode", len(matches))), nil
	}

	details := make([]result.Detail, 0, len(matches))
	var names []string
	for _, m := range matches {
		details = append(details, result.Detail{Path: m.path, Pattern: m.rule.Pattern})
		names = append(names, fmt.Sprintf("%s (%s)", m.path, m.rule.Category))
	}
	return result.Fail(CodeSensitiveFilesLock,
		fmt.Sprintf("sensitive files in scope without danger mode: %s", strings.Join(names, ", ")),
		details...), nil
}

// checkDangerModeExplicit keeps danger mode honest in both directions:
// the flag without a sensitive file is unjustified, and a sensitive file
// without the flag is an unacknowledged risk.
func checkDangerModeExplicit(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	matches := sensitiveMatches(in.Task, in.Policy.SensitiveFiles)

	switch {
	case in.Task.DangerMode && len(matches) == 0:
		return result.Fail(CodeDangerModeExplicit,
			"danger mode is set but no sensitive file is in scope; drop the flag"), nil

	case !in.Task.DangerMode && len(matches) > 0:
		details := make([]result.Detail, 0, len(matches))
		for _, m := range matches {
			details = append(details, result.Detail{Path: m.path, Pattern: m.rule.Pattern})
		}
		return result.Fail(CodeDangerModeExplicit,
			fmt.Sprintf("%d sensitive file(s) in scope require danger mode", len(matches)),
			details...), nil
	}

	return result.Pass(CodeDangerModeExplicit, "danger mode usage is consistent"), nil
}
