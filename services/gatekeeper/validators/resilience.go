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
)

// checkTestResilience flags UI tests built on fragile DOM selectors.
//
// A test file counts as a UI test when it contains any UI_TEST_MARKERS
// substring; non-UI files are skipped under SKIP_NON_UI_TESTS. A UI test
// containing FRAGILE_PATTERNS must also contain at least
// MIN_RESILIENT_PATTERNS occurrences of RESILIENT_PATTERNS.
func checkTestResilience(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	content := in.Task.TestFileContent
	if content == "" {
		return result.Pass(CodeTestResilienceCheck, "no test file content to inspect"), nil
	}

	skipNonUI, err := in.Config.GetBool(config.KeySkipNonUITests)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	markers, err := in.Config.ResolveList(config.KeyUITestMarkers)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	fragile, err := in.Config.ResolveList(config.KeyFragilePatterns)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	resilient, err := in.Config.ResolveList(config.KeyResilientPatterns)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	minResilient, err := in.Config.GetNumber(config.KeyMinResilientPatterns)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	if skipNonUI && !containsAny(content, markers) {
		return result.Pass(CodeTestResilienceCheck, "not a UI test, resilience check skipped"), nil
	}

	var fragileHits []string
	var details []result.Detail
	for _, p := range fragile {
		if n := strings.Count(content, p); n > 0 {
			fragileHits = append(fragileHits, fmt.Sprintf("%s (x%d)", p, n))
			details = append(details, result.Detail{Pattern: p, Path: in.Task.Manifest.TestFile})
		}
	}
	if len(fragileHits) == 0 {
		return result.Pass(CodeTestResilienceCheck, "no fragile selectors found"), nil
	}

	resilientCount := 0
	for _, p := range resilient {
		resilientCount += strings.Count(content, p)
	}
	if float64(resilientCount) >= minResilient {
		return result.Pass(CodeTestResilienceCheck,
			fmt.Sprintf("fragile selectors present but balanced by %d resilient quer(ies)", resilientCount)), nil
	}

	return result.Fail(CodeTestResilienceCheck,
		fmt.Sprintf("fragile selectors without resilient queries (%d found, %.0f required): %s",
			resilientCount, minResilient, strings.Join(fragileHits, ", ")),
		details...), nil
}

func containsAny(content string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(content, p) {
			return true
		}
	}
	return false
}
