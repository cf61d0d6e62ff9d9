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
	"testing"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/policy"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

// testInputs assembles validator inputs from a task snapshot, optional
// setting overrides, and an optional policy set.
func testInputs(t *testing.T, tc *task.Context, overrides map[string]string, pol *policy.Set) registry.Inputs {
	t.Helper()

	cfg := config.NewStore()
	for k, v := range overrides {
		if err := cfg.Set(k, v); err != nil {
			t.Fatalf("override %s: %v", k, err)
		}
	}
	if pol == nil {
		pol = &policy.Set{}
	}
	if tc.Diff == nil {
		tc.Diff = &task.WorkingDiff{}
	}
	return registry.Inputs{Task: tc, Config: cfg, Policy: pol}
}
