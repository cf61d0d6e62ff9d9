// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	set, err := Defaults()
	require.NoError(t, err)

	assert.NotEmpty(t, set.SensitiveFiles)
	assert.NotEmpty(t, set.AmbiguousTerms)
	assert.NotEmpty(t, set.PathConventions)

	for _, rule := range set.SensitiveFiles {
		assert.Equal(t, SeverityBlock, rule.Severity, "rule %s", rule.Pattern)
	}

	// The seed blacklist carries both English and Portuguese hedge words.
	terms := make(map[string]bool)
	for _, term := range set.AmbiguousTerms {
		terms[term.Term] = true
	}
	assert.True(t, terms["maybe"])
	assert.True(t, terms["talvez"])
}

func TestConventionFor_Fallback(t *testing.T) {
	set := &Set{
		PathConventions: []PathConvention{
			{WorkspaceID: GlobalWorkspace, TestType: "service", PathPattern: "{name}.spec.ts"},
			{WorkspaceID: "ws-1", TestType: "service", PathPattern: "__tests__/{name}.test.ts"},
		},
	}

	conv, ok := set.ConventionFor("ws-1", "service")
	require.True(t, ok)
	assert.Equal(t, "__tests__/{name}.test.ts", conv.PathPattern)

	conv, ok = set.ConventionFor("ws-2", "service")
	require.True(t, ok, "global fallback expected")
	assert.Equal(t, "{name}.spec.ts", conv.PathPattern)

	_, ok = set.ConventionFor("ws-1", "widget")
	assert.False(t, ok)
}

func TestLoad_MergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `
sensitive_files:
  - pattern: "package-lock.json"
    category: lockfile
    severity: BLOCK
    description: replaced description
  - pattern: "**/terraform.tfstate"
    category: infra
    severity: BLOCK
ambiguous_terms:
  - {term: whatever, category: hedge}
toggles:
  - {code: TASK_CLARITY_CHECK, enabled: true, fail_mode: HARD}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := Load(path)
	require.NoError(t, err)

	var lockRule *SensitiveFileRule
	var tfCount int
	for i := range set.SensitiveFiles {
		if set.SensitiveFiles[i].Pattern == "package-lock.json" {
			lockRule = &set.SensitiveFiles[i]
		}
		if set.SensitiveFiles[i].Pattern == "**/terraform.tfstate" {
			tfCount++
		}
	}
	require.NotNil(t, lockRule)
	assert.Equal(t, "replaced description", lockRule.Description, "existing pattern replaced, not duplicated")
	assert.Equal(t, 1, tfCount, "new pattern appended once")

	toggle, ok := set.ToggleFor("TASK_CLARITY_CHECK")
	require.True(t, ok)
	assert.True(t, toggle.Enabled)
	assert.Equal(t, "HARD", toggle.FailMode)
}
