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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

const taggedTests = `import { describe, it, expect } from 'vitest'

describe('user service', () => {
  // @clause REQ-1
  it('creates a user', () => {
    expect(1).toBe(1)
  })

  it('rejects duplicates', () => {
    // @clause REQ-2
    expect(2).toBe(2)
  })
})
`

func clauseTask(content string, clauses ...string) *task.Context {
	return &task.Context{
		Manifest:        task.Manifest{TestFile: "src/user.spec.ts"},
		TestFileContent: content,
		Contract:        task.Contract{Clauses: clauses},
	}
}

func TestClauseMapping_AllTagged(t *testing.T) {
	in := testInputs(t, clauseTask(taggedTests, "REQ-1", "REQ-2"), nil, nil)
	r, err := checkClauseMapping(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed, r.Message)
}

func TestClauseMapping_UnknownClause(t *testing.T) {
	in := testInputs(t, clauseTask(taggedTests, "REQ-1"), nil, nil)
	r, err := checkClauseMapping(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Passed)
	assert.Contains(t, r.Message, "REQ-2")
	assert.Empty(t, r.Severity, "severity is stamped by the gate runner")
}

func TestClauseMapping_Untagged(t *testing.T) {
	content := `it('does something', () => {})` + "\n"

	t.Run("hard by default", func(t *testing.T) {
		in := testInputs(t, clauseTask(content, "REQ-1"), nil, nil)
		r, err := checkClauseMapping(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, r.Passed)
		assert.Empty(t, r.Severity)
	})

	t.Run("downgraded when allowed", func(t *testing.T) {
		in := testInputs(t, clauseTask(content, "REQ-1"),
			map[string]string{config.KeyAllowUntaggedTests: "true"}, nil)
		r, err := checkClauseMapping(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, r.Passed)
		assert.Equal(t, result.SeverityWarning, r.Severity)
	})
}

func TestClauseMapping_NoTestBlocks(t *testing.T) {
	in := testInputs(t, clauseTask("export const helper = 1\n"), nil, nil)
	r, err := checkClauseMapping(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed)
}

func TestParseTestBlocks(t *testing.T) {
	blocks := parseTestBlocks(taggedTests)
	require.Len(t, blocks, 2)

	assert.Equal(t, "creates a user", blocks[0].Title)
	assert.Equal(t, []string{"REQ-1"}, blocks[0].Clauses)

	assert.Equal(t, "rejects duplicates", blocks[1].Title)
	assert.Equal(t, []string{"REQ-2"}, blocks[1].Clauses)
}
