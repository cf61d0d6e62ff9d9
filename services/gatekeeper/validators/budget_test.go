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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

func TestTokenBudget_WithinBudget(t *testing.T) {
	in := testInputs(t, &task.Context{Prompt: "add a helper"}, nil, nil)

	r, err := checkTokenBudget(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed)
	assert.Equal(t, CodeTokenBudgetFit, r.ValidatorCode)
}

func TestTokenBudget_Exceeded(t *testing.T) {
	// Budget 10 tokens * 0.85 margin = 8.5; the prompt alone is bigger.
	in := testInputs(t, &task.Context{Prompt: strings.Repeat("expand the scope ", 50)},
		map[string]string{config.KeyMaxTokenBudget: "10"}, nil)

	r, err := checkTokenBudget(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Passed)
	assert.Contains(t, r.Message, "exceeds the budget")
}

func TestTokenBudget_CountsExistingFileContents(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"src/big.ts": strings.Repeat("x", 4000),
	}}
	tc := &task.Context{
		Prompt: "edit the big file",
		Manifest: task.Manifest{Files: []task.ManifestFile{
			{Path: "src/big.ts", Action: task.ActionEdit},
		}},
		Repo: repo,
	}
	in := testInputs(t, tc, map[string]string{config.KeyMaxTokenBudget: "500"}, nil)

	r, err := checkTokenBudget(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Passed, "existing file content must count against the budget")
}

func TestTokenBudget_UnknownEstimatorIsEngineError(t *testing.T) {
	in := testInputs(t, &task.Context{Prompt: "x"},
		map[string]string{config.KeyTokenEstimator: "guesswork"}, nil)

	_, err := checkTokenBudget(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigTypeMismatch))
}

func TestTaskScopeSize(t *testing.T) {
	files := make([]task.ManifestFile, 0, 4)
	for _, p := range []string{"a.ts", "b.ts", "c.ts", "d.ts"} {
		files = append(files, task.ManifestFile{Path: p, Action: task.ActionEdit})
	}
	tc := &task.Context{Manifest: task.Manifest{Files: files}}

	in := testInputs(t, tc, map[string]string{config.KeyMaxFilesPerTask: "3"}, nil)
	r, err := checkTaskScopeSize(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Passed)

	in = testInputs(t, tc, map[string]string{config.KeyMaxFilesPerTask: "4"}, nil)
	r, err = checkTaskScopeSize(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed)
}
