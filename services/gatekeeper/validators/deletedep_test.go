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
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

func deleteTask(repo task.Repository, extra ...task.ManifestFile) *task.Context {
	files := append([]task.ManifestFile{
		{Path: "src/legacy.ts", Action: task.ActionDelete},
	}, extra...)
	return &task.Context{
		Manifest: task.Manifest{Files: files},
		Repo:     repo,
	}
}

func TestDeleteDependency_SurvivingImporterBlocks(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"src/legacy.ts":   "export const legacy = 1\n",
		"src/consumer.ts": "import { legacy } from './legacy'\n",
		"src/clean.ts":    "export const clean = 2\n",
	}}
	in := testInputs(t, deleteTask(repo), nil, nil)

	r, err := checkDeleteDependency(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Passed)
	require.Len(t, r.Details, 1)
	assert.Equal(t, "src/consumer.ts", r.Details[0].Path)
	assert.Equal(t, "src/legacy.ts", r.Details[0].Pattern)
}

func TestDeleteDependency_RewrittenImporterPasses(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"src/legacy.ts":   "export const legacy = 1\n",
		"src/consumer.ts": "import { legacy } from './legacy'\n",
	}}
	// The task also edits the consumer, so its stale import is expected.
	in := testInputs(t, deleteTask(repo,
		task.ManifestFile{Path: "src/consumer.ts", Action: task.ActionEdit}), nil, nil)

	r, err := checkDeleteDependency(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed)
}

func TestDeleteDependency_AliasImporterBlocks(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"src/util/old.ts": "export const old = 1\n",
		"src/app/main.ts": "import { old } from '@/util/old'\n",
	}}
	tc := &task.Context{
		Manifest: task.Manifest{Files: []task.ManifestFile{
			{Path: "src/util/old.ts", Action: task.ActionDelete},
		}},
		Repo: repo,
	}
	in := testInputs(t, tc, nil, nil)

	r, err := checkDeleteDependency(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Passed, "alias-resolved imports are still imports")
	require.Len(t, r.Details, 1)
	assert.Equal(t, "src/app/main.ts", r.Details[0].Path)
	assert.Equal(t, "src/util/old.ts", r.Details[0].Pattern)
}

func TestDeleteDependency_IgnoredDirsSkipped(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"src/legacy.ts":                "export const legacy = 1\n",
		"node_modules/pkg/index.js":    "require('../../src/legacy')\n",
		"dist/bundle.js":               "require('../src/legacy')\n",
	}}
	in := testInputs(t, deleteTask(repo), nil, nil)

	r, err := checkDeleteDependency(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed, r.Message)
}

func TestDeleteDependency_DiffScope(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"src/legacy.ts":   "export const legacy = 1\n",
		"src/consumer.ts": "import './legacy'\n",
		"src/other.ts":    "import './legacy'\n",
	}}
	tc := deleteTask(repo)
	tc.Diff = &task.WorkingDiff{Changes: []task.FileChange{
		{Path: "src/consumer.ts", Staged: true},
	}}
	in := testInputs(t, tc, map[string]string{config.KeyDeleteDepScanScope: "diff"}, nil)

	// Only the diff-changed consumer is scanned; other.ts is invisible.
	r, err := checkDeleteDependency(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Passed)
	require.Len(t, r.Details, 1)
	assert.Equal(t, "src/consumer.ts", r.Details[0].Path)
}

func TestDeleteDependency_NoDeletions(t *testing.T) {
	tc := &task.Context{Manifest: task.Manifest{Files: []task.ManifestFile{
		{Path: "src/a.ts", Action: task.ActionEdit},
	}}}
	in := testInputs(t, tc, nil, nil)

	r, err := checkDeleteDependency(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed)
}

func TestDeleteDependency_BadScanScope(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{"src/legacy.ts": ""}}
	in := testInputs(t, deleteTask(repo), map[string]string{config.KeyDeleteDepScanScope: "galaxy"}, nil)

	_, err := checkDeleteDependency(context.Background(), in)
	require.ErrorIs(t, err, config.ErrConfigTypeMismatch)
}
