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

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

func TestExtractImports(t *testing.T) {
	content := `import { render } from '@testing-library/react'
import fs from 'node:fs'
const helper = require('./helper')
const lazy = await import('../lazy')
export { thing } from './thing'
// import 'commented-out'
`
	specs := extractImports(content)

	var got []string
	for _, s := range specs {
		got = append(got, s.Spec)
	}
	// The commented line still matches; lexical scanning does not strip
	// comments, and a phantom import failing resolution is acceptable
	// noise compared to missing a real one.
	assert.Contains(t, got, "@testing-library/react")
	assert.Contains(t, got, "node:fs")
	assert.Contains(t, got, "./helper")
	assert.Contains(t, got, "../lazy")
	assert.Contains(t, got, "./thing")
}

func importTask(content string, repo task.Repository, files ...task.ManifestFile) *task.Context {
	return &task.Context{
		Manifest: task.Manifest{
			Files:    files,
			TestFile: "src/services/user.spec.ts",
		},
		TestFileContent: content,
		Repo:            repo,
	}
}

func TestImportReality_ResolvesOnDisk(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"src/services/user.ts": "export const user = 1\n",
		"src/lib/util/index.ts": "export const util = 1\n",
	}}
	content := `import { user } from './user'
import { util } from '../lib/util'
import { expect } from 'vitest'
`
	in := testInputs(t, importTask(content, repo), nil, nil)
	r, err := checkImportReality(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed, r.Message)
}

func TestImportReality_ManifestCreatedFileResolves(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{}}
	content := `import { user } from './user'` + "\n"
	in := testInputs(t, importTask(content, repo,
		task.ManifestFile{Path: "src/services/user.ts", Action: task.ActionCreate}), nil, nil)

	r, err := checkImportReality(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed, "imports of files the task creates must resolve")
}

func TestImportReality_HallucinatedRelativeImport(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{}}
	content := `import { ghost } from './ghost'` + "\n"
	in := testInputs(t, importTask(content, repo), nil, nil)

	r, err := checkImportReality(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Passed)
	require.Len(t, r.Details, 1)
	assert.Equal(t, "./ghost", r.Details[0].Pattern)
	assert.Equal(t, 1, r.Details[0].Line)
}

func TestImportReality_AliasResolution(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"src/lib/format.ts": "export const format = 1\n",
	}}
	content := `import { format } from '@/lib/format'` + "\n"
	in := testInputs(t, importTask(content, repo), nil, nil)

	r, err := checkImportReality(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Passed, r.Message)
}

func TestImportReality_BareModules(t *testing.T) {
	repo := &task.MemRepository{Files: map[string]string{
		"node_modules/lodash/package.json": "{}",
	}}

	t.Run("builtin passes", func(t *testing.T) {
		in := testInputs(t, importTask(`import path from 'node:path'`+"\n", repo), nil, nil)
		r, err := checkImportReality(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, r.Passed)
	})

	t.Run("installed package passes", func(t *testing.T) {
		in := testInputs(t, importTask(`import _ from 'lodash'`+"\n", repo), nil, nil)
		r, err := checkImportReality(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, r.Passed)
	})

	t.Run("scoped extra passes", func(t *testing.T) {
		in := testInputs(t, importTask(`import { render } from '@testing-library/react'`+"\n", repo), nil, nil)
		r, err := checkImportReality(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, r.Passed)
	})

	t.Run("unknown package fails", func(t *testing.T) {
		in := testInputs(t, importTask(`import leftPad from 'left-pad'`+"\n", repo), nil, nil)
		r, err := checkImportReality(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, r.Passed)
		assert.Contains(t, r.Message, "left-pad")
	})
}
