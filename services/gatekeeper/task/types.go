// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package task models the unit under evaluation: the AI-generated change
// with its prompt, manifest, working diff, test file, contract clauses,
// and a read-only repository snapshot. A Context is built by the caller
// (the surrounding agent pipeline), evaluated by the engine, and never
// persisted here.
package task

import "strings"

// FileAction is the declared action on a manifest file.
type FileAction string

const (
	ActionCreate FileAction = "CREATE"
	ActionEdit   FileAction = "EDIT"
	ActionDelete FileAction = "DELETE"
)

// ManifestFile is one declared file plus its action.
type ManifestFile struct {
	Path   string     `json:"path" yaml:"path"`
	Action FileAction `json:"action" yaml:"action"`
}

// Manifest is the declared set of files a task is permitted to touch,
// plus the path of the test file covering the change.
type Manifest struct {
	Files    []ManifestFile `json:"files" yaml:"files"`
	TestFile string         `json:"test_file" yaml:"test_file"`
}

// Declares reports whether path appears in the manifest (including the
// test file). Paths are compared after slash normalization.
func (m *Manifest) Declares(path string) bool {
	path = normalize(path)
	if path == normalize(m.TestFile) && m.TestFile != "" {
		return true
	}
	for _, f := range m.Files {
		if normalize(f.Path) == path {
			return true
		}
	}
	return false
}

// Deleted returns the paths marked DELETE.
func (m *Manifest) Deleted() []string {
	var out []string
	for _, f := range m.Files {
		if f.Action == ActionDelete {
			out = append(out, f.Path)
		}
	}
	return out
}

// ImplementationFiles returns the declared non-test, non-delete paths:
// the files an implementation is expected to actually modify or create.
func (m *Manifest) ImplementationFiles() []string {
	test := normalize(m.TestFile)
	var out []string
	for _, f := range m.Files {
		if f.Action == ActionDelete {
			continue
		}
		if normalize(f.Path) == test {
			continue
		}
		out = append(out, f.Path)
	}
	return out
}

// Contract is the set of requirement clause IDs the change must satisfy.
// Tests reference clauses via "@clause <ID>" markers.
type Contract struct {
	Clauses []string `json:"clauses" yaml:"clauses"`
}

// HasClause reports whether id is declared by the contract.
func (c *Contract) HasClause(id string) bool {
	for _, clause := range c.Clauses {
		if clause == id {
			return true
		}
	}
	return false
}

// Context is the immutable snapshot a pipeline run evaluates.
//
// Thread Safety: validators treat a Context as read-only; it is safe to
// share across the concurrent validator executions of a gate.
type Context struct {
	// Prompt is the task prompt text.
	Prompt string

	// Manifest declares the files and actions of the change.
	Manifest Manifest

	// Diff is the working diff (staged, unstaged, and untracked hunks).
	Diff *WorkingDiff

	// TestFileContent is the current content of the declared test file.
	TestFileContent string

	// Contract declares the clause IDs tests must reference.
	Contract Contract

	// WorkspaceID selects project-level path conventions; empty uses the
	// global fallback only.
	WorkspaceID string

	// Repo is the read-only repository snapshot accessor.
	Repo Repository

	// DangerMode is the explicit opt-in for touching sensitive files.
	DangerMode bool
}

func normalize(path string) string {
	return strings.TrimPrefix(strings.ReplaceAll(path, "\\", "/"), "./")
}
