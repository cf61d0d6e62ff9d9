// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gatekeeper exposes the validation pipeline over HTTP: task
// submission, the validator catalog, runtime toggles, and the live
// configuration surface.
package gatekeeper

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

// ManifestFilePayload is one declared file in a validation request.
type ManifestFilePayload struct {
	Path   string `json:"path" binding:"required,relpath"`
	Action string `json:"action" binding:"required,oneof=CREATE EDIT DELETE"`
}

var bindingsOnce sync.Once

// registerBindings installs the custom "relpath" rule: manifest paths
// must stay repo-relative, so absolute paths and parent traversal are
// rejected at the HTTP boundary before any validator sees them.
func registerBindings() {
	bindingsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("relpath", func(fl validator.FieldLevel) bool {
			p := path.Clean(strings.ReplaceAll(fl.Field().String(), "\\", "/"))
			return !strings.HasPrefix(p, "/") && p != ".." && !strings.HasPrefix(p, "../")
		})
	})
}

// ValidateRequest is the payload of POST /v1/gatekeeper/validate.
//
// The diff rides along as raw unified diff text (staged and unstaged
// separately) plus untracked paths, exactly as produced by the agent's
// git wrapper.
type ValidateRequest struct {
	Prompt string `json:"prompt" binding:"required"`

	Files    []ManifestFilePayload `json:"files" binding:"required,min=1,dive"`
	TestFile string                `json:"test_file"`

	StagedDiff     string   `json:"staged_diff"`
	UnstagedDiff   string   `json:"unstaged_diff"`
	UntrackedFiles []string `json:"untracked_files"`

	TestFileContent string   `json:"test_file_content"`
	ContractClauses []string `json:"contract_clauses"`

	WorkspaceID string `json:"workspace_id"`

	// RepoRoot optionally points at a checked-out tree for the I/O-bound
	// validators. Empty runs them against an empty in-memory snapshot.
	RepoRoot string `json:"repo_root"`

	DangerMode bool `json:"danger_mode"`
}

// ToTask converts the request into an immutable task snapshot.
func (r *ValidateRequest) ToTask() (*task.Context, error) {
	files := make([]task.ManifestFile, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, task.ManifestFile{
			Path:   f.Path,
			Action: task.FileAction(f.Action),
		})
	}

	wd, err := task.NewWorkingDiff([]byte(r.StagedDiff), []byte(r.UnstagedDiff), r.UntrackedFiles)
	if err != nil {
		return nil, fmt.Errorf("parse working diff: %w", err)
	}

	var repo task.Repository
	if r.RepoRoot != "" {
		repo = task.NewOSRepository(r.RepoRoot)
	} else {
		repo = &task.MemRepository{Files: map[string]string{}}
	}

	return &task.Context{
		Prompt:          r.Prompt,
		Manifest:        task.Manifest{Files: files, TestFile: r.TestFile},
		Diff:            wd,
		TestFileContent: r.TestFileContent,
		Contract:        task.Contract{Clauses: r.ContractClauses},
		WorkspaceID:     r.WorkspaceID,
		Repo:            repo,
		DangerMode:      r.DangerMode,
	}, nil
}

// TogglePayload is the body of PUT /v1/gatekeeper/validators/:code/toggle.
type TogglePayload struct {
	Enabled  bool   `json:"enabled"`
	FailMode string `json:"fail_mode" binding:"omitempty,oneof=HARD WARNING"`
}

// SettingPayload is the body of PUT /v1/gatekeeper/settings/:key.
type SettingPayload struct {
	Value string `json:"value" binding:"required"`
}

// ErrorResponse is the uniform error body of the HTTP surface.
type ErrorResponse struct {
	Error string `json:"error"`
}
