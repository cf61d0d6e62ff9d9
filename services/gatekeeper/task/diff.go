// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package task

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Hunk is one contiguous changed region of a file.
type Hunk struct {
	OldStart int `json:"old_start"`
	OldLines int `json:"old_lines"`
	NewStart int `json:"new_start"`
	NewLines int `json:"new_lines"`
}

// FileChange is the change set of a single file within the working diff.
type FileChange struct {
	// Path is the repo-relative slash path after the change.
	Path string `json:"path"`

	// OldPath is the pre-change path when the file was renamed, else
	// equal to Path. Empty for untracked files.
	OldPath string `json:"old_path,omitempty"`

	// Staged marks changes already in the index.
	Staged bool `json:"staged"`

	// Untracked marks files not yet known to version control.
	Untracked bool `json:"untracked"`

	// Deleted marks a file removed by the change.
	Deleted bool `json:"deleted"`

	// Hunks are the changed regions. Untracked files carry none.
	Hunks []Hunk `json:"hunks,omitempty"`
}

// WorkingDiff is the task's full working diff: staged and unstaged hunks
// parsed from unified diff text, plus untracked paths.
type WorkingDiff struct {
	Changes []FileChange `json:"changes"`
}

// NewWorkingDiff parses staged and unstaged unified diffs and folds in
// untracked paths.
//
// Inputs:
//   - staged: Unified diff of the index vs HEAD. May be empty.
//   - unstaged: Unified diff of the working tree vs the index. May be empty.
//   - untracked: Paths of files unknown to version control.
//
// Outputs:
//   - *WorkingDiff: The parsed diff.
//   - error: Non-nil when either diff text is malformed.
func NewWorkingDiff(staged, unstaged []byte, untracked []string) (*WorkingDiff, error) {
	wd := &WorkingDiff{}

	stagedChanges, err := parseUnifiedDiff(staged, true)
	if err != nil {
		return nil, fmt.Errorf("parse staged diff: %w", err)
	}
	wd.Changes = append(wd.Changes, stagedChanges...)

	unstagedChanges, err := parseUnifiedDiff(unstaged, false)
	if err != nil {
		return nil, fmt.Errorf("parse unstaged diff: %w", err)
	}
	wd.Changes = append(wd.Changes, unstagedChanges...)

	for _, path := range untracked {
		if path == "" {
			continue
		}
		wd.Changes = append(wd.Changes, FileChange{
			Path:      normalize(path),
			Untracked: true,
		})
	}

	return wd, nil
}

// parseUnifiedDiff converts unified diff text into FileChanges.
func parseUnifiedDiff(raw []byte, staged bool) ([]FileChange, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff(raw)
	if err != nil {
		return nil, err
	}

	changes := make([]FileChange, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		oldPath := stripDiffPrefix(fd.OrigName)
		newPath := stripDiffPrefix(fd.NewName)

		fc := FileChange{Staged: staged}
		switch {
		case newPath == "": // deletion
			fc.Path = oldPath
			fc.OldPath = oldPath
			fc.Deleted = true
		case oldPath == "": // creation
			fc.Path = newPath
			fc.OldPath = newPath
		default:
			fc.Path = newPath
			fc.OldPath = oldPath
		}

		for _, h := range fd.Hunks {
			fc.Hunks = append(fc.Hunks, Hunk{
				OldStart: int(h.OrigStartLine),
				OldLines: int(h.OrigLines),
				NewStart: int(h.NewStartLine),
				NewLines: int(h.NewLines),
			})
		}
		changes = append(changes, fc)
	}
	return changes, nil
}

// stripDiffPrefix removes the conventional a/ b/ prefixes and maps
// /dev/null to the empty path.
func stripDiffPrefix(name string) string {
	if name == "" || name == "/dev/null" {
		return ""
	}
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	return normalize(name)
}

// ChangedPaths returns the distinct changed paths, sorted. When
// includeWorkingTree is false, only staged changes are reported.
func (d *WorkingDiff) ChangedPaths(includeWorkingTree bool) []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, c := range d.Changes {
		if !includeWorkingTree && !c.Staged {
			continue
		}
		seen[c.Path] = true
		if c.OldPath != "" && c.OldPath != c.Path {
			seen[c.OldPath] = true
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Touches reports whether path appears in the diff (any stage).
func (d *WorkingDiff) Touches(path string) bool {
	if d == nil {
		return false
	}
	path = normalize(path)
	for _, c := range d.Changes {
		if c.Path == path || c.OldPath == path {
			return true
		}
	}
	return false
}
