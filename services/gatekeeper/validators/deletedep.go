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
	"path"
	"sort"
	"strings"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

// sourceExtensions limits the importer scan to files that can carry
// import statements.
var sourceExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".mjs": true, ".cjs": true, ".mts": true, ".cts": true,
}

// checkDeleteDependency blocks deletions of files that are still
// imported by files the task does not also modify or delete. Import
// specifiers resolve relatively and through the configured PATH_ALIASES.
//
// The scan walks the repository (or, when DELETE_DEP_SCAN_SCOPE=diff,
// only diff-changed files), skipping DELETE_DEP_IGNORE_DIRS. A file the
// scan cannot read is a hard failure naming the path; a silently skipped
// importer would turn a real dependency into a pass.
func checkDeleteDependency(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	deleted := in.Task.Manifest.Deleted()
	if len(deleted) == 0 {
		return result.Pass(CodeDeleteDependencyCheck, "no deletions declared"), nil
	}
	if in.Task.Repo == nil {
		return result.Fail(CodeDeleteDependencyCheck,
			"deletions declared but no repository is attached to the task"), nil
	}

	ignoreDirs, err := in.Config.ResolveList(config.KeyDeleteDepIgnoreDirs)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	scanScope, err := in.Config.GetString(config.KeyDeleteDepScanScope)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	aliases, err := in.Config.ResolvePairs(config.KeyPathAliases)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	candidates, err := scanCandidates(in.Task, scanScope, ignoreDirs)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	// Files the task itself touches are allowed to reference the deleted
	// file; the change is expected to rewrite them.
	touched := make(map[string]bool)
	for _, f := range in.Task.Manifest.Files {
		touched[f.Path] = true
	}
	if in.Task.Manifest.TestFile != "" {
		touched[in.Task.Manifest.TestFile] = true
	}

	var details []result.Detail
	var orphaned []string

	for _, importer := range candidates {
		if touched[importer] {
			continue
		}
		content, err := in.Task.Repo.ReadFile(importer)
		if err != nil {
			return result.Fail(CodeDeleteDependencyCheck,
				fmt.Sprintf("cannot read %s while scanning for importers: %v", importer, err),
				result.Detail{Path: importer}), nil
		}
		for _, imp := range extractImports(string(content)) {
			target, ok := resolveSpecifier(imp.Spec, importer, aliases)
			if !ok {
				continue
			}
			for _, del := range deleted {
				if importTargets(target, del) {
					orphaned = append(orphaned, fmt.Sprintf("%s imports %s", importer, del))
					details = append(details, result.Detail{Path: importer, Pattern: del, Line: imp.Line})
				}
			}
		}
	}

	if len(orphaned) > 0 {
		return result.Fail(CodeDeleteDependencyCheck,
			fmt.Sprintf("deleted files still imported: %s", strings.Join(orphaned, "; ")),
			details...), nil
	}
	return result.Pass(CodeDeleteDependencyCheck,
		fmt.Sprintf("no surviving importers of %d deleted file(s)", len(deleted))), nil
}

// scanCandidates lists the source files to inspect for imports, sorted.
func scanCandidates(t *task.Context, scope string, ignoreDirs []string) ([]string, error) {
	ignored := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		ignored[d] = true
	}
	keep := func(p string) bool {
		if !sourceExtensions[path.Ext(p)] {
			return false
		}
		for _, seg := range strings.Split(path.Dir(p), "/") {
			if ignored[seg] {
				return false
			}
		}
		return true
	}

	var out []string
	switch scope {
	case "diff":
		for _, p := range t.Diff.ChangedPaths(true) {
			if keep(p) {
				out = append(out, p)
			}
		}
	case "repository":
		err := t.Repo.Walk(func(p string) error {
			if keep(p) {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk repository: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s=%q is not a scan scope",
			config.ErrConfigTypeMismatch, config.KeyDeleteDepScanScope, scope)
	}
	sort.Strings(out)
	return out, nil
}

// importTargets reports whether a resolved import target refers to the
// deleted file, allowing for the specifier's omitted extension.
func importTargets(target, deleted string) bool {
	for _, suffix := range resolutionProbes {
		if target+suffix == deleted {
			return true
		}
	}
	return false
}
