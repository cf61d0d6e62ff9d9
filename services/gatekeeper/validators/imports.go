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
	"regexp"
	"strings"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

// importSpec is one import specifier found in a source file.
type importSpec struct {
	Spec string
	Line int
}

// importSpecRe matches ES import/export-from clauses, dynamic import()
// and CommonJS require() calls. Lexical only; comments are not stripped.
var importSpecRe = regexp.MustCompile(
	`(?:\bimport\b[^'"]*?|\bexport\b[^'"]*?\bfrom\s*|\brequire\s*\(\s*|\bimport\s*\(\s*)['"]([^'"]+)['"]`)

// extractImports scans source text for module specifiers with line numbers.
func extractImports(content string) []importSpec {
	var out []importSpec
	for i, line := range strings.Split(content, "\n") {
		for _, m := range importSpecRe.FindAllStringSubmatch(line, -1) {
			out = append(out, importSpec{Spec: m[1], Line: i + 1})
		}
	}
	return out
}

// resolutionProbes are the candidate suffixes tried when a specifier
// omits its extension, mirroring a bundler's resolution order.
var resolutionProbes = []string{
	"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs",
	"/index.ts", "/index.tsx", "/index.js",
}

// resolveSpecifier maps an import specifier to a repo-relative path, or
// returns ok=false for bare module specifiers.
//
// Relative specifiers resolve against the importing file's directory.
// Alias specifiers (ordered alias:path pairs) resolve against the repo
// root.
func resolveSpecifier(spec, fromFile string, aliases []config.Pair) (string, bool) {
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		return path.Clean(path.Join(path.Dir(fromFile), spec)), true
	}
	for _, a := range aliases {
		if spec == a.Name {
			return a.Value, true
		}
		if strings.HasPrefix(spec, a.Name+"/") {
			return path.Clean(path.Join(a.Value, strings.TrimPrefix(spec, a.Name+"/"))), true
		}
	}
	return "", false
}

// pathResolves probes a repo-relative target against the repository and
// the manifest's created files.
func pathResolves(target string, repo task.Repository, created map[string]bool) bool {
	for _, suffix := range resolutionProbes {
		candidate := target + suffix
		if created[candidate] {
			return true
		}
		if repo != nil && repo.Exists(candidate) {
			return true
		}
	}
	return false
}

// packageName extracts the npm package name from a bare specifier,
// keeping the scope segment for @scope/pkg imports.
func packageName(spec string) string {
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// checkImportReality verifies every import in the generated test file
// resolves: relative and aliased imports must exist on disk or be created
// by the manifest, bare imports must be a known builtin, a configured
// extra, or present under node_modules.
func checkImportReality(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	if in.Task.TestFileContent == "" {
		return result.Pass(CodeImportRealityCheck, "no test file content to scan"), nil
	}

	aliases, err := in.Config.ResolvePairs(config.KeyPathAliases)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	builtins, err := in.Config.ResolveList(config.KeyBuiltinModules)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	extras, err := in.Config.ResolveList(config.KeyExtraModules)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	known := make(map[string]bool, len(builtins)+len(extras))
	for _, m := range builtins {
		known[m] = true
		known["node:"+m] = true
	}
	for _, m := range extras {
		known[m] = true
	}

	// Files the manifest creates may not exist yet; imports of them are
	// real by construction.
	created := make(map[string]bool)
	for _, f := range in.Task.Manifest.Files {
		if f.Action == task.ActionCreate {
			created[strings.TrimPrefix(f.Path, "./")] = true
		}
	}

	testFile := in.Task.Manifest.TestFile
	var details []result.Detail
	var missing []string

	for _, imp := range extractImports(in.Task.TestFileContent) {
		if target, ok := resolveSpecifier(imp.Spec, testFile, aliases); ok {
			if !pathResolves(target, in.Task.Repo, created) {
				missing = append(missing, imp.Spec)
				details = append(details, result.Detail{Path: target, Pattern: imp.Spec, Line: imp.Line})
			}
			continue
		}

		pkg := packageName(imp.Spec)
		if known[pkg] || known[imp.Spec] {
			continue
		}
		if in.Task.Repo != nil && in.Task.Repo.Exists(path.Join("node_modules", pkg, "package.json")) {
			continue
		}
		missing = append(missing, imp.Spec)
		details = append(details, result.Detail{Pattern: imp.Spec, Line: imp.Line})
	}

	if len(missing) > 0 {
		return result.Fail(CodeImportRealityCheck,
			fmt.Sprintf("unresolvable imports in %s: %s", testFile, strings.Join(missing, ", ")),
			details...), nil
	}
	return result.Pass(CodeImportRealityCheck, "all imports resolve"), nil
}
