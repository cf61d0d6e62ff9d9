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
)

// checkPathConvention verifies the declared test file follows the path
// convention for the primary artifact's type.
//
// The artifact type is derived from ordered type:regex pairs
// (PATH_TYPE_PATTERNS, first match wins); the convention is resolved
// project-level first, then the global workspace; the test path must
// match the convention's template with {name} substituted from the
// artifact's base name.
func checkPathConvention(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	impl := in.Task.Manifest.ImplementationFiles()
	if len(impl) == 0 {
		return result.Pass(CodePathConvention, "no implementation artifact to match"), nil
	}
	if in.Task.Manifest.TestFile == "" {
		return result.Fail(CodePathConvention, "manifest declares no test file"), nil
	}

	pairs, err := in.Config.ResolvePairs(config.KeyPathTypePatterns)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	artifact := impl[0]
	artifactType, err := deriveType(artifact, pairs)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	if artifactType == "" {
		return result.Fail(CodePathConvention,
			fmt.Sprintf("no type pattern matches artifact %s", artifact),
			result.Detail{Path: artifact}), nil
	}

	conv, ok := in.Policy.ConventionFor(in.Task.WorkspaceID, artifactType)
	if !ok {
		return result.Fail(CodePathConvention,
			fmt.Sprintf("no path convention for type %q (workspace %q or global)", artifactType, in.Task.WorkspaceID),
			result.Detail{Path: artifact, Pattern: artifactType}), nil
	}

	name := baseName(artifact)
	want := strings.ReplaceAll(conv.PathPattern, "{name}", name)
	testPath := strings.TrimPrefix(in.Task.Manifest.TestFile, "./")

	if !testPathMatches(want, testPath) {
		return result.Fail(CodePathConvention,
			fmt.Sprintf("test file %s diverges from convention %s for %s artifact %s",
				testPath, want, artifactType, artifact),
			result.Detail{Path: testPath, Pattern: conv.PathPattern}), nil
	}

	return result.Pass(CodePathConvention,
		fmt.Sprintf("%s follows the %s convention %s", testPath, artifactType, conv.PathPattern)), nil
}

// deriveType returns the first type whose regex matches the path.
func deriveType(artifact string, pairs []config.Pair) (string, error) {
	for _, p := range pairs {
		expr := strings.Trim(p.Value, "/")
		re, err := regexp.Compile(expr)
		if err != nil {
			return "", fmt.Errorf("%w: %s pattern %q: %v",
				config.ErrConfigTypeMismatch, config.KeyPathTypePatterns, p.Value, err)
		}
		if re.MatchString(artifact) {
			return p.Name, nil
		}
	}
	return "", nil
}

// baseName strips directories and the full extension chain, so
// src/services/Foo.ts and src/services/Foo.spec.ts both yield Foo.
func baseName(p string) string {
	base := path.Base(p)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// testPathMatches compares a substituted convention template against the
// test path. Templates containing a separator constrain the whole path;
// bare templates constrain only the file name.
func testPathMatches(want, testPath string) bool {
	if strings.Contains(want, "/") {
		return want == testPath || MatchGlob(want, testPath)
	}
	return path.Base(testPath) == want || MatchGlob(want, path.Base(testPath))
}
