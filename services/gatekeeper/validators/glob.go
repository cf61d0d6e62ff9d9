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
	"path/filepath"
	"strings"
)

// MatchGlob matches a slash path against a glob pattern.
//
// Semantics:
//   - ** matches any sequence of characters including separators
//   - * matches any characters within a single segment
//   - ? matches one non-separator character
//   - [abc] matches a character class
//
// A pattern without a separator also matches against the path's base
// name, so "package-lock.json" locks the file at any depth. Matching is
// pure string work over an immutable pattern and path, hence idempotent.
func MatchGlob(pattern, path string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if strings.Contains(pattern, "**") {
		return matchRecursive(pattern, path)
	}

	if ok, _ := filepath.Match(pattern, path); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := filepath.Match(pattern, filepath.Base(path))
		return ok
	}
	return false
}

// matchRecursive handles patterns containing **.
func matchRecursive(pattern, path string) bool {
	parts := strings.Split(pattern, "**")

	if len(parts) == 2 {
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		if prefix != "" {
			if path != prefix && !strings.HasPrefix(path, prefix+"/") {
				return false
			}
			path = strings.TrimPrefix(path, prefix+"/")
		}
		if suffix == "" {
			return true
		}
		return matchTail(suffix, path)
	}

	// Multiple **: the literal fragments must appear in order.
	at := 0
	for i, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		idx := strings.Index(path[at:], part)
		if idx < 0 {
			return false
		}
		if i == 0 && !strings.HasPrefix(pattern, "**") && idx != 0 {
			return false
		}
		at += idx + len(part)
	}
	if !strings.HasSuffix(pattern, "**") && at != len(path) {
		return false
	}
	return true
}

// matchTail checks whether any path suffix (on a segment boundary)
// matches the pattern tail following a **.
func matchTail(suffix, path string) bool {
	if strings.ContainsAny(suffix, "*?[") {
		segments := strings.Split(path, "/")
		for i := range segments {
			if ok, _ := filepath.Match(suffix, strings.Join(segments[i:], "/")); ok {
				return true
			}
		}
		return false
	}
	return path == suffix ||
		strings.HasSuffix(path, "/"+suffix) ||
		strings.HasPrefix(path, suffix+"/") ||
		strings.Contains(path, "/"+suffix+"/")
}

// MatchAny reports whether the path matches any of the patterns. An
// element without glob metacharacters falls back to substring matching,
// which is what the diff-scope exclusion list expects.
func MatchAny(patterns []string, path string, substringFallback bool) (string, bool) {
	for _, p := range patterns {
		if MatchGlob(p, path) {
			return p, true
		}
		if substringFallback && !strings.ContainsAny(p, "*?[") && strings.Contains(path, p) {
			return p, true
		}
	}
	return "", false
}
