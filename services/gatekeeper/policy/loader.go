// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load builds the effective policy set: embedded defaults overlaid with
// the user file at path. An empty path returns the defaults alone.
//
// Merge semantics:
//   - Sensitive-file rules are unique by pattern: a user rule with an
//     existing pattern replaces the default, otherwise it is appended.
//   - Ambiguous terms are unique by term, same replace-or-append rule.
//   - Path conventions are unique per (workspace_id, test_type).
//   - Toggles are unique by code.
func Load(path string) (*Set, error) {
	base, err := Defaults()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	var user Set
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	base.merge(&user)
	return base, nil
}

func (s *Set) merge(user *Set) {
	for _, rule := range user.SensitiveFiles {
		replaced := false
		for i := range s.SensitiveFiles {
			if s.SensitiveFiles[i].Pattern == rule.Pattern {
				s.SensitiveFiles[i] = rule
				replaced = true
				break
			}
		}
		if !replaced {
			s.SensitiveFiles = append(s.SensitiveFiles, rule)
		}
	}

	for _, term := range user.AmbiguousTerms {
		replaced := false
		for i := range s.AmbiguousTerms {
			if s.AmbiguousTerms[i].Term == term.Term {
				s.AmbiguousTerms[i] = term
				replaced = true
				break
			}
		}
		if !replaced {
			s.AmbiguousTerms = append(s.AmbiguousTerms, term)
		}
	}

	for _, conv := range user.PathConventions {
		replaced := false
		for i := range s.PathConventions {
			if s.PathConventions[i].WorkspaceID == conv.WorkspaceID &&
				s.PathConventions[i].TestType == conv.TestType {
				s.PathConventions[i] = conv
				replaced = true
				break
			}
		}
		if !replaced {
			s.PathConventions = append(s.PathConventions, conv)
		}
	}

	for _, toggle := range user.Toggles {
		replaced := false
		for i := range s.Toggles {
			if s.Toggles[i].Code == toggle.Code {
				s.Toggles[i] = toggle
				replaced = true
				break
			}
		}
		if !replaced {
			s.Toggles = append(s.Toggles, toggle)
		}
	}
}
