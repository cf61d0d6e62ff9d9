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
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// defaultPolicy holds the raw bytes of defaults.yaml, baked into the
// binary at compile time so the default rule set travels with the
// executable and cannot be tampered with on the host filesystem.
//
//go:embed defaults.yaml
var defaultPolicy []byte

// Defaults parses the embedded default policy set.
//
// Outputs:
//   - *Set: The default sensitive-file rules, ambiguous terms, and global
//     path conventions.
//   - error: Non-nil only if the embedded YAML is malformed, which is a
//     build defect.
func Defaults() (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(defaultPolicy, &s); err != nil {
		return nil, fmt.Errorf("unmarshal embedded policy: %w", err)
	}
	return &s, nil
}
