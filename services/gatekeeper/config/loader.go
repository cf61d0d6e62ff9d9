// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileOverrides is the on-disk shape of a configuration file.
//
// Example:
//
//	settings:
//	  - key: MAX_TOKEN_BUDGET
//	    value: "120000"
//	  - key: ALLOW_SOFT_GATES
//	    value: "true"
type fileOverrides struct {
	Settings []struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"settings"`
}

// LoadFile applies YAML overrides from path onto the store.
//
// Description:
//
//	Each entry must reference a registered key; unknown keys are rejected
//	so typos surface at startup instead of silently reverting a validator
//	to its default.
//
// Outputs:
//   - error: Non-nil on read, parse, or unknown-key failure.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	for _, entry := range overrides.Settings {
		if err := s.Set(entry.Key, entry.Value); err != nil {
			return fmt.Errorf("apply override from %s: %w", path, err)
		}
	}
	return nil
}
