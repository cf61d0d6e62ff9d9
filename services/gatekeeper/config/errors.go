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

import "errors"

var (
	// ErrConfigMissing indicates a setting key is unknown and has no
	// registered default. This is an engine defect, fatal to the run.
	ErrConfigMissing = errors.New("config: setting missing")

	// ErrConfigTypeMismatch indicates a setting's stored text could not be
	// decoded as its declared type. Fatal to the run, never a validator
	// failure.
	ErrConfigTypeMismatch = errors.New("config: type mismatch")
)
