// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import "errors"

var (
	// ErrNilCheck indicates a registration without a check function.
	ErrNilCheck = errors.New("registry: nil check function")

	// ErrDuplicateCode indicates a validator code registered twice.
	ErrDuplicateCode = errors.New("registry: duplicate validator code")

	// ErrDuplicateSlot indicates two validators sharing a (gate, order) pair.
	ErrDuplicateSlot = errors.New("registry: duplicate (gate, order) slot")

	// ErrGateRange indicates a gate index outside 0..MaxGate.
	ErrGateRange = errors.New("registry: gate out of range")

	// ErrNotFound indicates an unknown validator code.
	ErrNotFound = errors.New("registry: validator not found")
)
