// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config implements the typed key/value Configuration Store that
// parametrizes every validator. Values are stored as text and coerced to
// their declared type at read time, so a setting change always affects the
// next pipeline run.
package config

// ValueType declares how a setting's text value is decoded.
type ValueType string

const (
	// TypeString settings are used verbatim (including comma lists and
	// name:value pair lists).
	TypeString ValueType = "STRING"

	// TypeNumber settings decode as IEEE-754 doubles.
	TypeNumber ValueType = "NUMBER"

	// TypeBoolean settings decode case-insensitively as true/false.
	TypeBoolean ValueType = "BOOLEAN"
)

// FailMode optionally attaches a severity override to a setting.
type FailMode string

const (
	FailModeHard    FailMode = "HARD"
	FailModeWarning FailMode = "WARNING"
)

// Setting is a single typed configuration record.
type Setting struct {
	// Key is the unique uppercase snake-case setting name.
	Key string `yaml:"key" json:"key"`

	// Value is the string-encoded value, decoded per Type at read time.
	Value string `yaml:"value" json:"value"`

	// Type declares how Value is decoded.
	Type ValueType `yaml:"type" json:"type"`

	// Category groups related settings (e.g. "diff_scope", "resilience").
	Category string `yaml:"category" json:"category"`

	// Description explains what the setting controls.
	Description string `yaml:"description" json:"description,omitempty"`

	// FailMode optionally overrides severity for the validator this
	// setting parametrizes. Empty means no override.
	FailMode FailMode `yaml:"fail_mode,omitempty" json:"fail_mode,omitempty"`
}

// Pair is one ordered name:value element of a pair-list setting, such as
// PATH_TYPE_PATTERNS ("service:/services?/") or PATH_ALIASES ("@:src").
// Order is significant: first match wins.
type Pair struct {
	Name  string
	Value string
}
