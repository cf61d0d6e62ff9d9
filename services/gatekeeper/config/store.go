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
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Store is the live Configuration Store consumed by validators.
//
// Description:
//
//	Holds the registered setting catalog plus live overrides. Values are
//	coerced to their declared type on every read; nothing is cached across
//	calls, so a Set between runs (or mid-run) is always observed by the
//	next read. The Store is passed explicitly into every validator call,
//	never held as ambient global state.
//
// Thread Safety: Safe for concurrent use via read-write mutex.
type Store struct {
	mu        sync.RWMutex
	catalog   map[string]Setting
	overrides map[string]string
}

// NewStore creates a Store pre-populated with the default setting catalog.
func NewStore() *Store {
	s := &Store{
		catalog:   make(map[string]Setting, len(defaultSettings)),
		overrides: make(map[string]string),
	}
	for _, def := range defaultSettings {
		s.catalog[def.Key] = def
	}
	return s
}

// Register adds or replaces a setting definition. Configuration authors use
// this to extend the surface; validators only ever read.
func (s *Store) Register(setting Setting) error {
	if setting.Key == "" {
		return fmt.Errorf("%w: empty key", ErrConfigMissing)
	}
	switch setting.Type {
	case TypeString, TypeNumber, TypeBoolean:
	default:
		return fmt.Errorf("%w: %s has unknown type %q", ErrConfigTypeMismatch, setting.Key, setting.Type)
	}
	s.mu.Lock()
	s.catalog[setting.Key] = setting
	s.mu.Unlock()
	return nil
}

// Set applies a live override for a registered key.
//
// Outputs:
//   - error: ErrConfigMissing when the key was never registered.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalog[key]; !ok {
		return fmt.Errorf("%w: %s", ErrConfigMissing, key)
	}
	s.overrides[key] = value
	return nil
}

// raw returns the current text value and declared type for a key.
func (s *Store) raw(key string) (string, ValueType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.catalog[key]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrConfigMissing, key)
	}
	if v, ok := s.overrides[key]; ok {
		return v, def.Type, nil
	}
	return def.Value, def.Type, nil
}

// GetString returns the live text value of a STRING setting.
func (s *Store) GetString(key string) (string, error) {
	v, typ, err := s.raw(key)
	if err != nil {
		return "", err
	}
	if typ != TypeString {
		return "", fmt.Errorf("%w: %s is %s, not STRING", ErrConfigTypeMismatch, key, typ)
	}
	return v, nil
}

// GetNumber decodes a NUMBER setting as an IEEE-754 double.
func (s *Store) GetNumber(key string) (float64, error) {
	v, typ, err := s.raw(key)
	if err != nil {
		return 0, err
	}
	if typ != TypeNumber {
		return 0, fmt.Errorf("%w: %s is %s, not NUMBER", ErrConfigTypeMismatch, key, typ)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not numeric", ErrConfigTypeMismatch, key, v)
	}
	return f, nil
}

// GetBool decodes a BOOLEAN setting case-insensitively.
func (s *Store) GetBool(key string) (bool, error) {
	v, typ, err := s.raw(key)
	if err != nil {
		return false, err
	}
	if typ != TypeBoolean {
		return false, fmt.Errorf("%w: %s is %s, not BOOLEAN", ErrConfigTypeMismatch, key, typ)
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrConfigTypeMismatch, key, v)
	}
}

// ResolveList splits a comma-separated STRING setting into its ordered,
// trimmed, non-empty elements.
func (s *Store) ResolveList(key string) ([]string, error) {
	v, err := s.GetString(key)
	if err != nil {
		return nil, err
	}
	return SplitList(v, ","), nil
}

// ResolvePairs parses a STRING setting of ordered name:value elements,
// e.g. PATH_ALIASES ("@:src,~:src") or PATH_TYPE_PATTERNS
// ("service:/services?/"). Only the first colon splits; the value may
// itself contain colons. Order is preserved because first match wins.
func (s *Store) ResolvePairs(key string) ([]Pair, error) {
	elems, err := s.ResolveList(key)
	if err != nil {
		return nil, err
	}
	pairs := make([]Pair, 0, len(elems))
	for _, elem := range elems {
		name, value, found := strings.Cut(elem, ":")
		if !found {
			return nil, fmt.Errorf("%w: %s element %q is not name:value", ErrConfigTypeMismatch, key, elem)
		}
		pairs = append(pairs, Pair{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return pairs, nil
}

// Snapshot returns the effective settings sorted by key, for the admin
// surface. Overrides are folded into Value.
func (s *Store) Snapshot() []Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Setting, 0, len(s.catalog))
	for _, def := range s.catalog {
		if v, ok := s.overrides[def.Key]; ok {
			def.Value = v
		}
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SplitList splits text on sep, trimming whitespace and dropping empties.
func SplitList(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
