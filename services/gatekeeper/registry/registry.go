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

import (
	"fmt"
	"sort"
	"sync"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/policy"
)

// Registry is the central mapping from validator codes to metadata,
// toggles, and check functions.
//
// Description:
//
//	Registration happens at startup from the closed validator catalog;
//	toggles may be re-applied at any time to reflect operator changes.
//	Resolution and gate listing are read paths used on every run.
//
// Thread Safety: Safe for concurrent use via read-write mutex.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	slots   map[[2]int]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		slots:   make(map[[2]int]string),
	}
}

// Register adds a validator to the registry.
//
// Inputs:
//   - md: Pipeline placement and severity default. Code must be unique,
//     gate must be in 0..MaxGate, and (gate, order) must be unused.
//   - check: The executable check. Must not be nil.
//
// Outputs:
//   - error: ErrNilCheck, ErrGateRange, ErrDuplicateCode, or
//     ErrDuplicateSlot on invalid registration.
func (r *Registry) Register(md Metadata, check CheckFunc) error {
	if check == nil {
		return fmt.Errorf("%w: %s", ErrNilCheck, md.Code)
	}
	if md.Gate < 0 || md.Gate > MaxGate {
		return fmt.Errorf("%w: %s gate=%d", ErrGateRange, md.Code, md.Gate)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[md.Code]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, md.Code)
	}
	slot := [2]int{md.Gate, md.Order}
	if holder, exists := r.slots[slot]; exists {
		return fmt.Errorf("%w: gate=%d order=%d held by %s, rejected %s",
			ErrDuplicateSlot, md.Gate, md.Order, holder, md.Code)
	}

	r.entries[md.Code] = &Entry{Metadata: md, Check: check}
	r.slots[slot] = md.Code
	return nil
}

// MustRegister registers and panics on error. Startup use only.
func (r *Registry) MustRegister(md Metadata, check CheckFunc) {
	if err := r.Register(md, check); err != nil {
		panic(fmt.Sprintf("registry: failed to register %s: %v", md.Code, err))
	}
}

// ApplyToggles replaces the toggle state for every listed code. Toggles
// referencing unknown codes are reported, not silently dropped.
func (r *Registry) ApplyToggles(toggles []policy.Toggle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range toggles {
		entry, ok := r.entries[t.Code]
		if !ok {
			return fmt.Errorf("%w: toggle for %s", ErrNotFound, t.Code)
		}
		entry.Toggle = t
		entry.hasTog = true
	}
	return nil
}

// Resolve returns the entry for a validator code.
func (r *Registry) Resolve(code string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[code]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// ByGate returns the gate's validators sorted by order.
func (r *Registry) ByGate(gate int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, entry := range r.entries {
		if entry.Metadata.Gate == gate {
			out = append(out, *entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Metadata.Order < out[j].Metadata.Order
	})
	return out
}

// Codes returns every registered validator code, sorted.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.entries))
	for code := range r.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// All returns every entry ordered by (gate, order), for the admin surface.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Metadata.Gate != out[j].Metadata.Gate {
			return out[i].Metadata.Gate < out[j].Metadata.Gate
		}
		return out[i].Metadata.Order < out[j].Metadata.Order
	})
	return out
}
