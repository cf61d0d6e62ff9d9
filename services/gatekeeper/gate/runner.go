// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gate executes one pipeline stage: every enabled validator of
// the gate runs concurrently, all results are collected in catalog order,
// and the gate never short-circuits on a failure.
package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
)

// names indexes gate display names by gate number.
var names = [registry.MaxGate + 1]string{
	"Sanitization",
	"Contract",
	"Execution",
	"Integrity",
}

// Name returns the display name of a gate, or "Gate N" out of range.
func Name(gate int) string {
	if gate < 0 || gate >= len(names) {
		return fmt.Sprintf("Gate %d", gate)
	}
	return names[gate]
}

// Runner executes gates against a validator registry.
//
// Thread Safety: Safe for concurrent use; per-run state lives on the stack.
type Runner struct {
	reg *registry.Registry
	log *slog.Logger
}

// NewRunner creates a gate runner. A nil logger falls back to the default.
func NewRunner(reg *registry.Registry, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{reg: reg, log: log}
}

// Run executes every enabled validator of one gate concurrently and
// aggregates their results in catalog (order, code) order regardless of
// completion order.
//
// Validators that have started always run to completion: the gate detaches
// from the caller's cancellation, and the orchestrator decides between
// gates whether to continue. A validator failure is data in the
// GateResult; the error return is reserved for engine defects, which
// abort the whole run.
func (r *Runner) Run(ctx context.Context, gateIdx int, in registry.Inputs) (result.GateResult, error) {
	started := time.Now()
	gr := result.GateResult{Gate: gateIdx, Name: Name(gateIdx)}

	allowSoft, err := in.Config.GetBool(config.KeyAllowSoftGates)
	if err != nil {
		return gr, err
	}

	var entries []registry.Entry
	for _, e := range r.reg.ByGate(gateIdx) {
		if !e.Enabled() {
			r.log.Debug("validator disabled by toggle",
				slog.String("validator", e.Metadata.Code), slog.Int("gate", gateIdx))
			continue
		}
		entries = append(entries, e)
	}

	results := make([]result.ValidatorResult, len(entries))

	// Detach so an in-flight validator finishes even when the caller is
	// cancelled; advancement is decided by the orchestrator between gates.
	g, runCtx := errgroup.WithContext(context.WithoutCancel(ctx))
	for i, entry := range entries {
		g.Go(func() error {
			res, err := entry.Check(runCtx, in)
			if err != nil {
				return fmt.Errorf("validator %s: %w", entry.Metadata.Code, err)
			}
			if res.ValidatorCode == "" {
				res.ValidatorCode = entry.Metadata.Code
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return gr, err
	}

	for i := range results {
		res := &results[i]
		entry := entries[i]

		// Plain passes carry no severity; advisory passes keep the WARNING
		// their check set.
		if res.Passed {
			continue
		}
		// Failing checks leave severity blank unless they deliberately
		// downgrade.
		if res.Severity == "" {
			res.Severity = entry.EffectiveSeverity()
		}

		blocks := res.Severity == result.SeverityHard
		if blocks && allowSoft {
			blocks = entry.CanBlockSoftGates()
		}
		if blocks {
			gr.Blocked = true
		}

		r.log.Warn("validator failed",
			slog.String("validator", entry.Metadata.Code),
			slog.Int("gate", gateIdx),
			slog.String("severity", string(res.Severity)),
			slog.Bool("blocks", blocks),
			slog.String("message", res.Message))
	}

	gr.Results = results
	gr.Duration = time.Since(started)
	return gr, nil
}
