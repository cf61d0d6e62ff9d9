// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gatekeeper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/pipeline"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/policy"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/telemetry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/validators"
)

// Service wires the configuration store, policy set, validator registry,
// and pipeline orchestrator behind one facade used by the HTTP routes and
// the CLI.
//
// Thread Safety: Safe for concurrent use. The store and registry guard
// their own state; the policy set is immutable after construction.
type Service struct {
	cfg     *config.Store
	pol     *policy.Set
	reg     *registry.Registry
	orch    *pipeline.Orchestrator
	metrics *telemetry.Metrics
	log     *slog.Logger
}

// Options configures service construction.
type Options struct {
	// PolicyFile optionally overlays a user policy over the embedded
	// defaults.
	PolicyFile string

	// ConfigFile optionally applies setting overrides from a YAML file.
	ConfigFile string

	// Registerer receives the service metrics; nil disables collection.
	Registerer prometheus.Registerer

	// Logger is the structured logger; nil uses the default.
	Logger *slog.Logger
}

// NewService builds a fully wired service: embedded policy (plus optional
// overlay), default settings (plus optional overrides), the complete
// validator catalog, and the orchestrator.
func NewService(opts Options) (*Service, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	pol, err := policy.Load(opts.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	cfg := config.NewStore()
	if opts.ConfigFile != "" {
		if err := cfg.LoadFile(opts.ConfigFile); err != nil {
			return nil, fmt.Errorf("load config overrides: %w", err)
		}
	}

	reg := registry.New()
	validators.RegisterAll(reg)
	if len(pol.Toggles) > 0 {
		if err := reg.ApplyToggles(pol.Toggles); err != nil {
			return nil, fmt.Errorf("apply policy toggles: %w", err)
		}
	}

	var metrics *telemetry.Metrics
	if opts.Registerer != nil {
		metrics = telemetry.NewMetrics(opts.Registerer)
	}

	return &Service{
		cfg:     cfg,
		pol:     pol,
		reg:     reg,
		orch:    pipeline.New(reg, metrics, log),
		metrics: metrics,
		log:     log,
	}, nil
}

// Validate runs one task through the full gate pipeline.
func (s *Service) Validate(ctx context.Context, req *ValidateRequest) (result.PipelineVerdict, error) {
	tc, err := req.ToTask()
	if err != nil {
		return result.PipelineVerdict{}, err
	}
	return s.orch.Run(ctx, registry.Inputs{Task: tc, Config: s.cfg, Policy: s.pol})
}

// Validators lists the full catalog in (gate, order) sequence.
func (s *Service) Validators() []registry.Entry {
	return s.reg.All()
}

// SetToggle applies one validator toggle at runtime.
func (s *Service) SetToggle(code string, t TogglePayload) error {
	return s.reg.ApplyToggles([]policy.Toggle{{
		Code:     code,
		Enabled:  t.Enabled,
		FailMode: t.FailMode,
	}})
}

// Settings snapshots the effective configuration.
func (s *Service) Settings() []config.Setting {
	return s.cfg.Snapshot()
}

// SetSetting applies a live configuration override. The next pipeline run
// observes the new value; in-flight runs are unaffected.
func (s *Service) SetSetting(key, value string) error {
	return s.cfg.Set(key, value)
}

// Config exposes the live store for the CLI surface.
func (s *Service) Config() *config.Store { return s.cfg }
