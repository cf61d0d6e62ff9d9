// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
)

// maxStderrExcerpt bounds how much tool output rides into a report.
const maxStderrExcerpt = 2048

// toolOutcome is the result of one external tool invocation.
type toolOutcome struct {
	Passed   bool
	TimedOut bool
	Stderr   string
	Err      string
}

// runTool executes a shell-style command in the repository root with a
// millisecond deadline. A non-zero exit or a deadline hit is a failed
// outcome, never an engine error; only a malformed command is.
func runTool(ctx context.Context, in registry.Inputs, command string, timeoutMS float64) (toolOutcome, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return toolOutcome{}, fmt.Errorf("%w: empty command", config.ErrConfigTypeMismatch)
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(runCtx, fields[0], fields[1:]...)
	if in.Task.Repo != nil {
		cmd.Dir = in.Task.Repo.Root()
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := toolOutcome{Passed: err == nil, Stderr: excerpt(stderr.String())}
	if err != nil {
		out.Err = err.Error()
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			out.TimedOut = true
		}
	}
	return out, nil
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrExcerpt {
		s = s[:maxStderrExcerpt]
	}
	return s
}

// runConfiguredTool resolves a command/timeout setting pair and runs it.
// An empty command passes as not configured, keeping unconfigured
// environments from hard-blocking every run.
func runConfiguredTool(ctx context.Context, in registry.Inputs, code, label, cmdKey, timeoutKey string) (result.ValidatorResult, bool, error) {
	command, err := in.Config.GetString(cmdKey)
	if err != nil {
		return result.ValidatorResult{}, false, err
	}
	if strings.TrimSpace(command) == "" {
		return result.Pass(code, fmt.Sprintf("%s not configured (%s is empty)", label, cmdKey)), false, nil
	}
	timeoutMS, err := in.Config.GetNumber(timeoutKey)
	if err != nil {
		return result.ValidatorResult{}, false, err
	}

	outcome, err := runTool(ctx, in, command, timeoutMS)
	if err != nil {
		return result.ValidatorResult{}, false, err
	}
	if outcome.Passed {
		return result.Pass(code, fmt.Sprintf("%s passed (%s)", label, command)), true, nil
	}

	detail := result.Detail{Stderr: outcome.Stderr, Timeout: outcome.TimedOut}
	msg := fmt.Sprintf("%s failed: %s", label, outcome.Err)
	if outcome.TimedOut {
		msg = fmt.Sprintf("%s timed out after %.0fms", label, timeoutMS)
	}
	return result.Fail(code, msg, detail), true, nil
}

// checkBuildPass runs the configured type-check command first, then the
// build command. The cheaper compilation step fails fast with better
// diagnostics before a full build is attempted.
func checkBuildPass(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	compile, ran, err := runConfiguredTool(ctx, in, CodeBuildPass, "compilation",
		config.KeyCompilationCommand, config.KeyCompilationTimeoutMS)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	if ran && !compile.Passed {
		return compile, nil
	}

	build, ranBuild, err := runConfiguredTool(ctx, in, CodeBuildPass, "build",
		config.KeyBuildCommand, config.KeyBuildTimeoutMS)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	switch {
	case !ran && !ranBuild:
		return result.Pass(CodeBuildPass, "no compilation or build command configured"), nil
	case ran && !ranBuild:
		return compile, nil
	}
	return build, nil
}

// checkLintPass runs the configured lint command.
func checkLintPass(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	r, _, err := runConfiguredTool(ctx, in, CodeLintPass, "lint",
		config.KeyLintCommand, config.KeyLintTimeoutMS)
	return r, err
}

// checkRegressionPass runs the configured regression test command.
func checkRegressionPass(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	r, _, err := runConfiguredTool(ctx, in, CodeRegressionPass, "regression tests",
		config.KeyTestCommand, config.KeyTestTimeoutMS)
	return r, err
}
