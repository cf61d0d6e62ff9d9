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
	"context"
	"fmt"
	"strings"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

// checkTokenBudget verifies the assembled task context fits the token
// budget: prompt + manifest listing + referenced file contents, estimated
// by the configured Estimator, must stay within
// MAX_TOKEN_BUDGET * TOKEN_SAFETY_MARGIN.
func checkTokenBudget(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	budget, err := in.Config.GetNumber(config.KeyMaxTokenBudget)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	margin, err := in.Config.GetNumber(config.KeyTokenSafetyMargin)
	if err != nil {
		return result.ValidatorResult{}, err
	}
	estimator, err := newEstimator(in.Config)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	var sb strings.Builder
	sb.WriteString(in.Task.Prompt)
	sb.WriteByte('\n')
	for _, f := range in.Task.Manifest.Files {
		fmt.Fprintf(&sb, "%s %s\n", f.Action, f.Path)

		// Existing file contents ride along into the model context.
		if f.Action == task.ActionCreate || in.Task.Repo == nil || !in.Task.Repo.Exists(f.Path) {
			continue
		}
		content, err := in.Task.Repo.ReadFile(f.Path)
		if err != nil {
			return result.Fail(CodeTokenBudgetFit,
				fmt.Sprintf("cannot read %s while sizing the context: %v", f.Path, err),
				result.Detail{Path: f.Path}), nil
		}
		sb.Write(content)
		sb.WriteByte('\n')
	}
	sb.WriteString(in.Task.TestFileContent)

	estimate := estimator.Estimate(sb.String())
	limit := budget * margin
	if float64(estimate) > limit {
		return result.Fail(CodeTokenBudgetFit,
			fmt.Sprintf("estimated %d tokens (%s) exceeds the budget of %.0f (%.0f x %.2f margin)",
				estimate, estimator.Name(), limit, budget, margin)), nil
	}

	return result.Pass(CodeTokenBudgetFit,
		fmt.Sprintf("estimated %d tokens within budget %.0f", estimate, limit)), nil
}

// checkTaskScopeSize bounds the number of files one task may declare.
func checkTaskScopeSize(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	maxFiles, err := in.Config.GetNumber(config.KeyMaxFilesPerTask)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	declared := len(in.Task.Manifest.Files)
	if float64(declared) > maxFiles {
		return result.Fail(CodeTaskScopeSize,
			fmt.Sprintf("manifest declares %d files, limit is %.0f", declared, maxFiles)), nil
	}
	return result.Pass(CodeTaskScopeSize,
		fmt.Sprintf("%d files declared, limit %.0f", declared, maxFiles)), nil
}
