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
	"regexp"
	"strings"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
)

// checkTaskClarity rejects prompts containing blacklisted ambiguous
// terms. Matching is lexical only: case-insensitive whole words, no
// language understanding.
func checkTaskClarity(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	var hits []string
	var details []result.Detail

	for _, term := range in.Policy.AmbiguousTerms {
		if term.Term == "" {
			continue
		}
		re, err := wholeWord(term.Term)
		if err != nil {
			// A term that cannot compile is a policy defect, not a
			// property of the task under evaluation.
			return result.ValidatorResult{}, fmt.Errorf("compile ambiguous term %q: %w", term.Term, err)
		}
		if re.MatchString(in.Task.Prompt) {
			hits = append(hits, term.Term)
			details = append(details, result.Detail{Pattern: term.Term})
		}
	}

	if len(hits) > 0 {
		return result.Fail(CodeTaskClarityCheck,
			fmt.Sprintf("prompt contains ambiguous terms: %s", strings.Join(hits, ", ")),
			details...), nil
	}
	return result.Pass(CodeTaskClarityCheck, "no ambiguous terms found"), nil
}

// wholeWord compiles a case-insensitive whole-word matcher for a term.
func wholeWord(term string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}
