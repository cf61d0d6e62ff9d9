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

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/result"
)

var (
	// testBlockRe matches the opening of an it(...) or test(...) block.
	testBlockRe = regexp.MustCompile(`(?m)^\s*(?:it|test)(?:\.\w+)*\s*\(\s*['"` + "`" + `](.*?)['"` + "`" + `]`)

	// clauseMarkerRe matches "@clause <ID>" markers in comments.
	clauseMarkerRe = regexp.MustCompile(`@clause\s+([A-Za-z0-9_.:-]+)`)

	commentLineRe = regexp.MustCompile(`^\s*(?://|/\*|\*)`)
)

// testBlock is one it/test block with the clause IDs attached to it.
type testBlock struct {
	Title   string
	Line    int
	Clauses []string
}

// parseTestBlocks splits test file content into blocks. A block owns the
// clause markers in the comment lines immediately above its opening line
// and any markers in its body up to the next block.
func parseTestBlocks(content string) []testBlock {
	lines := strings.Split(content, "\n")

	type start struct {
		line  int // 0-based
		title string
	}
	var starts []start
	for i, line := range lines {
		if m := testBlockRe.FindStringSubmatch(line); m != nil {
			starts = append(starts, start{line: i, title: m[1]})
		}
	}

	blocks := make([]testBlock, 0, len(starts))
	for idx, s := range starts {
		b := testBlock{Title: s.title, Line: s.line + 1}

		// Leading comment run above the block.
		for j := s.line - 1; j >= 0 && commentLineRe.MatchString(lines[j]); j-- {
			for _, m := range clauseMarkerRe.FindAllStringSubmatch(lines[j], -1) {
				b.Clauses = append(b.Clauses, m[1])
			}
		}

		// Body until the next block or EOF.
		end := len(lines)
		if idx+1 < len(starts) {
			end = starts[idx+1].line
		}
		for j := s.line; j < end; j++ {
			for _, m := range clauseMarkerRe.FindAllStringSubmatch(lines[j], -1) {
				b.Clauses = append(b.Clauses, m[1])
			}
		}

		blocks = append(blocks, b)
	}
	return blocks
}

// checkClauseMapping verifies every test block maps to declared contract
// clauses: each it/test block must carry at least one @clause marker, and
// every referenced clause ID must exist in the contract.
//
// Untagged blocks downgrade to WARNING when ALLOW_UNTAGGED_TESTS is set;
// references to unknown clauses are always hard.
func checkClauseMapping(ctx context.Context, in registry.Inputs) (result.ValidatorResult, error) {
	blocks := parseTestBlocks(in.Task.TestFileContent)
	if len(blocks) == 0 {
		return result.Pass(CodeTestClauseMappingValid, "no test blocks to map"), nil
	}

	allowUntagged, err := in.Config.GetBool(config.KeyAllowUntaggedTests)
	if err != nil {
		return result.ValidatorResult{}, err
	}

	testFile := in.Task.Manifest.TestFile
	var untagged, unknown []string
	var details []result.Detail

	for _, b := range blocks {
		if len(b.Clauses) == 0 {
			untagged = append(untagged, fmt.Sprintf("%q (line %d)", b.Title, b.Line))
			details = append(details, result.Detail{Path: testFile, Line: b.Line})
			continue
		}
		for _, id := range b.Clauses {
			if !in.Task.Contract.HasClause(id) {
				unknown = append(unknown, id)
				details = append(details, result.Detail{Path: testFile, Pattern: id, Line: b.Line})
			}
		}
	}

	switch {
	case len(unknown) > 0:
		msg := fmt.Sprintf("tests reference clauses not in the contract: %s", strings.Join(unknown, ", "))
		if len(untagged) > 0 {
			msg += fmt.Sprintf("; untagged blocks: %s", strings.Join(untagged, ", "))
		}
		return result.Fail(CodeTestClauseMappingValid, msg, details...), nil

	case len(untagged) > 0:
		r := result.Fail(CodeTestClauseMappingValid,
			fmt.Sprintf("test blocks without @clause markers: %s", strings.Join(untagged, ", ")),
			details...)
		if allowUntagged {
			r.Severity = result.SeverityWarning
		}
		return r, nil
	}

	return result.Pass(CodeTestClauseMappingValid,
		fmt.Sprintf("%d test block(s) mapped to contract clauses", len(blocks))), nil
}
