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
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
)

// Estimator approximates the token count of a text. The exact tokenizer
// is deliberately pluggable; the estimate only needs to be deterministic
// for a given input and estimator.
type Estimator interface {
	// Name identifies the estimator in messages.
	Name() string

	// Estimate returns the approximate token count of text.
	Estimate(text string) int
}

// heuristicEstimator divides the character count by a configured ratio.
// Cheap, dependency-free, and close enough for budget gating.
type heuristicEstimator struct {
	charsPerToken float64
}

func (e *heuristicEstimator) Name() string { return "heuristic" }

func (e *heuristicEstimator) Estimate(text string) int {
	if e.charsPerToken <= 0 {
		return len(text)
	}
	return int(float64(len(text)) / e.charsPerToken)
}

// tiktokenEstimator counts real BPE tokens with the cl100k_base encoding.
type tiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

func (e *tiktokenEstimator) Name() string { return "tiktoken" }

func (e *tiktokenEstimator) Estimate(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}

var (
	tikOnce sync.Once
	tikEnc  *tiktoken.Tiktoken
	tikErr  error
)

// newEstimator builds the estimator selected by TOKEN_ESTIMATOR.
//
// The tiktoken encoding is loaded once per process; a load failure is a
// configuration defect and aborts the run rather than silently degrading
// the budget check.
func newEstimator(cfg *config.Store) (Estimator, error) {
	kind, err := cfg.GetString(config.KeyTokenEstimator)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "heuristic":
		ratio, err := cfg.GetNumber(config.KeyTokenCharsPerToken)
		if err != nil {
			return nil, err
		}
		return &heuristicEstimator{charsPerToken: ratio}, nil

	case "tiktoken":
		tikOnce.Do(func() {
			tikEnc, tikErr = tiktoken.GetEncoding("cl100k_base")
		})
		if tikErr != nil {
			return nil, fmt.Errorf("load tiktoken encoding: %w", tikErr)
		}
		return &tiktokenEstimator{enc: tikEnc}, nil

	default:
		return nil, fmt.Errorf("%w: %s=%q is not an estimator", config.ErrConfigTypeMismatch, config.KeyTokenEstimator, kind)
	}
}
