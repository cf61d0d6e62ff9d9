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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/task"
)

func resilienceTask(content string) *task.Context {
	return &task.Context{
		Manifest:        task.Manifest{TestFile: "src/Card.spec.tsx"},
		TestFileContent: content,
	}
}

func TestTestResilience(t *testing.T) {
	fragileUI := `import { render } from '@testing-library/react'
it('renders', () => {
  const { container } = render(<Card />)
  expect(container.innerHTML).toContain('title')
})
`
	balancedUI := `import { render, screen } from '@testing-library/react'
it('renders', () => {
  render(<Card />)
  expect(screen.getByRole('heading')).toBeVisible()
  expect(document.body.innerHTML).not.toContain('debug')
})
`
	nonUI := `it('adds', () => { expect(add(1, 2)).toBe(3) })` + "\n"

	t.Run("fragile without resilient fails", func(t *testing.T) {
		in := testInputs(t, resilienceTask(fragileUI), nil, nil)
		r, err := checkTestResilience(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, r.Passed)
		assert.Contains(t, r.Message, ".innerHTML")
	})

	t.Run("fragile balanced by resilient passes", func(t *testing.T) {
		in := testInputs(t, resilienceTask(balancedUI), nil, nil)
		r, err := checkTestResilience(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, r.Passed, r.Message)
	})

	t.Run("non-UI test skipped", func(t *testing.T) {
		in := testInputs(t, resilienceTask(nonUI), nil, nil)
		r, err := checkTestResilience(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, r.Passed)
		assert.Contains(t, r.Message, "skipped")
	})

	t.Run("non-UI still checked when skip disabled", func(t *testing.T) {
		content := `it('reads the DOM', () => { expect(el.innerHTML).toBe('') })` + "\n"
		in := testInputs(t, resilienceTask(content),
			map[string]string{config.KeySkipNonUITests: "false"}, nil)
		r, err := checkTestResilience(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, r.Passed)
	})

	t.Run("raised minimum", func(t *testing.T) {
		in := testInputs(t, resilienceTask(balancedUI),
			map[string]string{config.KeyMinResilientPatterns: "2"}, nil)
		r, err := checkTestResilience(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, r.Passed, "one resilient query is below the raised minimum")
	})
}
