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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stagedUserDiff = `diff --git a/src/services/User.ts b/src/services/User.ts
--- a/src/services/User.ts
+++ b/src/services/User.ts
@@ -1,1 +1,2 @@
-export function createUser(name: string) { return { id: name } }
+export function createUser(name: string) { return { id: name } }
+export const VERSION = 2
`

func newTestServer(t *testing.T) (*Service, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := NewService(Options{})
	require.NoError(t, err)

	engine := gin.New()
	svc.RegisterRoutes(engine)
	return svc, engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func validRequest(t *testing.T) map[string]any {
	t.Helper()
	root := t.TempDir()
	svcDir := filepath.Join(root, "src", "services")
	require.NoError(t, os.MkdirAll(svcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(svcDir, "User.ts"),
		[]byte("export function createUser(name: string) { return { id: name } }\n"), 0o644))

	return map[string]any{
		"prompt": "Add createUser to the user service and cover it with a spec.",
		"files": []map[string]string{
			{"path": "src/services/User.ts", "action": "EDIT"},
			{"path": "src/services/User.spec.ts", "action": "CREATE"},
		},
		"test_file":       "src/services/User.spec.ts",
		"staged_diff":     stagedUserDiff,
		"untracked_files": []string{"src/services/User.spec.ts"},
		"test_file_content": `import { it, expect } from 'vitest'
import { createUser } from './User'

// @clause REQ-1
it('creates a user with a unique id', () => {
  expect(createUser('ada').id).toBeTruthy()
})
`,
		"contract_clauses": []string{"REQ-1"},
		"repo_root":        root,
	}
}

func TestHealthz(t *testing.T) {
	_, engine := newTestServer(t)
	w := doJSON(t, engine, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListValidators(t *testing.T) {
	_, engine := newTestServer(t)
	w := doJSON(t, engine, http.MethodGet, "/v1/gatekeeper/validators", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Validators []map[string]any `json:"validators"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Validators, 14)
	assert.Equal(t, "TOKEN_BUDGET_FIT", body.Validators[0]["code"])
}

func TestValidate_CleanTask(t *testing.T) {
	_, engine := newTestServer(t)
	w := doJSON(t, engine, http.MethodPost, "/v1/gatekeeper/validate", validRequest(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var verdict struct {
		OverallPassed bool `json:"overall_passed"`
		FinalGate     int  `json:"final_gate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verdict))
	assert.True(t, verdict.OverallPassed, w.Body.String())
	assert.Equal(t, 3, verdict.FinalGate)
}

func TestValidate_SensitiveFileBlocked(t *testing.T) {
	_, engine := newTestServer(t)

	req := validRequest(t)
	req["files"] = append(req["files"].([]map[string]string),
		map[string]string{"path": "config/.env", "action": "EDIT"})

	w := doJSON(t, engine, http.MethodPost, "/v1/gatekeeper/validate", req)
	require.Equal(t, http.StatusOK, w.Code)

	var verdict struct {
		OverallPassed bool `json:"overall_passed"`
		FinalGate     int  `json:"final_gate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verdict))
	assert.False(t, verdict.OverallPassed)
	assert.Equal(t, 0, verdict.FinalGate)
}

func TestValidate_BadPayload(t *testing.T) {
	_, engine := newTestServer(t)
	w := doJSON(t, engine, http.MethodPost, "/v1/gatekeeper/validate",
		map[string]any{"prompt": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleEndpoint(t *testing.T) {
	svc, engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPut, "/v1/gatekeeper/validators/LINT_PASS/toggle",
		TogglePayload{Enabled: false})
	require.Equal(t, http.StatusOK, w.Code)

	for _, e := range svc.Validators() {
		if e.Metadata.Code == "LINT_PASS" {
			assert.False(t, e.Enabled())
		}
	}

	w = doJSON(t, engine, http.MethodPut, "/v1/gatekeeper/validators/NOPE/toggle",
		TogglePayload{Enabled: true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsEndpoint(t *testing.T) {
	svc, engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodGet, "/v1/gatekeeper/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPut, "/v1/gatekeeper/settings/MAX_FILES_PER_TASK",
		SettingPayload{Value: "3"})
	require.Equal(t, http.StatusOK, w.Code)

	n, err := svc.Config().GetNumber("MAX_FILES_PER_TASK")
	require.NoError(t, err)
	assert.Equal(t, 3.0, n)

	w = doJSON(t, engine, http.MethodPut, "/v1/gatekeeper/settings/NOT_A_KEY",
		SettingPayload{Value: "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
