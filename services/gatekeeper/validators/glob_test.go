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

import "testing"

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"env at root", "**/.env", ".env", true},
		{"env nested", "**/.env", "config/.env", true},
		{"env wrong file", "**/.env", "config/.envrc", false},
		{"secrets dir", "**/secrets/**", "app/secrets/key.json", true},
		{"secrets not a dir", "**/secrets/**", "app/secretstore.json", false},
		{"pem base name", "*.pem", "certs/server.pem", true},
		{"key base name", "*.key", "deep/nested/tls.key", true},
		{"id_rsa prefix", "id_rsa*", "home/id_rsa.pub", true},
		{"single star stays in segment", "src/*.ts", "src/a/b.ts", false},
		{"single star same segment", "src/*.ts", "src/b.ts", true},
		{"workflows", ".github/workflows/**", ".github/workflows/ci.yml", true},
		{"workflows wrong root", ".github/workflows/**", "other/.github/workflows/ci.yml", false},
		{"exact name any depth", "Dockerfile", "services/api/Dockerfile", true},
		{"question mark", "file?.ts", "file1.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchGlob(tt.pattern, tt.path); got != tt.want {
				t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchAny(t *testing.T) {
	patterns := []string{"node_modules/**", "package-lock.json", "dist"}

	if p, ok := MatchAny(patterns, "node_modules/react/index.js", true); !ok || p != "node_modules/**" {
		t.Errorf("expected node_modules glob match, got %q %v", p, ok)
	}

	// Substring fallback: "dist" has no metacharacters.
	if _, ok := MatchAny(patterns, "apps/web/dist/main.js", true); !ok {
		t.Error("expected substring fallback match for dist")
	}
	if _, ok := MatchAny(patterns, "apps/web/dist/main.js", false); ok {
		t.Error("substring fallback should be off")
	}

	if _, ok := MatchAny(patterns, "src/index.ts", true); ok {
		t.Error("unexpected match for src/index.ts")
	}
}
