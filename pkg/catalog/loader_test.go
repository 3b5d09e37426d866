package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/flarecheck/pkg/catalog"
)

func writeCatalogFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "rules.yaml",
			content: `rules:
  - id: ACME.001
    description: "Use 'app' instead of 'application'."
    pattern: '(?i)\bapplication\b'
    replacement: app
  - id: ACME.002
    description: "Scoped rule."
    pattern: '(?i)\bportal\b'
    replacement: site
    scope: "Content/**"
`,
		},
		{
			name: "json",
			file: "rules.json",
			content: `{
  "rules": [
    {
      "id": "ACME.001",
      "description": "Use 'app' instead of 'application'.",
      "pattern": "(?i)\\bapplication\\b",
      "replacement": "app"
    },
    {
      "id": "ACME.002",
      "description": "Scoped rule.",
      "pattern": "(?i)\\bportal\\b",
      "replacement": "site",
      "scope": "Content/**"
    }
  ]
}`,
		},
		{
			name: "hcl",
			file: "rules.hcl",
			content: `rule "ACME.001" {
  description = "Use 'app' instead of 'application'."
  pattern     = "(?i)\\bapplication\\b"
  replacement = "app"
}

rule "ACME.002" {
  description = "Scoped rule."
  pattern     = "(?i)\\bportal\\b"
  replacement = "site"
  scope       = "Content/**"
}`,
		},
		{
			name: "flarecheck_yaml",
			file: "team.flarecheck",
			content: `rules:
  - id: ACME.001
    description: "Use 'app' instead of 'application'."
    pattern: '(?i)\bapplication\b'
    replacement: app
  - id: ACME.002
    description: "Scoped rule."
    pattern: '(?i)\bportal\b'
    replacement: site
    scope: "Content/**"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalogFile(t, tt.file, tt.content)

			defs, err := catalog.Load(testContext(t), path)
			require.NoError(t, err)
			require.Len(t, defs, 2)

			assert.Equal(t, "ACME.001", defs[0].ID)
			assert.Equal(t, `(?i)\bapplication\b`, defs[0].Pattern)
			assert.Equal(t, "app", defs[0].Replacement)
			assert.Empty(t, defs[0].Scope)

			assert.Equal(t, "ACME.002", defs[1].ID)
			assert.Equal(t, "Content/**", defs[1].Scope)

			cat := catalog.Compile(testContext(t), defs)
			assert.Equal(t, 2, cat.Len())
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		wantErrPart string
	}{
		{
			name:        "unsupported_extension",
			file:        "rules.toml",
			content:     `whatever`,
			wantErrPart: "unsupported catalog file extension",
		},
		{
			name:        "bad_yaml",
			file:        "rules.yaml",
			content:     "rules: [\n",
			wantErrPart: "parsing YAML",
		},
		{
			name:        "unknown_yaml_field",
			file:        "rules.yaml",
			content:     "rules:\n  - id: X\n    pattern: a\n    replacement: b\n    bogus: field\n",
			wantErrPart: "parsing YAML",
		},
		{
			name:        "bad_json",
			file:        "rules.json",
			content:     `{"rules": [}`,
			wantErrPart: "parsing JSON",
		},
		{
			name:        "bad_hcl",
			file:        "rules.hcl",
			content:     `rule "X" {`,
			wantErrPart: "parsing HCL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalogFile(t, tt.file, tt.content)

			_, err := catalog.Load(testContext(t), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrPart)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := catalog.Load(testContext(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading catalog file")
}
