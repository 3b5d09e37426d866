package apply_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/flarecheck/pkg/apply"
)

func TestColorDiff(t *testing.T) {
	// Force color codes on so the assertion is stable regardless of TTY.
	old := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = old }()

	unified := "--- original.html\n+++ cleaned.html\n@@ -1 +1 @@\n-teh\n+the\n"
	out := apply.ColorDiff(unified)

	assert.Contains(t, out, "\x1b[32m+the\n\x1b[0m")
	assert.Contains(t, out, "\x1b[31m-teh\n\x1b[0m")

	assert.Empty(t, apply.ColorDiff(""))
}

func TestInlineDiff(t *testing.T) {
	out := apply.InlineDiff("e-mail", "email")
	assert.Contains(t, out, "<del>")
	assert.Contains(t, out, "<ins>")

	// Markup in the compared text must be escaped, not injected.
	out = apply.InlineDiff("<b>bold</b>", "<i>bold</i>")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;")
}

func TestLoadDecisions(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "decisions.yaml",
			content: "style/MSTP.003@0-6: true\ngrammar/TYPO@10-13: false\n",
		},
		{
			name: "json",
			file: "decisions.json",
			content: `{"style/MSTP.003@0-6": true, "grammar/TYPO@10-13": false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			decisions, err := apply.LoadDecisions(path)
			require.NoError(t, err)

			assert.True(t, decisions["style/MSTP.003@0-6"])
			assert.False(t, decisions["grammar/TYPO@10-13"])
			assert.False(t, decisions["style/UNKNOWN@0-1"], "missing keys mean rejected")
		})
	}
}

func TestLoadDecisionsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	_, err := apply.LoadDecisions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported decisions file extension")
}

func TestAcceptAll(t *testing.T) {
	d := apply.AcceptAll([]string{"a", "b"})
	assert.True(t, d["a"])
	assert.True(t, d["b"])
	assert.False(t, d["c"])
}
