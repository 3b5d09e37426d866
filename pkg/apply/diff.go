// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apply

import (
	"html"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ColorDiff renders a unified diff with added lines in green and removed
// lines in red, for console display.
func ColorDiff(unified string) string {
	if unified == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.SplitAfter(unified, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(color.New(color.FgCyan).Sprint(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(color.New(color.FgGreen).Sprint(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(color.New(color.FgRed).Sprint(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

// InlineDiff renders a word-level HTML diff between the flagged text and its
// proposed replacement, using <del>/<ins> markup. The review UI shows it
// next to each suggestion.
func InlineDiff(original, proposed string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, proposed, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		text := html.EscapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("<del>")
			b.WriteString(text)
			b.WriteString("</del>")
		case diffmatchpatch.DiffInsert:
			b.WriteString("<ins>")
			b.WriteString(text)
			b.WriteString("</ins>")
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}
