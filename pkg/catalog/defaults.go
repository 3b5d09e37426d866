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

package catalog

// 📖 Default returns the built-in MSTP-inspired rule set. Extend or replace
// it with catalog files; these ship as a starter set only.
func Default() []Definition {
	return []Definition{
		{
			ID:          "MSTP.001",
			Description: "Use 'select' instead of 'click on' for UI actions.",
			Pattern:     `(?i)\bclick on\b`,
			Replacement: "select",
		},
		{
			ID:          "MSTP.002",
			Description: "Prefer 'sign in' over 'login' when used as a verb.",
			Pattern:     `(?i)\blog ?in\b`,
			Replacement: "sign in",
		},
		{
			ID:          "MSTP.003",
			Description: "Use 'email' (one word).",
			Pattern:     `(?i)\be-?mail\b`,
			Replacement: "email",
		},
		{
			ID:          "MSTP.004",
			Description: "Replace 'OK' dialog guidance with 'Select OK'.",
			Pattern:     `(?i)\bclick\s+OK\b`,
			Replacement: "Select OK",
		},
		{
			ID:          "MSTP.005",
			Description: "Avoid Latin abbreviations: replace 'e.g.' with 'for example'.",
			Pattern:     `(?i)\be\.g\.`,
			Replacement: "for example",
		},
		{
			ID:          "MSTP.006",
			Description: "Avoid Latin abbreviations: replace 'i.e.' with 'that is'.",
			Pattern:     `(?i)\bi\.e\.`,
			Replacement: "that is",
		},
		{
			ID:          "MSTP.007",
			Description: "Sentence case for button names: 'Save As' -> 'Save as' (simple heuristic).",
			Pattern:     `\b(Save) (As)\b`,
			Replacement: "$1 as",
		},
		{
			ID:          "MSTP.008",
			Description: "Use 'choose' instead of 'pick'.",
			Pattern:     `(?i)\bpick\b`,
			Replacement: "choose",
		},
	}
}
