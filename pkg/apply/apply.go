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

// Package apply turns reviewed suggestions into the cleaned document. It
// filters by the caller's accept/reject decisions, resolves overlapping
// accepted edits deterministically, splices the survivors into the original
// text in one left-to-right pass, and renders the diff.
package apply

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/walteh/flarecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// Decisions maps suggestion keys (suggest.Suggestion.Key) to accept/reject.
// Missing keys mean rejected.
type Decisions map[string]bool

// Conflict is an accepted suggestion that could not be applied because its
// span overlaps an earlier accepted one. It is surfaced, never silently
// dropped.
type Conflict struct {
	Suggestion    suggest.Suggestion
	ConflictsWith string // key of the suggestion that was kept instead
}

// Result is the outcome of one apply pass.
type Result struct {
	CleanedText string
	UnifiedDiff string               // line-oriented diff of original vs cleaned
	Applied     []suggest.Suggestion // accepted and applied, in document order
	Conflicts   []Conflict           // accepted but unapplied due to overlap
}

const (
	diffFromFile = "original.html"
	diffToFile   = "cleaned.html"
	diffContext  = 3
)

// Apply applies the accepted suggestions to doc. Spans must address doc; a
// span out of range or whose text no longer matches the document means the
// decisions are stale, which is an error. Zero accepted suggestions returns
// the document unchanged with an empty diff. Pure function of its inputs.
func Apply(doc string, suggestions []suggest.Suggestion, decisions Decisions) (*Result, error) {
	accepted := make([]suggest.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if decisions[s.Key()] {
			accepted = append(accepted, s)
		}
	}
	// Ascending span start; the stable sort preserves engine order on ties,
	// which is the tiebreak the conflict policy wants.
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Span.Start < accepted[j].Span.Start
	})

	result := &Result{}

	var (
		b      strings.Builder
		cursor int
		kept   []suggest.Suggestion
	)
	for _, s := range accepted {
		if s.Span.Start < 0 || s.Span.End > len(doc) || s.Span.Start > s.Span.End {
			return nil, errors.Errorf("suggestion %s: span out of range for document of %d bytes", s.Key(), len(doc))
		}
		if got := doc[s.Span.Start:s.Span.End]; got != s.Original {
			return nil, errors.Errorf("suggestion %s: document text %q does not match suggestion text %q (stale decisions?)", s.Key(), got, s.Original)
		}
		if len(kept) > 0 {
			last := kept[len(kept)-1]
			// Sorted by start, so overlap with anything kept so far reduces
			// to overlap with the last kept span.
			if s.Span.Overlaps(last.Span) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Suggestion:    s,
					ConflictsWith: last.Key(),
				})
				continue
			}
		}
		b.WriteString(doc[cursor:s.Span.Start])
		b.WriteString(s.Proposed)
		cursor = s.Span.End
		kept = append(kept, s)
	}
	b.WriteString(doc[cursor:])

	result.CleanedText = b.String()
	result.Applied = kept

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(doc),
		B:        difflib.SplitLines(result.CleanedText),
		FromFile: diffFromFile,
		ToFile:   diffToFile,
		Context:  diffContext,
	})
	if err != nil {
		return nil, errors.Errorf("rendering unified diff: %w", err)
	}
	result.UnifiedDiff = diff

	return result, nil
}
