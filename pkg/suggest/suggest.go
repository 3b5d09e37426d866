// Package suggest scans a document's text runs against the rule catalog and
// the grammar checker, producing a single ordered list of candidate edits.
// Spans always address the original document, never a partially edited copy,
// so overlap resolution can happen before any mutation.
package suggest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/flarecheck/pkg/catalog"
	"github.com/walteh/flarecheck/pkg/grammar"
	"github.com/walteh/flarecheck/pkg/htmltext"
)

// Source identifies what produced a suggestion.
type Source string

const (
	SourceStyle   Source = "style"
	SourceGrammar Source = "grammar"
)

// Suggestion is one candidate edit.
type Suggestion struct {
	Source    Source
	RuleID    string // catalog rule id or grammar backend rule code
	Span      Span   // byte offsets into the original document
	Original  string // the flagged text, equal to document[Span.Start:Span.End]
	Proposed  string // the replacement text
	Rationale string // why the edit is suggested
	Path      string // element path of the run that produced the match
}

// Span is a half-open [Start, End) byte range.
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two spans share any byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Key returns the stable identity of a suggestion, used by the decision map
// across the scan/review/apply round trip.
func (s Suggestion) Key() string {
	return fmt.Sprintf("%s/%s@%d-%d", s.Source, s.RuleID, s.Span.Start, s.Span.End)
}

// ScanResult is the outcome of one scan. GrammarDegraded means the grammar
// backend failed and only style suggestions are present; the scan itself
// still succeeded.
type ScanResult struct {
	Suggestions     []Suggestion
	GrammarDegraded bool
	GrammarWarning  string
}

// Scan finds all candidate edits in the document. rules are scanned in
// catalog order with standard global-match semantics (leftmost-first,
// non-overlapping per rule); the grammar checker is invoked once over a
// plain-text projection of the runs. The merged list is ordered by ascending
// span start, style before grammar on ties. Scan never mutates its inputs.
func Scan(ctx context.Context, doc string, runs []htmltext.Run, rules []catalog.Rule, checker grammar.Checker) *ScanResult {
	logger := zerolog.Ctx(ctx)

	result := &ScanResult{}
	result.Suggestions = append(result.Suggestions, scanStyle(runs, rules)...)
	styleCount := len(result.Suggestions)

	grammarSuggestions, degraded, warning := scanGrammar(ctx, runs, checker)
	result.Suggestions = append(result.Suggestions, grammarSuggestions...)
	result.GrammarDegraded = degraded
	result.GrammarWarning = warning

	// Stable sort keeps catalog order for same-position matches and keeps
	// style ahead of grammar because style was appended first.
	sort.SliceStable(result.Suggestions, func(i, j int) bool {
		a, b := result.Suggestions[i], result.Suggestions[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return sourceRank(a.Source) < sourceRank(b.Source)
	})

	logger.Debug().
		Int("style", styleCount).
		Int("grammar", len(grammarSuggestions)).
		Bool("grammar_degraded", degraded).
		Msg("scan complete")

	return result
}

func sourceRank(s Source) int {
	if s == SourceStyle {
		return 0
	}
	return 1
}

func scanStyle(runs []htmltext.Run, rules []catalog.Rule) []Suggestion {
	var out []Suggestion
	for _, rule := range rules {
		for _, run := range runs {
			for _, m := range rule.Pattern.FindAllStringSubmatchIndex(run.Text, -1) {
				original := run.Text[m[0]:m[1]]
				proposed := string(rule.Pattern.ExpandString(nil, rule.Replacement, run.Text, m))
				// A replacement that changes nothing is not a suggestion.
				if proposed == original {
					continue
				}
				out = append(out, Suggestion{
					Source:    SourceStyle,
					RuleID:    rule.ID,
					Span:      Span{Start: run.Start + m[0], End: run.Start + m[1]},
					Original:  original,
					Proposed:  proposed,
					Rationale: rule.Description,
					Path:      run.Path,
				})
			}
		}
	}
	return out
}

// segment records where one run landed in the plain-text projection sent to
// the grammar backend.
type segment struct {
	run        htmltext.Run
	plainStart int
	plainEnd   int
}

const segmentSeparator = "\n\n"

func scanGrammar(ctx context.Context, runs []htmltext.Run, checker grammar.Checker) ([]Suggestion, bool, string) {
	logger := zerolog.Ctx(ctx)

	if checker == nil {
		return nil, false, ""
	}
	if len(runs) == 0 {
		return nil, false, ""
	}

	// One backend call per scan: join the runs into a plain-text projection
	// and remember where each run landed.
	var (
		b        strings.Builder
		segments = make([]segment, 0, len(runs))
	)
	for i, run := range runs {
		if i > 0 {
			b.WriteString(segmentSeparator)
		}
		seg := segment{run: run, plainStart: b.Len()}
		b.WriteString(run.Text)
		seg.plainEnd = b.Len()
		segments = append(segments, seg)
	}

	res, err := checker.Check(ctx, b.String())
	if err != nil {
		logger.Warn().Err(err).Str("checker", checker.Name()).Msg("grammar checker failed")
		return nil, true, "grammar check unavailable: " + err.Error()
	}
	if res.Degraded {
		return nil, true, res.Warning
	}

	var out []Suggestion
	for _, f := range res.Findings {
		seg, ok := segmentFor(segments, f)
		if !ok {
			// The finding straddles a run boundary, meaning it would span
			// markup in the original document. Not representable as an edit.
			logger.Debug().Str("rule", f.RuleCode).Msg("dropping grammar finding across run boundary")
			continue
		}
		start := seg.run.Start + (f.Start - seg.plainStart)
		out = append(out, Suggestion{
			Source:    SourceGrammar,
			RuleID:    f.RuleCode,
			Span:      Span{Start: start, End: start + (f.End - f.Start)},
			Original:  f.Original,
			Proposed:  f.Proposed,
			Rationale: f.Message,
			Path:      seg.run.Path,
		})
	}
	return out, false, ""
}

func segmentFor(segments []segment, f grammar.Finding) (segment, bool) {
	for _, seg := range segments {
		if f.Start >= seg.plainStart && f.End <= seg.plainEnd {
			return seg, true
		}
	}
	return segment{}, false
}
