package suggest

import (
	"encoding/csv"
	"io"
	"strconv"

	"gitlab.com/tozd/go/errors"
)

// WriteCSV renders suggestions as a CSV table, one row per suggestion, with
// the reviewer's current accept/reject state. decisions may be nil.
func WriteCSV(w io.Writer, suggestions []Suggestion, decisions map[string]bool) error {
	cw := csv.NewWriter(w)

	header := []string{"type", "rule_id", "path", "start", "end", "before", "after", "rationale", "accepted"}
	if err := cw.Write(header); err != nil {
		return errors.Errorf("writing CSV header: %w", err)
	}

	for _, s := range suggestions {
		row := []string{
			string(s.Source),
			s.RuleID,
			s.Path,
			strconv.Itoa(s.Span.Start),
			strconv.Itoa(s.Span.End),
			s.Original,
			s.Proposed,
			s.Rationale,
			strconv.FormatBool(decisions[s.Key()]),
		}
		if err := cw.Write(row); err != nil {
			return errors.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Errorf("flushing CSV: %w", err)
	}
	return nil
}
