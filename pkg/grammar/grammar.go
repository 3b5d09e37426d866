// Package grammar defines the boundary to an external grammar-checking
// service. The concrete backend is swappable behind the Checker interface;
// the rest of the pipeline only ever sees position-addressed Findings.
package grammar

import (
	"context"
)

// Finding is a single grammar issue, normalized from whatever the backend
// natively returns. Start and End are byte offsets into the checked text.
type Finding struct {
	Start    int    // byte offset of the flagged text
	End      int    // byte offset one past the flagged text
	Original string // the flagged text
	Proposed string // the backend's preferred replacement
	Message  string // human-readable rationale
	RuleCode string // backend rule identifier
}

// Result is the outcome of one check. A failed backend call is not an error:
// it yields zero findings with Degraded set and a Warning describing why, so
// the suggestion engine can fall back to style-only results.
type Result struct {
	Findings []Finding
	Degraded bool
	Warning  string
}

// Checker checks text for grammar issues and returns position-addressed
// findings. Implementations must catch their own transport failures and
// report them through Result.Degraded rather than the error return; the
// error is reserved for programming mistakes (nil receiver, empty base URL).
type Checker interface {
	// Name identifies the backend (e.g. "languagetool", "disabled")
	Name() string
	// Check checks the given text
	Check(ctx context.Context, text string) (*Result, error)
}

// Disabled is a Checker that never finds anything and never degrades. It is
// the style-only mode of the pipeline.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Check(ctx context.Context, text string) (*Result, error) {
	return &Result{}, nil
}
