package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/flarecheck/cmd/flarecheck/opts"
	"github.com/walteh/flarecheck/pkg/htmltext"
	"github.com/walteh/flarecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// OptsBuilder builds the shared dependencies after flag parsing.
type OptsBuilder func(ctx context.Context) (*opts.RootOpts, error)

// Display configuration for the suggestion listing.
const (
	sourceWidth = 8
	ruleWidth   = 22
	spanWidth   = 12
)

// NewCheckCmd creates the check command
func NewCheckCmd(build OptsBuilder) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Scan a topic and list the suggested edits without changing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := build(ctx)
			if err != nil {
				return err
			}

			scan, err := scanFile(ctx, o, args[0])
			if err != nil {
				return err
			}

			if scan.GrammarDegraded {
				pterm.Warning.Println(scan.GrammarWarning)
			}

			if csvPath != "" {
				if err := writeSuggestionsCSV(csvPath, scan.Suggestions); err != nil {
					return err
				}
				pterm.Info.Printf("Wrote suggestion table to %s\n", csvPath)
			}

			if len(scan.Suggestions) == 0 {
				pterm.Success.Println("No suggestions. The document already follows the loaded rules.")
				return nil
			}

			printSuggestions(scan.Suggestions)
			return errors.Errorf("%d suggestion(s) found", len(scan.Suggestions))
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the suggestion table to a CSV file")
	return cmd
}

// scanFile reads a document and scans it with the configured catalog and
// grammar checker.
func scanFile(ctx context.Context, o *opts.RootOpts, path string) (*suggest.ScanResult, error) {
	doc, runs, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	rules := o.Catalog.RulesFor(filepath.Base(path))
	return suggest.Scan(ctx, doc, runs, rules, o.Checker), nil
}

// readDocument reads a file and extracts its text runs.
func readDocument(path string) (string, []htmltext.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, errors.Errorf("reading document: %w", err)
	}
	doc := string(data)
	runs, err := htmltext.Extract(doc)
	if err != nil {
		return "", nil, errors.Errorf("cannot process %s: %w", path, err)
	}
	return doc, runs, nil
}

// printSuggestions renders the suggestion list as aligned console lines
func printSuggestions(suggestions []suggest.Suggestion) {
	for i, s := range suggestions {
		sourceColor := color.FgCyan
		if s.Source == suggest.SourceGrammar {
			sourceColor = color.FgMagenta
		}
		fmt.Printf("%3d %s %s %s %s -> %s\n",
			i+1,
			color.New(sourceColor).Sprintf("%-*s", sourceWidth, s.Source),
			fmt.Sprintf("%-*s", ruleWidth, s.RuleID),
			fmt.Sprintf("%-*s", spanWidth, fmt.Sprintf("[%d:%d]", s.Span.Start, s.Span.End)),
			color.New(color.FgRed).Sprintf("%q", s.Original),
			color.New(color.FgGreen).Sprintf("%q", s.Proposed),
		)
		if s.Rationale != "" {
			fmt.Printf("    %s\n", color.New(color.Faint).Sprint(s.Rationale))
		}
	}
}

func writeSuggestionsCSV(path string, suggestions []suggest.Suggestion) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()

	if err := suggest.WriteCSV(f, suggestions, nil); err != nil {
		return errors.Errorf("writing CSV file: %w", err)
	}
	return nil
}
