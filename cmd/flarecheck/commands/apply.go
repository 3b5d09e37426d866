package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/flarecheck/pkg/apply"
	"github.com/walteh/flarecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(build OptsBuilder) *cobra.Command {
	var (
		acceptAll     bool
		decisionsPath string
		outputPath    string
		diffPath      string
		showDiff      bool
	)

	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Scan a topic, apply accepted edits, and write the cleaned file",
		Long: `apply scans the document and applies the accepted suggestions. Accept
everything with --accept-all, or review first with 'check --csv', edit the
decision map, and pass it back with --decisions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !acceptAll && decisionsPath == "" {
				return errors.New("nothing to apply: pass --accept-all or --decisions")
			}

			o, err := build(ctx)
			if err != nil {
				return err
			}

			doc, runs, err := readDocument(args[0])
			if err != nil {
				return err
			}
			rules := o.Catalog.RulesFor(filepath.Base(args[0]))
			scan := suggest.Scan(ctx, doc, runs, rules, o.Checker)

			if scan.GrammarDegraded {
				pterm.Warning.Println(scan.GrammarWarning)
			}

			var decisions apply.Decisions
			if acceptAll {
				keys := make([]string, 0, len(scan.Suggestions))
				for _, s := range scan.Suggestions {
					keys = append(keys, s.Key())
				}
				decisions = apply.AcceptAll(keys)
			} else {
				decisions, err = apply.LoadDecisions(decisionsPath)
				if err != nil {
					return err
				}
			}

			res, err := apply.Apply(doc, scan.Suggestions, decisions)
			if err != nil {
				return err
			}

			for _, s := range res.Applied {
				pterm.Success.Printf("%s: %q -> %q\n", s.RuleID, s.Original, s.Proposed)
			}
			for _, c := range res.Conflicts {
				pterm.Warning.Printf("not applied (overlaps %s): %s %q -> %q\n",
					c.ConflictsWith, c.Suggestion.RuleID, c.Suggestion.Original, c.Suggestion.Proposed)
			}

			if outputPath == "" {
				dir, base := filepath.Split(args[0])
				outputPath = filepath.Join(dir, "cleaned_"+base)
			}
			if err := os.WriteFile(outputPath, []byte(res.CleanedText), 0o644); err != nil {
				return errors.Errorf("writing cleaned file: %w", err)
			}

			if diffPath != "" {
				if err := os.WriteFile(diffPath, []byte(res.UnifiedDiff), 0o644); err != nil {
					return errors.Errorf("writing diff file: %w", err)
				}
			}
			if showDiff {
				fmt.Print(apply.ColorDiff(res.UnifiedDiff))
			}

			pterm.Info.Printf("Applied %d change(s), %d conflict(s), wrote %s\n",
				len(res.Applied), len(res.Conflicts), outputPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&acceptAll, "accept-all", false, "accept every suggestion")
	cmd.Flags().StringVar(&decisionsPath, "decisions", "", "YAML/JSON file mapping suggestion keys to accept/reject")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "cleaned file path (default: cleaned_<name> next to the input)")
	cmd.Flags().StringVar(&diffPath, "diff", "", "also write the unified diff to this path")
	cmd.Flags().BoolVar(&showDiff, "show-diff", false, "print the colored diff to stdout")
	return cmd
}
