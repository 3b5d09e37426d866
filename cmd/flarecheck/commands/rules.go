package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRulesCmd creates the rules command
func NewRulesCmd(build OptsBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the effective rule catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := build(cmd.Context())
			if err != nil {
				return err
			}

			for _, r := range o.Catalog.Rules() {
				fmt.Printf("%s  %s -> %q\n",
					color.New(color.Bold).Sprintf("%-12s", r.ID),
					r.Pattern.String(),
					r.Replacement,
				)
				if r.Description != "" {
					fmt.Printf("              %s\n", color.New(color.Faint).Sprint(r.Description))
				}
				if r.Scope != "" {
					fmt.Printf("              scope: %s\n", r.Scope)
				}
			}
			return nil
		},
	}
}
