package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/flarecheck/cmd/flarecheck/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "flarecheck",
		Short: "Check MadCap Flare HTML topics against MSTP style rules and grammar",
		Long: `flarecheck scans a Flare HTML topic with a table of regex-based MSTP style
rules and an optional external grammar checker, lets you review each suggested
edit, and writes the cleaned file plus a unified diff of the changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addRootFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Logging level depends on --debug, so the logger is built after
		// flag parsing and installed on the command context.
		cmd.SetContext(setupLogging(cmd.Context()))
		return nil
	}

	rootCmd.AddCommand(
		commands.NewCheckCmd(newRootOpts),
		commands.NewApplyCmd(newRootOpts),
		commands.NewRulesCmd(newRootOpts),
		commands.NewServeCmd(newRootOpts),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
