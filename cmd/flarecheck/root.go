package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/flarecheck/cmd/flarecheck/opts"
	"github.com/walteh/flarecheck/pkg/catalog"
	"github.com/walteh/flarecheck/pkg/grammar"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	ruleFiles      []string
	noBuiltin      bool
	noGrammar      bool
	grammarURL     string
	grammarLang    string
	grammarTimeout time.Duration
	debug          bool
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringSliceVarP(&ruleFiles, "rules", "r", nil, "extra rule catalog files (yaml/json/hcl)")
	cmd.PersistentFlags().BoolVar(&noBuiltin, "no-builtin", false, "drop the built-in MSTP rule set")
	cmd.PersistentFlags().BoolVar(&noGrammar, "no-grammar", false, "skip the external grammar check (style rules only)")
	cmd.PersistentFlags().StringVar(&grammarURL, "grammar-url", grammar.PublicAPIBaseURL, "grammar backend base URL")
	cmd.PersistentFlags().StringVar(&grammarLang, "grammar-lang", "en-US", "grammar check locale")
	cmd.PersistentFlags().DurationVar(&grammarTimeout, "grammar-timeout", 10*time.Second, "grammar check timeout")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and returns a context
// carrying the logger
func setupLogging(ctx context.Context) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return logger.WithContext(ctx)
}

// newRootOpts builds the catalog and grammar checker from the root flags
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	var defs []catalog.Definition
	if !noBuiltin {
		defs = catalog.Default()
	}
	for _, path := range ruleFiles {
		loaded, err := catalog.Load(ctx, path)
		if err != nil {
			return nil, errors.Errorf("loading rule catalog %s: %w", path, err)
		}
		defs = append(defs, loaded...)
	}

	cat := catalog.Compile(ctx, defs)
	if cat.Len() == 0 {
		return nil, errors.New("no usable rules: the catalog is empty")
	}

	var checker grammar.Checker = grammar.Disabled{}
	if !noGrammar {
		lt, err := grammar.NewLanguageTool(grammarURL, grammarLang, grammar.WithTimeout(grammarTimeout))
		if err != nil {
			return nil, errors.Errorf("configuring grammar checker: %w", err)
		}
		checker = lt
	}

	return &opts.RootOpts{
		Catalog: cat,
		Checker: checker,
	}, nil
}
