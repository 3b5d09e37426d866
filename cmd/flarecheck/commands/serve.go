package commands

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/flarecheck/pkg/server"
	"github.com/walteh/flarecheck/pkg/session"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 5 * time.Second

// NewServeCmd creates the serve command
func NewServeCmd(build OptsBuilder) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive review UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			o, err := build(ctx)
			if err != nil {
				return err
			}

			handler, err := server.New(server.Options{
				Store:   session.NewStore(),
				Catalog: o.Catalog,
				Checker: o.Checker,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:    addr,
				Handler: handler,
				BaseContext: func(net.Listener) context.Context {
					// Handlers log through the command's context logger.
					return ctx
				},
			}

			pterm.Info.Printf("Review UI listening on http://%s (rules: %d, grammar: %s)\n",
				addr, o.Catalog.Len(), o.Checker.Name())

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return errors.Errorf("serving review UI: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info().Msg("shutting down review UI")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8322", "listen address")
	return cmd
}
