package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.cfg.RequireServer(); err != nil {
				return err
			}
			if addr == "" {
				addr = app.cfg.HTTPAddr
			}

			store, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					app.logger.Warn("closing store", zap.Error(err))
				}
			}()

			srv, err := app.newServer(ctx, store)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	addAddrFlag(cmd.Flags(), &addr)
	return cmd
}
