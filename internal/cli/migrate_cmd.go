package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/meetmeter/internal/db"
)

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.cfg.RequireStore(); err != nil {
				return err
			}
			store, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			// Open already migrates; running again confirms the schema is current.
			if err := db.Migrate(store); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s, %s)\n", store.Dialect, app.cfg.DBName)
			return err
		},
	}
}
