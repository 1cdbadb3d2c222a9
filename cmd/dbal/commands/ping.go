package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/go-dbal/database/pool"
	"github.com/satishbabariya/go-dbal/internal/ui"
)

func newPingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the database connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			db, closeDB, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			adapter := db.Adapter()
			if err := adapter.Ping(ctx); err != nil {
				return err
			}
			v, err := adapter.ServerVersion(ctx)
			if err != nil {
				return err
			}

			ui.PrintSuccess(out, "connected to %s %s", adapter.Dialect().Name(), v)

			if p, ok := adapter.(interface{ Pool() *pool.Pool }); ok && p.Pool() != nil {
				s := p.Pool().Stats()
				ui.PrintInfo(out, "driver %s, %d open, %d in use, %d idle (max %d)",
					p.Pool().Driver(), s.OpenConnections, s.InUse, s.Idle, s.MaxOpenConnections)
			}
			return nil
		},
	}
}
