// Package commands implements the dbal CLI commands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/go-dbal/database"
	"github.com/satishbabariya/go-dbal/database/adapters"
	"github.com/satishbabariya/go-dbal/internal/config"
	"github.com/satishbabariya/go-dbal/internal/debug"
)

// app is the state shared by all commands.
type app struct {
	fs         afero.Fs
	configFile string
	debug      bool
	overrides  database.Config
	cfg        *config.Config
}

// NewRootCommand builds the command tree. All file access goes through fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	cmd := &cobra.Command{
		Use:           "dbal",
		Short:         "Render and run SQL across database dialects",
		Long:          "dbal compiles parameterised SQL templates for PostgreSQL, MySQL, SQLite and SQL Server and runs them against a configured database.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default .dbal.yaml in ., $HOME or $HOME/.config/dbal)")
	flags.BoolVar(&a.debug, "debug", false, "log compiled statements to stderr")
	flags.StringVar(&a.overrides.Provider, "provider", "", "database provider (postgres, mysql, sqlite, sqlserver)")
	flags.StringVar(&a.overrides.Driver, "driver", "", "database/sql driver name")
	flags.StringVar(&a.overrides.URL, "url", "", "connection URL or DSN")
	flags.StringVar(&a.overrides.TablePrefix, "prefix", "", "table name prefix")

	cmd.AddCommand(
		newRenderCommand(a),
		newExecCommand(a),
		newPingCommand(a),
		NewVersionCommand(),
	)
	return cmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.fs, a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	o := a.overrides
	if o.Provider != "" {
		cfg.Database.Provider = o.Provider
	}
	if o.Driver != "" {
		cfg.Database.Driver = o.Driver
	}
	if o.URL != "" {
		cfg.Database.URL = o.URL
	}
	if o.TablePrefix != "" {
		cfg.Database.TablePrefix = o.TablePrefix
	}
	if a.debug {
		cfg.Debug = true
	}

	if cfg.Debug {
		debug.Init(true)
	}
	a.cfg = cfg
	return nil
}

// connect opens the configured database. The returned function disconnects.
func (a *app) connect(ctx context.Context) (*database.DB, func(), error) {
	adapter, err := adapters.New(a.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := adapter.Connect(ctx); err != nil {
		return nil, nil, err
	}

	db, err := database.New(adapter, a.cfg.Database)
	if err != nil {
		_ = adapter.Disconnect(ctx)
		return nil, nil, err
	}

	return db, func() {
		_ = db.Close()
		if err := adapter.Disconnect(ctx); err != nil {
			debug.Warn("disconnect failed", "error", err)
		}
	}, nil
}
