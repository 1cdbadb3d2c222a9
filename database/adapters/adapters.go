// Package adapters picks the driver adapter for a provider name.
package adapters

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/go-dbal/database"
	"github.com/satishbabariya/go-dbal/database/mysql"
	"github.com/satishbabariya/go-dbal/database/postgres"
	"github.com/satishbabariya/go-dbal/database/sqlite"
	"github.com/satishbabariya/go-dbal/database/sqlserver"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

// New returns an unconnected adapter for cfg.Provider. Provider names are
// the ones sqlgen.NewDialect accepts, except the generic dialect, which has
// no driver of its own.
func New(cfg database.Config) (database.Adapter, error) {
	d, err := sqlgen.NewDialect(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", database.ErrUnsupportedProvider, cfg.Provider)
	}

	var a database.Adapter
	switch d.Name() {
	case "postgres":
		if cfg.Driver == "" && strings.EqualFold(cfg.Provider, "pgx") {
			cfg.Driver = "pgx"
		}
		a, err = postgres.New(cfg)
	case "mysql":
		a, err = mysql.New(cfg)
	case "sqlite":
		a, err = sqlite.New(cfg)
	case "sqlserver":
		a = sqlserver.New(cfg)
	default:
		return nil, fmt.Errorf("%w: %q has no driver adapter", database.ErrUnsupportedProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
