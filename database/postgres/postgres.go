// Package postgres adapts PostgreSQL drivers to database.Adapter.
//
// The lib/pq driver ("postgres") is the default; set Config.Driver to "pgx"
// to use jackc/pgx through its database/sql bridge.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-version"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"

	"github.com/satishbabariya/go-dbal/database"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

// DefaultDriver is the database/sql driver used when Config.Driver is empty.
const DefaultDriver = "postgres"

// Adapter connects to PostgreSQL.
type Adapter struct {
	*database.Conn
}

var _ database.Adapter = (*Adapter)(nil)

// New validates cfg.URL and returns an unconnected adapter. Both URLs and
// keyword/value connection strings are accepted.
func New(cfg database.Config) (*Adapter, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DefaultDriver
	}
	switch driver {
	case "postgres", "pgx":
	default:
		return nil, fmt.Errorf("%w: driver %q for postgres", database.ErrUnsupportedProvider, driver)
	}

	if _, err := pgx.ParseConfig(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid postgres connection string: %w", err)
	}
	return &Adapter{Conn: database.NewConn(driver, cfg.URL, cfg)}, nil
}

// FromDB wraps an open database.
func FromDB(db *sql.DB, cfg database.Config) *Adapter {
	return &Adapter{Conn: database.ConnFromDB(db, cfg)}
}

// Dialect returns the PostgreSQL dialect.
func (a *Adapter) Dialect() sqlgen.Dialect {
	return sqlgen.Postgres{}
}

// ServerVersion reports the server version.
func (a *Adapter) ServerVersion(ctx context.Context) (*version.Version, error) {
	return a.QueryVersion(ctx, "SHOW server_version")
}
