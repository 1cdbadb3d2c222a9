// Package mysql adapts go-sql-driver/mysql to database.Adapter.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/go-dbal/database"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

// Adapter connects to MySQL and MariaDB.
type Adapter struct {
	*database.Conn
	dialect sqlgen.MySQL
}

var _ database.Adapter = (*Adapter)(nil)

// New parses cfg.URL as a MySQL DSN and returns an unconnected adapter.
// Time values are always parsed into time.Time. When the DSN sets a
// sql_mode containing NO_BACKSLASH_ESCAPES, literals are quoted accordingly.
func New(cfg database.Config) (*Adapter, error) {
	dsn, err := mysql.ParseDSN(strings.TrimPrefix(cfg.URL, "mysql://"))
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	dsn.ParseTime = true

	driver := cfg.Driver
	if driver == "" {
		driver = "mysql"
	}

	return &Adapter{
		Conn:    database.NewConn(driver, dsn.FormatDSN(), cfg),
		dialect: sqlgen.MySQL{NoBackslashEscapes: noBackslashEscapes(dsn)},
	}, nil
}

// FromDB wraps an open database.
func FromDB(db *sql.DB, cfg database.Config) *Adapter {
	return &Adapter{Conn: database.ConnFromDB(db, cfg)}
}

func noBackslashEscapes(dsn *mysql.Config) bool {
	mode, ok := dsn.Params["sql_mode"]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToUpper(mode), "NO_BACKSLASH_ESCAPES")
}

// Dialect returns the MySQL dialect.
func (a *Adapter) Dialect() sqlgen.Dialect {
	return a.dialect
}

// ServerVersion reports the server version. MariaDB banners such as
// "10.11.6-MariaDB" are reduced to their numeric part.
func (a *Adapter) ServerVersion(ctx context.Context) (*version.Version, error) {
	return a.QueryVersion(ctx, "SELECT VERSION()")
}
