// Package sqlserver adapts a SQL Server driver to database.Adapter.
//
// No driver is linked in; the application registers one under the name
// "sqlserver" (or Config.Driver) before connecting.
package sqlserver

import (
	"context"
	"database/sql"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/go-dbal/database"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

// DefaultDriver is the database/sql driver used when Config.Driver is empty.
const DefaultDriver = "sqlserver"

// Adapter connects to SQL Server.
type Adapter struct {
	*database.Conn
}

var _ database.Adapter = (*Adapter)(nil)

// New returns an unconnected adapter.
func New(cfg database.Config) *Adapter {
	driver := cfg.Driver
	if driver == "" {
		driver = DefaultDriver
	}
	return &Adapter{Conn: database.NewConn(driver, cfg.URL, cfg)}
}

// FromDB wraps an open database.
func FromDB(db *sql.DB, cfg database.Config) *Adapter {
	return &Adapter{Conn: database.ConnFromDB(db, cfg)}
}

// Dialect returns the SQL Server dialect.
func (a *Adapter) Dialect() sqlgen.Dialect {
	return sqlgen.SQLServer{}
}

// ServerVersion reports the product version.
func (a *Adapter) ServerVersion(ctx context.Context) (*version.Version, error) {
	return a.QueryVersion(ctx, "SELECT CAST(SERVERPROPERTY('ProductVersion') AS NVARCHAR(128))")
}
