// Package sqlite adapts SQLite drivers to database.Adapter.
//
// mattn/go-sqlite3 ("sqlite3") is the default. Set Config.Driver to
// "sqlite" to use the pure-Go modernc.org/sqlite instead.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-version"
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "modernc.org/sqlite"          // registers "sqlite"

	"github.com/satishbabariya/go-dbal/database"
	"github.com/satishbabariya/go-dbal/internal/debug"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

// DefaultDriver is the database/sql driver used when Config.Driver is empty.
const DefaultDriver = "sqlite3"

// RETURNING is available from this library version on.
var returningVersion = version.Must(version.NewVersion("3.35.0"))

// Adapter connects to a SQLite database file.
type Adapter struct {
	*database.Conn

	mu        sync.RWMutex
	returning bool
}

var _ database.Adapter = (*Adapter)(nil)

// New returns an unconnected adapter. Foreign key enforcement is switched on
// through the DSN so that every pooled connection gets it.
func New(cfg database.Config) (*Adapter, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DefaultDriver
	}

	var dsn string
	switch driver {
	case "sqlite3":
		dsn = withParam(cfg.URL, "_foreign_keys", "_foreign_keys=1")
	case "sqlite":
		dsn = withParam(cfg.URL, "foreign_keys", "_pragma=foreign_keys(1)")
	default:
		return nil, fmt.Errorf("%w: driver %q for sqlite", database.ErrUnsupportedProvider, driver)
	}

	return &Adapter{Conn: database.NewConn(driver, dsn, cfg)}, nil
}

// FromDB wraps an open database. Call Detect to enable RETURNING on
// libraries that support it.
func FromDB(db *sql.DB, cfg database.Config) *Adapter {
	return &Adapter{Conn: database.ConnFromDB(db, cfg)}
}

func withParam(dsn, key, param string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if strings.Contains(dsn, key) {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// Connect opens the database and detects the library version.
func (a *Adapter) Connect(ctx context.Context) error {
	if err := a.Conn.Connect(ctx); err != nil {
		return err
	}
	return a.Detect(ctx)
}

// Detect reads the library version and enables the features it supports.
func (a *Adapter) Detect(ctx context.Context) error {
	v, err := a.ServerVersion(ctx)
	if err != nil {
		return err
	}

	returning := v.GreaterThanOrEqual(returningVersion)
	a.mu.Lock()
	a.returning = returning
	a.mu.Unlock()

	debug.Debug("sqlite detected", "version", v.String(), "returning", returning)
	return nil
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() sqlgen.Dialect {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return sqlgen.SQLite{Returning: a.returning}
}

// ServerVersion reports the SQLite library version.
func (a *Adapter) ServerVersion(ctx context.Context) (*version.Version, error) {
	return a.QueryVersion(ctx, "SELECT sqlite_version()")
}
