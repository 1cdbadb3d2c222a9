// Package database wraps database/sql drivers behind a small adapter
// interface and executes compiled statements against them.
//
// Statements are compiled and executed in one call: a DB or Tx resolves an
// expression or statement for the adapter's dialect and hands the SQL and
// its arguments to the driver immediately, so callers never see a
// half-prepared query.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/go-dbal/database/pool"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

var (
	// ErrNotConnected is returned when an adapter is used before Connect.
	ErrNotConnected = errors.New("database not connected")

	// ErrUnsupportedProvider is returned for an unknown provider name.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Adapter is a thin wrapper around one database/sql driver.
type Adapter interface {
	// Connect opens the pool and verifies the connection.
	Connect(ctx context.Context) error

	// Disconnect closes the pool.
	Disconnect(ctx context.Context) error

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// DB returns the open database, or nil before Connect.
	DB() *sql.DB

	// Dialect returns the SQL dialect statements are rendered in.
	Dialect() sqlgen.Dialect

	// ServerVersion reports the database server version.
	ServerVersion(ctx context.Context) (*version.Version, error)
}

// Config holds database connection configuration.
type Config struct {
	Provider       string
	Driver         string // overrides the adapter's default driver name
	URL            string
	TablePrefix    string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
	StatementCache int // prepared statements kept per DB, 0 disables
	Strict         bool
	InlineLiterals bool
}

// PoolConfig derives the connection pool settings from c.
func (c Config) PoolConfig() pool.Config {
	pc := pool.DefaultConfig()
	if c.MaxConnections > 0 {
		pc.MaxOpenConns = c.MaxConnections
		pc.MaxIdleConns = min(pc.MaxIdleConns, c.MaxConnections)
	}
	if c.MaxIdleTime > 0 {
		pc.ConnMaxIdleTime = time.Duration(c.MaxIdleTime) * time.Second
	}
	return pc
}

// Generator returns a statement generator for d configured from c.
func (c Config) Generator(d sqlgen.Dialect) *sqlgen.Generator {
	return sqlgen.New(d,
		sqlgen.WithTablePrefix(c.TablePrefix),
		sqlgen.WithStrict(c.Strict),
	)
}

func (c Config) connectTimeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ConnectTimeout) * time.Second
}

// QueryError is returned when compiling or running a statement fails.
type QueryError struct {
	ID        string
	Operation string
	Query     string
	Args      []any
	Cause     error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s %q: %v", e.Operation, e.Query, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

var versionPattern = regexp.MustCompile(`\d+(\.\d+)*`)

// ParseVersion extracts the leading dotted version number from a server
// version banner such as "16.2 (Debian 16.2-1)" or "10.11.6-MariaDB".
func ParseVersion(banner string) (*version.Version, error) {
	match := versionPattern.FindString(banner)
	if match == "" {
		return nil, fmt.Errorf("no version number in %q", banner)
	}
	return version.NewVersion(match)
}
