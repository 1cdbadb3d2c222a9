package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/go-dbal/database/pool"
	"github.com/satishbabariya/go-dbal/internal/debug"
)

// Conn holds the pool state shared by the driver adapters. Adapters embed
// it and add their dialect and version query.
type Conn struct {
	driver string
	dsn    string
	config Config

	mu   sync.RWMutex
	pool *pool.Pool
}

// NewConn returns an unconnected Conn for driver and dsn.
func NewConn(driver, dsn string, cfg Config) *Conn {
	return &Conn{driver: driver, dsn: dsn, config: cfg}
}

// ConnFromDB returns a Conn that is already connected to db.
func ConnFromDB(db *sql.DB, cfg Config) *Conn {
	pc := cfg.PoolConfig()
	pc.HealthCheckInterval = 0
	return &Conn{config: cfg, pool: pool.FromDB(db, pc)}
}

// Driver returns the database/sql driver name.
func (c *Conn) Driver() string { return c.driver }

// Config returns the configuration the Conn was created with.
func (c *Conn) Config() Config { return c.config }

// Connect opens the pool and pings the database within the configured
// connect timeout. Connecting twice is a no-op.
func (c *Conn) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		return nil
	}

	p, err := pool.New(c.driver, c.dsn, c.config.PoolConfig())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.connectTimeout())
	defer cancel()

	if err := p.DB().PingContext(ctx); err != nil {
		_ = p.Close()
		return fmt.Errorf("failed to connect to %s: %w", c.driver, err)
	}

	debug.Debug("connected", "driver", c.driver, "provider", c.config.Provider)
	c.pool = p
	return nil
}

// Disconnect closes the pool.
func (c *Conn) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool == nil {
		return nil
	}
	err := c.pool.Close()
	c.pool = nil
	return err
}

// Ping checks the database connection.
func (c *Conn) Ping(ctx context.Context) error {
	p := c.Pool()
	if p == nil {
		return ErrNotConnected
	}
	return p.HealthCheck(ctx)
}

// DB returns the open database, or nil before Connect.
func (c *Conn) DB() *sql.DB {
	if p := c.Pool(); p != nil {
		return p.DB()
	}
	return nil
}

// Pool returns the connection pool, or nil before Connect.
func (c *Conn) Pool() *pool.Pool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// QueryVersion runs query, which must return a single text column, and
// parses the result as a server version.
func (c *Conn) QueryVersion(ctx context.Context, query string) (*version.Version, error) {
	db := c.DB()
	if db == nil {
		return nil, ErrNotConnected
	}

	var banner string
	if err := db.QueryRowContext(ctx, query).Scan(&banner); err != nil {
		return nil, fmt.Errorf("failed to read server version: %w", err)
	}
	return ParseVersion(banner)
}
