// Package pool provides an application-owned database connection pool.
//
// A Pool wraps one *sql.DB. There is no package-level registry: callers
// create pools explicitly and pass them to the adapters that use them.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/satishbabariya/go-dbal/internal/debug"
)

// Config holds connection pool configuration.
type Config struct {
	// MaxOpenConns is the maximum number of open connections (0 = unlimited).
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum idle time of a connection.
	ConnMaxIdleTime time.Duration
	// HealthCheckInterval is how often to ping the database (0 = never).
	HealthCheckInterval time.Duration
	// HealthCheckTimeout bounds a single background ping.
	HealthCheckTimeout time.Duration
}

// DefaultConfig returns sensible default pool configuration.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:        25,
		MaxIdleConns:        5,
		ConnMaxLifetime:     30 * time.Minute,
		ConnMaxIdleTime:     10 * time.Minute,
		HealthCheckInterval: 1 * time.Minute,
		HealthCheckTimeout:  5 * time.Second,
	}
}

// Pool manages database connections with lifecycle management.
type Pool struct {
	db     *sql.DB
	driver string
	config Config

	mu              sync.RWMutex
	failedChecks    int64
	lastHealthCheck time.Time
	lastError       error

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New opens a pool for driverName. The connection is not verified; call
// HealthCheck or Ping on the result.
func New(driverName, dataSourceName string, config Config) (*Pool, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newPool(db, driverName, config), nil
}

// FromDB wraps an already opened database. The pool takes ownership of db
// and closes it on Close.
func FromDB(db *sql.DB, config Config) *Pool {
	return newPool(db, "", config)
}

func newPool(db *sql.DB, driver string, config Config) *Pool {
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		db:     db,
		driver: driver,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	if config.HealthCheckInterval > 0 {
		p.wg.Add(1)
		go p.healthCheckLoop()
	}

	return p
}

// DB returns the underlying *sql.DB.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Driver returns the driver name the pool was opened with, if any.
func (p *Pool) Driver() string {
	return p.driver
}

// Stats returns current pool statistics.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dbStats := p.db.Stats()

	return Stats{
		MaxOpenConnections: p.config.MaxOpenConns,
		OpenConnections:    dbStats.OpenConnections,
		InUse:              dbStats.InUse,
		Idle:               dbStats.Idle,
		WaitCount:          dbStats.WaitCount,
		WaitDuration:       dbStats.WaitDuration,
		MaxIdleClosed:      dbStats.MaxIdleClosed,
		MaxLifetimeClosed:  dbStats.MaxLifetimeClosed,
		FailedHealthChecks: p.failedChecks,
		LastHealthCheck:    p.lastHealthCheck,
		LastError:          p.lastError,
	}
}

// Stats represents pool statistics.
type Stats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	MaxIdleClosed      int64
	MaxLifetimeClosed  int64
	FailedHealthChecks int64
	LastHealthCheck    time.Time
	LastError          error
}

// HealthCheck pings the database and records the outcome.
func (p *Pool) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)

	p.mu.Lock()
	p.lastHealthCheck = time.Now()
	p.lastError = err
	if err != nil {
		p.failedChecks++
	}
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (p *Pool) healthCheckLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.HealthCheckInterval)
	defer ticker.Stop()

	timeout := p.config.HealthCheckTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(p.ctx, timeout)
			if err := p.HealthCheck(ctx); err != nil {
				debug.Warn("pool health check failed", "driver", p.driver, "error", err)
			}
			cancel()
		}
	}
}

// Close stops the health checks and closes the database. It is safe to call
// more than once.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		p.closeErr = p.db.Close()
	})
	return p.closeErr
}
