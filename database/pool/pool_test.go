package pool_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/go-dbal/database/pool"
)

func testConfig() pool.Config {
	config := pool.DefaultConfig()
	config.HealthCheckInterval = 0
	return config
}

func TestDefaultConfig(t *testing.T) {
	config := pool.DefaultConfig()
	assert.Equal(t, 25, config.MaxOpenConns)
	assert.Equal(t, 5, config.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, config.ConnMaxLifetime)
	assert.Equal(t, time.Minute, config.HealthCheckInterval)
}

func TestHealthCheck(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	p := pool.FromDB(db, testConfig())
	defer p.Close()

	mock.ExpectPing()
	require.NoError(t, p.HealthCheck(context.Background()))

	stats := p.Stats()
	assert.False(t, stats.LastHealthCheck.IsZero())
	assert.Zero(t, stats.FailedHealthChecks)
	assert.Equal(t, 25, stats.MaxOpenConnections)

	mock.ExpectPing().WillReturnError(errors.New("gone"))
	err = p.HealthCheck(context.Background())
	assert.ErrorContains(t, err, "gone")

	stats = p.Stats()
	assert.Equal(t, int64(1), stats.FailedHealthChecks)
	assert.Error(t, stats.LastError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	config := testConfig()
	config.HealthCheckInterval = time.Hour
	p := pool.FromDB(db, config)

	mock.ExpectClose()
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := pool.New("no-such-driver", "", testConfig())
	assert.Error(t, err)
}
