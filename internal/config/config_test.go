package config_test

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/go-dbal/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")

	cfg, err := config.Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Provider)
	assert.Equal(t, "postgres://localhost/app", cfg.Database.URL)
	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, 10, cfg.Database.ConnectTimeout)
	assert.False(t, cfg.Database.Strict)
	assert.Empty(t, cfg.File)
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/dbal.yaml", []byte(`
provider: mysql
url: "u:p@tcp(localhost:3306)/app"
table_prefix: app_
statement_cache: 16
strict: true
debug: true
`), 0o644))

	t.Setenv("DBAL_MAX_CONNECTIONS", "4")

	cfg, err := config.Load(fs, "/etc/dbal.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Provider)
	assert.Equal(t, "u:p@tcp(localhost:3306)/app", cfg.Database.URL)
	assert.Equal(t, "app_", cfg.Database.TablePrefix)
	assert.Equal(t, 16, cfg.Database.StatementCache)
	assert.Equal(t, 4, cfg.Database.MaxConnections)
	assert.True(t, cfg.Database.Strict)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/etc/dbal.yaml", cfg.File)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(afero.NewMemMapFs(), "/nope.yaml")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("DBAL_PROVIDER=postgres\nDBAL_TABLE_PREFIX=dot_\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("DBAL_PROVIDER=mysql\n"), 0o644))

	t.Setenv("DBAL_PROVIDER", "sqlite")
	t.Cleanup(func() { _ = os.Unsetenv("DBAL_TABLE_PREFIX") })

	cfg, err := config.Load(fs, "")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Provider, ".env.local overrides")
	assert.Equal(t, "dot_", cfg.Database.TablePrefix, ".env fills unset variables")
}
