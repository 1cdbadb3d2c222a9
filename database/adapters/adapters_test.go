package adapters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/go-dbal/database"
	"github.com/satishbabariya/go-dbal/database/adapters"
	"github.com/satishbabariya/go-dbal/database/mysql"
	"github.com/satishbabariya/go-dbal/database/postgres"
	"github.com/satishbabariya/go-dbal/database/sqlite"
	"github.com/satishbabariya/go-dbal/database/sqlserver"
	"github.com/satishbabariya/go-dbal/query/ast"
)

func TestNew(t *testing.T) {
	tests := []struct {
		cfg     database.Config
		dialect string
		driver  string
	}{
		{database.Config{Provider: "postgresql", URL: "postgres://u@localhost/app"}, "postgres", "postgres"},
		{database.Config{Provider: "pgx", URL: "host=localhost dbname=app"}, "postgres", "pgx"},
		{database.Config{Provider: "mysql", URL: "u:p@tcp(localhost:3306)/app"}, "mysql", "mysql"},
		{database.Config{Provider: "sqlite", URL: "file:app.db"}, "sqlite", "sqlite3"},
		{database.Config{Provider: "sqlite", Driver: "sqlite", URL: ":memory:"}, "sqlite", "sqlite"},
		{database.Config{Provider: "mssql", URL: "sqlserver://sa@localhost"}, "sqlserver", "sqlserver"},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Provider+"/"+tt.driver, func(t *testing.T) {
			a, err := adapters.New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, a.Dialect().Name())
			assert.Nil(t, a.DB())

			var driver string
			switch a := a.(type) {
			case *postgres.Adapter:
				driver = a.Driver()
			case *mysql.Adapter:
				driver = a.Driver()
			case *sqlite.Adapter:
				driver = a.Driver()
			case *sqlserver.Adapter:
				driver = a.Driver()
			}
			assert.Equal(t, tt.driver, driver)
		})
	}
}

func TestNewRejects(t *testing.T) {
	for _, cfg := range []database.Config{
		{Provider: "oracle"},
		{Provider: "generic"},
		{Provider: "sqlite", Driver: "duckdb"},
		{Provider: "postgres", Driver: "mysql"},
	} {
		_, err := adapters.New(cfg)
		assert.ErrorIs(t, err, database.ErrUnsupportedProvider, cfg.Provider)
	}

	_, err := adapters.New(database.Config{Provider: "mysql", URL: "not a dsn"})
	assert.Error(t, err)
}

func TestMySQLNoBackslashEscapes(t *testing.T) {
	a, err := mysql.New(database.Config{URL: "u@tcp(localhost)/app?sql_mode=%27ANSI,NO_BACKSLASH_ESCAPES%27"})
	require.NoError(t, err)

	lit, err := a.Dialect().QuoteLiteral(ast.String("a\\b'"))
	require.NoError(t, err)
	assert.Equal(t, `'a\b'''`, lit)
}
