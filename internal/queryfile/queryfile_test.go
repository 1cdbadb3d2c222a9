package queryfile_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/go-dbal/internal/queryfile"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

const sample = `
queries:
  - name: active_users
    sql: "SELECT ? FROM ? WHERE ? = :active"
    args: [{column: [id, name]}, {table: users}, {column: active}]
    params: {active: true}
  - name: recent_errors
    sql: "SELECT * FROM ? WHERE ? IN (?) AND ? > :since"
    args: [{table: logs}, {column: level}, [warn, error], {raw: created_at}]
    params:
      since: 5
`

func TestParseAndCompile(t *testing.T) {
	f, err := queryfile.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, f.Queries, 2)

	g := sqlgen.New(sqlgen.Postgres{})
	tests := map[string]string{
		"active_users":  `SELECT "id", "name" FROM "users" WHERE "active" = '1'`,
		"recent_errors": `SELECT * FROM "logs" WHERE "level" IN ('warn', 'error') AND created_at > 5`,
	}
	for _, q := range f.Queries {
		t.Run(q.Name, func(t *testing.T) {
			e, err := q.Expression()
			require.NoError(t, err)
			sql, err := g.Compile(e)
			require.NoError(t, err)
			assert.Equal(t, tests[q.Name], sql)
		})
	}
}

func TestPrepareQuery(t *testing.T) {
	f, err := queryfile.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	qs, err := f.Select("recent_errors")
	require.NoError(t, err)
	require.Len(t, qs, 1)

	e, err := qs[0].Expression()
	require.NoError(t, err)
	sql, args, err := sqlgen.New(sqlgen.Postgres{}).Prepare(e)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "logs" WHERE "level" IN ($1, $2) AND created_at > $3`, sql)
	assert.Equal(t, []any{"warn", "error", int64(5)}, args)
}

func TestSelectUnknown(t *testing.T) {
	f, err := queryfile.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	_, err = f.Select("active_users", "nope", "also_nope")
	assert.ErrorIs(t, err, queryfile.ErrUnknownQuery)
	assert.ErrorContains(t, err, "[also_nope nope]")
}

func TestBadValues(t *testing.T) {
	for _, src := range []string{
		"queries: [{name: a, sql: '?', args: [{table: x, column: y}]}]",
		"queries: [{name: a, sql: '?', args: [{raw: [x]}]}]",
		"queries: [{name: a, sql: '?', args: [{view: x}]}]",
		"queries: [{name: a, sql: '?', args: [{column: [1]}]}]",
	} {
		f, err := queryfile.Parse(strings.NewReader(src))
		require.NoError(t, err, src)
		_, err = f.Queries[0].Expression()
		assert.Error(t, err, src)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := queryfile.Parse(strings.NewReader("queries: [{sql: 'SELECT 1'}]"))
	assert.ErrorContains(t, err, "no name")

	_, err = queryfile.Parse(strings.NewReader("querys: []"))
	assert.Error(t, err)

	f, err := queryfile.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Queries)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "q.yaml", []byte(sample), 0o644))

	f, err := queryfile.Load(fs, "q.yaml")
	require.NoError(t, err)
	assert.Len(t, f.Queries, 2)

	_, err = queryfile.Load(fs, "missing.yaml")
	assert.Error(t, err)
}
