package compiler_test

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/go-dbal/query/ast"
	"github.com/satishbabariya/go-dbal/query/compiler"
)

func quoteString(v ast.Value) (string, error) {
	switch v := v.(type) {
	case ast.String:
		return "'" + strings.ReplaceAll(string(v), "'", "''") + "'", nil
	case ast.Binary:
		return "X'" + strings.ToUpper(string(v)) + "'", nil
	}
	return "", errors.New("unexpected literal")
}

func newContext() *compiler.Context {
	return compiler.NewContext("<", ">", quoteString)
}

func compile(t *testing.T, node any) string {
	t.Helper()
	sql, err := compiler.Compile(node, newContext())
	require.NoError(t, err)
	return sql
}

func TestCompileTemplateOnly(t *testing.T) {
	for _, tpl := range []string{"", "SELECT 1", "a ? b", ":x and ?", "x::text"} {
		assert.Equal(t, tpl, compile(t, ast.NewExpression(tpl)))
	}
}

func TestCompilePositionalOrder(t *testing.T) {
	assert.Equal(t, "1 split 2", compile(t, ast.NewExpression("? split ?", 1, 2)))
	assert.Equal(t, "1 split 2 after", compile(t, ast.NewExpression("? split ? after", 1, 2)))

	e := ast.NewExpression("? split ?").Param(1, 2).Param(0, 1)
	assert.Equal(t, "1 split 2", compile(t, e))
}

func TestCompileNamedConsistency(t *testing.T) {
	e := ast.NewExpression(":a split :a").Param(":a", 5)
	assert.Equal(t, "5 split 5", compile(t, e))

	e = ast.NewExpression(":a, ?, :b_2, ?").Param("a", "x").Param("b_2", 3).Param(0, 1).Param(1, 2)
	assert.Equal(t, "'x', 1, 3, 2", compile(t, e))
}

func TestCompileCastIsNotPlaceholder(t *testing.T) {
	e := ast.NewExpression("?::text = :v", "1").Param("v", 2)
	assert.Equal(t, "'1'::text = 2", compile(t, e))
}

func TestCompileNesting(t *testing.T) {
	inner := ast.NewExpression("? + ?", 1, 2)
	for depth := 1; depth <= 3; depth++ {
		t.Run(strings.Repeat("level", depth), func(t *testing.T) {
			innerSQL := compile(t, inner)
			outer := ast.NewExpression("? ?", inner, 1)
			assert.Equal(t, innerSQL+" 1", compile(t, outer))
			inner = outer
		})
	}
}

func TestCompileMissingParameter(t *testing.T) {
	assert.Equal(t, "1 NULL", compile(t, ast.NewExpression("? ?", 1)))
	assert.Equal(t, "1 NULL", compile(t, ast.NewExpression("? :x", 1)))

	var missing []ast.Key
	ctx := newContext()
	ctx.OnMissing = func(k ast.Key) { missing = append(missing, k) }
	_, err := compiler.Compile(ast.NewExpression("? ? :y", 1), ctx)
	require.NoError(t, err)
	assert.Equal(t, []ast.Key{ast.Positional(1), ast.Named("y")}, missing)
}

func TestCompileStrictMissingParameter(t *testing.T) {
	ctx := newContext()
	ctx.Strict = true
	_, err := compiler.Compile(ast.NewExpression("? ?", 1), ctx)
	assert.ErrorIs(t, err, compiler.ErrMissingParameter)
}

func TestCompileBindByReference(t *testing.T) {
	cell := ast.NewCell(1)
	x := 1
	e := ast.NewExpression("? ?").Bind(0, cell).Param(1, x)

	assert.Equal(t, "1 1", compile(t, e))
	cell.Set(2)
	x = 2
	assert.Equal(t, "2 1", compile(t, e))

	cell.Set(nil)
	assert.Equal(t, "NULL 1", compile(t, e))
}

func TestCompileIdempotent(t *testing.T) {
	e := ast.NewExpression("? IN (?) AND :n = ?", ast.NewColumn("t.a"), []any{1, "b"}, ast.NewExpression("?", 3)).Param("n", 4)
	first := compile(t, e)
	assert.Equal(t, first, compile(t, e))
	assert.Equal(t, "<t>.<a> IN (1, 'b') AND 4 = 3", first)
}

func TestCompileLiterals(t *testing.T) {
	ts := time.Date(2009, 11, 19, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, "NULL"},
		{"true", true, "'1'"},
		{"false", false, "'0'"},
		{"int", -12, "-12"},
		{"uint", uint64(math.MaxUint64), "18446744073709551615"},
		{"float", 1.5, "1.5"},
		{"large float", 1e21, "1000000000000000000000"},
		{"small float", 0.000001, "0.000001"},
		{"numeric", ast.NewNumeric(decimal.RequireFromString("2.5"), 3), "2.500"},
		{"string", "it's", "'it''s'"},
		{"binary", []byte("ab"), "X'AB'"},
		{"datetime", ts, "'2009-11-19 10:00:00'"},
		{"datetime layout", ast.NewDateTime(ts, "2006-01-02"), "'2009-11-19'"},
		{"stringer", time.Duration(0), "'0s'"},
		{"list", []any{1, "x", nil}, "1, 'x', NULL"},
		{"nested list", []any{1, []int{2, 3}}, "1, (2, 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compile(t, ast.NewExpression("?", tt.in)))
		})
	}
}

func TestCompileRejectsNonFiniteFloat(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := compiler.Compile(ast.NewExpression("?", f), newContext())
		assert.ErrorIs(t, err, compiler.ErrUnsupportedValue)
	}
}

func TestCompileStickyBuildError(t *testing.T) {
	e := ast.NewExpression("?", make(chan int))
	_, err := compiler.Compile(e, newContext())
	assert.ErrorIs(t, err, compiler.ErrUnsupportedValue)

	_, err = compiler.Compile(make(chan int), newContext())
	assert.ErrorIs(t, err, compiler.ErrUnsupportedValue)
}

func TestCompileLiteralQuoterErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	ctx := compiler.NewContext(`"`, `"`, func(ast.Value) (string, error) { return "", boom })
	_, err := compiler.Compile(ast.NewExpression("?", "x"), ctx)
	assert.Same(t, boom, err)

	ctx.Literal = nil
	_, err = compiler.Compile(ast.NewExpression("?", "x"), ctx)
	assert.ErrorIs(t, err, compiler.ErrNoLiteralQuoter)
}

func TestCompileRecursiveExpression(t *testing.T) {
	e := ast.NewExpression("(?)")
	e.Param(0, e)
	_, err := compiler.Compile(e, newContext())
	assert.ErrorIs(t, err, compiler.ErrRecursiveExpression)
}

func TestCompileSameExpressionTwiceIsNotRecursive(t *testing.T) {
	inner := ast.NewExpression("?", 1)
	assert.Equal(t, "1 = 1", compile(t, ast.NewExpression("? = ?", inner, inner)))
}

type stmt struct{}

func (stmt) StatementType() ast.StatementType { return ast.SelectStatement }

type renderer struct{}

func (renderer) Render(ast.Statement) (*ast.Expression, error) {
	return ast.NewExpression("SELECT ?", 1), nil
}

func TestCompileStatement(t *testing.T) {
	e := ast.NewExpression("? IN (?)", ast.NewColumn("id"), stmt{})

	_, err := compiler.Compile(e, newContext())
	assert.ErrorIs(t, err, compiler.ErrNoStatementRenderer)

	ctx := newContext()
	ctx.Statements = renderer{}
	sql, err := compiler.Compile(e, ctx)
	require.NoError(t, err)
	assert.Equal(t, "<id> IN (SELECT 1)", sql)
}

func TestPrepare(t *testing.T) {
	ctx := newContext()
	ctx.Placeholder = func(n int) string { return "$" + string(rune('0'+n)) }

	e := ast.NewExpression("? = :v AND ? IN (?) AND ? IS ? AND ?",
		ast.NewColumn("a"), ast.NewColumn("b"), []any{1, "x"}, ast.NewColumn("c"), nil, ast.NewExpression("?", true)).
		Param("v", "y")

	sql, args, err := compiler.Prepare(e, ctx)
	require.NoError(t, err)
	assert.Equal(t, "<a> = $1 AND <b> IN ($2, $3) AND <c> IS NULL AND $4", sql)
	assert.Equal(t, []any{"y", int64(1), "x", true}, args)
}

func TestPrepareNamedRepeats(t *testing.T) {
	ctx := newContext()
	ctx.Placeholder = func(int) string { return "?" }

	sql, args, err := compiler.Prepare(ast.NewExpression(":a = :a").Param("a", 5), ctx)
	require.NoError(t, err)
	assert.Equal(t, "? = ?", sql)
	assert.Equal(t, []any{int64(5), int64(5)}, args)
}

func TestPrepareWithoutPlaceholder(t *testing.T) {
	_, _, err := compiler.Prepare(ast.NewExpression("?", 1), newContext())
	assert.ErrorIs(t, err, compiler.ErrNoPlaceholder)
}

func prefixedContext() *compiler.Context {
	ctx := newContext()
	ctx.TablePrefix = "pre_"
	return ctx
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"one part", "one", `<one>`},
		{"two parts", "one.two", `<one>.<two>`},
		{"three parts", "one.two.three", `<one>.<two>.<three>`},
		{"four parts", "one.two.three.four", `<one>.<two>.<three>.<four>`},
		{"slice", []string{"one", "two.three"}, `<one>.<two>.<three>`},
		{"path", ast.Path{"one", "two"}, `<one>.<two>`},
		{
			"nested identifier",
			ast.Identifier{Name: "three", Namespace: ast.Identifier{Name: "two", Namespace: ast.Path{"one"}}},
			`<one>.<two>.<three>`,
		},
		{"table is not prefixed", ast.Table{Name: "t"}, `<t>`},
		{"star", "one.*", `<one>.*`},
		{"empty", "", `<>`},
		{"closing quote doubled", "a>b", `<a>>b>`},
	}

	ctx := prefixedContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.QuoteIdentifier(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteTable(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"one part", "one", `<pre_one>`},
		{"two parts", "one.two", `<one>.<pre_two>`},
		{"four parts", "a.b.c.d", `<a>.<b>.<c>.<pre_d>`},
		{"path", ast.Path{"one", "two"}, `<one>.<pre_two>`},
		{
			"nested namespace is not prefixed",
			ast.Identifier{Name: "t", Namespace: ast.Identifier{Name: "s", Namespace: ast.Path{"db"}}},
			`<db>.<s>.<pre_t>`,
		},
		{"closing quote doubled", "a>b", `<pre_a>>b>`},
	}

	ctx := prefixedContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.QuoteTable(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteColumn(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"bare", "one", `<one>`},
		{"table qualified", "one.two", `<pre_one>.<two>`},
		{"schema qualified", "one.two.three", `<one>.<pre_two>.<three>`},
		{"four parts", "a.b.c.d", `<a>.<b>.<pre_c>.<d>`},
		{"star", "one.two.*", `<one>.<pre_two>.*`},
		{"path", ast.Path{"one", "two"}, `<pre_one>.<two>`},
		{"identifier value", ast.Identifier{Name: "two", Namespace: ast.Path{"one"}}, `<pre_one>.<two>`},
		{
			"table namespace",
			ast.Column{Name: "three", Namespace: ast.Table{Name: "two", Namespace: ast.Path{"one"}}},
			`<one>.<pre_two>.<three>`,
		},
		{
			"identifier namespace",
			ast.Column{Name: "three", Namespace: ast.Identifier{Name: "two", Namespace: ast.Path{"one"}}},
			`<one>.<two>.<three>`,
		},
		{
			"table namespace two deep",
			ast.Column{Name: "c", Namespace: ast.Table{Name: "t", Namespace: ast.Table{Name: "s", Namespace: ast.Path{"db"}}}},
			`<db>.<s>.<pre_t>.<c>`,
		},
		{"empty", "", `<>`},
		{"closing quote doubled", "t.a>b", `<pre_t>.<a>>b>`},
	}

	ctx := prefixedContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.QuoteColumn(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, `NULL`},
		{"int", 5, `5`},
		{"bool", true, `'1'`},
		{"string", "it's", `'it''s'`},
		{"list", []int{1, 2}, `(1, 2)`},
	}

	ctx := newContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.QuoteLiteral(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteRejectsUnsupportedValues(t *testing.T) {
	ctx := newContext()

	_, err := ctx.QuoteIdentifier(42)
	assert.ErrorIs(t, err, compiler.ErrUnsupportedValue)
	_, err = ctx.QuoteTable(3.5)
	assert.ErrorIs(t, err, compiler.ErrUnsupportedValue)
	_, err = ctx.QuoteColumn(true)
	assert.ErrorIs(t, err, compiler.ErrUnsupportedValue)
	_, err = ctx.QuoteLiteral(make(chan int))
	assert.ErrorIs(t, err, compiler.ErrUnsupportedValue)
}
