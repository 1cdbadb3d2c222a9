package ast_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/go-dbal/query/ast"
)

type stringer struct{ s string }

func (s stringer) String() string { return s.s }

type fakeStatement struct{}

func (fakeStatement) StatementType() ast.StatementType { return ast.SelectStatement }

func TestNewIdentifierSplitsParts(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  ast.Identifier
	}{
		{"single", []string{"one"}, ast.Identifier{Name: "one"}},
		{"dotted", []string{"one.two"}, ast.Identifier{Name: "two", Namespace: ast.Path{"one"}}},
		{"parts", []string{"one", "two", "three"}, ast.Identifier{Name: "three", Namespace: ast.Path{"one", "two"}}},
		{"mixed", []string{"one.two", "three"}, ast.Identifier{Name: "three", Namespace: ast.Path{"one", "two"}}},
		{"empty", nil, ast.Identifier{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.NewIdentifier(tt.parts...))
		})
	}
}

func TestIdentifierParts(t *testing.T) {
	inner := ast.NewIdentifier("db.schema")
	id := ast.Identifier{Name: "col", Namespace: ast.Table{Name: "users", Namespace: inner}}

	assert.Equal(t, []string{"db", "schema", "users", "col"}, id.Parts())
	assert.Equal(t, "db.schema.users.col", id.String())
	assert.Equal(t, "users", ast.NewTable("users").String())
}

func TestWithNamespaceCopies(t *testing.T) {
	c := ast.NewColumn("id")
	qualified := c.WithNamespace(ast.NewTable("users"))

	assert.Nil(t, c.Namespace)
	assert.Equal(t, ast.NewTable("users"), qualified.Namespace)
}

func TestToColumnAndTable(t *testing.T) {
	c, err := ast.ToColumn("u.id")
	require.NoError(t, err)
	assert.Equal(t, ast.NewColumn("u", "id"), c)

	tb, err := ast.ToTable([]string{"public", "users"})
	require.NoError(t, err)
	assert.Equal(t, ast.NewTable("public.users"), tb)

	id, err := ast.ToIdentifier("x")
	require.NoError(t, err)
	assert.Equal(t, ast.Identifier{Name: "x"}, id)

	v, err := ast.ToColumn(5)
	require.NoError(t, err)
	assert.Equal(t, ast.Int(5), v)
}

func TestValueOf(t *testing.T) {
	now := time.Date(2009, 11, 19, 10, 30, 0, 0, time.UTC)
	n := 7
	var nilPtr *int
	expr := ast.NewExpression("1")

	tests := []struct {
		name string
		in   any
		want ast.Value
	}{
		{"nil", nil, ast.Null{}},
		{"bool", true, ast.Bool(true)},
		{"int", 42, ast.Int(42)},
		{"int8", int8(-3), ast.Int(-3)},
		{"uint", uint16(9), ast.Uint(9)},
		{"float", 1.5, ast.Float(1.5)},
		{"string", "x", ast.String("x")},
		{"bytes", []byte("ab"), ast.Binary("ab")},
		{"time", now, ast.DateTime{Time: now}},
		{"decimal", decimal.RequireFromString("1.250"), ast.Numeric{Value: decimal.RequireFromString("1.250"), Scale: 3}},
		{"strings", []string{"a", "b"}, ast.List{ast.String("a"), ast.String("b")}},
		{"anys", []any{1, "z", nil}, ast.List{ast.Int(1), ast.String("z"), ast.Null{}}},
		{"ints", []int{1, 2}, ast.List{ast.Int(1), ast.Int(2)}},
		{"array", [2]bool{true, false}, ast.List{ast.Bool(true), ast.Bool(false)}},
		{"pointer", &n, ast.Int(7)},
		{"nil pointer", nilPtr, ast.Null{}},
		{"stringer", stringer{"s"}, ast.String("s")},
		{"expression", expr, expr},
		{"value", ast.NewColumn("id"), ast.NewColumn("id")},
		{"statement", fakeStatement{}, ast.Stmt{Statement: fakeStatement{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ast.ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueOfUnsupported(t *testing.T) {
	for _, in := range []any{make(chan int), func() {}, map[string]int{}, struct{}{}, []any{1, make(chan int)}} {
		_, err := ast.ValueOf(in)
		assert.ErrorIs(t, err, ast.ErrUnsupportedValue, "%T", in)
	}
}

func TestNumeric(t *testing.T) {
	n, err := ast.ParseNumeric("12.50")
	require.NoError(t, err)
	assert.Equal(t, int32(2), n.Scale)
	assert.Equal(t, "12.50", n.String())

	assert.Equal(t, "3.1400", ast.NewNumeric(decimal.RequireFromString("3.14"), 4).String())

	_, err = ast.ParseNumeric("abc")
	assert.Error(t, err)
}

func TestDateTimeFormat(t *testing.T) {
	ts := time.Date(2009, 11, 19, 1, 2, 3, 0, time.UTC)
	assert.Equal(t, "2009-11-19 01:02:03", ast.NewDateTime(ts).Format())
	assert.Equal(t, "2009-11-19", ast.NewDateTime(ts, "2006-01-02").Format())
}

func TestExpressionParameters(t *testing.T) {
	e := ast.NewExpression("? = :name", 1).Param("name", "x")

	assert.Equal(t, 2, e.Count())
	assert.Equal(t, []ast.Key{ast.Positional(0), ast.Named("name")}, e.Keys())

	v, ok := e.Lookup(ast.Named(":name"))
	require.True(t, ok)
	assert.Equal(t, ast.String("x"), v)

	e.Append(" AND ?", 2)
	v, ok = e.Lookup(ast.Positional(1))
	require.True(t, ok)
	assert.Equal(t, ast.Int(2), v)
	assert.Equal(t, "? = :name AND ?", e.Template())
}

func TestExpressionParametersMap(t *testing.T) {
	e := ast.NewExpression(":a :b").Parameters(map[string]any{"a": 1, ":b": 2})
	assert.Equal(t, 2, e.Count())
	_, ok := e.Lookup(ast.Named("b"))
	assert.True(t, ok)
}

func TestExpressionStickyError(t *testing.T) {
	first := errors.New("first")
	e := ast.NewExpression("?").Fail(first).Fail(errors.New("second"))
	assert.Same(t, first, e.Err())

	e = ast.NewExpression("?", make(chan int))
	assert.ErrorIs(t, e.Err(), ast.ErrUnsupportedValue)

	e = ast.NewExpression("?").Param(-1, 1)
	assert.Error(t, e.Err())

	e = ast.NewExpression("?").Param(1.5, 1)
	assert.Error(t, e.Err())
}

func TestCell(t *testing.T) {
	c := ast.NewCell(1)
	e := ast.NewExpression("?").Bind(0, c)
	c.Set(2)

	v, ok := e.Lookup(ast.Positional(0))
	require.True(t, ok)
	assert.Same(t, c, v)
	assert.Equal(t, 2, c.Get())
}

func TestRaw(t *testing.T) {
	r := ast.Raw("NOW()")
	assert.Equal(t, "NOW()", r.Template())
	assert.Zero(t, r.Count())
	assert.Same(t, r, r.Expression())
}
