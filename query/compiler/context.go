package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// LiteralQuoter escapes a string or binary value for one database. It
// receives only ast.String and ast.Binary values.
type LiteralQuoter func(v ast.Value) (string, error)

// StatementRenderer turns a dialect-independent statement into an
// expression for one database.
type StatementRenderer interface {
	Render(stmt ast.Statement) (*ast.Expression, error)
}

// Context bundles everything that differs between databases at compile
// time. It is read-only during compilation and may be shared between
// goroutines.
type Context struct {
	// TablePrefix is prepended to every table name.
	TablePrefix string
	// OpenQuote and CloseQuote surround identifier parts.
	OpenQuote  string
	CloseQuote string
	// Literal escapes strings and binary values.
	Literal LiteralQuoter
	// Placeholder formats the n-th (1-based) driver placeholder for Prepare.
	Placeholder func(n int) string
	// Statements renders statement values.
	Statements StatementRenderer
	// Strict turns missing parameters into ErrMissingParameter.
	Strict bool
	// OnMissing is called for every placeholder without a value.
	OnMissing func(k ast.Key)
}

// NewContext returns a context using the given identifier quotes and
// literal escaper.
func NewContext(open, close string, literal LiteralQuoter) *Context {
	return &Context{
		OpenQuote:  open,
		CloseQuote: close,
		Literal:    literal,
	}
}

// QuoteIdentifier quotes a possibly qualified name without applying the
// table prefix. v is a dotted string, a []string, an ast.Path or any
// identifier type.
func (c *Context) QuoteIdentifier(v any) (string, error) {
	id, err := identifierOf(v)
	if err != nil {
		return "", err
	}
	return c.identifier(id), nil
}

// QuoteTable quotes a table name, prefixing its own name.
func (c *Context) QuoteTable(v any) (string, error) {
	id, err := identifierOf(v)
	if err != nil {
		return "", err
	}
	return c.table(ast.Table(id)), nil
}

// QuoteColumn quotes a column name. A raw or Table namespace is quoted as a
// table; an Identifier namespace is quoted as is.
func (c *Context) QuoteColumn(v any) (string, error) {
	switch v := v.(type) {
	case ast.Column:
		return c.column(v), nil
	case ast.Identifier:
		return c.column(ast.Column(v)), nil
	case ast.Table:
		return c.column(ast.Column(v)), nil
	}
	id, err := identifierOf(v)
	if err != nil {
		return "", err
	}
	return c.column(ast.Column(id)), nil
}

// QuoteLiteral renders a Go value as a SQL literal. Lists are wrapped in
// parentheses.
func (c *Context) QuoteLiteral(v any) (string, error) {
	val, err := ast.ValueOf(v)
	if err != nil {
		return "", err
	}
	s := newState(c, false)
	return s.quote(val, true)
}

func identifierOf(v any) (ast.Identifier, error) {
	switch v := v.(type) {
	case string:
		return ast.NewIdentifier(v), nil
	case []string:
		return ast.NewIdentifier(v...), nil
	case ast.Path:
		return ast.NewIdentifier(v...), nil
	case ast.Identifier:
		return v, nil
	case ast.Column:
		return ast.Identifier(v), nil
	case ast.Table:
		return ast.Identifier(v), nil
	}
	return ast.Identifier{}, fmt.Errorf("%w: %T is not an identifier", ErrUnsupportedValue, v)
}

func (c *Context) part(name string) string {
	if name == "*" {
		return name
	}
	if c.CloseQuote != "" {
		name = strings.ReplaceAll(name, c.CloseQuote, c.CloseQuote+c.CloseQuote)
	}
	return c.OpenQuote + name + c.CloseQuote
}

func (c *Context) identifier(id ast.Identifier) string {
	return c.namespace(id.Namespace) + c.part(id.Name)
}

func (c *Context) table(t ast.Table) string {
	return c.namespace(t.Namespace) + c.part(c.TablePrefix+t.Name)
}

func (c *Context) column(col ast.Column) string {
	var prefix string
	switch ns := col.Namespace.(type) {
	case nil:
	case ast.Table:
		prefix = c.table(ns) + "."
	case ast.Path:
		if n := len(ns); n > 0 {
			t := ast.Table{Name: ns[n-1]}
			if n > 1 {
				t.Namespace = ns[:n-1]
			}
			prefix = c.table(t) + "."
		}
	default:
		prefix = c.namespace(ns)
	}
	return prefix + c.part(col.Name)
}

// namespace renders ns followed by a dot, or nothing when ns is empty.
// Nested namespaces never receive the table prefix.
func (c *Context) namespace(ns ast.Namespace) string {
	switch ns := ns.(type) {
	case ast.Path:
		if len(ns) == 0 {
			return ""
		}
		parts := make([]string, len(ns))
		for i, p := range ns {
			parts[i] = c.part(p)
		}
		return strings.Join(parts, ".") + "."
	case ast.Identifier:
		return c.identifier(ns) + "."
	case ast.Column:
		return c.identifier(ast.Identifier(ns)) + "."
	case ast.Table:
		return c.identifier(ast.Identifier(ns)) + "."
	}
	return ""
}
