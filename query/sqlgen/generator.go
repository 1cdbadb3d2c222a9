package sqlgen

import (
	"github.com/satishbabariya/go-dbal/query/ast"
	"github.com/satishbabariya/go-dbal/query/compiler"
)

// Option configures a Generator.
type Option func(*Generator)

// WithTablePrefix prepends prefix to every table name.
func WithTablePrefix(prefix string) Option {
	return func(g *Generator) { g.prefix = prefix }
}

// WithStrict makes placeholders without a value an error instead of NULL.
func WithStrict(strict bool) Option {
	return func(g *Generator) { g.strict = strict }
}

// WithMissingHook registers a callback for placeholders without a value.
func WithMissingHook(fn func(ast.Key)) Option {
	return func(g *Generator) { g.onMissing = fn }
}

// Generator renders statements for one dialect and compiles them.
// It holds no mutable state and may be shared between goroutines.
type Generator struct {
	dialect   Dialect
	prefix    string
	strict    bool
	onMissing func(ast.Key)
}

var _ compiler.StatementRenderer = (*Generator)(nil)

// New returns a generator for d.
func New(d Dialect, opts ...Option) *Generator {
	g := &Generator{dialect: d}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGenerator returns a generator for a provider name.
func NewGenerator(provider string, opts ...Option) (*Generator, error) {
	d, err := NewDialect(provider)
	if err != nil {
		return nil, err
	}
	return New(d, opts...), nil
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() Dialect { return g.dialect }

// TablePrefix returns the configured table prefix.
func (g *Generator) TablePrefix() string { return g.prefix }

// Context returns a compile context for the dialect. Statements nested in
// expressions are rendered by g.
func (g *Generator) Context() *compiler.Context {
	open, close := g.dialect.Quotes()
	ctx := compiler.NewContext(open, close, g.dialect.QuoteLiteral)
	ctx.TablePrefix = g.prefix
	ctx.Placeholder = g.dialect.Placeholder
	ctx.Statements = g
	ctx.Strict = g.strict
	ctx.OnMissing = g.onMissing
	return ctx
}

// Compile resolves node with every value inlined.
func (g *Generator) Compile(node any) (string, error) {
	return compiler.Compile(node, g.Context())
}

// Prepare resolves node with driver placeholders. Schema statements cannot
// take parameters on most databases, so they are always inlined.
func (g *Generator) Prepare(node any) (string, []any, error) {
	if stmt, ok := node.(ast.Statement); ok && stmt.StatementType() == ast.DDLStatement {
		sql, err := g.Compile(node)
		return sql, nil, err
	}
	return compiler.Prepare(node, g.Context())
}
