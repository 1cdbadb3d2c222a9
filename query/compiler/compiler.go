// Package compiler resolves expression trees into dialect-specific SQL.
package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/satishbabariya/go-dbal/internal/debug"
	"github.com/satishbabariya/go-dbal/query/ast"
)

// Compile resolves node into a single SQL string with every parameter
// inlined as an escaped literal or quoted identifier.
//
// node is an ast.Value, a builder exposing Expression(), or an
// ast.Statement. Compiling never modifies the tree, so the same tree may be
// compiled any number of times; only values held in bound cells can change
// the result between calls.
func Compile(node any, ctx *Context) (string, error) {
	v, err := ast.ValueOf(node)
	if err != nil {
		return "", err
	}
	return newState(ctx, false).top(v)
}

// Prepare resolves node for a driver with native placeholders. Scalar
// values are replaced by ctx.Placeholder and returned as driver arguments in
// placeholder order; identifiers, sub-expressions and NULL are inlined.
func Prepare(node any, ctx *Context) (string, []any, error) {
	if ctx.Placeholder == nil {
		return "", nil, ErrNoPlaceholder
	}
	v, err := ast.ValueOf(node)
	if err != nil {
		return "", nil, err
	}
	s := newState(ctx, true)
	sql, err := s.top(v)
	if err != nil {
		return "", nil, err
	}
	return sql, s.args, nil
}

type state struct {
	ctx     *Context
	prepare bool
	args    []any
	active  map[*ast.Expression]bool
}

func newState(ctx *Context, prepare bool) *state {
	return &state{ctx: ctx, prepare: prepare}
}

// top renders a value sitting directly in a placeholder. Lists are not
// parenthesized here; the template provides the parentheses.
func (s *state) top(v ast.Value) (string, error) {
	return s.quote(v, false)
}

func (s *state) quote(v ast.Value, nested bool) (string, error) {
	switch v := v.(type) {
	case nil, ast.Null:
		return "NULL", nil
	case *ast.Expression:
		return s.expression(v)
	case *ast.Cell:
		if v == nil {
			return "NULL", nil
		}
		held, err := ast.ValueOf(v.Get())
		if err != nil {
			return "", err
		}
		return s.quote(held, nested)
	case ast.Stmt:
		return s.statement(v.Statement)
	case ast.Identifier:
		return s.ctx.identifier(v), nil
	case ast.Column:
		return s.ctx.column(v), nil
	case ast.Table:
		return s.ctx.table(v), nil
	case ast.List:
		parts := make([]string, len(v))
		for i, item := range v {
			text, err := s.quote(item, true)
			if err != nil {
				return "", err
			}
			parts[i] = text
		}
		joined := strings.Join(parts, ", ")
		if nested {
			return "(" + joined + ")", nil
		}
		return joined, nil
	}
	if s.prepare {
		return s.bind(v)
	}
	return s.literal(v)
}

// literal renders a scalar value inline.
func (s *state) literal(v ast.Value) (string, error) {
	switch v := v.(type) {
	case ast.Bool:
		if v {
			return "'1'", nil
		}
		return "'0'", nil
	case ast.Int:
		return strconv.FormatInt(int64(v), 10), nil
	case ast.Uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case ast.Float:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case ast.Numeric:
		return v.String(), nil
	case ast.DateTime:
		return s.escape(ast.String(v.Format()))
	case ast.String, ast.Binary:
		return s.escape(v)
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func (s *state) escape(v ast.Value) (string, error) {
	if s.ctx.Literal == nil {
		return "", ErrNoLiteralQuoter
	}
	return s.ctx.Literal(v)
}

// bind appends a scalar to the driver arguments and returns its placeholder.
func (s *state) bind(v ast.Value) (string, error) {
	var arg any
	switch v := v.(type) {
	case ast.Bool:
		arg = bool(v)
	case ast.Int:
		arg = int64(v)
	case ast.Uint:
		arg = uint64(v)
	case ast.Float:
		arg = float64(v)
	case ast.Numeric:
		arg = v.String()
	case ast.DateTime:
		arg = v.Time
	case ast.String:
		arg = string(v)
	case ast.Binary:
		arg = []byte(v)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	s.args = append(s.args, arg)
	return s.ctx.Placeholder(len(s.args)), nil
}

func (s *state) statement(stmt ast.Statement) (string, error) {
	if s.ctx.Statements == nil {
		return "", ErrNoStatementRenderer
	}
	e, err := s.ctx.Statements.Render(stmt)
	if err != nil {
		return "", err
	}
	return s.expression(e)
}

// expression substitutes the placeholders of e from left to right.
func (s *state) expression(e *ast.Expression) (string, error) {
	if e == nil {
		return "NULL", nil
	}
	if err := e.Err(); err != nil {
		return "", err
	}
	tpl := e.Template()
	if e.Count() == 0 {
		return tpl, nil
	}

	if s.active[e] {
		return "", ErrRecursiveExpression
	}
	if s.active == nil {
		s.active = make(map[*ast.Expression]bool)
	}
	s.active[e] = true
	defer delete(s.active, e)

	var (
		b     strings.Builder
		named map[string]string
		pos   int
		last  int
	)
	b.Grow(len(tpl))

	for i := 0; i < len(tpl); i++ {
		switch tpl[i] {
		case '?':
			b.WriteString(tpl[last:i])
			text, err := s.placeholder(e, ast.Positional(pos))
			if err != nil {
				return "", err
			}
			b.WriteString(text)
			pos++
			last = i + 1

		case ':':
			// "::" is a cast, not a placeholder.
			if i+1 < len(tpl) && tpl[i+1] == ':' {
				i++
				continue
			}
			j := i + 1
			for j < len(tpl) && isNameByte(tpl[j]) {
				j++
			}
			if j == i+1 {
				continue
			}
			name := tpl[i:j]
			b.WriteString(tpl[last:i])

			text, ok := named[name]
			if !ok {
				var err error
				text, err = s.placeholder(e, ast.Named(name))
				if err != nil {
					return "", err
				}
				// Driver placeholders may need one argument per occurrence.
				if !s.prepare {
					if named == nil {
						named = make(map[string]string)
					}
					named[name] = text
				}
			}
			b.WriteString(text)
			last = j
			i = j - 1
		}
	}
	b.WriteString(tpl[last:])
	return b.String(), nil
}

func (s *state) placeholder(e *ast.Expression, k ast.Key) (string, error) {
	v, ok := e.Lookup(k)
	if !ok {
		return s.missing(k)
	}
	return s.top(v)
}

func (s *state) missing(k ast.Key) (string, error) {
	if s.ctx.Strict {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, k)
	}
	debug.Warn("query parameter has no value, using NULL", "key", k.String())
	if s.ctx.OnMissing != nil {
		s.ctx.OnMissing(k)
	}
	return "NULL", nil
}

func isNameByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
