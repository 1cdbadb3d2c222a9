package ast

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedValue is returned when a Go value has no SQL representation.
var ErrUnsupportedValue = errors.New("unsupported parameter value")

// Value is anything that may occupy a parameter slot. The set of
// implementations is closed: scalars, identifiers, expressions, lists,
// bind cells and statements.
type Value interface {
	value()
}

type (
	// Null is SQL NULL.
	Null struct{}
	// Bool is rendered as a quoted '1' or '0'.
	Bool bool
	// Int is a signed integer.
	Int int64
	// Uint is an unsigned integer.
	Uint uint64
	// Float is rendered in fixed-point notation.
	Float float64
	// String is escaped by the dialect.
	String string
	// Binary is a byte string escaped by the dialect.
	Binary []byte
	// List is a sequence of values, rendered comma separated.
	List []Value
)

func (Null) value()   {}
func (Bool) value()   {}
func (Int) value()    {}
func (Uint) value()   {}
func (Float) value()  {}
func (String) value() {}
func (Binary) value() {}
func (List) value()   {}

// DefaultDateTimeLayout is used when a DateTime has no layout.
const DefaultDateTimeLayout = "2006-01-02 15:04:05"

// DateTime is a point in time rendered as a string literal.
type DateTime struct {
	Time   time.Time
	Layout string
}

func (DateTime) value() {}

// NewDateTime wraps t with an optional layout.
func NewDateTime(t time.Time, layout ...string) DateTime {
	d := DateTime{Time: t}
	if len(layout) > 0 {
		d.Layout = layout[0]
	}
	return d
}

// Format renders the time with its layout.
func (d DateTime) Format() string {
	layout := d.Layout
	if layout == "" {
		layout = DefaultDateTimeLayout
	}
	return d.Time.Format(layout)
}

// Numeric is an exact decimal rendered with a fixed number of digits after
// the point.
type Numeric struct {
	Value decimal.Decimal
	Scale int32
}

func (Numeric) value() {}

// NewNumeric wraps d with the given scale.
func NewNumeric(d decimal.Decimal, scale int32) Numeric {
	return Numeric{Value: d, Scale: scale}
}

// ParseNumeric parses s as an exact decimal and keeps its own scale.
func ParseNumeric(s string) (Numeric, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Numeric{}, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return Numeric{Value: d, Scale: scaleOf(d)}, nil
}

// String renders the number with exactly Scale fractional digits.
func (n Numeric) String() string {
	return n.Value.StringFixed(n.Scale)
}

func scaleOf(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

// Cell is a live parameter slot. An expression bound to a cell sees the
// value the cell holds when it is compiled, not when it was bound.
//
// Cells are not synchronized.
type Cell struct {
	v any
}

func (*Cell) value() {}

// NewCell returns a cell holding v.
func NewCell(v any) *Cell {
	return &Cell{v: v}
}

// Set replaces the held value.
func (c *Cell) Set(v any) {
	c.v = v
}

// Get returns the held value.
func (c *Cell) Get() any {
	return c.v
}

// StatementType names a kind of SQL command.
type StatementType string

const (
	SelectStatement   StatementType = "SELECT"
	InsertStatement   StatementType = "INSERT"
	UpdateStatement   StatementType = "UPDATE"
	DeleteStatement   StatementType = "DELETE"
	DDLStatement      StatementType = "DDL"
	CompoundStatement StatementType = "COMPOUND"
)

// Statement is a complete SQL command whose text depends on the dialect it
// is compiled for. Statements are rendered into an Expression by the
// compile context.
type Statement interface {
	StatementType() StatementType
}

// Stmt carries a Statement through a parameter slot.
type Stmt struct {
	Statement Statement
}

func (Stmt) value() {}

// Node is implemented by builders that accumulate into an expression.
type Node interface {
	Expression() *Expression
}

// ValueOf converts a Go value into a Value.
func ValueOf(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case Node:
		return v.Expression(), nil
	case Statement:
		return Stmt{Statement: v}, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int(v), nil
	case int16:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint:
		return Uint(v), nil
	case uint8:
		return Uint(v), nil
	case uint16:
		return Uint(v), nil
	case uint32:
		return Uint(v), nil
	case uint64:
		return Uint(v), nil
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case []byte:
		return Binary(v), nil
	case time.Time:
		return DateTime{Time: v}, nil
	case decimal.Decimal:
		return Numeric{Value: v, Scale: scaleOf(v)}, nil
	case []any:
		return listOf(len(v), func(i int) any { return v[i] })
	case []string:
		return listOf(len(v), func(i int) any { return v[i] })
	case fmt.Stringer:
		return String(v.String()), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return listOf(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}, nil
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func listOf(n int, at func(int) any) (Value, error) {
	list := make(List, 0, n)
	for i := 0; i < n; i++ {
		item, err := ValueOf(at(i))
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, nil
}
