package ast

import (
	"fmt"
	"strings"
)

// Key addresses a parameter slot: either a positional index or a name
// starting with a colon.
type Key struct {
	Name  string
	Index int
}

// IsNamed reports whether k refers to a named placeholder.
func (k Key) IsNamed() bool { return k.Name != "" }

func (k Key) String() string {
	if k.IsNamed() {
		return k.Name
	}
	return fmt.Sprintf("?%d", k.Index)
}

// Positional returns the key of the i-th "?" placeholder.
func Positional(i int) Key { return Key{Index: i} }

// Named returns the key of a ":name" placeholder. The leading colon is
// added when missing.
func Named(name string) Key {
	if !strings.HasPrefix(name, ":") {
		name = ":" + name
	}
	return Key{Name: name}
}

// Expression is a SQL fragment: a template with "?" and ":name"
// placeholders plus the values that fill them. Parameters may themselves be
// expressions, identifiers or lists, so expressions form a tree that is
// resolved by the compiler.
//
// An Expression is mutable while it is being built and must not be modified
// concurrently. Compiling never modifies it.
type Expression struct {
	template string
	params   map[Key]Value
	order    []Key
	next     int
	err      error
}

func (*Expression) value() {}

// NewExpression returns an expression whose params fill positions 0..n-1.
func NewExpression(template string, params ...any) *Expression {
	e := &Expression{template: template}
	for _, p := range params {
		e.Param(e.next, p)
	}
	return e
}

// Raw returns a parameterless expression. Its text is emitted verbatim.
func Raw(sql string) *Expression {
	return &Expression{template: sql}
}

// Expression returns e itself so that expressions satisfy Node.
func (e *Expression) Expression() *Expression { return e }

// Template returns the template text.
func (e *Expression) Template() string { return e.template }

// Count returns the number of parameters set, positional and named.
func (e *Expression) Count() int { return len(e.params) }

// Keys returns parameter keys in the order they were first set.
func (e *Expression) Keys() []Key {
	return append([]Key(nil), e.order...)
}

// Err returns the first error recorded while building the expression.
func (e *Expression) Err() error { return e.err }

// Fail records err unless an earlier error is already recorded.
func (e *Expression) Fail(err error) *Expression {
	if e.err == nil && err != nil {
		e.err = err
	}
	return e
}

// Lookup returns the value stored under k.
func (e *Expression) Lookup(k Key) (Value, bool) {
	v, ok := e.params[k]
	return v, ok
}

// Param stores a snapshot of v under key, which is an int position, a
// string name, or a Key.
func (e *Expression) Param(key any, v any) *Expression {
	k, err := toKey(key)
	if err != nil {
		return e.Fail(err)
	}
	val, err := ValueOf(v)
	if err != nil {
		return e.Fail(fmt.Errorf("parameter %s: %w", k, err))
	}
	e.set(k, val)
	return e
}

// Parameters stores several named parameters.
func (e *Expression) Parameters(params map[string]any) *Expression {
	for name, v := range params {
		e.Param(name, v)
	}
	return e
}

// Bind stores a live reference under key. The cell is read each time the
// expression is compiled.
func (e *Expression) Bind(key any, cell *Cell) *Expression {
	k, err := toKey(key)
	if err != nil {
		return e.Fail(err)
	}
	if cell == nil {
		cell = NewCell(nil)
	}
	e.set(k, cell)
	return e
}

// Append adds text to the template and stores params at the following
// positional indexes.
func (e *Expression) Append(text string, params ...any) *Expression {
	e.template += text
	for _, p := range params {
		e.Param(e.next, p)
	}
	return e
}

// AppendValues is Append for values that are already converted.
func (e *Expression) AppendValues(text string, params ...Value) *Expression {
	e.template += text
	for _, p := range params {
		e.set(Positional(e.next), p)
	}
	return e
}

func (e *Expression) set(k Key, v Value) {
	if e.params == nil {
		e.params = make(map[Key]Value)
	}
	if _, ok := e.params[k]; !ok {
		e.order = append(e.order, k)
	}
	e.params[k] = v
	if !k.IsNamed() && k.Index >= e.next {
		e.next = k.Index + 1
	}
}

func toKey(key any) (Key, error) {
	switch k := key.(type) {
	case Key:
		if k.IsNamed() {
			return Named(k.Name), nil
		}
		return k, nil
	case int:
		if k < 0 {
			return Key{}, fmt.Errorf("negative parameter position %d", k)
		}
		return Positional(k), nil
	case string:
		if k == "" || k == ":" {
			return Key{}, fmt.Errorf("empty parameter name")
		}
		return Named(k), nil
	}
	return Key{}, fmt.Errorf("parameter key must be int or string, got %T", key)
}

// String returns the template; use a compiler to render parameters.
func (e *Expression) String() string { return e.template }
