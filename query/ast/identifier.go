package ast

import "strings"

// Namespace is the enclosing scope of an identifier. It is one of Path,
// Identifier, Column or Table; nil means the identifier is unqualified.
type Namespace interface {
	namespace()
}

// Path is a raw namespace given as separate parts, e.g. {"schema", "table"}.
// When a Column is qualified by a Path the rightmost part is treated as a
// table name.
type Path []string

func (Path) namespace() {}

// ParsePath splits a dotted name into its parts.
func ParsePath(s string) Path {
	return Path(strings.Split(s, "."))
}

// Identifier is a possibly qualified name of a database object. Name is
// always the rightmost component.
type Identifier struct {
	Name      string
	Namespace Namespace
}

// Column is an identifier whose namespace is resolved as a table.
type Column Identifier

// Table is an identifier whose own name receives the table prefix.
type Table Identifier

func (Identifier) namespace() {}
func (Column) namespace()     {}
func (Table) namespace()      {}

func (Identifier) value() {}
func (Column) value()     {}
func (Table) value()      {}

// NewIdentifier builds an identifier from dotted parts. The last part becomes
// the name; the others become a Path namespace.
func NewIdentifier(parts ...string) Identifier {
	name, ns := split(parts)
	return Identifier{Name: name, Namespace: ns}
}

// NewColumn builds a column reference from dotted parts.
func NewColumn(parts ...string) Column {
	name, ns := split(parts)
	return Column{Name: name, Namespace: ns}
}

// NewTable builds a table reference from dotted parts.
func NewTable(parts ...string) Table {
	name, ns := split(parts)
	return Table{Name: name, Namespace: ns}
}

func split(parts []string) (string, Namespace) {
	var all []string
	for _, p := range parts {
		all = append(all, strings.Split(p, ".")...)
	}
	if len(all) == 0 {
		return "", nil
	}
	name := all[len(all)-1]
	if len(all) == 1 {
		return name, nil
	}
	return name, Path(all[:len(all)-1])
}

// WithNamespace returns a copy of i qualified by ns.
func (i Identifier) WithNamespace(ns Namespace) Identifier {
	i.Namespace = ns
	return i
}

// WithNamespace returns a copy of c qualified by ns.
func (c Column) WithNamespace(ns Namespace) Column {
	c.Namespace = ns
	return c
}

// WithNamespace returns a copy of t qualified by ns.
func (t Table) WithNamespace(ns Namespace) Table {
	t.Namespace = ns
	return t
}

// Parts flattens the identifier into its name components, outermost first.
func (i Identifier) Parts() []string {
	return append(namespaceParts(i.Namespace), i.Name)
}

// Parts flattens the column into its name components, outermost first.
func (c Column) Parts() []string { return Identifier(c).Parts() }

// Parts flattens the table into its name components, outermost first.
func (t Table) Parts() []string { return Identifier(t).Parts() }

// String joins the unquoted parts with dots. It is for diagnostics only.
func (i Identifier) String() string { return strings.Join(i.Parts(), ".") }

// String joins the unquoted parts with dots.
func (c Column) String() string { return Identifier(c).String() }

// String joins the unquoted parts with dots.
func (t Table) String() string { return Identifier(t).String() }

func namespaceParts(ns Namespace) []string {
	switch ns := ns.(type) {
	case nil:
		return nil
	case Path:
		return append([]string(nil), ns...)
	case Identifier:
		return ns.Parts()
	case Column:
		return ns.Parts()
	case Table:
		return ns.Parts()
	}
	return nil
}

// ToColumn converts raw strings and string slices to a Column. Values that
// are already identifiers or expressions are returned unchanged; anything
// else goes through ValueOf.
func ToColumn(v any) (Value, error) {
	switch v := v.(type) {
	case string:
		return NewColumn(v), nil
	case []string:
		return NewColumn(v...), nil
	}
	return ValueOf(v)
}

// ToTable converts raw strings and string slices to a Table.
func ToTable(v any) (Value, error) {
	switch v := v.(type) {
	case string:
		return NewTable(v), nil
	case []string:
		return NewTable(v...), nil
	}
	return ValueOf(v)
}

// ToIdentifier converts raw strings and string slices to an Identifier.
func ToIdentifier(v any) (Value, error) {
	switch v := v.(type) {
	case string:
		return NewIdentifier(v), nil
	case []string:
		return NewIdentifier(v...), nil
	}
	return ValueOf(v)
}
