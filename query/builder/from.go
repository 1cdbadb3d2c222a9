package builder

import (
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// From builds a FROM clause: table references, joins and their conditions.
// Like Conditions it writes nesting straight into its template.
type From struct {
	expr  *ast.Expression
	empty bool
}

// NewFrom returns an empty table reference list.
func NewFrom() *From {
	return &From{expr: ast.NewExpression(""), empty: true}
}

// FromTable starts a reference list with one table.
func FromTable(table any, alias string) *From {
	return NewFrom().Add(table, alias)
}

// Expression returns the accumulated expression.
func (f *From) Expression() *ast.Expression { return f.expr }

// Err returns the first error recorded while building.
func (f *From) Err() error {
	if f == nil {
		return nil
	}
	return f.expr.Err()
}

// IsEmpty reports whether no table has been added.
func (f *From) IsEmpty() bool { return f.expr.Template() == "" }

// Add appends a comma separated table reference. Strings are table names;
// statements are parenthesized as derived tables.
func (f *From) Add(table any, alias string) *From {
	return f.add(", ", table, alias)
}

// Join appends "<TYPE> JOIN table". An empty joinType gives a plain JOIN.
func (f *From) Join(table any, alias string, joinType string) *From {
	glue, ok := f.joinGlue(joinType)
	if !ok {
		return f
	}
	return f.add(glue, table, alias)
}

// On appends the join condition.
func (f *From) On(c *Conditions) *From {
	if c == nil {
		return f
	}
	f.expr.Append(" ON ?", c)
	return f
}

// OnColumns appends a join condition comparing two columns.
func (f *From) OnColumns(left any, operator string, right any) *From {
	return f.On(NewConditions().AndColumn(left, operator, right))
}

// Using appends "USING (columns)".
func (f *From) Using(columns ...any) *From {
	cols, err := columnsOf(columns)
	if err != nil {
		f.expr.Fail(err)
		return f
	}
	f.expr.AppendValues(" USING (?)", ast.List(cols))
	return f
}

// Open starts a parenthesized group of references.
func (f *From) Open() *From {
	if !f.empty {
		f.expr.Append(", ")
	}
	f.expr.Append("(")
	f.empty = true
	return f
}

// OpenJoin starts a parenthesized group joined to what precedes it.
func (f *From) OpenJoin(joinType string) *From {
	glue, ok := f.joinGlue(joinType)
	if !ok {
		return f
	}
	if !f.empty {
		f.expr.Append(glue)
	}
	f.expr.Append("(")
	f.empty = true
	return f
}

// Close ends the innermost group.
func (f *From) Close() *From {
	f.expr.Append(")")
	f.empty = false
	return f
}

func (f *From) joinGlue(joinType string) (string, bool) {
	kw, err := joinKeyword(joinType)
	if err != nil {
		f.expr.Fail(err)
		return "", false
	}
	kw = strings.TrimSuffix(kw, " JOIN")
	if kw == "" || kw == "JOIN" {
		return " JOIN ", true
	}
	return " " + kw + " JOIN ", true
}

func (f *From) add(glue string, table any, alias string) *From {
	v, err := ast.ToTable(table)
	if err != nil {
		f.expr.Fail(err)
		return f
	}
	if !f.empty {
		f.expr.Append(glue)
	}
	f.empty = false

	if isSubquery(v) {
		f.expr.AppendValues("(?)", v)
	} else {
		f.expr.AppendValues("?", v)
	}
	if alias != "" {
		f.expr.AppendValues(" AS ?", ast.Identifier{Name: alias})
	}
	return f
}
