package builder

import (
	"fmt"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// InsertClauses holds the parts of an INSERT statement. Either Rows or
// Query is set.
type InsertClauses struct {
	Table     ast.Value
	Columns   []ast.Value
	Rows      [][]ast.Value
	Query     ast.Value
	Returning []ast.Value
}

// Insert builds an INSERT statement.
type Insert struct {
	Clauses InsertClauses
	err     error
}

// NewInsert starts an INSERT into table for the named columns.
func NewInsert(table any, columns ...string) *Insert {
	i := &Insert{}
	t, err := ast.ToTable(table)
	if err != nil {
		return i.fail(err)
	}
	i.Clauses.Table = t
	i.Clauses.Columns = columnNames(columns)
	return i
}

// StatementType implements ast.Statement.
func (i *Insert) StatementType() ast.StatementType { return ast.InsertStatement }

// Err returns the first error recorded while building.
func (i *Insert) Err() error { return i.err }

func (i *Insert) fail(err error) *Insert {
	if i.err == nil {
		i.err = err
	}
	return i
}

// Values appends one row. The row must have one value per column when
// columns were given.
func (i *Insert) Values(values ...any) *Insert {
	if n := len(i.Clauses.Columns); n > 0 && len(values) != n {
		return i.fail(fmt.Errorf("insert row has %d values for %d columns", len(values), n))
	}
	row := make([]ast.Value, len(values))
	for j, v := range values {
		val, err := ast.ValueOf(v)
		if err != nil {
			return i.fail(err)
		}
		row[j] = val
	}
	i.Clauses.Rows = append(i.Clauses.Rows, row)
	return i
}

// Set appends a row given as column/value pairs. The first call fixes the
// column list when none was given.
func (i *Insert) Set(row map[string]any) *Insert {
	if len(i.Clauses.Columns) == 0 {
		for _, name := range sortedKeys(row) {
			i.Clauses.Columns = append(i.Clauses.Columns, ast.NewColumn(name))
		}
	}
	values := make([]any, len(i.Clauses.Columns))
	for j, c := range i.Clauses.Columns {
		col, ok := c.(ast.Column)
		if !ok {
			return i.fail(fmt.Errorf("insert column %d is not a column name", j))
		}
		v, ok := row[col.Name]
		if !ok {
			return i.fail(fmt.Errorf("insert row has no value for column %q", col.Name))
		}
		values[j] = v
	}
	return i.Values(values...)
}

// Select inserts the result of q instead of literal rows.
func (i *Insert) Select(q ast.Statement) *Insert {
	i.Clauses.Query = ast.Stmt{Statement: q}
	return i
}

// Returning adds columns to a RETURNING clause.
func (i *Insert) Returning(columns ...any) *Insert {
	cols, err := columnsOf(columns)
	if err != nil {
		return i.fail(err)
	}
	i.Clauses.Returning = append(i.Clauses.Returning, cols...)
	return i
}
