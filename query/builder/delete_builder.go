package builder

import "github.com/satishbabariya/go-dbal/query/ast"

// DeleteClauses holds the parts of a DELETE statement.
type DeleteClauses struct {
	Table     ast.Value
	Where     *Conditions
	OrderBy   []Order
	Limit     *int64
	Returning []ast.Value
}

// Delete builds a DELETE statement.
type Delete struct {
	Clauses DeleteClauses
	err     error
}

// NewDelete starts a DELETE from table.
func NewDelete(table any) *Delete {
	d := &Delete{}
	t, err := ast.ToTable(table)
	if err != nil {
		return d.fail(err)
	}
	d.Clauses.Table = t
	return d
}

// StatementType implements ast.Statement.
func (d *Delete) StatementType() ast.StatementType { return ast.DeleteStatement }

// Err returns the first error recorded on the statement or its clauses.
func (d *Delete) Err() error {
	if d.err != nil {
		return d.err
	}
	return d.Clauses.Where.Err()
}

func (d *Delete) fail(err error) *Delete {
	if d.err == nil {
		d.err = err
	}
	return d
}

func (d *Delete) where() *Conditions {
	if d.Clauses.Where == nil {
		d.Clauses.Where = NewConditions()
	}
	return d.Clauses.Where
}

// Where adds a comparison joined by AND.
func (d *Delete) Where(left any, operator string, right any) *Delete {
	d.where().And(left, operator, right)
	return d
}

// OrWhere adds a comparison joined by OR.
func (d *Delete) OrWhere(left any, operator string, right any) *Delete {
	d.where().Or(left, operator, right)
	return d
}

// Filter replaces the WHERE clause.
func (d *Delete) Filter(c *Conditions) *Delete {
	d.Clauses.Where = c
	return d
}

// OrderBy appends a sort term, for databases that accept one.
func (d *Delete) OrderBy(column any, direction string) *Delete {
	o, err := orderTerm(column, direction)
	if err != nil {
		return d.fail(err)
	}
	d.Clauses.OrderBy = append(d.Clauses.OrderBy, o)
	return d
}

// Limit caps the number of deleted rows, for databases that accept one.
func (d *Delete) Limit(n int64) *Delete {
	d.Clauses.Limit = &n
	return d
}

// Returning adds columns to a RETURNING clause.
func (d *Delete) Returning(columns ...any) *Delete {
	cols, err := columnsOf(columns)
	if err != nil {
		return d.fail(err)
	}
	d.Clauses.Returning = append(d.Clauses.Returning, cols...)
	return d
}
