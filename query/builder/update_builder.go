package builder

import (
	"sort"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// Assignment is one "column = value" pair of an UPDATE.
type Assignment struct {
	Column ast.Value
	Value  ast.Value
}

// UpdateClauses holds the parts of an UPDATE statement.
type UpdateClauses struct {
	Table     ast.Value
	Alias     string
	Set       []Assignment
	From      *From
	Where     *Conditions
	OrderBy   []Order
	Limit     *int64
	Returning []ast.Value
}

// Update builds an UPDATE statement.
type Update struct {
	Clauses UpdateClauses
	err     error
}

// NewUpdate starts an UPDATE of table.
func NewUpdate(table any) *Update {
	u := &Update{}
	t, err := ast.ToTable(table)
	if err != nil {
		return u.fail(err)
	}
	u.Clauses.Table = t
	return u
}

// StatementType implements ast.Statement.
func (u *Update) StatementType() ast.StatementType { return ast.UpdateStatement }

// Err returns the first error recorded on the statement or its clauses.
func (u *Update) Err() error {
	if u.err != nil {
		return u.err
	}
	if err := u.Clauses.From.Err(); err != nil {
		return err
	}
	return u.Clauses.Where.Err()
}

func (u *Update) fail(err error) *Update {
	if u.err == nil {
		u.err = err
	}
	return u
}

// As aliases the updated table.
func (u *Update) As(alias string) *Update {
	u.Clauses.Alias = alias
	return u
}

// Set assigns value to column.
func (u *Update) Set(column any, value any) *Update {
	c, err := ast.ToColumn(column)
	if err != nil {
		return u.fail(err)
	}
	v, err := ast.ValueOf(value)
	if err != nil {
		return u.fail(err)
	}
	u.Clauses.Set = append(u.Clauses.Set, Assignment{Column: c, Value: v})
	return u
}

// SetMap assigns several columns, in column name order.
func (u *Update) SetMap(values map[string]any) *Update {
	for _, name := range sortedKeys(values) {
		u.Set(name, values[name])
	}
	return u
}

// From adds a table the update reads from.
func (u *Update) From(table any, alias string) *Update {
	if u.Clauses.From == nil {
		u.Clauses.From = NewFrom()
	}
	u.Clauses.From.Add(table, alias)
	return u
}

func (u *Update) where() *Conditions {
	if u.Clauses.Where == nil {
		u.Clauses.Where = NewConditions()
	}
	return u.Clauses.Where
}

// Where adds a comparison joined by AND.
func (u *Update) Where(left any, operator string, right any) *Update {
	u.where().And(left, operator, right)
	return u
}

// OrWhere adds a comparison joined by OR.
func (u *Update) OrWhere(left any, operator string, right any) *Update {
	u.where().Or(left, operator, right)
	return u
}

// WhereColumn compares two columns, joined by AND.
func (u *Update) WhereColumn(left any, operator string, right any) *Update {
	u.where().AndColumn(left, operator, right)
	return u
}

// Filter replaces the WHERE clause.
func (u *Update) Filter(c *Conditions) *Update {
	u.Clauses.Where = c
	return u
}

// OrderBy appends a sort term, for databases that accept one.
func (u *Update) OrderBy(column any, direction string) *Update {
	o, err := orderTerm(column, direction)
	if err != nil {
		return u.fail(err)
	}
	u.Clauses.OrderBy = append(u.Clauses.OrderBy, o)
	return u
}

// Limit caps the number of updated rows, for databases that accept one.
func (u *Update) Limit(n int64) *Update {
	u.Clauses.Limit = &n
	return u
}

// Returning adds columns to a RETURNING clause.
func (u *Update) Returning(columns ...any) *Update {
	cols, err := columnsOf(columns)
	if err != nil {
		return u.fail(err)
	}
	u.Clauses.Returning = append(u.Clauses.Returning, cols...)
	return u
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
