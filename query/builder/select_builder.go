package builder

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// Selected is one entry of the select list.
type Selected struct {
	Value ast.Value
	Alias string
}

// Order is one ORDER BY term. Direction is "", "ASC" or "DESC".
type Order struct {
	Value     ast.Value
	Direction string
}

// Union is a query combined with the enclosing SELECT.
type Union struct {
	All   bool
	Query *Select
}

// SelectClauses holds the parts of a SELECT statement.
type SelectClauses struct {
	With     []CTE
	Distinct bool
	Columns  []Selected
	From     *From
	Where    *Conditions
	GroupBy  []ast.Value
	Having   *Conditions
	OrderBy  []Order
	Limit    *int64
	Offset   *int64
	Unions   []Union
}

// Select builds a SELECT statement.
type Select struct {
	Clauses SelectClauses
	err     error
}

// NewSelect starts a SELECT of the given columns. Strings are column names;
// no columns selects *.
func NewSelect(columns ...any) *Select {
	return (&Select{}).Columns(columns...)
}

// StatementType implements ast.Statement.
func (s *Select) StatementType() ast.StatementType { return ast.SelectStatement }

// Err returns the first error recorded on the statement or its clauses.
func (s *Select) Err() error {
	if s.err != nil {
		return s.err
	}
	if err := s.Clauses.From.Err(); err != nil {
		return err
	}
	if err := s.Clauses.Where.Err(); err != nil {
		return err
	}
	return s.Clauses.Having.Err()
}

func (s *Select) fail(err error) *Select {
	if s.err == nil {
		s.err = err
	}
	return s
}

// Distinct toggles SELECT DISTINCT.
func (s *Select) Distinct(distinct bool) *Select {
	s.Clauses.Distinct = distinct
	return s
}

// Columns appends to the select list.
func (s *Select) Columns(columns ...any) *Select {
	for _, c := range columns {
		s.Column(c, "")
	}
	return s
}

// Column appends one select list entry with an optional alias.
func (s *Select) Column(column any, alias string) *Select {
	v, err := ast.ToColumn(column)
	if err != nil {
		return s.fail(err)
	}
	s.Clauses.Columns = append(s.Clauses.Columns, Selected{Value: v, Alias: alias})
	return s
}

func (s *Select) from() *From {
	if s.Clauses.From == nil {
		s.Clauses.From = NewFrom()
	}
	return s.Clauses.From
}

// From adds a table reference.
func (s *Select) From(table any, alias string) *Select {
	s.from().Add(table, alias)
	return s
}

// Join adds a join of the given type.
func (s *Select) Join(table any, alias string, joinType string) *Select {
	s.from().Join(table, alias, joinType)
	return s
}

// On sets the condition of the last join by comparing two columns.
func (s *Select) On(left any, operator string, right any) *Select {
	s.from().OnColumns(left, operator, right)
	return s
}

// OnConditions sets the condition of the last join.
func (s *Select) OnConditions(c *Conditions) *Select {
	s.from().On(c)
	return s
}

// Using sets the shared columns of the last join.
func (s *Select) Using(columns ...any) *Select {
	s.from().Using(columns...)
	return s
}

// Tables replaces the FROM clause.
func (s *Select) Tables(f *From) *Select {
	s.Clauses.From = f
	return s
}

func (s *Select) where() *Conditions {
	if s.Clauses.Where == nil {
		s.Clauses.Where = NewConditions()
	}
	return s.Clauses.Where
}

// Where adds a comparison joined by AND.
func (s *Select) Where(left any, operator string, right any) *Select {
	s.where().And(left, operator, right)
	return s
}

// OrWhere adds a comparison joined by OR.
func (s *Select) OrWhere(left any, operator string, right any) *Select {
	s.where().Or(left, operator, right)
	return s
}

// WhereColumn compares two columns, joined by AND.
func (s *Select) WhereColumn(left any, operator string, right any) *Select {
	s.where().AndColumn(left, operator, right)
	return s
}

// WhereOpen starts a group in the WHERE clause.
func (s *Select) WhereOpen(logic string) *Select {
	s.where().Open(logic)
	return s
}

// WhereClose ends a group in the WHERE clause.
func (s *Select) WhereClose() *Select {
	s.where().Close()
	return s
}

// Filter replaces the WHERE clause.
func (s *Select) Filter(c *Conditions) *Select {
	s.Clauses.Where = c
	return s
}

// GroupBy appends grouping columns.
func (s *Select) GroupBy(columns ...any) *Select {
	cols, err := columnsOf(columns)
	if err != nil {
		return s.fail(err)
	}
	s.Clauses.GroupBy = append(s.Clauses.GroupBy, cols...)
	return s
}

func (s *Select) having() *Conditions {
	if s.Clauses.Having == nil {
		s.Clauses.Having = NewConditions()
	}
	return s.Clauses.Having
}

// Having adds a HAVING comparison joined by AND.
func (s *Select) Having(left any, operator string, right any) *Select {
	s.having().And(left, operator, right)
	return s
}

// OrHaving adds a HAVING comparison joined by OR.
func (s *Select) OrHaving(left any, operator string, right any) *Select {
	s.having().Or(left, operator, right)
	return s
}

// OrderBy appends a sort term.
func (s *Select) OrderBy(column any, direction string) *Select {
	o, err := orderTerm(column, direction)
	if err != nil {
		return s.fail(err)
	}
	s.Clauses.OrderBy = append(s.Clauses.OrderBy, o)
	return s
}

// Limit caps the number of rows.
func (s *Select) Limit(n int64) *Select {
	s.Clauses.Limit = &n
	return s
}

// Offset skips rows.
func (s *Select) Offset(n int64) *Select {
	s.Clauses.Offset = &n
	return s
}

// Union appends a UNION (or UNION ALL) with q.
func (s *Select) Union(q *Select, all bool) *Select {
	s.Clauses.Unions = append(s.Clauses.Unions, Union{All: all, Query: q})
	return s
}

// With adds a common table expression.
func (s *Select) With(name string, query ast.Statement, columns ...string) *Select {
	s.Clauses.With = append(s.Clauses.With, CTE{Name: name, Query: query, Columns: columns})
	return s
}

// WithRecursive adds a recursive common table expression.
func (s *Select) WithRecursive(name string, query ast.Statement, columns ...string) *Select {
	s.Clauses.With = append(s.Clauses.With, CTE{Name: name, Query: query, Columns: columns, Recursive: true})
	return s
}

func orderTerm(column any, direction string) (Order, error) {
	v, err := ast.ToColumn(column)
	if err != nil {
		return Order{}, err
	}
	dir := strings.ToUpper(strings.TrimSpace(direction))
	switch dir {
	case "", "ASC", "DESC":
	default:
		return Order{}, fmt.Errorf("%w: sort direction %q", ErrInvalidKeyword, direction)
	}
	return Order{Value: v, Direction: dir}, nil
}
