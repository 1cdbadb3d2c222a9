package sqlgen

import (
	"fmt"

	"github.com/satishbabariya/go-dbal/query/ast"
	"github.com/satishbabariya/go-dbal/query/builder"
)

// Render turns a builder statement into an expression for the dialect.
// Nothing is escaped here; values stay parameters of the returned
// expression until it is compiled.
func (g *Generator) Render(stmt ast.Statement) (*ast.Expression, error) {
	if s, ok := stmt.(interface{ Err() error }); ok {
		if err := s.Err(); err != nil {
			return nil, err
		}
	}

	switch s := stmt.(type) {
	case *builder.Select:
		return g.renderSelect(s)
	case *builder.Insert:
		return g.renderInsert(s)
	case *builder.Update:
		return g.renderUpdate(s)
	case *builder.Delete:
		return g.renderDelete(s)
	case *builder.CreateTable:
		return g.renderCreateTable(s)
	case *builder.AlterTable:
		return g.renderAlterTable(s)
	case *builder.DropTable:
		return g.renderDropTable(s)
	case *builder.TruncateTable:
		return g.renderTruncate(s)
	case *builder.CreateIndex:
		return g.renderCreateIndex(s)
	case *builder.DropIndex:
		return g.renderDropIndex(s)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedStatement, stmt)
}

// clauses accumulates space separated clauses into one expression.
type clauses struct {
	e *ast.Expression
}

func newClauses() *clauses {
	return &clauses{e: ast.NewExpression("")}
}

func (c *clauses) add(text string, params ...ast.Value) {
	if c.e.Template() != "" {
		c.e.Append(" ")
	}
	c.e.AppendValues(text, params...)
}

func (g *Generator) unsupported(what string) error {
	return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedStatement, g.dialect.Name(), what)
}

func (g *Generator) renderSelect(s *builder.Select) (*ast.Expression, error) {
	var (
		c = s.Clauses
		f = g.dialect.Features()
		q = newClauses()
	)

	if len(c.With) > 0 {
		kw := "WITH"
		if f.RecursiveWith && builder.IsRecursive(c.With) {
			kw = "WITH RECURSIVE"
		}
		q.add(kw+" ?", ctes(c.With))
	}

	head := "SELECT"
	if c.Distinct {
		head += " DISTINCT"
	}
	top := f.Pagination == OffsetFetch && c.Limit != nil && c.Offset == nil
	if top {
		q.add(head+" TOP (?)", ast.Int(*c.Limit))
	} else {
		q.add(head)
	}

	if len(c.Columns) == 0 {
		q.add("*")
	} else {
		q.add("?", selectList(c.Columns))
	}
	if c.From != nil && !c.From.IsEmpty() {
		q.add("FROM ?", c.From.Expression())
	}
	if c.Where != nil && !c.Where.IsEmpty() {
		q.add("WHERE ?", c.Where.Expression())
	}
	if len(c.GroupBy) > 0 {
		q.add("GROUP BY ?", ast.List(c.GroupBy))
	}
	if c.Having != nil && !c.Having.IsEmpty() {
		q.add("HAVING ?", c.Having.Expression())
	}
	for _, u := range c.Unions {
		if u.Query == nil {
			continue
		}
		kw := "UNION"
		if u.All {
			kw = "UNION ALL"
		}
		q.add(kw+" ?", ast.Stmt{Statement: u.Query})
	}
	if len(c.OrderBy) > 0 {
		q.add("ORDER BY ?", orderList(c.OrderBy))
	}
	if !top {
		g.paginate(q, f, c.Limit, c.Offset, len(c.OrderBy) > 0)
	}
	return q.e, nil
}

func (g *Generator) paginate(q *clauses, f Features, limit, offset *int64, ordered bool) {
	if f.Pagination == OffsetFetch {
		if offset == nil && limit == nil {
			return
		}
		if !ordered {
			q.add("ORDER BY (SELECT NULL)")
		}
		var skip int64
		if offset != nil {
			skip = *offset
		}
		q.add("OFFSET ? ROWS", ast.Int(skip))
		if limit != nil {
			q.add("FETCH NEXT ? ROWS ONLY", ast.Int(*limit))
		}
		return
	}

	switch {
	case limit != nil:
		q.add("LIMIT ?", ast.Int(*limit))
	case offset != nil && f.OffsetOnlyLimit != "":
		q.add("LIMIT " + f.OffsetOnlyLimit)
	}
	if offset != nil {
		q.add("OFFSET ?", ast.Int(*offset))
	}
}

func ctes(list []builder.CTE) ast.List {
	out := make(ast.List, len(list))
	for i, cte := range list {
		e := ast.NewExpression("?", ast.Identifier{Name: cte.Name})
		if len(cte.Columns) > 0 {
			e.AppendValues(" (?)", identifierList(cte.Columns))
		}
		e.AppendValues(" AS (?)", ast.Stmt{Statement: cte.Query})
		out[i] = e
	}
	return out
}

func selectList(cols []builder.Selected) ast.List {
	out := make(ast.List, len(cols))
	for i, c := range cols {
		text := "?"
		if _, ok := c.Value.(ast.Stmt); ok {
			text = "(?)"
		}
		if c.Alias == "" {
			if text == "?" {
				out[i] = c.Value
				continue
			}
			out[i] = ast.NewExpression(text, c.Value)
			continue
		}
		out[i] = ast.NewExpression(text+" AS ?", c.Value, ast.Identifier{Name: c.Alias})
	}
	return out
}

func orderList(terms []builder.Order) ast.List {
	out := make(ast.List, len(terms))
	for i, o := range terms {
		if o.Direction == "" {
			out[i] = o.Value
			continue
		}
		out[i] = ast.NewExpression("? "+o.Direction, o.Value)
	}
	return out
}

func identifierList(names []string) ast.List {
	out := make(ast.List, len(names))
	for i, n := range names {
		out[i] = ast.Identifier{Name: n}
	}
	return out
}

func (g *Generator) returning(q *clauses, cols []ast.Value) error {
	if len(cols) == 0 {
		return nil
	}
	if !g.dialect.Features().Returning {
		return g.unsupported("RETURNING")
	}
	q.add("RETURNING ?", ast.List(cols))
	return nil
}

func (g *Generator) mutationLimit(q *clauses, order []builder.Order, limit *int64) error {
	if len(order) == 0 && limit == nil {
		return nil
	}
	if !g.dialect.Features().MutationLimit {
		return g.unsupported("ORDER BY or LIMIT in UPDATE and DELETE")
	}
	if len(order) > 0 {
		q.add("ORDER BY ?", orderList(order))
	}
	if limit != nil {
		q.add("LIMIT ?", ast.Int(*limit))
	}
	return nil
}

func (g *Generator) renderInsert(s *builder.Insert) (*ast.Expression, error) {
	c := s.Clauses
	q := newClauses()
	q.add("INSERT INTO ?", c.Table)
	if len(c.Columns) > 0 {
		q.add("(?)", ast.List(c.Columns))
	}

	switch {
	case c.Query != nil:
		q.add("?", c.Query)
	case len(c.Rows) > 0:
		rows := make(ast.List, len(c.Rows))
		for i, r := range c.Rows {
			rows[i] = ast.List(r)
		}
		q.add("VALUES ?", rows)
	case len(c.Columns) == 0:
		q.add(g.dialect.Features().EmptyInsert)
	default:
		return nil, fmt.Errorf("%w: INSERT without rows", ErrUnsupportedStatement)
	}

	if err := g.returning(q, c.Returning); err != nil {
		return nil, err
	}
	return q.e, nil
}

func (g *Generator) renderUpdate(s *builder.Update) (*ast.Expression, error) {
	c := s.Clauses
	if len(c.Set) == 0 {
		return nil, fmt.Errorf("%w: UPDATE without assignments", ErrUnsupportedStatement)
	}

	q := newClauses()
	q.add("UPDATE ?", c.Table)
	if c.Alias != "" {
		q.add("AS ?", ast.Identifier{Name: c.Alias})
	}

	set := make(ast.List, len(c.Set))
	for i, a := range c.Set {
		text := "? = ?"
		if _, ok := a.Value.(ast.Stmt); ok {
			text = "? = (?)"
		}
		set[i] = ast.NewExpression(text, a.Column, a.Value)
	}
	q.add("SET ?", set)

	if c.From != nil && !c.From.IsEmpty() {
		if !g.dialect.Features().UpdateFrom {
			return nil, g.unsupported("UPDATE ... FROM")
		}
		q.add("FROM ?", c.From.Expression())
	}
	if c.Where != nil && !c.Where.IsEmpty() {
		q.add("WHERE ?", c.Where.Expression())
	}
	if err := g.mutationLimit(q, c.OrderBy, c.Limit); err != nil {
		return nil, err
	}
	if err := g.returning(q, c.Returning); err != nil {
		return nil, err
	}
	return q.e, nil
}

func (g *Generator) renderDelete(s *builder.Delete) (*ast.Expression, error) {
	c := s.Clauses
	q := newClauses()
	q.add("DELETE FROM ?", c.Table)
	if c.Where != nil && !c.Where.IsEmpty() {
		q.add("WHERE ?", c.Where.Expression())
	}
	if err := g.mutationLimit(q, c.OrderBy, c.Limit); err != nil {
		return nil, err
	}
	if err := g.returning(q, c.Returning); err != nil {
		return nil, err
	}
	return q.e, nil
}
