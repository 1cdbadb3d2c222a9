package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
	"github.com/satishbabariya/go-dbal/query/builder"
)

var serialTypes = map[string]string{
	"SMALLINT": "SMALLSERIAL",
	"INT2":     "SMALLSERIAL",
	"INT":      "SERIAL",
	"INTEGER":  "SERIAL",
	"INT4":     "SERIAL",
	"BIGINT":   "BIGSERIAL",
	"INT8":     "BIGSERIAL",
}

func (g *Generator) renderCreateTable(s *builder.CreateTable) (*ast.Expression, error) {
	f := g.dialect.Features()
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("%w: CREATE TABLE without columns", ErrUnsupportedStatement)
	}

	head := "CREATE"
	if s.Temporary {
		if !f.TemporaryTables {
			return nil, g.unsupported("temporary tables")
		}
		head += " TEMPORARY"
	}
	head += " TABLE"
	if s.IfNotExists {
		if !f.IfNotExists {
			return nil, g.unsupported("CREATE TABLE IF NOT EXISTS")
		}
		head += " IF NOT EXISTS"
	}

	defs := make(ast.List, 0, len(s.Columns)+len(s.Constraints))
	for _, c := range s.Columns {
		defs = append(defs, g.columnDef(c))
	}
	for _, k := range s.Constraints {
		e, err := constraint(k)
		if err != nil {
			return nil, err
		}
		defs = append(defs, e)
	}

	q := newClauses()
	q.add(head+" ?", s.Table)
	q.add("(?)", defs)
	return q.e, nil
}

func (g *Generator) columnDef(c builder.ColumnDef) *ast.Expression {
	f := g.dialect.Features()

	typ := c.Type
	switch strings.ToUpper(typ) {
	case "BOOL", "BOOLEAN":
		typ = f.BoolType
	}
	if c.AutoIncrement && f.SerialTypes {
		if serial, ok := serialTypes[strings.ToUpper(typ)]; ok {
			typ = serial
		}
	}

	e := ast.NewExpression("? "+typ, c.Name)
	if c.NotNull {
		e.Append(" NOT NULL")
	}
	if c.Default != nil {
		e.AppendValues(" DEFAULT ?", c.Default)
	}
	if c.PrimaryKey {
		e.Append(" PRIMARY KEY")
	}
	if c.AutoIncrement && !f.SerialTypes && f.AutoIncrement != "" {
		e.Append(" " + f.AutoIncrement)
	}
	if c.Unique {
		e.Append(" UNIQUE")
	}
	if c.References != nil {
		references(e, c.References)
	}
	return e
}

func references(e *ast.Expression, r *builder.Reference) {
	e.AppendValues(" REFERENCES ?", r.Table)
	if len(r.Columns) > 0 {
		e.AppendValues(" (?)", ast.List(r.Columns))
	}
	if r.OnDelete != "" {
		e.Append(" ON DELETE " + r.OnDelete)
	}
	if r.OnUpdate != "" {
		e.Append(" ON UPDATE " + r.OnUpdate)
	}
}

func constraint(k builder.Constraint) (*ast.Expression, error) {
	e := ast.NewExpression("")
	if k.Name != "" {
		e.AppendValues("CONSTRAINT ? ", ast.Identifier{Name: k.Name})
	}
	switch k.Kind {
	case builder.PrimaryKeyConstraint, builder.UniqueConstraint:
		e.AppendValues(string(k.Kind)+" (?)", ast.List(k.Columns))
	case builder.ForeignKeyConstraint:
		if k.References == nil {
			return nil, fmt.Errorf("%w: foreign key without reference", ErrUnsupportedStatement)
		}
		e.AppendValues("FOREIGN KEY (?)", ast.List(k.Columns))
		references(e, k.References)
	case builder.CheckConstraint:
		if k.Check == nil || k.Check.IsEmpty() {
			return nil, fmt.Errorf("%w: empty CHECK constraint", ErrUnsupportedStatement)
		}
		e.AppendValues("CHECK (?)", k.Check.Expression())
	default:
		return nil, fmt.Errorf("%w: constraint %q", ErrUnsupportedStatement, k.Kind)
	}
	return e, nil
}

// renderAlterTable writes one ALTER TABLE per action, or a single one with
// comma separated ADD and DROP actions where the database accepts that.
// Several statements are separated by "; ".
func (g *Generator) renderAlterTable(s *builder.AlterTable) (*ast.Expression, error) {
	if len(s.Actions) == 0 {
		return nil, fmt.Errorf("%w: ALTER TABLE without actions", ErrUnsupportedStatement)
	}
	f := g.dialect.Features()

	var (
		stmts   ast.List
		grouped ast.List
	)
	flush := func() {
		if len(grouped) == 0 {
			return
		}
		stmts = append(stmts, ast.NewExpression("ALTER TABLE ? ?", s.Table, grouped))
		grouped = nil
	}

	for _, a := range s.Actions {
		switch a.Kind {
		case builder.AddColumn, builder.DropColumn:
			var action *ast.Expression
			if a.Kind == builder.AddColumn {
				action = ast.NewExpression(f.AddColumn+" ?", g.columnDef(a.Column))
			} else {
				action = ast.NewExpression("DROP COLUMN ?", ast.Identifier{Name: a.Name})
			}
			if !f.MultiAlter {
				stmts = append(stmts, ast.NewExpression("ALTER TABLE ? ?", s.Table, action))
				continue
			}
			grouped = append(grouped, action)
		case builder.RenameColumn, builder.RenameTable:
			flush()
			e, err := g.rename(s.Table, a)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, e)
		default:
			return nil, fmt.Errorf("%w: alter action %d", ErrUnsupportedStatement, a.Kind)
		}
	}
	flush()

	if len(stmts) == 1 {
		return stmts[0].(*ast.Expression), nil
	}
	e := ast.NewExpression("")
	for i, st := range stmts {
		if i > 0 {
			e.Append("; ")
		}
		e.AppendValues("?", st)
	}
	return e, nil
}

func (g *Generator) rename(table ast.Value, a builder.AlterAction) (*ast.Expression, error) {
	if !g.dialect.Features().RenameProcedure {
		if a.Kind == builder.RenameColumn {
			return ast.NewExpression("ALTER TABLE ? RENAME COLUMN ? TO ?",
				table, ast.Identifier{Name: a.Name}, ast.Identifier{Name: a.NewName}), nil
		}
		return ast.NewExpression("ALTER TABLE ? RENAME TO ?", table, ast.Table{Name: a.NewName}), nil
	}

	// sp_rename takes the object as a string.
	t, ok := table.(ast.Table)
	if !ok {
		return nil, fmt.Errorf("%w: rename of %T", ErrUnsupportedStatement, table)
	}
	name := strings.Join(g.qualified(t), ".")
	if a.Kind == builder.RenameColumn {
		return ast.NewExpression("EXEC sp_rename ?, ?, 'COLUMN'",
			ast.String(name+"."+a.Name), ast.String(a.NewName)), nil
	}
	return ast.NewExpression("EXEC sp_rename ?, ?", ast.String(name), ast.String(g.prefix+a.NewName)), nil
}

// qualified returns the parts of t with the table prefix applied.
func (g *Generator) qualified(t ast.Table) []string {
	parts := t.Parts()
	parts[len(parts)-1] = g.prefix + t.Name
	return parts
}

func (g *Generator) renderDropTable(s *builder.DropTable) (*ast.Expression, error) {
	if len(s.Tables) == 0 {
		return nil, fmt.Errorf("%w: DROP TABLE without tables", ErrUnsupportedStatement)
	}
	head := "DROP TABLE"
	if s.IfExists {
		head += " IF EXISTS"
	}
	q := newClauses()
	q.add(head+" ?", ast.List(s.Tables))
	if s.Cascade && g.dialect.Features().Cascade {
		q.add("CASCADE")
	}
	return q.e, nil
}

func (g *Generator) renderTruncate(s *builder.TruncateTable) (*ast.Expression, error) {
	return ast.NewExpression(g.dialect.Features().Truncate+" ?", s.Table), nil
}

func (g *Generator) renderCreateIndex(s *builder.CreateIndex) (*ast.Expression, error) {
	f := g.dialect.Features()
	head := "CREATE"
	if s.IsUnique {
		head += " UNIQUE"
	}
	head += " INDEX"
	if s.IfNotExists {
		if !f.IndexIfNotExists {
			return nil, g.unsupported("CREATE INDEX IF NOT EXISTS")
		}
		head += " IF NOT EXISTS"
	}
	return ast.NewExpression(head+" ? ON ? (?)", s.Name, s.Table, ast.List(s.Columns)), nil
}

func (g *Generator) renderDropIndex(s *builder.DropIndex) (*ast.Expression, error) {
	head := "DROP INDEX"
	if s.IfExists {
		head += " IF EXISTS"
	}
	if g.dialect.Features().DropIndexOnTable {
		return ast.NewExpression(head+" ? ON ?", s.Name, s.Table), nil
	}
	// Index names live in the table's schema.
	name := s.Name
	if t, ok := s.Table.(ast.Table); ok && t.Namespace != nil {
		if id, ok := name.(ast.Identifier); ok {
			name = id.WithNamespace(t.Namespace)
		}
	}
	return ast.NewExpression(head+" ?", name), nil
}
