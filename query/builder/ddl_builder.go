package builder

import (
	"fmt"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// Reference is the target of a foreign key.
type Reference struct {
	Table    ast.Value
	Columns  []ast.Value
	OnDelete string
	OnUpdate string
}

// ColumnDef describes one column of a table.
type ColumnDef struct {
	Name          ast.Value
	Type          string
	NotNull       bool
	Default       ast.Value
	AutoIncrement bool
	PrimaryKey    bool
	Unique        bool
	References    *Reference
}

// ColumnOption modifies a column definition.
type ColumnOption func(*ColumnDef) error

// NotNull forbids NULL values.
func NotNull() ColumnOption {
	return func(c *ColumnDef) error {
		c.NotNull = true
		return nil
	}
}

// Default sets the column default.
func Default(v any) ColumnOption {
	return func(c *ColumnDef) error {
		val, err := ast.ValueOf(v)
		if err != nil {
			return err
		}
		c.Default = val
		return nil
	}
}

// AutoIncrement marks a generated integer key.
func AutoIncrement() ColumnOption {
	return func(c *ColumnDef) error {
		c.AutoIncrement = true
		return nil
	}
}

// PrimaryKey marks the column as the single-column primary key.
func PrimaryKey() ColumnOption {
	return func(c *ColumnDef) error {
		c.PrimaryKey = true
		c.NotNull = true
		return nil
	}
}

// Unique adds a single-column UNIQUE constraint.
func Unique() ColumnOption {
	return func(c *ColumnDef) error {
		c.Unique = true
		return nil
	}
}

// References adds an inline foreign key.
func References(table any, columns ...string) ColumnOption {
	return func(c *ColumnDef) error {
		ref, err := newReference(table, columns)
		if err != nil {
			return err
		}
		c.References = ref
		return nil
	}
}

// OnDelete sets the delete action of the column's foreign key.
func OnDelete(action string) ColumnOption {
	return func(c *ColumnDef) error {
		if c.References == nil {
			return fmt.Errorf("ON DELETE without a reference")
		}
		kw, err := referentialAction(action)
		if err != nil {
			return err
		}
		c.References.OnDelete = kw
		return nil
	}
}

// OnUpdate sets the update action of the column's foreign key.
func OnUpdate(action string) ColumnOption {
	return func(c *ColumnDef) error {
		if c.References == nil {
			return fmt.Errorf("ON UPDATE without a reference")
		}
		kw, err := referentialAction(action)
		if err != nil {
			return err
		}
		c.References.OnUpdate = kw
		return nil
	}
}

// NewColumnDef validates the type and applies opts.
func NewColumnDef(name, typ string, opts ...ColumnOption) (ColumnDef, error) {
	t, err := columnType(typ)
	if err != nil {
		return ColumnDef{}, err
	}
	c := ColumnDef{Name: ast.Identifier{Name: name}, Type: t}
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return ColumnDef{}, err
		}
	}
	return c, nil
}

func newReference(table any, columns []string) (*Reference, error) {
	t, err := ast.ToTable(table)
	if err != nil {
		return nil, err
	}
	return &Reference{Table: t, Columns: identifiers(columns)}, nil
}

func identifiers(names []string) []ast.Value {
	out := make([]ast.Value, len(names))
	for i, n := range names {
		out[i] = ast.Identifier{Name: n}
	}
	return out
}

// ConstraintKind is the kind of a table constraint.
type ConstraintKind string

// Table constraint kinds.
const (
	PrimaryKeyConstraint ConstraintKind = "PRIMARY KEY"
	UniqueConstraint     ConstraintKind = "UNIQUE"
	ForeignKeyConstraint ConstraintKind = "FOREIGN KEY"
	CheckConstraint      ConstraintKind = "CHECK"
)

// Constraint is a table level constraint. Check is used by CHECK
// constraints only.
type Constraint struct {
	Name       string
	Kind       ConstraintKind
	Columns    []ast.Value
	References *Reference
	Check      *Conditions
}

// CreateTable builds CREATE TABLE.
type CreateTable struct {
	Table       ast.Value
	Columns     []ColumnDef
	Constraints []Constraint
	IfNotExists bool
	Temporary   bool
	err         error
}

// NewCreateTable starts a CREATE TABLE statement.
func NewCreateTable(table any) *CreateTable {
	c := &CreateTable{}
	t, err := ast.ToTable(table)
	if err != nil {
		return c.fail(err)
	}
	c.Table = t
	return c
}

// StatementType implements ast.Statement.
func (c *CreateTable) StatementType() ast.StatementType { return ast.DDLStatement }

// Err returns the first error recorded while building.
func (c *CreateTable) Err() error {
	if c.err != nil {
		return c.err
	}
	for _, k := range c.Constraints {
		if err := k.Check.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CreateTable) fail(err error) *CreateTable {
	if c.err == nil {
		c.err = err
	}
	return c
}

// IfNotExist adds IF NOT EXISTS.
func (c *CreateTable) IfNotExist() *CreateTable {
	c.IfNotExists = true
	return c
}

// Temp creates a temporary table.
func (c *CreateTable) Temp() *CreateTable {
	c.Temporary = true
	return c
}

// Column adds a column definition.
func (c *CreateTable) Column(name, typ string, opts ...ColumnOption) *CreateTable {
	def, err := NewColumnDef(name, typ, opts...)
	if err != nil {
		return c.fail(fmt.Errorf("column %q: %w", name, err))
	}
	c.Columns = append(c.Columns, def)
	return c
}

// PrimaryKey adds a table level primary key.
func (c *CreateTable) PrimaryKey(columns ...string) *CreateTable {
	c.Constraints = append(c.Constraints, Constraint{Kind: PrimaryKeyConstraint, Columns: identifiers(columns)})
	return c
}

// Unique adds a named UNIQUE constraint. An empty name leaves naming to the
// database.
func (c *CreateTable) Unique(name string, columns ...string) *CreateTable {
	c.Constraints = append(c.Constraints, Constraint{Name: name, Kind: UniqueConstraint, Columns: identifiers(columns)})
	return c
}

// ForeignKey adds a table level foreign key.
func (c *CreateTable) ForeignKey(name string, columns []string, table any, refColumns ...string) *CreateTable {
	ref, err := newReference(table, refColumns)
	if err != nil {
		return c.fail(err)
	}
	c.Constraints = append(c.Constraints, Constraint{
		Name:       name,
		Kind:       ForeignKeyConstraint,
		Columns:    identifiers(columns),
		References: ref,
	})
	return c
}

// Check adds a CHECK constraint.
func (c *CreateTable) Check(name string, cond *Conditions) *CreateTable {
	c.Constraints = append(c.Constraints, Constraint{Name: name, Kind: CheckConstraint, Check: cond})
	return c
}

// AlterKind is the kind of one ALTER TABLE action.
type AlterKind int

// ALTER TABLE actions.
const (
	AddColumn AlterKind = iota
	DropColumn
	RenameColumn
	RenameTable
)

// AlterAction is one change applied by ALTER TABLE.
type AlterAction struct {
	Kind    AlterKind
	Column  ColumnDef
	Name    string
	NewName string
}

// AlterTable builds ALTER TABLE. Each action renders as its own statement
// on databases that do not accept several.
type AlterTable struct {
	Table   ast.Value
	Actions []AlterAction
	err     error
}

// NewAlterTable starts an ALTER TABLE statement.
func NewAlterTable(table any) *AlterTable {
	a := &AlterTable{}
	t, err := ast.ToTable(table)
	if err != nil {
		return a.fail(err)
	}
	a.Table = t
	return a
}

// StatementType implements ast.Statement.
func (a *AlterTable) StatementType() ast.StatementType { return ast.DDLStatement }

// Err returns the first error recorded while building.
func (a *AlterTable) Err() error { return a.err }

func (a *AlterTable) fail(err error) *AlterTable {
	if a.err == nil {
		a.err = err
	}
	return a
}

// AddColumn adds a column.
func (a *AlterTable) AddColumn(name, typ string, opts ...ColumnOption) *AlterTable {
	def, err := NewColumnDef(name, typ, opts...)
	if err != nil {
		return a.fail(fmt.Errorf("column %q: %w", name, err))
	}
	a.Actions = append(a.Actions, AlterAction{Kind: AddColumn, Column: def})
	return a
}

// DropColumn removes a column.
func (a *AlterTable) DropColumn(name string) *AlterTable {
	a.Actions = append(a.Actions, AlterAction{Kind: DropColumn, Name: name})
	return a
}

// RenameColumn renames a column.
func (a *AlterTable) RenameColumn(from, to string) *AlterTable {
	a.Actions = append(a.Actions, AlterAction{Kind: RenameColumn, Name: from, NewName: to})
	return a
}

// RenameTo renames the table. The table prefix applies to the new name.
func (a *AlterTable) RenameTo(name string) *AlterTable {
	a.Actions = append(a.Actions, AlterAction{Kind: RenameTable, NewName: name})
	return a
}

// DropTable builds DROP TABLE.
type DropTable struct {
	Tables   []ast.Value
	IfExists bool
	Cascade  bool
	err      error
}

// NewDropTable drops one or more tables.
func NewDropTable(tables ...any) *DropTable {
	d := &DropTable{}
	for _, t := range tables {
		v, err := ast.ToTable(t)
		if err != nil {
			d.err = err
			return d
		}
		d.Tables = append(d.Tables, v)
	}
	return d
}

// StatementType implements ast.Statement.
func (d *DropTable) StatementType() ast.StatementType { return ast.DDLStatement }

// Err returns the first error recorded while building.
func (d *DropTable) Err() error { return d.err }

// IfExist adds IF EXISTS.
func (d *DropTable) IfExist() *DropTable {
	d.IfExists = true
	return d
}

// Cascaded adds CASCADE where supported.
func (d *DropTable) Cascaded() *DropTable {
	d.Cascade = true
	return d
}

// TruncateTable empties a table.
type TruncateTable struct {
	Table ast.Value
	err   error
}

// NewTruncateTable empties table.
func NewTruncateTable(table any) *TruncateTable {
	t, err := ast.ToTable(table)
	return &TruncateTable{Table: t, err: err}
}

// StatementType implements ast.Statement.
func (t *TruncateTable) StatementType() ast.StatementType { return ast.DDLStatement }

// Err returns the first error recorded while building.
func (t *TruncateTable) Err() error { return t.err }

// CreateIndex builds CREATE INDEX.
type CreateIndex struct {
	Name        ast.Value
	Table       ast.Value
	Columns     []ast.Value
	IsUnique    bool
	IfNotExists bool
	err         error
}

// NewCreateIndex indexes columns of table.
func NewCreateIndex(name string, table any, columns ...string) *CreateIndex {
	c := &CreateIndex{Name: ast.Identifier{Name: name}, Columns: identifiers(columns)}
	if len(columns) == 0 {
		c.err = fmt.Errorf("index %q has no columns", name)
	}
	t, err := ast.ToTable(table)
	if err != nil && c.err == nil {
		c.err = err
	}
	c.Table = t
	return c
}

// StatementType implements ast.Statement.
func (c *CreateIndex) StatementType() ast.StatementType { return ast.DDLStatement }

// Err returns the first error recorded while building.
func (c *CreateIndex) Err() error { return c.err }

// Unique makes the index unique.
func (c *CreateIndex) Unique() *CreateIndex {
	c.IsUnique = true
	return c
}

// IfNotExist adds IF NOT EXISTS where supported.
func (c *CreateIndex) IfNotExist() *CreateIndex {
	c.IfNotExists = true
	return c
}

// DropIndex builds DROP INDEX. Table is needed by databases that scope
// index names to a table.
type DropIndex struct {
	Name     ast.Value
	Table    ast.Value
	IfExists bool
	err      error
}

// NewDropIndex drops the named index of table.
func NewDropIndex(name string, table any) *DropIndex {
	t, err := ast.ToTable(table)
	return &DropIndex{Name: ast.Identifier{Name: name}, Table: t, err: err}
}

// StatementType implements ast.Statement.
func (d *DropIndex) StatementType() ast.StatementType { return ast.DDLStatement }

// Err returns the first error recorded while building.
func (d *DropIndex) Err() error { return d.err }

// IfExist adds IF EXISTS.
func (d *DropIndex) IfExist() *DropIndex {
	d.IfExists = true
	return d
}
