// Package sqlgen renders statements for different database providers.
//
// A Dialect supplies the low level differences between databases: identifier
// quotes, literal escaping, driver placeholders and the syntax variants
// listed in Features. A Generator combines a dialect with per-connection
// settings and renders builder statements into expressions the compiler can
// resolve.
package sqlgen

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

var (
	// ErrUnsupportedDialect is returned by NewDialect for unknown providers.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	// ErrInvalidLiteral is returned when a value cannot be written as a
	// literal for the dialect, such as a string holding a NUL byte.
	ErrInvalidLiteral = errors.New("value cannot be written as a literal")
	// ErrUnsupportedStatement is returned for statements the dialect has no
	// syntax for.
	ErrUnsupportedStatement = errors.New("statement not supported by dialect")
)

// Pagination is the syntax used to limit result rows.
type Pagination int

const (
	// LimitOffset appends LIMIT n OFFSET m.
	LimitOffset Pagination = iota
	// OffsetFetch uses TOP n, or OFFSET m ROWS FETCH NEXT n ROWS ONLY.
	OffsetFetch
)

// Features lists the syntax differences the generator has to know about.
type Features struct {
	Pagination Pagination
	// OffsetOnlyLimit is the LIMIT value written when a query has an offset
	// but no limit, for databases that reject a bare OFFSET.
	OffsetOnlyLimit string
	// Returning reports support for INSERT/UPDATE/DELETE ... RETURNING.
	Returning bool
	// SerialTypes replaces integer types of auto-increment columns with
	// SERIAL types instead of adding AutoIncrement.
	SerialTypes bool
	// AutoIncrement is the column attribute for generated keys.
	AutoIncrement string
	// Truncate is the statement prefix used to empty a table.
	Truncate string
	// DropIndexOnTable writes DROP INDEX name ON table.
	DropIndexOnTable bool
	// IfNotExists reports support for CREATE TABLE IF NOT EXISTS.
	IfNotExists bool
	// IndexIfNotExists reports support for CREATE INDEX IF NOT EXISTS.
	IndexIfNotExists bool
	// Cascade reports support for DROP TABLE ... CASCADE.
	Cascade bool
	// MutationLimit reports support for ORDER BY and LIMIT on UPDATE and
	// DELETE.
	MutationLimit bool
	// MultiAlter reports support for several comma separated actions in one
	// ALTER TABLE.
	MultiAlter bool
	// AddColumn is the ALTER TABLE keyword for a new column.
	AddColumn string
	// RenameProcedure renames through sp_rename instead of ALTER TABLE.
	RenameProcedure bool
	// BoolType is the column type written for BOOLEAN.
	BoolType string
	// RecursiveWith reports that recursive CTEs need WITH RECURSIVE.
	RecursiveWith bool
	// UpdateFrom reports support for UPDATE ... FROM.
	UpdateFrom bool
	// EmptyInsert is written instead of VALUES when a row has no columns.
	EmptyInsert string
	// TemporaryTables reports support for CREATE TEMPORARY TABLE.
	TemporaryTables bool
}

// Dialect describes one database's SQL flavour.
type Dialect interface {
	// Name is the canonical provider name.
	Name() string
	// Quotes returns the identifier quote characters.
	Quotes() (open, close string)
	// QuoteLiteral escapes an ast.String or ast.Binary.
	QuoteLiteral(v ast.Value) (string, error)
	// Placeholder returns the n-th (1-based) driver placeholder.
	Placeholder(n int) string
	// Features returns the syntax variants of the dialect.
	Features() Features
}

// NewDialect returns the dialect for a provider name as used in
// configuration files and connection URLs.
func NewDialect(provider string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "postgres", "postgresql", "pgx":
		return Postgres{}, nil
	case "mysql", "mariadb":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{Returning: true}, nil
	case "sqlserver", "mssql":
		return SQLServer{}, nil
	case "generic", "pdo", "":
		return Generic{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, provider)
}

// hexLiteral writes b as X'..'.
func hexLiteral(b []byte) string {
	return "X'" + hex.EncodeToString(b) + "'"
}

// doubleQuotes escapes s by doubling single quotes.
func doubleQuotes(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func unsupportedLiteral(d Dialect, v ast.Value) error {
	return fmt.Errorf("%w: %s cannot quote %T", ErrInvalidLiteral, d.Name(), v)
}
