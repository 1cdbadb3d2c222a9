package sqlgen

import (
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// SQLite is the SQLite dialect. Returning should only be set for library
// versions 3.35.0 and later.
type SQLite struct {
	Returning bool
}

var _ Dialect = SQLite{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Quotes() (string, string) { return `"`, `"` }

// QuoteLiteral doubles single quotes. A NUL byte would silently truncate the
// string, so it is rejected.
func (d SQLite) QuoteLiteral(v ast.Value) (string, error) {
	switch v := v.(type) {
	case ast.String:
		if strings.IndexByte(string(v), 0) >= 0 {
			return "", unsupportedLiteral(d, v)
		}
		return doubleQuotes(string(v)), nil
	case ast.Binary:
		return hexLiteral(v), nil
	}
	return "", unsupportedLiteral(d, v)
}

func (SQLite) Placeholder(int) string { return "?" }

func (d SQLite) Features() Features {
	return Features{
		Pagination:       LimitOffset,
		OffsetOnlyLimit:  "-1",
		Returning:        d.Returning,
		AutoIncrement:    "AUTOINCREMENT",
		Truncate:         "DELETE FROM",
		IfNotExists:      true,
		IndexIfNotExists: true,
		AddColumn:        "ADD COLUMN",
		BoolType:         "BOOLEAN",
		RecursiveWith:    true,
		UpdateFrom:       true,
		EmptyInsert:      "DEFAULT VALUES",
		TemporaryTables:  true,
	}
}
