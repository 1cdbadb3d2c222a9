package sqlgen

import (
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// MySQL is the MySQL and MariaDB dialect. NoBackslashEscapes must match the
// server's NO_BACKSLASH_ESCAPES sql_mode.
type MySQL struct {
	NoBackslashEscapes bool
}

var _ Dialect = MySQL{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Quotes() (string, string) { return "`", "`" }

func (d MySQL) QuoteLiteral(v ast.Value) (string, error) {
	switch v := v.(type) {
	case ast.String:
		if d.NoBackslashEscapes {
			return doubleQuotes(string(v)), nil
		}
		return "'" + escapeBackslash(string(v)) + "'", nil
	case ast.Binary:
		return hexLiteral(v), nil
	}
	return "", unsupportedLiteral(d, v)
}

func (MySQL) Placeholder(int) string { return "?" }

func (MySQL) Features() Features {
	return Features{
		Pagination:       LimitOffset,
		OffsetOnlyLimit:  "18446744073709551615",
		AutoIncrement:    "AUTO_INCREMENT",
		Truncate:         "TRUNCATE TABLE",
		DropIndexOnTable: true,
		IfNotExists:      true,
		MutationLimit:    true,
		MultiAlter:       true,
		AddColumn:        "ADD COLUMN",
		BoolType:         "TINYINT(1)",
		RecursiveWith:    true,
		EmptyInsert:      "VALUES ()",
		TemporaryTables:  true,
	}
}

// escapeBackslash escapes the characters MySQL treats specially inside a
// quoted string when backslash escapes are enabled.
func escapeBackslash(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1a':
			b.WriteString(`\Z`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
