package sqlgen

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// Postgres is the PostgreSQL dialect.
type Postgres struct{}

var _ Dialect = Postgres{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Quotes() (string, string) { return `"`, `"` }

// QuoteLiteral escapes strings with pq.QuoteLiteral, which switches to the
// E'' form when the string holds a backslash. Text values cannot contain
// NUL bytes.
func (d Postgres) QuoteLiteral(v ast.Value) (string, error) {
	switch v := v.(type) {
	case ast.String:
		if strings.IndexByte(string(v), 0) >= 0 {
			return "", unsupportedLiteral(d, v)
		}
		return strings.TrimLeft(pq.QuoteLiteral(string(v)), " "), nil
	case ast.Binary:
		return "decode('" + hex.EncodeToString(v) + "', 'hex')", nil
	}
	return "", unsupportedLiteral(d, v)
}

func (Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (Postgres) Features() Features {
	return Features{
		Pagination:       LimitOffset,
		Returning:        true,
		SerialTypes:      true,
		Truncate:         "TRUNCATE TABLE",
		IfNotExists:      true,
		IndexIfNotExists: true,
		Cascade:          true,
		MultiAlter:       true,
		AddColumn:        "ADD COLUMN",
		BoolType:         "BOOLEAN",
		RecursiveWith:    true,
		UpdateFrom:       true,
		EmptyInsert:      "DEFAULT VALUES",
		TemporaryTables:  true,
	}
}
