package sqlgen

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// SQLServer is the Microsoft SQL Server (T-SQL) dialect.
type SQLServer struct{}

var _ Dialect = SQLServer{}

func (SQLServer) Name() string { return "sqlserver" }

func (SQLServer) Quotes() (string, string) { return "[", "]" }

// QuoteLiteral writes strings as N'' unicode literals and binary values as
// 0x hex constants.
func (d SQLServer) QuoteLiteral(v ast.Value) (string, error) {
	switch v := v.(type) {
	case ast.String:
		return "N'" + strings.ReplaceAll(string(v), "'", "''") + "'", nil
	case ast.Binary:
		return "0x" + hex.EncodeToString(v), nil
	}
	return "", unsupportedLiteral(d, v)
}

func (SQLServer) Placeholder(n int) string { return "@p" + strconv.Itoa(n) }

func (SQLServer) Features() Features {
	return Features{
		Pagination:       OffsetFetch,
		AutoIncrement:    "IDENTITY(1,1)",
		Truncate:         "TRUNCATE TABLE",
		DropIndexOnTable: true,
		AddColumn:        "ADD",
		RenameProcedure:  true,
		BoolType:         "BIT",
		UpdateFrom:       true,
		EmptyInsert:      "DEFAULT VALUES",
	}
}
