package sqlgen

import "github.com/satishbabariya/go-dbal/query/ast"

// Generic is a portable dialect for drivers without a dedicated one, in the
// style of PDO: ANSI double quoted identifiers unless Open and Close are
// set, doubled single quotes and ? placeholders.
type Generic struct {
	Open  string
	Close string
}

var _ Dialect = Generic{}

func (Generic) Name() string { return "generic" }

func (d Generic) Quotes() (string, string) {
	if d.Open == "" && d.Close == "" {
		return `"`, `"`
	}
	return d.Open, d.Close
}

func (d Generic) QuoteLiteral(v ast.Value) (string, error) {
	switch v := v.(type) {
	case ast.String:
		return doubleQuotes(string(v)), nil
	case ast.Binary:
		return hexLiteral(v), nil
	}
	return "", unsupportedLiteral(d, v)
}

func (Generic) Placeholder(int) string { return "?" }

func (Generic) Features() Features {
	return Features{
		Pagination:    LimitOffset,
		Truncate:      "DELETE FROM",
		IfNotExists:   true,
		AddColumn:     "ADD COLUMN",
		BoolType:      "BOOLEAN",
		RecursiveWith: true,
		EmptyInsert:   "DEFAULT VALUES",
	}
}
