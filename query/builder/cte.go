package builder

import "github.com/satishbabariya/go-dbal/query/ast"

// CTE represents a Common Table Expression
type CTE struct {
	Name      string
	Query     ast.Statement
	Columns   []string // Optional column names for the CTE
	Recursive bool     // Whether this is a RECURSIVE CTE
}

// IsRecursive returns true if any CTE is recursive
func IsRecursive(ctes []CTE) bool {
	for _, cte := range ctes {
		if cte.Recursive {
			return true
		}
	}
	return false
}
