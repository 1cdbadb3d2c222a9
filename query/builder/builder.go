// Package builder provides fluent builders that accumulate SQL fragments and
// statements. Builders only collect data; nothing is escaped until the tree
// is handed to a compiler.
package builder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

var (
	// ErrMalformedBetween is recorded when BETWEEN is not given exactly two
	// bounds.
	ErrMalformedBetween = errors.New("BETWEEN requires exactly two values")
	// ErrInvalidKeyword is recorded when a logic word, operator, join type,
	// referential action, function name or sort direction is not one the
	// builders know how to embed.
	ErrInvalidKeyword = errors.New("invalid SQL keyword")
	// ErrInvalidType is recorded when a DDL column type is not a plain type
	// name.
	ErrInvalidType = errors.New("invalid column type")
)

var (
	symbolPattern = regexp.MustCompile(`^[=<>!~@&|#^*+\-/%]+$`)
	namePattern   = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*(\.[A-Z_][A-Z0-9_]*)?$`)
	typePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ ]*(\([0-9, ]+\))?( [A-Za-z ]+)?(\[\])?$`)
)

// operatorWords may appear in a comparison operator, e.g. IS NOT DISTINCT
// FROM or NOT ILIKE.
var operatorWords = map[string]bool{
	"NOT": true, "IS": true, "IN": true, "LIKE": true, "ILIKE": true,
	"BETWEEN": true, "SIMILAR": true, "TO": true, "DISTINCT": true,
	"FROM": true, "REGEXP": true, "RLIKE": true, "GLOB": true, "MATCH": true,
	"ANY": true, "ALL": true, "SOME": true, "OVERLAPS": true,
}

var joinWords = map[string]bool{
	"INNER": true, "LEFT": true, "RIGHT": true, "FULL": true, "OUTER": true,
	"CROSS": true, "NATURAL": true, "LATERAL": true, "JOIN": true,
}

func normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func invalid(kind, s string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidKeyword, kind, s)
}

// logicWord upper-cases and validates the word joining two conditions.
func logicWord(s string) (string, error) {
	kw := normalize(s)
	switch kw {
	case "", "AND", "OR", "NOT", "AND NOT", "OR NOT":
		return kw, nil
	}
	return "", invalid("logic word", s)
}

// comparison upper-cases and validates a comparison operator. It is made of
// operator words and at most one symbolic operator.
func comparison(s string) (string, error) {
	kw := normalize(s)
	symbols := 0
	for _, tok := range strings.Fields(kw) {
		switch {
		case operatorWords[tok]:
		case symbolPattern.MatchString(tok) && !strings.Contains(tok, "--") && !strings.Contains(tok, "/*"):
			symbols++
		default:
			return "", invalid("operator", s)
		}
	}
	if symbols > 1 {
		return "", invalid("operator", s)
	}
	return kw, nil
}

// joinKeyword upper-cases and validates a join type such as LEFT OUTER.
func joinKeyword(s string) (string, error) {
	kw := normalize(s)
	for _, tok := range strings.Fields(kw) {
		if !joinWords[tok] {
			return "", invalid("join type", s)
		}
	}
	return kw, nil
}

// referentialAction upper-cases and validates an ON DELETE or ON UPDATE
// action.
func referentialAction(s string) (string, error) {
	kw := normalize(s)
	switch kw {
	case "CASCADE", "RESTRICT", "NO ACTION", "SET NULL", "SET DEFAULT":
		return kw, nil
	}
	return "", invalid("referential action", s)
}

// functionName upper-cases and validates a possibly schema-qualified
// function name.
func functionName(s string) (string, error) {
	kw := strings.ToUpper(strings.TrimSpace(s))
	if !namePattern.MatchString(kw) {
		return "", invalid("function name", s)
	}
	return kw, nil
}

func columnType(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !typePattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return s, nil
}

// isSubquery reports whether v renders a complete statement and so needs
// parentheses when used as a table or operand.
func isSubquery(v ast.Value) bool {
	_, ok := v.(ast.Stmt)
	return ok
}

func columnsOf(cols []any) ([]ast.Value, error) {
	out := make([]ast.Value, 0, len(cols))
	for _, c := range cols {
		v, err := ast.ToColumn(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func columnNames(names []string) []ast.Value {
	out := make([]ast.Value, len(names))
	for i, n := range names {
		out[i] = ast.NewColumn(n)
	}
	return out
}
