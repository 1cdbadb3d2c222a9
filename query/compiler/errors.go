package compiler

import (
	"errors"

	"github.com/satishbabariya/go-dbal/query/ast"
)

var (
	// ErrMissingParameter is returned in strict mode when a placeholder has
	// no value. Outside strict mode the placeholder compiles to NULL.
	ErrMissingParameter = errors.New("missing query parameter")
	// ErrUnsupportedValue is returned for values with no SQL representation.
	ErrUnsupportedValue = ast.ErrUnsupportedValue
	// ErrNoLiteralQuoter is returned when a string or binary value must be
	// escaped but the context has no dialect escaper.
	ErrNoLiteralQuoter = errors.New("compile context has no literal quoter")
	// ErrNoStatementRenderer is returned when a statement is compiled
	// without a dialect to render it.
	ErrNoStatementRenderer = errors.New("compile context has no statement renderer")
	// ErrNoPlaceholder is returned by Prepare when the context cannot
	// produce driver placeholders.
	ErrNoPlaceholder = errors.New("compile context has no placeholder format")
	// ErrRecursiveExpression is returned when an expression contains itself.
	ErrRecursiveExpression = errors.New("expression contains itself")
)
