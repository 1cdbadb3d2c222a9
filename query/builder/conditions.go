package builder

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// Conditions builds a boolean expression one comparison at a time.
//
// Nesting is written straight into the template: Open appends "(" and
// Close appends ")". The builder only tracks whether anything has been
// written since the start or the last Open, which decides whether the next
// comparison is preceded by its logic operator.
type Conditions struct {
	expr  *ast.Expression
	empty bool
}

// NewConditions returns an empty condition chain.
func NewConditions() *Conditions {
	return &Conditions{expr: ast.NewExpression(""), empty: true}
}

// Where starts a chain with a single comparison.
func Where(left any, operator string, right any) *Conditions {
	return NewConditions().And(left, operator, right)
}

// Expression returns the accumulated expression.
func (c *Conditions) Expression() *ast.Expression { return c.expr }

// Err returns the first error recorded while building.
func (c *Conditions) Err() error {
	if c == nil {
		return nil
	}
	return c.expr.Err()
}

// IsEmpty reports whether nothing has been added at all.
func (c *Conditions) IsEmpty() bool { return c.expr.Template() == "" }

// Add appends "left operator right" joined to the previous comparison by
// logic. Plain strings are values, not column names; use AddColumn or
// ast.NewColumn to compare columns. An empty operator appends left alone.
func (c *Conditions) Add(logic string, left any, operator string, right any) *Conditions {
	c.logic(logic)
	c.empty = false
	c.expr.Append("?", left)
	return c.operand(operator, right)
}

// AddColumn is Add with both sides converted to columns.
func (c *Conditions) AddColumn(logic string, left any, operator string, right any) *Conditions {
	l, err := ast.ToColumn(left)
	if err != nil {
		c.expr.Fail(err)
		return c
	}
	c.logic(logic)
	c.empty = false
	c.expr.AppendValues("?", l)

	switch r := right.(type) {
	case []string:
		return c.operand(operator, columnNames(r))
	case []any:
		cols, err := columnsOf(r)
		if err != nil {
			c.expr.Fail(err)
			return c
		}
		return c.operand(operator, ast.List(cols))
	}
	r, err := ast.ToColumn(right)
	if err != nil {
		c.expr.Fail(err)
		return c
	}
	return c.operand(operator, r)
}

// And appends a comparison joined by AND.
func (c *Conditions) And(left any, operator string, right any) *Conditions {
	return c.Add("AND", left, operator, right)
}

// Or appends a comparison joined by OR.
func (c *Conditions) Or(left any, operator string, right any) *Conditions {
	return c.Add("OR", left, operator, right)
}

// AndNot appends a negated comparison joined by AND.
func (c *Conditions) AndNot(left any, operator string, right any) *Conditions {
	return c.Add("AND NOT", left, operator, right)
}

// OrNot appends a negated comparison joined by OR.
func (c *Conditions) OrNot(left any, operator string, right any) *Conditions {
	return c.Add("OR NOT", left, operator, right)
}

// AndColumn compares two columns, joined by AND.
func (c *Conditions) AndColumn(left any, operator string, right any) *Conditions {
	return c.AddColumn("AND", left, operator, right)
}

// OrColumn compares two columns, joined by OR.
func (c *Conditions) OrColumn(left any, operator string, right any) *Conditions {
	return c.AddColumn("OR", left, operator, right)
}

// Open starts a parenthesized group joined by logic.
func (c *Conditions) Open(logic string) *Conditions {
	c.logic(logic)
	c.expr.Append("(")
	c.empty = true
	return c
}

// OpenAdd starts a group and adds its first comparison. A negated logic
// word applies to the group, not to the comparison.
func (c *Conditions) OpenAdd(logic string, left any, operator string, right any) *Conditions {
	return c.Open(logic).Add("AND", left, operator, right)
}

// AndOpen starts a group joined by AND.
func (c *Conditions) AndOpen() *Conditions { return c.Open("AND") }

// OrOpen starts a group joined by OR.
func (c *Conditions) OrOpen() *Conditions { return c.Open("OR") }

// AndNotOpen starts a negated group joined by AND.
func (c *Conditions) AndNotOpen() *Conditions { return c.Open("AND NOT") }

// OrNotOpen starts a negated group joined by OR.
func (c *Conditions) OrNotOpen() *Conditions { return c.Open("OR NOT") }

// Close ends the innermost group. The closed group counts as content for
// the enclosing level.
func (c *Conditions) Close() *Conditions {
	c.expr.Append(")")
	c.empty = false
	return c
}

func (c *Conditions) logic(logic string) {
	kw, err := logicWord(logic)
	if err != nil {
		c.expr.Fail(err)
		return
	}
	if kw == "" {
		kw = "AND"
	}
	if !c.empty {
		c.expr.Append(" " + kw + " ")
		return
	}
	// Nothing to join to, but a negation still applies.
	if kw == "NOT" || strings.HasSuffix(kw, " NOT") {
		c.expr.Append("NOT ")
	}
}

func (c *Conditions) operand(operator string, right any) *Conditions {
	op, err := comparison(operator)
	if err != nil {
		c.expr.Fail(err)
		return c
	}
	switch op {
	case "":
	case "BETWEEN", "NOT BETWEEN":
		lo, hi, err := bounds(right)
		if err != nil {
			c.expr.Fail(err)
			return c
		}
		c.expr.AppendValues(" "+op+" ? AND ?", lo, hi)
	case "IN", "NOT IN":
		c.expr.Append(" "+op+" (?)", right)
	default:
		v, err := ast.ValueOf(right)
		if err != nil {
			c.expr.Fail(err)
			return c
		}
		if isSubquery(v) {
			c.expr.AppendValues(" "+op+" (?)", v)
		} else {
			c.expr.AppendValues(" "+op+" ?", v)
		}
	}
	return c
}

func bounds(right any) (ast.Value, ast.Value, error) {
	v, err := ast.ValueOf(right)
	if err != nil {
		return nil, nil, err
	}
	list, ok := v.(ast.List)
	if !ok || len(list) != 2 {
		return nil, nil, fmt.Errorf("%w: got %v", ErrMalformedBetween, right)
	}
	return list[0], list[1], nil
}
