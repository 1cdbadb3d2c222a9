package builder

import (
	"fmt"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// FrameBound is one end of a window frame. Build it with the functions
// below; the zero value is invalid.
type FrameBound struct {
	kind   string
	offset *int
}

func (b FrameBound) String() string {
	if b.offset != nil {
		return fmt.Sprintf("%d %s", *b.offset, b.kind)
	}
	return b.kind
}

func (b FrameBound) valid() bool {
	if b.offset != nil && *b.offset < 0 {
		return false
	}
	return b.kind != ""
}

// UnboundedPreceding is the UNBOUNDED PRECEDING frame bound.
func UnboundedPreceding() FrameBound { return FrameBound{kind: "UNBOUNDED PRECEDING"} }

// Preceding is the "n PRECEDING" frame bound.
func Preceding(n int) FrameBound { return FrameBound{kind: "PRECEDING", offset: &n} }

// CurrentRow is the CURRENT ROW frame bound.
func CurrentRow() FrameBound { return FrameBound{kind: "CURRENT ROW"} }

// Following is the "n FOLLOWING" frame bound.
func Following(n int) FrameBound { return FrameBound{kind: "FOLLOWING", offset: &n} }

// UnboundedFollowing is the UNBOUNDED FOLLOWING frame bound.
func UnboundedFollowing() FrameBound { return FrameBound{kind: "UNBOUNDED FOLLOWING"} }

// Window is the OVER (...) clause of a window function.
type Window struct {
	partition []ast.Value
	order     []Order
	frame     string
	err       error
}

// NewWindow returns an empty window, which spans the whole result.
func NewWindow() *Window { return &Window{} }

func (w *Window) fail(err error) *Window {
	if w.err == nil {
		w.err = err
	}
	return w
}

// PartitionBy sets the partition columns.
func (w *Window) PartitionBy(columns ...any) *Window {
	cols, err := columnsOf(columns)
	if err != nil {
		return w.fail(err)
	}
	w.partition = cols
	return w
}

// OrderBy appends a sort term.
func (w *Window) OrderBy(column any, direction string) *Window {
	o, err := orderTerm(column, direction)
	if err != nil {
		return w.fail(err)
	}
	w.order = append(w.order, o)
	return w
}

// Rows sets a ROWS BETWEEN frame.
func (w *Window) Rows(start, end FrameBound) *Window { return w.between("ROWS", start, end) }

// Range sets a RANGE BETWEEN frame.
func (w *Window) Range(start, end FrameBound) *Window { return w.between("RANGE", start, end) }

func (w *Window) between(unit string, start, end FrameBound) *Window {
	if !start.valid() || !end.valid() {
		return w.fail(fmt.Errorf("%w: frame bound %q", ErrInvalidKeyword, start.String()+" AND "+end.String()))
	}
	w.frame = unit + " BETWEEN " + start.String() + " AND " + end.String()
	return w
}

// Expression returns the window definition without its parentheses.
func (w *Window) Expression() *ast.Expression {
	e := ast.NewExpression("")
	if w.err != nil {
		return e.Fail(w.err)
	}
	sep := ""
	if len(w.partition) > 0 {
		e.AppendValues("PARTITION BY ?", ast.List(w.partition))
		sep = " "
	}
	if len(w.order) > 0 {
		e.Append(sep + "ORDER BY ")
		for i, o := range w.order {
			if i > 0 {
				e.Append(", ")
			}
			e.AppendValues("?", o.Value)
			if o.Direction != "" {
				e.Append(" " + o.Direction)
			}
		}
		sep = " "
	}
	if w.frame != "" {
		e.Append(sep + w.frame)
	}
	return e
}

// WindowFunction is a function call evaluated over a window, usable
// anywhere a column is.
type WindowFunction struct {
	Function string
	Args     []ast.Value
	Window   *Window
	err      error
}

// Over builds fn(args...) OVER (window). Strings in args are column names.
func Over(fn string, window *Window, args ...any) *WindowFunction {
	f := &WindowFunction{Function: fn, Window: window}
	for _, a := range args {
		v, err := ast.ToColumn(a)
		if err != nil {
			f.err = err
			return f
		}
		f.Args = append(f.Args, v)
	}
	return f
}

// Err returns the first error recorded while building.
func (f *WindowFunction) Err() error {
	if f.err != nil {
		return f.err
	}
	if f.Window != nil {
		return f.Window.err
	}
	return nil
}

// Expression renders the call.
func (f *WindowFunction) Expression() *ast.Expression {
	e := ast.NewExpression("")
	if err := f.Err(); err != nil {
		return e.Fail(err)
	}
	name, err := functionName(f.Function)
	if err != nil {
		return e.Fail(err)
	}
	e.Append(name + "(")
	for i, a := range f.Args {
		if i > 0 {
			e.Append(", ")
		}
		e.AppendValues("?", a)
	}
	if f.Window == nil {
		return e.Append(") OVER ()")
	}
	return e.AppendValues(") OVER (?)", f.Window.Expression())
}

// RowNumber is ROW_NUMBER() OVER (window).
func RowNumber(w *Window) *WindowFunction { return Over("ROW_NUMBER", w) }

// Rank is RANK() OVER (window).
func Rank(w *Window) *WindowFunction { return Over("RANK", w) }

// DenseRank is DENSE_RANK() OVER (window).
func DenseRank(w *Window) *WindowFunction { return Over("DENSE_RANK", w) }

// Sum is SUM(column) OVER (window).
func Sum(column any, w *Window) *WindowFunction { return Over("SUM", w, column) }

// Avg is AVG(column) OVER (window).
func Avg(column any, w *Window) *WindowFunction { return Over("AVG", w, column) }

// Count is COUNT(column) OVER (window). An empty column counts rows.
func Count(column any, w *Window) *WindowFunction {
	if column == nil || column == "" {
		column = "*"
	}
	return Over("COUNT", w, column)
}

// Max is MAX(column) OVER (window).
func Max(column any, w *Window) *WindowFunction { return Over("MAX", w, column) }

// Min is MIN(column) OVER (window).
func Min(column any, w *Window) *WindowFunction { return Over("MIN", w, column) }

// Lag is LAG(column, offset, default) OVER (window).
func Lag(column any, offset int, def any, w *Window) *WindowFunction {
	return offsetFunction("LAG", column, offset, def, w)
}

// Lead is LEAD(column, offset, default) OVER (window).
func Lead(column any, offset int, def any, w *Window) *WindowFunction {
	return offsetFunction("LEAD", column, offset, def, w)
}

// FirstValue is FIRST_VALUE(column) OVER (window).
func FirstValue(column any, w *Window) *WindowFunction { return Over("FIRST_VALUE", w, column) }

// LastValue is LAST_VALUE(column) OVER (window).
func LastValue(column any, w *Window) *WindowFunction { return Over("LAST_VALUE", w, column) }

func offsetFunction(fn string, column any, offset int, def any, w *Window) *WindowFunction {
	f := Over(fn, w, column)
	d, err := ast.ValueOf(def)
	if err != nil {
		if f.err == nil {
			f.err = err
		}
		return f
	}
	f.Args = append(f.Args, ast.Int(offset), d)
	return f
}
