// Package queryfile reads named query templates from YAML.
//
// A file lists queries with a template, positional args and named params:
//
//	queries:
//	  - name: active_users
//	    sql: "SELECT ? FROM ? WHERE ? = :active"
//	    args: [{column: [id, name]}, {table: users}, {column: active}]
//	    params: {active: true}
//
// Values are plain YAML scalars and lists, or single-key mappings that mark
// identifiers and raw SQL: table, column, ident and raw.
package queryfile

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/go-dbal/query/ast"
)

// ErrUnknownQuery is returned when a named query is not in the file.
var ErrUnknownQuery = errors.New("unknown query")

// File is a parsed query file.
type File struct {
	Queries []Query `yaml:"queries"`
}

// Query is one named template.
type Query struct {
	Name   string         `yaml:"name"`
	SQL    string         `yaml:"sql"`
	Args   []any          `yaml:"args"`
	Params map[string]any `yaml:"params"`
}

// Parse decodes a query file.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse query file: %w", err)
	}
	for i, q := range f.Queries {
		if q.Name == "" {
			return nil, fmt.Errorf("query %d has no name", i)
		}
	}
	return &f, nil
}

// Load reads and parses the query file at path.
func Load(fsys afero.Fs, path string) (*File, error) {
	r, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// Select returns the queries named in names, in file order. No names
// selects every query.
func (f *File) Select(names ...string) ([]Query, error) {
	if len(names) == 0 {
		return f.Queries, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []Query
	for _, q := range f.Queries {
		if want[q.Name] {
			out = append(out, q)
			delete(want, q.Name)
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %v", ErrUnknownQuery, missing)
	}
	return out, nil
}

// Expression builds the expression for q.
func (q Query) Expression() (*ast.Expression, error) {
	e := ast.NewExpression(q.SQL)
	for i, arg := range q.Args {
		v, err := value(arg)
		if err != nil {
			return nil, fmt.Errorf("query %s: arg %d: %w", q.Name, i, err)
		}
		e.Param(i, v)
	}

	keys := make([]string, 0, len(q.Params))
	for k := range q.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := value(q.Params[k])
		if err != nil {
			return nil, fmt.Errorf("query %s: param %s: %w", q.Name, k, err)
		}
		e.Param(k, v)
	}

	return e, e.Err()
}

func value(v any) (any, error) {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			item, err := value(item)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case map[string]any:
		if len(v) != 1 {
			return nil, fmt.Errorf("mapping must have exactly one of table, column, ident, raw")
		}
		for kind, raw := range v {
			return marked(kind, raw)
		}
	}
	return v, nil
}

func marked(kind string, raw any) (any, error) {
	if kind == "raw" {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("raw must be a string, got %T", raw)
		}
		return ast.Raw(s), nil
	}

	names, err := nameList(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	ids := make(ast.List, len(names))
	for i, n := range names {
		switch kind {
		case "table":
			ids[i] = ast.NewTable(n)
		case "column":
			ids[i] = ast.NewColumn(n)
		case "ident":
			ids[i] = ast.NewIdentifier(n)
		default:
			return nil, fmt.Errorf("unknown value kind %q", kind)
		}
	}
	if _, single := raw.(string); single {
		return ids[0], nil
	}
	return ids, nil
}

func nameList(raw any) ([]string, error) {
	switch raw := raw.(type) {
	case string:
		return []string{raw}, nil
	case []any:
		out := make([]string, len(raw))
		for i, item := range raw {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a name, got %T", item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a name or list of names, got %T", raw)
}
