package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/go-dbal/database"
	"github.com/satishbabariya/go-dbal/internal/queryfile"
	"github.com/satishbabariya/go-dbal/internal/ui"
)

// ErrAborted is returned when a destructive statement is not confirmed.
var ErrAborted = errors.New("aborted")

type execOptions struct {
	names []string
	yes   bool
}

func newExecCommand(a *app) *cobra.Command {
	var opts execOptions

	cmd := &cobra.Command{
		Use:   "exec FILE",
		Short: "Run a query file against the configured database",
		Long: `Run the queries in a YAML query file in order.

Statements that return rows are printed as a table. Statements that drop,
delete, truncate, alter or update ask for confirmation unless --yes is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExec(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.names, "name", "n", nil, "run only the named queries")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "do not ask before destructive statements")

	return cmd
}

func (a *app) runExec(cmd *cobra.Command, path string, opts execOptions) error {
	f, err := queryfile.Load(a.fs, path)
	if err != nil {
		return err
	}
	queries, err := f.Select(opts.names...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, closeDB, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	out := cmd.OutOrStdout()
	for _, q := range queries {
		e, err := q.Expression()
		if err != nil {
			return err
		}
		text, _, err := db.Compile(e)
		if err != nil {
			return err
		}

		if destructive(text) {
			if !opts.yes {
				ui.PrintBox(cmd.ErrOrStderr(), q.Name, text)
			}
			ok, err := ui.Confirm(fmt.Sprintf("Run %s?", q.Name), opts.yes)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("query %s: %w", q.Name, ErrAborted)
			}
		}

		ui.PrintComment(out, "%s", q.Name)
		if returnsRows(text) {
			if err := printRows(ctx, out, db, e); err != nil {
				return err
			}
			continue
		}

		res, err := db.Exec(ctx, e)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			ui.PrintSuccess(out, "ok")
			continue
		}
		ui.PrintSuccess(out, "%d row(s) affected", n)
	}
	return nil
}

func printRows(ctx context.Context, w io.Writer, db *database.DB, q any) error {
	rows, err := db.Query(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return err
	}

	var data [][]string
	for rows.Next() {
		values := make([]any, len(headers))
		ptrs := make([]any, len(headers))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := ui.PrintTable(w, headers, data); err != nil {
		return err
	}
	ui.PrintInfo(w, "%d row(s)", len(data))
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func leadingKeyword(text string) string {
	fields := strings.Fields(strings.TrimLeft(text, "( \t\n"))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func destructive(text string) bool {
	switch leadingKeyword(text) {
	case "DROP", "DELETE", "TRUNCATE", "ALTER", "UPDATE":
		return true
	}
	return false
}

func returnsRows(text string) bool {
	switch leadingKeyword(text) {
	case "SELECT", "WITH", "SHOW", "PRAGMA", "VALUES", "EXPLAIN":
		return true
	}
	return strings.Contains(strings.ToUpper(text), " RETURNING ")
}
