package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/go-dbal/internal/queryfile"
	"github.com/satishbabariya/go-dbal/internal/ui"
	"github.com/satishbabariya/go-dbal/internal/watch"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

type renderOptions struct {
	dialect  string
	names    []string
	prepare  bool
	markdown bool
	watch    bool
}

func newRenderCommand(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Print the SQL a query file compiles to",
		Long: `Compile the queries in a YAML query file for one dialect and print them.

With --prepare, values become driver placeholders and the arguments are
printed as a comment after each statement. With --markdown, the output is
a markdown document rendered for the terminal. With --watch, the file is
rendered again whenever it changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dialect, "dialect", "d", "", "target dialect (default: configured provider)")
	cmd.Flags().StringSliceVarP(&opts.names, "name", "n", nil, "render only the named queries")
	cmd.Flags().BoolVar(&opts.prepare, "prepare", false, "use driver placeholders")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "render as a markdown document")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the file changes")

	return cmd
}

func (a *app) runRender(cmd *cobra.Command, path string, opts renderOptions) error {
	provider := opts.dialect
	if provider == "" {
		provider = a.cfg.Database.Provider
	}

	gen, err := sqlgen.NewGenerator(provider,
		sqlgen.WithTablePrefix(a.cfg.Database.TablePrefix),
		sqlgen.WithStrict(a.cfg.Database.Strict),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	render := func() error {
		return a.renderFile(out, gen, path, opts)
	}

	if !opts.watch {
		return render()
	}

	errOut := cmd.ErrOrStderr()
	w, err := watch.NewWatcher(path, render, func(err error) {
		ui.PrintError(errOut, "%v", err)
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ui.PrintInfo(errOut, "watching %s, press Ctrl+C to stop", path)
	<-ctx.Done()
	return nil
}

// rendered is one compiled query.
type rendered struct {
	name string
	sql  string
	args []any
}

func (a *app) renderFile(w io.Writer, gen *sqlgen.Generator, path string, opts renderOptions) error {
	f, err := queryfile.Load(a.fs, path)
	if err != nil {
		return err
	}
	queries, err := f.Select(opts.names...)
	if err != nil {
		return err
	}

	out := make([]rendered, 0, len(queries))
	for _, q := range queries {
		e, err := q.Expression()
		if err != nil {
			return err
		}

		r := rendered{name: q.Name}
		if opts.prepare {
			r.sql, r.args, err = gen.Prepare(e)
		} else {
			r.sql, err = gen.Compile(e)
		}
		if err != nil {
			return fmt.Errorf("query %s: %w", q.Name, err)
		}
		out = append(out, r)
	}

	dialect := gen.Dialect().Name()
	if opts.markdown {
		return ui.PrintMarkdown(w, markdown(path, dialect, out))
	}

	for _, r := range out {
		ui.PrintComment(w, "%s (%s)", r.name, dialect)
		fmt.Fprintf(w, "%s;\n", r.sql)
		if len(r.args) > 0 {
			ui.PrintComment(w, "args: %v", r.args)
		}
	}
	return nil
}

func markdown(path, dialect string, queries []rendered) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", filepath.Base(path), dialect)
	for _, r := range queries {
		fmt.Fprintf(&b, "## %s\n\n```sql\n%s;\n```\n\n", r.name, r.sql)
		if len(r.args) > 0 {
			b.WriteString("Arguments:\n\n")
			for i, arg := range r.args {
				fmt.Fprintf(&b, "%d. `%v`\n", i+1, arg)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
