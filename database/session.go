package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/satishbabariya/go-dbal/database/stmtcache"
	"github.com/satishbabariya/go-dbal/internal/debug"
	"github.com/satishbabariya/go-dbal/query/sqlgen"
)

// conn is the part of *sql.DB and *sql.Tx a session runs statements on.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type session struct {
	conn   conn
	gen    *sqlgen.Generator
	inline bool
	stmts  *stmtcache.Cache
	db     *sql.DB
	tx     *sql.Tx
}

// Generator returns the statement generator used by the session.
func (s *session) Generator() *sqlgen.Generator {
	return s.gen
}

// Compile resolves q, an expression, a statement or any other compilable
// node, into SQL and driver arguments. Arguments are nil when literals are
// inlined.
func (s *session) Compile(q any) (string, []any, error) {
	if s.inline {
		sql, err := s.gen.Compile(q)
		return sql, nil, err
	}
	return s.gen.Prepare(q)
}

// Exec compiles q and executes it without returning rows.
func (s *session) Exec(ctx context.Context, q any) (sql.Result, error) {
	id, query, args, err := s.compile("exec", q)
	if err != nil {
		return nil, err
	}

	var res sql.Result
	if stmt, release, err := s.prepared(ctx, query); err != nil {
		return nil, s.fail(id, "exec", query, args, err)
	} else if stmt != nil {
		res, err = stmt.ExecContext(ctx, args...)
		release()
		if err != nil {
			return nil, s.fail(id, "exec", query, args, err)
		}
		return res, nil
	}

	res, err = s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, s.fail(id, "exec", query, args, err)
	}
	return res, nil
}

// Query compiles q and executes it, returning the rows.
func (s *session) Query(ctx context.Context, q any) (*sql.Rows, error) {
	id, query, args, err := s.compile("query", q)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if stmt, release, err := s.prepared(ctx, query); err != nil {
		return nil, s.fail(id, "query", query, args, err)
	} else if stmt != nil {
		rows, err = stmt.QueryContext(ctx, args...)
		release()
		if err != nil {
			return nil, s.fail(id, "query", query, args, err)
		}
		return rows, nil
	}

	rows, err = s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.fail(id, "query", query, args, err)
	}
	return rows, nil
}

// QueryRow compiles q and executes it, returning at most one row. Driver
// errors are deferred to Scan as with database/sql.
func (s *session) QueryRow(ctx context.Context, q any) (*sql.Row, error) {
	id, query, args, err := s.compile("query row", q)
	if err != nil {
		return nil, err
	}

	if stmt, release, err := s.prepared(ctx, query); err != nil {
		return nil, s.fail(id, "query row", query, args, err)
	} else if stmt != nil {
		defer release()
		return stmt.QueryRowContext(ctx, args...), nil
	}
	return s.conn.QueryRowContext(ctx, query, args...), nil
}

func (s *session) compile(op string, q any) (string, string, []any, error) {
	id := uuid.NewString()
	query, args, err := s.Compile(q)
	if err != nil {
		return id, "", nil, &QueryError{ID: id, Operation: "compile", Cause: err}
	}
	debug.Debug(op, "id", id, "dialect", s.gen.Dialect().Name(), "sql", query, "args", len(args))
	return id, query, args, nil
}

// prepared returns a cached statement for query, rebound to the transaction
// when the session runs inside one, and the func that hands it back to the
// cache once the call on it has started. The statement is nil when caching
// is off.
func (s *session) prepared(ctx context.Context, query string) (*sql.Stmt, func(), error) {
	if s.stmts == nil || s.db == nil {
		return nil, nil, nil
	}
	stmt, release, err := s.stmts.Prepare(ctx, s.db, query)
	if err != nil {
		return nil, nil, err
	}
	if s.tx != nil {
		return s.tx.StmtContext(ctx, stmt), release, nil
	}
	return stmt, release, nil
}

func (s *session) fail(id, op, query string, args []any, err error) error {
	debug.Debug(op+" failed", "id", id, "error", err)
	return &QueryError{ID: id, Operation: op, Query: query, Args: args, Cause: err}
}

// DB runs compiled statements on a connected adapter.
type DB struct {
	session
	adapter Adapter
}

// New returns a session over a connected adapter.
func New(a Adapter, cfg Config) (*DB, error) {
	db := a.DB()
	if db == nil {
		return nil, ErrNotConnected
	}

	s := session{
		conn:   db,
		db:     db,
		gen:    cfg.Generator(a.Dialect()),
		inline: cfg.InlineLiterals,
	}
	if cfg.StatementCache > 0 && !cfg.InlineLiterals {
		s.stmts = stmtcache.New(cfg.StatementCache)
	}
	return &DB{session: s, adapter: a}, nil
}

// Adapter returns the adapter the session runs on.
func (d *DB) Adapter() Adapter {
	return d.adapter
}

// Close releases cached prepared statements. The adapter stays connected.
func (d *DB) Close() error {
	if d.stmts != nil {
		d.stmts.Clear()
	}
	return nil
}

// Begin starts a transaction.
func (d *DB) Begin(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	s := d.session
	s.conn = tx
	s.tx = tx
	return &Tx{session: s}, nil
}

// Transaction runs fn inside a transaction. The transaction is committed
// when fn returns nil and rolled back otherwise, including on panic.
func (d *DB) Transaction(ctx context.Context, opts *sql.TxOptions, fn func(tx *Tx) error) error {
	tx, err := d.Begin(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Tx runs compiled statements inside a transaction.
type Tx struct {
	session
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
