// Package executor runs prepared queries on a database/sql connection.
//
// Executor implements query.Engine: it binds the descriptor's named
// parameters for the connection's dialect, applies the query timeout, runs
// the configured middleware and hands the raw result back. Driver errors are
// returned unchanged.
package executor

import (
	"context"
	"database/sql"
	"time"

	"github.com/satishbabariya/badger-go/database"
	"github.com/satishbabariya/badger-go/internal/debug"
	"github.com/satishbabariya/badger-go/query"
	"github.com/satishbabariya/badger-go/query/cache"
	"github.com/satishbabariya/badger-go/query/mapper"
	"github.com/satishbabariya/badger-go/query/params"
)

// DefaultTimeout applies to queries built without a timeout.
const DefaultTimeout = 30 * time.Second

// Querier is the subset of database.Adapter and database.Transaction the
// executor needs.
type Querier interface {
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Executor executes prepared queries. It is safe for concurrent use.
type Executor struct {
	db        Querier
	dialect   database.SQLDialect
	compiler  *params.Compiler
	timeout   time.Duration
	retry     *RetryConfig
	chain     *MiddlewareChain
	cacheSize int
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout sets the timeout for queries that do not carry one.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithRetry retries acquiring results on transient driver errors. Retries
// are off unless this option is given.
func WithRetry(opts ...RetryOption) Option {
	return func(e *Executor) {
		cfg := DefaultRetryConfig()
		for _, opt := range opts {
			opt(cfg)
		}
		e.retry = cfg
	}
}

// WithMiddleware adds middleware around every driver call.
func WithMiddleware(mw ...Middleware) Option {
	return func(e *Executor) {
		for _, m := range mw {
			e.chain.Use(m)
		}
	}
}

// WithCacheSize sets how many compiled statements are kept.
func WithCacheSize(n int) Option {
	return func(e *Executor) {
		e.cacheSize = n
	}
}

// New creates an executor over db. The dialect selects the bindvar style.
func New(db Querier, dialect database.SQLDialect, opts ...Option) *Executor {
	e := &Executor{
		db:      db,
		dialect: dialect,
		timeout: DefaultTimeout,
		chain:   NewMiddlewareChain(),
	}
	for _, opt := range opts {
		opt(e)
	}
	var copts []params.CompilerOption
	if dialect == database.MySQL {
		copts = append(copts, params.WithBackslashEscapes())
	}
	e.compiler = params.NewCompiler(dialect.BindType(), e.cacheSize, copts...)
	return e
}

// Use adds middleware to the chain.
func (e *Executor) Use(mw Middleware) {
	e.chain.Use(mw)
}

// Dialect returns the SQL dialect.
func (e *Executor) Dialect() database.SQLDialect {
	return e.dialect
}

// CacheStats returns statistics of the compiled statement cache.
func (e *Executor) CacheStats() cache.Stats {
	return e.compiler.CacheStats()
}

// Bind renders the descriptor as driver SQL and arguments.
func (e *Executor) Bind(d query.Descriptor) (string, []any, error) {
	return e.compiler.Bind(d.SQL(), d.Parameters())
}

// QueryRows runs d and returns its cursor. The timeout stays in effect until
// the cursor is closed.
func (e *Executor) QueryRows(ctx context.Context, d query.Descriptor) (mapper.Rows, error) {
	info, err := e.prepare(d)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, info.Timeout)
	result := e.chain.Execute(ctx, info, func(ctx context.Context, info QueryInfo) QueryResult {
		rows, err := attempt(ctx, e.retry, func() (*sql.Rows, error) {
			return e.db.Query(ctx, info.SQL, info.Args...)
		})
		return QueryResult{Rows: rows, Error: err}
	})
	if result.Error != nil {
		cancel()
		return nil, result.Error
	}
	return &cancelRows{Rows: result.Rows, cancel: cancel}, nil
}

// QueryScalar runs d and returns the first column of the first row, or nil
// when there is no row.
func (e *Executor) QueryScalar(ctx context.Context, d query.Descriptor) (any, error) {
	info, err := e.prepare(d)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, info.Timeout)
	defer cancel()

	result := e.chain.Execute(ctx, info, func(ctx context.Context, info QueryInfo) QueryResult {
		v, err := attempt(ctx, e.retry, func() (any, error) {
			return e.scalar(ctx, info)
		})
		return QueryResult{Scalar: v, Error: err}
	})
	return result.Scalar, result.Error
}

// Exec runs d and returns the number of affected rows.
func (e *Executor) Exec(ctx context.Context, d query.Descriptor) (int64, error) {
	info, err := e.prepare(d)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, info.Timeout)
	defer cancel()

	result := e.chain.Execute(ctx, info, func(ctx context.Context, info QueryInfo) QueryResult {
		res, err := attempt(ctx, e.retry, func() (sql.Result, error) {
			return e.db.Execute(ctx, info.SQL, info.Args...)
		})
		if err != nil {
			return QueryResult{Error: err}
		}
		n, err := res.RowsAffected()
		return QueryResult{RowsAffected: n, Error: err}
	})
	return result.RowsAffected, result.Error
}

func (e *Executor) prepare(d query.Descriptor) (QueryInfo, error) {
	sqlText, args, err := e.Bind(d)
	if err != nil {
		debug.Debug("Failed to bind query", "error", err)
		return QueryInfo{}, err
	}

	timeout, ok := d.Timeout()
	if !ok {
		timeout = e.timeout
	}

	debug.Debug("Executing query",
		"dialect", e.dialect,
		"mode", d.Mode(),
		"sql", sqlText,
		"args", len(args),
		"timeout", timeout,
	)

	return QueryInfo{SQL: sqlText, Args: args, Mode: d.Mode(), Timeout: timeout}, nil
}

func (e *Executor) scalar(ctx context.Context, info QueryInfo) (any, error) {
	rows, err := e.db.Query(ctx, info.SQL, info.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	v := values[0]
	if b, ok := v.([]byte); ok {
		v = append([]byte(nil), b...)
	}
	return v, rows.Close()
}

// attempt runs fn once, or under the retry policy when one is configured.
func attempt[T any](ctx context.Context, cfg *RetryConfig, fn func() (T, error)) (T, error) {
	if cfg == nil {
		return fn()
	}
	return RetryWithResult(ctx, cfg, fn)
}

// cancelRows releases the query context when the cursor is closed.
type cancelRows struct {
	*sql.Rows
	cancel context.CancelFunc
}

func (r *cancelRows) Close() error {
	err := r.Rows.Close()
	r.cancel()
	return err
}

var _ query.Engine = (*Executor)(nil)
