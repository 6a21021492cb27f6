package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotConnected is returned when an adapter is used before Connect.
var ErrNotConnected = errors.New("database not connected")

// SQLAdapter implements Adapter over a database/sql driver. The provider
// packages configure one per driver.
type SQLAdapter struct {
	driver  string
	dsn     string
	dialect SQLDialect
	config  Config
	db      *sqlx.DB

	// maxOpen overrides Config.MaxConnections when positive.
	maxOpen int
}

// NewSQLAdapter creates an adapter for a registered database/sql driver.
func NewSQLAdapter(driver, dsn string, dialect SQLDialect, config Config) *SQLAdapter {
	return &SQLAdapter{driver: driver, dsn: dsn, dialect: dialect, config: config}
}

// LimitOpenConns caps the open connections regardless of the config.
func (a *SQLAdapter) LimitOpenConns(n int) {
	a.maxOpen = n
}

// Connect opens the pool and pings the database.
func (a *SQLAdapter) Connect(ctx context.Context) error {
	timeout := a.config.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, a.driver, a.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", a.dialect, err)
	}

	maxOpen := a.config.MaxConnections
	if a.maxOpen > 0 {
		maxOpen = a.maxOpen
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(max(maxOpen/2, 1))
	}
	if a.config.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(a.config.MaxIdleTime)
	}

	a.db = db
	return nil
}

// Disconnect closes the database connection.
func (a *SQLAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Execute executes a query without returning rows.
func (a *SQLAdapter) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns a single row. It returns nil when
// the adapter is not connected.
func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	if a.db == nil {
		return nil
	}
	return a.db.QueryRowContext(ctx, query, args...)
}

// Begin starts a new transaction.
func (a *SQLAdapter) Begin(ctx context.Context) (Transaction, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTransaction{tx: tx}, nil
}

// Ping checks if the database connection is alive.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// GetDialect returns the SQL dialect.
func (a *SQLAdapter) GetDialect() SQLDialect {
	return a.dialect
}

// DB returns the underlying handle, or nil before Connect.
func (a *SQLAdapter) DB() *sqlx.DB {
	return a.db
}

type sqlTransaction struct {
	tx *sqlx.Tx
}

func (t *sqlTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqlTransaction) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *sqlTransaction) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

func (t *sqlTransaction) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

var (
	_ Adapter     = (*SQLAdapter)(nil)
	_ Transaction = (*sqlTransaction)(nil)
)
