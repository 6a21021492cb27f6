// Package database defines the adapter interface the executor runs on and a
// registry of adapters by provider name.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Execute executes a SQL statement.
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRow executes a query that returns a single row.
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row

	// Begin starts a transaction.
	Begin(ctx context.Context) (Transaction, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetDialect returns the SQL dialect.
	GetDialect() SQLDialect
}

// Transaction defines the transaction interface.
type Transaction interface {
	// Commit commits the transaction.
	Commit() error

	// Rollback rolls back the transaction.
	Rollback() error

	// Execute executes a statement within the transaction.
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Query executes a query within the transaction.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRow executes a single row query within the transaction.
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
	// SQLServer dialect. No adapter ships for it; it only selects @p bindvars.
	SQLServer SQLDialect = "sqlserver"
)

// BindType returns the sqlx bindvar style used by the dialect.
func (d SQLDialect) BindType() int {
	switch d {
	case SQLite:
		return sqlx.BindType("sqlite3")
	default:
		return sqlx.BindType(string(d))
	}
}

// Config holds database connection configuration.
type Config struct {
	// Provider selects the adapter: postgres, pgx, mysql or sqlite.
	Provider string
	// URL is the driver connection string.
	URL string
	// MaxConnections caps open connections; zero leaves the driver default.
	MaxConnections int
	// MaxIdleTime closes idle connections after this long; zero keeps them.
	MaxIdleTime time.Duration
	// ConnectTimeout bounds Connect; zero uses DefaultConnectTimeout.
	ConnectTimeout time.Duration
}

// DefaultConnectTimeout bounds Connect when Config.ConnectTimeout is unset.
const DefaultConnectTimeout = 10 * time.Second
