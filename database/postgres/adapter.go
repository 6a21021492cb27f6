// Package postgres registers PostgreSQL adapters: "postgres" on lib/pq and
// "pgx" on the pgx stdlib driver.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"github.com/satishbabariya/badger-go/database"
)

func init() {
	database.Register("postgres", New)
	database.Register("postgresql", New)
	database.Register("pgx", NewPgx)
}

// New creates a PostgreSQL adapter on lib/pq. URL style connection strings
// are converted to key/value form.
func New(config database.Config) (database.Adapter, error) {
	dsn, err := connString(config.URL)
	if err != nil {
		return nil, err
	}
	return database.NewSQLAdapter("postgres", dsn, database.PostgreSQL, config), nil
}

func connString(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("postgres: connection url is empty")
	}
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		dsn, err := pq.ParseURL(url)
		if err != nil {
			return "", fmt.Errorf("postgres: invalid connection url: %w", err)
		}
		return dsn, nil
	}
	return url, nil
}

// PgxAdapter is a PostgreSQL adapter on the pgx stdlib driver.
type PgxAdapter struct {
	*database.SQLAdapter
	name string
}

// NewPgx creates a PostgreSQL adapter on pgx. The connection string is
// parsed up front so configuration errors surface before Connect.
func NewPgx(config database.Config) (database.Adapter, error) {
	cc, err := pgx.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("pgx: invalid connection string: %w", err)
	}
	name := stdlib.RegisterConnConfig(cc)
	return &PgxAdapter{
		SQLAdapter: database.NewSQLAdapter("pgx", name, database.PostgreSQL, config),
		name:       name,
	}, nil
}

// Disconnect closes the pool and releases the registered connection config.
func (a *PgxAdapter) Disconnect(ctx context.Context) error {
	defer stdlib.UnregisterConnConfig(a.name)
	return a.SQLAdapter.Disconnect(ctx)
}

var _ database.Adapter = (*PgxAdapter)(nil)
