// Package sqlite registers the SQLite adapter.
package sqlite

import (
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/satishbabariya/badger-go/database"
)

func init() {
	database.Register("sqlite", New)
	database.Register("sqlite3", New)
}

// New creates a SQLite adapter with foreign keys enforced. In-memory
// databases are limited to one connection so every query sees the same
// database.
func New(config database.Config) (database.Adapter, error) {
	dsn, memory, err := normalizeDSN(config.URL)
	if err != nil {
		return nil, err
	}
	a := database.NewSQLAdapter("sqlite3", dsn, database.SQLite, config)
	if memory {
		a.LimitOpenConns(1)
	}
	return a, nil
}

func normalizeDSN(url string) (dsn string, memory bool, err error) {
	dsn = strings.TrimPrefix(url, "sqlite://")
	dsn = strings.TrimPrefix(dsn, "sqlite:")
	if dsn == "" {
		return "", false, fmt.Errorf("sqlite: database path is empty")
	}

	memory = strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")

	if !strings.Contains(dsn, "_foreign_keys=") && !strings.Contains(dsn, "_fk=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=1"
	}
	return dsn, memory, nil
}
