// Package mysql registers the MySQL adapter.
package mysql

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/satishbabariya/badger-go/database"
)

func init() {
	database.Register("mysql", New)
}

// New creates a MySQL adapter. DATE and DATETIME columns are scanned as
// time.Time.
func New(config database.Config) (database.Adapter, error) {
	dsn, err := normalizeDSN(config)
	if err != nil {
		return nil, err
	}
	return database.NewSQLAdapter("mysql", dsn, database.MySQL, config), nil
}

func normalizeDSN(config database.Config) (string, error) {
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(config.URL, "mysql://"))
	if err != nil {
		return "", fmt.Errorf("mysql: invalid dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Timeout == 0 && config.ConnectTimeout > 0 {
		cfg.Timeout = config.ConnectTimeout
	}
	return cfg.FormatDSN(), nil
}
