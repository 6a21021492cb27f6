package mysql

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/badger-go/database"
)

func TestNormalizeDSN(t *testing.T) {
	dsn, err := normalizeDSN(database.Config{
		URL:            "ann:secret@tcp(db.local:3306)/shop",
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "shop", cfg.DBName)
	assert.Equal(t, "db.local:3306", cfg.Addr)

	_, err = normalizeDSN(database.Config{URL: "not a dsn"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	a, err := New(database.Config{URL: "root@tcp(localhost)/shop"})
	require.NoError(t, err)
	assert.Equal(t, database.MySQL, a.GetDialect())
	assert.Contains(t, database.Providers(), "mysql")
}

func TestNormalizeDSN_URLPrefix(t *testing.T) {
	dsn, err := normalizeDSN(database.Config{URL: "mysql://root@tcp(localhost:3306)/shop"})
	require.NoError(t, err)
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.DBName)
}
