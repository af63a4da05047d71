//go:build integration

// Package dbtest opens the MySQL database used by the integration tests.
//
//	ITAM_TEST_DB_HOST=127.0.0.1 ITAM_TEST_DB_NAME=itam_test go test -tags integration ./...
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"ITAM-backend/internal/platform/db"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Open connects and applies the schema. Tests are skipped when
// ITAM_TEST_DB_HOST is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	host := os.Getenv("ITAM_TEST_DB_HOST")
	if host == "" {
		t.Skip("ITAM_TEST_DB_HOST not set")
	}
	port, err := strconv.Atoi(env("ITAM_TEST_DB_PORT", "3306"))
	require.NoError(t, err)

	ctx := context.Background()
	conn, err := db.Connect(ctx, db.DatabaseConfig{
		Driver:   db.DriverMySQL,
		Host:     host,
		Port:     port,
		Username: env("ITAM_TEST_DB_USER", "root"),
		Password: os.Getenv("ITAM_TEST_DB_PASSWORD"),
		DBName:   env("ITAM_TEST_DB_NAME", "itam_test"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(ctx, conn))
	return conn
}
