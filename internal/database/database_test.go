package database

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(Settings{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "test.db")}, logger)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(context.Background(), db))

	var tables []string
	require.NoError(t, db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables).Error)
	for _, table := range []string{"plans", "users", "subscriptions", "user_usages", "interview_sessions", "job_fields"} {
		assert.Contains(t, tables, table)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Settings{Driver: "oracle"}, slog.Default())
	assert.ErrorContains(t, err, "unsupported database driver")
}
