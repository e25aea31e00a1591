// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"movie-records/internal/config"
	"movie-records/internal/database"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// NewDatabase opens a freshly reset SQLite store under t.TempDir.
func NewDatabase(t *testing.T, atomic bool) *database.Database {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "movies.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		QueryTimeout:    5 * time.Second,
		AtomicWrites:    atomic,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.ResetSchema(context.Background()))
	return db
}

// NewLogger returns a logger that discards everything.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
