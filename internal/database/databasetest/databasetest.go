// Package databasetest opens isolated in-memory databases for tests.
package databasetest

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/emilythestrangee/devflow/backend/internal/database"
)

// New returns a migrated in-memory sqlite database private to t. The pool
// holds a single connection, so code running inside a transaction must use
// the transaction handle for every query.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + ulid.Make().String() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(context.Background(), db))
	return db
}
