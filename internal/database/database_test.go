package database

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/devflow/backend/internal/config"
	"github.com/emilythestrangee/devflow/backend/internal/models"
)

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "devflow.db")

	svc, err := New(ctx, config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		DSN:            dsn,
		ConnectTimeout: time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	for _, m := range models.All() {
		assert.True(t, svc.GetDB().Migrator().HasTable(m), "missing table for %T", m)
	}

	health := svc.Health(ctx)
	assert.Equal(t, "up", health["status"])
	assert.Equal(t, config.DriverSQLite, health["driver"])
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DatabaseConfig{Driver: "oracle"}, nil)
	assert.ErrorContains(t, err, `unknown database driver: "oracle"`)
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	body, err := fs.ReadFile(Migrations(), entries[0].Name())
	require.NoError(t, err)
	sql := string(body)

	assert.True(t, strings.HasPrefix(sql, "-- +goose Up"))
	for _, table := range []string{"users", "accounts", "questions", "tags", "question_tags", "answers", "votes", "collections"} {
		assert.Contains(t, sql, "CREATE TABLE "+table+" (")
	}
	assert.Contains(t, sql, "CREATE UNIQUE INDEX idx_tags_name_key ON tags (name_key);")
}
