// Package repotest builds throwaway in-memory stores for package tests.
package repotest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"grocery-backend/internal/core/database"
	"grocery-backend/internal/repo"
)

// NewStore 每次返回一个独立的内存 SQLite 库，已完成迁移。
func NewStore(t testing.TB) *repo.Store {
	t.Helper()
	// 单连接：内存库随连接存在
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repo.NewStore(db)
}
