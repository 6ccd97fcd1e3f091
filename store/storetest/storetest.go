// Package storetest 为测试提供基于 sqlite 临时文件的 Store
package storetest

import (
	"path/filepath"
	"testing"

	"TimeCanvasGo/config"
	"TimeCanvasGo/store"

	"gorm.io/gorm"
)

// New 打开并迁移一个临时数据库，测试结束时自动关闭
func New(t testing.TB) (*store.Store, *gorm.DB) {
	t.Helper()

	db, err := config.OpenDB(config.Config{
		Environment: "test",
		DBDriver:    config.DriverSQLite,
		DBPath:      filepath.Join(t.TempDir(), "timecanvas.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s, err := store.New(db)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return s, db
}
