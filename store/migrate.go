package store

import (
	"fmt"

	"TimeCanvasGo/models"

	"gorm.io/gorm"
)

// Migrate 进行数据库表结构迁移
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}
	err := db.AutoMigrate(
		&models.User{},
		&models.TimeBlock{},
		&models.Activity{},
		&models.Occupation{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}
