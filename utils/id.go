package utils

import (
	"TimeCanvasGo/config"

	"github.com/google/uuid"
)

// GenerateID 生成时间块、事务、分类等记录的主键
func GenerateID() string {
	id := uuid.NewString()
	config.Logger.Debugw("生成新ID", "id", id)
	return id
}
