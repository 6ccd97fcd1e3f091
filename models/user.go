package models

import (
	"time"
)

// User 用户模型，ID 与身份提供方的用户标识一致
type User struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(100)" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// PlaceholderEmail 身份提供方未返回邮箱时使用
func PlaceholderEmail(userID string) string {
	return userID + "@placeholder.local"
}
