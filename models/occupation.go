package models

import "time"

// Occupation 时间块内的一项具体事务
type Occupation struct {
	ID          string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(50);index" json:"userId"`
	TimeBlockID string    `gorm:"type:varchar(50);index:idx_occupations_time_block" json:"timeBlockId"`
	Task        string    `gorm:"type:text" json:"task"`
	ActivityID  string    `gorm:"type:varchar(50);index" json:"activityId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Occupation) TableName() string {
	return "occupations"
}

// Activity 事务所属的分类，同一用户下按名称精确匹配复用
type Activity struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);uniqueIndex:idx_activities_user_name" json:"userId"`
	Name      string    `gorm:"type:varchar(191);uniqueIndex:idx_activities_user_name" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Activity) TableName() string {
	return "activities"
}

// DefaultActivityName 未填写分类时使用
const DefaultActivityName = "Uncategorised"
