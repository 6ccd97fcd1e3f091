package models

import (
	"time"
)

// TimeBlock 用户记录的一段时间，endTime 晚于 startTime
type TimeBlock struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index:idx_time_blocks_user_start" json:"userId"`
	StartTime time.Time `gorm:"index:idx_time_blocks_user_start" json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Feeling   int       `json:"feeling"` // -2 到 2
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// 表名
func (TimeBlock) TableName() string {
	return "time_blocks"
}

const (
	FeelingMin = -2
	FeelingMax = 2
)

var feelingLabels = map[int]string{
	-2: "Very low",
	-1: "Low",
	0:  "Neutral",
	1:  "Good",
	2:  "Great",
}

// FeelingLabel 返回心情评分的展示文字
func FeelingLabel(feeling int) string {
	if label, ok := feelingLabels[feeling]; ok {
		return label
	}
	return "Unknown"
}

// Duration 返回时间块的时长
func (b TimeBlock) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}
