package models

import "time"

// GapIDSeparator 连接相邻两个时间块 ID
const GapIDSeparator = "__"

// Gap 相邻时间块之间未记录的时间，只在加载时计算，不落库
type Gap struct {
	ID              string    `json:"id"`
	FromBlockID     string    `json:"fromBlockId"`
	ToBlockID       string    `json:"toBlockId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes float64   `json:"durationMinutes"`
}

// GapID 由前后两个时间块 ID 组成
func GapID(fromBlockID, toBlockID string) string {
	return fromBlockID + GapIDSeparator + toBlockID
}
