package models

import (
	"strings"
)

// OccupationInput 打卡表单中的一行
type OccupationInput struct {
	Task         string `json:"task"`
	ActivityName string `json:"activityName"`
}

// Trimmed 返回去除首尾空白后的任务与分类
func (o OccupationInput) Trimmed() OccupationInput {
	return OccupationInput{
		Task:         strings.TrimSpace(o.Task),
		ActivityName: strings.TrimSpace(o.ActivityName),
	}
}

// CheckInRequest 打卡请求结构体
// Start/End 接受 RFC3339 或 datetime-local 格式（按请求时区解释）
type CheckInRequest struct {
	Start       string            `json:"start"`
	End         string            `json:"end"`
	Feeling     int               `json:"feeling"`
	Occupations []OccupationInput `json:"occupations"`
}

// TestUserRequest 测试用户请求结构体
type TestUserRequest struct {
	Email string `json:"email"`
}
