package models

import "time"

// DaySnapshot 某一天的时间线快照
type DaySnapshot struct {
	Date                 string                  `json:"date"`
	Timezone             string                  `json:"timezone"`
	Blocks               []TimeBlock             `json:"blocks"`
	OccupationsByBlockID map[string][]Occupation `json:"occupationsByBlockId"`
	Gaps                 []Gap                   `json:"gaps"`
	IsLoading            bool                    `json:"isLoading"`
	Error                string                  `json:"error,omitempty"`
}

// LastBlockEnd 返回最后一个时间块的结束时间
func (s DaySnapshot) LastBlockEnd() (time.Time, bool) {
	if len(s.Blocks) == 0 {
		return time.Time{}, false
	}
	return s.Blocks[len(s.Blocks)-1].EndTime, true
}

// TimelineItem 时间线中的一项：时间块或其后的空档
type TimelineItem struct {
	Kind  string         `json:"kind"` // block, gap
	Block *TimeBlockView `json:"block,omitempty"`
	Gap   *GapView       `json:"gap,omitempty"`
}

const (
	TimelineKindBlock = "block"
	TimelineKindGap   = "gap"
)

// TimeBlockView 时间块展示结构体
type TimeBlockView struct {
	TimeBlock
	FeelingLabel string       `json:"feelingLabel"`
	Occupations  []Occupation `json:"occupations"`
}

// GapView 空档展示结构体
type GapView struct {
	Gap
	RoundedMinutes int    `json:"roundedMinutes"`
	Label          string `json:"label"`
}

// TimelineResponse 时间线响应结构体
type TimelineResponse struct {
	Date      string         `json:"date"`
	Timezone  string         `json:"timezone"`
	Items     []TimelineItem `json:"items"`
	IsLoading bool           `json:"isLoading"`
	Error     string         `json:"error,omitempty"`
}

// CheckInDefaultsResponse 打卡表单的建议起止时间
type CheckInDefaultsResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CheckInResponse 打卡响应结构体
type CheckInResponse struct {
	Block       TimeBlock    `json:"block"`
	Occupations []Occupation `json:"occupations"`
	Day         DaySnapshot  `json:"day"`
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
