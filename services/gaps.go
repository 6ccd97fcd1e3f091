package services

import (
	"TimeCanvasGo/models"
)

// GapThresholdMinutes 小于等于该值的间隔视为连续
const GapThresholdMinutes = 0.5

// ComputeGaps 计算相邻时间块之间的空档。
// blocks 必须已按 StartTime 升序排列，这里不会重新排序；
// 重叠的时间块得到负的间隔，同样被阈值过滤掉。
func ComputeGaps(blocks []models.TimeBlock) []models.Gap {
	gaps := []models.Gap{}
	for i := 0; i < len(blocks)-1; i++ {
		current := blocks[i]
		next := blocks[i+1]
		diffMinutes := next.StartTime.Sub(current.EndTime).Minutes()
		if diffMinutes <= GapThresholdMinutes {
			continue
		}
		gaps = append(gaps, models.Gap{
			ID:              models.GapID(current.ID, next.ID),
			FromBlockID:     current.ID,
			ToBlockID:       next.ID,
			StartTime:       current.EndTime,
			EndTime:         next.StartTime,
			DurationMinutes: diffMinutes,
		})
	}
	return gaps
}
