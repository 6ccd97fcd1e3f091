package services

import (
	"fmt"
	"math"
	"time"

	"TimeCanvasGo/models"
)

// 没有时间块时，打卡表单默认从半小时前开始
const defaultCheckInWindow = 30 * time.Minute

// BuildTimeline 将时间块与其后的空档交错排列
func BuildTimeline(snapshot models.DaySnapshot) []models.TimelineItem {
	following := make(map[string]models.Gap, len(snapshot.Gaps))
	for _, gap := range snapshot.Gaps {
		if _, ok := following[gap.FromBlockID]; !ok {
			following[gap.FromBlockID] = gap
		}
	}

	items := make([]models.TimelineItem, 0, len(snapshot.Blocks)+len(snapshot.Gaps))
	for _, block := range snapshot.Blocks {
		occupations := snapshot.OccupationsByBlockID[block.ID]
		if occupations == nil {
			occupations = []models.Occupation{}
		}
		items = append(items, models.TimelineItem{
			Kind: models.TimelineKindBlock,
			Block: &models.TimeBlockView{
				TimeBlock:    block,
				FeelingLabel: models.FeelingLabel(block.Feeling),
				Occupations:  occupations,
			},
		})

		gap, ok := following[block.ID]
		if !ok || gap.DurationMinutes <= 0 {
			continue
		}
		rounded, label := GapLabel(gap.DurationMinutes)
		items = append(items, models.TimelineItem{
			Kind: models.TimelineKindGap,
			Gap: &models.GapView{
				Gap:            gap,
				RoundedMinutes: rounded,
				Label:          label,
			},
		})
	}
	return items
}

// GapLabel 四舍五入到分钟
func GapLabel(durationMinutes float64) (int, string) {
	rounded := int(math.Round(durationMinutes))
	return rounded, fmt.Sprintf("Unaccounted time: %d min", rounded)
}

// CheckInDefaults 建议的打卡起止时间：从最后一个时间块结束时开始，到现在为止
func CheckInDefaults(snapshot models.DaySnapshot, now time.Time) models.CheckInDefaultsResponse {
	start := now.Add(-defaultCheckInWindow)
	if end, ok := snapshot.LastBlockEnd(); ok {
		start = end
	}
	return models.CheckInDefaultsResponse{Start: start, End: now}
}
