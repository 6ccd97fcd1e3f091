package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"TimeCanvasGo/models"
	"TimeCanvasGo/services"
)

func TestRenderTimeline(t *testing.T) {
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	blocks := []models.TimeBlock{
		{ID: "a", StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour), Feeling: 1},
		{ID: "b", StartTime: day.Add(10*time.Hour + 40*time.Minute), EndTime: day.Add(11 * time.Hour), Feeling: -2},
	}
	snapshot := models.DaySnapshot{
		Date:   "2026-02-27",
		Blocks: blocks,
		OccupationsByBlockID: map[string][]models.Occupation{
			"a": {{ID: "o1", TimeBlockID: "a", Task: "Write report"}},
		},
		Gaps: services.ComputeGaps(blocks),
	}

	var buf bytes.Buffer
	renderTimeline(&buf, snapshot, time.UTC)
	out := buf.String()

	for _, want := range []string{
		"2026-02-27",
		"09:00–10:00",
		"60 min",
		"Good",
		"• Write report",
		"Unaccounted time: 40 min",
		"10:40–11:00",
		"Very low",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Unaccounted") > strings.Index(out, "10:40") {
		t.Errorf("gap printed after the following block:\n%s", out)
	}
}

func TestRenderTimelineEmptyWithError(t *testing.T) {
	var buf bytes.Buffer
	renderTimeline(&buf, models.DaySnapshot{Date: "2026-02-27", Error: "connection refused"}, time.UTC)
	out := buf.String()
	if !strings.Contains(out, "connection refused") || !strings.Contains(out, "No time blocks for this day yet.") {
		t.Errorf("output = %q", out)
	}
}
