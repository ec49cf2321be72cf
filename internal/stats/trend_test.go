package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samoschool/davomat-backend/internal/model"
)

func TestWeeklyTrendWindows(t *testing.T) {
	start := day(2026, time.March, 2) // Monday
	end := day(2026, time.March, 18)  // 17 days: two full weeks + 3 days

	records := []model.AttendanceRecord{
		rec(1, "A", "Math", "5-A", day(2026, time.March, 3), model.StatusPresent),
		rec(2, "B", "Math", "5-A", day(2026, time.March, 3), model.StatusAbsent),
		rec(1, "A", "Math", "5-A", day(2026, time.March, 10), model.StatusPresent),
		rec(1, "A", "Math", "5-A", day(2026, time.March, 17), model.StatusAbsent),
	}

	points := WeeklyTrend(records, start, end)
	require.Len(t, points, 3)

	assert.Equal(t, "Week 1", points[0].Label)
	assert.Equal(t, day(2026, time.March, 2), points[0].Start)
	assert.Equal(t, day(2026, time.March, 8), points[0].End)
	assert.Equal(t, 2, points[0].Total)
	assert.Equal(t, 50.0, points[0].Percentage)

	assert.Equal(t, "Week 2", points[1].Label)
	assert.Equal(t, 100.0, points[1].Percentage)

	// Last window truncated to the range end.
	assert.Equal(t, "Week 3", points[2].Label)
	assert.Equal(t, day(2026, time.March, 16), points[2].Start)
	assert.Equal(t, day(2026, time.March, 18), points[2].End)
	assert.Equal(t, 0.0, points[2].Percentage)
}

func TestWeeklyTrendEmptyWindowsReportZero(t *testing.T) {
	points := WeeklyTrend(nil, day(2026, time.March, 2), day(2026, time.March, 15))
	require.Len(t, points, 2)
	for _, p := range points {
		assert.Equal(t, 0, p.Total)
		assert.Equal(t, 0.0, p.Percentage)
	}
}

func TestWeeklyTrendInvertedRange(t *testing.T) {
	assert.Nil(t, WeeklyTrend(nil, day(2026, time.March, 10), day(2026, time.March, 2)))
}

func TestMonthlyTrend(t *testing.T) {
	today := day(2026, time.March, 15)
	records := []model.AttendanceRecord{
		rec(1, "A", "Math", "5-A", day(2026, time.January, 20), model.StatusPresent),
		rec(1, "A", "Math", "5-A", day(2026, time.March, 10), model.StatusPresent),
		rec(2, "B", "Math", "5-A", day(2026, time.March, 10), model.StatusAbsent),
		// After "today", outside the truncated current month.
		rec(1, "A", "Math", "5-A", day(2026, time.March, 20), model.StatusPresent),
	}

	points := MonthlyTrend(records, 3, today)
	require.Len(t, points, 3)

	assert.Equal(t, "Jan 2026", points[0].Label)
	assert.Equal(t, 1, points[0].Total)
	assert.Equal(t, 100.0, points[0].Percentage)

	// Month with no data reports 0.
	assert.Equal(t, "Feb 2026", points[1].Label)
	assert.Equal(t, 0, points[1].Total)
	assert.Equal(t, 0.0, points[1].Percentage)

	// Current month ends at today.
	assert.Equal(t, "Mar 2026", points[2].Label)
	assert.Equal(t, day(2026, time.March, 15), points[2].End)
	assert.Equal(t, 2, points[2].Total)
	assert.Equal(t, 50.0, points[2].Percentage)
}
