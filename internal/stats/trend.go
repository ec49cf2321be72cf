package stats

import (
	"fmt"
	"time"

	"github.com/samoschool/davomat-backend/internal/model"
)

// TrendPoint is one window of a trend series.
type TrendPoint struct {
	Label      string    `json:"label"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Total      int       `json:"total"`
	Present    int       `json:"present"`
	Percentage float64   `json:"percentage"`
}

// WeeklyTrend partitions [start, end] into consecutive 7-day windows (the
// last window truncated to end) and computes the present-rate per window.
// Windows with no records report 0, never a gap.
func WeeklyTrend(records []model.AttendanceRecord, start, end time.Time) []TrendPoint {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil
	}

	var points []TrendPoint
	weekNum := 1
	for cur := start; !cur.After(end); {
		weekEnd := cur.AddDate(0, 0, 6)
		if weekEnd.After(end) {
			weekEnd = end
		}

		p := TrendPoint{
			Label: fmt.Sprintf("Week %d", weekNum),
			Start: cur,
			End:   weekEnd,
		}
		for _, r := range records {
			d := truncateDay(r.Date)
			if d.Before(cur) || d.After(weekEnd) {
				continue
			}
			p.Total++
			if r.Status == model.StatusPresent {
				p.Present++
			}
		}
		p.Percentage = Percentage(p.Present, p.Total)
		points = append(points, p)

		cur = weekEnd.AddDate(0, 0, 1)
		weekNum++
	}
	return points
}

// MonthlyTrend computes the present-rate for each of the last `months`
// calendar months ending at `today` (the current month truncated to today).
// Months without data report 0.
func MonthlyTrend(records []model.AttendanceRecord, months int, today time.Time) []TrendPoint {
	today = truncateDay(today)

	var points []TrendPoint
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -i, 0)
		var monthEnd time.Time
		if i == 0 {
			monthEnd = today
		} else {
			monthEnd = monthStart.AddDate(0, 1, -1)
		}

		p := TrendPoint{
			Label: monthStart.Format("Jan 2006"),
			Start: monthStart,
			End:   monthEnd,
		}
		for _, r := range records {
			d := truncateDay(r.Date)
			if d.Before(monthStart) || d.After(monthEnd) {
				continue
			}
			p.Total++
			if r.Status == model.StatusPresent {
				p.Present++
			}
		}
		p.Percentage = Percentage(p.Present, p.Total)
		points = append(points, p)
	}
	return points
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
