// Package stats holds the pure attendance aggregation functions. Every
// computation here operates on an already-filtered slice of records and
// never touches the database, which keeps the percentage and grouping
// semantics in one place and unit-testable.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/samoschool/davomat-backend/internal/model"
)

// DayKeyFormat is the partition key format for day groupings.
const DayKeyFormat = "2006-01-02"

// DayLabelFormat is the display format used in summaries and exports.
const DayLabelFormat = "02.01.2006"

// Percentage returns round(100*present/total, 1), or 0 when total is 0.
// This exact rounding and zero-denominator policy applies to every
// percentage in the system.
func Percentage(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}

// Count tallies records by status.
func Count(records []model.AttendanceRecord) model.StatusCounts {
	var c model.StatusCounts
	for _, r := range records {
		c.Add(r.Status)
	}
	return c
}

// OverallPercentage is the present-rate over the whole record set.
func OverallPercentage(records []model.AttendanceRecord) float64 {
	c := Count(records)
	return Percentage(c.Present, c.Total)
}

// GroupStat is one partition of a grouped aggregation. Partitions are
// disjoint, so their totals sum to the ungrouped total.
type GroupStat struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Percentage float64 `json:"percentage"`
}

func buildGroups(records []model.AttendanceRecord, keyOf func(model.AttendanceRecord) (key, label string)) []GroupStat {
	idx := make(map[string]int)
	groups := make([]GroupStat, 0)
	for _, r := range records {
		key, label := keyOf(r)
		i, ok := idx[key]
		if !ok {
			i = len(groups)
			idx[key] = i
			groups = append(groups, GroupStat{Key: key, Label: label})
		}
		groups[i].Total++
		switch r.Status {
		case model.StatusPresent:
			groups[i].Present++
		case model.StatusAbsent:
			groups[i].Absent++
		}
	}
	for i := range groups {
		groups[i].Percentage = Percentage(groups[i].Present, groups[i].Total)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Key < groups[b].Key })
	return groups
}

// GroupByDay partitions records by calendar day, ascending.
func GroupByDay(records []model.AttendanceRecord) []GroupStat {
	return buildGroups(records, func(r model.AttendanceRecord) (string, string) {
		return r.Date.Format(DayKeyFormat), r.Date.Format(DayLabelFormat)
	})
}

// GroupBySubject partitions records by subject name.
func GroupBySubject(records []model.AttendanceRecord) []GroupStat {
	return buildGroups(records, func(r model.AttendanceRecord) (string, string) {
		return r.SubjectName, r.SubjectName
	})
}

// GroupByClass partitions records by class name.
func GroupByClass(records []model.AttendanceRecord) []GroupStat {
	return buildGroups(records, func(r model.AttendanceRecord) (string, string) {
		return r.ClassName, r.ClassName
	})
}

// StudentStat is a per-student rollup over a filtered record set.
type StudentStat struct {
	StudentID  int     `json:"student_id"`
	Name       string  `json:"name"`
	ClassName  string  `json:"class_name"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	Excused    int     `json:"excused"`
	Percentage float64 `json:"percentage"`
}

// GroupByStudent partitions records per student with full status counts.
// Result order follows first appearance; callers sort as they need.
func GroupByStudent(records []model.AttendanceRecord) []StudentStat {
	idx := make(map[int]int)
	out := make([]StudentStat, 0)
	for _, r := range records {
		i, ok := idx[r.StudentID]
		if !ok {
			i = len(out)
			idx[r.StudentID] = i
			out = append(out, StudentStat{
				StudentID: r.StudentID,
				Name:      r.StudentName,
				ClassName: r.ClassName,
			})
		}
		out[i].Total++
		switch r.Status {
		case model.StatusPresent:
			out[i].Present++
		case model.StatusAbsent:
			out[i].Absent++
		case model.StatusLate:
			out[i].Late++
		case model.StatusExcused:
			out[i].Excused++
		}
	}
	for i := range out {
		out[i].Percentage = Percentage(out[i].Present, out[i].Total)
	}
	return out
}

// AveragePercentage is the mean of per-entry percentages, rounded to one
// decimal. Each entry is normalized independently, not pooled.
func AveragePercentage(percentages []float64) float64 {
	if len(percentages) == 0 {
		return 0
	}
	var sum float64
	for _, p := range percentages {
		sum += p
	}
	return math.Round(sum/float64(len(percentages))*10) / 10
}

// DailySeries returns one percentage per calendar day across [from, to],
// inclusive, with 0 for days that have no records.
func DailySeries(records []model.AttendanceRecord, from, to time.Time) (dates []string, percentages []float64) {
	byDay := make(map[string]*model.StatusCounts)
	for _, r := range records {
		key := r.Date.Format(DayKeyFormat)
		c, ok := byDay[key]
		if !ok {
			c = &model.StatusCounts{}
			byDay[key] = c
		}
		c.Add(r.Status)
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("02.01"))
		if c, ok := byDay[d.Format(DayKeyFormat)]; ok {
			percentages = append(percentages, Percentage(c.Present, c.Total))
		} else {
			percentages = append(percentages, 0)
		}
	}
	return dates, percentages
}
