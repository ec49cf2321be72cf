package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samoschool/davomat-backend/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(studentID int, studentName string, subject, class string, date time.Time, status model.AttendanceStatus) model.AttendanceRecord {
	return model.AttendanceRecord{
		StudentID:   studentID,
		StudentName: studentName,
		SubjectName: subject,
		ClassName:   class,
		Date:        date,
		Status:      status,
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 100.0, Percentage(10, 10))
	assert.Equal(t, 80.0, Percentage(8, 10))
	assert.Equal(t, 33.3, Percentage(1, 3))
	assert.Equal(t, 66.7, Percentage(2, 3))
	assert.Equal(t, 12.5, Percentage(1, 8))
}

func TestPercentageBounds(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for present := 0; present <= total; present++ {
			p := Percentage(present, total)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 100.0)
		}
	}
}

func TestCount(t *testing.T) {
	d := day(2026, time.March, 2)
	records := []model.AttendanceRecord{
		rec(1, "A", "Math", "5-A", d, model.StatusPresent),
		rec(2, "B", "Math", "5-A", d, model.StatusAbsent),
		rec(3, "C", "Math", "5-A", d, model.StatusLate),
		rec(4, "D", "Math", "5-A", d, model.StatusExcused),
		rec(5, "E", "Math", "5-A", d, model.StatusPresent),
	}

	c := Count(records)
	assert.Equal(t, 5, c.Total)
	assert.Equal(t, 2, c.Present)
	assert.Equal(t, 1, c.Absent)
	assert.Equal(t, 1, c.Late)
	assert.Equal(t, 1, c.Excused)
	assert.Equal(t, c.Total, c.Present+c.Absent+c.Late+c.Excused)

	assert.Equal(t, 40.0, OverallPercentage(records))
}

func TestGroupByDayPartition(t *testing.T) {
	records := []model.AttendanceRecord{
		rec(1, "A", "Math", "5-A", day(2026, time.March, 3), model.StatusPresent),
		rec(2, "B", "Math", "5-A", day(2026, time.March, 3), model.StatusAbsent),
		rec(1, "A", "Math", "5-A", day(2026, time.March, 2), model.StatusPresent),
		rec(1, "A", "Math", "5-A", day(2026, time.March, 4), model.StatusLate),
	}

	groups := GroupByDay(records)
	require.Len(t, groups, 3)

	// Ascending by day regardless of input order.
	assert.Equal(t, "2026-03-02", groups[0].Key)
	assert.Equal(t, "02.03.2026", groups[0].Label)
	assert.Equal(t, "2026-03-03", groups[1].Key)
	assert.Equal(t, "2026-03-04", groups[2].Key)

	// Disjoint partitions sum to the ungrouped total.
	sum := 0
	for _, g := range groups {
		sum += g.Total
	}
	assert.Equal(t, len(records), sum)

	assert.Equal(t, 2, groups[1].Total)
	assert.Equal(t, 1, groups[1].Present)
	assert.Equal(t, 1, groups[1].Absent)
	assert.Equal(t, 50.0, groups[1].Percentage)

	// Late counts toward total but neither present nor absent.
	assert.Equal(t, 1, groups[2].Total)
	assert.Equal(t, 0, groups[2].Present)
	assert.Equal(t, 0, groups[2].Absent)
	assert.Equal(t, 0.0, groups[2].Percentage)
}

func TestGroupBySubjectAndClass(t *testing.T) {
	d := day(2026, time.March, 2)
	records := []model.AttendanceRecord{
		rec(1, "A", "Math", "5-A", d, model.StatusPresent),
		rec(2, "B", "Math", "5-B", d, model.StatusAbsent),
		rec(1, "A", "Biology", "5-A", d, model.StatusPresent),
	}

	bySubject := GroupBySubject(records)
	require.Len(t, bySubject, 2)
	assert.Equal(t, "Biology", bySubject[0].Label)
	assert.Equal(t, "Math", bySubject[1].Label)
	assert.Equal(t, 2, bySubject[1].Total)
	assert.Equal(t, 50.0, bySubject[1].Percentage)

	byClass := GroupByClass(records)
	require.Len(t, byClass, 2)
	assert.Equal(t, "5-A", byClass[0].Label)
	assert.Equal(t, 2, byClass[0].Total)
	assert.Equal(t, 100.0, byClass[0].Percentage)
	assert.Equal(t, "5-B", byClass[1].Label)
	assert.Equal(t, 0.0, byClass[1].Percentage)
}

func TestGroupByEmpty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil))
	assert.Empty(t, GroupBySubject(nil))
	assert.Empty(t, GroupByClass(nil))
	assert.Empty(t, GroupByStudent(nil))
	assert.Equal(t, 0.0, OverallPercentage(nil))
}

func TestGroupByStudent(t *testing.T) {
	records := []model.AttendanceRecord{
		rec(7, "Aziza", "Math", "5-A", day(2026, time.March, 2), model.StatusPresent),
		rec(9, "Bobur", "Math", "5-A", day(2026, time.March, 2), model.StatusAbsent),
		rec(7, "Aziza", "Math", "5-A", day(2026, time.March, 3), model.StatusLate),
		rec(7, "Aziza", "Biology", "5-A", day(2026, time.March, 3), model.StatusPresent),
		rec(7, "Aziza", "Math", "5-A", day(2026, time.March, 4), model.StatusExcused),
	}

	students := GroupByStudent(records)
	require.Len(t, students, 2)

	// First-appearance order.
	aziza := students[0]
	assert.Equal(t, 7, aziza.StudentID)
	assert.Equal(t, "Aziza", aziza.Name)
	assert.Equal(t, "5-A", aziza.ClassName)
	assert.Equal(t, 4, aziza.Total)
	assert.Equal(t, 2, aziza.Present)
	assert.Equal(t, 0, aziza.Absent)
	assert.Equal(t, 1, aziza.Late)
	assert.Equal(t, 1, aziza.Excused)
	assert.Equal(t, 50.0, aziza.Percentage)

	bobur := students[1]
	assert.Equal(t, 9, bobur.StudentID)
	assert.Equal(t, 1, bobur.Total)
	assert.Equal(t, 0.0, bobur.Percentage)
}

func TestAveragePercentage(t *testing.T) {
	assert.Equal(t, 0.0, AveragePercentage(nil))
	assert.Equal(t, 75.0, AveragePercentage([]float64{50, 100}))
	// Per-entry normalization, not pooled: mean of rates.
	assert.Equal(t, 83.3, AveragePercentage([]float64{100, 100, 50}))
}

func TestDailySeries(t *testing.T) {
	from := day(2026, time.March, 2)
	to := day(2026, time.March, 5)
	records := []model.AttendanceRecord{
		rec(1, "A", "Math", "5-A", day(2026, time.March, 2), model.StatusPresent),
		rec(2, "B", "Math", "5-A", day(2026, time.March, 2), model.StatusAbsent),
		rec(1, "A", "Math", "5-A", day(2026, time.March, 4), model.StatusPresent),
	}

	dates, pcts := DailySeries(records, from, to)
	require.Len(t, dates, 4)
	require.Len(t, pcts, 4)
	assert.Equal(t, []string{"02.03", "03.03", "04.03", "05.03"}, dates)
	// Days without records report 0, never a gap.
	assert.Equal(t, []float64{50.0, 0.0, 100.0, 0.0}, pcts)
}
