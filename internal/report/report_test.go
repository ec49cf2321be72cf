package report

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

func rec(studentID int, studentName, subject, class string, date time.Time, status model.AttendanceStatus) model.AttendanceRecord {
	return model.AttendanceRecord{
		StudentID:   studentID,
		StudentName: studentName,
		SubjectID:   len(subject), // distinct per subject name in tests
		SubjectName: subject,
		ClassID:     int(class[0]), // distinct per class name in tests
		ClassName:   class,
		Date:        date,
		Status:      status,
		CreatedAt:   date.Add(9 * time.Hour),
		UpdatedAt:   date.Add(9 * time.Hour),
	}
}

func sampleRecords() []model.AttendanceRecord {
	return []model.AttendanceRecord{
		rec(1, "Aziza", "Math", "5-A", day(2026, time.March, 2), model.StatusPresent),
		rec(2, "Bobur", "Math", "5-A", day(2026, time.March, 2), model.StatusAbsent),
		rec(1, "Aziza", "Math", "5-A", day(2026, time.March, 3), model.StatusPresent),
		rec(2, "Bobur", "Math", "5-A", day(2026, time.March, 3), model.StatusLate),
		rec(3, "Dilnoza", "Biology", "6-B", day(2026, time.March, 3), model.StatusPresent),
	}
}

func TestBuildSummaryByDay(t *testing.T) {
	s := BuildSummary(sampleRecords(), GroupByDay)
	require.Len(t, s.Groups, 2)
	assert.Equal(t, GroupByDay, s.GroupBy)

	assert.Equal(t, "02.03.2026", s.Groups[0].Label)
	assert.Equal(t, 2, s.Groups[0].Total)
	assert.Equal(t, 50.0, s.Groups[0].Percentage)

	assert.Equal(t, 5, s.Totals.Total)
	assert.Equal(t, 3, s.Totals.Present)
	assert.Equal(t, 1, s.Totals.Absent)
}

func TestBuildSummaryUnknownGroupByFallsBackToDay(t *testing.T) {
	s := BuildSummary(sampleRecords(), GroupBy("bogus"))
	assert.Equal(t, GroupByDay, s.GroupBy)
	assert.Len(t, s.Groups, 2)
}

func TestBuildDetailedOrderAndCap(t *testing.T) {
	d := BuildDetailed(sampleRecords())
	require.Equal(t, 5, d.Count)

	// Newest first.
	assert.Equal(t, "03.03.2026", d.Records[0].Date)
	assert.Equal(t, "02.03.2026", d.Records[d.Count-1].Date)
	assert.Equal(t, "Late", d.Records[1].Status)

	// Cap at 100 rows.
	var many []model.AttendanceRecord
	for i := 0; i < 150; i++ {
		many = append(many, rec(i, "S", "Math", "5-A", day(2026, time.March, 2), model.StatusPresent))
	}
	assert.Equal(t, 100, BuildDetailed(many).Count)
}

func TestBuildStudentRollup(t *testing.T) {
	s := BuildStudentRollup(sampleRecords())
	require.Equal(t, 3, s.TotalStudents)

	// Worst first: Bobur 0.0, then Aziza and Dilnoza at 100.0.
	assert.Equal(t, "Bobur", s.Students[0].Name)
	assert.Equal(t, 0.0, s.Students[0].Percentage)
	assert.Equal(t, 1, s.Students[0].Absent)
	assert.Equal(t, 1, s.Students[0].Late)
	assert.Equal(t, 100.0, s.Students[1].Percentage)
	assert.Equal(t, 66.7, s.AveragePercentage)
}

func TestBuildSubjectRollup(t *testing.T) {
	records := append(sampleRecords(),
		rec(4, "Erkin", "Math", "6-B", day(2026, time.March, 4), model.StatusAbsent),
	)
	s := BuildSubjectRollup(records)
	require.Equal(t, 2, s.TotalSubjects)

	// Ascending by percentage: Math 2/5=40.0 before Biology 1/1=100.0.
	math := s.Subjects[0]
	assert.Equal(t, "Math", math.SubjectName)
	assert.Equal(t, 5, math.Total)
	assert.Equal(t, 40.0, math.Percentage)
	assert.Equal(t, 2, math.ClassesCount)

	require.Len(t, math.ClassBreakdown, 2)
	assert.Equal(t, "5-A", math.ClassBreakdown[0].ClassName)
	assert.Equal(t, 4, math.ClassBreakdown[0].Total)
	assert.Equal(t, 50.0, math.ClassBreakdown[0].Percentage)
	assert.Equal(t, "6-B", math.ClassBreakdown[1].ClassName)
	assert.Equal(t, 0.0, math.ClassBreakdown[1].Percentage)

	assert.Equal(t, 70.0, s.AveragePercentage)
}

func TestBuildDaily(t *testing.T) {
	d := BuildDaily(sampleRecords())
	require.Equal(t, 2, d.DaysCount)

	// Newest day first.
	assert.Equal(t, "03.03.2026", d.Days[0].Date)
	assert.Equal(t, "Tuesday", d.Days[0].Day)
	assert.Equal(t, 3, d.Days[0].Total)
	assert.Equal(t, 66.7, d.Days[0].Percentage)

	require.Len(t, d.Days[0].SubjectBreakdown, 2)
	assert.Equal(t, "Math", d.Days[0].SubjectBreakdown[0].Subject)
	assert.Equal(t, 2, d.Days[0].SubjectBreakdown[0].Total)
	assert.Equal(t, 1, d.Days[0].SubjectBreakdown[0].Present)

	assert.Equal(t, "02.03.2026", d.Days[1].Date)
	assert.Equal(t, "Monday", d.Days[1].Day)
	assert.Equal(t, 58.4, d.AverageDaily)
}

func TestBuildRecordExport(t *testing.T) {
	e := BuildRecordExport(sampleRecords())
	require.Len(t, e.Records, 5)
	assert.Equal(t, day(2026, time.March, 3), e.Records[0].Date)
	assert.Equal(t, day(2026, time.March, 2), e.Records[4].Date)

	rows := e.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Date", "Student", "Class", "Subject", "Status", "Notes", "Created", "Updated"}, e.Columns())
	assert.Equal(t, "03.03.2026", rows[0][0])
}

func TestBuildDispatch(t *testing.T) {
	records := sampleRecords()
	assert.IsType(t, &Summary{}, Build(TypeSummary, GroupByDay, records))
	assert.IsType(t, &Detailed{}, Build(TypeDetailed, "", records))
	assert.IsType(t, &StudentRollup{}, Build(TypeStudent, "", records))
	assert.IsType(t, &SubjectRollup{}, Build(TypeSubject, "", records))
	assert.IsType(t, &Daily{}, Build(TypeDaily, "", records))
}

func TestTypeValid(t *testing.T) {
	for _, ty := range []Type{TypeSummary, TypeDetailed, TypeStudent, TypeSubject, TypeDaily} {
		assert.True(t, ty.Valid())
	}
	assert.False(t, Type("weekly").Valid())
}

func TestFileName(t *testing.T) {
	at := day(2026, time.March, 5)
	assert.Equal(t, "attendance_report_summary_20260305.csv", FileName(TypeSummary, "csv", at))
	assert.Equal(t, "attendance_report_student_20260305.xlsx", FileName(TypeStudent, "xlsx", at))
}
