package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func st(id int, total, present int) StudentStat {
	return StudentStat{
		StudentID:  id,
		Total:      total,
		Present:    present,
		Percentage: Percentage(present, total),
	}
}

func TestTopStudents(t *testing.T) {
	students := []StudentStat{
		st(1, 10, 5),  // 50.0
		st(2, 10, 9),  // 90.0
		st(3, 0, 0),   // no data, excluded
		st(4, 10, 10), // 100.0
		st(5, 10, 7),  // 70.0
		st(6, 10, 8),  // 80.0
		st(7, 10, 6),  // 60.0
		st(8, 10, 4),  // 40.0
	}

	top := TopStudents(students)
	require.Len(t, top, 5)
	assert.Equal(t, []int{4, 2, 6, 5, 7}, ids(top))
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Percentage, top[i].Percentage)
	}
}

func TestTopStudentsFewerThanCap(t *testing.T) {
	top := TopStudents([]StudentStat{st(1, 4, 2), st(2, 0, 0)})
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].StudentID)
}

func TestLowAttendance(t *testing.T) {
	students := []StudentStat{
		st(1, 10, 5),  // 50.0
		st(2, 10, 7),  // 70.0 — at cutoff, not below
		st(3, 0, 0),   // no data, excluded
		st(4, 10, 1),  // 10.0
		st(5, 10, 6),  // 60.0
		st(6, 10, 3),  // 30.0
		st(7, 10, 2),  // 20.0
		st(8, 10, 4),  // 40.0
	}

	low := LowAttendance(students)
	require.Len(t, low, 5)
	// Worst first, capped at 5 (student 5 at 60.0 falls off).
	assert.Equal(t, []int{4, 7, 6, 8, 1}, ids(low))
	for _, s := range low {
		assert.Less(t, s.Percentage, LowAttendanceCutoff)
		assert.Greater(t, s.Total, 0)
	}
}

func TestLowAttendanceEmpty(t *testing.T) {
	assert.Empty(t, LowAttendance(nil))
	assert.Empty(t, LowAttendance([]StudentStat{st(1, 10, 9), st(2, 0, 0)}))
}

func ids(students []StudentStat) []int {
	out := make([]int, len(students))
	for i, s := range students {
		out[i] = s.StudentID
	}
	return out
}
