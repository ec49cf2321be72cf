package stats

import "sort"

const (
	// performerListCap bounds the top/low performer lists.
	performerListCap = 5
	// LowAttendanceCutoff is the percentage below which a student counts
	// as low-attendance.
	LowAttendanceCutoff = 70.0
)

// TopStudents returns the up-to-5 best-attending students, descending by
// percentage. Students with no records in the window are excluded.
func TopStudents(students []StudentStat) []StudentStat {
	withData := make([]StudentStat, 0, len(students))
	for _, s := range students {
		if s.Total > 0 {
			withData = append(withData, s)
		}
	}
	sort.SliceStable(withData, func(a, b int) bool {
		return withData[a].Percentage > withData[b].Percentage
	})
	if len(withData) > performerListCap {
		withData = withData[:performerListCap]
	}
	return withData
}

// LowAttendance returns the up-to-5 worst-attending students below the
// cutoff, ascending by percentage. Students with no records are excluded.
func LowAttendance(students []StudentStat) []StudentStat {
	low := make([]StudentStat, 0, len(students))
	for _, s := range students {
		if s.Total > 0 && s.Percentage < LowAttendanceCutoff {
			low = append(low, s)
		}
	}
	sort.SliceStable(low, func(a, b int) bool {
		return low[a].Percentage < low[b].Percentage
	})
	if len(low) > performerListCap {
		low = low[:performerListCap]
	}
	return low
}
