package model

import "time"

// AttendanceStatus is the recorded state of a student for one lesson.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Label returns the display name used in exports.
func (s AttendanceStatus) Label() string {
	switch s {
	case StatusPresent:
		return "Present"
	case StatusAbsent:
		return "Absent"
	case StatusLate:
		return "Late"
	case StatusExcused:
		return "Excused"
	}
	return string(s)
}

// AttendanceRecord is one student's status for a (subject, class, date)
// lesson. The logical key (student, subject, class, date) is enforced by
// update-or-create at write time, not by a database constraint, so two
// racing submissions can leave duplicates (accepted, last write wins).
type AttendanceRecord struct {
	ID        int              `json:"id"`
	StudentID int              `json:"student_id"`
	TeacherID int              `json:"teacher_id"`
	SubjectID int              `json:"subject_id"`
	ClassID   int              `json:"class_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Joined display fields.
	StudentName     string `json:"student_name,omitempty"`
	StudentUsername string `json:"student_username,omitempty"`
	TeacherName     string `json:"teacher_name,omitempty"`
	SubjectName     string `json:"subject_name,omitempty"`
	ClassName       string `json:"class_name,omitempty"`
	ClassRoom       string `json:"class_room,omitempty"`
}

// StatusCounts tallies records by status.
type StatusCounts struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
}

// Add counts one record's status into the tally.
func (c *StatusCounts) Add(s AttendanceStatus) {
	c.Total++
	switch s {
	case StatusPresent:
		c.Present++
	case StatusAbsent:
		c.Absent++
	case StatusLate:
		c.Late++
	case StatusExcused:
		c.Excused++
	}
}

// StudentStatus is one roster entry in a take-attendance submission.
type StudentStatus struct {
	StudentID int              `json:"student_id" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"omitempty,oneof=present absent late excused"`
	Notes     string           `json:"notes" binding:"omitempty,max=500"`
}

// TakeAttendanceRequest submits one lesson's worth of statuses. A student
// from the class roster who is missing here defaults to absent.
type TakeAttendanceRequest struct {
	Date     string          `json:"date" binding:"required,datetime=2006-01-02"`
	Students []StudentStatus `json:"students" binding:"required,dive"`
}

// AdminTakeAttendanceRequest is the admin variant which also picks the
// class and subject in the payload.
type AdminTakeAttendanceRequest struct {
	ClassID   int             `json:"class_id" binding:"required"`
	SubjectID int             `json:"subject_id" binding:"required"`
	Date      string          `json:"date" binding:"required,datetime=2006-01-02"`
	Students  []StudentStatus `json:"students" binding:"required,dive"`
}

// UpdateAttendanceRequest edits a single record.
type UpdateAttendanceRequest struct {
	Status AttendanceStatus `json:"status" binding:"required,oneof=present absent late excused"`
	Notes  string           `json:"notes" binding:"omitempty,max=500"`
}

// BulkDeleteRequest removes a set of records by id.
type BulkDeleteRequest struct {
	IDs []int `json:"ids" binding:"required,min=1"`
}

// AttendanceFilter narrows record queries. Zero values mean "no filter".
// TeacherID scopes a teacher to their own records; StudentID scopes a
// student to their own.
type AttendanceFilter struct {
	TeacherID   int
	StudentID   int
	ClassID     int
	SubjectID   int
	Date        *time.Time
	DateFrom    *time.Time
	DateTo      *time.Time
	ClassName   string // substring match
	SubjectName string // substring match
	StudentName string // substring match over name/username
	Status      AttendanceStatus
}
