package model

import "time"

// Class represents a student cohort with an optional homeroom teacher.
type Class struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	TeacherID   *int      `json:"teacher_id"`
	TeacherName string    `json:"teacher_name,omitempty"`
	Room        string    `json:"room,omitempty"`
	Schedule    string    `json:"schedule,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived fields populated by list queries.
	StudentCount   int     `json:"student_count,omitempty"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// ClassStudent is a roster entry with the student's attendance rollup.
type ClassStudent struct {
	ID           int     `json:"id"`
	FullName     string  `json:"full_name"`
	Username     string  `json:"username"`
	Phone        string  `json:"phone,omitempty"`
	PresentCount int     `json:"present_count"`
	TotalCount   int     `json:"total_count"`
	Percentage   float64 `json:"attendance_percentage"`

	// Status carries the student's recorded status for a requested
	// lesson date, empty when nothing was recorded yet.
	Status AttendanceStatus `json:"status,omitempty"`
	Notes  string           `json:"notes,omitempty"`
}

// CreateClassRequest is the payload for creating or updating a class.
type CreateClassRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=50"`
	TeacherID *int   `json:"teacher_id"`
	Room      string `json:"room" binding:"omitempty,max=20"`
	Schedule  string `json:"schedule" binding:"omitempty,max=100"`
}
