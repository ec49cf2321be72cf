package model

import "time"

// Settings is the single global configuration row. The table enforces
// CHECK (id = 1); the row is seeded by migration and can only be updated.
type Settings struct {
	ID                  int       `json:"id"`
	SchoolName          string    `json:"school_name"`
	SchoolAddress       string    `json:"school_address,omitempty"`
	SchoolPhone         string    `json:"school_phone,omitempty"`
	SchoolEmail         string    `json:"school_email,omitempty"`
	AcademicYear        string    `json:"academic_year"`
	AttendanceThreshold int       `json:"attendance_threshold"`
	AutoAttendance      bool      `json:"auto_attendance"`
	NotificationPref    bool      `json:"notification_pref"`
	Language            string    `json:"language"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the payload for editing global settings.
type UpdateSettingsRequest struct {
	SchoolName          string `json:"school_name" binding:"required,min=2,max=200"`
	SchoolAddress       string `json:"school_address" binding:"omitempty,max=500"`
	SchoolPhone         string `json:"school_phone" binding:"omitempty,max=20"`
	SchoolEmail         string `json:"school_email" binding:"omitempty,email"`
	AcademicYear        string `json:"academic_year" binding:"required,max=20"`
	AttendanceThreshold int    `json:"attendance_threshold" binding:"min=0,max=100"`
	AutoAttendance      bool   `json:"auto_attendance"`
	NotificationPref    bool   `json:"notification_pref"`
	Language            string `json:"language" binding:"omitempty,max=10"`
}
