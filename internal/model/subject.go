package model

import "time"

// Subject represents a taught course, owned by a teacher and taught
// in zero or more classes.
type Subject struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	TeacherID      *int      `json:"teacher_id"`
	TeacherName    string    `json:"teacher_name,omitempty"`
	LessonsPerWeek int       `json:"lessons_per_week"`
	Schedule       string    `json:"schedule,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Classes []ClassRef `json:"classes,omitempty"`
}

// ClassRef is a minimal class reference embedded in subject payloads.
type ClassRef struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Room         string `json:"room,omitempty"`
	StudentCount int    `json:"student_count,omitempty"`
}

// CreateSubjectRequest is the payload for creating or updating a subject.
type CreateSubjectRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=100"`
	TeacherID      *int   `json:"teacher_id"`
	ClassIDs       []int  `json:"class_ids"`
	LessonsPerWeek int    `json:"lessons_per_week" binding:"omitempty,min=1,max=40"`
	Schedule       string `json:"schedule" binding:"omitempty,max=100"`
}
