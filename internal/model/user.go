package model

import "time"

// Role is the authorization role stored on a user's profile.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is an account identity. Credentials live here; role and
// school-specific fields live on the 1:1 Profile.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile extends a User with its role and role-dependent fields.
// ClassID is only meaningful for students, SubjectIDs for teachers.
type Profile struct {
	UserID     int        `json:"user_id"`
	Role       Role       `json:"role"`
	Phone      string     `json:"phone,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	ClassID    *int       `json:"class_id,omitempty"`
	ClassName  string     `json:"class_name,omitempty"`
	SubjectIDs []int      `json:"subject_ids,omitempty"`
}

// EffectiveRole resolves the caller's authorization role. A superuser
// always acts as admin regardless of the profile role.
func (u *User) EffectiveRole(p *Profile) Role {
	if u.IsSuperuser {
		return RoleAdmin
	}
	if p == nil {
		return RoleStudent
	}
	return p.Role
}

// UserWithProfile joins the account and its profile for list/detail views.
type UserWithProfile struct {
	User
	Profile Profile `json:"profile"`
}

// CreateUserRequest is the admin payload for creating a user + profile.
type CreateUserRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=150"`
	Password   string `json:"password" binding:"required,min=6"`
	FullName   string `json:"full_name" binding:"required,min=2,max=150"`
	Email      string `json:"email" binding:"omitempty,email"`
	Role       Role   `json:"role" binding:"required,oneof=student teacher admin"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	BirthDate  string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	ClassID    *int   `json:"class_id"`
	SubjectIDs []int  `json:"subject_ids"`
}

// UpdateUserRequest is the admin payload for editing a user. Password is
// optional; when present it replaces the stored hash.
type UpdateUserRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=150"`
	Password   string `json:"password" binding:"omitempty,min=6"`
	FullName   string `json:"full_name" binding:"required,min=2,max=150"`
	Email      string `json:"email" binding:"omitempty,email"`
	Role       Role   `json:"role" binding:"required,oneof=student teacher admin"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	BirthDate  string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	IsActive   *bool  `json:"is_active"`
	ClassID    *int   `json:"class_id"`
	SubjectIDs []int  `json:"subject_ids"`
}

// UserFilter narrows the admin user list.
type UserFilter struct {
	Role      Role
	Active    *bool
	ClassName string
	Search    string
}
