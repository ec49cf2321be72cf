package service

import (
	"context"
	"time"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/repository"
	"github.com/samoschool/davomat-backend/internal/stats"
)

// UserService handles admin user management.
type UserService struct {
	userRepo       *repository.UserRepository
	attendanceRepo *repository.AttendanceRepository
	classRepo      *repository.ClassRepository
	subjectRepo    *repository.SubjectRepository
	authService    *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo *repository.UserRepository,
	attendanceRepo *repository.AttendanceRepository,
	classRepo *repository.ClassRepository,
	subjectRepo *repository.SubjectRepository,
	authService *AuthService,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		classRepo:      classRepo,
		subjectRepo:    subjectRepo,
		authService:    authService,
	}
}

// StudentAttendanceStats is the attendance rollup attached to a
// student's detail view.
type StudentAttendanceStats struct {
	Counts     model.StatusCounts `json:"counts"`
	Percentage float64            `json:"percentage"`
}

// TeacherWorkloadStats summarizes a teacher's detail view.
type TeacherWorkloadStats struct {
	SubjectCount int `json:"subject_count"`
	ClassCount   int `json:"class_count"`
	RecordCount  int `json:"record_count"`
}

// UserDetail is a user with the role-dependent stats block filled in.
type UserDetail struct {
	model.UserWithProfile
	StudentStats *StudentAttendanceStats `json:"student_stats,omitempty"`
	TeacherStats *TeacherWorkloadStats   `json:"teacher_stats,omitempty"`
}

// GetByID retrieves a user with its profile.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.UserWithProfile, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetDetail retrieves a user with the stats block for their role:
// an attendance rollup for students, workload counts for teachers.
func (s *UserService) GetDetail(ctx context.Context, id int) (*UserDetail, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &UserDetail{UserWithProfile: *user}

	switch user.Profile.Role {
	case model.RoleStudent:
		records, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{StudentID: id})
		if err != nil {
			return nil, err
		}
		counts := stats.Count(records)
		detail.StudentStats = &StudentAttendanceStats{
			Counts:     counts,
			Percentage: stats.Percentage(counts.Present, counts.Total),
		}

	case model.RoleTeacher:
		subjects, err := s.subjectRepo.ListByTeacher(ctx, id)
		if err != nil {
			return nil, err
		}
		homerooms, err := s.classRepo.ListByHomeroomTeacher(ctx, id)
		if err != nil {
			return nil, err
		}
		records, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{TeacherID: id})
		if err != nil {
			return nil, err
		}

		classSet := make(map[int]bool)
		for _, c := range homerooms {
			classSet[c.ID] = true
		}
		for _, sub := range subjects {
			for _, ref := range sub.Classes {
				classSet[ref.ID] = true
			}
		}
		detail.TeacherStats = &TeacherWorkloadStats{
			SubjectCount: len(subjects),
			ClassCount:   len(classSet),
			RecordCount:  len(records),
		}
	}

	return detail, nil
}

// List retrieves one page of users matching the filter.
func (s *UserService) List(ctx context.Context, f model.UserFilter, page, perPage int) ([]model.UserWithProfile, int, error) {
	if page < 1 {
		page = 1
	}
	return s.userRepo.List(ctx, f, perPage, (page-1)*perPage)
}

// Create builds a user + profile from the request and stores them.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.UserWithProfile, error) {
	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	profile := &model.Profile{
		Role:       req.Role,
		Phone:      req.Phone,
		BirthDate:  parseBirthDate(req.BirthDate),
		SubjectIDs: req.SubjectIDs,
	}
	if req.Role == model.RoleStudent {
		profile.ClassID = req.ClassID
	}

	if err := s.userRepo.Create(ctx, user, profile); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, user.ID)
}

// Update modifies a user + profile from the request. A non-empty
// password replaces the stored hash and drops the user's session.
func (s *UserService) Update(ctx context.Context, id int, req *model.UpdateUserRequest) (*model.UserWithProfile, error) {
	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:       id,
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		IsActive: existing.IsActive,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	profile := &model.Profile{
		Role:       req.Role,
		Phone:      req.Phone,
		BirthDate:  parseBirthDate(req.BirthDate),
		SubjectIDs: req.SubjectIDs,
	}
	if req.Role == model.RoleStudent {
		profile.ClassID = req.ClassID
	}

	if err := s.userRepo.Update(ctx, user, profile); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hash, err := s.authService.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
		_ = s.authService.Logout(ctx, id)
	}

	// A deactivated user loses their session immediately.
	if req.IsActive != nil && !*req.IsActive {
		_ = s.authService.Logout(ctx, id)
	}

	return s.userRepo.GetByID(ctx, id)
}

// SetActive toggles the active flag. Deactivation drops the session.
func (s *UserService) SetActive(ctx context.Context, id int, active bool) error {
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return err
	}
	if !active {
		_ = s.authService.Logout(ctx, id)
	}
	return nil
}

// Delete removes a user and drops their session.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.authService.Logout(ctx, id)
}

func parseBirthDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
