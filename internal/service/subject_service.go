package service

import (
	"context"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/repository"
)

// SubjectService handles subject business logic.
type SubjectService struct {
	subjectRepo *repository.SubjectRepository
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjectRepo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo}
}

// GetByID retrieves a subject with its classes.
func (s *SubjectService) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

// List retrieves all subjects.
func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	return s.subjectRepo.List(ctx)
}

// ListByTeacher retrieves the subjects a teacher owns or is assigned to.
func (s *SubjectService) ListByTeacher(ctx context.Context, teacherID int) ([]model.Subject, error) {
	return s.subjectRepo.ListByTeacher(ctx, teacherID)
}

// Create creates a new subject from the request.
func (s *SubjectService) Create(ctx context.Context, req *model.CreateSubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{
		Name:           req.Name,
		TeacherID:      req.TeacherID,
		LessonsPerWeek: req.LessonsPerWeek,
		Schedule:       req.Schedule,
	}
	if err := s.subjectRepo.Create(ctx, subject, req.ClassIDs); err != nil {
		return nil, err
	}
	return s.subjectRepo.GetByID(ctx, subject.ID)
}

// Update modifies an existing subject and replaces its class links.
func (s *SubjectService) Update(ctx context.Context, id int, req *model.CreateSubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{
		ID:             id,
		Name:           req.Name,
		TeacherID:      req.TeacherID,
		LessonsPerWeek: req.LessonsPerWeek,
		Schedule:       req.Schedule,
	}
	if err := s.subjectRepo.Update(ctx, subject, req.ClassIDs); err != nil {
		return nil, err
	}
	return s.subjectRepo.GetByID(ctx, id)
}

// Delete removes a subject. Foreign keys block deletion while attendance
// records still reference it.
func (s *SubjectService) Delete(ctx context.Context, id int) error {
	return s.subjectRepo.Delete(ctx, id)
}
