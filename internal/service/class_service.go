package service

import (
	"context"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/repository"
	"github.com/samoschool/davomat-backend/internal/stats"
)

// ClassService handles class business logic.
type ClassService struct {
	classRepo      *repository.ClassRepository
	attendanceRepo *repository.AttendanceRepository
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo *repository.ClassRepository, attendanceRepo *repository.AttendanceRepository) *ClassService {
	return &ClassService{classRepo: classRepo, attendanceRepo: attendanceRepo}
}

// GetByID retrieves a class with its attendance rate.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fillAttendanceRate(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// List retrieves all classes with their attendance rates.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	classes, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if err := s.fillAttendanceRate(ctx, &classes[i]); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

// ListForTeacher retrieves the classes a teacher works with: their
// homeroom classes plus every class attached to one of their subjects.
func (s *ClassService) ListForTeacher(ctx context.Context, teacherID int, subjectClassIDs []int) ([]model.Class, error) {
	homerooms, err := s.classRepo.ListByHomeroomTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(homerooms))
	classes := homerooms
	for _, c := range homerooms {
		seen[c.ID] = true
	}
	for _, id := range subjectClassIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		class, err := s.classRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *class)
	}

	for i := range classes {
		if err := s.fillAttendanceRate(ctx, &classes[i]); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

// Roster retrieves the class roster with each student's attendance rollup.
func (s *ClassService) Roster(ctx context.Context, classID int) ([]model.ClassStudent, error) {
	students, err := s.classRepo.ListStudents(ctx, classID)
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{ClassID: classID})
	if err != nil {
		return nil, err
	}

	counts := make(map[int]*model.StatusCounts)
	for _, r := range records {
		c, ok := counts[r.StudentID]
		if !ok {
			c = &model.StatusCounts{}
			counts[r.StudentID] = c
		}
		c.Add(r.Status)
	}

	for i := range students {
		if c, ok := counts[students[i].ID]; ok {
			students[i].PresentCount = c.Present
			students[i].TotalCount = c.Total
			students[i].Percentage = stats.Percentage(c.Present, c.Total)
		}
	}
	return students, nil
}

// Create creates a new class from the request.
func (s *ClassService) Create(ctx context.Context, req *model.CreateClassRequest) (*model.Class, error) {
	class := &model.Class{
		Name:      req.Name,
		TeacherID: req.TeacherID,
		Room:      req.Room,
		Schedule:  req.Schedule,
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, class.ID)
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, id int, req *model.CreateClassRequest) (*model.Class, error) {
	class := &model.Class{
		ID:        id,
		Name:      req.Name,
		TeacherID: req.TeacherID,
		Room:      req.Room,
		Schedule:  req.Schedule,
	}
	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, id)
}

// Delete removes a class. Foreign keys block deletion while students or
// attendance records still reference it.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	return s.classRepo.Delete(ctx, id)
}

func (s *ClassService) fillAttendanceRate(ctx context.Context, class *model.Class) error {
	records, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{ClassID: class.ID})
	if err != nil {
		return err
	}
	class.AttendanceRate = stats.OverallPercentage(records)
	return nil
}
