package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/repository"
	"github.com/samoschool/davomat-backend/internal/stats"
)

// Attendance errors surfaced to handlers.
var (
	ErrTeacherNotAssigned = errors.New("teacher is not assigned to this subject or class")
	ErrSubjectNotInClass  = errors.New("subject is not taught in this class")
	ErrNotRecordOwner     = errors.New("record belongs to another teacher")
	ErrInvalidStatus      = errors.New("invalid attendance status")
)

// AttendanceService handles attendance taking and record management.
type AttendanceService struct {
	attendanceRepo *repository.AttendanceRepository
	classRepo      *repository.ClassRepository
	subjectRepo    *repository.SubjectRepository
	log            zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	attendanceRepo *repository.AttendanceRepository,
	classRepo *repository.ClassRepository,
	subjectRepo *repository.SubjectRepository,
	log zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		classRepo:      classRepo,
		subjectRepo:    subjectRepo,
		log:            log,
	}
}

// CanTakeAttendance reports whether the teacher may submit attendance
// for the subject+class. The subject must be taught in that class, and
// the teacher must own the subject, be assigned to it, or be the
// class's homeroom teacher.
func (s *AttendanceService) CanTakeAttendance(ctx context.Context, teacherID, subjectID, classID int) (bool, error) {
	linked, err := s.subjectRepo.IsLinkedToClass(ctx, subjectID, classID)
	if err != nil {
		return false, err
	}
	if !linked {
		return false, nil
	}

	assigned, err := s.subjectRepo.IsAssignedTeacher(ctx, subjectID, teacherID)
	if err != nil {
		return false, err
	}
	if assigned {
		return true, nil
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return false, err
	}
	return class.TeacherID != nil && *class.TeacherID == teacherID, nil
}

// CanViewScope reports whether the teacher may read records scoped to
// the given subject and class filters (zero means unscoped). A subject
// scope requires an assignment to that subject; a class scope requires
// being its homeroom teacher or teaching one of its subjects.
func (s *AttendanceService) CanViewScope(ctx context.Context, teacherID, subjectID, classID int) (bool, error) {
	if subjectID != 0 {
		assigned, err := s.subjectRepo.IsAssignedTeacher(ctx, subjectID, teacherID)
		if err != nil {
			return false, err
		}
		if !assigned {
			return false, nil
		}
	}

	if classID != 0 {
		class, err := s.classRepo.GetByID(ctx, classID)
		if err != nil {
			return false, err
		}
		if class.TeacherID != nil && *class.TeacherID == teacherID {
			return true, nil
		}

		subjects, err := s.subjectRepo.ListByTeacher(ctx, teacherID)
		if err != nil {
			return false, err
		}
		for _, sub := range subjects {
			for _, ref := range sub.Classes {
				if ref.ID == classID {
					return true, nil
				}
			}
		}
		return false, nil
	}
	return true, nil
}

// TakeAttendance records one lesson's statuses for a teacher. Every
// active student on the class roster gets a record: submitted statuses
// as given, everyone else absent. Re-submitting the same lesson updates
// the existing records.
func (s *AttendanceService) TakeAttendance(ctx context.Context, teacherID, subjectID, classID int, req *model.TakeAttendanceRequest) (int, error) {
	ok, err := s.CanTakeAttendance(ctx, teacherID, subjectID, classID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrTeacherNotAssigned
	}
	return s.takeAttendance(ctx, teacherID, subjectID, classID, req)
}

// AdminTakeAttendance records a lesson on behalf of the administration,
// skipping the teacher assignment check. The admin is recorded as the
// submitting teacher.
func (s *AttendanceService) AdminTakeAttendance(ctx context.Context, adminID int, req *model.AdminTakeAttendanceRequest) (int, error) {
	linked, err := s.subjectRepo.IsLinkedToClass(ctx, req.SubjectID, req.ClassID)
	if err != nil {
		return 0, err
	}
	if !linked {
		return 0, ErrSubjectNotInClass
	}
	return s.takeAttendance(ctx, adminID, req.SubjectID, req.ClassID, &model.TakeAttendanceRequest{
		Date:     req.Date,
		Students: req.Students,
	})
}

func (s *AttendanceService) takeAttendance(ctx context.Context, teacherID, subjectID, classID int, req *model.TakeAttendanceRequest) (int, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return 0, err
	}

	submitted := make(map[int]model.StudentStatus, len(req.Students))
	for _, st := range req.Students {
		if st.Status != "" && !st.Status.Valid() {
			return 0, ErrInvalidStatus
		}
		submitted[st.StudentID] = st
	}

	roster, err := s.classRepo.ListStudents(ctx, classID)
	if err != nil {
		return 0, err
	}

	// Each student is written independently; one failure does not roll
	// back the others.
	saved := 0
	for _, student := range roster {
		rec := &model.AttendanceRecord{
			StudentID: student.ID,
			TeacherID: teacherID,
			SubjectID: subjectID,
			ClassID:   classID,
			Date:      date,
			Status:    model.StatusAbsent,
		}
		if st, ok := submitted[student.ID]; ok {
			if st.Status != "" {
				rec.Status = st.Status
			}
			rec.Notes = st.Notes
		}

		if err := s.attendanceRepo.Upsert(ctx, rec); err != nil {
			s.log.Error().Err(err).
				Int("student_id", student.ID).
				Int("subject_id", subjectID).
				Str("date", req.Date).
				Msg("save attendance record")
			continue
		}
		saved++
	}
	return saved, nil
}

// List retrieves one page of records matching the filter.
func (s *AttendanceService) List(ctx context.Context, f model.AttendanceFilter, page, perPage int) ([]model.AttendanceRecord, int, error) {
	if page < 1 {
		page = 1
	}
	return s.attendanceRepo.ListPage(ctx, f, perPage, (page-1)*perPage)
}

// Breakdown returns the status counts over every record matching the
// filter, ignoring pagination.
func (s *AttendanceService) Breakdown(ctx context.Context, f model.AttendanceFilter) (model.StatusCounts, error) {
	records, err := s.attendanceRepo.List(ctx, f)
	if err != nil {
		return model.StatusCounts{}, err
	}
	return stats.Count(records), nil
}

// ListAll retrieves all records matching the filter, for exports and
// aggregation.
func (s *AttendanceService) ListAll(ctx context.Context, f model.AttendanceFilter) ([]model.AttendanceRecord, error) {
	return s.attendanceRepo.List(ctx, f)
}

// GetByID retrieves a single record.
func (s *AttendanceService) GetByID(ctx context.Context, id int) (*model.AttendanceRecord, error) {
	return s.attendanceRepo.GetByID(ctx, id)
}

// Update edits a record's status and notes. A non-zero teacherID limits
// the edit to that teacher's own records.
func (s *AttendanceService) Update(ctx context.Context, id, teacherID int, req *model.UpdateAttendanceRequest) (*model.AttendanceRecord, error) {
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if teacherID != 0 && rec.TeacherID != teacherID {
		return nil, ErrNotRecordOwner
	}

	if err := s.attendanceRepo.Update(ctx, id, req.Status, req.Notes); err != nil {
		return nil, err
	}
	return s.attendanceRepo.GetByID(ctx, id)
}

// Delete removes a record. A non-zero teacherID limits the delete to
// that teacher's own records.
func (s *AttendanceService) Delete(ctx context.Context, id, teacherID int) error {
	if teacherID != 0 {
		rec, err := s.attendanceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rec.TeacherID != teacherID {
			return ErrNotRecordOwner
		}
	}
	return s.attendanceRepo.Delete(ctx, id)
}

// BulkDelete removes records by id, scoped to the teacher when teacherID
// is non-zero. Returns how many records were actually deleted.
func (s *AttendanceService) BulkDelete(ctx context.Context, ids []int, teacherID int) (int, error) {
	return s.attendanceRepo.BulkDelete(ctx, ids, teacherID)
}
