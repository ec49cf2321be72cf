package service

import (
	"context"
	"time"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/repository"
	"github.com/samoschool/davomat-backend/internal/stats"
)

// AdminDashboard is the school-wide landing view.
type AdminDashboard struct {
	TotalStudents int     `json:"total_students"`
	TotalTeachers int     `json:"total_teachers"`
	TotalClasses  int     `json:"total_classes"`
	TotalSubjects int     `json:"total_subjects"`
	TodayRate     float64 `json:"today_attendance_rate"`
	TodayRecorded int     `json:"today_recorded"`

	WeeklyLabels  []string                 `json:"weekly_labels"`
	WeeklyValues  []float64                `json:"weekly_values"`
	RecentRecords []model.AttendanceRecord `json:"recent_records"`
	TopStudents   []stats.StudentStat      `json:"top_students"`
	LowStudents   []stats.StudentStat      `json:"low_attendance_students"`
}

// TeacherDashboard is a teacher's landing view over their own records.
type TeacherDashboard struct {
	SubjectCount  int     `json:"subject_count"`
	ClassCount    int     `json:"class_count"`
	TodayRecorded int     `json:"today_recorded"`
	// WeekRate reports 100 when the teacher has no records this week, so
	// a fresh account does not open on an alarming zero.
	WeekRate      float64                  `json:"week_attendance_rate"`
	WeeklyLabels  []string                 `json:"weekly_labels"`
	WeeklyValues  []float64                `json:"weekly_values"`
	RecentRecords []model.AttendanceRecord `json:"recent_records"`
}

// StudentDashboard is a student's own attendance view.
type StudentDashboard struct {
	Counts        model.StatusCounts       `json:"counts"`
	Percentage    float64                  `json:"percentage"`
	BySubject     []stats.GroupStat        `json:"by_subject"`
	MonthlyTrend  []stats.TrendPoint       `json:"monthly_trend"`
	RecentRecords []model.AttendanceRecord `json:"recent_records"`
}

const dashboardRecentLimit = 10

// DashboardService assembles the role-specific landing views.
type DashboardService struct {
	userRepo       *repository.UserRepository
	classRepo      *repository.ClassRepository
	subjectRepo    *repository.SubjectRepository
	attendanceRepo *repository.AttendanceRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	userRepo *repository.UserRepository,
	classRepo *repository.ClassRepository,
	subjectRepo *repository.SubjectRepository,
	attendanceRepo *repository.AttendanceRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		classRepo:      classRepo,
		subjectRepo:    subjectRepo,
		attendanceRepo: attendanceRepo,
	}
}

// Admin assembles the school-wide dashboard.
func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	d := &AdminDashboard{}
	var err error

	if d.TotalStudents, err = s.userRepo.CountByRole(ctx, model.RoleStudent); err != nil {
		return nil, err
	}
	if d.TotalTeachers, err = s.userRepo.CountByRole(ctx, model.RoleTeacher); err != nil {
		return nil, err
	}
	if d.TotalClasses, err = s.classRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalSubjects, err = s.subjectRepo.Count(ctx); err != nil {
		return nil, err
	}

	today := truncateToday()
	todayRecords, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{Date: &today})
	if err != nil {
		return nil, err
	}
	d.TodayRate = stats.OverallPercentage(todayRecords)
	d.TodayRecorded = len(todayRecords)

	weekFrom := today.AddDate(0, 0, -6)
	weekRecords, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{DateFrom: &weekFrom, DateTo: &today})
	if err != nil {
		return nil, err
	}
	d.WeeklyLabels, d.WeeklyValues = stats.DailySeries(weekRecords, weekFrom, today)

	monthFrom := today.AddDate(0, 0, -29)
	monthRecords, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{DateFrom: &monthFrom, DateTo: &today})
	if err != nil {
		return nil, err
	}
	monthStudents := stats.GroupByStudent(monthRecords)
	d.TopStudents = stats.TopStudents(monthStudents)
	d.LowStudents = stats.LowAttendance(monthStudents)

	recent, _, err := s.attendanceRepo.ListPage(ctx, model.AttendanceFilter{}, dashboardRecentLimit, 0)
	if err != nil {
		return nil, err
	}
	d.RecentRecords = recent
	return d, nil
}

// Teacher assembles a teacher's dashboard over their own records.
func (s *DashboardService) Teacher(ctx context.Context, teacherID int) (*TeacherDashboard, error) {
	d := &TeacherDashboard{}

	subjects, err := s.subjectRepo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	d.SubjectCount = len(subjects)

	classSet := make(map[int]struct{})
	for _, sub := range subjects {
		for _, cl := range sub.Classes {
			classSet[cl.ID] = struct{}{}
		}
	}
	homerooms, err := s.classRepo.ListByHomeroomTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	for _, cl := range homerooms {
		classSet[cl.ID] = struct{}{}
	}
	d.ClassCount = len(classSet)

	today := truncateToday()
	todayRecords, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{TeacherID: teacherID, Date: &today})
	if err != nil {
		return nil, err
	}
	d.TodayRecorded = len(todayRecords)

	weekFrom := today.AddDate(0, 0, -6)
	weekRecords, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{TeacherID: teacherID, DateFrom: &weekFrom, DateTo: &today})
	if err != nil {
		return nil, err
	}
	if len(weekRecords) == 0 {
		d.WeekRate = 100
	} else {
		d.WeekRate = stats.OverallPercentage(weekRecords)
	}
	d.WeeklyLabels, d.WeeklyValues = stats.DailySeries(weekRecords, weekFrom, today)

	recent, _, err := s.attendanceRepo.ListPage(ctx, model.AttendanceFilter{TeacherID: teacherID}, dashboardRecentLimit, 0)
	if err != nil {
		return nil, err
	}
	d.RecentRecords = recent
	return d, nil
}

// Student assembles a student's own attendance dashboard.
func (s *DashboardService) Student(ctx context.Context, studentID int) (*StudentDashboard, error) {
	records, err := s.attendanceRepo.List(ctx, model.AttendanceFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}

	recent, _, err := s.attendanceRepo.ListPage(ctx, model.AttendanceFilter{StudentID: studentID}, dashboardRecentLimit, 0)
	if err != nil {
		return nil, err
	}

	return &StudentDashboard{
		Counts:        stats.Count(records),
		Percentage:    stats.OverallPercentage(records),
		BySubject:     stats.GroupBySubject(records),
		MonthlyTrend:  stats.MonthlyTrend(records, 6, time.Now()),
		RecentRecords: recent,
	}, nil
}

func truncateToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
