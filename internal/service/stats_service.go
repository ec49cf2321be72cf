package service

import (
	"context"
	"time"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/repository"
	"github.com/samoschool/davomat-backend/internal/stats"
)

// Period selects a rolling statistics window ending today.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Window resolves the period to an inclusive [from, to] date range.
// Unknown values fall back to a week.
func (p Period) Window(today time.Time) (time.Time, time.Time) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	days := 7
	switch p {
	case PeriodMonth:
		days = 30
	case PeriodQuarter:
		days = 90
	case PeriodYear:
		days = 365
	}
	return today.AddDate(0, 0, -(days - 1)), today
}

// Overview is the aggregate view over a filtered record window.
type Overview struct {
	Period     Period             `json:"period"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Counts     model.StatusCounts `json:"counts"`
	Percentage float64            `json:"percentage"`

	BySubject []stats.GroupStat `json:"by_subject"`
	ByClass   []stats.GroupStat `json:"by_class"`
	ByDay     []stats.GroupStat `json:"by_day"`

	WeeklyTrend []stats.TrendPoint  `json:"weekly_trend"`
	TopStudents []stats.StudentStat `json:"top_students"`
	LowStudents []stats.StudentStat `json:"low_attendance_students"`
}

// ChartSeries is the daily line-chart payload.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// StatsService computes attendance statistics over filtered record sets.
type StatsService struct {
	attendanceRepo *repository.AttendanceRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(attendanceRepo *repository.AttendanceRepository) *StatsService {
	return &StatsService{attendanceRepo: attendanceRepo}
}

// Overview aggregates the records matching the filter over the period.
// The filter's scoping fields (TeacherID, StudentID) bound what the
// caller may see; date bounds are overwritten from the period.
func (s *StatsService) Overview(ctx context.Context, f model.AttendanceFilter, period Period) (*Overview, error) {
	from, to := period.Window(time.Now())
	f.DateFrom = &from
	f.DateTo = &to

	records, err := s.attendanceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	students := stats.GroupByStudent(records)
	return &Overview{
		Period:      period,
		StartDate:   from.Format("2006-01-02"),
		EndDate:     to.Format("2006-01-02"),
		Counts:      stats.Count(records),
		Percentage:  stats.OverallPercentage(records),
		BySubject:   stats.GroupBySubject(records),
		ByClass:     stats.GroupByClass(records),
		ByDay:       stats.GroupByDay(records),
		WeeklyTrend: stats.WeeklyTrend(records, from, to),
		TopStudents: stats.TopStudents(students),
		LowStudents: stats.LowAttendance(students),
	}, nil
}

// DailyChart returns one percentage per day of the period for the
// records matching the filter.
func (s *StatsService) DailyChart(ctx context.Context, f model.AttendanceFilter, period Period) (*ChartSeries, error) {
	from, to := period.Window(time.Now())
	f.DateFrom = &from
	f.DateTo = &to

	records, err := s.attendanceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	labels, values := stats.DailySeries(records, from, to)
	return &ChartSeries{Labels: labels, Values: values}, nil
}

// MonthlyChart returns the present-rate for each of the last `months`
// calendar months for the records matching the filter.
func (s *StatsService) MonthlyChart(ctx context.Context, f model.AttendanceFilter, months int) ([]stats.TrendPoint, error) {
	today := time.Now()
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -(months - 1), 0)
	to := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	f.DateFrom = &from
	f.DateTo = &to

	records, err := s.attendanceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return stats.MonthlyTrend(records, months, today), nil
}
