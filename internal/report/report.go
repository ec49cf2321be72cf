// Package report turns filtered attendance records into the exportable
// report types. Builders are pure; rendering to CSV or Excel happens in
// csv.go and excel.go over the same Tabular rows, so both formats always
// carry identical data and ordering.
package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/stats"
)

// Type selects the report shape.
type Type string

const (
	TypeSummary  Type = "summary"
	TypeDetailed Type = "detailed"
	TypeStudent  Type = "student"
	TypeSubject  Type = "subject"
	TypeDaily    Type = "daily"
)

// Valid reports whether t is a known report type.
func (t Type) Valid() bool {
	switch t {
	case TypeSummary, TypeDetailed, TypeStudent, TypeSubject, TypeDaily:
		return true
	}
	return false
}

// GroupBy selects the summary partition key.
type GroupBy string

const (
	GroupByDay     GroupBy = "day"
	GroupBySubject GroupBy = "subject"
	GroupByClass   GroupBy = "class"
)

// detailedRowCap bounds the detailed report.
const detailedRowCap = 100

// Tabular is the common tabular view rendered by the CSV and Excel
// writers. Rows are already ordered and stringified.
type Tabular interface {
	Title() string
	Columns() []string
	Rows() [][]string
}

// Metadata describes a generated report.
type Metadata struct {
	ReportType   Type   `json:"report_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalRecords int    `json:"total_records"`
	GeneratedAt  string `json:"generated_at"`
	GeneratedBy  string `json:"generated_by"`
}

func fmtPct(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// Build constructs the report of the given type over records. groupBy
// only affects TypeSummary.
func Build(t Type, groupBy GroupBy, records []model.AttendanceRecord) Tabular {
	switch t {
	case TypeDetailed:
		return BuildDetailed(records)
	case TypeStudent:
		return BuildStudentRollup(records)
	case TypeSubject:
		return BuildSubjectRollup(records)
	case TypeDaily:
		return BuildDaily(records)
	default:
		return BuildSummary(records, groupBy)
	}
}

// FileName is the download name for an exported report.
func FileName(t Type, ext string, generatedAt time.Time) string {
	return "attendance_report_" + string(t) + "_" + generatedAt.Format("20060102") + "." + ext
}

// ─── Summary ────────────────────────────────────────────────────────────

// SummaryTotals sums the grouped rows.
type SummaryTotals struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// Summary groups records by day, subject, or class.
type Summary struct {
	GroupBy GroupBy          `json:"group_by"`
	Groups  []stats.GroupStat `json:"summary"`
	Totals  SummaryTotals    `json:"totals"`
}

// BuildSummary partitions records by the given key and totals the groups.
func BuildSummary(records []model.AttendanceRecord, groupBy GroupBy) *Summary {
	var groups []stats.GroupStat
	switch groupBy {
	case GroupBySubject:
		groups = stats.GroupBySubject(records)
	case GroupByClass:
		groups = stats.GroupByClass(records)
	default:
		groupBy = GroupByDay
		groups = stats.GroupByDay(records)
	}

	var totals SummaryTotals
	for _, g := range groups {
		totals.Total += g.Total
		totals.Present += g.Present
		totals.Absent += g.Absent
	}
	return &Summary{GroupBy: groupBy, Groups: groups, Totals: totals}
}

func (s *Summary) Title() string { return "Attendance Summary" }

func (s *Summary) Columns() []string {
	return []string{"Period", "Total", "Present", "Absent", "Percentage (%)"}
}

func (s *Summary) Rows() [][]string {
	rows := make([][]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		rows = append(rows, []string{
			g.Label,
			strconv.Itoa(g.Total),
			strconv.Itoa(g.Present),
			strconv.Itoa(g.Absent),
			fmtPct(g.Percentage),
		})
	}
	return rows
}

// ─── Detailed ───────────────────────────────────────────────────────────

// DetailedRow is one record in the detailed dump.
type DetailedRow struct {
	Date        string `json:"date"`
	StudentName string `json:"student_name"`
	ClassName   string `json:"class_name"`
	SubjectName string `json:"subject_name"`
	Status      string `json:"status"`
	StatusCode  string `json:"status_code"`
	Notes       string `json:"notes"`
	Time        string `json:"time"`
}

// Detailed is the reverse-chronological row dump, capped at 100 rows.
type Detailed struct {
	Records []DetailedRow `json:"detailed"`
	Count   int           `json:"count"`
}

// BuildDetailed sorts records newest-first and keeps the first 100.
func BuildDetailed(records []model.AttendanceRecord) *Detailed {
	sorted := make([]model.AttendanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(a, b int) bool {
		if !sorted[a].Date.Equal(sorted[b].Date) {
			return sorted[a].Date.After(sorted[b].Date)
		}
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})
	if len(sorted) > detailedRowCap {
		sorted = sorted[:detailedRowCap]
	}

	rows := make([]DetailedRow, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, DetailedRow{
			Date:        r.Date.Format(stats.DayLabelFormat),
			StudentName: r.StudentName,
			ClassName:   r.ClassName,
			SubjectName: r.SubjectName,
			Status:      r.Status.Label(),
			StatusCode:  string(r.Status),
			Notes:       r.Notes,
			Time:        r.CreatedAt.Format("15:04"),
		})
	}
	return &Detailed{Records: rows, Count: len(rows)}
}

func (d *Detailed) Title() string { return "Detailed Attendance" }

func (d *Detailed) Columns() []string {
	return []string{"Date", "Student", "Class", "Subject", "Status", "Notes", "Time"}
}

func (d *Detailed) Rows() [][]string {
	rows := make([][]string, 0, len(d.Records))
	for _, r := range d.Records {
		rows = append(rows, []string{r.Date, r.StudentName, r.ClassName, r.SubjectName, r.Status, r.Notes, r.Time})
	}
	return rows
}

// ─── Student rollup ─────────────────────────────────────────────────────

// StudentRollup rolls records up per student, ascending by percentage so
// the underperformers surface first.
type StudentRollup struct {
	Students          []stats.StudentStat `json:"students"`
	AveragePercentage float64             `json:"average_percentage"`
	TotalStudents     int                 `json:"total_students"`
}

// BuildStudentRollup aggregates per student and sorts worst-first.
func BuildStudentRollup(records []model.AttendanceRecord) *StudentRollup {
	students := stats.GroupByStudent(records)
	sort.SliceStable(students, func(a, b int) bool {
		return students[a].Percentage < students[b].Percentage
	})

	pcts := make([]float64, len(students))
	for i, s := range students {
		pcts[i] = s.Percentage
	}
	return &StudentRollup{
		Students:          students,
		AveragePercentage: stats.AveragePercentage(pcts),
		TotalStudents:     len(students),
	}
}

func (s *StudentRollup) Title() string { return "Student Attendance" }

func (s *StudentRollup) Columns() []string {
	return []string{"Student", "Class", "Total", "Present", "Absent", "Late", "Excused", "Percentage (%)"}
}

func (s *StudentRollup) Rows() [][]string {
	rows := make([][]string, 0, len(s.Students))
	for _, st := range s.Students {
		rows = append(rows, []string{
			st.Name,
			st.ClassName,
			strconv.Itoa(st.Total),
			strconv.Itoa(st.Present),
			strconv.Itoa(st.Absent),
			strconv.Itoa(st.Late),
			strconv.Itoa(st.Excused),
			fmtPct(st.Percentage),
		})
	}
	return rows
}

// ─── Subject rollup ─────────────────────────────────────────────────────

// ClassBreakdown is the nested per-class slice of a subject rollup.
type ClassBreakdown struct {
	ClassName  string  `json:"class_name"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Percentage float64 `json:"percentage"`
}

// SubjectRow is one subject's rollup with its class breakdown.
type SubjectRow struct {
	SubjectName    string           `json:"subject_name"`
	Total          int              `json:"total"`
	Present        int              `json:"present"`
	Percentage     float64          `json:"percentage"`
	ClassesCount   int              `json:"classes_count"`
	ClassBreakdown []ClassBreakdown `json:"class_breakdown"`
}

// SubjectRollup rolls records up per subject, ascending by percentage.
type SubjectRollup struct {
	Subjects          []SubjectRow `json:"subjects"`
	AveragePercentage float64      `json:"average_percentage"`
	TotalSubjects     int          `json:"total_subjects"`
}

// BuildSubjectRollup aggregates per subject with a nested per-class
// breakdown of the classes that actually have records.
func BuildSubjectRollup(records []model.AttendanceRecord) *SubjectRollup {
	type classAgg struct {
		name    string
		total   int
		present int
	}
	type subjectAgg struct {
		name    string
		total   int
		present int
		classes map[int]*classAgg
		order   []int
	}

	idx := make(map[int]*subjectAgg)
	var order []int
	for _, r := range records {
		agg, ok := idx[r.SubjectID]
		if !ok {
			agg = &subjectAgg{name: r.SubjectName, classes: make(map[int]*classAgg)}
			idx[r.SubjectID] = agg
			order = append(order, r.SubjectID)
		}
		agg.total++
		ca, ok := agg.classes[r.ClassID]
		if !ok {
			ca = &classAgg{name: r.ClassName}
			agg.classes[r.ClassID] = ca
			agg.order = append(agg.order, r.ClassID)
		}
		ca.total++
		if r.Status == model.StatusPresent {
			agg.present++
			ca.present++
		}
	}

	subjects := make([]SubjectRow, 0, len(order))
	for _, sid := range order {
		agg := idx[sid]
		row := SubjectRow{
			SubjectName:  agg.name,
			Total:        agg.total,
			Present:      agg.present,
			Percentage:   stats.Percentage(agg.present, agg.total),
			ClassesCount: len(agg.classes),
		}
		for _, cid := range agg.order {
			ca := agg.classes[cid]
			row.ClassBreakdown = append(row.ClassBreakdown, ClassBreakdown{
				ClassName:  ca.name,
				Total:      ca.total,
				Present:    ca.present,
				Percentage: stats.Percentage(ca.present, ca.total),
			})
		}
		subjects = append(subjects, row)
	}
	sort.SliceStable(subjects, func(a, b int) bool {
		return subjects[a].Percentage < subjects[b].Percentage
	})

	pcts := make([]float64, len(subjects))
	for i, s := range subjects {
		pcts[i] = s.Percentage
	}
	return &SubjectRollup{
		Subjects:          subjects,
		AveragePercentage: stats.AveragePercentage(pcts),
		TotalSubjects:     len(subjects),
	}
}

func (s *SubjectRollup) Title() string { return "Subject Attendance" }

func (s *SubjectRollup) Columns() []string {
	return []string{"Subject", "Total", "Present", "Percentage (%)", "Classes"}
}

func (s *SubjectRollup) Rows() [][]string {
	rows := make([][]string, 0, len(s.Subjects))
	for _, sub := range s.Subjects {
		rows = append(rows, []string{
			sub.SubjectName,
			strconv.Itoa(sub.Total),
			strconv.Itoa(sub.Present),
			fmtPct(sub.Percentage),
			strconv.Itoa(sub.ClassesCount),
		})
	}
	return rows
}

// ─── Daily ──────────────────────────────────────────────────────────────

// SubjectBreakdown is a subject slice of one day's records.
type SubjectBreakdown struct {
	Subject string `json:"subject"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
}

// DailyRow is one day's rollup with its subject breakdown.
type DailyRow struct {
	Date             string             `json:"date"`
	Day              string             `json:"day"`
	Total            int                `json:"total"`
	Present          int                `json:"present"`
	Percentage       float64            `json:"percentage"`
	SubjectBreakdown []SubjectBreakdown `json:"subject_breakdown"`
}

// Daily is the per-day report, newest day first.
type Daily struct {
	Days         []DailyRow `json:"daily"`
	AverageDaily float64    `json:"average_daily"`
	DaysCount    int        `json:"days_count"`
}

// BuildDaily aggregates per calendar day, descending.
func BuildDaily(records []model.AttendanceRecord) *Daily {
	type dayAgg struct {
		date     time.Time
		total    int
		present  int
		subjects map[string]*SubjectBreakdown
		order    []string
	}

	idx := make(map[string]*dayAgg)
	var keys []string
	for _, r := range records {
		key := r.Date.Format(stats.DayKeyFormat)
		agg, ok := idx[key]
		if !ok {
			agg = &dayAgg{date: r.Date, subjects: make(map[string]*SubjectBreakdown)}
			idx[key] = agg
			keys = append(keys, key)
		}
		agg.total++
		sb, ok := agg.subjects[r.SubjectName]
		if !ok {
			sb = &SubjectBreakdown{Subject: r.SubjectName}
			agg.subjects[r.SubjectName] = sb
			agg.order = append(agg.order, r.SubjectName)
		}
		sb.Total++
		if r.Status == model.StatusPresent {
			agg.present++
			sb.Present++
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	days := make([]DailyRow, 0, len(keys))
	var pcts []float64
	for _, key := range keys {
		agg := idx[key]
		row := DailyRow{
			Date:       agg.date.Format(stats.DayLabelFormat),
			Day:        agg.date.Format("Monday"),
			Total:      agg.total,
			Present:    agg.present,
			Percentage: stats.Percentage(agg.present, agg.total),
		}
		for _, name := range agg.order {
			row.SubjectBreakdown = append(row.SubjectBreakdown, *agg.subjects[name])
		}
		days = append(days, row)
		pcts = append(pcts, row.Percentage)
	}
	return &Daily{
		Days:         days,
		AverageDaily: stats.AveragePercentage(pcts),
		DaysCount:    len(days),
	}
}

func (d *Daily) Title() string { return "Daily Attendance" }

func (d *Daily) Columns() []string {
	return []string{"Date", "Day", "Total", "Present", "Percentage (%)"}
}

func (d *Daily) Rows() [][]string {
	rows := make([][]string, 0, len(d.Days))
	for _, day := range d.Days {
		rows = append(rows, []string{
			day.Date,
			day.Day,
			strconv.Itoa(day.Total),
			strconv.Itoa(day.Present),
			fmtPct(day.Percentage),
		})
	}
	return rows
}

// ─── Raw record export ──────────────────────────────────────────────────

// RecordExport is the teacher's filtered record dump (the "export my
// attendance" surface), newest first, uncapped.
type RecordExport struct {
	Records []model.AttendanceRecord
}

// BuildRecordExport sorts records newest-first for export.
func BuildRecordExport(records []model.AttendanceRecord) *RecordExport {
	sorted := make([]model.AttendanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(a, b int) bool {
		if !sorted[a].Date.Equal(sorted[b].Date) {
			return sorted[a].Date.After(sorted[b].Date)
		}
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})
	return &RecordExport{Records: sorted}
}

func (e *RecordExport) Title() string { return "Attendance" }

func (e *RecordExport) Columns() []string {
	return []string{"Date", "Student", "Class", "Subject", "Status", "Notes", "Created", "Updated"}
}

func (e *RecordExport) Rows() [][]string {
	rows := make([][]string, 0, len(e.Records))
	for _, r := range e.Records {
		rows = append(rows, []string{
			r.Date.Format(stats.DayLabelFormat),
			r.StudentName,
			r.ClassName,
			r.SubjectName,
			r.Status.Label(),
			r.Notes,
			r.CreatedAt.Format("02.01.2006 15:04"),
			r.UpdatedAt.Format("02.01.2006 15:04"),
		})
	}
	return rows
}
