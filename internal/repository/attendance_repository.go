package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samoschool/davomat-backend/internal/model"
)

// AttendanceRepository handles attendance record data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `
	a.id, a.student_id, a.teacher_id, a.subject_id, a.class_id,
	a.date, a.status, a.notes, a.created_at, a.updated_at,
	stu.full_name, stu.username, COALESCE(tea.full_name, ''),
	s.name, cl.name, cl.room`

const attendanceJoins = `
	 FROM attendance_records a
	 JOIN users stu ON stu.id = a.student_id
	 LEFT JOIN users tea ON tea.id = a.teacher_id
	 JOIN subjects s ON s.id = a.subject_id
	 JOIN classes cl ON cl.id = a.class_id`

func scanAttendance(row pgx.Row) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.StudentID, &rec.TeacherID, &rec.SubjectID, &rec.ClassID,
		&rec.Date, &rec.Status, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.StudentName, &rec.StudentUsername, &rec.TeacherName,
		&rec.SubjectName, &rec.ClassName, &rec.ClassRoom,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func buildAttendanceWhere(f model.AttendanceFilter, args *[]interface{}) string {
	where := []string{"1=1"}
	arg := func(v interface{}) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
	}

	if f.TeacherID != 0 {
		where = append(where, "a.teacher_id = "+arg(f.TeacherID))
	}
	if f.StudentID != 0 {
		where = append(where, "a.student_id = "+arg(f.StudentID))
	}
	if f.ClassID != 0 {
		where = append(where, "a.class_id = "+arg(f.ClassID))
	}
	if f.SubjectID != 0 {
		where = append(where, "a.subject_id = "+arg(f.SubjectID))
	}
	if f.Date != nil {
		where = append(where, "a.date = "+arg(*f.Date))
	}
	if f.DateFrom != nil {
		where = append(where, "a.date >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		where = append(where, "a.date <= "+arg(*f.DateTo))
	}
	if f.ClassName != "" {
		where = append(where, "cl.name ILIKE "+arg("%"+f.ClassName+"%"))
	}
	if f.SubjectName != "" {
		where = append(where, "s.name ILIKE "+arg("%"+f.SubjectName+"%"))
	}
	if f.StudentName != "" {
		p := arg("%" + f.StudentName + "%")
		where = append(where, "(stu.full_name ILIKE "+p+" OR stu.username ILIKE "+p+")")
	}
	if f.Status != "" {
		where = append(where, "a.status = "+arg(f.Status))
	}
	return strings.Join(where, " AND ")
}

// List retrieves all records matching the filter, newest first.
func (r *AttendanceRepository) List(ctx context.Context, f model.AttendanceFilter) ([]model.AttendanceRecord, error) {
	var args []interface{}
	cond := buildAttendanceWhere(f, &args)

	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+attendanceJoins+`
		 WHERE `+cond+`
		 ORDER BY a.date DESC, a.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// ListPage retrieves one page of matching records plus the total count.
func (r *AttendanceRepository) ListPage(ctx context.Context, f model.AttendanceFilter, limit, offset int) ([]model.AttendanceRecord, int, error) {
	var args []interface{}
	cond := buildAttendanceWhere(f, &args)

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)`+attendanceJoins+` WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+attendanceJoins+`
		 WHERE `+cond+`
		 ORDER BY a.date DESC, a.created_at DESC
		 LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	return records, total, rows.Err()
}

// GetByID retrieves a single record with its joined display fields.
func (r *AttendanceRepository) GetByID(ctx context.Context, id int) (*model.AttendanceRecord, error) {
	return scanAttendance(r.pool.QueryRow(ctx,
		`SELECT `+attendanceColumns+attendanceJoins+` WHERE a.id = $1`, id))
}

// Upsert updates the record matching the logical key (student, subject,
// class, date) or inserts a new one. The teacher column always reflects
// the latest submitter.
func (r *AttendanceRepository) Upsert(ctx context.Context, rec *model.AttendanceRecord) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE attendance_records
		 SET status = $1, notes = $2, teacher_id = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE student_id = $4 AND subject_id = $5 AND class_id = $6 AND date = $7`,
		rec.Status, rec.Notes, rec.TeacherID,
		rec.StudentID, rec.SubjectID, rec.ClassID, rec.Date,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO attendance_records (student_id, teacher_id, subject_id, class_id, date, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		rec.StudentID, rec.TeacherID, rec.SubjectID, rec.ClassID, rec.Date, rec.Status, rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

// Update modifies the status and notes of an existing record.
func (r *AttendanceRepository) Update(ctx context.Context, id int, status model.AttendanceStatus, notes string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE attendance_records SET status = $1, notes = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`, status, notes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a record by its ID.
func (r *AttendanceRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// BulkDelete removes the given records. When teacherID is non-zero only
// that teacher's records are touched; the returned count reflects what
// was actually deleted.
func (r *AttendanceRepository) BulkDelete(ctx context.Context, ids []int, teacherID int) (int, error) {
	query := `DELETE FROM attendance_records WHERE id = ANY($1)`
	args := []interface{}{ids}
	if teacherID != 0 {
		query += ` AND teacher_id = $2`
		args = append(args, teacherID)
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
