package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samoschool/davomat-backend/internal/model"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// GetByID retrieves a class with its homeroom teacher name and student count.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	c := &model.Class{}
	err := r.pool.QueryRow(ctx,
		`SELECT cl.id, cl.name, cl.teacher_id, COALESCE(u.full_name, ''), cl.room, cl.schedule,
		        cl.created_at, cl.updated_at,
		        (SELECT COUNT(*) FROM profiles p JOIN users su ON su.id = p.user_id
		         WHERE p.class_id = cl.id AND p.role = 'student' AND su.is_active = TRUE)
		 FROM classes cl
		 LEFT JOIN users u ON u.id = cl.teacher_id
		 WHERE cl.id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.TeacherID, &c.TeacherName, &c.Room, &c.Schedule,
		&c.CreatedAt, &c.UpdatedAt, &c.StudentCount)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all classes ordered by name, with student counts.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cl.id, cl.name, cl.teacher_id, COALESCE(u.full_name, ''), cl.room, cl.schedule,
		        cl.created_at, cl.updated_at,
		        (SELECT COUNT(*) FROM profiles p JOIN users su ON su.id = p.user_id
		         WHERE p.class_id = cl.id AND p.role = 'student' AND su.is_active = TRUE)
		 FROM classes cl
		 LEFT JOIN users u ON u.id = cl.teacher_id
		 ORDER BY cl.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.TeacherName, &c.Room, &c.Schedule,
			&c.CreatedAt, &c.UpdatedAt, &c.StudentCount); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ListByHomeroomTeacher retrieves the classes where the teacher is homeroom.
func (r *ClassRepository) ListByHomeroomTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cl.id, cl.name, cl.teacher_id, '', cl.room, cl.schedule, cl.created_at, cl.updated_at,
		        (SELECT COUNT(*) FROM profiles p JOIN users su ON su.id = p.user_id
		         WHERE p.class_id = cl.id AND p.role = 'student' AND su.is_active = TRUE)
		 FROM classes cl
		 WHERE cl.teacher_id = $1
		 ORDER BY cl.name`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.TeacherName, &c.Room, &c.Schedule,
			&c.CreatedAt, &c.UpdatedAt, &c.StudentCount); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ListStudents retrieves the active student roster of a class, ordered by name.
func (r *ClassRepository) ListStudents(ctx context.Context, classID int) ([]model.ClassStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.full_name, u.username, p.phone
		 FROM users u
		 JOIN profiles p ON p.user_id = u.id
		 WHERE p.class_id = $1 AND p.role = 'student' AND u.is_active = TRUE
		 ORDER BY u.full_name`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.ClassStudent
	for rows.Next() {
		var s model.ClassStudent
		if err := rows.Scan(&s.ID, &s.FullName, &s.Username, &s.Phone); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, teacher_id, room, schedule)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.TeacherID, c.Room, c.Schedule,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $1, teacher_id = $2, room = $3, schedule = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		c.Name, c.TeacherID, c.Room, c.Schedule, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a class by its ID.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Count returns the number of classes.
func (r *ClassRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM classes`).Scan(&n)
	return n, err
}
