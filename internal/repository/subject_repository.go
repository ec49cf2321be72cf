package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samoschool/davomat-backend/internal/model"
)

// SubjectRepository handles subject data access, including the
// subject-class and teacher-subject links.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// GetByID retrieves a subject with its teacher name and linked classes.
func (r *SubjectRepository) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	s := &model.Subject{}
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.name, s.teacher_id, COALESCE(u.full_name, ''), s.lessons_per_week, s.schedule,
		        s.created_at, s.updated_at
		 FROM subjects s
		 LEFT JOIN users u ON u.id = s.teacher_id
		 WHERE s.id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.TeacherID, &s.TeacherName, &s.LessonsPerWeek, &s.Schedule,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	classes, err := r.ListClasses(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Classes = classes
	return s, nil
}

// List retrieves all subjects ordered by name, with linked classes.
func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	return r.list(ctx,
		`SELECT s.id, s.name, s.teacher_id, COALESCE(u.full_name, ''), s.lessons_per_week, s.schedule,
		        s.created_at, s.updated_at
		 FROM subjects s
		 LEFT JOIN users u ON u.id = s.teacher_id
		 ORDER BY s.name`)
}

// ListByTeacher retrieves the subjects a teacher owns or is assigned to,
// ordered by name.
func (r *SubjectRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.Subject, error) {
	return r.list(ctx,
		`SELECT DISTINCT s.id, s.name, s.teacher_id, COALESCE(u.full_name, ''), s.lessons_per_week, s.schedule,
		        s.created_at, s.updated_at
		 FROM subjects s
		 LEFT JOIN users u ON u.id = s.teacher_id
		 LEFT JOIN teacher_subjects ts ON ts.subject_id = s.id
		 WHERE s.teacher_id = $1 OR ts.teacher_id = $1
		 ORDER BY s.name`, teacherID)
}

func (r *SubjectRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.TeacherID, &s.TeacherName, &s.LessonsPerWeek, &s.Schedule,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range subjects {
		classes, err := r.ListClasses(ctx, subjects[i].ID)
		if err != nil {
			return nil, err
		}
		subjects[i].Classes = classes
	}
	return subjects, nil
}

// ListClasses retrieves the classes linked to a subject, with student counts.
func (r *SubjectRepository) ListClasses(ctx context.Context, subjectID int) ([]model.ClassRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cl.id, cl.name, cl.room,
		        (SELECT COUNT(*) FROM profiles p JOIN users su ON su.id = p.user_id
		         WHERE p.class_id = cl.id AND p.role = 'student' AND su.is_active = TRUE)
		 FROM classes cl
		 JOIN subject_classes sc ON sc.class_id = cl.id
		 WHERE sc.subject_id = $1
		 ORDER BY cl.name`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.ClassRef
	for rows.Next() {
		var c model.ClassRef
		if err := rows.Scan(&c.ID, &c.Name, &c.Room, &c.StudentCount); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// IsLinkedToClass reports whether a subject is taught in a class.
func (r *SubjectRepository) IsLinkedToClass(ctx context.Context, subjectID, classID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subject_classes WHERE subject_id = $1 AND class_id = $2)`,
		subjectID, classID).Scan(&exists)
	return exists, err
}

// IsAssignedTeacher reports whether the teacher owns the subject or is
// assigned to it via teacher_subjects.
func (r *SubjectRepository) IsAssignedTeacher(ctx context.Context, subjectID, teacherID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM subjects WHERE id = $1 AND teacher_id = $2
			UNION ALL
			SELECT 1 FROM teacher_subjects WHERE subject_id = $1 AND teacher_id = $2
		 )`, subjectID, teacherID).Scan(&exists)
	return exists, err
}

// Create inserts a subject and links its classes in one transaction.
func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject, classIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO subjects (name, teacher_id, lessons_per_week, schedule)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.TeacherID, s.LessonsPerWeek, s.Schedule,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return err
	}

	if err := replaceSubjectClasses(ctx, tx, s.ID, classIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update modifies a subject and replaces its class links in one transaction.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject, classIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE subjects SET name = $1, teacher_id = $2, lessons_per_week = $3, schedule = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		s.Name, s.TeacherID, s.LessonsPerWeek, s.Schedule, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := replaceSubjectClasses(ctx, tx, s.ID, classIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes a subject. Class and teacher links cascade.
func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Count returns the number of subjects.
func (r *SubjectRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&n)
	return n, err
}

func replaceSubjectClasses(ctx context.Context, tx pgx.Tx, subjectID int, classIDs []int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM subject_classes WHERE subject_id = $1`, subjectID); err != nil {
		return err
	}
	for _, cid := range classIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO subject_classes (subject_id, class_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, subjectID, cid)
		if err != nil {
			return err
		}
	}
	return nil
}
