package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samoschool/davomat-backend/internal/model"
)

// UserRepository handles user and profile data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userProfileColumns = `
	u.id, u.username, u.full_name, u.email, u.password_hash,
	u.is_active, u.is_superuser, u.created_at, u.updated_at,
	p.role, p.phone, p.birth_date, p.class_id, COALESCE(c.name, '')`

func scanUserWithProfile(row pgx.Row) (*model.UserWithProfile, error) {
	var uw model.UserWithProfile
	err := row.Scan(
		&uw.ID, &uw.Username, &uw.FullName, &uw.Email, &uw.PasswordHash,
		&uw.IsActive, &uw.IsSuperuser, &uw.CreatedAt, &uw.UpdatedAt,
		&uw.Profile.Role, &uw.Profile.Phone, &uw.Profile.BirthDate,
		&uw.Profile.ClassID, &uw.Profile.ClassName,
	)
	if err != nil {
		return nil, err
	}
	uw.Profile.UserID = uw.ID
	return &uw, nil
}

// GetByID retrieves a user with its profile.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.UserWithProfile, error) {
	return scanUserWithProfile(r.pool.QueryRow(ctx,
		`SELECT `+userProfileColumns+`
		 FROM users u
		 JOIN profiles p ON p.user_id = u.id
		 LEFT JOIN classes c ON c.id = p.class_id
		 WHERE u.id = $1`, id))
}

// GetByUsername retrieves a user with its profile by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.UserWithProfile, error) {
	return scanUserWithProfile(r.pool.QueryRow(ctx,
		`SELECT `+userProfileColumns+`
		 FROM users u
		 JOIN profiles p ON p.user_id = u.id
		 LEFT JOIN classes c ON c.id = p.class_id
		 WHERE u.username = $1`, username))
}

// List retrieves users matching the filter, newest first, with the
// teacher subject ids hydrated for teacher rows.
func (r *UserRepository) List(ctx context.Context, f model.UserFilter, limit, offset int) ([]model.UserWithProfile, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Role != "" {
		where = append(where, "p.role = "+arg(f.Role))
	}
	if f.Active != nil {
		where = append(where, "u.is_active = "+arg(*f.Active))
	}
	if f.ClassName != "" {
		where = append(where, "c.name ILIKE "+arg("%"+f.ClassName+"%"))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(u.username ILIKE "+p+" OR u.full_name ILIKE "+p+" OR u.email ILIKE "+p+")")
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM users u
		 JOIN profiles p ON p.user_id = u.id
		 LEFT JOIN classes c ON c.id = p.class_id
		 WHERE `+cond, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userProfileColumns + `
		 FROM users u
		 JOIN profiles p ON p.user_id = u.id
		 LEFT JOIN classes c ON c.id = p.class_id
		 WHERE ` + cond + `
		 ORDER BY u.created_at DESC, u.id DESC
		 LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.UserWithProfile
	for rows.Next() {
		uw, err := scanUserWithProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *uw)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range users {
		if users[i].Profile.Role != model.RoleTeacher {
			continue
		}
		ids, err := r.teacherSubjectIDs(ctx, users[i].ID)
		if err != nil {
			return nil, 0, err
		}
		users[i].Profile.SubjectIDs = ids
	}
	return users, total, nil
}

// Create inserts a user and its profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *model.User, p *model.Profile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, full_name, email, password_hash, is_active, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		u.Username, u.FullName, u.Email, u.PasswordHash, u.IsActive, u.IsSuperuser,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return err
	}

	p.UserID = u.ID
	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, role, phone, birth_date, class_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.UserID, p.Role, p.Phone, p.BirthDate, p.ClassID,
	)
	if err != nil {
		return err
	}

	if p.Role == model.RoleTeacher && len(p.SubjectIDs) > 0 {
		if err := replaceTeacherSubjects(ctx, tx, u.ID, p.SubjectIDs); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Update modifies a user and its profile in one transaction. Teacher
// subject assignments are replaced wholesale.
func (r *UserRepository) Update(ctx context.Context, u *model.User, p *model.Profile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET username = $1, full_name = $2, email = $3, is_active = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		u.Username, u.FullName, u.Email, u.IsActive, u.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	_, err = tx.Exec(ctx,
		`UPDATE profiles SET role = $1, phone = $2, birth_date = $3, class_id = $4
		 WHERE user_id = $5`,
		p.Role, p.Phone, p.BirthDate, p.ClassID, u.ID,
	)
	if err != nil {
		return err
	}

	if err := replaceTeacherSubjects(ctx, tx, u.ID, p.SubjectIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		hash, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetActive toggles a user's active flag.
func (r *UserRepository) SetActive(ctx context.Context, userID int, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		active, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a user. The profile and teacher subject rows cascade.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountByRole counts active users per role.
func (r *UserRepository) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users u JOIN profiles p ON p.user_id = u.id
		 WHERE p.role = $1 AND u.is_active = TRUE`, role).Scan(&n)
	return n, err
}

func (r *UserRepository) teacherSubjectIDs(ctx context.Context, teacherID int) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT subject_id FROM teacher_subjects WHERE teacher_id = $1 ORDER BY subject_id`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func replaceTeacherSubjects(ctx context.Context, tx pgx.Tx, teacherID int, subjectIDs []int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM teacher_subjects WHERE teacher_id = $1`, teacherID); err != nil {
		return err
	}
	for _, sid := range subjectIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO teacher_subjects (teacher_id, subject_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, teacherID, sid)
		if err != nil {
			return err
		}
	}
	return nil
}
