package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samoschool/davomat-backend/internal/model"
)

// SettingRepository handles the single global settings row. The table
// carries CHECK (id = 1) and is seeded by migration, so there is no
// create or delete path.
type SettingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

// Get retrieves the settings row.
func (r *SettingRepository) Get(ctx context.Context) (*model.Settings, error) {
	s := &model.Settings{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, school_name, school_address, school_phone, school_email,
		        academic_year, attendance_threshold, auto_attendance, notification_pref,
		        language, updated_at
		 FROM settings WHERE id = 1`,
	).Scan(&s.ID, &s.SchoolName, &s.SchoolAddress, &s.SchoolPhone, &s.SchoolEmail,
		&s.AcademicYear, &s.AttendanceThreshold, &s.AutoAttendance, &s.NotificationPref,
		&s.Language, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the settings row fields.
func (r *SettingRepository) Update(ctx context.Context, s *model.Settings) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE settings
		 SET school_name = $1, school_address = $2, school_phone = $3, school_email = $4,
		     academic_year = $5, attendance_threshold = $6, auto_attendance = $7,
		     notification_pref = $8, language = $9, updated_at = CURRENT_TIMESTAMP
		 WHERE id = 1`,
		s.SchoolName, s.SchoolAddress, s.SchoolPhone, s.SchoolEmail,
		s.AcademicYear, s.AttendanceThreshold, s.AutoAttendance,
		s.NotificationPref, s.Language,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
