package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/samoschool/davomat-backend/internal/config"
	"github.com/samoschool/davomat-backend/internal/database"
	"github.com/samoschool/davomat-backend/internal/logger"
	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/repository"
)

// Seeds a small demo school: two classes, three subjects, one teacher
// and a batch of students, then two weeks of attendance history.
// Re-running is safe; existing users are found by username and reused.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	fmt.Println("=== Seeding Demo Data ===")

	hash, err := bcrypt.GenerateFromPassword([]byte("davomat123"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}
	password := string(hash)

	// ─── Teacher ───────────────────────────────────────────────────────
	teacherID := ensureUser(ctx, log, userRepo,
		&model.User{
			Username:     "a.karimov",
			FullName:     "Akmal Karimov",
			Email:        "a.karimov@example.com",
			PasswordHash: password,
			IsActive:     true,
		},
		&model.Profile{Role: model.RoleTeacher, Phone: "+998901234567"},
	)

	// ─── Classes ───────────────────────────────────────────────────────
	classIDs := make([]int, 0, 2)
	for _, name := range []string{"5-A", "5-B"} {
		id, err := findClass(ctx, pool, name)
		if err == pgx.ErrNoRows {
			cls := &model.Class{Name: name, TeacherID: &teacherID, Room: "10" + name[2:]}
			if err := classRepo.Create(ctx, cls); err != nil {
				log.Fatal().Err(err).Str("class", name).Msg("Failed to create class")
			}
			id = cls.ID
			fmt.Printf("Created class %s (id %d)\n", name, id)
		} else if err != nil {
			log.Fatal().Err(err).Msg("Failed to look up class")
		} else {
			fmt.Printf("Found class %s (id %d)\n", name, id)
		}
		classIDs = append(classIDs, id)
	}

	// ─── Subjects ──────────────────────────────────────────────────────
	subjectIDs := make([]int, 0, 3)
	for _, name := range []string{"Mathematics", "English", "Biology"} {
		id, err := findSubject(ctx, pool, name)
		if err == pgx.ErrNoRows {
			sub := &model.Subject{Name: name, TeacherID: &teacherID, LessonsPerWeek: 3}
			if err := subjectRepo.Create(ctx, sub, classIDs); err != nil {
				log.Fatal().Err(err).Str("subject", name).Msg("Failed to create subject")
			}
			id = sub.ID
			fmt.Printf("Created subject %s (id %d)\n", name, id)
		} else if err != nil {
			log.Fatal().Err(err).Msg("Failed to look up subject")
		} else {
			fmt.Printf("Found subject %s (id %d)\n", name, id)
		}
		subjectIDs = append(subjectIDs, id)
	}

	// ─── Students ──────────────────────────────────────────────────────
	names := []string{
		"Aziz Rahimov", "Bobur Toshmatov", "Dilnoza Yusupova", "Eldor Nazarov",
		"Feruza Saidova", "Gulnora Abdullayeva", "Humoyun Ergashev", "Iroda Mirzayeva",
		"Jasur Olimov", "Kamola Ibragimova", "Laziz Sultonov", "Madina Qodirova",
		"Nodir Aliyev", "Oysha Xolmatova", "Parvina Ruzmetova", "Qobil Davronov",
		"Rustam Umarov", "Sevara Norboyeva", "Timur Akbarov", "Umida Sharipova",
	}

	studentIDs := make([]int, 0, len(names))
	for i, name := range names {
		classID := classIDs[i%len(classIDs)]
		id := ensureUser(ctx, log, userRepo,
			&model.User{
				Username:     usernameFor(name),
				FullName:     name,
				PasswordHash: password,
				IsActive:     true,
			},
			&model.Profile{Role: model.RoleStudent, ClassID: &classID},
		)
		studentIDs = append(studentIDs, id)
	}
	fmt.Printf("Seeded %d students\n", len(studentIDs))

	// ─── Attendance History ────────────────────────────────────────────
	// Two weeks back from today, weekdays only, every subject for every
	// student. Mostly present with occasional absences and lates.
	rng := rand.New(rand.NewSource(42))
	today := time.Now().Truncate(24 * time.Hour)
	records := 0

	for d := 0; d < 14; d++ {
		date := today.AddDate(0, 0, -d)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, subjectID := range subjectIDs {
			for i, studentID := range studentIDs {
				rec := &model.AttendanceRecord{
					StudentID: studentID,
					TeacherID: teacherID,
					SubjectID: subjectID,
					ClassID:   classIDs[i%len(classIDs)],
					Date:      date,
					Status:    randomStatus(rng),
				}
				if err := attendanceRepo.Upsert(ctx, rec); err != nil {
					log.Fatal().Err(err).Msg("Failed to seed attendance record")
				}
				records++
			}
		}
	}

	fmt.Printf("Seeded %d attendance records\n", records)
	fmt.Println("Done. Teacher login: a.karimov / davomat123")
}

// ensureUser returns the id of an existing user with the same username,
// creating the user when it does not exist yet.
func ensureUser(ctx context.Context, log zerolog.Logger, repo *repository.UserRepository, u *model.User, p *model.Profile) int {
	existing, err := repo.GetByUsername(ctx, u.Username)
	if err == nil {
		return existing.ID
	}
	if err != pgx.ErrNoRows {
		log.Fatal().Err(err).Str("username", u.Username).Msg("Failed to look up user")
	}
	if err := repo.Create(ctx, u, p); err != nil {
		log.Fatal().Err(err).Str("username", u.Username).Msg("Failed to create user")
	}
	return u.ID
}

func findClass(ctx context.Context, pool *pgxpool.Pool, name string) (int, error) {
	var id int
	err := pool.QueryRow(ctx, "SELECT id FROM classes WHERE name = $1", name).Scan(&id)
	return id, err
}

func findSubject(ctx context.Context, pool *pgxpool.Pool, name string) (int, error) {
	var id int
	err := pool.QueryRow(ctx, "SELECT id FROM subjects WHERE name = $1", name).Scan(&id)
	return id, err
}

// usernameFor derives "a.rahimov" from "Aziz Rahimov".
func usernameFor(fullName string) string {
	parts := strings.Fields(strings.ToLower(fullName))
	if len(parts) < 2 {
		return parts[0]
	}
	return parts[0][:1] + "." + parts[1]
}

func randomStatus(rng *rand.Rand) model.AttendanceStatus {
	switch n := rng.Intn(100); {
	case n < 82:
		return model.StatusPresent
	case n < 92:
		return model.StatusAbsent
	case n < 97:
		return model.StatusLate
	default:
		return model.StatusExcused
	}
}
