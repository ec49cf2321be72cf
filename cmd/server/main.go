package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/samoschool/davomat-backend/internal/config"
	"github.com/samoschool/davomat-backend/internal/database"
	"github.com/samoschool/davomat-backend/internal/handler"
	"github.com/samoschool/davomat-backend/internal/logger"
	"github.com/samoschool/davomat-backend/internal/repository"
	"github.com/samoschool/davomat-backend/internal/router"
	"github.com/samoschool/davomat-backend/internal/service"
	"github.com/samoschool/davomat-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Davomat Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, userRepo)
	userService := service.NewUserService(userRepo, attendanceRepo, classRepo, subjectRepo, authService)
	classService := service.NewClassService(classRepo, attendanceRepo)
	subjectService := service.NewSubjectService(subjectRepo)
	attendanceService := service.NewAttendanceService(
		attendanceRepo, classRepo, subjectRepo,
		logger.Component(log, "attendance"),
	)
	statsService := service.NewStatsService(attendanceRepo)
	reportService := service.NewReportService(attendanceRepo)
	settingService := service.NewSettingService(settingRepo)
	dashboardService := service.NewDashboardService(userRepo, classRepo, subjectRepo, attendanceRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Class:      handler.NewClassHandler(classService),
		Subject:    handler.NewSubjectHandler(subjectService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Stats:      handler.NewStatsHandler(statsService),
		Report:     handler.NewReportHandler(reportService),
		Setting:    handler.NewSettingHandler(settingService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Teacher: handler.NewTeacherHandler(
			dashboardService, subjectService, classService,
			attendanceService, statsService, reportService,
		),
		Student: handler.NewStudentHandler(
			dashboardService, attendanceService, statsService, reportService,
		),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
