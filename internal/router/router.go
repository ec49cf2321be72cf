package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/samoschool/davomat-backend/internal/config"
	"github.com/samoschool/davomat-backend/internal/handler"
	"github.com/samoschool/davomat-backend/internal/middleware"
	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/response"
	"github.com/samoschool/davomat-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Class      *handler.ClassHandler
	Subject    *handler.SubjectHandler
	Attendance *handler.AttendanceHandler
	Stats      *handler.StatsHandler
	Report     *handler.ReportHandler
	Setting    *handler.SettingHandler
	Dashboard  *handler.DashboardHandler
	Teacher    *handler.TeacherHandler
	Student    *handler.StudentHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login attempts (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	authenticated := []gin.HandlerFunc{
		middleware.RequireAuth(authService),
		middleware.CheckSession(authService),
	}

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		auth.POST("/logout", append(authenticated, handlers.Auth.Logout)...)
		auth.GET("/me", append(authenticated, handlers.Auth.Me)...)
		auth.POST("/change-password", append(authenticated, handlers.Auth.ChangePassword)...)
	}

	// ─── 2. Admin Group ────────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(authenticated...)
	adminAPI.Use(middleware.RequireRole(model.RoleAdmin))
	{
		adminAPI.GET("/dashboard", handlers.Dashboard.AdminDashboard)

		// User management
		adminAPI.GET("/users", handlers.User.ListUsers)
		adminAPI.POST("/users", handlers.User.CreateUser)
		adminAPI.GET("/users/:id", handlers.User.GetUser)
		adminAPI.PUT("/users/:id", handlers.User.UpdateUser)
		adminAPI.DELETE("/users/:id", handlers.User.DeleteUser)

		// Class management
		adminAPI.GET("/classes", handlers.Class.ListClasses)
		adminAPI.POST("/classes", handlers.Class.CreateClass)
		adminAPI.GET("/classes/:id", handlers.Class.GetClass)
		adminAPI.GET("/classes/:id/students", handlers.Class.GetClassRoster)
		adminAPI.PUT("/classes/:id", handlers.Class.UpdateClass)
		adminAPI.DELETE("/classes/:id", handlers.Class.DeleteClass)

		// Subject management
		adminAPI.GET("/subjects", handlers.Subject.ListSubjects)
		adminAPI.POST("/subjects", handlers.Subject.CreateSubject)
		adminAPI.GET("/subjects/:id", handlers.Subject.GetSubject)
		adminAPI.PUT("/subjects/:id", handlers.Subject.UpdateSubject)
		adminAPI.DELETE("/subjects/:id", handlers.Subject.DeleteSubject)

		// Attendance records
		adminAPI.GET("/attendance", handlers.Attendance.ListRecords)
		adminAPI.GET("/attendance/:id", handlers.Attendance.GetRecord)
		adminAPI.POST("/attendance", handlers.Attendance.TakeAttendance)
		adminAPI.PUT("/attendance/:id", handlers.Attendance.UpdateRecord)
		adminAPI.DELETE("/attendance/:id", handlers.Attendance.DeleteRecord)
		adminAPI.POST("/attendance/bulk-delete", handlers.Attendance.BulkDeleteRecords)

		// Statistics
		adminAPI.GET("/stats", handlers.Stats.Overview)
		adminAPI.GET("/stats/daily", handlers.Stats.DailyChart)
		adminAPI.GET("/stats/monthly", handlers.Stats.MonthlyChart)

		// Reports
		adminAPI.GET("/reports", handlers.Report.Generate)
		adminAPI.GET("/reports/export/csv", handlers.Report.ExportCSV)
		adminAPI.GET("/reports/export/excel", handlers.Report.ExportExcel)

		// Settings
		adminAPI.GET("/settings", handlers.Setting.GetSettings)
		adminAPI.PUT("/settings", handlers.Setting.UpdateSettings)
	}

	// ─── 3. Teacher Group ──────────────────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(authenticated...)
	teacherAPI.Use(middleware.RequireAnyRole(model.RoleTeacher, model.RoleAdmin))
	{
		teacherAPI.GET("/dashboard", handlers.Teacher.Dashboard)
		teacherAPI.GET("/subjects", handlers.Teacher.MySubjects)
		teacherAPI.GET("/classes", handlers.Teacher.MyClasses)
		teacherAPI.GET("/subjects/:id/classes/:classID/students", handlers.Teacher.ClassRoster)
		teacherAPI.POST("/subjects/:id/classes/:classID/attendance", handlers.Teacher.TakeAttendance)

		teacherAPI.GET("/attendance", handlers.Teacher.MyRecords)
		teacherAPI.GET("/attendance/export", handlers.Teacher.ExportMyRecords)
		teacherAPI.PUT("/attendance/:id", handlers.Teacher.UpdateRecord)
		teacherAPI.DELETE("/attendance/:id", handlers.Teacher.DeleteRecord)
		teacherAPI.POST("/attendance/bulk-delete", handlers.Teacher.BulkDeleteRecords)

		teacherAPI.GET("/stats", handlers.Teacher.MyStats)
		teacherAPI.GET("/reports", handlers.Teacher.GenerateReport)
		teacherAPI.GET("/reports/export/csv", handlers.Teacher.ExportReportCSV)
		teacherAPI.GET("/reports/export/excel", handlers.Teacher.ExportReportExcel)
	}

	// ─── 4. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(authenticated...)
	studentAPI.Use(middleware.RequireRole(model.RoleStudent))
	{
		studentAPI.GET("/dashboard", handlers.Student.Dashboard)
		studentAPI.GET("/attendance", handlers.Student.MyRecords)
		studentAPI.GET("/attendance/export", handlers.Student.ExportMyRecords)
		studentAPI.GET("/stats", handlers.Student.MyStats)
	}

	return router
}
