package router

import (
	"time"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/auth"
	"rollbook/backend/internal/middleware"
	"rollbook/backend/internal/pkg/config"
	"rollbook/backend/internal/pkg/repository/postgresql"
	"rollbook/backend/internal/service"

	"rollbook/backend/internal/repository/postgres/leave"
	"rollbook/backend/internal/repository/postgres/record"
	"rollbook/backend/internal/repository/postgres/student"
	"rollbook/backend/internal/repository/postgres/subject"
	"rollbook/backend/internal/repository/postgres/user"

	attendance_controller "rollbook/backend/internal/controller/http/v1/attendance"
	auth_controller "rollbook/backend/internal/controller/http/v1/auth"
	leave_controller "rollbook/backend/internal/controller/http/v1/leave"
	report_controller "rollbook/backend/internal/controller/http/v1/report"
	student_controller "rollbook/backend/internal/controller/http/v1/student"
	subject_controller "rollbook/backend/internal/controller/http/v1/subject"
	user_controller "rollbook/backend/internal/controller/http/v1/user"

	"github.com/redis/go-redis/v9"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	port       string
	auth       *auth.Auth
	cfg        *config.Config
	loc        *time.Location
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	port string,
	auth *auth.Auth,
	cfg *config.Config,
	loc *time.Location,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		port,
		auth,
		cfg,
		loc,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.CorsMiddleware())

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	studentPostgres := student.NewRepository(r.postgresDB)
	subjectPostgres := subject.NewRepository(r.postgresDB)
	leavePostgres := leave.NewRepository(r.postgresDB)

	// the record repository resolves sessions through the redis cache so
	// scan bursts do not reload the timetable from postgres
	scheduleCache := service.NewScheduleCache(r.redisDB, subjectPostgres, 5*time.Minute)
	recordPostgres := record.NewRepository(r.postgresDB, scheduleCache, time.Duration(r.cfg.GraceMinutes)*time.Minute, r.loc)

	// controller
	authController := auth_controller.NewController(userPostgres, r.cfg.JWTKeyPath)
	userController := user_controller.NewController(userPostgres)
	studentController := student_controller.NewController(studentPostgres)
	subjectController := subject_controller.NewController(subjectPostgres)
	leaveController := leave_controller.NewController(leavePostgres)
	attendanceController := attendance_controller.NewController(recordPostgres, studentPostgres)
	reportController := report_controller.NewController(recordPostgres)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	// #user
	r.Get("/api/v1/user/list", userController.GetUserList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/user/create", userController.CreateUser, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/user/:id", userController.DeleteUser, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #student
	r.Get("/api/v1/student/list", studentController.GetStudentList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleDashboard))
	r.Get("/api/v1/student/badge", studentController.GetBadge, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/student/badgelist", studentController.GetBadgeSheet, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #subject
	r.Get("/api/v1/subject/list", subjectController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleDashboard))
	r.Get("/api/v1/subject/:id", subjectController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))

	// #attendance
	r.Get("/api/v1/attendance/list", attendanceController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleDashboard))
	r.Get("/api/v1/attendance/:id", attendanceController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Post("/api/v1/attendance/mark", attendanceController.MarkEvent, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Post("/api/v1/attendance/markbycode", attendanceController.MarkByCode, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleScanner))
	r.Post("/api/v1/attendance/bulkabsent", attendanceController.MarkBulkAbsent, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Patch("/api/v1/attendance/:id", attendanceController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Delete("/api/v1/attendance/:id", attendanceController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #leave
	r.Get("/api/v1/leave/list", leaveController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleDashboard))
	r.Post("/api/v1/leave/create", leaveController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Patch("/api/v1/leave/:id", leaveController.Decide, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher))
	r.Delete("/api/v1/leave/:id", leaveController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #report
	r.Get("/api/v1/report/daily", reportController.GetDailyStatus, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleDashboard))
	r.Get("/api/v1/report/weekly", reportController.GetWeeklySummary, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleDashboard))
	r.Get("/api/v1/report/late", reportController.GetLateReport, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleDashboard))
	r.Get("/api/v1/report/absent", reportController.GetAbsentReport, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleTeacher, auth.RoleDashboard))
	r.Get("/api/v1/report/late/export", reportController.ExportLateReport, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/report/absent/export", reportController.ExportAbsentReport, middleware.Authenticate(r.auth, auth.RoleAdmin))

	return r.Run(r.port)
}
