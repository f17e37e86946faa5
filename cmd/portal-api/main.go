package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/uniportal/portal-api/api/swagger"
	"github.com/uniportal/portal-api/internal/handler"
	"github.com/uniportal/portal-api/internal/middleware"
	"github.com/uniportal/portal-api/internal/models"
	"github.com/uniportal/portal-api/internal/repository"
	"github.com/uniportal/portal-api/internal/service"
	"github.com/uniportal/portal-api/pkg/cache"
	"github.com/uniportal/portal-api/pkg/config"
	"github.com/uniportal/portal-api/pkg/database"
	"github.com/uniportal/portal-api/pkg/export"
	"github.com/uniportal/portal-api/pkg/logger"
	corsmiddleware "github.com/uniportal/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uniportal/portal-api/pkg/middleware/requestid"
	"github.com/uniportal/portal-api/pkg/storage"
)

// @title UniPortal API
// @version 1.0.0
// @description University administration portal API
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, availability cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	scheduleRepo := repository.NewScheduleRepository(db)
	cancellationRepo := repository.NewCancellationRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	auditSvc := service.NewAuditService(auditRepo, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, courseRepo, classroomRepo, auditSvc, cacheRepo, validate, logr)
	availabilitySvc := service.NewAvailabilityService(scheduleRepo, classroomRepo, semesterRepo, cacheRepo, metricsSvc, cfg.Availability, logr)
	cancellationSvc := service.NewCancellationService(cancellationRepo, scheduleRepo, auditSvc, validate, logr)
	semesterSvc := service.NewSemesterService(semesterRepo, auditSvc, validate, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, auditSvc, cacheRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, subjectRepo, semesterRepo, departmentRepo, auditSvc, validate, logr)
	departmentSvc := service.NewDepartmentService(departmentRepo, auditSvc, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, departmentRepo, auditSvc, validate, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, auditSvc, validate, logr)
	exportSvc := service.NewExportService(scheduleRepo, nil, nil, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	if cfg.Export.Enabled && cfg.Export.ArchiveDir != "" && cfg.Export.LinkSecret != "" {
		exportArchive, err := storage.NewFileStore(cfg.Export.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init timetable archive", "error", err)
		}
		linkSigner := storage.NewLinkSigner(cfg.Export.LinkSecret, cfg.Export.LinkTTL)
		exportSvc = service.NewExportService(scheduleRepo, exportArchive, linkSigner, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	}

	// Handlers.
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	cancellationHandler := handler.NewCancellationHandler(cancellationSvc)
	semesterHandler := handler.NewSemesterHandler(semesterSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	departmentHandler := handler.NewDepartmentHandler(departmentSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	noticeHandler := handler.NewNoticeHandler(noticeSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authed := r.Group(cfg.APIPrefix)
	authed.Use(middleware.JWT(cfg.JWT))

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleRoot, models.RoleAdmin))

	// Schedules.
	authed.GET("/schedules", scheduleHandler.List)
	authed.GET("/schedules/:id/entries", scheduleHandler.Entries)
	admin.POST("/schedules", scheduleHandler.Create)
	admin.POST("/schedules/:id/entries", scheduleHandler.AddEntries)
	admin.PUT("/schedules/:id", scheduleHandler.Reconcile)
	admin.DELETE("/schedules/:id", scheduleHandler.Delete)

	// Availability.
	authed.GET("/classrooms/availability", availabilityHandler.Check)

	// Cancellations.
	authed.GET("/schedule-entries/:id/cancellations", cancellationHandler.ListByEntry)
	admin.POST("/cancellations", cancellationHandler.Cancel)
	admin.DELETE("/cancellations/:id", cancellationHandler.Revoke)

	// Semesters.
	authed.GET("/semesters", semesterHandler.List)
	authed.GET("/semesters/current", semesterHandler.Current)
	authed.GET("/semesters/:id", semesterHandler.Get)
	admin.POST("/semesters", semesterHandler.Create)
	admin.PUT("/semesters/:id", semesterHandler.Update)
	admin.DELETE("/semesters/:id", semesterHandler.Delete)
	admin.POST("/semesters/:id/activate", semesterHandler.Activate)

	// Classrooms.
	authed.GET("/classrooms", classroomHandler.List)
	authed.GET("/classrooms/:id", classroomHandler.Get)
	admin.POST("/classrooms", classroomHandler.Create)
	admin.PUT("/classrooms/:id", classroomHandler.Update)
	admin.DELETE("/classrooms/:id", classroomHandler.Delete)
	admin.POST("/classrooms/:id/activate", classroomHandler.Activate)

	// Courses.
	authed.GET("/courses", courseHandler.List)
	authed.GET("/courses/ongoing", courseHandler.Ongoing)
	authed.GET("/courses/:id", courseHandler.Get)
	admin.POST("/courses", courseHandler.Create)
	admin.PUT("/courses/:id", courseHandler.Update)
	admin.DELETE("/courses/:id", courseHandler.Delete)
	admin.POST("/courses/:id/activate", courseHandler.Activate)

	// Departments.
	authed.GET("/departments", departmentHandler.List)
	authed.GET("/departments/:id", departmentHandler.Get)
	admin.POST("/departments", departmentHandler.Create)
	admin.PUT("/departments/:id", departmentHandler.Update)
	admin.DELETE("/departments/:id", departmentHandler.Delete)
	admin.POST("/departments/:id/activate", departmentHandler.Activate)

	// Subjects.
	authed.GET("/subjects", subjectHandler.List)
	authed.GET("/subjects/:id", subjectHandler.Get)
	admin.POST("/subjects", subjectHandler.Create)
	admin.PUT("/subjects/:id", subjectHandler.Update)
	admin.DELETE("/subjects/:id", subjectHandler.Delete)
	admin.POST("/subjects/:id/activate", subjectHandler.Activate)

	// Notices.
	authed.GET("/notices", noticeHandler.List)
	authed.GET("/notices/:id", noticeHandler.Get)
	admin.POST("/notices", noticeHandler.Create)
	admin.PUT("/notices/:id", noticeHandler.Update)
	admin.DELETE("/notices/:id", noticeHandler.Delete)
	admin.POST("/notices/:id/activate", noticeHandler.Activate)

	// Exports. The download route sits outside the JWT group; the signed
	// token is the credential.
	if cfg.Export.Enabled {
		authed.GET("/exports/timetable", exportHandler.Timetable)
		r.GET(cfg.APIPrefix+"/exports/download", exportHandler.Download)
	}

	// Audit trail.
	admin.GET("/audit", auditHandler.History)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
