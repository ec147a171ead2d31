package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/DavonGT/AttendMe/internal/config"
	"github.com/DavonGT/AttendMe/internal/database"
	"github.com/DavonGT/AttendMe/internal/events"
	"github.com/DavonGT/AttendMe/internal/handler"
	"github.com/DavonGT/AttendMe/internal/middleware"
	"github.com/DavonGT/AttendMe/internal/models"
	"github.com/DavonGT/AttendMe/internal/repository"
	"github.com/DavonGT/AttendMe/internal/router"
	"github.com/DavonGT/AttendMe/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Teacher{}, &models.Student{}, &models.Class{}, &models.Enrollment{}, &models.Attendance{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}

	publisher := events.NewNoopPublisher()
	if natsConn != nil {
		defer natsConn.Close()
		publisher = events.NewNATSPublisher(natsConn, logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	classService := service.NewClassService(classRepo, enrollmentRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(classRepo, studentRepo, enrollmentRepo, logger)
	attendanceService := service.NewAttendanceService(classRepo, studentRepo, enrollmentRepo, attendanceRepo, publisher, logger)
	dashboardService := service.NewStudentDashboardService(classRepo, enrollmentRepo, attendanceRepo, redisClient, cfg.DashboardCacheTTL, logger)

	classHandler := handler.NewClassHandler(classService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, validate, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, validate, logger)
	studentHandler := handler.NewStudentHandler(dashboardService, attendanceService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ClassHandler:      classHandler,
		EnrollmentHandler: enrollmentHandler,
		AttendanceHandler: attendanceHandler,
		StudentHandler:    studentHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
