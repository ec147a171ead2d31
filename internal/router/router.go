package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/DavonGT/AttendMe/internal/config"
	"github.com/DavonGT/AttendMe/internal/handler"
	"github.com/DavonGT/AttendMe/internal/middleware"
	"github.com/DavonGT/AttendMe/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ClassHandler      *handler.ClassHandler
	EnrollmentHandler *handler.EnrollmentHandler
	AttendanceHandler *handler.AttendanceHandler
	StudentHandler    *handler.StudentHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Teacher surface: class management, enrollment and attendance writes.
	teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(middleware.RoleTeacher))
	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(teacher)
	}
	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(teacher)
	}
	if deps.AttendanceHandler != nil {
		// Hardware scanners retry aggressively, so the scan endpoint gets
		// its own per-user rate limit.
		teacher.Use("/scan", middleware.RateLimit("scan", cfg.ScanRateLimit, time.Minute))
		deps.AttendanceHandler.Register(teacher)
	}

	// Student surface: read-only dashboard and own history.
	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(middleware.RoleStudent))
		deps.StudentHandler.Register(student)
	}
}
