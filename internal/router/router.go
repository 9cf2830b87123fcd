package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/config"
	"github.com/noah-isme/aula-go-api/internal/handler"
	"github.com/noah-isme/aula-go-api/internal/middleware"
	"github.com/noah-isme/aula-go-api/internal/observability"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DB                  *gorm.DB
	AuthHandler         *handler.AuthHandler
	AssignmentHandler   *handler.AssignmentHandler
	GradingHandler      *handler.GradingHandler
	StudentHandler      *handler.StudentHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB))

	// Static catalogue consumed by the assignment form.
	api.Get("/courses", func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "courses retrieved", cfg.Courses)
	})

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Registration and login are public but rate limited.
	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.GradingHandler != nil {
		grades := api.Group("/grades", jwtMiddleware)
		deps.GradingHandler.Register(grades)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware)
		deps.StudentHandler.Register(student)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}
