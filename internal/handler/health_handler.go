package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/config"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// HealthResponse reports liveness plus the state of backing services.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
}

// HealthCheck returns a handler that reports application health. The
// database is pinged on every call so load balancers can detect a lost
// connection pool.
func HealthCheck(cfg config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Database:    "up",
		}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Context()) != nil {
			payload.Status = "degraded"
			payload.Database = "down"
			return utils.SendSuccessWithStatus(c, fiber.StatusServiceUnavailable, "service degraded", payload)
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
