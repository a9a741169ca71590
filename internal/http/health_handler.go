package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DBStatus  string    `json:"db_status"`
}

// Health handles the health check endpoint
func (h *Handler) Health(c *fiber.Ctx) error {
	dbStatus := "ok"

	if h.db == nil {
		dbStatus = "error"
		h.logger.Error("Database connection unavailable")
	} else {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbStatus = "error"
			h.logger.WithError(err).Error("Database connection error")
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error"
			h.logger.WithError(err).Error("Database ping failed")
		}
	}

	health := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		DBStatus:  dbStatus,
	}
	if dbStatus != "ok" {
		health.Status = "degraded"
	}
	return c.JSON(health)
}
