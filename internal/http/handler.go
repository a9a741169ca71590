// Package http contains the dashboard read API handlers.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trackboard/internal/analytics"
	"trackboard/internal/config"
)

// Handler bundles the dependencies the read API needs.
type Handler struct {
	db       *gorm.DB
	logger   *logrus.Logger
	cfg      *config.Config
	pipeline *analytics.Pipeline
}

// NewHandler creates the read API handler set.
func NewHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config, pipeline *analytics.Pipeline) *Handler {
	return &Handler{db: db, logger: logger, cfg: cfg, pipeline: pipeline}
}

// errorJSON writes a uniform error payload.
func errorJSON(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
