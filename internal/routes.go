// Package internal contains core application functionality
package internal

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "trackboard/api/v1"
	apphttp "trackboard/internal/http"
	"trackboard/internal/metrics"
)

// publicCORSConfig is the CORS setup shared by the public endpoints.
var publicCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization",
}

// MountRoutes wires every route onto the fiber app.
func (a *Application) MountRoutes(app *fiber.App) {
	app.Use(requestMetrics)

	handler := apphttp.NewHandler(a.DBManager.GetConnection(), a.Logger, a.Config, a.Pipeline)

	app.Get("/health", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1", cors.New(publicCORSConfig))
	api.Post("/observations", v1.CollectObservationsHandler(a.DBManager.GetConnection(), a.Logger))
	api.Get("/tracks", handler.ListTracks)
	api.Get("/tracks/:id", handler.GetTrack)
	api.Get("/albums/:id", handler.GetAlbum)
	api.Get("/leaderboard/clout", handler.CloutLeaderboard)
}

// requestMetrics records per-route latency and status.
func requestMetrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}
	route := c.Route().Path
	metrics.RequestDuration.
		WithLabelValues(c.Method(), route, strconv.Itoa(status)).
		Observe(time.Since(start).Seconds())
	return err
}
