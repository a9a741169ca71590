// Package v1 exposes the public observation ingest API.
package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trackboard/internal/observations"
	"trackboard/internal/tracks"
)

const msgBatchAccepted = "Observations added successfully"

// ObservationParams is one raw row as posted by an upstream collector.
type ObservationParams struct {
	TrackKey     string     `json:"track_key"`
	TrackName    string     `json:"track_name"`
	ArtistName   string     `json:"artist_name"`
	AlbumID      string     `json:"album_id"`
	AlbumName    string     `json:"album_name"`
	CoverArtURL  string     `json:"cover_art_url"`
	ReleaseDate  *time.Time `json:"release_date"`
	PlayCount    int64      `json:"play_count"`
	ObservedAt   time.Time  `json:"observed_at"`
	FirstAddedAt *time.Time `json:"first_added_at"`
	Position     *int       `json:"position"`
}

// CollectBatchParams is the ingest request body.
type CollectBatchParams struct {
	Source       string              `json:"source"`
	Observations []ObservationParams `json:"observations"`
}

// CollectObservationsHandler handles POST /api/v1/observations: it accepts
// a batch of raw play-count rows and persists them idempotently.
func CollectObservationsHandler(db *gorm.DB, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params CollectBatchParams
		if err := c.BodyParser(&params); err != nil {
			logger.WithError(err).Debug("Failed to parse ingest request")
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request",
				"code":  "INVALID_REQUEST",
			})
		}
		if len(params.Observations) == 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "No observations in request",
				"code":  "EMPTY_BATCH",
			})
		}

		input := observations.CollectBatchInput{
			Source:       params.Source,
			Observations: make([]tracks.RawObservation, 0, len(params.Observations)),
		}
		for _, p := range params.Observations {
			input.Observations = append(input.Observations, tracks.RawObservation{
				TrackKey:     p.TrackKey,
				TrackName:    p.TrackName,
				ArtistName:   p.ArtistName,
				AlbumID:      p.AlbumID,
				AlbumName:    p.AlbumName,
				CoverArtURL:  p.CoverArtURL,
				ReleaseDate:  p.ReleaseDate,
				PlayCount:    p.PlayCount,
				ObservedAt:   p.ObservedAt,
				FirstAddedAt: p.FirstAddedAt,
				Position:     p.Position,
			})
		}

		result, err := observations.CollectBatch(db, logger, input)
		if err != nil {
			logger.WithError(err).Error("Failed to collect observations")
			if strings.Contains(err.Error(), "database is locked") || strings.Contains(err.Error(), "busy") {
				return c.Status(599).JSON(fiber.Map{}) // custom status code
			}
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to collect observations",
				"code":  "COLLECTION_ERROR",
			})
		}

		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"message":  msgBatchAccepted,
			"batch_id": result.BatchID,
			"accepted": result.Accepted,
			"dropped":  result.Dropped,
		})
	}
}
