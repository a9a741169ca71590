package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"trackboard/internal/analytics"
	"trackboard/internal/observations"
)

const defaultCloutLimit = 10

// CloutLeaderboardResponse is the "most improved" view payload.
type CloutLeaderboardResponse struct {
	Tracks []analytics.EnrichedTrack `json:"tracks"`
}

// CloutLeaderboard handles GET /api/v1/leaderboard/clout: the top-K tracks
// by cumulative clout.
func (h *Handler) CloutLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultCloutLimit)
	if limit < 1 || limit > h.cfg.MaxPageSize {
		return errorJSON(c, http.StatusBadRequest, "limit out of range", "INVALID_LIMIT")
	}

	source := observations.StoreSource{DB: h.db}
	enriched, err := h.pipeline.RunFromSource(source, "", time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load observation batch")
		return errorJSON(c, http.StatusInternalServerError, "failed to load observations", "LOAD_ERROR")
	}
	return c.JSON(CloutLeaderboardResponse{
		Tracks: analytics.TopByClout(enriched, limit),
	})
}
