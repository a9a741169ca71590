package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"trackboard/internal/analytics"
	"trackboard/internal/observations"
	"trackboard/internal/tracks"
)

// TrackListResponse is the payload for collection reads.
type TrackListResponse struct {
	Tracks []analytics.EnrichedTrack `json:"tracks"`
	Total  int                       `json:"total"`
	Offset int                       `json:"offset"`
	Limit  int                       `json:"limit"`
}

// TrackResponse is the payload for a single track read.
type TrackResponse struct {
	Track analytics.EnrichedTrack `json:"track"`
}

// ListTracks handles GET /api/v1/tracks: the enriched collection, sorted,
// sliced, and optionally scoped to one album via ?album=.
func (h *Handler) ListTracks(c *fiber.Ctx) error {
	sortKey := analytics.SortKey(c.Query("sort", string(analytics.SortByPlaycount)))
	if !analytics.ValidSortKey(sortKey) {
		return errorJSON(c, http.StatusBadRequest, "unknown sort key", "INVALID_SORT")
	}
	dir := analytics.Direction(c.Query("dir", string(analytics.Descending)))
	if dir != analytics.Ascending && dir != analytics.Descending {
		return errorJSON(c, http.StatusBadRequest, "unknown sort direction", "INVALID_DIR")
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", h.cfg.MaxPageSize)
	if limit < 1 || limit > h.cfg.MaxPageSize {
		limit = h.cfg.MaxPageSize
	}

	source := observations.StoreSource{DB: h.db}
	enriched, err := h.pipeline.RunFromSource(source, c.Query("album"), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load observation batch")
		return errorJSON(c, http.StatusInternalServerError, "failed to load observations", "LOAD_ERROR")
	}
	page := analytics.SortAndPaginate(enriched, sortKey, dir, offset, limit)

	return c.JSON(TrackListResponse{
		Tracks: page,
		Total:  len(enriched),
		Offset: offset,
		Limit:  limit,
	})
}

// GetTrack handles GET /api/v1/tracks/:id: one canonical track with its
// history, derived metrics and chart domain. ?limit= caps the history
// length, newest points kept.
func (h *Handler) GetTrack(c *fiber.Ctx) error {
	trackID := tracks.ID(c.Params("id"))
	if trackID == "" {
		return errorJSON(c, http.StatusBadRequest, "track id required", "INVALID_TRACK_ID")
	}

	group, err := observations.ObservationsForTrack(h.db, tracks.DefaultResolver{}, trackID)
	if err != nil {
		var notFound *observations.TrackNotFoundError
		if errors.As(err, &notFound) {
			return errorJSON(c, http.StatusNotFound, notFound.Error(), "TRACK_NOT_FOUND")
		}
		h.logger.WithError(err).Error("Failed to load track observations")
		return errorJSON(c, http.StatusInternalServerError, "failed to load track", "LOAD_ERROR")
	}

	enriched := h.pipeline.Run(group, time.Now())
	if len(enriched) == 0 {
		return errorJSON(c, http.StatusNotFound, "track not found", "TRACK_NOT_FOUND")
	}
	track := enriched[0]

	historyLimit := c.QueryInt("limit", h.cfg.DefaultHistoryLimit)
	if historyLimit > 0 && len(track.History) > historyLimit {
		track.History = track.History[len(track.History)-historyLimit:]
	}

	h.logger.WithFields(logrus.Fields{
		"track_id": string(track.ID),
		"points":   len(track.History),
	}).Debug("Serving track history")

	return c.JSON(TrackResponse{Track: track})
}
