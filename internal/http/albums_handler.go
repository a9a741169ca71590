package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"trackboard/internal/analytics"
	"trackboard/internal/observations"
)

// AlbumResponse is the payload for an album view: the album's display
// attributes plus its enriched tracks.
type AlbumResponse struct {
	AlbumID   string                    `json:"album_id"`
	AlbumName string                    `json:"album_name,omitempty"`
	Artist    string                    `json:"artist_name,omitempty"`
	CoverArt  string                    `json:"cover_art_url,omitempty"`
	Tracks    []analytics.EnrichedTrack `json:"tracks"`
}

// GetAlbum handles GET /api/v1/albums/:id: every track observed on the
// album, grouped, deduplicated and enriched, sorted per query params.
func (h *Handler) GetAlbum(c *fiber.Ctx) error {
	albumID := c.Params("id")
	if albumID == "" {
		return errorJSON(c, http.StatusBadRequest, "album id required", "INVALID_ALBUM_ID")
	}

	batch, err := observations.ObservationsForAlbum(h.db, albumID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load album observations")
		return errorJSON(c, http.StatusInternalServerError, "failed to load album", "LOAD_ERROR")
	}
	if len(batch) == 0 {
		return errorJSON(c, http.StatusNotFound, "album not found: "+albumID, "ALBUM_NOT_FOUND")
	}

	sortKey := analytics.SortKey(c.Query("sort", string(analytics.SortByPosition)))
	if !analytics.ValidSortKey(sortKey) {
		return errorJSON(c, http.StatusBadRequest, "unknown sort key", "INVALID_SORT")
	}
	dir := analytics.Direction(c.Query("dir", string(analytics.Ascending)))
	if dir != analytics.Ascending && dir != analytics.Descending {
		return errorJSON(c, http.StatusBadRequest, "unknown sort direction", "INVALID_DIR")
	}

	enriched := h.pipeline.Run(batch, time.Now())
	sorted := analytics.SortAndPaginate(enriched, sortKey, dir, 0, -1)

	resp := AlbumResponse{AlbumID: albumID, Tracks: sorted}
	if len(sorted) > 0 {
		resp.AlbumName = sorted[0].AlbumName
		resp.Artist = sorted[0].ArtistName
		resp.CoverArt = sorted[0].CoverArtURL
	}
	return c.JSON(resp)
}
