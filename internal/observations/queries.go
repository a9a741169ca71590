package observations

import (
	"fmt"

	"gorm.io/gorm"

	"trackboard/internal/tracks"
)

// TrackNotFoundError represents an error when no observations exist for a track
type TrackNotFoundError struct {
	TrackID string
}

func (e *TrackNotFoundError) Error() string {
	return fmt.Sprintf("track not found: %s", e.TrackID)
}

// NewTrackNotFoundError creates a new TrackNotFoundError
func NewTrackNotFoundError(trackID string) *TrackNotFoundError {
	return &TrackNotFoundError{TrackID: trackID}
}

// AllObservations loads the complete raw batch, oldest first.
func AllObservations(db *gorm.DB) ([]tracks.RawObservation, error) {
	var rows []Observation
	if err := db.Order("observed_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}
	return rawBatch(rows), nil
}

// ObservationsForAlbum loads the raw batch for one album, oldest first.
func ObservationsForAlbum(db *gorm.DB, albumID string) ([]tracks.RawObservation, error) {
	var rows []Observation
	if err := db.Where("album_id = ?", albumID).
		Order("observed_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load observations for album %s: %w", albumID, err)
	}
	return rawBatch(rows), nil
}

// ObservationsForTrack loads every raw row whose resolved identity matches
// trackID. Identity keys are not stored, so matching goes through the
// resolver; this keeps composite-keyed tracks (no upstream key) reachable.
func ObservationsForTrack(db *gorm.DB, resolver tracks.IdentityResolver, trackID tracks.ID) ([]tracks.RawObservation, error) {
	batch, err := AllObservations(db)
	if err != nil {
		return nil, err
	}
	matched := make([]tracks.RawObservation, 0, 8)
	for _, raw := range batch {
		if id, ok := resolver.Resolve(raw); ok && id == trackID {
			matched = append(matched, raw)
		}
	}
	if len(matched) == 0 {
		return nil, NewTrackNotFoundError(string(trackID))
	}
	return matched, nil
}

// StoreSource adapts the database to the engine's fetch contract: an empty
// scope loads everything, any other scope loads one album.
type StoreSource struct {
	DB *gorm.DB
}

// FetchRawObservations implements the fetch collaborator interface the
// aggregation engine consumes.
func (s StoreSource) FetchRawObservations(scopeID string) ([]tracks.RawObservation, error) {
	if scopeID == "" {
		return AllObservations(s.DB)
	}
	return ObservationsForAlbum(s.DB, scopeID)
}
