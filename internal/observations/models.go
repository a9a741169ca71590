// Package observations persists raw play-count observations and loads them
// back as the batches the aggregation engine consumes.
package observations

import (
	"time"

	"trackboard/internal/tracks"
)

// Observation is one persisted raw row: a track's cumulative play count as
// recorded on a calendar day, plus the display attributes the source
// carried. Rows are deduplicated per (identity, day) at write time by
// keeping the larger play count; the engine applies the same rule again so
// pre-existing duplicates stay harmless.
type Observation struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	BatchID string `gorm:"index;size:36"`

	TrackKey    string `gorm:"uniqueIndex:idx_obs_unique;index"`
	TrackName   string `gorm:"uniqueIndex:idx_obs_unique;not null"`
	ArtistName  string `gorm:"uniqueIndex:idx_obs_unique"`
	AlbumID     string `gorm:"index"`
	AlbumName   string
	CoverArtURL string
	ReleaseDate *time.Time

	PlayCount int64 `gorm:"not null;default:0"`

	// Day is ObservedAt truncated to midnight UTC; part of the dedup key.
	Day        time.Time `gorm:"uniqueIndex:idx_obs_unique;type:datetime;not null"`
	ObservedAt time.Time `gorm:"index;not null"`

	FirstAddedAt *time.Time
	Position     *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IngestBatch records one accepted ingest request.
type IngestBatch struct {
	ID         string `gorm:"primaryKey;size:36"`
	Source     string `gorm:"index"`
	RowCount   int
	ReceivedAt time.Time
	CreatedAt  time.Time
}

// Raw converts a persisted row into the engine's input shape.
func (o Observation) Raw() tracks.RawObservation {
	return tracks.RawObservation{
		TrackKey:     o.TrackKey,
		TrackName:    o.TrackName,
		ArtistName:   o.ArtistName,
		AlbumID:      o.AlbumID,
		AlbumName:    o.AlbumName,
		CoverArtURL:  o.CoverArtURL,
		ReleaseDate:  o.ReleaseDate,
		PlayCount:    o.PlayCount,
		ObservedAt:   o.ObservedAt,
		FirstAddedAt: o.FirstAddedAt,
		Position:     o.Position,
	}
}

// fromRaw converts an engine-shaped row into its persisted form.
func fromRaw(batchID string, raw tracks.RawObservation) Observation {
	return Observation{
		BatchID:      batchID,
		TrackKey:     raw.TrackKey,
		TrackName:    raw.TrackName,
		ArtistName:   raw.ArtistName,
		AlbumID:      raw.AlbumID,
		AlbumName:    raw.AlbumName,
		CoverArtURL:  raw.CoverArtURL,
		ReleaseDate:  raw.ReleaseDate,
		PlayCount:    raw.PlayCount,
		Day:          raw.Day(),
		ObservedAt:   raw.ObservedAt,
		FirstAddedAt: raw.FirstAddedAt,
		Position:     raw.Position,
	}
}

// rawBatch converts persisted rows into an engine batch.
func rawBatch(rows []Observation) []tracks.RawObservation {
	batch := make([]tracks.RawObservation, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, row.Raw())
	}
	return batch
}
