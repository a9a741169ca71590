// Package tracks turns raw, possibly redundant play-count observations into
// canonical per-track timelines.
//
// The package is organized into focused modules:
//   - observation.go: raw observation input shape
//   - identity.go: identity resolution and grouping
//   - history.go: per-track history construction and fallback synthesis
//   - canonical.go: canonical track assembly
package tracks

import "time"

// RawObservation is one upstream row: a track's cumulative play count as of
// a recorded day, plus whatever display attributes the source happened to
// carry. Rows may be duplicated, partially filled, or malformed; the engine
// tolerates all of it.
type RawObservation struct {
	// TrackKey is the upstream stable identifier, empty when the source
	// did not provide one.
	TrackKey string `json:"track_key" yaml:"track_key"`

	TrackName   string `json:"track_name" yaml:"track_name"`
	ArtistName  string `json:"artist_name" yaml:"artist_name"`
	AlbumID     string `json:"album_id" yaml:"album_id"`
	AlbumName   string `json:"album_name" yaml:"album_name"`
	CoverArtURL string `json:"cover_art_url" yaml:"cover_art_url"`

	// ReleaseDate is the album release date when known.
	ReleaseDate *time.Time `json:"release_date,omitempty" yaml:"release_date,omitempty"`

	// PlayCount is the cumulative total streams as of ObservedAt.
	// Negative values mark the row as malformed.
	PlayCount int64 `json:"play_count" yaml:"play_count"`

	// ObservedAt is when the count was recorded; truncated to a calendar
	// day for grouping. A zero value marks the row as malformed.
	ObservedAt time.Time `json:"observed_at" yaml:"observed_at"`

	// FirstAddedAt marks when the consuming user first encountered the
	// track, when known.
	FirstAddedAt *time.Time `json:"first_added_at,omitempty" yaml:"first_added_at,omitempty"`

	// Position is the 1..50 rank within a leaderboard snapshot, when the
	// row came from one.
	Position *int `json:"position,omitempty" yaml:"position,omitempty"`
}

// Day returns the observation timestamp truncated to its calendar day in UTC.
func (o RawObservation) Day() time.Time {
	return TruncateToDay(o.ObservedAt)
}

// hasUsableSample reports whether the row carries a date and a
// non-negative play count, i.e. can contribute a history point.
func (o RawObservation) hasUsableSample() bool {
	return !o.ObservedAt.IsZero() && o.PlayCount >= 0
}

// TruncateToDay truncates a timestamp to midnight UTC of its calendar day.
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
