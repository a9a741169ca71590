// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trackboard/internal/observations"
	"trackboard/internal/tracks"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&observations.Observation{},
		&observations.IngestBatch{},
	))
	return db
}

// Day builds a midnight-UTC timestamp, the shape history points use.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Obs builds a minimal keyed observation for a cumulative count on a day.
func Obs(key string, day time.Time, playCount int64) tracks.RawObservation {
	return tracks.RawObservation{
		TrackKey:   key,
		TrackName:  "Track " + key,
		ArtistName: "Artist",
		PlayCount:  playCount,
		ObservedAt: day,
	}
}

// RealHistory builds an all-real history from (day, streams) pairs.
func RealHistory(points ...tracks.HistoryPoint) []tracks.HistoryPoint {
	for i := range points {
		points[i].Provenance = tracks.Real
	}
	return points
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
