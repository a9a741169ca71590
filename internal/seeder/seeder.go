// Package seeder generates realistic demo data so a fresh install has
// something to chart.
package seeder

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trackboard/internal/observations"
	"trackboard/internal/tracks"
)

// Seeder generates daily cumulative play counts for a demo catalog and
// ingests them through the normal collection path, so seeded data behaves
// exactly like posted data.
type Seeder struct {
	DB         *gorm.DB
	Logger     *logrus.Logger
	TrackCount int
	Days       int
}

// NewSeeder creates a seeder producing trackCount tracks with days of
// history each.
func NewSeeder(db *gorm.DB, logger *logrus.Logger, trackCount, days int) *Seeder {
	return &Seeder{
		DB:         db,
		Logger:     logger,
		TrackCount: trackCount,
		Days:       days,
	}
}

// demoTrack is one entry in the built-in demo catalog.
type demoTrack struct {
	name   string
	artist string
	album  string
}

// catalog is cycled when TrackCount exceeds its length; extra tracks get a
// numeric suffix so identities stay distinct.
var catalog = []demoTrack{
	{"Neon Skyline", "The Midnight Cartel", "City Lights"},
	{"Glass Houses", "The Midnight Cartel", "City Lights"},
	{"Paper Planes Redux", "Velvet Static", "Afterglow"},
	{"Slow Burn", "Velvet Static", "Afterglow"},
	{"Gravity Well", "Orbital Youth", "Escape Velocity"},
	{"Second Sunrise", "Orbital Youth", "Escape Velocity"},
	{"Undertow", "Mara Lin", "Tides"},
	{"Salt & Smoke", "Mara Lin", "Tides"},
	{"Static Bloom", "Pixel Choir", "Render"},
	{"Lo-Fi Lullaby", "Pixel Choir", "Render"},
}

// Run generates and persists the demo batches, one ingest per day so
// batch records look like a real collection history.
func (s *Seeder) Run() error {
	if s.TrackCount < 1 || s.Days < 1 {
		return fmt.Errorf("invalid seed parameters: %d tracks over %d days", s.TrackCount, s.Days)
	}
	start := time.Now()
	s.Logger.WithFields(logrus.Fields{
		"tracks": s.TrackCount,
		"days":   s.Days,
	}).Info("Seeding demo data")

	trackSeries := s.buildSeries()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	firstDay := today.AddDate(0, 0, -(s.Days - 1))
	for dayIdx := 0; dayIdx < s.Days; dayIdx++ {
		day := firstDay.AddDate(0, 0, dayIdx)
		batch := make([]tracks.RawObservation, 0, len(trackSeries))
		for _, series := range trackSeries {
			batch = append(batch, series.observationFor(day, dayIdx))
		}

		result, err := observations.CollectBatch(s.DB, s.Logger, observations.CollectBatchInput{
			Source:       "seeder",
			Observations: batch,
		})
		if err != nil {
			return fmt.Errorf("failed to seed day %s: %w", day.Format(time.DateOnly), err)
		}
		if result.Dropped > 0 {
			s.Logger.WithField("dropped", result.Dropped).Warn("Seeder generated unusable rows")
		}
	}

	s.Logger.WithField("elapsed", time.Since(start).String()).Info("Seeding completed")
	return nil
}

// series holds the generated trajectory for one demo track.
type series struct {
	track       demoTrack
	key         string
	albumID     string
	releaseDate time.Time
	firstAdded  time.Time
	position    int
	// startCount and dailyGain shape the cumulative curve; surge marks a
	// day index where the track takes off, to give growth and clout
	// something to find.
	startCount int64
	dailyGain  int64
	surgeDay   int
}

func (s *Seeder) buildSeries() []series {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	firstDay := today.AddDate(0, 0, -(s.Days - 1))

	out := make([]series, 0, s.TrackCount)
	for i := 0; i < s.TrackCount; i++ {
		entry := catalog[i%len(catalog)]
		key := fmt.Sprintf("demo-%03d", i+1)
		if i >= len(catalog) {
			entry.name = fmt.Sprintf("%s %d", entry.name, i/len(catalog)+1)
		}

		out = append(out, series{
			track:       entry,
			key:         key,
			albumID:     fmt.Sprintf("demo-album-%s", entry.album),
			releaseDate: firstDay.AddDate(0, 0, -rand.IntN(365)),
			firstAdded:  firstDay,
			position:    i + 1,
			startCount:  int64(500 + rand.IntN(5000)),
			dailyGain:   int64(20 + rand.IntN(400)),
			surgeDay:    rand.IntN(s.Days + 1),
		})
	}
	return out
}

// observationFor produces the cumulative sample for one day of the series.
func (sr series) observationFor(day time.Time, dayIdx int) tracks.RawObservation {
	count := sr.startCount + sr.dailyGain*int64(dayIdx)
	if dayIdx >= sr.surgeDay {
		count += sr.dailyGain * 5 * int64(dayIdx-sr.surgeDay+1)
	}

	return tracks.RawObservation{
		TrackKey:     sr.key,
		TrackName:    sr.track.name,
		ArtistName:   sr.track.artist,
		AlbumID:      sr.albumID,
		AlbumName:    sr.track.album,
		ReleaseDate:  &sr.releaseDate,
		PlayCount:    count,
		ObservedAt:   day.Add(time.Duration(8+rand.IntN(12)) * time.Hour),
		FirstAddedAt: &sr.firstAdded,
		Position:     &sr.position,
	}
}
