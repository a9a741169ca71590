package observations_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/internal/logger"
	"trackboard/internal/observations"
	"trackboard/internal/testsupport"
	"trackboard/internal/tracks"
)

func day(d int) time.Time {
	return testsupport.Day(2025, time.June, d)
}

func TestCollectBatchStoresRows(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()

	result, err := observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source: "dashboard",
		Observations: []tracks.RawObservation{
			testsupport.Obs("alpha", day(1), 100),
			testsupport.Obs("alpha", day(2), 150),
			testsupport.Obs("beta", day(1), 40),
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 3, result.Accepted)
	assert.Zero(t, result.Dropped)

	batch, err := observations.AllObservations(db)
	require.NoError(t, err)
	assert.Len(t, batch, 3)
}

func TestCollectBatchDropsUnusableRows(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()

	result, err := observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source: "dashboard",
		Observations: []tracks.RawObservation{
			testsupport.Obs("alpha", day(1), 100),
			// No key and no name: unresolvable.
			{ArtistName: "Someone", PlayCount: 50, ObservedAt: day(1)},
			// No usable date.
			{TrackKey: "beta", TrackName: "Track beta", PlayCount: 50},
			// Negative count.
			{TrackKey: "gamma", TrackName: "Track gamma", PlayCount: -1, ObservedAt: day(1)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 3, result.Dropped)
}

func TestCollectBatchEmptyBatchStoresNothing(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()

	result, err := observations.CollectBatch(db, log, observations.CollectBatchInput{Source: "dashboard"})
	require.NoError(t, err)
	assert.Zero(t, result.Accepted)

	batch, err := observations.AllObservations(db)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestCollectBatchRepostKeepsLargerCount(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()

	_, err := observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source:       "first",
		Observations: []tracks.RawObservation{testsupport.Obs("alpha", day(1), 500)},
	})
	require.NoError(t, err)

	// A later partial sample for the same day must not shrink the count.
	_, err = observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source:       "second",
		Observations: []tracks.RawObservation{testsupport.Obs("alpha", day(1), 300)},
	})
	require.NoError(t, err)

	// A more complete sample wins.
	_, err = observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source:       "third",
		Observations: []tracks.RawObservation{testsupport.Obs("alpha", day(1), 800)},
	})
	require.NoError(t, err)

	batch, err := observations.AllObservations(db)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, int64(800), batch[0].PlayCount)
}

func TestObservationsForAlbum(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()

	inAlbum := testsupport.Obs("alpha", day(1), 100)
	inAlbum.AlbumID = "album-1"
	elsewhere := testsupport.Obs("beta", day(1), 40)
	elsewhere.AlbumID = "album-2"

	_, err := observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source:       "dashboard",
		Observations: []tracks.RawObservation{inAlbum, elsewhere},
	})
	require.NoError(t, err)

	batch, err := observations.ObservationsForAlbum(db, "album-1")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "alpha", batch[0].TrackKey)
}

func TestObservationsForTrackMatchesThroughResolver(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()
	resolver := tracks.DefaultResolver{}

	// Unkeyed rows with spelling variants of the same track.
	variantA := tracks.RawObservation{TrackName: "Halo", ArtistName: "Beyoncé", PlayCount: 100, ObservedAt: day(1)}
	variantB := tracks.RawObservation{TrackName: "halo", ArtistName: "beyonce", PlayCount: 150, ObservedAt: day(2)}
	other := testsupport.Obs("other", day(1), 10)

	_, err := observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source:       "dashboard",
		Observations: []tracks.RawObservation{variantA, variantB, other},
	})
	require.NoError(t, err)

	id, ok := resolver.Resolve(variantA)
	require.True(t, ok)

	matched, err := observations.ObservationsForTrack(db, resolver, id)
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestObservationsForTrackNotFound(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	_, err := observations.ObservationsForTrack(db, tracks.DefaultResolver{}, "missing")
	require.Error(t, err)

	var notFound *observations.TrackNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.TrackID)
}

func TestStoreSourceScoping(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	log := logger.NewNop()

	inAlbum := testsupport.Obs("alpha", day(1), 100)
	inAlbum.AlbumID = "album-1"

	_, err := observations.CollectBatch(db, log, observations.CollectBatchInput{
		Source:       "dashboard",
		Observations: []tracks.RawObservation{inAlbum, testsupport.Obs("beta", day(1), 40)},
	})
	require.NoError(t, err)

	source := observations.StoreSource{DB: db}

	all, err := source.FetchRawObservations("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := source.FetchRawObservations("album-1")
	require.NoError(t, err)
	assert.Len(t, scoped, 1)
}
