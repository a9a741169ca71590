package tracks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/internal/tracks"
)

func TestDefaultResolverPrefersTrackKey(t *testing.T) {
	resolver := tracks.DefaultResolver{}

	id, ok := resolver.Resolve(tracks.RawObservation{
		TrackKey:   "spotify:track:abc123",
		TrackName:  "Something Else Entirely",
		ArtistName: "Someone",
	})
	require.True(t, ok)
	assert.Equal(t, tracks.ID("spotify:track:abc123"), id)
}

func TestDefaultResolverNormalizesNameAndArtist(t *testing.T) {
	resolver := tracks.DefaultResolver{}

	variants := []tracks.RawObservation{
		{TrackName: "Halo", ArtistName: "Beyoncé"},
		{TrackName: "HALO", ArtistName: "beyonce"},
		{TrackName: "  halo  ", ArtistName: "Beyonce"},
	}

	first, ok := resolver.Resolve(variants[0])
	require.True(t, ok)
	for _, v := range variants[1:] {
		id, ok := resolver.Resolve(v)
		require.True(t, ok)
		assert.Equal(t, first, id, "variant %+v should resolve to the same identity", v)
	}
}

func TestDefaultResolverDropsUnidentifiableRows(t *testing.T) {
	resolver := tracks.DefaultResolver{}

	_, ok := resolver.Resolve(tracks.RawObservation{ArtistName: "Someone", PlayCount: 10})
	assert.False(t, ok)

	_, ok = resolver.Resolve(tracks.RawObservation{TrackName: "   "})
	assert.False(t, ok)
}

func TestKeyedAndUnkeyedRowsAreNotUnified(t *testing.T) {
	resolver := tracks.DefaultResolver{}

	keyed, ok := resolver.Resolve(tracks.RawObservation{TrackKey: "k1", TrackName: "Halo", ArtistName: "Beyoncé"})
	require.True(t, ok)
	unkeyed, ok := resolver.Resolve(tracks.RawObservation{TrackName: "Halo", ArtistName: "Beyoncé"})
	require.True(t, ok)

	assert.NotEqual(t, keyed, unkeyed)
}

func TestGroupObservationsIsOrderIndependent(t *testing.T) {
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	batch := []tracks.RawObservation{
		{TrackKey: "a", TrackName: "A", PlayCount: 10, ObservedAt: day},
		{TrackKey: "b", TrackName: "B", PlayCount: 20, ObservedAt: day},
		{TrackKey: "a", TrackName: "A", PlayCount: 30, ObservedAt: day.AddDate(0, 0, 1)},
		{TrackName: "Loose Row", ArtistName: "C", PlayCount: 5, ObservedAt: day},
	}
	reversed := make([]tracks.RawObservation, len(batch))
	for i, obs := range batch {
		reversed[len(batch)-1-i] = obs
	}

	forward := tracks.GroupObservations(tracks.DefaultResolver{}, batch)
	backward := tracks.GroupObservations(tracks.DefaultResolver{}, reversed)

	require.Len(t, forward, 3)
	require.Len(t, backward, 3)
	for id, group := range forward {
		assert.Len(t, backward[id], len(group), "group %s should have the same size regardless of input order", id)
	}
}
