package tracks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/internal/config"
	"trackboard/internal/tracks"
)

var engineCfg = config.DefaultEngineConfig()

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func obs(d time.Time, count int64) tracks.RawObservation {
	return tracks.RawObservation{TrackKey: "t", TrackName: "T", PlayCount: count, ObservedAt: d}
}

func TestBuildHistorySortsAndDeduplicates(t *testing.T) {
	now := day(10)
	group := []tracks.RawObservation{
		obs(day(3), 300),
		obs(day(1), 100),
		obs(day(2), 150),
		// Same-day duplicate: the larger count is the more complete sample.
		obs(day(2).Add(6*time.Hour), 100),
	}

	history := tracks.BuildHistory(group, now, engineCfg)

	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].Day.Before(history[i].Day), "dates must be strictly ascending")
	}
	assert.Equal(t, int64(150), history[1].CumulativeStreams)
	for _, p := range history {
		assert.Equal(t, tracks.Real, p.Provenance)
	}
}

func TestBuildHistoryKeepsMaxForSameDay(t *testing.T) {
	now := day(10)
	history := tracks.BuildHistory([]tracks.RawObservation{
		obs(day(5), 100),
		obs(day(5), 150),
	}, now, engineCfg)

	require.Len(t, history, 1)
	assert.Equal(t, int64(150), history[0].CumulativeStreams)
}

func TestBuildHistoryFiltersMalformedRows(t *testing.T) {
	now := day(10)
	history := tracks.BuildHistory([]tracks.RawObservation{
		{TrackKey: "t", TrackName: "T", PlayCount: -5, ObservedAt: day(1)},
		{TrackKey: "t", TrackName: "T", PlayCount: 100},
		obs(day(2), 200),
	}, now, engineCfg)

	require.Len(t, history, 1)
	assert.Equal(t, int64(200), history[0].CumulativeStreams)
}

func TestBuildHistoryFallbackUsesBestKnownCount(t *testing.T) {
	now := day(10)
	history := tracks.BuildHistory([]tracks.RawObservation{
		{TrackKey: "t", TrackName: "T", PlayCount: 800}, // no date
	}, now, engineCfg)

	require.Len(t, history, 1)
	assert.Equal(t, int64(800), history[0].CumulativeStreams)
	assert.Equal(t, tracks.TruncateToDay(now), history[0].Day)
	assert.Equal(t, tracks.Synthesized, history[0].Provenance)
}

func TestBuildHistoryFallbackFloorNeverZero(t *testing.T) {
	now := day(10)

	history := tracks.BuildHistory([]tracks.RawObservation{
		{TrackKey: "t", TrackName: "T", PlayCount: 0},
	}, now, engineCfg)
	require.Len(t, history, 1)
	assert.Equal(t, engineCfg.MinPlaycountFloor, history[0].CumulativeStreams)

	history = tracks.BuildHistory(nil, now, engineCfg)
	require.Len(t, history, 1)
	assert.Equal(t, engineCfg.MinPlaycountFloor, history[0].CumulativeStreams)
}

func TestEnsureChartablePadsSinglePoint(t *testing.T) {
	anchor := tracks.HistoryPoint{Day: day(10), CumulativeStreams: 1000, Provenance: tracks.Real}

	padded := tracks.EnsureChartable([]tracks.HistoryPoint{anchor}, engineCfg)

	require.Len(t, padded, 7)
	expected := []int64{700, 750, 800, 850, 900, 950}
	for i, want := range expected {
		assert.Equal(t, want, padded[i].CumulativeStreams)
		assert.Equal(t, tracks.Synthesized, padded[i].Provenance)
		assert.Equal(t, day(10).AddDate(0, 0, i-6), padded[i].Day)
	}
	assert.Equal(t, anchor, padded[6])
}

func TestEnsureChartableLeavesRicherHistoriesAlone(t *testing.T) {
	history := []tracks.HistoryPoint{
		{Day: day(1), CumulativeStreams: 100, Provenance: tracks.Real},
		{Day: day(2), CumulativeStreams: 200, Provenance: tracks.Real},
	}
	assert.Equal(t, history, tracks.EnsureChartable(history, engineCfg))
}
