package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/internal/analytics"
	"trackboard/internal/testsupport"
	"trackboard/internal/tracks"
)

func sampleBatch() []tracks.RawObservation {
	return []tracks.RawObservation{
		testsupport.Obs("alpha", day(1), 1000),
		testsupport.Obs("alpha", day(2), 1200),
		testsupport.Obs("alpha", day(3), 1500),
		testsupport.Obs("beta", day(2), 300),
		testsupport.Obs("beta", day(3), 280),
	}
}

func TestPipelineRunIsIdempotent(t *testing.T) {
	p := analytics.NewPipeline(nil, engineCfg)
	now := day(5)

	first := p.Run(sampleBatch(), now)
	second := p.Run(sampleBatch(), now)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestPipelineRunIsOrderIndependent(t *testing.T) {
	now := day(5)
	batch := sampleBatch()
	reversed := make([]tracks.RawObservation, len(batch))
	for i, obs := range batch {
		reversed[len(batch)-1-i] = obs
	}

	forward := analytics.NewPipeline(nil, engineCfg).Run(batch, now)
	backward := analytics.NewPipeline(nil, engineCfg).Run(reversed, now)

	assert.Equal(t, forward, backward)
}

func TestPipelineEnrichesEveryTrack(t *testing.T) {
	p := analytics.NewPipeline(nil, engineCfg)
	now := day(5)

	result := p.Run(sampleBatch(), now)
	require.Len(t, result, 2)

	byID := map[tracks.ID]analytics.EnrichedTrack{}
	for _, track := range result {
		byID[track.ID] = track
	}

	alpha, ok := byID["alpha"]
	require.True(t, ok)
	assert.Equal(t, int64(1500), alpha.LatestStreams())
	assert.InDelta(t, 1500*engineCfg.PayoutPerStream, alpha.Metrics.RevenueEstimate, 1e-9)
	assert.True(t, alpha.Metrics.HasWindowData)
	assert.InDelta(t, 50.0, alpha.Metrics.GrowthPercent, 1e-9)
	assert.Len(t, alpha.Metrics.DailyDeltas, len(alpha.History)-1)
	assert.Greater(t, alpha.ChartDomain.Max, alpha.ChartDomain.Min)

	beta, ok := byID["beta"]
	require.True(t, ok)
	// The cumulative dip is kept as reported; only the deltas clamp it.
	assert.Equal(t, int64(280), beta.LatestStreams())
	for _, delta := range beta.Metrics.DailyDeltas {
		assert.GreaterOrEqual(t, delta, int64(0))
	}
}

func TestPipelineSinglePointTrackIsChartable(t *testing.T) {
	p := analytics.NewPipeline(nil, engineCfg)
	now := day(5)

	result := p.Run([]tracks.RawObservation{testsupport.Obs("solo", day(3), 1000)}, now)
	require.Len(t, result, 1)

	history := result[0].History
	require.Len(t, history, 7)
	assert.Equal(t, tracks.Real, history[len(history)-1].Provenance)
	for _, p := range history[:len(history)-1] {
		assert.Equal(t, tracks.Synthesized, p.Provenance)
	}
	// Padded slopes still produce a growth figure for the chart.
	assert.True(t, result[0].Metrics.HasWindowData)
}

func TestPipelineCacheKeyedByDay(t *testing.T) {
	p := analytics.NewPipeline(nil, engineCfg)

	early := p.Run(sampleBatch(), day(5))
	// Later in the same day hits the cached result.
	sameDay := p.Run(sampleBatch(), day(5).Add(18*time.Hour))
	assert.Equal(t, early, sameDay)

	// A new calendar day moves the growth window and recomputes; the result
	// is still well-formed for the same batch.
	later := p.Run(sampleBatch(), day(28))
	require.Len(t, later, len(early))
	assert.True(t, later[0].Metrics.HasWindowData)
}

func TestPipelineCacheDistinguishesDisplayAttributes(t *testing.T) {
	p := analytics.NewPipeline(nil, engineCfg)
	now := day(5)

	first := testsupport.Obs("alpha", day(1), 1000)
	first.AlbumName = "Old Album Name"
	first.CoverArtURL = "http://covers/old.jpg"

	updated := first
	updated.AlbumName = "New Album Name"
	updated.CoverArtURL = "http://covers/new.jpg"

	before := p.Run([]tracks.RawObservation{first}, now)
	after := p.Run([]tracks.RawObservation{updated}, now)

	require.Len(t, before, 1)
	require.Len(t, after, 1)
	assert.Equal(t, "Old Album Name", before[0].AlbumName)
	assert.Equal(t, "New Album Name", after[0].AlbumName)
	assert.Equal(t, "http://covers/new.jpg", after[0].CoverArtURL)
}

func TestRevenueEstimate(t *testing.T) {
	assert.InDelta(t, 4000.0, analytics.RevenueEstimate(1_000_000, engineCfg), 1e-9)
	assert.Zero(t, analytics.RevenueEstimate(0, engineCfg))
}

func TestStreamsPerDaySinceRelease(t *testing.T) {
	now := day(11)

	release := day(1)
	assert.InDelta(t, 100.0, analytics.StreamsPerDaySinceRelease(1000, &release, now), 1e-9)

	// Same-day release divides by one day, not zero.
	today := day(11)
	assert.InDelta(t, 500.0, analytics.StreamsPerDaySinceRelease(500, &today, now), 1e-9)

	// Unknown release date is treated as released now.
	assert.InDelta(t, 500.0, analytics.StreamsPerDaySinceRelease(500, nil, now), 1e-9)
}
