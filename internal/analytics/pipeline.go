package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"trackboard/internal/charting"
	"trackboard/internal/config"
	"trackboard/internal/metrics"
	"trackboard/internal/tracks"
)

// ObservationSource supplies raw batches to the pipeline. The scope is an
// album ID, or empty for the full collection.
type ObservationSource interface {
	FetchRawObservations(scopeID string) ([]tracks.RawObservation, error)
}

// Pipeline runs the full aggregation: grouping, history construction,
// derived metrics and chart windowing. Results are memoized
// content-addressed: the cache key is a hash of the raw batch, the engine
// constants and the calendar day, so identical input always yields the
// identical (shared, read-only) result without recomputation.
type Pipeline struct {
	resolver tracks.IdentityResolver
	cfg      config.EngineConfig

	mu    sync.Mutex
	cache map[string][]EnrichedTrack
}

// NewPipeline creates a pipeline with the given identity resolver and
// engine constants. A nil resolver falls back to the default.
func NewPipeline(resolver tracks.IdentityResolver, cfg config.EngineConfig) *Pipeline {
	if resolver == nil {
		resolver = tracks.DefaultResolver{}
	}
	return &Pipeline{
		resolver: resolver,
		cfg:      cfg,
		cache:    make(map[string][]EnrichedTrack),
	}
}

// Run aggregates a raw batch into enriched canonical tracks, ordered by
// identity. The returned slice may be shared with other callers; treat it
// as read-only.
func (p *Pipeline) Run(batch []tracks.RawObservation, now time.Time) []EnrichedTrack {
	key := fingerprint(batch, p.cfg, now)

	p.mu.Lock()
	if cached, ok := p.cache[key]; ok {
		p.mu.Unlock()
		metrics.AggregationCacheHits.Inc()
		return cached
	}
	p.mu.Unlock()

	result := p.compute(batch, now)
	metrics.AggregationRuns.Inc()

	p.mu.Lock()
	p.cache[key] = result
	p.mu.Unlock()
	return result
}

// RunFromSource fetches the scoped batch from a source and aggregates it.
func (p *Pipeline) RunFromSource(source ObservationSource, scopeID string, now time.Time) ([]EnrichedTrack, error) {
	batch, err := source.FetchRawObservations(scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch observations: %w", err)
	}
	return p.Run(batch, now), nil
}

func (p *Pipeline) compute(batch []tracks.RawObservation, now time.Time) []EnrichedTrack {
	canonical := tracks.BuildCanonicalTracks(p.resolver, batch, now, p.cfg)

	enriched := make([]EnrichedTrack, 0, len(canonical))
	for _, track := range canonical {
		track.History = tracks.EnsureChartable(track.History, p.cfg)

		deltas := charting.DailyDeltas(track.History)
		growth := ComputeGrowth(track.History, now, p.cfg)
		clout := ComputeCloutHistory(track)

		enriched = append(enriched, EnrichedTrack{
			CanonicalTrack: track,
			Metrics: DerivedMetrics{
				RevenueEstimate:           RevenueEstimate(track.LatestStreams(), p.cfg),
				GrowthPercent:             growth.Percent,
				HasWindowData:             growth.HasWindowData,
				StreamsPerDaySinceRelease: StreamsPerDaySinceRelease(track.LatestStreams(), track.ReleaseDate, now),
				DailyDeltas:               deltas,
				CloutHistory:              clout,
				CumulativeClout:           CumulativeClout(clout),
			},
			ChartDomain: charting.DisplayDomain(deltas),
		})
	}
	return enriched
}

// fingerprint hashes the batch content, the engine constants and the
// calendar day. Day granularity keeps cached results from outliving the
// "now"-relative windows they were computed with.
func fingerprint(batch []tracks.RawObservation, cfg config.EngineConfig, now time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "cfg:%g:%d:%d:%d\n", cfg.PayoutPerStream, cfg.GrowthWindowDays, cfg.FallbackHistoryDays, cfg.MinPlaycountFloor)
	fmt.Fprintf(h, "day:%s\n", tracks.TruncateToDay(now).Format(time.DateOnly))
	for _, obs := range batch {
		writeObservation(h, obs)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeObservation encodes every field that can reach the enriched output;
// anything omitted here would let distinct batches collide in the cache.
func writeObservation(w io.Writer, obs tracks.RawObservation) {
	fmt.Fprintf(w, "%s|%s|%s|%s|%s|%s|%d|%d|", obs.TrackKey, obs.TrackName, obs.ArtistName, obs.AlbumID, obs.AlbumName, obs.CoverArtURL, obs.PlayCount, obs.ObservedAt.UnixNano())
	if obs.ReleaseDate != nil {
		fmt.Fprintf(w, "%d", obs.ReleaseDate.UnixNano())
	}
	fmt.Fprint(w, "|")
	if obs.FirstAddedAt != nil {
		fmt.Fprintf(w, "%d", obs.FirstAddedAt.UnixNano())
	}
	fmt.Fprint(w, "|")
	if obs.Position != nil {
		fmt.Fprintf(w, "%d", *obs.Position)
	}
	fmt.Fprint(w, "\n")
}
