// Package analytics computes derived performance metrics for canonical
// tracks: revenue estimates, trailing-window growth, streams per day since
// release, clout scores, and the chart-ready series the dashboard surfaces
// render.
//
// The package is organized into focused modules:
//   - analytics.go: enriched track and metric shapes
//   - growth.go: trailing-window growth percentage
//   - clout.go: clout history and the most-improved ranking
//   - sort.go: collection sorting and pagination
//   - pipeline.go: the full aggregation pipeline with memoization
//
// Every computation is a pure function of its inputs; the same raw batch
// and configuration always produce structurally identical output.
package analytics

import (
	"math"
	"time"

	"trackboard/internal/charting"
	"trackboard/internal/config"
	"trackboard/internal/tracks"
)

// DerivedMetrics holds the per-track figures computed from a history.
// Nothing here is persisted; everything is recomputed from the raw batch.
type DerivedMetrics struct {
	RevenueEstimate float64 `json:"revenue_estimate"`

	GrowthPercent float64 `json:"growth_percent"`
	// HasWindowData distinguishes "no change" from "no data": a growth of
	// zero is only meaningful when this is true.
	HasWindowData bool `json:"has_window_data"`

	StreamsPerDaySinceRelease float64 `json:"streams_per_day_since_release"`

	DailyDeltas []int64 `json:"daily_deltas"`

	CloutHistory    []CloutPoint `json:"clout_history,omitempty"`
	CumulativeClout float64      `json:"cumulative_clout"`
}

// EnrichedTrack is a canonical track with its derived metrics and chart
// domain attached. Instances may be shared through the pipeline cache and
// must be treated as read-only by consumers.
type EnrichedTrack struct {
	tracks.CanonicalTrack
	Metrics     DerivedMetrics  `json:"metrics"`
	ChartDomain charting.Domain `json:"chart_domain"`
}

// RevenueEstimate converts cumulative streams into an estimated payout.
func RevenueEstimate(streams int64, cfg config.EngineConfig) float64 {
	return float64(streams) * cfg.PayoutPerStream
}

// StreamsPerDaySinceRelease averages total streams over the days elapsed
// since release. Same-day releases divide by one, never zero. A track whose
// release date never reached us is treated as released now, matching the
// upstream default for unparseable dates.
func StreamsPerDaySinceRelease(totalStreams int64, releaseDate *time.Time, now time.Time) float64 {
	days := 1.0
	if releaseDate != nil {
		elapsed := math.Ceil(now.Sub(*releaseDate).Hours() / 24)
		days = math.Max(1, elapsed)
	}
	return float64(totalStreams) / days
}
