package tracks

import (
	"math"
	"sort"
	"time"

	"trackboard/internal/config"
)

// Provenance records whether a history point came from a real upstream
// sample or was synthesized to fill an insufficient series. Metrics declare
// individually whether they accept synthesized points.
type Provenance string

const (
	// Real marks a point backed by an upstream observation.
	Real Provenance = "real"
	// Synthesized marks a fabricated point.
	Synthesized Provenance = "synthesized"
)

// HistoryPoint is one day's cumulative stream count for a track.
type HistoryPoint struct {
	Day               time.Time  `json:"day"`
	CumulativeStreams int64      `json:"cumulative_streams"`
	Provenance        Provenance `json:"provenance"`
}

// IsReal reports whether the point is backed by an upstream sample.
func (p HistoryPoint) IsReal() bool {
	return p.Provenance == Real
}

// BuildHistory produces the ordered, deduplicated history for one track's
// group of raw rows: malformed rows are filtered, same-day rows collapse to
// the larger play count (the more complete sample), and the result is sorted
// ascending by day. Dates are unique and strictly ascending within the
// returned series.
//
// A group with no usable sample yields a single synthetic point at now using
// the group's best-known play count, or the configured floor when even that
// is absent or zero, so downstream consumers never see an empty series or
// divide by zero. BuildHistory never fails.
func BuildHistory(group []RawObservation, now time.Time, cfg config.EngineConfig) []HistoryPoint {
	byDay := make(map[time.Time]int64)
	for _, obs := range group {
		if !obs.hasUsableSample() {
			continue
		}
		day := obs.Day()
		if existing, ok := byDay[day]; !ok || obs.PlayCount > existing {
			byDay[day] = obs.PlayCount
		}
	}

	if len(byDay) == 0 {
		return []HistoryPoint{fallbackPoint(group, now, cfg)}
	}

	history := make([]HistoryPoint, 0, len(byDay))
	for day, streams := range byDay {
		history = append(history, HistoryPoint{Day: day, CumulativeStreams: streams, Provenance: Real})
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Day.Before(history[j].Day)
	})
	return history
}

// EnsureChartable returns a history rich enough to render: a single-point
// series gains synthetic earlier points scaled from 0.7 up to the known
// value across the trailing fallback span. Series that already have two or
// more points are returned unchanged. Synthetic points are flagged so
// metrics that require real growth can refuse them.
func EnsureChartable(history []HistoryPoint, cfg config.EngineConfig) []HistoryPoint {
	if len(history) != 1 {
		return history
	}

	anchor := history[0]
	span := cfg.FallbackHistoryDays
	if span < 2 {
		span = 2
	}
	synthetic := span - 1

	padded := make([]HistoryPoint, 0, span)
	for i := 0; i < synthetic; i++ {
		// Factor climbs from 0.7 at the earliest point to 1.0 at the anchor.
		// Rounded, not truncated: the factor arithmetic lands just under
		// exact fractions (0.9 computes as 0.8999...).
		factor := 0.7 + 0.3*float64(i)/float64(synthetic)
		padded = append(padded, HistoryPoint{
			Day:               anchor.Day.AddDate(0, 0, i-synthetic),
			CumulativeStreams: int64(math.Round(float64(anchor.CumulativeStreams) * factor)),
			Provenance:        Synthesized,
		})
	}
	return append(padded, anchor)
}

// fallbackPoint builds the minimal one-point history for a group with no
// usable sample.
func fallbackPoint(group []RawObservation, now time.Time, cfg config.EngineConfig) HistoryPoint {
	var best int64
	for _, obs := range group {
		if obs.PlayCount > best {
			best = obs.PlayCount
		}
	}
	if best <= 0 {
		best = cfg.MinPlaycountFloor
	}
	return HistoryPoint{
		Day:               TruncateToDay(now),
		CumulativeStreams: best,
		Provenance:        Synthesized,
	}
}

// LatestStreams returns the cumulative stream count of the newest point, or
// zero for an empty history.
func LatestStreams(history []HistoryPoint) int64 {
	if len(history) == 0 {
		return 0
	}
	return history[len(history)-1].CumulativeStreams
}

// RealPoints filters a history down to points backed by upstream samples.
func RealPoints(history []HistoryPoint) []HistoryPoint {
	real := make([]HistoryPoint, 0, len(history))
	for _, p := range history {
		if p.IsReal() {
			real = append(real, p)
		}
	}
	return real
}
