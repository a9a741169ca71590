package analytics

import (
	"time"

	"trackboard/internal/config"
	"trackboard/internal/tracks"
)

// GrowthResult is the outcome of a trailing-window growth computation.
// A Percent of zero with HasWindowData false means "no growth data", which
// callers must surface differently from a measured zero.
type GrowthResult struct {
	Percent       float64
	HasWindowData bool
}

// ComputeGrowth measures the percentage change in cumulative streams across
// the trailing growth window. When fewer than two points fall inside the
// window, the selection widens to the most recent points available before
// giving up. Synthesized points are accepted; growth over a padded series
// is exactly the padding slope, which is what the chart shows anyway.
func ComputeGrowth(history []tracks.HistoryPoint, now time.Time, cfg config.EngineConfig) GrowthResult {
	cutoff := tracks.TruncateToDay(now).AddDate(0, 0, -cfg.GrowthWindowDays)

	window := make([]tracks.HistoryPoint, 0, len(history))
	for _, p := range history {
		if !p.Day.Before(cutoff) {
			window = append(window, p)
		}
	}

	// Widen to the most recent points on record, even if older than the
	// window, before reporting no data.
	if len(window) < 2 {
		n := cfg.GrowthWindowDays
		if n > len(history) {
			n = len(history)
		}
		window = history[len(history)-n:]
	}

	if len(window) < 2 {
		return GrowthResult{Percent: 0, HasWindowData: false}
	}

	first := window[0].CumulativeStreams
	last := window[len(window)-1].CumulativeStreams
	if first == 0 {
		return GrowthResult{Percent: 0, HasWindowData: true}
	}
	return GrowthResult{
		Percent:       float64(last-first) / float64(first) * 100,
		HasWindowData: true,
	}
}
