// Package charting converts cumulative histories into chart-ready series
// and display-safe numeric ranges. It knows nothing about rendering; it
// only returns numbers.
package charting

import "trackboard/internal/tracks"

// Domain is the numeric display range for a delta series.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DailyDeltas converts a cumulative history into per-day gains. Negative
// gains (upstream anomalies where the cumulative count shrank) clamp to
// zero. A single-point history reports the point's own cumulative value as
// its delta so a single-sample chart still renders something.
func DailyDeltas(history []tracks.HistoryPoint) []int64 {
	if len(history) == 0 {
		return nil
	}
	if len(history) == 1 {
		return []int64{history[0].CumulativeStreams}
	}
	deltas := make([]int64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		delta := history[i].CumulativeStreams - history[i-1].CumulativeStreams
		if delta < 0 {
			delta = 0
		}
		deltas = append(deltas, delta)
	}
	return deltas
}

// DisplayDomain computes a [min, max] range for a delta series that avoids
// visually flat or misleading charts:
//
//   - a series whose max is below 10 gets the fixed [0, 10] floor so the
//     scale never degenerates to near-zero
//   - a series whose spread is under 10% of its max is widened around its
//     mean, purely for legibility
//   - otherwise the range hugs the data with headroom above and a clamped
//     cushion below
func DisplayDomain(deltas []int64) Domain {
	if len(deltas) == 0 {
		return Domain{Min: 0, Max: 10}
	}

	maxV := float64(deltas[0])
	minV := float64(deltas[0])
	var sum float64
	for _, d := range deltas {
		v := float64(d)
		if v > maxV {
			maxV = v
		}
		if v < minV {
			minV = v
		}
		sum += v
	}

	if maxV < 10 {
		return Domain{Min: 0, Max: 10}
	}

	if maxV-minV < 0.1*maxV {
		avg := sum / float64(len(deltas))
		return Domain{Min: avg * 0.5, Max: avg * 1.5}
	}

	lower := minV * 0.7
	if upperBound := maxV * 0.6; lower > upperBound {
		lower = upperBound
	}
	if lower < 0 {
		lower = 0
	}
	return Domain{Min: lower, Max: maxV * 1.15}
}
