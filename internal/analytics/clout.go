package analytics

import (
	"sort"
	"time"

	"trackboard/internal/tracks"
)

// CloutPoint is one observed day's clout for a track: the growth since the
// track was first noticed, and the running total up to that day.
type CloutPoint struct {
	Day             time.Time `json:"day"`
	DailyClout      float64   `json:"daily_clout"`
	CumulativeClout float64   `json:"cumulative_clout"`
}

// ComputeCloutHistory derives the per-day clout series for a track. Clout
// requires real growth, so synthesized history points are ignored; a track
// whose history is entirely fabricated gets no clout rather than a
// misleading one.
//
// The baseline is the play count recorded on the track's first-added day
// when that day's record exists. Otherwise each day falls back to
// max(1, current-1), a crude proxy rather than a measured value.
//
// Cumulative clout sums the daily percentages chronologically and is not
// monotonic or rigorous; it is a display heuristic.
func ComputeCloutHistory(track tracks.CanonicalTrack) []CloutPoint {
	real := tracks.RealPoints(track.History)
	if len(real) == 0 {
		return nil
	}

	var baseline int64
	if track.FirstAddedAt != nil {
		firstDay := tracks.TruncateToDay(*track.FirstAddedAt)
		for _, p := range real {
			if p.Day.Equal(firstDay) {
				baseline = p.CumulativeStreams
				break
			}
		}
	}

	points := make([]CloutPoint, 0, len(real))
	var running float64
	for _, p := range real {
		first := baseline
		if first <= 0 {
			first = p.CumulativeStreams - 1
			if first < 1 {
				first = 1
			}
		}

		var daily float64
		if p.CumulativeStreams > first {
			daily = (float64(p.CumulativeStreams)/float64(first) - 1) * 100
		}
		running += daily
		points = append(points, CloutPoint{
			Day:             p.Day,
			DailyClout:      daily,
			CumulativeClout: running,
		})
	}
	return points
}

// CumulativeClout returns the final running total of a clout series.
func CumulativeClout(points []CloutPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	return points[len(points)-1].CumulativeClout
}

// TopByClout returns the k most improved tracks, ranked by cumulative clout
// descending with ties broken by the most recent daily clout descending.
// The input slice is not modified.
func TopByClout(collection []EnrichedTrack, k int) []EnrichedTrack {
	ranked := make([]EnrichedTrack, len(collection))
	copy(ranked, collection)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Metrics.CumulativeClout != ranked[j].Metrics.CumulativeClout {
			return ranked[i].Metrics.CumulativeClout > ranked[j].Metrics.CumulativeClout
		}
		return latestDailyClout(ranked[i]) > latestDailyClout(ranked[j])
	})

	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

func latestDailyClout(t EnrichedTrack) float64 {
	history := t.Metrics.CloutHistory
	if len(history) == 0 {
		return 0
	}
	return history[len(history)-1].DailyClout
}
