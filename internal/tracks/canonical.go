package tracks

import (
	"sort"
	"time"

	"trackboard/internal/config"
)

// CanonicalTrack is the single deduplicated representation of a track after
// grouping all raw observations that refer to it. Returned values are shared
// by cached pipelines; consumers must treat them as read-only.
type CanonicalTrack struct {
	ID ID `json:"id"`

	TrackKey    string     `json:"track_key,omitempty"`
	TrackName   string     `json:"track_name"`
	ArtistName  string     `json:"artist_name"`
	AlbumID     string     `json:"album_id,omitempty"`
	AlbumName   string     `json:"album_name,omitempty"`
	CoverArtURL string     `json:"cover_art_url,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`

	// FirstAddedAt is the earliest known discovery timestamp.
	FirstAddedAt *time.Time `json:"first_added_at,omitempty"`
	// LastStreamedAt is the newest observation timestamp in the group.
	LastStreamedAt time.Time `json:"last_streamed_at"`
	// Position is the most recently observed leaderboard rank, if any.
	Position *int `json:"position,omitempty"`

	// History is strictly ascending by day with unique dates.
	History []HistoryPoint `json:"history"`
}

// LatestStreams returns the newest cumulative stream count.
func (t CanonicalTrack) LatestStreams() int64 {
	return LatestStreams(t.History)
}

// BuildCanonicalTrack assembles one canonical track from its group. Display
// attributes come from the row with the highest play count (first
// encountered wins ties, so assembly is deterministic for a given row
// order within the group).
func BuildCanonicalTrack(id ID, group []RawObservation, now time.Time, cfg config.EngineConfig) CanonicalTrack {
	track := CanonicalTrack{ID: id}

	bestIdx := -1
	var bestCount int64 = -1
	for i, obs := range group {
		if obs.PlayCount > bestCount {
			bestCount = obs.PlayCount
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		best := group[bestIdx]
		track.TrackKey = best.TrackKey
		track.TrackName = best.TrackName
		track.ArtistName = best.ArtistName
		track.AlbumID = best.AlbumID
		track.AlbumName = best.AlbumName
		track.CoverArtURL = best.CoverArtURL
		track.ReleaseDate = best.ReleaseDate
	}

	var latestRanked time.Time
	for _, obs := range group {
		if obs.FirstAddedAt != nil {
			if track.FirstAddedAt == nil || obs.FirstAddedAt.Before(*track.FirstAddedAt) {
				track.FirstAddedAt = obs.FirstAddedAt
			}
		}
		if obs.ObservedAt.After(track.LastStreamedAt) {
			track.LastStreamedAt = obs.ObservedAt
		}
		if obs.Position != nil && (latestRanked.IsZero() || obs.ObservedAt.After(latestRanked)) {
			latestRanked = obs.ObservedAt
			track.Position = obs.Position
		}
		if track.ReleaseDate == nil && obs.ReleaseDate != nil {
			track.ReleaseDate = obs.ReleaseDate
		}
	}

	track.History = BuildHistory(group, now, cfg)
	return track
}

// BuildCanonicalTracks groups a raw batch and assembles every canonical
// track, ordered by identity so output is stable across permutations of the
// input batch.
func BuildCanonicalTracks(resolver IdentityResolver, batch []RawObservation, now time.Time, cfg config.EngineConfig) []CanonicalTrack {
	groups := GroupObservations(resolver, batch)

	ids := make([]ID, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]CanonicalTrack, 0, len(ids))
	for _, id := range ids {
		result = append(result, BuildCanonicalTrack(id, groups[id], now, cfg))
	}
	return result
}
