package analytics

import (
	"sort"
	"time"
)

// SortKey selects the field an enriched collection is ordered by.
type SortKey string

// Supported sort keys.
const (
	SortByFirstAdded   SortKey = "firstAdded"
	SortByLastStreamed SortKey = "lastStreamed"
	SortByPosition     SortKey = "position"
	SortByPlaycount    SortKey = "playcount"
)

// Direction is the sort direction.
type Direction string

// Supported directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ValidSortKey reports whether key names a supported sort criterion.
func ValidSortKey(key SortKey) bool {
	switch key {
	case SortByFirstAdded, SortByLastStreamed, SortByPosition, SortByPlaycount:
		return true
	}
	return false
}

// SortAndPaginate returns a stably sorted copy of the collection sliced by
// offset and limit. Tracks missing the sort field order last regardless of
// direction, and ties keep their original relative order so pagination is
// deterministic across calls with identical input. A limit below zero means
// no limit.
func SortAndPaginate(collection []EnrichedTrack, key SortKey, dir Direction, offset, limit int) []EnrichedTrack {
	sorted := make([]EnrichedTrack, len(collection))
	copy(sorted, collection)

	sort.SliceStable(sorted, func(i, j int) bool {
		return lessByKey(sorted[i], sorted[j], key, dir)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(sorted) {
		return []EnrichedTrack{}
	}
	end := len(sorted)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return sorted[offset:end]
}

func lessByKey(a, b EnrichedTrack, key SortKey, dir Direction) bool {
	switch key {
	case SortByFirstAdded:
		return lessByTimePtr(a.FirstAddedAt, b.FirstAddedAt, dir)
	case SortByLastStreamed:
		aAbsent := a.LastStreamedAt.IsZero()
		bAbsent := b.LastStreamedAt.IsZero()
		if aAbsent || bAbsent {
			// Absent values sort last in either direction.
			return !aAbsent && bAbsent
		}
		return orient(a.LastStreamedAt.Before(b.LastStreamedAt), a.LastStreamedAt.After(b.LastStreamedAt), dir)
	case SortByPosition:
		if a.Position == nil || b.Position == nil {
			return a.Position != nil && b.Position == nil
		}
		return orient(*a.Position < *b.Position, *a.Position > *b.Position, dir)
	case SortByPlaycount:
		ac, bc := a.LatestStreams(), b.LatestStreams()
		return orient(ac < bc, ac > bc, dir)
	}
	return false
}

func lessByTimePtr(a, b *time.Time, dir Direction) bool {
	if a == nil || b == nil {
		return a != nil && b == nil
	}
	return orient(a.Before(*b), a.After(*b), dir)
}

// orient picks the ascending or descending comparison result.
func orient(asc, desc bool, dir Direction) bool {
	if dir == Descending {
		return desc
	}
	return asc
}
