package tracks

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ID is the canonical identity of a track: the upstream key when one exists,
// otherwise a composite of the normalized track and artist names.
type ID string

// IdentityResolver resolves a stable identity for a raw observation.
// Implementations must be deterministic: the same row always resolves to the
// same identity regardless of the rest of the batch.
type IdentityResolver interface {
	// Resolve returns the identity for the row, or ok=false when the row
	// cannot be identified and must be dropped.
	Resolve(obs RawObservation) (id ID, ok bool)
}

// DefaultResolver prefers the upstream track key and falls back to a
// normalized (trackName, artistName) composite. Rows that carry neither a
// key nor a track name are unidentifiable.
//
// Rows with and without a key for the same logical track are NOT unified;
// stricter resolvers can be swapped in via the IdentityResolver interface
// without touching grouping or history code.
type DefaultResolver struct{}

// Resolve implements IdentityResolver.
func (DefaultResolver) Resolve(obs RawObservation) (ID, bool) {
	if key := strings.TrimSpace(obs.TrackKey); key != "" {
		return ID(key), true
	}
	name := normalizeTerm(obs.TrackName)
	if name == "" {
		return "", false
	}
	artist := normalizeTerm(obs.ArtistName)
	return ID(name + "::" + artist), true
}

// GroupObservations partitions rows by canonical identity. Unidentifiable
// rows are dropped silently; upstream noise is expected, not an error.
// The returned map imposes no ordering, but within each group rows keep
// their input order.
func GroupObservations(resolver IdentityResolver, batch []RawObservation) map[ID][]RawObservation {
	groups := make(map[ID][]RawObservation)
	for _, obs := range batch {
		id, ok := resolver.Resolve(obs)
		if !ok {
			continue
		}
		groups[id] = append(groups[id], obs)
	}
	return groups
}

// diacriticStripper decomposes runes and removes combining marks, so
// "Beyoncé" and "Beyonce" normalize to the same term.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeTerm lowercases via Unicode case folding, strips diacritics and
// collapses interior whitespace.
func normalizeTerm(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)
	return strings.Join(strings.Fields(folded), " ")
}
