package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// NoteSeparator joins canonicalized notes into one history string.
const NoteSeparator = "\n---\n"

// Normalize trims, lowercases, and collapses internal whitespace runs.
func Normalize(s string) string {
	return strings.ToLower(normalizeSpace(s))
}

// DealKey derives the stable identity for a deal. Two rows with the same
// key are the same deal regardless of any other field differences.
func DealKey(name, owner string) string {
	return Normalize(name) + "||" + Normalize(owner)
}

// CanonicalizeNotes trims each note, drops empties, deduplicates exactly,
// sorts lexicographically, and joins with the fixed separator. Returns the
// canonical string and the distinct note count.
func CanonicalizeNotes(notes []string) (string, int) {
	seen := make(map[string]struct{}, len(notes))
	distinct := make([]string, 0, len(notes))
	for _, n := range notes {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		distinct = append(distinct, n)
	}
	sort.Strings(distinct)
	return strings.Join(distinct, NoteSeparator), len(distinct)
}

// NoteHash is the content fingerprint of a canonical note history. It is
// both the change-detection fingerprint and the cache key handed to the
// summarization service.
func NoteHash(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
