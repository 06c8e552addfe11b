package ingest

import (
	"fmt"
	"math"
	"strings"
)

// Change classifications attached to deals in the newer snapshot.
const (
	ChangeNew       = "new"
	ChangeUpdated   = "updated"
	ChangeUnchanged = "unchanged"
)

// DiffStats aggregates the classification counts for one diff.
type DiffStats struct {
	New       int `json:"new"`
	Updated   int `json:"updated"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// DiffSnapshots classifies every deal in current against baseline by key
// lookup, annotating each with its classification and one human-readable
// change line per differing field, and counts baseline keys that
// disappeared. Iteration order never affects the result.
func DiffSnapshots(baseline, current *Snapshot) DiffStats {
	base := make(map[string]*Deal, len(baseline.Deals))
	for _, d := range baseline.Deals {
		base[d.Key] = d
	}

	var stats DiffStats
	seen := make(map[string]struct{}, len(current.Deals))

	for _, d := range current.Deals {
		seen[d.Key] = struct{}{}
		prev, ok := base[d.Key]
		if !ok {
			d.ChangeType = ChangeNew
			d.Changes = nil
			stats.New++
			continue
		}

		changes := describeChanges(prev, d)
		if len(changes) == 0 {
			d.ChangeType = ChangeUnchanged
			d.Changes = nil
			stats.Unchanged++
			continue
		}
		d.ChangeType = ChangeUpdated
		d.Changes = changes
		stats.Updated++
	}

	for key := range base {
		if _, ok := seen[key]; !ok {
			stats.Removed++
		}
	}

	return stats
}

func describeChanges(prev, cur *Deal) []string {
	var changes []string

	if cur.Stage != prev.Stage {
		changes = append(changes, fmt.Sprintf("Stage: %s → %s", prev.Stage, cur.Stage))
	}
	if math.Round(cur.ACV) != math.Round(prev.ACV) {
		changes = append(changes, fmt.Sprintf("ACV: $%dK → $%dK", roundK(prev.ACV), roundK(cur.ACV)))
	}
	if strings.TrimSpace(cur.Note) != strings.TrimSpace(prev.Note) {
		changes = append(changes, "Note updated")
	}

	return changes
}

func roundK(v float64) int {
	return int(math.Round(v / 1000))
}
