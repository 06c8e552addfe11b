package ingest

import (
	"time"
)

// HomeCurrency is the only currency that passes the import filter. Rows in
// any other currency are dropped, not converted.
const HomeCurrency = "CAD"

// DaysUnknown is the sentinel for "no last-modified date on record".
const DaysUnknown = 9999

// RawRow maps a header name to the field value found under that column.
// Produced by the tokenizer + metadata locator, consumed once by MapRow.
type RawRow map[string]string

// Deal is the canonical record reconstructed from one or more export rows
// sharing the same deal key.
type Deal struct {
	Owner        string
	Name         string
	Stage        string
	ACV          float64
	ClosingDate  *time.Time
	ModifiedDate *time.Time
	Note         string
	Description  string

	// Derived against a reference "now"; recomputed by Derive, never
	// carried across a different reference day.
	DaysSinceModified int
	Urgency           string
	DaysUntilClosing  *int
	ClosingStatus     string

	// DaysInStage, when set by the caller, replaces the days-since-modified
	// approximation in velocity scoring.
	DaysInStage *int

	// Identity.
	Key            string
	CanonicalNotes string
	NoteCount      int
	NoteHash       string

	Summary       string
	SummaryCached bool

	Health *HealthScore

	// Attached by the diff engine.
	ChangeType string
	Changes    []string

	// Every non-empty note seen across merged rows, winners and losers.
	notes []string
}

// Derive recomputes the day-delta fields and their tiers against now.
func (d *Deal) Derive(now time.Time) {
	if d.ModifiedDate != nil {
		d.DaysSinceModified = DaysSince(now, *d.ModifiedDate)
	} else {
		d.DaysSinceModified = DaysUnknown
	}
	d.Urgency = UrgencyTier(d.DaysSinceModified)

	d.DaysUntilClosing = nil
	if d.ClosingDate != nil {
		delta := DaysUntil(now, *d.ClosingDate)
		d.DaysUntilClosing = &delta
	}
	d.ClosingStatus = ClosingTier(d.DaysUntilClosing)
}

// Notes returns the accumulated non-empty note history for the deal.
func (d *Deal) Notes() []string {
	return d.notes
}

// AddNote records a raw note into the side-channel history.
func (d *Deal) AddNote(note string) {
	if note != "" {
		d.notes = append(d.notes, note)
	}
}

// Snapshot is the set of deals reconstructed from one import.
type Snapshot struct {
	GeneratedAt time.Time
	ReportDate  *time.Time
	Deals       []*Deal
}

// HealthScore is the weighted composite plus its six components, all
// integers in [0,100].
type HealthScore struct {
	Composite          int
	StageProbability   int
	Velocity           int
	ActivityRecency    int
	CloseDateIntegrity int
	ACV                int
	NotesSignal        int
	Debug              ScoreDebug
}

// ScoreDebug carries the intermediate values behind a score so the UI can
// explain it. Reproducible from the same inputs.
type ScoreDebug struct {
	VelocityRatio   float64  `json:"velocity_ratio"`
	StageBenchmark  float64  `json:"stage_benchmark"`
	ACVPercentile   float64  `json:"acv_percentile"`
	PositiveMatches []string `json:"positive_matches,omitempty"`
	NegativeMatches []string `json:"negative_matches,omitempty"`
	PushMatches     []string `json:"push_matches,omitempty"`
}
