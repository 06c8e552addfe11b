package models

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one stored import: a set of deals tagged with a generation
// date and a free-form label.
type Snapshot struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	GeneratedAt time.Time `json:"generated_at"`
	DealCount   int       `json:"deal_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Deal is the stored, API-facing form of one canonical deal record.
type Deal struct {
	ID             uuid.UUID  `json:"id"`
	SnapshotID     uuid.UUID  `json:"snapshot_id"`
	DealKey        string     `json:"deal_key"`
	Owner          string     `json:"owner"`
	Name           string     `json:"name"`
	Stage          string     `json:"stage"`
	ACV            float64    `json:"acv"`
	ClosingDate    *time.Time `json:"closing_date"`
	ModifiedDate   *time.Time `json:"modified_date"`
	Note           string     `json:"note"`
	Description    string     `json:"description"`
	CanonicalNotes string     `json:"canonical_notes"`
	NoteCount      int        `json:"note_count"`
	NoteHash       string     `json:"note_hash"`
	Summary        string     `json:"summary"`
	SummaryCached  bool       `json:"summary_cached"`

	DaysSinceModified int    `json:"days_since_modified"`
	Urgency           string `json:"urgency"`
	DaysUntilClosing  *int   `json:"days_until_closing"`
	ClosingStatus     string `json:"closing_status"`

	CompositeScore *int           `json:"composite_score"`
	Components     map[string]int `json:"components,omitempty"`
	ScoreDebug     map[string]any `json:"score_debug,omitempty"`

	ChangeType string   `json:"change_type,omitempty"`
	Changes    []string `json:"changes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// User is an authenticated operator of the import surface.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
