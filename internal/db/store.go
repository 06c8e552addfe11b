package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elcasillas/DealUpdates/internal/ingest"
	"github.com/elcasillas/DealUpdates/internal/models"
)

// Store persists deal snapshots. The core treats it as opaque storage
// keyed by snapshot identifier; all pipeline semantics live upstream.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SaveSnapshot materializes a parsed snapshot under a free-form label and
// returns its identifier.
func (s *Store) SaveSnapshot(ctx context.Context, label string, snap *ingest.Snapshot) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		"INSERT INTO snapshots (label, generated_at) VALUES ($1, $2) RETURNING id",
		label, snap.GeneratedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	const insertDeal = `
		INSERT INTO snapshot_deals (
			snapshot_id, deal_key, owner, name, stage, acv,
			closing_date, modified_date, note, description,
			canonical_notes, note_count, note_hash, summary, summary_cached,
			days_since_modified, urgency, days_until_closing, closing_status,
			composite_score, components, score_debug, change_type, changes
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22, $23, $24
		)
	`

	for _, d := range snap.Deals {
		composite, components, debug := scorePayload(d)
		_, err := tx.Exec(ctx, insertDeal,
			id, d.Key, d.Owner, d.Name, d.Stage, d.ACV,
			d.ClosingDate, d.ModifiedDate, d.Note, d.Description,
			d.CanonicalNotes, d.NoteCount, d.NoteHash, d.Summary, d.SummaryCached,
			d.DaysSinceModified, d.Urgency, d.DaysUntilClosing, d.ClosingStatus,
			composite, components, debug, nilIfEmpty(d.ChangeType), d.Changes,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert deal %q: %w", d.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, nil
}

func (s *Store) ListSnapshots(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.label, s.generated_at, s.created_at,
		       (SELECT COUNT(*) FROM snapshot_deals d WHERE d.snapshot_id = s.id)
		FROM snapshots s
		ORDER BY s.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.GeneratedAt, &snap.CreatedAt, &snap.DealCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Store) GetSnapshot(ctx context.Context, id uuid.UUID) (*models.Snapshot, error) {
	var snap models.Snapshot
	err := s.pool.QueryRow(ctx, `
		SELECT s.id, s.label, s.generated_at, s.created_at,
		       (SELECT COUNT(*) FROM snapshot_deals d WHERE d.snapshot_id = s.id)
		FROM snapshots s
		WHERE s.id = $1
	`, id).Scan(&snap.ID, &snap.Label, &snap.GeneratedAt, &snap.CreatedAt, &snap.DealCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", id, err)
	}
	return &snap, nil
}

const dealCols = `id, snapshot_id, deal_key, owner, name, stage, acv,
	closing_date, modified_date, note, description,
	canonical_notes, note_count, note_hash, summary, summary_cached,
	days_since_modified, urgency, days_until_closing, closing_status,
	composite_score, components, score_debug, change_type, changes, created_at`

func (s *Store) GetSnapshotDeals(ctx context.Context, id uuid.UUID) ([]models.Deal, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+dealCols+" FROM snapshot_deals WHERE snapshot_id = $1 ORDER BY name, owner", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot deals: %w", err)
	}
	defer rows.Close()

	var out []models.Deal
	for rows.Next() {
		var d models.Deal
		var componentsRaw, debugRaw []byte
		var changeType *string
		if err := rows.Scan(
			&d.ID, &d.SnapshotID, &d.DealKey, &d.Owner, &d.Name, &d.Stage, &d.ACV,
			&d.ClosingDate, &d.ModifiedDate, &d.Note, &d.Description,
			&d.CanonicalNotes, &d.NoteCount, &d.NoteHash, &d.Summary, &d.SummaryCached,
			&d.DaysSinceModified, &d.Urgency, &d.DaysUntilClosing, &d.ClosingStatus,
			&d.CompositeScore, &componentsRaw, &debugRaw, &changeType, &d.Changes, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		if changeType != nil {
			d.ChangeType = *changeType
		}
		if len(componentsRaw) > 0 {
			_ = json.Unmarshal(componentsRaw, &d.Components)
		}
		if len(debugRaw) > 0 {
			_ = json.Unmarshal(debugRaw, &d.ScoreDebug)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// LoadSnapshot returns a stored snapshot in pipeline form, for diffing and
// rescoring against later imports.
func (s *Store) LoadSnapshot(ctx context.Context, id uuid.UUID) (*ingest.Snapshot, error) {
	meta, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	stored, err := s.GetSnapshotDeals(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := &ingest.Snapshot{GeneratedAt: meta.GeneratedAt}
	for _, m := range stored {
		d := &ingest.Deal{
			Owner:          m.Owner,
			Name:           m.Name,
			Stage:          m.Stage,
			ACV:            m.ACV,
			ClosingDate:    m.ClosingDate,
			ModifiedDate:   m.ModifiedDate,
			Note:           m.Note,
			Description:    m.Description,
			Key:            m.DealKey,
			CanonicalNotes: m.CanonicalNotes,
			NoteCount:      m.NoteCount,
			NoteHash:       m.NoteHash,
			Summary:        m.Summary,
			SummaryCached:  m.SummaryCached,
		}
		d.Derive(meta.GeneratedAt)
		snap.Deals = append(snap.Deals, d)
	}
	return snap, nil
}

// GetSummaries returns the stored summaries of a snapshot keyed by deal
// key, each tagged with the note hash it was generated from. This is the
// reuse source for incremental imports.
func (s *Store) GetSummaries(ctx context.Context, id uuid.UUID) (map[string]ingest.StoredSummary, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT deal_key, note_hash, summary FROM snapshot_deals WHERE snapshot_id = $1 AND summary <> ''", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query stored summaries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ingest.StoredSummary)
	for rows.Next() {
		var key string
		var stored ingest.StoredSummary
		if err := rows.Scan(&key, &stored.NoteHash, &stored.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan stored summary: %w", err)
		}
		out[key] = stored
	}
	return out, rows.Err()
}

// UpdateScores persists rescored health values for an existing snapshot.
func (s *Store) UpdateScores(ctx context.Context, id uuid.UUID, deals []*ingest.Deal) error {
	for _, d := range deals {
		composite, components, debug := scorePayload(d)
		_, err := s.pool.Exec(ctx, `
			UPDATE snapshot_deals
			SET composite_score = $1, components = $2, score_debug = $3
			WHERE snapshot_id = $4 AND deal_key = $5
		`, composite, components, debug, id, d.Key)
		if err != nil {
			return fmt.Errorf("failed to update scores for %q: %w", d.Key, err)
		}
	}
	return nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM snapshots WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	return nil
}

func scorePayload(d *ingest.Deal) (composite interface{}, components interface{}, debug interface{}) {
	if d.Health == nil {
		return nil, nil, nil
	}

	comps := map[string]int{
		"stage_probability":    d.Health.StageProbability,
		"velocity":             d.Health.Velocity,
		"activity_recency":     d.Health.ActivityRecency,
		"close_date_integrity": d.Health.CloseDateIntegrity,
		"acv":                  d.Health.ACV,
		"notes_signal":         d.Health.NotesSignal,
	}

	compJSON, err := json.Marshal(comps)
	if err != nil {
		return d.Health.Composite, nil, nil
	}
	debugJSON, err := json.Marshal(d.Health.Debug)
	if err != nil {
		return d.Health.Composite, string(compJSON), nil
	}
	return d.Health.Composite, string(compJSON), string(debugJSON)
}

// nilIfEmpty returns nil for empty strings so NULL is stored in DB.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
