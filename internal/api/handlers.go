package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/elcasillas/DealUpdates/internal/ingest"
	"github.com/elcasillas/DealUpdates/internal/scoring"
)

const maxImportBytes = 32 << 20

type importResponse struct {
	SnapshotID  uuid.UUID         `json:"snapshot_id"`
	Label       string            `json:"label,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	DealCount   int               `json:"deal_count"`
	Diff        *ingest.DiffStats `json:"diff,omitempty"`
}

// handleImport ingests a raw CRM notes export. The CSV is posted as the
// request body; optional query params: label, prior (baseline snapshot ID
// for summary reuse and diffing).
func (s *Server) handleImport(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read request body"})
	}
	if len(body) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Empty export"})
	}

	var baseline *ingest.Snapshot
	prior := map[string]ingest.StoredSummary{}
	if raw := c.QueryParam("prior"); raw != "" {
		priorID, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid prior snapshot ID"})
		}
		baseline, err = s.Store.LoadSnapshot(ctx, priorID)
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Prior snapshot not found"})
		}
		if err != nil {
			c.Logger().Errorf("Failed to load prior snapshot: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}
		prior, err = s.Store.GetSummaries(ctx, priorID)
		if err != nil {
			c.Logger().Errorf("Failed to load prior summaries: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}
	}

	snap, err := s.Pipeline.Run(ctx, string(body), time.Now().UTC(), prior)
	if err != nil {
		if errors.Is(err, ingest.ErrHeaderNotFound) || errors.Is(err, ingest.ErrNoDataRows) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		c.Logger().Errorf("Import failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	scoring.ScoreSnapshot(snap, &s.Scoring)

	resp := importResponse{
		GeneratedAt: snap.GeneratedAt,
		DealCount:   len(snap.Deals),
	}
	if baseline != nil {
		stats := ingest.DiffSnapshots(baseline, snap)
		resp.Diff = &stats
	}

	label := c.QueryParam("label")
	id, err := s.Store.SaveSnapshot(ctx, label, snap)
	if err != nil {
		c.Logger().Errorf("Failed to save snapshot: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	resp.SnapshotID = id
	resp.Label = label

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleListSnapshots(c echo.Context) error {
	snaps, err := s.Store.ListSnapshots(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, snaps)
}

func (s *Server) handleGetSnapshot(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid snapshot ID"})
	}

	meta, err := s.Store.GetSnapshot(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	deals, err := s.Store.GetSnapshotDeals(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"snapshot": meta,
		"deals":    deals,
	})
}

// handleDiffSnapshots compares snapshot :id against baseline :base and
// returns per-deal change annotations plus aggregate counts.
func (s *Server) handleDiffSnapshots(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid snapshot ID"})
	}
	baseID, err := uuid.Parse(c.Param("base"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid baseline snapshot ID"})
	}

	current, err := s.Store.LoadSnapshot(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Snapshot not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	baseline, err := s.Store.LoadSnapshot(ctx, baseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Baseline snapshot not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	stats := ingest.DiffSnapshots(baseline, current)

	type dealChange struct {
		Key        string   `json:"deal_key"`
		Name       string   `json:"deal_name"`
		Owner      string   `json:"deal_owner"`
		ChangeType string   `json:"change_type"`
		Changes    []string `json:"changes,omitempty"`
	}
	changes := make([]dealChange, 0, len(current.Deals))
	for _, d := range current.Deals {
		changes = append(changes, dealChange{
			Key:        d.Key,
			Name:       d.Name,
			Owner:      d.Owner,
			ChangeType: d.ChangeType,
			Changes:    d.Changes,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stats": stats,
		"deals": changes,
	})
}

// handleRescore re-runs health scoring over a stored snapshot. The caller
// may post a partial scoring config; omitted sections fall back to the
// embedded defaults.
func (s *Server) handleRescore(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid snapshot ID"})
	}

	cfg := s.Scoring
	if c.Request().ContentLength > 0 {
		var override scoring.Config
		if err := c.Bind(&override); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid scoring config"})
		}
		cfg = override.WithDefaults()
	}

	snap, err := s.Store.LoadSnapshot(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Snapshot not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	scoring.ScoreSnapshot(snap, &cfg)

	if err := s.Store.UpdateScores(ctx, id, snap.Deals); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	deals, err := s.Store.GetSnapshotDeals(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"snapshot_id": id,
		"deals":       deals,
	})
}

func (s *Server) handleDeleteSnapshot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid snapshot ID"})
	}

	if err := s.Store.DeleteSnapshot(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
