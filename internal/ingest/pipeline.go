package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoDataRows is returned when the export carries a header but not a
// single data line. Like ErrHeaderNotFound it is fatal for the import.
var ErrNoDataRows = errors.New("no data rows after header")

// Pipeline runs the full import transformation: tokenize, locate the
// header, normalize and validate rows, deduplicate, and attach summaries.
// It holds no state across runs; every output is a deterministic function
// of the input text, the reference now, and the prior summaries.
type Pipeline struct {
	Summarizer Summarizer
	BatchSize  int
}

// NewPipeline wires a pipeline with an optional summarization collaborator.
func NewPipeline(summarizer Summarizer) *Pipeline {
	return &Pipeline{
		Summarizer: summarizer,
		BatchSize:  DefaultSummaryBatchSize,
	}
}

// ParseSnapshot reconstructs one deduplicated snapshot from raw export
// text. Structural failures (no header, no data rows) abort with an error
// before any Deal is produced; malformed rows and non-home-currency rows
// are dropped deterministically and silently.
func ParseSnapshot(text string, now time.Time) (*Snapshot, error) {
	rows := Tokenize(text)

	meta, err := LocateMetadata(rows)
	if err != nil {
		return nil, err
	}

	dataRows := rows[meta.HeaderIndex+1:]
	if len(dataRows) == 0 {
		return nil, ErrNoDataRows
	}

	deals := make([]*Deal, 0, len(dataRows))
	dropped := 0
	for _, fields := range dataRows {
		if IsEmptyRow(fields) {
			continue
		}
		d, ok := BuildDeal(MapRow(meta.Headers, fields), now)
		if !ok {
			dropped++
			continue
		}
		deals = append(deals, d)
	}

	deduped := Dedupe(deals)

	logrus.WithFields(logrus.Fields{
		"rows":    len(dataRows),
		"dropped": dropped,
		"deals":   len(deduped),
	}).Info("snapshot parsed")

	generatedAt := now
	if meta.ReportDate != nil {
		generatedAt = *meta.ReportDate
	}

	return &Snapshot{
		GeneratedAt: generatedAt,
		ReportDate:  meta.ReportDate,
		Deals:       deduped,
	}, nil
}

// Run parses the export and attaches summaries, reusing prior summaries for
// deals whose note hash is unchanged.
func (p *Pipeline) Run(ctx context.Context, text string, now time.Time, prior map[string]StoredSummary) (*Snapshot, error) {
	snap, err := ParseSnapshot(text, now)
	if err != nil {
		return nil, err
	}

	ApplySummaries(ctx, snap.Deals, prior, p.Summarizer, p.BatchSize)
	return snap, nil
}
