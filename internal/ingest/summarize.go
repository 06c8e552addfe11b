package ingest

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultSummaryBatchSize caps how many deals go into one collaborator
// call, bounding request size.
const DefaultSummaryBatchSize = 10

const (
	localSummarySeparator = " | "
	localSummaryMaxLen    = 500
)

// SummaryRequest is one entry in a summarization batch.
type SummaryRequest struct {
	Key         string `json:"key"`
	ContentHash string `json:"content_hash"`
	Notes       string `json:"notes"`
}

// SummaryResult is the collaborator's answer for one deal. Cached reports
// whether the collaborator served it from its own cache.
type SummaryResult struct {
	Summary string `json:"summary"`
	Cached  bool   `json:"cached"`
}

// StoredSummary is a previously generated summary keyed by the note hash it
// was produced from.
type StoredSummary struct {
	NoteHash string
	Summary  string
}

// Summarizer is the remote note-summarization collaborator. A failed or
// empty response is never fatal; callers degrade to LocalSummary.
type Summarizer interface {
	Summarize(ctx context.Context, reqs []SummaryRequest) (map[string]SummaryResult, error)
}

// ApplySummaries attaches a summary to every deal. A deal whose note hash
// exactly matches its prior snapshot entry reuses the stored summary
// verbatim without calling the collaborator; the rest are summarized in
// batches, falling back to the deterministic local summary on any failure,
// missing entry, or absent client. No retries.
func ApplySummaries(ctx context.Context, deals []*Deal, prior map[string]StoredSummary, client Summarizer, batchSize int) {
	if batchSize <= 0 {
		batchSize = DefaultSummaryBatchSize
	}

	var pending []*Deal
	reused := 0
	for _, d := range deals {
		if prev, ok := prior[d.Key]; ok && prev.NoteHash == d.NoteHash && prev.Summary != "" {
			d.Summary = prev.Summary
			d.SummaryCached = true
			reused++
			continue
		}
		pending = append(pending, d)
	}
	if reused > 0 {
		logrus.WithFields(logrus.Fields{"reused": reused, "pending": len(pending)}).
			Info("summary reuse by note hash")
	}

	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		summarizeBatch(ctx, pending[start:end], client)
	}
}

func summarizeBatch(ctx context.Context, batch []*Deal, client Summarizer) {
	var results map[string]SummaryResult
	if client != nil {
		reqs := make([]SummaryRequest, 0, len(batch))
		for _, d := range batch {
			reqs = append(reqs, SummaryRequest{Key: d.Key, ContentHash: d.NoteHash, Notes: d.CanonicalNotes})
		}

		var err error
		results, err = client.Summarize(ctx, reqs)
		if err != nil {
			logrus.WithError(err).WithField("batch", len(batch)).
				Warn("summarization call failed, using local summaries")
			results = nil
		}
	}

	for _, d := range batch {
		if res, ok := results[d.Key]; ok && strings.TrimSpace(res.Summary) != "" {
			d.Summary = res.Summary
			d.SummaryCached = res.Cached
			continue
		}
		d.Summary = LocalSummary(d.CanonicalNotes)
		d.SummaryCached = false
	}
}

// LocalSummary is the deterministic fallback: the first sentence (or first
// 150 characters) of each distinct note, joined, truncated to 500.
func LocalSummary(canonicalNotes string) string {
	if canonicalNotes == "" {
		return ""
	}

	parts := strings.Split(canonicalNotes, NoteSeparator)
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := firstSentence(p); s != "" {
			lines = append(lines, s)
		}
	}
	return TruncateText(strings.Join(lines, localSummarySeparator), localSummaryMaxLen)
}
