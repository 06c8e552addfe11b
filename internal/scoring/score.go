package scoring

import (
	"math"
	"strings"

	"github.com/elcasillas/DealUpdates/internal/ingest"
)

const unmappedStageScore = 35

// ScoreSnapshot builds the dataset context once and scores every deal in
// place. A nil config means built-in defaults.
func ScoreSnapshot(snap *ingest.Snapshot, cfg *Config) *Context {
	resolved := resolveConfig(cfg)
	sctx := BuildContext(snap.Deals)
	for _, d := range snap.Deals {
		ScoreDeal(d, sctx, resolved)
	}
	return sctx
}

// ScoreDeal computes the six component scores and the weighted composite
// for one deal, attaching the result.
func ScoreDeal(d *ingest.Deal, sctx *Context, cfg Config) {
	h := &ingest.HealthScore{}

	h.StageProbability = stageProbabilityScore(d, cfg)
	h.Velocity = velocityScore(d, sctx, &h.Debug)
	h.ActivityRecency = activityRecencyScore(d)
	h.CloseDateIntegrity = closeDateIntegrityScore(d, cfg, &h.Debug)
	h.ACV = acvScore(d, sctx, &h.Debug)
	h.NotesSignal = notesSignalScore(d, cfg, &h.Debug)

	h.Composite = composite(h, cfg.Weights)
	d.Health = h
}

func resolveConfig(cfg *Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return cfg.WithDefaults()
}

func stageProbabilityScore(d *ingest.Deal, cfg Config) int {
	stage := ingest.Normalize(d.Stage)
	if stage == "" {
		return unmappedStageScore
	}
	if score, ok := cfg.StageScores[stage]; ok {
		return clamp(score)
	}
	return unmappedStageScore
}

func velocityScore(d *ingest.Deal, sctx *Context, dbg *ingest.ScoreDebug) int {
	daysInStage := d.DaysSinceModified
	if d.DaysInStage != nil {
		daysInStage = *d.DaysInStage
	}

	benchmark, ok := sctx.Benchmark(d.Stage)
	if !ok || benchmark <= 0 || daysInStage == ingest.DaysUnknown {
		return 70
	}
	dbg.StageBenchmark = benchmark

	ratio := float64(daysInStage) / benchmark
	dbg.VelocityRatio = ratio

	switch {
	case ratio <= 0.8:
		return 100
	case ratio <= 1.2:
		return 70
	case ratio <= 1.5:
		return 40
	default:
		return 10
	}
}

func activityRecencyScore(d *ingest.Deal) int {
	switch {
	case d.DaysSinceModified == ingest.DaysUnknown:
		return 40
	case d.DaysSinceModified <= 7:
		return 100
	case d.DaysSinceModified <= 14:
		return 70
	case d.DaysSinceModified <= 30:
		return 40
	default:
		return 10
	}
}

func closeDateIntegrityScore(d *ingest.Deal, cfg Config, dbg *ingest.ScoreDebug) int {
	var base int
	switch {
	case d.DaysUntilClosing == nil:
		base = 60
	case *d.DaysUntilClosing < 0:
		base = 10
		if ingest.Normalize(d.Stage) == "closed won" {
			base = 100
		}
	case *d.DaysUntilClosing <= 30:
		base = 70
	default:
		base = 100
	}

	matched := matchKeywords(noteText(d), cfg.PushKeywords)
	dbg.PushMatches = matched

	score := base - 20*len(matched)
	if score < 10 {
		score = 10
	}
	return clamp(score)
}

func acvScore(d *ingest.Deal, sctx *Context, dbg *ingest.ScoreDebug) int {
	pct, ok := sctx.Percentile(d.ACV)
	if !ok {
		return 40
	}
	dbg.ACVPercentile = pct

	switch {
	case pct >= 80:
		return 100
	case pct >= 40:
		return 70
	default:
		return 40
	}
}

func notesSignalScore(d *ingest.Deal, cfg Config, dbg *ingest.ScoreDebug) int {
	text := noteText(d)

	positive := matchKeywords(text, cfg.PositiveKeywords)
	negative := matchKeywords(text, cfg.NegativeKeywords)
	dbg.PositiveMatches = positive
	dbg.NegativeMatches = negative

	return clamp(50 + 10*len(positive) - 10*len(negative))
}

func composite(h *ingest.HealthScore, w Weights) int {
	total := w.Total()
	if total <= 0 {
		return 0
	}

	weighted := float64(h.StageProbability)*w.StageProbability +
		float64(h.Velocity)*w.Velocity +
		float64(h.ActivityRecency)*w.ActivityRecency +
		float64(h.CloseDateIntegrity)*w.CloseDateIntegrity +
		float64(h.ACV)*w.ACV +
		float64(h.NotesSignal)*w.NotesSignal

	return clamp(int(math.Round(weighted / total)))
}

// noteText is the haystack for keyword scans: canonical note history plus
// the winning row's raw note, lowercased.
func noteText(d *ingest.Deal) string {
	return strings.ToLower(d.CanonicalNotes + " " + d.Note)
}

// matchKeywords returns the distinct keywords contained in text, preserving
// list order.
func matchKeywords(text string, keywords []string) []string {
	var matched []string
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if strings.Contains(text, k) {
			matched = append(matched, k)
		}
	}
	return matched
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
