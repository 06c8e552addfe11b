package scoring

import (
	"testing"

	"github.com/elcasillas/DealUpdates/internal/ingest"
)

func scoreDeal(stage, notes string) *ingest.Deal {
	return &ingest.Deal{
		Stage:             stage,
		CanonicalNotes:    notes,
		DaysSinceModified: ingest.DaysUnknown,
	}
}

func TestStageProbabilityScore(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		stage string
		want  int
	}{
		{"Proposal", 55},
		{"  NEGOTIATION ", 70},
		{"Closed Won", 100},
		{"Closed Lost", 0},
		{"Some Custom Stage", 35},
		{"", 35},
	}
	for _, tc := range cases {
		d := scoreDeal(tc.stage, "")
		if got := stageProbabilityScore(d, cfg); got != tc.want {
			t.Fatalf("stage %q: got %d, want %d", tc.stage, got, tc.want)
		}
	}
}

func TestVelocityScore_Ladder(t *testing.T) {
	sctx := BuildContext(nil) // default benchmark for proposal: 21 days

	cases := []struct {
		days int
		want int
	}{
		{16, 100}, // ratio 0.76
		{25, 70},  // ratio 1.19
		{28, 40},  // ratio 1.33
		{40, 10},  // ratio 1.90
	}
	for _, tc := range cases {
		d := scoreDeal("Proposal", "")
		d.DaysSinceModified = tc.days
		var dbg ingest.ScoreDebug
		if got := velocityScore(d, sctx, &dbg); got != tc.want {
			t.Fatalf("days=%d: got %d, want %d", tc.days, got, tc.want)
		}
	}
}

func TestVelocityScore_NeutralWithoutBasis(t *testing.T) {
	sctx := BuildContext(nil)
	var dbg ingest.ScoreDebug

	unknownDays := scoreDeal("Proposal", "")
	if got := velocityScore(unknownDays, sctx, &dbg); got != 70 {
		t.Fatalf("unknown days: got %d", got)
	}

	noBenchmark := scoreDeal("Mystery Stage", "")
	noBenchmark.DaysSinceModified = 10
	if got := velocityScore(noBenchmark, sctx, &dbg); got != 70 {
		t.Fatalf("no benchmark: got %d", got)
	}
}

func TestVelocityScore_ExplicitDaysInStageWins(t *testing.T) {
	sctx := BuildContext(nil)
	var dbg ingest.ScoreDebug

	d := scoreDeal("Proposal", "")
	d.DaysSinceModified = 40
	inStage := 10
	d.DaysInStage = &inStage

	if got := velocityScore(d, sctx, &dbg); got != 100 {
		t.Fatalf("got %d", got)
	}
}

func TestActivityRecencyScore(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{3, 100},
		{7, 100},
		{10, 70},
		{14, 70},
		{20, 40},
		{30, 40},
		{31, 10},
		{ingest.DaysUnknown, 40},
	}
	for _, tc := range cases {
		d := scoreDeal("Proposal", "")
		d.DaysSinceModified = tc.days
		if got := activityRecencyScore(d); got != tc.want {
			t.Fatalf("days=%d: got %d, want %d", tc.days, got, tc.want)
		}
	}
}

func TestCloseDateIntegrityScore(t *testing.T) {
	cfg := DefaultConfig()
	ptr := func(n int) *int { return &n }

	cases := []struct {
		name  string
		stage string
		days  *int
		notes string
		want  int
	}{
		{"unknown date", "Proposal", nil, "", 60},
		{"within 30", "Proposal", ptr(20), "", 70},
		{"further out", "Proposal", ptr(45), "", 100},
		{"overdue", "Proposal", ptr(-5), "", 10},
		{"overdue but closed won", "Closed Won", ptr(-5), "", 100},
		{"push keyword", "Proposal", ptr(45), "closing pushed to next month", 80},
		{"two push keywords", "Proposal", ptr(45), "pushed and delayed again", 60},
		{"push floor", "Proposal", ptr(-5), "pushed delayed rescheduled", 10},
	}
	for _, tc := range cases {
		d := scoreDeal(tc.stage, tc.notes)
		d.DaysUntilClosing = tc.days
		var dbg ingest.ScoreDebug
		if got := closeDateIntegrityScore(d, cfg, &dbg); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestACVScore(t *testing.T) {
	sctx := BuildContext([]*ingest.Deal{
		contextDeal("Proposal", 10000, ingest.DaysUnknown),
		contextDeal("Proposal", 20000, ingest.DaysUnknown),
		contextDeal("Proposal", 30000, ingest.DaysUnknown),
		contextDeal("Proposal", 40000, ingest.DaysUnknown),
		contextDeal("Proposal", 50000, ingest.DaysUnknown),
	})
	var dbg ingest.ScoreDebug

	cases := []struct {
		acv  float64
		want int
	}{
		{50000, 100}, // 80th percentile
		{30000, 70},  // 40th percentile
		{10000, 40},  // 0th percentile
		{0, 40},      // no basis
	}
	for _, tc := range cases {
		d := scoreDeal("Proposal", "")
		d.ACV = tc.acv
		if got := acvScore(d, sctx, &dbg); got != tc.want {
			t.Fatalf("acv=%v: got %d, want %d", tc.acv, got, tc.want)
		}
	}
}

func TestNotesSignalScore(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name  string
		notes string
		want  int
	}{
		{"no signal", "routine check-in call", 50},
		{"one positive", "budget confirmed by cfo", 60},
		{"one negative", "reviewing internally for now", 40},
		{"offsetting", "budget confirmed but reviewing internally", 50},
		{"repeat counts once", "budget confirmed. again: budget confirmed", 60},
	}
	for _, tc := range cases {
		d := scoreDeal("Proposal", tc.notes)
		var dbg ingest.ScoreDebug
		if got := notesSignalScore(d, cfg, &dbg); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestNotesSignalScore_Clamped(t *testing.T) {
	cfg := DefaultConfig()
	d := scoreDeal("Proposal", "no response, circling back, waiting on approval, reviewing internally, pushed, delayed, stalled")

	var dbg ingest.ScoreDebug
	if got := notesSignalScore(d, cfg, &dbg); got != 0 {
		t.Fatalf("got %d, want clamp at 0", got)
	}
}

func TestComposite_WeightedAndClamped(t *testing.T) {
	h := &ingest.HealthScore{
		StageProbability:   55,
		Velocity:           70,
		ActivityRecency:    100,
		CloseDateIntegrity: 70,
		ACV:                70,
		NotesSignal:        60,
	}

	got := composite(h, DefaultConfig().Weights)
	// 55*25 + 70*15 + 100*15 + 70*15 + 70*10 + 60*20 = 6875 -> 69
	if got != 69 {
		t.Fatalf("got %d", got)
	}
}

func TestComposite_ZeroWeightsYieldZero(t *testing.T) {
	h := &ingest.HealthScore{StageProbability: 100}
	if got := composite(h, Weights{}); got != 0 {
		t.Fatalf("got %d", got)
	}
}

func TestComposite_AutoNormalizesNonStandardTotals(t *testing.T) {
	h := &ingest.HealthScore{StageProbability: 80, NotesSignal: 40}
	w := Weights{StageProbability: 3, NotesSignal: 1}

	// (80*3 + 40*1) / 4 = 70
	if got := composite(h, w); got != 70 {
		t.Fatalf("got %d", got)
	}
}

func TestScoreSnapshot_AttachesHealth(t *testing.T) {
	snap := &ingest.Snapshot{Deals: []*ingest.Deal{
		scoreDeal("Proposal", "budget confirmed"),
		scoreDeal("Closed Lost", ""),
	}}

	ScoreSnapshot(snap, nil)

	for _, d := range snap.Deals {
		if d.Health == nil {
			t.Fatal("health not attached")
		}
		if d.Health.Composite < 0 || d.Health.Composite > 100 {
			t.Fatalf("composite out of range: %d", d.Health.Composite)
		}
	}

	if snap.Deals[0].Health.NotesSignal != 60 {
		t.Fatalf("got %d", snap.Deals[0].Health.NotesSignal)
	}
	if snap.Deals[1].Health.StageProbability != 0 {
		t.Fatalf("got %d", snap.Deals[1].Health.StageProbability)
	}
}
