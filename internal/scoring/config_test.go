package scoring

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.Weights.Total(); got != 100 {
		t.Fatalf("default weights should sum to 100, got %v", got)
	}
	if cfg.StageScores["proposal"] != 55 {
		t.Fatalf("got %d", cfg.StageScores["proposal"])
	}
	if cfg.StageScores["closed won"] != 100 {
		t.Fatalf("got %d", cfg.StageScores["closed won"])
	}
	if len(cfg.PositiveKeywords) == 0 || len(cfg.NegativeKeywords) == 0 || len(cfg.PushKeywords) == 0 {
		t.Fatal("keyword lists must be populated")
	}
}

func TestWithDefaults_PartialOverride(t *testing.T) {
	cfg := Config{
		PositiveKeywords: []string{"champion identified"},
	}.WithDefaults()

	if len(cfg.PositiveKeywords) != 1 || cfg.PositiveKeywords[0] != "champion identified" {
		t.Fatalf("override lost: %q", cfg.PositiveKeywords)
	}
	if cfg.Weights.Total() != 100 {
		t.Fatalf("weights not defaulted: %v", cfg.Weights)
	}
	if cfg.StageScores == nil || cfg.PushKeywords == nil {
		t.Fatal("absent sections not defaulted")
	}
}

func TestWithDefaults_WeightOverrideKept(t *testing.T) {
	cfg := Config{
		Weights: Weights{StageProbability: 50, NotesSignal: 50},
	}.WithDefaults()

	if cfg.Weights.StageProbability != 50 || cfg.Weights.Velocity != 0 {
		t.Fatalf("explicit weights altered: %+v", cfg.Weights)
	}
}
