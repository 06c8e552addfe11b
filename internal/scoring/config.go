package scoring

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/scoring.yaml
var defaultsYAML embed.FS

// Weights are the six component weights. They are intended to sum to 100
// but are auto-normalized by the composite, so any positive total works.
type Weights struct {
	StageProbability   float64 `yaml:"stage_probability" json:"stage_probability"`
	Velocity           float64 `yaml:"velocity" json:"velocity"`
	ActivityRecency    float64 `yaml:"activity_recency" json:"activity_recency"`
	CloseDateIntegrity float64 `yaml:"close_date_integrity" json:"close_date_integrity"`
	ACV                float64 `yaml:"acv" json:"acv"`
	NotesSignal        float64 `yaml:"notes_signal" json:"notes_signal"`
}

// Total is the sum of all six weights.
func (w Weights) Total() float64 {
	return w.StageProbability + w.Velocity + w.ActivityRecency +
		w.CloseDateIntegrity + w.ACV + w.NotesSignal
}

func (w Weights) isZero() bool {
	return w == Weights{}
}

// Config is the caller-supplied scoring configuration. Every field is
// optional: absent fields fall back to the built-in defaults independently,
// so partial overrides are legal. The engine never stores a Config.
type Config struct {
	Weights          Weights        `yaml:"weights" json:"weights"`
	StageScores      map[string]int `yaml:"stage_scores" json:"stage_scores"`
	PositiveKeywords []string       `yaml:"positive_keywords" json:"positive_keywords"`
	NegativeKeywords []string       `yaml:"negative_keywords" json:"negative_keywords"`
	PushKeywords     []string       `yaml:"push_keywords" json:"push_keywords"`
}

// DefaultConfig returns the built-in defaults from the embedded registry.
func DefaultConfig() Config {
	data, err := defaultsYAML.ReadFile("config/scoring.yaml")
	if err != nil {
		// The file is embedded at build time; this cannot happen outside a
		// broken build.
		panic(fmt.Sprintf("embedded scoring defaults unavailable: %v", err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(fmt.Sprintf("embedded scoring defaults invalid: %v", err))
	}
	return cfg
}

// LoadConfig reads a caller config file and overlays it on the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read scoring config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse scoring config: %w", err)
	}
	return cfg.WithDefaults(), nil
}

// WithDefaults fills every absent field from the built-in defaults. A
// fully zero Weights block counts as absent; a config used directly (no
// defaults) with zero total weight yields a composite of 0 in the engine.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()

	if c.Weights.isZero() {
		c.Weights = def.Weights
	}
	if c.StageScores == nil {
		c.StageScores = def.StageScores
	}
	if c.PositiveKeywords == nil {
		c.PositiveKeywords = def.PositiveKeywords
	}
	if c.NegativeKeywords == nil {
		c.NegativeKeywords = def.NegativeKeywords
	}
	if c.PushKeywords == nil {
		c.PushKeywords = def.PushKeywords
	}
	return c
}
