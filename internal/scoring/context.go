package scoring

import (
	"sort"

	"github.com/elcasillas/DealUpdates/internal/ingest"
)

// defaultStageBenchmarks are the built-in days-in-stage expectations, keyed
// by normalized stage.
var defaultStageBenchmarks = map[string]float64{
	"discovery":     14,
	"qualification": 21,
	"proposal":      21,
	"negotiation":   28,
	"verbal commit": 14,
}

// minBenchmarkSamples is how many observations a stage needs before its own
// median replaces the built-in benchmark.
const minBenchmarkSamples = 3

// Context holds the dataset-relative basis for one snapshot's scores: the
// sorted positive ACV distribution and the per-stage time-in-stage
// benchmarks. Built once per snapshot, applied per deal.
type Context struct {
	acvs       []float64
	benchmarks map[string]float64
}

// BuildContext derives the scoring context from a full snapshot.
func BuildContext(deals []*ingest.Deal) *Context {
	ctx := &Context{
		benchmarks: make(map[string]float64, len(defaultStageBenchmarks)),
	}
	for stage, days := range defaultStageBenchmarks {
		ctx.benchmarks[stage] = days
	}

	samples := make(map[string][]int)
	for _, d := range deals {
		if d.ACV > 0 {
			ctx.acvs = append(ctx.acvs, d.ACV)
		}
		if d.DaysSinceModified != ingest.DaysUnknown {
			stage := ingest.Normalize(d.Stage)
			if stage != "" {
				samples[stage] = append(samples[stage], d.DaysSinceModified)
			}
		}
	}
	sort.Float64s(ctx.acvs)

	for stage, days := range samples {
		if len(days) >= minBenchmarkSamples {
			ctx.benchmarks[stage] = median(days)
		}
	}

	return ctx
}

// Benchmark returns the time-in-stage benchmark for a normalized stage;
// ok is false when the stage has neither a default nor enough samples.
func (c *Context) Benchmark(stage string) (float64, bool) {
	days, ok := c.benchmarks[ingest.Normalize(stage)]
	return days, ok
}

// Percentile returns the percentile rank of acv within the snapshot's
// positive-ACV distribution, and false when the distribution is empty or
// the value is not positive.
func (c *Context) Percentile(acv float64) (float64, bool) {
	if len(c.acvs) == 0 || acv <= 0 {
		return 0, false
	}
	below := sort.SearchFloat64s(c.acvs, acv)
	return float64(below) * 100 / float64(len(c.acvs)), true
}

// median of the samples; the lower-middle element for even counts, which
// keeps the value stable under duplicated observations.
func median(samples []int) float64 {
	sorted := append([]int(nil), samples...)
	sort.Ints(sorted)
	return float64(sorted[(len(sorted)-1)/2])
}
