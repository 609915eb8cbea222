// Package telemetry observes the simulation through its output hooks:
// per-generation statistics, CSV output and position snapshots.
package telemetry

import (
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/evosim/genome"
	"github.com/pthm-cable/evosim/neural"
	"github.com/pthm-cable/evosim/sim"
)

// similaritySamplePairs is how many random genome pairs the per-generation
// similarity estimate averages over. Comparing every pair would be
// quadratic in the population for little extra signal.
const similaritySamplePairs = 30

// movingAverageWindow is the generation count the moving averages smooth
// over; earlier generations report NaN.
const movingAverageWindow = 20

// GenerationStats is one generation's record in stats.csv.
type GenerationStats struct {
	Generation    int     `csv:"generation"`
	Survivors     int     `csv:"survivors"`
	AvgSimilarity float64 `csv:"avg_similarity"`
	SurvivorsAvg  float64 `csv:"survivors_moving_avg"`
	SimilarityAvg float64 `csv:"similarity_moving_avg"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("survivors", s.Survivors),
		slog.Float64("avg_similarity", s.AvgSimilarity),
		slog.Float64("survivors_moving_avg", s.SurvivorsAvg),
		slog.Float64("similarity_moving_avg", s.SimilarityAvg),
	)
}

// Collector accumulates per-generation statistics across a run.
type Collector struct {
	rng        *rand.Rand
	innerNodes int

	survivors  []float64
	similarity []float64
	factors    []int
}

// NewCollector creates a collector. The rng drives similarity sampling and
// should be separate from the simulation's stream so recording does not
// perturb a seeded run.
func NewCollector(rng *rand.Rand, innerNodes int) *Collector {
	return &Collector{rng: rng, innerNodes: innerNodes}
}

// AddGeneration folds one completed generation into the collector and
// returns its stats record.
func (c *Collector) AddGeneration(gen int, organisms []*sim.Organism, numSurvivors int) GenerationStats {
	c.survivors = append(c.survivors, float64(numSurvivors))
	c.similarity = append(c.similarity, c.sampleSimilarity(organisms))

	for _, org := range organisms {
		c.factors = append(c.factors, org.Fingerprint().Factors()...)
	}

	return GenerationStats{
		Generation:    gen,
		Survivors:     numSurvivors,
		AvgSimilarity: c.similarity[len(c.similarity)-1],
		SurvivorsAvg:  movingAverage(c.survivors),
		SimilarityAvg: movingAverage(c.similarity),
	}
}

// sampleSimilarity estimates the generation's mean genetic similarity from
// random genome pairs.
func (c *Collector) sampleSimilarity(organisms []*sim.Organism) float64 {
	if len(organisms) == 0 {
		return 0
	}
	cat := neural.CatalogFor(c.innerNodes)
	samples := make([]float64, 0, similaritySamplePairs)
	for i := 0; i < similaritySamplePairs; i++ {
		a := organisms[c.rng.Intn(len(organisms))]
		b := organisms[c.rng.Intn(len(organisms))]
		samples = append(samples, genome.GenomeSimilarity(a.Genome(), b.Genome(), cat))
	}
	return stat.Mean(samples, nil)
}

func movingAverage(series []float64) float64 {
	if len(series) < movingAverageWindow {
		return math.NaN()
	}
	return stat.Mean(series[len(series)-movingAverageWindow:], nil)
}

// FactorCounts bins every fingerprint factor seen during the run into the
// 0..100 histogram written at simulation end.
func (c *Collector) FactorCounts() []FactorCount {
	var counts [101]int
	for _, f := range c.factors {
		if f >= 0 && f <= 100 {
			counts[f]++
		}
	}
	records := make([]FactorCount, 0, len(counts))
	for value, count := range counts {
		records = append(records, FactorCount{Factor: value, Count: count})
	}
	return records
}

// FactorCount is one bin of the fingerprint factor distribution.
type FactorCount struct {
	Factor int `csv:"factor"`
	Count  int `csv:"count"`
}
