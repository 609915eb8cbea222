package sim

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/evosim/genome"
	"github.com/pthm-cable/evosim/neural"
)

// CalcGenerationSimilarity assigns every organism a fresh numFactors-length
// fingerprint. Comparing every organism against every other would be
// quadratic, so instead each factor compares the whole population against a
// single benchmark: the first benchmark is random, and each subsequent one
// is the organism most dissimilar from the benchmarks seen so far (the one
// with the smallest fingerprint total, ties broken by iteration order).
// Factors are min-shifted and scaled to 0..100; when the whole population is
// identical the scale collapses and every factor is 0.
func CalcGenerationSimilarity(rng *rand.Rand, organisms []*Organism, numFactors, innerNodes int) {
	if len(organisms) == 0 {
		return
	}
	cat := neural.CatalogFor(innerNodes)

	for _, org := range organisms {
		org.resetFingerprint()
	}

	benchmark := organisms[rng.Intn(len(organisms))]
	for f := 0; f < numFactors; f++ {
		raw := make([]float64, len(organisms))
		minSimilarity := 1.0
		for i, org := range organisms {
			raw[i] = genome.GenomeSimilarity(benchmark.genes, org.genes, cat)
			if raw[i] < minSimilarity {
				minSimilarity = raw[i]
			}
		}

		scale := 1 - minSimilarity
		newBenchmark := organisms[0]
		for i, org := range organisms {
			factor := 0
			if scale > 0 {
				factor = int(math.Floor((raw[i] - minSimilarity) / scale * 100))
			}
			org.fingerprint.AddFactor(factor)
			if org.fingerprint.Total() < newBenchmark.fingerprint.Total() {
				newBenchmark = org
			}
		}
		benchmark = newBenchmark
	}
}
