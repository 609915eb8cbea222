package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/evosim/config"
	"github.com/pthm-cable/evosim/world"
)

// Strategy selects how survivors are paired into parents.
type Strategy int

const (
	// StrategyRandom picks both parents uniformly, with replacement.
	StrategyRandom Strategy = iota
	// StrategySimilarity pairs survivors with the closest similarity
	// fingerprint, so lineages breed with their genetic neighbors.
	StrategySimilarity
	// StrategyLocation pairs survivors that ended the generation closest
	// together on the grid.
	StrategyLocation
)

type parentPair struct {
	a, b *Organism
}

// NextGeneration breeds a full population from the survivors using the
// configured strategy, then fingerprints the new population. Breeding with
// zero survivors is a contract violation; the simulation falls back to a
// random population before ever calling this.
func NextGeneration(rng *rand.Rand, survivors []*Organism, grid *world.Grid, cfg *config.Config) ([]*Organism, error) {
	if len(survivors) == 0 {
		return nil, fmt.Errorf("mating: no survivors to breed from")
	}

	var organisms []*Organism
	var err error
	switch Strategy(cfg.Mating.Strategy) {
	case StrategySimilarity:
		organisms, err = breedPaired(rng, survivors, grid, cfg, func(a, b *Organism) int {
			return a.fingerprint.WeightedDifference(b.fingerprint)
		})
	case StrategyLocation:
		organisms, err = breedPaired(rng, survivors, grid, cfg, func(a, b *Organism) int {
			return a.loc.WeightedDifference(b.loc)
		})
	default:
		organisms, err = breedRandom(rng, survivors, grid, cfg)
	}
	if err != nil {
		return nil, err
	}

	CalcGenerationSimilarity(rng, organisms, cfg.Mating.SimilarityFactors, cfg.Brain.InnerNodes)
	return organisms, nil
}

// NewRandomGeneration creates a full population of random organisms, used
// for generation zero and as the fallback when a generation leaves no
// survivors. The population is fingerprinted like any other.
func NewRandomGeneration(rng *rand.Rand, grid *world.Grid, cfg *config.Config) []*Organism {
	organisms := make([]*Organism, cfg.Run.Organisms)
	for i := range organisms {
		organisms[i] = NewRandomOrganism(grid, cfg, rng)
	}
	CalcGenerationSimilarity(rng, organisms, cfg.Mating.SimilarityFactors, cfg.Brain.InnerNodes)
	return organisms
}

func breedRandom(rng *rand.Rand, survivors []*Organism, grid *world.Grid, cfg *config.Config) ([]*Organism, error) {
	organisms := make([]*Organism, 0, cfg.Run.Organisms)
	for i := 0; i < cfg.Run.Organisms; i++ {
		a := survivors[rng.Intn(len(survivors))]
		b := survivors[rng.Intn(len(survivors))]
		child, err := OrganismFromParents(grid, cfg, rng, a, b)
		if err != nil {
			return nil, err
		}
		organisms = append(organisms, child)
	}
	return organisms, nil
}

func breedPaired(rng *rand.Rand, survivors []*Organism, grid *world.Grid, cfg *config.Config, heuristic func(a, b *Organism) int) ([]*Organism, error) {
	pairs := heuristicPairs(survivors, heuristic)
	if len(pairs) == 0 {
		// A lone survivor cannot be paired; breed it against itself. The
		// splice is a no-op and mutation still applies.
		pairs = []parentPair{{survivors[0], survivors[0]}}
	}

	organisms := make([]*Organism, 0, cfg.Run.Organisms)
	for i := 0; i < cfg.Run.Organisms; i++ {
		p := pairs[i%len(pairs)]
		child, err := OrganismFromParents(grid, cfg, rng, p.a, p.b)
		if err != nil {
			return nil, err
		}
		organisms = append(organisms, child)
	}
	return organisms, nil
}

// heuristicPairs greedily pairs survivors: walking the list in order, each
// unpaired survivor claims the unpaired partner minimizing the heuristic.
// A best-so-far index of -1 is the explicit "unset" sentinel, so a first
// candidate with difference zero is honored. Pairing stops once half the
// survivors (rounded down) are paired off.
func heuristicPairs(survivors []*Organism, heuristic func(a, b *Organism) int) []parentPair {
	target := len(survivors) / 2
	paired := make([]bool, len(survivors))

	var pairs []parentPair
	for i := 0; i < len(survivors) && len(pairs) < target; i++ {
		if paired[i] {
			continue
		}

		best := -1
		bestDiff := 0
		for j := 0; j < len(survivors); j++ {
			if j == i || paired[j] {
				continue
			}
			diff := heuristic(survivors[i], survivors[j])
			if best == -1 || diff < bestDiff {
				best = j
				bestDiff = diff
			}
		}
		if best == -1 {
			break
		}

		paired[i] = true
		paired[best] = true
		pairs = append(pairs, parentPair{survivors[i], survivors[best]})
	}
	return pairs
}
