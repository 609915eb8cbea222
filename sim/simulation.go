package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/evosim/config"
	"github.com/pthm-cable/evosim/world"
)

// Output observes simulation progress. Implementations are opaque sinks:
// the core never inspects their results, and a failing sink must not abort
// the run. NopOutput is a valid implementation for headless use.
type Output interface {
	GenerationStarted(organisms []*Organism, gen int)
	StepComplete()
	GenerationComplete(numSurvivors int)
	SimulationComplete()
}

// NopOutput discards every event.
type NopOutput struct{}

func (NopOutput) GenerationStarted([]*Organism, int) {}
func (NopOutput) StepComplete()                      {}
func (NopOutput) GenerationComplete(int)             {}
func (NopOutput) SimulationComplete()                {}

// Simulation orchestrates generations of organisms on a grid: create,
// place, step, select survivors, breed, repeat. Execution is strictly
// single-threaded; within a step organisms run in a fixed order, so a move
// committed by one organism is visible to the next one's senses.
type Simulation struct {
	cfg       *config.Config
	rng       *rand.Rand
	grid      *world.Grid
	criterion world.Criterion
	output    Output

	organisms []*Organism
}

// New builds a simulation from configuration: grid with obstacles, survival
// criterion, and the output sink (nil for none).
func New(cfg *config.Config, rng *rand.Rand, output Output) (*Simulation, error) {
	if output == nil {
		output = NopOutput{}
	}

	obstacles := make([]world.Obstacle, len(cfg.Grid.Obstacles))
	for i, obs := range cfg.Grid.Obstacles {
		obstacles[i] = world.Obstacle{Left: obs[0], Right: obs[1], Top: obs[2], Bottom: obs[3]}
	}
	grid := world.NewGrid(cfg.Grid.Width, cfg.Grid.Height, obstacles)

	criterion, err := criterionFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Simulation{
		cfg:       cfg,
		rng:       rng,
		grid:      grid,
		criterion: criterion,
		output:    output,
	}, nil
}

// Grid returns the simulation's grid.
func (s *Simulation) Grid() *world.Grid { return s.grid }

// Criterion returns the survival predicate.
func (s *Simulation) Criterion() world.Criterion { return s.criterion }

// Organisms returns the active generation.
func (s *Simulation) Organisms() []*Organism { return s.organisms }

func criterionFromConfig(cfg *config.Config) (world.Criterion, error) {
	w, h := cfg.Grid.Width, cfg.Grid.Height
	switch cfg.Survival.Kind {
	case "corner":
		return world.NewCornerSurvival(cfg.Survival.Distance, w, h), nil
	case "side":
		var side world.Side
		switch cfg.Survival.Side {
		case "left":
			side = world.SideLeft
		case "right":
			side = world.SideRight
		case "top":
			side = world.SideTop
		case "bottom":
			side = world.SideBottom
		default:
			return nil, fmt.Errorf("sim: unknown survival side %q", cfg.Survival.Side)
		}
		return world.NewSideSurvival(side, cfg.Survival.Distance, w, h), nil
	}
	return nil, fmt.Errorf("sim: unknown survival kind %q", cfg.Survival.Kind)
}

// Run executes the configured number of generations.
func (s *Simulation) Run() error {
	var survivors []*Organism

	for gen := 0; gen < s.cfg.Run.Generations; gen++ {
		organisms, err := s.createGeneration(survivors)
		if err != nil {
			return fmt.Errorf("creating generation %d: %w", gen, err)
		}
		s.organisms = organisms

		occupants := make([]world.Occupant, len(organisms))
		for i, org := range organisms {
			occupants[i] = org
		}
		s.grid.InitGeneration(s.rng, occupants)

		s.output.GenerationStarted(organisms, gen)

		for step := 0; step < s.cfg.Run.Steps; step++ {
			for _, org := range organisms {
				org.PerformStep()
			}
			s.output.StepComplete()
		}

		survivors = s.determineSurvivors()
		s.output.GenerationComplete(len(survivors))
	}

	s.output.SimulationComplete()
	return nil
}

// createGeneration breeds the next population from the previous survivors.
// The first generation, and any generation following a total wipeout, is
// seeded with random genomes instead.
func (s *Simulation) createGeneration(survivors []*Organism) ([]*Organism, error) {
	if len(survivors) == 0 {
		return NewRandomGeneration(s.rng, s.grid, s.cfg), nil
	}
	return NextGeneration(s.rng, survivors, s.grid, s.cfg)
}

func (s *Simulation) determineSurvivors() []*Organism {
	var survivors []*Organism
	for _, org := range s.organisms {
		if s.criterion.Survives(org.loc) {
			survivors = append(survivors, org)
		}
	}
	return survivors
}
