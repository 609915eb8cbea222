// Package sim owns the agents and the generation loop: organisms that
// sense, act and move on the grid, the mating strategies that breed them,
// and the simulation orchestrator.
package sim

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/evosim/config"
	"github.com/pthm-cable/evosim/genome"
	"github.com/pthm-cable/evosim/neural"
	"github.com/pthm-cable/evosim/world"
)

// Organism is one agent: a compiled brain, a grid location, the direction
// of its last committed move, and its age in steps. The similarity
// fingerprint is population-relative and rebuilt every generation.
type Organism struct {
	brain       *neural.Brain
	genes       genome.Genome
	loc         world.Coord
	lastMove    neural.ActionType
	age         int
	fingerprint *genome.Fingerprint

	grid *world.Grid
	cfg  *config.Config
	rng  *rand.Rand
}

// NewOrganism compiles a genome into an organism bound to a grid.
func NewOrganism(grid *world.Grid, cfg *config.Config, rng *rand.Rand, genes genome.Genome) *Organism {
	return &Organism{
		brain:       neural.NewBrain(genes, cfg.Brain.InnerNodes),
		genes:       genes,
		lastMove:    neural.ActionMoveNegX,
		fingerprint: &genome.Fingerprint{},
		grid:        grid,
		cfg:         cfg,
		rng:         rng,
	}
}

// NewRandomOrganism creates an organism with a uniformly random genome.
func NewRandomOrganism(grid *world.Grid, cfg *config.Config, rng *rand.Rand) *Organism {
	return NewOrganism(grid, cfg, rng, genome.Random(rng, cfg.Genome.Genes))
}

// OrganismFromParents breeds a child organism by recombining the parents'
// genomes. The parents must carry genomes of equal length.
func OrganismFromParents(grid *world.Grid, cfg *config.Config, rng *rand.Rand, a, b *Organism) (*Organism, error) {
	genes, err := genome.FromParents(rng, a.genes, b.genes, cfg.Genome.MutateChance)
	if err != nil {
		return nil, err
	}
	return NewOrganism(grid, cfg, rng, genes), nil
}

// Loc returns the organism's current cell, mirroring the grid occupancy.
func (o *Organism) Loc() world.Coord { return o.loc }

// SetLoc is called by the grid's move API; nothing else writes the location.
func (o *Organism) SetLoc(loc world.Coord) { o.loc = loc }

// Genome returns the organism's genes.
func (o *Organism) Genome() genome.Genome { return o.genes }

// Brain returns the compiled network.
func (o *Organism) Brain() *neural.Brain { return o.brain }

// Age returns the number of steps the organism has lived.
func (o *Organism) Age() int { return o.age }

// LastMove returns the cardinal action of the last committed move.
func (o *Organism) LastMove() neural.ActionType { return o.lastMove }

// Fingerprint returns the generation similarity fingerprint.
func (o *Organism) Fingerprint() *genome.Fingerprint { return o.fingerprint }

func (o *Organism) resetFingerprint() {
	o.fingerprint = &genome.Fingerprint{}
}

// PerformStep runs one full cycle: age, reset the brain, populate the live
// sense nodes, evaluate into actions and execute the resulting move.
func (o *Organism) PerformStep() {
	o.age++
	o.brain.Reset()

	var senses [neural.SenseCount]float64
	for _, node := range o.brain.SenseNodes() {
		senses[node.ID] = o.senseValue(neural.SenseType(node.ID))
	}

	actions := o.brain.Evaluate(senses[:], o.rng)
	o.executeActions(actions)
}

// facing returns the grid direction of the last move.
func (o *Organism) facing() world.Direction {
	return directionFor(o.lastMove)
}

func directionFor(a neural.ActionType) world.Direction {
	switch a {
	case neural.ActionMovePosX:
		return world.DirPosX
	case neural.ActionMoveNegX:
		return world.DirNegX
	case neural.ActionMovePosY:
		return world.DirPosY
	default:
		return world.DirNegY
	}
}

func actionFor(d world.Direction) neural.ActionType {
	switch d {
	case world.DirPosX:
		return neural.ActionMovePosX
	case world.DirNegX:
		return neural.ActionMoveNegX
	case world.DirPosY:
		return neural.ActionMovePosY
	default:
		return neural.ActionMoveNegY
	}
}

// senseValue computes one sensor reading, normalized so typical values lie
// in [0, 1]. Edge senses measure toward grid edges, boundary senses probe
// obstacle cells, organism senses probe occupied cells.
func (o *Organism) senseValue(sense neural.SenseType) float64 {
	w := float64(o.grid.Width())
	h := float64(o.grid.Height())
	x := float64(o.loc.X)
	y := float64(o.loc.Y)
	probe := o.cfg.Senses.Distance

	switch sense {
	case neural.SenseXLoc:
		return x / w

	case neural.SenseYLoc:
		return y / h

	case neural.SenseDistanceFromNearestEdge:
		nearestX := math.Min(x, w-x) / (w / 2)
		nearestY := math.Min(y, h-y) / (h / 2)
		return math.Min(nearestX, nearestY)

	case neural.SenseDistanceFromNearestXEdge:
		return math.Min(x, w-x) / (w / 2)

	case neural.SenseDistanceFromNearestYEdge:
		return math.Min(y, h-y) / (h / 2)

	case neural.SenseDistanceFromForwardEdge:
		switch o.lastMove {
		case neural.ActionMoveNegX:
			return x / w
		case neural.ActionMovePosX:
			return (w - x) / w
		case neural.ActionMoveNegY:
			return y / h
		default:
			return (h - y) / h
		}

	case neural.SenseDistanceFromLREdge:
		if o.lastMove == neural.ActionMoveNegX || o.lastMove == neural.ActionMovePosX {
			return math.Min(y, h-y) / (h / 2)
		}
		return math.Min(x, w-x) / (w / 2)

	case neural.SenseDistanceFromForwardBoundary:
		return o.grid.BoundaryDistance(o.loc, probe, o.facing())

	case neural.SenseDistanceFromLRBoundary:
		return math.Min(
			o.grid.BoundaryDistance(o.loc, probe, o.facing().Left()),
			o.grid.BoundaryDistance(o.loc, probe, o.facing().Right()),
		)

	case neural.SenseDistanceFromNearestXBoundary:
		return math.Min(
			o.grid.BoundaryDistance(o.loc, probe, world.DirNegX),
			o.grid.BoundaryDistance(o.loc, probe, world.DirPosX),
		)

	case neural.SenseDistanceFromNearestYBoundary:
		return math.Min(
			o.grid.BoundaryDistance(o.loc, probe, world.DirNegY),
			o.grid.BoundaryDistance(o.loc, probe, world.DirPosY),
		)

	case neural.SensePopulationClose:
		return o.grid.DensityWithinDistance(o.loc, probe)

	case neural.SensePopulationForward:
		return o.grid.DensityInDirectedCone(o.loc, probe, o.facing())

	case neural.SenseDistanceFromForwardOrganism:
		return o.grid.OccupiedDistance(o.loc, probe, o.facing())

	case neural.SenseDistanceFromLROrganism:
		return math.Min(
			o.grid.OccupiedDistance(o.loc, probe, o.facing().Left()),
			o.grid.OccupiedDistance(o.loc, probe, o.facing().Right()),
		)

	case neural.SenseAge:
		return float64(o.age) / float64(o.cfg.Run.Steps)
	}
	return 0
}

// executeActions keeps only the movement actions and executes them as one
// combined move.
func (o *Organism) executeActions(actions []neural.Action) {
	moves := actions[:0:0]
	for _, action := range actions {
		if isMoveAction(action.ID) {
			moves = append(moves, action)
		}
	}
	if len(moves) > 0 {
		o.executeMoveActions(moves)
	}
}

// executeMoveActions expands compound directions into cardinals using the
// last move, sums their unit vectors into one displacement and commits the
// move if the target cell is free. Opposed actions cancel, so organisms
// under selection pressure must learn coherent rather than maximal output.
func (o *Organism) executeMoveActions(actions []neural.Action) {
	cardinals := make([]neural.ActionType, 0, len(actions))
	for _, action := range actions {
		switch action.ID {
		case neural.ActionMoveRandom:
			dir := world.Direction(o.rng.Intn(4))
			cardinals = append(cardinals, actionFor(dir))
		case neural.ActionMoveForward:
			cardinals = append(cardinals, o.lastMove)
		case neural.ActionMoveLeft:
			cardinals = append(cardinals, actionFor(o.facing().Left()))
		case neural.ActionMoveRight:
			cardinals = append(cardinals, actionFor(o.facing().Right()))
		default:
			cardinals = append(cardinals, action.ID)
		}
	}

	var displacement world.Coord
	for _, cardinal := range cardinals {
		displacement = displacement.Add(directionFor(cardinal).Delta())
	}

	target := o.loc.Add(displacement)
	if !o.grid.LocIsAvailable(target) {
		return
	}
	o.grid.UpdateLoc(o, target)
	o.lastMove = cardinals[len(cardinals)-1]
}

func isMoveAction(a neural.ActionType) bool {
	switch a {
	case neural.ActionMovePosX, neural.ActionMoveNegX,
		neural.ActionMovePosY, neural.ActionMoveNegY,
		neural.ActionMoveForward, neural.ActionMoveLeft,
		neural.ActionMoveRight, neural.ActionMoveRandom:
		return true
	}
	return false
}
