package world

import (
	"fmt"
	"math/rand"
)

// densityNormalizer is the fixed divisor the population senses use. It is a
// heuristic carried over from the reference behavior, not a true density.
const densityNormalizer = 100

// Occupant is anything that can hold a cell on the grid. The grid's
// occupancy map is the source of truth for positions; an occupant's own
// location mirrors it and is only written through the grid's move API.
type Occupant interface {
	Loc() Coord
	SetLoc(Coord)
}

// Grid is the fixed-size world: obstacle geometry, the derived blocked set,
// and the occupancy map for the active generation.
type Grid struct {
	width  int
	height int

	obstacles []Obstacle

	// blocked maps every cell covered by any obstacle. Building it eagerly is
	// relatively expensive, but availability checks run on the order of
	// organisms * steps * generations, so a constant-time lookup there wins.
	blocked map[Coord]struct{}

	occupants []Occupant
	occupancy map[Coord]Occupant
}

// NewGrid creates a grid with the given dimensions and obstacle rectangles.
func NewGrid(width, height int, obstacles []Obstacle) *Grid {
	g := &Grid{
		width:     width,
		height:    height,
		obstacles: obstacles,
		blocked:   make(map[Coord]struct{}),
		occupancy: make(map[Coord]Occupant),
	}
	for _, obs := range obstacles {
		for _, loc := range obs.BlockedCells() {
			g.blocked[loc] = struct{}{}
		}
	}
	return g
}

// Width returns the horizontal cell count.
func (g *Grid) Width() int { return g.width }

// Height returns the vertical cell count.
func (g *Grid) Height() int { return g.height }

// Obstacles returns the configured obstacle rectangles.
func (g *Grid) Obstacles() []Obstacle { return g.obstacles }

// Occupants returns the active occupant list in placement order.
func (g *Grid) Occupants() []Occupant { return g.occupants }

// OccupantCount returns the number of occupied cells.
func (g *Grid) OccupantCount() int { return len(g.occupancy) }

// InitGeneration clears the previous generation's occupancy and places each
// occupant on a uniformly random free cell. Placement rejection-samples until
// it finds a cell that is neither blocked nor taken; with a population well
// below grid capacity repeats are rare.
func (g *Grid) InitGeneration(rng *rand.Rand, occupants []Occupant) {
	g.occupants = occupants
	g.occupancy = make(map[Coord]Occupant, len(occupants))

	for _, occ := range occupants {
		loc := Coord{rng.Intn(g.width), rng.Intn(g.height)}
		for {
			_, taken := g.occupancy[loc]
			_, obstructed := g.blocked[loc]
			if !taken && !obstructed {
				break
			}
			loc = Coord{rng.Intn(g.width), rng.Intn(g.height)}
		}
		occ.SetLoc(loc)
		g.occupancy[loc] = occ
	}
}

// Place puts an occupant on a specific cell. It fails if the cell is out of
// bounds, blocked or taken.
func (g *Grid) Place(occ Occupant, loc Coord) error {
	if !g.LocIsAvailable(loc) {
		return fmt.Errorf("grid: cell (%d,%d) is not available", loc.X, loc.Y)
	}
	occ.SetLoc(loc)
	g.occupancy[loc] = occ
	g.occupants = append(g.occupants, occ)
	return nil
}

// LocIsAvailable reports whether loc is in bounds, unblocked and unoccupied.
func (g *Grid) LocIsAvailable(loc Coord) bool {
	if loc.X < 0 || loc.X >= g.width || loc.Y < 0 || loc.Y >= g.height {
		return false
	}
	if _, obstructed := g.blocked[loc]; obstructed {
		return false
	}
	_, taken := g.occupancy[loc]
	return !taken
}

// UpdateLoc moves an occupant to loc. The caller must have verified the
// target with LocIsAvailable; the old cell is freed and the new one taken
// atomically with respect to the occupant's own location.
func (g *Grid) UpdateLoc(occ Occupant, loc Coord) {
	delete(g.occupancy, occ.Loc())
	occ.SetLoc(loc)
	g.occupancy[loc] = occ
}

// DensityWithinDistance returns the number of occupants within Manhattan
// distance d of loc, divided by the fixed normalizer.
func (g *Grid) DensityWithinDistance(loc Coord, d int) float64 {
	count := 0
	for _, occ := range g.occupants {
		if loc.ManhattanDistance(occ.Loc()) <= d {
			count++
		}
	}
	return float64(count) / densityNormalizer
}

// DensityInDirectedCone returns the normalized count of occupants near a
// point d cells ahead of loc in dir, restricted to the near half-plane. The
// intersection of the Manhattan ball around the ahead point with that
// half-plane forms a cone opening back toward loc.
func (g *Grid) DensityInDirectedCone(loc Coord, d int, dir Direction) float64 {
	delta := dir.Delta()
	ahead := Coord{loc.X + delta.X*d, loc.Y + delta.Y*d}

	count := 0
	for _, occ := range g.occupants {
		rel := occ.Loc().Sub(ahead)
		if rel.X*delta.X+rel.Y*delta.Y > 0 {
			continue
		}
		if ahead.ManhattanDistance(occ.Loc()) <= d {
			count++
		}
	}
	return float64(count) / densityNormalizer
}

// BoundaryDistance walks up to max cells from loc in dir and returns i/max
// at the first obstacle cell, or 1.0 if the walk stays clear. Grid edges do
// not count as boundaries here; the edge senses cover them.
func (g *Grid) BoundaryDistance(loc Coord, max int, dir Direction) float64 {
	return g.probe(loc, max, dir, func(c Coord) bool {
		_, obstructed := g.blocked[c]
		return obstructed
	})
}

// OccupiedDistance walks up to max cells from loc in dir and returns i/max
// at the first occupied cell, or 1.0 if none is met.
func (g *Grid) OccupiedDistance(loc Coord, max int, dir Direction) float64 {
	return g.probe(loc, max, dir, func(c Coord) bool {
		_, taken := g.occupancy[c]
		return taken
	})
}

func (g *Grid) probe(loc Coord, max int, dir Direction, hit func(Coord) bool) float64 {
	delta := dir.Delta()
	cell := loc
	for i := 0; i < max; i++ {
		cell = cell.Add(delta)
		if hit(cell) {
			return float64(i) / float64(max)
		}
	}
	return 1.0
}
