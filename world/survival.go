package world

// RegionPainter is the contract an external renderer satisfies to visualize
// survival regions and obstacles. Coordinates are grid cells, inclusive; any
// scaling is the renderer's business.
type RegionPainter interface {
	FillRect(left, top, right, bottom int)
}

// Criterion is a spatial survival predicate evaluated at generation end.
type Criterion interface {
	Survives(loc Coord) bool
	Draw(p RegionPainter)
}

// Side identifies one grid edge for SideSurvival.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// SideSurvival selects organisms within Distance cells of one grid edge.
type SideSurvival struct {
	Side     Side
	Distance int

	Width, Height int
}

// NewSideSurvival creates a side-band criterion for a grid of the given size.
func NewSideSurvival(side Side, distance, width, height int) *SideSurvival {
	return &SideSurvival{Side: side, Distance: distance, Width: width, Height: height}
}

// Survives reports whether loc falls inside the band.
func (s *SideSurvival) Survives(loc Coord) bool {
	switch s.Side {
	case SideLeft:
		return loc.X <= s.Distance
	case SideRight:
		return loc.X >= s.Width-s.Distance
	case SideTop:
		return loc.Y <= s.Distance
	default:
		return loc.Y >= s.Height-s.Distance
	}
}

// Draw paints the band.
func (s *SideSurvival) Draw(p RegionPainter) {
	switch s.Side {
	case SideLeft:
		p.FillRect(0, 0, s.Distance, s.Height-1)
	case SideRight:
		p.FillRect(s.Width-s.Distance, 0, s.Width-1, s.Height-1)
	case SideTop:
		p.FillRect(0, 0, s.Width-1, s.Distance)
	default:
		p.FillRect(0, s.Height-s.Distance, s.Width-1, s.Height-1)
	}
}

// CornerSurvival selects organisms strictly within Distance (Manhattan) of
// any of the four grid corners.
type CornerSurvival struct {
	Distance int

	Width, Height int
}

// NewCornerSurvival creates a corner criterion for a grid of the given size.
func NewCornerSurvival(distance, width, height int) *CornerSurvival {
	return &CornerSurvival{Distance: distance, Width: width, Height: height}
}

// Survives reports whether loc is close enough to a corner.
func (c *CornerSurvival) Survives(loc Coord) bool {
	corners := [4]Coord{
		{0, 0},
		{c.Width - 1, 0},
		{0, c.Height - 1},
		{c.Width - 1, c.Height - 1},
	}
	for _, corner := range corners {
		if loc.ManhattanDistance(corner) < c.Distance {
			return true
		}
	}
	return false
}

// Draw paints the four corner triangles as their bounding squares.
func (c *CornerSurvival) Draw(p RegionPainter) {
	d := c.Distance
	p.FillRect(0, 0, d-1, d-1)
	p.FillRect(c.Width-d, 0, c.Width-1, d-1)
	p.FillRect(0, c.Height-d, d-1, c.Height-1)
	p.FillRect(c.Width-d, c.Height-d, c.Width-1, c.Height-1)
}
