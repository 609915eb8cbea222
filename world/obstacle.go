package world

// Obstacle is an axis-aligned rectangle of blocked cells, inclusive on all
// four sides.
type Obstacle struct {
	Left, Right, Top, Bottom int
}

// BlockedCells enumerates every grid cell the obstacle covers.
func (o Obstacle) BlockedCells() []Coord {
	cells := make([]Coord, 0, (o.Right-o.Left+1)*(o.Bottom-o.Top+1))
	for x := o.Left; x <= o.Right; x++ {
		for y := o.Top; y <= o.Bottom; y++ {
			cells = append(cells, Coord{x, y})
		}
	}
	return cells
}

// Blocked reports whether loc falls inside the obstacle.
func (o Obstacle) Blocked(loc Coord) bool {
	return loc.X >= o.Left && loc.X <= o.Right && loc.Y >= o.Top && loc.Y <= o.Bottom
}

// Draw paints the obstacle through the renderer-supplied painter.
func (o Obstacle) Draw(p RegionPainter) {
	p.FillRect(o.Left, o.Top, o.Right, o.Bottom)
}
