package world

import "testing"

func TestCoordArithmetic(t *testing.T) {
	a := Coord{3, -2}
	b := Coord{-1, 5}

	if got := a.Add(b); got != (Coord{2, 3}) {
		t.Errorf("Add = %v, want {2 3}", got)
	}
	if got := a.Sub(b); got != (Coord{4, -7}) {
		t.Errorf("Sub = %v, want {4 -7}", got)
	}

	// Arithmetic must not mutate the operands.
	if a != (Coord{3, -2}) || b != (Coord{-1, 5}) {
		t.Error("arithmetic mutated an operand")
	}
}

func TestCoordWeightedDifference(t *testing.T) {
	tests := []struct {
		a, b Coord
		want int
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{3, 4}, 25},
		{Coord{-2, 1}, Coord{1, -3}, 25},
		{Coord{5, 5}, Coord{5, 7}, 4},
	}

	for _, tt := range tests {
		if got := tt.a.WeightedDifference(tt.b); got != tt.want {
			t.Errorf("WeightedDifference(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := tt.b.WeightedDifference(tt.a); got != tt.want {
			t.Errorf("WeightedDifference not symmetric for %v, %v", tt.a, tt.b)
		}
	}
}

func TestCoordManhattanDistance(t *testing.T) {
	if got := (Coord{1, 2}).ManhattanDistance(Coord{4, -2}); got != 7 {
		t.Errorf("ManhattanDistance = %d, want 7", got)
	}
}

func TestDirectionRotations(t *testing.T) {
	tests := []struct {
		dir         Direction
		left, right Direction
	}{
		{DirNegX, DirNegY, DirPosY},
		{DirPosX, DirPosY, DirNegY},
		{DirNegY, DirNegX, DirPosX},
		{DirPosY, DirPosX, DirNegX},
	}

	for _, tt := range tests {
		if got := tt.dir.Left(); got != tt.left {
			t.Errorf("%v.Left() = %v, want %v", tt.dir, got, tt.left)
		}
		if got := tt.dir.Right(); got != tt.right {
			t.Errorf("%v.Right() = %v, want %v", tt.dir, got, tt.right)
		}
	}
}

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		dir  Direction
		want Coord
	}{
		{DirNegX, Coord{-1, 0}},
		{DirPosX, Coord{1, 0}},
		{DirNegY, Coord{0, -1}},
		{DirPosY, Coord{0, 1}},
	}

	for _, tt := range tests {
		if got := tt.dir.Delta(); got != tt.want {
			t.Errorf("%v.Delta() = %v, want %v", tt.dir, got, tt.want)
		}
	}
}
