package core

import "testing"

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		expected Point
	}{
		{name: "up", dir: DirUp, expected: P(0, -1)},
		{name: "down", dir: DirDown, expected: P(0, 1)},
		{name: "left", dir: DirLeft, expected: P(-1, 0)},
		{name: "right", dir: DirRight, expected: P(1, 0)},
		{name: "none", dir: DirNone, expected: P(0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.dir.Delta(); got != tc.expected {
				t.Errorf("Delta() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestDirectionPerpendicular(t *testing.T) {
	a, b := DirRight.Perpendicular()
	if a != DirUp || b != DirDown {
		t.Errorf("Right.Perpendicular() = %v,%v, expected up,down", a, b)
	}
	a, b = DirUp.Perpendicular()
	if a != DirLeft || b != DirRight {
		t.Errorf("Up.Perpendicular() = %v,%v, expected left,right", a, b)
	}
}

func TestVecCell(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec
		expected Point
	}{
		{name: "cell center", v: Vec{X: 3.5, Y: 2.5}, expected: P(3, 2)},
		{name: "cell corner", v: Vec{X: 3.0, Y: 2.0}, expected: P(3, 2)},
		{name: "negative", v: Vec{X: -0.5, Y: 1.2}, expected: P(-1, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.Cell(); got != tc.expected {
				t.Errorf("Cell() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestVecDistSq(t *testing.T) {
	a := Vec{X: 1, Y: 1}
	b := Vec{X: 4, Y: 5}
	if got := a.DistSq(b); got != 25 {
		t.Errorf("DistSq() = %v, expected 25", got)
	}
	if got := P(2, 3).Center(); got != (Vec{X: 2.5, Y: 3.5}) {
		t.Errorf("Center() = %v, expected (2.5,3.5)", got)
	}
}

func TestGridWalkable(t *testing.T) {
	g := NewGrid(4, 3, CellFloor)
	g.Set(1, 1, CellWall)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{name: "floor", x: 0, y: 0, expected: true},
		{name: "wall", x: 1, y: 1, expected: false},
		{name: "left of grid", x: -1, y: 0, expected: false},
		{name: "below grid", x: 0, y: 3, expected: false},
		{name: "right of grid", x: 4, y: 0, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Walkable(tc.x, tc.y); got != tc.expected {
				t.Errorf("Walkable(%d,%d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestGridCloneIsDeep(t *testing.T) {
	g := NewGrid(3, 3, CellFloor)
	clone := g.Clone()
	g.Set(2, 2, CellWall)

	if clone[2][2] != CellFloor {
		t.Error("mutating the original changed the clone")
	}
	if clone.Width() != 3 || clone.Height() != 3 {
		t.Errorf("clone size = %dx%d, expected 3x3", clone.Width(), clone.Height())
	}
	if Grid(nil).Clone() != nil {
		t.Error("clone of nil grid should be nil")
	}
}

func TestGridFloorCells(t *testing.T) {
	g := NewGrid(2, 2, CellWall)
	g.Set(1, 0, CellFloor)
	g.Set(0, 1, CellFloor)

	cells := g.FloorCells()
	if len(cells) != 2 {
		t.Fatalf("expected 2 floor cells, got %d", len(cells))
	}
	if cells[0] != P(1, 0) || cells[1] != P(0, 1) {
		t.Errorf("unexpected floor cells %v", cells)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("Clamp returned unexpected values")
	}
	if ClampF(1.5, 0, 1) != 1 || ClampF(-0.5, 0, 1) != 0 {
		t.Error("ClampF returned unexpected values")
	}
}
