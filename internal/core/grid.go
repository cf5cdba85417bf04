package core

// Cell values of a walkability grid.
const (
	CellFloor = 0
	CellWall  = 1
)

// Grid is a walkability grid indexed as Grid[y][x]. It is produced by an
// external generator and treated as read-only by the simulation.
type Grid [][]int

// NewGrid creates a w x h grid filled with the given cell value.
func NewGrid(w, h, fill int) Grid {
	g := make(Grid, h)
	for y := range g {
		row := make([]int, w)
		if fill != 0 {
			for x := range row {
				row[x] = fill
			}
		}
		g[y] = row
	}
	return g
}

// Width returns the number of columns (0 for an empty grid).
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// Empty reports whether the grid has no cells.
func (g Grid) Empty() bool {
	return len(g) == 0 || len(g[0]) == 0
}

// InBounds reports whether (x, y) lies inside the grid.
func (g Grid) InBounds(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[y])
}

// Walkable reports whether (x, y) is inside the grid and a floor cell.
func (g Grid) Walkable(x, y int) bool {
	return g.InBounds(x, y) && g[y][x] == CellFloor
}

// Set writes a cell value, ignoring out-of-bounds coordinates.
func (g Grid) Set(x, y, v int) {
	if g.InBounds(x, y) {
		g[y][x] = v
	}
}

// Clone returns a deep copy; mutating the copy never affects g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]int(nil), row...)
	}
	return out
}

// FloorCells returns every walkable cell in row-major order.
func (g Grid) FloorCells() []Point {
	var cells []Point
	for y, row := range g {
		for x, v := range row {
			if v == CellFloor {
				cells = append(cells, Point{X: x, Y: y})
			}
		}
	}
	return cells
}
