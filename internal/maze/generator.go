// Package maze produces the walkability grids consumed by the world.
package maze

import (
	"math/rand"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
)

// Generator defaults.
const (
	DefaultBraiding = 0.15
	DefaultRooms    = 2
	maxRooms        = 6
	minSize         = 5
	roomSize        = 3
)

// Params configures a single Generate call.
type Params struct {
	Width, Height int

	// Braiding is the chance that a dead end is opened into a loop.
	Braiding float64
	// Rooms is the number of 3x3 open areas carved after the tree.
	Rooms int
	Seed  int64
}

// Generate builds a maze with a recursive backtracker, then braids dead ends
// and carves rooms. Sizes are rounded down to odd numbers. Every floor cell
// is reachable from (1, 1), and the outer ring is always wall.
func Generate(p Params) core.Grid {
	w := ensureOdd(max(p.Width, minSize))
	h := ensureOdd(max(p.Height, minSize))
	g := core.NewGrid(w, h, core.CellWall)
	rng := rand.New(rand.NewSource(p.Seed))

	backtrack(g, rng)
	if p.Braiding > 0 {
		braid(g, p.Braiding, rng)
	}
	for i := 0; i < p.Rooms; i++ {
		carveRoom(g, rng)
	}
	return g
}

var jumps = [4]core.Point{{X: 0, Y: -2}, {X: 0, Y: 2}, {X: -2, Y: 0}, {X: 2, Y: 0}}

func backtrack(g core.Grid, rng *rand.Rand) {
	w, h := g.Width(), g.Height()
	start := core.P(1, 1)
	g.Set(start.X, start.Y, core.CellFloor)
	stack := []core.Point{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		candidates := make([]core.Point, 0, 4)
		for _, d := range jumps {
			n := cur.Add(d)
			if n.X > 0 && n.X < w-1 && n.Y > 0 && n.Y < h-1 && g[n.Y][n.X] == core.CellWall {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := candidates[rng.Intn(len(candidates))]
		g.Set(cur.X+d.X/2, cur.Y+d.Y/2, core.CellFloor)
		next := cur.Add(d)
		g.Set(next.X, next.Y, core.CellFloor)
		stack = append(stack, next)
	}
}

// braid knocks one wall out of some dead ends, turning the tree into a graph.
func braid(g core.Grid, chance float64, rng *rand.Rand) {
	w, h := g.Width(), g.Height()
	for y := 1; y < h-1; y += 2 {
		for x := 1; x < w-1; x += 2 {
			if g[y][x] != core.CellFloor || exits(g, x, y) != 1 || rng.Float64() >= chance {
				continue
			}
			var walls []core.Point
			for _, d := range jumps {
				nx, ny := x+d.X, y+d.Y
				wx, wy := x+d.X/2, y+d.Y/2
				if nx > 0 && nx < w-1 && ny > 0 && ny < h-1 && g[wy][wx] == core.CellWall {
					walls = append(walls, core.P(wx, wy))
				}
			}
			if len(walls) > 0 {
				c := walls[rng.Intn(len(walls))]
				g.Set(c.X, c.Y, core.CellFloor)
			}
		}
	}
}

func exits(g core.Grid, x, y int) int {
	n := 0
	for _, d := range core.Directions {
		p := d.Delta()
		if g.Walkable(x+p.X, y+p.Y) {
			n++
		}
	}
	return n
}

// carveRoom opens a 3x3 block anchored on a node cell. The block always
// contains tree nodes, so connectivity is preserved.
func carveRoom(g core.Grid, rng *rand.Rand) {
	w, h := g.Width(), g.Height()
	nx, ny := (w-roomSize)/2, (h-roomSize)/2
	if nx <= 0 || ny <= 0 {
		return
	}
	x0 := 1 + 2*rng.Intn(nx)
	y0 := 1 + 2*rng.Intn(ny)
	for y := y0; y < y0+roomSize; y++ {
		for x := x0; x < x0+roomSize; x++ {
			g.Set(x, y, core.CellFloor)
		}
	}
}

func ensureOdd(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// Generator produces one deterministic grid per level and difficulty.
type Generator struct {
	Seed     int64
	Braiding float64
	Rooms    int
}

// NewGenerator returns a generator with the default shape parameters.
func NewGenerator(seed int64) *Generator {
	return &Generator{Seed: seed, Braiding: DefaultBraiding, Rooms: DefaultRooms}
}

// Params returns the generation parameters for a level. Deeper levels get
// more rooms.
func (g *Generator) Params(level int, diff *config.DifficultyConfig) Params {
	return Params{
		Width:    diff.MazeWidth,
		Height:   diff.MazeHeight,
		Braiding: g.Braiding,
		Rooms:    min(maxRooms, g.Rooms+(level-1)/2),
		Seed:     g.Seed*1_000_003 + int64(level),
	}
}

// Grid implements world.LevelSource.
func (g *Generator) Grid(level int, diff *config.DifficultyConfig) core.Grid {
	if diff == nil {
		return nil
	}
	return Generate(g.Params(level, diff))
}
