package maze

import (
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
)

func reachable(g core.Grid, from core.Point) map[core.Point]bool {
	seen := map[core.Point]bool{from: true}
	queue := []core.Point{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range core.Directions {
			n := cur.Add(d.Delta())
			if !seen[n] && g.Walkable(n.X, n.Y) {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

func hasOpenSquare(g core.Grid) bool {
	for y := 0; y < g.Height()-1; y++ {
		for x := 0; x < g.Width()-1; x++ {
			if g.Walkable(x, y) && g.Walkable(x+1, y) && g.Walkable(x, y+1) && g.Walkable(x+1, y+1) {
				return true
			}
		}
	}
	return false
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		wantW  int
		wantH  int
	}{
		{"odd size", Params{Width: 21, Height: 15, Seed: 1}, 21, 15},
		{"even size rounds down", Params{Width: 20, Height: 14, Seed: 2}, 19, 13},
		{"tiny size is raised", Params{Width: 2, Height: 1, Seed: 3}, 5, 5},
		{"braided with rooms", Params{Width: 27, Height: 19, Braiding: 0.5, Rooms: 3, Seed: 4}, 27, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Generate(tt.params)
			if g.Width() != tt.wantW || g.Height() != tt.wantH {
				t.Fatalf("size = %dx%d, expected %dx%d", g.Width(), g.Height(), tt.wantW, tt.wantH)
			}

			for x := 0; x < g.Width(); x++ {
				if g.Walkable(x, 0) || g.Walkable(x, g.Height()-1) {
					t.Fatalf("border cell in column %d is open", x)
				}
			}
			for y := 0; y < g.Height(); y++ {
				if g.Walkable(0, y) || g.Walkable(g.Width()-1, y) {
					t.Fatalf("border cell in row %d is open", y)
				}
			}

			seen := reachable(g, core.P(1, 1))
			for _, c := range g.FloorCells() {
				if !seen[c] {
					t.Errorf("floor cell %v is unreachable", c)
				}
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	p := Params{Width: 21, Height: 15, Braiding: 0.3, Rooms: 2, Seed: 99}
	if !reflect.DeepEqual(Generate(p), Generate(p)) {
		t.Error("same params produced different grids")
	}
	q := p
	q.Seed = 100
	if reflect.DeepEqual(Generate(p), Generate(q)) {
		t.Error("different seeds produced the same grid")
	}
}

func TestRoomsOpenSquares(t *testing.T) {
	g := Generate(Params{Width: 21, Height: 15, Rooms: 1, Seed: 7})
	if !hasOpenSquare(g) {
		t.Error("a carved room should leave a 2x2 open area")
	}
}

func TestGeneratorScalesRooms(t *testing.T) {
	gen := NewGenerator(5)
	diff := &config.DifficultyConfig{ID: "normal", MazeWidth: 27, MazeHeight: 19}

	if got := gen.Params(1, diff).Rooms; got != DefaultRooms {
		t.Errorf("level 1 rooms = %d, expected %d", got, DefaultRooms)
	}
	if got := gen.Params(100, diff).Rooms; got != maxRooms {
		t.Errorf("level 100 rooms = %d, expected cap %d", got, maxRooms)
	}
	if gen.Params(1, diff).Seed == gen.Params(2, diff).Seed {
		t.Error("levels share a seed")
	}
	if gen.Grid(1, nil) != nil {
		t.Error("Grid() with nil difficulty should return nil")
	}
}

func TestCacheServesGeneratorGrids(t *testing.T) {
	gen := NewGenerator(11)
	diff := &config.DifficultyConfig{ID: "easy", MazeWidth: 21, MazeHeight: 15}
	c := NewCache(gen, DefaultLookahead, nil)

	got := c.Grid(1, diff)
	if !reflect.DeepEqual(got, gen.Grid(1, diff)) {
		t.Fatal("cache grid differs from the generator")
	}

	got.Set(1, 1, core.CellWall)
	if !c.Grid(1, diff).Walkable(1, 1) {
		t.Error("caller mutation leaked into the cache")
	}
}

func TestCacheOnlyExposesCompletedPhases(t *testing.T) {
	gen := NewGenerator(12)
	diff := &config.DifficultyConfig{ID: "easy", MazeWidth: 21, MazeHeight: 15}
	c := NewCache(gen, 2, nil)

	c.Grid(1, diff)
	if c.Ready(2, diff.ID) {
		t.Fatal("level 2 ready before the worker started")
	}

	c.Start()
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for !(c.Ready(2, diff.ID) && c.Ready(3, diff.ID)) {
		if time.Now().After(deadline) {
			t.Fatal("prefetch did not complete in time")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !reflect.DeepEqual(c.Grid(2, diff), gen.Grid(2, diff)) {
		t.Error("prefetched grid differs from the generator")
	}
	if c.Ready(1, diff.ID) {
		t.Error("earlier levels should be evicted")
	}
}

func TestCacheStopIsIdempotent(t *testing.T) {
	c := NewCache(NewGenerator(1), 1, nil)
	c.Start()
	c.Stop()
	c.Stop()

	diff := &config.DifficultyConfig{ID: "easy", MazeWidth: 11, MazeHeight: 11}
	if g := c.Grid(1, diff); g.Empty() {
		t.Error("stopped cache should still generate synchronously")
	}
}
