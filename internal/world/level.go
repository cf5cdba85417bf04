package world

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-maze/internal/core"
)

// Placement rules, in cells from the spawn point.
const (
	enemyMinDistance = 4
	trapMinDistance  = 2
	itemMinDistance  = 1
	golemEvery       = 5
	batEvery         = 3
)

// startNewGame rebuilds a level-1 session from scratch.
func (w *World) startNewGame() error {
	grid := w.svc.Levels.Grid(1, w.diff)
	if grid.Empty() {
		return fmt.Errorf("world: level 1: %w", ErrEmptyGrid)
	}

	w.resetTransient()
	w.stats = Stats{}
	w.level = 1
	w.grid = grid
	w.populateLevel(true)

	w.players = [core.MaxPlayers]*Player{}
	count := 1
	if w.twoPlayer {
		count = 2
	}
	for i := 0; i < count; i++ {
		idx := core.PlayerIndex(i)
		p, err := w.newPlayer(idx, w.spawnTile())
		if err != nil {
			return fmt.Errorf("world: cannot create %s: %w", idx, err)
		}
		w.players[i] = p
	}
	return nil
}

// resetTransient clears every timer and flag that does not survive a
// rebuild of the world.
func (w *World) resetTransient() {
	w.hitStop = 0
	w.shake = 0
	w.menuPaused = false
	w.transition = nil
	w.revival = revival{}
	w.gameOver = false
	w.autoSaveTimer = 0
	w.input.Clear()
}

// spawnTile picks the spawn cell, or the nearest free cell when a player
// already stands there.
func (w *World) spawnTile() core.Point {
	if w.playerAt(w.spawn, nil) == nil && w.CanMoveTo(w.spawn.X, w.spawn.Y) {
		return w.spawn
	}
	if tile, ok := w.freeCellNear(w.spawn); ok {
		return tile
	}
	w.log.Warn("no free spawn cell", "spawn", w.spawn)
	return w.spawn
}

// populateLevel replaces every non-player entity for the current grid.
// Placement is deterministic for a given seed and level.
func (w *World) populateLevel(withKey bool) {
	w.enemies = nil
	w.traps = nil
	w.items = nil
	w.doors = nil
	w.obstacles = nil
	w.projectiles = nil

	floor := w.grid.FloorCells()
	if len(floor) == 0 {
		w.log.Warn("level has no floor", "level", w.level)
		return
	}
	w.spawn = floor[0]
	dist := w.distances(w.spawn)

	doorTile, far := w.spawn, 0
	for _, c := range floor {
		if d, ok := dist[c]; ok && d > far {
			doorTile, far = c, d
		}
	}

	rng := rand.New(rand.NewSource(w.seed*7919 + int64(w.level)))
	cells := append([]core.Point(nil), floor...)
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	used := map[core.Point]bool{w.spawn: true, doorTile: true}
	// Keep the cell next to the spawn free for the second player.
	if tile, ok := w.firstNeighbour(w.spawn); ok {
		used[tile] = true
	}

	take := func(minDist int, ok func(core.Point) bool) (core.Point, bool) {
		for _, c := range cells {
			d, reachable := dist[c]
			if used[c] || !reachable || d < minDist {
				continue
			}
			if ok != nil && !ok(c) {
				continue
			}
			used[c] = true
			return c, true
		}
		return core.Point{}, false
	}

	w.doors = append(w.doors, &ExitDoor{Tile: doorTile, Locked: true})
	if withKey {
		if tile, ok := take(max(itemMinDistance, far/2), nil); ok {
			w.items = append(w.items, &Item{Kind: ItemKey, Tile: tile})
		} else if tile, ok := take(itemMinDistance, nil); ok {
			w.items = append(w.items, &Item{Kind: ItemKey, Tile: tile})
		}
	}

	for i := 0; i < w.diff.EnemyCount; i++ {
		kind := EnemySlime
		switch {
		case i%golemEvery == golemEvery-1:
			kind = EnemyGolem
		case i%batEvery == 1:
			kind = EnemyBat
		}

		if kind == EnemyGolem {
			if tile, ok := take(enemyMinDistance, func(c core.Point) bool { return w.golemFits(c, used, doorTile) }); ok {
				for _, c := range golemCells(tile) {
					used[c] = true
				}
				w.enemies = append(w.enemies, w.newEnemy(EnemyGolem, tile))
				continue
			}
			kind = EnemySlime
		}
		if tile, ok := take(enemyMinDistance, nil); ok {
			w.enemies = append(w.enemies, w.newEnemy(kind, tile))
		}
	}

	for i := 0; i < w.diff.TrapCount; i++ {
		kind := TrapSpike
		if i%2 == 1 {
			kind = TrapSnare
		}
		if tile, ok := take(trapMinDistance, nil); ok {
			w.traps = append(w.traps, &Trap{Kind: kind, Tile: tile})
		}
	}

	period := w.engine.Hazards.ObstaclePeriod
	for i := 0; i < w.diff.ObstacleCount; i++ {
		if tile, ok := take(trapMinDistance, nil); ok {
			w.obstacles = append(w.obstacles, &Obstacle{Tile: tile, timer: rng.Float64() * period})
		}
	}

	addItems := func(kind ItemKind, n int) {
		for i := 0; i < n; i++ {
			if tile, ok := take(itemMinDistance, nil); ok {
				w.items = append(w.items, &Item{Kind: kind, Tile: tile})
			}
		}
	}
	addItems(ItemTreasure, w.engine.Items.TreasureCount)
	addItems(ItemHeart, w.engine.Items.HeartCount)
	addItems(ItemChest, 1)

	w.log.Debug("level populated", "level", w.level,
		"enemies", len(w.enemies), "traps", len(w.traps), "items", len(w.items))
}

func golemCells(tile core.Point) []core.Point {
	cells := make([]core.Point, 0, golemSize*golemSize)
	for dy := 0; dy < golemSize; dy++ {
		for dx := 0; dx < golemSize; dx++ {
			cells = append(cells, core.P(tile.X+dx, tile.Y+dy))
		}
	}
	return cells
}

// golemFits reports whether a golem with top-left tile fits on free floor
// without cutting the door off from the spawn.
func (w *World) golemFits(tile core.Point, used map[core.Point]bool, door core.Point) bool {
	blocked := make(map[core.Point]bool, golemSize*golemSize)
	for _, c := range golemCells(tile) {
		if !w.grid.Walkable(c.X, c.Y) || used[c] {
			return false
		}
		blocked[c] = true
	}
	// Everything placed so far must stay reachable too.
	reach := w.distancesAvoiding(w.spawn, blocked)
	if _, ok := reach[door]; !ok {
		return false
	}
	for c := range used {
		if blocked[c] {
			continue
		}
		if _, ok := reach[c]; !ok {
			return false
		}
	}
	return true
}

func (w *World) firstNeighbour(p core.Point) (core.Point, bool) {
	for _, d := range core.Directions {
		n := p.Add(d.Delta())
		if w.grid.Walkable(n.X, n.Y) {
			return n, true
		}
	}
	return core.Point{}, false
}

// distances returns the walking distance from origin to every reachable
// floor cell.
func (w *World) distances(origin core.Point) map[core.Point]int {
	return w.distancesAvoiding(origin, nil)
}

func (w *World) distancesAvoiding(origin core.Point, blocked map[core.Point]bool) map[core.Point]int {
	dist := map[core.Point]int{origin: 0}
	queue := []core.Point{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range core.Directions {
			next := cur.Add(d.Delta())
			if _, seen := dist[next]; seen || blocked[next] || !w.grid.Walkable(next.X, next.Y) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}
