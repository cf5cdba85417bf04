package world

import (
	"math"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
)

// EnemyKind identifies an enemy archetype.
type EnemyKind int

const (
	// EnemySlime walks the grid one cell at a time and chases nearby players.
	EnemySlime EnemyKind = iota
	// EnemyBat flies continuously inside corridors and bounces off walls.
	EnemyBat
	// EnemyGolem is a stationary 2x2 turret that fires projectiles.
	EnemyGolem
)

func (k EnemyKind) String() string {
	switch k {
	case EnemySlime:
		return "slime"
	case EnemyBat:
		return "bat"
	case EnemyGolem:
		return "golem"
	default:
		return "unknown"
	}
}

// Tier is the kill tier reported to listeners.
func (k EnemyKind) Tier() int {
	return int(k) + 1
}

// Large reports whether the kind blocks movement across several cells.
func (k EnemyKind) Large() bool {
	return k == EnemyGolem
}

const golemSize = 2

// Enemy is a hostile entity. It implements ability.Target.
type Enemy struct {
	id   uint64
	Kind EnemyKind

	// tile is the top-left cell for golems and the current cell for slimes.
	// Bats keep pos and derive their cell from it.
	tile core.Point
	pos  core.Vec
	vel  core.Vec

	health    int
	maxHealth int
	damage    int

	moveTimer float64
	fireTimer float64

	killedBy core.PlayerIndex
	byDash   bool

	world *World
}

func (w *World) newEnemy(kind EnemyKind, tile core.Point) *Enemy {
	t := w.engine.Enemies
	e := &Enemy{
		id:     w.newID(),
		Kind:   kind,
		tile:   tile,
		pos:    tile.Center(),
		damage: w.diff.ScaleDamage(t.ContactDamage),
		world:  w,
	}
	switch kind {
	case EnemySlime:
		e.maxHealth = w.diff.ScaleHealth(t.SlimeHealth)
	case EnemyBat:
		e.maxHealth = w.diff.ScaleHealth(t.BatHealth)
		speed := w.diff.ScaleSpeed(t.BatSpeed)
		if w.rng.Intn(2) == 0 {
			e.vel = core.Vec{X: speed}
		} else {
			e.vel = core.Vec{Y: speed}
		}
	case EnemyGolem:
		e.maxHealth = w.diff.ScaleHealth(t.GolemHealth)
		e.pos = core.Vec{X: float64(tile.X + 1), Y: float64(tile.Y + 1)}
		e.fireTimer = w.rng.Float64() * t.GolemFireInterval
	}
	e.health = e.maxHealth
	return e
}

func (e *Enemy) TargetID() uint64 { return e.id }
func (e *Enemy) Alive() bool      { return e.health > 0 }
func (e *Enemy) Health() int      { return e.health }
func (e *Enemy) MaxHealth() int   { return e.maxHealth }
func (e *Enemy) Pos() core.Vec    { return e.pos }

// Tile returns the enemy's cell (top-left for golems).
func (e *Enemy) Tile() core.Point {
	if e.Kind == EnemyBat {
		return e.pos.Cell()
	}
	return e.tile
}

// Covers reports whether the enemy occupies p.
func (e *Enemy) Covers(p core.Point) bool {
	switch e.Kind {
	case EnemyGolem:
		return p.X >= e.tile.X && p.X < e.tile.X+golemSize &&
			p.Y >= e.tile.Y && p.Y < e.tile.Y+golemSize
	default:
		return e.Tile() == p
	}
}

// Hit is called by ability effects; the kill is credited to the player whose
// abilities are running.
func (e *Enemy) Hit(damage int, source string) {
	e.hit(damage, e.world.attacker, false)
}

func (e *Enemy) hit(damage int, by core.PlayerIndex, dash bool) {
	if !e.Alive() || damage <= 0 {
		return
	}
	e.health = max(0, e.health-damage)
	if !e.Alive() {
		e.killedBy = by
		e.byDash = dash
	}
}

func (w *World) updateEnemies(dt float64) {
	for _, e := range w.enemies {
		if !e.Alive() {
			continue
		}
		switch e.Kind {
		case EnemySlime:
			w.updateSlime(e, dt)
		case EnemyBat:
			w.updateBat(e, dt)
		case EnemyGolem:
			w.updateGolem(e, dt)
		}
	}
	w.reapEnemies()
}

// reapEnemies removes dead enemies, reporting each kill and rolling drops.
func (w *World) reapEnemies() {
	alive := w.enemies[:0]
	for _, e := range w.enemies {
		if e.Alive() {
			alive = append(alive, e)
			continue
		}
		w.stats.Kills++
		if e.byDash {
			w.stats.DashKills++
		}
		w.svc.Events.Publish(events.EnemyKilled{Tier: e.Kind.Tier(), ByDash: e.byDash, Player: e.killedBy})
		w.triggerHitStop(w.engine.HitStopKill)
		w.rollDrop(e)
	}
	clear(w.enemies[len(alive):])
	w.enemies = alive
}

func (w *World) rollDrop(e *Enemy) {
	if w.rng.Float64() >= w.engine.Items.DropChance {
		return
	}
	tile := e.Tile()
	if w.itemAt(tile) != nil || !w.grid.Walkable(tile.X, tile.Y) {
		return
	}
	w.items = append(w.items, &Item{Kind: ItemHeart, Tile: tile})
}

func (w *World) updateSlime(e *Enemy, dt float64) {
	interval := w.engine.Enemies.SlimeMoveInterval / w.diff.ScaleSpeed(1)
	e.moveTimer += dt
	if e.moveTimer < interval {
		return
	}
	e.moveTimer -= interval

	var dirs []core.Direction
	if target := w.nearestPlayer(e.tile.Center(), w.engine.Enemies.SlimeChaseRange); target != nil {
		dirs = chaseDirections(e.tile, target.tile)
	} else {
		d := core.Directions[w.rng.Intn(len(core.Directions))]
		dirs = []core.Direction{d}
	}
	for _, d := range dirs {
		next := e.tile.Add(d.Delta())
		if w.enemyCanEnter(next, e) {
			e.tile = next
			e.pos = next.Center()
			return
		}
	}
}

// chaseDirections orders the two axis steps toward to, longest axis first.
func chaseDirections(from, to core.Point) []core.Direction {
	dx, dy := to.X-from.X, to.Y-from.Y
	h, v := core.DirNone, core.DirNone
	switch {
	case dx > 0:
		h = core.DirRight
	case dx < 0:
		h = core.DirLeft
	}
	switch {
	case dy > 0:
		v = core.DirDown
	case dy < 0:
		v = core.DirUp
	}

	var out []core.Direction
	if core.Abs(dx) >= core.Abs(dy) {
		out = append(out, h, v)
	} else {
		out = append(out, v, h)
	}
	dirs := out[:0]
	for _, d := range out {
		if d != core.DirNone {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (w *World) updateBat(e *Enemy, dt float64) {
	nx := e.pos.X + e.vel.X*dt
	if w.batCanEnter(core.Vec{X: nx, Y: e.pos.Y}) {
		e.pos.X = nx
	} else {
		e.vel.X = -e.vel.X
	}
	ny := e.pos.Y + e.vel.Y*dt
	if w.batCanEnter(core.Vec{X: e.pos.X, Y: ny}) {
		e.pos.Y = ny
	} else {
		e.vel.Y = -e.vel.Y
	}
}

func (w *World) batCanEnter(pos core.Vec) bool {
	cell := pos.Cell()
	return w.grid.Walkable(cell.X, cell.Y) && w.obstacleAt(cell) == nil
}

func (w *World) updateGolem(e *Enemy, dt float64) {
	t := w.engine.Enemies
	e.fireTimer += dt
	if e.fireTimer < t.GolemFireInterval {
		return
	}
	e.fireTimer -= t.GolemFireInterval

	target := w.nearestPlayer(e.pos, -1)
	if target == nil {
		w.log.Debug("golem has no target", "enemy", e.id)
		return
	}
	dir := target.pos.Sub(e.pos)
	length := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y)
	if length == 0 {
		return
	}
	speed := w.diff.ScaleSpeed(t.ProjectileSpeed)
	w.projectiles = append(w.projectiles, &Projectile{
		id:     w.newID(),
		pos:    e.pos,
		vel:    dir.Scale(speed / length),
		ttl:    t.ProjectileTTL,
		damage: e.damage,
	})
}

// nearestPlayer returns the closest living player, optionally limited to a
// Manhattan range in cells (negative means unlimited).
func (w *World) nearestPlayer(from core.Vec, rangeCells int) *Player {
	var best *Player
	bestDist := math.MaxFloat64
	origin := from.Cell()
	for _, p := range w.players {
		if p == nil || !p.Alive() {
			continue
		}
		if rangeCells >= 0 && origin.Manhattan(p.tile) > rangeCells {
			continue
		}
		if d := from.DistSq(p.pos); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// Projectile is a golem shot travelling in world units.
type Projectile struct {
	id     uint64
	pos    core.Vec
	vel    core.Vec
	ttl    float64
	damage int
	dead   bool
}

func (p *Projectile) Pos() core.Vec { return p.pos }

func (w *World) updateProjectiles(dt float64) {
	live := w.projectiles[:0]
	for _, p := range w.projectiles {
		p.pos = p.pos.Add(p.vel.Scale(dt))
		p.ttl -= dt
		cell := p.pos.Cell()
		if p.ttl <= 0 || !w.grid.Walkable(cell.X, cell.Y) || w.obstacleAt(cell) != nil {
			p.dead = true
		}
		if !p.dead {
			live = append(live, p)
		}
	}
	clear(w.projectiles[len(live):])
	w.projectiles = live
}
