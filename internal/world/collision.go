package world

import (
	"github.com/vovakirdan/tui-maze/internal/ability"
	"github.com/vovakirdan/tui-maze/internal/core"
)

// CanMoveTo reports whether a player may step onto (x, y).
func (w *World) CanMoveTo(x, y int) bool {
	if !w.grid.InBounds(x, y) {
		return false
	}
	p := core.P(x, y)
	for _, e := range w.enemies {
		if e.Kind.Large() && e.Alive() && e.Covers(p) {
			return false
		}
	}
	if d := w.doorAt(p); d != nil && d.Locked {
		return false
	}
	if w.obstacleAt(p) != nil {
		return false
	}
	return w.grid.Walkable(x, y)
}

// enemyCanEnter reports whether a grid-walking enemy may step onto p.
// Enemies avoid each other and never enter a door cell.
func (w *World) enemyCanEnter(p core.Point, self *Enemy) bool {
	if !w.CanMoveTo(p.X, p.Y) || w.doorAt(p) != nil {
		return false
	}
	for _, e := range w.enemies {
		if e != self && e.Alive() && e.Kind != EnemyBat && e.Covers(p) {
			return false
		}
	}
	return true
}

// TargetsAt returns the living enemies occupying p.
func (w *World) TargetsAt(p core.Point) []ability.Target {
	var out []ability.Target
	for _, e := range w.enemies {
		if e.Alive() && e.Covers(p) {
			out = append(out, e)
		}
	}
	return out
}

// TargetsWithin returns the living enemies whose centre lies within radius
// world units of center.
func (w *World) TargetsWithin(center core.Vec, radius float64) []ability.Target {
	var out []ability.Target
	r2 := radius * radius
	for _, e := range w.enemies {
		if e.Alive() && e.pos.DistSq(center) <= r2 {
			out = append(out, e)
		}
	}
	return out
}

// touches applies the per-category collision policy: fixed-cell enemies
// use grid equality, bats a squared-distance test in world units.
func (w *World) touches(e *Enemy, p *Player) bool {
	if e.Kind == EnemyBat {
		r := w.engine.Enemies.BatRadius
		return e.pos.DistSq(p.pos) <= r*r
	}
	return e.Covers(p.tile)
}

func (w *World) resolveCollisions() {
	for _, p := range w.players {
		if p == nil || !p.Alive() {
			continue
		}

		for _, e := range w.enemies {
			if !e.Alive() || !w.touches(e, p) {
				continue
			}
			if p.Dashing() {
				if !p.dashHits[e.id] {
					p.dashHits[e.id] = true
					e.hit(w.engine.Enemies.DashDamage, p.Index, true)
				}
				continue
			}
			w.damagePlayer(p, e.damage, e.Kind.String())
		}

		r := w.engine.Enemies.ProjectileRadius
		for _, pr := range w.projectiles {
			if pr.dead || pr.pos.DistSq(p.pos) > r*r {
				continue
			}
			pr.dead = true
			w.damagePlayer(p, pr.damage, "projectile")
		}
	}

	live := w.projectiles[:0]
	for _, pr := range w.projectiles {
		if !pr.dead {
			live = append(live, pr)
		}
	}
	clear(w.projectiles[len(live):])
	w.projectiles = live

	w.reapEnemies()
}

// updateRevival counts down while exactly one co-op player is dead. The
// countdown restarts whenever the dead player changes or both are down.
func (w *World) updateRevival(dt float64) {
	if !w.twoPlayer {
		return
	}

	var dead, living []*Player
	for _, p := range w.players {
		if p == nil {
			continue
		}
		if p.Alive() {
			living = append(living, p)
		} else {
			dead = append(dead, p)
		}
	}
	if len(dead) != 1 || len(living) != 1 {
		w.revival = revival{}
		return
	}

	target := dead[0]
	if !w.revival.active || w.revival.target != target.Index {
		w.revival = revival{active: true, target: target.Index}
	}
	w.revival.timer += dt
	if w.revival.timer < w.engine.RevivalDelay {
		return
	}

	tile, ok := w.freeCellNear(living[0].tile)
	if !ok {
		w.log.Debug("no free cell for revival", "player", target.Index)
		return
	}
	target.revive(tile, w.engine.RevivalHealth)
	w.revival = revival{}
	w.log.Info("player revived", "player", target.Index, "tile", tile)
}

// freeCellNear returns the walkable cell closest to origin (breadth first)
// that holds no player, enemy, trap, item or door. origin itself is skipped.
func (w *World) freeCellNear(origin core.Point) (core.Point, bool) {
	if !w.grid.InBounds(origin.X, origin.Y) {
		return core.Point{}, false
	}
	seen := map[core.Point]bool{origin: true}
	queue := []core.Point{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range core.Directions {
			next := cur.Add(d.Delta())
			if seen[next] || !w.CanMoveTo(next.X, next.Y) {
				continue
			}
			seen[next] = true
			if w.cellFree(next) {
				return next, true
			}
			queue = append(queue, next)
		}
	}
	return core.Point{}, false
}

func (w *World) cellFree(p core.Point) bool {
	if w.cellOccupied(p) || w.doorAt(p) != nil {
		return false
	}
	for _, t := range w.traps {
		if t.Tile == p {
			return false
		}
	}
	for _, o := range w.obstacles {
		if o.Tile == p {
			return false
		}
	}
	return true
}
