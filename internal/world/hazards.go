package world

import (
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
)

// TrapKind identifies a trap.
type TrapKind int

const (
	// TrapSpike is armed for half of every period and damages while armed.
	TrapSpike TrapKind = iota
	// TrapSnare slows whoever steps on it.
	TrapSnare
)

func (k TrapKind) String() string {
	switch k {
	case TrapSpike:
		return "spike"
	case TrapSnare:
		return "snare"
	default:
		return "unknown"
	}
}

// Trap is a floor hazard on a fixed cell.
type Trap struct {
	Kind  TrapKind
	Tile  core.Point
	Armed bool
	timer float64
}

func (w *World) updateTraps(dt float64) {
	half := w.engine.Hazards.SpikePeriod / 2
	for _, t := range w.traps {
		if t.Kind != TrapSpike || half <= 0 {
			continue
		}
		t.timer += dt
		for t.timer >= half {
			t.timer -= half
			t.Armed = !t.Armed
		}
	}
}

func (w *World) resolveTrapSteps() {
	for _, p := range w.players {
		if p == nil || !p.Alive() {
			continue
		}
		for _, t := range w.traps {
			if t.Tile != p.tile {
				continue
			}
			switch t.Kind {
			case TrapSpike:
				if t.Armed {
					w.damagePlayer(p, w.diff.ScaleDamage(w.engine.Hazards.SpikeDamage), "spike")
				}
			case TrapSnare:
				if !p.Slowed() && !p.Dashing() {
					p.slowTimer = w.engine.Player.SlowDuration
				}
			}
		}
	}
}

// ItemKind identifies a pickup.
type ItemKind int

const (
	ItemKey ItemKind = iota
	ItemHeart
	ItemTreasure
	ItemChest
)

func (k ItemKind) String() string {
	switch k {
	case ItemKey:
		return "key"
	case ItemHeart:
		return "heart"
	case ItemTreasure:
		return "treasure"
	case ItemChest:
		return "chest"
	default:
		return "unknown"
	}
}

// Item is a pickup lying on a cell.
type Item struct {
	Kind ItemKind
	Tile core.Point
}

func (w *World) itemAt(tile core.Point) *Item {
	for _, it := range w.items {
		if it.Tile == tile {
			return it
		}
	}
	return nil
}

func (w *World) resolvePickups() {
	for _, p := range w.players {
		if p == nil || !p.Alive() {
			continue
		}
		kept := w.items[:0]
		for _, it := range w.items {
			if it.Tile == p.tile && w.collect(p, it) {
				continue
			}
			kept = append(kept, it)
		}
		clear(w.items[len(kept):])
		w.items = kept
	}
}

// collect applies an item and reports whether it was consumed.
func (w *World) collect(p *Player, it *Item) bool {
	switch it.Kind {
	case ItemKey:
		if p.hasKey {
			return false
		}
		p.hasKey = true
	case ItemHeart:
		if p.lives >= p.maxLives {
			return false
		}
		p.Heal(1)
	case ItemChest:
		if w.rng.Intn(2) == 0 {
			p.buffs |= BuffSwift
		} else {
			p.buffs |= BuffWard
		}
		p.mana = p.maxMana
	case ItemTreasure:
	}
	w.stats.ItemsCollected++
	w.svc.Events.Publish(events.ItemCollected{Player: p.Index, Kind: it.Kind.String()})
	return true
}

// ExitDoor leads to the next level. It starts locked.
type ExitDoor struct {
	Tile   core.Point
	Locked bool
	anim   float64
}

// Anim returns the door animation clock, advanced while it is open or
// being walked through.
func (d *ExitDoor) Anim() float64 { return d.anim }

func (w *World) doorAt(tile core.Point) *ExitDoor {
	for _, d := range w.doors {
		if d.Tile == tile {
			return d
		}
	}
	return nil
}

func (w *World) unlockDoor(p *Player, d *ExitDoor) {
	d.Locked = false
	d.anim = 0
	p.hasKey = false
	w.log.Debug("door unlocked", "player", p.Index, "door", d.Tile)
}

func (w *World) updateDoors(dt float64) {
	for _, d := range w.doors {
		if d.Locked {
			continue
		}
		d.anim += dt
		for _, p := range w.players {
			if p != nil && p.Alive() && !p.Moving() && p.tile == d.Tile {
				w.beginTransition(d)
				return
			}
		}
	}
}

// Obstacle is a pillar that rises and sinks on a fixed cycle.
type Obstacle struct {
	Tile   core.Point
	Raised bool
	timer  float64
}

func (w *World) obstacleAt(tile core.Point) *Obstacle {
	for _, o := range w.obstacles {
		if o.Raised && o.Tile == tile {
			return o
		}
	}
	return nil
}

func (w *World) updateObstacles(dt float64) {
	period := w.engine.Hazards.ObstaclePeriod
	if period <= 0 {
		return
	}
	for _, o := range w.obstacles {
		o.timer += dt
		if o.timer < period {
			continue
		}
		if !o.Raised && w.cellOccupied(o.Tile) {
			// Wait on the cell until it clears.
			continue
		}
		o.timer -= period
		o.Raised = !o.Raised
	}
}

// cellOccupied reports whether a player, enemy, item or projectile is on tile.
func (w *World) cellOccupied(tile core.Point) bool {
	for _, p := range w.players {
		if p != nil && p.Alive() && p.tile == tile {
			return true
		}
	}
	for _, e := range w.enemies {
		if e.Alive() && e.Covers(tile) {
			return true
		}
	}
	for _, pr := range w.projectiles {
		if pr.pos.Cell() == tile {
			return true
		}
	}
	return w.itemAt(tile) != nil
}
