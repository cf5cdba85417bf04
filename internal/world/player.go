package world

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/tui-maze/internal/ability"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
)

// Buffs are the temporary player flags granted by chests.
type Buffs uint8

const (
	// BuffSwift raises movement speed.
	BuffSwift Buffs = 1 << iota
	// BuffWard absorbs the next hit.
	BuffWard
)

const swiftMultiplier = 1.25

func (b Buffs) Has(f Buffs) bool { return b&f != 0 }

// Player is one controllable character.
type Player struct {
	Index core.PlayerIndex

	// tile is the logical cell; pos interpolates toward it while moving.
	tile   core.Point
	pos    core.Vec
	from   core.Vec
	tween  *gween.Tween
	facing core.Direction
	intent core.Direction

	lives    int
	maxLives int
	mana     int
	maxMana  int

	manaTimer  float64
	dashTimer  float64 // remaining dash
	dashSpeed  float64
	dashBonus  float64 // invincibility granted when the dash ends
	invincible float64 // remaining damage invincibility
	hitStun    float64
	slowTimer  float64
	dashHits   map[uint64]bool

	hasKey bool
	buffs  Buffs

	pointer         *core.Point
	pointerCaptured bool

	abilities *ability.Manager
	world     *World
}

func (w *World) newPlayer(idx core.PlayerIndex, tile core.Point) (*Player, error) {
	p := &Player{
		Index:    idx,
		facing:   core.DirDown,
		lives:    w.diff.Lives(),
		maxLives: w.diff.Lives(),
		mana:     w.engine.Player.MaxMana,
		maxMana:  w.engine.Player.MaxMana,
		world:    w,
	}
	p.place(tile)

	m, err := ability.NewDefaultManager(p)
	if err != nil {
		return nil, err
	}
	m.SetArena(w)
	p.abilities = m
	return p, nil
}

// place teleports the player onto tile, cancelling any movement.
func (p *Player) place(tile core.Point) {
	p.tile = tile
	p.pos = tile.Center()
	p.from = p.pos
	p.tween = nil
}

func (p *Player) Tile() core.Point            { return p.tile }
func (p *Player) Pos() core.Vec               { return p.pos }
func (p *Player) Facing() core.Direction      { return p.facing }
func (p *Player) Mana() int                   { return p.mana }
func (p *Player) MaxMana() int                { return p.maxMana }
func (p *Player) Lives() int                  { return p.lives }
func (p *Player) MaxLives() int               { return p.maxLives }
func (p *Player) HasKey() bool                { return p.hasKey }
func (p *Player) Buffs() Buffs                { return p.buffs }
func (p *Player) Abilities() *ability.Manager { return p.abilities }
func (p *Player) PointerCaptured() bool       { return p.pointerCaptured }
func (p *Player) Alive() bool                 { return p.lives > 0 }
func (p *Player) Moving() bool                { return p.tween != nil }
func (p *Player) Dashing() bool               { return p.dashTimer > 0 }
func (p *Player) Stunned() bool               { return p.hitStun > 0 }
func (p *Player) Slowed() bool                { return p.slowTimer > 0 }

// Invincible reports whether damage is currently ignored.
func (p *Player) Invincible() bool {
	return p.dashTimer > 0 || p.invincible > 0
}

func (p *Player) SpendMana(n int) {
	p.mana = max(0, p.mana-n)
}

func (p *Player) Heal(n int) {
	if !p.Alive() || n <= 0 {
		return
	}
	p.lives = min(p.maxLives, p.lives+n)
}

// GrantDash starts a dash. Each dash may hit every enemy once.
func (p *Player) GrantDash(e ability.DashEffect) {
	p.dashTimer = e.Duration
	p.dashSpeed = e.SpeedMultiplier
	p.dashBonus = e.BonusInvincibility
	p.dashHits = make(map[uint64]bool)
}

func (p *Player) AbilityDeactivated(id string) {
	if id != ability.IDDash {
		return
	}
	p.dashTimer = 0
	p.invincible = max(p.invincible, p.dashBonus)
}

// AimTile returns the pointer tile when it lies on the grid.
func (p *Player) AimTile() (core.Point, bool) {
	if p.pointer == nil || !p.world.grid.InBounds(p.pointer.X, p.pointer.Y) {
		return core.Point{}, false
	}
	return *p.pointer, true
}

func (p *Player) update(dt float64) {
	p.dashTimer = max(0, p.dashTimer-dt)
	p.invincible = max(0, p.invincible-dt)
	p.hitStun = max(0, p.hitStun-dt)
	p.slowTimer = max(0, p.slowTimer-dt)

	if interval := p.world.engine.Player.ManaRegenInterval; interval > 0 && p.mana < p.maxMana {
		p.manaTimer += dt
		for p.manaTimer >= interval && p.mana < p.maxMana {
			p.manaTimer -= interval
			p.mana++
		}
	} else {
		p.manaTimer = 0
	}

	p.abilities.Update(dt)
	p.move(dt)
}

func (p *Player) speed() float64 {
	s := p.world.engine.Player.Speed
	if s <= 0 {
		s = 1
	}
	if p.Dashing() {
		s *= p.dashSpeed
	}
	if p.Slowed() {
		s *= p.world.engine.Player.SlowFactor
	}
	if p.buffs.Has(BuffSwift) {
		s *= swiftMultiplier
	}
	return s
}

// move advances the running tween, then starts the next step if the player
// is idle and has a move intent.
func (p *Player) move(dt float64) {
	if p.tween != nil {
		v, done := p.tween.Update(float32(dt))
		to := p.tile.Center()
		p.pos = p.from.Add(to.Sub(p.from).Scale(float64(v)))
		if !done {
			return
		}
		p.pos = to
		p.tween = nil
		if p.world.doorAt(p.tile) != nil {
			// Arriving on a door ends the step so the door can trigger.
			return
		}
	}

	if p.intent == core.DirNone || p.Stunned() {
		return
	}
	p.facing = p.intent
	next := p.tile.Add(p.intent.Delta())

	if door := p.world.doorAt(next); door != nil && door.Locked && p.hasKey {
		p.world.unlockDoor(p, door)
	}
	if !p.world.CanMoveTo(next.X, next.Y) || p.world.playerAt(next, p) != nil {
		return
	}

	p.from = p.pos
	p.tile = next
	p.tween = gween.New(0, 1, float32(1/p.speed()), ease.Linear)
}

// damagePlayer applies n damage from source and reports whether it landed.
func (w *World) damagePlayer(p *Player, n int, source string) bool {
	if !p.Alive() || p.Invincible() || n <= 0 {
		return false
	}
	if p.buffs.Has(BuffWard) {
		p.buffs &^= BuffWard
		p.invincible = w.engine.Player.DamageInvincibility
		return false
	}

	p.lives = max(0, p.lives-n)
	p.invincible = w.engine.Player.DamageInvincibility
	p.hitStun = w.engine.Player.HitStun
	w.stats.DamageTaken += n
	w.svc.Events.Publish(events.PlayerDamaged{Player: p.Index, Amount: n, CurrentHP: p.lives, Source: source})
	w.triggerHitStop(w.engine.HitStopDamage)

	if !p.Alive() {
		w.log.Info("player down", "player", p.Index, "source", source)
		p.place(p.tile)
		p.dashTimer = 0
		p.abilities.ForceResetAll()
	}
	return true
}

// revive brings a dead player back on tile with the given lives.
func (p *Player) revive(tile core.Point, lives int) {
	p.place(tile)
	p.lives = core.Clamp(lives, 1, p.maxLives)
	p.invincible = p.world.engine.Player.DamageInvincibility
	p.hitStun = 0
	p.slowTimer = 0
	p.intent = core.DirNone
}

func (w *World) playerAt(tile core.Point, except *Player) *Player {
	for _, p := range w.players {
		if p != nil && p != except && p.Alive() && p.tile == tile {
			return p
		}
	}
	return nil
}

// interact unlocks a locked door the player faces while holding the key.
func (w *World) interact(p *Player) {
	door := w.doorAt(p.tile.Add(p.facing.Delta()))
	if door == nil {
		w.log.Debug("nothing to interact with", "player", p.Index)
		return
	}
	if door.Locked && p.hasKey {
		w.unlockDoor(p, door)
	}
}
