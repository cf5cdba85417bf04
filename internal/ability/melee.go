package ability

import "github.com/vovakirdan/tui-maze/internal/core"

// Melee tuning.
const (
	MeleeStrikeDelay    = 0.15 // seconds between activation and the hit
	MeleeCooldown       = 0.4
	MeleeBaseDamage     = 2
	MeleeDamagePerLevel = 1
	MeleeMaxLevel       = 5
	meleeDamageSource   = "slash"
)

type meleeState struct {
	tiles       []core.Point
	pending     bool
	strikeTimer float64
	lastHits    int
}

func (*meleeState) kind() Kind { return KindMelee }

// NewSlash creates the single-shot sword swing.
func NewSlash() *Ability {
	a := newAbility(IDSlash, "Slash", MeleeMaxLevel, &meleeState{})
	a.cooldownDuration = MeleeCooldown
	return a
}

// MeleeHitTiles returns the tiles a swing from origin covers: the user's own
// tile, the tile in front, and the two tiles diagonal to it in the facing
// direction.
func MeleeHitTiles(origin core.Point, facing core.Direction) []core.Point {
	if facing == core.DirNone {
		facing = core.DirDown
	}
	front := origin.Add(facing.Delta())
	sideA, sideB := facing.Perpendicular()
	return []core.Point{
		origin,
		front,
		front.Add(sideA.Delta()),
		front.Add(sideB.Delta()),
	}
}

// MeleeDamage returns the damage of a swing at the given level.
func MeleeDamage(level int) int {
	if level < 1 {
		level = 1
	}
	return MeleeBaseDamage + MeleeDamagePerLevel*(level-1)
}

// begin captures the hit tiles at activation time; damage lands later.
func (s *meleeState) begin(a *Ability, ctx Context) {
	s.tiles = MeleeHitTiles(ctx.Owner.Tile(), ctx.Owner.Facing())
	s.pending = true
	s.strikeTimer = 0
	s.lastHits = 0
}

func (s *meleeState) update(a *Ability, dt float64, ctx Context) {
	if !s.pending {
		return
	}
	s.strikeTimer += dt
	if s.strikeTimer < MeleeStrikeDelay {
		return
	}
	s.pending = false
	s.strikeTimer = 0
	s.lastHits = s.strike(a, ctx)
}

// strike hits the first not-yet-hit living target on each captured tile, so
// no target is damaged twice by one swing.
func (s *meleeState) strike(a *Ability, ctx Context) int {
	damage := MeleeDamage(a.level)
	hit := make(map[uint64]bool)
	for _, tile := range s.tiles {
		for _, t := range ctx.targetsAt(tile) {
			if hit[t.TargetID()] || !t.Alive() {
				continue
			}
			hit[t.TargetID()] = true
			t.Hit(damage, meleeDamageSource)
			break
		}
	}
	return len(hit)
}

func (s *meleeState) reset() {
	s.tiles = nil
	s.pending = false
	s.strikeTimer = 0
	s.lastHits = 0
}

// PendingStrike reports whether a swing is waiting to land.
func (a *Ability) PendingStrike() bool {
	s, ok := a.state.(*meleeState)
	return ok && s.pending
}

// StrikeTiles returns the tiles captured by the last melee activation.
func (a *Ability) StrikeTiles() []core.Point {
	s, ok := a.state.(*meleeState)
	if !ok {
		return nil
	}
	return append([]core.Point(nil), s.tiles...)
}

// LastHits returns how many targets the last melee swing hit.
func (a *Ability) LastHits() int {
	if s, ok := a.state.(*meleeState); ok {
		return s.lastHits
	}
	return 0
}
