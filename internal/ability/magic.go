package ability

import "github.com/vovakirdan/tui-maze/internal/core"

// Phase is the state of the magic cast machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAiming
	PhaseExecuted
	PhaseCooldown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAiming:
		return "aiming"
	case PhaseExecuted:
		return "executed"
	case PhaseCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Magic tuning.
const (
	MagicManaCost         = 3
	MagicCooldown         = 8.0
	MagicCooldownPerLevel = 0.5
	MagicFallbackCooldown = 2.0
	MagicAimTimeout       = 5.0
	MagicMinAimTime       = 0.1
	MagicExecuteWindow    = 1.0
	MagicRadius           = 1.5
	MagicBaseDamage       = 2
	MagicHealPercent      = 10 // of max lives, per enemy hit
	MagicMaxHealPercent   = 50
	MagicMaxLevel         = 5
	magicDamageSource     = "arcane_burst"
)

type magicState struct {
	phase      Phase
	phaseTimer float64
	aim        core.Point
	hitCount   int
	cooldown   float64 // length of the current cooldown phase
	lastHeal   int
}

func (*magicState) kind() Kind { return KindMagic }

// NewArcaneBurst creates the aim / execute / heal area spell.
func NewArcaneBurst() *Ability {
	s := &magicState{}
	a := newAbility(IDArcaneBurst, "Arcane Burst", MagicMaxLevel, s)
	a.manaCost = MagicManaCost
	a.manaPolicy = ManaOnce
	s.applyLevel(a)
	return a
}

func (s *magicState) applyLevel(a *Ability) {
	a.cooldownDuration = MagicCooldown - MagicCooldownPerLevel*float64(a.level-1)
	if a.cooldownDuration < MagicFallbackCooldown {
		a.cooldownDuration = MagicFallbackCooldown
	}
	if s.phase == PhaseCooldown && s.cooldown > a.cooldownDuration {
		s.cooldown = a.cooldownDuration
	}
}

// MagicDamage returns the area damage at the given level.
func MagicDamage(level int) int {
	if level < 1 {
		level = 1
	}
	return MagicBaseDamage + level - 1
}

// MagicHeal returns the heal for hitting hitCount enemies with maxLives health.
func MagicHeal(hitCount, maxLives int) int {
	if hitCount <= 0 || maxLives <= 0 {
		return 0
	}
	heal := (hitCount*maxLives*MagicHealPercent + 99) / 100
	limit := maxLives * MagicMaxHealPercent / 100
	if limit < 1 {
		limit = 1
	}
	if heal > limit {
		heal = limit
	}
	return heal
}

func (s *magicState) canAdvance(a *Ability, ctx Context) bool {
	switch s.phase {
	case PhaseIdle:
		if !a.ready {
			return false
		}
		return !a.shouldConsumeMana() || ctx.Owner.Mana() >= a.manaCost
	case PhaseAiming:
		return s.phaseTimer >= MagicMinAimTime && !ctx.Owner.PointerCaptured()
	case PhaseExecuted:
		return s.phaseTimer < MagicExecuteWindow
	default:
		return false
	}
}

// advance performs the transition triggered by an activation.
func (s *magicState) advance(a *Ability, ctx Context) {
	switch s.phase {
	case PhaseIdle:
		if a.shouldConsumeMana() {
			ctx.Owner.SpendMana(a.manaCost)
		}
		if tile, ok := ctx.Owner.AimTile(); ok {
			s.aim = tile
		} else {
			s.aim = ctx.Owner.Tile()
		}
		s.phase = PhaseAiming
		s.phaseTimer = 0
		s.hitCount = 0
		s.lastHeal = 0
		a.ready = false
		a.active = true

	case PhaseAiming:
		damage := MagicDamage(a.level)
		hits := 0
		for _, t := range ctx.targetsWithin(s.aim.Center(), MagicRadius) {
			if !t.Alive() {
				continue
			}
			t.Hit(damage, magicDamageSource)
			hits++
		}
		s.hitCount = hits
		s.phase = PhaseExecuted
		s.phaseTimer = 0

	case PhaseExecuted:
		s.lastHeal = MagicHeal(s.hitCount, ctx.Owner.MaxLives())
		if s.lastHeal > 0 {
			ctx.Owner.Heal(s.lastHeal)
		}
		s.enterCooldown(a, a.cooldownDuration)
	}
}

func (s *magicState) update(a *Ability, dt float64) {
	switch s.phase {
	case PhaseAiming:
		s.phaseTimer += dt
		if s.phaseTimer >= MagicAimTimeout {
			s.phase = PhaseIdle
			s.phaseTimer = 0
			a.active = false
			a.ready = true
		}
	case PhaseExecuted:
		s.phaseTimer += dt
		if s.phaseTimer >= MagicExecuteWindow {
			s.enterCooldown(a, MagicFallbackCooldown)
		}
	}
}

func (s *magicState) enterCooldown(a *Ability, length float64) {
	if length > a.cooldownDuration {
		length = a.cooldownDuration
	}
	s.phase = PhaseCooldown
	s.phaseTimer = 0
	s.cooldown = length
	a.active = false
	a.ready = false
	a.cooldownTimer = 0
}

func (s *magicState) finishCooldown() {
	s.phase = PhaseIdle
	s.phaseTimer = 0
	s.cooldown = 0
}

func (s *magicState) reset() {
	s.phase = PhaseIdle
	s.phaseTimer = 0
	s.hitCount = 0
	s.cooldown = 0
	s.lastHeal = 0
}

// Phase returns the magic phase, or PhaseIdle for other kinds.
func (a *Ability) Phase() Phase {
	if s, ok := a.state.(*magicState); ok {
		return s.phase
	}
	return PhaseIdle
}

// AimPoint returns the captured magic aim tile.
func (a *Ability) AimPoint() core.Point {
	if s, ok := a.state.(*magicState); ok {
		return s.aim
	}
	return core.Point{}
}

// HitCount returns how many enemies the last magic execution hit.
func (a *Ability) HitCount() int {
	if s, ok := a.state.(*magicState); ok {
		return s.hitCount
	}
	return 0
}

// LastHeal returns the heal applied by the last magic follow-up.
func (a *Ability) LastHeal() int {
	if s, ok := a.state.(*magicState); ok {
		return s.lastHeal
	}
	return 0
}
