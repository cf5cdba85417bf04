// Package ability implements the skill state machines shared by every
// player-controlled active ability: cooldowns, active windows, mana costs,
// levels, charge pools and multi-phase casts.
//
// An Ability is a single struct carrying the common lifecycle fields plus
// exactly one variant state (melee, dash or magic). Behaviour that differs
// per skill kind is selected with a type switch over that variant instead of
// overridable hooks.
package ability

import (
	"errors"

	"github.com/vovakirdan/tui-maze/internal/core"
)

var (
	ErrNilOwner         = errors.New("ability: owner is required")
	ErrUnknownAbility   = errors.New("ability: unknown ability")
	ErrDuplicateAbility = errors.New("ability: ability already registered")
	ErrSlotOutOfRange   = errors.New("ability: slot out of range")
	ErrKindMismatch     = errors.New("ability: saved state belongs to another kind")
)

// Kind identifies the variant of an ability.
type Kind int

const (
	KindUnknown Kind = iota
	KindMelee
	KindDash
	KindMagic
)

func (k Kind) String() string {
	switch k {
	case KindMelee:
		return "melee"
	case KindDash:
		return "dash"
	case KindMagic:
		return "magic"
	default:
		return "unknown"
	}
}

// ManaPolicy controls how the default activation path charges mana.
type ManaPolicy int

const (
	// ManaNone never charges mana.
	ManaNone ManaPolicy = iota
	// ManaOnce charges the cost once, before the activation effect.
	ManaOnce
	// ManaBeforeAndAfter charges the cost before and again after the
	// activation effect. Kept for compatibility with saves tuned against
	// that behaviour; no shipped skill uses it.
	ManaBeforeAndAfter
)

// DashEffect is what a dash grants its owner.
type DashEffect struct {
	Duration           float64
	SpeedMultiplier    float64
	BonusInvincibility float64 // extra invincibility after the dash ends
}

// Owner is the entity an ability belongs to.
type Owner interface {
	Tile() core.Point
	Facing() core.Direction
	Mana() int
	SpendMana(n int)
	Lives() int
	MaxLives() int
	Heal(n int)
	GrantDash(e DashEffect)
	// AimTile returns the pointer-targeted tile, if the owner has one.
	AimTile() (core.Point, bool)
	// PointerCaptured reports whether unrelated UI currently owns the pointer.
	PointerCaptured() bool
}

// Deactivator is implemented by owners that want to know when an ability's
// active window ends.
type Deactivator interface {
	AbilityDeactivated(id string)
}

// Target is something an ability can damage.
type Target interface {
	TargetID() uint64
	Alive() bool
	Hit(damage int, source string)
}

// Arena answers the spatial queries ability effects need.
type Arena interface {
	TargetsAt(p core.Point) []Target
	TargetsWithin(center core.Vec, radius float64) []Target
}

// Context bundles the collaborators passed to activation and update.
type Context struct {
	Owner Owner
	Arena Arena
}

func (c Context) targetsAt(p core.Point) []Target {
	if c.Arena == nil {
		return nil
	}
	return c.Arena.TargetsAt(p)
}

func (c Context) targetsWithin(center core.Vec, radius float64) []Target {
	if c.Arena == nil {
		return nil
	}
	return c.Arena.TargetsWithin(center, radius)
}

// variant is the closed set of per-kind states.
type variant interface {
	kind() Kind
}

// Ability is a single skill's state machine.
//
// Invariants: 0 <= level <= maxLevel; 0 <= cooldownTimer <= the current
// cooldown target; active implies durationTimer <= duration.
type Ability struct {
	id       string
	name     string
	level    int
	maxLevel int

	ready  bool
	active bool

	cooldownTimer    float64
	cooldownDuration float64
	durationTimer    float64
	duration         float64

	manaCost   int
	manaPolicy ManaPolicy

	// activated is set by a successful activation and cleared by EndTick or
	// Update, so phase machines ignore repeated input within one tick.
	activated bool

	state variant
}

func newAbility(id, name string, maxLevel int, state variant) *Ability {
	return &Ability{
		id:       id,
		name:     name,
		level:    1,
		maxLevel: maxLevel,
		ready:    true,
		state:    state,
	}
}

func (a *Ability) ID() string                { return a.id }
func (a *Ability) Name() string              { return a.name }
func (a *Ability) Kind() Kind                { return a.state.kind() }
func (a *Ability) Level() int                { return a.level }
func (a *Ability) MaxLevel() int             { return a.maxLevel }
func (a *Ability) Ready() bool               { return a.ready }
func (a *Ability) Active() bool              { return a.active }
func (a *Ability) CooldownTimer() float64    { return a.cooldownTimer }
func (a *Ability) CooldownDuration() float64 { return a.cooldownDuration }
func (a *Ability) DurationTimer() float64    { return a.durationTimer }
func (a *Ability) Duration() float64         { return a.duration }
func (a *Ability) ManaCost() int             { return a.manaCost }
func (a *Ability) ManaPolicy() ManaPolicy    { return a.manaPolicy }

// SetManaPolicy overrides how the default activation path charges mana.
func (a *Ability) SetManaPolicy(p ManaPolicy) {
	a.manaPolicy = p
}

// managesLifecycle reports whether the variant drives its own transitions
// instead of the default single-shot path.
func (a *Ability) managesLifecycle() bool {
	_, ok := a.state.(*magicState)
	return ok
}

func (a *Ability) shouldConsumeMana() bool {
	return a.manaCost > 0 && a.manaPolicy != ManaNone
}

func (a *Ability) shouldStartCooldown() bool {
	switch a.state.(type) {
	case *dashState:
		return false
	default:
		return a.cooldownDuration > 0
	}
}

func (a *Ability) shouldBecomeActive() bool {
	switch a.state.(type) {
	case *meleeState:
		return false
	default:
		return a.duration > 0
	}
}

// coolingDown reports whether the cooldown timer should advance.
func (a *Ability) coolingDown() bool {
	if s, ok := a.state.(*magicState); ok {
		return s.phase == PhaseCooldown
	}
	return !a.ready
}

// cooldownTarget is the cooldown length currently being waited out.
func (a *Ability) cooldownTarget() float64 {
	if s, ok := a.state.(*magicState); ok && s.phase == PhaseCooldown {
		return s.cooldown
	}
	return a.cooldownDuration
}

// CanActivate reports whether TryActivate would currently succeed.
func (a *Ability) CanActivate(ctx Context) bool {
	if a.level <= 0 || ctx.Owner == nil {
		return false
	}

	switch s := a.state.(type) {
	case *dashState:
		return s.charges > 0
	case *magicState:
		return s.canAdvance(a, ctx)
	}

	if !a.ready {
		return false
	}
	if a.shouldConsumeMana() && ctx.Owner.Mana() < a.manaCost {
		return false
	}
	return true
}

// TryActivate attempts to activate the ability and reports whether it did.
func (a *Ability) TryActivate(ctx Context) bool {
	if a.managesLifecycle() && a.activated {
		return false
	}
	if !a.CanActivate(ctx) {
		return false
	}

	if a.managesLifecycle() {
		s := a.state.(*magicState)
		s.advance(a, ctx)
		a.activated = true
		return true
	}

	if a.shouldConsumeMana() {
		ctx.Owner.SpendMana(a.manaCost)
	}
	a.onActivate(ctx)
	if a.manaPolicy == ManaBeforeAndAfter && a.shouldConsumeMana() {
		ctx.Owner.SpendMana(a.manaCost)
	}

	if a.shouldStartCooldown() {
		a.ready = false
		a.cooldownTimer = 0
	}
	if a.shouldBecomeActive() {
		a.active = true
		a.durationTimer = 0
	}
	a.activated = true
	return true
}

func (a *Ability) onActivate(ctx Context) {
	switch s := a.state.(type) {
	case *meleeState:
		s.begin(a, ctx)
	case *dashState:
		s.begin(a, ctx)
	}
}

func (a *Ability) onDeactivate(ctx Context) {
	if d, ok := ctx.Owner.(Deactivator); ok {
		d.AbilityDeactivated(a.id)
	}
}

// Update advances the active window and the cooldown independently.
func (a *Ability) Update(dt float64, ctx Context) {
	// A cooldown entered during this update starts counting next tick.
	cooling := a.coolingDown()

	switch s := a.state.(type) {
	case *meleeState:
		s.update(a, dt, ctx)
	case *dashState:
		s.update(dt)
	case *magicState:
		s.update(a, dt)
	}

	if a.active && !a.managesLifecycle() {
		a.durationTimer += dt
		if a.durationTimer >= a.duration {
			a.durationTimer = 0
			a.active = false
			a.onDeactivate(ctx)
		}
	}

	if cooling && a.coolingDown() {
		target := a.cooldownTarget()
		a.cooldownTimer += dt
		if a.cooldownTimer >= target {
			a.cooldownTimer = target
			a.ready = true
			if s, ok := a.state.(*magicState); ok {
				s.finishCooldown()
			}
		}
	}

	a.activated = false
}

// EndTick closes the input window of the current tick. Drivers call it
// once per frame even when Update does not run.
func (a *Ability) EndTick() {
	a.activated = false
}

// Upgrade raises the level by one and reports whether it did.
func (a *Ability) Upgrade() bool {
	if a.level >= a.maxLevel {
		return false
	}
	a.level++
	a.applyLevel()
	return true
}

// applyLevel recomputes level-derived stats.
func (a *Ability) applyLevel() {
	switch s := a.state.(type) {
	case *dashState:
		s.applyLevel(a)
	case *magicState:
		s.applyLevel(a)
	}
	if a.cooldownTimer > a.cooldownTarget() {
		a.cooldownTimer = a.cooldownTarget()
	}
}

// ForceReset returns the ability to a ready, inactive state with both timers zeroed.
func (a *Ability) ForceReset() {
	a.ready = true
	a.active = false
	a.cooldownTimer = 0
	a.durationTimer = 0
	a.activated = false

	switch s := a.state.(type) {
	case *meleeState:
		s.reset()
	case *dashState:
		s.reset()
	case *magicState:
		s.reset()
	}
}
