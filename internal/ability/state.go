package ability

import (
	"fmt"

	"github.com/vovakirdan/tui-maze/internal/core"
)

// StateVersion is the current version of the ability save record.
const StateVersion = 1

// State is the persisted form of one ability: the common lifecycle fields
// plus exactly one kind-specific record.
//
// Zero values are the fresh defaults (Cooling=false means ready,
// ChargesSpent=0 means a full pool), so records written by older builds
// that lack a field decode into sensible state.
type State struct {
	Version       int     `msgpack:"v,omitempty" json:"v,omitempty"`
	Kind          Kind    `msgpack:"kind,omitempty" json:"kind,omitempty"`
	Level         int     `msgpack:"level,omitempty" json:"level,omitempty"`
	Cooling       bool    `msgpack:"cooling,omitempty" json:"cooling,omitempty"`
	Active        bool    `msgpack:"active,omitempty" json:"active,omitempty"`
	CooldownTimer float64 `msgpack:"cd,omitempty" json:"cd,omitempty"`
	DurationTimer float64 `msgpack:"dur,omitempty" json:"dur,omitempty"`

	Melee *MeleeState `msgpack:"melee,omitempty" json:"melee,omitempty"`
	Dash  *DashState  `msgpack:"dash,omitempty" json:"dash,omitempty"`
	Magic *MagicState `msgpack:"magic,omitempty" json:"magic,omitempty"`
}

// MeleeState persists a swing that had not landed yet.
type MeleeState struct {
	Pending     bool         `msgpack:"pending,omitempty" json:"pending,omitempty"`
	StrikeTimer float64      `msgpack:"strike,omitempty" json:"strike,omitempty"`
	Tiles       []core.Point `msgpack:"tiles,omitempty" json:"tiles,omitempty"`
}

// DashState persists the charge pool.
type DashState struct {
	ChargesSpent int     `msgpack:"spent,omitempty" json:"spent,omitempty"`
	RegenTimer   float64 `msgpack:"regen,omitempty" json:"regen,omitempty"`
}

// MagicState persists the cast machine.
type MagicState struct {
	Phase      Phase   `msgpack:"phase,omitempty" json:"phase,omitempty"`
	PhaseTimer float64 `msgpack:"pt,omitempty" json:"pt,omitempty"`
	AimX       int     `msgpack:"ax,omitempty" json:"ax,omitempty"`
	AimY       int     `msgpack:"ay,omitempty" json:"ay,omitempty"`
	HitCount   int     `msgpack:"hits,omitempty" json:"hits,omitempty"`
	Cooldown   float64 `msgpack:"pcd,omitempty" json:"pcd,omitempty"`
}

// SaveState captures the ability into a fresh, independent record.
func (a *Ability) SaveState() State {
	st := State{
		Version:       StateVersion,
		Kind:          a.Kind(),
		Level:         a.level,
		Cooling:       !a.ready,
		Active:        a.active,
		CooldownTimer: a.cooldownTimer,
		DurationTimer: a.durationTimer,
	}

	switch s := a.state.(type) {
	case *meleeState:
		st.Melee = &MeleeState{
			Pending:     s.pending,
			StrikeTimer: s.strikeTimer,
			Tiles:       append([]core.Point(nil), s.tiles...),
		}
	case *dashState:
		st.Dash = &DashState{
			ChargesSpent: s.maxCharges - s.charges,
			RegenTimer:   s.regenTimer,
		}
	case *magicState:
		st.Magic = &MagicState{
			Phase:      s.phase,
			PhaseTimer: s.phaseTimer,
			AimX:       s.aim.X,
			AimY:       s.aim.Y,
			HitCount:   s.hitCount,
			Cooldown:   s.cooldown,
		}
	}
	return st
}

// LoadState restores a record produced by SaveState. Missing fields keep
// their defaults and out-of-range values are clamped back into the
// ability's invariants. A Level of zero means "not recorded" and keeps the
// current level.
func (a *Ability) LoadState(st State) error {
	if st.Kind != KindUnknown && st.Kind != a.Kind() {
		return fmt.Errorf("%w: %s record for %s ability %q", ErrKindMismatch, st.Kind, a.Kind(), a.id)
	}

	a.ForceReset()
	if st.Level > 0 {
		a.level = core.Clamp(st.Level, 0, a.maxLevel)
	}
	a.applyLevel()

	a.ready = !st.Cooling
	a.active = st.Active

	switch s := a.state.(type) {
	case *meleeState:
		if st.Melee != nil {
			s.pending = st.Melee.Pending
			s.strikeTimer = core.ClampF(st.Melee.StrikeTimer, 0, MeleeStrikeDelay)
			s.tiles = append([]core.Point(nil), st.Melee.Tiles...)
		}
		a.active = false
	case *dashState:
		if st.Dash != nil {
			s.charges = core.Clamp(s.maxCharges-st.Dash.ChargesSpent, 0, s.maxCharges)
			s.regenTimer = core.ClampF(st.Dash.RegenTimer, 0, s.regenInterval)
		}
		a.ready = true
	case *magicState:
		if st.Magic != nil {
			s.phase = st.Magic.Phase
			s.phaseTimer = max(0, st.Magic.PhaseTimer)
			s.aim = core.Point{X: st.Magic.AimX, Y: st.Magic.AimY}
			s.hitCount = max(0, st.Magic.HitCount)
			s.cooldown = core.ClampF(st.Magic.Cooldown, 0, a.cooldownDuration)
		}
		if s.phase < PhaseIdle || s.phase > PhaseCooldown {
			// Unknown phases have no successor; start over.
			s.reset()
		}
		a.ready = s.phase == PhaseIdle
		a.active = s.phase == PhaseAiming || s.phase == PhaseExecuted
	}

	target := a.cooldownTarget()
	a.cooldownTimer = core.ClampF(st.CooldownTimer, 0, target)
	if a.coolingDown() && a.cooldownTimer >= target {
		// A finished cooldown is ready by definition.
		a.ready = true
		if s, ok := a.state.(*magicState); ok {
			s.finishCooldown()
		}
	}

	if a.active && !a.managesLifecycle() {
		if a.duration <= 0 {
			a.active = false
			a.durationTimer = 0
		} else {
			a.durationTimer = core.ClampF(st.DurationTimer, 0, a.duration)
		}
	} else {
		a.durationTimer = 0
	}
	return nil
}
