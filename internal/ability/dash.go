package ability

// Dash tuning.
const (
	DashMaxLevel        = 5
	DashSpeedMultiplier = 2.5
)

// dashLevel holds the stats a dash has at one level.
type dashLevel struct {
	regenInterval      float64
	maxCharges         int
	duration           float64
	bonusInvincibility float64
}

// dashLevels is indexed by level-1. Each upgrade improves one stat.
var dashLevels = [DashMaxLevel]dashLevel{
	{regenInterval: 4.0, maxCharges: 2, duration: 0.20, bonusInvincibility: 0},
	{regenInterval: 3.5, maxCharges: 2, duration: 0.20, bonusInvincibility: 0},
	{regenInterval: 3.5, maxCharges: 3, duration: 0.20, bonusInvincibility: 0},
	{regenInterval: 3.5, maxCharges: 3, duration: 0.30, bonusInvincibility: 0},
	{regenInterval: 3.0, maxCharges: 3, duration: 0.30, bonusInvincibility: 0.25},
}

// dashState is a charge pool. The base cooldown fields stay at zero; the
// pool regenerates one charge per interval while below the cap.
type dashState struct {
	charges            int
	maxCharges         int
	regenTimer         float64
	regenInterval      float64
	bonusInvincibility float64
}

func (*dashState) kind() Kind { return KindDash }

// NewDash creates the charge-gated dash.
func NewDash() *Ability {
	s := &dashState{}
	a := newAbility(IDDash, "Dash", DashMaxLevel, s)
	s.applyLevel(a)
	s.charges = s.maxCharges
	return a
}

func (s *dashState) applyLevel(a *Ability) {
	lvl := a.level
	if lvl < 1 {
		lvl = 1
	}
	if lvl > len(dashLevels) {
		lvl = len(dashLevels)
	}
	stats := dashLevels[lvl-1]
	s.regenInterval = stats.regenInterval
	s.maxCharges = stats.maxCharges
	s.bonusInvincibility = stats.bonusInvincibility
	a.duration = stats.duration
	if s.charges > s.maxCharges {
		s.charges = s.maxCharges
	}
	if a.durationTimer > a.duration {
		a.durationTimer = a.duration
	}
}

func (s *dashState) begin(a *Ability, ctx Context) {
	s.charges--
	ctx.Owner.GrantDash(DashEffect{
		Duration:           a.duration,
		SpeedMultiplier:    DashSpeedMultiplier,
		BonusInvincibility: s.bonusInvincibility,
	})
}

// update regenerates exactly one charge per full interval while below the cap.
func (s *dashState) update(dt float64) {
	if s.charges >= s.maxCharges {
		s.regenTimer = 0
		return
	}
	s.regenTimer += dt
	for s.regenTimer >= s.regenInterval && s.charges < s.maxCharges {
		s.regenTimer -= s.regenInterval
		s.charges++
	}
	if s.charges >= s.maxCharges {
		s.regenTimer = 0
	}
}

func (s *dashState) reset() {
	s.charges = s.maxCharges
	s.regenTimer = 0
}

// Charges returns the dash charges available, or 0 for other kinds.
func (a *Ability) Charges() int {
	if s, ok := a.state.(*dashState); ok {
		return s.charges
	}
	return 0
}

// MaxCharges returns the dash charge cap, or 0 for other kinds.
func (a *Ability) MaxCharges() int {
	if s, ok := a.state.(*dashState); ok {
		return s.maxCharges
	}
	return 0
}

// RegenInterval returns the seconds needed to regenerate one dash charge.
func (a *Ability) RegenInterval() float64 {
	if s, ok := a.state.(*dashState); ok {
		return s.regenInterval
	}
	return 0
}

// BonusInvincibility returns the post-dash invincibility granted at this level.
func (a *Ability) BonusInvincibility() float64 {
	if s, ok := a.state.(*dashState); ok {
		return s.bonusInvincibility
	}
	return 0
}
