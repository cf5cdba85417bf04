// Package sim drives a World without a terminal: scripted or random input,
// a fixed tick count, and a summary of what happened.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
	"github.com/vovakirdan/tui-maze/internal/world"
)

var ErrNilWorld = errors.New("sim: world is required")

// InputSource produces the input of one tick.
type InputSource interface {
	Next(tick uint64, w *world.World) core.MultiInputFrame
}

// Result is the outcome of a headless run.
type Result struct {
	Ticks    uint64
	Level    int
	GameOver bool
	Stats    world.Stats
	Totals   events.Totals
	Elapsed  time.Duration // wall time spent simulating
}

// Runner advances a world at a fixed step.
type Runner struct {
	world *world.World
	input InputSource
	bus   *events.Bus
	dt    float64
}

// NewRunner creates a runner. bus may be nil when nothing listens for events;
// otherwise it must be the bus the world publishes to.
func NewRunner(w *world.World, input InputSource, bus *events.Bus, cfg core.RuntimeConfig) (*Runner, error) {
	if w == nil {
		return nil, ErrNilWorld
	}
	if input == nil {
		input = Idle{}
	}
	return &Runner{world: w, input: input, bus: bus, dt: cfg.TickDelta()}, nil
}

// Run advances the world for at most ticks steps. It stops early on game
// over or when ctx is done.
func (r *Runner) Run(ctx context.Context, ticks uint64) (Result, error) {
	tally := events.NewTally()
	if r.bus != nil {
		defer tally.Attach(r.bus)()
	}

	start := time.Now()
	var res Result
	for res.Ticks < ticks && !r.world.GameOver() {
		if err := ctx.Err(); err != nil {
			return r.result(res, tally, start), err
		}
		if err := r.step(res.Ticks); err != nil {
			return r.result(res, tally, start), err
		}
		res.Ticks++
	}
	return r.result(res, tally, start), nil
}

func (r *Runner) step(tick uint64) error {
	r.world.SetInput(r.input.Next(tick, r.world))
	r.world.Update(r.dt)

	if r.world.PendingRestore() {
		if err := r.world.ApplyPendingRestore(); err != nil {
			return fmt.Errorf("sim: tick %d: %w", tick, err)
		}
	}
	return nil
}

func (r *Runner) result(res Result, tally *events.Tally, start time.Time) Result {
	res.Level = r.world.Level()
	res.GameOver = r.world.GameOver()
	res.Stats = r.world.Stats()
	res.Totals = tally.Totals()
	res.Elapsed = time.Since(start)
	return res
}

// Idle never presses anything.
type Idle struct{}

func (Idle) Next(uint64, *world.World) core.MultiInputFrame { return core.NewMultiInputFrame() }

var moves = [4]core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}

// Random holds a random direction for a while and presses random skills.
type Random struct {
	rng     *rand.Rand
	hold    [2]int
	heading [2]core.Action

	// SkillChance is the per-tick chance of pressing a random skill.
	SkillChance float64
}

// NewRandom creates a seeded random input source.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed)), SkillChance: 0.05}
}

func (r *Random) Next(_ uint64, w *world.World) core.MultiInputFrame {
	frame := core.NewMultiInputFrame()
	for _, p := range w.Players() {
		i := int(p.Index)
		if r.hold[i] <= 0 {
			r.heading[i] = moves[r.rng.Intn(len(moves))]
			r.hold[i] = 5 + r.rng.Intn(20)
		}
		r.hold[i]--

		f := core.NewInputFrame()
		f.Set(r.heading[i])
		if r.rng.Float64() < r.SkillChance {
			f.Set(core.SkillActions[r.rng.Intn(len(core.SkillActions))])
		}
		if p.HasKey() {
			f.Set(core.ActionInteract)
		}
		frame.SetPlayer(p.Index, f)
	}
	return frame
}
