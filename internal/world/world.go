// Package world implements the per-frame tick engine of the maze runtime.
//
// A World owns every live entity of a session (players, enemies, traps,
// items, exit doors, dynamic obstacles and projectiles), advances them in a
// fixed order once per Update, resolves combat and movement, and runs the
// two-phase save/restore protocol. It is single-threaded: exactly one driver
// (the terminal UI or the headless simulator) owns a World at a time.
package world

import (
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
)

var (
	ErrNilDifficulty      = errors.New("world: difficulty is required")
	ErrNilLevelSource     = errors.New("world: level source is required")
	ErrRestoreLocked      = errors.New("world: restore in progress")
	ErrNoPendingRestore   = errors.New("world: no pending restore")
	ErrNoStore            = errors.New("world: no save store configured")
	ErrNilSaveData        = errors.New("world: save data is required")
	ErrEmptyGrid          = errors.New("world: level source returned an empty grid")
	ErrDifficultyMismatch = errors.New("world: save belongs to another difficulty")
)

// LevelSource produces the walkability grid for a level.
type LevelSource interface {
	Grid(level int, diff *config.DifficultyConfig) core.Grid
}

// Services are the collaborators a World talks to. Only Levels is required.
type Services struct {
	Logger *log.Logger
	Events *events.Bus
	Store  SaveStore
	Levels LevelSource
}

// Options configure a session.
type Options struct {
	Engine     config.EngineConfig
	Difficulty *config.DifficultyConfig
	TwoPlayer  bool
	Seed       int64
	Target     SaveTarget // slot bound to this session
}

// Stats is the progress bookkeeping carried in snapshots.
type Stats struct {
	Kills          int `msgpack:"kills,omitempty"`
	DashKills      int `msgpack:"dash_kills,omitempty"`
	ItemsCollected int `msgpack:"items,omitempty"`
	LevelsCleared  int `msgpack:"levels,omitempty"`
	DamageTaken    int `msgpack:"damage,omitempty"`
}

// transition tracks an exit door being walked through.
type transition struct {
	door  *ExitDoor
	timer float64
}

// revival tracks the co-op revival countdown for one dead player.
type revival struct {
	active bool
	target core.PlayerIndex
	timer  float64
}

// World is the tick engine.
type World struct {
	svc       Services
	log       *log.Logger
	engine    config.EngineConfig
	diff      *config.DifficultyConfig
	twoPlayer bool
	seed      int64
	rng       *rand.Rand
	sessionID string
	target    SaveTarget

	// Level state
	grid  core.Grid
	level int
	spawn core.Point

	// Entity collections; each entity lives in exactly one of them.
	players     [core.MaxPlayers]*Player
	enemies     []*Enemy
	traps       []*Trap
	items       []*Item
	doors       []*ExitDoor
	obstacles   []*Obstacle
	projectiles []*Projectile
	nextID      uint64

	input    core.MultiInputFrame
	attacker core.PlayerIndex // player whose abilities are running

	// Freeze and effect timers
	hitStop      float64
	shake        float64
	dialogPaused bool
	menuPaused   bool
	transition   *transition
	revival      revival
	gameOver     bool

	// Save/restore
	mode          Mode
	pending       *pendingRestore
	autoSaveTimer float64
	lastAutoSave  *GameSaveData

	stats Stats
	ticks uint64
}

// New creates a world and starts a fresh game at level 1.
// A nil difficulty or level source is refused.
func New(svc Services, opts Options) (*World, error) {
	if opts.Difficulty == nil {
		return nil, ErrNilDifficulty
	}
	if svc.Levels == nil {
		return nil, ErrNilLevelSource
	}
	if svc.Logger == nil {
		svc.Logger = log.New(io.Discard)
	}

	w := &World{
		svc:       svc,
		log:       svc.Logger,
		engine:    opts.Engine,
		diff:      opts.Difficulty,
		twoPlayer: opts.TwoPlayer,
		seed:      opts.Seed,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		sessionID: uuid.NewString(),
		target:    opts.Target,
		input:     core.NewMultiInputFrame(),
	}
	if w.engine.TickRate == 0 {
		w.engine = config.DefaultEngineConfig()
	}
	if err := w.startNewGame(); err != nil {
		return nil, err
	}
	return w, nil
}

// SetInput buffers the intents for the next Update. Input is consumed once.
func (w *World) SetInput(in core.MultiInputFrame) {
	w.input = in.Clone()
}

// SetDialogPaused suspends input dispatch while a dialog owns the screen.
func (w *World) SetDialogPaused(paused bool) {
	w.dialogPaused = paused
}

// Update advances the simulation by dt seconds exactly once.
func (w *World) Update(dt float64) {
	if dt <= 0 {
		return
	}
	w.ticks++

	// Stage 1: hit-stop freezes everything but cosmetic timers.
	if w.shake > 0 {
		w.shake = max(0, w.shake-dt)
	}
	if w.hitStop > 0 {
		w.hitStop = max(0, w.hitStop-dt)
		return
	}
	if w.mode != ModeIdle {
		return
	}

	// Stage 2: input.
	if !w.dialogPaused {
		w.dispatchInput()
	}
	w.input.Clear()
	for _, p := range w.players {
		if p != nil {
			p.abilities.EndTick()
		}
	}
	if w.menuPaused || w.gameOver {
		return
	}

	// Stage 3: level transition.
	if w.transition != nil {
		w.updateTransition(dt)
		return
	}

	// Stage 4: simulation.
	w.updatePlayers(dt)
	w.updateRevival(dt)
	w.updateTraps(dt)
	w.updateEnemies(dt)
	w.updateDoors(dt)
	w.updateProjectiles(dt)
	w.updateObstacles(dt)
	w.resolveCollisions()
	w.resolvePickups()
	w.resolveTrapSteps()
	w.checkGameOver()
	w.updateAutoSave(dt)
}

func (w *World) dispatchInput() {
	// Pause belongs to player one, alive or not.
	if w.input.Player(core.Player1).Has(core.ActionPause) {
		w.menuPaused = !w.menuPaused
	}
	if w.menuPaused {
		return
	}

	for _, p := range w.players {
		if p == nil || !p.Alive() {
			continue
		}
		frame := w.input.Player(p.Index)

		p.intent = frame.MoveDirection()
		p.pointer = nil
		if frame.Pointer != nil {
			tile := *frame.Pointer
			p.pointer = &tile
		}
		p.pointerCaptured = frame.PointerCaptured

		w.attacker = p.Index
		for slot, action := range core.SkillActions {
			if frame.Has(action) {
				p.abilities.ActivateSlot(slot)
			}
		}
		if frame.Has(core.ActionInteract) {
			w.interact(p)
		}
	}
}

func (w *World) updatePlayers(dt float64) {
	for _, p := range w.players {
		if p == nil || !p.Alive() {
			continue
		}
		w.attacker = p.Index
		p.update(dt)
	}
}

func (w *World) updateTransition(dt float64) {
	t := w.transition
	t.door.anim += dt
	t.timer += dt
	if t.timer < w.engine.TransitionDuration {
		return
	}
	w.transition = nil
	w.advanceLevel()
}

// beginTransition starts walking through door. It is a no-op while another
// transition runs.
func (w *World) beginTransition(door *ExitDoor) {
	if w.transition != nil {
		return
	}
	w.log.Debug("level transition", "level", w.level, "door", door.Tile)
	door.anim = 0
	w.transition = &transition{door: door}
}

// advanceLevel finishes the current level and queues the next one as a
// restore with an empty grid.
func (w *World) advanceLevel() {
	w.stats.LevelsCleared++
	w.svc.Events.Publish(events.LevelFinished{Level: w.level})

	next := w.Snapshot()
	next.Grid = nil
	next.Level = w.level + 1
	for i := range next.Players {
		next.Players[i].HasKey = false
	}
	if err := w.RequestRestore(next, w.target); err != nil {
		w.log.Error("cannot queue next level", "level", next.Level, "error", err)
	}
}

func (w *World) checkGameOver() {
	if w.gameOver {
		return
	}
	for _, p := range w.players {
		if p != nil && p.Alive() {
			return
		}
	}
	w.gameOver = true
	w.log.Info("game over", "level", w.level)
}

func (w *World) triggerHitStop(d float64) {
	w.hitStop = max(w.hitStop, d)
	w.shake = max(w.shake, w.engine.ShakeDuration)
}

func (w *World) newID() uint64 {
	w.nextID++
	return w.nextID
}

// Grid returns the live walkability grid. Callers must not modify it.
func (w *World) Grid() core.Grid { return w.grid }

// Level returns the current level number, starting at 1.
func (w *World) Level() int { return w.level }

// Difficulty returns the session difficulty.
func (w *World) Difficulty() *config.DifficultyConfig { return w.diff }

// TwoPlayer reports whether the session is co-op.
func (w *World) TwoPlayer() bool { return w.twoPlayer }

// SessionID returns the session identifier written into snapshots.
func (w *World) SessionID() string { return w.sessionID }

// Target returns the save slot bound to the session.
func (w *World) Target() SaveTarget { return w.target }

// Player returns the player with the given index, or nil.
func (w *World) Player(idx core.PlayerIndex) *Player {
	if idx < 0 || int(idx) >= len(w.players) {
		return nil
	}
	return w.players[idx]
}

// Players returns the existing players in index order.
func (w *World) Players() []*Player {
	var out []*Player
	for _, p := range w.players {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (w *World) Enemies() []*Enemy          { return w.enemies }
func (w *World) Traps() []*Trap             { return w.traps }
func (w *World) Items() []*Item             { return w.items }
func (w *World) Doors() []*ExitDoor         { return w.doors }
func (w *World) Obstacles() []*Obstacle     { return w.obstacles }
func (w *World) Projectiles() []*Projectile { return w.projectiles }

// Stats returns the progress bookkeeping.
func (w *World) Stats() Stats { return w.stats }

// Transitioning reports whether a level transition is running.
func (w *World) Transitioning() bool { return w.transition != nil }

// TransitionProgress returns the transition completion in [0, 1].
func (w *World) TransitionProgress() float64 {
	if w.transition == nil || w.engine.TransitionDuration <= 0 {
		return 0
	}
	return core.ClampF(w.transition.timer/w.engine.TransitionDuration, 0, 1)
}

// HitStopped reports whether a hit-stop freeze is running.
func (w *World) HitStopped() bool { return w.hitStop > 0 }

// Shake returns the remaining screen-shake time.
func (w *World) Shake() float64 { return w.shake }

// MenuPaused reports whether the pause intent froze the simulation.
func (w *World) MenuPaused() bool { return w.menuPaused }

// GameOver reports whether every player is dead.
func (w *World) GameOver() bool { return w.gameOver }

// RevivalCountdown returns the dead player being revived and the elapsed
// countdown, if a revival is in progress.
func (w *World) RevivalCountdown() (core.PlayerIndex, float64, bool) {
	return w.revival.target, w.revival.timer, w.revival.active
}

// RevivalDelay returns how long a co-op revival takes.
func (w *World) RevivalDelay() float64 { return w.engine.RevivalDelay }

// Ticks returns how many updates have run.
func (w *World) Ticks() uint64 { return w.ticks }
