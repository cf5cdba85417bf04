package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
	"github.com/vovakirdan/tui-maze/internal/storage"
	"github.com/vovakirdan/tui-maze/internal/world"
)

const (
	// statusTicks is how long a status message stays on screen, in ticks.
	statusTicks = 120
	// moveHoldTicks keeps a move key pressed until the terminal repeats it.
	// Terminals report no key releases.
	moveHoldTicks = 8
)

// heldMove is the last movement key of one player.
type heldMove struct {
	action core.Action
	ticks  int
}

// Options configure a play session.
type Options struct {
	Runtime    core.RuntimeConfig
	Engine     config.EngineConfig
	Difficulty *config.DifficultyConfig
	TwoPlayer  bool
	Slot       world.SaveTarget
	Resume     bool // load Slot before the first tick

	Levels world.LevelSource
	Store  *storage.Store // optional
	Logger *log.Logger
}

// Model is the Bubble Tea model driving one world.
type Model struct {
	world  *world.World
	store  *storage.Store
	bus    *events.Bus
	tally  *events.Tally
	detach func()
	log    *log.Logger

	config  core.RuntimeConfig
	keys    GameKeyMap
	mapper  *KeyMapper
	help    help.Model
	input   core.MultiInputFrame
	held    map[core.PlayerIndex]heldMove
	pointer *core.Point

	status      string
	statusTimer int
	started     time.Time
	recorded    bool
	quitting    bool
}

// NewModel creates the world and the model around it.
func NewModel(opts Options) (Model, error) {
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = opts.Engine.TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	bus := events.NewBus()
	tally := events.NewTally()
	detach := tally.Attach(bus)

	var store world.SaveStore
	if opts.Store != nil {
		store = opts.Store
	}
	w, err := world.New(world.Services{
		Logger: logger.WithPrefix("world"),
		Events: bus,
		Store:  store,
		Levels: opts.Levels,
	}, world.Options{
		Engine:     opts.Engine,
		Difficulty: opts.Difficulty,
		TwoPlayer:  opts.TwoPlayer,
		Seed:       opts.Runtime.Seed,
		Target:     opts.Slot,
	})
	if err != nil {
		detach()
		return Model{}, err
	}

	keys := DefaultGameKeyMap()
	m := Model{
		world:   w,
		store:   opts.Store,
		bus:     bus,
		tally:   tally,
		detach:  detach,
		log:     logger,
		config:  opts.Runtime,
		keys:    keys,
		mapper:  NewKeyMapper(keys, opts.TwoPlayer),
		help:    help.New(),
		input:   core.NewMultiInputFrame(),
		held:    make(map[core.PlayerIndex]heldMove),
		started: time.Now(),
	}

	if opts.Resume {
		if err := w.LoadFrom(context.Background(), opts.Slot); err != nil {
			detach()
			return Model{}, err
		}
	}
	return m, nil
}

// World returns the driven world.
func (m Model) World() *world.World { return m.world }

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finishRun("quit")
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if err := m.world.SaveTo(ctx, m.world.Target()); err != nil {
			m.log.Warn("save failed", "target", m.world.Target(), "error", err)
			m.setStatus(fmt.Sprintf("save failed: %v", err))
		} else {
			m.setStatus("saved to " + m.world.Target().String())
		}
		return m, nil

	case key.Matches(msg, m.keys.Load):
		if err := m.world.LoadFrom(ctx, m.world.Target()); err != nil {
			m.log.Warn("load failed", "target", m.world.Target(), "error", err)
			m.setStatus(fmt.Sprintf("load failed: %v", err))
		} else {
			m.setStatus("loaded " + m.world.Target().String())
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart) && m.world.GameOver():
		m.restart()
		return m, nil
	}

	if idx, action := m.mapper.MapKey(msg); isMove(action) {
		m.held[idx] = heldMove{action: action, ticks: moveHoldTicks}
		return m, nil
	}
	m.mapper.MapKeyToMultiFrame(msg, &m.input)
	return m, nil
}

// handleMouse tracks the pointer tile for aimed skills. A left click casts
// player one's third skill at the pointer.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	gridTop := 1 + len(m.world.Players())
	tile := core.P(msg.X/cellWidth, msg.Y-gridTop)
	m.pointer = &tile

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		f := m.input.Player(core.Player1)
		f.Set(core.ActionSkill3)
		m.input.SetPlayer(core.Player1, f)
	}
	return m, nil
}

// handleTick advances the world one fixed step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	for idx, h := range m.held {
		f := m.input.Player(idx)
		f.Set(h.action)
		m.input.SetPlayer(idx, f)
		if h.ticks--; h.ticks <= 0 {
			delete(m.held, idx)
		} else {
			m.held[idx] = h
		}
	}
	if m.pointer != nil {
		f := m.input.Player(core.Player1)
		f.SetPointer(*m.pointer)
		m.input.SetPlayer(core.Player1, f)
	}

	m.world.SetInput(m.input)
	m.world.Update(m.config.TickDelta())
	m.input.Clear()

	if m.world.PendingRestore() {
		if err := m.world.ApplyPendingRestore(); err != nil {
			m.log.Error("restore failed", "error", err)
			m.setStatus(fmt.Sprintf("restore failed: %v", err))
		}
	}
	if m.world.GameOver() {
		m.finishRun("game_over")
	}

	if m.statusTimer > 0 {
		m.statusTimer--
		if m.statusTimer == 0 {
			m.status = ""
		}
	}
	return m, tickCmd(m.config.TickRate)
}

func isMove(a core.Action) bool {
	return a >= core.ActionUp && a <= core.ActionRight
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusTimer = statusTicks
}

// restart begins a fresh run after a game over.
func (m *Model) restart() {
	if err := m.world.ResetGame(); err != nil {
		if errors.Is(err, world.ErrRestoreLocked) {
			m.setStatus("cannot restart while loading")
			return
		}
		m.log.Error("restart failed", "error", err)
		m.setStatus(fmt.Sprintf("restart failed: %v", err))
		return
	}
	m.detach()
	m.tally = events.NewTally()
	m.detach = m.tally.Attach(m.bus)
	m.started = time.Now()
	m.recorded = false
}

// finishRun records the run once. Runs without any progress are skipped.
func (m *Model) finishRun(outcome string) {
	if m.recorded {
		return
	}
	m.recorded = true

	totals := m.tally.Totals()
	if m.store == nil || (totals.Kills == 0 && totals.LevelsFinished == 0 && totals.TotalItems() == 0) {
		return
	}
	run := storage.NewRunRecord(m.world.SessionID(), m.world.Difficulty().ID, m.world.TwoPlayer(), totals)
	run.Outcome = outcome
	run.Duration = time.Since(m.started)
	if _, err := m.store.RecordRun(context.Background(), run); err != nil {
		m.log.Warn("cannot record run", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderWorld(m.world, m.status) + "\n" + statusStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program for a play session.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	defer model.detach()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Pointer tile for aimed skills
	)

	_, err = p.Run()
	return err
}
