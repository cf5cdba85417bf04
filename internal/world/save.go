package world

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-maze/internal/ability"
	"github.com/vovakirdan/tui-maze/internal/core"
)

// SaveVersion is the current GameSaveData format version.
const SaveVersion = 1

// Mode is the save/restore state of a session.
type Mode int

const (
	// ModeIdle is normal play.
	ModeIdle Mode = iota
	// ModeRestorePending holds save data waiting for ApplyPendingRestore.
	// The simulation is frozen and full resets are rejected.
	ModeRestorePending
	// ModeApplying is set while the world is being rebuilt.
	ModeApplying
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeRestorePending:
		return "restore-pending"
	case ModeApplying:
		return "applying"
	default:
		return "unknown"
	}
}

// SaveTarget addresses a save slot: a numbered manual slot or the auto slot.
type SaveTarget struct {
	Slot int
	Auto bool
}

// AutoSlot is the slot used by periodic auto-saves.
var AutoSlot = SaveTarget{Auto: true}

// ManualSlot returns the numbered slot n.
func ManualSlot(n int) SaveTarget {
	return SaveTarget{Slot: n}
}

func (t SaveTarget) String() string {
	if t.Auto {
		return "auto"
	}
	return "slot " + strconv.Itoa(t.Slot)
}

// SaveStore persists snapshots.
type SaveStore interface {
	SaveGame(ctx context.Context, target SaveTarget, data *GameSaveData) error
	LoadGame(ctx context.Context, target SaveTarget) (*GameSaveData, error)
}

// GameSaveData is a self-contained snapshot of a session. An empty Grid
// marks a level transition: the level is regenerated instead of restored.
type GameSaveData struct {
	Version      int            `msgpack:"v"`
	SessionID    string         `msgpack:"session,omitempty"`
	Grid         core.Grid      `msgpack:"grid,omitempty"`
	Level        int            `msgpack:"level"`
	DifficultyID string         `msgpack:"difficulty,omitempty"`
	TwoPlayer    bool           `msgpack:"two_player,omitempty"`
	Players      []PlayerRecord `msgpack:"players,omitempty"`
	Stats        Stats          `msgpack:"stats,omitempty"`
	SavedAt      time.Time      `msgpack:"saved_at,omitempty"`
}

// PlayerRecord is the persisted form of a Player.
type PlayerRecord struct {
	Index     core.PlayerIndex `msgpack:"index"`
	X         int              `msgpack:"x"`
	Y         int              `msgpack:"y"`
	Lives     int              `msgpack:"lives"`
	MaxLives  int              `msgpack:"max_lives,omitempty"`
	Mana      int              `msgpack:"mana,omitempty"`
	HasKey    bool             `msgpack:"has_key,omitempty"`
	Buffs     Buffs            `msgpack:"buffs,omitempty"`
	Abilities ability.Loadout  `msgpack:"abilities,omitempty"`
}

// Clone returns a fully independent copy.
func (d *GameSaveData) Clone() *GameSaveData {
	if d == nil {
		return nil
	}
	out := *d
	out.Grid = d.Grid.Clone()
	out.Players = make([]PlayerRecord, len(d.Players))
	for i, r := range d.Players {
		out.Players[i] = r.clone()
	}
	return &out
}

func (r PlayerRecord) clone() PlayerRecord {
	out := r
	if r.Abilities.Abilities != nil {
		out.Abilities.Abilities = make(map[string]ability.State, len(r.Abilities.Abilities))
		for id, st := range r.Abilities.Abilities {
			if st.Melee != nil {
				m := *st.Melee
				m.Tiles = append([]core.Point(nil), st.Melee.Tiles...)
				st.Melee = &m
			}
			if st.Dash != nil {
				d := *st.Dash
				st.Dash = &d
			}
			if st.Magic != nil {
				m := *st.Magic
				st.Magic = &m
			}
			out.Abilities.Abilities[id] = st
		}
	}
	return out
}

type pendingRestore struct {
	data   *GameSaveData
	target SaveTarget
}

// Mode returns the save/restore state.
func (w *World) Mode() Mode { return w.mode }

// PendingRestore reports whether ApplyPendingRestore has work to do.
func (w *World) PendingRestore() bool { return w.mode == ModeRestorePending }

// LastAutoSave returns the most recent auto-save snapshot, or nil.
func (w *World) LastAutoSave() *GameSaveData { return w.lastAutoSave.Clone() }

// Snapshot captures the session into an independent record.
func (w *World) Snapshot() *GameSaveData {
	data := &GameSaveData{
		Version:      SaveVersion,
		SessionID:    w.sessionID,
		Grid:         w.grid.Clone(),
		Level:        w.level,
		DifficultyID: w.diff.ID,
		TwoPlayer:    w.twoPlayer,
		Stats:        w.stats,
		SavedAt:      time.Now().UTC(),
	}
	for _, p := range w.players {
		if p == nil {
			continue
		}
		data.Players = append(data.Players, PlayerRecord{
			Index:     p.Index,
			X:         p.tile.X,
			Y:         p.tile.Y,
			Lives:     p.lives,
			MaxLives:  p.maxLives,
			Mana:      p.mana,
			HasKey:    p.hasKey,
			Buffs:     p.buffs,
			Abilities: p.abilities.SaveState(),
		})
	}
	return data
}

// RequestRestore records data for a later ApplyPendingRestore and freezes
// the simulation. It is rejected unless the session is idle.
func (w *World) RequestRestore(data *GameSaveData, target SaveTarget) error {
	if w.mode != ModeIdle {
		w.log.Warn("restore rejected", "mode", w.mode, "target", target)
		return fmt.Errorf("world: cannot restore from %s: %w", target, ErrRestoreLocked)
	}
	if data == nil {
		return ErrNilSaveData
	}
	if data.DifficultyID != "" && data.DifficultyID != w.diff.ID {
		w.log.Warn("restore rejected", "saved", data.DifficultyID, "session", w.diff.ID, "target", target)
		return fmt.Errorf("world: cannot restore %s save from %s into a %s session: %w",
			data.DifficultyID, target, w.diff.ID, ErrDifficultyMismatch)
	}
	w.pending = &pendingRestore{data: data.Clone(), target: target}
	w.mode = ModeRestorePending
	w.log.Debug("restore pending", "target", target, "level", data.Level)
	return nil
}

// ApplyPendingRestore rebuilds the world from the pending save data. The
// driver calls it once it is ready to show a freshly built world. Every
// player record is loaded before the world is touched, so a failed apply
// leaves the previous session intact.
func (w *World) ApplyPendingRestore() error {
	if w.mode != ModeRestorePending || w.pending == nil {
		return ErrNoPendingRestore
	}
	w.mode = ModeApplying
	pending := w.pending
	w.pending = nil
	defer func() { w.mode = ModeIdle }()

	data := pending.data
	level := max(1, data.Level)
	regenerate := data.Grid.Empty()
	respawn := regenerate || pending.target.Auto

	var grid core.Grid
	if regenerate {
		grid = w.svc.Levels.Grid(level, w.diff)
		if grid.Empty() {
			return fmt.Errorf("world: level %d: %w", level, ErrEmptyGrid)
		}
	} else {
		grid = data.Grid.Clone()
	}

	var (
		players  [core.MaxPlayers]*Player
		recorded [core.MaxPlayers]*core.Point
	)
	keyHeld := false
	for _, r := range data.Players {
		if r.Index < 0 || int(r.Index) >= core.MaxPlayers || players[r.Index] != nil {
			w.log.Warn("skipping player record", "index", r.Index)
			continue
		}
		p, err := w.restorePlayer(r, regenerate)
		if err != nil {
			w.log.Error("restore failed", "target", pending.target, "error", err)
			return err
		}
		players[r.Index] = p
		if !respawn {
			tile := core.P(r.X, r.Y)
			recorded[r.Index] = &tile
		}
		keyHeld = keyHeld || r.HasKey
	}
	if players[core.Player1] == nil {
		p, err := w.newPlayer(core.Player1, core.Point{})
		if err != nil {
			return fmt.Errorf("world: cannot create %s: %w", core.Player1, err)
		}
		players[core.Player1] = p
	}

	// Commit.
	w.resetTransient()
	w.grid = grid
	w.level = level
	w.twoPlayer = data.TwoPlayer
	w.stats = data.Stats
	if data.SessionID != "" {
		w.sessionID = data.SessionID
	}
	w.populateLevel(!keyHeld)

	w.players = [core.MaxPlayers]*Player{}
	for i, p := range players {
		if p == nil {
			continue
		}
		if at := recorded[i]; at != nil && w.CanMoveTo(at.X, at.Y) && w.playerAt(*at, nil) == nil {
			p.place(*at)
		} else {
			p.place(w.spawnTile())
		}
		w.players[i] = p
	}

	w.log.Info("world restored", "level", w.level, "target", pending.target, "regenerated", regenerate)
	return nil
}

// restorePlayer rebuilds one player from its record without placing it.
// A player that was down when the level ended starts the next one revived.
func (w *World) restorePlayer(r PlayerRecord, newLevel bool) (*Player, error) {
	p, err := w.newPlayer(r.Index, core.Point{})
	if err != nil {
		return nil, fmt.Errorf("world: cannot restore %s: %w", r.Index, err)
	}

	if r.MaxLives > 0 {
		p.maxLives = r.MaxLives
	}
	p.lives = core.Clamp(r.Lives, 0, p.maxLives)
	if newLevel && p.lives == 0 {
		p.lives = core.Clamp(w.engine.RevivalHealth, 1, p.maxLives)
	}
	p.mana = core.Clamp(r.Mana, 0, p.maxMana)
	p.hasKey = r.HasKey
	p.buffs = r.Buffs
	if err := p.abilities.LoadState(r.Abilities); err != nil {
		return nil, fmt.Errorf("world: cannot restore %s abilities: %w", r.Index, err)
	}
	return p, nil
}

// ResetGame starts over at level 1. It is rejected while a restore is
// pending or being applied.
func (w *World) ResetGame() error {
	if w.mode != ModeIdle {
		w.log.Warn("reset rejected", "mode", w.mode)
		return fmt.Errorf("world: cannot reset: %w", ErrRestoreLocked)
	}
	return w.startNewGame()
}

func (w *World) updateAutoSave(dt float64) {
	if w.engine.AutoSaveInterval <= 0 {
		return
	}
	w.autoSaveTimer += dt
	if w.autoSaveTimer < w.engine.AutoSaveInterval {
		return
	}
	w.autoSaveTimer = 0
	w.AutoSave()
}

// AutoSave takes a snapshot into the auto slot and reports whether it did.
// It is a no-op during a restore or transition, or while player one is down.
// Store failures are logged and never escalated.
func (w *World) AutoSave() bool {
	if w.mode != ModeIdle || w.transition != nil {
		return false
	}
	if p := w.players[core.Player1]; p == nil || !p.Alive() {
		w.log.Debug("auto-save skipped", "reason", "player one down")
		return false
	}

	data := w.Snapshot()
	w.lastAutoSave = data
	if w.svc.Store == nil {
		return true
	}
	if err := w.svc.Store.SaveGame(context.Background(), AutoSlot, data.Clone()); err != nil {
		w.log.Error("auto-save failed", "error", err)
	}
	return true
}

// SaveTo writes a snapshot to target.
func (w *World) SaveTo(ctx context.Context, target SaveTarget) error {
	if w.svc.Store == nil {
		return ErrNoStore
	}
	if w.mode != ModeIdle {
		return fmt.Errorf("world: cannot save to %s: %w", target, ErrRestoreLocked)
	}
	if err := w.svc.Store.SaveGame(ctx, target, w.Snapshot()); err != nil {
		return fmt.Errorf("world: cannot save to %s: %w", target, err)
	}
	return nil
}

// LoadFrom reads target and requests a restore from it.
func (w *World) LoadFrom(ctx context.Context, target SaveTarget) error {
	if w.svc.Store == nil {
		return ErrNoStore
	}
	if w.mode != ModeIdle {
		w.log.Warn("load rejected", "mode", w.mode, "target", target)
		return fmt.Errorf("world: cannot load %s: %w", target, ErrRestoreLocked)
	}
	data, err := w.svc.Store.LoadGame(ctx, target)
	if err != nil {
		return fmt.Errorf("world: cannot load %s: %w", target, err)
	}
	return w.RequestRestore(data, target)
}
