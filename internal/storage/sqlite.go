// Package storage provides SQLite-based persistence for save slots and
// finished runs. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-maze/internal/events"
	"github.com/vovakirdan/tui-maze/internal/world"
)

var (
	// ErrSlotEmpty is returned when loading a slot that holds no save.
	ErrSlotEmpty = errors.New("storage: save slot is empty")
	// ErrUnsupportedVersion is returned for saves written by a newer build.
	ErrUnsupportedVersion = errors.New("storage: unsupported save version")
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Ensure Store implements world.SaveStore
var _ world.SaveStore = (*Store)(nil)

// SaveInfo describes a stored save without decoding it.
type SaveInfo struct {
	Target       world.SaveTarget
	Level        int
	DifficultyID string
	TwoPlayer    bool
	SessionID    string
	SavedAt      time.Time
}

// RunRecord is the summary of a finished run.
type RunRecord struct {
	ID             int64
	SessionID      string
	DifficultyID   string
	TwoPlayer      bool
	Outcome        string // "cleared", "game_over", "quit"
	HighestLevel   int
	LevelsFinished int
	Kills          int
	DashKills      int
	Items          int
	DamageTaken    int
	Duration       time.Duration
	CreatedAt      time.Time
}

// NewRunRecord fills the counters of a run from event totals.
func NewRunRecord(sessionID, difficultyID string, twoPlayer bool, t events.Totals) RunRecord {
	return RunRecord{
		SessionID:      sessionID,
		DifficultyID:   difficultyID,
		TwoPlayer:      twoPlayer,
		HighestLevel:   t.HighestLevel,
		LevelsFinished: t.LevelsFinished,
		Kills:          t.Kills,
		DashKills:      t.DashKills,
		Items:          t.TotalItems(),
		DamageTaken:    t.DamageTaken,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			slot INTEGER NOT NULL,
			auto INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			two_player INTEGER NOT NULL DEFAULT 0,
			session_id TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL,
			data BLOB NOT NULL,
			saved_at INTEGER NOT NULL,
			PRIMARY KEY (slot, auto)
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			two_player INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			highest_level INTEGER NOT NULL DEFAULT 0,
			levels_finished INTEGER NOT NULL DEFAULT 0,
			kills INTEGER NOT NULL DEFAULT 0,
			dash_kills INTEGER NOT NULL DEFAULT 0,
			items INTEGER NOT NULL DEFAULT 0,
			damage_taken INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_difficulty ON runs(difficulty);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(difficulty, highest_level DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func slotKey(t world.SaveTarget) (slot int, auto bool) {
	if t.Auto {
		return 0, true
	}
	return t.Slot, false
}

// SaveGame writes data into target, replacing any previous save there.
func (s *Store) SaveGame(ctx context.Context, target world.SaveTarget, data *world.GameSaveData) error {
	if data == nil {
		return fmt.Errorf("storage: cannot save %s: %w", target, world.ErrNilSaveData)
	}
	blob, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("storage: cannot encode save: %w", err)
	}

	savedAt := data.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	slot, auto := slotKey(target)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, auto, level, difficulty, two_player, session_id, version, data, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot, auto) DO UPDATE SET
		   level = excluded.level,
		   difficulty = excluded.difficulty,
		   two_player = excluded.two_player,
		   session_id = excluded.session_id,
		   version = excluded.version,
		   data = excluded.data,
		   saved_at = excluded.saved_at`,
		slot, auto, data.Level, data.DifficultyID, data.TwoPlayer, data.SessionID,
		data.Version, blob, savedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save %s: %w", target, err)
	}
	return nil
}

// LoadGame reads the save in target.
func (s *Store) LoadGame(ctx context.Context, target world.SaveTarget) (*world.GameSaveData, error) {
	slot, auto := slotKey(target)
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM saves WHERE slot = ? AND auto = ?",
		slot, auto,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: %s: %w", target, ErrSlotEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load %s: %w", target, err)
	}

	var data world.GameSaveData
	if err := msgpack.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("storage: cannot decode %s: %w", target, err)
	}
	if data.Version > world.SaveVersion {
		return nil, fmt.Errorf("storage: %s has version %d: %w", target, data.Version, ErrUnsupportedVersion)
	}
	return &data, nil
}

// ListSaves returns every stored save, auto slot first, then by slot number.
func (s *Store) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, auto, level, difficulty, two_player, session_id, saved_at
		 FROM saves
		 ORDER BY auto DESC, slot ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var infos []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var savedAt int64
		if err := rows.Scan(&info.Target.Slot, &info.Target.Auto, &info.Level, &info.DifficultyID,
			&info.TwoPlayer, &info.SessionID, &savedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedAt).UTC()
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return infos, nil
}

// DeleteSave removes the save in target. Deleting an empty slot is not an error.
func (s *Store) DeleteSave(ctx context.Context, target world.SaveTarget) error {
	slot, auto := slotKey(target)
	if _, err := s.db.ExecContext(ctx, "DELETE FROM saves WHERE slot = ? AND auto = ?", slot, auto); err != nil {
		return fmt.Errorf("storage: cannot delete %s: %w", target, err)
	}
	return nil
}

// RecordRun stores a finished run.
// Returns the ID of the inserted record.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs
		 (session_id, difficulty, two_player, outcome, highest_level, levels_finished,
		  kills, dash_kills, items, damage_taken, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.DifficultyID,
		r.TwoPlayer,
		r.Outcome,
		r.HighestLevel,
		r.LevelsFinished,
		r.Kills,
		r.DashKills,
		r.Items,
		r.DamageTaken,
		int64(r.Duration/time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first. An empty
// difficulty matches every run.
func (s *Store) RecentRuns(ctx context.Context, difficulty string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, difficulty, two_player, outcome, highest_level, levels_finished,
		        kills, dash_kills, items, damage_taken, duration_secs, created_at
		 FROM runs
		 WHERE ? = '' OR difficulty = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		difficulty, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var durationSecs int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.SessionID,
			&r.DifficultyID,
			&r.TwoPlayer,
			&r.Outcome,
			&r.HighestLevel,
			&r.LevelsFinished,
			&r.Kills,
			&r.DashKills,
			&r.Items,
			&r.DamageTaken,
			&durationSecs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationSecs) * time.Second
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunStats contains aggregated statistics for one difficulty.
type RunStats struct {
	DifficultyID string
	Runs         int
	BestLevel    int
	TotalKills   int64
	AvgKills     float64
	LastPlayed   time.Time
}

// GetRunStats retrieves aggregated statistics for a difficulty. An empty
// difficulty aggregates every run.
func (s *Store) GetRunStats(ctx context.Context, difficulty string) (*RunStats, error) {
	stats := &RunStats{DifficultyID: difficulty}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(highest_level), 0), COALESCE(SUM(kills), 0), COALESCE(AVG(kills), 0)
		 FROM runs WHERE ? = '' OR difficulty = ?`,
		difficulty, difficulty,
	).Scan(&stats.Runs, &stats.BestLevel, &stats.TotalKills, &stats.AvgKills)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM runs WHERE ? = '' OR difficulty = ? ORDER BY id DESC LIMIT 1`,
		difficulty, difficulty,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// parseTime handles the datetime column as either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
