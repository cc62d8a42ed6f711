// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is the summary of one finished simulation run.
type Run struct {
	ID            string // UUID, assigned by SaveRun when empty
	ScenarioID    string
	Seed          int64
	Ticks         int64
	Destroyed     int
	Damaged       int
	Detached      int
	Depressurized int
	CannonShots   int
	GunnerShots   int
	EndReason     string // "crippled", "tick_limit", "quit"
	DurationMs    int64  // Wall-clock duration
	CreatedAt     time.Time
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

	// Create parent directories
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
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scenario_id TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			destroyed INTEGER NOT NULL DEFAULT 0,
			damaged INTEGER NOT NULL DEFAULT 0,
			detached INTEGER NOT NULL DEFAULT 0,
			depressurized INTEGER NOT NULL DEFAULT 0,
			cannon_shots INTEGER NOT NULL DEFAULT 0,
			gunner_shots INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario_id ON runs(scenario_id);
		CREATE INDEX IF NOT EXISTS idx_runs_recent ON runs(scenario_id, created_at DESC);
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

const runColumns = `id, scenario_id, seed, ticks, destroyed, damaged, detached,
	depressurized, cannon_shots, gunner_shots, end_reason, duration_ms, created_at`

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, scenario_id, seed, ticks, destroyed, damaged, detached,
		  depressurized, cannon_shots, gunner_shots, end_reason, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.ScenarioID,
		r.Seed,
		r.Ticks,
		r.Destroyed,
		r.Damaged,
		r.Detached,
		r.Depressurized,
		r.CannonShots,
		r.GunnerShots,
		r.EndReason,
		r.DurationMs,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

// RunByID retrieves a run by its ID. Returns nil if no run matches.
func (s *Store) RunByID(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs, newest first. An empty
// scenarioID matches every scenario.
func (s *Store) RecentRuns(scenarioID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR scenario_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		scenarioID, scenarioID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes all runs of the given scenario.
func (s *Store) ClearRuns(scenarioID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scenario_id = ?", scenarioID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	ScenarioID    string
	Runs          int
	Crippled      int
	MostDestroyed int
	AvgTicks      float64
	TotalDetached int64
	LastPlayed    time.Time
}

// GetScenarioStats retrieves aggregated statistics for a scenario.
func (s *Store) GetScenarioStats(scenarioID string) (*ScenarioStats, error) {
	stats := &ScenarioStats{ScenarioID: scenarioID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN end_reason = 'crippled' THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(destroyed), 0),
		        COALESCE(AVG(ticks), 0),
		        COALESCE(SUM(detached), 0),
		        MAX(created_at)
		 FROM runs WHERE scenario_id = ?`,
		scenarioID,
	).Scan(&stats.Runs, &stats.Crippled, &stats.MostDestroyed, &stats.AvgTicks, &stats.TotalDetached, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllScenarioStats retrieves statistics for every scenario that has runs.
func (s *Store) GetAllScenarioStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(
		`SELECT scenario_id, COUNT(*),
		        SUM(CASE WHEN end_reason = 'crippled' THEN 1 ELSE 0 END),
		        MAX(destroyed), AVG(ticks), SUM(detached), MAX(created_at)
		 FROM runs
		 GROUP BY scenario_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all scenario stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ScenarioStats)
	for rows.Next() {
		var st ScenarioStats
		var lastPlayed any
		if err := rows.Scan(&st.ScenarioID, &st.Runs, &st.Crippled, &st.MostDestroyed, &st.AvgTicks, &st.TotalDetached, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.ScenarioID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var createdAt any
	err := sc.Scan(
		&r.ID,
		&r.ScenarioID,
		&r.Seed,
		&r.Ticks,
		&r.Destroyed,
		&r.Damaged,
		&r.Detached,
		&r.Depressurized,
		&r.CannonShots,
		&r.GunnerShots,
		&r.EndReason,
		&r.DurationMs,
		&createdAt,
	)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes returned by the driver.
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
