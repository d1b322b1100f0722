// Package storage provides SQLite-based persistence for match history.
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

	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/multiplayer"
)

// End reasons for matches that were not decided online.
const (
	EndReasonCompleted = "completed" // Decided by the match rules
	EndReasonStopped   = "stopped"   // Ended by the player before the rules decided it
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchRecord is one finished match.
type MatchRecord struct {
	ID           int64
	MatchID      string
	GameID       string
	Mode         match.Mode
	Value        uint32
	LeftGoals    uint32
	RightGoals   uint32
	Result       match.Result
	EndReason    string
	DurationSecs int
	LeftName     string
	RightName    string
	CreatedAt    time.Time
}

// Settings rebuilds the match settings the record was played with.
func (r MatchRecord) Settings() (match.Settings, error) {
	return match.NewSettings(r.Mode, r.Value)
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
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			value INTEGER NOT NULL DEFAULT 0,
			left_goals INTEGER NOT NULL DEFAULT 0,
			right_goals INTEGER NOT NULL DEFAULT 0,
			result TEXT NOT NULL,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			left_name TEXT NOT NULL DEFAULT '',
			right_name TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_mode ON matches(mode);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
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

// SaveMatch records a finished match. A missing MatchID is generated.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(rec MatchRecord) (int64, error) {
	if !rec.Mode.Valid() {
		return 0, fmt.Errorf("storage: cannot save match: %w", match.ErrInvalidUsage)
	}
	if rec.MatchID == "" {
		rec.MatchID = uuid.NewString()
	}
	if rec.EndReason == "" {
		rec.EndReason = EndReasonCompleted
	}

	res, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, game_id, mode, value, left_goals, right_goals, result, end_reason, duration_secs, left_name, right_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID,
		rec.GameID,
		rec.Mode.Key(),
		rec.Value,
		rec.LeftGoals,
		rec.RightGoals,
		resultKey(rec.Result),
		rec.EndReason,
		rec.DurationSecs,
		rec.LeftName,
		rec.RightName,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const selectMatch = `SELECT id, match_id, game_id, mode, value, left_goals, right_goals,
		        result, end_reason, duration_secs, left_name, right_name, created_at
		 FROM matches`

// MatchByID retrieves a match by its match ID. Returns nil if not found.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	rec, err := scanMatch(s.db.QueryRow(selectMatch+` WHERE match_id = ?`, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &rec, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(selectMatch+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// MatchesByMode retrieves the most recent matches played in one mode.
func (s *Store) MatchesByMode(mode match.Mode, limit int) ([]MatchRecord, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("storage: cannot query matches: %w", match.ErrInvalidUsage)
	}
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(selectMatch+` WHERE mode = ? ORDER BY created_at DESC, id DESC LIMIT ?`, mode.Key(), limit)
}

// ClearMatches deletes all match history.
func (s *Store) ClearMatches() error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

func (s *Store) queryMatches(query string, args ...any) ([]MatchRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchRecord, error) {
	var (
		rec       MatchRecord
		mode      string
		result    string
		createdAt any
	)
	if err := row.Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.GameID,
		&mode,
		&rec.Value,
		&rec.LeftGoals,
		&rec.RightGoals,
		&result,
		&rec.EndReason,
		&rec.DurationSecs,
		&rec.LeftName,
		&rec.RightName,
		&createdAt,
	); err != nil {
		return MatchRecord{}, err
	}

	m, err := match.ParseMode(mode)
	if err != nil {
		return MatchRecord{}, err
	}
	rec.Mode = m
	rec.Result = parseResult(result)
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
// This adapter allows the coordinator to save match results without direct storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveMatch(MatchRecord{
		MatchID:      data.MatchID,
		GameID:       data.GameID,
		Mode:         data.Settings.Mode(),
		Value:        data.Settings.Value(),
		LeftGoals:    data.LeftGoals,
		RightGoals:   data.RightGoals,
		Result:       data.Result,
		EndReason:    data.EndReason,
		DurationSecs: data.DurationSecs,
		LeftName:     data.LeftName,
		RightName:    data.RightName,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

// ModeStats contains aggregated results for one mode.
type ModeStats struct {
	Mode       match.Mode
	Matches    int
	LeftWins   int
	RightWins  int
	Ties       int
	Goals      int64
	LastPlayed time.Time
}

// Stats retrieves aggregated results per mode, in mode order.
func (s *Store) Stats() ([]ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode,
		        COUNT(*),
		        SUM(CASE WHEN result = 'left' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN result = 'right' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN result = 'tie' THEN 1 ELSE 0 END),
		        SUM(left_goals + right_goals),
		        MAX(created_at)
		 FROM matches
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	byMode := make(map[match.Mode]ModeStats)
	for rows.Next() {
		var (
			st         ModeStats
			mode       string
			lastPlayed any
		)
		if err := rows.Scan(&mode, &st.Matches, &st.LeftWins, &st.RightWins, &st.Ties, &st.Goals, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m, err := match.ParseMode(mode)
		if err != nil {
			return nil, fmt.Errorf("storage: bad mode in history: %w", err)
		}
		st.Mode = m
		st.LastPlayed = parseTime(lastPlayed)
		byMode[m] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	var stats []ModeStats
	for _, m := range match.Modes {
		if st, ok := byMode[m]; ok {
			stats = append(stats, st)
		}
	}
	return stats, nil
}

func resultKey(r match.Result) string {
	switch r {
	case match.LeftPlayerWin:
		return "left"
	case match.RightPlayerWin:
		return "right"
	default:
		return "tie"
	}
}

func parseResult(s string) match.Result {
	switch s {
	case "left":
		return match.LeftPlayerWin
	case "right":
		return match.RightPlayerWin
	default:
		return match.Tie
	}
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
