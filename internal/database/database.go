package database

import (
	"database/sql"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	d := &DB{db}
	if err := d.migrate(); err != nil {
		return nil, err
	}

	slog.Info("database initialized", "path", path)
	return d, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		// Latest computed totals per day, overwritten on every refresh
		`CREATE TABLE IF NOT EXISTS daily_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			day DATE NOT NULL UNIQUE,
			daily_seconds INTEGER NOT NULL,
			daily_seconds_with_current INTEGER NOT NULL,
			weekly_seconds INTEGER NOT NULL,
			weekly_seconds_with_current INTEGER NOT NULL,
			expected_day_hours REAL NOT NULL,
			expected_week_hours REAL NOT NULL,
			day_progress_percent REAL NOT NULL,
			week_progress_percent REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_history_day ON daily_history(day)`,

		// One row per refresh run
		`CREATE TABLE IF NOT EXISTS refresh_log (
			run_id TEXT PRIMARY KEY,
			refreshed_at DATETIME NOT NULL,
			status TEXT NOT NULL,
			used_default_schedule INTEGER NOT NULL DEFAULT 0,
			warning_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_log_refreshed_at ON refresh_log(refreshed_at)`,

		// Engine warnings emitted during a refresh
		`CREATE TABLE IF NOT EXISTS warnings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_warnings_run_id ON warnings(run_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// DailyHistory is one persisted day of computed totals.
type DailyHistory struct {
	ID                       int64     `json:"id"`
	Day                      time.Time `json:"day"`
	DailySeconds             int64     `json:"daily_seconds"`
	DailySecondsWithCurrent  int64     `json:"daily_seconds_with_current"`
	WeeklySeconds            int64     `json:"weekly_seconds"`
	WeeklySecondsWithCurrent int64     `json:"weekly_seconds_with_current"`
	ExpectedDayHours         float64   `json:"expected_day_hours"`
	ExpectedWeekHours        float64   `json:"expected_week_hours"`
	DayProgressPercent       float64   `json:"day_progress_percent"`
	WeekProgressPercent      float64   `json:"week_progress_percent"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// Refresh is one row of the refresh log.
type Refresh struct {
	RunID               string    `json:"run_id"`
	RefreshedAt         time.Time `json:"refreshed_at"`
	Status              string    `json:"status"`
	UsedDefaultSchedule bool      `json:"used_default_schedule"`
	WarningCount        int       `json:"warning_count"`
}

// --- Daily history operations ---

func (db *DB) UpsertDailyHistory(h *DailyHistory) error {
	_, err := db.Exec(`
		INSERT INTO daily_history (day, daily_seconds, daily_seconds_with_current,
			weekly_seconds, weekly_seconds_with_current,
			expected_day_hours, expected_week_hours,
			day_progress_percent, week_progress_percent, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			daily_seconds = excluded.daily_seconds,
			daily_seconds_with_current = excluded.daily_seconds_with_current,
			weekly_seconds = excluded.weekly_seconds,
			weekly_seconds_with_current = excluded.weekly_seconds_with_current,
			expected_day_hours = excluded.expected_day_hours,
			expected_week_hours = excluded.expected_week_hours,
			day_progress_percent = excluded.day_progress_percent,
			week_progress_percent = excluded.week_progress_percent,
			updated_at = excluded.updated_at
	`, h.Day.Format("2006-01-02"), h.DailySeconds, h.DailySecondsWithCurrent,
		h.WeeklySeconds, h.WeeklySecondsWithCurrent,
		h.ExpectedDayHours, h.ExpectedWeekHours,
		h.DayProgressPercent, h.WeekProgressPercent, time.Now())
	return err
}

func (db *DB) GetDailyHistory(start, end time.Time) ([]DailyHistory, error) {
	rows, err := db.Query(`
		SELECT id, day, daily_seconds, daily_seconds_with_current,
			weekly_seconds, weekly_seconds_with_current,
			expected_day_hours, expected_week_hours,
			day_progress_percent, week_progress_percent, updated_at
		FROM daily_history WHERE day >= ? AND day <= ? ORDER BY day
	`, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []DailyHistory
	for rows.Next() {
		var h DailyHistory
		if err := rows.Scan(&h.ID, &h.Day, &h.DailySeconds, &h.DailySecondsWithCurrent,
			&h.WeeklySeconds, &h.WeeklySecondsWithCurrent,
			&h.ExpectedDayHours, &h.ExpectedWeekHours,
			&h.DayProgressPercent, &h.WeekProgressPercent, &h.UpdatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// --- Refresh log operations ---

func (db *DB) RecordRefresh(r *Refresh) error {
	usedDefault := 0
	if r.UsedDefaultSchedule {
		usedDefault = 1
	}
	_, err := db.Exec(`
		INSERT INTO refresh_log (run_id, refreshed_at, status, used_default_schedule, warning_count)
		VALUES (?, ?, ?, ?, ?)
	`, r.RunID, r.RefreshedAt, r.Status, usedDefault, r.WarningCount)
	return err
}

func (db *DB) GetLastRefresh() (*Refresh, error) {
	var r Refresh
	var usedDefault int
	err := db.QueryRow(`
		SELECT run_id, refreshed_at, status, used_default_schedule, warning_count
		FROM refresh_log ORDER BY refreshed_at DESC LIMIT 1
	`).Scan(&r.RunID, &r.RefreshedAt, &r.Status, &usedDefault, &r.WarningCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.UsedDefaultSchedule = usedDefault == 1
	return &r, nil
}

// --- Warning operations ---

func (db *DB) InsertWarnings(runID string, messages []string) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO warnings (run_id, message, created_at)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range messages {
		if _, err := stmt.Exec(runID, m, time.Now()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (db *DB) GetRecentWarnings(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT message FROM warnings ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
