package poller

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/homeops-tools/clockify-bridge/internal/clockify"
	"github.com/homeops-tools/clockify-bridge/internal/config"
	"github.com/homeops-tools/clockify-bridge/internal/database"
	"github.com/homeops-tools/clockify-bridge/internal/engine"
)

// Poller owns the refresh cycle: it fetches entries and the work schedule
// from Clockify, runs the engine, keeps the latest snapshot, and persists
// history. Refresh runs are serialized; the engine itself never sees
// concurrent calls.
type Poller struct {
	cfg      *config.Config
	db       *database.DB
	client   *clockify.Client
	resolver *engine.ScheduleResolver
	cron     *cron.Cron

	mu     sync.Mutex
	latest *engine.Snapshot
	userID string
}

func NewPoller(cfg *config.Config, db *database.DB) *Poller {
	return &Poller{
		cfg:      cfg,
		db:       db,
		client:   clockify.NewClient(cfg.ClockifyAPIKey, cfg.WorkspaceID, cfg.ProxyURL),
		resolver: engine.NewScheduleResolver(),
	}
}

func (p *Poller) StartScheduler() {
	// Compute a snapshot immediately on startup
	if err := p.Refresh(); err != nil {
		slog.Error("initial refresh failed", "error", err)
	}

	loc := p.cfg.GetTimezone()
	p.cron = cron.New(cron.WithLocation(loc))

	_, err := p.cron.AddFunc(p.cfg.RefreshSchedule, func() {
		if err := p.Refresh(); err != nil {
			slog.Error("scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("failed to add cron job, falling back to 30s ticker", "schedule", p.cfg.RefreshSchedule, "error", err)
		// Fallback to simple ticker if cron expression is invalid
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				if err := p.Refresh(); err != nil {
					slog.Error("scheduled refresh failed", "error", err)
				}
			}
		}()
		return
	}

	slog.Info("scheduled refresh", "schedule", p.cfg.RefreshSchedule, "timezone", loc.String())
	p.cron.Start()
}

func (p *Poller) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}

// Latest returns the most recently computed snapshot, or nil before the
// first successful refresh.
func (p *Poller) Latest() *engine.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

func (p *Poller) ensureUser() (string, error) {
	p.mu.Lock()
	cached := p.userID
	p.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	user, err := p.client.GetUser()
	if err != nil {
		return "", fmt.Errorf("fetching user: %w", err)
	}

	p.mu.Lock()
	p.userID = user.ID
	p.mu.Unlock()
	slog.Info("resolved clockify user", "user_id", user.ID, "name", user.Name)
	return user.ID, nil
}

// Refresh performs one full recomputation: fetch, resolve, compute,
// persist. Schedule fetch failures degrade to the default schedule; entry
// fetch failures fail the run.
func (p *Poller) Refresh() error {
	runID := uuid.NewString()
	tz := p.cfg.GetTimezone()
	now := time.Now()

	userID, err := p.ensureUser()
	if err != nil {
		p.recordRun(runID, now, "failed", false, 0)
		return err
	}

	current, err := p.client.GetCurrentTimeEntry(userID)
	if err != nil {
		p.recordRun(runID, now, "failed", false, 0)
		return fmt.Errorf("fetching current timer: %w", err)
	}

	weekStart := engine.WeekStart(now, tz)
	entries, err := p.client.GetTimeEntries(userID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		p.recordRun(runID, now, "failed", false, 0)
		return fmt.Errorf("fetching time entries: %w", err)
	}

	raw, weekStartLabel, err := p.client.GetSchedule(userID)
	if err != nil {
		slog.Warn("schedule fetch failed, falling back to default", "run_id", runID, "error", err)
		raw = nil
	}
	schedule, usedDefault, warnings := p.resolver.Resolve(raw)
	if usedDefault {
		warnings = append(warnings, "schedule unavailable, using default (Mon-Fri, 8h/day)")
	}
	if weekStartLabel != "" && weekStartLabel != "MONDAY" {
		slog.Warn("workspace week start is not Monday; weeks are still bucketed Monday-start", "week_start", weekStartLabel)
	}

	snapshot := engine.Compute(engine.Input{
		Entries:  entries,
		Current:  current,
		Schedule: schedule,
		Now:      now,
		Location: tz,
	})
	warnings = append(warnings, snapshot.Warnings...)
	snapshot.Warnings = warnings

	for _, w := range warnings {
		slog.Warn(w, "run_id", runID)
	}

	p.mu.Lock()
	p.latest = &snapshot
	p.mu.Unlock()

	p.persist(runID, now, tz, &snapshot, usedDefault, warnings)

	slog.Info("refresh completed", "run_id", runID,
		"daily_seconds", snapshot.Daily.DurationSeconds,
		"weekly_seconds", snapshot.Weekly.DurationSeconds,
		"timer_active", snapshot.CurrentTimer.Status == "active")
	return nil
}

// persist writes history rows; storage errors are logged but never fail the
// refresh, the in-memory snapshot is already live.
func (p *Poller) persist(runID string, now time.Time, tz *time.Location, s *engine.Snapshot, usedDefault bool, warnings []string) {
	history := &database.DailyHistory{
		Day:                      engine.DayOf(now, tz),
		DailySeconds:             s.Daily.DurationSeconds,
		DailySecondsWithCurrent:  s.DailyTotal.DurationSeconds,
		WeeklySeconds:            s.Weekly.DurationSeconds,
		WeeklySecondsWithCurrent: s.WeeklyTotal.DurationSeconds,
		ExpectedDayHours:         s.Daily.ExpectedHours,
		ExpectedWeekHours:        s.Weekly.ExpectedHours,
		DayProgressPercent:       s.Daily.ProgressPercent,
		WeekProgressPercent:      s.Weekly.ProgressPercent,
	}
	if err := p.db.UpsertDailyHistory(history); err != nil {
		slog.Error("failed to persist daily history", "run_id", runID, "error", err)
	}
	if err := p.db.InsertWarnings(runID, warnings); err != nil {
		slog.Error("failed to persist warnings", "run_id", runID, "error", err)
	}
	p.recordRun(runID, now, "success", usedDefault, len(warnings))
}

func (p *Poller) recordRun(runID string, now time.Time, status string, usedDefault bool, warningCount int) {
	err := p.db.RecordRefresh(&database.Refresh{
		RunID:               runID,
		RefreshedAt:         now,
		Status:              status,
		UsedDefaultSchedule: usedDefault,
		WarningCount:        warningCount,
	})
	if err != nil {
		slog.Error("failed to record refresh", "run_id", runID, "error", err)
	}
}

// StartTimer starts a new Clockify time entry.
func (p *Poller) StartTimer(description, projectID string, billable bool) error {
	if _, err := p.ensureUser(); err != nil {
		return err
	}
	entry, err := p.client.StartTimer(description, projectID, billable)
	if err != nil {
		return err
	}
	slog.Info("timer started", "entry_id", entry.ID, "description", entry.Description)
	return nil
}

// StopTimer ends the running Clockify time entry.
func (p *Poller) StopTimer() error {
	userID, err := p.ensureUser()
	if err != nil {
		return err
	}
	entry, err := p.client.StopTimer(userID)
	if err != nil {
		return err
	}
	slog.Info("timer stopped", "entry_id", entry.ID)
	return nil
}
