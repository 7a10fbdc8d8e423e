// Package engine implements the time aggregation and progress-tracking
// core: bucketing Clockify entries into calendar days and Monday-start
// weeks, excluding breaks, handling the in-progress timer, and comparing
// totals against the work schedule. Everything here is a pure function of
// its inputs; fetching, persistence and scheduling live elsewhere.
package engine

import (
	"time"

	"github.com/homeops-tools/clockify-bridge/internal/models"
)

// Input is one recomputation request. The caller owns the entry set, the
// designated current entry (if any), the resolved schedule, the clock and
// the timezone; the engine holds no state between calls.
type Input struct {
	Entries  []models.TimeEntry
	Current  *models.TimeEntry
	Schedule models.WorkSchedule
	Now      time.Time
	Location *time.Location
}

// Snapshot is the full set of derived sensors from one recomputation pass.
type Snapshot struct {
	GeneratedAt  string                    `json:"generated_at"`
	CurrentTimer models.CurrentTimerSensor `json:"current_timer"`
	Daily        models.DailyTotalSensor   `json:"daily"`
	DailyTotal   models.DailyTotalSensor   `json:"daily_total"`
	Weekly       models.WeeklyTotalSensor  `json:"weekly"`
	WeeklyTotal  models.WeeklyTotalSensor  `json:"weekly_total"`
	Warnings     []string                  `json:"warnings,omitempty"`
}

// Compute runs one synchronous recomputation. Identical inputs (including
// Now) produce identical snapshots.
func Compute(in Input) Snapshot {
	tz := in.Location
	if tz == nil {
		tz = time.Local
	}

	today := DayOf(in.Now, tz)
	weekStart := WeekStart(in.Now, tz)
	weekEnd := WeekEnd(weekStart)

	dayRes, dayWarnings := AggregateDay(in.Entries, in.Current, today, in.Now, tz)
	weekRes, weekWarnings := AggregateWeek(in.Entries, in.Current, weekStart, in.Now, tz)

	dayProgress := DayProgress(in.Schedule, today.Weekday(), dayRes.TotalSeconds)
	dayProgressWithCurrent := DayProgress(in.Schedule, today.Weekday(), dayRes.TotalSecondsWithCurrent)

	weekProgress := WeekProgress(in.Schedule, weekStart, today,
		weekRes.TotalSeconds,
		toDateSeconds(weekRes.PerDaySeconds, weekStart, today, tz), tz)
	weekProgressWithCurrent := WeekProgress(in.Schedule, weekStart, today,
		weekRes.TotalSecondsWithCurrent,
		toDateSeconds(weekRes.PerDaySecondsWithCurrent, weekStart, today, tz), tz)

	currentInDay := in.Current != nil && !IsBreak(in.Current) && DayOf(in.Current.Start, tz).Equal(today)
	currentInWeek := in.Current != nil && !IsBreak(in.Current) && WeekStart(in.Current.Start, tz).Equal(weekStart)

	dailyTotal := buildDailySensor(today, dayRes.TotalSecondsWithCurrent, dayProgressWithCurrent)
	dailyTotal.IncludesCurrentTimer = boolPtr(currentInDay)
	dailyTotal.CompletedTimeSeconds = int64Ptr(dayRes.TotalSeconds)

	weeklyTotal := buildWeeklySensor(weekStart, weekEnd, weekRes.TotalSecondsWithCurrent,
		weekRes.PerDaySecondsWithCurrent, weekProgressWithCurrent, in.Schedule)
	weeklyTotal.IncludesCurrentTimer = boolPtr(currentInWeek)
	weeklyTotal.CompletedTimeSeconds = int64Ptr(weekRes.TotalSeconds)

	return Snapshot{
		GeneratedAt:  in.Now.In(tz).Format(time.RFC3339),
		CurrentTimer: buildCurrentTimer(in.Current, in.Now, tz),
		Daily:        buildDailySensor(today, dayRes.TotalSeconds, dayProgress),
		DailyTotal:   dailyTotal,
		Weekly:       buildWeeklySensor(weekStart, weekEnd, weekRes.TotalSeconds, weekRes.PerDaySeconds, weekProgress, in.Schedule),
		WeeklyTotal:  weeklyTotal,
		Warnings:     dedupe(append(dayWarnings, weekWarnings...)),
	}
}

// toDateSeconds sums per-day seconds from Monday through today inclusive.
// Outside the target week it degenerates to the full-week sum, mirroring
// the to-date expectation rule.
func toDateSeconds(perDay map[time.Weekday]int64, weekStart, today time.Time, tz *time.Location) int64 {
	start := DayOf(weekStart, tz)
	day := DayOf(today, tz)

	var total int64
	if day.Before(start) || day.After(WeekEnd(start)) {
		for _, secs := range perDay {
			total += secs
		}
		return total
	}
	for d := start; !d.After(day); d = d.AddDate(0, 0, 1) {
		total += perDay[d.Weekday()]
	}
	return total
}

func buildCurrentTimer(current *models.TimeEntry, now time.Time, tz *time.Location) models.CurrentTimerSensor {
	if current == nil {
		return models.CurrentTimerSensor{
			Status: "inactive",
			Tags:   []string{},
		}
	}

	secs := liveSeconds(current, now)
	sensor := models.CurrentTimerSensor{
		Status:          "active",
		Description:     strPtr(current.Description),
		StartTime:       strPtr(current.Start.In(tz).Format(time.RFC3339)),
		Duration:        strPtr(FormatHMS(secs)),
		DurationSeconds: int64Ptr(secs),
		Billable:        current.Billable,
		Tags:            append([]string{}, current.Tags...),
	}
	if current.Project != nil {
		sensor.ProjectID = strPtr(current.Project.ID)
		sensor.ProjectName = strPtr(current.Project.Name)
		sensor.ProjectColor = strPtr(current.Project.Color)
	}
	if current.Task != nil {
		sensor.TaskID = strPtr(current.Task.ID)
		sensor.TaskName = strPtr(current.Task.Name)
	}
	return sensor
}

func buildDailySensor(date time.Time, seconds int64, p models.ProgressResult) models.DailyTotalSensor {
	return models.DailyTotalSensor{
		Date:               date.Format("2006-01-02"),
		DurationSeconds:    seconds,
		DurationFormatted:  FormatHM(seconds),
		ExpectedHours:      p.ExpectedHours,
		ProgressPercent:    p.ProgressPercent,
		RemainingHours:     p.RemainingHours,
		RemainingFormatted: FormatHours(p.RemainingHours),
	}
}

func buildWeeklySensor(weekStart, weekEnd time.Time, seconds int64, perDay map[time.Weekday]int64, p models.WeekProgressResult, schedule models.WorkSchedule) models.WeeklyTotalSensor {
	sensor := models.WeeklyTotalSensor{
		WeekStart:          weekStart.Format("2006-01-02"),
		WeekEnd:            weekEnd.Format("2006-01-02"),
		DurationSeconds:    seconds,
		DurationFormatted:  FormatHM(seconds),
		ExpectedHours:      p.ExpectedHours,
		ProgressPercent:    p.ProgressPercent,
		RemainingHours:     p.RemainingHours,
		RemainingFormatted: FormatHours(p.RemainingHours),

		ExpectedHoursToDate:      p.ExpectedHoursToDate,
		ProgressPercentToDate:    p.ProgressPercentToDate,
		RemainingHoursToDate:     p.RemainingHoursToDate,
		RemainingFormattedToDate: FormatHours(p.RemainingHoursToDate),
		WorkingDays:              workingDayNames(schedule),
	}

	sensor.MondayHours = Round2(Hours(perDay[time.Monday]))
	sensor.MondayFormatted = FormatHM(perDay[time.Monday])
	sensor.TuesdayHours = Round2(Hours(perDay[time.Tuesday]))
	sensor.TuesdayFormatted = FormatHM(perDay[time.Tuesday])
	sensor.WednesdayHours = Round2(Hours(perDay[time.Wednesday]))
	sensor.WednesdayFormatted = FormatHM(perDay[time.Wednesday])
	sensor.ThursdayHours = Round2(Hours(perDay[time.Thursday]))
	sensor.ThursdayFormatted = FormatHM(perDay[time.Thursday])
	sensor.FridayHours = Round2(Hours(perDay[time.Friday]))
	sensor.FridayFormatted = FormatHM(perDay[time.Friday])
	sensor.SaturdayHours = Round2(Hours(perDay[time.Saturday]))
	sensor.SaturdayFormatted = FormatHM(perDay[time.Saturday])
	sensor.SundayHours = Round2(Hours(perDay[time.Sunday]))
	sensor.SundayFormatted = FormatHM(perDay[time.Sunday])

	return sensor
}

// workingDayNames lists the schedule's working days Monday first.
func workingDayNames(s models.WorkSchedule) []string {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	names := []string{}
	for _, d := range order {
		if s.WorkingDays[d] {
			names = append(names, d.String())
		}
	}
	return names
}

func dedupe(warnings []string) []string {
	if len(warnings) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(warnings))
	var out []string
	for _, w := range warnings {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }
