package engine

import (
	"fmt"
	"time"

	"github.com/homeops-tools/clockify-bridge/internal/models"
)

// terminatedSeconds returns the duration of a finished entry, or an error
// description for a malformed one (end before start).
func terminatedSeconds(e *models.TimeEntry) (int64, error) {
	d := e.End.Sub(e.Start)
	if d < 0 {
		return 0, fmt.Errorf("entry %s: end %s before start %s", e.ID, e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	return int64(d.Seconds()), nil
}

// liveSeconds returns the elapsed duration of the running entry, clamped to
// zero when the supplied clock is not past the start yet.
func liveSeconds(e *models.TimeEntry, now time.Time) int64 {
	d := now.Sub(e.Start)
	if d < 0 {
		return 0
	}
	return int64(d.Seconds())
}

// AggregateDay sums non-break durations of entries starting on targetDate.
// The designated current entry contributes its live duration to the
// with-current total only. Malformed entries are skipped and reported as
// warnings.
func AggregateDay(entries []models.TimeEntry, current *models.TimeEntry, targetDate time.Time, now time.Time, tz *time.Location) (models.AggregationResult, []string) {
	var res models.AggregationResult
	var warnings []string

	day := DayOf(targetDate, tz)

	for i := range entries {
		e := &entries[i]
		if current != nil && e.ID == current.ID {
			continue
		}
		if e.InProgress() {
			// Not the designated current entry; nothing to count yet.
			continue
		}
		secs, err := terminatedSeconds(e)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if IsBreak(e) {
			continue
		}
		if !DayOf(e.Start, tz).Equal(day) {
			continue
		}
		res.TotalSeconds += secs
		res.TotalSecondsWithCurrent += secs
	}

	if current != nil && !IsBreak(current) && DayOf(current.Start, tz).Equal(day) {
		res.TotalSecondsWithCurrent += liveSeconds(current, now)
	}

	return res, warnings
}

// AggregateWeek sums non-break durations of entries starting in the week
// beginning at weekStart, filling per-weekday buckets for all seven days.
func AggregateWeek(entries []models.TimeEntry, current *models.TimeEntry, weekStart time.Time, now time.Time, tz *time.Location) (models.AggregationResult, []string) {
	res := models.AggregationResult{
		PerDaySeconds:            make(map[time.Weekday]int64, 7),
		PerDaySecondsWithCurrent: make(map[time.Weekday]int64, 7),
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		res.PerDaySeconds[d] = 0
		res.PerDaySecondsWithCurrent[d] = 0
	}
	var warnings []string

	start := DayOf(weekStart, tz)

	for i := range entries {
		e := &entries[i]
		if current != nil && e.ID == current.ID {
			continue
		}
		if e.InProgress() {
			continue
		}
		secs, err := terminatedSeconds(e)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if IsBreak(e) {
			continue
		}
		weekday, ws := Bucket(e, tz)
		if !ws.Equal(start) {
			continue
		}
		res.TotalSeconds += secs
		res.TotalSecondsWithCurrent += secs
		res.PerDaySeconds[weekday] += secs
		res.PerDaySecondsWithCurrent[weekday] += secs
	}

	if current != nil && !IsBreak(current) {
		weekday, ws := Bucket(current, tz)
		if ws.Equal(start) {
			secs := liveSeconds(current, now)
			res.TotalSecondsWithCurrent += secs
			res.PerDaySecondsWithCurrent[weekday] += secs
		}
	}

	return res, warnings
}
