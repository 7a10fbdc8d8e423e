package engine

import (
	"time"

	"github.com/homeops-tools/clockify-bridge/internal/models"
)

// Calendar bucketing. An entry belongs to the day and the Monday-start week
// containing its start instant in the given timezone; entries spanning
// midnight are not split.

// DayOf truncates t to midnight of its calendar day in tz.
func DayOf(t time.Time, tz *time.Location) time.Time {
	lt := t.In(tz)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, tz)
}

// WeekStart returns midnight of the Monday of the ISO week containing t.
func WeekStart(t time.Time, tz *time.Location) time.Time {
	day := DayOf(t, tz)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday date of the week starting at weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 6)
}

// Bucket assigns an entry to a weekday and a week. Only the start instant
// matters; an in-progress entry needs no end timestamp to be bucketed.
func Bucket(e *models.TimeEntry, tz *time.Location) (time.Weekday, time.Time) {
	day := DayOf(e.Start, tz)
	return day.Weekday(), WeekStart(e.Start, tz)
}
