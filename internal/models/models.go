package models

import (
	"time"
)

// EntryKind is the classification Clockify tracks on a time entry,
// independent of which project it belongs to.
type EntryKind string

const (
	KindRegular EntryKind = "REGULAR"
	KindBreak   EntryKind = "BREAK"
)

// Project is a Clockify project reference.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Task is a Clockify task reference. Only meaningful alongside a project.
type Task struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimeEntry is one tracked interval. A nil End means the entry is still
// running (the "current timer").
type TimeEntry struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Project     *Project   `json:"project,omitempty"`
	Task        *Task      `json:"task,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Billable    bool       `json:"billable"`
	Kind        EntryKind  `json:"kind"`
}

// InProgress reports whether the entry has no end timestamp yet.
func (e *TimeEntry) InProgress() bool {
	return e.End == nil
}

// RawSchedule is the work schedule as fetched from the Clockify member
// profile, before validation. WorkingDays holds weekday labels such as
// "MONDAY"; HoursPerDay maps the same labels to expected hours.
type RawSchedule struct {
	WorkingDays []string
	HoursPerDay map[string]float64
}

// WorkSchedule is the validated expectation configuration. A weekday absent
// from WorkingDays has an implicit expectation of zero hours, regardless of
// its HoursPerDay value.
type WorkSchedule struct {
	WorkingDays map[time.Weekday]bool
	HoursPerDay map[time.Weekday]float64
}

// ExpectedHours returns the expectation for one weekday.
func (s WorkSchedule) ExpectedHours(d time.Weekday) float64 {
	if !s.WorkingDays[d] {
		return 0
	}
	return s.HoursPerDay[d]
}

// AggregationResult holds summed durations for one period. The per-day maps
// are only filled for week-scoped results.
type AggregationResult struct {
	TotalSeconds             int64
	TotalSecondsWithCurrent  int64
	PerDaySeconds            map[time.Weekday]int64
	PerDaySecondsWithCurrent map[time.Weekday]int64
}

// ProgressResult compares an actual total against the schedule expectation
// for a single day.
type ProgressResult struct {
	ExpectedHours   float64
	ProgressPercent float64
	RemainingHours  float64
}

// WeekProgressResult adds the partial-week ("to date") expectation, which
// covers Monday through the current day inclusive.
type WeekProgressResult struct {
	ProgressResult
	ExpectedHoursToDate   float64
	ProgressPercentToDate float64
	RemainingHoursToDate  float64
}
