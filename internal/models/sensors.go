package models

// Sensor payloads consumed by Home Assistant REST sensors. The JSON field
// names are an external contract; existing dashboards and automations key
// on them, so they must not change.

// CurrentTimerSensor describes the running timer, or its absence. Pointer
// fields are null while no timer is active, matching the attribute set the
// dashboards expect.
type CurrentTimerSensor struct {
	Status          string   `json:"status"`
	Description     *string  `json:"description"`
	ProjectID       *string  `json:"project_id"`
	ProjectName     *string  `json:"project_name"`
	ProjectColor    *string  `json:"project_color"`
	TaskID          *string  `json:"task_id"`
	TaskName        *string  `json:"task_name"`
	StartTime       *string  `json:"start_time"`
	Duration        *string  `json:"duration"`
	DurationSeconds *int64   `json:"duration_seconds"`
	Billable        bool     `json:"billable"`
	Tags            []string `json:"tags"`
}

// DailyTotalSensor is the worked-time total for one calendar day.
// IncludesCurrentTimer and CompletedTimeSeconds are only set on the
// with-current ("-total") variant.
type DailyTotalSensor struct {
	Date               string  `json:"date"`
	DurationSeconds    int64   `json:"duration_seconds"`
	DurationFormatted  string  `json:"duration_formatted"`
	ExpectedHours      float64 `json:"expected_hours"`
	ProgressPercent    float64 `json:"progress_percent"`
	RemainingHours     float64 `json:"remaining_hours"`
	RemainingFormatted string  `json:"remaining_formatted"`

	IncludesCurrentTimer *bool  `json:"includes_current_timer,omitempty"`
	CompletedTimeSeconds *int64 `json:"completed_time_seconds,omitempty"`
}

// WeeklyTotalSensor is the worked-time total for one Monday-start week,
// with a per-weekday breakdown and both full-week and to-date progress.
type WeeklyTotalSensor struct {
	WeekStart          string  `json:"week_start"`
	WeekEnd            string  `json:"week_end"`
	DurationSeconds    int64   `json:"duration_seconds"`
	DurationFormatted  string  `json:"duration_formatted"`
	ExpectedHours      float64 `json:"expected_hours"`
	ProgressPercent    float64 `json:"progress_percent"`
	RemainingHours     float64 `json:"remaining_hours"`
	RemainingFormatted string  `json:"remaining_formatted"`

	ExpectedHoursToDate      float64  `json:"expected_hours_to_date"`
	ProgressPercentToDate    float64  `json:"progress_percent_to_date"`
	RemainingHoursToDate     float64  `json:"remaining_hours_to_date"`
	RemainingFormattedToDate string   `json:"remaining_formatted_to_date"`
	WorkingDays              []string `json:"working_days"`

	MondayHours        float64 `json:"monday_hours"`
	MondayFormatted    string  `json:"monday_formatted"`
	TuesdayHours       float64 `json:"tuesday_hours"`
	TuesdayFormatted   string  `json:"tuesday_formatted"`
	WednesdayHours     float64 `json:"wednesday_hours"`
	WednesdayFormatted string  `json:"wednesday_formatted"`
	ThursdayHours      float64 `json:"thursday_hours"`
	ThursdayFormatted  string  `json:"thursday_formatted"`
	FridayHours        float64 `json:"friday_hours"`
	FridayFormatted    string  `json:"friday_formatted"`
	SaturdayHours      float64 `json:"saturday_hours"`
	SaturdayFormatted  string  `json:"saturday_formatted"`
	SundayHours        float64 `json:"sunday_hours"`
	SundayFormatted    string  `json:"sunday_formatted"`

	IncludesCurrentTimer *bool  `json:"includes_current_timer,omitempty"`
	CompletedTimeSeconds *int64 `json:"completed_time_seconds,omitempty"`
}
