package engine

import (
	"time"

	"github.com/homeops-tools/clockify-bridge/internal/models"
)

// percent applies the division-by-zero policy: against a zero expectation,
// no work is 0% and any work is 100%.
func percent(actualHours, expectedHours float64) float64 {
	if expectedHours > 0 {
		return Round1(100 * actualHours / expectedHours)
	}
	if actualHours == 0 {
		return 0
	}
	return 100
}

func remaining(actualHours, expectedHours float64) float64 {
	r := expectedHours - actualHours
	if r < 0 {
		return 0
	}
	return Round2(r)
}

// DayProgress compares one day's actual seconds against the schedule.
func DayProgress(s models.WorkSchedule, weekday time.Weekday, actualSeconds int64) models.ProgressResult {
	expected := s.ExpectedHours(weekday)
	actual := Hours(actualSeconds)
	return models.ProgressResult{
		ExpectedHours:   expected,
		ProgressPercent: percent(actual, expected),
		RemainingHours:  remaining(actual, expected),
	}
}

// weekExpectedHours sums the per-weekday expectation over the whole week.
func weekExpectedHours(s models.WorkSchedule) float64 {
	var total float64
	for d := time.Sunday; d <= time.Saturday; d++ {
		total += s.ExpectedHours(d)
	}
	return total
}

// WeekProgress compares a week's actual seconds against the schedule, both
// for the full week and to date. When today falls outside the target week,
// the to-date expectation is the full-week expectation.
func WeekProgress(s models.WorkSchedule, weekStart, today time.Time, actualSecondsFull, actualSecondsToDate int64, tz *time.Location) models.WeekProgressResult {
	expected := weekExpectedHours(s)
	actualFull := Hours(actualSecondsFull)

	start := DayOf(weekStart, tz)
	day := DayOf(today, tz)

	expectedToDate := expected
	if !day.Before(start) && !day.After(WeekEnd(start)) {
		expectedToDate = 0
		for d := start; !d.After(day); d = d.AddDate(0, 0, 1) {
			expectedToDate += s.ExpectedHours(d.Weekday())
		}
	}
	actualToDate := Hours(actualSecondsToDate)

	return models.WeekProgressResult{
		ProgressResult: models.ProgressResult{
			ExpectedHours:   expected,
			ProgressPercent: percent(actualFull, expected),
			RemainingHours:  remaining(actualFull, expected),
		},
		ExpectedHoursToDate:   expectedToDate,
		ProgressPercentToDate: percent(actualToDate, expectedToDate),
		RemainingHoursToDate:  remaining(actualToDate, expectedToDate),
	}
}
