package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/homeops-tools/clockify-bridge/internal/models"
)

// DefaultHoursPerDay is the fallback expectation when the workspace does not
// provide a usable work capacity.
const DefaultHoursPerDay = 8.0

var weekdayLabels = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
	"SUNDAY":    time.Sunday,
}

// ScheduleResolver normalizes fetched work schedules, falling back to a
// cached default (Mon-Fri, 8h/day) when the fetch failed or individual
// values are invalid.
type ScheduleResolver struct {
	def models.WorkSchedule
}

func NewScheduleResolver() *ScheduleResolver {
	return &ScheduleResolver{def: DefaultSchedule()}
}

// DefaultSchedule returns the Mon-Fri, 8 hours/day schedule.
func DefaultSchedule() models.WorkSchedule {
	s := models.WorkSchedule{
		WorkingDays: make(map[time.Weekday]bool, 5),
		HoursPerDay: make(map[time.Weekday]float64, 5),
	}
	for d := time.Monday; d <= time.Friday; d++ {
		s.WorkingDays[d] = true
		s.HoursPerDay[d] = DefaultHoursPerDay
	}
	return s
}

// Resolve validates a fetched schedule. A nil raw schedule signals a fetch
// failure and yields the full default with usedDefault set. Individually
// invalid values (unknown weekday label, negative or non-finite hours) are
// discarded in favor of the default for that weekday only, each reported as
// a warning.
func (r *ScheduleResolver) Resolve(raw *models.RawSchedule) (models.WorkSchedule, bool, []string) {
	if raw == nil {
		return r.def, true, nil
	}

	var warnings []string
	s := models.WorkSchedule{
		WorkingDays: make(map[time.Weekday]bool),
		HoursPerDay: make(map[time.Weekday]float64),
	}

	for _, label := range raw.WorkingDays {
		d, ok := weekdayLabels[label]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("schedule: unknown working day %q discarded", label))
			continue
		}
		s.WorkingDays[d] = true
	}

	for label, hours := range raw.HoursPerDay {
		d, ok := weekdayLabels[label]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("schedule: unknown weekday %q in hours map discarded", label))
			continue
		}
		if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
			warnings = append(warnings, fmt.Sprintf("schedule: invalid hours %v for %s, using default", hours, d))
			s.HoursPerDay[d] = r.def.HoursPerDay[d]
			continue
		}
		s.HoursPerDay[d] = hours
	}

	// Working days with no stated hours get the default expectation.
	for d := range s.WorkingDays {
		if _, ok := s.HoursPerDay[d]; !ok {
			s.HoursPerDay[d] = DefaultHoursPerDay
		}
	}

	return s, false, warnings
}
