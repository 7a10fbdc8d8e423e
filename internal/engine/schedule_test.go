package engine

import (
	"math"
	"testing"
	"time"

	"github.com/homeops-tools/clockify-bridge/internal/models"
)

func TestResolveFetchFailureFallsBackToDefault(t *testing.T) {
	r := NewScheduleResolver()

	s, usedDefault, warnings := r.Resolve(nil)
	if !usedDefault {
		t.Fatal("expected usedDefault=true on fetch failure")
	}
	if len(warnings) != 0 {
		t.Errorf("expected no per-value warnings on total fallback, got %v", warnings)
	}

	for d := time.Monday; d <= time.Friday; d++ {
		if !s.WorkingDays[d] {
			t.Errorf("default schedule should include %s", d)
		}
		if s.HoursPerDay[d] != 8.0 {
			t.Errorf("default hours for %s = %v, want 8.0", d, s.HoursPerDay[d])
		}
	}
	if s.WorkingDays[time.Saturday] || s.WorkingDays[time.Sunday] {
		t.Error("default schedule should not include the weekend")
	}
}

func TestResolveValidSchedule(t *testing.T) {
	r := NewScheduleResolver()

	raw := &models.RawSchedule{
		WorkingDays: []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY"},
		HoursPerDay: map[string]float64{
			"MONDAY": 9, "TUESDAY": 9, "WEDNESDAY": 9, "THURSDAY": 9,
		},
	}
	s, usedDefault, warnings := r.Resolve(raw)
	if usedDefault {
		t.Fatal("expected usedDefault=false for a valid schedule")
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if s.ExpectedHours(time.Monday) != 9 {
		t.Errorf("Monday hours = %v, want 9", s.ExpectedHours(time.Monday))
	}
	if s.ExpectedHours(time.Friday) != 0 {
		t.Errorf("Friday should not be a working day, got %v hours", s.ExpectedHours(time.Friday))
	}
}

func TestResolvePartialDegradation(t *testing.T) {
	r := NewScheduleResolver()

	raw := &models.RawSchedule{
		WorkingDays: []string{"MONDAY", "FUNDAY", "TUESDAY"},
		HoursPerDay: map[string]float64{
			"MONDAY":  -3,
			"TUESDAY": 7.5,
		},
	}
	s, usedDefault, warnings := r.Resolve(raw)
	if usedDefault {
		t.Fatal("partial degradation must not report a full default fallback")
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings (bad label, bad hours), got %v", warnings)
	}

	// Monday's negative hours are replaced by the default for Monday.
	if s.ExpectedHours(time.Monday) != 8.0 {
		t.Errorf("Monday hours = %v, want default 8.0", s.ExpectedHours(time.Monday))
	}
	if s.ExpectedHours(time.Tuesday) != 7.5 {
		t.Errorf("Tuesday hours = %v, want 7.5", s.ExpectedHours(time.Tuesday))
	}
	// The unknown label is discarded entirely.
	if len(s.WorkingDays) != 2 {
		t.Errorf("expected 2 working days, got %d", len(s.WorkingDays))
	}
}

func TestResolveNaNHours(t *testing.T) {
	r := NewScheduleResolver()

	raw := &models.RawSchedule{
		WorkingDays: []string{"MONDAY"},
		HoursPerDay: map[string]float64{"MONDAY": math.NaN()},
	}
	s, _, warnings := r.Resolve(raw)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning for NaN hours, got %v", warnings)
	}
	if s.ExpectedHours(time.Monday) != 8.0 {
		t.Errorf("Monday hours = %v, want default 8.0", s.ExpectedHours(time.Monday))
	}
}

func TestResolveWorkingDayWithoutHoursGetsDefault(t *testing.T) {
	r := NewScheduleResolver()

	raw := &models.RawSchedule{
		WorkingDays: []string{"SATURDAY"},
		HoursPerDay: map[string]float64{},
	}
	s, _, _ := r.Resolve(raw)
	if s.ExpectedHours(time.Saturday) != DefaultHoursPerDay {
		t.Errorf("Saturday hours = %v, want %v", s.ExpectedHours(time.Saturday), DefaultHoursPerDay)
	}
}
