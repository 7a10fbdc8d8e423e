package engine

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/homeops-tools/clockify-bridge/internal/models"
)

// The fixed week used throughout: Monday 2024-01-08 .. Sunday 2024-01-14,
// with "now" on Wednesday the 10th.
var (
	testWeekStart = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	testNow       = time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC)
)

func terminated(id string, start time.Time, d time.Duration) models.TimeEntry {
	end := start.Add(d)
	return models.TimeEntry{ID: id, Start: start, End: &end, Kind: models.KindRegular}
}

func TestAggregateDayTerminatedEntries(t *testing.T) {
	entries := []models.TimeEntry{
		terminated("a", testWeekStart.AddDate(0, 0, 2).Add(9*time.Hour), 4*time.Hour),
		terminated("b", testWeekStart.AddDate(0, 0, 2).Add(14*time.Hour), 2*time.Hour),
		// Different day, must not count.
		terminated("c", testWeekStart.Add(9*time.Hour), 8*time.Hour),
	}

	res, warnings := AggregateDay(entries, nil, testNow, testNow, time.UTC)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if res.TotalSeconds != 6*3600 {
		t.Errorf("TotalSeconds = %d, want %d", res.TotalSeconds, 6*3600)
	}
	if res.TotalSecondsWithCurrent != res.TotalSeconds {
		t.Errorf("no current entry, totals must match: %d != %d", res.TotalSecondsWithCurrent, res.TotalSeconds)
	}
}

func TestAggregateDayWithCurrentEntry(t *testing.T) {
	// Current entry started 1h30m ago, kind REGULAR: the with-current total
	// gains exactly 5400 seconds over the completed total.
	entries := []models.TimeEntry{
		terminated("a", testNow.Add(-8*time.Hour), 4*time.Hour),
	}
	current := &models.TimeEntry{
		ID:    "cur",
		Start: testNow.Add(-90 * time.Minute),
		Kind:  models.KindRegular,
	}

	res, _ := AggregateDay(entries, current, testNow, testNow, time.UTC)
	if res.TotalSeconds != 4*3600 {
		t.Errorf("TotalSeconds = %d, want %d", res.TotalSeconds, 4*3600)
	}
	if got := res.TotalSecondsWithCurrent - res.TotalSeconds; got != 5400 {
		t.Errorf("current entry adds %d seconds, want 5400", got)
	}
}

func TestAggregateDayBreakCurrentExcluded(t *testing.T) {
	// A running break leaves both totals equal.
	entries := []models.TimeEntry{
		terminated("a", testNow.Add(-8*time.Hour), 4*time.Hour),
	}
	current := &models.TimeEntry{
		ID:    "cur",
		Start: testNow.Add(-30 * time.Minute),
		Kind:  models.KindBreak,
	}

	res, _ := AggregateDay(entries, current, testNow, testNow, time.UTC)
	if res.TotalSecondsWithCurrent != res.TotalSeconds {
		t.Errorf("break current must not contribute: %d != %d", res.TotalSecondsWithCurrent, res.TotalSeconds)
	}
}

func TestAggregateDayBreakEntriesContributeZero(t *testing.T) {
	breakEnd := testNow.Add(-1 * time.Hour)
	entries := []models.TimeEntry{
		terminated("a", testNow.Add(-8*time.Hour), 4*time.Hour),
		{
			ID:    "lunch",
			Start: testNow.Add(-2 * time.Hour),
			End:   &breakEnd,
			Kind:  models.KindBreak,
		},
		{
			ID:      "coffee",
			Start:   testNow.Add(-5 * time.Hour),
			End:     &breakEnd,
			Kind:    models.KindRegular,
			Project: &models.Project{ID: "p", Name: "Breaks"},
		},
	}

	res, warnings := AggregateDay(entries, nil, testNow, testNow, time.UTC)
	if len(warnings) != 0 {
		t.Fatalf("break entries are not errors, got warnings: %v", warnings)
	}
	if res.TotalSeconds != 4*3600 {
		t.Errorf("TotalSeconds = %d, want %d", res.TotalSeconds, 4*3600)
	}
}

func TestAggregateDayMalformedEntrySkippedWithWarning(t *testing.T) {
	badEnd := testNow.Add(-10 * time.Hour)
	entries := []models.TimeEntry{
		terminated("good", testNow.Add(-8*time.Hour), 3*time.Hour),
		{
			ID:    "bad",
			Start: testNow.Add(-2 * time.Hour),
			End:   &badEnd, // end before start
			Kind:  models.KindRegular,
		},
	}

	res, warnings := AggregateDay(entries, nil, testNow, testNow, time.UTC)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "bad") {
		t.Errorf("warning should name the entry id, got %q", warnings[0])
	}
	if res.TotalSeconds != 3*3600 {
		t.Errorf("other entries must still aggregate, TotalSeconds = %d", res.TotalSeconds)
	}
}

func TestAggregateDayClockSkewClampsToZero(t *testing.T) {
	// Current entry "starts" after now: defensive clamp, no warning.
	current := &models.TimeEntry{
		ID:    "cur",
		Start: testNow.Add(10 * time.Minute),
		Kind:  models.KindRegular,
	}

	res, warnings := AggregateDay(nil, current, testNow, testNow, time.UTC)
	if len(warnings) != 0 {
		t.Fatalf("clock skew is not reported, got %v", warnings)
	}
	if res.TotalSecondsWithCurrent != 0 {
		t.Errorf("TotalSecondsWithCurrent = %d, want 0", res.TotalSecondsWithCurrent)
	}
}

func TestAggregateWeekPerDayBuckets(t *testing.T) {
	entries := []models.TimeEntry{
		terminated("mon", testWeekStart.Add(9*time.Hour), 8*time.Hour),
		terminated("tue", testWeekStart.AddDate(0, 0, 1).Add(9*time.Hour), 8*time.Hour),
		terminated("wed", testWeekStart.AddDate(0, 0, 2).Add(9*time.Hour), 6*time.Hour),
		// Previous week, must not count.
		terminated("old", testWeekStart.AddDate(0, 0, -3).Add(9*time.Hour), 8*time.Hour),
	}

	res, warnings := AggregateWeek(entries, nil, testWeekStart, testNow, time.UTC)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if res.TotalSeconds != 22*3600 {
		t.Errorf("TotalSeconds = %d, want %d", res.TotalSeconds, 22*3600)
	}
	if res.PerDaySeconds[time.Monday] != 8*3600 {
		t.Errorf("Monday = %d, want %d", res.PerDaySeconds[time.Monday], 8*3600)
	}
	if res.PerDaySeconds[time.Wednesday] != 6*3600 {
		t.Errorf("Wednesday = %d, want %d", res.PerDaySeconds[time.Wednesday], 6*3600)
	}

	// All seven weekdays are present, unrepresented ones at zero.
	if len(res.PerDaySeconds) != 7 {
		t.Fatalf("PerDaySeconds has %d weekdays, want 7", len(res.PerDaySeconds))
	}
	if res.PerDaySeconds[time.Saturday] != 0 {
		t.Errorf("Saturday = %d, want 0", res.PerDaySeconds[time.Saturday])
	}
}

// --- Properties ---

func genWeekEntries(t *rapid.T) []models.TimeEntry {
	n := rapid.IntRange(0, 12).Draw(t, "num_entries")
	entries := make([]models.TimeEntry, 0, n)
	for i := 0; i < n; i++ {
		dayOffset := rapid.IntRange(0, 6).Draw(t, "day_offset")
		startMin := rapid.IntRange(0, 20*60).Draw(t, "start_min")
		durMin := rapid.IntRange(0, 4*60).Draw(t, "dur_min")

		start := testWeekStart.AddDate(0, 0, dayOffset).Add(time.Duration(startMin) * time.Minute)
		end := start.Add(time.Duration(durMin) * time.Minute)

		kind := models.KindRegular
		if rapid.Bool().Draw(t, "is_break") {
			kind = models.KindBreak
		}

		entries = append(entries, models.TimeEntry{
			ID:    rapid.StringMatching(`e[0-9]{4}`).Draw(t, "id"),
			Start: start,
			End:   &end,
			Kind:  kind,
		})
	}
	return entries
}

func genCurrent(t *rapid.T) *models.TimeEntry {
	if !rapid.Bool().Draw(t, "has_current") {
		return nil
	}
	dayOffset := rapid.IntRange(0, 2).Draw(t, "cur_day_offset")
	startMin := rapid.IntRange(0, 16*60).Draw(t, "cur_start_min")
	kind := models.KindRegular
	if rapid.Bool().Draw(t, "cur_is_break") {
		kind = models.KindBreak
	}
	return &models.TimeEntry{
		ID:    "current",
		Start: testWeekStart.AddDate(0, 0, dayOffset).Add(time.Duration(startMin) * time.Minute),
		Kind:  kind,
	}
}

func TestWeeklyTotalEqualsPerDaySum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := genWeekEntries(t)

		res, _ := AggregateWeek(entries, nil, testWeekStart, testNow, time.UTC)
		var sum int64
		for _, secs := range res.PerDaySeconds {
			sum += secs
		}
		if sum != res.TotalSeconds {
			t.Fatalf("per-day sum %d != TotalSeconds %d", sum, res.TotalSeconds)
		}
	})
}

func TestWithCurrentNeverBelowCompleted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := genWeekEntries(t)
		current := genCurrent(t)

		res, _ := AggregateWeek(entries, current, testWeekStart, testNow, time.UTC)
		if res.TotalSecondsWithCurrent < res.TotalSeconds {
			t.Fatalf("TotalSecondsWithCurrent %d < TotalSeconds %d", res.TotalSecondsWithCurrent, res.TotalSeconds)
		}
	})
}

func TestBreaksNeverContribute(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := genWeekEntries(t)

		var withoutBreaks []models.TimeEntry
		for _, e := range entries {
			if !IsBreak(&e) {
				withoutBreaks = append(withoutBreaks, e)
			}
		}

		all, _ := AggregateWeek(entries, nil, testWeekStart, testNow, time.UTC)
		filtered, _ := AggregateWeek(withoutBreaks, nil, testWeekStart, testNow, time.UTC)
		if !reflect.DeepEqual(all, filtered) {
			t.Fatalf("break entries changed the result:\nwith:    %+v\nwithout: %+v", all, filtered)
		}
	})
}

func TestAggregationIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := genWeekEntries(t)
		current := genCurrent(t)

		first, w1 := AggregateWeek(entries, current, testWeekStart, testNow, time.UTC)
		second, w2 := AggregateWeek(entries, current, testWeekStart, testNow, time.UTC)
		if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(w1, w2) {
			t.Fatal("identical inputs produced different results")
		}
	})
}
