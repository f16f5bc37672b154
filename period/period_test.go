package period_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/leave-engine/period"
)

// =============================================================================
// DATE TESTS
// =============================================================================

func TestDate_ParseAndString(t *testing.T) {
	d, err := period.ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("Failed to parse date: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.March || d.Day() != 9 {
		t.Errorf("expected 2024-03-09, got %v", d)
	}
	if d.String() != "2024-03-09" {
		t.Errorf("expected string 2024-03-09, got %q", d.String())
	}
}

func TestDate_ParseRejectsGarbage(t *testing.T) {
	if _, err := period.ParseDate("not-a-date"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestDate_AddDaysCrossesMonthAndYear(t *testing.T) {
	d := period.NewDate(2024, time.December, 30)

	if got := d.AddDays(2); !got.Equal(period.NewDate(2025, time.January, 1)) {
		t.Errorf("expected 2025-01-01, got %v", got)
	}
	if got := d.AddDays(-30); !got.Equal(period.NewDate(2024, time.November, 30)) {
		t.Errorf("expected 2024-11-30, got %v", got)
	}
}

func TestDate_MinMax(t *testing.T) {
	a := period.NewDate(2024, time.April, 1)
	b := period.NewDate(2024, time.April, 15)

	if got := period.Min(a, b); !got.Equal(a) {
		t.Errorf("Min: expected %v, got %v", a, got)
	}
	if got := period.Max(a, b); !got.Equal(b) {
		t.Errorf("Max: expected %v, got %v", b, got)
	}
}

// =============================================================================
// DATE RANGE TESTS
// =============================================================================

func TestDateRange_ClipToOverlap(t *testing.T) {
	// GIVEN: May and a vacation reaching into June
	// WHEN: Clipping the vacation to May
	// THEN: Only the May part remains

	may := period.NewDateRange(period.NewDate(2021, time.May, 1), period.NewDate(2021, time.May, 31))
	vacation := period.NewDateRange(period.NewDate(2021, time.May, 31), period.NewDate(2021, time.June, 10))

	clipped := vacation.Clip(may)
	if !clipped.Start.Equal(period.NewDate(2021, time.May, 31)) || !clipped.End.Equal(period.NewDate(2021, time.May, 31)) {
		t.Errorf("expected [2021-05-31, 2021-05-31], got %v", clipped)
	}
	if clipped.Len() != 1 {
		t.Errorf("expected length 1, got %d", clipped.Len())
	}
}

func TestDateRange_ClipDisjointIsEmpty(t *testing.T) {
	january := period.NewDateRange(period.NewDate(2021, time.January, 1), period.NewDate(2021, time.January, 31))
	march := period.NewDateRange(period.NewDate(2021, time.March, 1), period.NewDate(2021, time.March, 31))

	if clipped := january.Clip(march); !clipped.IsEmpty() {
		t.Errorf("expected empty range, got %v", clipped)
	}
	if january.Overlaps(march) {
		t.Error("disjoint ranges must not overlap")
	}
}

func TestDateRange_DaysAndLen(t *testing.T) {
	r := period.NewDateRange(period.NewDate(2024, time.February, 27), period.NewDate(2024, time.March, 1))

	days := r.Days()
	if len(days) != 4 {
		t.Fatalf("expected 4 days across the leap-year boundary, got %d", len(days))
	}
	if !days[2].Equal(period.NewDate(2024, time.February, 29)) {
		t.Errorf("expected leap day at index 2, got %v", days[2])
	}
	if r.Len() != len(days) {
		t.Errorf("Len (%d) disagrees with Days (%d)", r.Len(), len(days))
	}
}

func TestDateRange_ValidateInverted(t *testing.T) {
	r := period.NewDateRange(period.NewDate(2024, time.May, 10), period.NewDate(2024, time.May, 1))

	err := r.Validate()
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
	if !errors.Is(err, period.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestDateRange_ValidateSameYear(t *testing.T) {
	crossYear := period.NewDateRange(period.NewDate(2024, time.December, 20), period.NewDate(2025, time.January, 5))

	if err := crossYear.ValidateSameYear(); !errors.Is(err, period.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod for cross-year range, got %v", err)
	}
	if err := period.YearRange(2024).ValidateSameYear(); err != nil {
		t.Errorf("year range must validate, got %v", err)
	}
}

// =============================================================================
// DAY LENGTH TESTS
// =============================================================================

func TestDayLength_Duration(t *testing.T) {
	cases := []struct {
		dl   period.DayLength
		want string
	}{
		{period.DayLengthFull, "1"},
		{period.DayLengthMorning, "0.5"},
		{period.DayLengthNoon, "0.5"},
		{period.DayLengthZero, "0"},
	}
	for _, c := range cases {
		if got := c.dl.Duration().String(); got != c.want {
			t.Errorf("%s: expected duration %s, got %s", c.dl, c.want, got)
		}
	}
}

func TestDayLength_Coverage(t *testing.T) {
	if !period.DayLengthFull.CoversMorning() || !period.DayLengthFull.CoversNoon() {
		t.Error("FULL must cover both halves")
	}
	if !period.DayLengthMorning.CoversMorning() || period.DayLengthMorning.CoversNoon() {
		t.Error("MORNING must cover only the morning")
	}
	if period.DayLengthNoon.CoversMorning() || !period.DayLengthNoon.CoversNoon() {
		t.Error("NOON must cover only the noon half")
	}
	if period.DayLengthZero.CoversMorning() || period.DayLengthZero.CoversNoon() {
		t.Error("ZERO must cover nothing")
	}
}

// =============================================================================
// CLOCK TESTS
// =============================================================================

func TestFixedClock(t *testing.T) {
	today := period.NewDate(2022, time.August, 10)
	clock := period.FixedClock{Date: today}

	if !clock.Today().Equal(today) {
		t.Errorf("expected %v, got %v", today, clock.Today())
	}
}
