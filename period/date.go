/*
Package period provides the temporal primitives shared by the leave engine.

PURPOSE:
  Every calculation in this repository is day-granular: vacation balances,
  absence timelines and working-time calendars all operate on calendar
  dates and inclusive date ranges. This package defines those primitives
  once so that account, absence and workingtime agree on the arithmetic.

KEY CONCEPTS:
  - Date:      A calendar date (UTC, day granularity)
  - DateRange: An inclusive [Start, End] interval of dates
  - DayLength: How much of a day is covered (full, morning, noon, zero)
  - Clock:     Injected "today" source so calculations stay deterministic

DESIGN PRINCIPLES:
  1. Day granularity only: no hours, no timezones leak into calculations
  2. Injected time: "today" is always passed in via Clock, never read
     from ambient system time inside a calculation
  3. Immutability: all types are plain values

SEE ALSO:
  - daterange.go: DateRange clipping and iteration
  - daylength.go: DayLength and its decimal duration
*/
package period

import "time"

// =============================================================================
// DATE - Calendar date at day granularity
// =============================================================================

// Date is a calendar date. The zero value is the zero date.
// All dates are normalized to midnight UTC.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date in ISO format (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) IsZero() bool                  { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// Year boundaries
func FirstDayOfYear(year int) Date { return NewDate(year, time.January, 1) }
func LastDayOfYear(year int) Date  { return NewDate(year, time.December, 31) }

// =============================================================================
// CLOCK - Injected time source
// =============================================================================

// Clock supplies "today" to calculations that depend on the current date.
// Calculations take a Clock instead of calling time.Now so results are
// deterministic and testable.
type Clock interface {
	Today() Date
}

// SystemClock reads the real current date.
type SystemClock struct{}

func (SystemClock) Today() Date { return DateOf(time.Now()) }

// FixedClock always reports the same date. For tests.
type FixedClock struct {
	Date Date
}

func (c FixedClock) Today() Date { return c.Date }
