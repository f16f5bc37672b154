/*
Package workingtime models per-person working-time calendars.

PURPOSE:
  A working-time calendar answers, for every date, how much of that day a
  person nominally works: a full day, only the morning or noon half (part
  time, half-day public holidays), or nothing at all (weekend, public
  holiday, no employment). The balance calculator and the absence
  aggregator both read absences through this per-day pattern, so a week of
  vacation over a calendar with a public holiday in it costs four days,
  not five.

KEY CONCEPTS:
  - Calendar:        date -> DayLength for one person
  - Provider:        fetches calendars for a set of persons and a range
  - WorkDaysCounter: converts (day length, range, person) into a
                     fractional work-day count

INVARIANTS:
  1. A date missing from the calendar counts as ZERO working time
  2. Calendars are immutable once built
  3. Half-day counts are rounded with ceiling at 2 decimal places so the
     employee is never under-credited

SEE ALSO:
  - workdays.go: WorkDaysCounter implementation
*/
package workingtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/settings"
)

// ErrCalendarNotFound indicates a person without a working-time calendar
// in a computation that requires one. This is an integration error, not a
// user-facing condition: callers must fetch calendars for exactly the
// persons they compute over.
var ErrCalendarNotFound = errors.New("working time calendar not found")

// CalendarNotFoundError carries the person the lookup failed for.
type CalendarNotFoundError struct {
	Person person.Person
}

func (e *CalendarNotFoundError) Error() string {
	return fmt.Sprintf("no working time calendar for person %d (%s)", e.Person.ID, e.Person.Username)
}

func (e *CalendarNotFoundError) Unwrap() error { return ErrCalendarNotFound }

// =============================================================================
// CALENDAR - date -> DayLength for one person
// =============================================================================

// Calendar is a person's working-time pattern over some range of dates.
type Calendar struct {
	dayLengthByDate map[period.Date]period.DayLength
}

// NewCalendar builds a calendar from an explicit date mapping.
func NewCalendar(dayLengthByDate map[period.Date]period.DayLength) Calendar {
	copied := make(map[period.Date]period.DayLength, len(dayLengthByDate))
	for d, dl := range dayLengthByDate {
		copied[d] = dl
	}
	return Calendar{dayLengthByDate: copied}
}

// BuildCalendar fills a range using a per-date rule. Convenient for
// providers deriving calendars from settings and schedules.
func BuildCalendar(r period.DateRange, dayLengthFor func(period.Date) period.DayLength) Calendar {
	byDate := make(map[period.Date]period.DayLength, r.Len())
	for _, d := range r.Days() {
		byDate[d] = dayLengthFor(d)
	}
	return Calendar{dayLengthByDate: byDate}
}

// DayLengthAt returns the working day length for a date. Dates outside the
// calendar count as ZERO.
func (c Calendar) DayLengthAt(d period.Date) period.DayLength {
	if dl, ok := c.dayLengthByDate[d]; ok {
		return dl
	}
	return period.DayLengthZero
}

// WorkingTime returns the fractional work-day count in [from, to].
// An inverted range counts zero.
func (c Calendar) WorkingTime(from, to period.Date) decimal.Decimal {
	sum := decimal.Zero
	r := period.NewDateRange(from, to)
	if r.IsEmpty() {
		return sum
	}
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		sum = sum.Add(c.DayLengthAt(d).Duration())
	}
	return sum
}

// =============================================================================
// PROVIDER - Calendar source
// =============================================================================

// Provider fetches working-time calendars. Implemented by the stores.
type Provider interface {
	// GetWorkingTimesByPersons returns one calendar per person covering
	// the given range. Every requested person appears in the result.
	GetWorkingTimesByPersons(ctx context.Context, persons []person.Person, r period.DateRange) (map[int64]Calendar, error)
}

// SettingsCalendar derives a calendar purely from company settings:
// working weekdays work FULL, everything else is ZERO. Providers use this
// for persons without an individual schedule.
func SettingsCalendar(r period.DateRange, s settings.WorkingTimeSettings) Calendar {
	return BuildCalendar(r, func(d period.Date) period.DayLength {
		if s.IsWorkingWeekday(d.Weekday()) {
			return period.DayLengthFull
		}
		return period.DayLengthZero
	})
}
