package workingtime

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
)

var two = decimal.NewFromInt(2)

// HalfOf halves a work-day count for a half-day absence, rounding with
// ceiling at 2 decimal places. Ceiling rounding never under-credits the
// employee: a 0.33 work pattern halves to 0.17, not 0.16.
func HalfOf(workDays decimal.Decimal) decimal.Decimal {
	return workDays.Div(two).RoundCeil(2)
}

// =============================================================================
// WORK DAYS COUNTER
// =============================================================================

// WorkDaysCounter converts a date range plus a person's working-time
// pattern into a fractional work-day count, honoring the absence day
// length. The vacation-days calculator depends on this.
type WorkDaysCounter interface {
	WorkDaysCount(ctx context.Context, dayLength period.DayLength, from, to period.Date, p person.Person) (decimal.Decimal, error)
}

// CalendarWorkDaysCounter counts work days using calendars from a
// Provider.
type CalendarWorkDaysCounter struct {
	provider Provider
}

func NewCalendarWorkDaysCounter(provider Provider) *CalendarWorkDaysCounter {
	return &CalendarWorkDaysCounter{provider: provider}
}

// WorkDaysCount returns the work-day count for the absence described by
// dayLength over [from, to]. Half-day lengths are valid for single-date
// ranges only and count half of the full-day figure (ceiling-rounded).
// Inverted ranges count zero.
func (c *CalendarWorkDaysCounter) WorkDaysCount(ctx context.Context, dayLength period.DayLength, from, to period.Date, p person.Person) (decimal.Decimal, error) {
	r := period.NewDateRange(from, to)
	if r.IsEmpty() {
		return decimal.Zero, nil
	}

	calendars, err := c.provider.GetWorkingTimesByPersons(ctx, []person.Person{p}, r)
	if err != nil {
		return decimal.Zero, err
	}
	calendar, ok := calendars[p.ID]
	if !ok {
		return decimal.Zero, &CalendarNotFoundError{Person: p}
	}

	return CountWorkDays(calendar, dayLength, from, to), nil
}

// CountWorkDays is the pure counting rule shared by the counter and the
// batch balance computation.
func CountWorkDays(calendar Calendar, dayLength period.DayLength, from, to period.Date) decimal.Decimal {
	workDays := calendar.WorkingTime(from, to)
	if dayLength.IsHalfDay() {
		return HalfOf(workDays)
	}
	return workDays
}
