package period

import (
	"errors"
	"fmt"
)

// ErrInvalidPeriod is returned when a range ends before it starts, or when
// an operation requires a same-year range and gets a cross-year one.
var ErrInvalidPeriod = errors.New("invalid period")

// InvalidPeriodError carries the offending range.
type InvalidPeriodError struct {
	Start  Date
	End    Date
	Reason string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period [%s, %s]: %s", e.Start, e.End, e.Reason)
}

func (e *InvalidPeriodError) Unwrap() error { return ErrInvalidPeriod }

// =============================================================================
// DATE RANGE - Inclusive interval of calendar dates
// =============================================================================

// DateRange is an inclusive [Start, End] interval.
// A range with Start after End is empty.
type DateRange struct {
	Start Date
	End   Date
}

func NewDateRange(start, end Date) DateRange {
	return DateRange{Start: start, End: end}
}

// YearRange returns the calendar-year range [Jan 1, Dec 31].
func YearRange(year int) DateRange {
	return DateRange{Start: FirstDayOfYear(year), End: LastDayOfYear(year)}
}

// IsEmpty reports whether the range contains no dates.
func (r DateRange) IsEmpty() bool {
	return r.Start.IsZero() || r.End.IsZero() || r.Start.After(r.End)
}

// Contains reports whether the date falls within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return !r.IsEmpty() && d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Overlaps reports whether the two ranges share at least one date.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Clip(other).IsEmpty()
}

// Clip intersects the range with another. The result is empty when they
// do not overlap.
func (r DateRange) Clip(other DateRange) DateRange {
	return DateRange{Start: Max(r.Start, other.Start), End: Min(r.End, other.End)}
}

// Days returns every date in the range, in order. Empty ranges yield nil.
func (r DateRange) Days() []Date {
	if r.IsEmpty() {
		return nil
	}
	var days []Date
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of dates in the range.
func (r DateRange) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return int(r.End.t.Sub(r.Start.t).Hours()/24) + 1
}

// Validate rejects ranges that end before they start.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return &InvalidPeriodError{Start: r.Start, End: r.End, Reason: "start after end"}
	}
	return nil
}

// ValidateSameYear additionally rejects ranges spanning more than one
// calendar year.
func (r DateRange) ValidateSameYear() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Start.Year() != r.End.Year() {
		return &InvalidPeriodError{Start: r.Start, End: r.End, Reason: "range must stay within one calendar year"}
	}
	return nil
}

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}
