package period

import "github.com/shopspring/decimal"

// =============================================================================
// DAY LENGTH - How much of a day is covered
// =============================================================================

// DayLength describes how much of a single day an absence or a working-time
// pattern covers. It is used both for applications ("I take Friday morning
// off") and for working-time calendars ("this person works mornings only").
type DayLength string

const (
	DayLengthFull    DayLength = "FULL"
	DayLengthMorning DayLength = "MORNING"
	DayLengthNoon    DayLength = "NOON"
	DayLengthZero    DayLength = "ZERO"
)

var (
	one  = decimal.NewFromInt(1)
	half = decimal.New(5, -1)
)

// Duration returns the fraction of a work day the length covers.
func (dl DayLength) Duration() decimal.Decimal {
	switch dl {
	case DayLengthFull:
		return one
	case DayLengthMorning, DayLengthNoon:
		return half
	default:
		return decimal.Zero
	}
}

func (dl DayLength) IsFull() bool    { return dl == DayLengthFull }
func (dl DayLength) IsMorning() bool { return dl == DayLengthMorning }
func (dl DayLength) IsNoon() bool    { return dl == DayLengthNoon }
func (dl DayLength) IsZero() bool    { return dl == DayLengthZero || dl == "" }
func (dl DayLength) IsHalfDay() bool { return dl.IsMorning() || dl.IsNoon() }

// CoversMorning reports whether the length includes the morning half.
func (dl DayLength) CoversMorning() bool { return dl.IsFull() || dl.IsMorning() }

// CoversNoon reports whether the length includes the noon half.
func (dl DayLength) CoversNoon() bool { return dl.IsFull() || dl.IsNoon() }
