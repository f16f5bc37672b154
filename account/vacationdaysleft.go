package account

import (
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/period"
)

// =============================================================================
// VACATION DAYS LEFT - Decomposed balance breakdown
// =============================================================================

// VacationDaysLeft is the computed breakdown of a yearly account: the raw
// entitlement figures plus the consumption on both sides of the expiry
// date. It is computed fresh per query and never persisted.
//
// The leftover getters apply the balance waterfall: before expiry the
// carried-over remaining days are consumed first, after expiry only the
// not-expiring remainder is, and overflow always draws from the annual
// entitlement. Leftovers are exposed as computed; callers clamp negative
// aggregates for display.
type VacationDaysLeft struct {
	AnnualVacation               decimal.Decimal
	RemainingVacation            decimal.Decimal
	RemainingVacationNotExpiring decimal.Decimal
	UsedVacationDaysBeforeExpiry decimal.Decimal
	UsedVacationDaysAfterExpiry  decimal.Decimal
	VacationDaysUsedNextYear     decimal.Decimal
}

// leftovers runs the waterfall once and returns the three leftover
// buckets (annual, remaining, remaining-not-expiring).
func (v VacationDaysLeft) leftovers() (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	leftVacation := v.AnnualVacation

	// before expiry: the carried-over bucket is consumed first
	leftRemaining := v.RemainingVacation.Sub(v.UsedVacationDaysBeforeExpiry)
	if leftRemaining.IsNegative() {
		leftVacation = leftVacation.Add(leftRemaining)
		leftRemaining = decimal.Zero
	}

	// after expiry: only the not-expiring remainder survives
	leftNotExpiring := decimal.Min(v.RemainingVacationNotExpiring, leftRemaining)
	leftNotExpiring = leftNotExpiring.Sub(v.UsedVacationDaysAfterExpiry)
	if leftNotExpiring.IsNegative() {
		leftVacation = leftVacation.Add(leftNotExpiring)
		leftNotExpiring = decimal.Zero
	}

	return leftVacation, leftRemaining, leftNotExpiring
}

// VacationDays returns the annual entitlement still left.
func (v VacationDaysLeft) VacationDays() decimal.Decimal {
	left, _, _ := v.leftovers()
	return left
}

// RemainingVacationDays returns the carried-over days still left.
func (v VacationDaysLeft) RemainingVacationDays() decimal.Decimal {
	_, left, _ := v.leftovers()
	return left
}

// RemainingVacationDaysNotExpiring returns the not-expiring carried-over
// days still left.
func (v VacationDaysLeft) RemainingVacationDaysNotExpiring() decimal.Decimal {
	_, _, left := v.leftovers()
	return left
}

// LeftVacationDays returns the total that can still be applied for as of
// the given date. Before the expiry date the whole carried-over leftover
// counts; on and after it only the not-expiring leftover does. Days
// already spent in the following year are subtracted.
func (v VacationDaysLeft) LeftVacationDays(today period.Date, doRemainingVacationDaysExpire bool, expiryDate period.Date) decimal.Decimal {
	leftVacation, _, _ := v.leftovers()
	return leftVacation.
		Add(v.RemainingVacationDaysLeft(today, doRemainingVacationDaysExpire, expiryDate)).
		Sub(v.VacationDaysUsedNextYear)
}

// RemainingVacationDaysLeft returns the carried-over leftover relevant as
// of the given date. The expiry date itself counts as expired.
func (v VacationDaysLeft) RemainingVacationDaysLeft(today period.Date, doRemainingVacationDaysExpire bool, expiryDate period.Date) decimal.Decimal {
	_, leftRemaining, leftNotExpiring := v.leftovers()
	if !doRemainingVacationDaysExpire || today.Before(expiryDate) {
		return leftRemaining
	}
	return leftNotExpiring
}
