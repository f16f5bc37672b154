/*
Package account implements the vacation-balance engine.

PURPOSE:
  Computes, for a person's yearly leave account, how many vacation days
  are entitled, used, remaining and expiring. The year is split by the
  account's expiry date into a pre-expiry segment (where carried-over
  remaining days are still consumable) and a post-expiry segment (where
  only the not-expiring portion survives).

KEY CONCEPTS:
  - Account:          A person's yearly entitlement record (read-only here)
  - VacationDaysLeft: The decomposed "days left" breakdown
  - VacationDays:     The calculator service

BALANCE WATERFALL:
  Consumption before the expiry date draws from the carried-over
  remaining bucket first; overflow draws from the annual entitlement.
  Consumption after the expiry date draws from the not-expiring remainder
  first, then from the annual entitlement.

SEE ALSO:
  - vacationdaysleft.go: The breakdown value type
  - vacationdays.go: The calculator
*/
package account

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
)

// Account is a person's yearly vacation entitlement record. Created once
// per person per year by account management; the calculation core only
// reads it.
//
// Invariant: RemainingVacationDaysNotExpiring <= RemainingVacationDays.
type Account struct {
	ID     int64
	Person person.Person
	Year   int

	// AnnualVacationDays is the contractual entitlement for a full year.
	AnnualVacationDays decimal.Decimal

	// ActualVacationDays is the entitlement actually granted this year,
	// possibly prorated for partial employment.
	ActualVacationDays decimal.Decimal

	// RemainingVacationDays were carried over from the previous year.
	RemainingVacationDays decimal.Decimal

	// RemainingVacationDaysNotExpiring is the portion of the carried-over
	// days that survives the expiry date.
	RemainingVacationDaysNotExpiring decimal.Decimal

	// DoRemainingVacationDaysExpire toggles the expiry mechanism. When
	// false, ExpiryDate is ignored.
	DoRemainingVacationDaysExpire bool

	// ExpiryDate is the day the carried-over days expire. It lies within
	// the account year. The day itself already counts as expired.
	ExpiryDate period.Date
}

// YearRange returns the account's calendar year as a date range.
func (a Account) YearRange() period.DateRange {
	return period.YearRange(a.Year)
}

// Store persists accounts. The api and cmd layers use it; the calculator
// itself receives accounts from its callers.
type Store interface {
	// GetAccount returns the account of a person for a year. The second
	// return is false when no account exists.
	GetAccount(ctx context.Context, personID int64, year int) (Account, bool, error)

	// GetAccountsForYear returns the accounts of the given persons for a
	// year, skipping persons without one.
	GetAccountsForYear(ctx context.Context, persons []person.Person, year int) ([]Account, error)

	// SaveAccount creates or replaces an account and returns it with its
	// assigned id.
	SaveAccount(ctx context.Context, a Account) (Account, error)
}
