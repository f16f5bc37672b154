package account_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/account"
	"github.com/warp/leave-engine/period"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func days(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func daysStr(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// WATERFALL TESTS
// =============================================================================

func TestVacationDaysLeft_RemainingConsumedFirst(t *testing.T) {
	// GIVEN: 28 annual days, 5 carried over
	// WHEN: 3 days were used before expiry
	// THEN: The carried-over bucket pays, the annual days stay untouched

	left := account.VacationDaysLeft{
		AnnualVacation:               days(28),
		RemainingVacation:            days(5),
		UsedVacationDaysBeforeExpiry: days(3),
	}

	if got := left.VacationDays(); !got.Equal(days(28)) {
		t.Errorf("expected 28 annual days left, got %s", got)
	}
	if got := left.RemainingVacationDays(); !got.Equal(days(2)) {
		t.Errorf("expected 2 remaining days left, got %s", got)
	}
}

func TestVacationDaysLeft_OverflowDrawsFromAnnual(t *testing.T) {
	// GIVEN: 28 annual days, 5 carried over
	// WHEN: 8 days were used before expiry
	// THEN: The carried-over bucket is exhausted, 3 days come off the annual

	left := account.VacationDaysLeft{
		AnnualVacation:               days(28),
		RemainingVacation:            days(5),
		UsedVacationDaysBeforeExpiry: days(8),
	}

	if got := left.VacationDays(); !got.Equal(days(25)) {
		t.Errorf("expected 25 annual days left, got %s", got)
	}
	if got := left.RemainingVacationDays(); !got.IsZero() {
		t.Errorf("expected 0 remaining days left, got %s", got)
	}
}

func TestVacationDaysLeft_AfterExpiryOnlyNotExpiringSurvives(t *testing.T) {
	// GIVEN: 5 carried over, of which 2 never expire, nothing used before expiry
	// WHEN: 1 day was used after expiry
	// THEN: The not-expiring bucket pays

	left := account.VacationDaysLeft{
		AnnualVacation:               days(28),
		RemainingVacation:            days(5),
		RemainingVacationNotExpiring: days(2),
		UsedVacationDaysAfterExpiry:  days(1),
	}

	if got := left.VacationDays(); !got.Equal(days(28)) {
		t.Errorf("expected 28 annual days left, got %s", got)
	}
	if got := left.RemainingVacationDaysNotExpiring(); !got.Equal(days(1)) {
		t.Errorf("expected 1 not-expiring day left, got %s", got)
	}
}

func TestVacationDaysLeft_AfterExpiryOverflowDrawsFromAnnual(t *testing.T) {
	// GIVEN: 2 not-expiring carried-over days
	// WHEN: 4 days were used after expiry
	// THEN: 2 days come off the annual entitlement

	left := account.VacationDaysLeft{
		AnnualVacation:               days(28),
		RemainingVacation:            days(5),
		RemainingVacationNotExpiring: days(2),
		UsedVacationDaysAfterExpiry:  days(4),
	}

	if got := left.VacationDays(); !got.Equal(days(26)) {
		t.Errorf("expected 26 annual days left, got %s", got)
	}
	if got := left.RemainingVacationDaysNotExpiring(); !got.IsZero() {
		t.Errorf("expected 0 not-expiring days left, got %s", got)
	}
}

// =============================================================================
// LEFT VACATION DAYS - Date-dependent total
// =============================================================================

func TestLeftVacationDays_BeforeExpiryCountsAllRemaining(t *testing.T) {
	left := account.VacationDaysLeft{
		AnnualVacation:               days(28),
		RemainingVacation:            days(5),
		RemainingVacationNotExpiring: days(2),
	}
	expiry := period.NewDate(2024, time.April, 1)
	beforeExpiry := period.NewDate(2024, time.March, 31)

	if got := left.LeftVacationDays(beforeExpiry, true, expiry); !got.Equal(days(33)) {
		t.Errorf("expected 33 before expiry, got %s", got)
	}
}

func TestLeftVacationDays_ExpiryDayItselfCountsAsExpired(t *testing.T) {
	left := account.VacationDaysLeft{
		AnnualVacation:               days(28),
		RemainingVacation:            days(5),
		RemainingVacationNotExpiring: days(2),
	}
	expiry := period.NewDate(2024, time.April, 1)

	if got := left.LeftVacationDays(expiry, true, expiry); !got.Equal(days(30)) {
		t.Errorf("expected 30 on the expiry day, got %s", got)
	}
}

func TestLeftVacationDays_NoExpiryKeepsRemaining(t *testing.T) {
	left := account.VacationDaysLeft{
		AnnualVacation:    days(28),
		RemainingVacation: days(5),
	}
	afterApril := period.NewDate(2024, time.October, 1)

	if got := left.LeftVacationDays(afterApril, false, period.NewDate(2024, time.April, 1)); !got.Equal(days(33)) {
		t.Errorf("expected 33 without expiry, got %s", got)
	}
}

func TestLeftVacationDays_SubtractsNextYearUsage(t *testing.T) {
	// GIVEN: 2 carried-over days already spent in the following year
	left := account.VacationDaysLeft{
		AnnualVacation:           days(28),
		VacationDaysUsedNextYear: days(2),
	}
	today := period.NewDate(2024, time.December, 1)

	if got := left.LeftVacationDays(today, false, period.Date{}); !got.Equal(days(26)) {
		t.Errorf("expected 26 after next-year usage, got %s", got)
	}
}

func TestLeftVacationDays_HalfDayFigures(t *testing.T) {
	left := account.VacationDaysLeft{
		AnnualVacation:               daysStr("30"),
		UsedVacationDaysBeforeExpiry: daysStr("2.5"),
	}
	today := period.NewDate(2024, time.June, 1)

	if got := left.LeftVacationDays(today, false, period.Date{}); !got.Equal(daysStr("27.5")) {
		t.Errorf("expected 27.5, got %s", got)
	}
}
