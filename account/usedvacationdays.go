package account

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/workingtime"
)

// =============================================================================
// USED VACATION DAYS - Associative reducers for the batch computation
// =============================================================================

// UsedVacationDays is a before/after-expiry pair of used-day counts.
// Add is associative with UsedVacationDaysIdentity as identity, so folds
// may run in any grouping, including parallel reduction.
type UsedVacationDays struct {
	BeforeExpiry decimal.Decimal
	AfterExpiry  decimal.Decimal
}

func (u UsedVacationDays) Add(other UsedVacationDays) UsedVacationDays {
	return UsedVacationDays{
		BeforeExpiry: u.BeforeExpiry.Add(other.BeforeExpiry),
		AfterExpiry:  u.AfterExpiry.Add(other.AfterExpiry),
	}
}

// UsedVacationDaysTuple holds the same figures scoped twice: once to the
// requested date range and once to the full account year.
type UsedVacationDaysTuple struct {
	DateRange UsedVacationDays
	Year      UsedVacationDays
}

func (t UsedVacationDaysTuple) Add(other UsedVacationDaysTuple) UsedVacationDaysTuple {
	return UsedVacationDaysTuple{
		DateRange: t.DateRange.Add(other.DateRange),
		Year:      t.Year.Add(other.Year),
	}
}

// UsedVacationDaysIdentity is the fold identity.
func UsedVacationDaysIdentity() UsedVacationDaysTuple {
	return UsedVacationDaysTuple{}
}

// HolidayAccountVacationDays pairs an account with its days-left
// breakdown scoped to the full year and to the requested date range, so a
// UI can show both without recomputation.
type HolidayAccountVacationDays struct {
	Account               Account
	VacationDaysYear      VacationDaysLeft
	VacationDaysDateRange VacationDaysLeft
}

// =============================================================================
// BATCH OPERATION
// =============================================================================

// GetVacationDaysLeftBatch computes the days-left breakdowns for many
// accounts in one pass. The range [from, to] must be non-empty and stay
// within one calendar year; accounts of other years are skipped. The
// result is keyed by person id.
//
// Calendars must cover the account year for every person that has open
// holiday applications; a missing one fails the whole batch (no partial
// results).
func (v *VacationDays) GetVacationDaysLeftBatch(ctx context.Context, accounts []Account, from, to period.Date, calendarsByPerson map[int64]workingtime.Calendar) (map[int64]HolidayAccountVacationDays, error) {
	requested := period.NewDateRange(from, to)
	if err := requested.ValidateSameYear(); err != nil {
		return nil, err
	}

	year := from.Year()
	var accountsForYear []Account
	for _, a := range accounts {
		if a.Year == year {
			accountsForYear = append(accountsForYear, a)
		}
	}

	appsByPerson, err := v.holidayApplicationsByPerson(ctx, accountsForYear, year)
	if err != nil {
		return nil, err
	}

	result := make(map[int64]HolidayAccountVacationDays, len(accountsForYear))
	for _, a := range accountsForYear {
		apps := appsByPerson[a.Person.ID]

		used := UsedVacationDaysIdentity()
		if len(apps) > 0 {
			calendar, ok := calendarsByPerson[a.Person.ID]
			if !ok {
				return nil, &workingtime.CalendarNotFoundError{Person: a.Person}
			}
			for _, app := range apps {
				used = used.Add(usedVacationDaysOf(a, app, calendar, requested))
			}
		}

		result[a.Person.ID] = HolidayAccountVacationDays{
			Account:               a,
			VacationDaysYear:      vacationDaysLeftFor(a, used.Year),
			VacationDaysDateRange: vacationDaysLeftFor(a, used.DateRange),
		}
	}
	return result, nil
}

func (v *VacationDays) holidayApplicationsByPerson(ctx context.Context, accounts []Account, year int) (map[int64][]application.Application, error) {
	seen := make(map[int64]bool, len(accounts))
	var persons []person.Person
	for _, a := range accounts {
		if !seen[a.Person.ID] {
			seen[a.Person.ID] = true
			persons = append(persons, a.Person)
		}
	}
	if len(persons) == 0 {
		return nil, nil
	}

	apps, err := v.applications.GetForStatesAndPerson(ctx, application.OpenStatuses(), persons, period.FirstDayOfYear(year), period.LastDayOfYear(year))
	if err != nil {
		return nil, err
	}

	byPerson := make(map[int64][]application.Application)
	for _, app := range apps {
		if isHoliday(app) {
			byPerson[app.Person.ID] = append(byPerson[app.Person.ID], app)
		}
	}
	return byPerson, nil
}

// usedVacationDaysOf folds one application into the tuple: its work-day
// count clipped to the account year (Year) and additionally to the
// requested range (DateRange), each split at the expiry date.
func usedVacationDaysOf(a Account, app application.Application, calendar workingtime.Calendar, requested period.DateRange) UsedVacationDaysTuple {
	yearClipped := app.Range().Clip(a.YearRange())
	rangeClipped := yearClipped.Clip(requested)

	return UsedVacationDaysTuple{
		DateRange: splitAtExpiry(a, app.DayLength, calendar, rangeClipped),
		Year:      splitAtExpiry(a, app.DayLength, calendar, yearClipped),
	}
}

// splitAtExpiry counts the work days of an absence interval on both sides
// of the account's expiry date. Without expiry everything lands in the
// before bucket. Empty intervals count zero on both sides.
func splitAtExpiry(a Account, dayLength period.DayLength, calendar workingtime.Calendar, r period.DateRange) UsedVacationDays {
	if r.IsEmpty() {
		return UsedVacationDays{}
	}

	if !a.DoRemainingVacationDaysExpire {
		return UsedVacationDays{
			BeforeExpiry: workingtime.CountWorkDays(calendar, dayLength, r.Start, r.End),
			AfterExpiry:  decimal.Zero,
		}
	}

	endBeforeExpiry := period.Min(r.End, a.ExpiryDate.AddDays(-1))
	startAfterExpiry := period.Max(r.Start, a.ExpiryDate)

	var before, after decimal.Decimal
	if r.Contains(endBeforeExpiry) {
		before = workingtime.CountWorkDays(calendar, dayLength, r.Start, endBeforeExpiry)
	}
	if r.Contains(startAfterExpiry) {
		after = workingtime.CountWorkDays(calendar, dayLength, startAfterExpiry, r.End)
	}
	return UsedVacationDays{BeforeExpiry: before, AfterExpiry: after}
}

func vacationDaysLeftFor(a Account, used UsedVacationDays) VacationDaysLeft {
	return VacationDaysLeft{
		AnnualVacation:               a.ActualVacationDays,
		RemainingVacation:            a.RemainingVacationDays,
		RemainingVacationNotExpiring: a.RemainingVacationDaysNotExpiring,
		UsedVacationDaysBeforeExpiry: used.BeforeExpiry,
		UsedVacationDaysAfterExpiry:  used.AfterExpiry,
		VacationDaysUsedNextYear:     decimal.Zero,
	}
}
