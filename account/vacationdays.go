package account

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
)

// =============================================================================
// VACATION DAYS - The balance calculator service
// =============================================================================

// VacationDays computes used and left vacation days for accounts. It is a
// pure request-scoped calculation: all data comes from the injected query
// interfaces, nothing is cached or persisted.
type VacationDays struct {
	workDays     WorkDaysCounter
	applications application.Query
	clock        period.Clock
}

// WorkDaysCounter converts a date range and a person's working-time
// pattern into a fractional work-day count. Satisfied by
// workingtime.CalendarWorkDaysCounter.
type WorkDaysCounter interface {
	WorkDaysCount(ctx context.Context, dayLength period.DayLength, from, to period.Date, p person.Person) (decimal.Decimal, error)
}

func NewVacationDays(workDays WorkDaysCounter, applications application.Query, clock period.Clock) *VacationDays {
	return &VacationDays{workDays: workDays, applications: applications, clock: clock}
}

// GetVacationDaysLeft computes the days-left breakdown for an account.
// When the next year's account is supplied, carried-over days already
// spent there are computed as well so the current year's total can be
// reduced accordingly.
//
// Applications reaching outside the account year are clipped to the year
// boundary. An application spanning two calendar years is accounted for
// in each year separately by the respective account.
func (v *VacationDays) GetVacationDaysLeft(ctx context.Context, a Account, nextYear *Account) (VacationDaysLeft, error) {
	yearRange := a.YearRange()
	return v.vacationDaysLeft(ctx, yearRange.Start, yearRange.End, a, nextYear)
}

// CalculateTotalLeftVacationDays returns the total number of days still
// available for new applications as of today. Before the account's expiry
// date the carried-over remaining days count; from the expiry date on only
// the not-expiring portion does.
func (v *VacationDays) CalculateTotalLeftVacationDays(ctx context.Context, a Account) (decimal.Decimal, error) {
	left, err := v.GetVacationDaysLeft(ctx, a, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return left.LeftVacationDays(v.clock.Today(), a.DoRemainingVacationDaysExpire, a.ExpiryDate), nil
}

// GetUsedRemainingVacationDays computes how much of the carried-over
// bucket, as opposed to the fresh annual entitlement, has already been
// consumed in the account's year. The annual entitlement is attributed
// first; only consumption beyond it draws from the carried-over bucket.
func (v *VacationDays) GetUsedRemainingVacationDays(ctx context.Context, a Account) (decimal.Decimal, error) {
	if !a.RemainingVacationDays.IsPositive() {
		return decimal.Zero, nil
	}

	left, err := v.GetVacationDaysLeft(ctx, a, nil)
	if err != nil {
		return decimal.Zero, err
	}

	// balance identity: what was consumed overall this year
	totalUsed := a.ActualVacationDays.
		Add(a.RemainingVacationDays).
		Sub(left.VacationDays()).
		Sub(left.RemainingVacationDays())

	remainingUsed := totalUsed.Sub(a.ActualVacationDays)
	if remainingUsed.IsPositive() {
		return remainingUsed, nil
	}
	return decimal.Zero, nil
}

func (v *VacationDays) vacationDaysLeft(ctx context.Context, start, end period.Date, a Account, nextYear *Account) (VacationDaysLeft, error) {
	var usedBeforeExpiry, usedAfterExpiry decimal.Decimal
	var err error

	if a.DoRemainingVacationDaysExpire {
		endBeforeExpiry := period.Min(end, a.ExpiryDate.AddDays(-1))
		startAfterExpiry := period.Max(start, a.ExpiryDate)

		usedBeforeExpiry, err = v.usedVacationDaysBetween(ctx, a.Person, start, endBeforeExpiry)
		if err != nil {
			return VacationDaysLeft{}, err
		}
		usedAfterExpiry, err = v.usedVacationDaysBetween(ctx, a.Person, startAfterExpiry, end)
		if err != nil {
			return VacationDaysLeft{}, err
		}
	} else {
		usedBeforeExpiry, err = v.usedVacationDaysBetween(ctx, a.Person, start, end)
		if err != nil {
			return VacationDaysLeft{}, err
		}
		usedAfterExpiry = decimal.Zero
	}

	usedNextYear := decimal.Zero
	if nextYear != nil {
		usedNextYear, err = v.GetUsedRemainingVacationDays(ctx, *nextYear)
		if err != nil {
			return VacationDaysLeft{}, err
		}
	}

	return VacationDaysLeft{
		AnnualVacation:               a.ActualVacationDays,
		RemainingVacation:            a.RemainingVacationDays,
		RemainingVacationNotExpiring: a.RemainingVacationDaysNotExpiring,
		UsedVacationDaysBeforeExpiry: usedBeforeExpiry,
		UsedVacationDaysAfterExpiry:  usedAfterExpiry,
		VacationDaysUsedNextYear:     usedNextYear,
	}, nil
}

// usedVacationDaysBetween sums the work-day counts of all open
// HOLIDAY-category applications touching [first, last], each clipped to
// that interval. An inverted interval contributes zero.
func (v *VacationDays) usedVacationDaysBetween(ctx context.Context, p person.Person, first, last period.Date) (decimal.Decimal, error) {
	if first.After(last) {
		return decimal.Zero, nil
	}

	apps, err := v.applications.GetForStatesAndPerson(ctx, application.OpenStatuses(), []person.Person{p}, first, last)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, app := range apps {
		if !isHoliday(app) {
			continue
		}
		start := period.Max(app.StartDate, first)
		end := period.Min(app.EndDate, last)
		used, err := v.workDays.WorkDaysCount(ctx, app.DayLength, start, end, p)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(used)
	}
	return sum, nil
}

func isHoliday(app application.Application) bool {
	return app.VacationType != nil && app.VacationType.Category() == application.CategoryHoliday
}
