// Package sicknote defines sick-leave records and their query interface.
// Sick notes look like applications (person, range, day length) but have
// their own lifecycle and never consume vacation-day entitlement.
package sicknote

import (
	"context"

	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
)

type Status string

const (
	StatusActive              Status = "ACTIVE"
	StatusConvertedToVacation Status = "CONVERTED_TO_VACATION"
	StatusCancelled           Status = "CANCELLED"
)

// OpenStatuses returns the states in which a sick note is still in effect.
func OpenStatuses() []Status {
	return []Status{StatusActive}
}

// ClosedStatuses returns the terminal states.
func ClosedStatuses() []Status {
	return []Status{StatusConvertedToVacation, StatusCancelled}
}

type SickNote struct {
	ID        int64
	Person    person.Person
	StartDate period.Date
	EndDate   period.Date
	DayLength period.DayLength
	Status    Status
}

// Range returns the inclusive date range of the sick note.
func (s SickNote) Range() period.DateRange {
	return period.NewDateRange(s.StartDate, s.EndDate)
}

// Query is the external sick-note source consumed by the absence
// aggregator.
type Query interface {
	// GetForStatesAndPerson returns sick notes of the given persons in one
	// of the given states whose date range touches [from, to].
	GetForStatesAndPerson(ctx context.Context, statuses []Status, persons []person.Person, from, to period.Date) ([]SickNote, error)

	// GetForStatesAndPersonSince is the open-ended variant: sick notes
	// ending on or after 'since'.
	GetForStatesAndPersonSince(ctx context.Context, statuses []Status, persons []person.Person, since period.Date) ([]SickNote, error)

	// GetForStatesSince returns matching sick notes of all persons.
	GetForStatesSince(ctx context.Context, statuses []Status, since period.Date) ([]SickNote, error)
}
