/*
Package application defines applications for leave and their vacation types.

PURPOSE:
  An Application is a request for time off: a person, an inclusive date
  range, a day length (full day or a morning/noon half) and a lifecycle
  status. The balance calculator and the absence aggregator consume
  applications read-only; creating and approving them is the business of
  the surrounding system.

KEY CONCEPTS IN THIS FILE:
  - Application: The leave request record
  - Status:      Lifecycle state (waiting ... revoked)
  - OpenStatuses / ClosedStatuses: The two status sets the aggregator
    queries by

INVARIANTS:
  1. Half-day applications (MORNING/NOON) cover exactly one date
  2. Applications are immutable to this module

SEE ALSO:
  - vacationtype.go: Provided vs custom vacation types
  - query.go: The external query interface
*/
package application

import (
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
)

// =============================================================================
// STATUS - Application lifecycle state
// =============================================================================

type Status string

const (
	StatusWaiting                      Status = "WAITING"
	StatusTemporaryAllowed             Status = "TEMPORARY_ALLOWED"
	StatusAllowed                      Status = "ALLOWED"
	StatusAllowedCancellationRequested Status = "ALLOWED_CANCELLATION_REQUESTED"
	StatusRejected                     Status = "REJECTED"
	StatusCancelled                    Status = "CANCELLED"
	StatusRevoked                      Status = "REVOKED"
)

// OpenStatuses returns the states in which an application still blocks or
// consumes vacation days.
func OpenStatuses() []Status {
	return []Status{StatusWaiting, StatusTemporaryAllowed, StatusAllowed, StatusAllowedCancellationRequested}
}

// ClosedStatuses returns the terminal states that no longer consume days.
func ClosedStatuses() []Status {
	return []Status{StatusRejected, StatusCancelled, StatusRevoked}
}

// =============================================================================
// APPLICATION - A request for leave
// =============================================================================

type Application struct {
	ID           int64
	Person       person.Person
	StartDate    period.Date
	EndDate      period.Date
	DayLength    period.DayLength
	Status       Status
	VacationType VacationType
}

// Range returns the inclusive date range of the application.
func (a Application) Range() period.DateRange {
	return period.NewDateRange(a.StartDate, a.EndDate)
}

// HasStatus reports whether the application is in one of the given states.
func (a Application) HasStatus(statuses []Status) bool {
	for _, s := range statuses {
		if a.Status == s {
			return true
		}
	}
	return false
}
