package application

import (
	"context"

	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
)

// Query is the external application source consumed by the calculation
// core. Implementations are expected to return validated records; the
// core does not re-validate them.
type Query interface {
	// GetForStatesAndPerson returns applications of the given persons in
	// one of the given states whose date range touches [from, to].
	GetForStatesAndPerson(ctx context.Context, statuses []Status, persons []person.Person, from, to period.Date) ([]Application, error)

	// GetForStatesAndPersonSince is the open-ended variant: applications
	// ending on or after 'since'.
	GetForStatesAndPersonSince(ctx context.Context, statuses []Status, persons []person.Person, since period.Date) ([]Application, error)

	// GetForStatesSince returns matching applications of all persons.
	GetForStatesSince(ctx context.Context, statuses []Status, since period.Date) ([]Application, error)
}
