package absence

import (
	"context"
	"time"

	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/sicknote"
)

// Business hours used to place half-day spans within a day.
const (
	morningStartHour = 8
	noonStartHour    = 12
	noonEndHour      = 16
)

// Span is the open-ended timeline variant consumed by calendar feeds: one
// contiguous time span per source event, placed in the company timezone.
// Full-day spans run from midnight to midnight of the following day; the
// End bound is exclusive.
type Span struct {
	Person    person.Person
	SourceID  int64
	Type      AbsenceType
	Status    AbsenceStatus
	DayLength period.DayLength
	Start     time.Time
	End       time.Time
}

// GetOpenAbsencesSince returns one span per open application and sick
// note of the given persons ending on or after 'since', ordered
// applications first.
func (a *Aggregator) GetOpenAbsencesSince(ctx context.Context, persons []person.Person, since period.Date) ([]Span, error) {
	location := a.location()

	apps, err := a.applications.GetForStatesAndPersonSince(ctx, application.OpenStatuses(), persons, since)
	if err != nil {
		return nil, err
	}
	notes, err := a.sickNotes.GetForStatesAndPersonSince(ctx, sicknote.OpenStatuses(), persons, since)
	if err != nil {
		return nil, err
	}

	return a.spans(apps, notes, location), nil
}

// GetAllOpenAbsencesSince is the variant over all persons.
func (a *Aggregator) GetAllOpenAbsencesSince(ctx context.Context, since period.Date) ([]Span, error) {
	location := a.location()

	apps, err := a.applications.GetForStatesSince(ctx, application.OpenStatuses(), since)
	if err != nil {
		return nil, err
	}
	notes, err := a.sickNotes.GetForStatesSince(ctx, sicknote.OpenStatuses(), since)
	if err != nil {
		return nil, err
	}

	return a.spans(apps, notes, location), nil
}

func (a *Aggregator) location() *time.Location {
	location, err := time.LoadLocation(a.settings.GetWorkingTimeSettings().TimeZoneID)
	if err != nil {
		return time.UTC
	}
	return location
}

func (a *Aggregator) spans(apps []application.Application, notes []sicknote.SickNote, location *time.Location) []Span {
	out := make([]Span, 0, len(apps)+len(notes))
	for _, app := range apps {
		start, end := spanBounds(app.StartDate, app.EndDate, app.DayLength, location)
		out = append(out, Span{
			Person:    app.Person,
			SourceID:  app.ID,
			Type:      TypeVacation,
			Status:    statusOfApplication(app.Status),
			DayLength: app.DayLength,
			Start:     start,
			End:       end,
		})
	}
	for _, note := range notes {
		start, end := spanBounds(note.StartDate, note.EndDate, note.DayLength, location)
		out = append(out, Span{
			Person:    note.Person,
			SourceID:  note.ID,
			Type:      TypeSick,
			Status:    statusOfSickNote(note.Status),
			DayLength: note.DayLength,
			Start:     start,
			End:       end,
		})
	}
	return out
}

func spanBounds(startDate, endDate period.Date, dayLength period.DayLength, location *time.Location) (time.Time, time.Time) {
	at := func(d period.Date, hour int) time.Time {
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, location)
	}
	switch {
	case dayLength.IsMorning():
		return at(startDate, morningStartHour), at(startDate, noonStartHour)
	case dayLength.IsNoon():
		return at(startDate, noonStartHour), at(startDate, noonEndHour)
	default:
		return at(startDate, 0), at(endDate.AddDays(1), 0)
	}
}
