package absence

import (
	"context"

	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/settings"
	"github.com/warp/leave-engine/sicknote"
	"github.com/warp/leave-engine/workingtime"
)

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator computes absence timelines from the injected query
// interfaces. It performs no I/O of its own besides those queries and
// holds no state between calls.
type Aggregator struct {
	applications application.Query
	sickNotes    sicknote.Query
	workingTimes workingtime.Provider
	settings     settings.Provider
}

func NewAggregator(applications application.Query, sickNotes sicknote.Query, workingTimes workingtime.Provider, settingsProvider settings.Provider) *Aggregator {
	return &Aggregator{applications: applications, sickNotes: sickNotes, workingTimes: workingTimes, settings: settingsProvider}
}

// GetOpenAbsences returns the timelines of all still-effective absences
// (waiting or allowed applications, active sick notes) of the given
// persons within [from, to]. The result is ordered by fetch order:
// applications first, then sick notes.
func (a *Aggregator) GetOpenAbsences(ctx context.Context, persons []person.Person, from, to period.Date) ([]AbsencePeriod, error) {
	return a.absences(ctx, persons, from, to, application.OpenStatuses(), sicknote.OpenStatuses())
}

// GetClosedAbsences returns the timelines of terminated absences
// (rejected/cancelled/revoked applications, converted or cancelled sick
// notes) of the given persons within [from, to].
func (a *Aggregator) GetClosedAbsences(ctx context.Context, persons []person.Person, from, to period.Date) ([]AbsencePeriod, error) {
	return a.absences(ctx, persons, from, to, application.ClosedStatuses(), sicknote.ClosedStatuses())
}

func (a *Aggregator) absences(ctx context.Context, persons []person.Person, from, to period.Date, appStatuses []application.Status, noteStatuses []sicknote.Status) ([]AbsencePeriod, error) {
	window := period.NewDateRange(from, to)
	if err := window.Validate(); err != nil {
		return nil, err
	}

	calendars, err := a.workingTimes.GetWorkingTimesByPersons(ctx, persons, window)
	if err != nil {
		return nil, err
	}

	apps, err := a.applications.GetForStatesAndPerson(ctx, appStatuses, persons, from, to)
	if err != nil {
		return nil, err
	}
	notes, err := a.sickNotes.GetForStatesAndPerson(ctx, noteStatuses, persons, from, to)
	if err != nil {
		return nil, err
	}

	// one period per source event, applications first, never merged
	periods := make([]AbsencePeriod, 0, len(apps)+len(notes))
	for _, app := range apps {
		calendar, ok := calendars[app.Person.ID]
		if !ok {
			return nil, &workingtime.CalendarNotFoundError{Person: app.Person}
		}
		periods = append(periods, vacationPeriod(app, window, calendar))
	}
	for _, note := range notes {
		calendar, ok := calendars[note.Person.ID]
		if !ok {
			return nil, &workingtime.CalendarNotFoundError{Person: note.Person}
		}
		periods = append(periods, sickPeriod(note, window, calendar))
	}
	return periods, nil
}

func vacationPeriod(app application.Application, window period.DateRange, calendar workingtime.Calendar) AbsencePeriod {
	info := RecordInfo{
		SourceID:          app.ID,
		Status:            statusOfApplication(app.Status),
		Type:              TypeVacation,
		VacationTypeID:    vacationTypeIDOf(app),
		VisibleToEveryone: app.VacationType != nil && app.VacationType.VisibleToEveryone(),
	}
	return AbsencePeriod{Records: records(app.Person, app.Range().Clip(window), app.DayLength, calendar, info)}
}

func sickPeriod(note sicknote.SickNote, window period.DateRange, calendar workingtime.Calendar) AbsencePeriod {
	// sick notes are never visible to everyone
	info := RecordInfo{
		SourceID: note.ID,
		Status:   statusOfSickNote(note.Status),
		Type:     TypeSick,
	}
	return AbsencePeriod{Records: records(note.Person, note.Range().Clip(window), note.DayLength, calendar, info)}
}

func vacationTypeIDOf(app application.Application) VacationTypeID {
	if app.VacationType == nil {
		return NewVacationTypeID(0)
	}
	return NewVacationTypeID(app.VacationType.ID())
}

// records walks the clipped interval day by day. A slot is populated when
// both the absence and the person's working time cover that half; days
// without any populated slot yield no Record.
func records(p person.Person, r period.DateRange, absenceLength period.DayLength, calendar workingtime.Calendar, info RecordInfo) []Record {
	var out []Record
	for _, date := range r.Days() {
		workingLength := calendar.DayLengthAt(date)
		if workingLength.IsZero() {
			continue
		}

		var morning, noon *RecordInfo
		if absenceLength.CoversMorning() && workingLength.CoversMorning() {
			m := info
			morning = &m
		}
		if absenceLength.CoversNoon() && workingLength.CoversNoon() {
			n := info
			noon = &n
		}
		if morning == nil && noon == nil {
			continue
		}
		out = append(out, Record{Date: date, Person: p, Morning: morning, Noon: noon})
	}
	return out
}
