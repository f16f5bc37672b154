package absence_test

import (
	"context"
	"testing"
	"time"

	"github.com/warp/leave-engine/absence"
	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/settings"
	"github.com/warp/leave-engine/sicknote"
)

// =============================================================================
// SPAN TESTS
// =============================================================================

func TestGetOpenAbsencesSince_FullDaySpansMidnightToMidnight(t *testing.T) {
	// GIVEN: A full-day vacation May 3rd-5th
	// WHEN: Building calendar spans
	// THEN: The span runs from May 3rd 00:00 to May 6th 00:00 (exclusive end)

	f := newFixture(t)
	app := f.addApplication(t, date(2021, time.May, 3), date(2021, time.May, 5), period.DayLengthFull, application.StatusAllowed)

	spans, err := f.aggregator.GetOpenAbsencesSince(context.Background(), []person.Person{f.person}, date(2021, time.May, 1))
	if err != nil {
		t.Fatalf("GetOpenAbsencesSince failed: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]
	if s.SourceID != app.ID || s.Type != absence.TypeVacation {
		t.Errorf("unexpected span identity: %+v", s)
	}
	wantStart := time.Date(2021, time.May, 3, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2021, time.May, 6, 0, 0, 0, 0, time.UTC)
	if !s.Start.Equal(wantStart) || !s.End.Equal(wantEnd) {
		t.Errorf("expected [%v, %v), got [%v, %v)", wantStart, wantEnd, s.Start, s.End)
	}
}

func TestGetOpenAbsencesSince_HalfDaySpansUseBusinessHours(t *testing.T) {
	f := newFixture(t)
	day := date(2021, time.May, 6)
	f.addApplication(t, day, day, period.DayLengthMorning, application.StatusAllowed)
	f.addSickNote(t, day, day, period.DayLengthNoon, sicknote.StatusActive)

	spans, err := f.aggregator.GetOpenAbsencesSince(context.Background(), []person.Person{f.person}, day)
	if err != nil {
		t.Fatalf("GetOpenAbsencesSince failed: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	morning := spans[0]
	if morning.Start.Hour() != 8 || morning.End.Hour() != 12 {
		t.Errorf("morning span: expected 08:00-12:00, got %v-%v", morning.Start, morning.End)
	}
	noon := spans[1]
	if noon.Start.Hour() != 12 || noon.End.Hour() != 16 {
		t.Errorf("noon span: expected 12:00-16:00, got %v-%v", noon.Start, noon.End)
	}
	if noon.Type != absence.TypeSick {
		t.Errorf("expected the sick note second, got %s", noon.Type)
	}
}

func TestGetOpenAbsencesSince_FiltersBySinceDate(t *testing.T) {
	// GIVEN: One vacation ending in April, one in June
	// WHEN: Asking for spans since May 1st
	// THEN: Only the June one remains

	f := newFixture(t)
	f.addApplication(t, date(2021, time.April, 5), date(2021, time.April, 9), period.DayLengthFull, application.StatusAllowed)
	june := f.addApplication(t, date(2021, time.June, 7), date(2021, time.June, 11), period.DayLengthFull, application.StatusAllowed)

	spans, err := f.aggregator.GetOpenAbsencesSince(context.Background(), []person.Person{f.person}, date(2021, time.May, 1))
	if err != nil {
		t.Fatalf("GetOpenAbsencesSince failed: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].SourceID != june.ID {
		t.Errorf("expected the June vacation, got source %d", spans[0].SourceID)
	}
}

func TestGetAllOpenAbsencesSince_CoversEveryPerson(t *testing.T) {
	f := newFixture(t)
	other, err := f.store.CreatePerson(context.Background(), person.Person{Username: "robin"})
	if err != nil {
		t.Fatalf("Failed to create person: %v", err)
	}
	f.addApplication(t, date(2021, time.May, 3), date(2021, time.May, 5), period.DayLengthFull, application.StatusAllowed)
	if _, err := f.store.CreateSickNote(context.Background(), sicknote.SickNote{
		Person:    other,
		StartDate: date(2021, time.May, 4),
		EndDate:   date(2021, time.May, 4),
		DayLength: period.DayLengthFull,
		Status:    sicknote.StatusActive,
	}); err != nil {
		t.Fatalf("Failed to create sick note: %v", err)
	}

	spans, err := f.aggregator.GetAllOpenAbsencesSince(context.Background(), date(2021, time.May, 1))
	if err != nil {
		t.Fatalf("GetAllOpenAbsencesSince failed: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
}

func TestGetOpenAbsencesSince_PlacesSpansInCompanyTimezone(t *testing.T) {
	// GIVEN: Settings pointing at Europe/Berlin
	f := newFixture(t)
	if err := f.store.SaveWorkingTimeSettings(context.Background(), settings.WorkingTimeSettings{
		TimeZoneID:      "Europe/Berlin",
		WorkingWeekdays: settings.DefaultWorkingTimeSettings().WorkingWeekdays,
	}); err != nil {
		t.Fatalf("Failed to save settings: %v", err)
	}
	day := date(2021, time.May, 6)
	f.addApplication(t, day, day, period.DayLengthMorning, application.StatusAllowed)

	spans, err := f.aggregator.GetOpenAbsencesSince(context.Background(), []person.Person{f.person}, day)
	if err != nil {
		t.Fatalf("GetOpenAbsencesSince failed: %v", err)
	}
	if got := spans[0].Start.Location().String(); got != "Europe/Berlin" {
		t.Errorf("expected Europe/Berlin, got %s", got)
	}
}
