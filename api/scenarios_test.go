/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario correctly sets up the expected state:
	- Persons, vacation types and accounts are created
	- Applications and sick notes are filed
	- Balances and absence timelines match expected values

These tests ensure scenarios work correctly and can be used as integration tests.
*/
package api

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/store/memory"
)

func setupScenarioHandler(t *testing.T) *Handler {
	t.Helper()
	clock := period.FixedClock{Date: period.NewDate(2025, time.June, 15)}
	return NewHandler(memory.New(), clock, zap.NewNop())
}

func mustListPersons(t *testing.T, h *Handler, ctx context.Context) []person.Person {
	t.Helper()
	persons, err := h.Store.ListPersons(ctx)
	if err != nil {
		t.Fatalf("Failed to list persons: %v", err)
	}
	return persons
}

func TestScenario_NewEmployee(t *testing.T) {
	// GIVEN: New employee scenario
	// WHEN: Loading the scenario
	// THEN: Person, account and both applications should be created

	h := setupScenarioHandler(t)
	ctx := context.Background()

	if err := h.loadNewEmployeeScenario(ctx); err != nil {
		t.Fatalf("Failed to load new-employee scenario: %v", err)
	}

	persons := mustListPersons(t, h, ctx)
	if len(persons) != 1 {
		t.Fatalf("Expected 1 person, got %d", len(persons))
	}
	if persons[0].Username != "jdoe" {
		t.Errorf("Expected username 'jdoe', got %q", persons[0].Username)
	}

	apps, err := h.Store.GetForStatesAndPerson(ctx, application.OpenStatuses(), persons,
		period.NewDate(2025, time.January, 1), period.NewDate(2025, time.December, 31))
	if err != nil {
		t.Fatalf("Failed to query applications: %v", err)
	}
	if len(apps) != 2 {
		t.Errorf("Expected 2 open applications, got %d", len(apps))
	}

	// One week in July (5 work days) plus Thu+Fri in October (2) are
	// booked against the 28-day entitlement.
	a, ok, err := h.Store.GetAccount(ctx, persons[0].ID, 2025)
	if err != nil || !ok {
		t.Fatalf("Failed to get account: ok=%v err=%v", ok, err)
	}
	left, err := h.Balances.GetVacationDaysLeft(ctx, a, nil)
	if err != nil {
		t.Fatalf("Failed to calculate balance: %v", err)
	}
	if got := left.VacationDays().String(); got != "21" {
		t.Errorf("Expected 21 days left, got %s", got)
	}
}

func TestScenario_ExpiringRemaining(t *testing.T) {
	// GIVEN: Expiring-remaining scenario, clock past the April 1st expiry
	// WHEN: Calculating the balance
	// THEN: The March days ate the carry-over, the August days overflowed
	//       the non-expiring rest into the annual entitlement

	h := setupScenarioHandler(t)
	ctx := context.Background()

	if err := h.loadExpiringRemainingScenario(ctx); err != nil {
		t.Fatalf("Failed to load expiring-remaining scenario: %v", err)
	}

	persons := mustListPersons(t, h, ctx)
	if len(persons) != 1 {
		t.Fatalf("Expected 1 person, got %d", len(persons))
	}

	a, ok, err := h.Store.GetAccount(ctx, persons[0].ID, 2025)
	if err != nil || !ok {
		t.Fatalf("Failed to get account: ok=%v err=%v", ok, err)
	}
	left, err := h.Balances.GetVacationDaysLeft(ctx, a, nil)
	if err != nil {
		t.Fatalf("Failed to calculate balance: %v", err)
	}

	// 3 days in March: carry-over 5 -> 2. 5 days in August: the 2
	// non-expiring days pay first, 3 spill into the annual 30.
	today := period.NewDate(2025, time.June, 15)
	if got := left.LeftVacationDays(today, a.DoRemainingVacationDaysExpire, a.ExpiryDate).String(); got != "27" {
		t.Errorf("Expected 27 days left after expiry, got %s", got)
	}
	if got := left.RemainingVacationDaysLeft(today, a.DoRemainingVacationDaysExpire, a.ExpiryDate).String(); got != "0" {
		t.Errorf("Expected 0 remaining days left after expiry, got %s", got)
	}
}

func TestScenario_SicknessHalfDays(t *testing.T) {
	// GIVEN: Sickness scenario with Friday mornings only
	// WHEN: Aggregating open absences for the whole year
	// THEN: One vacation and two sick note timelines come back

	h := setupScenarioHandler(t)
	ctx := context.Background()

	if err := h.loadSicknessHalfDaysScenario(ctx); err != nil {
		t.Fatalf("Failed to load sickness-halfdays scenario: %v", err)
	}

	persons := mustListPersons(t, h, ctx)
	if len(persons) != 1 {
		t.Fatalf("Expected 1 person, got %d", len(persons))
	}

	periods, err := h.Absences.GetOpenAbsences(ctx, persons,
		period.NewDate(2025, time.January, 1), period.NewDate(2025, time.December, 31))
	if err != nil {
		t.Fatalf("Failed to aggregate absences: %v", err)
	}
	if len(periods) != 3 {
		t.Fatalf("Expected 3 absence timelines, got %d", len(periods))
	}

	// The morning vacation falls on a Friday where only the morning is
	// worked: one record, morning occupied, noon free.
	vacation := periods[0]
	if len(vacation.Records) != 1 {
		t.Fatalf("Expected 1 vacation record, got %d", len(vacation.Records))
	}
	if vacation.Records[0].Morning == nil {
		t.Error("Expected the morning slot to be occupied")
	}
	if vacation.Records[0].Noon != nil {
		t.Error("Expected the noon slot to be free")
	}

	// Feb 9th is a Sunday, so the week-long sick note covers Mon-Thu.
	// The Friday the 14th is outside the note.
	sick := periods[1]
	if len(sick.Records) != 4 {
		t.Errorf("Expected 4 sick note records, got %d", len(sick.Records))
	}
	if sick.Records[0].Morning != nil && sick.Records[0].Morning.VisibleToEveryone {
		t.Error("Expected sick notes to stay private")
	}
}
