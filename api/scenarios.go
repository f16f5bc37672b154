/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates persons, vacation
	types, accounts, applications and sick notes that demonstrate
	specific features.

AVAILABLE SCENARIOS:

	new-employee:        Single person, plain account, a few vacations
	expiring-remaining:  Carried-over days that expire on April 1st
	sickness-halfdays:   Part-time schedule, sick notes, half-day leave

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create vacation types
 3. Create persons and accounts
 4. File applications and sick notes
 5. Optionally override working-time schedules

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "expiring-remaining"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/account"
	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/sicknote"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "new-employee",
		Name:        "New Employee",
		Description: "Single person with a plain holiday account and a few vacations",
	},
	{
		ID:          "expiring-remaining",
		Name:        "Expiring Remaining Days",
		Description: "Carried-over days that expire on April 1st, used before and after",
	},
	{
		ID:          "sickness-halfdays",
		Name:        "Sickness and Half Days",
		Description: "Part-time schedule with sick notes and half-day leave",
	},
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	out := make([]ScenarioDTO, len(scenarios))
	copy(out, scenarios)
	for i := range out {
		out[i].Loaded = out[i].ID == h.currentScenario
	}
	writeJSON(w, http.StatusOK, out)
}

// LoadScenario resets the database and loads the requested scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "new-employee":
		err = h.loadNewEmployeeScenario(ctx)
	case "expiring-remaining":
		err = h.loadExpiringRemainingScenario(ctx)
	case "sickness-halfdays":
		err = h.loadSicknessHalfDaysScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "scenario": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

func (h *Handler) seedHolidayType(ctx context.Context) (application.VacationType, error) {
	id, err := h.Store.CreateVacationType(ctx, application.CustomVacationType{
		VacationTypeAttributes: application.VacationTypeAttributes{
			Active:          true,
			TypeCategory:    application.CategoryHoliday,
			ApprovalToApply: true,
			TypeColor:       "YELLOW",
			EveryoneVisible: true,
		},
		LabelByLocale: map[string]string{"en": "Holiday", "de": "Erholungsurlaub"},
	})
	if err != nil {
		return nil, err
	}
	vt, _, err := h.Store.GetVacationType(ctx, id)
	return vt, err
}

func (h *Handler) loadNewEmployeeScenario(ctx context.Context) error {
	holiday, err := h.seedHolidayType(ctx)
	if err != nil {
		return err
	}

	p, err := h.Store.CreatePerson(ctx, person.Person{
		Username:  "jdoe",
		FirstName: "Jordan",
		LastName:  "Doe",
		Email:     "jdoe@example.org",
	})
	if err != nil {
		return err
	}

	year := h.Clock.Today().Year()
	if _, err := h.Store.SaveAccount(ctx, account.Account{
		Person:             p,
		Year:               year,
		AnnualVacationDays: decimal.NewFromInt(30),
		ActualVacationDays: decimal.NewFromInt(28),
	}); err != nil {
		return err
	}

	// One approved week off in summer, one pending long weekend.
	apps := []application.Application{
		{
			Person:       p,
			StartDate:    period.NewDate(year, 7, 14),
			EndDate:      period.NewDate(year, 7, 18),
			DayLength:    period.DayLengthFull,
			Status:       application.StatusAllowed,
			VacationType: holiday,
		},
		{
			Person:       p,
			StartDate:    period.NewDate(year, 10, 2),
			EndDate:      period.NewDate(year, 10, 3),
			DayLength:    period.DayLengthFull,
			Status:       application.StatusWaiting,
			VacationType: holiday,
		},
	}
	for _, app := range apps {
		if _, err := h.Store.CreateApplication(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadExpiringRemainingScenario(ctx context.Context) error {
	holiday, err := h.seedHolidayType(ctx)
	if err != nil {
		return err
	}

	p, err := h.Store.CreatePerson(ctx, person.Person{
		Username:  "mmuster",
		FirstName: "Marlene",
		LastName:  "Muster",
		Email:     "mmuster@example.org",
	})
	if err != nil {
		return err
	}

	year := h.Clock.Today().Year()
	if _, err := h.Store.SaveAccount(ctx, account.Account{
		Person:                           p,
		Year:                             year,
		AnnualVacationDays:               decimal.NewFromInt(30),
		ActualVacationDays:               decimal.NewFromInt(30),
		RemainingVacationDays:            decimal.NewFromInt(5),
		RemainingVacationDaysNotExpiring: decimal.NewFromInt(2),
		DoRemainingVacationDaysExpire:    true,
		ExpiryDate:                       period.NewDate(year, 4, 1),
	}); err != nil {
		return err
	}

	// Three days in March eat into the carried-over days, five days in
	// August only into the annual entitlement plus the non-expiring rest.
	apps := []application.Application{
		{
			Person:       p,
			StartDate:    period.NewDate(year, 3, 10),
			EndDate:      period.NewDate(year, 3, 12),
			DayLength:    period.DayLengthFull,
			Status:       application.StatusAllowed,
			VacationType: holiday,
		},
		{
			Person:       p,
			StartDate:    period.NewDate(year, 8, 18),
			EndDate:      period.NewDate(year, 8, 22),
			DayLength:    period.DayLengthFull,
			Status:       application.StatusAllowed,
			VacationType: holiday,
		},
	}
	for _, app := range apps {
		if _, err := h.Store.CreateApplication(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadSicknessHalfDaysScenario(ctx context.Context) error {
	holiday, err := h.seedHolidayType(ctx)
	if err != nil {
		return err
	}

	p, err := h.Store.CreatePerson(ctx, person.Person{
		Username:  "rpart",
		FirstName: "Robin",
		LastName:  "Part",
		Email:     "rpart@example.org",
	})
	if err != nil {
		return err
	}

	year := h.Clock.Today().Year()
	if _, err := h.Store.SaveAccount(ctx, account.Account{
		Person:             p,
		Year:               year,
		AnnualVacationDays: decimal.NewFromInt(15),
		ActualVacationDays: decimal.NewFromInt(15),
	}); err != nil {
		return err
	}

	// Fridays are mornings only for this person.
	end := period.NewDate(year, 12, 31)
	for d := period.NewDate(year, 1, 1); d.BeforeOrEqual(end); d = d.AddDays(1) {
		if d.Weekday() == time.Friday {
			if err := h.Store.SetWorkingTime(ctx, p.ID, d, period.DayLengthMorning); err != nil {
				return err
			}
		}
	}

	if _, err := h.Store.CreateApplication(ctx, application.Application{
		Person:       p,
		StartDate:    period.NewDate(year, 6, 6),
		EndDate:      period.NewDate(year, 6, 6),
		DayLength:    period.DayLengthMorning,
		Status:       application.StatusAllowed,
		VacationType: holiday,
	}); err != nil {
		return err
	}

	notes := []sicknote.SickNote{
		{
			Person:    p,
			StartDate: period.NewDate(year, 2, 9),
			EndDate:   period.NewDate(year, 2, 13),
			DayLength: period.DayLengthFull,
			Status:    sicknote.StatusActive,
		},
		{
			Person:    p,
			StartDate: period.NewDate(year, 9, 15),
			EndDate:   period.NewDate(year, 9, 15),
			DayLength: period.DayLengthNoon,
			Status:    sicknote.StatusActive,
		},
	}
	for _, note := range notes {
		if _, err := h.Store.CreateSickNote(ctx, note); err != nil {
			return err
		}
	}
	return nil
}
