/*
handlers.go - HTTP API handlers for the leave management system

PURPOSE:
  Exposes the leave engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Persons:
    GET    /api/persons                      List all persons
    POST   /api/persons                      Create person
    GET    /api/persons/{id}                 Get person details
    GET    /api/persons/{id}/balance         Balance for one year
    PUT    /api/persons/{id}/working-time    Override one day's schedule

  Accounts:
    POST   /api/accounts                     Create or update holiday account
    GET    /api/balances                     Batch balance over a date range

  Applications / sick notes:
    POST   /api/applications                 File a leave application
    POST   /api/sicknotes                    Record a sick note

  Vacation types:
    POST   /api/vacation-types               Create vacation type
    GET    /api/vacation-types/{id}          Get vacation type

  Absences:
    GET    /api/absences                     Per-day absence timelines
    GET    /api/absences/spans               Calendar-ready spans

  Settings:
    GET    /api/settings/working-time        Global working-time settings
    PUT    /api/settings/working-time        Update settings

  Scenarios:
    GET    /api/scenarios                    List demo scenarios
    POST   /api/scenarios/load               Load a demo scenario

  Dev:
    POST   /api/reset                        Clear all data

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Backend (persistence + query interfaces)
  - Balances: vacation balance calculator
  - Absences: absence timeline aggregator
  - Clock / Log

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/leave-engine/absence"
	"github.com/warp/leave-engine/account"
	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/settings"
	"github.com/warp/leave-engine/sicknote"
	"github.com/warp/leave-engine/workingtime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Backend is the persistence surface the API needs. Both store/sqlite and
// store/memory satisfy it.
type Backend interface {
	application.Query
	account.Store
	workingtime.Provider
	settings.Provider

	CreatePerson(ctx context.Context, p person.Person) (person.Person, error)
	GetPerson(ctx context.Context, id int64) (person.Person, bool, error)
	ListPersons(ctx context.Context) ([]person.Person, error)

	CreateVacationType(ctx context.Context, vt application.VacationType) (int64, error)
	GetVacationType(ctx context.Context, id int64) (application.VacationType, bool, error)

	CreateApplication(ctx context.Context, app application.Application) (application.Application, error)
	CreateSickNote(ctx context.Context, note sicknote.SickNote) (sicknote.SickNote, error)
	SickNotes() sicknote.Query

	SetWorkingTime(ctx context.Context, personID int64, date period.Date, dl period.DayLength) error
	SaveWorkingTimeSettings(ctx context.Context, cfg settings.WorkingTimeSettings) error

	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    Backend
	Balances *account.VacationDays
	Absences *absence.Aggregator
	Clock    period.Clock
	Log      *zap.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wires the balance calculator and absence aggregator on top of
// the given store.
func NewHandler(store Backend, clock period.Clock, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	counter := workingtime.NewCalendarWorkDaysCounter(store)
	return &Handler{
		Store:    store,
		Balances: account.NewVacationDays(counter, store, clock),
		Absences: absence.NewAggregator(store, store.SickNotes(), store, store),
		Clock:    clock,
		Log:      log,
	}
}

// =============================================================================
// PERSON HANDLERS
// =============================================================================

// ListPersons returns all persons.
// GET /api/persons
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.Store.ListPersons(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list persons", err)
		return
	}
	dtos := make([]PersonDTO, 0, len(persons))
	for _, p := range persons {
		dtos = append(dtos, toPersonDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePerson creates a new person.
// POST /api/persons
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required", nil)
		return
	}

	p, err := h.Store.CreatePerson(r.Context(), person.Person{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create person", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonDTO(p))
}

// GetPerson returns one person.
// GET /api/persons/{id}
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid person id", err)
		return
	}
	p, ok, err := h.Store.GetPerson(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPersonDTO(p))
}

// =============================================================================
// ACCOUNT AND BALANCE HANDLERS
// =============================================================================

// SaveAccount creates or updates a holiday account.
// POST /api/accounts
func (h *Handler) SaveAccount(w http.ResponseWriter, r *http.Request) {
	var req SaveAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, ok, err := h.Store.GetPerson(r.Context(), req.PersonID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}

	a := account.Account{
		Person:                        p,
		Year:                          req.Year,
		DoRemainingVacationDaysExpire: req.DoRemainingVacationDaysExpire,
	}
	if a.AnnualVacationDays, err = parseDays(req.AnnualVacationDays); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid annual_vacation_days", err)
		return
	}
	if a.ActualVacationDays, err = parseDays(req.ActualVacationDays); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid actual_vacation_days", err)
		return
	}
	if a.RemainingVacationDays, err = parseDays(req.RemainingVacationDays); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid remaining_vacation_days", err)
		return
	}
	if a.RemainingVacationDaysNotExpiring, err = parseDays(req.RemainingVacationDaysNotExpiring); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid remaining_vacation_days_not_expiring", err)
		return
	}
	if req.ExpiryDate != "" {
		if a.ExpiryDate, err = period.ParseDate(req.ExpiryDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry_date", err)
			return
		}
	} else if req.DoRemainingVacationDaysExpire {
		writeError(w, http.StatusBadRequest, "expiry_date is required when remaining days expire", nil)
		return
	}

	saved, err := h.Store.SaveAccount(r.Context(), a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(saved))
}

// GetBalance returns one person's account and balance for a year.
// GET /api/persons/{id}/balance?year=2024
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid person id", err)
		return
	}
	year, err := queryYear(r, h.Clock)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	a, ok, err := h.Store.GetAccount(ctx, id, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get account", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "No account for that year", nil)
		return
	}

	var nextYear *account.Account
	if next, ok, err := h.Store.GetAccount(ctx, id, year+1); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get next-year account", err)
		return
	} else if ok {
		nextYear = &next
	}

	left, err := h.Balances.GetVacationDaysLeft(ctx, a, nextYear)
	if err != nil {
		h.Log.Error("balance calculation failed",
			zap.Int64("person", id), zap.Int("year", year), zap.Error(err))
		writeError(w, balanceStatus(err), "Failed to calculate balance", err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{
		Account:          toAccountDTO(a),
		VacationDaysLeft: toVacationDaysLeftDTO(left, a, h.Clock.Today()),
	})
}

// GetBatchBalances returns balances for every account of a year, with the
// used days additionally broken down to a date range inside that year.
// GET /api/balances?from=2024-01-01&to=2024-03-31
func (h *Handler) GetBatchBalances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, err := period.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := period.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	persons, err := h.Store.ListPersons(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list persons", err)
		return
	}
	accounts, err := h.Store.GetAccountsForYear(ctx, persons, from.Year())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load accounts", err)
		return
	}

	calendars, err := h.Store.GetWorkingTimesByPersons(ctx, persons, period.YearRange(from.Year()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load working times", err)
		return
	}

	byPerson, err := h.Balances.GetVacationDaysLeftBatch(ctx, accounts, from, to, calendars)
	if err != nil {
		writeError(w, balanceStatus(err), "Failed to calculate balances", err)
		return
	}

	today := h.Clock.Today()
	dtos := make([]BatchBalanceDTO, 0, len(byPerson))
	for _, a := range accounts {
		row, ok := byPerson[a.Person.ID]
		if !ok {
			continue
		}
		dtos = append(dtos, BatchBalanceDTO{
			Account:                    toAccountDTO(row.Account),
			VacationDaysYear:           toVacationDaysLeftDTO(row.VacationDaysYear, row.Account, today),
			VacationDaysDateRange:      toVacationDaysLeftDTO(row.VacationDaysDateRange, row.Account, today),
			LeftVacationDaysYear:       leftOf(row.VacationDaysYear, row.Account, today),
			LeftVacationDaysDateRange:  leftOf(row.VacationDaysDateRange, row.Account, today),
			RemainingDaysLeftYear:      remainingLeftOf(row.VacationDaysYear, row.Account, today),
			RemainingDaysLeftDateRange: remainingLeftOf(row.VacationDaysDateRange, row.Account, today),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func toVacationDaysLeftDTO(left account.VacationDaysLeft, a account.Account, today period.Date) VacationDaysLeftDTO {
	return VacationDaysLeftDTO{
		VacationDays:                     left.VacationDays().String(),
		RemainingVacationDays:            left.RemainingVacationDays().String(),
		RemainingVacationDaysNotExpiring: left.RemainingVacationDaysNotExpiring().String(),
		LeftVacationDays:                 leftOf(left, a, today),
		RemainingVacationDaysLeft:        remainingLeftOf(left, a, today),
		VacationDaysUsedNextYear:         left.VacationDaysUsedNextYear.String(),
	}
}

func leftOf(left account.VacationDaysLeft, a account.Account, today period.Date) string {
	return left.LeftVacationDays(today, a.DoRemainingVacationDaysExpire, a.ExpiryDate).String()
}

func remainingLeftOf(left account.VacationDaysLeft, a account.Account, today period.Date) string {
	return left.RemainingVacationDaysLeft(today, a.DoRemainingVacationDaysExpire, a.ExpiryDate).String()
}

// =============================================================================
// APPLICATION AND SICK NOTE HANDLERS
// =============================================================================

// CreateApplication files a leave application.
// POST /api/applications
func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, ok, err := h.Store.GetPerson(ctx, req.PersonID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}

	app := application.Application{Person: p}
	if app.StartDate, err = period.ParseDate(req.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	if app.EndDate, err = period.ParseDate(req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}
	if err := app.Range().Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	if app.DayLength, err = parseDayLength(req.DayLength); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day_length", err)
		return
	}
	if app.Status, err = parseApplicationStatus(req.Status); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid status", err)
		return
	}
	if req.VacationTypeID != 0 {
		vt, ok, err := h.Store.GetVacationType(ctx, req.VacationTypeID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to get vacation type", err)
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "Vacation type not found", nil)
			return
		}
		app.VacationType = vt
	}

	created, err := h.Store.CreateApplication(ctx, app)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create application", err)
		return
	}
	writeJSON(w, http.StatusCreated, toApplicationDTO(created))
}

// CreateSickNote records a sick note.
// POST /api/sicknotes
func (h *Handler) CreateSickNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateSickNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, ok, err := h.Store.GetPerson(ctx, req.PersonID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}

	note := sicknote.SickNote{Person: p}
	if note.StartDate, err = period.ParseDate(req.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	if note.EndDate, err = period.ParseDate(req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}
	if err := note.Range().Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	if note.DayLength, err = parseDayLength(req.DayLength); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day_length", err)
		return
	}
	if note.Status, err = parseSickNoteStatus(req.Status); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid status", err)
		return
	}

	created, err := h.Store.CreateSickNote(ctx, note)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create sick note", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSickNoteDTO(created))
}

// =============================================================================
// VACATION TYPE HANDLERS
// =============================================================================

// CreateVacationType creates a vacation type.
// POST /api/vacation-types
func (h *Handler) CreateVacationType(w http.ResponseWriter, r *http.Request) {
	var req CreateVacationTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category := application.VacationCategory(req.Category)
	switch category {
	case application.CategoryHoliday, application.CategoryOvertime,
		application.CategorySpecialLeave, application.CategoryUnpaidLeave,
		application.CategoryOther:
	default:
		writeError(w, http.StatusBadRequest, "Invalid category", nil)
		return
	}

	attrs := application.VacationTypeAttributes{
		Active:           req.Active,
		TypeCategory:     category,
		ApprovalToApply:  req.RequiresApprovalToApply,
		ApprovalToCancel: req.RequiresApprovalToCancel,
		TypeColor:        req.Color,
		EveryoneVisible:  req.VisibleToEveryone,
	}

	var vt application.VacationType
	switch {
	case len(req.Labels) > 0:
		vt = application.CustomVacationType{VacationTypeAttributes: attrs, LabelByLocale: req.Labels}
	case req.MessageKey != "":
		vt = application.ProvidedVacationType{VacationTypeAttributes: attrs, MessageKey: req.MessageKey}
	default:
		writeError(w, http.StatusBadRequest, "Either labels or message_key is required", nil)
		return
	}

	id, err := h.Store.CreateVacationType(r.Context(), vt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create vacation type", err)
		return
	}

	stored, _, err := h.Store.GetVacationType(r.Context(), id)
	if err != nil || stored == nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back vacation type", err)
		return
	}
	writeJSON(w, http.StatusCreated, toVacationTypeDTO(stored, localeOf(r)))
}

// GetVacationType returns one vacation type, labeled for the request locale.
// GET /api/vacation-types/{id}?locale=de
func (h *Handler) GetVacationType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid vacation type id", err)
		return
	}
	vt, ok, err := h.Store.GetVacationType(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get vacation type", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Vacation type not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toVacationTypeDTO(vt, localeOf(r)))
}

// =============================================================================
// ABSENCE HANDLERS
// =============================================================================

// GetAbsences returns per-day absence timelines.
// GET /api/absences?from=2024-05-01&to=2024-05-31&person=1,2&status=open
func (h *Handler) GetAbsences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, err := period.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := period.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	persons, err := h.queryPersons(ctx, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid person filter", err)
		return
	}

	var periods []absence.AbsencePeriod
	switch status := r.URL.Query().Get("status"); status {
	case "", "open":
		periods, err = h.Absences.GetOpenAbsences(ctx, persons, from, to)
	case "closed":
		periods, err = h.Absences.GetClosedAbsences(ctx, persons, from, to)
	default:
		writeError(w, http.StatusBadRequest, "status must be open or closed", nil)
		return
	}
	if err != nil {
		if errors.Is(err, period.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, "Invalid period", err)
			return
		}
		h.Log.Error("absence aggregation failed", zap.Error(err))
		writeError(w, balanceStatus(err), "Failed to aggregate absences", err)
		return
	}

	dtos := make([]AbsencePeriodDTO, 0, len(periods))
	for _, p := range periods {
		dtos = append(dtos, toAbsencePeriodDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAbsenceSpans returns calendar-ready spans for open absences.
// GET /api/absences/spans?since=2024-05-01&person=1,2
func (h *Handler) GetAbsenceSpans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	since, err := period.ParseDate(r.URL.Query().Get("since"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid since date", err)
		return
	}

	var spans []absence.Span
	if r.URL.Query().Get("person") == "" {
		spans, err = h.Absences.GetAllOpenAbsencesSince(ctx, since)
	} else {
		var persons []person.Person
		persons, err = h.queryPersons(ctx, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid person filter", err)
			return
		}
		spans, err = h.Absences.GetOpenAbsencesSince(ctx, persons, since)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load absence spans", err)
		return
	}

	dtos := make([]SpanDTO, 0, len(spans))
	for _, s := range spans {
		dtos = append(dtos, toSpanDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// WORKING TIME HANDLERS
// =============================================================================

// SetWorkingTime overrides one person's schedule for one date.
// PUT /api/persons/{id}/working-time
func (h *Handler) SetWorkingTime(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid person id", err)
		return
	}
	var req SetWorkingTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := period.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	dl, err := parseDayLength(req.DayLength)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day_length", err)
		return
	}
	if err := h.Store.SetWorkingTime(r.Context(), id, date, dl); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set working time", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetWorkingTimeSettings returns the global working-time settings.
// GET /api/settings/working-time
func (h *Handler) GetWorkingTimeSettings(w http.ResponseWriter, r *http.Request) {
	cfg := h.Store.GetWorkingTimeSettings()
	writeJSON(w, http.StatusOK, toSettingsDTO(cfg))
}

// UpdateWorkingTimeSettings replaces the global working-time settings.
// PUT /api/settings/working-time
func (h *Handler) UpdateWorkingTimeSettings(w http.ResponseWriter, r *http.Request) {
	var req WorkingTimeSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	cfg := settings.WorkingTimeSettings{
		TimeZoneID:   req.TimeZoneID,
		FederalState: req.FederalState,
	}
	for _, wd := range req.WorkingWeekdays {
		if wd < 0 || wd > 6 {
			writeError(w, http.StatusBadRequest, "working_weekdays must be 0 (Sunday) to 6 (Saturday)", nil)
			return
		}
		cfg.WorkingWeekdays = append(cfg.WorkingWeekdays, time.Weekday(wd))
	}
	if err := h.Store.SaveWorkingTimeSettings(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(cfg))
}

func toSettingsDTO(cfg settings.WorkingTimeSettings) WorkingTimeSettingsDTO {
	dto := WorkingTimeSettingsDTO{
		TimeZoneID:      cfg.TimeZoneID,
		WorkingWeekdays: make([]int, 0, len(cfg.WorkingWeekdays)),
		FederalState:    cfg.FederalState,
	}
	for _, wd := range cfg.WorkingWeekdays {
		dto.WorkingWeekdays = append(dto.WorkingWeekdays, int(wd))
	}
	return dto
}

// =============================================================================
// DEV
// =============================================================================

// ResetDatabase clears all data.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func queryYear(r *http.Request, clock period.Clock) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return clock.Today().Year(), nil
	}
	return strconv.Atoi(raw)
}

func localeOf(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return l
	}
	return "en"
}

// queryPersons resolves the comma-separated "person" filter, defaulting to
// everyone.
func (h *Handler) queryPersons(ctx context.Context, r *http.Request) ([]person.Person, error) {
	raw := r.URL.Query().Get("person")
	if raw == "" {
		return h.Store.ListPersons(ctx)
	}
	var persons []person.Person
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		p, ok, err := h.Store.GetPerson(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("unknown person " + part)
		}
		persons = append(persons, p)
	}
	return persons, nil
}

func parseDays(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func parseDayLength(raw string) (period.DayLength, error) {
	dl := period.DayLength(raw)
	switch dl {
	case period.DayLengthFull, period.DayLengthMorning, period.DayLengthNoon, period.DayLengthZero:
		return dl, nil
	}
	return "", errors.New("day_length must be FULL, MORNING, NOON or ZERO")
}

func parseApplicationStatus(raw string) (application.Status, error) {
	if raw == "" {
		return application.StatusWaiting, nil
	}
	st := application.Status(raw)
	for _, known := range append(application.OpenStatuses(), application.ClosedStatuses()...) {
		if st == known {
			return st, nil
		}
	}
	return "", errors.New("unknown application status " + raw)
}

func parseSickNoteStatus(raw string) (sicknote.Status, error) {
	if raw == "" {
		return sicknote.StatusActive, nil
	}
	st := sicknote.Status(raw)
	for _, known := range append(sicknote.OpenStatuses(), sicknote.ClosedStatuses()...) {
		if st == known {
			return st, nil
		}
	}
	return "", errors.New("unknown sick note status " + raw)
}

// balanceStatus maps calculator errors to HTTP statuses. A missing working
// time calendar is a data problem on the caller's side, not a server fault.
func balanceStatus(err error) int {
	if errors.Is(err, workingtime.ErrCalendarNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, period.ErrInvalidPeriod) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
