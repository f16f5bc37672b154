/*
handlers_test.go - Unit tests for API handlers

Tests the full HTTP surface against the in-memory store:
- Person CRUD and validation
- Account saving and single/batch balance calculation
- Application and sick note filing with input validation
- Vacation types with locale-aware labels
- Absence timelines and calendar spans
- Working-time settings and per-day overrides
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	clock := period.FixedClock{Date: period.NewDate(2025, time.June, 15)}
	return NewHandler(memory.New(), clock, zap.NewNop())
}

// do runs one request through the full router, middleware included.
func do(t *testing.T, h *Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func createTestPerson(t *testing.T, h *Handler, username string) PersonDTO {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/persons", CreatePersonRequest{
		Username: username, FirstName: "Test", LastName: "User",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var p PersonDTO
	decodeInto(t, rec, &p)
	return p
}

func createTestHolidayType(t *testing.T, h *Handler) VacationTypeDTO {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/vacation-types", CreateVacationTypeRequest{
		Active:            true,
		Category:          "HOLIDAY",
		Color:             "YELLOW",
		VisibleToEveryone: true,
		Labels:            map[string]string{"en": "Holiday", "de": "Erholungsurlaub"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var vt VacationTypeDTO
	decodeInto(t, rec, &vt)
	return vt
}

// =============================================================================
// PERSON TESTS
// =============================================================================

func TestCreateAndGetPerson(t *testing.T) {
	h := newTestHandler(t)

	created := createTestPerson(t, h, "jdoe")
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.ExternalID)

	rec := do(t, h, http.MethodGet, "/api/persons/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got PersonDTO
	decodeInto(t, rec, &got)
	assert.Equal(t, "jdoe", got.Username)
	assert.Equal(t, "Test User", got.NiceName)

	rec = do(t, h, http.MethodGet, "/api/persons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []PersonDTO
	decodeInto(t, rec, &all)
	assert.Len(t, all, 1)
}

func TestGetPerson_NotFound(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/api/persons/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePerson_RequiresUsername(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/api/persons", CreatePersonRequest{FirstName: "No"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ACCOUNT AND BALANCE TESTS
// =============================================================================

func TestSaveAccountAndGetBalance(t *testing.T) {
	// GIVEN: An account with expiring carry-over, no vacations taken.
	// The clock stands past the April 1st expiry, so only the non-expiring
	// part of the carry-over still counts.
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")

	rec := do(t, h, http.MethodPost, "/api/accounts", SaveAccountRequest{
		PersonID:                         p.ID,
		Year:                             2025,
		AnnualVacationDays:               "30",
		ActualVacationDays:               "28",
		RemainingVacationDays:            "5",
		RemainingVacationDaysNotExpiring: "2",
		DoRemainingVacationDaysExpire:    true,
		ExpiryDate:                       "2025-04-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/persons/1/balance?year=2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var balance BalanceDTO
	decodeInto(t, rec, &balance)
	assert.Equal(t, "28", balance.VacationDaysLeft.VacationDays)
	assert.Equal(t, "5", balance.VacationDaysLeft.RemainingVacationDays)
	assert.Equal(t, "30", balance.VacationDaysLeft.LeftVacationDays)
	assert.Equal(t, "2", balance.VacationDaysLeft.RemainingVacationDaysLeft)
}

func TestSaveAccount_RequiresExpiryDateWhenExpiring(t *testing.T) {
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")

	rec := do(t, h, http.MethodPost, "/api/accounts", SaveAccountRequest{
		PersonID:                      p.ID,
		Year:                          2025,
		ActualVacationDays:            "28",
		DoRemainingVacationDaysExpire: true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBalance_NoAccount(t *testing.T) {
	h := newTestHandler(t)
	createTestPerson(t, h, "jdoe")
	rec := do(t, h, http.MethodGet, "/api/persons/1/balance?year=2025", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBatchBalances_SplitsYearAndDateRange(t *testing.T) {
	// GIVEN: 3 days taken in March, 5 in August
	// WHEN: Requesting the batch report for Q1
	// THEN: The year column reflects 8 used days, the range column only 3.
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")
	vt := createTestHolidayType(t, h)

	rec := do(t, h, http.MethodPost, "/api/accounts", SaveAccountRequest{
		PersonID: p.ID, Year: 2025, AnnualVacationDays: "28", ActualVacationDays: "28",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, dates := range [][2]string{
		{"2025-03-10", "2025-03-12"}, // Mon-Wed
		{"2025-08-18", "2025-08-22"}, // Mon-Fri
	} {
		rec = do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
			PersonID: p.ID, StartDate: dates[0], EndDate: dates[1],
			DayLength: "FULL", Status: "ALLOWED", VacationTypeID: vt.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/balances?from=2025-01-01&to=2025-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []BatchBalanceDTO
	decodeInto(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "20", rows[0].LeftVacationDaysYear)
	assert.Equal(t, "25", rows[0].LeftVacationDaysDateRange)
}

func TestGetBatchBalances_RejectsCrossYearRange(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/api/balances?from=2025-12-01&to=2026-01-31", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// APPLICATION AND SICK NOTE TESTS
// =============================================================================

func TestCreateApplication_Validation(t *testing.T) {
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")

	// inverted period
	rec := do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
		PersonID: p.ID, StartDate: "2025-05-10", EndDate: "2025-05-05", DayLength: "FULL",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// bogus day length
	rec = do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
		PersonID: p.ID, StartDate: "2025-05-05", EndDate: "2025-05-07", DayLength: "HALF",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown person
	rec = do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
		PersonID: 999, StartDate: "2025-05-05", EndDate: "2025-05-07", DayLength: "FULL",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// unknown vacation type
	rec = do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
		PersonID: p.ID, StartDate: "2025-05-05", EndDate: "2025-05-07",
		DayLength: "FULL", VacationTypeID: 42,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateApplication_DefaultsToWaiting(t *testing.T) {
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")
	vt := createTestHolidayType(t, h)

	rec := do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
		PersonID: p.ID, StartDate: "2025-05-05", EndDate: "2025-05-07",
		DayLength: "FULL", VacationTypeID: vt.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var app ApplicationDTO
	decodeInto(t, rec, &app)
	assert.Equal(t, "WAITING", app.Status)
	assert.Equal(t, vt.ID, app.VacationTypeID)
}

func TestCreateSickNote(t *testing.T) {
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")

	rec := do(t, h, http.MethodPost, "/api/sicknotes", CreateSickNoteRequest{
		PersonID: p.ID, StartDate: "2025-02-10", EndDate: "2025-02-12", DayLength: "FULL",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var note SickNoteDTO
	decodeInto(t, rec, &note)
	assert.Equal(t, "ACTIVE", note.Status)
	assert.Equal(t, "2025-02-10", note.StartDate)
}

// =============================================================================
// VACATION TYPE TESTS
// =============================================================================

func TestVacationType_LocaleAwareLabels(t *testing.T) {
	h := newTestHandler(t)
	vt := createTestHolidayType(t, h)

	rec := do(t, h, http.MethodGet, "/api/vacation-types/1?locale=de", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got VacationTypeDTO
	decodeInto(t, rec, &got)
	assert.Equal(t, "Erholungsurlaub", got.Label)

	rec = do(t, h, http.MethodGet, "/api/vacation-types/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &got)
	assert.Equal(t, "Holiday", got.Label)
	assert.Equal(t, vt.ID, got.ID)

	rec = do(t, h, http.MethodGet, "/api/vacation-types/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateVacationType_Validation(t *testing.T) {
	h := newTestHandler(t)

	// neither labels nor message key
	rec := do(t, h, http.MethodPost, "/api/vacation-types", CreateVacationTypeRequest{
		Active: true, Category: "HOLIDAY",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown category
	rec = do(t, h, http.MethodPost, "/api/vacation-types", CreateVacationTypeRequest{
		Active: true, Category: "SABBATICAL", Labels: map[string]string{"en": "x"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ABSENCE TESTS
// =============================================================================

func TestGetAbsences(t *testing.T) {
	// GIVEN: A full-day vacation Mon-Wed
	// WHEN: Requesting the open timelines for May
	// THEN: One period with three fully occupied day records comes back.
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")
	vt := createTestHolidayType(t, h)

	rec := do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
		PersonID: p.ID, StartDate: "2025-05-05", EndDate: "2025-05-07",
		DayLength: "FULL", Status: "ALLOWED", VacationTypeID: vt.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/absences?from=2025-05-01&to=2025-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var periods []AbsencePeriodDTO
	decodeInto(t, rec, &periods)
	require.Len(t, periods, 1)
	require.Len(t, periods[0].Records, 3)

	first := periods[0].Records[0]
	assert.Equal(t, "2025-05-05", first.Date)
	require.NotNil(t, first.Morning)
	require.NotNil(t, first.Noon)
	assert.Equal(t, "VACATION", first.Morning.Type)
	require.NotNil(t, first.Morning.VacationTypeID)
	assert.Equal(t, vt.ID, *first.Morning.VacationTypeID)

	// closed timelines are empty, the application is still open
	rec = do(t, h, http.MethodGet, "/api/absences?from=2025-05-01&to=2025-05-31&status=closed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	periods = nil
	decodeInto(t, rec, &periods)
	assert.Empty(t, periods)

	rec = do(t, h, http.MethodGet, "/api/absences?from=2025-05-01&to=2025-05-31&status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAbsenceSpans(t *testing.T) {
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")
	vt := createTestHolidayType(t, h)

	rec := do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
		PersonID: p.ID, StartDate: "2025-05-05", EndDate: "2025-05-07",
		DayLength: "FULL", Status: "ALLOWED", VacationTypeID: vt.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/absences/spans?since=2025-05-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var spans []SpanDTO
	decodeInto(t, rec, &spans)
	require.Len(t, spans, 1)
	assert.Equal(t, "FULL", spans[0].DayLength)
	assert.Equal(t, "2025-05-05T00:00:00Z", spans[0].Start)
	assert.Equal(t, "2025-05-08T00:00:00Z", spans[0].End)

	// spans that ended before the cutoff are filtered out
	rec = do(t, h, http.MethodGet, "/api/absences/spans?since=2025-06-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	spans = nil
	decodeInto(t, rec, &spans)
	assert.Empty(t, spans)
}

// =============================================================================
// WORKING TIME TESTS
// =============================================================================

func TestWorkingTimeSettings_Roundtrip(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPut, "/api/settings/working-time", WorkingTimeSettingsDTO{
		TimeZoneID:      "Europe/Berlin",
		WorkingWeekdays: []int{1, 2, 3},
		FederalState:    "BADEN_WUERTTEMBERG",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/settings/working-time", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got WorkingTimeSettingsDTO
	decodeInto(t, rec, &got)
	assert.Equal(t, "Europe/Berlin", got.TimeZoneID)
	assert.Equal(t, []int{1, 2, 3}, got.WorkingWeekdays)

	rec = do(t, h, http.MethodPut, "/api/settings/working-time", WorkingTimeSettingsDTO{
		WorkingWeekdays: []int{9},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetWorkingTime_GatesHalfDays(t *testing.T) {
	// GIVEN: A Monday reduced to mornings only
	// WHEN: A full-day vacation covers that Monday
	// THEN: Only the morning slot of the timeline is occupied.
	h := newTestHandler(t)
	p := createTestPerson(t, h, "jdoe")
	vt := createTestHolidayType(t, h)

	rec := do(t, h, http.MethodPut, "/api/persons/1/working-time", SetWorkingTimeRequest{
		Date: "2025-05-05", DayLength: "MORNING",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/applications", CreateApplicationRequest{
		PersonID: p.ID, StartDate: "2025-05-05", EndDate: "2025-05-05",
		DayLength: "FULL", Status: "ALLOWED", VacationTypeID: vt.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/absences?from=2025-05-01&to=2025-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var periods []AbsencePeriodDTO
	decodeInto(t, rec, &periods)
	require.Len(t, periods, 1)
	require.Len(t, periods[0].Records, 1)
	assert.NotNil(t, periods[0].Records[0].Morning)
	assert.Nil(t, periods[0].Records[0].Noon)
}

// =============================================================================
// RESET
// =============================================================================

func TestResetDatabase(t *testing.T) {
	h := newTestHandler(t)
	createTestPerson(t, h, "jdoe")

	rec := do(t, h, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/persons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []PersonDTO
	decodeInto(t, rec, &all)
	assert.Empty(t, all)
}
