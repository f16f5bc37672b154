/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Person:
    PersonDTO, CreatePersonRequest

  Account / balance:
    AccountDTO, SaveAccountRequest, VacationDaysLeftDTO, BalanceDTO,
    BatchBalanceDTO

  Absence:
    ApplicationDTO, CreateApplicationRequest, SickNoteDTO,
    CreateSickNoteRequest, AbsencePeriodDTO, AbsenceRecordDTO,
    AbsenceSlotDTO, SpanDTO

  Vacation types:
    VacationTypeDTO, CreateVacationTypeRequest

  Working time:
    WorkingTimeSettingsDTO, SetWorkingTimeRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

DATE FORMAT:
  All dates travel as "2006-01-02" strings; span boundaries as RFC3339.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - scenarios.go: ScenarioDTO definitions
*/
package api

import (
	"time"

	"github.com/warp/leave-engine/absence"
	"github.com/warp/leave-engine/account"
	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/sicknote"
)

// =============================================================================
// PERSONS
// =============================================================================

// PersonDTO represents a person in API responses.
type PersonDTO struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	NiceName   string `json:"nice_name"`
}

// CreatePersonRequest is the request body for creating a person.
type CreatePersonRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func toPersonDTO(p person.Person) PersonDTO {
	return PersonDTO{
		ID:         p.ID,
		ExternalID: p.ExternalID.String(),
		Username:   p.Username,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		NiceName:   p.NiceName(),
	}
}

// =============================================================================
// ACCOUNTS AND BALANCES
// =============================================================================

// AccountDTO represents a holiday account in API responses.
type AccountDTO struct {
	ID                               int64  `json:"id"`
	PersonID                         int64  `json:"person_id"`
	Year                             int    `json:"year"`
	AnnualVacationDays               string `json:"annual_vacation_days"`
	ActualVacationDays               string `json:"actual_vacation_days"`
	RemainingVacationDays            string `json:"remaining_vacation_days"`
	RemainingVacationDaysNotExpiring string `json:"remaining_vacation_days_not_expiring"`
	DoRemainingVacationDaysExpire    bool   `json:"do_remaining_vacation_days_expire"`
	ExpiryDate                       string `json:"expiry_date"`
}

// SaveAccountRequest is the request body for creating or updating an account.
type SaveAccountRequest struct {
	PersonID                         int64  `json:"person_id"`
	Year                             int    `json:"year"`
	AnnualVacationDays               string `json:"annual_vacation_days"`
	ActualVacationDays               string `json:"actual_vacation_days"`
	RemainingVacationDays            string `json:"remaining_vacation_days"`
	RemainingVacationDaysNotExpiring string `json:"remaining_vacation_days_not_expiring"`
	DoRemainingVacationDaysExpire    bool   `json:"do_remaining_vacation_days_expire"`
	ExpiryDate                       string `json:"expiry_date"`
}

func toAccountDTO(a account.Account) AccountDTO {
	return AccountDTO{
		ID:                               a.ID,
		PersonID:                         a.Person.ID,
		Year:                             a.Year,
		AnnualVacationDays:               a.AnnualVacationDays.String(),
		ActualVacationDays:               a.ActualVacationDays.String(),
		RemainingVacationDays:            a.RemainingVacationDays.String(),
		RemainingVacationDaysNotExpiring: a.RemainingVacationDaysNotExpiring.String(),
		DoRemainingVacationDaysExpire:    a.DoRemainingVacationDaysExpire,
		ExpiryDate:                       a.ExpiryDate.String(),
	}
}

// VacationDaysLeftDTO carries the balance of one account at one moment.
type VacationDaysLeftDTO struct {
	VacationDays                     string `json:"vacation_days"`
	RemainingVacationDays            string `json:"remaining_vacation_days"`
	RemainingVacationDaysNotExpiring string `json:"remaining_vacation_days_not_expiring"`
	LeftVacationDays                 string `json:"left_vacation_days"`
	RemainingVacationDaysLeft        string `json:"remaining_vacation_days_left"`
	VacationDaysUsedNextYear         string `json:"vacation_days_used_next_year"`
}

// BalanceDTO wraps an account with its computed balance.
type BalanceDTO struct {
	Account          AccountDTO          `json:"account"`
	VacationDaysLeft VacationDaysLeftDTO `json:"vacation_days_left"`
}

// BatchBalanceDTO is one row of the date-range batch balance report.
type BatchBalanceDTO struct {
	Account                    AccountDTO          `json:"account"`
	VacationDaysYear           VacationDaysLeftDTO `json:"vacation_days_year"`
	VacationDaysDateRange      VacationDaysLeftDTO `json:"vacation_days_date_range"`
	LeftVacationDaysYear       string              `json:"left_vacation_days_year"`
	LeftVacationDaysDateRange  string              `json:"left_vacation_days_date_range"`
	RemainingDaysLeftYear      string              `json:"remaining_days_left_year"`
	RemainingDaysLeftDateRange string              `json:"remaining_days_left_date_range"`
}

// =============================================================================
// APPLICATIONS AND SICK NOTES
// =============================================================================

// ApplicationDTO represents a leave application in API responses.
type ApplicationDTO struct {
	ID             int64  `json:"id"`
	PersonID       int64  `json:"person_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	DayLength      string `json:"day_length"`
	Status         string `json:"status"`
	VacationTypeID int64  `json:"vacation_type_id,omitempty"`
}

// CreateApplicationRequest is the request body for filing an application.
type CreateApplicationRequest struct {
	PersonID       int64  `json:"person_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	DayLength      string `json:"day_length"`
	Status         string `json:"status"`
	VacationTypeID int64  `json:"vacation_type_id"`
}

func toApplicationDTO(a application.Application) ApplicationDTO {
	dto := ApplicationDTO{
		ID:        a.ID,
		PersonID:  a.Person.ID,
		StartDate: a.StartDate.String(),
		EndDate:   a.EndDate.String(),
		DayLength: string(a.DayLength),
		Status:    string(a.Status),
	}
	if a.VacationType != nil {
		dto.VacationTypeID = a.VacationType.ID()
	}
	return dto
}

// SickNoteDTO represents a sick note in API responses.
type SickNoteDTO struct {
	ID        int64  `json:"id"`
	PersonID  int64  `json:"person_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DayLength string `json:"day_length"`
	Status    string `json:"status"`
}

// CreateSickNoteRequest is the request body for recording a sick note.
type CreateSickNoteRequest struct {
	PersonID  int64  `json:"person_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DayLength string `json:"day_length"`
	Status    string `json:"status"`
}

func toSickNoteDTO(n sicknote.SickNote) SickNoteDTO {
	return SickNoteDTO{
		ID:        n.ID,
		PersonID:  n.Person.ID,
		StartDate: n.StartDate.String(),
		EndDate:   n.EndDate.String(),
		DayLength: string(n.DayLength),
		Status:    string(n.Status),
	}
}

// =============================================================================
// VACATION TYPES
// =============================================================================

// VacationTypeDTO represents a vacation type in API responses.
type VacationTypeDTO struct {
	ID                       int64  `json:"id"`
	Active                   bool   `json:"active"`
	Category                 string `json:"category"`
	RequiresApprovalToApply  bool   `json:"requires_approval_to_apply"`
	RequiresApprovalToCancel bool   `json:"requires_approval_to_cancel"`
	Color                    string `json:"color"`
	VisibleToEveryone        bool   `json:"visible_to_everyone"`
	Label                    string `json:"label"`
}

// CreateVacationTypeRequest is the request body for creating a vacation
// type. Labels keyed by locale make it a custom type; a message key makes
// it a provided one.
type CreateVacationTypeRequest struct {
	Active                   bool              `json:"active"`
	Category                 string            `json:"category"`
	RequiresApprovalToApply  bool              `json:"requires_approval_to_apply"`
	RequiresApprovalToCancel bool              `json:"requires_approval_to_cancel"`
	Color                    string            `json:"color"`
	VisibleToEveryone        bool              `json:"visible_to_everyone"`
	MessageKey               string            `json:"message_key"`
	Labels                   map[string]string `json:"labels"`
}

func toVacationTypeDTO(vt application.VacationType, locale string) VacationTypeDTO {
	return VacationTypeDTO{
		ID:                       vt.ID(),
		Active:                   vt.IsActive(),
		Category:                 string(vt.Category()),
		RequiresApprovalToApply:  vt.RequiresApprovalToApply(),
		RequiresApprovalToCancel: vt.RequiresApprovalToCancel(),
		Color:                    vt.Color(),
		VisibleToEveryone:        vt.VisibleToEveryone(),
		Label:                    vt.Label(locale),
	}
}

// =============================================================================
// ABSENCE TIMELINES
// =============================================================================

// AbsenceSlotDTO describes what occupies one half-day slot.
type AbsenceSlotDTO struct {
	SourceID          int64  `json:"source_id"`
	Status            string `json:"status"`
	Type              string `json:"type"`
	VacationTypeID    *int64 `json:"vacation_type_id,omitempty"`
	VisibleToEveryone bool   `json:"visible_to_everyone"`
}

// AbsenceRecordDTO is one day of one person's absence timeline.
type AbsenceRecordDTO struct {
	Date     string          `json:"date"`
	PersonID int64           `json:"person_id"`
	Morning  *AbsenceSlotDTO `json:"morning,omitempty"`
	Noon     *AbsenceSlotDTO `json:"noon,omitempty"`
}

// AbsencePeriodDTO is the timeline of one source event.
type AbsencePeriodDTO struct {
	Records []AbsenceRecordDTO `json:"records"`
}

func toAbsenceSlotDTO(info *absence.RecordInfo) *AbsenceSlotDTO {
	if info == nil {
		return nil
	}
	dto := &AbsenceSlotDTO{
		SourceID:          info.SourceID,
		Status:            string(info.Status),
		Type:              string(info.Type),
		VisibleToEveryone: info.VisibleToEveryone,
	}
	if id, ok := info.VacationTypeID.Value(); ok {
		dto.VacationTypeID = &id
	}
	return dto
}

func toAbsencePeriodDTO(p absence.AbsencePeriod) AbsencePeriodDTO {
	dto := AbsencePeriodDTO{Records: make([]AbsenceRecordDTO, 0, len(p.Records))}
	for _, rec := range p.Records {
		dto.Records = append(dto.Records, AbsenceRecordDTO{
			Date:     rec.Date.String(),
			PersonID: rec.Person.ID,
			Morning:  toAbsenceSlotDTO(rec.Morning),
			Noon:     toAbsenceSlotDTO(rec.Noon),
		})
	}
	return dto
}

// SpanDTO is one calendar-ready absence span with concrete boundaries.
type SpanDTO struct {
	PersonID  int64  `json:"person_id"`
	SourceID  int64  `json:"source_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	DayLength string `json:"day_length"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

func toSpanDTO(s absence.Span) SpanDTO {
	return SpanDTO{
		PersonID:  s.Person.ID,
		SourceID:  s.SourceID,
		Type:      string(s.Type),
		Status:    string(s.Status),
		DayLength: string(s.DayLength),
		Start:     s.Start.Format(time.RFC3339),
		End:       s.End.Format(time.RFC3339),
	}
}

// =============================================================================
// WORKING TIME
// =============================================================================

// WorkingTimeSettingsDTO carries the global working-time configuration.
type WorkingTimeSettingsDTO struct {
	TimeZoneID      string `json:"time_zone_id"`
	WorkingWeekdays []int  `json:"working_weekdays"`
	FederalState    string `json:"federal_state"`
}

// SetWorkingTimeRequest overrides one person's schedule for one date.
type SetWorkingTimeRequest struct {
	Date      string `json:"date"`
	DayLength string `json:"day_length"`
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Loaded      bool   `json:"loaded,omitempty"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
