package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warp/leave-engine/account"
	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/settings"
	"github.com/warp/leave-engine/sicknote"
	"github.com/warp/leave-engine/workingtime"
)

// =============================================================================
// VACATION TYPES
// =============================================================================

func (s *Store) CreateVacationType(ctx context.Context, vt application.VacationType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var variant, messageKey string
	var labelsJSON []byte
	switch t := vt.(type) {
	case application.ProvidedVacationType:
		variant = "provided"
		messageKey = t.MessageKey
	case application.CustomVacationType:
		variant = "custom"
		var err error
		labelsJSON, err = json.Marshal(t.LabelByLocale)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown vacation type variant %T", vt)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO vacation_types (variant, active, category, message_key, labels_json,
			requires_approval_to_apply, requires_approval_to_cancel, color, visible_to_everyone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		variant, boolToInt(vt.IsActive()), string(vt.Category()), messageKey, string(labelsJSON),
		boolToInt(vt.RequiresApprovalToApply()), boolToInt(vt.RequiresApprovalToCancel()),
		vt.Color(), boolToInt(vt.VisibleToEveryone()))
	if err != nil {
		return 0, fmt.Errorf("failed to create vacation type: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetVacationType(ctx context.Context, id int64) (application.VacationType, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, variant, active, category, message_key, labels_json,
			requires_approval_to_apply, requires_approval_to_cancel, color, visible_to_everyone
		FROM vacation_types WHERE id = ?`, id)
	vt, err := scanVacationType(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get vacation type %d: %w", id, err)
	}
	return vt, true, nil
}

func scanVacationType(row scanner) (application.VacationType, error) {
	var id int64
	var variant, category, color string
	var messageKey, labelsJSON sql.NullString
	var active, approvalApply, approvalCancel, visible int
	err := row.Scan(&id, &variant, &active, &category, &messageKey, &labelsJSON,
		&approvalApply, &approvalCancel, &color, &visible)
	if err != nil {
		return nil, err
	}

	attrs := application.VacationTypeAttributes{
		TypeID:           id,
		Active:           active != 0,
		TypeCategory:     application.VacationCategory(category),
		ApprovalToApply:  approvalApply != 0,
		ApprovalToCancel: approvalCancel != 0,
		TypeColor:        color,
		EveryoneVisible:  visible != 0,
	}

	if variant == "custom" {
		labels := map[string]string{}
		if labelsJSON.Valid && labelsJSON.String != "" {
			if err := json.Unmarshal([]byte(labelsJSON.String), &labels); err != nil {
				return nil, fmt.Errorf("invalid vacation type labels: %w", err)
			}
		}
		return application.CustomVacationType{VacationTypeAttributes: attrs, LabelByLocale: labels}, nil
	}
	return application.ProvidedVacationType{VacationTypeAttributes: attrs, MessageKey: messageKey.String}, nil
}

// =============================================================================
// APPLICATIONS (application.Query)
// =============================================================================

func (s *Store) CreateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var vacationTypeID any
	if app.VacationType != nil {
		vacationTypeID = app.VacationType.ID()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (person_id, vacation_type_id, start_date, end_date, day_length, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		app.Person.ID, vacationTypeID, formatDate(app.StartDate), formatDate(app.EndDate),
		string(app.DayLength), string(app.Status))
	if err != nil {
		return application.Application{}, fmt.Errorf("failed to create application: %w", err)
	}
	app.ID, err = res.LastInsertId()
	if err != nil {
		return application.Application{}, err
	}
	return app, nil
}

const applicationSelect = `
	SELECT app.id, app.start_date, app.end_date, app.day_length, app.status,
		p.id, p.external_id, p.username, p.first_name, p.last_name, p.email,
		vt.id, vt.variant, vt.active, vt.category, vt.message_key, vt.labels_json,
		vt.requires_approval_to_apply, vt.requires_approval_to_cancel, vt.color, vt.visible_to_everyone
	FROM applications app
	JOIN persons p ON p.id = app.person_id
	LEFT JOIN vacation_types vt ON vt.id = app.vacation_type_id`

func (s *Store) GetForStatesAndPerson(ctx context.Context, statuses []application.Status, persons []person.Person, from, to period.Date) ([]application.Application, error) {
	if len(statuses) == 0 || len(persons) == 0 {
		return nil, nil
	}
	query := applicationSelect + `
	WHERE app.status IN (` + placeholders(len(statuses)) + `)
	  AND app.person_id IN (` + placeholders(len(persons)) + `)
	  AND app.start_date <= ? AND app.end_date >= ?
	ORDER BY app.id`

	args := applicationStatusArgs(statuses)
	args = append(args, personArgs(persons)...)
	args = append(args, formatDate(to), formatDate(from))
	return s.queryApplications(ctx, query, args...)
}

func (s *Store) GetForStatesAndPersonSince(ctx context.Context, statuses []application.Status, persons []person.Person, since period.Date) ([]application.Application, error) {
	if len(statuses) == 0 || len(persons) == 0 {
		return nil, nil
	}
	query := applicationSelect + `
	WHERE app.status IN (` + placeholders(len(statuses)) + `)
	  AND app.person_id IN (` + placeholders(len(persons)) + `)
	  AND app.end_date >= ?
	ORDER BY app.id`

	args := applicationStatusArgs(statuses)
	args = append(args, personArgs(persons)...)
	args = append(args, formatDate(since))
	return s.queryApplications(ctx, query, args...)
}

func (s *Store) GetForStatesSince(ctx context.Context, statuses []application.Status, since period.Date) ([]application.Application, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := applicationSelect + `
	WHERE app.status IN (` + placeholders(len(statuses)) + `)
	  AND app.end_date >= ?
	ORDER BY app.id`

	args := applicationStatusArgs(statuses)
	args = append(args, formatDate(since))
	return s.queryApplications(ctx, query, args...)
}

func (s *Store) queryApplications(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func scanApplication(row scanner) (application.Application, error) {
	var app application.Application
	var start, end, dayLength, status, externalID string
	var vtID sql.NullInt64
	var vtVariant, vtCategory, vtColor, vtMessageKey, vtLabelsJSON sql.NullString
	var vtActive, vtApprovalApply, vtApprovalCancel, vtVisible sql.NullInt64

	err := row.Scan(&app.ID, &start, &end, &dayLength, &status,
		&app.Person.ID, &externalID, &app.Person.Username, &app.Person.FirstName, &app.Person.LastName, &app.Person.Email,
		&vtID, &vtVariant, &vtActive, &vtCategory, &vtMessageKey, &vtLabelsJSON,
		&vtApprovalApply, &vtApprovalCancel, &vtColor, &vtVisible)
	if err != nil {
		return application.Application{}, err
	}

	if app.Person.ExternalID, err = parseUUID(externalID); err != nil {
		return application.Application{}, err
	}
	if app.StartDate, err = parseDate(start); err != nil {
		return application.Application{}, err
	}
	if app.EndDate, err = parseDate(end); err != nil {
		return application.Application{}, err
	}
	app.DayLength = period.DayLength(dayLength)
	app.Status = application.Status(status)

	// applications without a vacation type carry a nil interface
	if !vtID.Valid {
		return app, nil
	}

	attrs := application.VacationTypeAttributes{
		TypeID:           vtID.Int64,
		Active:           vtActive.Int64 != 0,
		TypeCategory:     application.VacationCategory(vtCategory.String),
		ApprovalToApply:  vtApprovalApply.Int64 != 0,
		ApprovalToCancel: vtApprovalCancel.Int64 != 0,
		TypeColor:        vtColor.String,
		EveryoneVisible:  vtVisible.Int64 != 0,
	}
	if vtVariant.String == "custom" {
		labels := map[string]string{}
		if vtLabelsJSON.Valid && vtLabelsJSON.String != "" {
			if err := json.Unmarshal([]byte(vtLabelsJSON.String), &labels); err != nil {
				return application.Application{}, fmt.Errorf("invalid vacation type labels: %w", err)
			}
		}
		app.VacationType = application.CustomVacationType{VacationTypeAttributes: attrs, LabelByLocale: labels}
	} else {
		app.VacationType = application.ProvidedVacationType{VacationTypeAttributes: attrs, MessageKey: vtMessageKey.String}
	}
	return app, nil
}

// =============================================================================
// SICK NOTES (sicknote.Query)
// =============================================================================

func (s *Store) CreateSickNote(ctx context.Context, note sicknote.SickNote) (sicknote.SickNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sick_notes (person_id, start_date, end_date, day_length, status)
		VALUES (?, ?, ?, ?, ?)`,
		note.Person.ID, formatDate(note.StartDate), formatDate(note.EndDate),
		string(note.DayLength), string(note.Status))
	if err != nil {
		return sicknote.SickNote{}, fmt.Errorf("failed to create sick note: %w", err)
	}
	note.ID, err = res.LastInsertId()
	if err != nil {
		return sicknote.SickNote{}, err
	}
	return note, nil
}

// SickNotes exposes the sick-note query interface. The wrapper exists
// because application and sick-note query methods share names.
func (s *Store) SickNotes() sicknote.Query { return sickNoteQuery{s} }

type sickNoteQuery struct{ s *Store }

const sickNoteSelect = `
	SELECT n.id, n.start_date, n.end_date, n.day_length, n.status,
		p.id, p.external_id, p.username, p.first_name, p.last_name, p.email
	FROM sick_notes n
	JOIN persons p ON p.id = n.person_id`

func (q sickNoteQuery) GetForStatesAndPerson(ctx context.Context, statuses []sicknote.Status, persons []person.Person, from, to period.Date) ([]sicknote.SickNote, error) {
	if len(statuses) == 0 || len(persons) == 0 {
		return nil, nil
	}
	query := sickNoteSelect + `
	WHERE n.status IN (` + placeholders(len(statuses)) + `)
	  AND n.person_id IN (` + placeholders(len(persons)) + `)
	  AND n.start_date <= ? AND n.end_date >= ?
	ORDER BY n.id`

	args := sickNoteStatusArgs(statuses)
	args = append(args, personArgs(persons)...)
	args = append(args, formatDate(to), formatDate(from))
	return q.querySickNotes(ctx, query, args...)
}

func (q sickNoteQuery) GetForStatesAndPersonSince(ctx context.Context, statuses []sicknote.Status, persons []person.Person, since period.Date) ([]sicknote.SickNote, error) {
	if len(statuses) == 0 || len(persons) == 0 {
		return nil, nil
	}
	query := sickNoteSelect + `
	WHERE n.status IN (` + placeholders(len(statuses)) + `)
	  AND n.person_id IN (` + placeholders(len(persons)) + `)
	  AND n.end_date >= ?
	ORDER BY n.id`

	args := sickNoteStatusArgs(statuses)
	args = append(args, personArgs(persons)...)
	args = append(args, formatDate(since))
	return q.querySickNotes(ctx, query, args...)
}

func (q sickNoteQuery) GetForStatesSince(ctx context.Context, statuses []sicknote.Status, since period.Date) ([]sicknote.SickNote, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := sickNoteSelect + `
	WHERE n.status IN (` + placeholders(len(statuses)) + `)
	  AND n.end_date >= ?
	ORDER BY n.id`

	args := sickNoteStatusArgs(statuses)
	args = append(args, formatDate(since))
	return q.querySickNotes(ctx, query, args...)
}

func (q sickNoteQuery) querySickNotes(ctx context.Context, query string, args ...any) ([]sicknote.SickNote, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()

	rows, err := q.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sicknote.SickNote
	for rows.Next() {
		var note sicknote.SickNote
		var start, end, dayLength, status, externalID string
		err := rows.Scan(&note.ID, &start, &end, &dayLength, &status,
			&note.Person.ID, &externalID, &note.Person.Username, &note.Person.FirstName, &note.Person.LastName, &note.Person.Email)
		if err != nil {
			return nil, err
		}
		if note.Person.ExternalID, err = parseUUID(externalID); err != nil {
			return nil, err
		}
		if note.StartDate, err = parseDate(start); err != nil {
			return nil, err
		}
		if note.EndDate, err = parseDate(end); err != nil {
			return nil, err
		}
		note.DayLength = period.DayLength(dayLength)
		note.Status = sicknote.Status(status)
		out = append(out, note)
	}
	return out, rows.Err()
}

// =============================================================================
// WORKING TIME (workingtime.Provider)
// =============================================================================

// SetWorkingTime overrides the day length for one person and date.
func (s *Store) SetWorkingTime(ctx context.Context, personID int64, date period.Date, dl period.DayLength) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO working_time_overrides (person_id, date, day_length) VALUES (?, ?, ?)
		ON CONFLICT(person_id, date) DO UPDATE SET day_length = excluded.day_length`,
		personID, formatDate(date), string(dl))
	return err
}

func (s *Store) GetWorkingTimesByPersons(ctx context.Context, persons []person.Person, r period.DateRange) (map[int64]workingtime.Calendar, error) {
	if len(persons) == 0 {
		return map[int64]workingtime.Calendar{}, nil
	}
	cfg := s.GetWorkingTimeSettings()

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT person_id, date, day_length FROM working_time_overrides
	WHERE person_id IN (` + placeholders(len(persons)) + `) AND date >= ? AND date <= ?`
	args := personArgs(persons)
	args = append(args, formatDate(r.Start), formatDate(r.End))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[int64]map[period.Date]period.DayLength)
	for rows.Next() {
		var personID int64
		var dateText, dayLength string
		if err := rows.Scan(&personID, &dateText, &dayLength); err != nil {
			return nil, err
		}
		date, err := parseDate(dateText)
		if err != nil {
			return nil, err
		}
		if overrides[personID] == nil {
			overrides[personID] = make(map[period.Date]period.DayLength)
		}
		overrides[personID][date] = period.DayLength(dayLength)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make(map[int64]workingtime.Calendar, len(persons))
	for _, p := range persons {
		personOverrides := overrides[p.ID]
		out[p.ID] = workingtime.BuildCalendar(r, func(d period.Date) period.DayLength {
			if dl, ok := personOverrides[d]; ok {
				return dl
			}
			if cfg.IsWorkingWeekday(d.Weekday()) {
				return period.DayLengthFull
			}
			return period.DayLengthZero
		})
	}
	return out, nil
}

// =============================================================================
// SETTINGS (settings.Provider)
// =============================================================================

func (s *Store) SaveWorkingTimeSettings(ctx context.Context, cfg settings.WorkingTimeSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekdays := make([]int, len(cfg.WorkingWeekdays))
	for i, wd := range cfg.WorkingWeekdays {
		weekdays[i] = int(wd)
	}
	weekdaysJSON, err := json.Marshal(weekdays)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, timezone_id, working_weekdays, federal_state) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timezone_id = excluded.timezone_id,
			working_weekdays = excluded.working_weekdays,
			federal_state = excluded.federal_state`,
		cfg.TimeZoneID, string(weekdaysJSON), cfg.FederalState)
	return err
}

// GetWorkingTimeSettings returns the stored settings, falling back to the
// Monday-to-Friday default when none were saved yet.
func (s *Store) GetWorkingTimeSettings() settings.WorkingTimeSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT timezone_id, working_weekdays, federal_state FROM settings WHERE id = 1`)
	var timezoneID, weekdaysJSON, federalState string
	if err := row.Scan(&timezoneID, &weekdaysJSON, &federalState); err != nil {
		return settings.DefaultWorkingTimeSettings()
	}

	var weekdayInts []int
	if err := json.Unmarshal([]byte(weekdaysJSON), &weekdayInts); err != nil {
		return settings.DefaultWorkingTimeSettings()
	}
	weekdays := make([]time.Weekday, len(weekdayInts))
	for i, n := range weekdayInts {
		weekdays[i] = time.Weekday(n)
	}
	return settings.WorkingTimeSettings{TimeZoneID: timezoneID, WorkingWeekdays: weekdays, FederalState: federalState}
}

// =============================================================================
// HELPERS
// =============================================================================

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func applicationStatusArgs(statuses []application.Status) []any {
	args := make([]any, len(statuses))
	for i, st := range statuses {
		args[i] = string(st)
	}
	return args
}

func sickNoteStatusArgs(statuses []sicknote.Status) []any {
	args := make([]any, len(statuses))
	for i, st := range statuses {
		args[i] = string(st)
	}
	return args
}

func personArgs(persons []person.Person) []any {
	ids := person.IDs(persons)
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

var (
	_ application.Query    = (*Store)(nil)
	_ account.Store        = (*Store)(nil)
	_ workingtime.Provider = (*Store)(nil)
	_ settings.Provider    = (*Store)(nil)
)
