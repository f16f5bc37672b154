// Package memory provides in-memory implementations of the engine's query
// and store interfaces. Used by tests and by the server's dev mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/leave-engine/account"
	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/settings"
	"github.com/warp/leave-engine/sicknote"
	"github.com/warp/leave-engine/workingtime"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type accountKey struct {
	personID int64
	year     int
}

// Store keeps all records in memory. Safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	persons       map[int64]person.Person
	accounts      map[accountKey]account.Account
	applications  []application.Application
	sickNotes     []sicknote.SickNote
	vacationTypes map[int64]application.VacationType
	schedules     map[int64]map[period.Date]period.DayLength
	settings      settings.WorkingTimeSettings
	nextID        int64
}

func New() *Store {
	return &Store{
		persons:       make(map[int64]person.Person),
		accounts:      make(map[accountKey]account.Account),
		vacationTypes: make(map[int64]application.VacationType),
		schedules:     make(map[int64]map[period.Date]period.DayLength),
		settings:      settings.DefaultWorkingTimeSettings(),
	}
}

func (s *Store) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// -----------------------------------------------------------------------------
// Persons
// -----------------------------------------------------------------------------

func (s *Store) CreatePerson(_ context.Context, p person.Person) (person.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextIDLocked()
	}
	if p.ExternalID == uuid.Nil {
		p.ExternalID = uuid.New()
	}
	s.persons[p.ID] = p
	return p, nil
}

func (s *Store) GetPerson(_ context.Context, id int64) (person.Person, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[id]
	return p, ok, nil
}

func (s *Store) ListPersons(_ context.Context) ([]person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]person.Person, 0, len(s.persons))
	for _, p := range s.persons {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// -----------------------------------------------------------------------------
// Vacation types
// -----------------------------------------------------------------------------

// CreateVacationType stores the type and hands out its id. Ids supplied by
// the caller are honored for test fixtures.
func (s *Store) CreateVacationType(_ context.Context, vt application.VacationType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := vt.ID()
	if id == 0 {
		id = s.nextIDLocked()
	}
	s.vacationTypes[id] = vt
	return id, nil
}

func (s *Store) GetVacationType(_ context.Context, id int64) (application.VacationType, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vt, ok := s.vacationTypes[id]
	return vt, ok, nil
}

// -----------------------------------------------------------------------------
// Accounts (account.Store)
// -----------------------------------------------------------------------------

func (s *Store) GetAccount(_ context.Context, personID int64, year int) (account.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountKey{personID: personID, year: year}]
	return a, ok, nil
}

func (s *Store) GetAccountsForYear(_ context.Context, persons []person.Person, year int) ([]account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []account.Account
	for _, p := range persons {
		if a, ok := s.accounts[accountKey{personID: p.ID, year: year}]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) SaveAccount(_ context.Context, a account.Account) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.nextIDLocked()
	}
	s.accounts[accountKey{personID: a.Person.ID, year: a.Year}] = a
	return a, nil
}

// -----------------------------------------------------------------------------
// Applications (application.Query)
// -----------------------------------------------------------------------------

func (s *Store) CreateApplication(_ context.Context, app application.Application) (application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ID == 0 {
		app.ID = s.nextIDLocked()
	}
	s.applications = append(s.applications, app)
	return app, nil
}

func (s *Store) GetForStatesAndPerson(_ context.Context, statuses []application.Status, persons []person.Person, from, to period.Date) ([]application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	window := period.NewDateRange(from, to)
	var out []application.Application
	for _, app := range s.applications {
		if app.HasStatus(statuses) && containsPerson(persons, app.Person.ID) && app.Range().Overlaps(window) {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *Store) GetForStatesAndPersonSince(_ context.Context, statuses []application.Status, persons []person.Person, since period.Date) ([]application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []application.Application
	for _, app := range s.applications {
		if app.HasStatus(statuses) && containsPerson(persons, app.Person.ID) && app.EndDate.AfterOrEqual(since) {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *Store) GetForStatesSince(_ context.Context, statuses []application.Status, since period.Date) ([]application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []application.Application
	for _, app := range s.applications {
		if app.HasStatus(statuses) && app.EndDate.AfterOrEqual(since) {
			out = append(out, app)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Sick notes (sicknote.Query)
// -----------------------------------------------------------------------------

func (s *Store) CreateSickNote(_ context.Context, note sicknote.SickNote) (sicknote.SickNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note.ID == 0 {
		note.ID = s.nextIDLocked()
	}
	s.sickNotes = append(s.sickNotes, note)
	return note, nil
}

func (s *Store) sickNotesWhere(match func(sicknote.SickNote) bool) []sicknote.SickNote {
	var out []sicknote.SickNote
	for _, note := range s.sickNotes {
		if match(note) {
			out = append(out, note)
		}
	}
	return out
}

// SickNotes exposes the query interface under a separate name because
// sick-note and application query methods collide on Go method sets.
func (s *Store) SickNotes() sicknote.Query { return sickNoteQuery{s} }

type sickNoteQuery struct{ s *Store }

func (q sickNoteQuery) GetForStatesAndPerson(_ context.Context, statuses []sicknote.Status, persons []person.Person, from, to period.Date) ([]sicknote.SickNote, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	window := period.NewDateRange(from, to)
	return q.s.sickNotesWhere(func(n sicknote.SickNote) bool {
		return hasSickNoteStatus(n, statuses) && containsPerson(persons, n.Person.ID) && n.Range().Overlaps(window)
	}), nil
}

func (q sickNoteQuery) GetForStatesAndPersonSince(_ context.Context, statuses []sicknote.Status, persons []person.Person, since period.Date) ([]sicknote.SickNote, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	return q.s.sickNotesWhere(func(n sicknote.SickNote) bool {
		return hasSickNoteStatus(n, statuses) && containsPerson(persons, n.Person.ID) && n.EndDate.AfterOrEqual(since)
	}), nil
}

func (q sickNoteQuery) GetForStatesSince(_ context.Context, statuses []sicknote.Status, since period.Date) ([]sicknote.SickNote, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	return q.s.sickNotesWhere(func(n sicknote.SickNote) bool {
		return hasSickNoteStatus(n, statuses) && n.EndDate.AfterOrEqual(since)
	}), nil
}

// -----------------------------------------------------------------------------
// Working time (workingtime.Provider)
// -----------------------------------------------------------------------------

// SetWorkingTime overrides the day length for one person and date.
// Dates without an override follow the default weekday pattern from the
// settings.
func (s *Store) SetWorkingTime(_ context.Context, personID int64, date period.Date, dl period.DayLength) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedules[personID] == nil {
		s.schedules[personID] = make(map[period.Date]period.DayLength)
	}
	s.schedules[personID][date] = dl
	return nil
}

func (s *Store) GetWorkingTimesByPersons(_ context.Context, persons []person.Person, r period.DateRange) (map[int64]workingtime.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]workingtime.Calendar, len(persons))
	for _, p := range persons {
		overrides := s.schedules[p.ID]
		cfg := s.settings
		out[p.ID] = workingtime.BuildCalendar(r, func(d period.Date) period.DayLength {
			if dl, ok := overrides[d]; ok {
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

// -----------------------------------------------------------------------------
// Settings (settings.Provider)
// -----------------------------------------------------------------------------

func (s *Store) SaveWorkingTimeSettings(_ context.Context, cfg settings.WorkingTimeSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = cfg
	return nil
}

func (s *Store) GetWorkingTimeSettings() settings.WorkingTimeSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func containsPerson(persons []person.Person, id int64) bool {
	for _, p := range persons {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Reset drops every record and restores default settings.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons = make(map[int64]person.Person)
	s.accounts = make(map[accountKey]account.Account)
	s.applications = nil
	s.sickNotes = nil
	s.vacationTypes = make(map[int64]application.VacationType)
	s.schedules = make(map[int64]map[period.Date]period.DayLength)
	s.settings = settings.DefaultWorkingTimeSettings()
	s.nextID = 0
	return nil
}

func hasSickNoteStatus(n sicknote.SickNote, statuses []sicknote.Status) bool {
	for _, st := range statuses {
		if n.Status == st {
			return true
		}
	}
	return false
}

var (
	_ application.Query    = (*Store)(nil)
	_ account.Store        = (*Store)(nil)
	_ workingtime.Provider = (*Store)(nil)
	_ settings.Provider    = (*Store)(nil)
)
