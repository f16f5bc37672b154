/*
Package sqlite provides a SQLite-backed implementation of the engine's
query and store interfaces.

PURPOSE:
  Persists persons, yearly accounts, vacation types, applications, sick
  notes and working-time data, and serves them through the interfaces the
  calculation core consumes (application.Query, sicknote.Query,
  workingtime.Provider, account.Store, settings.Provider).

INTERFACES IMPLEMENTED:
  application.Query:    Applications by status/person/range
  sicknote.Query:       Sick notes by status/person/range (via SickNotes())
  workingtime.Provider: Per-person calendars from schedule overrides
  account.Store:        Yearly entitlement records
  settings.Provider:    Company working-time settings

KEY TABLES:
  persons:                Employee identities (uuid external ids)
  accounts:               One row per person per year
  vacation_types:         Provided and custom vacation types
  applications:           Leave applications
  sick_notes:             Sick-leave records
  working_time_overrides: Per-person per-date day-length deviations
  settings:               Single-row company settings

DECIMALS AND DATES:
  Day counts are stored as TEXT and parsed with shopspring/decimal so no
  precision is lost. Dates are stored as ISO text (2006-01-02).

WAL MODE:
  SQLite is opened with WAL for better read concurrency. A sync.RWMutex
  additionally serializes writers in-process.

SEE ALSO:
  - store/memory: In-memory implementation for tests and dev mode
  - queries.go: application/sick-note/working-time query implementations
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/account"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS persons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		external_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id INTEGER NOT NULL REFERENCES persons(id),
		year INTEGER NOT NULL,
		annual_vacation_days TEXT NOT NULL,
		actual_vacation_days TEXT NOT NULL,
		remaining_vacation_days TEXT NOT NULL,
		remaining_not_expiring TEXT NOT NULL,
		do_remaining_expire INTEGER NOT NULL,
		expiry_date TEXT NOT NULL,
		UNIQUE(person_id, year)
	);

	CREATE TABLE IF NOT EXISTS vacation_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		variant TEXT NOT NULL,              -- 'provided' | 'custom'
		active INTEGER NOT NULL DEFAULT 1,
		category TEXT NOT NULL,
		message_key TEXT,                   -- provided only
		labels_json TEXT,                   -- custom only, locale -> label
		requires_approval_to_apply INTEGER NOT NULL DEFAULT 1,
		requires_approval_to_cancel INTEGER NOT NULL DEFAULT 1,
		color TEXT NOT NULL DEFAULT 'YELLOW',
		visible_to_everyone INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS applications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id INTEGER NOT NULL REFERENCES persons(id),
		vacation_type_id INTEGER REFERENCES vacation_types(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		day_length TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_applications_person_dates
		ON applications(person_id, start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_applications_status
		ON applications(status);

	CREATE TABLE IF NOT EXISTS sick_notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id INTEGER NOT NULL REFERENCES persons(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		day_length TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sick_notes_person_dates
		ON sick_notes(person_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS working_time_overrides (
		person_id INTEGER NOT NULL REFERENCES persons(id),
		date TEXT NOT NULL,
		day_length TEXT NOT NULL,
		PRIMARY KEY (person_id, date)
	);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		timezone_id TEXT NOT NULL,
		working_weekdays TEXT NOT NULL,     -- json array of weekday numbers
		federal_state TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const dateFormat = "2006-01-02"

func formatDate(d period.Date) string { return d.Time().Format(dateFormat) }

func parseDate(s string) (period.Date, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return period.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return period.DateOf(t), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid external id %q: %w", s, err)
	}
	return id, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// =============================================================================
// PERSONS
// =============================================================================

func (s *Store) CreatePerson(ctx context.Context, p person.Person) (person.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ExternalID == uuid.Nil {
		p.ExternalID = uuid.New()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO persons (external_id, username, first_name, last_name, email) VALUES (?, ?, ?, ?, ?)`,
		p.ExternalID.String(), p.Username, p.FirstName, p.LastName, p.Email)
	if err != nil {
		return person.Person{}, fmt.Errorf("failed to create person: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return person.Person{}, err
	}
	return p, nil
}

func (s *Store) GetPerson(ctx context.Context, id int64) (person.Person, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, external_id, username, first_name, last_name, email FROM persons WHERE id = ?`, id)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return person.Person{}, false, nil
	}
	if err != nil {
		return person.Person{}, false, err
	}
	return p, true, nil
}

func (s *Store) ListPersons(ctx context.Context) ([]person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, external_id, username, first_name, last_name, email FROM persons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []person.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPerson(row scanner) (person.Person, error) {
	var p person.Person
	var externalID string
	if err := row.Scan(&p.ID, &externalID, &p.Username, &p.FirstName, &p.LastName, &p.Email); err != nil {
		return person.Person{}, err
	}
	id, err := uuid.Parse(externalID)
	if err != nil {
		return person.Person{}, fmt.Errorf("invalid external id %q: %w", externalID, err)
	}
	p.ExternalID = id
	return p, nil
}

// =============================================================================
// ACCOUNTS (account.Store)
// =============================================================================

const accountSelect = `
	SELECT a.id, a.year, a.annual_vacation_days, a.actual_vacation_days,
		a.remaining_vacation_days, a.remaining_not_expiring, a.do_remaining_expire, a.expiry_date,
		p.id, p.external_id, p.username, p.first_name, p.last_name, p.email
	FROM accounts a JOIN persons p ON p.id = a.person_id`

func (s *Store) GetAccount(ctx context.Context, personID int64, year int) (account.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, accountSelect+` WHERE a.person_id = ? AND a.year = ?`, personID, year)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return account.Account{}, false, nil
	}
	if err != nil {
		return account.Account{}, false, err
	}
	return a, true, nil
}

func (s *Store) GetAccountsForYear(ctx context.Context, persons []person.Person, year int) ([]account.Account, error) {
	var out []account.Account
	for _, p := range persons {
		a, ok, err := s.GetAccount(ctx, p.ID, year)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) SaveAccount(ctx context.Context, a account.Account) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (person_id, year, annual_vacation_days, actual_vacation_days,
			remaining_vacation_days, remaining_not_expiring, do_remaining_expire, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(person_id, year) DO UPDATE SET
			annual_vacation_days = excluded.annual_vacation_days,
			actual_vacation_days = excluded.actual_vacation_days,
			remaining_vacation_days = excluded.remaining_vacation_days,
			remaining_not_expiring = excluded.remaining_not_expiring,
			do_remaining_expire = excluded.do_remaining_expire,
			expiry_date = excluded.expiry_date`,
		a.Person.ID, a.Year,
		a.AnnualVacationDays.String(), a.ActualVacationDays.String(),
		a.RemainingVacationDays.String(), a.RemainingVacationDaysNotExpiring.String(),
		boolToInt(a.DoRemainingVacationDaysExpire), formatDate(a.ExpiryDate))
	if err != nil {
		return account.Account{}, fmt.Errorf("failed to save account: %w", err)
	}
	if a.ID == 0 {
		a.ID, _ = res.LastInsertId()
	}
	return a, nil
}

func scanAccount(row scanner) (account.Account, error) {
	var a account.Account
	var annual, actual, remaining, notExpiring, expiry, externalID string
	var doExpire int
	err := row.Scan(&a.ID, &a.Year, &annual, &actual, &remaining, &notExpiring, &doExpire, &expiry,
		&a.Person.ID, &externalID, &a.Person.Username, &a.Person.FirstName, &a.Person.LastName, &a.Person.Email)
	if err != nil {
		return account.Account{}, err
	}
	if a.Person.ExternalID, err = uuid.Parse(externalID); err != nil {
		return account.Account{}, err
	}
	if a.AnnualVacationDays, err = parseDecimal(annual); err != nil {
		return account.Account{}, err
	}
	if a.ActualVacationDays, err = parseDecimal(actual); err != nil {
		return account.Account{}, err
	}
	if a.RemainingVacationDays, err = parseDecimal(remaining); err != nil {
		return account.Account{}, err
	}
	if a.RemainingVacationDaysNotExpiring, err = parseDecimal(notExpiring); err != nil {
		return account.Account{}, err
	}
	if a.ExpiryDate, err = parseDate(expiry); err != nil {
		return account.Account{}, err
	}
	a.DoRemainingVacationDaysExpire = doExpire != 0
	return a, nil
}

// Reset clears every table. Used by the demo scenario loaders.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"applications", "sick_notes", "working_time_overrides", "accounts", "vacation_types", "persons", "settings"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
