/*
Package absence aggregates vacation applications and sick notes into
per-day absence timelines.

PURPOSE:
  Calendar views need to know, for a set of persons and a date range, who
  is absent when and for which half of the day. This package intersects
  each leave application and sick note with the requested window and the
  person's working-time calendar and emits one AbsencePeriod per source
  event: an ordered sequence of per-day records with separate morning and
  noon slots.

KEY CONCEPTS IN THIS FILE:
  - AbsencePeriod: All records belonging to one source event
  - Record:        One day of one person, with morning/noon slots
  - RecordInfo:    What occupies a slot (source id, status, type, ...)

INVARIANTS:
  1. One AbsencePeriod per source event; periods are never merged across
     source ids, even for the same person and day
  2. A slot is only populated when the person's working-time pattern
     indicates work during that half of that day
  3. A day with zero working time in both halves produces no Record

SEE ALSO:
  - aggregator.go: The computation
*/
package absence

import (
	"github.com/warp/leave-engine/application"
	"github.com/warp/leave-engine/period"
	"github.com/warp/leave-engine/person"
	"github.com/warp/leave-engine/sicknote"
)

// AbsenceType distinguishes the source kind of a slot.
type AbsenceType string

const (
	TypeVacation AbsenceType = "VACATION"
	TypeSick     AbsenceType = "SICK"
)

// AbsenceStatus is the unified status enumeration over application and
// sick-note lifecycles.
type AbsenceStatus string

const (
	StatusWaiting                      AbsenceStatus = "WAITING"
	StatusTemporaryAllowed             AbsenceStatus = "TEMPORARY_ALLOWED"
	StatusAllowed                      AbsenceStatus = "ALLOWED"
	StatusAllowedCancellationRequested AbsenceStatus = "ALLOWED_CANCELLATION_REQUESTED"
	StatusRejected                     AbsenceStatus = "REJECTED"
	StatusCancelled                    AbsenceStatus = "CANCELLED"
	StatusRevoked                      AbsenceStatus = "REVOKED"
	StatusActive                       AbsenceStatus = "ACTIVE"
	StatusConvertedToVacation          AbsenceStatus = "CONVERTED_TO_VACATION"
)

func statusOfApplication(s application.Status) AbsenceStatus {
	return AbsenceStatus(s)
}

func statusOfSickNote(s sicknote.Status) AbsenceStatus {
	return AbsenceStatus(s)
}

// VacationTypeID wraps an optional vacation-type id so that a vacation
// with an unset type id remains distinguishable from a non-vacation slot.
type VacationTypeID struct {
	present bool
	id      int64
}

func NewVacationTypeID(id int64) VacationTypeID {
	return VacationTypeID{present: true, id: id}
}

// Present reports whether the slot belongs to a vacation at all.
func (v VacationTypeID) Present() bool { return v.present }

// Value returns the id. The second return is false for sick slots and for
// vacations without a type id.
func (v VacationTypeID) Value() (int64, bool) {
	if !v.present || v.id == 0 {
		return 0, false
	}
	return v.id, true
}

// RecordInfo describes what occupies a half-day slot.
type RecordInfo struct {
	SourceID          int64
	Status            AbsenceStatus
	Type              AbsenceType
	VacationTypeID    VacationTypeID
	VisibleToEveryone bool
}

// Record is one day of one person. A nil slot means no absence in that
// half (or no working time there).
type Record struct {
	Date    period.Date
	Person  person.Person
	Morning *RecordInfo
	Noon    *RecordInfo
}

// AbsencePeriod is the per-day timeline of one source event, in date
// order. Computed fresh per query, never persisted.
type AbsencePeriod struct {
	Records []Record
}
