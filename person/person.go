// Package person defines the employee identity record referenced by
// accounts, applications, sick notes and working-time calendars.
package person

import "github.com/google/uuid"

// Person identifies an employee. ID is the internal numeric key used by
// the stores; ExternalID is the stable identifier handed out over the API.
type Person struct {
	ID         int64
	ExternalID uuid.UUID
	Username   string
	FirstName  string
	LastName   string
	Email      string
}

func (p Person) NiceName() string {
	if p.FirstName == "" && p.LastName == "" {
		return p.Username
	}
	return p.FirstName + " " + p.LastName
}

// IDs returns the internal ids of the given persons, preserving order.
func IDs(persons []Person) []int64 {
	ids := make([]int64, len(persons))
	for i, p := range persons {
		ids[i] = p.ID
	}
	return ids
}
