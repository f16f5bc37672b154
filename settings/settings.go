// Package settings holds the company-wide configuration consumed by the
// working-time subsystem: which weekdays count as working days by default,
// which timezone dates are interpreted in, and which federal state's public
// holidays apply.
package settings

import "time"

// WorkingTimeSettings configures default working-time behavior for persons
// without an individual schedule.
type WorkingTimeSettings struct {
	// TimeZoneID is an IANA timezone name, e.g. "Europe/Berlin".
	TimeZoneID string

	// WorkingWeekdays lists the weekdays that count as working days.
	WorkingWeekdays []time.Weekday

	// FederalState selects the public-holiday set, e.g. "BADEN_WUERTTEMBERG".
	FederalState string
}

// DefaultWorkingTimeSettings is a Monday-to-Friday week in UTC.
func DefaultWorkingTimeSettings() WorkingTimeSettings {
	return WorkingTimeSettings{
		TimeZoneID: "Etc/UTC",
		WorkingWeekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
	}
}

// IsWorkingWeekday reports whether the weekday is a default working day.
func (s WorkingTimeSettings) IsWorkingWeekday(wd time.Weekday) bool {
	for _, w := range s.WorkingWeekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// Provider supplies the current settings. Implemented by the stores.
type Provider interface {
	GetWorkingTimeSettings() WorkingTimeSettings
}

// StaticProvider returns fixed settings. For tests and dev mode.
type StaticProvider struct {
	Settings WorkingTimeSettings
}

func (p StaticProvider) GetWorkingTimeSettings() WorkingTimeSettings { return p.Settings }
