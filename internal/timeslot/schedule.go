// Package timeslot encodes weekly teaching cells (day + hour) as compact integer ids.
//
// Each day owns a contiguous run of ids starting at its offset, one id per teaching hour. The
// default table matches the id scheme stored by the course admin backend: Monday starts at 1,
// every following day 14 ids later, and hours run 08:40 through 21:40.
package timeslot

import (
	"errors"
	"fmt"
)

// Day is one weekday column of the schedule and the id of its first hour cell.
type Day struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

// Hour is one teaching hour row of the schedule.
type Hour struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
}

// Schedule is the lookup table a Codec is built from. Days are scanned in slice order.
type Schedule struct {
	Days  []Day
	Hours []Hour
}

// Canonical weekday names of the default schedule.
const (
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
)

const (
	defaultFirstHour   = 8
	defaultHoursPerDay = 14
)

// DefaultSchedule returns the five-day, fourteen-hour table used by the backend.
func DefaultSchedule() Schedule {
	names := []string{Monday, Tuesday, Wednesday, Thursday, Friday}
	days := make([]Day, len(names))
	for i, name := range names {
		days[i] = Day{Name: name, Offset: 1 + i*defaultHoursPerDay}
	}

	hours := make([]Hour, defaultHoursPerDay)
	for i := range hours {
		h := defaultFirstHour + i
		hours[i] = Hour{Hour: h, Label: fmt.Sprintf("%02d:40", h)}
	}

	return Schedule{Days: days, Hours: hours}
}

func (s Schedule) validate() error {
	if len(s.Days) == 0 {
		return errors.New("schedule requires at least one day")
	}
	if len(s.Hours) == 0 {
		return errors.New("schedule requires at least one hour")
	}
	for i := 1; i < len(s.Hours); i++ {
		if s.Hours[i].Hour != s.Hours[i-1].Hour+1 {
			return fmt.Errorf("hour %d does not follow hour %d", s.Hours[i].Hour, s.Hours[i-1].Hour)
		}
	}

	span := len(s.Hours)
	seen := make(map[string]struct{}, len(s.Days))
	for i, day := range s.Days {
		if day.Name == "" {
			return fmt.Errorf("day %d has no name", i)
		}
		if _, dup := seen[day.Name]; dup {
			return fmt.Errorf("duplicate day %q", day.Name)
		}
		seen[day.Name] = struct{}{}
		if day.Offset < 0 {
			return fmt.Errorf("day %q has negative offset %d", day.Name, day.Offset)
		}
		for _, other := range s.Days[:i] {
			if day.Offset < other.Offset+span && other.Offset < day.Offset+span {
				return fmt.Errorf("days %q and %q overlap", other.Name, day.Name)
			}
		}
	}
	return nil
}
