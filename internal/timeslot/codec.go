package timeslot

import (
	"errors"
	"fmt"
)

// Validation failures reported by the codec.
var (
	ErrInvalidDay    = errors.New("invalid day")
	ErrInvalidHour   = errors.New("invalid hour")
	ErrInvalidRange  = errors.New("end time must be after start time")
	ErrOutOfRange    = errors.New("time slot id out of range")
	ErrCrossDayRange = errors.New("time range spans two days")
)

// UnknownLabel is shown for ids that do not map to any cell.
const UnknownLabel = "Unknown"

// Unknown is the display fallback returned by TryDecode.
var Unknown = Slot{Day: UnknownLabel, Hour: UnknownLabel}

// Slot is a decoded (day, hour label) cell.
type Slot struct {
	Day  string `json:"day"`
	Hour string `json:"hour"`
}

// Codec converts between slot ids and (day, hour) cells. It is immutable and safe for concurrent use.
type Codec struct {
	days      []Day
	hours     []Hour
	dayIndex  map[string]int
	firstHour int
}

// NewCodec builds a codec over a copy of the given schedule.
func NewCodec(schedule Schedule) (*Codec, error) {
	if err := schedule.validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	c := &Codec{
		days:      append([]Day(nil), schedule.Days...),
		hours:     append([]Hour(nil), schedule.Hours...),
		dayIndex:  make(map[string]int, len(schedule.Days)),
		firstHour: schedule.Hours[0].Hour,
	}
	for i, day := range c.days {
		c.dayIndex[day.Name] = i
	}
	return c, nil
}

// NewDefaultCodec returns a codec over DefaultSchedule.
func NewDefaultCodec() *Codec {
	c, err := NewCodec(DefaultSchedule())
	if err != nil {
		panic(err)
	}
	return c
}

// Days returns the day table in scan order.
func (c *Codec) Days() []Day {
	return append([]Day(nil), c.days...)
}

// Hours returns the hour table.
func (c *Codec) Hours() []Hour {
	return append([]Hour(nil), c.hours...)
}

// HoursPerDay is the number of ids each day owns.
func (c *Codec) HoursPerDay() int {
	return len(c.hours)
}

// MaxID is one past the highest valid id.
func (c *Codec) MaxID() int {
	highest := 0
	for _, day := range c.days {
		if end := day.Offset + len(c.hours); end > highest {
			highest = end
		}
	}
	return highest
}

// locate returns the day and hour index owning id.
func (c *Codec) locate(id int) (dayIdx, hourIdx int, ok bool) {
	for i, day := range c.days {
		idx := id - day.Offset
		if idx >= 0 && idx < len(c.hours) {
			return i, idx, true
		}
	}
	return 0, 0, false
}

// TryDecode maps id to its cell, or Unknown when no day owns it. Use it for display only.
func (c *Codec) TryDecode(id int) Slot {
	slot, err := c.DecodeStrict(id)
	if err != nil {
		return Unknown
	}
	return slot
}

// DecodeStrict maps id to its cell and fails with ErrOutOfRange when no day owns it.
func (c *Codec) DecodeStrict(id int) (Slot, error) {
	dayIdx, hourIdx, ok := c.locate(id)
	if !ok {
		return Slot{}, fmt.Errorf("%w: %d", ErrOutOfRange, id)
	}
	return Slot{Day: c.days[dayIdx].Name, Hour: c.hours[hourIdx].Label}, nil
}

// Encode returns the id of the cell at hour on day.
func (c *Codec) Encode(day string, hour int) (int, error) {
	i, ok := c.dayIndex[day]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	idx := hour - c.firstHour
	if idx < 0 || idx >= len(c.hours) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}
	return idx + c.days[i].Offset, nil
}

// DayOf returns the name of the day owning id.
func (c *Codec) DayOf(id int) (string, error) {
	dayIdx, _, ok := c.locate(id)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, id)
	}
	return c.days[dayIdx].Name, nil
}
