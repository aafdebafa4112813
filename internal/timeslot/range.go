package timeslot

import "fmt"

// Range is a weekly meeting from StartID (inclusive) to EndID (exclusive).
type Range struct {
	StartID int `json:"start_time_id"`
	EndID   int `json:"end_time_id"`
}

// MakeRange encodes both hours on day and requires the end id to be after the start id.
func (c *Codec) MakeRange(day string, startHour, endHour int) (Range, error) {
	start, err := c.Encode(day, startHour)
	if err != nil {
		return Range{}, err
	}
	end, err := c.Encode(day, endHour)
	if err != nil {
		return Range{}, err
	}
	if start >= end {
		return Range{}, fmt.Errorf("%w: %d >= %d", ErrInvalidRange, start, end)
	}
	return Range{StartID: start, EndID: end}, nil
}

// RangeFromIDs builds a range from stored ids. Both ids must be valid cells of the same day.
func (c *Codec) RangeFromIDs(startID, endID int) (Range, error) {
	r := Range{StartID: startID, EndID: endID}
	if err := c.Validate(r); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate checks id validity, same-day placement and ordering of r.
func (c *Codec) Validate(r Range) error {
	startDay, _, ok := c.locate(r.StartID)
	if !ok {
		return fmt.Errorf("%w: start %d", ErrOutOfRange, r.StartID)
	}
	endDay, _, ok := c.locate(r.EndID)
	if !ok {
		return fmt.Errorf("%w: end %d", ErrOutOfRange, r.EndID)
	}
	if startDay != endDay {
		return fmt.Errorf("%w: %s to %s", ErrCrossDayRange, c.days[startDay].Name, c.days[endDay].Name)
	}
	if r.StartID >= r.EndID {
		return fmt.Errorf("%w: %d >= %d", ErrInvalidRange, r.StartID, r.EndID)
	}
	return nil
}

// Overlaps reports whether two ranges share at least one hour cell.
func (r Range) Overlaps(other Range) bool {
	return r.StartID < other.EndID && other.StartID < r.EndID
}

// DescribeRange renders r as "<day> <start> - <end>", falling back to Unknown labels.
func (c *Codec) DescribeRange(r Range) string {
	start := c.TryDecode(r.StartID)
	end := c.TryDecode(r.EndID)
	return fmt.Sprintf("%s %s - %s", start.Day, start.Hour, end.Hour)
}
