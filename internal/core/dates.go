package core

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format for calendar month keys.
const MonthLayout = "2006-01"

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey renders a time as its YYYY-MM calendar month label.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// MonthStart returns the first day of the calendar month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances the first day of t's month by the given number of
// calendar months.
func AddMonths(t time.Time, months int) time.Time {
	y := t.Year() + (int(t.Month())-1+months)/12
	m := (int(t.Month())-1+months)%12 + 1
	if m < 1 {
		m += 12
		y--
	}
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetweenInclusive counts calendar months from start's month to end's
// month, both included. The result is negative when end precedes start.
func MonthsBetweenInclusive(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}

// MonthBounds returns the first and last calendar day of the month
// containing t.
func MonthBounds(t time.Time) (start, end time.Time) {
	start = MonthStart(t)
	end = AddMonths(start, 1).AddDate(0, 0, -1)
	return start, end
}
