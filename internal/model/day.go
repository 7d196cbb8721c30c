package model

import (
	"fmt"
	"time"
)

// Day is one of the five tracked weekdays. The numeric values are part of
// the wire format and the database schema, so they must never be reordered.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Days lists every valid Day in order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

func (d Day) String() string {
	switch d {
	case Monday:
		return "Monday"
	case Tuesday:
		return "Tuesday"
	case Wednesday:
		return "Wednesday"
	case Thursday:
		return "Thursday"
	case Friday:
		return "Friday"
	}
	return fmt.Sprintf("Day(%d)", int(d))
}

// Valid reports whether d is one of the five tracked weekdays.
func (d Day) Valid() bool {
	return d >= Monday && d <= Friday
}

// ParseDay converts a numeric day value, rejecting anything outside
// Monday–Friday. Weekend values are never silently mapped to a weekday.
func ParseDay(n int) (Day, error) {
	d := Day(n)
	if !d.Valid() {
		return 0, fmt.Errorf("invalid day %d: must be 0 (Monday) through 4 (Friday)", n)
	}
	return d, nil
}

// CurrentDay returns the tracked day for now's weekday. ok is false on
// Saturday and Sunday; callers must handle the weekend case explicitly.
func CurrentDay(now time.Time) (Day, bool) {
	switch now.Weekday() {
	case time.Monday:
		return Monday, true
	case time.Tuesday:
		return Tuesday, true
	case time.Wednesday:
		return Wednesday, true
	case time.Thursday:
		return Thursday, true
	case time.Friday:
		return Friday, true
	}
	return 0, false
}

// DateIn returns the calendar date of d within the week containing now.
// The week is anchored on Monday, matching how entries partition the week.
func (d Day) DateIn(now time.Time) time.Time {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday counts as the end of the week
	}
	monday := now.AddDate(0, 0, 1-weekday)
	target := monday.AddDate(0, 0, int(d))
	return time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, now.Location())
}
