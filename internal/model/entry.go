package model

import "time"

// ChargeCode is a billing category. The catalog is read-only from this
// system's perspective; codes are referenced by entries, never mutated.
type ChargeCode struct {
	ID    int64  `json:"id"`
	Alias string `json:"alias"`
	Code  string `json:"code"`
	IsNC  bool   `json:"is_nc"`
}

// ChargeCodeRef is the slice of a charge code an entry carries: enough to
// display and to re-associate, nothing more.
type ChargeCodeRef struct {
	ID    int64  `json:"id"`
	Alias string `json:"alias"`
}

// TimeEntry is one time-tracking record for a given weekday.
//
// StartTime is set exactly when the entry is running; TotalTime holds the
// accumulated milliseconds while paused and does not include time elapsed
// since StartTime.
type TimeEntry struct {
	ID         int64          `json:"id"`
	Day        Day            `json:"day"`
	StartTime  *time.Time     `json:"start_time"`
	TotalTime  int64          `json:"total_time"` // milliseconds
	Note       string         `json:"note"`
	IsActive   bool           `json:"is_active"`
	ChargeCode *ChargeCodeRef `json:"charge_code"`
}

// RealTotalTime returns accumulated milliseconds including the live portion
// since StartTime when the entry is running.
func (e *TimeEntry) RealTotalTime(now time.Time) int64 {
	if e.StartTime == nil {
		return e.TotalTime
	}
	return e.TotalTime + now.Sub(*e.StartTime).Milliseconds()
}

// Equal reports structural equality, field by field. Start times compare by
// instant, not by location.
func (e *TimeEntry) Equal(other *TimeEntry) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.ID != other.ID || e.Day != other.Day || e.TotalTime != other.TotalTime ||
		e.Note != other.Note || e.IsActive != other.IsActive {
		return false
	}
	if (e.StartTime == nil) != (other.StartTime == nil) {
		return false
	}
	if e.StartTime != nil && !e.StartTime.Equal(*other.StartTime) {
		return false
	}
	if (e.ChargeCode == nil) != (other.ChargeCode == nil) {
		return false
	}
	if e.ChargeCode != nil && *e.ChargeCode != *other.ChargeCode {
		return false
	}
	return true
}

// Clone returns a deep copy of the entry.
func (e *TimeEntry) Clone() TimeEntry {
	out := *e
	if e.StartTime != nil {
		t := *e.StartTime
		out.StartTime = &t
	}
	if e.ChargeCode != nil {
		cc := *e.ChargeCode
		out.ChargeCode = &cc
	}
	return out
}

// DayEntries is the refreshed bucket a mutation returns: every entry for the
// affected day, sorted by id.
type DayEntries struct {
	Day     Day         `json:"day"`
	Entries []TimeEntry `json:"entries"`
}
