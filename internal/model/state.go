package model

// FullState is the complete snapshot exchanged between client and server:
// every entry grouped by day plus the charge-code catalog. Once constructed
// it is treated as an immutable value; take a Clone before mutating.
type FullState struct {
	TimeEntries map[Day][]TimeEntry `json:"time_entries"`
	ChargeCodes []ChargeCode        `json:"charge_codes"`
}

// NewFullState returns an empty snapshot with an initialized day map.
func NewFullState() *FullState {
	return &FullState{TimeEntries: make(map[Day][]TimeEntry)}
}

// EntriesForDay returns the entries recorded under day, which may be empty.
func (s *FullState) EntriesForDay(day Day) []TimeEntry {
	return s.TimeEntries[day]
}

// AllEntries flattens the snapshot across all days, Monday first, each day's
// entries in their stored (id-sorted) order.
func (s *FullState) AllEntries() []TimeEntry {
	var out []TimeEntry
	for _, day := range Days {
		out = append(out, s.TimeEntries[day]...)
	}
	return out
}

// Clone returns a deep copy of the snapshot.
func (s *FullState) Clone() *FullState {
	out := &FullState{
		TimeEntries: make(map[Day][]TimeEntry, len(s.TimeEntries)),
		ChargeCodes: append([]ChargeCode(nil), s.ChargeCodes...),
	}
	for day, entries := range s.TimeEntries {
		copied := make([]TimeEntry, len(entries))
		for i := range entries {
			copied[i] = entries[i].Clone()
		}
		out.TimeEntries[day] = copied
	}
	return out
}

// SetDayEntries replaces one day's bucket, keeping the rest of the snapshot.
func (s *FullState) SetDayEntries(bucket DayEntries) {
	if s.TimeEntries == nil {
		s.TimeEntries = make(map[Day][]TimeEntry)
	}
	s.TimeEntries[bucket.Day] = bucket.Entries
}

// Equal reports structural equality of the entry collections and catalogs.
func (s *FullState) Equal(other *FullState) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.ChargeCodes) != len(other.ChargeCodes) {
		return false
	}
	for i := range s.ChargeCodes {
		if s.ChargeCodes[i] != other.ChargeCodes[i] {
			return false
		}
	}
	for _, day := range Days {
		a, b := s.TimeEntries[day], other.TimeEntries[day]
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(&b[i]) {
				return false
			}
		}
	}
	return true
}
