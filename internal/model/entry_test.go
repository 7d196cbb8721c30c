package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRealTotalTime(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	start := now.Add(-90 * time.Second)

	idle := TimeEntry{TotalTime: 5000}
	if got := idle.RealTotalTime(now); got != 5000 {
		t.Errorf("idle entry: got %d", got)
	}

	running := TimeEntry{TotalTime: 5000, StartTime: &start, IsActive: true}
	if got := running.RealTotalTime(now); got != 95000 {
		t.Errorf("running entry: got %d", got)
	}
}

func TestEntryEqual(t *testing.T) {
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	a := TimeEntry{ID: 1, Day: Monday, TotalTime: 100, Note: "x", ChargeCode: &ChargeCodeRef{ID: 2, Alias: "p"}}
	b := a.Clone()
	if !a.Equal(&b) {
		t.Fatal("clone should equal original")
	}

	b.Note = "y"
	if a.Equal(&b) {
		t.Error("note change not detected")
	}

	// Same instant in a different zone still compares equal.
	c := a.Clone()
	a.StartTime = &start
	inParis := start.In(time.FixedZone("CET", 3600))
	c.StartTime = &inParis
	if !a.Equal(&c) {
		t.Error("equal instants in different zones should match")
	}

	d := a.Clone()
	d.ChargeCode = nil
	if a.Equal(&d) {
		t.Error("dropped charge code not detected")
	}
}

func TestCloneIsDeep(t *testing.T) {
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	a := TimeEntry{ID: 1, StartTime: &start, ChargeCode: &ChargeCodeRef{ID: 3, Alias: "q"}}
	b := a.Clone()

	*b.StartTime = start.Add(time.Hour)
	b.ChargeCode.Alias = "changed"

	if !a.StartTime.Equal(start) || a.ChargeCode.Alias != "q" {
		t.Error("clone shares memory with original")
	}
}

func TestFullStateCloneAndEqual(t *testing.T) {
	s := NewFullState()
	s.ChargeCodes = []ChargeCode{{ID: 1, Alias: "a", Code: "1.2"}}
	s.TimeEntries[Monday] = []TimeEntry{{ID: 1, Day: Monday, TotalTime: 10}}

	c := s.Clone()
	if !s.Equal(c) {
		t.Fatal("clone should equal source")
	}

	c.TimeEntries[Monday][0].TotalTime = 999
	if s.TimeEntries[Monday][0].TotalTime != 10 {
		t.Error("clone shares entry storage")
	}
	if s.Equal(c) {
		t.Error("mutated clone still compares equal")
	}
}

// The wire format keys the day map by the numeric day value, so a Monday
// bucket must serialize under "0".
func TestFullStateJSONKeys(t *testing.T) {
	s := NewFullState()
	s.TimeEntries[Monday] = []TimeEntry{{ID: 1, Day: Monday}}
	s.TimeEntries[Friday] = []TimeEntry{{ID: 2, Day: Friday}}

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		TimeEntries map[string][]TimeEntry `json:"time_entries"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded.TimeEntries["0"]; !ok {
		t.Errorf("Monday not keyed by \"0\": %s", raw)
	}
	if _, ok := decoded.TimeEntries["4"]; !ok {
		t.Errorf("Friday not keyed by \"4\": %s", raw)
	}

	var back FullState
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(s) {
		t.Error("round trip lost data")
	}
}
