package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sadopc/timecard/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertRunning is a test helper that inserts an entry whose clock started
// startedAgo before the store's current clock.
func insertRunning(t *testing.T, s *Store, day model.Day, startedAgo time.Duration, totalMillis int64) int64 {
	t.Helper()
	start := s.now().Add(-startedAgo)
	res, err := s.db.Exec(
		`INSERT INTO time_entries (day, start_time, total_time, note, created_at) VALUES (?, ?, ?, '', ?)`,
		int(day), start.Format(time.RFC3339Nano), totalMillis, s.now().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("insert running entry: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/timecard.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

// ============================================================
// Entry CRUD
// ============================================================

func TestCreateEntry(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.CreateEntry(model.Tuesday)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Day != model.Tuesday {
		t.Errorf("expected day Tuesday, got %s", entry.Day)
	}
	if entry.TotalTime != 0 || entry.IsActive {
		t.Errorf("new entry should be idle and empty, got total=%d active=%v", entry.TotalTime, entry.IsActive)
	}
}

func TestCreateEntryInvalidDay(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateEntry(model.Day(5)); err == nil {
		t.Fatal("expected error for out-of-range day")
	}
}

func TestGetEntryNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetEntry(999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestEntriesForDay(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.CreateEntry(model.Monday)
	b, _ := s.CreateEntry(model.Monday)
	s.CreateEntry(model.Friday)

	entries, err := s.EntriesForDay(model.Monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != a.ID || entries[1].ID != b.ID {
		t.Errorf("expected order [%d %d], got [%d %d]", a.ID, b.ID, entries[0].ID, entries[1].ID)
	}
}

// ============================================================
// Switch / pause
// ============================================================

func TestSwitchToSingleRunner(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC) // Monday
	s.now = func() time.Time { return fixed }

	a, _ := s.CreateEntry(model.Monday)
	b, _ := s.CreateEntry(model.Monday)

	if _, err := s.SwitchTo(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SwitchTo(b.ID); err != nil {
		t.Fatal(err)
	}

	running, err := s.RunningEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(running) != 1 || running[0].ID != b.ID {
		t.Fatalf("expected exactly entry %d running, got %+v", b.ID, running)
	}
}

func TestSwitchToPausesAcrossDays(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	// An entry on Tuesday that has been running for 10 minutes.
	runningID := insertRunning(t, s, model.Tuesday, 10*time.Minute, 0)
	target, _ := s.CreateEntry(model.Monday)

	bucket, err := s.SwitchTo(target.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bucket.Day != model.Monday {
		t.Errorf("expected Monday bucket, got %s", bucket.Day)
	}

	paused, err := s.GetEntry(runningID)
	if err != nil {
		t.Fatal(err)
	}
	if paused.IsActive {
		t.Error("previously running entry should be paused")
	}
	if paused.TotalTime != 600000 {
		t.Errorf("expected 600000ms folded in, got %d", paused.TotalTime)
	}
}

func TestSwitchToRestartsOwnClock(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	id := insertRunning(t, s, model.Monday, 5*time.Minute, 1000)

	if _, err := s.SwitchTo(id); err != nil {
		t.Fatal(err)
	}

	entry, _ := s.GetEntry(id)
	if !entry.IsActive {
		t.Fatal("entry should still be active")
	}
	// The 5 elapsed minutes were banked before the restart.
	if entry.TotalTime != 301000 {
		t.Errorf("expected total 301000, got %d", entry.TotalTime)
	}
	if !entry.StartTime.Equal(fixed) {
		t.Errorf("expected start reset to %v, got %v", fixed, entry.StartTime)
	}
}

func TestSwitchToMissingEntry(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SwitchTo(42); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestPauseFoldsElapsed(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	id := insertRunning(t, s, model.Wednesday, 10*time.Minute, 30000)

	bucket, err := s.Pause(id)
	if err != nil {
		t.Fatal(err)
	}
	if bucket.Day != model.Wednesday {
		t.Errorf("expected Wednesday bucket, got %s", bucket.Day)
	}

	entry, _ := s.GetEntry(id)
	if entry.IsActive {
		t.Error("entry should be idle after pause")
	}
	if entry.TotalTime != 630000 {
		t.Errorf("expected total 630000, got %d", entry.TotalTime)
	}
}

func TestPauseIdleEntryNoop(t *testing.T) {
	s := newTestStore(t)

	entry, _ := s.CreateEntry(model.Monday)
	if _, err := s.SetTime(entry.ID, 5000); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Pause(entry.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetEntry(entry.ID)
	if got.TotalTime != 5000 {
		t.Errorf("pause of idle entry changed total: %d", got.TotalTime)
	}
}

// ============================================================
// Time edits
// ============================================================

func TestAddTimeClampsAtZero(t *testing.T) {
	s := newTestStore(t)

	entry, _ := s.CreateEntry(model.Monday)
	if _, err := s.AddTime(entry.ID, 300); err != nil {
		t.Fatal(err)
	}
	got, err := s.AddTime(entry.ID, -500)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalTime != 0 {
		t.Errorf("expected clamp to 0, got %d", got.TotalTime)
	}
}

func TestSetTime(t *testing.T) {
	s := newTestStore(t)

	entry, _ := s.CreateEntry(model.Thursday)
	got, err := s.SetTime(entry.ID, 3600000)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalTime != 3600000 {
		t.Errorf("expected 3600000, got %d", got.TotalTime)
	}
}

func TestUpdateNoteAndChargeCode(t *testing.T) {
	s := newTestStore(t)

	code, err := s.CreateChargeCode("proj-a", "100.200.300", false)
	if err != nil {
		t.Fatal(err)
	}
	entry, _ := s.CreateEntry(model.Monday)

	got, err := s.UpdateNote(entry.ID, "worked on parser")
	if err != nil {
		t.Fatal(err)
	}
	if got.Note != "worked on parser" {
		t.Errorf("note not persisted: %q", got.Note)
	}

	got, err = s.UpdateChargeCode(entry.ID, code.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ChargeCode == nil || got.ChargeCode.ID != code.ID || got.ChargeCode.Alias != "proj-a" {
		t.Fatalf("charge code not attached: %+v", got.ChargeCode)
	}

	// Zero clears the tag.
	got, err = s.UpdateChargeCode(entry.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.ChargeCode != nil {
		t.Errorf("expected cleared charge code, got %+v", got.ChargeCode)
	}
}

// ============================================================
// Upsert and diff replay
// ============================================================

func TestUpsertEntryInsertsAndUpdates(t *testing.T) {
	s := newTestStore(t)

	entry := model.TimeEntry{ID: 7, Day: model.Tuesday, TotalTime: 1000, Note: "restored"}
	if _, err := s.UpsertEntry(entry); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEntry(7)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalTime != 1000 || got.Note != "restored" {
		t.Fatalf("insert path wrote %+v", got)
	}

	entry.Day = model.Friday
	entry.TotalTime = 2000
	if _, err := s.UpsertEntry(entry); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetEntry(7)
	if got.Day != model.Friday || got.TotalTime != 2000 {
		t.Fatalf("update path wrote %+v", got)
	}
}

func TestApplyDiff(t *testing.T) {
	s := newTestStore(t)

	keep, _ := s.CreateEntry(model.Monday)
	doomed, _ := s.CreateEntry(model.Monday)

	diff := model.Diff{
		ToUpsert: []model.TimeEntry{
			{ID: keep.ID, Day: model.Monday, TotalTime: 900000, Note: "undone"},
			{ID: 50, Day: model.Wednesday, TotalTime: 100},
		},
		ToDelete: []int64{doomed.ID},
	}
	if err := s.ApplyDiff(diff); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetEntry(keep.ID)
	if got.TotalTime != 900000 || got.Note != "undone" {
		t.Errorf("upsert not applied: %+v", got)
	}
	if _, err := s.GetEntry(doomed.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected entry %d deleted, got %v", doomed.ID, err)
	}
	if _, err := s.GetEntry(50); err != nil {
		t.Errorf("expected entry 50 inserted: %v", err)
	}
}

func TestApplyDiffAtomic(t *testing.T) {
	s := newTestStore(t)

	entry, _ := s.CreateEntry(model.Monday)

	// Second upsert carries an invalid day, so the whole diff must roll back.
	diff := model.Diff{
		ToUpsert: []model.TimeEntry{
			{ID: entry.ID, Day: model.Monday, TotalTime: 777},
			{ID: 51, Day: model.Day(9)},
		},
	}
	if err := s.ApplyDiff(diff); err == nil {
		t.Fatal("expected error from invalid day")
	}

	got, _ := s.GetEntry(entry.ID)
	if got.TotalTime != 0 {
		t.Errorf("partial diff leaked through: total=%d", got.TotalTime)
	}
}

// ============================================================
// Delete and cleanup
// ============================================================

func TestDeleteEntry(t *testing.T) {
	s := newTestStore(t)

	entry, _ := s.CreateEntry(model.Friday)
	bucket, err := s.DeleteEntry(entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bucket.Day != model.Friday || len(bucket.Entries) != 0 {
		t.Fatalf("expected empty Friday bucket, got %+v", bucket)
	}
	if _, err := s.GetEntry(entry.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("entry still present: %v", err)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	old := fixed.Add(-10 * 24 * time.Hour)
	if _, err := s.db.Exec(
		`INSERT INTO time_entries (day, total_time, note, created_at) VALUES (0, 100, '', ?)`,
		old.Format(time.RFC3339),
	); err != nil {
		t.Fatal(err)
	}
	// A running entry of the same age must survive cleanup.
	if _, err := s.db.Exec(
		`INSERT INTO time_entries (day, start_time, total_time, note, created_at) VALUES (0, ?, 0, '', ?)`,
		fixed.Format(time.RFC3339Nano), old.Format(time.RFC3339),
	); err != nil {
		t.Fatal(err)
	}
	fresh, _ := s.CreateEntry(model.Monday)

	n, err := s.DeleteOlderThan(fixed.Add(-7 * 24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deleted, got %d", n)
	}
	if _, err := s.GetEntry(fresh.ID); err != nil {
		t.Errorf("fresh entry deleted: %v", err)
	}
}

// ============================================================
// Full state
// ============================================================

func TestFullState(t *testing.T) {
	s := newTestStore(t)

	s.CreateChargeCode("overhead", "000.111", true)
	s.CreateEntry(model.Monday)
	s.CreateEntry(model.Monday)
	s.CreateEntry(model.Thursday)

	state, err := s.FullState()
	if err != nil {
		t.Fatal(err)
	}
	if len(state.TimeEntries[model.Monday]) != 2 {
		t.Errorf("expected 2 Monday entries, got %d", len(state.TimeEntries[model.Monday]))
	}
	if len(state.TimeEntries[model.Thursday]) != 1 {
		t.Errorf("expected 1 Thursday entry, got %d", len(state.TimeEntries[model.Thursday]))
	}
	if len(state.ChargeCodes) != 1 || !state.ChargeCodes[0].IsNC {
		t.Errorf("charge codes not loaded: %+v", state.ChargeCodes)
	}
}

func TestChargeCodesOrdered(t *testing.T) {
	s := newTestStore(t)

	s.CreateChargeCode("b", "2", false)
	s.CreateChargeCode("a", "1", false)

	codes, err := s.ChargeCodes()
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 2 || codes[0].Alias != "b" {
		t.Fatalf("expected id order, got %+v", codes)
	}
}
