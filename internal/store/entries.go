package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/timecard/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the entry queries can
// run standalone or inside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

const entryColumns = `e.id, e.day, e.start_time, e.total_time, e.note, e.charge_code_id, c.alias
	 FROM time_entries e LEFT JOIN charge_codes c ON c.id = e.charge_code_id`

// CreateEntry inserts an empty idle entry for the given day.
func (s *Store) CreateEntry(day model.Day) (*model.TimeEntry, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("create entry: invalid day %d", int(day))
	}
	res, err := s.db.Exec(
		`INSERT INTO time_entries (day, total_time, note, created_at) VALUES (?, 0, '', ?)`,
		int(day), s.now().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEntry(id)
}

// GetEntry returns the entry with the given id.
func (s *Store) GetEntry(id int64) (*model.TimeEntry, error) {
	return getEntry(s.db, id)
}

func getEntry(q querier, id int64) (*model.TimeEntry, error) {
	row := q.QueryRow(`SELECT `+entryColumns+` WHERE e.id = ?`, id)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return entry, nil
}

// EntriesForDay returns the day's entries sorted by id.
func (s *Store) EntriesForDay(day model.Day) ([]model.TimeEntry, error) {
	return entriesForDay(s.db, day)
}

func entriesForDay(q querier, day model.Day) ([]model.TimeEntry, error) {
	rows, err := q.Query(`SELECT `+entryColumns+` WHERE e.day = ? ORDER BY e.id`, int(day))
	if err != nil {
		return nil, fmt.Errorf("entries for day %s: %w", day, err)
	}
	return collectEntries(rows)
}

// AllEntries returns every entry, ordered by day then id.
func (s *Store) AllEntries() ([]model.TimeEntry, error) {
	rows, err := s.db.Query(`SELECT ` + entryColumns + ` ORDER BY e.day, e.id`)
	if err != nil {
		return nil, fmt.Errorf("all entries: %w", err)
	}
	return collectEntries(rows)
}

// RunningEntries returns every entry with a start time set. Under the
// single-runner invariant this is at most one entry, but the query does not
// assume it.
func (s *Store) RunningEntries() ([]model.TimeEntry, error) {
	return runningEntries(s.db)
}

func runningEntries(q querier) ([]model.TimeEntry, error) {
	rows, err := q.Query(`SELECT ` + entryColumns + ` WHERE e.start_time IS NOT NULL ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("running entries: %w", err)
	}
	return collectEntries(rows)
}

// FullState assembles the complete snapshot: all entries grouped by day plus
// the charge-code catalog.
func (s *Store) FullState() (*model.FullState, error) {
	entries, err := s.AllEntries()
	if err != nil {
		return nil, err
	}
	codes, err := s.ChargeCodes()
	if err != nil {
		return nil, err
	}
	state := model.NewFullState()
	state.ChargeCodes = codes
	for _, e := range entries {
		state.TimeEntries[e.Day] = append(state.TimeEntries[e.Day], e)
	}
	return state, nil
}

// SwitchTo pauses every running entry anywhere in the store, then starts the
// target entry, all in one transaction. Switching to the entry that is
// already running restarts its clock. Returns the target day's refreshed
// bucket; pausing may also have touched other days, so callers needing full
// consistency should re-fetch the full state.
func (s *Store) SwitchTo(id int64) (*model.DayEntries, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("switch to %d: %w", id, err)
	}
	defer tx.Rollback()

	now := s.now()
	running, err := runningEntries(tx)
	if err != nil {
		return nil, err
	}
	for _, entry := range running {
		if err := pauseEntry(tx, &entry, now); err != nil {
			return nil, err
		}
	}

	target, err := getEntry(tx, id)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(`UPDATE time_entries SET start_time = ? WHERE id = ?`,
		now.Format(time.RFC3339Nano), id)
	if err != nil {
		return nil, fmt.Errorf("start entry %d: %w", id, err)
	}

	bucket, err := dayBucket(tx, target.Day)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("switch to %d: %w", id, err)
	}
	return bucket, nil
}

// Pause stops the entry's clock, folding the elapsed time into total_time.
// Pausing an idle entry has no effect beyond refreshing the bucket.
func (s *Store) Pause(id int64) (*model.DayEntries, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("pause entry %d: %w", id, err)
	}
	defer tx.Rollback()

	entry, err := getEntry(tx, id)
	if err != nil {
		return nil, err
	}
	if err := pauseEntry(tx, entry, s.now()); err != nil {
		return nil, err
	}

	bucket, err := dayBucket(tx, entry.Day)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("pause entry %d: %w", id, err)
	}
	return bucket, nil
}

func pauseEntry(q querier, entry *model.TimeEntry, now time.Time) error {
	var elapsed int64
	if entry.StartTime != nil {
		elapsed = now.Sub(*entry.StartTime).Milliseconds()
	}
	_, err := q.Exec(
		`UPDATE time_entries SET total_time = total_time + ?, start_time = NULL WHERE id = ?`,
		elapsed, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("pause entry %d: %w", entry.ID, err)
	}
	return nil
}

// AddTime adjusts total_time by delta milliseconds, clamped at zero.
func (s *Store) AddTime(id int64, delta int64) (*model.TimeEntry, error) {
	_, err := s.db.Exec(
		`UPDATE time_entries SET total_time = MAX(0, total_time + ?) WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return nil, fmt.Errorf("add time to entry %d: %w", id, err)
	}
	return s.GetEntry(id)
}

// SetTime overwrites total_time with an absolute value.
func (s *Store) SetTime(id int64, millis int64) (*model.TimeEntry, error) {
	_, err := s.db.Exec(`UPDATE time_entries SET total_time = ? WHERE id = ?`, millis, id)
	if err != nil {
		return nil, fmt.Errorf("set time on entry %d: %w", id, err)
	}
	return s.GetEntry(id)
}

// UpdateNote replaces the entry's note.
func (s *Store) UpdateNote(id int64, note string) (*model.TimeEntry, error) {
	_, err := s.db.Exec(`UPDATE time_entries SET note = ? WHERE id = ?`, note, id)
	if err != nil {
		return nil, fmt.Errorf("update note on entry %d: %w", id, err)
	}
	return s.GetEntry(id)
}

// UpdateChargeCode re-tags the entry. A codeID of zero clears the tag.
func (s *Store) UpdateChargeCode(id int64, codeID int64) (*model.TimeEntry, error) {
	var arg any
	if codeID != 0 {
		arg = codeID
	}
	_, err := s.db.Exec(`UPDATE time_entries SET charge_code_id = ? WHERE id = ?`, arg, id)
	if err != nil {
		return nil, fmt.Errorf("update charge code on entry %d: %w", id, err)
	}
	return s.GetEntry(id)
}

// UpsertEntry writes a complete entry keyed by its id, inserting if absent.
// This is the replay write used by undo/redo.
func (s *Store) UpsertEntry(entry model.TimeEntry) (*model.DayEntries, error) {
	if err := upsertEntry(s.db, entry, s.now()); err != nil {
		return nil, err
	}
	return s.DayBucket(entry.Day)
}

func upsertEntry(q querier, entry model.TimeEntry, now time.Time) error {
	if !entry.Day.Valid() {
		return fmt.Errorf("upsert entry %d: invalid day %d", entry.ID, int(entry.Day))
	}
	var start any
	if entry.StartTime != nil {
		start = entry.StartTime.UTC().Format(time.RFC3339Nano)
	}
	var codeID any
	if entry.ChargeCode != nil {
		codeID = entry.ChargeCode.ID
	}
	_, err := q.Exec(
		`INSERT INTO time_entries (id, day, start_time, total_time, note, charge_code_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			day = excluded.day,
			start_time = excluded.start_time,
			total_time = excluded.total_time,
			note = excluded.note,
			charge_code_id = excluded.charge_code_id`,
		entry.ID, int(entry.Day), start, entry.TotalTime, entry.Note, codeID,
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert entry %d: %w", entry.ID, err)
	}
	return nil
}

// ApplyDiff replays a snapshot diff — upserts first, then deletes — inside
// one transaction, so an undo/redo step lands entirely or not at all.
func (s *Store) ApplyDiff(diff model.Diff) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("apply diff: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	for _, entry := range diff.ToUpsert {
		if err := upsertEntry(tx, entry, now); err != nil {
			return err
		}
	}
	for _, id := range diff.ToDelete {
		if _, err := tx.Exec(`DELETE FROM time_entries WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete entry %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply diff: %w", err)
	}
	return nil
}

// DeleteEntry removes the entry and returns its former day's refreshed
// bucket. A running entry is deleted as-is; its unpaused elapsed time is
// discarded.
func (s *Store) DeleteEntry(id int64) (*model.DayEntries, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("delete entry %d: %w", id, err)
	}
	defer tx.Rollback()

	entry, err := getEntry(tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM time_entries WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete entry %d: %w", id, err)
	}

	bucket, err := dayBucket(tx, entry.Day)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete entry %d: %w", id, err)
	}
	return bucket, nil
}

// DeleteOlderThan removes idle entries created before the cutoff and returns
// how many were deleted.
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM time_entries WHERE created_at < ? AND start_time IS NULL`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("delete old entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DayBucket returns the refreshed bucket for one day.
func (s *Store) DayBucket(day model.Day) (*model.DayEntries, error) {
	return dayBucket(s.db, day)
}

func dayBucket(q querier, day model.Day) (*model.DayEntries, error) {
	entries, err := entriesForDay(q, day)
	if err != nil {
		return nil, err
	}
	return &model.DayEntries{Day: day, Entries: entries}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.TimeEntry, error) {
	e := &model.TimeEntry{}
	var day int
	var startTime sql.NullString
	var codeID sql.NullInt64
	var alias sql.NullString

	err := row.Scan(&e.ID, &day, &startTime, &e.TotalTime, &e.Note, &codeID, &alias)
	if err != nil {
		return nil, err
	}
	e.Day = model.Day(day)
	if startTime.Valid {
		t, err := time.Parse(time.RFC3339Nano, startTime.String)
		if err != nil {
			return nil, fmt.Errorf("parse start_time %q: %w", startTime.String, err)
		}
		e.StartTime = &t
		e.IsActive = true
	}
	if codeID.Valid {
		e.ChargeCode = &model.ChargeCodeRef{ID: codeID.Int64, Alias: alias.String}
	}
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]model.TimeEntry, error) {
	defer rows.Close()
	var entries []model.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
