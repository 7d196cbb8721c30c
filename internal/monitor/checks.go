// Package monitor watches the tracked week in the background: it nags when
// the day is nearly full, and pauses timers that were clearly forgotten.
package monitor

import (
	"fmt"
	"time"

	"github.com/sadopc/timecard/internal/model"
	"github.com/sadopc/timecard/internal/rollup"
)

// ResultKind says what the orchestrator should do with a check result.
type ResultKind int

const (
	// KindNotify sends a desktop notification.
	KindNotify ResultKind = iota
	// KindPauseTimer pauses the named entry remotely.
	KindPauseTimer
)

type Result struct {
	Kind    ResultKind
	Message string
	EntryID int64
}

// Check inspects a snapshot at a fixed instant and proposes actions.
type Check interface {
	Name() string
	Run(state *model.FullState, now time.Time) []Result
}

// EodCheck fires once the current day's quarter-hour-rounded total reaches
// the threshold. On weekends it never fires; there is no current day.
type EodCheck struct {
	ThresholdMinutes int64
}

func NewEodCheck() EodCheck {
	return EodCheck{ThresholdMinutes: rollup.EodThresholdMinutes}
}

func (EodCheck) Name() string { return "end-of-day" }

func (c EodCheck) Run(state *model.FullState, now time.Time) []Result {
	day, ok := model.CurrentDay(now)
	if !ok {
		return nil
	}
	entries := state.EntriesForDay(day)
	if len(entries) == 0 {
		return nil
	}
	if rollup.SumRoundedMinutes(entries, now) < c.ThresholdMinutes {
		return nil
	}
	return []Result{{
		Kind:    KindNotify,
		Message: "You are close to 8 hours worked today!",
	}}
}

// LongTimerCheck pauses any entry whose real total exceeds the cutoff; a
// ten-hour tracked entry means someone forgot the timer, not a long day.
type LongTimerCheck struct {
	Cutoff time.Duration
}

func NewLongTimerCheck() LongTimerCheck {
	return LongTimerCheck{Cutoff: 10 * time.Hour}
}

func (LongTimerCheck) Name() string { return "long-running-timer" }

func (c LongTimerCheck) Run(state *model.FullState, now time.Time) []Result {
	var results []Result
	for _, entry := range state.AllEntries() {
		if !entry.IsActive {
			continue
		}
		if entry.RealTotalTime(now) > c.Cutoff.Milliseconds() {
			results = append(results, Result{
				Kind:    KindPauseTimer,
				EntryID: entry.ID,
				Message: fmt.Sprintf("Paused entry %d: running past %s", entry.ID, c.Cutoff),
			})
		}
	}
	return results
}

// MidnightCheck pauses timers whose start time is on an earlier calendar day
// than now. A timer must never tick across midnight.
type MidnightCheck struct{}

func (MidnightCheck) Name() string { return "midnight" }

func (MidnightCheck) Run(state *model.FullState, now time.Time) []Result {
	var results []Result
	for _, entry := range state.AllEntries() {
		if entry.StartTime == nil {
			continue
		}
		startY, startM, startD := entry.StartTime.UTC().Date()
		nowY, nowM, nowD := now.UTC().Date()
		started := time.Date(startY, startM, startD, 0, 0, 0, 0, time.UTC)
		today := time.Date(nowY, nowM, nowD, 0, 0, 0, 0, time.UTC)
		if started.Before(today) {
			results = append(results, Result{
				Kind:    KindPauseTimer,
				EntryID: entry.ID,
				Message: fmt.Sprintf("Paused entry %d: timer crossed midnight", entry.ID),
			})
		}
	}
	return results
}
