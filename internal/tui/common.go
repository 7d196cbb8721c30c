package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/timecard/internal/model"
	"github.com/sadopc/timecard/internal/rollup"
)

// viewState represents the currently active view.
type viewState int

const (
	viewWeek viewState = iota
	viewStandup
	viewReport
)

var viewNames = []string{"Week", "Standup", "Report"}

// --- Messages ---

// fullStateMsg replaces the whole snapshot (initial load and refreshes).
type fullStateMsg struct {
	state *model.FullState
}

// dayEntriesMsg carries a mutation reply that refreshes one day's bucket.
// seq is the mutation sequence assigned when the request was issued; stale
// replies are discarded instead of clobbering newer state.
type dayEntriesMsg struct {
	bucket *model.DayEntries
	seq    uint64
}

// entryMsg carries a mutation reply that refreshes a single entry.
type entryMsg struct {
	entry *model.TimeEntry
	seq   uint64
}

// replayedMsg carries the authoritative state after an undo/redo replay.
type replayedMsg struct {
	state *model.FullState
}

type costpointMsg struct {
	rows []rollup.CostpointEntry
}

type exportDoneMsg struct {
	path string
}

type apiErrMsg struct {
	err error
}

type tickMsg time.Time

// --- Helpers ---

func formatMillis(millis int64) string {
	d := time.Duration(millis) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatHours(millis int64) string {
	return fmt.Sprintf("%.1fh", float64(millis)/3600000.0)
}
