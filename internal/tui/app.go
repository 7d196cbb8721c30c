// Package tui is the terminal client: a week view over the tracked days, a
// standup rollup, and a report chart, all backed by the remote server. The
// one-second tick only re-renders the running entry's elapsed time; nothing
// touches the network except state-changing actions.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timecard/internal/api"
	"github.com/sadopc/timecard/internal/export"
	"github.com/sadopc/timecard/internal/history"
	"github.com/sadopc/timecard/internal/model"
)

// App is the root Bubble Tea model.
type App struct {
	client *api.Client
	state  *model.FullState
	hist   *history.History

	width  int
	height int
	now    time.Time

	activeView viewState
	showHelp   bool
	status     string
	errText    string

	week    weekModel
	standup standupModel
	report  reportModel
	editor  editorModel

	help help.Model

	// Stale-response guard: every mutation gets a sequence number at issue
	// time, keyed by the day bucket or entry it will refresh. A reply
	// carrying an older sequence than the latest issued for that scope is
	// dropped; a slower response must not clobber a newer edit.
	nextSeq       uint64
	latestByDay   map[model.Day]uint64
	latestByEntry map[int64]uint64
}

func NewApp(client *api.Client) App {
	h := help.New()
	h.ShowAll = false

	now := time.Now()
	return App{
		client:        client,
		state:         model.NewFullState(),
		hist:          &history.History{},
		now:           now,
		week:          newWeekModel(now),
		help:          h,
		latestByDay:   make(map[model.Day]uint64),
		latestByEntry: make(map[int64]uint64),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadFullState(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		if a.editor.active() {
			return a.updateEditor(msg)
		}
		return a.handleKey(msg)

	case tickMsg:
		a.now = time.Time(msg)
		return a, tickCmd()

	case fullStateMsg:
		a.state = msg.state
		a.errText = ""
		return a, nil

	case dayEntriesMsg:
		if msg.seq != 0 && msg.seq < a.latestByDay[msg.bucket.Day] {
			return a, nil // superseded by a newer mutation
		}
		a.state.SetDayEntries(*msg.bucket)
		a.errText = ""
		return a, nil

	case entryMsg:
		if msg.seq != 0 && msg.seq < a.latestByEntry[msg.entry.ID] {
			return a, nil
		}
		a.applyEntry(*msg.entry)
		a.errText = ""
		return a, nil

	case replayedMsg:
		a.state = msg.state
		a.errText = ""
		return a, nil

	case costpointMsg:
		csvPath := DefaultExportPath("csv")
		jsonPath := DefaultExportPath("json")
		rows := msg.rows
		return a, func() tea.Msg {
			if err := export.ToCSV(rows, csvPath); err != nil {
				return apiErrMsg{err}
			}
			if err := export.ToJSON(rows, jsonPath); err != nil {
				return apiErrMsg{err}
			}
			return exportDoneMsg{csvPath + " and " + jsonPath}
		}

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		return a, nil

	case apiErrMsg:
		a.errText = msg.err.Error()
		return a, nil
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil

	case key.Matches(msg, keys.Tab1):
		a.activeView = viewWeek
		return a, nil
	case key.Matches(msg, keys.Tab2):
		a.activeView = viewStandup
		return a, nil
	case key.Matches(msg, keys.Tab3):
		a.activeView = viewReport
		return a, nil
	case key.Matches(msg, keys.Tab):
		a.activeView = (a.activeView + 1) % 3
		return a, nil

	case key.Matches(msg, keys.PrevDay):
		a.week.prevDay()
		return a, nil
	case key.Matches(msg, keys.NextDay):
		a.week.nextDay()
		return a, nil
	case key.Matches(msg, keys.Up):
		a.week.moveCursor(-1, a.state)
		return a, nil
	case key.Matches(msg, keys.Down):
		a.week.moveCursor(1, a.state)
		return a, nil

	case key.Matches(msg, keys.New):
		a.hist.Record(a.state)
		return a, a.createEntry(a.week.day)

	case key.Matches(msg, keys.PlayPause):
		entry := a.week.selected(a.state)
		if entry == nil {
			return a, nil
		}
		a.hist.Record(a.state)
		if entry.IsActive {
			return a, a.pauseEntry(entry.ID, entry.Day)
		}
		return a, a.playEntry(entry.ID, entry.Day)

	case key.Matches(msg, keys.Delete):
		entry := a.week.selected(a.state)
		if entry == nil {
			return a, nil
		}
		a.hist.Record(a.state)
		return a, a.deleteEntry(entry.ID, entry.Day)

	case key.Matches(msg, keys.EditNote):
		entry := a.week.selected(a.state)
		if entry == nil {
			return a, nil
		}
		return a, a.editor.startNote(entry)

	case key.Matches(msg, keys.ChargeCode):
		entry := a.week.selected(a.state)
		if entry == nil {
			return a, nil
		}
		return a, a.editor.startChargeCode(entry, a.state.ChargeCodes)

	case key.Matches(msg, keys.EditTime):
		entry := a.week.selected(a.state)
		if entry == nil {
			return a, nil
		}
		return a, a.editor.startTime(entry)

	case key.Matches(msg, keys.SwapTime):
		entry := a.week.selected(a.state)
		if entry == nil {
			return a, nil
		}
		others := a.state.EntriesForDay(a.week.day)
		return a, a.editor.startSwap(entry, others)

	case key.Matches(msg, keys.Undo):
		return a.undo()
	case key.Matches(msg, keys.Redo):
		return a.redo()

	case key.Matches(msg, keys.Export):
		return a, a.fetchCostpoint()
	}

	return a, nil
}

func (a App) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	editor, cmd, result := a.editor.update(msg)
	a.editor = editor
	if result == nil {
		return a, cmd
	}

	a.hist.Record(a.state)
	switch result.mode {
	case editorNote:
		return a, a.updateNote(result.entryID, result.note)
	case editorCode:
		return a, a.updateChargeCode(result.entryID, result.codeID)
	case editorTime:
		return a, a.setTime(result.entryID, result.millis)
	case editorSwap:
		// Two independent clamped adjustments, source first. Deliberately
		// not one transaction; the server has no swap operation.
		return a, tea.Sequence(
			a.addTime(result.entryID, -result.swapMillis),
			a.addTime(result.swapTargetID, result.swapMillis),
		)
	}
	return a, cmd
}

func (a App) undo() (tea.Model, tea.Cmd) {
	target := a.hist.Undo(a.state)
	if target == nil {
		a.status = "Nothing to undo"
		return a, nil
	}
	return a, a.replay(model.ComputeDiff(a.state, target))
}

func (a App) redo() (tea.Model, tea.Cmd) {
	target := a.hist.Redo(a.state)
	if target == nil {
		a.status = "Nothing to redo"
		return a, nil
	}
	return a, a.replay(model.ComputeDiff(a.state, target))
}

// applyEntry merges a single refreshed entry into the snapshot in place,
// moving it between day buckets if its day changed.
func (a *App) applyEntry(entry model.TimeEntry) {
	state := a.state.Clone()
	for day, entries := range state.TimeEntries {
		kept := entries[:0]
		for _, e := range entries {
			if e.ID != entry.ID {
				kept = append(kept, e)
			}
		}
		state.TimeEntries[day] = kept
	}
	state.TimeEntries[entry.Day] = append(state.TimeEntries[entry.Day], entry)
	a.state = state
}

// --- Network commands ---

func (a *App) daySeq(day model.Day) uint64 {
	a.nextSeq++
	a.latestByDay[day] = a.nextSeq
	return a.nextSeq
}

func (a *App) entrySeq(id int64) uint64 {
	a.nextSeq++
	a.latestByEntry[id] = a.nextSeq
	return a.nextSeq
}

func (a *App) loadFullState() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		state, err := client.FullState(context.Background())
		if err != nil {
			return apiErrMsg{err}
		}
		return fullStateMsg{state}
	}
}

func (a *App) createEntry(day model.Day) tea.Cmd {
	client, seq := a.client, a.daySeq(day)
	return func() tea.Msg {
		bucket, err := client.CreateEntry(context.Background(), day)
		if err != nil {
			return apiErrMsg{err}
		}
		return dayEntriesMsg{bucket, seq}
	}
}

func (a *App) playEntry(id int64, day model.Day) tea.Cmd {
	client, seq := a.client, a.daySeq(day)
	play := func() tea.Msg {
		bucket, err := client.Play(context.Background(), id)
		if err != nil {
			return apiErrMsg{err}
		}
		return dayEntriesMsg{bucket, seq}
	}
	// Playing may have paused an entry on a different day; re-fetch the
	// full state so every bucket is consistent again.
	return tea.Sequence(play, a.loadFullState())
}

func (a *App) pauseEntry(id int64, day model.Day) tea.Cmd {
	client, seq := a.client, a.daySeq(day)
	return func() tea.Msg {
		bucket, err := client.Pause(context.Background(), id)
		if err != nil {
			return apiErrMsg{err}
		}
		return dayEntriesMsg{bucket, seq}
	}
}

func (a *App) deleteEntry(id int64, day model.Day) tea.Cmd {
	client, seq := a.client, a.daySeq(day)
	return func() tea.Msg {
		bucket, err := client.DeleteEntry(context.Background(), id)
		if err != nil {
			return apiErrMsg{err}
		}
		return dayEntriesMsg{bucket, seq}
	}
}

func (a *App) updateNote(id int64, note string) tea.Cmd {
	client, seq := a.client, a.entrySeq(id)
	return func() tea.Msg {
		entry, err := client.UpdateNote(context.Background(), id, note)
		if err != nil {
			return apiErrMsg{err}
		}
		return entryMsg{entry, seq}
	}
}

func (a *App) updateChargeCode(id, codeID int64) tea.Cmd {
	client, seq := a.client, a.entrySeq(id)
	return func() tea.Msg {
		entry, err := client.UpdateChargeCode(context.Background(), id, codeID)
		if err != nil {
			return apiErrMsg{err}
		}
		return entryMsg{entry, seq}
	}
}

func (a *App) setTime(id, millis int64) tea.Cmd {
	client, seq := a.client, a.entrySeq(id)
	return func() tea.Msg {
		entry, err := client.SetTime(context.Background(), id, millis)
		if err != nil {
			return apiErrMsg{err}
		}
		return entryMsg{entry, seq}
	}
}

func (a *App) addTime(id, deltaMillis int64) tea.Cmd {
	client, seq := a.client, a.entrySeq(id)
	return func() tea.Msg {
		entry, err := client.AddTime(context.Background(), id, deltaMillis)
		if err != nil {
			return apiErrMsg{err}
		}
		return entryMsg{entry, seq}
	}
}

func (a *App) replay(diff model.Diff) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		state, err := client.Replay(context.Background(), diff)
		if err != nil {
			return apiErrMsg{err}
		}
		return replayedMsg{state}
	}
}

func (a *App) fetchCostpoint() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		rows, err := client.Costpoint(context.Background())
		if err != nil {
			return apiErrMsg{err}
		}
		return costpointMsg{rows}
	}
}

// --- View ---

func (a App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	header := a.renderHeader()
	var body string
	if a.editor.active() {
		body = a.editor.view(a.width)
	} else {
		switch a.activeView {
		case viewWeek:
			body = a.week.view(a.state, a.now, a.width)
		case viewStandup:
			body = a.standup.view(a.state, a.week.day, a.now, a.width)
		case viewReport:
			body = a.report.view(a.state, a.now, a.width, a.height)
		}
	}
	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	title := titleStyle.Render("timecard")
	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)))
}

func (a App) renderFooter() string {
	line := a.help.View(keys)
	if a.errText != "" {
		line = errorStyle.Render("error: "+a.errText) + "  " + line
	} else if a.status != "" {
		line = statusBar(a.status) + "  " + line
	}
	return footerStyle.Render(line)
}

func statusBar(text string) string {
	return mutedStyle.Render(text)
}

// DefaultExportPath returns where costpoint exports land.
func DefaultExportPath(ext string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	name := fmt.Sprintf("costpoint-%s.%s", time.Now().Format("2006-01-02"), ext)
	return filepath.Join(home, name)
}
