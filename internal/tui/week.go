package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timecard/internal/model"
)

// weekModel is the main view: one tab per tracked day, with the selected
// day's entries listed beneath.
type weekModel struct {
	day     model.Day
	weekend bool
	cursor  int
}

func newWeekModel(now time.Time) weekModel {
	day, ok := model.CurrentDay(now)
	if !ok {
		// Weekends are out of domain; show Monday but say so.
		return weekModel{day: model.Monday, weekend: true}
	}
	return weekModel{day: day}
}

func (w *weekModel) prevDay() {
	if w.day > model.Monday {
		w.day--
		w.cursor = 0
	}
}

func (w *weekModel) nextDay() {
	if w.day < model.Friday {
		w.day++
		w.cursor = 0
	}
}

func (w *weekModel) moveCursor(delta int, state *model.FullState) {
	entries := state.EntriesForDay(w.day)
	w.cursor += delta
	if w.cursor < 0 {
		w.cursor = 0
	}
	if w.cursor >= len(entries) {
		w.cursor = len(entries) - 1
		if w.cursor < 0 {
			w.cursor = 0
		}
	}
}

// selected returns the entry under the cursor, nil when the day is empty.
func (w *weekModel) selected(state *model.FullState) *model.TimeEntry {
	entries := state.EntriesForDay(w.day)
	if w.cursor < 0 || w.cursor >= len(entries) {
		return nil
	}
	entry := entries[w.cursor]
	return &entry
}

func (w weekModel) view(state *model.FullState, now time.Time, width int) string {
	var tabs []string
	for _, day := range model.Days {
		label := day.String()[:3]
		if day == w.day {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	var rows []string
	rows = append(rows, tabRow)
	if w.weekend {
		rows = append(rows, warningStyle.Render("It's the weekend — no current day to track."))
	}
	rows = append(rows, "")

	entries := state.EntriesForDay(w.day)
	if len(entries) == 0 {
		rows = append(rows, mutedStyle.Render("No entries. Press n to create one."))
	} else {
		var dayTotal int64
		for i, entry := range entries {
			rows = append(rows, w.renderEntry(i, &entry, now))
			dayTotal += entry.RealTotalTime(now)
		}
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("Day total: %s (%s)",
			formatMillis(dayTotal), formatHours(dayTotal))))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return panelStyle.Width(width - 4).Render(content)
}

func (w weekModel) renderEntry(index int, entry *model.TimeEntry, now time.Time) string {
	cursor := "  "
	style := normalItemStyle
	if index == w.cursor {
		cursor = "> "
		style = selectedItemStyle
	}

	clock := formatMillis(entry.RealTotalTime(now))
	indicator := "  "
	if entry.IsActive {
		indicator = runningStyle.Render("▶ ")
		clock = runningStyle.Render(clock)
	}

	code := mutedStyle.Render("—")
	if entry.ChargeCode != nil {
		code = highlightStyle.Render(entry.ChargeCode.Alias)
	}

	note := entry.Note
	if len(note) > 48 {
		note = note[:45] + "..."
	}

	return style.Render(fmt.Sprintf("%s%s%s  %-16s %s", cursor, indicator, clock, code, note))
}
