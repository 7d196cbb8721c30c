package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timecard/internal/model"
)

type editorMode int

const (
	editorNone editorMode = iota
	editorNote
	editorCode
	editorTime
	editorSwap
)

// editorModel owns the modal huh forms: note editing, charge-code picking,
// absolute time editing, and the swap-time flow. On completion it hands a
// result back to the app, which issues the actual network mutations.
type editorModel struct {
	mode    editorMode
	form    *huh.Form
	entryID int64
	title   string

	// Form field pointers (survive value copies)
	formNote    *string
	formCode    *int64
	formMinutes *string
	formTarget  *int64
}

type editorResult struct {
	mode         editorMode
	entryID      int64
	note         string
	codeID       int64
	millis       int64
	swapTargetID int64
	swapMillis   int64
}

func (e editorModel) active() bool {
	return e.mode != editorNone && e.form != nil
}

func (e *editorModel) startNote(entry *model.TimeEntry) tea.Cmd {
	note := entry.Note
	e.formNote = &note
	e.entryID = entry.ID
	e.mode = editorNote
	e.title = "Edit note"
	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Note").Value(e.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return e.form.Init()
}

func (e *editorModel) startChargeCode(entry *model.TimeEntry, codes []model.ChargeCode) tea.Cmd {
	var current int64
	if entry.ChargeCode != nil {
		current = entry.ChargeCode.ID
	}
	e.formCode = &current
	e.entryID = entry.ID
	e.mode = editorCode
	e.title = "Charge code"

	options := make([]huh.Option[int64], 0, len(codes)+1)
	options = append(options, huh.NewOption("(none)", int64(0)))
	for _, cc := range codes {
		label := fmt.Sprintf("%s (%s)", cc.Alias, cc.Code)
		if cc.IsNC {
			label += " [NC]"
		}
		options = append(options, huh.NewOption(label, cc.ID))
	}

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Charge code").Options(options...).Value(e.formCode),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return e.form.Init()
}

func (e *editorModel) startTime(entry *model.TimeEntry) tea.Cmd {
	minutes := strconv.FormatInt(entry.TotalTime/60000, 10)
	e.formMinutes = &minutes
	e.entryID = entry.ID
	e.mode = editorTime
	e.title = "Set time"
	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Total minutes").Value(e.formMinutes).Validate(validateMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return e.form.Init()
}

func (e *editorModel) startSwap(entry *model.TimeEntry, dayEntries []model.TimeEntry) tea.Cmd {
	var target int64
	minutes := "15"
	e.formTarget = &target
	e.formMinutes = &minutes
	e.entryID = entry.ID
	e.mode = editorSwap
	e.title = "Swap time"

	var options []huh.Option[int64]
	for _, other := range dayEntries {
		if other.ID == entry.ID {
			continue
		}
		label := fmt.Sprintf("#%d %s", other.ID, summarize(&other))
		options = append(options, huh.NewOption(label, other.ID))
	}
	if len(options) == 0 {
		e.mode = editorNone
		return nil
	}
	target = options[0].Value

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Move time to").Options(options...).Value(e.formTarget),
			huh.NewInput().Title("Minutes to move").Value(e.formMinutes).Validate(validateMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return e.form.Init()
}

func validateMinutes(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("enter a whole number of minutes")
	}
	if n < 0 {
		return fmt.Errorf("minutes cannot be negative")
	}
	return nil
}

func summarize(entry *model.TimeEntry) string {
	if entry.Note != "" {
		note := entry.Note
		if len(note) > 24 {
			note = note[:21] + "..."
		}
		return note
	}
	if entry.ChargeCode != nil {
		return entry.ChargeCode.Alias
	}
	return "(empty)"
}

func (e editorModel) update(msg tea.Msg) (editorModel, tea.Cmd, *editorResult) {
	// Escape cancels without touching anything.
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		e.mode = editorNone
		e.form = nil
		return e, nil, nil
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State != huh.StateCompleted {
		return e, cmd, nil
	}

	result := &editorResult{mode: e.mode, entryID: e.entryID}
	switch e.mode {
	case editorNote:
		result.note = *e.formNote
	case editorCode:
		result.codeID = *e.formCode
	case editorTime:
		minutes, _ := strconv.ParseInt(strings.TrimSpace(*e.formMinutes), 10, 64)
		result.millis = minutes * 60000
	case editorSwap:
		minutes, _ := strconv.ParseInt(strings.TrimSpace(*e.formMinutes), 10, 64)
		result.swapTargetID = *e.formTarget
		result.swapMillis = minutes * 60000
	}

	e.mode = editorNone
	e.form = nil
	return e, nil, result
}

func (e editorModel) view(width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(e.title),
		"",
		e.form.View(),
	)
	return panelStyle.Width(width - 4).Render(content)
}
