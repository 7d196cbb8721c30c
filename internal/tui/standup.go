package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timecard/internal/model"
	"github.com/sadopc/timecard/internal/rollup"
)

// standupModel renders the selected day grouped by charge code: rounded
// hours per code with the notes underneath, ready to read out loud.
type standupModel struct{}

func (standupModel) view(state *model.FullState, day model.Day, now time.Time, width int) string {
	entries := state.EntriesForDay(day)
	title := titleStyle.Render("Standup — " + day.String())

	if len(entries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left, title, "",
			mutedStyle.Render("Nothing tracked for "+day.String()+"."))
		return panelStyle.Width(width - 4).Render(content)
	}

	groups := rollup.Standup(entries, state.ChargeCodes, now)

	rows := []string{title, ""}
	for _, group := range groups {
		header := mutedStyle.Render("(untagged)")
		if group.ChargeCode != nil {
			header = highlightStyle.Render(fmt.Sprintf("%s (%s)",
				group.ChargeCode.Alias, group.ChargeCode.Code))
		}
		hours := fmt.Sprintf("%.2f hrs", float64(group.RoundedMinutes)/60.0)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom,
			header, "  ", titleStyle.Render(hours)))
		if group.Notes != "" {
			rows = append(rows, normalItemStyle.Render(group.Notes))
		}
		rows = append(rows, "")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return panelStyle.Width(width - 4).Render(content)
}
