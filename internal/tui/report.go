package tui

import (
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timecard/internal/model"
	"github.com/sadopc/timecard/internal/rollup"
)

// reportModel draws the week at a glance: one bar per day of quarter-hour
// rounded hours.
type reportModel struct{}

func (reportModel) view(state *model.FullState, now time.Time, width, height int) string {
	chartWidth := width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if height > 30 {
		chartHeight = 16
	}

	chart := barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, day := range model.Days {
		minutes := rollup.SumRoundedMinutes(state.EntriesForDay(day), now)
		hours := float64(minutes) / 60.0
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if minutes == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: day.String()[:3],
			Values: []barchart.BarValue{
				{Name: day.String(), Value: hours, Style: style},
			},
		})
	}

	chart.PushAll(bars)
	chart.Draw()

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Hours per day (rounded to quarter hours)"),
		"",
		chart.View(),
	)
	return panelStyle.Width(width - 4).Render(content)
}
