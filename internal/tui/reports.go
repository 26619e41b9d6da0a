package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SzilvasiPeter/icemodoro/internal/export"
	"github.com/SzilvasiPeter/icemodoro/internal/report"
	"github.com/SzilvasiPeter/icemodoro/internal/store"
)

// chartDays is how many recent days the bar chart shows.
const chartDays = 7

type reportsModel struct {
	store   *store.Store
	reports *report.Aggregator
	width   int
	height  int

	chart barchart.Model

	// confirmClear arms the destructive history wipe; the next Clear press
	// executes it, any other key disarms.
	confirmClear bool

	// exportDir is the target directory for import/export files; the user's
	// home directory outside of tests.
	exportDir string
}

func newReportsModel(s *store.Store, r *report.Aggregator) reportsModel {
	home, _ := os.UserHomeDir()
	return reportsModel{
		store:     s,
		reports:   r,
		chart:     barchart.New(60, 10),
		exportDir: home,
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Clear) {
			return r.doClear()
		}
		r.confirmClear = false

		switch {
		case key.Matches(msg, keys.Export):
			return r, r.doExport(false)
		case key.Matches(msg, keys.CSV):
			return r, r.doExport(true)
		case key.Matches(msg, keys.Import):
			return r.doImport()
		}
	}
	return r, nil
}

// doClear wipes the full report history. Destructive, so the first press only
// arms the action and the second one executes it.
func (r reportsModel) doClear() (reportsModel, tea.Cmd) {
	if r.reports.Len() == 0 {
		return r, status("No report history to clear")
	}
	if !r.confirmClear {
		r.confirmClear = true
		return r, status("This wipes all report history. Press D again to confirm.")
	}
	r.confirmClear = false
	r.reports.Clear()
	r.buildChart()
	return r, func() tea.Msg {
		if err := r.store.SaveReports(nil); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return statusMsg{text: "Report history cleared"}
	}
}

func (r reportsModel) doExport(asCSV bool) tea.Cmd {
	history := r.reports.History()
	dir := r.exportDir
	return func() tea.Msg {
		dateStr := time.Now().Format("2006-01-02")
		var path string
		var err error
		if asCSV {
			path = filepath.Join(dir, fmt.Sprintf("icemodoro-reports-%s.csv", dateStr))
			err = export.ToCSV(history, path)
		} else {
			path = filepath.Join(dir, fmt.Sprintf("icemodoro-reports-%s.json", dateStr))
			err = export.ToJSON(history, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

// doImport merges an export file back into the history. Existing days are
// kept untouched; only unknown dates are added.
func (r reportsModel) doImport() (reportsModel, tea.Cmd) {
	path := filepath.Join(r.exportDir, "icemodoro-reports.json")
	imported, err := export.FromJSON(path)
	if err != nil {
		return r, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
	}

	added := r.reports.Merge(imported)
	r.buildChart()
	history := r.reports.History()
	return r, func() tea.Msg {
		if err := r.store.SaveReports(history); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return importDoneMsg{added: added}
	}
}

// refresh rebuilds the chart from the aggregator.
func (r reportsModel) refresh() (reportsModel, tea.Cmd) {
	r.buildChart()
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 30 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	history := r.reports.History()
	if len(history) > chartDays {
		history = history[len(history)-chartDays:]
	}

	var bars []barchart.BarData
	for _, day := range history {
		label := day.Date
		if d, err := time.Parse(report.DateLayout, day.Date); err == nil {
			label = d.Format("Mon 02")
		}
		hours := day.Focused.Hours()
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "focused", Value: hours, Style: highlightStyle},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	if r.reports.Len() == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Reports"),
				"",
				mutedStyle.Render("No reports generated yet."),
				mutedStyle.Render("Press x in the Pomodoro tab to end the day and save a report."),
				"",
				mutedStyle.Render("i: import"),
			),
		)
	}

	header := titleStyle.Render("Reports")
	summary := r.renderSummary()
	chartView := r.chart.View()
	table := r.renderHistoryTable(w)
	hints := mutedStyle.Render("e: export json  c: export csv  i: import  D: clear history")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", summary, "", chartView, "", table, "", hints,
		),
	)
}

func (r reportsModel) renderSummary() string {
	label := func(s string) string {
		return mutedStyle.Width(22).Render(s)
	}
	rows := []string{
		label("Current day streak:") + highlightStyle.Render(fmt.Sprintf("%d days", r.reports.CurrentStreak())),
		label("Longest day streak:") + highlightStyle.Render(fmt.Sprintf("%d days", r.reports.LongestStreak())),
		label("Focused today:") + highlightStyle.Render(formatDuration(r.reports.FocusedToday())),
		label("Longest focused day:") + highlightStyle.Render(formatDuration(r.reports.LongestFocused())),
	}
	return strings.Join(rows, "\n")
}

// renderHistoryTable lists day reports, most recent first.
func (r reportsModel) renderHistoryTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %12s %10s %8s", "Date", "Focused", "Sessions", "Streak")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))

	history := r.reports.History()
	limit := 10
	for i := len(history) - 1; i >= 0 && len(rows) < limit+2; i-- {
		day := history[i]
		streak := "-"
		if day.Closed {
			streak = fmt.Sprintf("%d", day.Streak)
		}
		rows = append(rows, fmt.Sprintf("  %-12s %12s %10d %8s",
			day.Date, formatDuration(day.Focused), day.Completed, streak,
		))
	}

	return strings.Join(rows, "\n")
}
