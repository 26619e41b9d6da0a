package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SzilvasiPeter/icemodoro/internal/report"
	"github.com/SzilvasiPeter/icemodoro/internal/session"
	"github.com/SzilvasiPeter/icemodoro/internal/store"
	"github.com/SzilvasiPeter/icemodoro/internal/tasks"
)

// App is the root Bubble Tea model. It owns the event loop that drives the
// session machine's Tick and fans key events out to the active tab.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView viewState
	showHelp   bool
	lastTick   time.Time

	pomodoro pomodoroModel
	reports  reportsModel
	settings settingsModel

	help    help.Model
	status  string
	statErr bool
}

// NewApp loads persisted state and assembles the tab models around the
// shared core components.
func NewApp(s *store.Store) (App, error) {
	cfg, err := s.LoadSettings()
	if err != nil {
		return App{}, fmt.Errorf("load settings: %w", err)
	}
	machine, err := session.New(cfg.SessionConfig())
	if err != nil {
		return App{}, fmt.Errorf("configure session: %w", err)
	}

	ts, err := s.LoadTasks()
	if err != nil {
		return App{}, fmt.Errorf("load tasks: %w", err)
	}
	list := tasks.Restore(ts)

	history, err := s.LoadReports()
	if err != nil {
		return App{}, fmt.Errorf("load reports: %w", err)
	}
	aggregator := report.Restore(history)

	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		activeView: viewPomodoro,
		pomodoro:   newPomodoroModel(s, machine, list, aggregator, cfg),
		reports:    newReportsModel(s, aggregator),
		settings:   newSettingsModel(s, cfg),
		help:       h,
	}, nil
}

func (a App) Init() tea.Cmd {
	return tickCmd()
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
		contentHeight := a.height - 4 // header + footer
		a.pomodoro.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// A form captures all input until closed.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewPomodoro
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewReports
			a.reports, _ = a.reports.refresh()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 3
			if a.activeView == viewReports {
				a.reports, _ = a.reports.refresh()
			}
			return a, nil
		case key.Matches(msg, keys.ShiftTab):
			a.activeView = (a.activeView + 2) % 3
			if a.activeView == viewReports {
				a.reports, _ = a.reports.refresh()
			}
			return a, nil
		}

	case tickMsg:
		now := time.Time(msg)
		var delta time.Duration
		if !a.lastTick.IsZero() {
			delta = now.Sub(a.lastTick)
		}
		a.lastTick = now

		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.tick(delta)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		a.statErr = msg.isError
		return a, nil

	case settingsSavedMsg:
		if err := a.pomodoro.applySettings(msg.settings); err != nil {
			a.status = fmt.Sprintf("Error: %v", err)
			a.statErr = true
			return a, nil
		}
		a.status = "Settings applied"
		a.statErr = false
		a.activeView = viewPomodoro
		return a, nil

	case dayEndedMsg:
		a.status = fmt.Sprintf("Day ended: %s focused, streak %d",
			formatDuration(msg.report.Focused), msg.report.Streak)
		a.statErr = false
		a.activeView = viewReports
		a.reports, _ = a.reports.refresh()
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statErr = false
		return a, nil

	case importDoneMsg:
		a.status = fmt.Sprintf("Imported %d new days", msg.added)
		a.statErr = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewPomodoro:
		return a.pomodoro.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
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

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("icemodoro")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Session indicator in footer
	timerInfo := ""
	switch a.pomodoro.machine.State() {
	case session.Running:
		timerInfo = successStyle.Render(" ● " + formatClock(a.pomodoro.machine.Remaining()))
	case session.Paused:
		timerInfo = warningStyle.Render(" ⏸ " + formatClock(a.pomodoro.machine.Remaining()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
