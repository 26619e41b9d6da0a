package tui

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/SzilvasiPeter/icemodoro/internal/report"
	"github.com/SzilvasiPeter/icemodoro/internal/session"
	"github.com/SzilvasiPeter/icemodoro/internal/store"
	"github.com/SzilvasiPeter/icemodoro/internal/tasks"
)

// Shown when a focus phase completes and a break begins.
var breakMessages = []string{
	"Stand up, stretch, and grab some water.",
	"Look away from the screen for a bit.",
	"Roll your shoulders, shake out your hands.",
	"Step away, breathe, come back fresh.",
	"Break earned. Move around a little.",
}

// Shown when a break ends and focus resumes.
var focusMessages = []string{
	"Break is over, back to it.",
	"Refreshed? Pick up where you left off.",
	"Time to focus again.",
	"Settle in, next session starts now.",
	"Rested and ready. Let's go.",
}

type pomodoroModel struct {
	store   *store.Store
	machine *session.Machine
	list    *tasks.List
	reports *report.Aggregator

	width  int
	height int

	workTheme  string
	breakTheme string

	formActive bool
	form       *huh.Form
	title      *string
	editingID  int64 // 0 while adding a new task
}

func newPomodoroModel(s *store.Store, m *session.Machine, l *tasks.List, r *report.Aggregator, cfg store.Settings) pomodoroModel {
	return pomodoroModel{
		store:      s,
		machine:    m,
		list:       l,
		reports:    r,
		workTheme:  cfg.WorkTheme,
		breakTheme: cfg.BreakTheme,
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

// applySettings reconfigures the machine and themes after the settings form
// is submitted. An Idle machine restarts its phase under the new durations.
func (p *pomodoroModel) applySettings(cfg store.Settings) error {
	p.workTheme = cfg.WorkTheme
	p.breakTheme = cfg.BreakTheme
	return p.machine.Configure(cfg.SessionConfig())
}

// tick advances the session machine by the elapsed delta from the event loop.
func (p pomodoroModel) tick(delta time.Duration) (pomodoroModel, tea.Cmd) {
	comp, err := p.machine.Tick(delta)
	if err != nil {
		return p, errStatus(err)
	}
	if comp == nil {
		return p, nil
	}
	return p.applyCompletion(comp)
}

// applyCompletion forwards a finished focus phase to the report aggregator,
// credits the worked time to the active task, and autosaves.
func (p pomodoroModel) applyCompletion(comp *session.Completion) (pomodoroModel, tea.Cmd) {
	var cmds []tea.Cmd

	if comp.Phase == session.Focus {
		p.list.CreditActive(comp.Worked)
		if err := p.reports.RecordFocus(comp.Focused); err != nil {
			cmds = append(cmds, errStatus(err))
		} else {
			note := breakMessages[rand.Intn(len(breakMessages))]
			cmds = append(cmds, status(note+" \a"))
		}
	} else {
		note := focusMessages[rand.Intn(len(focusMessages))]
		cmds = append(cmds, status(note+" \a"))
	}

	cmds = append(cmds, p.persist())
	return p, tea.Batch(cmds...)
}

// persist mirrors the in-memory state to the store. In-memory state stays
// authoritative; a failed save only surfaces as a status line.
func (p pomodoroModel) persist() tea.Cmd {
	ts := p.list.Tasks()
	history := p.reports.History()
	return func() tea.Msg {
		if err := p.store.SaveTasks(ts); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		if err := p.store.SaveReports(history); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return nil
	}
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle):
			p.machine.Toggle()
			return p, nil

		case key.Matches(msg, keys.Reset):
			p.machine.Reset()
			return p, nil

		case key.Matches(msg, keys.Finish):
			comp, err := p.machine.Finish()
			if err != nil {
				return p, errStatus(err)
			}
			return p.applyCompletion(comp)

		case key.Matches(msg, keys.New):
			return p.showForm(0, "")

		case key.Matches(msg, keys.Activate):
			return p.toggleActive()

		case key.Matches(msg, keys.Up):
			p.list.Navigate(tasks.Up)
			return p, p.persist()

		case key.Matches(msg, keys.Down):
			p.list.Navigate(tasks.Down)
			return p, p.persist()

		case key.Matches(msg, keys.Complete):
			t, ok := p.list.Active()
			if !ok {
				return p, status("No active task")
			}
			if err := p.list.Complete(t.ID); err != nil {
				return p, errStatus(err)
			}
			return p, p.persist()

		case key.Matches(msg, keys.Edit):
			t, ok := p.list.Active()
			if !ok {
				return p, status("No active task to edit")
			}
			return p.showForm(t.ID, t.Title)

		case key.Matches(msg, keys.Delete):
			t, ok := p.list.Active()
			if !ok {
				return p, status("No active task to delete")
			}
			if err := p.list.Delete(t.ID); err != nil {
				return p, errStatus(err)
			}
			return p, p.persist()

		case key.Matches(msg, keys.EndDay):
			return p.endDay()
		}
	}
	return p, nil
}

// toggleActive deactivates the active task, or activates the first
// incomplete task when none is active.
func (p pomodoroModel) toggleActive() (pomodoroModel, tea.Cmd) {
	if _, ok := p.list.Active(); ok {
		p.list.Deactivate()
		return p, p.persist()
	}
	for _, t := range p.list.Tasks() {
		if t.Status != tasks.Completed {
			if err := p.list.Activate(t.ID); err != nil {
				return p, errStatus(err)
			}
			return p, p.persist()
		}
	}
	return p, status("No open tasks")
}

func (p pomodoroModel) endDay() (pomodoroModel, tea.Cmd) {
	r, err := p.reports.EndDay()
	if err != nil {
		if errors.Is(err, report.ErrNoActivity) {
			return p, status("Nothing to report today")
		}
		return p, errStatus(err)
	}
	p.list.EndDay()
	return p, tea.Batch(
		p.persist(),
		func() tea.Msg { return dayEndedMsg{report: r} },
	)
}

func (p pomodoroModel) showForm(id int64, current string) (pomodoroModel, tea.Cmd) {
	v := current
	p.title = &v
	p.editingID = id

	label := "What are you working on?"
	if id != 0 {
		label = "Edit task"
	}
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(label).Value(p.title),
		),
	).WithShowHelp(false).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p pomodoroModel) updateForm(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		return p.submitForm()
	}

	return p, cmd
}

func (p pomodoroModel) submitForm() (pomodoroModel, tea.Cmd) {
	var err error
	if p.editingID == 0 {
		_, err = p.list.Add(*p.title)
	} else {
		err = p.list.Edit(p.editingID, *p.title)
	}

	switch {
	case errors.Is(err, tasks.ErrCapacityExceeded):
		return p, status(fmt.Sprintf("Let's finish current tasks first! (limit %d)", tasks.Capacity))
	case errors.Is(err, tasks.ErrEmptyTitle):
		return p, nil
	case err != nil:
		return p, errStatus(err)
	}
	return p, p.persist()
}

// accent picks the work or break theme color for the current phase.
func (p pomodoroModel) accent() lipgloss.Color {
	if p.machine.Phase() == session.Focus {
		return themeColor(p.workTheme)
	}
	return themeColor(p.breakTheme)
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Tasks"), "", p.form.View(),
			),
		)
	}

	accentStyle := lipgloss.NewStyle().Foreground(p.accent())

	phaseLabel := accentStyle.Bold(true).Render(strings.ToUpper(p.machine.Phase().String()))
	timeDisplay := accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).
		Render(formatClock(p.machine.Remaining()))

	var stateHint string
	switch p.machine.State() {
	case session.Running:
		stateHint = accentStyle.Render("● running")
	case session.Paused:
		stateHint = warningStyle.Render("⏸ paused")
	default:
		stateHint = mutedStyle.Render("press space to start")
	}

	timerPanel := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		phaseLabel,
		stateHint,
		"",
		p.renderProgress(),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, timerPanel, "", p.renderTasks(w)),
	)
}

// renderProgress shows the focus sessions completed toward the next long break.
func (p pomodoroModel) renderProgress() string {
	cfg := p.machine.Config()
	var parts []string
	for i := 0; i < cfg.LongBreakAfter; i++ {
		if i < p.machine.FocusCount() {
			parts = append(parts, successStyle.Render("●"))
		} else if i == p.machine.FocusCount() && p.machine.Phase() == session.Focus && p.machine.State() == session.Running {
			parts = append(parts, highlightStyle.Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", p.machine.FocusCount(), cfg.LongBreakAfter))
	return strings.Join(parts, " ") + counter
}

func (p pomodoroModel) renderTasks(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Tasks (%d/%d)", p.list.Len(), tasks.Capacity)))

	ts := p.list.Tasks()
	if len(ts) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks yet. Press n to add one."))
	}
	for _, t := range ts {
		marker := "⊙"
		style := normalItemStyle
		switch t.Status {
		case tasks.Active:
			marker = "▸"
			style = selectedItemStyle
		case tasks.Completed:
			marker = "⊗"
			style = mutedStyle
		}
		spent := ""
		if t.Spent > 0 {
			spent = mutedStyle.Render("  " + formatDuration(t.Spent))
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s %s", marker, t.Title))+spent)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("n: new  a: activate  ↑/↓: navigate  s: done  e: edit  d: delete  x: end day"))

	return lipgloss.NewStyle().Width(w - 6).Render(strings.Join(rows, "\n"))
}

// --- status helpers ---

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}
