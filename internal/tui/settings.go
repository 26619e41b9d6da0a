package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/SzilvasiPeter/icemodoro/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	current store.Settings

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	focusMin       *string
	shortBreakMin  *string
	longBreakMin   *string
	longBreakAfter *string
	workTheme      *string
	breakTheme     *string
}

func newSettingsModel(s *store.Store, current store.Settings) settingsModel {
	fm, sb, lb, la := "", "", "", ""
	wt, bt := "", ""
	return settingsModel{
		store:          s,
		current:        current,
		focusMin:       &fm,
		shortBreakMin:  &sb,
		longBreakMin:   &lb,
		longBreakAfter: &la,
		workTheme:      &wt,
		breakTheme:     &bt,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.focusMin = strconv.Itoa(s.current.FocusMin)
	*s.shortBreakMin = strconv.Itoa(s.current.ShortBreakMin)
	*s.longBreakMin = strconv.Itoa(s.current.LongBreakMin)
	*s.longBreakAfter = strconv.Itoa(s.current.LongBreakAfter)
	*s.workTheme = s.current.WorkTheme
	*s.breakTheme = s.current.BreakTheme

	var themeOptions []huh.Option[string]
	for _, name := range themeNames {
		themeOptions = append(themeOptions, huh.NewOption(name, name))
	}

	validateMinutes := func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("enter a positive number of minutes")
		}
		return nil
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(s.focusMin).Validate(validateMinutes),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreakMin).Validate(validateMinutes),
			huh.NewInput().Title("Long break (min)").Value(s.longBreakMin).Validate(validateMinutes),
			huh.NewInput().Title("Focus sessions before long break").Value(s.longBreakAfter).Validate(validateMinutes),
		).Title("Durations"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Focus theme").Options(themeOptions...).Value(s.workTheme),
			huh.NewSelect[string]().Title("Break theme").Options(themeOptions...).Value(s.breakTheme),
		).Title("Themes"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s.save()
	}

	return s, cmd
}

func (s settingsModel) save() (settingsModel, tea.Cmd) {
	cfg := s.current
	if n, err := strconv.Atoi(*s.focusMin); err == nil && n > 0 {
		cfg.FocusMin = n
	}
	if n, err := strconv.Atoi(*s.shortBreakMin); err == nil && n > 0 {
		cfg.ShortBreakMin = n
	}
	if n, err := strconv.Atoi(*s.longBreakMin); err == nil && n > 0 {
		cfg.LongBreakMin = n
	}
	if n, err := strconv.Atoi(*s.longBreakAfter); err == nil && n > 0 {
		cfg.LongBreakAfter = n
	}
	cfg.WorkTheme = *s.workTheme
	cfg.BreakTheme = *s.breakTheme

	s.current = cfg
	return s, func() tea.Msg {
		if err := s.store.SaveSettings(cfg); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return settingsSavedMsg{settings: cfg}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Settings"), "", s.form.View(),
			),
		)
	}

	label := func(name string) string {
		return lipgloss.NewStyle().Width(32).Render(name)
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		"  " + label("Focus") + highlightStyle.Render(fmt.Sprintf("%d min", s.current.FocusMin)),
		"  " + label("Short break") + highlightStyle.Render(fmt.Sprintf("%d min", s.current.ShortBreakMin)),
		"  " + label("Long break") + highlightStyle.Render(fmt.Sprintf("%d min", s.current.LongBreakMin)),
		"  " + label("Sessions before long break") + highlightStyle.Render(strconv.Itoa(s.current.LongBreakAfter)),
		"  " + label("Focus theme") + lipgloss.NewStyle().Foreground(themeColor(s.current.WorkTheme)).Render(s.current.WorkTheme),
		"  " + label("Break theme") + lipgloss.NewStyle().Foreground(themeColor(s.current.BreakTheme)).Render(s.current.BreakTheme),
		"",
		s.shortcutsView(),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) shortcutsView() string {
	shortcut := func(k, desc string) string {
		return "  " + lipgloss.NewStyle().Width(14).Render(k) + mutedStyle.Render(desc)
	}
	rows := []string{
		titleStyle.Render("Shortcuts"),
		shortcut("space", "start/pause timer"),
		shortcut("r", "reset timer"),
		shortcut("f", "finish phase"),
		shortcut("n", "new task"),
		shortcut("a", "activate/deactivate"),
		shortcut("↑/↓", "navigate active task"),
		shortcut("s", "complete active task"),
		shortcut("e", "edit active task"),
		shortcut("d", "delete active task"),
		shortcut("x", "end day"),
		shortcut("tab", "next tab"),
		shortcut("shift+tab", "previous tab"),
	}
	return strings.Join(rows, "\n")
}
