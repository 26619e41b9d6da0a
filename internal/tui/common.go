package tui

import (
	"fmt"
	"time"

	"github.com/SzilvasiPeter/icemodoro/internal/report"
	"github.com/SzilvasiPeter/icemodoro/internal/store"
)

// viewState represents the currently active tab.
type viewState int

const (
	viewPomodoro viewState = iota
	viewReports
	viewSettings
)

var viewNames = []string{"Pomodoro", "Reports", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type settingsSavedMsg struct {
	settings store.Settings
}

type dayEndedMsg struct {
	report report.DayReport
}

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	added int
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatClock renders a countdown as MM:SS.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
