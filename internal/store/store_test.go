package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/SzilvasiPeter/icemodoro/internal/report"
	"github.com/SzilvasiPeter/icemodoro/internal/tasks"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/icemodoro.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestSaveLoadTasks(t *testing.T) {
	s := newTestStore(t)

	ts := []tasks.Task{
		{ID: 1, Title: "Write report", Status: tasks.Active, Spent: 25 * time.Minute},
		{ID: 2, Title: "Review PR", Status: tasks.Inactive},
		{ID: 3, Title: "Old chore", Status: tasks.Completed, Spent: 50 * time.Minute},
	}
	if err := s.SaveTasks(ts); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, ts) {
		t.Fatalf("task round trip mismatch:\n got %+v\nwant %+v", got, ts)
	}
}

func TestSaveTasksReplacesSnapshot(t *testing.T) {
	s := newTestStore(t)
	s.SaveTasks([]tasks.Task{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}})
	s.SaveTasks([]tasks.Task{{ID: 3, Title: "C"}})

	got, _ := s.LoadTasks()
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("save should replace the previous snapshot, got %+v", got)
	}
}

func TestSaveTasksPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	// Position order, not ID order.
	ts := []tasks.Task{
		{ID: 5, Title: "Last created, first shown"},
		{ID: 1, Title: "First created"},
	}
	s.SaveTasks(ts)
	got, _ := s.LoadTasks()
	if got[0].ID != 5 || got[1].ID != 1 {
		t.Fatal("load should return tasks in saved display order")
	}
}

func TestLoadTasksEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil slice, got %d items", len(got))
	}
}

// ============================================================
// Reports
// ============================================================

func TestSaveLoadReports(t *testing.T) {
	s := newTestStore(t)

	history := []report.DayReport{
		{Date: "2026-03-01", Focused: 100 * time.Minute, Completed: 4, Streak: 1, Closed: true},
		{Date: "2026-03-02", Focused: 25 * time.Minute, Completed: 1},
	}
	if err := s.SaveReports(history); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadReports()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, history) {
		t.Fatalf("report round trip mismatch:\n got %+v\nwant %+v", got, history)
	}
}

func TestLoadReportsSortedByDate(t *testing.T) {
	s := newTestStore(t)
	s.SaveReports([]report.DayReport{
		{Date: "2026-03-03", Completed: 1},
		{Date: "2026-03-01", Completed: 1},
	})
	got, _ := s.LoadReports()
	if got[0].Date != "2026-03-01" || got[1].Date != "2026-03-03" {
		t.Fatal("reports should load in date order")
	}
}

func TestSaveReportsReplacesSnapshot(t *testing.T) {
	s := newTestStore(t)
	s.SaveReports([]report.DayReport{{Date: "2026-03-01", Completed: 1}})
	s.SaveReports([]report.DayReport{{Date: "2026-03-02", Completed: 2}})

	got, _ := s.LoadReports()
	if len(got) != 1 || got[0].Date != "2026-03-02" {
		t.Fatal("save should replace the previous history")
	}
}

func TestLoadReportsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.LoadReports()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected nil slice for empty history")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"focus_min":        "25",
		"short_break_min":  "5",
		"long_break_min":   "60",
		"long_break_after": "4",
		"work_theme":       "tokyonight",
		"break_theme":      "solarized-light",
	}
	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("focus_min", "30")
	s.SetSetting("focus_min", "45")
	val, _ := s.GetSetting("focus_min")
	if val != "45" {
		t.Fatalf("expected 45, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("nonexistent"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 6 {
		t.Fatalf("expected at least 6 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	s := newTestStore(t)
	cfg, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	want := Settings{
		FocusMin:       25,
		ShortBreakMin:  5,
		LongBreakMin:   60,
		LongBreakAfter: 4,
		WorkTheme:      "tokyonight",
		BreakTheme:     "solarized-light",
	}
	if cfg != want {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveLoadSettings(t *testing.T) {
	s := newTestStore(t)
	want := Settings{
		FocusMin:       50,
		ShortBreakMin:  10,
		LongBreakMin:   30,
		LongBreakAfter: 2,
		WorkTheme:      "gruvbox-dark",
		BreakTheme:     "catppuccin",
	}
	if err := s.SaveSettings(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("settings round trip mismatch: %+v", got)
	}
}

func TestLoadSettingsIgnoresGarbage(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("focus_min", "not a number")
	s.SetSetting("long_break_after", "-3")

	cfg, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FocusMin != 25 || cfg.LongBreakAfter != 4 {
		t.Fatalf("unparsable values should fall back to defaults: %+v", cfg)
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := Settings{FocusMin: 50, ShortBreakMin: 10, LongBreakMin: 30, LongBreakAfter: 2}
	sc := cfg.SessionConfig()
	if sc.Focus != 50*time.Minute {
		t.Fatalf("expected 50m focus, got %v", sc.Focus)
	}
	if sc.ShortBreak != 10*time.Minute {
		t.Fatalf("expected 10m short break, got %v", sc.ShortBreak)
	}
	if sc.LongBreak != 30*time.Minute {
		t.Fatalf("expected 30m long break, got %v", sc.LongBreak)
	}
	if sc.LongBreakAfter != 2 {
		t.Fatalf("expected 2, got %d", sc.LongBreakAfter)
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
