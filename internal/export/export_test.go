package export

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/SzilvasiPeter/icemodoro/internal/report"
)

func sampleHistory() []report.DayReport {
	return []report.DayReport{
		{Date: "2026-03-01", Focused: 100 * time.Minute, Completed: 4, Streak: 1, Closed: true},
		{Date: "2026-03-02", Focused: 50 * time.Minute, Completed: 2, Streak: 2, Closed: true},
		{Date: "2026-03-03", Focused: 25 * time.Minute, Completed: 1},
	}
}

// ============================================================
// JSON round-trip
// ============================================================

func TestRoundTrip(t *testing.T) {
	history := sampleHistory()

	data, err := Marshal(history)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, history) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, history)
	}
}

func TestRoundTripEmpty(t *testing.T) {
	data, err := Marshal(nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(got))
	}
}

func TestMarshalContainsVersion(t *testing.T) {
	data, err := Marshal(sampleHistory())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version": 1`) {
		t.Fatal("payload should carry the format version")
	}
	if !strings.Contains(string(data), `"exported_at"`) {
		t.Fatal("payload should carry an export timestamp")
	}
}

// ============================================================
// Unmarshal validation
// ============================================================

func TestUnmarshalMalformed(t *testing.T) {
	for _, payload := range []string{"", "not json", "{", `[1,2,3]`} {
		if _, err := Unmarshal([]byte(payload)); !errors.Is(err, ErrParse) {
			t.Fatalf("Unmarshal(%q): expected ErrParse, got %v", payload, err)
		}
	}
}

func TestUnmarshalUnknownVersion(t *testing.T) {
	payload := `{"version": 99, "days": []}`
	if _, err := Unmarshal([]byte(payload)); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse for unknown version, got %v", err)
	}
}

func TestUnmarshalBadDate(t *testing.T) {
	payload := `{"version": 1, "days": [{"date": "03/01/2026", "focused_seconds": 60, "completed": 1}]}`
	if _, err := Unmarshal([]byte(payload)); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse for bad date, got %v", err)
	}
}

func TestUnmarshalNegativeCounters(t *testing.T) {
	payloads := []string{
		`{"version": 1, "days": [{"date": "2026-03-01", "focused_seconds": -1, "completed": 1}]}`,
		`{"version": 1, "days": [{"date": "2026-03-01", "focused_seconds": 60, "completed": -1}]}`,
	}
	for _, payload := range payloads {
		if _, err := Unmarshal([]byte(payload)); !errors.Is(err, ErrParse) {
			t.Fatalf("expected ErrParse for negative counters, got %v", err)
		}
	}
}

func TestUnmarshalDuplicateDate(t *testing.T) {
	payload := `{"version": 1, "days": [
		{"date": "2026-03-01", "focused_seconds": 60, "completed": 1},
		{"date": "2026-03-01", "focused_seconds": 120, "completed": 2}
	]}`
	if _, err := Unmarshal([]byte(payload)); !errors.Is(err, ErrDuplicateDate) {
		t.Fatalf("expected ErrDuplicateDate, got %v", err)
	}
}

func TestUnmarshalSortsByDate(t *testing.T) {
	payload := `{"version": 1, "days": [
		{"date": "2026-03-03", "focused_seconds": 60, "completed": 1},
		{"date": "2026-03-01", "focused_seconds": 60, "completed": 1}
	]}`
	got, err := Unmarshal([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Date != "2026-03-01" || got[1].Date != "2026-03-03" {
		t.Fatal("unmarshal should sort entries by date")
	}
}

// ============================================================
// File helpers
// ============================================================

func TestToJSONFromJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.json")
	history := sampleHistory()

	if err := ToJSON(history, path); err != nil {
		t.Fatal(err)
	}
	got, err := FromJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, history) {
		t.Fatal("file round trip mismatch")
	}
}

func TestFromJSONMissingFile(t *testing.T) {
	if _, err := FromJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestToCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.csv")

	if err := ToCSV(sampleHistory(), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Focused (s),Focused,Sessions,Streak" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "2026-03-01,6000,01:40:00,4,1" {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatal("empty history should still write the header")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{6000, "01:40:00"},
		{86400, "24:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
