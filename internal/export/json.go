package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/SzilvasiPeter/icemodoro/internal/report"
)

// formatVersion is bumped whenever the envelope layout changes.
const formatVersion = 1

var (
	ErrParse         = errors.New("export: malformed report payload")
	ErrDuplicateDate = errors.New("export: duplicate date")
)

type envelope struct {
	Version    int       `json:"version"`
	ExportedAt string    `json:"exported_at,omitempty"`
	Days       []dayJSON `json:"days"`
}

type dayJSON struct {
	Date           string `json:"date"`
	FocusedSeconds int64  `json:"focused_seconds"`
	Completed      int    `json:"completed"`
	Streak         int    `json:"streak"`
	Closed         bool   `json:"closed,omitempty"`
}

// Marshal serializes a report history into the versioned JSON envelope,
// preserving order.
func Marshal(history []report.DayReport) ([]byte, error) {
	env := envelope{
		Version:    formatVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, r := range history {
		env.Days = append(env.Days, dayJSON{
			Date:           r.Date,
			FocusedSeconds: int64(r.Focused / time.Second),
			Completed:      r.Completed,
			Streak:         r.Streak,
			Closed:         r.Closed,
		})
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report history: %w", err)
	}
	return data, nil
}

// Unmarshal parses an exported payload back into a report history, sorted by
// date. Malformed input, unknown versions, and bad dates fail with ErrParse;
// two entries sharing a date fail with ErrDuplicateDate.
func Unmarshal(data []byte) ([]report.DayReport, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if env.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrParse, env.Version)
	}

	seen := make(map[string]bool, len(env.Days))
	var history []report.DayReport
	for _, d := range env.Days {
		if _, err := time.Parse(report.DateLayout, d.Date); err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrParse, d.Date)
		}
		if d.FocusedSeconds < 0 || d.Completed < 0 {
			return nil, fmt.Errorf("%w: negative counters for %s", ErrParse, d.Date)
		}
		if seen[d.Date] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, d.Date)
		}
		seen[d.Date] = true
		history = append(history, report.DayReport{
			Date:      d.Date,
			Focused:   time.Duration(d.FocusedSeconds) * time.Second,
			Completed: d.Completed,
			Streak:    d.Streak,
			Closed:    d.Closed,
		})
	}

	// Restore the strictly-increasing date invariant.
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	return history, nil
}

// ToJSON writes the history to path as a versioned JSON export.
func ToJSON(history []report.DayReport, path string) error {
	data, err := Marshal(history)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads and parses an export file.
func FromJSON(path string) ([]report.DayReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}
	return Unmarshal(data)
}
