package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/SzilvasiPeter/icemodoro/internal/report"
)

// ToCSV writes the history to path as a human-readable spreadsheet. CSV is a
// one-way export; JSON is the round-trip format.
func ToCSV(history []report.DayReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Focused (s)", "Focused", "Sessions", "Streak"}); err != nil {
		return err
	}

	for _, r := range history {
		row := []string{
			r.Date,
			fmt.Sprintf("%d", int64(r.Focused/time.Second)),
			formatDuration(int64(r.Focused / time.Second)),
			fmt.Sprintf("%d", r.Completed),
			fmt.Sprintf("%d", r.Streak),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
