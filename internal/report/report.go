package report

import (
	"errors"
	"sort"
	"time"
)

// DateLayout is the calendar-day key format used throughout the history.
const DateLayout = "2006-01-02"

var (
	ErrNoActivity = errors.New("report: no activity to report")
	ErrDayClosed  = errors.New("report: day already finalized")
)

// DayReport is the productivity record for a single calendar day. Streak is
// computed when the day is finalized; Closed days reject further automatic
// mutation.
type DayReport struct {
	Date      string
	Focused   time.Duration
	Completed int
	Streak    int
	Closed    bool
}

// Aggregator owns the report history: one entry per day, dates strictly
// increasing.
type Aggregator struct {
	history []DayReport
	now     func() time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// Restore rebuilds an aggregator from persisted history. Entries are sorted
// by date; a later duplicate date is dropped in favor of the first.
func Restore(history []DayReport) *Aggregator {
	a := NewAggregator()
	seen := make(map[string]bool, len(history))
	for _, r := range history {
		if seen[r.Date] {
			continue
		}
		seen[r.Date] = true
		a.history = append(a.history, r)
	}
	sort.Slice(a.history, func(i, j int) bool { return a.history[i].Date < a.history[j].Date })
	return a
}

// SetClock overrides the time source. Used by tests to pin "today".
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

func (a *Aggregator) today() string {
	return a.now().Format(DateLayout)
}

func (a *Aggregator) find(date string) int {
	for i := range a.history {
		if a.history[i].Date == date {
			return i
		}
	}
	return -1
}

// RecordFocus credits a completed focus session to today's report, creating
// the entry if absent. Fails with ErrDayClosed once today was finalized.
func (a *Aggregator) RecordFocus(d time.Duration) error {
	today := a.today()
	if i := a.find(today); i >= 0 {
		if a.history[i].Closed {
			return ErrDayClosed
		}
		a.history[i].Focused += d
		a.history[i].Completed++
		return nil
	}
	a.history = append(a.history, DayReport{Date: today, Focused: d, Completed: 1})
	sort.Slice(a.history, func(i, j int) bool { return a.history[i].Date < a.history[j].Date })
	return nil
}

// EndDay finalizes today's report: the streak is yesterday's streak plus one
// when yesterday had at least one completed session, otherwise one. A day
// with no completed sessions and no focused time fails with ErrNoActivity
// rather than recording a zero entry.
func (a *Aggregator) EndDay() (DayReport, error) {
	today := a.today()
	i := a.find(today)
	if i < 0 || (a.history[i].Completed == 0 && a.history[i].Focused == 0) {
		return DayReport{}, ErrNoActivity
	}
	if a.history[i].Closed {
		return DayReport{}, ErrDayClosed
	}

	streak := 1
	yesterday := a.now().AddDate(0, 0, -1).Format(DateLayout)
	if j := a.find(yesterday); j >= 0 && a.history[j].Completed >= 1 {
		streak = a.history[j].Streak + 1
	}

	a.history[i].Streak = streak
	a.history[i].Closed = true
	return a.history[i], nil
}

// CurrentStreak counts consecutive days with at least one completed session,
// ending today. Zero when today has no entry yet.
func (a *Aggregator) CurrentStreak() int {
	streak := 0
	expected := a.now()
	for i := len(a.history) - 1; i >= 0; i-- {
		if a.history[i].Date != expected.Format(DateLayout) || a.history[i].Completed == 0 {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak scans the history for the longest run of consecutive days
// each containing at least one completed session.
func (a *Aggregator) LongestStreak() int {
	longest, run := 0, 0
	var prev time.Time
	for _, r := range a.history {
		if r.Completed == 0 {
			run = 0
			continue
		}
		day, err := time.Parse(DateLayout, r.Date)
		if err != nil {
			run = 0
			continue
		}
		if run > 0 && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		prev = day
		if run > longest {
			longest = run
		}
	}
	return longest
}

// LongestFocused returns the largest single-day focused duration on record.
func (a *Aggregator) LongestFocused() time.Duration {
	var longest time.Duration
	for _, r := range a.history {
		if r.Focused > longest {
			longest = r.Focused
		}
	}
	return longest
}

// FocusedToday returns today's focused total, zero without an entry.
func (a *Aggregator) FocusedToday() time.Duration {
	if i := a.find(a.today()); i >= 0 {
		return a.history[i].Focused
	}
	return 0
}

// SessionsToday returns today's completed-session count.
func (a *Aggregator) SessionsToday() int {
	if i := a.find(a.today()); i >= 0 {
		return a.history[i].Completed
	}
	return 0
}

// Merge applies imported history with keep-local semantics: entries for
// unknown dates are inserted in date order, entries for dates already
// present are ignored. Returns the number of days added.
func (a *Aggregator) Merge(days []DayReport) int {
	added := 0
	for _, r := range days {
		if a.find(r.Date) >= 0 {
			continue
		}
		a.history = append(a.history, r)
		added++
	}
	if added > 0 {
		sort.Slice(a.history, func(i, j int) bool { return a.history[i].Date < a.history[j].Date })
	}
	return added
}

// Clear wipes the entire history.
func (a *Aggregator) Clear() {
	a.history = nil
}

// History returns a copy of the report history in date order.
func (a *Aggregator) History() []DayReport {
	out := make([]DayReport, len(a.history))
	copy(out, a.history)
	return out
}

func (a *Aggregator) Len() int { return len(a.history) }
