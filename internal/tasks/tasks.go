package tasks

import (
	"errors"
	"strings"
	"time"
)

// Capacity is the maximum number of concurrent tasks.
const Capacity = 10

// Status of a task in the list.
type Status int

const (
	Inactive Status = iota
	Active
	Completed
)

// Direction for moving the active designation.
type Direction int

const (
	Up Direction = iota
	Down
)

var (
	ErrCapacityExceeded = errors.New("tasks: capacity exceeded")
	ErrNotFound         = errors.New("tasks: task not found")
	ErrEmptyTitle       = errors.New("tasks: empty title")
)

// Task is a single to-do item. Spent accumulates focus time credited while
// the task was active.
type Task struct {
	ID     int64
	Title  string
	Status Status
	Spent  time.Duration
}

// List is an ordered collection of at most Capacity tasks with at most one
// Active task. Slice order is creation and display order.
type List struct {
	tasks  []Task
	nextID int64
}

func NewList() *List {
	return &List{nextID: 1}
}

// Restore rebuilds a list from persisted tasks, preserving order. The
// single-active invariant is re-enforced: only the first Active task keeps
// its designation.
func Restore(ts []Task) *List {
	l := NewList()
	seen := false
	for _, t := range ts {
		if len(l.tasks) == Capacity {
			break
		}
		if t.Status == Active {
			if seen {
				t.Status = Inactive
			}
			seen = true
		}
		l.tasks = append(l.tasks, t)
		if t.ID >= l.nextID {
			l.nextID = t.ID + 1
		}
	}
	return l
}

// Add appends a new Inactive task.
func (l *List) Add(title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	if len(l.tasks) >= Capacity {
		return Task{}, ErrCapacityExceeded
	}
	t := Task{ID: l.nextID, Title: title}
	l.nextID++
	l.tasks = append(l.tasks, t)
	return t, nil
}

func (l *List) find(id int64) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Activate makes the task with the given id the single Active task,
// deactivating any other. Activating the already-active task deactivates
// it. A Completed task becomes active (and incomplete) again.
func (l *List) Activate(id int64) error {
	i := l.find(id)
	if i < 0 {
		return ErrNotFound
	}
	wasActive := l.tasks[i].Status == Active
	for j := range l.tasks {
		if l.tasks[j].Status == Active {
			l.tasks[j].Status = Inactive
		}
	}
	if !wasActive {
		l.tasks[i].Status = Active
	}
	return nil
}

// Deactivate clears the Active designation, if any.
func (l *List) Deactivate() {
	for i := range l.tasks {
		if l.tasks[i].Status == Active {
			l.tasks[i].Status = Inactive
		}
	}
}

// Complete toggles the completion status of a task. Completing the active
// task moves the Active designation to the first incomplete task.
func (l *List) Complete(id int64) error {
	i := l.find(id)
	if i < 0 {
		return ErrNotFound
	}
	if l.tasks[i].Status == Completed {
		l.tasks[i].Status = Inactive
		return nil
	}
	wasActive := l.tasks[i].Status == Active
	l.tasks[i].Status = Completed
	if wasActive {
		for j := range l.tasks {
			if l.tasks[j].Status != Completed {
				l.tasks[j].Status = Active
				break
			}
		}
	}
	return nil
}

// Edit replaces a task's title. Blank titles are rejected.
func (l *List) Edit(id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	i := l.find(id)
	if i < 0 {
		return ErrNotFound
	}
	l.tasks[i].Title = title
	return nil
}

// Delete removes a task. If the active task is deleted the designation
// moves to the first incomplete task.
func (l *List) Delete(id int64) error {
	i := l.find(id)
	if i < 0 {
		return ErrNotFound
	}
	wasActive := l.tasks[i].Status == Active
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	if wasActive {
		for j := range l.tasks {
			if l.tasks[j].Status != Completed {
				l.tasks[j].Status = Active
				break
			}
		}
	}
	return nil
}

// Navigate moves the Active designation to the previous or next incomplete
// task in display order, clamping at the ends. No-op without an active task.
func (l *List) Navigate(dir Direction) {
	var open []int
	cur := -1
	for i := range l.tasks {
		if l.tasks[i].Status == Completed {
			continue
		}
		if l.tasks[i].Status == Active {
			cur = len(open)
		}
		open = append(open, i)
	}
	if cur < 0 || len(open) == 0 {
		return
	}

	next := cur
	switch dir {
	case Up:
		if next > 0 {
			next--
		}
	case Down:
		if next < len(open)-1 {
			next++
		}
	}
	if next == cur {
		return
	}
	l.tasks[open[cur]].Status = Inactive
	l.tasks[open[next]].Status = Active
}

// Active returns the currently active task, if any.
func (l *List) Active() (Task, bool) {
	for _, t := range l.tasks {
		if t.Status == Active {
			return t, true
		}
	}
	return Task{}, false
}

// CreditActive adds focus time to the active task's spent total.
func (l *List) CreditActive(d time.Duration) {
	for i := range l.tasks {
		if l.tasks[i].Status == Active {
			l.tasks[i].Spent += d
			return
		}
	}
}

// CompletedStats returns the number of completed tasks and the total time
// spent on them.
func (l *List) CompletedStats() (time.Duration, int) {
	var spent time.Duration
	count := 0
	for _, t := range l.tasks {
		if t.Status == Completed {
			spent += t.Spent
			count++
		}
	}
	return spent, count
}

// EndDay removes completed tasks from the list and returns their stats.
func (l *List) EndDay() (time.Duration, int) {
	spent, count := l.CompletedStats()
	kept := l.tasks[:0]
	for _, t := range l.tasks {
		if t.Status != Completed {
			kept = append(kept, t)
		}
	}
	l.tasks = kept
	return spent, count
}

// Tasks returns a copy of the list in display order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *List) Len() int { return len(l.tasks) }
