package session

import (
	"errors"
	"time"
)

// Phase is a single timed interval in the pomodoro cycle.
type Phase int

const (
	Focus Phase = iota
	ShortBreak
	LongBreak
)

func (p Phase) String() string {
	switch p {
	case Focus:
		return "Focus"
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	}
	return "Unknown"
}

// State is the operational state of the timer within the current phase.
type State int

const (
	Idle State = iota
	Running
	Paused
)

var (
	ErrInvalidConfig = errors.New("session: invalid configuration")
	ErrNegativeDelta = errors.New("session: negative tick delta")
)

// Config holds the phase durations and the long-break threshold.
type Config struct {
	Focus          time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakAfter int
}

// DefaultConfig mirrors the application defaults: 25/5/60 minutes,
// long break after every 4 focus sessions.
func DefaultConfig() Config {
	return Config{
		Focus:          25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      60 * time.Minute,
		LongBreakAfter: 4,
	}
}

func (c Config) validate() error {
	if c.Focus <= 0 || c.ShortBreak <= 0 || c.LongBreak <= 0 || c.LongBreakAfter <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Duration returns the configured duration of the given phase.
func (c Config) Duration(p Phase) time.Duration {
	switch p {
	case ShortBreak:
		return c.ShortBreak
	case LongBreak:
		return c.LongBreak
	default:
		return c.Focus
	}
}

// Completion reports a finished phase to the caller. The shell forwards
// focus completions to the report aggregator and credits Worked to the
// active task.
type Completion struct {
	Phase Phase
	Next  Phase
	// Focused is the amount to credit to the daily report: the configured
	// focus duration for a focus phase, zero for breaks.
	Focused time.Duration
	// Worked is the time actually spent in the phase. Equal to the
	// configured duration on auto-completion, less on an early Finish.
	Worked time.Duration
}

// Machine is the pomodoro session state machine. It owns the single
// TimerState and is mutated only through its methods.
type Machine struct {
	cfg        Config
	phase      Phase
	state      State
	elapsed    time.Duration
	focusCount int
}

// New returns an Idle machine in the Focus phase.
func New(cfg Config) (*Machine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Machine{cfg: cfg}, nil
}

// Configure replaces the machine configuration. When the machine is Idle the
// current phase restarts from zero under the new durations; a running or
// paused phase keeps its elapsed time.
func (m *Machine) Configure(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	m.cfg = cfg
	if m.state == Idle {
		m.elapsed = 0
	}
	return nil
}

func (m *Machine) Config() Config       { return m.cfg }
func (m *Machine) Phase() Phase         { return m.phase }
func (m *Machine) State() State         { return m.state }
func (m *Machine) Elapsed() time.Duration { return m.elapsed }
func (m *Machine) FocusCount() int      { return m.focusCount }

// Remaining returns the time left in the current phase.
func (m *Machine) Remaining() time.Duration {
	left := m.cfg.Duration(m.phase) - m.elapsed
	if left < 0 {
		return 0
	}
	return left
}

// Start begins or resumes the current phase. No-op while Running.
func (m *Machine) Start() {
	if m.state == Running {
		return
	}
	m.state = Running
}

// Pause suspends a running phase. No-op unless Running.
func (m *Machine) Pause() {
	if m.state != Running {
		return
	}
	m.state = Paused
}

// Toggle starts the timer when stopped and pauses it when running.
func (m *Machine) Toggle() {
	if m.state == Running {
		m.Pause()
	} else {
		m.Start()
	}
}

// Reset returns to Idle at the start of the current phase.
func (m *Machine) Reset() {
	m.state = Idle
	m.elapsed = 0
}

// Tick advances the running timer by delta. When elapsed reaches the
// configured duration the phase completes and the machine moves to Idle in
// the next phase. Tick(0) never changes state.
func (m *Machine) Tick(delta time.Duration) (*Completion, error) {
	if err := m.cfg.validate(); err != nil {
		return nil, err
	}
	if delta < 0 {
		return nil, ErrNegativeDelta
	}
	if m.state != Running || delta == 0 {
		return nil, nil
	}

	m.elapsed += delta
	if m.elapsed < m.cfg.Duration(m.phase) {
		return nil, nil
	}
	return m.complete(m.cfg.Duration(m.phase)), nil
}

// Finish force-completes the current phase regardless of elapsed time.
func (m *Machine) Finish() (*Completion, error) {
	if err := m.cfg.validate(); err != nil {
		return nil, err
	}
	return m.complete(m.elapsed), nil
}

// complete applies the phase-completion side effect: focus phases advance
// the long-break counter, breaks always lead back to focus. The machine
// lands Idle at the start of the next phase.
func (m *Machine) complete(worked time.Duration) *Completion {
	comp := &Completion{Phase: m.phase, Worked: worked}

	switch m.phase {
	case Focus:
		comp.Focused = m.cfg.Focus
		m.focusCount++
		if m.focusCount >= m.cfg.LongBreakAfter {
			m.focusCount = 0
			comp.Next = LongBreak
		} else {
			comp.Next = ShortBreak
		}
	default:
		comp.Next = Focus
	}

	m.phase = comp.Next
	m.state = Idle
	m.elapsed = 0
	return comp
}
