// Package session holds the client-resident control loop of one in-progress
// exam attempt: the countdown, focus-loss detection and the escalation to a
// forced submission.
package session

import (
	"time"
)

// GraceWindow is the fixed countdown after focus loss before the attempt is
// force-submitted. Engine-wide constant, not per-test configuration.
const GraceWindow = 20 * time.Second

type State int

const (
	Running State = iota
	Suspended
	Submitting
	Ended
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Suspended:
		return "Suspended"
	case Submitting:
		return "Submitting"
	case Ended:
		return "Ended"
	}
	return "Unknown"
}

// SubmitReason records what pushed the session into Submitting.
type SubmitReason int

const (
	ReasonNone SubmitReason = iota
	ReasonVoluntary
	ReasonTimeExpired
	ReasonFocusLost
)

// Trigger is the reducer's output: whether a submission must start now, why,
// and whether it counts as auto (timer or violation driven).
type Trigger struct {
	Fire   bool
	Auto   bool
	Reason SubmitReason
}

var noTrigger = Trigger{}

// Monitor is a pure state machine over {Running, Suspended, Submitting,
// Ended}, advanced by discrete inputs. Time is read through an injected clock
// so transitions are testable without wall-clock waits.
//
// The exam deadline and the grace countdown are independent clocks; both may
// be driving toward Submitting concurrently. Whichever fires first wins, and
// later triggers are no-ops.
type Monitor struct {
	state         State
	startedAt     time.Time
	deadline      time.Time
	graceDeadline time.Time
	graceWindow   time.Duration
	now           func() time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithGraceWindow overrides the focus-loss grace countdown, for tests.
func WithGraceWindow(d time.Duration) Option {
	return func(m *Monitor) { m.graceWindow = d }
}

// NewMonitor starts a session clock running for the given duration.
func NewMonitor(duration time.Duration, opts ...Option) *Monitor {
	m := &Monitor{
		state:       Running,
		graceWindow: GraceWindow,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.startedAt = m.now()
	m.deadline = m.startedAt.Add(duration)
	return m
}

func (m *Monitor) State() State {
	return m.state
}

// Remaining returns the time left on the main exam clock, floored at zero.
func (m *Monitor) Remaining() time.Duration {
	remaining := m.deadline.Sub(m.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Elapsed returns how long the session has been running.
func (m *Monitor) Elapsed() time.Duration {
	return m.now().Sub(m.startedAt)
}

// GraceRemaining returns the time left on the grace countdown, or zero when
// the session is not suspended.
func (m *Monitor) GraceRemaining() time.Duration {
	if m.state != Suspended {
		return 0
	}
	remaining := m.graceDeadline.Sub(m.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// VisibilityLost moves Running -> Suspended and starts the grace countdown.
// The main exam clock keeps running; time lost while away still counts.
func (m *Monitor) VisibilityLost() Trigger {
	if m.state != Running {
		return noTrigger
	}
	m.state = Suspended
	m.graceDeadline = m.now().Add(m.graceWindow)
	return noTrigger
}

// VisibilityRegained moves Suspended -> Running and cancels the grace
// countdown. It does not reset the main exam clock.
func (m *Monitor) VisibilityRegained() Trigger {
	if m.state != Suspended {
		return noTrigger
	}
	// Regaining focus after the grace elapsed does not rescue the session.
	if !m.now().Before(m.graceDeadline) {
		return m.escalate(ReasonFocusLost)
	}
	m.state = Running
	m.graceDeadline = time.Time{}
	return noTrigger
}

// Tick checks both deadlines. It is safe to call from any state; once the
// session is Submitting or Ended it is a no-op.
func (m *Monitor) Tick() Trigger {
	switch m.state {
	case Running:
		if !m.now().Before(m.deadline) {
			return m.escalate(ReasonTimeExpired)
		}
	case Suspended:
		// The main timer fires even while suspended.
		if !m.now().Before(m.deadline) {
			return m.escalate(ReasonTimeExpired)
		}
		if !m.now().Before(m.graceDeadline) {
			return m.escalate(ReasonFocusLost)
		}
	}
	return noTrigger
}

// Submit is the student's voluntary submission.
func (m *Monitor) Submit() Trigger {
	if m.state != Running && m.state != Suspended {
		return noTrigger
	}
	m.state = Submitting
	return Trigger{Fire: true, Auto: false, Reason: ReasonVoluntary}
}

// Acknowledge marks the submission as acknowledged (success or definitive
// failure) and ends the session. Terminal.
func (m *Monitor) Acknowledge() {
	if m.state == Submitting {
		m.state = Ended
	}
}

func (m *Monitor) escalate(reason SubmitReason) Trigger {
	m.state = Submitting
	return Trigger{Fire: true, Auto: true, Reason: reason}
}
