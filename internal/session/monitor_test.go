package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when told to, so deadline behavior is exact.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.current }
func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestMonitor(clock *fakeClock) *Monitor {
	return NewMonitor(30*time.Minute, WithClock(clock.now))
}

func TestMonitor_StartsRunning(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	assert.Equal(t, Running, m.State())
	assert.Equal(t, 30*time.Minute, m.Remaining())
	assert.Equal(t, time.Duration(0), m.GraceRemaining())
}

func TestMonitor_VisibilityLost_StartsGraceCountdown(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	trigger := m.VisibilityLost()

	assert.False(t, trigger.Fire)
	assert.Equal(t, Suspended, m.State())
	assert.Equal(t, GraceWindow, m.GraceRemaining())
}

func TestMonitor_RefocusBeforeGrace_ResumesWithoutResettingMainClock(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	clock.advance(5 * time.Minute)
	m.VisibilityLost()
	clock.advance(10 * time.Second)

	trigger := m.VisibilityRegained()

	assert.False(t, trigger.Fire)
	assert.Equal(t, Running, m.State())
	// The time away still counts against the exam clock.
	assert.Equal(t, 30*time.Minute-5*time.Minute-10*time.Second, m.Remaining())
}

func TestMonitor_GraceElapsed_ForcesAutoSubmission(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	m.VisibilityLost()
	clock.advance(GraceWindow)

	trigger := m.Tick()

	assert.True(t, trigger.Fire)
	assert.True(t, trigger.Auto)
	assert.Equal(t, ReasonFocusLost, trigger.Reason)
	assert.Equal(t, Submitting, m.State())
}

func TestMonitor_RefocusAfterGraceElapsed_DoesNotRescue(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	m.VisibilityLost()
	clock.advance(GraceWindow + time.Second)

	trigger := m.VisibilityRegained()

	assert.True(t, trigger.Fire)
	assert.True(t, trigger.Auto)
	assert.Equal(t, ReasonFocusLost, trigger.Reason)
	assert.Equal(t, Submitting, m.State())
}

func TestMonitor_MainTimerExpiry(t *testing.T) {
	t.Run("while running", func(t *testing.T) {
		clock := newFakeClock()
		m := newTestMonitor(clock)

		clock.advance(30 * time.Minute)
		trigger := m.Tick()

		assert.True(t, trigger.Fire)
		assert.True(t, trigger.Auto)
		assert.Equal(t, ReasonTimeExpired, trigger.Reason)
		assert.Equal(t, Submitting, m.State())
	})

	t.Run("while suspended the main timer still fires", func(t *testing.T) {
		clock := newFakeClock()
		m := NewMonitor(30*time.Minute, WithClock(clock.now), WithGraceWindow(2*time.Hour))

		clock.advance(29 * time.Minute)
		m.VisibilityLost()
		clock.advance(time.Minute)

		trigger := m.Tick()

		assert.True(t, trigger.Fire)
		assert.Equal(t, ReasonTimeExpired, trigger.Reason)
	})
}

func TestMonitor_SecondTriggerIsNoOp(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	m.VisibilityLost()
	clock.advance(GraceWindow)

	first := m.Tick()
	assert.True(t, first.Fire)

	// Both deadlines may be expired at once; only the first trigger fires.
	clock.advance(time.Hour)
	assert.False(t, m.Tick().Fire)
	assert.False(t, m.Submit().Fire)
	assert.False(t, m.VisibilityLost().Fire)
	assert.False(t, m.VisibilityRegained().Fire)
	assert.Equal(t, Submitting, m.State())
}

func TestMonitor_VoluntarySubmit(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	clock.advance(10 * time.Minute)
	trigger := m.Submit()

	assert.True(t, trigger.Fire)
	assert.False(t, trigger.Auto)
	assert.Equal(t, ReasonVoluntary, trigger.Reason)
	assert.Equal(t, Submitting, m.State())
	assert.Equal(t, 10*time.Minute, m.Elapsed())
}

func TestMonitor_SubmitWhileSuspended(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	m.VisibilityLost()
	trigger := m.Submit()

	assert.True(t, trigger.Fire)
	assert.False(t, trigger.Auto)
}

func TestMonitor_AcknowledgeEndsSession(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	m.Submit()
	m.Acknowledge()

	assert.Equal(t, Ended, m.State())
	assert.False(t, m.Tick().Fire)
}

func TestMonitor_AcknowledgeOutsideSubmittingIsNoOp(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	m.Acknowledge()

	assert.Equal(t, Running, m.State())
}

func TestMonitor_RemainingFloorsAtZero(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	clock.advance(31 * time.Minute)

	assert.Equal(t, time.Duration(0), m.Remaining())
}
