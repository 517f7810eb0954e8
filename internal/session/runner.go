package session

import (
	"context"
	"errors"
	"time"

	"github.com/openclass-labs/exam-engine/internal/utils"
)

// tickInterval bounds how stale the runner's view of the two deadlines can be.
const tickInterval = 500 * time.Millisecond

// ErrSessionEnded is returned by Runner inputs after the session is over.
var ErrSessionEnded = errors.New("session already ended")

// SubmitFunc delivers the attempt to the ledger. Conflict outcomes must be
// treated as terminal success by the implementation's caller; transient
// errors may be retried with the same idempotency guarantee.
type SubmitFunc func(ctx context.Context, elapsedSeconds int, isAuto bool) error

// Runner drives a Monitor with real clocks. Visibility changes arrive through
// the exported methods; the exam timer and grace countdown fire on their own.
// Once Submitting begins the submit call runs to completion and is never
// abandoned mid-flight.
type Runner struct {
	monitor *Monitor
	submit  SubmitFunc
	logger  utils.Logger

	inputs chan inputEvent
	done   chan struct{}
}

type inputKind int

const (
	inputBlur inputKind = iota
	inputFocus
	inputSubmit
)

type inputEvent struct {
	kind inputKind
}

func NewRunner(monitor *Monitor, submit SubmitFunc, logger utils.Logger) *Runner {
	return &Runner{
		monitor: monitor,
		submit:  submit,
		logger:  logger,
		inputs:  make(chan inputEvent, 8),
		done:    make(chan struct{}),
	}
}

// VisibilityLost reports that the monitored surface lost foreground focus.
func (r *Runner) VisibilityLost() error { return r.send(inputBlur) }

// VisibilityRegained reports that focus came back.
func (r *Runner) VisibilityRegained() error { return r.send(inputFocus) }

// Submit requests a voluntary submission.
func (r *Runner) Submit() error { return r.send(inputSubmit) }

// Done is closed when the session reaches Ended.
func (r *Runner) Done() <-chan struct{} { return r.done }

func (r *Runner) send(kind inputKind) error {
	select {
	case <-r.done:
		return ErrSessionEnded
	case r.inputs <- inputEvent{kind: kind}:
		return nil
	}
}

// Run owns the session until it ends. ctx cancellation stops the loop only
// while no submission is in flight; a started submission always completes.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		var trigger Trigger

		select {
		case <-ctx.Done():
			r.logger.Warn("Session runner cancelled",
				"state", r.monitor.State().String())
			return
		case ev := <-r.inputs:
			switch ev.kind {
			case inputBlur:
				trigger = r.monitor.VisibilityLost()
				if r.monitor.State() == Suspended {
					r.logger.Warn("Focus lost, grace countdown started",
						"grace_remaining", r.monitor.GraceRemaining().String())
				}
			case inputFocus:
				trigger = r.monitor.VisibilityRegained()
				if r.monitor.State() == Running {
					r.logger.Info("Focus regained",
						"remaining", r.monitor.Remaining().String())
				}
			case inputSubmit:
				trigger = r.monitor.Submit()
			}
		case <-ticker.C:
			trigger = r.monitor.Tick()
		}

		if trigger.Fire {
			r.deliver(trigger)
			return
		}
	}
}

// deliver pushes the attempt to the ledger. Uses a background context so the
// in-flight submission cannot be cancelled from outside; a half-submitted
// exam is a data-integrity hazard.
func (r *Runner) deliver(trigger Trigger) {
	elapsed := int(r.monitor.Elapsed().Seconds())

	r.logger.Info("Submitting session",
		"auto", trigger.Auto,
		"reason", reasonString(trigger.Reason),
		"elapsed_seconds", elapsed)

	err := r.submit(context.Background(), elapsed, trigger.Auto)
	if err != nil {
		r.logger.Error("Session submission failed", "error", err)
	}

	r.monitor.Acknowledge()
}

func reasonString(reason SubmitReason) string {
	switch reason {
	case ReasonVoluntary:
		return "voluntary"
	case ReasonTimeExpired:
		return "time_expired"
	case ReasonFocusLost:
		return "focus_lost"
	}
	return "none"
}
