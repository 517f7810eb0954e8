package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openclass-labs/exam-engine/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestRunner_VoluntarySubmitDeliversOnce(t *testing.T) {
	logger := utils.NewDevelopmentLogger()
	monitor := NewMonitor(time.Hour)

	var calls atomic.Int32
	var gotAuto atomic.Bool
	runner := NewRunner(monitor, func(ctx context.Context, elapsedSeconds int, isAuto bool) error {
		calls.Add(1)
		gotAuto.Store(isAuto)
		return nil
	}, logger)

	go runner.Run(context.Background())

	assert.NoError(t, runner.Submit())

	select {
	case <-runner.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not finish")
	}

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, gotAuto.Load())
	assert.Equal(t, Ended, monitor.State())

	assert.ErrorIs(t, runner.Submit(), ErrSessionEnded)
	assert.ErrorIs(t, runner.VisibilityLost(), ErrSessionEnded)
}

func TestRunner_GraceExpiryAutoSubmits(t *testing.T) {
	logger := utils.NewDevelopmentLogger()
	monitor := NewMonitor(time.Hour, WithGraceWindow(100*time.Millisecond))

	var gotAuto atomic.Bool
	runner := NewRunner(monitor, func(ctx context.Context, elapsedSeconds int, isAuto bool) error {
		gotAuto.Store(isAuto)
		return nil
	}, logger)

	go runner.Run(context.Background())

	assert.NoError(t, runner.VisibilityLost())

	select {
	case <-runner.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not auto-submit after grace expiry")
	}

	assert.True(t, gotAuto.Load())
	assert.Equal(t, Ended, monitor.State())
}

func TestRunner_TimeExpiryAutoSubmits(t *testing.T) {
	logger := utils.NewDevelopmentLogger()
	monitor := NewMonitor(100 * time.Millisecond)

	var gotAuto atomic.Bool
	runner := NewRunner(monitor, func(ctx context.Context, elapsedSeconds int, isAuto bool) error {
		gotAuto.Store(isAuto)
		return nil
	}, logger)

	go runner.Run(context.Background())

	select {
	case <-runner.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not auto-submit after time expiry")
	}

	assert.True(t, gotAuto.Load())
}

func TestRunner_RefocusBeforeGraceKeepsSessionAlive(t *testing.T) {
	logger := utils.NewDevelopmentLogger()
	monitor := NewMonitor(time.Hour, WithGraceWindow(30*time.Second))

	var gotAuto atomic.Bool
	runner := NewRunner(monitor, func(ctx context.Context, elapsedSeconds int, isAuto bool) error {
		gotAuto.Store(isAuto)
		return nil
	}, logger)

	go runner.Run(context.Background())

	assert.NoError(t, runner.VisibilityLost())
	assert.NoError(t, runner.VisibilityRegained())
	assert.NoError(t, runner.Submit())

	select {
	case <-runner.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not finish")
	}

	// The refocus cancelled the grace countdown, so the only submission is
	// the voluntary one.
	assert.False(t, gotAuto.Load())
	assert.Equal(t, Ended, monitor.State())
}
