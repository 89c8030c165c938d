package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStateLookup(t *testing.T) {
	clock := time.Unix(1000, 0)
	s := New(DefaultIntervals(), func(context.Context) {}, zap.NewNop())
	s.now = func() time.Time { return clock }
	s.Touch()

	assert.Equal(t, StateActive, s.State())

	clock = clock.Add(3 * time.Minute)
	assert.Equal(t, StateIdle, s.State())

	s.Touch()
	assert.Equal(t, StateActive, s.State())

	s.SetVisible(false)
	assert.Equal(t, StateHidden, s.State())

	s.SetVisible(true)
	assert.Equal(t, StateActive, s.State())
}

func TestIntervalTable(t *testing.T) {
	intervals := Intervals{Active: time.Second, Idle: time.Minute, IdleAfter: 10 * time.Second}
	clock := time.Unix(1000, 0)
	s := New(intervals, func(context.Context) {}, zap.NewNop())
	s.now = func() time.Time { return clock }
	s.Touch()

	d, enabled := s.interval()
	assert.Equal(t, time.Second, d)
	assert.True(t, enabled)

	clock = clock.Add(11 * time.Second)
	d, enabled = s.interval()
	assert.Equal(t, time.Minute, d)
	assert.True(t, enabled)

	s.SetVisible(false)
	_, enabled = s.interval()
	assert.False(t, enabled, "no polling while hidden")
}

func TestRunPollsAndStops(t *testing.T) {
	var reloads atomic.Int32
	intervals := Intervals{Active: 5 * time.Millisecond, Idle: time.Hour, IdleAfter: time.Hour}
	s := New(intervals, func(context.Context) { reloads.Add(1) }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return reloads.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestForceRefreshRunsImmediately(t *testing.T) {
	var reloads atomic.Int32
	intervals := Intervals{Active: time.Hour, Idle: time.Hour, IdleAfter: time.Hour}
	s := New(intervals, func(context.Context) { reloads.Add(1) }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.ForceRefresh()
	assert.Eventually(t, func() bool { return reloads.Load() == 1 }, time.Second, time.Millisecond)
}

func TestBecomingVisibleKicksRefresh(t *testing.T) {
	var reloads atomic.Int32
	intervals := Intervals{Active: time.Hour, Idle: time.Hour, IdleAfter: time.Hour}
	s := New(intervals, func(context.Context) { reloads.Add(1) }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.SetVisible(false)
	s.SetVisible(true)
	assert.Eventually(t, func() bool { return reloads.Load() == 1 }, time.Second, time.Millisecond)
}
