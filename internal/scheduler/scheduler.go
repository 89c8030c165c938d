package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ActivityState is the coarse user-activity signal that drives the polling
// cadence.
type ActivityState int

const (
	// StateActive: recent user input, poll on the short interval.
	StateActive ActivityState = iota
	// StateIdle: no input for a while, poll on the long interval.
	StateIdle
	// StateHidden: storefront not visible, polling is paused.
	StateHidden
)

func (s ActivityState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateIdle:
		return "idle"
	case StateHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Intervals is the deterministic state-to-interval table.
type Intervals struct {
	// Active is the poll interval while the user is interacting.
	Active time.Duration
	// Idle is the poll interval after IdleAfter without input.
	Idle time.Duration
	// IdleAfter is how long without input before the session counts as
	// idle.
	IdleAfter time.Duration
}

// DefaultIntervals matches the storefront's tuning: fast while someone is
// browsing the menu, relaxed otherwise.
func DefaultIntervals() Intervals {
	return Intervals{
		Active:    30 * time.Second,
		Idle:      3 * time.Minute,
		IdleAfter: 2 * time.Minute,
	}
}

// Scheduler periodically triggers catalog reloads, modulating the interval
// by user activity and pausing entirely while the storefront is hidden.
// It is independent of any particular reload implementation; it only calls
// the function it is given.
type Scheduler struct {
	intervals Intervals
	reload    func(ctx context.Context)
	logger    *zap.Logger
	kick      chan struct{}
	now       func() time.Time

	mu        sync.Mutex
	lastInput time.Time
	visible   bool
}

// New creates a Scheduler. The session starts visible and active.
func New(intervals Intervals, reload func(ctx context.Context), logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		intervals: intervals,
		reload:    reload,
		logger:    logger,
		kick:      make(chan struct{}, 1),
		now:       time.Now,
	}
	s.lastInput = s.now()
	s.visible = true
	return s
}

// Touch records user input, resetting the idle clock.
func (s *Scheduler) Touch() {
	s.mu.Lock()
	s.lastInput = s.now()
	s.mu.Unlock()
}

// SetVisible records whether the storefront is currently visible. Becoming
// visible again counts as input and kicks an immediate cycle so the menu
// is fresh when the customer comes back.
func (s *Scheduler) SetVisible(visible bool) {
	s.mu.Lock()
	wasVisible := s.visible
	s.visible = visible
	if visible {
		s.lastInput = s.now()
	}
	s.mu.Unlock()

	if visible && !wasVisible {
		s.ForceRefresh()
	}
}

// State returns the current activity state by deterministic lookup.
func (s *Scheduler) State() ActivityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Scheduler) stateLocked() ActivityState {
	if !s.visible {
		return StateHidden
	}
	if s.now().Sub(s.lastInput) > s.intervals.IdleAfter {
		return StateIdle
	}
	return StateActive
}

// interval returns the current poll delay and whether polling is enabled
// at all in the current state.
func (s *Scheduler) interval() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.stateLocked() {
	case StateActive:
		return s.intervals.Active, true
	case StateIdle:
		return s.intervals.Idle, true
	default:
		// While hidden we still wake up on the idle cadence to re-check
		// visibility, but we skip the reload.
		return s.intervals.Idle, false
	}
}

// ForceRefresh requests an immediate reload cycle, used by the manual
// refresh endpoint and by visibility transitions.
func (s *Scheduler) ForceRefresh() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled. One reload runs at a time; the loop
// never overlaps its own cycles (overlap between a reload and user cart
// mutations is resolved downstream by reconciliation).
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}

	for {
		delay, enabled := s.interval()
		timer.Reset(delay)

		select {
		case <-ctx.Done():
			return
		case <-s.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			s.logger.Debug("Refresh requested", zap.String("state", s.State().String()))
			s.reload(ctx)
		case <-timer.C:
			if !enabled {
				continue
			}
			s.logger.Debug("Scheduled refresh", zap.String("state", s.State().String()))
			s.reload(ctx)
		}
	}
}
