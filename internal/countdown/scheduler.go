package countdown

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultFrameInterval approximates display frame pacing.
const DefaultFrameInterval = 50 * time.Millisecond

// Scheduler drives a Timer with a chain of frame callbacks. At most one
// callback is pending at any time and Stop cancels it synchronously.
type Scheduler struct {
	timer    *Timer
	clock    Clock
	interval time.Duration
	onTick   func(State)
	onHalt   func(State)

	mu      sync.Mutex
	pending Stopper
	runID   string
	closed  bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithFrameInterval sets the delay between frame callbacks.
func WithFrameInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithOnTick registers an observer called after every tick, outside any lock.
func WithOnTick(f func(State)) Option {
	return func(s *Scheduler) { s.onTick = f }
}

// WithOnHalt registers an observer called when the timer halts on its own
// (an absolute target reaching zero).
func WithOnHalt(f func(State)) Option {
	return func(s *Scheduler) { s.onHalt = f }
}

// NewScheduler wraps t. The timer may still be read directly; mutate running
// state only through the scheduler so pending callbacks stay in step.
func NewScheduler(t *Timer, opts ...Option) *Scheduler {
	s := &Scheduler{
		timer:    t,
		clock:    SystemClock,
		interval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timer returns the driven timer.
func (s *Scheduler) Timer() *Timer { return s.timer }

// RunID identifies the current (or last) run in logs.
func (s *Scheduler) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Start begins the frame chain. It is a no-op when already running or closed.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	gen, ok := s.timer.Start()
	if !ok {
		return false
	}
	s.runID = uuid.NewString()
	logrus.WithFields(logrus.Fields{
		"run_id":    s.runID,
		"remaining": s.timer.State().Remaining,
	}).Debug("countdown started")
	s.scheduleLocked(gen)
	return true
}

// Stop pauses the timer and cancels the pending callback before returning.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

// Toggle starts a paused timer or pauses a running one and reports whether it
// is now running.
func (s *Scheduler) Toggle() bool {
	s.mu.Lock()
	running := s.timer.State().Running
	s.mu.Unlock()
	if running {
		s.Stop()
		return false
	}
	return s.Start()
}

// Reset cancels any pending callback and restores the timer to its initial
// duration.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.timer.Reset()
}

// Close stops the scheduler for good. Later Start calls are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.closed = true
}

func (s *Scheduler) stopLocked() bool {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	stopped := s.timer.Stop()
	if stopped {
		logrus.WithFields(logrus.Fields{
			"run_id":    s.runID,
			"remaining": s.timer.State().Remaining,
		}).Debug("countdown paused")
	}
	return stopped
}

func (s *Scheduler) scheduleLocked(gen uint64) {
	s.pending = s.clock.AfterFunc(s.interval, func() { s.frame(gen) })
}

func (s *Scheduler) frame(gen uint64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	st, ticked, live := s.timer.Frame(gen, s.clock.Now())
	halted := ticked && !live
	switch {
	case live:
		s.scheduleLocked(gen)
	case halted:
		// Stale frames leave pending alone: it may belong to a newer chain.
		s.pending = nil
	}
	s.mu.Unlock()

	if ticked && s.onTick != nil {
		s.onTick(st)
	}
	if halted {
		logrus.WithField("run_id", s.RunID()).Debug("countdown reached target")
		if s.onHalt != nil {
			s.onHalt(st)
		}
	}
}
