package countdown

import (
	"errors"
	"sync"
	"time"
)

const (
	// DefaultSeconds is the duration a freshly mounted timer counts down from.
	DefaultSeconds = 300
	// TickInterval is the real time that must elapse before a tick fires.
	TickInterval = time.Second
)

// ErrRunning is returned when an operation requires the timer to be paused.
var ErrRunning = errors.New("timer is running")

// State is a snapshot of the timer.
type State struct {
	Remaining int  `json:"remaining_seconds"`
	Initial   int  `json:"initial_seconds"`
	Running   bool `json:"is_running"`
	Negative  bool `json:"is_negative"`
}

// Timer holds countdown state and applies frames to it. It does not schedule
// anything itself; a Scheduler or an event loop calls Frame.
//
// Every Start, Stop and Reset bumps a generation counter. Frames carrying an
// older generation are ignored, so a callback that was already in flight when
// the timer was paused can never tick.
type Timer struct {
	mu       sync.Mutex
	state    State
	lastTick time.Time
	target   time.Time
	gen      uint64
}

// New returns a paused timer counting down from initial seconds.
// A non-positive initial falls back to DefaultSeconds.
func New(initial int) *Timer {
	if initial <= 0 {
		initial = DefaultSeconds
	}
	return &Timer{state: State{Remaining: initial, Initial: initial}}
}

// State returns a copy of the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Generation returns the current frame generation.
func (t *Timer) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// Target returns the absolute target, or the zero time in duration mode.
func (t *Timer) Target() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Start marks the timer running and returns the generation frames must carry.
// Starting a running timer is a no-op and reports false.
func (t *Timer) Start() (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Running {
		return t.gen, false
	}
	t.state.Running = true
	t.lastTick = time.Time{}
	t.gen++
	return t.gen, true
}

// Stop pauses the timer and clears the reference timestamp so the next Start
// opens a fresh one-second window. Stopping a paused timer reports false.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.Running {
		return false
	}
	t.state.Running = false
	t.lastTick = time.Time{}
	t.gen++
	return true
}

// Reset restores remaining to initial and clears the running and overtime
// flags, whatever the prior state.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Remaining = t.state.Initial
	t.state.Running = false
	t.state.Negative = false
	t.lastTick = time.Time{}
	t.gen++
}

// SetInitial changes the duration and resets remaining to it. It fails with
// ErrRunning unless the timer is paused, and clears any absolute target.
func (t *Timer) SetInitial(seconds int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Running {
		return ErrRunning
	}
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	t.target = time.Time{}
	t.state = State{Remaining: seconds, Initial: seconds}
	t.gen++
	return nil
}

// SetTarget switches the timer to absolute-target mode. Remaining becomes the
// seconds left until target. A zero or past target yields an inert zero
// countdown. It fails with ErrRunning unless the timer is paused.
func (t *Timer) SetTarget(target, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Running {
		return ErrRunning
	}
	left := UntilTarget(target, now)
	if left == 0 {
		target = time.Time{}
	}
	t.target = target
	t.state = State{Remaining: left, Initial: left}
	t.gen++
	return nil
}

// SetRemaining overwrites remaining without touching the other fields.
// Going negative latches Negative; a nonnegative value never clears it.
func (t *Timer) SetRemaining(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Remaining = seconds
	if seconds < 0 {
		t.state.Negative = true
	}
}

// Frame applies one frame callback at now for generation gen. It reports
// whether a tick fired and whether the frame chain is still live; a stale
// generation or a paused timer returns live=false and mutates nothing.
func (t *Timer) Frame(gen uint64, now time.Time) (st State, ticked, live bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || !t.state.Running {
		return t.state, false, false
	}
	if t.lastTick.IsZero() {
		t.lastTick = now
		return t.state, false, true
	}
	if now.Sub(t.lastTick) <= TickInterval {
		return t.state, false, true
	}
	t.lastTick = now
	if t.target.IsZero() {
		t.state.Remaining--
	} else {
		t.state.Remaining = UntilTarget(t.target, now)
	}
	if t.state.Remaining < 0 {
		t.state.Negative = true
	}
	if !t.target.IsZero() && t.state.Remaining == 0 {
		// Absolute targets halt at zero instead of running into overtime.
		t.state.Running = false
		t.lastTick = time.Time{}
		t.gen++
		return t.state, true, false
	}
	return t.state, true, true
}
