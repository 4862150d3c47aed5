package tui

import (
	"errors"
	"time"
)

// Message types for Bubble Tea update loop.

// frameMsg is one frame callback. Gen ties it to the run that scheduled it;
// frames from a paused or reset run are dropped.
type frameMsg struct {
	Gen uint64
	At  time.Time
}

// statusMsg replaces the transient status line.
type statusMsg struct {
	Text string
	Err  error
}

// ErrNoTarget is reported when start is pressed in target mode without a target.
var ErrNoTarget = errors.New("no target set")
