package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countclock/internal/countdown"
	"github.com/ensigniasec/countclock/internal/palette"
)

type plainOptions struct {
	FrameInterval time.Duration
	// Overtime keeps the countdown going past zero until ctx is cancelled.
	Overtime bool
	// Clock overrides the wall clock; nil means countdown.SystemClock.
	Clock countdown.Clock
}

// runPlain prints one coloured line per second until the countdown finishes
// or ctx is cancelled. Colour is dropped when w is not a terminal.
func runPlain(ctx context.Context, w io.Writer, timer *countdown.Timer, opts plainOptions) error {
	out := termenv.NewOutput(w)

	var (
		mu       sync.Mutex
		finished bool
		done     = make(chan struct{})
	)
	finish := func() {
		if !finished {
			finished = true
			close(done)
		}
	}
	printState := func(st countdown.State) {
		mu.Lock()
		defer mu.Unlock()
		if finished {
			return
		}
		writeLine(out, w, st)
		if st.Remaining <= 0 && !opts.Overtime {
			finish()
		}
	}

	schedOpts := []countdown.Option{
		countdown.WithOnTick(printState),
		countdown.WithOnHalt(func(countdown.State) {
			mu.Lock()
			defer mu.Unlock()
			finish()
		}),
	}
	if opts.FrameInterval > 0 {
		schedOpts = append(schedOpts, countdown.WithFrameInterval(opts.FrameInterval))
	}
	if opts.Clock != nil {
		schedOpts = append(schedOpts, countdown.WithClock(opts.Clock))
	}
	sched := countdown.NewScheduler(timer, schedOpts...)

	printState(timer.State())
	mu.Lock()
	zero := finished
	mu.Unlock()
	if !zero {
		sched.Start()
	}

	interrupted := false
	select {
	case <-ctx.Done():
		interrupted = true
	case <-done:
	}
	sched.Close()

	mu.Lock()
	defer mu.Unlock()
	finished = true
	if interrupted {
		logrus.WithField("run_id", sched.RunID()).Debug("countdown interrupted")
		return nil
	}
	_, err := fmt.Fprintln(w, "Time's up")
	return err
}

func writeLine(out *termenv.Output, w io.Writer, st countdown.State) {
	sample := palette.ForState(st.Remaining, st.Initial, st.Negative)
	face := out.String(countdown.Format(st.Remaining)).Foreground(out.Color(sample.Hex())).Bold()
	switch {
	case st.Negative:
		fmt.Fprintf(w, "%s  OVERTIME\n", face)
	case palette.Warning(st.Remaining):
		fmt.Fprintf(w, "%s  LAST MINUTE\n", face)
	default:
		fmt.Fprintf(w, "%s\n", face)
	}
}
